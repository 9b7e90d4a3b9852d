package memory

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/WinsonMARS/hospitalmanagement/internal/model"
	apperrors "github.com/WinsonMARS/hospitalmanagement/pkg/errors"
)

type doctorRepo struct {
	store *Store
}

func (r *doctorRepo) CreateWithUser(ctx context.Context, user *model.User, doctor *model.Doctor) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	if doctor.ID == uuid.Nil {
		doctor.ID = uuid.New()
	}
	now := r.store.next()
	user.CreatedAt, user.UpdatedAt = now, now
	doctor.CreatedAt, doctor.UpdatedAt = now, now
	doctor.UserID = user.ID

	copiedUser := *user
	copiedDoctor := *doctor
	r.store.users[user.ID] = &copiedUser
	r.store.doctors[doctor.ID] = &copiedDoctor
	return nil
}

// join mirrors the postgres read, which pulls email and name from users.
func (r *doctorRepo) join(doctor *model.Doctor) *model.Doctor {
	copied := *doctor
	if user, ok := r.store.users[doctor.UserID]; ok {
		copied.Email = user.Email
		copied.FirstName = user.FirstName
		copied.LastName = user.LastName
	}
	return &copied
}

func (r *doctorRepo) Get(ctx context.Context, id uuid.UUID) (*model.Doctor, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	doctor, ok := r.store.doctors[id]
	if !ok {
		return nil, apperrors.NotFound("doctor", nil)
	}
	return r.join(doctor), nil
}

func (r *doctorRepo) GetByUserID(ctx context.Context, userID uuid.UUID) (*model.Doctor, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, doctor := range r.store.doctors {
		if doctor.UserID == userID {
			return r.join(doctor), nil
		}
	}
	return nil, apperrors.NotFound("doctor", nil)
}

func (r *doctorRepo) Update(ctx context.Context, doctor *model.Doctor) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	stored, ok := r.store.doctors[doctor.ID]
	if !ok {
		return apperrors.NotFound("doctor", nil)
	}
	now := r.store.next()

	stored.Mobile = doctor.Mobile
	stored.Address = doctor.Address
	stored.Department = doctor.Department
	stored.UpdatedAt = now

	if user, ok := r.store.users[stored.UserID]; ok {
		user.Email = doctor.Email
		user.FirstName = doctor.FirstName
		user.LastName = doctor.LastName
		user.UpdatedAt = now
	}
	return nil
}

func (r *doctorRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status model.ApprovalStatus) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	doctor, ok := r.store.doctors[id]
	if !ok {
		return apperrors.NotFound("doctor", nil)
	}
	doctor.Status = status
	doctor.UpdatedAt = r.store.next()
	return nil
}

func (r *doctorRepo) UpdateProfilePic(ctx context.Context, id uuid.UUID, path string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	doctor, ok := r.store.doctors[id]
	if !ok {
		return apperrors.NotFound("doctor", nil)
	}
	doctor.ProfilePic = path
	doctor.UpdatedAt = r.store.next()
	return nil
}

func (r *doctorRepo) DeleteWithUser(ctx context.Context, id uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	doctor, ok := r.store.doctors[id]
	if !ok {
		return apperrors.NotFound("doctor", nil)
	}
	delete(r.store.users, doctor.UserID)
	delete(r.store.doctors, id)
	return nil
}

func (r *doctorRepo) List(ctx context.Context, filters *model.DoctorFilters) ([]*model.Doctor, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var doctors []*model.Doctor
	for _, doctor := range r.store.doctors {
		joined := r.join(doctor)
		if filters != nil {
			if filters.Status != "" && joined.Status != filters.Status {
				continue
			}
			if filters.Department != "" && joined.Department != filters.Department {
				continue
			}
			if filters.SearchTerm != "" &&
				!containsFold(joined.FirstName, filters.SearchTerm) &&
				!containsFold(joined.LastName, filters.SearchTerm) &&
				!containsFold(string(joined.Department), filters.SearchTerm) {
				continue
			}
		}
		doctors = append(doctors, joined)
	}
	sortByCreatedDesc(doctors, func(d *model.Doctor) time.Time { return d.CreatedAt })
	return doctors, nil
}

func (r *doctorRepo) Count(ctx context.Context, status model.ApprovalStatus) (int, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	count := 0
	for _, doctor := range r.store.doctors {
		if doctor.Status == status {
			count++
		}
	}
	return count, nil
}
