package memory

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/WinsonMARS/hospitalmanagement/internal/model"
	apperrors "github.com/WinsonMARS/hospitalmanagement/pkg/errors"
)

type patientRepo struct {
	store *Store
}

func (r *patientRepo) CreateWithUser(ctx context.Context, user *model.User, patient *model.Patient) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	if patient.ID == uuid.Nil {
		patient.ID = uuid.New()
	}
	now := r.store.next()
	user.CreatedAt, user.UpdatedAt = now, now
	patient.CreatedAt, patient.UpdatedAt = now, now
	patient.UserID = user.ID

	copiedUser := *user
	copiedPatient := *patient
	r.store.users[user.ID] = &copiedUser
	r.store.patients[patient.ID] = &copiedPatient
	return nil
}

func (r *patientRepo) join(patient *model.Patient) *model.Patient {
	copied := *patient
	if user, ok := r.store.users[patient.UserID]; ok {
		copied.Email = user.Email
		copied.FirstName = user.FirstName
		copied.LastName = user.LastName
	}
	return &copied
}

func (r *patientRepo) Get(ctx context.Context, id uuid.UUID) (*model.Patient, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	patient, ok := r.store.patients[id]
	if !ok {
		return nil, apperrors.NotFound("patient", nil)
	}
	return r.join(patient), nil
}

func (r *patientRepo) GetByUserID(ctx context.Context, userID uuid.UUID) (*model.Patient, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, patient := range r.store.patients {
		if patient.UserID == userID {
			return r.join(patient), nil
		}
	}
	return nil, apperrors.NotFound("patient", nil)
}

func (r *patientRepo) Update(ctx context.Context, patient *model.Patient) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	stored, ok := r.store.patients[patient.ID]
	if !ok {
		return apperrors.NotFound("patient", nil)
	}
	now := r.store.next()

	stored.Mobile = patient.Mobile
	stored.Address = patient.Address
	stored.Symptoms = patient.Symptoms
	stored.AssignedDoctorID = patient.AssignedDoctorID
	stored.UpdatedAt = now

	if user, ok := r.store.users[stored.UserID]; ok {
		user.Email = patient.Email
		user.FirstName = patient.FirstName
		user.LastName = patient.LastName
		user.UpdatedAt = now
	}
	return nil
}

func (r *patientRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status model.ApprovalStatus) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	patient, ok := r.store.patients[id]
	if !ok {
		return apperrors.NotFound("patient", nil)
	}
	patient.Status = status
	patient.UpdatedAt = r.store.next()
	return nil
}

func (r *patientRepo) UpdateProfilePic(ctx context.Context, id uuid.UUID, path string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	patient, ok := r.store.patients[id]
	if !ok {
		return apperrors.NotFound("patient", nil)
	}
	patient.ProfilePic = path
	patient.UpdatedAt = r.store.next()
	return nil
}

func (r *patientRepo) DeleteWithUser(ctx context.Context, id uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	patient, ok := r.store.patients[id]
	if !ok {
		return apperrors.NotFound("patient", nil)
	}
	delete(r.store.users, patient.UserID)
	delete(r.store.patients, id)
	return nil
}

func (r *patientRepo) List(ctx context.Context, filters *model.PatientFilters) ([]*model.Patient, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var patients []*model.Patient
	for _, patient := range r.store.patients {
		joined := r.join(patient)
		if filters != nil {
			if filters.Status != "" && joined.Status != filters.Status {
				continue
			}
			if filters.Admission != "" && joined.Admission != filters.Admission {
				continue
			}
			if filters.AssignedDoctorID != uuid.Nil && joined.AssignedDoctorID != filters.AssignedDoctorID {
				continue
			}
			if filters.SearchTerm != "" &&
				!containsFold(joined.FirstName, filters.SearchTerm) &&
				!containsFold(joined.LastName, filters.SearchTerm) &&
				!containsFold(joined.Symptoms, filters.SearchTerm) {
				continue
			}
		}
		patients = append(patients, joined)
	}
	sortByCreatedDesc(patients, func(p *model.Patient) time.Time { return p.CreatedAt })
	return patients, nil
}

func (r *patientRepo) Count(ctx context.Context, status model.ApprovalStatus) (int, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	count := 0
	for _, patient := range r.store.patients {
		if patient.Status == status {
			count++
		}
	}
	return count, nil
}

func (r *patientRepo) CountByDoctor(ctx context.Context, doctorUserID uuid.UUID, admission model.AdmissionStatus) (int, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	count := 0
	for _, patient := range r.store.patients {
		if patient.AssignedDoctorID == doctorUserID &&
			patient.Admission == admission &&
			patient.Status == model.ApprovalStatusActive {
			count++
		}
	}
	return count, nil
}
