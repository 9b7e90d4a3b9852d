package memory

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/WinsonMARS/hospitalmanagement/internal/model"
	apperrors "github.com/WinsonMARS/hospitalmanagement/pkg/errors"
)

type appointmentRepo struct {
	store *Store
}

func (r *appointmentRepo) Create(ctx context.Context, appointment *model.Appointment) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if appointment.ID == uuid.Nil {
		appointment.ID = uuid.New()
	}
	now := r.store.next()
	appointment.CreatedAt, appointment.UpdatedAt = now, now

	copied := *appointment
	r.store.appointments[appointment.ID] = &copied
	return nil
}

func (r *appointmentRepo) Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	appointment, ok := r.store.appointments[id]
	if !ok {
		return nil, apperrors.NotFound("appointment", nil)
	}
	copied := *appointment
	return &copied, nil
}

func (r *appointmentRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status model.ApprovalStatus) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	appointment, ok := r.store.appointments[id]
	if !ok {
		return apperrors.NotFound("appointment", nil)
	}
	appointment.Status = status
	appointment.UpdatedAt = r.store.next()
	return nil
}

func (r *appointmentRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.appointments[id]; !ok {
		return apperrors.NotFound("appointment", nil)
	}
	delete(r.store.appointments, id)
	return nil
}

func (r *appointmentRepo) List(ctx context.Context, filters *model.AppointmentFilters) ([]*model.Appointment, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var appointments []*model.Appointment
	for _, appointment := range r.store.appointments {
		if filters != nil {
			if filters.PatientID != uuid.Nil && appointment.PatientID != filters.PatientID {
				continue
			}
			if filters.DoctorID != uuid.Nil && appointment.DoctorID != filters.DoctorID {
				continue
			}
			if filters.Status != "" && appointment.Status != filters.Status {
				continue
			}
		}
		copied := *appointment
		appointments = append(appointments, &copied)
	}
	sortByCreatedDesc(appointments, func(a *model.Appointment) time.Time { return a.CreatedAt })
	return appointments, nil
}

func (r *appointmentRepo) Count(ctx context.Context, status model.ApprovalStatus) (int, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	count := 0
	for _, appointment := range r.store.appointments {
		if appointment.Status == status {
			count++
		}
	}
	return count, nil
}
