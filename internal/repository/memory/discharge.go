package memory

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/WinsonMARS/hospitalmanagement/internal/model"
	apperrors "github.com/WinsonMARS/hospitalmanagement/pkg/errors"
)

type dischargeRepo struct {
	store *Store
}

func (r *dischargeRepo) Create(ctx context.Context, record *model.DischargeRecord) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	patient, ok := r.store.patients[record.PatientID]
	if !ok {
		return apperrors.NotFound("patient", nil)
	}

	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	now := r.store.next()
	record.CreatedAt, record.UpdatedAt = now, now

	copied := *record
	r.store.discharges[record.ID] = &copied

	patient.Admission = model.AdmissionStatusDischarged
	patient.UpdatedAt = now
	return nil
}

func (r *dischargeRepo) GetLatest(ctx context.Context, patientID uuid.UUID) (*model.DischargeRecord, error) {
	records, err := r.ListByPatient(ctx, patientID)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, apperrors.NotFound("discharge record", nil)
	}
	return records[0], nil
}

func (r *dischargeRepo) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*model.DischargeRecord, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var records []*model.DischargeRecord
	for _, record := range r.store.discharges {
		if record.PatientID == patientID {
			copied := *record
			records = append(records, &copied)
		}
	}
	sortByCreatedDesc(records, func(rec *model.DischargeRecord) time.Time { return rec.CreatedAt })
	return records, nil
}
