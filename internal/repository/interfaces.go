package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/WinsonMARS/hospitalmanagement/internal/model"
)

// All repository interfaces in one file.
//
// Multi-row workflows (signup, reject cascade, discharge) are exposed as
// single repository methods so the postgres layer can run them inside one
// transaction and in-memory test doubles stay trivial.
type (
	UserRepository interface {
		Create(ctx context.Context, user *model.User) error
		Get(ctx context.Context, id uuid.UUID) (*model.User, error)
		GetByEmail(ctx context.Context, email string) (*model.User, error)
		Update(ctx context.Context, user *model.User) error
		Delete(ctx context.Context, id uuid.UUID) error
	}

	DoctorRepository interface {
		// CreateWithUser persists the backing user and the doctor row in
		// one transaction; neither survives if the other fails.
		CreateWithUser(ctx context.Context, user *model.User, doctor *model.Doctor) error
		Get(ctx context.Context, id uuid.UUID) (*model.Doctor, error)
		GetByUserID(ctx context.Context, userID uuid.UUID) (*model.Doctor, error)
		Update(ctx context.Context, doctor *model.Doctor) error
		UpdateStatus(ctx context.Context, id uuid.UUID, status model.ApprovalStatus) error
		UpdateProfilePic(ctx context.Context, id uuid.UUID, path string) error
		// DeleteWithUser removes the doctor row and its backing user in
		// one transaction.
		DeleteWithUser(ctx context.Context, id uuid.UUID) error
		List(ctx context.Context, filters *model.DoctorFilters) ([]*model.Doctor, error)
		Count(ctx context.Context, status model.ApprovalStatus) (int, error)
	}

	PatientRepository interface {
		CreateWithUser(ctx context.Context, user *model.User, patient *model.Patient) error
		Get(ctx context.Context, id uuid.UUID) (*model.Patient, error)
		GetByUserID(ctx context.Context, userID uuid.UUID) (*model.Patient, error)
		Update(ctx context.Context, patient *model.Patient) error
		UpdateStatus(ctx context.Context, id uuid.UUID, status model.ApprovalStatus) error
		UpdateProfilePic(ctx context.Context, id uuid.UUID, path string) error
		DeleteWithUser(ctx context.Context, id uuid.UUID) error
		List(ctx context.Context, filters *model.PatientFilters) ([]*model.Patient, error)
		Count(ctx context.Context, status model.ApprovalStatus) (int, error)
		CountByDoctor(ctx context.Context, doctorUserID uuid.UUID, admission model.AdmissionStatus) (int, error)
	}

	AppointmentRepository interface {
		Create(ctx context.Context, appointment *model.Appointment) error
		Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error)
		UpdateStatus(ctx context.Context, id uuid.UUID, status model.ApprovalStatus) error
		Delete(ctx context.Context, id uuid.UUID) error
		List(ctx context.Context, filters *model.AppointmentFilters) ([]*model.Appointment, error)
		Count(ctx context.Context, status model.ApprovalStatus) (int, error)
	}

	DischargeRepository interface {
		// Create inserts the snapshot and flips the patient's admission
		// status to discharged in one transaction.
		Create(ctx context.Context, record *model.DischargeRecord) error
		// GetLatest returns the most recent record by creation time.
		GetLatest(ctx context.Context, patientID uuid.UUID) (*model.DischargeRecord, error)
		ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*model.DischargeRecord, error)
	}

	OutboxRepository interface {
		Create(ctx context.Context, event *model.OutboxEvent) error
		GetPendingWithLock(ctx context.Context, limit int) ([]*model.OutboxEvent, error)
		MarkProcessed(ctx context.Context, id uuid.UUID) error
		MarkFailed(ctx context.Context, id uuid.UUID, errMsg string, retryAt *time.Time) error
		DeleteProcessedBefore(ctx context.Context, before time.Time) (int64, error)
	}
)
