package patient

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"

	"github.com/WinsonMARS/hospitalmanagement/internal/email"
	"github.com/WinsonMARS/hospitalmanagement/internal/model"
	"github.com/WinsonMARS/hospitalmanagement/internal/repository"
	apperrors "github.com/WinsonMARS/hospitalmanagement/pkg/errors"
	"github.com/WinsonMARS/hospitalmanagement/pkg/logger"
)

type Service struct {
	repo       repository.PatientRepository
	outboxRepo repository.OutboxRepository
	emailSvc   email.Service
	logger     *logger.Logger
}

func NewService(repo repository.PatientRepository, outboxRepo repository.OutboxRepository, emailSvc email.Service, logger *logger.Logger) *Service {
	return &Service{
		repo:       repo,
		outboxRepo: outboxRepo,
		emailSvc:   emailSvc,
		logger:     logger,
	}
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.Patient, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) GetByUserID(ctx context.Context, userID uuid.UUID) (*model.Patient, error) {
	return s.repo.GetByUserID(ctx, userID)
}

func (s *Service) List(ctx context.Context, filters *model.PatientFilters) ([]*model.Patient, error) {
	return s.repo.List(ctx, filters)
}

// Approve flips a pending patient to active. Approving twice is a no-op.
func (s *Service) Approve(ctx context.Context, id uuid.UUID) (*model.Patient, error) {
	patient, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if patient.Status == model.ApprovalStatusActive {
		return patient, nil
	}

	if err := s.repo.UpdateStatus(ctx, id, model.ApprovalStatusActive); err != nil {
		return nil, err
	}
	patient.Status = model.ApprovalStatusActive

	s.emitEvent(ctx, model.EventPatientApproved, patient)
	if err := s.emailSvc.SendApprovalNotice(patient.Email, patient.FullName(), "patient"); err != nil {
		s.logger.Error(err, "approval notice failed", "patient_id", id)
	}
	return patient, nil
}

// Reject removes a pending patient together with the backing user.
func (s *Service) Reject(ctx context.Context, id uuid.UUID) error {
	patient, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if patient.Status != model.ApprovalStatusPending {
		return apperrors.Conflict("only pending patients can be rejected", nil)
	}

	if err := s.repo.DeleteWithUser(ctx, id); err != nil {
		return err
	}

	s.emitEvent(ctx, model.EventPatientRejected, patient)
	if err := s.emailSvc.SendRejectionNotice(patient.Email, patient.FullName(), "patient"); err != nil {
		s.logger.Error(err, "rejection notice failed", "patient_id", id)
	}
	return nil
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, req *model.UpdatePatientRequest) (*model.Patient, error) {
	patient, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.FirstName != nil {
		patient.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		patient.LastName = *req.LastName
	}
	if req.Email != nil {
		patient.Email = *req.Email
	}
	if req.Mobile != nil {
		patient.Mobile = *req.Mobile
	}
	if req.Address != nil {
		patient.Address = *req.Address
	}
	if req.Symptoms != nil {
		patient.Symptoms = *req.Symptoms
	}
	if req.AssignedDoctorID != nil {
		patient.AssignedDoctorID = *req.AssignedDoctorID
	}

	if err := s.repo.Update(ctx, patient); err != nil {
		return nil, err
	}
	return patient, nil
}

// Delete removes a patient and the backing user. Discharge snapshots for
// the patient survive; they carry their own copies of everything the bill
// needs.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteWithUser(ctx, id)
}

func (s *Service) UpdateProfilePic(ctx context.Context, id uuid.UUID, path string) error {
	return s.repo.UpdateProfilePic(ctx, id, path)
}

func (s *Service) emitEvent(ctx context.Context, eventType string, patient *model.Patient) {
	payload, err := json.Marshal(patient)
	if err != nil {
		s.logger.Error(err, "failed to marshal patient event", "event_type", eventType)
		return
	}
	event := &model.OutboxEvent{
		EventType: eventType,
		Payload:   payload,
	}
	if err := s.outboxRepo.Create(ctx, event); err != nil {
		s.logger.Error(err, "failed to enqueue patient event", "event_type", eventType)
	}
}
