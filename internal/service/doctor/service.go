package doctor

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/WinsonMARS/hospitalmanagement/internal/email"
	"github.com/WinsonMARS/hospitalmanagement/internal/model"
	"github.com/WinsonMARS/hospitalmanagement/internal/repository"
	apperrors "github.com/WinsonMARS/hospitalmanagement/pkg/errors"
	"github.com/WinsonMARS/hospitalmanagement/pkg/logger"
)

type Service struct {
	repo       repository.DoctorRepository
	outboxRepo repository.OutboxRepository
	emailSvc   email.Service
	logger     *logger.Logger
}

func NewService(repo repository.DoctorRepository, outboxRepo repository.OutboxRepository, emailSvc email.Service, logger *logger.Logger) *Service {
	return &Service{
		repo:       repo,
		outboxRepo: outboxRepo,
		emailSvc:   emailSvc,
		logger:     logger,
	}
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.Doctor, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) GetByUserID(ctx context.Context, userID uuid.UUID) (*model.Doctor, error) {
	return s.repo.GetByUserID(ctx, userID)
}

func (s *Service) List(ctx context.Context, filters *model.DoctorFilters) ([]*model.Doctor, error) {
	return s.repo.List(ctx, filters)
}

// Approve flips a pending doctor to active. Approving an already active
// doctor is a no-op, not an error.
func (s *Service) Approve(ctx context.Context, id uuid.UUID) (*model.Doctor, error) {
	doctor, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if doctor.Status == model.ApprovalStatusActive {
		return doctor, nil
	}

	if err := s.repo.UpdateStatus(ctx, id, model.ApprovalStatusActive); err != nil {
		return nil, err
	}
	doctor.Status = model.ApprovalStatusActive

	s.emitEvent(ctx, model.EventDoctorApproved, doctor)
	if err := s.emailSvc.SendApprovalNotice(doctor.Email, doctor.FullName(), "doctor"); err != nil {
		s.logger.Error(err, "approval notice failed", "doctor_id", id)
	}
	return doctor, nil
}

// Reject removes a pending doctor and the backing user account. The two
// deletes share a transaction so a rejected signup leaves nothing behind.
func (s *Service) Reject(ctx context.Context, id uuid.UUID) error {
	doctor, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if doctor.Status != model.ApprovalStatusPending {
		return apperrors.Conflict("only pending doctors can be rejected", nil)
	}

	if err := s.repo.DeleteWithUser(ctx, id); err != nil {
		return err
	}

	s.emitEvent(ctx, model.EventDoctorRejected, doctor)
	if err := s.emailSvc.SendRejectionNotice(doctor.Email, doctor.FullName(), "doctor"); err != nil {
		s.logger.Error(err, "rejection notice failed", "doctor_id", id)
	}
	return nil
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, req *model.UpdateDoctorRequest) (*model.Doctor, error) {
	doctor, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.FirstName != nil {
		doctor.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		doctor.LastName = *req.LastName
	}
	if req.Email != nil {
		doctor.Email = *req.Email
	}
	if req.Mobile != nil {
		doctor.Mobile = *req.Mobile
	}
	if req.Address != nil {
		doctor.Address = *req.Address
	}
	if req.Department != nil {
		dept := model.Department(*req.Department)
		if !model.ValidDepartment(dept) {
			return nil, apperrors.BadRequest(fmt.Sprintf("unknown department %q", *req.Department), nil)
		}
		doctor.Department = dept
	}

	if err := s.repo.Update(ctx, doctor); err != nil {
		return nil, err
	}
	return doctor, nil
}

// Delete removes an active doctor and the backing user. Appointments and
// discharge snapshots referencing the doctor keep their denormalized
// names.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteWithUser(ctx, id)
}

func (s *Service) UpdateProfilePic(ctx context.Context, id uuid.UUID, path string) error {
	return s.repo.UpdateProfilePic(ctx, id, path)
}

func (s *Service) emitEvent(ctx context.Context, eventType string, doctor *model.Doctor) {
	payload, err := json.Marshal(doctor)
	if err != nil {
		s.logger.Error(err, "failed to marshal doctor event", "event_type", eventType)
		return
	}
	event := &model.OutboxEvent{
		EventType: eventType,
		Payload:   payload,
	}
	if err := s.outboxRepo.Create(ctx, event); err != nil {
		s.logger.Error(err, "failed to enqueue doctor event", "event_type", eventType)
	}
}
