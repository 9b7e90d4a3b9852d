package appointment

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/WinsonMARS/hospitalmanagement/internal/email"
	"github.com/WinsonMARS/hospitalmanagement/internal/model"
	"github.com/WinsonMARS/hospitalmanagement/internal/repository"
	apperrors "github.com/WinsonMARS/hospitalmanagement/pkg/errors"
	"github.com/WinsonMARS/hospitalmanagement/pkg/logger"
)

// Service manages the appointment lifecycle: create or book as pending,
// approve to active, or reject, which deletes the row outright. The
// participant names are snapshotted at creation and never refreshed.
type Service struct {
	repo        repository.AppointmentRepository
	doctorRepo  repository.DoctorRepository
	patientRepo repository.PatientRepository
	outboxRepo  repository.OutboxRepository
	emailSvc    email.Service
	logger      *logger.Logger
}

func NewService(
	repo repository.AppointmentRepository,
	doctorRepo repository.DoctorRepository,
	patientRepo repository.PatientRepository,
	outboxRepo repository.OutboxRepository,
	emailSvc email.Service,
	logger *logger.Logger,
) *Service {
	return &Service{
		repo:        repo,
		doctorRepo:  doctorRepo,
		patientRepo: patientRepo,
		outboxRepo:  outboxRepo,
		emailSvc:    emailSvc,
		logger:      logger,
	}
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, filters *model.AppointmentFilters) ([]*model.Appointment, error) {
	return s.repo.List(ctx, filters)
}

// Create records an appointment between a patient and a doctor, both
// identified by their user ids. Admin-created appointments are active
// immediately; everything else starts pending.
func (s *Service) Create(ctx context.Context, req *model.CreateAppointmentRequest, createdBy model.Role) (*model.Appointment, error) {
	patient, err := s.patientRepo.GetByUserID(ctx, req.PatientID)
	if err != nil {
		return nil, err
	}
	doctor, err := s.doctorRepo.GetByUserID(ctx, req.DoctorID)
	if err != nil {
		return nil, err
	}
	if doctor.Status != model.ApprovalStatusActive {
		return nil, apperrors.BadRequest("doctor is not active", nil)
	}

	status := model.ApprovalStatusPending
	if createdBy == model.RoleAdmin {
		status = model.ApprovalStatusActive
	}

	date := req.AppointmentDate
	if date.IsZero() {
		date = time.Now()
	}

	appointment := &model.Appointment{
		PatientID:       req.PatientID,
		DoctorID:        req.DoctorID,
		PatientName:     patient.FullName(),
		DoctorName:      doctor.FullName(),
		Description:     req.Description,
		AppointmentDate: date,
		Status:          status,
	}

	if err := s.repo.Create(ctx, appointment); err != nil {
		return nil, err
	}

	s.emitEvent(ctx, appointment)
	if err := s.emailSvc.SendAppointmentNotice(doctor.Email, doctor.FullName(), patient.FullName()); err != nil {
		s.logger.Error(err, "appointment notice failed", "appointment_id", appointment.ID)
	}
	return appointment, nil
}

// Book is the patient-facing flow: the patient id comes from the token,
// and the booking always starts pending.
func (s *Service) Book(ctx context.Context, patientUserID uuid.UUID, req *model.BookAppointmentRequest) (*model.Appointment, error) {
	return s.Create(ctx, &model.CreateAppointmentRequest{
		PatientID:       patientUserID,
		DoctorID:        req.DoctorID,
		Description:     req.Description,
		AppointmentDate: req.AppointmentDate,
	}, model.RolePatient)
}

// Approve flips a pending appointment to active. Approving twice is a
// no-op. Neither participant's record is touched.
func (s *Service) Approve(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	appointment, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if appointment.Status == model.ApprovalStatusActive {
		return appointment, nil
	}

	if err := s.repo.UpdateStatus(ctx, id, model.ApprovalStatusActive); err != nil {
		return nil, err
	}
	appointment.Status = model.ApprovalStatusActive
	return appointment, nil
}

// Reject deletes the appointment row. The patient and doctor records are
// never touched by either outcome.
func (s *Service) Reject(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.Get(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func (s *Service) emitEvent(ctx context.Context, appointment *model.Appointment) {
	payload, err := json.Marshal(appointment)
	if err != nil {
		s.logger.Error(err, "failed to marshal appointment event")
		return
	}
	event := &model.OutboxEvent{
		EventType: model.EventAppointmentCreated,
		Payload:   payload,
	}
	if err := s.outboxRepo.Create(ctx, event); err != nil {
		s.logger.Error(err, "failed to enqueue appointment event")
	}
}
