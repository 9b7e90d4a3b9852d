package billing

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
	"github.com/WinsonMARS/hospitalmanagement/pkg/pdf"
)

// Service builds discharge snapshots and the bills derived from them.
// Only the room charge scales with the length of stay; the doctor fee,
// medicine cost and other charges are flat.
type Service struct {
	repo        repository.DischargeRepository
	patientRepo repository.PatientRepository
	doctorRepo  repository.DoctorRepository
	outboxRepo  repository.OutboxRepository
	emailSvc    email.Service
	logger      *logger.Logger
	now         func() time.Time
}

func NewService(
	repo repository.DischargeRepository,
	patientRepo repository.PatientRepository,
	doctorRepo repository.DoctorRepository,
	outboxRepo repository.OutboxRepository,
	emailSvc email.Service,
	logger *logger.Logger,
) *Service {
	return &Service{
		repo:        repo,
		patientRepo: patientRepo,
		doctorRepo:  doctorRepo,
		outboxRepo:  outboxRepo,
		emailSvc:    emailSvc,
		logger:      logger,
		now:         time.Now,
	}
}

// DaysSpent counts calendar days between admission and release, ignoring
// the time of day on either end. A same-day stay still bills one day of
// room charge.
func DaysSpent(admit, release time.Time) int {
	a := time.Date(admit.Year(), admit.Month(), admit.Day(), 0, 0, 0, 0, admit.Location())
	r := time.Date(release.Year(), release.Month(), release.Day(), 0, 0, 0, 0, release.Location())
	days := int(r.Sub(a).Hours() / 24)
	if days < 1 {
		return 1
	}
	return days
}

// ComputeTotal applies the billing formula to a stay.
func ComputeTotal(daySpent, roomCharge, doctorFee, medicineCost, otherCharge int) int {
	return roomCharge*daySpent + doctorFee + medicineCost + otherCharge
}

// Discharge snapshots the patient, computes the bill, and flips the
// patient to discharged, all within the repository's transaction. The
// snapshot is immutable afterwards.
func (s *Service) Discharge(ctx context.Context, patientID uuid.UUID, req *model.DischargeRequest) (*model.DischargeRecord, error) {
	patient, err := s.patientRepo.Get(ctx, patientID)
	if err != nil {
		return nil, err
	}
	if patient.Status != model.ApprovalStatusActive {
		return nil, apperrors.Conflict("patient is not approved", nil)
	}
	if patient.Admission != model.AdmissionStatusAdmitted {
		return nil, apperrors.Conflict("patient is already discharged", nil)
	}

	doctorName := ""
	if patient.AssignedDoctorID != uuid.Nil {
		doctor, err := s.doctorRepo.GetByUserID(ctx, patient.AssignedDoctorID)
		if err == nil {
			doctorName = doctor.FullName()
		} else if !apperrors.IsNotFound(err) {
			return nil, err
		}
	}

	release := s.now()
	daySpent := DaysSpent(patient.AdmitDate, release)

	record := &model.DischargeRecord{
		PatientID:          patient.ID,
		PatientName:        patient.FullName(),
		AssignedDoctorName: doctorName,
		Address:            patient.Address,
		Mobile:             patient.Mobile,
		Symptoms:           patient.Symptoms,
		AdmitDate:          patient.AdmitDate,
		ReleaseDate:        release,
		DaySpent:           daySpent,
		RoomCharge:         req.RoomCharge,
		DoctorFee:          req.DoctorFee,
		MedicineCost:       req.MedicineCost,
		OtherCharge:        req.OtherCharge,
		Total:              ComputeTotal(daySpent, req.RoomCharge, req.DoctorFee, req.MedicineCost, req.OtherCharge),
	}

	if err := s.repo.Create(ctx, record); err != nil {
		return nil, err
	}

	s.emitEvent(ctx, record)
	if err := s.emailSvc.SendDischargeSummary(patient.Email, patient.FullName(), record.Total); err != nil {
		s.logger.Error(err, "discharge summary email failed", "patient_id", patientID)
	}
	return record, nil
}

// GetLatest returns the most recent discharge record for the patient.
func (s *Service) GetLatest(ctx context.Context, patientID uuid.UUID) (*model.DischargeRecord, error) {
	return s.repo.GetLatest(ctx, patientID)
}

func (s *Service) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*model.DischargeRecord, error) {
	return s.repo.ListByPatient(ctx, patientID)
}

// BillPDF renders the patient's latest bill as a PDF document.
func (s *Service) BillPDF(ctx context.Context, patientID uuid.UUID) ([]byte, error) {
	record, err := s.repo.GetLatest(ctx, patientID)
	if err != nil {
		return nil, err
	}
	return pdf.RenderBill(record)
}

func (s *Service) emitEvent(ctx context.Context, record *model.DischargeRecord) {
	payload, err := json.Marshal(record)
	if err != nil {
		s.logger.Error(err, "failed to marshal discharge event")
		return
	}
	event := &model.OutboxEvent{
		EventType: model.EventPatientDischarged,
		Payload:   payload,
	}
	if err := s.outboxRepo.Create(ctx, event); err != nil {
		s.logger.Error(err, "failed to enqueue discharge event")
	}
}
