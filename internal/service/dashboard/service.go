package dashboard

import (
	"context"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"

	"github.com/WinsonMARS/hospitalmanagement/internal/model"
	"github.com/WinsonMARS/hospitalmanagement/internal/repository"
	apperrors "github.com/WinsonMARS/hospitalmanagement/pkg/errors"
)

const adminCacheKey = "dashboard:admin"

// Service aggregates the role landing pages. The admin view is the
// expensive one (six counts plus two rosters), so it is cached briefly;
// the per-user views are cheap and always fresh.
type Service struct {
	doctorRepo      repository.DoctorRepository
	patientRepo     repository.PatientRepository
	appointmentRepo repository.AppointmentRepository
	dischargeRepo   repository.DischargeRepository
	cache           *gocache.Cache
}

func NewService(
	doctorRepo repository.DoctorRepository,
	patientRepo repository.PatientRepository,
	appointmentRepo repository.AppointmentRepository,
	dischargeRepo repository.DischargeRepository,
	cacheTTL time.Duration,
) *Service {
	if cacheTTL <= 0 {
		cacheTTL = 30 * time.Second
	}
	return &Service{
		doctorRepo:      doctorRepo,
		patientRepo:     patientRepo,
		appointmentRepo: appointmentRepo,
		dischargeRepo:   dischargeRepo,
		cache:           gocache.New(cacheTTL, 2*cacheTTL),
	}
}

func (s *Service) Admin(ctx context.Context) (*model.AdminDashboard, error) {
	if cached, ok := s.cache.Get(adminCacheKey); ok {
		return cached.(*model.AdminDashboard), nil
	}

	dash := &model.AdminDashboard{}
	var err error

	if dash.DoctorCount, err = s.doctorRepo.Count(ctx, model.ApprovalStatusActive); err != nil {
		return nil, err
	}
	if dash.PendingDoctorCount, err = s.doctorRepo.Count(ctx, model.ApprovalStatusPending); err != nil {
		return nil, err
	}
	if dash.PatientCount, err = s.patientRepo.Count(ctx, model.ApprovalStatusActive); err != nil {
		return nil, err
	}
	if dash.PendingPatientCount, err = s.patientRepo.Count(ctx, model.ApprovalStatusPending); err != nil {
		return nil, err
	}
	if dash.AppointmentCount, err = s.appointmentRepo.Count(ctx, model.ApprovalStatusActive); err != nil {
		return nil, err
	}
	if dash.PendingAppointmentCount, err = s.appointmentRepo.Count(ctx, model.ApprovalStatusPending); err != nil {
		return nil, err
	}

	if dash.Doctors, err = s.doctorRepo.List(ctx, &model.DoctorFilters{Status: model.ApprovalStatusActive}); err != nil {
		return nil, err
	}
	if dash.Patients, err = s.patientRepo.List(ctx, &model.PatientFilters{Status: model.ApprovalStatusActive}); err != nil {
		return nil, err
	}

	s.cache.SetDefault(adminCacheKey, dash)
	return dash, nil
}

func (s *Service) Doctor(ctx context.Context, doctorUserID uuid.UUID) (*model.DoctorDashboard, error) {
	doctor, err := s.doctorRepo.GetByUserID(ctx, doctorUserID)
	if err != nil {
		return nil, err
	}

	dash := &model.DoctorDashboard{Doctor: doctor}

	if dash.PatientCount, err = s.patientRepo.CountByDoctor(ctx, doctorUserID, model.AdmissionStatusAdmitted); err != nil {
		return nil, err
	}
	if dash.DischargedCount, err = s.patientRepo.CountByDoctor(ctx, doctorUserID, model.AdmissionStatusDischarged); err != nil {
		return nil, err
	}

	appointments, err := s.appointmentRepo.List(ctx, &model.AppointmentFilters{DoctorID: doctorUserID})
	if err != nil {
		return nil, err
	}
	dash.AppointmentCount = len(appointments)
	for _, apt := range appointments {
		switch apt.Status {
		case model.ApprovalStatusPending:
			dash.PendingAppointments++
		case model.ApprovalStatusActive:
			dash.ApprovedAppointments++
		}
	}

	return dash, nil
}

func (s *Service) Patient(ctx context.Context, patientUserID uuid.UUID) (*model.PatientDashboard, error) {
	patient, err := s.patientRepo.GetByUserID(ctx, patientUserID)
	if err != nil {
		return nil, err
	}

	dash := &model.PatientDashboard{
		Patient:      patient,
		IsDischarged: patient.Admission == model.AdmissionStatusDischarged,
	}

	if patient.AssignedDoctorID != uuid.Nil {
		doctor, err := s.doctorRepo.GetByUserID(ctx, patient.AssignedDoctorID)
		if err == nil {
			dash.AssignedDoctor = doctor
		} else if !apperrors.IsNotFound(err) {
			return nil, err
		}
	}

	appointments, err := s.appointmentRepo.List(ctx, &model.AppointmentFilters{PatientID: patientUserID})
	if err != nil {
		return nil, err
	}
	dash.AppointmentCount = len(appointments)

	return dash, nil
}

// Invalidate drops the cached admin view. Approval and signup flows call
// it so the counters never lag behind a visible state change.
func (s *Service) Invalidate() {
	s.cache.Delete(adminCacheKey)
}
