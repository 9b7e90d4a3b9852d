package appointment

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/WinsonMARS/hospitalmanagement/internal/email"
	"github.com/WinsonMARS/hospitalmanagement/internal/model"
	"github.com/WinsonMARS/hospitalmanagement/internal/repository/memory"
	apperrors "github.com/WinsonMARS/hospitalmanagement/pkg/errors"
	"github.com/WinsonMARS/hospitalmanagement/pkg/logger"
)

type fixture struct {
	svc     *Service
	store   *memory.Store
	doctor  *model.Doctor
	patient *model.Patient
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	log := logger.NewLogger(nil)
	svc := NewService(
		store.Appointments(), store.Doctors(), store.Patients(),
		store.Outbox(), email.NewService(email.Config{}, log), log,
	)

	ctx := context.Background()
	doctorUser := &model.User{Email: "house@example.com", FirstName: "Gregory", LastName: "House", Role: model.RoleDoctor}
	doctor := &model.Doctor{Status: model.ApprovalStatusActive, Department: model.DepartmentCardiologist}
	require.NoError(t, store.Doctors().CreateWithUser(ctx, doctorUser, doctor))
	doctor.FirstName, doctor.LastName = doctorUser.FirstName, doctorUser.LastName

	patientUser := &model.User{Email: "smith@example.com", FirstName: "John", LastName: "Smith", Role: model.RolePatient}
	patient := &model.Patient{
		Status:    model.ApprovalStatusActive,
		Admission: model.AdmissionStatusAdmitted,
		Symptoms:  "fever",
		AdmitDate: time.Now(),
	}
	require.NoError(t, store.Patients().CreateWithUser(ctx, patientUser, patient))
	patient.FirstName, patient.LastName = patientUser.FirstName, patientUser.LastName

	return &fixture{svc: svc, store: store, doctor: doctor, patient: patient}
}

func TestCreateSnapshotsParticipantNames(t *testing.T) {
	f := newFixture(t)

	apt, err := f.svc.Create(context.Background(), &model.CreateAppointmentRequest{
		PatientID:   f.patient.UserID,
		DoctorID:    f.doctor.UserID,
		Description: "checkup",
	}, model.RoleAdmin)
	require.NoError(t, err)

	assert.Equal(t, "John Smith", apt.PatientName)
	assert.Equal(t, "Gregory House", apt.DoctorName)
	assert.Equal(t, model.ApprovalStatusActive, apt.Status)
	assert.False(t, apt.AppointmentDate.IsZero())
}

func TestBookByPatientStartsPending(t *testing.T) {
	f := newFixture(t)

	apt, err := f.svc.Book(context.Background(), f.patient.UserID, &model.BookAppointmentRequest{
		DoctorID:    f.doctor.UserID,
		Description: "second opinion",
	})
	require.NoError(t, err)

	assert.Equal(t, model.ApprovalStatusPending, apt.Status)
}

func TestCreateWithInactiveDoctorFails(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.store.Doctors().UpdateStatus(ctx, f.doctor.ID, model.ApprovalStatusPending))

	_, err := f.svc.Book(ctx, f.patient.UserID, &model.BookAppointmentRequest{
		DoctorID:    f.doctor.UserID,
		Description: "checkup",
	})
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrBadRequest, appErr.Code)
}

func TestApproveLeavesParticipantsUntouched(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	apt, err := f.svc.Book(ctx, f.patient.UserID, &model.BookAppointmentRequest{
		DoctorID:    f.doctor.UserID,
		Description: "checkup",
	})
	require.NoError(t, err)

	approved, err := f.svc.Approve(ctx, apt.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ApprovalStatusActive, approved.Status)

	patient, err := f.store.Patients().Get(ctx, f.patient.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ApprovalStatusActive, patient.Status)
	assert.Equal(t, model.AdmissionStatusAdmitted, patient.Admission)

	doctor, err := f.store.Doctors().Get(ctx, f.doctor.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ApprovalStatusActive, doctor.Status)
}

func TestRejectDeletesOnlyTheAppointment(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	apt, err := f.svc.Book(ctx, f.patient.UserID, &model.BookAppointmentRequest{
		DoctorID:    f.doctor.UserID,
		Description: "checkup",
	})
	require.NoError(t, err)

	require.NoError(t, f.svc.Reject(ctx, apt.ID))

	_, err = f.svc.Get(ctx, apt.ID)
	assert.True(t, apperrors.IsNotFound(err))

	_, err = f.store.Patients().Get(ctx, f.patient.ID)
	assert.NoError(t, err)
	_, err = f.store.Doctors().Get(ctx, f.doctor.ID)
	assert.NoError(t, err)
}

func TestSnapshotSurvivesDoctorDeletion(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	apt, err := f.svc.Book(ctx, f.patient.UserID, &model.BookAppointmentRequest{
		DoctorID:    f.doctor.UserID,
		Description: "checkup",
	})
	require.NoError(t, err)

	require.NoError(t, f.store.Doctors().DeleteWithUser(ctx, f.doctor.ID))

	stored, err := f.svc.Get(ctx, apt.ID)
	require.NoError(t, err)
	assert.Equal(t, "Gregory House", stored.DoctorName)
}
