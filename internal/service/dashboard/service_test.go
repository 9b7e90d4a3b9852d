package dashboard

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/WinsonMARS/hospitalmanagement/internal/model"
	"github.com/WinsonMARS/hospitalmanagement/internal/repository/memory"
)

func mustParse(t *testing.T, s string) uuid.UUID {
	t.Helper()
	id, err := uuid.Parse(s)
	require.NoError(t, err)
	return id
}

func newTestService(t *testing.T) (*Service, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	svc := NewService(store.Doctors(), store.Patients(), store.Appointments(), store.Discharges(), time.Minute)
	return svc, store
}

func seed(t *testing.T, store *memory.Store) (doctorUserID, patientID, patientUserID string) {
	t.Helper()
	ctx := context.Background()

	doctorUser := &model.User{Email: "house@example.com", FirstName: "Gregory", LastName: "House", Role: model.RoleDoctor}
	doctor := &model.Doctor{Status: model.ApprovalStatusActive, Department: model.DepartmentCardiologist}
	require.NoError(t, store.Doctors().CreateWithUser(ctx, doctorUser, doctor))

	pendingUser := &model.User{Email: "wilson@example.com", FirstName: "James", Role: model.RoleDoctor}
	pending := &model.Doctor{Status: model.ApprovalStatusPending, Department: model.DepartmentPediatrician}
	require.NoError(t, store.Doctors().CreateWithUser(ctx, pendingUser, pending))

	patientUser := &model.User{Email: "smith@example.com", FirstName: "John", LastName: "Smith", Role: model.RolePatient}
	patient := &model.Patient{
		Status:           model.ApprovalStatusActive,
		Admission:        model.AdmissionStatusAdmitted,
		Symptoms:         "fever",
		AdmitDate:        time.Now(),
		AssignedDoctorID: doctorUser.ID,
	}
	require.NoError(t, store.Patients().CreateWithUser(ctx, patientUser, patient))

	apt := &model.Appointment{
		PatientID:   patientUser.ID,
		DoctorID:    doctorUser.ID,
		PatientName: "John Smith",
		DoctorName:  "Gregory House",
		Status:      model.ApprovalStatusPending,
	}
	require.NoError(t, store.Appointments().Create(ctx, apt))

	return doctorUser.ID.String(), patient.ID.String(), patientUser.ID.String()
}

func TestAdminCountsPendingAndActive(t *testing.T) {
	svc, store := newTestService(t)
	seed(t, store)

	dash, err := svc.Admin(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, dash.DoctorCount)
	assert.Equal(t, 1, dash.PendingDoctorCount)
	assert.Equal(t, 1, dash.PatientCount)
	assert.Equal(t, 0, dash.PendingPatientCount)
	assert.Equal(t, 0, dash.AppointmentCount)
	assert.Equal(t, 1, dash.PendingAppointmentCount)
	assert.Len(t, dash.Doctors, 1)
	assert.Len(t, dash.Patients, 1)
}

func TestAdminCachesUntilInvalidated(t *testing.T) {
	svc, store := newTestService(t)
	seed(t, store)
	ctx := context.Background()

	first, err := svc.Admin(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, first.PendingDoctorCount)

	user := &model.User{Email: "chase@example.com", FirstName: "Robert", Role: model.RoleDoctor}
	doc := &model.Doctor{Status: model.ApprovalStatusPending, Department: model.DepartmentCardiologist}
	require.NoError(t, store.Doctors().CreateWithUser(ctx, user, doc))

	cached, err := svc.Admin(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, cached.PendingDoctorCount)

	svc.Invalidate()

	fresh, err := svc.Admin(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, fresh.PendingDoctorCount)
}

func TestDoctorDashboardCountsWorkload(t *testing.T) {
	svc, store := newTestService(t)
	doctorUserID, _, _ := seed(t, store)

	uid := mustParse(t, doctorUserID)
	dash, err := svc.Doctor(context.Background(), uid)
	require.NoError(t, err)

	assert.Equal(t, 1, dash.PatientCount)
	assert.Equal(t, 0, dash.DischargedCount)
	assert.Equal(t, 1, dash.AppointmentCount)
	assert.Equal(t, 1, dash.PendingAppointments)
	assert.Equal(t, 0, dash.ApprovedAppointments)
}

func TestPatientDashboardResolvesAssignedDoctor(t *testing.T) {
	svc, store := newTestService(t)
	_, _, patientUserID := seed(t, store)

	uid := mustParse(t, patientUserID)
	dash, err := svc.Patient(context.Background(), uid)
	require.NoError(t, err)

	require.NotNil(t, dash.AssignedDoctor)
	assert.Equal(t, "Gregory House", dash.AssignedDoctor.FullName())
	assert.Equal(t, 1, dash.AppointmentCount)
	assert.False(t, dash.IsDischarged)
}
