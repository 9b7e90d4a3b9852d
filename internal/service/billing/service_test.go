package billing

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

func newTestService(t *testing.T) (*Service, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	log := logger.NewLogger(nil)
	svc := NewService(
		store.Discharges(), store.Patients(), store.Doctors(),
		store.Outbox(), email.NewService(email.Config{}, log), log,
	)
	return svc, store
}

func seedAdmittedPatient(t *testing.T, store *memory.Store, admitDate time.Time) *model.Patient {
	t.Helper()
	user := &model.User{Email: "smith@example.com", FirstName: "John", LastName: "Smith", Role: model.RolePatient}
	patient := &model.Patient{
		Status:    model.ApprovalStatusActive,
		Admission: model.AdmissionStatusAdmitted,
		Mobile:    "5550101",
		Address:   "12 Elm St",
		Symptoms:  "fever",
		AdmitDate: admitDate,
	}
	require.NoError(t, store.Patients().CreateWithUser(context.Background(), user, patient))
	patient.FirstName, patient.LastName = user.FirstName, user.LastName
	return patient
}

func TestDaysSpent(t *testing.T) {
	admit := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	assert.Equal(t, 2, DaysSpent(admit, admit.Add(48*time.Hour)))
	assert.Equal(t, 1, DaysSpent(admit, admit.Add(30*time.Hour)))
	// Calendar days, not elapsed hours: two midnights have passed even
	// though the stay is under 48 hours.
	assert.Equal(t, 2, DaysSpent(admit, admit.Add(47*time.Hour)))
	// A same-day stay still bills one day.
	assert.Equal(t, 1, DaysSpent(admit, admit.Add(3*time.Hour)))
	assert.Equal(t, 1, DaysSpent(admit, admit))
}

func TestComputeTotalOnlyRoomChargeScales(t *testing.T) {
	// 2 days at 100/day plus flat 200 + 50 + 30.
	assert.Equal(t, 480, ComputeTotal(2, 100, 200, 50, 30))
	assert.Equal(t, 580, ComputeTotal(3, 100, 200, 50, 30))
	assert.Equal(t, 0, ComputeTotal(1, 0, 0, 0, 0))
}

func TestDischargeComputesBillAndFlipsStatus(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	admit := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	patient := seedAdmittedPatient(t, store, admit)
	svc.now = func() time.Time { return admit.Add(48 * time.Hour) }

	record, err := svc.Discharge(ctx, patient.ID, &model.DischargeRequest{
		RoomCharge:   100,
		DoctorFee:    200,
		MedicineCost: 50,
		OtherCharge:  30,
	})
	require.NoError(t, err)

	assert.Equal(t, 2, record.DaySpent)
	assert.Equal(t, 480, record.Total)
	assert.Equal(t, "John Smith", record.PatientName)
	assert.Equal(t, "fever", record.Symptoms)

	stored, err := store.Patients().Get(ctx, patient.ID)
	require.NoError(t, err)
	assert.Equal(t, model.AdmissionStatusDischarged, stored.Admission)

	events, err := store.Outbox().GetPendingWithLock(ctx, 10)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, model.EventPatientDischarged, events[0].EventType)
}

func TestDischargeTwiceFails(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	patient := seedAdmittedPatient(t, store, time.Now().Add(-24*time.Hour))

	req := &model.DischargeRequest{RoomCharge: 100}
	_, err := svc.Discharge(ctx, patient.ID, req)
	require.NoError(t, err)

	_, err = svc.Discharge(ctx, patient.ID, req)
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrConflict, appErr.Code)
}

func TestDischargePendingPatientFails(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	user := &model.User{Email: "pending@example.com", FirstName: "Jane", Role: model.RolePatient}
	patient := &model.Patient{
		Status:    model.ApprovalStatusPending,
		Admission: model.AdmissionStatusAdmitted,
		AdmitDate: time.Now(),
	}
	require.NoError(t, store.Patients().CreateWithUser(ctx, user, patient))

	_, err := svc.Discharge(ctx, patient.ID, &model.DischargeRequest{})
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrConflict, appErr.Code)
}

func TestSnapshotIgnoresLaterPatientEdits(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	patient := seedAdmittedPatient(t, store, time.Now().Add(-24*time.Hour))

	record, err := svc.Discharge(ctx, patient.ID, &model.DischargeRequest{RoomCharge: 100})
	require.NoError(t, err)

	stored, err := store.Patients().Get(ctx, patient.ID)
	require.NoError(t, err)
	stored.Symptoms = "recovered"
	stored.Address = "99 New Rd"
	require.NoError(t, store.Patients().Update(ctx, stored))

	latest, err := svc.GetLatest(ctx, patient.ID)
	require.NoError(t, err)
	assert.Equal(t, record.ID, latest.ID)
	assert.Equal(t, "fever", latest.Symptoms)
	assert.Equal(t, "12 Elm St", latest.Address)
}

func TestGetLatestPicksMostRecentRecord(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	patient := seedAdmittedPatient(t, store, time.Now().Add(-72*time.Hour))

	first, err := svc.Discharge(ctx, patient.ID, &model.DischargeRequest{RoomCharge: 100})
	require.NoError(t, err)

	// Repeat admission: a later stay appends a second record.
	second := &model.DischargeRecord{
		PatientID:   patient.ID,
		PatientName: "John Smith",
		AdmitDate:   time.Now().Add(-24 * time.Hour),
		ReleaseDate: time.Now(),
		DaySpent:    1,
		RoomCharge:  150,
		Total:       150,
	}
	require.NoError(t, store.Discharges().Create(ctx, second))

	latest, err := svc.GetLatest(ctx, patient.ID)
	require.NoError(t, err)
	assert.Equal(t, second.ID, latest.ID)
	assert.NotEqual(t, first.ID, latest.ID)

	records, err := svc.ListByPatient(ctx, patient.ID)
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestGetLatestWithoutRecords(t *testing.T) {
	svc, store := newTestService(t)
	patient := seedAdmittedPatient(t, store, time.Now())

	_, err := svc.GetLatest(context.Background(), patient.ID)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestBillPDFRendersDocument(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	patient := seedAdmittedPatient(t, store, time.Now().Add(-24*time.Hour))

	_, err := svc.Discharge(ctx, patient.ID, &model.DischargeRequest{RoomCharge: 100, DoctorFee: 200})
	require.NoError(t, err)

	doc, err := svc.BillPDF(ctx, patient.ID)
	require.NoError(t, err)
	require.NotEmpty(t, doc)
	assert.Equal(t, "%PDF", string(doc[:4]))
}
