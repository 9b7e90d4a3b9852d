package patient

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
	svc := NewService(store.Patients(), store.Outbox(), email.NewService(email.Config{}, log), log)
	return svc, store
}

func seedPatient(t *testing.T, store *memory.Store, status model.ApprovalStatus) *model.Patient {
	t.Helper()
	user := &model.User{
		Email:     "smith@example.com",
		FirstName: "John",
		LastName:  "Smith",
		Role:      model.RolePatient,
	}
	patient := &model.Patient{
		Status:    status,
		Admission: model.AdmissionStatusAdmitted,
		Mobile:    "5550101",
		Address:   "12 Elm St",
		Symptoms:  "fever",
		AdmitDate: time.Now(),
	}
	require.NoError(t, store.Patients().CreateWithUser(context.Background(), user, patient))
	patient.Email = user.Email
	patient.FirstName = user.FirstName
	patient.LastName = user.LastName
	return patient
}

func TestApproveActivatesPendingPatient(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	patient := seedPatient(t, store, model.ApprovalStatusPending)

	approved, err := svc.Approve(ctx, patient.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ApprovalStatusActive, approved.Status)

	events, err := store.Outbox().GetPendingWithLock(ctx, 10)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, model.EventPatientApproved, events[0].EventType)
}

func TestApproveIsIdempotent(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	patient := seedPatient(t, store, model.ApprovalStatusPending)

	_, err := svc.Approve(ctx, patient.ID)
	require.NoError(t, err)

	again, err := svc.Approve(ctx, patient.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ApprovalStatusActive, again.Status)

	// The no-op approval must not emit a second event.
	events, err := store.Outbox().GetPendingWithLock(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, events, 1)
}

func TestRejectRemovesPatientAndUser(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	patient := seedPatient(t, store, model.ApprovalStatusPending)

	require.NoError(t, svc.Reject(ctx, patient.ID))

	_, err := store.Patients().Get(ctx, patient.ID)
	assert.True(t, apperrors.IsNotFound(err))

	_, err = store.Users().GetByEmail(ctx, patient.Email)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestRejectActivePatientFails(t *testing.T) {
	svc, store := newTestService(t)
	patient := seedPatient(t, store, model.ApprovalStatusActive)

	err := svc.Reject(context.Background(), patient.ID)
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrConflict, appErr.Code)
}

func TestUpdateAppliesPartialChanges(t *testing.T) {
	svc, store := newTestService(t)
	patient := seedPatient(t, store, model.ApprovalStatusActive)

	symptoms := "fever, headache"
	updated, err := svc.Update(context.Background(), patient.ID, &model.UpdatePatientRequest{
		Symptoms: &symptoms,
	})
	require.NoError(t, err)

	assert.Equal(t, "fever, headache", updated.Symptoms)
	assert.Equal(t, "John", updated.FirstName)
	assert.Equal(t, "12 Elm St", updated.Address)
}

func TestListFiltersBySymptoms(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	seedPatient(t, store, model.ApprovalStatusActive)

	patients, err := svc.List(ctx, &model.PatientFilters{SearchTerm: "FEVER"})
	require.NoError(t, err)
	assert.Len(t, patients, 1)

	patients, err = svc.List(ctx, &model.PatientFilters{SearchTerm: "fracture"})
	require.NoError(t, err)
	assert.Empty(t, patients)
}
