package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/WinsonMARS/hospitalmanagement/internal/model"
	"github.com/WinsonMARS/hospitalmanagement/internal/repository/memory"
	"github.com/WinsonMARS/hospitalmanagement/pkg/auth"
	apperrors "github.com/WinsonMARS/hospitalmanagement/pkg/errors"
	"github.com/WinsonMARS/hospitalmanagement/pkg/security"
)

func newTestService() (*Service, *memory.Store) {
	store := memory.NewStore()
	jwtSvc := auth.NewJWTService(auth.Config{
		Secret:        "test-secret",
		RefreshSecret: "test-refresh-secret",
	})
	hasher := security.NewBcryptHasher(4)
	svc := NewService(store.Users(), store.Doctors(), store.Patients(), jwtSvc, hasher)
	return svc, store
}

func doctorRequest(email string) *model.CreateDoctorRequest {
	return &model.CreateDoctorRequest{
		Email:      email,
		Password:   "password123",
		FirstName:  "Gregory",
		LastName:   "House",
		Mobile:     "5550100",
		Address:    "221B Princeton",
		Department: string(model.DepartmentCardiologist),
	}
}

func patientRequest(email string) *model.CreatePatientRequest {
	return &model.CreatePatientRequest{
		Email:     email,
		Password:  "password123",
		FirstName: "John",
		LastName:  "Smith",
		Mobile:    "5550101",
		Address:   "12 Elm St",
		Symptoms:  "fever",
	}
}

func TestRegisterDoctorStartsPending(t *testing.T) {
	svc, store := newTestService()
	ctx := context.Background()

	doctor, err := svc.RegisterDoctor(ctx, doctorRequest("house@example.com"), model.ApprovalStatusPending)
	require.NoError(t, err)

	assert.Equal(t, model.ApprovalStatusPending, doctor.Status)
	assert.Equal(t, "house@example.com", doctor.Email)

	user, err := store.Users().GetByEmail(ctx, "house@example.com")
	require.NoError(t, err)
	assert.Equal(t, model.RoleDoctor, user.Role)
}

func TestRegisterPatientStartsPendingAndAdmitted(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	patient, err := svc.RegisterPatient(ctx, patientRequest("smith@example.com"), model.ApprovalStatusPending)
	require.NoError(t, err)

	assert.Equal(t, model.ApprovalStatusPending, patient.Status)
	assert.Equal(t, model.AdmissionStatusAdmitted, patient.Admission)
	assert.False(t, patient.AdmitDate.IsZero())
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.RegisterPatient(ctx, patientRequest("dup@example.com"), model.ApprovalStatusPending)
	require.NoError(t, err)

	_, err = svc.RegisterDoctor(ctx, doctorRequest("dup@example.com"), model.ApprovalStatusPending)
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrConflict, appErr.Code)
}

func TestRegisterDoctorUnknownDepartment(t *testing.T) {
	svc, _ := newTestService()

	req := doctorRequest("quack@example.com")
	req.Department = "Phrenologist"

	_, err := svc.RegisterDoctor(context.Background(), req, model.ApprovalStatusPending)
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrBadRequest, appErr.Code)
}

func TestLoginIssuesTokensWithRole(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.RegisterAdmin(ctx, &model.RegisterAdminRequest{
		Email:     "admin@example.com",
		Password:  "password123",
		FirstName: "Ada",
	})
	require.NoError(t, err)

	tokens, err := svc.Login(ctx, &model.LoginRequest{
		Email:    "admin@example.com",
		Password: "password123",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, tokens.AccessToken)
	assert.NotEmpty(t, tokens.RefreshToken)
	assert.Equal(t, model.RoleAdmin, tokens.Role)
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.RegisterPatient(ctx, patientRequest("smith@example.com"), model.ApprovalStatusPending)
	require.NoError(t, err)

	_, err = svc.Login(ctx, &model.LoginRequest{
		Email:    "smith@example.com",
		Password: "wrong-password",
	})
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrUnauthorized, appErr.Code)
}

func TestLoginUnknownEmail(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.Login(context.Background(), &model.LoginRequest{
		Email:    "nobody@example.com",
		Password: "password123",
	})
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrUnauthorized, appErr.Code)
}

func TestRefreshAfterAccountDeleted(t *testing.T) {
	svc, store := newTestService()
	ctx := context.Background()

	patient, err := svc.RegisterPatient(ctx, patientRequest("gone@example.com"), model.ApprovalStatusPending)
	require.NoError(t, err)

	tokens, err := svc.Login(ctx, &model.LoginRequest{
		Email:    "gone@example.com",
		Password: "password123",
	})
	require.NoError(t, err)

	require.NoError(t, store.Patients().DeleteWithUser(ctx, patient.ID))

	_, err = svc.Refresh(ctx, tokens.RefreshToken)
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrUnauthorized, appErr.Code)
}
