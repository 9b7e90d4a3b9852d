package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/WinsonMARS/hospitalmanagement/internal/model"
	"github.com/WinsonMARS/hospitalmanagement/internal/repository"
	"github.com/WinsonMARS/hospitalmanagement/pkg/auth"
	apperrors "github.com/WinsonMARS/hospitalmanagement/pkg/errors"
	"github.com/WinsonMARS/hospitalmanagement/pkg/security"
)

// Service owns login and the three signup flows. Doctor and patient
// signups create a pending record behind the approval gate; admin signup
// is immediate because it is only reachable by an existing admin or the
// bootstrap path.
type Service struct {
	userRepo    repository.UserRepository
	doctorRepo  repository.DoctorRepository
	patientRepo repository.PatientRepository
	jwtSvc      auth.JWTService
	hasher      security.PasswordHasher
}

func NewService(
	userRepo repository.UserRepository,
	doctorRepo repository.DoctorRepository,
	patientRepo repository.PatientRepository,
	jwtSvc auth.JWTService,
	hasher security.PasswordHasher,
) *Service {
	return &Service{
		userRepo:    userRepo,
		doctorRepo:  doctorRepo,
		patientRepo: patientRepo,
		jwtSvc:      jwtSvc,
		hasher:      hasher,
	}
}

// Login checks credentials and issues a token pair. Pending doctors and
// patients can log in but the approval gate keeps them out of their
// role's routes until an admin approves them; that check lives in the
// handlers so the reason can be reported precisely.
func (s *Service) Login(ctx context.Context, req *model.LoginRequest) (*model.TokenResponse, error) {
	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, apperrors.Unauthorized(fmt.Errorf("invalid credentials"))
		}
		return nil, err
	}

	if err := s.hasher.Compare(user.PasswordHash, req.Password); err != nil {
		return nil, apperrors.Unauthorized(fmt.Errorf("invalid credentials"))
	}

	return s.issueTokens(user)
}

// Refresh exchanges a valid refresh token for a new pair. The user is
// re-read so a deleted (rejected) account cannot keep refreshing.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*model.TokenResponse, error) {
	claims, err := s.jwtSvc.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, apperrors.Unauthorized(err)
	}

	user, err := s.userRepo.Get(ctx, claims.UserID)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, apperrors.Unauthorized(fmt.Errorf("account no longer exists"))
		}
		return nil, err
	}

	return s.issueTokens(user)
}

func (s *Service) issueTokens(user *model.User) (*model.TokenResponse, error) {
	accessToken, err := s.jwtSvc.GenerateAccessToken(user)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	refreshToken, err := s.jwtSvc.GenerateRefreshToken(user)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	return &model.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		Role:         user.Role,
	}, nil
}

// RegisterAdmin creates an active admin account.
func (s *Service) RegisterAdmin(ctx context.Context, req *model.RegisterAdminRequest) (*model.User, error) {
	if err := s.ensureEmailFree(ctx, req.Email); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, apperrors.BadRequest("invalid password", err)
	}

	user := &model.User{
		Email:        req.Email,
		PasswordHash: hash,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Role:         model.RoleAdmin,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// RegisterDoctor creates the backing user and the doctor row in one
// transaction. Self-signup passes pending; admin-created doctors start
// active.
func (s *Service) RegisterDoctor(ctx context.Context, req *model.CreateDoctorRequest, status model.ApprovalStatus) (*model.Doctor, error) {
	if err := s.ensureEmailFree(ctx, req.Email); err != nil {
		return nil, err
	}
	if !model.ValidDepartment(model.Department(req.Department)) {
		return nil, apperrors.BadRequest(fmt.Sprintf("unknown department %q", req.Department), nil)
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, apperrors.BadRequest("invalid password", err)
	}

	user := &model.User{
		Email:        req.Email,
		PasswordHash: hash,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Role:         model.RoleDoctor,
	}
	doctor := &model.Doctor{
		Status:     status,
		Mobile:     req.Mobile,
		Address:    req.Address,
		Department: model.Department(req.Department),
	}

	if err := s.doctorRepo.CreateWithUser(ctx, user, doctor); err != nil {
		return nil, err
	}

	doctor.Email = user.Email
	doctor.FirstName = user.FirstName
	doctor.LastName = user.LastName
	return doctor, nil
}

// RegisterPatient creates the backing user and the patient row in one
// transaction. The patient is considered admitted from signup; the admit
// date is now.
func (s *Service) RegisterPatient(ctx context.Context, req *model.CreatePatientRequest, status model.ApprovalStatus) (*model.Patient, error) {
	if err := s.ensureEmailFree(ctx, req.Email); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, apperrors.BadRequest("invalid password", err)
	}

	user := &model.User{
		Email:        req.Email,
		PasswordHash: hash,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Role:         model.RolePatient,
	}
	patient := &model.Patient{
		Status:           status,
		Admission:        model.AdmissionStatusAdmitted,
		Mobile:           req.Mobile,
		Address:          req.Address,
		Symptoms:         req.Symptoms,
		AdmitDate:        time.Now(),
		AssignedDoctorID: req.AssignedDoctorID,
	}

	if err := s.patientRepo.CreateWithUser(ctx, user, patient); err != nil {
		return nil, err
	}

	patient.Email = user.Email
	patient.FirstName = user.FirstName
	patient.LastName = user.LastName
	return patient, nil
}

// Me resolves the caller's user record from token claims.
func (s *Service) Me(ctx context.Context, claims *model.TokenClaims) (*model.User, error) {
	return s.userRepo.Get(ctx, claims.UserID)
}

func (s *Service) ensureEmailFree(ctx context.Context, email string) error {
	_, err := s.userRepo.GetByEmail(ctx, email)
	if err == nil {
		return apperrors.Conflict("email already registered", nil)
	}
	if !apperrors.IsNotFound(err) {
		return err
	}
	return nil
}
