package router

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/WinsonMARS/hospitalmanagement/internal/email"
	"github.com/WinsonMARS/hospitalmanagement/internal/handler"
	appointmenthandler "github.com/WinsonMARS/hospitalmanagement/internal/handler/appointment"
	authhandler "github.com/WinsonMARS/hospitalmanagement/internal/handler/auth"
	billinghandler "github.com/WinsonMARS/hospitalmanagement/internal/handler/billing"
	dashboardhandler "github.com/WinsonMARS/hospitalmanagement/internal/handler/dashboard"
	doctorhandler "github.com/WinsonMARS/hospitalmanagement/internal/handler/doctor"
	patienthandler "github.com/WinsonMARS/hospitalmanagement/internal/handler/patient"
	"github.com/WinsonMARS/hospitalmanagement/internal/middleware"
	"github.com/WinsonMARS/hospitalmanagement/internal/model"
	"github.com/WinsonMARS/hospitalmanagement/internal/repository/memory"
	appointmentservice "github.com/WinsonMARS/hospitalmanagement/internal/service/appointment"
	authservice "github.com/WinsonMARS/hospitalmanagement/internal/service/auth"
	billingservice "github.com/WinsonMARS/hospitalmanagement/internal/service/billing"
	dashboardservice "github.com/WinsonMARS/hospitalmanagement/internal/service/dashboard"
	doctorservice "github.com/WinsonMARS/hospitalmanagement/internal/service/doctor"
	patientservice "github.com/WinsonMARS/hospitalmanagement/internal/service/patient"
	"github.com/WinsonMARS/hospitalmanagement/pkg/auth"
	apperrors "github.com/WinsonMARS/hospitalmanagement/pkg/errors"
	"github.com/WinsonMARS/hospitalmanagement/pkg/logger"
	"github.com/WinsonMARS/hospitalmanagement/pkg/metrics"
	"github.com/WinsonMARS/hospitalmanagement/pkg/security"
	"github.com/WinsonMARS/hospitalmanagement/pkg/storage"
	"github.com/WinsonMARS/hospitalmanagement/pkg/validator"
)

// Registered once: promauto panics on duplicate metric names.
var testMetrics = metrics.NewMetrics("hospital", "routertest")

type testEnv struct {
	engine *gin.Engine
	store  *memory.Store
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	require.NoError(t, validator.RegisterCustomValidations())

	store := memory.NewStore()
	appLogger := logger.NewLogger(nil)
	emailSvc := email.NewService(email.Config{Enabled: false}, appLogger)
	jwtSvc := auth.NewJWTService(auth.Config{
		Secret:             "router-test-secret",
		RefreshSecret:      "router-test-refresh",
		ExpiryHours:        1,
		RefreshExpiryHours: 24,
	})
	hasher := security.NewBcryptHasher(4)

	authSvc := authservice.NewService(store.Users(), store.Doctors(), store.Patients(), jwtSvc, hasher)
	doctorSvc := doctorservice.NewService(store.Doctors(), store.Outbox(), emailSvc, appLogger)
	patientSvc := patientservice.NewService(store.Patients(), store.Outbox(), emailSvc, appLogger)
	appointmentSvc := appointmentservice.NewService(store.Appointments(), store.Doctors(), store.Patients(), store.Outbox(), emailSvc, appLogger)
	billingSvc := billingservice.NewService(store.Discharges(), store.Patients(), store.Doctors(), store.Outbox(), emailSvc, appLogger)
	dashboardSvc := dashboardservice.NewService(store.Doctors(), store.Patients(), store.Appointments(), store.Discharges(), 0)

	diskStore, err := storage.NewDiskStore(t.TempDir(), 1<<20)
	require.NoError(t, err)

	doctorGate := middleware.RequireApproved(func(ctx context.Context, userID uuid.UUID) error {
		d, err := doctorSvc.GetByUserID(ctx, userID)
		if err != nil {
			return err
		}
		if d.Status != model.ApprovalStatusActive {
			return apperrors.Forbidden("account pending approval", nil)
		}
		return nil
	})
	patientGate := middleware.RequireApproved(func(ctx context.Context, userID uuid.UUID) error {
		p, err := patientSvc.GetByUserID(ctx, userID)
		if err != nil {
			return err
		}
		if p.Status != model.ApprovalStatusActive {
			return apperrors.Forbidden("account pending approval", nil)
		}
		return nil
	})

	r := NewRouter(
		middleware.NewAuthMiddleware(jwtSvc),
		handler.NewHandler(nil),
		authhandler.NewHandler(authSvc),
		doctorhandler.NewHandler(doctorSvc, authSvc, dashboardSvc, diskStore),
		patienthandler.NewHandler(patientSvc, authSvc, dashboardSvc, diskStore),
		appointmenthandler.NewHandler(appointmentSvc, dashboardSvc),
		billinghandler.NewHandler(billingSvc, patientSvc, dashboardSvc),
		dashboardhandler.NewHandler(dashboardSvc),
		testMetrics,
		doctorGate,
		patientGate,
		Config{CORSConfig: middleware.DefaultCORSConfig()},
	)
	r.Setup()

	return &testEnv{engine: r.Engine(), store: store}
}

func (e *testEnv) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.engine.ServeHTTP(w, req)
	return w
}

func (e *testEnv) login(t *testing.T, email, password string) string {
	t.Helper()
	w := e.do(t, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"email":    email,
		"password": password,
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data model.TokenResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Data.AccessToken)
	return resp.Data.AccessToken
}

func TestSignupApprovalGateFlow(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/v1/auth/register/patient", "", gin.H{
		"email":      "amit@example.com",
		"password":   "password123",
		"first_name": "Amit",
		"last_name":  "Shah",
		"mobile":     "9876543210",
		"address":    "12 Lake Road",
		"symptoms":   "fever",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var created struct {
		Data model.Patient `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	// A pending patient can log in but the gate keeps them out.
	patientToken := env.login(t, "amit@example.com", "password123")
	w = env.do(t, http.MethodGet, "/api/v1/dashboard/patient", patientToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = env.do(t, http.MethodPost, "/api/v1/auth/register/admin", "", gin.H{
		"email":      "admin@example.com",
		"password":   "password123",
		"first_name": "Admin",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	adminToken := env.login(t, "admin@example.com", "password123")

	w = env.do(t, http.MethodPost, "/api/v1/patients/"+created.Data.ID.String()+"/approve", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodGet, "/api/v1/dashboard/patient", patientToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRoleBoundaries(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/api/v1/patients", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.do(t, http.MethodPost, "/api/v1/auth/register/admin", "", gin.H{
		"email":      "admin@example.com",
		"password":   "password123",
		"first_name": "Admin",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	adminToken := env.login(t, "admin@example.com", "password123")

	// Admin creates an active patient directly, skipping the gate.
	w = env.do(t, http.MethodPost, "/api/v1/patients", adminToken, gin.H{
		"email":      "rita@example.com",
		"password":   "password123",
		"first_name": "Rita",
		"mobile":     "9123456780",
		"address":    "4 Hill Street",
		"symptoms":   "cough",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	patientToken := env.login(t, "rita@example.com", "password123")
	w = env.do(t, http.MethodGet, "/api/v1/dashboard/patient", patientToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	// A patient token on an admin route is rejected by role, not by gate.
	w = env.do(t, http.MethodGet, "/api/v1/patients", patientToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = env.do(t, http.MethodGet, "/api/v1/health/live", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestPatientBookingThroughRouter(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/v1/auth/register/admin", "", gin.H{
		"email":      "admin@example.com",
		"password":   "password123",
		"first_name": "Admin",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	adminToken := env.login(t, "admin@example.com", "password123")

	w = env.do(t, http.MethodPost, "/api/v1/doctors", adminToken, gin.H{
		"email":      "mehta@example.com",
		"password":   "password123",
		"first_name": "Nikhil",
		"last_name":  "Mehta",
		"mobile":     "9000000001",
		"address":    "2 Clinic Lane",
		"department": "Cardiologist",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var doctorResp struct {
		Data model.Doctor `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &doctorResp))

	w = env.do(t, http.MethodPost, "/api/v1/patients", adminToken, gin.H{
		"email":      "rita@example.com",
		"password":   "password123",
		"first_name": "Rita",
		"mobile":     "9123456780",
		"address":    "4 Hill Street",
		"symptoms":   "chest pain",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	patientToken := env.login(t, "rita@example.com", "password123")
	w = env.do(t, http.MethodPost, "/api/v1/patient/appointments", patientToken, gin.H{
		"doctor_id":   doctorResp.Data.UserID,
		"description": "recurring chest pain",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var booked struct {
		Data model.Appointment `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &booked))
	assert.Equal(t, model.ApprovalStatusPending, booked.Data.Status)
	assert.Equal(t, "Nikhil Mehta", booked.Data.DoctorName)

	w = env.do(t, http.MethodGet, "/api/v1/patient/appointments", patientToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var mine struct {
		Data []model.Appointment `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &mine))
	assert.Len(t, mine.Data, 1)
}
