package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/WinsonMARS/hospitalmanagement/config"
	"github.com/WinsonMARS/hospitalmanagement/internal/email"
	"github.com/WinsonMARS/hospitalmanagement/internal/handler"
	appointmentHandler "github.com/WinsonMARS/hospitalmanagement/internal/handler/appointment"
	authHandler "github.com/WinsonMARS/hospitalmanagement/internal/handler/auth"
	billingHandler "github.com/WinsonMARS/hospitalmanagement/internal/handler/billing"
	dashboardHandler "github.com/WinsonMARS/hospitalmanagement/internal/handler/dashboard"
	doctorHandler "github.com/WinsonMARS/hospitalmanagement/internal/handler/doctor"
	patientHandler "github.com/WinsonMARS/hospitalmanagement/internal/handler/patient"
	"github.com/WinsonMARS/hospitalmanagement/internal/middleware"
	"github.com/WinsonMARS/hospitalmanagement/internal/model"
	"github.com/WinsonMARS/hospitalmanagement/internal/repository/postgres"
	"github.com/WinsonMARS/hospitalmanagement/internal/router"
	appointmentService "github.com/WinsonMARS/hospitalmanagement/internal/service/appointment"
	authService "github.com/WinsonMARS/hospitalmanagement/internal/service/auth"
	billingService "github.com/WinsonMARS/hospitalmanagement/internal/service/billing"
	dashboardService "github.com/WinsonMARS/hospitalmanagement/internal/service/dashboard"
	doctorService "github.com/WinsonMARS/hospitalmanagement/internal/service/doctor"
	patientService "github.com/WinsonMARS/hospitalmanagement/internal/service/patient"
	"github.com/WinsonMARS/hospitalmanagement/pkg/auth"
	apperrors "github.com/WinsonMARS/hospitalmanagement/pkg/errors"
	"github.com/WinsonMARS/hospitalmanagement/pkg/logger"
	"github.com/WinsonMARS/hospitalmanagement/pkg/metrics"
	"github.com/WinsonMARS/hospitalmanagement/pkg/security"
	"github.com/WinsonMARS/hospitalmanagement/pkg/storage"
	"github.com/WinsonMARS/hospitalmanagement/pkg/validator"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	appLogger := logger.NewLogger(nil)

	if err := validator.RegisterCustomValidations(); err != nil {
		log.Fatal().Err(err).Msg("failed to register custom validations")
	}

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	base := postgres.NewBaseRepository(db)
	userRepo := postgres.NewUserRepository(base)
	doctorRepo := postgres.NewDoctorRepository(base)
	patientRepo := postgres.NewPatientRepository(base)
	appointmentRepo := postgres.NewAppointmentRepository(base)
	dischargeRepo := postgres.NewDischargeRepository(base)
	outboxRepo := postgres.NewOutboxRepository(base)

	jwtSvc := auth.NewJWTService(auth.Config{
		Secret:             cfg.JWT.Secret,
		RefreshSecret:      cfg.JWT.RefreshSecret,
		ExpiryHours:        cfg.JWT.ExpiryHours,
		RefreshExpiryHours: cfg.JWT.RefreshExpiryHours,
	})
	hasher := security.NewBcryptHasher(0)
	emailSvc := email.NewService(cfg.Email, appLogger)

	authSvc := authService.NewService(userRepo, doctorRepo, patientRepo, jwtSvc, hasher)
	doctorSvc := doctorService.NewService(doctorRepo, outboxRepo, emailSvc, appLogger)
	patientSvc := patientService.NewService(patientRepo, outboxRepo, emailSvc, appLogger)
	appointmentSvc := appointmentService.NewService(appointmentRepo, doctorRepo, patientRepo, outboxRepo, emailSvc, appLogger)
	billingSvc := billingService.NewService(dischargeRepo, patientRepo, doctorRepo, outboxRepo, emailSvc, appLogger)
	dashboardSvc := dashboardService.NewService(doctorRepo, patientRepo, appointmentRepo, dischargeRepo, cfg.Dashboard.CacheTTL)

	store, err := storage.NewDiskStore(cfg.Storage.Dir, cfg.Storage.MaxUploadSize)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize file storage")
	}

	m := metrics.NewMetrics("hospital", "api")
	authMiddleware := middleware.NewAuthMiddleware(jwtSvc)

	h := handler.NewHandler(db)
	authH := authHandler.NewHandler(authSvc)
	doctorH := doctorHandler.NewHandler(doctorSvc, authSvc, dashboardSvc, store)
	patientH := patientHandler.NewHandler(patientSvc, authSvc, dashboardSvc, store)
	appointmentH := appointmentHandler.NewHandler(appointmentSvc, dashboardSvc)
	billingH := billingHandler.NewHandler(billingSvc, patientSvc, dashboardSvc)
	dashboardH := dashboardHandler.NewHandler(dashboardSvc)

	r := router.NewRouter(
		authMiddleware,
		h,
		authH,
		doctorH,
		patientH,
		appointmentH,
		billingH,
		dashboardH,
		m,
		approvalGate(func(ctx context.Context, userID uuid.UUID) (model.ApprovalStatus, error) {
			d, err := doctorSvc.GetByUserID(ctx, userID)
			if err != nil {
				return "", err
			}
			return d.Status, nil
		}),
		approvalGate(func(ctx context.Context, userID uuid.UUID) (model.ApprovalStatus, error) {
			p, err := patientSvc.GetByUserID(ctx, userID)
			if err != nil {
				return "", err
			}
			return p.Status, nil
		}),
		router.Config{
			RateLimitEnabled: cfg.RateLimit.Enabled,
			RateLimit:        rate.Limit(cfg.RateLimit.RequestsPerSecond),
			RateBurst:        cfg.RateLimit.Burst,
			CORSConfig:       corsConfig(cfg),
		},
	)
	r.Setup()

	srv := &http.Server{
		Addr:           fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:        r.Engine(),
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
	}

	go func() {
		appLogger.Info("starting server", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	appLogger.Info("server exited properly")
}

// approvalGate adapts a status lookup into the middleware contract: a
// missing record or a non-active status keeps the caller out.
func approvalGate(lookup func(ctx context.Context, userID uuid.UUID) (model.ApprovalStatus, error)) gin.HandlerFunc {
	return middleware.RequireApproved(func(ctx context.Context, userID uuid.UUID) error {
		status, err := lookup(ctx, userID)
		if err != nil {
			return err
		}
		if status != model.ApprovalStatusActive {
			return apperrors.Forbidden("account pending approval", nil)
		}
		return nil
	})
}

func corsConfig(cfg *config.Config) middleware.CORSConfig {
	corsCfg := middleware.DefaultCORSConfig()
	if len(cfg.Security.AllowedOrigins) > 0 {
		corsCfg.AllowOrigins = cfg.Security.AllowedOrigins
	}
	if len(cfg.Security.AllowedMethods) > 0 {
		corsCfg.AllowMethods = cfg.Security.AllowedMethods
	}
	if len(cfg.Security.AllowedHeaders) > 0 {
		corsCfg.AllowHeaders = cfg.Security.AllowedHeaders
	}
	return corsCfg
}
