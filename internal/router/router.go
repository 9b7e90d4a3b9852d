package router

import (
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/WinsonMARS/hospitalmanagement/internal/handler"
	appointmenthandler "github.com/WinsonMARS/hospitalmanagement/internal/handler/appointment"
	authhandler "github.com/WinsonMARS/hospitalmanagement/internal/handler/auth"
	billinghandler "github.com/WinsonMARS/hospitalmanagement/internal/handler/billing"
	dashboardhandler "github.com/WinsonMARS/hospitalmanagement/internal/handler/dashboard"
	doctorhandler "github.com/WinsonMARS/hospitalmanagement/internal/handler/doctor"
	patienthandler "github.com/WinsonMARS/hospitalmanagement/internal/handler/patient"
	"github.com/WinsonMARS/hospitalmanagement/internal/middleware"
	"github.com/WinsonMARS/hospitalmanagement/internal/model"
	"github.com/WinsonMARS/hospitalmanagement/pkg/metrics"
)

type Config struct {
	RateLimitEnabled bool
	RateLimit        rate.Limit
	RateBurst        int
	CORSConfig       middleware.CORSConfig
}

// Router assembles the middleware chain and the per-role route groups.
// The doctor and patient groups sit behind an approval gate so pending
// accounts can authenticate but not act.
type Router struct {
	engine       *gin.Engine
	auth         *middleware.AuthMiddleware
	h            *handler.Handler
	authH        *authhandler.Handler
	doctorH      *doctorhandler.Handler
	patientH     *patienthandler.Handler
	appointmentH *appointmenthandler.Handler
	billingH     *billinghandler.Handler
	dashboardH   *dashboardhandler.Handler
	doctorGate   gin.HandlerFunc
	patientGate  gin.HandlerFunc
}

func NewRouter(
	auth *middleware.AuthMiddleware,
	h *handler.Handler,
	authH *authhandler.Handler,
	doctorH *doctorhandler.Handler,
	patientH *patienthandler.Handler,
	appointmentH *appointmenthandler.Handler,
	billingH *billinghandler.Handler,
	dashboardH *dashboardhandler.Handler,
	m *metrics.Metrics,
	doctorGate gin.HandlerFunc,
	patientGate gin.HandlerFunc,
	config Config,
) *Router {
	gin.SetMode(gin.ReleaseMode)

	engine := gin.New()
	engine.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		middleware.ErrorHandler(),
		m.HTTPMiddleware(),
	)
	engine.Use(middleware.CORS(config.CORSConfig))

	if config.RateLimitEnabled {
		limiter := middleware.NewRateLimiter(middleware.RateLimiterConfig{
			Rate:  config.RateLimit,
			Burst: config.RateBurst,
		})
		engine.Use(limiter.RateLimit())
	}

	return &Router{
		engine:       engine,
		auth:         auth,
		h:            h,
		authH:        authH,
		doctorH:      doctorH,
		patientH:     patientH,
		appointmentH: appointmentH,
		billingH:     billingH,
		dashboardH:   dashboardH,
		doctorGate:   doctorGate,
		patientGate:  patientGate,
	}
}

func (r *Router) Setup() {
	api := r.engine.Group("/api/v1")

	r.setupHealthCheck(api)
	r.setupPublicRoutes(api)

	protected := api.Group("")
	protected.Use(r.auth.Authenticate())
	r.setupProtectedRoutes(protected)
}

func (r *Router) setupHealthCheck(rg *gin.RouterGroup) {
	health := rg.Group("/health")
	{
		health.GET("/live", r.h.LivenessCheck)
		health.GET("/ready", r.h.ReadinessCheck)
		health.GET("/metrics", r.h.MetricsHandler)
	}
}

func (r *Router) setupPublicRoutes(rg *gin.RouterGroup) {
	r.authH.RegisterRoutes(rg)
	r.doctorH.RegisterPublicRoutes(rg)
}

func (r *Router) setupProtectedRoutes(rg *gin.RouterGroup) {
	r.authH.RegisterProtectedRoutes(rg)

	admin := rg.Group("", r.auth.RequireRole(model.RoleAdmin))
	{
		r.doctorH.RegisterAdminRoutes(admin)
		r.patientH.RegisterAdminRoutes(admin)
		r.appointmentH.RegisterAdminRoutes(admin)
		r.billingH.RegisterAdminRoutes(admin)
		r.dashboardH.RegisterAdminRoutes(admin)
	}

	doctor := rg.Group("", r.auth.RequireRole(model.RoleDoctor), r.doctorGate)
	{
		r.doctorH.RegisterDoctorRoutes(doctor)
		r.patientH.RegisterDoctorRoutes(doctor)
		r.appointmentH.RegisterDoctorRoutes(doctor)
		r.dashboardH.RegisterDoctorRoutes(doctor)
	}

	patient := rg.Group("", r.auth.RequireRole(model.RolePatient), r.patientGate)
	{
		r.patientH.RegisterPatientRoutes(patient)
		r.appointmentH.RegisterPatientRoutes(patient)
		r.billingH.RegisterPatientRoutes(patient)
		r.dashboardH.RegisterPatientRoutes(patient)
	}
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}
