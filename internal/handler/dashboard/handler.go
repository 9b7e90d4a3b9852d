package dashboard

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/WinsonMARS/hospitalmanagement/internal/handler"
	"github.com/WinsonMARS/hospitalmanagement/internal/middleware"
	"github.com/WinsonMARS/hospitalmanagement/internal/service/dashboard"
)

type Handler struct {
	service *dashboard.Service
}

func NewHandler(service *dashboard.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterAdminRoutes(r *gin.RouterGroup) {
	r.GET("/dashboard/admin", h.AdminDashboard)
}

func (h *Handler) RegisterDoctorRoutes(r *gin.RouterGroup) {
	r.GET("/dashboard/doctor", h.DoctorDashboard)
}

func (h *Handler) RegisterPatientRoutes(r *gin.RouterGroup) {
	r.GET("/dashboard/patient", h.PatientDashboard)
}

func (h *Handler) AdminDashboard(c *gin.Context) {
	stats, err := h.service.Admin(c.Request.Context())
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(stats))
}

func (h *Handler) DoctorDashboard(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("unauthorized"))
		return
	}

	stats, err := h.service.Doctor(c.Request.Context(), claims.UserID)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(stats))
}

func (h *Handler) PatientDashboard(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("unauthorized"))
		return
	}

	stats, err := h.service.Patient(c.Request.Context(), claims.UserID)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(stats))
}
