package appointment

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/WinsonMARS/hospitalmanagement/internal/handler"
	"github.com/WinsonMARS/hospitalmanagement/internal/middleware"
	"github.com/WinsonMARS/hospitalmanagement/internal/model"
	"github.com/WinsonMARS/hospitalmanagement/internal/service/appointment"
	"github.com/WinsonMARS/hospitalmanagement/internal/service/dashboard"
)

type Handler struct {
	service      *appointment.Service
	dashboardSvc *dashboard.Service
}

func NewHandler(service *appointment.Service, dashboardSvc *dashboard.Service) *Handler {
	return &Handler{service: service, dashboardSvc: dashboardSvc}
}

// RegisterAdminRoutes mounts the appointment management endpoints.
func (h *Handler) RegisterAdminRoutes(r *gin.RouterGroup) {
	appointments := r.Group("/appointments")
	{
		appointments.GET("", h.ListAppointments)
		appointments.POST("", h.CreateAppointment)
		appointments.GET("/:id", h.GetAppointment)
		appointments.POST("/:id/approve", h.ApproveAppointment)
		appointments.POST("/:id/reject", h.RejectAppointment)
	}
}

// RegisterDoctorRoutes mounts the doctor's view of their own schedule.
func (h *Handler) RegisterDoctorRoutes(r *gin.RouterGroup) {
	r.GET("/doctor/appointments", h.MyDoctorAppointments)
}

// RegisterPatientRoutes mounts the patient booking endpoints.
func (h *Handler) RegisterPatientRoutes(r *gin.RouterGroup) {
	r.GET("/patient/appointments", h.MyPatientAppointments)
	r.POST("/patient/appointments", h.BookAppointment)
}

func (h *Handler) ListAppointments(c *gin.Context) {
	var filters model.AppointmentFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	appointments, err := h.service.List(c.Request.Context(), &filters)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(appointments))
}

// CreateAppointment is the admin path, so the appointment is active
// immediately.
func (h *Handler) CreateAppointment(c *gin.Context) {
	var req model.CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	created, err := h.service.Create(c.Request.Context(), &req, model.RoleAdmin)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	h.dashboardSvc.Invalidate()
	c.JSON(http.StatusCreated, handler.NewSuccessResponse(created))
}

func (h *Handler) GetAppointment(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid appointment ID"))
		return
	}

	found, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(found))
}

func (h *Handler) ApproveAppointment(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid appointment ID"))
		return
	}

	approved, err := h.service.Approve(c.Request.Context(), id)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	h.dashboardSvc.Invalidate()
	c.JSON(http.StatusOK, handler.NewSuccessResponse(approved))
}

func (h *Handler) RejectAppointment(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid appointment ID"))
		return
	}

	if err := h.service.Reject(c.Request.Context(), id); err != nil {
		handler.RespondError(c, err)
		return
	}

	h.dashboardSvc.Invalidate()
	c.JSON(http.StatusOK, handler.NewSuccessResponse(nil))
}

func (h *Handler) MyDoctorAppointments(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("unauthorized"))
		return
	}

	filters := model.AppointmentFilters{DoctorID: claims.UserID}
	if status := c.Query("status"); status != "" {
		filters.Status = model.ApprovalStatus(status)
	}

	appointments, err := h.service.List(c.Request.Context(), &filters)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(appointments))
}

func (h *Handler) MyPatientAppointments(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("unauthorized"))
		return
	}

	filters := model.AppointmentFilters{PatientID: claims.UserID}
	if status := c.Query("status"); status != "" {
		filters.Status = model.ApprovalStatus(status)
	}

	appointments, err := h.service.List(c.Request.Context(), &filters)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(appointments))
}

func (h *Handler) BookAppointment(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("unauthorized"))
		return
	}

	var req model.BookAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	booked, err := h.service.Book(c.Request.Context(), claims.UserID, &req)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, handler.NewSuccessResponse(booked))
}
