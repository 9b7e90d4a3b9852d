package billing

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/WinsonMARS/hospitalmanagement/internal/handler"
	"github.com/WinsonMARS/hospitalmanagement/internal/middleware"
	"github.com/WinsonMARS/hospitalmanagement/internal/model"
	"github.com/WinsonMARS/hospitalmanagement/internal/service/billing"
	"github.com/WinsonMARS/hospitalmanagement/internal/service/dashboard"
	"github.com/WinsonMARS/hospitalmanagement/internal/service/patient"
)

type Handler struct {
	service      *billing.Service
	patientSvc   *patient.Service
	dashboardSvc *dashboard.Service
}

func NewHandler(service *billing.Service, patientSvc *patient.Service, dashboardSvc *dashboard.Service) *Handler {
	return &Handler{service: service, patientSvc: patientSvc, dashboardSvc: dashboardSvc}
}

// RegisterAdminRoutes mounts discharge and billing management under the
// patient resource.
func (h *Handler) RegisterAdminRoutes(r *gin.RouterGroup) {
	patients := r.Group("/patients")
	{
		patients.POST("/:id/discharge", h.DischargePatient)
		patients.GET("/:id/discharge", h.GetLatestDischarge)
		patients.GET("/:id/discharges", h.ListDischarges)
		patients.GET("/:id/bill.pdf", h.GetBillPDF)
	}
}

// RegisterPatientRoutes mounts the patient's view of their own bill.
func (h *Handler) RegisterPatientRoutes(r *gin.RouterGroup) {
	r.GET("/patient/discharge", h.MyDischarge)
	r.GET("/patient/bill.pdf", h.MyBillPDF)
}

// DischargePatient closes out an admitted patient: the stay is billed,
// the record snapshotted, and the admission flipped in one step.
func (h *Handler) DischargePatient(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid patient ID"))
		return
	}

	var req model.DischargeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	record, err := h.service.Discharge(c.Request.Context(), id, &req)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	h.dashboardSvc.Invalidate()
	c.JSON(http.StatusCreated, handler.NewSuccessResponse(record))
}

func (h *Handler) GetLatestDischarge(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid patient ID"))
		return
	}

	record, err := h.service.GetLatest(c.Request.Context(), id)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(record))
}

func (h *Handler) ListDischarges(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid patient ID"))
		return
	}

	records, err := h.service.ListByPatient(c.Request.Context(), id)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(records))
}

func (h *Handler) GetBillPDF(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid patient ID"))
		return
	}
	h.renderBill(c, id)
}

func (h *Handler) MyDischarge(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("unauthorized"))
		return
	}

	me, err := h.patientSvc.GetByUserID(c.Request.Context(), claims.UserID)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	record, err := h.service.GetLatest(c.Request.Context(), me.ID)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(record))
}

func (h *Handler) MyBillPDF(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("unauthorized"))
		return
	}

	me, err := h.patientSvc.GetByUserID(c.Request.Context(), claims.UserID)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	h.renderBill(c, me.ID)
}

func (h *Handler) renderBill(c *gin.Context, patientID uuid.UUID) {
	data, err := h.service.BillPDF(c.Request.Context(), patientID)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("inline; filename=%q", "bill-"+patientID.String()+".pdf"))
	c.Data(http.StatusOK, "application/pdf", data)
}
