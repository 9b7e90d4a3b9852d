package patient

import (
	"errors"
	"io"
	"mime"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/WinsonMARS/hospitalmanagement/internal/handler"
	"github.com/WinsonMARS/hospitalmanagement/internal/middleware"
	"github.com/WinsonMARS/hospitalmanagement/internal/model"
	authsvc "github.com/WinsonMARS/hospitalmanagement/internal/service/auth"
	"github.com/WinsonMARS/hospitalmanagement/internal/service/dashboard"
	"github.com/WinsonMARS/hospitalmanagement/internal/service/patient"
	"github.com/WinsonMARS/hospitalmanagement/pkg/storage"
)

type Handler struct {
	service      *patient.Service
	authService  *authsvc.Service
	dashboardSvc *dashboard.Service
	store        storage.Store
}

func NewHandler(service *patient.Service, authService *authsvc.Service, dashboardSvc *dashboard.Service, store storage.Store) *Handler {
	return &Handler{
		service:      service,
		authService:  authService,
		dashboardSvc: dashboardSvc,
		store:        store,
	}
}

// RegisterAdminRoutes mounts the admission management endpoints.
func (h *Handler) RegisterAdminRoutes(r *gin.RouterGroup) {
	patients := r.Group("/patients")
	{
		patients.GET("", h.ListPatients)
		patients.POST("", h.CreatePatient)
		patients.GET("/:id", h.GetPatient)
		patients.PUT("/:id", h.UpdatePatient)
		patients.DELETE("/:id", h.DeletePatient)
		patients.POST("/:id/approve", h.ApprovePatient)
		patients.POST("/:id/reject", h.RejectPatient)
		patients.POST("/:id/photo", h.UploadPhoto)
		patients.GET("/:id/photo", h.GetPhoto)
	}
}

// RegisterDoctorRoutes mounts the doctor-facing views over assigned
// patients.
func (h *Handler) RegisterDoctorRoutes(r *gin.RouterGroup) {
	r.GET("/doctor/patients", h.MyPatients)
	r.GET("/doctor/patients/:id", h.GetPatient)
}

// RegisterPatientRoutes mounts the patient's own endpoints.
func (h *Handler) RegisterPatientRoutes(r *gin.RouterGroup) {
	r.GET("/patient/profile", h.MyProfile)
}

func (h *Handler) ListPatients(c *gin.Context) {
	var filters model.PatientFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	patients, err := h.service.List(c.Request.Context(), &filters)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(patients))
}

// CreatePatient is the admin admission path: the account skips the
// approval gate.
func (h *Handler) CreatePatient(c *gin.Context) {
	var req model.CreatePatientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	created, err := h.authService.RegisterPatient(c.Request.Context(), &req, model.ApprovalStatusActive)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	h.dashboardSvc.Invalidate()
	c.JSON(http.StatusCreated, handler.NewSuccessResponse(created))
}

func (h *Handler) GetPatient(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid patient ID"))
		return
	}

	found, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(found))
}

func (h *Handler) UpdatePatient(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid patient ID"))
		return
	}

	var req model.UpdatePatientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	updated, err := h.service.Update(c.Request.Context(), id, &req)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	h.dashboardSvc.Invalidate()
	c.JSON(http.StatusOK, handler.NewSuccessResponse(updated))
}

func (h *Handler) DeletePatient(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid patient ID"))
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		handler.RespondError(c, err)
		return
	}

	h.dashboardSvc.Invalidate()
	c.JSON(http.StatusOK, handler.NewSuccessResponse(nil))
}

func (h *Handler) ApprovePatient(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid patient ID"))
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

func (h *Handler) RejectPatient(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid patient ID"))
		return
	}

	if err := h.service.Reject(c.Request.Context(), id); err != nil {
		handler.RespondError(c, err)
		return
	}

	h.dashboardSvc.Invalidate()
	c.JSON(http.StatusOK, handler.NewSuccessResponse(nil))
}

func (h *Handler) UploadPhoto(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid patient ID"))
		return
	}

	fileHeader, err := c.FormFile("photo")
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("photo file is required"))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	defer file.Close()

	name, err := h.store.Save(fileHeader.Header.Get("Content-Type"), file)
	if err != nil {
		if errors.Is(err, storage.ErrInvalidContentType) || errors.Is(err, storage.ErrFileTooLarge) {
			c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
			return
		}
		handler.RespondError(c, err)
		return
	}

	if err := h.service.UpdateProfilePic(c.Request.Context(), id, name); err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{"profile_pic": name}))
}

func (h *Handler) GetPhoto(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid patient ID"))
		return
	}

	found, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	if found.ProfilePic == "" {
		c.JSON(http.StatusNotFound, handler.NewErrorResponse("photo not found"))
		return
	}

	file, err := h.store.Open(found.ProfilePic)
	if err != nil {
		c.JSON(http.StatusNotFound, handler.NewErrorResponse("photo not found"))
		return
	}
	defer file.Close()

	contentType := mime.TypeByExtension(filepath.Ext(found.ProfilePic))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.Header("Content-Type", contentType)
	c.Status(http.StatusOK)
	io.Copy(c.Writer, file)
}

func (h *Handler) MyPatients(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("unauthorized"))
		return
	}

	filters := model.PatientFilters{
		Status:           model.ApprovalStatusActive,
		AssignedDoctorID: claims.UserID,
	}
	if admission := c.Query("admission"); admission != "" {
		filters.Admission = model.AdmissionStatus(admission)
	}
	if search := c.Query("search"); search != "" {
		filters.SearchTerm = search
	}

	patients, err := h.service.List(c.Request.Context(), &filters)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(patients))
}

func (h *Handler) MyProfile(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("unauthorized"))
		return
	}

	profile, err := h.service.GetByUserID(c.Request.Context(), claims.UserID)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(profile))
}
