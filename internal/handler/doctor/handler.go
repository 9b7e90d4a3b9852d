package doctor

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
	"github.com/WinsonMARS/hospitalmanagement/internal/service/doctor"
	"github.com/WinsonMARS/hospitalmanagement/pkg/storage"
)

type Handler struct {
	service      *doctor.Service
	authService  *authsvc.Service
	dashboardSvc *dashboard.Service
	store        storage.Store
}

func NewHandler(service *doctor.Service, authService *authsvc.Service, dashboardSvc *dashboard.Service, store storage.Store) *Handler {
	return &Handler{
		service:      service,
		authService:  authService,
		dashboardSvc: dashboardSvc,
		store:        store,
	}
}

// RegisterAdminRoutes mounts the roster management endpoints.
func (h *Handler) RegisterAdminRoutes(r *gin.RouterGroup) {
	doctors := r.Group("/doctors")
	{
		doctors.GET("", h.ListDoctors)
		doctors.POST("", h.CreateDoctor)
		doctors.GET("/:id", h.GetDoctor)
		doctors.PUT("/:id", h.UpdateDoctor)
		doctors.DELETE("/:id", h.DeleteDoctor)
		doctors.POST("/:id/approve", h.ApproveDoctor)
		doctors.POST("/:id/reject", h.RejectDoctor)
		doctors.POST("/:id/photo", h.UploadPhoto)
		doctors.GET("/:id/photo", h.GetPhoto)
	}
}

// RegisterDoctorRoutes mounts the doctor's own endpoints.
func (h *Handler) RegisterDoctorRoutes(r *gin.RouterGroup) {
	r.GET("/doctor/profile", h.MyProfile)
}

// RegisterPublicRoutes exposes the active roster, which the booking form
// needs before login.
func (h *Handler) RegisterPublicRoutes(r *gin.RouterGroup) {
	r.GET("/doctors/active", h.ListActiveDoctors)
	r.GET("/departments", h.ListDepartments)
}

func (h *Handler) ListDoctors(c *gin.Context) {
	var filters model.DoctorFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	doctors, err := h.service.List(c.Request.Context(), &filters)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(doctors))
}

func (h *Handler) ListActiveDoctors(c *gin.Context) {
	filters := model.DoctorFilters{Status: model.ApprovalStatusActive}
	if dept := c.Query("department"); dept != "" {
		filters.Department = model.Department(dept)
	}

	doctors, err := h.service.List(c.Request.Context(), &filters)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(doctors))
}

func (h *Handler) ListDepartments(c *gin.Context) {
	c.JSON(http.StatusOK, handler.NewSuccessResponse(model.Departments))
}

// CreateDoctor is the admin path: the account skips the approval gate.
func (h *Handler) CreateDoctor(c *gin.Context) {
	var req model.CreateDoctorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	created, err := h.authService.RegisterDoctor(c.Request.Context(), &req, model.ApprovalStatusActive)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	h.dashboardSvc.Invalidate()
	c.JSON(http.StatusCreated, handler.NewSuccessResponse(created))
}

func (h *Handler) GetDoctor(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid doctor ID"))
		return
	}

	found, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(found))
}

func (h *Handler) UpdateDoctor(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid doctor ID"))
		return
	}

	var req model.UpdateDoctorRequest
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

func (h *Handler) DeleteDoctor(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid doctor ID"))
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		handler.RespondError(c, err)
		return
	}

	h.dashboardSvc.Invalidate()
	c.JSON(http.StatusOK, handler.NewSuccessResponse(nil))
}

func (h *Handler) ApproveDoctor(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid doctor ID"))
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

func (h *Handler) RejectDoctor(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid doctor ID"))
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
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid doctor ID"))
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
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid doctor ID"))
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
