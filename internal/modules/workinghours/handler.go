package workinghours

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ownerdesk/internal/middleware"
	"ownerdesk/internal/pkg/response"
	"ownerdesk/internal/pkg/validator"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes expects a group scoped to /businesses/:businessId.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/working-hours", h.List)
	rg.POST("/working-hours", h.CreateRange)
	rg.POST("/working-hours/single", h.CreateSingle)
	rg.DELETE("/working-hours/:id", h.Delete)
}

func (h *Handler) List(c *gin.Context) {
	hours, err := h.service.List(c.Request.Context(), middleware.BusinessID(c))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"working_hours": hours})
}

func (h *Handler) CreateRange(c *gin.Context) {
	var req RangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	if errs := validator.Validate(req); errs != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid working hours", errs)
		return
	}
	in, err := req.toInput()
	if err != nil {
		response.FromError(c, err)
		return
	}

	created, err := h.service.CreateRange(c.Request.Context(), middleware.BusinessID(c), in)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"working_hours": created})
}

func (h *Handler) CreateSingle(c *gin.Context) {
	var req SingleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	created, err := h.service.CreateSingle(c.Request.Context(), middleware.BusinessID(c), req.DateFrom.Local(), req.DateTo.Local())
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"working_hour": created})
}

func (h *Handler) Delete(c *gin.Context) {
	id, ok := response.ParamID(c, "id")
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), middleware.BusinessID(c), id); err != nil {
		response.FromError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
