package offer

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
	rg.GET("/offers", h.List)
	rg.POST("/offers", h.Create)
	rg.PATCH("/offers/:id", h.Update)
	rg.DELETE("/offers/:id", h.Delete)
}

func (h *Handler) List(c *gin.Context) {
	offers, err := h.service.List(c.Request.Context(), middleware.BusinessID(c))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"offers": toViews(offers)})
}

func (h *Handler) Create(c *gin.Context) {
	req, ok := bind(c)
	if !ok {
		return
	}
	created, err := h.service.Create(c.Request.Context(), middleware.BusinessID(c), req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"offer": toView(created)})
}

func (h *Handler) Update(c *gin.Context) {
	id, ok := response.ParamID(c, "id")
	if !ok {
		return
	}
	req, ok := bind(c)
	if !ok {
		return
	}
	updated, err := h.service.Update(c.Request.Context(), middleware.BusinessID(c), id, req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"offer": toView(updated)})
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

func bind(c *gin.Context) (OfferRequest, bool) {
	var req OfferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return req, false
	}
	if errs := validator.Validate(req); errs != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid offer", errs)
		return req, false
	}
	return req, true
}
