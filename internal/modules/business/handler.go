package business

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

// RegisterRoutes mounts the account routes on an authenticated group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/business/my", h.GetMy)
	rg.PATCH("/merchant/me", h.UpdateMerchant)
}

// RegisterBusinessRoutes expects a group scoped to /businesses/:businessId.
func (h *Handler) RegisterBusinessRoutes(rg *gin.RouterGroup) {
	rg.PATCH("", h.UpdateMy)
}

func (h *Handler) GetMy(c *gin.Context) {
	b, err := h.service.GetMy(c.Request.Context(), middleware.BusinessID(c))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"business": b})
}

func (h *Handler) UpdateMy(c *gin.Context) {
	var req UpdateBusinessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	if errs := validator.Validate(req); errs != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid business profile", errs)
		return
	}

	if err := h.service.UpdateMy(c.Request.Context(), middleware.BusinessID(c), req); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"updated": true})
}

func (h *Handler) UpdateMerchant(c *gin.Context) {
	var req UpdateMerchantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	if errs := validator.Validate(req); errs != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid account data", errs)
		return
	}

	if err := h.service.UpdateMerchant(c.Request.Context(), req); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"updated": true})
}
