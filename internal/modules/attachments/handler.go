package attachments

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ownerdesk/internal/pkg/response"
)

const maxUploadSize = 10 << 20

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/attachments", h.Upload)
}

func (h *Handler) Upload(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadSize)
	fh, err := c.FormFile(uploadField)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "attachment file is required")
		return
	}
	f, err := fh.Open()
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "attachment file cannot be read")
		return
	}
	defer f.Close()

	att, err := h.service.Upload(c.Request.Context(), fh.Filename, f)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"attachment": att})
}
