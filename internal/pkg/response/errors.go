package response

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"ownerdesk/internal/domain"
	"ownerdesk/internal/gateway"
)

// FromError writes the envelope for an error returned by a module service.
// Upstream rejections keep their status and message.
func FromError(c *gin.Context, err error) {
	var vErr *domain.ValidationError
	switch {
	case errors.As(err, &vErr):
		ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", vErr.Error(), vErr.Fields())
	case errors.Is(err, domain.ErrValidation):
		Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	case errors.Is(err, domain.ErrInvalidTransition):
		Error(c, http.StatusConflict, "INVALID_TRANSITION", err.Error())
	case errors.Is(err, gateway.ErrNoToken):
		Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
	default:
		if apiErr, ok := gateway.AsAPIError(err); ok {
			Error(c, apiErr.Status, "UPSTREAM_ERROR", apiErr.Message)
			return
		}
		_ = c.Error(err)
		Error(c, http.StatusBadGateway, "UPSTREAM_ERROR", "Booking service is unavailable")
	}
}

// ParamID reads a positive integer path parameter and writes a 400 when it is not one.
func ParamID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid "+name)
		return 0, false
	}
	return id, true
}
