package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"ownerdesk/internal/gateway"
	"ownerdesk/internal/pkg/jwt"
	"ownerdesk/internal/pkg/response"
)

const (
	ctxUserID     = "user_id"
	ctxBusinessID = "business_id"
	ctxRole       = "role"
)

// JWTAuth verifies the owner's bearer token and forwards it to the booking API through the request context.
func JWTAuth(jwtService *jwt.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			response.Abort(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authorization header is required")
			return
		}

		claims, err := jwtService.ValidateToken(token)
		if err != nil {
			response.Abort(c, http.StatusUnauthorized, "INVALID_TOKEN", "Invalid or expired token")
			return
		}

		c.Set(ctxUserID, claims.UserID)
		c.Set(ctxBusinessID, claims.BusinessID)
		c.Set(ctxRole, claims.Role)
		c.Request = c.Request.WithContext(gateway.WithToken(c.Request.Context(), token))
		c.Next()
	}
}

// RequireBusinessOwner allows the request only when the :businessId path parameter is the caller's business.
func RequireBusinessOwner() gin.HandlerFunc {
	return func(c *gin.Context) {
		businessID, err := strconv.ParseInt(c.Param("businessId"), 10, 64)
		if err != nil || businessID <= 0 {
			response.Abort(c, http.StatusBadRequest, "INVALID_ID", "Invalid business ID")
			return
		}

		if c.GetInt64(ctxBusinessID) != businessID {
			response.Abort(c, http.StatusForbidden, "FORBIDDEN", "You don't own this business")
			return
		}

		c.Next()
	}
}

// BusinessID is the business of the authenticated owner.
func BusinessID(c *gin.Context) int64 {
	return c.GetInt64(ctxBusinessID)
}

func UserID(c *gin.Context) int64 {
	return c.GetInt64(ctxUserID)
}

func bearerToken(c *gin.Context) (string, bool) {
	parts := strings.SplitN(c.GetHeader("Authorization"), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}
