package realtime

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"ownerdesk/internal/pkg/jwt"
	"ownerdesk/internal/pkg/response"
)

type Handler struct {
	hub        *Hub
	jwtService *jwt.Service
	upgrader   websocket.Upgrader
	log        *zap.Logger
}

func NewHandler(hub *Hub, jwtService *jwt.Service, origins []string, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{hub: hub, jwtService: jwtService, upgrader: Upgrader(origins), log: log}
}

func (h *Handler) RegisterRoutes(r gin.IRoutes) {
	r.GET("/ws", h.Serve)
}

// Serve upgrades GET /ws?token=JWT. Browsers cannot set headers on websocket requests.
func (h *Handler) Serve(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "token query parameter is required")
		return
	}
	claims, err := h.jwtService.ValidateToken(token)
	if err != nil || claims.BusinessID == 0 {
		response.Error(c, http.StatusUnauthorized, "INVALID_TOKEN", "Invalid or expired token")
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn("Serve: upgrade failed", zap.Error(err))
		return
	}

	h.log.Info("Serve: dashboard connected", zap.Int64("business_id", claims.BusinessID))
	h.hub.ServeWS(conn, claims.BusinessID)
	h.log.Info("Serve: dashboard disconnected", zap.Int64("business_id", claims.BusinessID))
}
