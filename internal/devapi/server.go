package devapi

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"ownerdesk/internal/domain"
	"ownerdesk/internal/middleware"
	"ownerdesk/internal/pkg/jwt"
	"ownerdesk/internal/pkg/response"
)

const maxUploadSize = 10 << 20

// Server is a local implementation of the booking API the dashboard talks to.
// Responses are bare JSON values; errors use the {success:false,error:{code,message}} envelope.
type Server struct {
	repo *Repository
	jwt  *jwt.Service
	log  *zap.Logger
}

func NewServer(repo *Repository, jwtService *jwt.Service, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{repo: repo, jwt: jwtService, log: log}
}

func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.ErrorLogger(s.log), middleware.RequestLogger(s.log, nil))

	api := r.Group("/api")
	api.POST("/auth/login", s.login)
	api.GET("/files/:id", s.file)

	authed := api.Group("", middleware.JWTAuth(s.jwt))
	{
		authed.GET("/booking/business/:businessId", s.listBookings)
		authed.GET("/booking/:id", s.getBooking)
		authed.POST("/booking", s.createBooking)
		authed.PATCH("/booking/:id", s.updateBooking)
		authed.PATCH("/booking/:id/confirm", s.confirmBooking)
		authed.PATCH("/booking/:id/cancel", s.cancelBooking)

		authed.GET("/offer", s.listOffers)
		authed.POST("/offer", s.createOffer)
		authed.PATCH("/offer/:id", s.updateOffer)
		authed.DELETE("/offer/:id", s.deleteOffer)

		authed.GET("/working-hours/:businessId", s.listWorkingHours)
		authed.POST("/working-hours/:businessId", s.createWorkingHours)
		authed.DELETE("/working-hours/:businessId/:id", s.deleteWorkingHour)

		authed.GET("/business/my", s.myBusiness)
		authed.PATCH("/business/:id", s.updateBusiness)
		authed.PATCH("/merchant/me", s.updateMerchant)
		authed.POST("/attachments", s.uploadAttachment)
	}
	return r
}

// fail maps repository and validation errors to the API envelope.
func (s *Server) fail(c *gin.Context, err error) {
	var statusErr *StatusError
	var vErr *domain.ValidationError
	switch {
	case errors.As(err, &vErr):
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", vErr.Error(), vErr.Fields())
	case errors.As(err, &statusErr):
		response.Error(c, http.StatusConflict, "INVALID_STATUS", statusErr.Error())
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Resource not found")
	case errors.Is(err, ErrConflict):
		response.Error(c, http.StatusConflict, "CONFLICT", "Resource already exists")
	case errors.Is(err, ErrInvalidLogin):
		response.Error(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", err.Error())
	default:
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
	}
}

func (s *Server) badRequest(c *gin.Context, message string) {
	response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", message)
}

// ownBusiness checks that the :businessId (or given) business is the caller's.
func (s *Server) ownBusiness(c *gin.Context, businessID int64) bool {
	if businessID <= 0 || businessID != middleware.BusinessID(c) {
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "You don't own this business")
		return false
	}
	return true
}

func paramInt(c *gin.Context, name string) (int64, bool) {
	v, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || v <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid "+name)
		return 0, false
	}
	return v, true
}
