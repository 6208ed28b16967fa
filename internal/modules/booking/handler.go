package booking

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"ownerdesk/internal/cache"
	"ownerdesk/internal/domain"
	"ownerdesk/internal/middleware"
	"ownerdesk/internal/pkg/response"
	"ownerdesk/internal/pkg/validator"
)

type Handler struct {
	service *Service
	offers  OfferCatalog
}

func NewHandler(service *Service, offers OfferCatalog) *Handler {
	return &Handler{service: service, offers: offers}
}

// RegisterRoutes expects a group scoped to /businesses/:businessId.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/bookings", h.List)
	rg.GET("/calendar", h.Calendar)
	rg.GET("/bookings/:id", h.Get)
	rg.POST("/bookings", h.Create)
	rg.POST("/bookings/:id/confirm", h.Confirm)
	rg.POST("/bookings/:id/cancel", h.Cancel)
	rg.PATCH("/bookings/:id", h.Reschedule)
}

func (h *Handler) List(c *gin.Context) {
	bookings, err := h.service.List(c.Request.Context(), middleware.BusinessID(c))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"bookings": bookings})
}

func (h *Handler) Calendar(c *gin.Context) {
	bookings, err := h.service.List(c.Request.Context(), middleware.BusinessID(c))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"events": ToCalendarEvents(bookings)})
}

func (h *Handler) Get(c *gin.Context) {
	b, ok := h.find(c)
	if !ok {
		return
	}
	response.Success(c, http.StatusOK, gin.H{"booking": b})
}

func (h *Handler) Confirm(c *gin.Context) {
	b, ok := h.find(c)
	if !ok {
		return
	}
	if err := h.service.Confirm(c.Request.Context(), middleware.BusinessID(c), b); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"id": b.ID, "status": domain.BookingConfirmed})
}

func (h *Handler) Cancel(c *gin.Context) {
	b, ok := h.find(c)
	if !ok {
		return
	}
	if err := h.service.Cancel(c.Request.Context(), middleware.BusinessID(c), b); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"id": b.ID, "status": domain.BookingCancelled})
}

func (h *Handler) Reschedule(c *gin.Context) {
	var req RescheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	b, ok := h.find(c)
	if !ok {
		return
	}

	in := RescheduleInput{Start: req.StartTime.Local(), End: req.EndTime.Local(), Comment: req.Comment}
	if err := h.service.Reschedule(c.Request.Context(), middleware.BusinessID(c), b, in); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"id": b.ID})
}

func (h *Handler) Create(c *gin.Context) {
	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	if errs := validator.Validate(req); errs != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid booking", errs)
		return
	}

	businessID := middleware.BusinessID(c)
	offers, err := h.resolveOffers(c, businessID, req.OfferIDs)
	if err != nil {
		if errors.Is(err, ErrUnknownOffer) {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
			return
		}
		response.FromError(c, err)
		return
	}

	created, err := h.service.Create(c.Request.Context(), businessID, Draft{
		Start:         req.StartTime.Local(),
		End:           req.EndTime.Local(),
		Offers:        offers,
		User:          domain.Customer{DisplayName: req.DisplayName, PhoneNumber: req.PhoneNumber},
		Comment:       req.Comment,
		AttachmentIDs: req.AttachmentIDs,
	})
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"booking": created})
}

func (h *Handler) find(c *gin.Context) (*domain.Booking, bool) {
	id, ok := response.ParamID(c, "id")
	if !ok {
		return nil, false
	}
	b, err := h.service.Find(c.Request.Context(), middleware.BusinessID(c), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Booking not found")
			return nil, false
		}
		response.FromError(c, err)
		return nil, false
	}
	return b, true
}

// resolveOffers copies the picked offers out of the catalog so the booking keeps its own snapshot.
func (h *Handler) resolveOffers(c *gin.Context, businessID int64, ids []int64) ([]domain.Offer, error) {
	catalog, err := h.offers.List(c.Request.Context(), businessID)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Offer, 0, len(ids))
	for _, id := range ids {
		o, ok := cache.FindByID(catalog, id)
		if !ok {
			return nil, ErrUnknownOffer
		}
		out = append(out, *o)
	}
	return out, nil
}
