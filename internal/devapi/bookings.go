package devapi

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"ownerdesk/internal/domain"
	"ownerdesk/internal/gateway"
	"ownerdesk/internal/middleware"
	"ownerdesk/internal/pkg/response"
)

func (s *Server) listBookings(c *gin.Context) {
	businessID, ok := paramInt(c, "businessId")
	if !ok || !s.ownBusiness(c, businessID) {
		return
	}
	bookings, err := s.repo.Bookings(c.Request.Context(), businessID)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, bookings)
}

// ownedBooking loads :id and hides bookings of other businesses behind a 404.
func (s *Server) ownedBooking(c *gin.Context) (*bookingModel, bool) {
	id, ok := paramInt(c, "id")
	if !ok {
		return nil, false
	}
	m, err := s.repo.Booking(c.Request.Context(), id)
	if err != nil {
		s.fail(c, err)
		return nil, false
	}
	if m.BusinessID != middleware.BusinessID(c) {
		s.fail(c, ErrNotFound)
		return nil, false
	}
	return m, true
}

func (s *Server) getBooking(c *gin.Context) {
	m, ok := s.ownedBooking(c)
	if !ok {
		return
	}
	s.writeBooking(c, http.StatusOK, m)
}

func (s *Server) writeBooking(c *gin.Context, status int, m *bookingModel) {
	b, err := s.repo.BookingView(c.Request.Context(), m)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(status, b)
}

func (s *Server) confirmBooking(c *gin.Context) {
	s.transition(c, domain.BookingConfirmed, "confirmed")
}

func (s *Server) cancelBooking(c *gin.Context) {
	s.transition(c, domain.BookingCancelled, "cancelled")
}

func (s *Server) transition(c *gin.Context, to domain.BookingStatus, action string) {
	m, ok := s.ownedBooking(c)
	if !ok {
		return
	}
	if err := s.repo.TransitionBooking(c.Request.Context(), m.ID, to, action); err != nil {
		s.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) updateBooking(c *gin.Context) {
	var body gateway.BookingUpdateBody
	if err := c.ShouldBindJSON(&body); err != nil {
		s.badRequest(c, "Invalid request body")
		return
	}
	start, err := domain.FromWire(body.StartTime)
	if err != nil {
		s.fail(c, domain.NewValidationError("start_time", "is not a timestamp"))
		return
	}
	end, err := domain.FromWire(body.EndTime)
	if err != nil {
		s.fail(c, domain.NewValidationError("end_time", "is not a timestamp"))
		return
	}
	if err := domain.CheckOrdered("end_time", start, end); err != nil {
		s.fail(c, err)
		return
	}

	m, ok := s.ownedBooking(c)
	if !ok {
		return
	}
	if st := domain.BookingStatus(m.Status); st == domain.BookingCancelled || st == domain.BookingCompleted {
		s.fail(c, &StatusError{Action: "rescheduled", Status: m.Status})
		return
	}
	if err := s.repo.RescheduleBooking(c.Request.Context(), m.ID, start, end, body.Comment); err != nil {
		s.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// createBooking takes the offers from the catalog, not from the request, and checks the submitted price against them.
func (s *Server) createBooking(c *gin.Context) {
	var body gateway.BookingCreateBody
	if err := c.ShouldBindJSON(&body); err != nil {
		s.badRequest(c, "Invalid request body")
		return
	}
	if !s.ownBusiness(c, body.BusinessID) {
		return
	}
	if len(body.Offers) == 0 {
		s.fail(c, domain.NewValidationError("offers", "at least one offer is required"))
		return
	}
	if strings.TrimSpace(body.User.DisplayName) == "" {
		s.fail(c, domain.NewValidationError("user.display_name", "is required"))
		return
	}
	start, err := domain.FromWire(body.StartTime)
	if err != nil {
		s.fail(c, domain.NewValidationError("start_time", "is not a timestamp"))
		return
	}
	end, err := domain.FromWire(body.EndTime)
	if err != nil {
		s.fail(c, domain.NewValidationError("end_time", "is not a timestamp"))
		return
	}
	if err := domain.CheckOrdered("end_time", start, end); err != nil {
		s.fail(c, err)
		return
	}

	ctx := c.Request.Context()
	offers := make([]domain.Offer, 0, len(body.Offers))
	for _, o := range body.Offers {
		m, err := s.repo.Offer(ctx, o.ID)
		if err != nil || m.BusinessID != body.BusinessID {
			s.fail(c, domain.NewValidationError("offers", "unknown offer"))
			return
		}
		offers = append(offers, *m.toDomain())
	}
	totals := domain.Aggregate(offers)
	if !totals.TotalPrice.Equal(body.Price) {
		response.Error(c, http.StatusUnprocessableEntity, "PRICE_MISMATCH", "Price does not match the selected offers")
		return
	}
	exist, err := s.repo.AttachmentsExist(ctx, body.Attachments)
	if err != nil {
		s.fail(c, err)
		return
	}
	if !exist {
		s.fail(c, domain.NewValidationError("attachments", "unknown attachment"))
		return
	}

	m, err := toBookingModel(body.BusinessID, &domain.Booking{
		StartTime: start,
		EndTime:   end,
		Price:     totals.TotalPrice,
		Offers:    offers,
		User:      body.User,
		Status:    domain.BookingNew,
		Comment:   body.Comment,
	}, body.Attachments)
	if err != nil {
		s.fail(c, err)
		return
	}
	if err := s.repo.CreateBooking(ctx, &m); err != nil {
		s.fail(c, err)
		return
	}
	s.writeBooking(c, http.StatusCreated, &m)
}
