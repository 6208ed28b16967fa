package devapi

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"ownerdesk/internal/domain"
	"ownerdesk/internal/gateway"
	"ownerdesk/internal/middleware"
)

func (s *Server) listOffers(c *gin.Context) {
	businessID, err := strconv.ParseInt(c.Query("business_id"), 10, 64)
	if err != nil {
		s.badRequest(c, "business_id is required")
		return
	}
	offers, err := s.repo.Offers(c.Request.Context(), businessID)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, offers)
}

func validateOffer(body gateway.OfferBody) error {
	switch {
	case strings.TrimSpace(body.Name) == "":
		return domain.NewValidationError("name", "is required")
	case body.Price.IsNegative():
		return domain.NewValidationError("price", "must not be negative")
	case body.Duration < 0:
		return domain.NewValidationError("duration", "must not be negative")
	}
	return nil
}

func (s *Server) createOffer(c *gin.Context) {
	var body gateway.OfferBody
	if err := c.ShouldBindJSON(&body); err != nil {
		s.badRequest(c, "Invalid request body")
		return
	}
	if !s.ownBusiness(c, body.BusinessID) {
		return
	}
	if err := validateOffer(body); err != nil {
		s.fail(c, err)
		return
	}

	m := offerModel{
		BusinessID: body.BusinessID,
		Name:       body.Name,
		Price:      body.Price,
		Duration:   body.Duration,
		AllowPhoto: body.AllowPhoto,
	}
	if err := s.repo.CreateOffer(c.Request.Context(), &m); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, m.toDomain())
}

func (s *Server) ownedOffer(c *gin.Context) (*offerModel, bool) {
	id, ok := paramInt(c, "id")
	if !ok {
		return nil, false
	}
	m, err := s.repo.Offer(c.Request.Context(), id)
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

func (s *Server) updateOffer(c *gin.Context) {
	var body gateway.OfferBody
	if err := c.ShouldBindJSON(&body); err != nil {
		s.badRequest(c, "Invalid request body")
		return
	}
	if err := validateOffer(body); err != nil {
		s.fail(c, err)
		return
	}
	m, ok := s.ownedOffer(c)
	if !ok {
		return
	}

	m.Name = body.Name
	m.Price = body.Price
	m.Duration = body.Duration
	m.AllowPhoto = body.AllowPhoto
	if err := s.repo.UpdateOffer(c.Request.Context(), m); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, m.toDomain())
}

func (s *Server) deleteOffer(c *gin.Context) {
	m, ok := s.ownedOffer(c)
	if !ok {
		return
	}
	if err := s.repo.DeleteOffer(c.Request.Context(), m.ID); err != nil {
		s.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
