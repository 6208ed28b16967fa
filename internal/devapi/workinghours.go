package devapi

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"ownerdesk/internal/domain"
	"ownerdesk/internal/gateway"
)

func (s *Server) listWorkingHours(c *gin.Context) {
	businessID, ok := paramInt(c, "businessId")
	if !ok || !s.ownBusiness(c, businessID) {
		return
	}
	hours, err := s.repo.WorkingHours(c.Request.Context(), businessID)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, hours)
}

func (s *Server) createWorkingHours(c *gin.Context) {
	businessID, ok := paramInt(c, "businessId")
	if !ok || !s.ownBusiness(c, businessID) {
		return
	}
	var body []gateway.WorkingHourBody
	if err := c.ShouldBindJSON(&body); err != nil || len(body) == 0 {
		s.badRequest(c, "Expected a non-empty list of intervals")
		return
	}

	rows := make([]workingHourModel, 0, len(body))
	for i, item := range body {
		from, err := domain.FromWire(item.DateFrom)
		if err != nil {
			s.fail(c, domain.NewValidationError(fmt.Sprintf("[%d].date_from", i), "is not a timestamp"))
			return
		}
		to, err := domain.FromWire(item.DateTo)
		if err != nil {
			s.fail(c, domain.NewValidationError(fmt.Sprintf("[%d].date_to", i), "is not a timestamp"))
			return
		}
		if err := domain.CheckOrdered(fmt.Sprintf("[%d].date_to", i), from, to); err != nil {
			s.fail(c, err)
			return
		}
		rows = append(rows, workingHourModel{BusinessID: businessID, DateFrom: from.UTC(), DateTo: to.UTC()})
	}

	created, err := s.repo.CreateWorkingHours(c.Request.Context(), rows)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (s *Server) deleteWorkingHour(c *gin.Context) {
	businessID, ok := paramInt(c, "businessId")
	if !ok || !s.ownBusiness(c, businessID) {
		return
	}
	id, ok := paramInt(c, "id")
	if !ok {
		return
	}
	if err := s.repo.DeleteWorkingHour(c.Request.Context(), businessID, id); err != nil {
		s.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
