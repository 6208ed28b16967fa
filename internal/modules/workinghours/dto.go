package workinghours

import (
	"time"

	"ownerdesk/internal/domain"
)

const DateFormat = "2006-01-02"

// RangeInput asks for one interval per day from StartDate to EndDate, both inclusive.
type RangeInput struct {
	StartDate time.Time
	EndDate   time.Time
	Opening   domain.ClockTime
	Closing   domain.ClockTime
}

type RangeRequest struct {
	StartDate   string `json:"start_date" validate:"required"`
	EndDate     string `json:"end_date" validate:"required"`
	OpeningTime string `json:"opening_time" validate:"required"`
	ClosingTime string `json:"closing_time" validate:"required"`
}

type SingleRequest struct {
	DateFrom time.Time `json:"date_from" binding:"required"`
	DateTo   time.Time `json:"date_to" binding:"required"`
}

// toInput parses the form values as local calendar dates and wall-clock times.
func (r RangeRequest) toInput() (RangeInput, error) {
	start, err := time.ParseInLocation(DateFormat, r.StartDate, time.Local)
	if err != nil {
		return RangeInput{}, domain.NewValidationError("start_date", "must be YYYY-MM-DD")
	}
	end, err := time.ParseInLocation(DateFormat, r.EndDate, time.Local)
	if err != nil {
		return RangeInput{}, domain.NewValidationError("end_date", "must be YYYY-MM-DD")
	}
	opening, err := domain.ParseClock(r.OpeningTime)
	if err != nil {
		return RangeInput{}, domain.NewValidationError("opening_time", "must be HH:MM")
	}
	closing, err := domain.ParseClock(r.ClosingTime)
	if err != nil {
		return RangeInput{}, domain.NewValidationError("closing_time", "must be HH:MM")
	}
	return RangeInput{StartDate: start, EndDate: end, Opening: opening, Closing: closing}, nil
}
