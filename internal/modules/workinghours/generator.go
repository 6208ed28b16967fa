package workinghours

import (
	"time"

	"ownerdesk/internal/domain"
)

// MaxRangeDays caps a single batch.
const MaxRangeDays = 366

// Generate expands a date range into one interval per calendar day, all with the same opening
// and closing wall-clock times. Days are taken in the location of StartDate. Overnight spans are
// not supported: closing must be later than opening on the same day.
func Generate(in RangeInput) ([]domain.Interval, error) {
	if !in.Opening.Before(in.Closing) {
		return nil, domain.NewValidationError("closing_time", "must be after opening time")
	}

	loc := in.StartDate.Location()
	first := startOfDay(in.StartDate, loc)
	last := startOfDay(in.EndDate.In(loc), loc)
	if last.Before(first) {
		return nil, domain.NewValidationError("end_date", "must not be before start date")
	}

	if last.After(first.AddDate(0, 0, MaxRangeDays-1)) {
		return nil, domain.NewValidationError("end_date", "range is too long")
	}

	var out []domain.Interval
	for d := first; !d.After(last); d = d.AddDate(0, 0, 1) {
		out = append(out, domain.Interval{Start: in.Opening.On(d), End: in.Closing.On(d)})
	}
	return out, nil
}

func startOfDay(t time.Time, loc *time.Location) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}
