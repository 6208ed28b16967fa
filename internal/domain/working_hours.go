package domain

import (
	"fmt"
	"time"
)

// WorkingHourInterval is one explicit span during which a business accepts bookings.
type WorkingHourInterval struct {
	ID       int64     `json:"id"`
	DateFrom time.Time `json:"date_from"`
	DateTo   time.Time `json:"date_to"`
}

func (w *WorkingHourInterval) EntityID() int64 { return w.ID }

func (w *WorkingHourInterval) Interval() Interval {
	return Interval{Start: w.DateFrom, End: w.DateTo}
}

// ClockTime is a wall-clock time of day. Only hour and minute are significant.
type ClockTime struct {
	Hour   int
	Minute int
}

const ClockFormat = "15:04"

// ParseClock reads "HH:MM".
func ParseClock(s string) (ClockTime, error) {
	t, err := time.Parse(ClockFormat, s)
	if err != nil {
		return ClockTime{}, fmt.Errorf("invalid time of day %q: %w", s, err)
	}
	return ClockTime{Hour: t.Hour(), Minute: t.Minute()}, nil
}

func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

func (c ClockTime) minutes() int {
	return c.Hour*60 + c.Minute
}

func (c ClockTime) Before(o ClockTime) bool {
	return c.minutes() < o.minutes()
}

// On places c on the calendar day of d, in d's location.
func (c ClockTime) On(d time.Time) time.Time {
	return time.Date(d.Year(), d.Month(), d.Day(), c.Hour, c.Minute, 0, 0, d.Location())
}
