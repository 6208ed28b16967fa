package domain

import "time"

// Interval is a half-open time span [Start, End).
type Interval struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Overlaps reports whether a and b share any instant. Touching endpoints do not overlap.
func Overlaps(a, b Interval) bool {
	return a.Start.Before(b.End) && b.Start.Before(a.End)
}

// IsOrdered reports whether end is strictly later than start.
func IsOrdered(start, end time.Time) bool {
	return end.After(start)
}

// CheckOrdered is the pre-submission guard for booking and working-hours forms.
// The error is attached to endField, which is where the form shows it.
func CheckOrdered(endField string, start, end time.Time) error {
	if !IsOrdered(start, end) {
		return NewValidationError(endField, "must be later than the start")
	}
	return nil
}

func (i Interval) Ordered() bool {
	return IsOrdered(i.Start, i.End)
}

func (i Interval) Duration() time.Duration {
	return i.End.Sub(i.Start)
}
