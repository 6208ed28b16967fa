package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func span(startHour, endHour int) Interval {
	day := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	return Interval{Start: day.Add(time.Duration(startHour) * time.Hour), End: day.Add(time.Duration(endHour) * time.Hour)}
}

func TestOverlaps(t *testing.T) {
	cases := []struct {
		name string
		a, b Interval
		want bool
	}{
		{"disjoint", span(9, 10), span(11, 12), false},
		{"touching", span(9, 10), span(10, 11), false},
		{"partial", span(9, 11), span(10, 12), true},
		{"contained", span(9, 18), span(12, 13), true},
		{"identical", span(9, 10), span(9, 10), true},
		{"empty inside", span(12, 12), span(9, 18), true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Overlaps(tc.a, tc.b))
			assert.Equal(t, Overlaps(tc.a, tc.b), Overlaps(tc.b, tc.a), "overlap must be symmetric")
		})
	}
}

func TestIsOrdered(t *testing.T) {
	now := time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)

	assert.True(t, IsOrdered(now, now.Add(time.Minute)))
	assert.False(t, IsOrdered(now, now))
	assert.False(t, IsOrdered(now, now.Add(-time.Minute)))
}

func TestCheckOrdered_FieldError(t *testing.T) {
	now := time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)

	err := CheckOrdered("end_time", now, now)

	var verr *ValidationError
	assert.True(t, errors.As(err, &verr))
	assert.Equal(t, "end_time", verr.Field)
	assert.ErrorIs(t, err, ErrValidation)
	assert.NoError(t, CheckOrdered("end_time", now, now.Add(time.Hour)))
}
