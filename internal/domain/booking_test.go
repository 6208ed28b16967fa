package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanTransition(t *testing.T) {
	assert.True(t, CanTransition(BookingNew, BookingConfirmed))
	assert.True(t, CanTransition(BookingNew, BookingCancelled))
	assert.True(t, CanTransition(BookingConfirmed, BookingCancelled))

	assert.False(t, CanTransition(BookingConfirmed, BookingConfirmed))
	assert.False(t, CanTransition(BookingCancelled, BookingConfirmed))
	assert.False(t, CanTransition(BookingCancelled, BookingCancelled))
	assert.False(t, CanTransition(BookingCompleted, BookingCancelled))
	assert.False(t, CanTransition(BookingNew, BookingCompleted))
	assert.False(t, CanTransition(BookingConfirmed, BookingCompleted))
}

func TestBooking_Predicates(t *testing.T) {
	b := &Booking{Status: BookingNew}
	assert.True(t, b.CanBeConfirmed())
	assert.True(t, b.CanBeCancelled())
	assert.False(t, b.IsTerminal())

	b.Status = BookingCompleted
	assert.True(t, b.IsTerminal())
	assert.False(t, b.CanBeCancelled())
}

func TestParseBookingStatus(t *testing.T) {
	st, ok := ParseBookingStatus("CONFIRMED")
	assert.True(t, ok)
	assert.Equal(t, BookingConfirmed, st)

	_, ok = ParseBookingStatus("ACTIVE")
	assert.False(t, ok)
}

func TestDurationConversions(t *testing.T) {
	assert.Equal(t, 1800, MinutesToSeconds(30))
	assert.Equal(t, 30, SecondsToMinutes(1800))
	assert.Equal(t, 45, SecondsToMinutes(MinutesToSeconds(45)))
}

func TestParseClock(t *testing.T) {
	c, err := ParseClock("09:30")
	require.NoError(t, err)
	assert.Equal(t, ClockTime{Hour: 9, Minute: 30}, c)
	assert.Equal(t, "09:30", c.String())

	day := time.Date(2024, 1, 10, 23, 59, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2024, 1, 10, 9, 30, 0, 0, time.UTC), c.On(day))

	_, err = ParseClock("9am")
	assert.Error(t, err)
}

func TestWire_RoundTripKeepsInstant(t *testing.T) {
	loc := time.FixedZone("EET", 2*60*60)
	local := time.Date(2024, 1, 10, 9, 0, 0, 0, loc)

	s := ToWire(local)
	assert.Equal(t, "2024-01-10T07:00:00Z", s)

	back, err := FromWire(s)
	require.NoError(t, err)
	assert.True(t, back.Equal(local))
}
