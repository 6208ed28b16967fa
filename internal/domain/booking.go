package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type BookingStatus string

const (
	BookingNew       BookingStatus = "NEW"
	BookingConfirmed BookingStatus = "CONFIRMED"
	BookingCompleted BookingStatus = "COMPLETED"
	BookingCancelled BookingStatus = "CANCELLED"
)

// Customer is the freeform contact a booking was made for. It is not a resolved account.
type Customer struct {
	DisplayName string `json:"display_name"`
	PhoneNumber string `json:"phone_number"`
}

type Booking struct {
	ID          int64           `json:"id"`
	StartTime   time.Time       `json:"start_time"`
	EndTime     time.Time       `json:"end_time"`
	Price       decimal.Decimal `json:"price"`
	Offers      []Offer         `json:"offers"`
	User        Customer        `json:"user"`
	Status      BookingStatus   `json:"status"`
	Comment     *string         `json:"comment,omitempty"`
	Attachments []Attachment    `json:"attachments,omitempty"`
}

func (b *Booking) EntityID() int64 { return b.ID }

func (b *Booking) Interval() Interval {
	return Interval{Start: b.StartTime, End: b.EndTime}
}

// IsTerminal returns true once the booking can no longer change state.
func (b *Booking) IsTerminal() bool {
	return b.Status == BookingCompleted || b.Status == BookingCancelled
}

func (b *Booking) CanBeConfirmed() bool {
	return CanTransition(b.Status, BookingConfirmed)
}

func (b *Booking) CanBeCancelled() bool {
	return CanTransition(b.Status, BookingCancelled)
}

// transitions lists the moves this dashboard can trigger. COMPLETED is set by back-office processes only.
var transitions = map[BookingStatus][]BookingStatus{
	BookingNew:       {BookingConfirmed, BookingCancelled},
	BookingConfirmed: {BookingCancelled},
}

func CanTransition(from, to BookingStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

func ParseBookingStatus(s string) (BookingStatus, bool) {
	switch st := BookingStatus(s); st {
	case BookingNew, BookingConfirmed, BookingCompleted, BookingCancelled:
		return st, true
	}
	return "", false
}
