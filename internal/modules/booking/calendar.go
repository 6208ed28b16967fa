package booking

import (
	"strconv"

	"ownerdesk/internal/domain"
)

// ToCalendarEvents shapes bookings for the dashboard calendar. Cancelled bookings stay visible.
func ToCalendarEvents(bookings []*domain.Booking) []CalendarEvent {
	events := make([]CalendarEvent, 0, len(bookings))
	for _, b := range bookings {
		ev := CalendarEvent{
			ID:          strconv.FormatInt(b.ID, 10),
			Title:       b.User.DisplayName,
			PhoneNumber: b.User.PhoneNumber,
			Start:       b.StartTime,
			End:         b.EndTime,
			Status:      string(b.Status),
			Offers:      b.Offers,
			Attachments: b.Attachments,
		}
		if b.Comment != nil {
			ev.Comment = *b.Comment
		}
		events = append(events, ev)
	}
	return events
}
