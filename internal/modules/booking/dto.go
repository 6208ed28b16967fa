package booking

import (
	"time"

	"ownerdesk/internal/domain"
)

// RescheduleInput moves a booking. Comment is only sent and cached when set.
type RescheduleInput struct {
	Start   time.Time
	End     time.Time
	Comment *string
}

// Draft is a booking as the owner fills it in. Price is never part of it: it is derived from Offers.
type Draft struct {
	Start         time.Time
	End           time.Time
	Offers        []domain.Offer
	User          domain.Customer
	Comment       *string
	AttachmentIDs []string
}

type RescheduleRequest struct {
	StartTime time.Time `json:"start_time" binding:"required"`
	EndTime   time.Time `json:"end_time" binding:"required"`
	Comment   *string   `json:"comment"`
}

type CreateBookingRequest struct {
	StartTime     time.Time `json:"start_time" binding:"required"`
	EndTime       time.Time `json:"end_time" binding:"required"`
	OfferIDs      []int64   `json:"offer_ids" validate:"required,min=1"`
	DisplayName   string    `json:"display_name" validate:"required,max=255"`
	PhoneNumber   string    `json:"phone_number" validate:"max=32"`
	Comment       *string   `json:"comment" validate:"omitempty,max=5000"`
	AttachmentIDs []string  `json:"attachment_ids"`
}

type CalendarEvent struct {
	ID          string              `json:"id"`
	Title       string              `json:"title"`
	PhoneNumber string              `json:"phone_number,omitempty"`
	Start       time.Time           `json:"start"`
	End         time.Time           `json:"end"`
	Status      string              `json:"status"`
	Comment     string              `json:"comment,omitempty"`
	Offers      []domain.Offer      `json:"offers,omitempty"`
	Attachments []domain.Attachment `json:"attachments,omitempty"`
}
