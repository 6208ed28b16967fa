package gateway

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"ownerdesk/internal/domain"
)

// Request is one call of the booking API. The set of implementations is closed: every
// variant is built by a constructor in this file, and the constructors of write
// variants refuse values that break the booking, offer and working-hour invariants.
type Request interface {
	Operation() string
	Method() string
	Path() string
	Body() any
	sealed()
}

type request struct {
	op     string
	method string
	path   string
	body   any
}

func (r request) Operation() string { return r.op }
func (r request) Method() string    { return r.method }
func (r request) Path() string      { return r.path }
func (r request) Body() any         { return r.body }
func (request) sealed()             {}

// Bookings

type ListBookings struct{ request }
type GetBooking struct{ request }
type CancelBooking struct{ request }
type ConfirmBooking struct{ request }
type UpdateBooking struct{ request }
type CreateBooking struct{ request }

func NewListBookings(businessID int64) ListBookings {
	return ListBookings{request{"list_bookings", http.MethodGet, fmt.Sprintf("/booking/business/%d", businessID), nil}}
}

func NewGetBooking(bookingID int64) GetBooking {
	return GetBooking{request{"get_booking", http.MethodGet, fmt.Sprintf("/booking/%d", bookingID), nil}}
}

func NewCancelBooking(bookingID int64) CancelBooking {
	return CancelBooking{request{"cancel_booking", http.MethodPatch, fmt.Sprintf("/booking/%d/cancel", bookingID), nil}}
}

func NewConfirmBooking(bookingID int64) ConfirmBooking {
	return ConfirmBooking{request{"confirm_booking", http.MethodPatch, fmt.Sprintf("/booking/%d/confirm", bookingID), nil}}
}

// BookingUpdateBody is the partial update sent when a booking is moved.
type BookingUpdateBody struct {
	StartTime string  `json:"start_time"`
	EndTime   string  `json:"end_time"`
	Comment   *string `json:"comment,omitempty"`
}

func NewUpdateBooking(bookingID int64, start, end time.Time, comment *string) (UpdateBooking, error) {
	if err := domain.CheckOrdered("end_time", start, end); err != nil {
		return UpdateBooking{}, err
	}
	body := BookingUpdateBody{
		StartTime: domain.ToWire(start),
		EndTime:   domain.ToWire(end),
		Comment:   comment,
	}
	return UpdateBooking{request{"update_booking", http.MethodPatch, fmt.Sprintf("/booking/%d", bookingID), body}}, nil
}

// BookingCreateBody is the booking draft as the API receives it.
type BookingCreateBody struct {
	BusinessID  int64           `json:"business_id"`
	StartTime   string          `json:"start_time"`
	EndTime     string          `json:"end_time"`
	Price       decimal.Decimal `json:"price"`
	Offers      []domain.Offer  `json:"offers"`
	User        domain.Customer `json:"user"`
	Comment     *string         `json:"comment,omitempty"`
	Attachments []string        `json:"attachments,omitempty"`
}

func NewCreateBooking(body BookingCreateBody) (CreateBooking, error) {
	if len(body.Offers) == 0 {
		return CreateBooking{}, domain.NewValidationError("offers", "at least one offer is required")
	}
	if strings.TrimSpace(body.User.DisplayName) == "" {
		return CreateBooking{}, domain.NewValidationError("user.display_name", "is required")
	}
	start, err := domain.FromWire(body.StartTime)
	if err != nil {
		return CreateBooking{}, domain.NewValidationError("start_time", "is not a timestamp")
	}
	end, err := domain.FromWire(body.EndTime)
	if err != nil {
		return CreateBooking{}, domain.NewValidationError("end_time", "is not a timestamp")
	}
	if err := domain.CheckOrdered("end_time", start, end); err != nil {
		return CreateBooking{}, err
	}
	if !body.Price.Equal(domain.Aggregate(body.Offers).TotalPrice) {
		return CreateBooking{}, domain.NewValidationError("price", "must equal the sum of the offer prices")
	}
	return CreateBooking{request{"create_booking", http.MethodPost, "/booking", body}}, nil
}

// Offers

type ListOffers struct{ request }
type CreateOffer struct{ request }
type UpdateOffer struct{ request }
type DeleteOffer struct{ request }

// OfferBody carries an offer as submitted. Duration is in seconds.
type OfferBody struct {
	BusinessID int64           `json:"business_id,omitempty"`
	Name       string          `json:"name"`
	Price      decimal.Decimal `json:"price"`
	Duration   int             `json:"duration"`
	AllowPhoto bool            `json:"allow_photo"`
}

func (b OfferBody) validate() error {
	if strings.TrimSpace(b.Name) == "" {
		return domain.NewValidationError("name", "is required")
	}
	if b.Price.IsNegative() {
		return domain.NewValidationError("price", "must not be negative")
	}
	if b.Duration < 0 {
		return domain.NewValidationError("duration", "must not be negative")
	}
	return nil
}

func NewListOffers(businessID int64) ListOffers {
	return ListOffers{request{"list_offers", http.MethodGet, fmt.Sprintf("/offer?business_id=%d", businessID), nil}}
}

func NewCreateOffer(body OfferBody) (CreateOffer, error) {
	if err := body.validate(); err != nil {
		return CreateOffer{}, err
	}
	if body.BusinessID <= 0 {
		return CreateOffer{}, domain.NewValidationError("business_id", "is required")
	}
	return CreateOffer{request{"create_offer", http.MethodPost, "/offer", body}}, nil
}

func NewUpdateOffer(offerID int64, body OfferBody) (UpdateOffer, error) {
	if err := body.validate(); err != nil {
		return UpdateOffer{}, err
	}
	return UpdateOffer{request{"update_offer", http.MethodPatch, fmt.Sprintf("/offer/%d", offerID), body}}, nil
}

func NewDeleteOffer(offerID int64) DeleteOffer {
	return DeleteOffer{request{"delete_offer", http.MethodDelete, fmt.Sprintf("/offer/%d", offerID), nil}}
}

// Working hours

type ListWorkingHours struct{ request }
type CreateWorkingHours struct{ request }
type DeleteWorkingHour struct{ request }

// WorkingHourBody is one interval of a working-hours batch.
type WorkingHourBody struct {
	DateFrom string `json:"date_from"`
	DateTo   string `json:"date_to"`
}

func NewListWorkingHours(businessID int64) ListWorkingHours {
	return ListWorkingHours{request{"list_working_hours", http.MethodGet, fmt.Sprintf("/working-hours/%d", businessID), nil}}
}

func NewCreateWorkingHours(businessID int64, intervals []domain.Interval) (CreateWorkingHours, error) {
	if len(intervals) == 0 {
		return CreateWorkingHours{}, domain.NewValidationError("date_from", "no intervals to create")
	}
	body := make([]WorkingHourBody, 0, len(intervals))
	for _, iv := range intervals {
		if err := domain.CheckOrdered("date_to", iv.Start, iv.End); err != nil {
			return CreateWorkingHours{}, err
		}
		body = append(body, WorkingHourBody{DateFrom: domain.ToWire(iv.Start), DateTo: domain.ToWire(iv.End)})
	}
	return CreateWorkingHours{request{"create_working_hours", http.MethodPost, fmt.Sprintf("/working-hours/%d", businessID), body}}, nil
}

func NewDeleteWorkingHour(businessID, intervalID int64) DeleteWorkingHour {
	return DeleteWorkingHour{request{"delete_working_hour", http.MethodDelete, fmt.Sprintf("/working-hours/%d/%d", businessID, intervalID), nil}}
}

// Business and account

type GetMyBusiness struct{ request }
type UpdateBusiness struct{ request }
type UpdateMerchant struct{ request }
type Login struct{ request }

type BusinessUpdateBody struct {
	DisplayName string  `json:"display_name"`
	PhoneNumber string  `json:"phone_number"`
	LogoID      *string `json:"logo_id,omitempty"`
	BannerID    *string `json:"banner_id,omitempty"`
}

// MerchantUpdateBody changes the owner's own account. Nil fields are left as they are.
type MerchantUpdateBody struct {
	FirstName   *string `json:"first_name,omitempty"`
	LastName    *string `json:"last_name,omitempty"`
	PhoneNumber *string `json:"phone_number,omitempty"`
	AvatarID    *string `json:"avatar_id,omitempty"`
}

func NewGetMyBusiness() GetMyBusiness {
	return GetMyBusiness{request{"get_my_business", http.MethodGet, "/business/my", nil}}
}

func NewUpdateBusiness(businessID int64, body BusinessUpdateBody) (UpdateBusiness, error) {
	if strings.TrimSpace(body.DisplayName) == "" {
		return UpdateBusiness{}, domain.NewValidationError("display_name", "is required")
	}
	return UpdateBusiness{request{"update_business", http.MethodPatch, fmt.Sprintf("/business/%d", businessID), body}}, nil
}

func NewUpdateMerchant(body MerchantUpdateBody) UpdateMerchant {
	return UpdateMerchant{request{"update_merchant", http.MethodPatch, "/merchant/me", body}}
}

type LoginBody struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResult is what the API returns for a successful login.
type LoginResult struct {
	Token      string `json:"token"`
	BusinessID int64  `json:"business_id"`
}

// NewLogin is the only request sent without a bearer token; use it with a client that has no TokenSource.
func NewLogin(email, password string) (Login, error) {
	if strings.TrimSpace(email) == "" {
		return Login{}, domain.NewValidationError("email", "is required")
	}
	if password == "" {
		return Login{}, domain.NewValidationError("password", "is required")
	}
	return Login{request{"login", http.MethodPost, "/auth/login", LoginBody{Email: email, Password: password}}}, nil
}
