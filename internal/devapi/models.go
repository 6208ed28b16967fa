package devapi

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"ownerdesk/internal/domain"
	"ownerdesk/internal/pkg/utils"
)

type merchantModel struct {
	ID           int64   `gorm:"column:id;primaryKey"`
	Email        string  `gorm:"column:email;uniqueIndex;not null"`
	PasswordHash string  `gorm:"column:password_hash;not null"`
	FirstName    string  `gorm:"column:first_name"`
	LastName     string  `gorm:"column:last_name"`
	PhoneNumber  string  `gorm:"column:phone_number"`
	AvatarID     *string `gorm:"column:avatar_id"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (merchantModel) TableName() string { return "merchants" }

type businessModel struct {
	ID          int64   `gorm:"column:id;primaryKey"`
	OwnerID     int64   `gorm:"column:owner_id;index;not null"`
	Slug        string  `gorm:"column:slug;uniqueIndex;not null"`
	DisplayName string  `gorm:"column:display_name;not null"`
	PhoneNumber string  `gorm:"column:phone_number"`
	LogoID      *string `gorm:"column:logo_id"`
	BannerID    *string `gorm:"column:banner_id"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (businessModel) TableName() string { return "businesses" }

func (m businessModel) toDomain() *domain.Business {
	return &domain.Business{
		ID:          m.ID,
		Slug:        m.Slug,
		DisplayName: m.DisplayName,
		PhoneNumber: m.PhoneNumber,
		LogoID:      m.LogoID,
		BannerID:    m.BannerID,
	}
}

type offerModel struct {
	ID         int64           `gorm:"column:id;primaryKey"`
	BusinessID int64           `gorm:"column:business_id;index;not null"`
	Name       string          `gorm:"column:name;not null"`
	Price      decimal.Decimal `gorm:"column:price;type:decimal(12,2);not null"`
	Duration   int             `gorm:"column:duration;not null"`
	AllowPhoto bool            `gorm:"column:allow_photo"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (offerModel) TableName() string { return "offers" }

func (m offerModel) toDomain() *domain.Offer {
	return &domain.Offer{
		ID:         m.ID,
		Name:       m.Name,
		Price:      m.Price,
		Duration:   m.Duration,
		AllowPhoto: m.AllowPhoto,
	}
}

// bookingModel keeps the offers as a JSON snapshot taken when the booking was made.
type bookingModel struct {
	ID            int64           `gorm:"column:id;primaryKey"`
	BusinessID    int64           `gorm:"column:business_id;index;not null"`
	StartTime     time.Time       `gorm:"column:start_time;not null"`
	EndTime       time.Time       `gorm:"column:end_time;not null"`
	Price         decimal.Decimal `gorm:"column:price;type:decimal(12,2);not null"`
	OffersJSON    string          `gorm:"column:offers;type:text;not null"`
	UserName      string          `gorm:"column:user_display_name;not null"`
	UserPhone     string          `gorm:"column:user_phone_number"`
	Status        string          `gorm:"column:status;index;not null"`
	Comment       *string         `gorm:"column:comment"`
	AttachmentIDs string          `gorm:"column:attachment_ids;type:text"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
	CancelledAt   *time.Time `gorm:"column:cancelled_at"`
}

func (bookingModel) TableName() string { return "bookings" }

type workingHourModel struct {
	ID         int64     `gorm:"column:id;primaryKey"`
	BusinessID int64     `gorm:"column:business_id;not null;uniqueIndex:idx_working_hours_start"`
	DateFrom   time.Time `gorm:"column:date_from;not null;uniqueIndex:idx_working_hours_start"`
	DateTo     time.Time `gorm:"column:date_to;not null"`
	CreatedAt  time.Time
}

func (workingHourModel) TableName() string { return "working_hours" }

func (m workingHourModel) toDomain() *domain.WorkingHourInterval {
	return &domain.WorkingHourInterval{ID: m.ID, DateFrom: m.DateFrom, DateTo: m.DateTo}
}

type attachmentModel struct {
	ID          string `gorm:"column:id;primaryKey"`
	OwnerID     int64  `gorm:"column:owner_id;index"`
	Filename    string `gorm:"column:filename"`
	ContentType string `gorm:"column:content_type"`
	Data        []byte `gorm:"column:data"`
	CreatedAt   time.Time
}

func (attachmentModel) TableName() string { return "attachments" }

// Models lists every table of the dev API in migration order.
func Models() []any {
	return []any{
		&merchantModel{},
		&businessModel{},
		&offerModel{},
		&bookingModel{},
		&workingHourModel{},
		&attachmentModel{},
	}
}

func toBookingModel(businessID int64, b *domain.Booking, attachmentIDs []string) (bookingModel, error) {
	offers, err := json.Marshal(b.Offers)
	if err != nil {
		return bookingModel{}, err
	}
	return bookingModel{
		ID:            b.ID,
		BusinessID:    businessID,
		StartTime:     b.StartTime.UTC(),
		EndTime:       b.EndTime.UTC(),
		Price:         b.Price,
		OffersJSON:    string(offers),
		UserName:      b.User.DisplayName,
		UserPhone:     b.User.PhoneNumber,
		Status:        string(b.Status),
		Comment:       b.Comment,
		AttachmentIDs: utils.IDsToString(attachmentIDs),
	}, nil
}

func (m bookingModel) toDomain(attachments map[string]domain.Attachment) (*domain.Booking, error) {
	var offers []domain.Offer
	if err := json.Unmarshal([]byte(m.OffersJSON), &offers); err != nil {
		return nil, err
	}
	b := &domain.Booking{
		ID:        m.ID,
		StartTime: m.StartTime,
		EndTime:   m.EndTime,
		Price:     m.Price,
		Offers:    offers,
		User:      domain.Customer{DisplayName: m.UserName, PhoneNumber: m.UserPhone},
		Status:    domain.BookingStatus(m.Status),
		Comment:   m.Comment,
	}
	for _, id := range m.attachmentIDs() {
		if a, ok := attachments[id]; ok {
			b.Attachments = append(b.Attachments, a)
		}
	}
	return b, nil
}

func (m bookingModel) attachmentIDs() []string {
	return utils.StringToIDs(m.AttachmentIDs)
}
