package offer

import (
	"github.com/shopspring/decimal"

	"ownerdesk/internal/domain"
)

// OfferRequest is the offer form. The owner types the duration in minutes.
type OfferRequest struct {
	Name            string          `json:"name" validate:"required,max=255"`
	Price           decimal.Decimal `json:"price"`
	DurationMinutes int             `json:"duration_minutes" validate:"gte=0"`
	AllowPhoto      bool            `json:"allow_photo"`
}

// OfferView is an offer as the owner sees it.
type OfferView struct {
	ID              int64           `json:"id"`
	Name            string          `json:"name"`
	Price           decimal.Decimal `json:"price"`
	DurationMinutes int             `json:"duration_minutes"`
	AllowPhoto      bool            `json:"allow_photo"`
}

func toView(o *domain.Offer) OfferView {
	return OfferView{
		ID:              o.ID,
		Name:            o.Name,
		Price:           o.Price,
		DurationMinutes: domain.SecondsToMinutes(o.Duration),
		AllowPhoto:      o.AllowPhoto,
	}
}

func toViews(offers []*domain.Offer) []OfferView {
	out := make([]OfferView, 0, len(offers))
	for _, o := range offers {
		out = append(out, toView(o))
	}
	return out
}
