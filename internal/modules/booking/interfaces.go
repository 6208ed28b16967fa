package booking

import (
	"context"

	"ownerdesk/internal/domain"
	"ownerdesk/internal/gateway"
)

// Gateway sends typed requests to the booking API.
type Gateway interface {
	Do(ctx context.Context, req gateway.Request, out any) error
}

// OfferCatalog resolves the offers picked in a booking form.
type OfferCatalog interface {
	List(ctx context.Context, businessID int64) ([]*domain.Offer, error)
}
