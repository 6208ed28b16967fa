package offer

import (
	"context"

	"go.uber.org/zap"

	"ownerdesk/internal/cache"
	"ownerdesk/internal/domain"
	"ownerdesk/internal/gateway"
)

type Service struct {
	gw    Gateway
	store *cache.Store
	log   *zap.Logger
}

func NewService(gw Gateway, store *cache.Store, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{gw: gw, store: store, log: log}
}

func (s *Service) List(ctx context.Context, businessID int64) ([]*domain.Offer, error) {
	return cache.SubscribeAs(ctx, s.store, cache.OffersKey(businessID), func(ctx context.Context) ([]*domain.Offer, error) {
		var out []*domain.Offer
		if err := s.gw.Do(ctx, gateway.NewListOffers(businessID), &out); err != nil {
			return nil, err
		}
		if out == nil {
			out = []*domain.Offer{}
		}
		return out, nil
	})
}

// Create converts the form's minutes to seconds and appends the created offer to the cache.
func (s *Service) Create(ctx context.Context, businessID int64, in OfferRequest) (*domain.Offer, error) {
	body := toBody(in)
	body.BusinessID = businessID
	req, err := gateway.NewCreateOffer(body)
	if err != nil {
		return nil, err
	}

	var created domain.Offer
	if err := s.gw.Do(ctx, req, &created); err != nil {
		s.log.Warn("Create: request failed", zap.Int64("business_id", businessID), zap.Error(err))
		return nil, err
	}

	cache.PatchAs(ctx, s.store, cache.OffersKey(businessID), func(list []*domain.Offer) []*domain.Offer {
		return cache.Append(list, &created)
	})
	return &created, nil
}

func (s *Service) Update(ctx context.Context, businessID, offerID int64, in OfferRequest) (*domain.Offer, error) {
	body := toBody(in)
	req, err := gateway.NewUpdateOffer(offerID, body)
	if err != nil {
		return nil, err
	}
	if err := s.gw.Do(ctx, req, nil); err != nil {
		s.log.Warn("Update: request failed", zap.Int64("offer_id", offerID), zap.Error(err))
		return nil, err
	}

	updated := &domain.Offer{
		ID:         offerID,
		Name:       body.Name,
		Price:      body.Price,
		Duration:   body.Duration,
		AllowPhoto: body.AllowPhoto,
	}
	cache.PatchAs(ctx, s.store, cache.OffersKey(businessID), func(list []*domain.Offer) []*domain.Offer {
		return cache.ReplaceByID(list, offerID, func(*domain.Offer) *domain.Offer { return updated })
	})
	return updated, nil
}

// Delete removes the offer. Bookings keep their own copies of the offers they were made with.
func (s *Service) Delete(ctx context.Context, businessID, offerID int64) error {
	if err := s.gw.Do(ctx, gateway.NewDeleteOffer(offerID), nil); err != nil {
		s.log.Warn("Delete: request failed", zap.Int64("offer_id", offerID), zap.Error(err))
		return err
	}

	cache.PatchAs(ctx, s.store, cache.OffersKey(businessID), func(list []*domain.Offer) []*domain.Offer {
		return cache.RemoveByID(list, offerID)
	})
	return nil
}

func toBody(in OfferRequest) gateway.OfferBody {
	return gateway.OfferBody{
		Name:       in.Name,
		Price:      in.Price,
		Duration:   domain.MinutesToSeconds(in.DurationMinutes),
		AllowPhoto: in.AllowPhoto,
	}
}
