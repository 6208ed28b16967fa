package business

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

// GetMy returns the caller's business. It is cached under the business id from the session.
func (s *Service) GetMy(ctx context.Context, businessID int64) (*domain.Business, error) {
	return cache.SubscribeAs(ctx, s.store, cache.BusinessKey(businessID), func(ctx context.Context) (*domain.Business, error) {
		var out domain.Business
		if err := s.gw.Do(ctx, gateway.NewGetMyBusiness(), &out); err != nil {
			return nil, err
		}
		return &out, nil
	})
}

// UpdateMy changes the profile. Logo and banner are only replaced when new attachment ids are given.
func (s *Service) UpdateMy(ctx context.Context, businessID int64, in UpdateBusinessRequest) error {
	req, err := gateway.NewUpdateBusiness(businessID, gateway.BusinessUpdateBody{
		DisplayName: in.DisplayName,
		PhoneNumber: in.PhoneNumber,
		LogoID:      in.LogoID,
		BannerID:    in.BannerID,
	})
	if err != nil {
		return err
	}
	if err := s.gw.Do(ctx, req, nil); err != nil {
		s.log.Warn("UpdateMy: request failed", zap.Int64("business_id", businessID), zap.Error(err))
		return err
	}

	cache.PatchAs(ctx, s.store, cache.BusinessKey(businessID), func(cur *domain.Business) *domain.Business {
		next := *cur
		next.DisplayName = in.DisplayName
		next.PhoneNumber = in.PhoneNumber
		if in.LogoID != nil {
			next.LogoID = in.LogoID
		}
		if in.BannerID != nil {
			next.BannerID = in.BannerID
		}
		return &next
	})
	return nil
}

// UpdateMerchant changes the owner's own account. Nothing about it is cached.
func (s *Service) UpdateMerchant(ctx context.Context, in UpdateMerchantRequest) error {
	return s.gw.Do(ctx, gateway.NewUpdateMerchant(gateway.MerchantUpdateBody{
		FirstName:   in.FirstName,
		LastName:    in.LastName,
		PhoneNumber: in.PhoneNumber,
		AvatarID:    in.AvatarID,
	}), nil)
}
