package workinghours

import (
	"context"
	"time"

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

func (s *Service) List(ctx context.Context, businessID int64) ([]*domain.WorkingHourInterval, error) {
	return cache.SubscribeAs(ctx, s.store, cache.WorkingHoursKey(businessID), func(ctx context.Context) ([]*domain.WorkingHourInterval, error) {
		var out []*domain.WorkingHourInterval
		if err := s.gw.Do(ctx, gateway.NewListWorkingHours(businessID), &out); err != nil {
			return nil, err
		}
		if out == nil {
			out = []*domain.WorkingHourInterval{}
		}
		return out, nil
	})
}

// CreateRange submits one interval per day of the range as a single batch.
func (s *Service) CreateRange(ctx context.Context, businessID int64, in RangeInput) ([]*domain.WorkingHourInterval, error) {
	intervals, err := Generate(in)
	if err != nil {
		return nil, err
	}
	return s.create(ctx, businessID, intervals)
}

// CreateSingle submits one explicit span. It may end on the next calendar day.
func (s *Service) CreateSingle(ctx context.Context, businessID int64, from, to time.Time) (*domain.WorkingHourInterval, error) {
	if err := domain.CheckOrdered("date_to", from, to); err != nil {
		return nil, err
	}
	created, err := s.create(ctx, businessID, []domain.Interval{{Start: from, End: to}})
	if err != nil {
		return nil, err
	}
	if len(created) == 0 {
		return nil, nil
	}
	return created[0], nil
}

// Delete removes exactly one interval. Bookings made against it are left alone.
func (s *Service) Delete(ctx context.Context, businessID, intervalID int64) error {
	if err := s.gw.Do(ctx, gateway.NewDeleteWorkingHour(businessID, intervalID), nil); err != nil {
		s.log.Warn("Delete: request failed", zap.Int64("business_id", businessID), zap.Int64("interval_id", intervalID), zap.Error(err))
		return err
	}

	cache.PatchAs(ctx, s.store, cache.WorkingHoursKey(businessID), func(list []*domain.WorkingHourInterval) []*domain.WorkingHourInterval {
		return cache.RemoveByID(list, intervalID)
	})
	return nil
}

func (s *Service) create(ctx context.Context, businessID int64, intervals []domain.Interval) ([]*domain.WorkingHourInterval, error) {
	req, err := gateway.NewCreateWorkingHours(businessID, intervals)
	if err != nil {
		return nil, err
	}

	var created []*domain.WorkingHourInterval
	if err := s.gw.Do(ctx, req, &created); err != nil {
		s.log.Warn("Create: request failed", zap.Int64("business_id", businessID), zap.Int("intervals", len(intervals)), zap.Error(err))
		return nil, err
	}

	cache.PatchAs(ctx, s.store, cache.WorkingHoursKey(businessID), func(list []*domain.WorkingHourInterval) []*domain.WorkingHourInterval {
		return cache.Append(list, created...)
	})
	s.log.Info("Create: working hours added", zap.Int64("business_id", businessID), zap.Int("intervals", len(created)))
	return created, nil
}
