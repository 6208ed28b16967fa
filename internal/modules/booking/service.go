package booking

import (
	"context"
	"fmt"
	"strings"

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

// List returns the bookings of a business, reading the API only on a cache miss.
func (s *Service) List(ctx context.Context, businessID int64) ([]*domain.Booking, error) {
	return cache.SubscribeAs(ctx, s.store, cache.BookingsKey(businessID), func(ctx context.Context) ([]*domain.Booking, error) {
		var out []*domain.Booking
		if err := s.gw.Do(ctx, gateway.NewListBookings(businessID), &out); err != nil {
			return nil, err
		}
		if out == nil {
			out = []*domain.Booking{}
		}
		return out, nil
	})
}

// Get reads one booking of a business. The API refuses bookings of other businesses.
func (s *Service) Get(ctx context.Context, businessID, bookingID int64) (*domain.Booking, error) {
	return cache.SubscribeAs(ctx, s.store, cache.BookingKey(businessID, bookingID), func(ctx context.Context) (*domain.Booking, error) {
		var out domain.Booking
		if err := s.gw.Do(ctx, gateway.NewGetBooking(bookingID), &out); err != nil {
			return nil, err
		}
		return &out, nil
	})
}

// Find looks the booking up in the business list first and falls back to a single read.
func (s *Service) Find(ctx context.Context, businessID, bookingID int64) (*domain.Booking, error) {
	if list, ok := cache.GetAs[[]*domain.Booking](s.store, cache.BookingsKey(businessID)); ok {
		if b, found := cache.FindByID(list, bookingID); found {
			return b, nil
		}
	}
	b, err := s.Get(ctx, businessID, bookingID)
	if err != nil {
		if apiErr, ok := gateway.AsAPIError(err); ok && apiErr.Status == 404 {
			s.store.Invalidate(cache.BookingKey(businessID, bookingID))
			return nil, ErrNotFound
		}
		return nil, err
	}
	return b, nil
}

// Confirm is defined for NEW bookings only. Any other status fails before a request is sent.
func (s *Service) Confirm(ctx context.Context, businessID int64, b *domain.Booking) error {
	if !b.CanBeConfirmed() {
		return fmt.Errorf("%w: cannot confirm a %s booking", domain.ErrInvalidTransition, b.Status)
	}
	if err := s.gw.Do(ctx, gateway.NewConfirmBooking(b.ID), nil); err != nil {
		s.log.Warn("Confirm: request failed", zap.Int64("booking_id", b.ID), zap.Error(err))
		return err
	}

	s.patch(ctx, businessID, b.ID, func(cur *domain.Booking) *domain.Booking {
		next := *cur
		next.Status = domain.BookingConfirmed
		return &next
	})
	s.log.Info("Confirm: booking confirmed", zap.Int64("business_id", businessID), zap.Int64("booking_id", b.ID))
	return nil
}

// Cancel sends the cancellation without looking at the cached status; the API decides whether it is legal.
func (s *Service) Cancel(ctx context.Context, businessID int64, b *domain.Booking) error {
	if err := s.gw.Do(ctx, gateway.NewCancelBooking(b.ID), nil); err != nil {
		s.log.Warn("Cancel: request failed", zap.Int64("booking_id", b.ID), zap.Error(err))
		return err
	}

	s.patch(ctx, businessID, b.ID, func(cur *domain.Booking) *domain.Booking {
		next := *cur
		next.Status = domain.BookingCancelled
		return &next
	})
	s.log.Info("Cancel: booking cancelled", zap.Int64("business_id", businessID), zap.Int64("booking_id", b.ID))
	return nil
}

func (s *Service) Reschedule(ctx context.Context, businessID int64, b *domain.Booking, in RescheduleInput) error {
	if b.IsTerminal() {
		return fmt.Errorf("%w: cannot move a %s booking", domain.ErrInvalidTransition, b.Status)
	}
	req, err := gateway.NewUpdateBooking(b.ID, in.Start, in.End, in.Comment)
	if err != nil {
		return err
	}
	if err := s.gw.Do(ctx, req, nil); err != nil {
		s.log.Warn("Reschedule: request failed", zap.Int64("booking_id", b.ID), zap.Error(err))
		return err
	}

	s.patch(ctx, businessID, b.ID, func(cur *domain.Booking) *domain.Booking {
		next := *cur
		next.StartTime = in.Start
		next.EndTime = in.End
		if in.Comment != nil {
			comment := *in.Comment
			next.Comment = &comment
		}
		return &next
	})
	return nil
}

// Create submits a draft with the price derived from its offers and appends the created booking to the cache.
func (s *Service) Create(ctx context.Context, businessID int64, d Draft) (*domain.Booking, error) {
	if len(d.Offers) == 0 {
		return nil, domain.NewValidationError("offers", "at least one offer is required")
	}
	if strings.TrimSpace(d.User.DisplayName) == "" {
		return nil, domain.NewValidationError("user.display_name", "is required")
	}
	if err := domain.CheckOrdered("end_time", d.Start, d.End); err != nil {
		return nil, err
	}

	totals := domain.Aggregate(d.Offers)
	req, err := gateway.NewCreateBooking(gateway.BookingCreateBody{
		BusinessID:  businessID,
		StartTime:   domain.ToWire(d.Start),
		EndTime:     domain.ToWire(d.End),
		Price:       totals.TotalPrice,
		Offers:      d.Offers,
		User:        d.User,
		Comment:     d.Comment,
		Attachments: d.AttachmentIDs,
	})
	if err != nil {
		return nil, err
	}

	var created domain.Booking
	if err := s.gw.Do(ctx, req, &created); err != nil {
		s.log.Warn("Create: request failed", zap.Int64("business_id", businessID), zap.Error(err))
		return nil, err
	}

	cache.PatchAs(ctx, s.store, cache.BookingsKey(businessID), func(list []*domain.Booking) []*domain.Booking {
		return cache.Append(list, &created)
	})
	s.log.Info("Create: booking created",
		zap.Int64("business_id", businessID),
		zap.Int64("booking_id", created.ID),
		zap.String("price", created.Price.String()),
	)
	return &created, nil
}

// patch replaces the booking in the business list and in its own key, whichever are cached.
func (s *Service) patch(ctx context.Context, businessID, bookingID int64, fn func(*domain.Booking) *domain.Booking) {
	cache.PatchAs(ctx, s.store, cache.BookingsKey(businessID), func(list []*domain.Booking) []*domain.Booking {
		return cache.ReplaceByID(list, bookingID, fn)
	})
	cache.PatchAs(ctx, s.store, cache.BookingKey(businessID, bookingID), fn)
}
