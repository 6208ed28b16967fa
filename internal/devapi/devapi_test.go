package devapi_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"ownerdesk/internal/cache"
	"ownerdesk/internal/database"
	"ownerdesk/internal/devapi"
	"ownerdesk/internal/domain"
	"ownerdesk/internal/gateway"
	"ownerdesk/internal/modules/attachments"
	"ownerdesk/internal/modules/booking"
	"ownerdesk/internal/modules/offer"
	"ownerdesk/internal/modules/workinghours"
	"ownerdesk/internal/pkg/jwt"
)

var owner = devapi.SeedOwner{
	Email:        "owner@example.com",
	Password:     "secret123",
	BusinessName: "Light Room",
	BusinessSlug: "light-room",
	PhoneNumber:  "+380501234567",
}

type stack struct {
	url        string
	repo       *devapi.Repository
	businessID int64
	client     *gateway.Client
	store      *cache.Store
}

func newStack(t *testing.T) *stack {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.Connect(":memory:", zap.NewNop())
	require.NoError(t, err)
	repo := devapi.NewRepository(db, "/api/files")
	require.NoError(t, repo.Migrate())

	seeded, err := devapi.Seed(context.Background(), repo, owner)
	require.NoError(t, err)

	srv := httptest.NewServer(devapi.NewServer(repo, jwt.New("test-secret", time.Hour), zap.NewNop()).Router())
	t.Cleanup(srv.Close)

	anonymous := gateway.NewClient(srv.URL+"/api", 5*time.Second, nil, zap.NewNop(), nil)
	req, err := gateway.NewLogin(owner.Email, owner.Password)
	require.NoError(t, err)
	var login gateway.LoginResult
	require.NoError(t, anonymous.Do(context.Background(), req, &login))
	require.NotEmpty(t, login.Token)
	require.Equal(t, seeded.BusinessID, login.BusinessID)

	return &stack{
		url:        srv.URL,
		repo:       repo,
		businessID: seeded.BusinessID,
		client:     gateway.NewClient(srv.URL+"/api", 5*time.Second, gateway.StaticToken(login.Token), zap.NewNop(), nil),
		store:      cache.NewStore(zap.NewNop(), nil),
	}
}

func slot(day, hour int) time.Time {
	return time.Date(2030, 3, day, hour, 0, 0, 0, time.Local)
}

func TestLogin_WrongPassword(t *testing.T) {
	s := newStack(t)
	anonymous := gateway.NewClient(s.url+"/api", 5*time.Second, nil, zap.NewNop(), nil)

	req, err := gateway.NewLogin(owner.Email, "nope")
	require.NoError(t, err)
	err = anonymous.Do(context.Background(), req, nil)
	apiErr, ok := gateway.AsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
}

func TestSeed_IsIdempotent(t *testing.T) {
	s := newStack(t)

	again, err := devapi.Seed(context.Background(), s.repo, owner)
	require.NoError(t, err)
	assert.Equal(t, s.businessID, again.BusinessID)

	offers, err := s.repo.Offers(context.Background(), s.businessID)
	require.NoError(t, err)
	assert.Len(t, offers, 3)
}

func TestBookingLifecycle(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()
	offers := offer.NewService(s.client, s.store, zap.NewNop())
	bookings := booking.NewService(s.client, s.store, zap.NewNop())
	uploads := attachments.NewService(s.client, zap.NewNop())

	catalog, err := offers.List(ctx, s.businessID)
	require.NoError(t, err)
	require.Len(t, catalog, 3)

	list, err := bookings.List(ctx, s.businessID)
	require.NoError(t, err)
	assert.Empty(t, list)

	ref, err := uploads.Upload(ctx, "reference.png", strings.NewReader("\x89PNG\r\n\x1a\nfake"))
	require.NoError(t, err)
	assert.Equal(t, "/api/files/"+ref.ID, ref.URL)

	created, err := bookings.Create(ctx, s.businessID, booking.Draft{
		Start:         slot(10, 10),
		End:           slot(10, 12),
		Offers:        []domain.Offer{*catalog[0], *catalog[1]},
		User:          domain.Customer{DisplayName: "Anna", PhoneNumber: "+380501112233"},
		AttachmentIDs: []string{ref.ID},
	})
	require.NoError(t, err)
	assert.Equal(t, "150", created.Price.String())
	assert.Equal(t, domain.BookingNew, created.Status)
	require.Len(t, created.Attachments, 1)
	assert.Equal(t, ref.ID, created.Attachments[0].ID)

	cached, ok := cache.GetAs[[]*domain.Booking](s.store, cache.BookingsKey(s.businessID))
	require.True(t, ok)
	require.Len(t, cached, 1)
	assert.True(t, slot(10, 10).Equal(cached[0].StartTime))

	require.NoError(t, bookings.Confirm(ctx, s.businessID, cached[0]))
	cached, _ = cache.GetAs[[]*domain.Booking](s.store, cache.BookingsKey(s.businessID))
	assert.Equal(t, domain.BookingConfirmed, cached[0].Status)

	comment := "moved by phone"
	require.NoError(t, bookings.Reschedule(ctx, s.businessID, cached[0], booking.RescheduleInput{
		Start: slot(11, 14), End: slot(11, 16), Comment: &comment,
	}))

	require.NoError(t, bookings.Cancel(ctx, s.businessID, cached[0]))
	cached, _ = cache.GetAs[[]*domain.Booking](s.store, cache.BookingsKey(s.businessID))
	assert.Equal(t, domain.BookingCancelled, cached[0].Status)

	err = bookings.Cancel(ctx, s.businessID, cached[0])
	apiErr, ok := gateway.AsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusConflict, apiErr.Status)
	assert.Equal(t, "Booking cannot be cancelled in status CANCELLED", apiErr.Message)

	err = bookings.Confirm(ctx, s.businessID, cached[0])
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	fresh, err := s.repo.Bookings(ctx, s.businessID)
	require.NoError(t, err)
	require.Len(t, fresh, 1)
	assert.Equal(t, domain.BookingCancelled, fresh[0].Status)
	assert.True(t, slot(11, 14).Equal(fresh[0].StartTime))
	require.NotNil(t, fresh[0].Comment)
	assert.Equal(t, comment, *fresh[0].Comment)
}

func TestCreateBooking_ServerRejectsForeignOffer(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()
	bookings := booking.NewService(s.client, s.store, zap.NewNop())

	_, err := bookings.Create(ctx, s.businessID, booking.Draft{
		Start:  slot(10, 10),
		End:    slot(10, 11),
		Offers: []domain.Offer{{ID: 999, Name: "Ghost"}},
		User:   domain.Customer{DisplayName: "Anna"},
	})
	apiErr, ok := gateway.AsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
}

func TestBookings_OtherBusinessIsForbidden(t *testing.T) {
	s := newStack(t)
	bookings := booking.NewService(s.client, s.store, zap.NewNop())

	_, err := bookings.List(context.Background(), s.businessID+1)
	apiErr, ok := gateway.AsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusForbidden, apiErr.Status)

	_, cached := s.store.Get(cache.BookingsKey(s.businessID + 1))
	assert.False(t, cached)
}

func TestWorkingHours_RangeDuplicateAndDelete(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()
	svc := workinghours.NewService(s.client, s.store, zap.NewNop())

	_, err := svc.List(ctx, s.businessID)
	require.NoError(t, err)

	in := workinghours.RangeInput{
		StartDate: slot(1, 0),
		EndDate:   slot(3, 0),
		Opening:   domain.ClockTime{Hour: 9},
		Closing:   domain.ClockTime{Hour: 18},
	}
	created, err := svc.CreateRange(ctx, s.businessID, in)
	require.NoError(t, err)
	require.Len(t, created, 3)
	assert.True(t, slot(2, 9).Equal(created[1].DateFrom))
	assert.True(t, slot(2, 18).Equal(created[1].DateTo))

	_, err = svc.CreateRange(ctx, s.businessID, in)
	apiErr, ok := gateway.AsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusConflict, apiErr.Status)

	require.NoError(t, svc.Delete(ctx, s.businessID, created[0].ID))

	cached, ok := cache.GetAs[[]*domain.WorkingHourInterval](s.store, cache.WorkingHoursKey(s.businessID))
	require.True(t, ok)
	fresh, err := s.repo.WorkingHours(ctx, s.businessID)
	require.NoError(t, err)
	require.Len(t, cached, 2)
	require.Len(t, fresh, 2)
	for i := range fresh {
		assert.Equal(t, fresh[i].ID, cached[i].ID)
		assert.True(t, fresh[i].DateFrom.Equal(cached[i].DateFrom))
	}
}

func TestOffers_DurationIsStoredInSeconds(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()
	svc := offer.NewService(s.client, s.store, zap.NewNop())

	created, err := svc.Create(ctx, s.businessID, offer.OfferRequest{Name: "Retouch", Price: decimal.RequireFromString("20.00"), DurationMinutes: 90})
	require.NoError(t, err)
	assert.Equal(t, 5400, created.Duration)

	stored, err := s.repo.Offers(ctx, s.businessID)
	require.NoError(t, err)
	require.Len(t, stored, 4)
	assert.Equal(t, 5400, stored[3].Duration)
}
