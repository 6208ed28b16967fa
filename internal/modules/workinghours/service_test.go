package workinghours

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"ownerdesk/internal/cache"
	"ownerdesk/internal/domain"
	"ownerdesk/internal/gateway"
)

const businessID = int64(7)

type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) Do(ctx context.Context, req gateway.Request, out any) error {
	args := m.Called(ctx, req, out)
	return args.Error(0)
}

func request(method, path string) any {
	return mock.MatchedBy(func(r gateway.Request) bool {
		return r.Method() == method && r.Path() == path
	})
}

// echoCreated answers a batch create with the submitted intervals, numbered from firstID.
func echoCreated(firstID int64) func(mock.Arguments) {
	return func(args mock.Arguments) {
		body := args.Get(1).(gateway.Request).Body().([]gateway.WorkingHourBody)
		out := args.Get(2).(*[]*domain.WorkingHourInterval)
		for i, b := range body {
			from, _ := domain.FromWire(b.DateFrom)
			to, _ := domain.FromWire(b.DateTo)
			*out = append(*out, &domain.WorkingHourInterval{ID: firstID + int64(i), DateFrom: from, DateTo: to})
		}
	}
}

func newLoadedService(t *testing.T) (*Service, *MockGateway, *cache.Store, []*domain.WorkingHourInterval) {
	t.Helper()
	gw := new(MockGateway)
	store := cache.NewStore(nil, nil)
	svc := NewService(gw, store, nil)

	gw.On("Do", mock.Anything, request(http.MethodGet, "/working-hours/7"), mock.Anything).
		Run(func(args mock.Arguments) {
			*args.Get(2).(*[]*domain.WorkingHourInterval) = []*domain.WorkingHourInterval{
				{ID: 1, DateFrom: time.Date(2024, 1, 9, 9, 0, 0, 0, time.Local), DateTo: time.Date(2024, 1, 9, 18, 0, 0, 0, time.Local)},
			}
		}).
		Return(nil).Once()

	hours, err := svc.List(context.Background(), businessID)
	require.NoError(t, err)
	return svc, gw, store, hours
}

func cached(t *testing.T, store *cache.Store) []*domain.WorkingHourInterval {
	t.Helper()
	list, ok := cache.GetAs[[]*domain.WorkingHourInterval](store, cache.WorkingHoursKey(businessID))
	require.True(t, ok)
	return list
}

func TestService_CreateRange_SendsBatchAndAppends(t *testing.T) {
	svc, gw, store, before := newLoadedService(t)
	gw.On("Do", mock.Anything, request(http.MethodPost, "/working-hours/7"), mock.Anything).
		Run(echoCreated(10)).Return(nil).Once()

	created, err := svc.CreateRange(context.Background(), businessID, RangeInput{
		StartDate: date(10), EndDate: date(12), Opening: domain.ClockTime{Hour: 9}, Closing: domain.ClockTime{Hour: 18},
	})

	require.NoError(t, err)
	require.Len(t, created, 3)
	after := cached(t, store)
	require.Len(t, after, 4)
	assert.Same(t, before[0], after[0])
	assert.Equal(t, int64(12), after[3].ID)
	assert.True(t, after[3].DateFrom.Equal(time.Date(2024, 1, 12, 9, 0, 0, 0, time.Local)))
}

func TestService_CreateRange_InvalidClock_NoRequest(t *testing.T) {
	svc, gw, store, before := newLoadedService(t)

	_, err := svc.CreateRange(context.Background(), businessID, RangeInput{
		StartDate: date(10), EndDate: date(12), Opening: domain.ClockTime{Hour: 18}, Closing: domain.ClockTime{Hour: 9},
	})

	assert.ErrorIs(t, err, domain.ErrValidation)
	gw.AssertNumberOfCalls(t, "Do", 1)
	assert.Equal(t, before, cached(t, store))
}

func TestService_CreateSingle_OvernightSpan(t *testing.T) {
	svc, gw, store, _ := newLoadedService(t)
	gw.On("Do", mock.Anything, request(http.MethodPost, "/working-hours/7"), mock.Anything).
		Run(echoCreated(20)).Return(nil).Once()

	from := time.Date(2024, 1, 10, 20, 0, 0, 0, time.Local)
	to := time.Date(2024, 1, 11, 2, 0, 0, 0, time.Local)
	created, err := svc.CreateSingle(context.Background(), businessID, from, to)

	require.NoError(t, err)
	assert.Equal(t, int64(20), created.ID)
	assert.Len(t, cached(t, store), 2)
}

func TestService_CreateSingle_EqualBounds(t *testing.T) {
	gw := new(MockGateway)
	svc := NewService(gw, cache.NewStore(nil, nil), nil)
	at := time.Date(2024, 1, 10, 9, 0, 0, 0, time.Local)

	_, err := svc.CreateSingle(context.Background(), businessID, at, at)

	var vErr *domain.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "date_to", vErr.Field)
	gw.AssertNotCalled(t, "Do", mock.Anything, mock.Anything, mock.Anything)
}

func TestService_Delete(t *testing.T) {
	svc, gw, store, _ := newLoadedService(t)
	gw.On("Do", mock.Anything, request(http.MethodDelete, "/working-hours/7/1"), nil).Return(nil).Once()

	require.NoError(t, svc.Delete(context.Background(), businessID, 1))

	assert.Empty(t, cached(t, store))
}

func TestService_Delete_Failure_LeavesCache(t *testing.T) {
	svc, gw, store, before := newLoadedService(t)
	gw.On("Do", mock.Anything, request(http.MethodDelete, "/working-hours/7/1"), nil).
		Return(fmt.Errorf("%w: timeout", gateway.ErrTransport)).Once()

	err := svc.Delete(context.Background(), businessID, 1)

	assert.ErrorIs(t, err, gateway.ErrTransport)
	assert.Equal(t, before, cached(t, store))
}
