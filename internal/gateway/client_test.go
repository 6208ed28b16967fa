package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ownerdesk/internal/domain"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL+"/api", time.Second, StaticToken("owner-token"), nil, nil)
}

func TestClient_Do_SendsTypedRequest(t *testing.T) {
	var gotMethod, gotPath, gotAuth, gotRequestID string
	var gotBody BookingUpdateBody
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod, gotPath = r.Method, r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotRequestID = r.Header.Get("X-Request-ID")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.WriteHeader(http.StatusOK)
	})

	start := time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)
	req, err := NewUpdateBooking(3, start, start.Add(time.Hour), nil)
	require.NoError(t, err)

	ctx := WithRequestID(context.Background(), "req-1")
	require.NoError(t, client.Do(ctx, req, nil))

	assert.Equal(t, http.MethodPatch, gotMethod)
	assert.Equal(t, "/api/booking/3", gotPath)
	assert.Equal(t, "Bearer owner-token", gotAuth)
	assert.Equal(t, "req-1", gotRequestID)
	assert.Equal(t, "2024-01-10T09:00:00Z", gotBody.StartTime)
	assert.Equal(t, "2024-01-10T10:00:00Z", gotBody.EndTime)
	assert.Nil(t, gotBody.Comment)
}

func TestClient_Do_DecodesResponse(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "7", r.URL.Query().Get("business_id"))
		_, _ = io.WriteString(w, `[{"id":1,"name":"Haircut","price":"100.50","duration":1800}]`)
	})

	var offers []*domain.Offer
	require.NoError(t, client.Do(context.Background(), NewListOffers(7), &offers))

	require.Len(t, offers, 1)
	assert.True(t, offers[0].Price.Equal(decimal.RequireFromString("100.50")))
	assert.Equal(t, 1800, offers[0].Duration)
}

func TestClient_Do_Non2xxCarriesServerMessage(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string
	}{
		{"message", `{"message":"Booking is already cancelled"}`, "Booking is already cancelled"},
		{"detail", `{"detail":"Not allowed"}`, "Not allowed"},
		{"error string", `{"error":"bad state"}`, "bad state"},
		{"error envelope", `{"success":false,"error":{"code":"CONFLICT","message":"Invalid status"}}`, "Invalid status"},
		{"plain text", `upstream exploded`, "upstream exploded"},
		{"empty", ``, "Conflict"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusConflict)
				_, _ = io.WriteString(w, tc.body)
			})

			err := client.Do(context.Background(), NewCancelBooking(1), nil)

			apiErr, ok := AsAPIError(err)
			require.True(t, ok)
			assert.Equal(t, http.StatusConflict, apiErr.Status)
			assert.Equal(t, tc.want, apiErr.Message)
			assert.Equal(t, "cancel_booking", apiErr.Operation)
			assert.ErrorIs(t, err, ErrTransport)
		})
	}
}

func TestClient_Do_NetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close()
	client := NewClient(srv.URL, time.Second, StaticToken("t"), nil, nil)

	err := client.Do(context.Background(), NewConfirmBooking(1), nil)

	assert.ErrorIs(t, err, ErrTransport)
	_, isAPI := AsAPIError(err)
	assert.False(t, isAPI)
}

func TestClient_Do_NoToken(t *testing.T) {
	called := false
	client := newTestClient(t, func(http.ResponseWriter, *http.Request) { called = true })
	client.tokens = ContextToken{}

	err := client.Do(context.Background(), NewGetMyBusiness(), nil)

	assert.ErrorIs(t, err, ErrNoToken)
	assert.False(t, called)
}

func TestClient_Do_ForwardsContextToken(t *testing.T) {
	var gotAuth string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
	})
	client.tokens = ContextToken{}

	require.NoError(t, client.Do(WithToken(context.Background(), "abc"), NewGetMyBusiness(), nil))
	assert.Equal(t, "Bearer abc", gotAuth)
}

func TestClient_PostFile(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data"))
		f, fh, err := r.FormFile("attachment")
		require.NoError(t, err)
		defer f.Close()
		data, _ := io.ReadAll(f)
		assert.Equal(t, "logo.png", fh.Filename)
		assert.Equal(t, "png-bytes", string(data))
		_, _ = io.WriteString(w, `{"id":"a1","url":"http://files/a1"}`)
	})

	var att domain.Attachment
	require.NoError(t, client.PostFile(context.Background(), "/attachments", "attachment", "logo.png", strings.NewReader("png-bytes"), &att))
	assert.Equal(t, domain.Attachment{ID: "a1", URL: "http://files/a1"}, att)
}

func TestClient_Do_LoginWithoutTokenSource(t *testing.T) {
	var gotMethod, gotPath, gotAuth string
	var gotBody LoginBody
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod, gotPath = r.Method, r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_, _ = io.WriteString(w, `{"token":"t-1","business_id":7}`)
	}))
	t.Cleanup(srv.Close)
	client := NewClient(srv.URL+"/api", time.Second, nil, nil, nil)

	req, err := NewLogin("owner@example.com", "secret")
	require.NoError(t, err)
	var out LoginResult
	require.NoError(t, client.Do(context.Background(), req, &out))

	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "/api/auth/login", gotPath)
	assert.Empty(t, gotAuth)
	assert.Equal(t, LoginBody{Email: "owner@example.com", Password: "secret"}, gotBody)
	assert.Equal(t, LoginResult{Token: "t-1", BusinessID: 7}, out)
}

func TestNewLogin_RequiresCredentials(t *testing.T) {
	_, err := NewLogin(" ", "secret")
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = NewLogin("owner@example.com", "")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestNewCreateBooking_Invariants(t *testing.T) {
	offers := []domain.Offer{
		{ID: 1, Price: decimal.NewFromInt(100), Duration: 1800},
		{ID: 2, Price: decimal.NewFromInt(50), Duration: 900},
	}
	valid := BookingCreateBody{
		BusinessID: 7,
		StartTime:  "2024-01-10T09:00:00Z",
		EndTime:    "2024-01-10T10:00:00Z",
		Price:      decimal.NewFromInt(150),
		Offers:     offers,
		User:       domain.Customer{DisplayName: "Anna"},
	}

	req, err := NewCreateBooking(valid)
	require.NoError(t, err)
	assert.Equal(t, "/booking", req.Path())
	assert.Equal(t, http.MethodPost, req.Method())

	wrongPrice := valid
	wrongPrice.Price = decimal.NewFromInt(140)
	_, err = NewCreateBooking(wrongPrice)
	assert.ErrorIs(t, err, domain.ErrValidation)

	unordered := valid
	unordered.EndTime = unordered.StartTime
	_, err = NewCreateBooking(unordered)
	assert.ErrorIs(t, err, domain.ErrValidation)

	noOffers := valid
	noOffers.Offers = nil
	_, err = NewCreateBooking(noOffers)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestNewCreateWorkingHours_RejectsUnordered(t *testing.T) {
	at := time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)

	_, err := NewCreateWorkingHours(7, []domain.Interval{{Start: at, End: at.Add(time.Hour)}, {Start: at, End: at}})

	var vErr *domain.ValidationError
	require.True(t, errors.As(err, &vErr))
	assert.Equal(t, "date_to", vErr.Field)
}

func TestRequestPaths(t *testing.T) {
	cases := []struct {
		req    Request
		method string
		path   string
	}{
		{NewListBookings(7), http.MethodGet, "/booking/business/7"},
		{NewGetBooking(3), http.MethodGet, "/booking/3"},
		{NewConfirmBooking(3), http.MethodPatch, "/booking/3/confirm"},
		{NewCancelBooking(3), http.MethodPatch, "/booking/3/cancel"},
		{NewListOffers(7), http.MethodGet, "/offer?business_id=7"},
		{NewDeleteOffer(4), http.MethodDelete, "/offer/4"},
		{NewListWorkingHours(7), http.MethodGet, "/working-hours/7"},
		{NewDeleteWorkingHour(7, 5), http.MethodDelete, "/working-hours/7/5"},
		{NewGetMyBusiness(), http.MethodGet, "/business/my"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.method, tc.req.Method(), tc.path)
		assert.Equal(t, tc.path, tc.req.Path())
	}
}
