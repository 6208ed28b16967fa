package realtime

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ownerdesk/internal/cache"
	"ownerdesk/internal/pkg/jwt"
)

func setup(t *testing.T) (*cache.Store, *Hub, *websocket.Conn) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := cache.NewStore(nil, nil)
	hub := NewHub(nil)
	t.Cleanup(hub.Attach(store))

	jwtService := jwt.New("secret", time.Hour)
	token, err := jwtService.GenerateToken(1, 7, jwt.RoleOwner)
	require.NoError(t, err)

	router := gin.New()
	NewHandler(hub, jwtService, nil, nil).RegisterRoutes(router)
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws?token=" + token
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	require.Eventually(t, func() bool { return hub.Count() == 1 }, time.Second, 10*time.Millisecond)
	return store, hub, conn
}

func load(t *testing.T, store *cache.Store, key cache.Key, v any) {
	t.Helper()
	snap := store.Subscribe(context.Background(), key, func(context.Context) (any, error) { return v, nil })
	require.NoError(t, snap.Error)
}

func readEvent(t *testing.T, conn *websocket.Conn) Event {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, raw, err := conn.ReadMessage()
	require.NoError(t, err)
	var ev Event
	require.NoError(t, json.Unmarshal(raw, &ev))
	return ev
}

func TestHub_PushesPatchOfOwnBusiness(t *testing.T) {
	store, _, conn := setup(t)
	key := cache.BookingsKey(7)
	load(t, store, key, []string{"a"})
	// The initial load is an update as well.
	first := readEvent(t, conn)
	assert.Equal(t, string(key), first.Key)

	store.Patch(context.Background(), key, func(prev any) any { return append([]string{}, "a", "b") }, false)

	ev := readEvent(t, conn)
	assert.Equal(t, EventCacheUpdate, ev.Type)
	assert.Equal(t, string(key), ev.Key)
	assert.Equal(t, uint64(2), ev.Version)
	assert.Equal(t, []any{"a", "b"}, ev.Data)
}

func TestHub_IgnoresOtherBusinesses(t *testing.T) {
	store, _, conn := setup(t)
	load(t, store, cache.BookingsKey(8), []string{"x"})
	load(t, store, cache.OffersKey(7), []string{"mine"})

	ev := readEvent(t, conn)
	assert.Equal(t, string(cache.OffersKey(7)), ev.Key)
}

func TestHub_RejectsForeignSubscription(t *testing.T) {
	_, _, conn := setup(t)

	require.NoError(t, conn.WriteJSON(map[string]string{"type": "subscribe", "key": string(cache.BookingsKey(8))}))

	ev := readEvent(t, conn)
	assert.Equal(t, EventError, ev.Type)
}

func TestHub_Unsubscribe(t *testing.T) {
	store, hub, conn := setup(t)
	require.NoError(t, conn.WriteJSON(map[string]string{"type": "unsubscribe", "key": string(cache.BookingsKey(7))}))

	require.Eventually(t, func() bool {
		hub.mu.RLock()
		defer hub.mu.RUnlock()
		for c := range hub.connections {
			return !c.keys[cache.BookingsKey(7)]
		}
		return false
	}, time.Second, 10*time.Millisecond)

	load(t, store, cache.BookingsKey(7), []string{"hidden"})
	load(t, store, cache.WorkingHoursKey(7), []string{"shown"})

	ev := readEvent(t, conn)
	assert.Equal(t, string(cache.WorkingHoursKey(7)), ev.Key)
}

func TestHandler_RequiresToken(t *testing.T) {
	router := gin.New()
	NewHandler(NewHub(nil), jwt.New("secret", time.Hour), nil, nil).RegisterRoutes(router)
	srv := httptest.NewServer(router)
	defer srv.Close()

	_, resp, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/ws", nil)

	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, 401, resp.StatusCode)
}
