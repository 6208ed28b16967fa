package realtime

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"ownerdesk/internal/cache"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	maxMsgSize = 4 * 1024
	sendBuffer = 64
)

const (
	EventCacheUpdate = "cache_update"
	EventError       = "error"
)

// Event is pushed to dashboard tabs when a cached read they follow changes.
type Event struct {
	Type    string `json:"type"`
	Key     string `json:"key,omitempty"`
	Version uint64 `json:"version,omitempty"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

type clientMessage struct {
	Type string `json:"type"`
	Key  string `json:"key"`
}

type connection struct {
	businessID int64
	conn       *websocket.Conn
	send       chan []byte
	keys       map[cache.Key]bool
}

// Hub fans cache changes out to the websocket connections subscribed to their key.
// An owner may hold several connections, one per open tab.
type Hub struct {
	mu          sync.RWMutex
	connections map[*connection]struct{}
	log         *zap.Logger
}

func NewHub(log *zap.Logger) *Hub {
	if log == nil {
		log = zap.NewNop()
	}
	return &Hub{
		connections: make(map[*connection]struct{}),
		log:         log,
	}
}

// Attach starts forwarding every change of store. The returned function detaches the hub.
func (h *Hub) Attach(store *cache.Store) func() {
	return store.Listen(func(c cache.Change) {
		h.Broadcast(&Event{Type: EventCacheUpdate, Key: string(c.Key), Version: c.Version, Data: c.Value})
	})
}

// Broadcast sends ev to every connection subscribed to ev.Key. Slow clients miss events.
func (h *Hub) Broadcast(ev *Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		h.log.Warn("Broadcast: encode failed", zap.String("key", ev.Key), zap.Error(err))
		return
	}
	key := cache.Key(ev.Key)

	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.connections {
		if !c.keys[key] {
			continue
		}
		select {
		case c.send <- data:
		default:
			h.log.Debug("Broadcast: client too slow", zap.Int64("business_id", c.businessID), zap.String("key", ev.Key))
		}
	}
}

func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.connections)
}

// ServeWS registers conn for a business and blocks until it disconnects.
// The connection starts subscribed to every collection of the business.
func (h *Hub) ServeWS(conn *websocket.Conn, businessID int64) {
	c := &connection{
		businessID: businessID,
		conn:       conn,
		send:       make(chan []byte, sendBuffer),
		keys:       make(map[cache.Key]bool),
	}
	for _, key := range businessKeys(businessID) {
		c.keys[key] = true
	}

	h.register(c)
	go h.writePump(c)
	h.readPump(c)
}

func (h *Hub) register(c *connection) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.connections[c] = struct{}{}
}

func (h *Hub) unregister(c *connection) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.connections[c]; ok {
		delete(h.connections, c)
		close(c.send)
	}
}

func (h *Hub) readPump(c *connection) {
	defer func() {
		h.unregister(c)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMsgSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.log.Info("readPump: connection closed", zap.Int64("business_id", c.businessID), zap.Error(err))
			}
			return
		}

		var msg clientMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			h.reply(c, &Event{Type: EventError, Message: "invalid message"})
			continue
		}

		key := cache.Key(msg.Key)
		switch msg.Type {
		case "subscribe":
			if !allowed(c.businessID, key) {
				h.reply(c, &Event{Type: EventError, Key: msg.Key, Message: "key does not belong to this business"})
				continue
			}
			h.mu.Lock()
			c.keys[key] = true
			h.mu.Unlock()
		case "unsubscribe":
			h.mu.Lock()
			delete(c.keys, key)
			h.mu.Unlock()
		default:
			h.reply(c, &Event{Type: EventError, Message: "unknown message type: " + msg.Type})
		}
	}
}

func (h *Hub) reply(c *connection, ev *Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	if _, ok := h.connections[c]; !ok {
		return
	}
	select {
	case c.send <- data:
	default:
	}
}

func (h *Hub) writePump(c *connection) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func businessKeys(businessID int64) []cache.Key {
	return []cache.Key{
		cache.BookingsKey(businessID),
		cache.OffersKey(businessID),
		cache.WorkingHoursKey(businessID),
		cache.BusinessKey(businessID),
	}
}

func allowed(businessID int64, key cache.Key) bool {
	for _, k := range businessKeys(businessID) {
		if k == key {
			return true
		}
	}
	return false
}

// Upgrader accepts connections from the dashboard origins only. An empty list accepts any origin.
func Upgrader(origins []string) websocket.Upgrader {
	allowedOrigins := make(map[string]bool, len(origins))
	for _, o := range origins {
		allowedOrigins[o] = true
	}
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			return origin == "" || len(allowedOrigins) == 0 || allowedOrigins[origin]
		},
	}
}
