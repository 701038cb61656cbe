package broadcast

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"cardbox/internal/logging"
)

const writeTimeout = 10 * time.Second

// Event is the tagged notification sent to subscribers.
type Event struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

// Hub maintains the set of live subscriber connections.
type Hub struct {
	upgrader websocket.Upgrader
	logger   *slog.Logger

	mu          sync.Mutex
	subscribers map[string]*subscriber
	closed      bool
}

type subscriber struct {
	id   string
	conn *websocket.Conn

	// writeMu serializes writes; gorilla allows one concurrent writer.
	writeMu sync.Mutex
}

// NewHub builds an empty hub.
func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		upgrader: websocket.Upgrader{
			// Viewers connect from file:// shells and kiosk browsers; the
			// registry carries nothing origin-sensitive.
			CheckOrigin: func(*http.Request) bool { return true },
		},
		logger:      logging.WithComponent(logger, "broadcast"),
		subscribers: make(map[string]*subscriber),
	}
}

// ServeHTTP upgrades the request and registers the connection. Inbound
// messages are drained and discarded; the feed is one-way.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", logging.Error(err))
		return
	}

	sub := &subscriber{id: uuid.NewString(), conn: conn}
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		_ = conn.Close()
		return
	}
	h.subscribers[sub.id] = sub
	count := len(h.subscribers)
	h.mu.Unlock()

	h.logger.Info("subscriber connected",
		slog.String(logging.FieldSubscriber, sub.id),
		slog.Int("subscribers", count))

	go h.drain(sub)
}

// drain reads until the connection dies, then unregisters it.
func (h *Hub) drain(sub *subscriber) {
	for {
		if _, _, err := sub.conn.ReadMessage(); err != nil {
			break
		}
	}
	h.remove(sub.id, "closed by peer")
}

// Broadcast encodes the event once and writes the identical message to
// every registered connection. Connections that fail the write are
// dropped; their viewers resynchronize on reconnect.
func (h *Hub) Broadcast(eventType string, payload any) {
	message, err := json.Marshal(Event{Type: eventType, Payload: payload})
	if err != nil {
		h.logger.Error("encode event", slog.String("event", eventType), logging.Error(err))
		return
	}

	h.mu.Lock()
	subs := make([]*subscriber, 0, len(h.subscribers))
	for _, sub := range h.subscribers {
		subs = append(subs, sub)
	}
	h.mu.Unlock()

	for _, sub := range subs {
		if err := sub.write(message); err != nil {
			h.remove(sub.id, "write failed")
		}
	}
	h.logger.Debug("event broadcast", slog.String("event", eventType), slog.Int("subscribers", len(subs)))
}

// Count returns the number of live subscriber connections.
func (h *Hub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subscribers)
}

// Close drops every subscriber and rejects future connections.
func (h *Hub) Close() {
	h.mu.Lock()
	subs := h.subscribers
	h.subscribers = make(map[string]*subscriber)
	h.closed = true
	h.mu.Unlock()

	for _, sub := range subs {
		_ = sub.conn.Close()
	}
}

func (h *Hub) remove(id, reason string) {
	h.mu.Lock()
	sub, ok := h.subscribers[id]
	if ok {
		delete(h.subscribers, id)
	}
	h.mu.Unlock()
	if !ok {
		return
	}
	_ = sub.conn.Close()
	h.logger.Info("subscriber disconnected",
		slog.String(logging.FieldSubscriber, id),
		slog.String("reason", reason))
}

func (s *subscriber) write(message []byte) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	_ = s.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return s.conn.WriteMessage(websocket.TextMessage, message)
}
