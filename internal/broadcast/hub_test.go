package broadcast

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"cardbox/internal/logging"
)

func dialHub(t *testing.T, hub *Hub) *websocket.Conn {
	t.Helper()
	server := httptest.NewServer(hub)
	t.Cleanup(server.Close)

	url := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func waitForCount(t *testing.T, hub *Hub, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for hub.Count() != want {
		if time.Now().After(deadline) {
			t.Fatalf("subscriber count never reached %d (have %d)", want, hub.Count())
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestHubBroadcastReachesAllSubscribers(t *testing.T) {
	hub := NewHub(logging.NewNop())
	defer hub.Close()

	first := dialHub(t, hub)
	second := dialHub(t, hub)
	waitForCount(t, hub, 2)

	hub.Broadcast("updateCard", map[string]string{"card": "A1", "name": "Song X", "url": "spotify:track:1"})

	for _, conn := range []*websocket.Conn{first, second} {
		_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		_, message, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("read: %v", err)
		}
		var evt Event
		if err := json.Unmarshal(message, &evt); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if evt.Type != "updateCard" {
			t.Fatalf("unexpected event type %q", evt.Type)
		}
		payload, ok := evt.Payload.(map[string]any)
		if !ok || payload["card"] != "A1" {
			t.Fatalf("unexpected payload: %#v", evt.Payload)
		}
	}
}

func TestHubEncodesStringPayload(t *testing.T) {
	hub := NewHub(logging.NewNop())
	defer hub.Close()

	conn := dialHub(t, hub)
	waitForCount(t, hub, 1)

	hub.Broadcast("openCard", "A1")

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, message, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(message) != `{"type":"openCard","payload":"A1"}` {
		t.Fatalf("unexpected wire message: %s", message)
	}
}

func TestHubDropsDisconnectedSubscribers(t *testing.T) {
	hub := NewHub(logging.NewNop())
	defer hub.Close()

	conn := dialHub(t, hub)
	waitForCount(t, hub, 1)

	_ = conn.Close()
	waitForCount(t, hub, 0)

	// Broadcasting with no subscribers must not panic or block.
	hub.Broadcast("openCard", "A1")
}

func TestHubCloseRejectsNewWork(t *testing.T) {
	hub := NewHub(logging.NewNop())
	conn := dialHub(t, hub)
	waitForCount(t, hub, 1)

	hub.Close()
	if hub.Count() != 0 {
		t.Fatalf("expected 0 subscribers after close, got %d", hub.Count())
	}

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	if _, _, err := conn.ReadMessage(); err == nil {
		t.Fatal("expected closed connection")
	}
}
