package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"cardbox/internal/config"
	"cardbox/internal/logging"
	"cardbox/internal/registry"
	"cardbox/internal/spotify"
)

type fakeSearcher struct {
	results []spotify.Summary
	err     error
	calls   int
}

func (f *fakeSearcher) Search(ctx context.Context, query, mediaType string) ([]spotify.Summary, error) {
	f.calls++
	return f.results, f.err
}

func newTestDaemon(t *testing.T) *Daemon {
	t.Helper()
	cfg := config.Default()
	cfg.Paths.DataDir = t.TempDir()
	cfg.Paths.PublicDir = t.TempDir()
	cfg.Paths.LogDir = t.TempDir()
	cfg.Paths.APIBind = "127.0.0.1:0"

	d, err := New(&cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return d
}

func newTestServer(t *testing.T) (*Daemon, *httptest.Server) {
	t.Helper()
	d := newTestDaemon(t)
	server := httptest.NewServer(d.server.server.Handler)
	t.Cleanup(server.Close)
	t.Cleanup(d.hub.Close)
	return d, server
}

func waitForSubscriber(t *testing.T, d *Daemon) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if d.hub.Count() > 0 {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("subscriber never registered")
}

func postJSON(t *testing.T, url, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	return resp
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return string(data)
}

func TestNewCardAndData(t *testing.T) {
	d, server := newTestServer(t)

	resp := postJSON(t, server.URL+"/newCard", `{"id":"A1"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("newCard status %d", resp.StatusCode)
	}
	if got := readBody(t, resp); got != "New row created with card='A1'." {
		t.Fatalf("unexpected confirmation: %q", got)
	}

	resp, err := http.Get(server.URL + "/data")
	if err != nil {
		t.Fatalf("GET /data: %v", err)
	}
	var cards []registry.Card
	if err := json.NewDecoder(resp.Body).Decode(&cards); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	resp.Body.Close()
	if len(cards) != 1 || cards[0].ID != "A1" || cards[0].Name != "" || cards[0].URL != "" {
		t.Fatalf("unexpected snapshot: %+v", cards)
	}

	if _, err := os.Stat(d.cfg.RowFilePath()); err != nil {
		t.Fatalf("row file not written: %v", err)
	}
	if _, err := os.Stat(d.cfg.LookupFilePath()); err != nil {
		t.Fatalf("lookup file not written: %v", err)
	}
}

func TestNewCardDuplicate(t *testing.T) {
	_, server := newTestServer(t)

	resp := postJSON(t, server.URL+"/newCard", `{"id":"A1"}`)
	resp.Body.Close()
	resp = postJSON(t, server.URL+"/newCard", `{"id":"A1"}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("duplicate status %d", resp.StatusCode)
	}
	if got := readBody(t, resp); got != "Card 'A1' already exists!" {
		t.Fatalf("unexpected duplicate message: %q", got)
	}
}

func TestNewCardDefaultsID(t *testing.T) {
	_, server := newTestServer(t)

	resp := postJSON(t, server.URL+"/newCard", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("newCard status %d", resp.StatusCode)
	}
	if got := readBody(t, resp); got != "New row created with card='CARD_ID'." {
		t.Fatalf("unexpected confirmation: %q", got)
	}
}

func TestUpdateUnknownCardReportsSuccess(t *testing.T) {
	d, server := newTestServer(t)

	resp := postJSON(t, server.URL+"/update", `{"card":"ghost","name":"n","url":"u"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("update status %d", resp.StatusCode)
	}
	if got := readBody(t, resp); strings.TrimSpace(got) != `{"success":true}` {
		t.Fatalf("unexpected body: %q", got)
	}
	if d.registry.Count() != 0 {
		t.Fatalf("unknown-card update mutated the registry")
	}
}

func TestUpdateExistingCard(t *testing.T) {
	d, server := newTestServer(t)

	postJSON(t, server.URL+"/newCard", `{"id":"A1"}`).Body.Close()
	resp := postJSON(t, server.URL+"/update", `{"card":"A1","name":"Blue Train","url":"spotify:album:9"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("update status %d", resp.StatusCode)
	}
	resp.Body.Close()

	cards := d.registry.Snapshot()
	if cards[0].Name != "Blue Train" || cards[0].URL != "spotify:album:9" {
		t.Fatalf("card not updated: %+v", cards[0])
	}
}

func TestSelectAlbum(t *testing.T) {
	d, server := newTestServer(t)
	postJSON(t, server.URL+"/newCard", `{"id":"A1"}`).Body.Close()

	resp := postJSON(t, server.URL+"/selectAlbum",
		`{"card":"A1","albumArtist":"Miles Davis","albumName":"Kind of Blue","albumUri":"spotify:album:1","albumArt":""}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("selectAlbum status %d", resp.StatusCode)
	}
	if got := readBody(t, resp); strings.TrimSpace(got) != `{"success":true}` {
		t.Fatalf("unexpected body: %q", got)
	}
	cards := d.registry.Snapshot()
	if cards[0].Name != "Miles Davis - Kind of Blue" || cards[0].URL != "spotify:album:1" {
		t.Fatalf("selection not applied: %+v", cards[0])
	}
}

func TestSelectAlbumUnknownCard(t *testing.T) {
	_, server := newTestServer(t)

	resp := postJSON(t, server.URL+"/selectAlbum", `{"card":"ghost"}`)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status %d", resp.StatusCode)
	}
	if got := readBody(t, resp); strings.TrimSpace(got) != `{"error":"Row not found"}` {
		t.Fatalf("unexpected body: %q", got)
	}
}

func TestSearchEmptyQuerySkipsUpstream(t *testing.T) {
	d, server := newTestServer(t)
	fake := &fakeSearcher{}
	d.search = fake

	resp, err := http.Get(server.URL + "/spotifySearch")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	if got := readBody(t, resp); strings.TrimSpace(got) != "[]" {
		t.Fatalf("unexpected body: %q", got)
	}
	if fake.calls != 0 {
		t.Fatalf("empty query reached the search adapter")
	}
}

func TestSearchSuccessAndFailure(t *testing.T) {
	d, server := newTestServer(t)
	fake := &fakeSearcher{results: []spotify.Summary{{AlbumArtist: "a", AlbumName: "n", AlbumURI: "u"}}}
	d.search = fake

	resp, err := http.Get(server.URL + "/spotifySearch?query=blue&type=album")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	var results []spotify.Summary
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		t.Fatalf("decode: %v", err)
	}
	resp.Body.Close()
	if len(results) != 1 || results[0].AlbumURI != "u" {
		t.Fatalf("unexpected results: %+v", results)
	}

	fake.err = errors.New("upstream down")
	resp, err = http.Get(server.URL + "/spotifySearch?query=blue")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("status %d", resp.StatusCode)
	}
	if got := readBody(t, resp); strings.TrimSpace(got) != `{"error":"Error searching Spotify"}` {
		t.Fatalf("unexpected body: %q", got)
	}
}

func TestOpenCardBroadcasts(t *testing.T) {
	d, server := newTestServer(t)

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	waitForSubscriber(t, d)

	resp, err := http.Get(server.URL + "/openCard?id=A1")
	if err != nil {
		t.Fatalf("GET /openCard: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d", resp.StatusCode)
	}
	if got := readBody(t, resp); got != "" {
		t.Fatalf("expected empty body, got %q", got)
	}

	_, message, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read message: %v", err)
	}
	if string(message) != `{"type":"openCard","payload":"A1"}` {
		t.Fatalf("unexpected event: %s", message)
	}
}

func TestNewCardEventReachesSubscribers(t *testing.T) {
	d, server := newTestServer(t)

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	waitForSubscriber(t, d)

	postJSON(t, server.URL+"/newCard", `{"id":"A1"}`).Body.Close()

	_, message, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read message: %v", err)
	}
	if string(message) != `{"type":"newCard","payload":{"card":"A1","name":"","url":""}}` {
		t.Fatalf("unexpected event: %s", message)
	}
}

func TestStatusEndpoint(t *testing.T) {
	_, server := newTestServer(t)
	postJSON(t, server.URL+"/newCard", `{"id":"A1"}`).Body.Close()

	resp, err := http.Get(server.URL + "/api/status")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	var status struct {
		Running bool `json:"running"`
		Cards   int  `json:"cards"`
		PID     int  `json:"pid"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		t.Fatalf("decode: %v", err)
	}
	resp.Body.Close()
	if status.Cards != 1 || status.PID == 0 {
		t.Fatalf("unexpected status: %+v", status)
	}
}

func TestMethodGuards(t *testing.T) {
	_, server := newTestServer(t)

	resp, err := http.Get(server.URL + "/update")
	if err != nil {
		t.Fatalf("GET /update: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", resp.StatusCode)
	}

	resp = postJSON(t, server.URL+"/data", "{}")
	resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", resp.StatusCode)
	}
}
