package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestCardsCommandRendersTable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/data" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"card":"A1","name":"Kind of Blue","url":"spotify:album:1"}]`))
	}))
	defer server.Close()

	out, err := runCommand(t, "cards", "--server", server.URL)
	if err != nil {
		t.Fatalf("cards: %v", err)
	}
	for _, want := range []string{"A1", "Kind of Blue", "spotify:album:1", "1 card(s)"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}

func TestCardsCommandEmpty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	}))
	defer server.Close()

	out, err := runCommand(t, "cards", "--server", server.URL)
	if err != nil {
		t.Fatalf("cards: %v", err)
	}
	if !strings.Contains(out, "No cards registered.") {
		t.Fatalf("unexpected output:\n%s", out)
	}
}

func TestNewCommandPrintsConfirmation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/newCard" || r.Method != http.MethodPost {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte("New row created with card='A1'."))
	}))
	defer server.Close()

	out, err := runCommand(t, "new", "A1", "--server", server.URL)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if !strings.Contains(out, "New row created with card='A1'.") {
		t.Fatalf("unexpected output:\n%s", out)
	}
}

func TestNewCommandSurfacesDuplicate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Card 'A1' already exists!", http.StatusBadRequest)
	}))
	defer server.Close()

	_, err := runCommand(t, "new", "A1", "--server", server.URL)
	if err == nil || !strings.Contains(err.Error(), "already exists") {
		t.Fatalf("expected duplicate error, got %v", err)
	}
}

func TestStatusCommand(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/status" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(`{"running":true,"pid":42,"cards":3,"subscribers":1,"rowFile":"/tmp/data.csv","lookupFile":"/tmp/data.json","lockFile":"/tmp/cardboxd.lock"}`))
	}))
	defer server.Close()

	out, err := runCommand(t, "status", "--server", server.URL)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	for _, want := range []string{"Running:     yes", "PID:         42", "Cards:       3"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}

func TestSearchCommandRejectsUnknownType(t *testing.T) {
	_, err := runCommand(t, "search", "blue", "--type", "vinyl", "--server", "127.0.0.1:1")
	if err == nil || !strings.Contains(err.Error(), "unknown media type") {
		t.Fatalf("expected media type error, got %v", err)
	}
}

func TestSearchCommandRendersResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("query"); got != "kind of blue" {
			t.Fatalf("unexpected query: %q", got)
		}
		_, _ = w.Write([]byte(`[{"albumArtist":"Miles Davis","albumName":"Kind of Blue","albumUri":"spotify:album:1","albumArt":""}]`))
	}))
	defer server.Close()

	out, err := runCommand(t, "search", "kind", "of", "blue", "--server", server.URL)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if !strings.Contains(out, "Miles Davis") || !strings.Contains(out, "spotify:album:1") {
		t.Fatalf("unexpected output:\n%s", out)
	}
}

func TestConfigInitWritesSample(t *testing.T) {
	target := filepath.Join(t.TempDir(), "config.toml")

	out, err := runCommand(t, "config", "init", "--path", target)
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	if !strings.Contains(out, "Wrote sample configuration") {
		t.Fatalf("unexpected output:\n%s", out)
	}
	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(data), "[spotify]") {
		t.Fatalf("sample config missing spotify section:\n%s", data)
	}

	if _, err := runCommand(t, "config", "init", "--path", target); err == nil {
		t.Fatal("expected error without --overwrite")
	}
	if _, err := runCommand(t, "config", "init", "--path", target, "--overwrite"); err != nil {
		t.Fatalf("config init --overwrite: %v", err)
	}
}
