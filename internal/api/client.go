package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"cardbox/internal/registry"
	"cardbox/internal/spotify"
)

// Client calls a running daemon over its HTTP API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient builds a client for the daemon listening on bind, which may be
// a bare host:port or a full http URL.
func NewClient(bind string) *Client {
	base := strings.TrimSpace(bind)
	if base == "" {
		base = "127.0.0.1:3000"
	}
	if !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
		base = "http://" + base
	}
	return &Client{
		baseURL:    strings.TrimRight(base, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// Cards fetches the full ordered card snapshot.
func (c *Client) Cards(ctx context.Context) ([]registry.Card, error) {
	var cards []registry.Card
	if err := c.getJSON(ctx, "/data", nil, &cards); err != nil {
		return nil, err
	}
	return cards, nil
}

// Update rewrites one card's name and playback target.
func (c *Client) Update(ctx context.Context, req UpdateRequest) error {
	return c.postJSON(ctx, "/update", req, nil)
}

// NewCard registers a card id and returns the server's confirmation line.
func (c *Client) NewCard(ctx context.Context, id string) (string, error) {
	body, err := json.Marshal(NewCardRequest{ID: id})
	if err != nil {
		return "", fmt.Errorf("encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/newCard", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("daemon request: %w", err)
	}
	defer resp.Body.Close()
	text, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%s", strings.TrimSpace(string(text)))
	}
	return strings.TrimSpace(string(text)), nil
}

// OpenCard asks connected viewers to focus the given card.
func (c *Client) OpenCard(ctx context.Context, id string) error {
	params := url.Values{}
	params.Set("id", id)
	return c.getJSON(ctx, "/openCard", params, nil)
}

// Search runs a catalog search through the daemon.
func (c *Client) Search(ctx context.Context, query, mediaType string) ([]spotify.Summary, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("type", mediaType)
	var results []spotify.Summary
	if err := c.getJSON(ctx, "/spotifySearch", params, &results); err != nil {
		return nil, err
	}
	return results, nil
}

// SelectAlbum binds a search result to a card.
func (c *Client) SelectAlbum(ctx context.Context, req SelectAlbumRequest) error {
	return c.postJSON(ctx, "/selectAlbum", req, nil)
}

// Status fetches the daemon's runtime status.
func (c *Client) Status(ctx context.Context) (StatusResponse, error) {
	var status StatusResponse
	if err := c.getJSON(ctx, "/api/status", nil, &status); err != nil {
		return StatusResponse{}, err
	}
	return status, nil
}

func (c *Client) getJSON(ctx context.Context, path string, params url.Values, out any) error {
	target := c.baseURL + path
	if len(params) > 0 {
		target += "?" + params.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	return c.do(req, out)
}

func (c *Client) postJSON(ctx context.Context, path string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("daemon request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return decodeError(resp)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Error != "" {
		return fmt.Errorf("%s", payload.Error)
	}
	message := strings.TrimSpace(string(body))
	if message == "" {
		message = resp.Status
	}
	return fmt.Errorf("%s", message)
}
