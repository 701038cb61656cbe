package spotify

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"cardbox/internal/config"
	"cardbox/internal/logging"
)

// Media types accepted by Search. Anything else yields an empty result.
const (
	TypeAlbum     = "album"
	TypePlaylist  = "playlist"
	TypeTrack     = "track"
	TypeEpisode   = "episode"
	TypeAudiobook = "audiobook"
)

// MediaTypes lists the accepted search type selectors.
var MediaTypes = []string{TypeAlbum, TypePlaylist, TypeTrack, TypeEpisode, TypeAudiobook}

// tokenSafetyMargin is shaved off a token's validity window before reuse.
const tokenSafetyMargin = 30 * time.Second

// Summary is the normalized shape of one catalog result. Field names match
// the wire format the editor frontend expects.
type Summary struct {
	AlbumArtist string `json:"albumArtist"`
	AlbumName   string `json:"albumName"`
	AlbumURI    string `json:"albumUri"`
	AlbumArt    string `json:"albumArt"`
}

// Client talks to the Spotify Web API with client-credentials auth.
type Client struct {
	clientID     string
	clientSecret string
	tokenURL     string
	baseURL      string
	limit        int
	httpClient   *http.Client
	logger       *slog.Logger

	mu          sync.Mutex
	token       string
	tokenExpiry time.Time
}

// NewClient builds a search client from configuration.
func NewClient(cfg *config.Config, logger *slog.Logger) *Client {
	timeout := time.Duration(cfg.Spotify.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		clientID:     cfg.Spotify.ClientID,
		clientSecret: cfg.Spotify.ClientSecret,
		tokenURL:     cfg.Spotify.TokenURL,
		baseURL:      cfg.Spotify.APIBaseURL,
		limit:        cfg.Search.ResultLimit,
		httpClient:   &http.Client{Timeout: timeout},
		logger:       logging.WithComponent(logger, "spotify"),
	}
}

// Search runs a catalog search and normalizes the results. An unknown media
// type returns an empty slice, matching the editor contract.
func (c *Client) Search(ctx context.Context, query, mediaType string) ([]Summary, error) {
	token, err := c.accessToken(ctx)
	if err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("type", mediaType)
	params.Set("limit", strconv.Itoa(c.limit))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/search?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build search request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return nil, fmt.Errorf("search returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var payload searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}
	return payload.normalize(mediaType), nil
}

// accessToken returns a cached client-credentials token, refreshing it when
// the validity window has lapsed.
func (c *Client) accessToken(ctx context.Context) (string, error) {
	if c.clientID == "" || c.clientSecret == "" {
		return "", fmt.Errorf("spotify credentials not configured")
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.token != "" && time.Now().Before(c.tokenExpiry) {
		return c.token, nil
	}

	form := url.Values{}
	form.Set("grant_type", "client_credentials")
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("build token request: %w", err)
	}
	req.SetBasicAuth(c.clientID, c.clientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("token request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return "", fmt.Errorf("token exchange returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var token struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		return "", fmt.Errorf("decode token response: %w", err)
	}
	if token.AccessToken == "" {
		return "", fmt.Errorf("token exchange returned no access token")
	}

	c.token = token.AccessToken
	c.tokenExpiry = time.Now().Add(time.Duration(token.ExpiresIn)*time.Second - tokenSafetyMargin)
	c.logger.Debug("access token refreshed", slog.Int("expires_in", token.ExpiresIn))
	return c.token, nil
}
