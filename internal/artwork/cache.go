package artwork

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"cardbox/internal/logging"
	"cardbox/internal/textutil"
)

// maxImageBytes caps a fetched thumbnail; catalog covers are well under this.
const maxImageBytes = 10 << 20

// Cache stores thumbnails as <cardID>_<sanitizedTitle>.jpg inside one
// directory. A card owns at most one thumbnail at a time.
type Cache struct {
	dir    string
	client *http.Client
	logger *slog.Logger
}

// NewCache builds a cache rooted at dir with a bounded fetch timeout.
func NewCache(dir string, timeout time.Duration, logger *slog.Logger) *Cache {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Cache{
		dir:    dir,
		client: &http.Client{Timeout: timeout},
		logger: logging.WithComponent(logger, "artwork"),
	}
}

// Replace removes any thumbnail currently stored for the card and, when an
// artwork URL is supplied, fetches and stores the new one.
func (c *Cache) Replace(ctx context.Context, cardID, title, artworkURL string) {
	c.removeFor(cardID)
	if artworkURL == "" {
		return
	}
	if err := c.fetch(ctx, cardID, title, artworkURL); err != nil {
		c.logger.Warn("thumbnail fetch skipped",
			slog.String(logging.FieldCardID, cardID),
			logging.Error(err))
	}
}

// removeFor deletes every file prefixed with "<cardID>_".
func (c *Cache) removeFor(cardID string) {
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		c.logger.Warn("thumbnail scan failed", logging.Error(err))
		return
	}
	prefix := cardID + "_"
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasPrefix(entry.Name(), prefix) {
			continue
		}
		if err := os.Remove(filepath.Join(c.dir, entry.Name())); err != nil {
			c.logger.Warn("stale thumbnail not removed",
				slog.String("file", entry.Name()),
				logging.Error(err))
		}
	}
}

func (c *Cache) fetch(ctx context.Context, cardID, title, artworkURL string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, artworkURL, nil)
	if err != nil {
		return fmt.Errorf("build artwork request: %w", err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("fetch artwork: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("artwork fetch returned %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes))
	if err != nil {
		return fmt.Errorf("read artwork: %w", err)
	}

	name := cardID + "_" + textutil.SanitizeThumbnailToken(title) + ".jpg"
	if err := os.WriteFile(filepath.Join(c.dir, name), data, 0o644); err != nil {
		return fmt.Errorf("store thumbnail: %w", err)
	}
	c.logger.Debug("thumbnail stored",
		slog.String(logging.FieldCardID, cardID),
		slog.String("file", name))
	return nil
}
