package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/gofrs/flock"

	"cardbox/internal/api"
	"cardbox/internal/artwork"
	"cardbox/internal/broadcast"
	"cardbox/internal/config"
	"cardbox/internal/logging"
	"cardbox/internal/registry"
	"cardbox/internal/spotify"
)

// Searcher runs a catalog search. Satisfied by *spotify.Client.
type Searcher interface {
	Search(ctx context.Context, query, mediaType string) ([]spotify.Summary, error)
}

// Daemon owns the card registry and its HTTP surface and enforces
// single-instance execution.
type Daemon struct {
	cfg      *config.Config
	logger   *slog.Logger
	registry *registry.Registry
	hub      *broadcast.Hub
	search   Searcher

	lockPath string
	lock     *flock.Flock
	server   *apiServer

	running atomic.Bool
	cancel  context.CancelFunc
}

// New constructs a daemon with initialized dependencies. Required
// directories are created before the card store is loaded.
func New(cfg *config.Config, logger *slog.Logger) (*Daemon, error) {
	if cfg == nil || logger == nil {
		return nil, errors.New("daemon requires config and logger")
	}
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, err
	}

	hub := broadcast.NewHub(logger)
	cache := artwork.NewCache(cfg.ThumbnailDir(), time.Duration(cfg.Spotify.ArtworkTimeout)*time.Second, logger)
	codec := registry.NewCodec(cfg.RowFilePath(), cfg.LookupFilePath())
	reg, err := registry.New(codec, hub, cache, logger)
	if err != nil {
		return nil, err
	}

	lockPath := filepath.Join(cfg.Paths.DataDir, "cardboxd.lock")
	d := &Daemon{
		cfg:      cfg,
		logger:   logging.WithComponent(logger, "daemon"),
		registry: reg,
		hub:      hub,
		search:   spotify.NewClient(cfg, logger),
		lockPath: lockPath,
		lock:     flock.New(lockPath),
	}
	d.server = newAPIServer(cfg, d, logger)
	return d, nil
}

// Start acquires the daemon lock and brings up the HTTP listener.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another cardbox daemon instance is already running")
	}

	runCtx, cancel := context.WithCancel(ctx)
	d.cancel = cancel
	if err := d.server.start(runCtx); err != nil {
		cancel()
		d.cancel = nil
		_ = d.lock.Unlock()
		return err
	}

	d.running.Store(true)
	d.logger.Info("cardbox daemon started",
		slog.String("lock", d.lockPath),
		slog.Int("cards", d.registry.Count()))
	return nil
}

// Stop shuts down the listener, drops WebSocket subscribers, and releases
// the daemon lock.
func (d *Daemon) Stop() {
	if !d.running.Load() {
		return
	}

	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	d.server.stop()
	d.hub.Close()
	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("failed to release daemon lock", logging.Error(err))
	}
	d.running.Store(false)
	d.logger.Info("cardbox daemon stopped")
}

// Close releases resources held by the daemon.
func (d *Daemon) Close() error {
	d.Stop()
	return nil
}

// Addr returns the listener address once the daemon is started.
func (d *Daemon) Addr() string {
	return d.server.addr()
}

// Status reports the daemon's runtime state.
func (d *Daemon) Status() api.StatusResponse {
	return api.StatusResponse{
		Running:     d.running.Load(),
		PID:         os.Getpid(),
		Cards:       d.registry.Count(),
		Subscribers: d.hub.Count(),
		RowFile:     d.cfg.RowFilePath(),
		LookupFile:  d.cfg.LookupFilePath(),
		LockFile:    d.lockPath,
	}
}
