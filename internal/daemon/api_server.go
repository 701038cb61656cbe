package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"cardbox/internal/api"
	"cardbox/internal/config"
	"cardbox/internal/logging"
	"cardbox/internal/registry"
	"cardbox/internal/spotify"
)

type apiServer struct {
	bind   string
	logger *slog.Logger
	daemon *Daemon

	listener net.Listener
	server   *http.Server
}

func newAPIServer(cfg *config.Config, d *Daemon, logger *slog.Logger) *apiServer {
	srv := &apiServer{
		bind:   strings.TrimSpace(cfg.Paths.APIBind),
		logger: logging.WithComponent(logger, "api-server"),
		daemon: d,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/data", srv.handleData)
	mux.HandleFunc("/update", srv.handleUpdate)
	mux.HandleFunc("/newCard", srv.handleNewCard)
	mux.HandleFunc("/spotifySearch", srv.handleSearch)
	mux.HandleFunc("/selectAlbum", srv.handleSelectAlbum)
	mux.HandleFunc("/openCard", srv.handleOpenCard)
	mux.Handle("/ws", d.hub)
	mux.HandleFunc("/api/status", srv.handleStatus)
	mux.Handle("/thumbnails/", http.StripPrefix("/thumbnails/", http.FileServer(http.Dir(cfg.ThumbnailDir()))))
	mux.Handle("/", http.FileServer(http.Dir(cfg.Paths.PublicDir)))

	srv.server = &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return srv
}

func (s *apiServer) start(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.bind)
	if err != nil {
		return fmt.Errorf("api listen: %w", err)
	}
	s.listener = listener

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("api server error", logging.Error(err))
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}()

	s.logger.Info("api server listening", slog.String("address", listener.Addr().String()))
	return nil
}

func (s *apiServer) stop() {
	if s.server != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}
	if s.listener != nil {
		_ = s.listener.Close()
		s.listener = nil
	}
}

func (s *apiServer) addr() string {
	if s.listener == nil {
		return s.bind
	}
	return s.listener.Addr().String()
}

func (s *apiServer) handleData(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	s.writeJSON(w, http.StatusOK, s.daemon.registry.Snapshot())
}

func (s *apiServer) handleUpdate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req api.UpdateRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := s.daemon.registry.Update(req.Card, req.Name, req.URL); err != nil {
		s.logger.Error("card update failed", slog.String(logging.FieldCardID, req.Card), logging.Error(err))
		s.writeError(w, http.StatusInternalServerError, "Error saving data")
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (s *apiServer) handleNewCard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req api.NewCardRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	card, err := s.daemon.registry.Create(req.ID)
	if err != nil {
		if errors.Is(err, registry.ErrDuplicate) {
			id := req.ID
			if id == "" {
				id = registry.DefaultCardID
			}
			s.writeText(w, http.StatusBadRequest, fmt.Sprintf("Card '%s' already exists!", id))
			return
		}
		s.logger.Error("card creation failed", slog.String(logging.FieldCardID, req.ID), logging.Error(err))
		s.writeError(w, http.StatusInternalServerError, "Error saving data")
		return
	}
	s.writeText(w, http.StatusOK, fmt.Sprintf("New row created with card='%s'.", card.ID))
}

func (s *apiServer) handleSearch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	query := r.URL.Query().Get("query")
	mediaType := r.URL.Query().Get("type")
	if mediaType == "" {
		mediaType = spotify.TypeAlbum
	}
	if query == "" {
		s.writeJSON(w, http.StatusOK, []spotify.Summary{})
		return
	}
	results, err := s.daemon.search.Search(r.Context(), query, mediaType)
	if err != nil {
		s.logger.Error("catalog search failed", slog.String("query", query), logging.Error(err))
		s.writeError(w, http.StatusInternalServerError, "Error searching Spotify")
		return
	}
	s.writeJSON(w, http.StatusOK, results)
}

func (s *apiServer) handleSelectAlbum(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req api.SelectAlbumRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	err := s.daemon.registry.SelectMedia(r.Context(), req.Card, req.AlbumArtist, req.AlbumName, req.AlbumURI, req.AlbumArt)
	if err != nil {
		if errors.Is(err, registry.ErrNotFound) {
			s.writeError(w, http.StatusNotFound, "Row not found")
			return
		}
		s.logger.Error("media selection failed", slog.String(logging.FieldCardID, req.Card), logging.Error(err))
		s.writeError(w, http.StatusInternalServerError, "Error saving data")
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (s *apiServer) handleOpenCard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	s.daemon.registry.RequestFocus(r.URL.Query().Get("id"))
	w.WriteHeader(http.StatusOK)
}

func (s *apiServer) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	s.writeJSON(w, http.StatusOK, s.daemon.Status())
}

func decodeBody(r *http.Request, out any) error {
	err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(out)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

func (s *apiServer) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("failed to encode response", logging.Error(err))
	}
}

func (s *apiServer) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}

func (s *apiServer) writeText(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, message)
}
