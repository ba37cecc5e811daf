package web

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"recap/internal/config"
	"recap/internal/logging"
	"recap/internal/progress"
	"recap/internal/session"
	"recap/internal/story"
)

// Sessions remembers which visitors passed the gate. Granted refreshes the
// session's idle timer; Active only reports whether it is still valid.
type Sessions interface {
	Grant(ctx context.Context, remoteAddr, userAgent string) (string, error)
	Granted(ctx context.Context, id string) (bool, error)
	Active(ctx context.Context, id string) (bool, error)
}

// Server serves the gate, the story shell, the preload stream, and the
// viewport channel.
type Server struct {
	cfg      *config.Config
	pipeline *story.Pipeline
	gate     *session.Gate
	sessions Sessions
	catalog  *progress.Catalog
	logger   *slog.Logger
	router   *mux.Router
	upgrader websocket.Upgrader
	mediaDir string

	storiesMu sync.Mutex
	stories   map[string]*story.Story

	listener net.Listener
	server   *http.Server
}

// New assembles the HTTP surface. For local manifests the relative media
// paths the visitor's story references are served from the manifest
// directory so they resolve in the browser.
func New(cfg *config.Config, pipeline *story.Pipeline, gate *session.Gate, sessions Sessions, logger *slog.Logger) *Server {
	s := &Server{
		cfg:      cfg,
		pipeline: pipeline,
		gate:     gate,
		sessions: sessions,
		catalog:  progress.NewCatalog(cfg.Story.Language),
		logger:   logging.NewComponentLogger(logger, "web"),
		router:   mux.NewRouter(),
		upgrader: websocket.Upgrader{ReadBufferSize: 4096, WriteBufferSize: 4096},
		stories:  map[string]*story.Story{},
	}
	if !cfg.ManifestIsRemote() {
		s.mediaDir = filepath.Dir(strings.TrimPrefix(cfg.Story.Manifest, "file://"))
	}
	s.routes()

	s.server = &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       time.Duration(cfg.Server.ReadTimeoutSeconds) * time.Second,
		WriteTimeout:      time.Duration(cfg.Server.WriteTimeoutSeconds) * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

func (s *Server) routes() {
	r := s.router
	r.Use(s.requestContext)

	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	r.PathPrefix("/static/").Handler(staticHandler()).Methods(http.MethodGet)
	r.HandleFunc("/", s.handleIndex).Methods(http.MethodGet)
	r.HandleFunc("/unlock", s.handleUnlock).Methods(http.MethodPost)

	gated := r.NewRoute().Subrouter()
	gated.Use(s.requireSession)
	gated.HandleFunc("/recap.json", s.handleManifest).Methods(http.MethodGet)
	gated.HandleFunc("/api/story/stream", s.handleStream).Methods(http.MethodGet)
	gated.HandleFunc("/ws", s.handleViewport).Methods(http.MethodGet)
	if s.mediaDir != "" {
		gated.PathPrefix("/").HandlerFunc(s.handleMedia).Methods(http.MethodGet)
	}
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start listens on the configured bind address and serves until ctx ends.
func (s *Server) Start(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.cfg.Server.Bind)
	if err != nil {
		return fmt.Errorf("web listen: %w", err)
	}
	s.listener = listener

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("web server error", logging.Error(err))
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}()

	s.logger.Info("web server listening", logging.String("address", listener.Addr().String()))
	return nil
}

// Stop shuts the server down.
func (s *Server) Stop() {
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

// Addr returns the bound address once started.
func (s *Server) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

func (s *Server) rememberStory(sessionID string, st *story.Story) {
	s.storiesMu.Lock()
	defer s.storiesMu.Unlock()
	s.stories[sessionID] = st
}

func (s *Server) storyFor(sessionID string) *story.Story {
	s.storiesMu.Lock()
	defer s.storiesMu.Unlock()
	return s.stories[sessionID]
}

func (s *Server) forgetStory(sessionID string) {
	s.storiesMu.Lock()
	defer s.storiesMu.Unlock()
	delete(s.stories, sessionID)
}

// CachedStories returns how many prepared stories are held for sessions.
func (s *Server) CachedStories() int {
	s.storiesMu.Lock()
	defer s.storiesMu.Unlock()
	return len(s.stories)
}

// PruneStories drops the prepared stories of sessions that expired or were
// revoked and returns how many were dropped. Sessions whose state cannot be
// read are kept until the next pass.
func (s *Server) PruneStories(ctx context.Context) int {
	s.storiesMu.Lock()
	ids := make([]string, 0, len(s.stories))
	for id := range s.stories {
		ids = append(ids, id)
	}
	s.storiesMu.Unlock()

	dropped := 0
	for _, id := range ids {
		ok, err := s.sessions.Active(ctx, id)
		if err != nil {
			s.logger.Warn("session check failed", logging.Error(err))
			continue
		}
		if !ok {
			s.forgetStory(id)
			dropped++
		}
	}
	return dropped
}
