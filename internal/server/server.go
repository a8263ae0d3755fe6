// Package server exposes a Session to agents over MCP and to scripts over a
// small REST API.
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/mj1618/arrange/internal/arrange"
)

// Transports accepted by Serve.
const (
	TransportStdio          = "stdio"
	TransportStreamableHTTP = "streamable-http"
	TransportREST           = "rest"
)

// Config holds server configuration.
type Config struct {
	Transport string
	Addr      string
	Version   string
	Logger    *log.Logger
	// Persist, when set, receives the session state after every change.
	Persist func(arrange.State) error
}

// Server serializes all access to one session.
type Server struct {
	session *arrange.Session
	cache   *WindowCache
	cfg     Config
	log     *log.Logger

	// sessionMu is held for the whole of every tool call and request.
	sessionMu sync.Mutex
	mcp       *mcpserver.MCPServer
}

// New creates a server around session. cache must be the window source the
// session's provider reads through; it may be nil.
func New(session *arrange.Session, cache *WindowCache, cfg Config) *Server {
	if cfg.Logger == nil {
		cfg.Logger = log.New(io.Discard)
	}
	if cfg.Version == "" {
		cfg.Version = "dev"
	}
	s := &Server{
		session: session,
		cache:   cache,
		cfg:     cfg,
		log:     cfg.Logger,
	}
	s.mcp = mcpserver.NewMCPServer("arrange", cfg.Version)
	s.registerTools()
	session.Subscribe(func(ev arrange.Event) {
		s.log.Debug("session event", "kind", ev.Kind, "preset", ev.Preset.Name, "status", ev.Status)
	})
	return s
}

// Serve runs the configured transport until it fails or ctx is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	s.log.Info("serving", "transport", s.cfg.Transport, "addr", s.cfg.Addr)
	switch s.cfg.Transport {
	case TransportStdio, "":
		return mcpserver.ServeStdio(s.mcp)
	case TransportStreamableHTTP:
		return mcpserver.NewStreamableHTTPServer(s.mcp).Start(s.cfg.Addr)
	case TransportREST:
		srv := &http.Server{Addr: s.cfg.Addr, Handler: s.Router(), ReadHeaderTimeout: 10 * time.Second}
		go func() {
			<-ctx.Done()
			shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdown)
		}()
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	default:
		return fmt.Errorf("unsupported transport: %s (use stdio, streamable-http or rest)", s.cfg.Transport)
	}
}

// sync re-reads windows and displays while keeping the session's preset,
// history and manual assignment when the windows are unchanged. Callers hold
// sessionMu.
func (s *Server) sync() error {
	st := s.session.State()
	if err := s.session.Refresh(); err != nil {
		return err
	}
	return s.session.Restore(st)
}

// changed invalidates the window cache and persists state after a write.
// Callers hold sessionMu.
func (s *Server) changed() {
	if s.cache != nil {
		s.cache.Invalidate()
	}
	if s.cfg.Persist == nil {
		return
	}
	if err := s.cfg.Persist(s.session.State()); err != nil {
		s.log.Warn("failed to persist state", "err", err)
	}
}
