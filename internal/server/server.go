package server

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/muurk/contactform/internal/form"
	"github.com/muurk/contactform/internal/logging"
)

// Config holds the server configuration
type Config struct {
	Host           string
	Port           int
	DefaultProfile string       // Profile served at "/"
	Session        form.Options // Options applied to every form session
	ShutdownGrace  time.Duration
}

// Server serves the browser form and its live validation WebSocket
type Server struct {
	config   *Config
	tmpl     *template.Template
	metrics  *metrics
	upgrader websocket.Upgrader

	httpServer *http.Server
	listener   net.Listener

	wg      sync.WaitGroup
	mu      sync.Mutex
	clients map[*client]struct{}
}

// New creates a new Server instance
func New(config *Config) (*Server, error) {
	if config.DefaultProfile == "" {
		config.DefaultProfile = form.DefaultProfile
	}
	if _, err := form.Lookup(config.DefaultProfile); err != nil {
		return nil, fmt.Errorf("default profile: %w", err)
	}
	if config.ShutdownGrace <= 0 {
		config.ShutdownGrace = 10 * time.Second
	}

	tmpl, err := parseTemplates()
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	s := &Server{
		config:  config,
		tmpl:    tmpl,
		metrics: newMetrics(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		clients: make(map[*client]struct{}),
	}
	s.httpServer = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s, nil
}

// Listen binds the listening socket. Start calls it when needed; call it
// directly to learn the bound address before serving (e.g. with port 0).
func (s *Server) Listen() (net.Addr, error) {
	if s.listener != nil {
		return s.listener.Addr(), nil
	}
	addr := net.JoinHostPort(s.config.Host, fmt.Sprintf("%d", s.config.Port))
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	s.listener = ln
	return ln.Addr(), nil
}

// Start starts the server and blocks until SIGINT/SIGTERM or a serve error
func (s *Server) Start() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return s.Run(ctx)
}

// Run serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	addr, err := s.Listen()
	if err != nil {
		return err
	}

	logging.Info("Starting contactform server",
		zap.String("addr", addr.String()),
		zap.String("default_profile", s.config.DefaultProfile),
	)

	errChan := make(chan error, 1)
	go func() {
		errChan <- s.httpServer.Serve(s.listener)
	}()

	select {
	case <-ctx.Done():
		logging.Info("Shutdown signal received, stopping server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownGrace)
		defer cancel()
		return s.Shutdown(shutdownCtx)
	case err := <-errChan:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// Shutdown stops accepting requests, closes every WebSocket session and
// cancels their pending submissions.
func (s *Server) Shutdown(ctx context.Context) error {
	logging.Info("Shutting down server...")

	err := s.httpServer.Shutdown(ctx)
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		logging.Error("Error shutting down HTTP server", zap.Error(err))
	}

	// Hijacked WebSocket connections are not tracked by http.Server
	s.mu.Lock()
	for c := range s.clients {
		c.close()
	}
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		logging.Info("All sessions closed gracefully")
	case <-ctx.Done():
		logging.Warn("Shutdown timeout, forcing close")
	}

	logging.Sync()
	return nil
}

// ActiveSessions returns the number of open WebSocket sessions
func (s *Server) ActiveSessions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}

func (s *Server) track(c *client) {
	s.mu.Lock()
	s.clients[c] = struct{}{}
	s.mu.Unlock()
	s.metrics.activeSessions.Inc()
}

func (s *Server) untrack(c *client) {
	s.mu.Lock()
	delete(s.clients, c)
	s.mu.Unlock()
	s.metrics.activeSessions.Dec()
}

// newSession creates a form session for profile p with the server's options
func (s *Server) newSession(p form.Profile) (*form.Session, error) {
	return form.NewSession(p, s.config.Session)
}
