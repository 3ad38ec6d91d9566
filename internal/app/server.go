// Package app owns the HTTP server lifecycle of the hello service.
package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/okian/hello/pkg/logger"
)

// Default HTTP server timeouts.
const (
	defaultReadTimeout       = 10 * time.Second
	defaultReadHeaderTimeout = 5 * time.Second
	defaultWriteTimeout      = 10 * time.Second
	defaultIdleTimeout       = 60 * time.Second
)

// ErrNoHandler is returned by Start when no handler was configured.
var ErrNoHandler = errors.New("app: no http handler configured")

// Server runs an http.Server for the configured handler.
type Server struct {
	mu sync.Mutex

	addr              string
	handler           http.Handler
	readTimeout       time.Duration
	readHeaderTimeout time.Duration
	writeTimeout      time.Duration
	idleTimeout       time.Duration

	httpServer *http.Server
	listener   net.Listener
	serveErr   chan error
	started    bool

	logger logger.Logger
}

// Option applies a configuration option to the Server.
type Option func(*Server)

// WithAddr sets the listen address, e.g. ":8080" or "127.0.0.1:0".
func WithAddr(addr string) Option {
	return func(s *Server) {
		if addr != "" {
			s.addr = addr
		}
	}
}

// WithHandler sets the root HTTP handler.
func WithHandler(h http.Handler) Option {
	return func(s *Server) {
		s.handler = h
	}
}

// WithTimeouts sets the http.Server timeouts. Non-positive values keep the defaults.
func WithTimeouts(read, readHeader, write, idle time.Duration) Option {
	return func(s *Server) {
		if read > 0 {
			s.readTimeout = read
		}
		if readHeader > 0 {
			s.readHeaderTimeout = readHeader
		}
		if write > 0 {
			s.writeTimeout = write
		}
		if idle > 0 {
			s.idleTimeout = idle
		}
	}
}

// WithLogger sets a custom logger for the server.
func WithLogger(l logger.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a Server with default configuration.
func New(opts ...Option) *Server {
	s := &Server{
		addr:              ":8080",
		readTimeout:       defaultReadTimeout,
		readHeaderTimeout: defaultReadHeaderTimeout,
		writeTimeout:      defaultWriteTimeout,
		idleTimeout:       defaultIdleTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start binds the listener and serves in the background. Bind errors are
// returned to the caller; calling Start on a running server is a no-op.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.handler == nil {
		return ErrNoHandler
	}
	if s.logger == nil {
		s.logger = logger.Named("server")
	}

	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", s.addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.addr, err)
	}

	s.listener = ln
	s.httpServer = &http.Server{
		Handler:           s.handler,
		ReadTimeout:       s.readTimeout,
		ReadHeaderTimeout: s.readHeaderTimeout,
		WriteTimeout:      s.writeTimeout,
		IdleTimeout:       s.idleTimeout,
	}
	s.serveErr = make(chan error, 1)
	s.started = true

	srv, errCh := s.httpServer, s.serveErr
	go func() {
		s.logger.Info(ctx, "starting HTTP server", logger.String("addr", ln.Addr().String()))
		err := srv.Serve(ln)
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
		if err != nil {
			s.logger.Error(ctx, "HTTP server failed", logger.Error(err))
		}
		errCh <- err
		close(errCh)
	}()
	return nil
}

// Addr reports the bound listen address, or the configured one before Start.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.addr
}

// Done is closed once the serve loop exits; it yields the serve error, if any.
// It is nil before Start.
func (s *Server) Done() <-chan error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.serveErr
}

// Stop gracefully shuts the server down, waiting for in-flight requests
// until ctx expires. Stop before Start is a no-op.
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return nil
	}
	srv, errCh := s.httpServer, s.serveErr
	s.started = false
	s.listener = nil
	s.mu.Unlock()

	s.logger.Info(ctx, "shutting down HTTP server")
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err, ok := <-errCh; ok && err != nil {
		return err
	}
	s.logger.Info(ctx, "HTTP server stopped")
	return nil
}
