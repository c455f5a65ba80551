package server

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"github.com/mchmarny/menued/pkg/metric"
)

const (
	// DefaultPort is the default HTTP server port.
	DefaultPort = 9876

	// DefaultReadTimeout is the maximum duration for reading a whole request,
	// headers and body included. Drag updates are small JSON bodies, so slow
	// clients past this bound are cut off.
	DefaultReadTimeout = 10 * time.Second

	// DefaultWriteTimeout is the maximum duration before a response write
	// times out. It covers handler execution, which for the editor is a
	// lock acquisition plus an O(n) pass over the flat list.
	DefaultWriteTimeout = 10 * time.Second

	// DefaultIdleTimeout is the maximum time to wait for the next request on a
	// keep-alive connection. Editors stream drag events over one connection,
	// so this is longer than the read timeout.
	DefaultIdleTimeout = 60 * time.Second

	// DefaultShutdownTimeout is the maximum duration to wait for in-flight
	// requests when the server shuts down. Keep it below the orchestrator's
	// termination grace period.
	DefaultShutdownTimeout = 5 * time.Second

	// DefaultMaxHeaderBytes limits the bytes read while parsing request
	// headers, request line included.
	DefaultMaxHeaderBytes = 1 << 20 // 1 MB
)

// Server is an HTTP server serving the editor API, health and metrics
// endpoints. Implementations shut down gracefully when the context passed to
// Serve is canceled.
type Server interface {
	// Serve starts the HTTP server and blocks until ctx is canceled.
	// It returns an error if the listener cannot be bound or the server fails
	// while running. It returns nil on a graceful shutdown.
	Serve(ctx context.Context) error

	// IsRunning reports whether the server is accepting connections.
	// It is true only after the socket is bound and false again once Serve
	// returns. Safe for concurrent use.
	IsRunning() bool

	// Addr returns the address the listener is bound to while running, or
	// nil. With WithPort(0) this is how callers learn the chosen port.
	Addr() net.Addr
}

// ReadinessChecker is implemented by components that can report whether they
// are ready to take traffic, typically backing a Kubernetes readiness probe.
//
// Implementations return nil when ready, or an error saying why not. The
// error text is written to the response body.
type ReadinessChecker interface {
	// Ready checks whether the component can handle requests. The context
	// carries the request deadline.
	Ready(ctx context.Context) error
}

// ReadinessFunc adapts an ordinary function to ReadinessChecker.
//
// Example:
//
//	srv := server.New(server.WithReadiness(server.ReadinessFunc(func(context.Context) error {
//	    if ed.Version() == 0 {
//	        return errors.New("menu not loaded")
//	    }
//	    return nil
//	})))
type ReadinessFunc func(ctx context.Context) error

// Ready calls f.
func (f ReadinessFunc) Ready(ctx context.Context) error { return f(ctx) }

// server is the implementation of Server on top of http.Server.
type server struct {
	mux             *http.ServeMux // HTTP request multiplexer
	port            int            // Port to listen on, 0 picks a free one
	readTimeout     time.Duration  // Maximum duration for reading requests
	writeTimeout    time.Duration  // Maximum duration for writing responses
	idleTimeout     time.Duration  // Maximum idle time for keep-alive connections
	shutdownTimeout time.Duration  // Grace period for shutdown
	maxHeaderBytes  int            // Maximum header size in bytes
	errLog          *log.Logger    // Connection-level error logger
	tlsConfig       *TLSConfig     // Optional TLS configuration

	mu      sync.RWMutex // Protects running and addr
	running bool         // Whether the listener is bound and serving
	addr    net.Addr     // Bound address while running
}

// TLSConfig contains the certificate and key file paths for HTTPS.
type TLSConfig struct {
	CertFile string // Path to the PEM certificate file
	KeyFile  string // Path to the PEM private key file
}

// Option is a functional option for configuring the Server.
type Option func(*server)

// WithPort sets the port the server listens on.
// If not specified, DefaultPort (9876) is used. Port 0 lets the kernel pick
// a free port; read it back with Addr once IsRunning is true.
func WithPort(port int) Option {
	return func(s *server) { s.port = port }
}

// WithReadTimeout sets the maximum duration for reading the entire request.
// If not specified, DefaultReadTimeout (10s) is used.
func WithReadTimeout(d time.Duration) Option {
	return func(s *server) { s.readTimeout = d }
}

// WithWriteTimeout sets the maximum duration before a response write times out.
// If not specified, DefaultWriteTimeout (10s) is used.
func WithWriteTimeout(d time.Duration) Option {
	return func(s *server) { s.writeTimeout = d }
}

// WithIdleTimeout sets how long a keep-alive connection may sit idle.
// If not specified, DefaultIdleTimeout (60s) is used.
func WithIdleTimeout(d time.Duration) Option {
	return func(s *server) { s.idleTimeout = d }
}

// WithShutdownTimeout sets the grace period for in-flight requests when ctx
// passed to Serve is canceled. Non-positive values keep
// DefaultShutdownTimeout (5s).
func WithShutdownTimeout(d time.Duration) Option {
	return func(s *server) {
		if d > 0 {
			s.shutdownTimeout = d
		}
	}
}

// WithMaxHeaderBytes sets the maximum number of header bytes read per request.
// If not specified, DefaultMaxHeaderBytes (1 MB) is used.
func WithMaxHeaderBytes(n int) Option {
	return func(s *server) { s.maxHeaderBytes = n }
}

// WithErrorLog sets the logger http.Server uses for connection-level errors
// such as TLS handshake failures. Defaults to log.Default().
//
// Example:
//
//	srv := server.New(server.WithErrorLog(logger.NewLogLogger(l, slog.LevelError)))
func WithErrorLog(l *log.Logger) Option {
	return func(s *server) { s.errLog = l }
}

// WithHandler registers handler for pattern, using the method and wildcard
// syntax of http.ServeMux. It can be given many times; a pattern ending in
// "/" matches the whole subtree.
//
// Example:
//
//	srv := server.New(
//	    server.WithHandler(api.Prefix, api.New(ed)),
//	    server.WithSimpleHealth(),
//	)
func WithHandler(pattern string, handler http.Handler) Option {
	return func(s *server) {
		s.mux.Handle(pattern, handler)
	}
}

// WithSimpleHealth adds a liveness endpoint at GET /healthz that always
// answers while the process can serve HTTP.
//
// The endpoint returns:
//   - 200 OK with body "ok"
//
// Example:
//
//	srv := server.New(server.WithSimpleHealth())
func WithSimpleHealth() Option {
	return func(s *server) {
		s.mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "text/plain; charset=utf-8")
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ok"))
		})
	}
}

// WithReadiness adds a readiness endpoint at GET /readyz backed by rc.
//
// The endpoint returns:
//   - 200 OK with body "ready" when rc.Ready returns nil
//   - 503 Service Unavailable with the error text otherwise
func WithReadiness(rc ReadinessChecker) Option {
	return func(s *server) {
		s.mux.HandleFunc("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/plain; charset=utf-8")
			if err := rc.Ready(r.Context()); err != nil {
				w.WriteHeader(http.StatusServiceUnavailable)
				_, _ = w.Write([]byte(err.Error()))
				return
			}
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ready"))
		})
	}
}

// WithMetrics exposes the metrics gathered by reg at GET /metrics in the
// Prometheus text format. Passing the same registry the editor counters are
// registered with keeps each server instance isolated in tests.
//
// Example:
//
//	reg := prometheus.NewRegistry()
//	ops := metric.NewCounter(reg, "operations_total", "Menu operations.", "op", "result")
//	srv := server.New(server.WithMetrics(reg))
func WithMetrics(reg prometheus.Gatherer) Option {
	return func(s *server) {
		s.mux.Handle("GET /metrics", metric.Handler(reg))
	}
}

// WithTLS serves HTTPS with the given certificate and key files. The key pair
// is loaded when Serve starts; a config missing either path is ignored and
// the server stays on plain HTTP.
//
// Example:
//
//	srv := server.New(
//	    server.WithPort(8443),
//	    server.WithTLS(server.TLSConfig{
//	        CertFile: "/etc/menued/tls.crt",
//	        KeyFile:  "/etc/menued/tls.key",
//	    }),
//	)
func WithTLS(cfg TLSConfig) Option {
	return func(s *server) {
		if cfg.CertFile != "" && cfg.KeyFile != "" {
			s.tlsConfig = &cfg
		}
	}
}

// New creates an HTTP server with the provided options applied over the
// defaults. Nothing is bound until Serve is called.
//
// Default configuration:
//   - Port: 9876
//   - ReadTimeout: 10s
//   - WriteTimeout: 10s
//   - IdleTimeout: 60s
//   - ShutdownTimeout: 5s
//   - MaxHeaderBytes: 1 MB
//
// Example:
//
//	srv := server.New(
//	    server.WithPort(9876),
//	    server.WithSimpleHealth(),
//	    server.WithMetrics(reg),
//	)
func New(opts ...Option) Server {
	s := &server{
		port:            DefaultPort,
		readTimeout:     DefaultReadTimeout,
		writeTimeout:    DefaultWriteTimeout,
		idleTimeout:     DefaultIdleTimeout,
		shutdownTimeout: DefaultShutdownTimeout,
		maxHeaderBytes:  DefaultMaxHeaderBytes,
		mux:             http.NewServeMux(),
		errLog:          log.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	slog.Debug("server initialized",
		"port", s.port,
		"read_timeout", s.readTimeout,
		"write_timeout", s.writeTimeout,
		"tls", s.tlsConfig != nil)

	return s
}

// IsRunning reports whether the listener is bound and serving.
// Safe for concurrent use.
func (s *server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}

// Addr returns the bound address while running, or nil.
func (s *server) Addr() net.Addr {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.addr
}

// Serve binds the listener and blocks until ctx is canceled or the server
// fails. A bind or TLS error is returned before anything is served.
//
// Once bound, an errgroup runs two goroutines:
//  1. Server goroutine: serves HTTP(S) on the listener and flips IsRunning
//  2. Shutdown goroutine: waits for ctx cancellation, then calls Shutdown
//     with shutdownTimeout so in-flight requests can finish
//
// http.ErrServerClosed is the expected result of shutdown and is not
// reported. Errors from Shutdown itself are logged, not returned.
//
// Example running the server next to the seed watcher:
//
//	g, gCtx := errgroup.WithContext(ctx)
//	g.Go(func() error { return srv.Serve(gCtx) })
//	g.Go(func() error { return watcher.Run(gCtx) })
//	if err := g.Wait(); err != nil {
//	    return err
//	}
func (s *server) Serve(ctx context.Context) error {
	srv := &http.Server{
		Addr:           fmt.Sprintf(":%d", s.port),
		Handler:        s.mux,
		ReadTimeout:    s.readTimeout,
		WriteTimeout:   s.writeTimeout,
		IdleTimeout:    s.idleTimeout,
		MaxHeaderBytes: s.maxHeaderBytes,
		ErrorLog:       s.errLog,
	}

	listener, err := s.listen(srv.Addr)
	if err != nil {
		return err
	}

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.mu.Lock()
		s.running = true
		s.addr = listener.Addr()
		s.mu.Unlock()

		defer func() {
			s.mu.Lock()
			s.running = false
			s.addr = nil
			s.mu.Unlock()
		}()

		if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gCtx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()

		slog.Info("shutting down server", "grace_period", s.shutdownTimeout)
		start := time.Now()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("server shutdown error", "error", err)
		}

		slog.Info("server shutdown complete", "duration", time.Since(start))
		return nil
	})

	return g.Wait()
}

// listen binds addr and wraps the listener in TLS when configured.
func (s *server) listen(addr string) (net.Listener, error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to create listener: %w", err)
	}

	if s.tlsConfig == nil {
		slog.Info("starting server", "addr", listener.Addr().String())
		return listener, nil
	}

	cert, err := tls.LoadX509KeyPair(s.tlsConfig.CertFile, s.tlsConfig.KeyFile)
	if err != nil {
		listener.Close()
		return nil, fmt.Errorf("failed to load TLS certificate: %w", err)
	}

	slog.Info("starting TLS server", "addr", listener.Addr().String())
	return tls.NewListener(listener, &tls.Config{
		Certificates: []tls.Certificate{cert},
		MinVersion:   tls.VersionTLS12,
	}), nil
}
