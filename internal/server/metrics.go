package server

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/enzocage/Notion-Mediator/internal/instrumentation"
)

const (
	DefaultMetricsAddr = ":9090"
	DefaultMetricsPath = "/metrics"

	DefaultMetricsReadTimeout  = 10 * time.Second
	DefaultMetricsWriteTimeout = 10 * time.Second
	DefaultMetricsIdleTimeout  = 60 * time.Second

	// DefaultShutdownTimeout bounds graceful shutdown of every listener.
	DefaultShutdownTimeout = 30 * time.Second
)

// MetricsServerConfig configures the dedicated metrics listener.
type MetricsServerConfig struct {
	// Addr defaults to DefaultMetricsAddr.
	Addr string
	// Path defaults to DefaultMetricsPath.
	Path string

	// InstrumentationProvider must be enabled and export to Prometheus.
	InstrumentationProvider *instrumentation.Provider
}

// MetricsServer serves the Prometheus scrape endpoint and a liveness probe
// on a port separate from the chat API.
type MetricsServer struct {
	httpServer *http.Server
	addr       string

	mu    sync.Mutex
	bound net.Addr
}

// NewMetricsServer validates config and prepares, without starting, the
// metrics listener.
func NewMetricsServer(config MetricsServerConfig) (*MetricsServer, error) {
	provider := config.InstrumentationProvider
	switch {
	case provider == nil:
		return nil, fmt.Errorf("instrumentation provider is required for metrics server")
	case !provider.Enabled():
		return nil, fmt.Errorf("instrumentation provider is not enabled")
	}
	scrape := provider.MetricsHandler()
	if scrape == nil {
		return nil, fmt.Errorf("instrumentation provider has no prometheus exporter")
	}

	if config.Addr == "" {
		config.Addr = DefaultMetricsAddr
	}
	if config.Path == "" {
		config.Path = DefaultMetricsPath
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.GET(config.Path, echo.WrapHandler(scrape))
	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	return &MetricsServer{
		addr: config.Addr,
		httpServer: &http.Server{
			Addr:              config.Addr,
			Handler:           e,
			ReadHeaderTimeout: DefaultMetricsReadTimeout,
			WriteTimeout:      DefaultMetricsWriteTimeout,
			IdleTimeout:       DefaultMetricsIdleTimeout,
		},
	}, nil
}

// Start blocks serving metrics until Shutdown.
func (s *MetricsServer) Start() error {
	return s.StartWithReadySignal(nil)
}

// StartWithReadySignal is like Start but closes ready, when non-nil, once
// the listener is bound.
func (s *MetricsServer) StartWithReadySignal(ready chan<- struct{}) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.addr, err)
	}

	s.mu.Lock()
	s.bound = ln.Addr()
	s.mu.Unlock()
	if ready != nil {
		close(ready)
	}

	slog.Info("serving metrics", "addr", ln.Addr().String())
	return s.httpServer.Serve(ln)
}

// Shutdown stops the listener. It is safe to call before Start.
func (s *MetricsServer) Shutdown(ctx context.Context) error {
	slog.Info("shutting down metrics server")
	return s.httpServer.Shutdown(ctx)
}

// Addr returns the configured address.
func (s *MetricsServer) Addr() string {
	return s.addr
}

// BoundAddr returns the address the listener is bound to, or nil before the
// server has started.
func (s *MetricsServer) BoundAddr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bound
}
