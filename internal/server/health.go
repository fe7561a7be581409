package server

import (
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/labstack/echo/v4"
)

const (
	healthStatusOK           = "ok"
	healthStatusNotReady     = "not ready"
	healthStatusShuttingDown = "shutting down"
	healthStatusNoBackends   = "no backends configured"
)

// HealthChecker answers liveness and readiness probes for the chat API.
type HealthChecker struct {
	ready         atomic.Bool
	serverContext *ServerContext
	startTime     time.Time
}

// NewHealthChecker returns a checker that reports not ready until SetReady
// is called.
func NewHealthChecker(sc *ServerContext) *HealthChecker {
	return &HealthChecker{serverContext: sc, startTime: time.Now()}
}

func (h *HealthChecker) SetReady(ready bool) { h.ready.Store(ready) }

func (h *HealthChecker) IsReady() bool { return h.ready.Load() }

// HealthResponse is the body of /healthz and /readyz.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// DetailedHealthResponse is the body of /healthz/detailed.
type DetailedHealthResponse struct {
	Status string   `json:"status"`
	Uptime string   `json:"uptime"`
	Modes  []string `json:"modes"`
}

// probe is one evaluation of the readiness conditions.
type probe struct {
	ready    bool
	shutdown bool
	modes    []string
}

func (h *HealthChecker) probe() probe {
	p := probe{ready: h.ready.Load()}
	if h.serverContext != nil {
		p.shutdown = h.serverContext.IsShutdown()
		p.modes = h.serverContext.Modes()
	}
	return p
}

// checks reports each readiness condition and whether all of them hold.
func (p probe) checks() (map[string]string, bool) {
	checks := map[string]string{
		"ready":    healthStatusOK,
		"shutdown": healthStatusOK,
		"backends": strings.Join(p.modes, ","),
	}
	ok := true
	if !p.ready {
		checks["ready"] = healthStatusNotReady
		ok = false
	}
	if p.shutdown {
		checks["shutdown"] = healthStatusShuttingDown
		ok = false
	}
	if len(p.modes) == 0 {
		checks["backends"] = healthStatusNoBackends
		ok = false
	}
	return checks, ok
}

// Register mounts /healthz, /readyz and /healthz/detailed on e.
func (h *HealthChecker) Register(e *echo.Echo) {
	e.GET("/healthz", h.liveness)
	e.GET("/readyz", h.readiness)
	e.GET("/healthz/detailed", h.detailed)
}

func (h *HealthChecker) liveness(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{Status: healthStatusOK})
}

// readiness succeeds once the server is marked ready, is not shutting down
// and serves at least one mode.
func (h *HealthChecker) readiness(c echo.Context) error {
	checks, ok := h.probe().checks()
	if !ok {
		return c.JSON(http.StatusServiceUnavailable, HealthResponse{Status: healthStatusNotReady, Checks: checks})
	}
	return c.JSON(http.StatusOK, HealthResponse{Status: healthStatusOK, Checks: checks})
}

func (h *HealthChecker) detailed(c echo.Context) error {
	p := h.probe()
	resp := DetailedHealthResponse{
		Status: healthStatusOK,
		Uptime: time.Since(h.startTime).Truncate(time.Second).String(),
		Modes:  p.modes,
	}
	code := http.StatusOK
	switch {
	case !p.ready:
		resp.Status, code = healthStatusNotReady, http.StatusServiceUnavailable
	case p.shutdown:
		resp.Status, code = healthStatusShuttingDown, http.StatusServiceUnavailable
	}
	return c.JSON(code, resp)
}
