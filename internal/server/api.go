package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/enzocage/Notion-Mediator/internal/agent"
	"github.com/enzocage/Notion-Mediator/internal/backend"
	"github.com/enzocage/Notion-Mediator/internal/instrumentation"
	"github.com/enzocage/Notion-Mediator/internal/logging"
)

const (
	// HeaderRunID carries the run ID of a chat request in the response.
	HeaderRunID = "X-Run-ID"

	// DefaultAPIReadHeaderTimeout bounds how long a client may take to send headers.
	DefaultAPIReadHeaderTimeout = 10 * time.Second

	// DefaultAPIIdleTimeout is the keep-alive idle timeout of the chat API.
	DefaultAPIIdleTimeout = 120 * time.Second
)

// Runner executes one planner run.
type Runner interface {
	Run(ctx context.Context, utterance, mode string) (agent.Result, error)
}

// ChatRequest is the body of POST /api/chat.
type ChatRequest struct {
	Prompt string `json:"prompt"`
	Mode   string `json:"mode,omitempty"`
}

// ChatResponse is the success body of POST /api/chat.
type ChatResponse struct {
	Response string `json:"response"`
}

// ErrorResponse is the body of every error reply.
type ErrorResponse struct {
	Error string `json:"error"`
}

// DocumentIDs are the configured document IDs reported by GET /api/config.
type DocumentIDs struct {
	PageID1      string `json:"pageId1"`
	PageID2      string `json:"pageId2"`
	GoogleDocID1 string `json:"googleDocId1"`
	GoogleDocID2 string `json:"googleDocId2"`
}

// ConfigResponse is the body of GET /api/config.
type ConfigResponse struct {
	DocumentIDs
	Modes []string `json:"modes"`
}

// APIConfig holds the dependencies of the chat API.
type APIConfig struct {
	Runner        Runner
	ServerContext *ServerContext
	Health        *HealthChecker
	DefaultMode   string
	Documents     DocumentIDs
	AllowOrigins  []string
	Metrics       *instrumentation.Metrics
	Logger        *slog.Logger
}

type chatHandler struct {
	runner      Runner
	sc          *ServerContext
	defaultMode string
	documents   DocumentIDs
	logger      *slog.Logger
}

// NewAPI builds the echo instance serving the chat API and the health
// endpoints.
func NewAPI(cfg APIConfig) (*echo.Echo, error) {
	if cfg.Runner == nil {
		return nil, fmt.Errorf("runner is required for the chat API")
	}
	if cfg.ServerContext == nil {
		return nil, fmt.Errorf("server context is required for the chat API")
	}
	if cfg.DefaultMode == "" {
		cfg.DefaultMode = string(backend.KindNotion)
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if len(cfg.AllowOrigins) == 0 {
		cfg.AllowOrigins = []string{"*"}
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = errorHandler(cfg.Logger)

	e.Use(metricsMiddleware(cfg.Metrics))
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:  cfg.AllowOrigins,
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:  []string{echo.HeaderContentType},
		ExposeHeaders: []string{HeaderRunID},
	}))

	h := &chatHandler{
		runner:      cfg.Runner,
		sc:          cfg.ServerContext,
		defaultMode: cfg.DefaultMode,
		documents:   cfg.Documents,
		logger:      cfg.Logger,
	}
	api := e.Group("/api")
	api.POST("/chat", h.chat)
	api.GET("/config", h.config)

	if cfg.Health != nil {
		cfg.Health.Register(e)
	}
	return e, nil
}

func (h *chatHandler) chat(c echo.Context) error {
	var req ChatRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if strings.TrimSpace(req.Prompt) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "prompt is required")
	}

	mode := strings.TrimSpace(req.Mode)
	if mode == "" {
		mode = h.defaultMode
	}

	runID := uuid.NewString()
	c.Response().Header().Set(HeaderRunID, runID)
	ctx := instrumentation.ContextWithRunID(c.Request().Context(), runID)

	result, err := h.runner.Run(ctx, req.Prompt, mode)
	if err != nil {
		if errors.Is(err, backend.ErrUnknownMode) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return err
	}
	return c.JSON(http.StatusOK, ChatResponse{Response: result.Text})
}

func (h *chatHandler) config(c echo.Context) error {
	return c.JSON(http.StatusOK, ConfigResponse{
		DocumentIDs: h.documents,
		Modes:       h.sc.Modes(),
	})
}

// errorHandler replies {"error": message} for every failed request.
// Internal errors are logged and reported with a generic message.
func errorHandler(logger *slog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		code := http.StatusInternalServerError
		msg := http.StatusText(code)

		var he *echo.HTTPError
		if errors.As(err, &he) {
			code = he.Code
			if he.Message != nil {
				msg = fmt.Sprint(he.Message)
			}
		}

		req := c.Request()
		level := slog.LevelDebug
		if code >= http.StatusInternalServerError {
			level = slog.LevelError
		}
		logger.Log(req.Context(), level, "request failed",
			"method", req.Method,
			"path", c.Path(),
			logging.Status(fmt.Sprint(code)),
			logging.Err(err),
		)

		if c.Response().Committed {
			return
		}
		if req.Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, ErrorResponse{Error: msg})
	}
}

// metricsMiddleware records every request by method, matched route and
// final status.
func metricsMiddleware(m *instrumentation.Metrics) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			if err := next(c); err != nil {
				c.Error(err)
			}
			m.RecordHTTPRequest(c.Request().Context(), c.Request().Method, c.Path(), c.Response().Status, time.Since(start))
			return nil
		}
	}
}

// APIServer runs an echo instance, such as the chat API, on a plain HTTP
// listener.
type APIServer struct {
	echo *echo.Echo
	addr string
}

// NewAPIServer wraps e for serving on addr.
func NewAPIServer(e *echo.Echo, addr string) *APIServer {
	e.Server.ReadHeaderTimeout = DefaultAPIReadHeaderTimeout
	e.Server.IdleTimeout = DefaultAPIIdleTimeout
	return &APIServer{echo: e, addr: addr}
}

// Start serves until Shutdown is called, then returns http.ErrServerClosed.
func (s *APIServer) Start() error {
	slog.Info("starting HTTP listener", "addr", s.addr)
	return s.echo.Start(s.addr)
}

// Shutdown gracefully shuts down the server.
func (s *APIServer) Shutdown(ctx context.Context) error {
	slog.Info("shutting down HTTP listener", "addr", s.addr)
	return s.echo.Shutdown(ctx)
}

// Addr returns the configured listen address.
func (s *APIServer) Addr() string {
	return s.addr
}
