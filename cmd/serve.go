package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/enzocage/Notion-Mediator/internal/agent"
	"github.com/enzocage/Notion-Mediator/internal/backend"
	"github.com/enzocage/Notion-Mediator/internal/logging"
	"github.com/enzocage/Notion-Mediator/internal/server"
)

// MetricsConfig holds configuration for the metrics server
type MetricsConfig struct {
	// Enabled determines whether to start the metrics server (default: true)
	Enabled bool

	// Addr is the address for the metrics server (e.g., ":9090")
	Addr string
}

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP chat API",
		Long: `Start the HTTP chat API.

  POST /api/chat    {"prompt": "...", "mode": "notion"|"google"}
  GET  /api/config  configured document IDs and modes

Health endpoints (/healthz, /readyz, /healthz/detailed) are served on the
same port. Prometheus metrics are served on a dedicated port (--metrics-addr).

Configuration is read from the env file (--env-file), then the process
environment; the flags below override both.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			origins, metricsConfig := serveOptions(cmd.Flags())
			return runServe(cmd, origins, metricsConfig)
		},
	}

	cmd.Flags().Int("port", 3000, "Chat API port. Can also use PORT env var.")
	cmd.Flags().String("default-mode", string(backend.KindNotion), "Mode used when a request omits it: notion or google. Can also use DEFAULT_MODE env var.")
	cmd.Flags().Int("max-rounds", agent.MaxRounds, "Maximum planner rounds per request (1-30). Can also use MAX_ROUNDS env var.")
	cmd.Flags().String("cors-origins", "", "Comma-separated list of allowed CORS origins (default: any). Can also use CORS_ORIGINS env var.")
	cmd.Flags().Bool("metrics-enabled", true, "Enable the metrics server on a dedicated port. Can also use METRICS_ENABLED env var.")
	cmd.Flags().String("metrics-addr", server.DefaultMetricsAddr, "Metrics server address. Can also use METRICS_ADDR env var.")

	return cmd
}

func runServe(cmd *cobra.Command, corsOrigins []string, metricsConfig MetricsConfig) error {
	// Setup graceful shutdown
	shutdownCtx, cancel := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer cancel()

	a, err := newApp(shutdownCtx, cmd)
	if err != nil {
		return err
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		a.close(ctx)
	}()

	planner, err := a.newAgent(shutdownCtx)
	if err != nil {
		return err
	}

	var metricsServer *server.MetricsServer
	if metricsConfig.Enabled && a.provider.Enabled() {
		metricsServer, err = startMetricsServer(metricsConfig.Addr, a)
		if err != nil {
			return err
		}
	}

	serverContext := server.NewServerContext(shutdownCtx, a.resolver)
	health := server.NewHealthChecker(serverContext)

	e, err := server.NewAPI(server.APIConfig{
		Runner:        planner,
		ServerContext: serverContext,
		Health:        health,
		DefaultMode:   a.cfg.DefaultMode,
		Documents: server.DocumentIDs{
			PageID1:      a.cfg.PageID1,
			PageID2:      a.cfg.PageID2,
			GoogleDocID1: a.cfg.GoogleDocID1,
			GoogleDocID2: a.cfg.GoogleDocID2,
		},
		AllowOrigins: corsOrigins,
		Metrics:      a.provider.Metrics(),
		Logger:       slog.Default(),
	})
	if err != nil {
		return err
	}

	apiServer := server.NewAPIServer(e, fmt.Sprintf(":%d", a.cfg.Port))
	serverErr := make(chan error, 1)
	go func() {
		if err := apiServer.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()
	health.SetReady(true)

	slog.Info("chat API ready",
		"addr", apiServer.Addr(),
		"modes", strings.Join(serverContext.Modes(), ","),
		"default_mode", a.cfg.DefaultMode,
	)

	var runErr error
	select {
	case <-shutdownCtx.Done():
		slog.Info("shutdown signal received")
	case err, ok := <-serverErr:
		if ok {
			runErr = fmt.Errorf("chat API stopped with error: %w", err)
		}
	}

	health.SetReady(false)
	_ = serverContext.Shutdown()

	ctx, cancelShutdown := context.WithTimeout(context.Background(), server.DefaultShutdownTimeout)
	defer cancelShutdown()

	if err := apiServer.Shutdown(ctx); err != nil {
		slog.Warn("chat API shutdown failed", logging.Err(err))
	}
	if metricsServer != nil {
		if err := metricsServer.Shutdown(ctx); err != nil {
			slog.Warn("metrics server shutdown failed", logging.Err(err))
		}
	}

	return runErr
}

func startMetricsServer(addr string, a *app) (*server.MetricsServer, error) {
	metricsServer, err := server.NewMetricsServer(server.MetricsServerConfig{
		Addr:                    addr,
		Path:                    a.metricsPath,
		InstrumentationProvider: a.provider,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create metrics server: %w", err)
	}

	// Use ready channel to confirm metrics server started successfully
	metricsReady := make(chan struct{})
	metricsErr := make(chan error, 1)
	go func() {
		if err := metricsServer.StartWithReadySignal(metricsReady); err != nil && !errors.Is(err, http.ErrServerClosed) {
			metricsErr <- err
		}
		close(metricsErr)
	}()

	select {
	case <-metricsReady:
		return metricsServer, nil
	case err := <-metricsErr:
		return nil, fmt.Errorf("metrics server failed to start: %w", err)
	case <-time.After(5 * time.Second):
		return nil, fmt.Errorf("metrics server startup timed out")
	}
}

// serveOptions resolves the listener settings that are not part of the
// shared configuration. A flag set on the command line wins over the
// environment, which wins over the flag default.
func serveOptions(flags *pflag.FlagSet) ([]string, MetricsConfig) {
	v := viper.New()
	for key, env := range map[string]string{
		"cors-origins":    "CORS_ORIGINS",
		"metrics-enabled": "METRICS_ENABLED",
		"metrics-addr":    "METRICS_ADDR",
	} {
		_ = v.BindPFlag(key, flags.Lookup(key))
		_ = v.BindEnv(key, env)
	}

	return parseCommaSeparatedList(v.GetString("cors-origins")), MetricsConfig{
		Enabled: v.GetBool("metrics-enabled"),
		Addr:    v.GetString("metrics-addr"),
	}
}

// parseCommaSeparatedList splits s on commas and drops blank elements. It
// returns nil when nothing is left.
func parseCommaSeparatedList(s string) []string {
	var result []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			result = append(result, p)
		}
	}
	return result
}
