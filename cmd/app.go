package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/enzocage/Notion-Mediator/internal/agent"
	"github.com/enzocage/Notion-Mediator/internal/backend"
	"github.com/enzocage/Notion-Mediator/internal/config"
	"github.com/enzocage/Notion-Mediator/internal/docs"
	"github.com/enzocage/Notion-Mediator/internal/google"
	"github.com/enzocage/Notion-Mediator/internal/instrumentation"
	"github.com/enzocage/Notion-Mediator/internal/logging"
	"github.com/enzocage/Notion-Mediator/internal/notion"
	"github.com/enzocage/Notion-Mediator/internal/tools"
)

var errNoBackends = errors.New("no backend is configured: set NOTION_API_KEY with PAGE_ID_1/PAGE_ID_2, or GOOGLE_APPLICATION_CREDENTIALS with GOOGLE_DOC_ID_1/GOOGLE_DOC_ID_2")

// configFlags are the flags that override configuration keys of the same
// name when a command defines them.
var configFlags = []string{"port", "default-mode", "max-rounds", "llm-provider", "llm-model"}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	flags := make(map[string]*pflag.Flag)
	for _, name := range configFlags {
		if f := cmd.Flags().Lookup(name); f != nil {
			flags[name] = f
		}
	}
	return config.Load(envFile, flags)
}

// app holds the components shared by the commands that talk to documents.
type app struct {
	cfg      *config.Config
	provider *instrumentation.Provider
	resolver *tools.Resolver
	// metricsPath is where the Prometheus scrape endpoint is mounted.
	metricsPath string
}

func newApp(ctx context.Context, cmd *cobra.Command) (*app, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	instrConfig := instrumentation.DefaultConfig()
	instrConfig.ServiceVersion = version
	provider, err := instrumentation.NewProvider(ctx, instrConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create instrumentation provider: %w", err)
	}

	backends, err := buildBackends(ctx, cfg, provider.Metrics())
	if err != nil {
		_ = provider.Shutdown(context.Background())
		return nil, err
	}

	resolver, err := tools.NewResolver(backends,
		tools.WithMetrics(provider.Metrics()),
		tools.WithAuditLogger(instrumentation.NewAuditLoggerWithConfig(nil, instrConfig.AuditLogging)),
	)
	if err != nil {
		_ = provider.Shutdown(context.Background())
		return nil, fmt.Errorf("failed to build tool registries: %w", err)
	}

	slog.Debug("backends configured", "modes", resolver.Modes())
	return &app{cfg: cfg, provider: provider, resolver: resolver, metricsPath: instrConfig.PrometheusEndpoint}, nil
}

// newAgent validates the model settings and creates the planner.
func (a *app) newAgent(ctx context.Context) (*agent.Agent, error) {
	if err := a.cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	model, err := agent.NewModel(ctx, a.cfg.ModelConfig(), a.provider.Metrics())
	if err != nil {
		return nil, err
	}

	return agent.New(model, a.resolver,
		agent.WithLogger(logging.NewSlogAdapter(slog.Default())),
		agent.WithMetrics(a.provider.Metrics()),
		agent.WithMaxRounds(a.cfg.MaxRounds),
	)
}

func (a *app) close(ctx context.Context) {
	if err := a.provider.Shutdown(ctx); err != nil {
		slog.Warn("instrumentation shutdown failed", logging.Err(err))
	}
}

// buildBackends creates a client for every backend whose credentials and
// document IDs are configured.
func buildBackends(ctx context.Context, cfg *config.Config, metrics *instrumentation.Metrics) ([]backend.Backend, error) {
	var backends []backend.Backend

	if cfg.NotionConfigured() {
		backends = append(backends, notion.NewClient(cfg.NotionAPIKey, cfg.NotionPages(), notion.WithMetrics(metrics)))
	} else {
		slog.Debug("notion backend not configured")
	}

	if cfg.GoogleConfigured() {
		creds, err := google.LoadCredentials(cfg.GoogleCredentials)
		if err != nil {
			return nil, err
		}
		service, err := docs.NewService(ctx, creds)
		if err != nil {
			return nil, err
		}
		backends = append(backends, docs.NewClient(service, cfg.GoogleDocs(),
			docs.WithMetrics(metrics),
			docs.WithShareHint(creds.Email()),
		))
	} else {
		slog.Debug("google backend not configured")
	}

	if len(backends) == 0 {
		return nil, errNoBackends
	}
	return backends, nil
}
