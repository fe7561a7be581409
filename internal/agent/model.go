package agent

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/enzocage/Notion-Mediator/internal/instrumentation"
)

// Supported model providers.
const (
	ProviderGoogleAI = "googleai"
	ProviderOpenAI   = "openai"
)

// DefaultModel is the Gemini model used when none is configured.
const DefaultModel = "gemini-2.5-flash"

// ModelConfig selects and authenticates the model transport.
type ModelConfig struct {
	Provider string
	Model    string
	APIKey   string
	// BaseURL overrides the OpenAI-compatible endpoint.
	BaseURL string
}

// NewModel creates the model transport for cfg. When metrics is not nil
// every call is recorded.
func NewModel(ctx context.Context, cfg ModelConfig, metrics *instrumentation.Metrics) (llms.Model, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("model API key is required")
	}

	if cfg.Provider == "" {
		cfg.Provider = ProviderGoogleAI
	}

	var (
		llm llms.Model
		err error
	)
	switch cfg.Provider {
	case ProviderGoogleAI:
		model := cfg.Model
		if model == "" {
			model = DefaultModel
		}
		llm, err = googleai.New(ctx,
			googleai.WithAPIKey(cfg.APIKey),
			googleai.WithDefaultModel(model),
		)
	case ProviderOpenAI:
		opts := []openai.Option{
			openai.WithToken(cfg.APIKey),
		}
		if cfg.Model != "" {
			opts = append(opts, openai.WithModel(cfg.Model))
		}
		if cfg.BaseURL != "" {
			opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
		}
		llm, err = openai.New(opts...)
	default:
		return nil, fmt.Errorf("unsupported model provider: %s", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create %s model: %w", cfg.Provider, err)
	}

	return InstrumentModel(llm, cfg.Provider, metrics), nil
}

// InstrumentModel wraps model so that each GenerateContent call records
// the LLM request metrics. A nil metrics returns model unchanged.
func InstrumentModel(model llms.Model, provider string, metrics *instrumentation.Metrics) llms.Model {
	if metrics == nil {
		return model
	}
	return &timedModel{Model: model, provider: provider, metrics: metrics}
}

type timedModel struct {
	llms.Model
	provider string
	metrics  *instrumentation.Metrics
}

func (m *timedModel) GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	start := time.Now()
	resp, err := m.Model.GenerateContent(ctx, messages, options...)
	m.metrics.RecordLLMRequest(ctx, m.provider, instrumentation.StatusFromError(err), time.Since(start))
	return resp, err
}
