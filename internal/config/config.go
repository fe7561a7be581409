package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/enzocage/Notion-Mediator/internal/agent"
	"github.com/enzocage/Notion-Mediator/internal/backend"
	"github.com/enzocage/Notion-Mediator/internal/google"
)

// DefaultEnvFile is the dotenv file read by Load when present.
const DefaultEnvFile = ".env"

// Config keys. Each key is also the environment variable of the same name
// in upper case.
const (
	KeyGeminiAPIKey      = "gemini_api_key"
	KeyLLMProvider       = "llm_provider"
	KeyLLMModel          = "llm_model"
	KeyOpenAIAPIKey      = "openai_api_key"
	KeyOpenAIBaseURL     = "openai_base_url"
	KeyNotionAPIKey      = "notion_api_key"
	KeyPageID1           = "page_id_1"
	KeyPageID2           = "page_id_2"
	KeyGoogleCredentials = "google_application_credentials"
	KeyGoogleDocID1      = "google_doc_id_1"
	KeyGoogleDocID2      = "google_doc_id_2"
	KeyPort              = "port"
	KeyDefaultMode       = "default_mode"
	KeyMaxRounds         = "max_rounds"
)

// Config is the mediator configuration.
type Config struct {
	GeminiAPIKey  string `mapstructure:"gemini_api_key"`
	LLMProvider   string `mapstructure:"llm_provider"`
	LLMModel      string `mapstructure:"llm_model"`
	OpenAIAPIKey  string `mapstructure:"openai_api_key"`
	OpenAIBaseURL string `mapstructure:"openai_base_url"`

	NotionAPIKey string `mapstructure:"notion_api_key"`
	PageID1      string `mapstructure:"page_id_1"`
	PageID2      string `mapstructure:"page_id_2"`

	GoogleCredentials string `mapstructure:"google_application_credentials"`
	GoogleDocID1      string `mapstructure:"google_doc_id_1"`
	GoogleDocID2      string `mapstructure:"google_doc_id_2"`

	Port        int    `mapstructure:"port"`
	DefaultMode string `mapstructure:"default_mode"`
	MaxRounds   int    `mapstructure:"max_rounds"`
}

func setDefaults(v *viper.Viper) {
	// Keys without a default are registered too so that AutomaticEnv
	// values reach Unmarshal.
	for _, key := range []string{
		KeyGeminiAPIKey, KeyOpenAIAPIKey, KeyOpenAIBaseURL, KeyLLMModel,
		KeyNotionAPIKey, KeyPageID1, KeyPageID2,
		KeyGoogleDocID1, KeyGoogleDocID2,
	} {
		v.SetDefault(key, "")
	}

	v.SetDefault(KeyLLMProvider, agent.ProviderGoogleAI)
	v.SetDefault(KeyGoogleCredentials, google.DefaultCredentialsFile)
	v.SetDefault(KeyPort, 3000)
	v.SetDefault(KeyDefaultMode, string(backend.KindNotion))
	v.SetDefault(KeyMaxRounds, agent.MaxRounds)
}

// Load reads envFile if it exists, then the process environment. Flags in
// flags override both; each is bound to the key of the same name with
// dashes replaced by underscores. A flag that was not set on the command
// line does not override anything.
func Load(envFile string, flags map[string]*pflag.Flag) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if envFile != "" {
		v.SetConfigFile(envFile)
		v.SetConfigType("env")
		if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to read %s: %w", envFile, err)
		}
	}

	v.AutomaticEnv()

	for key, flag := range flags {
		if flag == nil {
			continue
		}
		if err := v.BindPFlag(strings.ReplaceAll(key, "-", "_"), flag); err != nil {
			return nil, fmt.Errorf("failed to bind flag %s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration: %w", err)
	}
	cfg.normalize()
	return &cfg, nil
}

func (c *Config) normalize() {
	c.LLMProvider = strings.ToLower(strings.TrimSpace(c.LLMProvider))
	c.DefaultMode = strings.ToLower(strings.TrimSpace(c.DefaultMode))
	c.PageID1 = strings.TrimSpace(c.PageID1)
	c.PageID2 = strings.TrimSpace(c.PageID2)
	c.GoogleDocID1 = strings.TrimSpace(c.GoogleDocID1)
	c.GoogleDocID2 = strings.TrimSpace(c.GoogleDocID2)
}

// Validate checks the settings every command needs.
func (c *Config) Validate() error {
	var errs []error

	switch c.LLMProvider {
	case agent.ProviderGoogleAI, agent.ProviderOpenAI:
		if c.ModelAPIKey() == "" {
			errs = append(errs, fmt.Errorf("%s is required for the %s provider", strings.ToUpper(c.modelKeyName()), c.LLMProvider))
		}
	default:
		errs = append(errs, fmt.Errorf("unsupported LLM_PROVIDER %q: must be %s or %s", c.LLMProvider, agent.ProviderGoogleAI, agent.ProviderOpenAI))
	}

	if c.MaxRounds < 1 || c.MaxRounds > agent.MaxRounds {
		errs = append(errs, fmt.Errorf("MAX_ROUNDS must be between 1 and %d, got %d", agent.MaxRounds, c.MaxRounds))
	}
	if c.Port < 1 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("PORT must be between 1 and 65535, got %d", c.Port))
	}
	if _, err := backend.ParseKind(c.DefaultMode); err != nil {
		errs = append(errs, fmt.Errorf("invalid DEFAULT_MODE: %w", err))
	}

	return errors.Join(errs...)
}

func (c *Config) modelKeyName() string {
	if c.LLMProvider == agent.ProviderOpenAI {
		return KeyOpenAIAPIKey
	}
	return KeyGeminiAPIKey
}

// ModelAPIKey returns the API key of the configured provider.
func (c *Config) ModelAPIKey() string {
	if c.LLMProvider == agent.ProviderOpenAI {
		return c.OpenAIAPIKey
	}
	return c.GeminiAPIKey
}

// ModelConfig returns the model transport settings. An empty Model leaves
// the choice to the provider's default.
func (c *Config) ModelConfig() agent.ModelConfig {
	return agent.ModelConfig{
		Provider: c.LLMProvider,
		Model:    c.LLMModel,
		APIKey:   c.ModelAPIKey(),
		BaseURL:  c.OpenAIBaseURL,
	}
}

// NotionPages returns the Notion page aliases.
func (c *Config) NotionPages() backend.Documents {
	return backend.Documents{"1": c.PageID1, "2": c.PageID2}
}

// GoogleDocs returns the Google Doc aliases.
func (c *Config) GoogleDocs() backend.Documents {
	return backend.Documents{"1": c.GoogleDocID1, "2": c.GoogleDocID2}
}

// NotionConfigured reports whether the Notion backend has a token and at
// least one page.
func (c *Config) NotionConfigured() bool {
	return c.NotionAPIKey != "" && len(c.NotionPages().Aliases()) > 0
}

// GoogleConfigured reports whether the Google backend has at least one
// document and an existing credentials file.
func (c *Config) GoogleConfigured() bool {
	if len(c.GoogleDocs().Aliases()) == 0 || c.GoogleCredentials == "" {
		return false
	}
	_, err := os.Stat(c.GoogleCredentials)
	return err == nil
}
