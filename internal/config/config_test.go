package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/pflag"

	"github.com/enzocage/Notion-Mediator/internal/agent"
	"github.com/enzocage/Notion-Mediator/internal/backend"
)

var allKeys = []string{
	KeyGeminiAPIKey, KeyLLMProvider, KeyLLMModel, KeyOpenAIAPIKey, KeyOpenAIBaseURL,
	KeyNotionAPIKey, KeyPageID1, KeyPageID2,
	KeyGoogleCredentials, KeyGoogleDocID1, KeyGoogleDocID2,
	KeyPort, KeyDefaultMode, KeyMaxRounds,
}

// clearEnv hides any configuration present in the test process environment.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range allKeys {
		t.Setenv(strings.ToUpper(key), "")
	}
}

func writeEnvFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write env file: %v", err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"), nil)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.LLMProvider != agent.ProviderGoogleAI {
		t.Errorf("LLMProvider = %q, want %q", cfg.LLMProvider, agent.ProviderGoogleAI)
	}
	if cfg.LLMModel != "" {
		t.Errorf("LLMModel = %q, want empty so the provider picks its default", cfg.LLMModel)
	}
	if cfg.Port != 3000 {
		t.Errorf("Port = %d, want 3000", cfg.Port)
	}
	if cfg.DefaultMode != "notion" {
		t.Errorf("DefaultMode = %q, want notion", cfg.DefaultMode)
	}
	if cfg.MaxRounds != agent.MaxRounds {
		t.Errorf("MaxRounds = %d, want %d", cfg.MaxRounds, agent.MaxRounds)
	}
	if cfg.GoogleCredentials != "credentials.json" {
		t.Errorf("GoogleCredentials = %q, want credentials.json", cfg.GoogleCredentials)
	}
}

func TestLoad_EnvFile(t *testing.T) {
	clearEnv(t)

	path := writeEnvFile(t, strings.Join([]string{
		"GEMINI_API_KEY=AIzaFromFile",
		"NOTION_API_KEY=secret_notion",
		"PAGE_ID_1=page-one",
		"PAGE_ID_2= page-two ",
		"PORT=8080",
	}, "\n"))

	cfg, err := Load(path, nil)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.GeminiAPIKey != "AIzaFromFile" {
		t.Errorf("GeminiAPIKey = %q", cfg.GeminiAPIKey)
	}
	if cfg.Port != 8080 {
		t.Errorf("Port = %d, want 8080", cfg.Port)
	}
	if cfg.PageID2 != "page-two" {
		t.Errorf("PageID2 = %q, want trimmed page-two", cfg.PageID2)
	}
	if !cfg.NotionConfigured() {
		t.Error("NotionConfigured() = false, want true")
	}
}

func TestLoad_EnvironmentOverridesFile(t *testing.T) {
	clearEnv(t)
	path := writeEnvFile(t, "GEMINI_API_KEY=from-file\nMAX_ROUNDS=10\n")
	t.Setenv("GEMINI_API_KEY", "from-env")

	cfg, err := Load(path, nil)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.GeminiAPIKey != "from-env" {
		t.Errorf("GeminiAPIKey = %q, want from-env", cfg.GeminiAPIKey)
	}
	if cfg.MaxRounds != 10 {
		t.Errorf("MaxRounds = %d, want 10", cfg.MaxRounds)
	}
}

func TestLoad_FlagsOverrideEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "4000")
	t.Setenv("DEFAULT_MODE", "google")

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.Int("port", 3000, "")
	fs.String("default-mode", "notion", "")
	if err := fs.Parse([]string{"--port", "5000"}); err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	cfg, err := Load("", map[string]*pflag.Flag{
		"port":         fs.Lookup("port"),
		"default-mode": fs.Lookup("default-mode"),
	})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Port != 5000 {
		t.Errorf("Port = %d, want 5000 from the flag", cfg.Port)
	}
	if cfg.DefaultMode != "google" {
		t.Errorf("DefaultMode = %q, want google since the flag was not set", cfg.DefaultMode)
	}
}

func validConfig() *Config {
	return &Config{
		GeminiAPIKey: "AIzaKey",
		LLMProvider:  agent.ProviderGoogleAI,
		Port:         3000,
		DefaultMode:  "notion",
		MaxRounds:    30,
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr string
	}{
		{name: "valid", modify: func(*Config) {}},
		{name: "openai with key", modify: func(c *Config) {
			c.LLMProvider = agent.ProviderOpenAI
			c.OpenAIAPIKey = "sk-test"
		}},
		{name: "unknown provider", modify: func(c *Config) { c.LLMProvider = "anthropic" }, wantErr: "unsupported LLM_PROVIDER"},
		{name: "missing gemini key", modify: func(c *Config) { c.GeminiAPIKey = "" }, wantErr: "GEMINI_API_KEY is required"},
		{name: "missing openai key", modify: func(c *Config) { c.LLMProvider = agent.ProviderOpenAI }, wantErr: "OPENAI_API_KEY is required"},
		{name: "zero rounds", modify: func(c *Config) { c.MaxRounds = 0 }, wantErr: "MAX_ROUNDS"},
		{name: "too many rounds", modify: func(c *Config) { c.MaxRounds = 31 }, wantErr: "MAX_ROUNDS"},
		{name: "bad port", modify: func(c *Config) { c.Port = 70000 }, wantErr: "PORT"},
		{name: "bad mode", modify: func(c *Config) { c.DefaultMode = "word" }, wantErr: "DEFAULT_MODE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.modify(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() error = %v, want nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestBackendsConfigured(t *testing.T) {
	credentials := filepath.Join(t.TempDir(), "credentials.json")
	if err := os.WriteFile(credentials, []byte("{}"), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg := validConfig()
	if cfg.NotionConfigured() || cfg.GoogleConfigured() {
		t.Fatal("no backend should be configured without IDs")
	}

	cfg.NotionAPIKey = "secret"
	cfg.PageID2 = "page-2"
	if !cfg.NotionConfigured() {
		t.Error("NotionConfigured() = false with a token and one page")
	}
	if got := cfg.NotionPages().Aliases(); len(got) != 1 || got[0] != "2" {
		t.Errorf("NotionPages().Aliases() = %v, want [2]", got)
	}

	cfg.GoogleDocID1 = "doc-1"
	cfg.GoogleCredentials = filepath.Join(t.TempDir(), "missing.json")
	if cfg.GoogleConfigured() {
		t.Error("GoogleConfigured() = true without a credentials file")
	}
	cfg.GoogleCredentials = credentials
	if !cfg.GoogleConfigured() {
		t.Error("GoogleConfigured() = false with credentials and a document")
	}
}

func TestModelConfig(t *testing.T) {
	cfg := validConfig()
	cfg.LLMProvider = agent.ProviderOpenAI
	cfg.OpenAIAPIKey = "sk"
	cfg.OpenAIBaseURL = "http://localhost:11434/v1"
	cfg.LLMModel = "llama3"

	got := cfg.ModelConfig()
	want := agent.ModelConfig{Provider: "openai", Model: "llama3", APIKey: "sk", BaseURL: "http://localhost:11434/v1"}
	if got != want {
		t.Errorf("ModelConfig() = %+v, want %+v", got, want)
	}
	if _, err := backend.ParseKind(cfg.DefaultMode); err != nil {
		t.Errorf("default mode should parse: %v", err)
	}
}

func TestModelConfig_ProviderDefaultModel(t *testing.T) {
	tests := []struct {
		name     string
		provider string
		model    string
		want     string
	}{
		{name: "openai without model", provider: "openai", want: ""},
		{name: "googleai without model", provider: "googleai", want: ""},
		{name: "explicit model", provider: "openai", model: "gpt-4o-mini", want: "gpt-4o-mini"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv("LLM_PROVIDER", tt.provider)
			t.Setenv("OPENAI_API_KEY", "sk-test")
			t.Setenv("GEMINI_API_KEY", "AIza-test")
			t.Setenv("LLM_MODEL", tt.model)

			cfg, err := Load("", nil)
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}

			got := cfg.ModelConfig()
			if got.Provider != tt.provider {
				t.Errorf("Provider = %q, want %q", got.Provider, tt.provider)
			}
			if got.Model != tt.want {
				t.Errorf("Model = %q, want %q", got.Model, tt.want)
			}
		})
	}
}
