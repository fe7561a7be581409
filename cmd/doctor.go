package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/tmc/langchaingo/llms"

	"github.com/enzocage/Notion-Mediator/internal/agent"
	"github.com/enzocage/Notion-Mediator/internal/config"
	"github.com/enzocage/Notion-Mediator/internal/google"
	"github.com/enzocage/Notion-Mediator/internal/logging"
)

type checkStatus string

const (
	checkOK   checkStatus = "OK"
	checkWarn checkStatus = "WARN"
	checkFail checkStatus = "FAIL"
)

type check struct {
	name   string
	status checkStatus
	detail string
}

const pingTimeout = 30 * time.Second

func newDoctorCmd() *cobra.Command {
	var ping bool

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check configuration and credentials",
		Long: `Check the model key, the Notion token, the Google service-account
credentials and the configured document IDs. Secrets are reported by length
only. With --ping, one request is sent to the model.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			checks := collectChecks(cfg)
			if ping {
				checks = append(checks, pingModel(cmd.Context(), cfg))
			}
			return reportChecks(cmd.OutOrStdout(), checks)
		},
	}

	cmd.Flags().BoolVar(&ping, "ping", false, "Send one request to the model")

	return cmd
}

// collectChecks inspects cfg without any network access.
func collectChecks(cfg *config.Config) []check {
	var checks []check

	if err := cfg.Validate(); err != nil {
		checks = append(checks, check{name: "configuration", status: checkFail, detail: strings.ReplaceAll(err.Error(), "\n", "; ")})
	} else {
		model := cfg.LLMModel
		if model == "" {
			model = "provider default"
		}
		checks = append(checks, check{name: "configuration", status: checkOK, detail: fmt.Sprintf("provider %s, model %s, max rounds %d", cfg.LLMProvider, model, cfg.MaxRounds)})
	}

	checks = append(checks, modelKeyCheck(cfg))
	checks = append(checks, notionCheck(cfg))
	checks = append(checks, googleCheck(cfg))

	if !cfg.NotionConfigured() && !cfg.GoogleConfigured() {
		checks = append(checks, check{name: "backends", status: checkFail, detail: errNoBackends.Error()})
	}
	return checks
}

func modelKeyCheck(cfg *config.Config) check {
	c := check{name: "model key"}
	key := strings.TrimSpace(cfg.ModelAPIKey())
	switch {
	case key == "":
		c.status, c.detail = checkFail, "not set"
	case cfg.LLMProvider == agent.ProviderGoogleAI && !strings.HasPrefix(key, "AIza"):
		c.status, c.detail = checkWarn, logging.SanitizeToken(key)+", Gemini keys usually start with AIza"
	default:
		c.status, c.detail = checkOK, logging.SanitizeToken(key)
	}
	return c
}

func notionCheck(cfg *config.Config) check {
	c := check{name: "notion"}
	pages := cfg.NotionPages().Aliases()
	switch {
	case cfg.NotionAPIKey == "" && len(pages) == 0:
		c.status, c.detail = checkWarn, "not configured"
	case cfg.NotionAPIKey == "":
		c.status, c.detail = checkFail, "NOTION_API_KEY is not set"
	case len(pages) == 0:
		c.status, c.detail = checkFail, "PAGE_ID_1 and PAGE_ID_2 are not set"
	default:
		c.status, c.detail = checkOK, fmt.Sprintf("token %s, pages %s", logging.SanitizeToken(cfg.NotionAPIKey), strings.Join(pages, ", "))
	}
	return c
}

func googleCheck(cfg *config.Config) check {
	c := check{name: "google"}
	docs := cfg.GoogleDocs().Aliases()
	if len(docs) == 0 {
		c.status, c.detail = checkWarn, "not configured"
		return c
	}

	creds, err := google.LoadCredentials(cfg.GoogleCredentials)
	if err != nil {
		c.status, c.detail = checkFail, err.Error()
		return c
	}
	c.status = checkOK
	c.detail = fmt.Sprintf("service account %s, documents %s; share each document with this account", creds.Email(), strings.Join(docs, ", "))
	return c
}

func pingModel(ctx context.Context, cfg *config.Config) check {
	c := check{name: "model ping"}
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	model, err := agent.NewModel(ctx, cfg.ModelConfig(), nil)
	if err != nil {
		c.status, c.detail = checkFail, err.Error()
		return c
	}

	start := time.Now()
	reply, err := llms.GenerateFromSinglePrompt(ctx, model, "Reply with the single word: pong")
	if err != nil {
		c.status, c.detail = checkFail, err.Error()
		return c
	}
	c.status = checkOK
	c.detail = fmt.Sprintf("%q in %s", strings.TrimSpace(reply), time.Since(start).Round(time.Millisecond))
	return c
}

// reportChecks prints one line per check and fails if any check failed.
func reportChecks(w io.Writer, checks []check) error {
	failed := 0
	for _, c := range checks {
		fmt.Fprintf(w, "[%-4s] %s: %s\n", c.status, c.name, c.detail)
		if c.status == checkFail {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d check(s) failed", failed)
	}
	return nil
}
