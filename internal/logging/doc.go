// Package logging provides structured logging utilities for the mediator.
//
// It centralizes attribute names so that planner, tool and backend log lines
// can be joined on run_id, tool and mode.
//
// # Usage Patterns
//
// Scope a logger to one planner run:
//
//	logger := logging.WithRun(slog.Default(), "google", runID)
//	logger.Info("round completed", logging.Round(3), logging.Tool("read_doc_2"))
//
// Never log document text or prompts directly:
//
//	logger.Info("run started", logging.PromptHash(prompt))
//
// API keys are logged with SanitizeToken, which reveals only their length.
package logging
