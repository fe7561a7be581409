package logging

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// Common log attribute keys for consistent naming across the codebase.
const (
	KeyOperation  = "operation"
	KeyTool       = "tool"
	KeyMode       = "mode"
	KeyBackend    = "backend"
	KeyRunID      = "run_id"
	KeyRound      = "round"
	KeyPromptHash = "prompt_hash"
	KeyDuration   = "duration"
	KeyStatus     = "status"
	KeyError      = "error"
)

// Status values for consistent logging.
// Duplicated from the instrumentation package, which must not be imported
// by leaf packages that only log.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// New returns a text logger writing to w. debug lowers the level to Debug.
func New(w io.Writer, debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// WithOperation returns a logger with the operation attribute set.
func WithOperation(logger *slog.Logger, operation string) *slog.Logger {
	return logger.With(slog.String(KeyOperation, operation))
}

// WithRun returns a logger scoped to one planner run.
func WithRun(logger *slog.Logger, mode, runID string) *slog.Logger {
	return logger.With(slog.String(KeyMode, mode), slog.String(KeyRunID, runID))
}

// Operation returns a slog attribute for the operation name.
func Operation(op string) slog.Attr {
	return slog.String(KeyOperation, op)
}

// Tool returns a slog attribute for the tool name.
func Tool(tool string) slog.Attr {
	return slog.String(KeyTool, tool)
}

// Mode returns a slog attribute for the planner mode.
func Mode(mode string) slog.Attr {
	return slog.String(KeyMode, mode)
}

// Backend returns a slog attribute for the document backend.
func Backend(kind string) slog.Attr {
	return slog.String(KeyBackend, kind)
}

// RunID returns a slog attribute for the run identifier.
func RunID(id string) slog.Attr {
	return slog.String(KeyRunID, id)
}

// Round returns a slog attribute for the planner round number.
func Round(n int) slog.Attr {
	return slog.Int(KeyRound, n)
}

// Status returns a slog attribute for the status.
func Status(status string) slog.Attr {
	return slog.String(KeyStatus, status)
}

// Err returns a slog attribute for an error.
// If err is nil, returns an empty Group attribute that will be omitted from output.
//
// Usage:
//
//	logger.Info("operation", logging.Err(err))  // Safe even if err is nil
func Err(err error) slog.Attr {
	if err == nil {
		return slog.Group("")
	}
	return slog.String(KeyError, err.Error())
}

// Fingerprint returns a short stable hash of text. User prompts and document
// text are logged as fingerprints so that log lines can be correlated
// without recording content.
func Fingerprint(text string) string {
	if text == "" {
		return ""
	}
	hash := sha256.Sum256([]byte(text))
	return "sha256:" + hex.EncodeToString(hash[:8])
}

// PromptHash returns a slog attribute carrying the prompt fingerprint and
// its length.
//
// Usage:
//
//	logger.Info("run started", logging.PromptHash(prompt))
func PromptHash(prompt string) slog.Attr {
	return slog.Group(KeyPromptHash,
		slog.String("sum", Fingerprint(prompt)),
		slog.Int("len", len(prompt)),
	)
}

// SanitizeToken returns a masked version of a token for logging.
// It returns a length indicator without exposing any token content.
func SanitizeToken(token string) string {
	token = strings.TrimSpace(token)
	if token == "" {
		return "<empty>"
	}
	return fmt.Sprintf("[token:%d chars]", len(token))
}
