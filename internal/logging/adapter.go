package logging

import "log/slog"

// Logger is the level-based logging interface accepted by long-lived
// components such as the planner.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	With(args ...any) Logger
}

// SlogAdapter satisfies Logger with an embedded slog.Logger.
type SlogAdapter struct {
	*slog.Logger
}

var _ Logger = (*SlogAdapter)(nil)

// NewSlogAdapter wraps logger, or slog.Default() when logger is nil.
func NewSlogAdapter(logger *slog.Logger) *SlogAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlogAdapter{Logger: logger}
}

// With returns a Logger that adds args to every record.
func (a *SlogAdapter) With(args ...any) Logger {
	return &SlogAdapter{Logger: a.Logger.With(args...)}
}

// Discard returns a Logger that drops every record.
func Discard() *SlogAdapter {
	return NewSlogAdapter(slog.New(slog.DiscardHandler))
}
