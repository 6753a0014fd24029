package compat

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// FastHTTPAdapter wraps a slog.Logger to implement fasthttp's Logger
// interface. fasthttp only exposes Printf, so the severity is guessed
// from the message content.
type FastHTTPAdapter struct {
	logger        *slog.Logger
	defaultLevel  slog.Level
	levelDetector func(string) (slog.Level, bool)
}

// NewFastHTTPAdapter creates a new fasthttp-compatible logger adapter. A
// nil logger selects the process-wide default.
func NewFastHTTPAdapter(logger *slog.Logger, opts ...FastHTTPOption) *FastHTTPAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	adapter := &FastHTTPAdapter{
		logger:        logger,
		defaultLevel:  slog.LevelInfo,
		levelDetector: DetectLogLevel,
	}
	for _, opt := range opts {
		opt(adapter)
	}
	return adapter
}

// FastHTTPOption allows customizing adapter behavior.
type FastHTTPOption func(*FastHTTPAdapter)

// WithDefaultLevel sets the level used when detection finds nothing.
func WithDefaultLevel(level slog.Level) FastHTTPOption {
	return func(a *FastHTTPAdapter) {
		a.defaultLevel = level
	}
}

// WithLevelDetector sets a custom function to detect the log level from
// message content.
func WithLevelDetector(detector func(string) (slog.Level, bool)) FastHTTPOption {
	return func(a *FastHTTPAdapter) {
		a.levelDetector = detector
	}
}

// Printf implements fasthttp's Logger interface.
func (a *FastHTTPAdapter) Printf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)

	level := a.defaultLevel
	if a.levelDetector != nil {
		if detected, ok := a.levelDetector(msg); ok {
			level = detected
		}
	}

	a.logger.Log(context.Background(), level, msg, "source", "fasthttp")
}

// DetectLogLevel guesses a log level from message content. The second
// return value reports whether anything matched.
func DetectLogLevel(msg string) (slog.Level, bool) {
	msgLower := strings.ToLower(msg)

	if strings.Contains(msgLower, "error") ||
		strings.Contains(msgLower, "failed") ||
		strings.Contains(msgLower, "fatal") ||
		strings.Contains(msgLower, "panic") {
		return slog.LevelError, true
	}

	if strings.Contains(msgLower, "warn") ||
		strings.Contains(msgLower, "deprecated") {
		return slog.LevelWarn, true
	}

	if strings.Contains(msgLower, "debug") ||
		strings.Contains(msgLower, "trace") {
		return slog.LevelDebug, true
	}

	return 0, false
}
