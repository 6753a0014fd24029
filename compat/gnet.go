// Package compat exposes the installed slog logger behind the logger
// interfaces of third-party frameworks, so servers built on gnet or
// fasthttp share the process-wide log format and destination.
package compat

import (
	"fmt"
	"log/slog"
	"os"
)

// GnetAdapter wraps a slog.Logger to implement gnet's logging.Logger
// interface.
type GnetAdapter struct {
	logger       *slog.Logger
	fatalHandler func(msg string) // customizable fatal behavior
}

// NewGnetAdapter creates a new gnet-compatible logger adapter. A nil
// logger selects the process-wide default.
func NewGnetAdapter(logger *slog.Logger, opts ...GnetOption) *GnetAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	adapter := &GnetAdapter{
		logger: logger,
		fatalHandler: func(msg string) {
			os.Exit(1) // default behavior matches gnet expectations
		},
	}
	for _, opt := range opts {
		opt(adapter)
	}
	return adapter
}

// GnetOption allows customizing adapter behavior.
type GnetOption func(*GnetAdapter)

// WithFatalHandler sets a custom fatal handler.
func WithFatalHandler(handler func(string)) GnetOption {
	return func(a *GnetAdapter) {
		a.fatalHandler = handler
	}
}

// Debugf logs at debug level with printf-style formatting.
func (a *GnetAdapter) Debugf(format string, args ...any) {
	a.logger.Debug(fmt.Sprintf(format, args...), "source", "gnet")
}

// Infof logs at info level with printf-style formatting.
func (a *GnetAdapter) Infof(format string, args ...any) {
	a.logger.Info(fmt.Sprintf(format, args...), "source", "gnet")
}

// Warnf logs at warn level with printf-style formatting.
func (a *GnetAdapter) Warnf(format string, args ...any) {
	a.logger.Warn(fmt.Sprintf(format, args...), "source", "gnet")
}

// Errorf logs at error level with printf-style formatting.
func (a *GnetAdapter) Errorf(format string, args ...any) {
	a.logger.Error(fmt.Sprintf(format, args...), "source", "gnet")
}

// Fatalf logs at error level and triggers the fatal handler.
func (a *GnetAdapter) Fatalf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	a.logger.Error(msg, "source", "gnet", "fatal", true)
	if a.fatalHandler != nil {
		a.fatalHandler(msg)
	}
}
