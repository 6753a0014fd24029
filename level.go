package fillogger

import (
	"log/slog"
	"strings"
)

// LevelTrace extends slog's scale one step below debug, matching the
// trace slot go-log reserves for its most verbose severity.
const LevelTrace = slog.Level(-8)

// levelName returns the lowercase go-log name for a severity. Levels
// between the named ones collapse onto the next named level above them.
func levelName(l slog.Level) string {
	switch {
	case l < slog.LevelDebug:
		return "trace"
	case l < slog.LevelInfo:
		return "debug"
	case l < slog.LevelWarn:
		return "info"
	case l < slog.LevelError:
		return "warn"
	default:
		return "error"
	}
}

// parseLevel converts a level string to a slog.Level. "trace" is handled
// here; everything else is delegated to slog's own parser, which accepts
// the standard names case-insensitively.
func parseLevel(s string) (slog.Level, error) {
	if strings.EqualFold(strings.TrimSpace(s), "trace") {
		return LevelTrace, nil
	}
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return 0, err
	}
	return lvl, nil
}
