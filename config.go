package fillogger

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/lixenwraith/config"
)

// Config holds programmatic logger configuration. It covers the same
// choices the environment variables make, for applications that configure
// logging from a file instead of the environment. The environment still
// wins where it is set: GOLOG_LOG_LEVEL overrides Level, and Format "auto"
// applies the GOLOG_LOG_FMT plus terminal-detection policy.
type Config struct {
	Level  string `toml:"level"`  // trace, debug, info, warn, or error
	Format string `toml:"format"` // auto, json, color, or text
	Target string `toml:"target"` // stderr or stdout
}

var defaultConfig = Config{
	Level:  "info",
	Format: "auto",
	Target: "stderr",
}

// DefaultConfig returns a copy of the default configuration.
func DefaultConfig() *Config {
	copiedConfig := defaultConfig
	return &copiedConfig
}

// NewConfigFromFile loads configuration from a TOML file under the [log]
// table and returns a validated Config. A missing file yields defaults.
func NewConfigFromFile(path string) (*Config, error) {
	cfg := DefaultConfig()

	loader := config.New()
	if err := loader.RegisterStruct("log.", *cfg); err != nil {
		return nil, fmt.Errorf("fillogger: failed to register config struct: %w", err)
	}
	if err := loader.Load(path, nil); err != nil && !errors.Is(err, config.ErrConfigNotFound) {
		return nil, fmt.Errorf("fillogger: failed to load config from %s: %w", path, err)
	}

	for key, dst := range map[string]*string{
		"log.level":  &cfg.Level,
		"log.format": &cfg.Format,
		"log.target": &cfg.Target,
	} {
		val, found := loader.Get(key)
		if !found {
			continue
		}
		s, ok := val.(string)
		if !ok {
			return nil, fmt.Errorf("fillogger: %s must be a string, got %T", key, val)
		}
		*dst = s
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Clone creates a copy of the configuration.
func (c *Config) Clone() *Config {
	copiedConfig := *c
	return &copiedConfig
}

func (c *Config) validate() error {
	if _, err := parseLevel(c.Level); err != nil {
		return fmt.Errorf("fillogger: invalid level %q (use trace, debug, info, warn, or error)", c.Level)
	}
	switch c.Format {
	case "auto", "json", "color", "text":
	default:
		return fmt.Errorf("fillogger: invalid format %q (use auto, json, color, or text)", c.Format)
	}
	switch c.Target {
	case "stderr", "stdout":
	default:
		return fmt.Errorf("fillogger: invalid target %q (use stderr or stdout)", c.Target)
	}
	return nil
}

// level resolves the effective severity filter. GOLOG_LOG_LEVEL wins over
// the configured value when both are set.
func (c *Config) level() slog.Level {
	if v := os.Getenv(EnvLogLevel); v != "" {
		if lvl, err := parseLevel(v); err == nil {
			return lvl
		}
	}
	lvl, err := parseLevel(c.Level)
	if err != nil {
		return slog.LevelInfo
	}
	return lvl
}

// formatFunc resolves the format for output going to w. "auto" applies
// the environment variable and terminal-detection policy.
func (c *Config) formatFunc(w io.Writer) FormatFunc {
	switch c.Format {
	case "json":
		return GoLogJSONFormat
	case "color":
		return ColorTextFormat
	case "text":
		return PlainTextFormat
	default:
		return pickFormat(w)
	}
}

// InitWithConfig installs a logger built from cfg as the process-wide
// default. Unlike Init it reports a conflict with an already-installed
// logger as an error instead of panicking.
func InitWithConfig(cfg *Config) error {
	if cfg == nil {
		return errors.New("fillogger: configuration cannot be nil")
	}
	return NewBuilder().WithConfig(cfg).Install()
}
