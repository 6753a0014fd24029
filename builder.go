package fillogger

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
)

// Builder provides a fluent API for assembling a logger without touching
// the environment. Errors accumulate and surface at Build.
type Builder struct {
	cfg  *Config
	file *os.File
	out  io.Writer
	err  error
}

// NewBuilder creates a builder seeded with the default configuration.
func NewBuilder() *Builder {
	return &Builder{cfg: DefaultConfig()}
}

// WithConfig replaces the builder's configuration with a copy of cfg.
func (b *Builder) WithConfig(cfg *Config) *Builder {
	if cfg == nil {
		b.err = errors.New("fillogger: configuration cannot be nil")
		return b
	}
	b.cfg = cfg.Clone()
	return b
}

// Level sets the minimum severity.
func (b *Builder) Level(level string) *Builder {
	b.cfg.Level = level
	return b
}

// Format sets the output format.
func (b *Builder) Format(format string) *Builder {
	b.cfg.Format = format
	return b
}

// Target sets the output stream, stderr or stdout.
func (b *Builder) Target(target string) *Builder {
	b.cfg.Target = target
	return b
}

// File routes output to an already-open file instead of a stream. The
// handle stays owned by the caller.
func (b *Builder) File(file *os.File) *Builder {
	b.file = file
	return b
}

// Output overrides the destination stream, ignoring Target. Meant for
// tests and custom sinks.
func (b *Builder) Output(w io.Writer) *Builder {
	b.out = w
	return b
}

// Build assembles the logger without installing it, for callers that want
// a scoped logger rather than the process-wide one.
func (b *Builder) Build() (*slog.Logger, error) {
	if b.err != nil {
		return nil, b.err
	}
	if err := b.cfg.validate(); err != nil {
		return nil, err
	}

	if b.file != nil {
		w := NewSingleFileWriter(b.file)
		w.SetFormat(b.cfg.formatFunc(os.Stderr))
		return slog.New(newHandler(w, b.cfg.level())), nil
	}

	out := b.out
	if out == nil {
		if b.cfg.Target == "stdout" {
			out = os.Stdout
		} else {
			out = os.Stderr
		}
	}
	w := &streamWriter{out: out, format: b.cfg.formatFunc(out)}
	return slog.New(newHandler(w, b.cfg.level())), nil
}

// Install builds the logger and claims the process-wide slot, reporting a
// conflict as an error instead of panicking.
func (b *Builder) Install() error {
	l, err := b.Build()
	if err != nil {
		return err
	}
	if err := defaultInstaller.install(l); err != nil {
		return fmt.Errorf("fillogger: %w", err)
	}
	return nil
}
