// Package fillogger wires an output format into the process-wide slog
// logger based on environment variables and terminal detection.
//
// The log level is controlled by the GOLOG_LOG_LEVEL environment variable,
// parsed by slog's own level parser (plus "trace"). The default output on
// an interactive terminal looks like this (with log level debug):
//
//	2019-11-11T21:04:25.685 DEBUG simple > debug information
//	2019-11-11T21:04:25.685 INFO simple > normal information
//	2019-11-11T21:04:25.685 WARN simple > a warning
//	2019-11-11T21:04:25.685 ERROR simple > error!
//
// Setting GOLOG_LOG_FMT=json switches to the JSON format emitted by
// ipfs/go-log, which is more verbose and carries the caller file and line:
//
//	{"level":"info","ts":"2019-11-11T21:06:45.401+01:00","logger":"simple","caller":"examples/simple.go:38","msg":"normal information"}
//
// Initialization happens exactly once per process. Init panics when a
// logger was already installed through this package; MaybeInit exists for
// libraries that cannot guarantee they run first.
package fillogger

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync/atomic"
)

// installer guards the process-wide logger slot. The slot moves from
// uninitialized to initialized exactly once; there is no way back.
type installer struct {
	installed atomic.Bool
}

// install claims the slot and makes l the process default logger.
func (i *installer) install(l *slog.Logger) error {
	if !i.installed.CompareAndSwap(false, true) {
		return errors.New("another logger was already installed")
	}
	slog.SetDefault(l)
	return nil
}

// maybeInstall claims the slot if it is still free and reports whether
// this call won. Losing callers cannot tell who installed the logger.
func (i *installer) maybeInstall(l *slog.Logger) bool {
	if !i.installed.CompareAndSwap(false, true) {
		return false
	}
	slog.SetDefault(l)
	return true
}

var defaultInstaller installer

// Init installs a logger that writes to stderr as the process-wide
// default. The format follows GOLOG_LOG_FMT and the terminal state of
// stderr, the level follows GOLOG_LOG_LEVEL.
//
// Init panics if a logger was already installed through this package.
func Init() {
	mustInstall(newStderrLogger())
}

// InitWithFile installs a logger that writes to the already-open file.
// The file stays owned by the caller; it is never closed by this package.
// The returned writer can be used to Flush buffered data before exit.
//
// InitWithFile panics if a logger was already installed through this
// package.
func InitWithFile(file *os.File) *SingleFileWriter {
	w := NewSingleFileWriter(file)
	w.SetFormat(pickFormat(os.Stderr))
	mustInstall(slog.New(newHandler(w, levelFromEnv())))
	return w
}

// MaybeInit behaves like Init except that it silently does nothing when a
// logger was already installed. Use it from libraries that want logging
// available but do not control application startup order.
func MaybeInit() {
	defaultInstaller.maybeInstall(newStderrLogger())
}

func mustInstall(l *slog.Logger) {
	if err := defaultInstaller.install(l); err != nil {
		panic(fmt.Sprintf("fillogger: initializing logger failed: %v", err))
	}
}

func newStderrLogger() *slog.Logger {
	w := &streamWriter{out: os.Stderr, format: pickFormat(os.Stderr)}
	return slog.New(newHandler(w, levelFromEnv()))
}

// levelFromEnv reads the severity filter from GOLOG_LOG_LEVEL. An unset or
// unparseable value leaves the filter at info.
func levelFromEnv() slog.Level {
	v := os.Getenv(EnvLogLevel)
	if v == "" {
		return slog.LevelInfo
	}
	lvl, err := parseLevel(v)
	if err != nil {
		return slog.LevelInfo
	}
	return lvl
}
