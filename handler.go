package fillogger

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"
)

// recordWriter is the sink contract shared by stderr and file output.
type recordWriter interface {
	// WriteRecord renders one record plus line terminator into the sink.
	WriteRecord(now time.Time, r slog.Record) error
	// Flush forces buffered output out of the sink.
	Flush() error
	// MaxLevel is the most verbose severity the sink accepts.
	MaxLevel() slog.Level
}

// streamWriter writes formatted lines straight to a stream, usually the
// process stderr.
type streamWriter struct {
	mu     sync.Mutex
	out    io.Writer
	format FormatFunc
}

func (w *streamWriter) WriteRecord(now time.Time, r slog.Record) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.format(w.out, now, r); err != nil {
		return err
	}
	_, err := w.out.Write(newline)
	return err
}

// Flush is a no-op, the stream is unbuffered.
func (w *streamWriter) Flush() error {
	return nil
}

func (w *streamWriter) MaxLevel() slog.Level {
	return LevelTrace
}

// handler bridges slog records to a recordWriter. The timestamp handed to
// the format function is captured here, at write time, not at the log
// call site.
type handler struct {
	w      recordWriter
	level  slog.Leveler
	attrs  []slog.Attr
	groups []string
}

func newHandler(w recordWriter, level slog.Leveler) *handler {
	return &handler{w: w, level: level}
}

// Enabled gates records on the configured minimum level and on the most
// verbose severity the sink accepts.
func (h *handler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level() && level >= h.w.MaxLevel()
}

// Handle folds bound attributes into the record and hands it to the sink.
// Errors from the sink propagate to the logging facility unchanged; it
// decides whether to drop or surface them.
func (h *handler) Handle(_ context.Context, r slog.Record) error {
	out := slog.NewRecord(r.Time, r.Level, r.Message, r.PC)
	out.AddAttrs(h.attrs...)
	r.Attrs(func(a slog.Attr) bool {
		out.AddAttrs(h.qualify(a))
		return true
	})
	return h.w.WriteRecord(time.Now(), out)
}

// WithAttrs returns a handler that prepends attrs to every record.
func (h *handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	nh := *h
	nh.attrs = make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	nh.attrs = append(nh.attrs, h.attrs...)
	for _, a := range attrs {
		nh.attrs = append(nh.attrs, h.qualify(a))
	}
	return &nh
}

// WithGroup returns a handler whose subsequent attribute keys are
// prefixed with name.
func (h *handler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	nh := *h
	nh.groups = make([]string, len(h.groups)+1)
	copy(nh.groups, h.groups)
	nh.groups[len(h.groups)] = name
	return &nh
}

// qualify prefixes the attr key with the open group names.
func (h *handler) qualify(a slog.Attr) slog.Attr {
	if len(h.groups) == 0 {
		return a
	}
	a.Key = strings.Join(h.groups, ".") + "." + a.Key
	return a
}
