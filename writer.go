package fillogger

import (
	"log/slog"
	"os"
	"sync"
	"time"
)

var newline = []byte{'\n'}

// SingleFileWriter turns an already-open file into a shared logging sink.
// The caller owns the handle: this writer never opens, rotates, or closes
// it. Closing the file after process shutdown is the caller's job.
type SingleFileWriter struct {
	mu     sync.Mutex
	file   *os.File
	format FormatFunc
}

// NewSingleFileWriter wraps file with the plain text format installed.
// Replace the format with SetFormat before the first write.
func NewSingleFileWriter(file *os.File) *SingleFileWriter {
	return &SingleFileWriter{
		file:   file,
		format: PlainTextFormat,
	}
}

// SetFormat replaces the line format used for subsequent writes.
func (w *SingleFileWriter) SetFormat(format FormatFunc) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.format = format
}

// WriteRecord renders one record into the file followed by a newline; the
// format functions never emit one themselves. Writes from concurrent
// goroutines are serialized, so a line is never interleaved with another.
// I/O errors are returned as-is, never retried.
func (w *SingleFileWriter) WriteRecord(now time.Time, r slog.Record) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.format(w.file, now, r); err != nil {
		return err
	}
	_, err := w.file.Write(newline)
	return err
}

// Flush syncs the file's buffered data to the underlying storage.
func (w *SingleFileWriter) Flush() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.file.Sync()
}

// MaxLevel reports the most verbose severity the sink accepts. Severity
// filtering is the handler's job, so the file takes everything down to
// trace.
func (w *SingleFileWriter) MaxLevel() slog.Level {
	return LevelTrace
}
