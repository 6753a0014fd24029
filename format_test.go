package fillogger

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testTime = time.Date(2019, 11, 11, 21, 4, 25, 685_000_000, time.FixedZone("CET", 3600))

// render runs a format function over a record and returns the line
func render(t *testing.T, format FormatFunc, now time.Time, r slog.Record) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, format(&buf, now, r))
	return buf.String()
}

// TestGoLogJSONFormat checks the exact five-key go-log line for a record
// without caller information
func TestGoLogJSONFormat(t *testing.T) {
	r := slog.NewRecord(time.Time{}, slog.LevelInfo, "hello", 0)
	line := render(t, GoLogJSONFormat, testTime, r)

	assert.Equal(t,
		`{"level":"info","ts":"2019-11-11T21:04:25.685+01:00","logger":"<unnamed>","caller":"<unnamed>:0","msg":"hello"}`,
		line)
}

// TestGoLogJSONFormatLevels verifies the level key is lowercase for every
// severity and that the five keys keep their fixed order
func TestGoLogJSONFormatLevels(t *testing.T) {
	levels := []struct {
		level slog.Level
		name  string
	}{
		{LevelTrace, "trace"},
		{slog.LevelDebug, "debug"},
		{slog.LevelInfo, "info"},
		{slog.LevelWarn, "warn"},
		{slog.LevelError, "error"},
	}

	for _, tt := range levels {
		t.Run(tt.name, func(t *testing.T) {
			r := slog.NewRecord(time.Time{}, tt.level, "msg", 0)
			line := render(t, GoLogJSONFormat, testTime, r)

			assert.True(t, strings.HasPrefix(line, fmt.Sprintf(`{"level":%q`, tt.name)))

			var result map[string]any
			require.NoError(t, json.Unmarshal([]byte(line), &result))
			assert.Len(t, result, 5)

			// fixed key order
			order := []string{`"level"`, `"ts"`, `"logger"`, `"caller"`, `"msg"`}
			last := -1
			for _, key := range order {
				idx := strings.Index(line, key)
				require.Greater(t, idx, last, "key %s out of order", key)
				last = idx
			}
		})
	}
}

// TestGoLogJSONFormatCaller resolves the logger and caller from a real
// program counter
func TestGoLogJSONFormatCaller(t *testing.T) {
	pcs := make([]uintptr, 1)
	runtime.Callers(1, pcs)

	r := slog.NewRecord(time.Time{}, slog.LevelInfo, "hello", pcs[0])
	line := render(t, GoLogJSONFormat, testTime, r)

	var result map[string]string
	require.NoError(t, json.Unmarshal([]byte(line), &result))

	assert.Equal(t, "github.com/filecoin-project/go-fil-logger", result["logger"])
	assert.Contains(t, result["caller"], "format_test.go:")
	assert.NotContains(t, result["caller"], "<unnamed>")
}

// TestGoLogJSONFormatRawMessage documents the go-log compatibility quirk:
// the message is written verbatim, so a quote yields invalid JSON
func TestGoLogJSONFormatRawMessage(t *testing.T) {
	r := slog.NewRecord(time.Time{}, slog.LevelInfo, `say "hi"`, 0)
	line := render(t, GoLogJSONFormat, testTime, r)

	assert.Contains(t, line, `"msg":"say "hi""`)

	var result map[string]any
	assert.Error(t, json.Unmarshal([]byte(line), &result))
}

// TestGoLogJSONFormatAttrs checks that record attrs come after msg, with
// keys and values properly escaped
func TestGoLogJSONFormatAttrs(t *testing.T) {
	r := slog.NewRecord(time.Time{}, slog.LevelInfo, "event", 0)
	r.AddAttrs(
		slog.String("path", "a\nb"),
		slog.Int("count", 42),
		slog.Bool("ok", true),
		slog.Float64("ratio", 0.5),
		slog.Duration("took", 1500*time.Millisecond),
		slog.Group("peer", slog.String("id", "12D3")),
	)
	line := render(t, GoLogJSONFormat, testTime, r)

	var result map[string]any
	require.NoError(t, json.Unmarshal([]byte(line), &result))

	assert.Equal(t, "a\nb", result["path"])
	assert.Equal(t, float64(42), result["count"])
	assert.Equal(t, true, result["ok"])
	assert.Equal(t, 0.5, result["ratio"])
	assert.Equal(t, "1.5s", result["took"])
	assert.Equal(t, map[string]any{"id": "12D3"}, result["peer"])

	// attrs always come after the fixed keys
	assert.Greater(t, strings.Index(line, `"path"`), strings.Index(line, `"msg"`))
}

// TestGoLogJSONFormatAnyValues covers the marshal fallbacks for attr
// values slog stores as KindAny
func TestGoLogJSONFormatAnyValues(t *testing.T) {
	type point struct {
		X int `json:"x"`
		Y int `json:"y"`
	}

	r := slog.NewRecord(time.Time{}, slog.LevelInfo, "event", 0)
	r.AddAttrs(
		slog.Any("pos", point{X: 1, Y: 2}),
		slog.Any("err", fmt.Errorf(`open "x": no such file`)),
	)
	line := render(t, GoLogJSONFormat, testTime, r)

	var result map[string]any
	require.NoError(t, json.Unmarshal([]byte(line), &result))

	assert.Equal(t, map[string]any{"x": float64(1), "y": float64(2)}, result["pos"])
	assert.Equal(t, `open "x": no such file`, result["err"])
}

// TestPlainTextFormat checks the pretty_env_logger style line
func TestPlainTextFormat(t *testing.T) {
	r := slog.NewRecord(time.Time{}, slog.LevelWarn, "careful", 0)
	line := render(t, PlainTextFormat, testTime, r)

	assert.Equal(t, "2019-11-11T21:04:25.685 WARN <unnamed> > careful", line)
	assert.NotContains(t, line, "\x1b[")
}

// TestPlainTextFormatAttrs checks key=value rendering after the message
func TestPlainTextFormatAttrs(t *testing.T) {
	r := slog.NewRecord(time.Time{}, slog.LevelInfo, "started", 0)
	r.AddAttrs(
		slog.String("miner", "t01000"),
		slog.Int("sectors", 12),
		slog.Any("opts", map[string]int{"a": 1}),
	)
	line := render(t, PlainTextFormat, testTime, r)

	assert.Contains(t, line, "> started miner=t01000 sectors=12")
	// arbitrary structures go through the spew dump
	assert.Contains(t, line, "opts=(map[string]int)")
}

// TestColorTextFormat checks that only the level token changes between
// the color and plain variants
func TestColorTextFormat(t *testing.T) {
	r := slog.NewRecord(time.Time{}, slog.LevelError, "boom", 0)
	line := render(t, ColorTextFormat, testTime, r)

	assert.Contains(t, line, "\x1b[")
	assert.Contains(t, line, "ERROR")
	assert.True(t, strings.HasPrefix(line, "2019-11-11T21:04:25.685 "))
	assert.True(t, strings.HasSuffix(line, " <unnamed> > boom"))
}

// TestColorTextFormatIgnoresGlobalNoColor pins colorization to the
// selector's decision: with stdout piped, fatih/color flips its NoColor
// global, but that must not strip codes from the format chosen for an
// interactive stderr
func TestColorTextFormatIgnoresGlobalNoColor(t *testing.T) {
	old := color.NoColor
	color.NoColor = true
	defer func() { color.NoColor = old }()

	r := slog.NewRecord(time.Time{}, slog.LevelError, "boom", 0)
	colored := render(t, ColorTextFormat, testTime, r)
	plain := render(t, PlainTextFormat, testTime, r)

	assert.Contains(t, colored, "\x1b[")
	assert.NotEqual(t, plain, colored)
}

// TestFormatIdempotent verifies formatters are pure: the same record and
// timestamp produce byte-identical output
func TestFormatIdempotent(t *testing.T) {
	r := slog.NewRecord(time.Time{}, slog.LevelInfo, "repeat", 0)
	r.AddAttrs(slog.String("k", "v"))

	for name, format := range map[string]FormatFunc{
		"json":  GoLogJSONFormat,
		"color": ColorTextFormat,
		"plain": PlainTextFormat,
	} {
		t.Run(name, func(t *testing.T) {
			first := render(t, format, testTime, r)
			second := render(t, format, testTime, r)
			assert.Equal(t, first, second)
		})
	}
}

// TestPickFormat verifies the selection policy: only the exact value
// "json" selects JSON, everything else falls back on terminal state
func TestPickFormat(t *testing.T) {
	r := slog.NewRecord(time.Time{}, slog.LevelInfo, "probe", 0)
	jsonLine := render(t, GoLogJSONFormat, testTime, r)
	plainLine := render(t, PlainTextFormat, testTime, r)

	t.Run("json value", func(t *testing.T) {
		t.Setenv(EnvLogFormat, "json")
		line := render(t, pickFormat(&bytes.Buffer{}), testTime, r)
		assert.Equal(t, jsonLine, line)
	})

	t.Run("case sensitive", func(t *testing.T) {
		t.Setenv(EnvLogFormat, "JSON")
		line := render(t, pickFormat(&bytes.Buffer{}), testTime, r)
		assert.Equal(t, plainLine, line)
	})

	t.Run("unset non-terminal", func(t *testing.T) {
		t.Setenv(EnvLogFormat, "")
		line := render(t, pickFormat(&bytes.Buffer{}), testTime, r)
		assert.Equal(t, plainLine, line)
	})

	t.Run("unknown value", func(t *testing.T) {
		t.Setenv(EnvLogFormat, "logfmt")
		line := render(t, pickFormat(&bytes.Buffer{}), testTime, r)
		assert.Equal(t, plainLine, line)
	})
}

// TestCallerInfo checks call-site resolution and the placeholders
func TestCallerInfo(t *testing.T) {
	t.Run("zero pc", func(t *testing.T) {
		logger, file, line := callerInfo(0)
		assert.Equal(t, "<unnamed>", logger)
		assert.Equal(t, "<unnamed>", file)
		assert.Equal(t, 0, line)
	})

	t.Run("real pc", func(t *testing.T) {
		pcs := make([]uintptr, 1)
		runtime.Callers(1, pcs)

		logger, file, line := callerInfo(pcs[0])
		assert.Equal(t, "github.com/filecoin-project/go-fil-logger", logger)
		assert.True(t, strings.HasSuffix(file, "/format_test.go"), "file: %s", file)
		assert.Greater(t, line, 0)
	})
}

func TestPackagePath(t *testing.T) {
	tests := []struct {
		fn       string
		expected string
	}{
		{"main.main", "main"},
		{"github.com/a/b.Func", "github.com/a/b"},
		{"github.com/a/b.(*T).Method", "github.com/a/b"},
		{"github.com/a/b.Func.func1", "github.com/a/b"},
		{"noreceiver", "noreceiver"},
	}

	for _, tt := range tests {
		t.Run(tt.fn, func(t *testing.T) {
			assert.Equal(t, tt.expected, packagePath(tt.fn))
		})
	}
}

func TestShortFile(t *testing.T) {
	assert.Equal(t, "pkg/file.go", shortFile("/home/user/src/pkg/file.go"))
	assert.Equal(t, "file.go", shortFile("/file.go"))
	assert.Equal(t, "file.go", shortFile("file.go"))
}

func TestAppendEscaped(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{`plain`, `plain`},
		{"tab\there", `tab\there`},
		{"line\nbreak", `line\nbreak`},
		{`quote"and\slash`, `quote\"and\\slash`},
		{"ctrl\x01char", `ctrl\u0001char`},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, string(appendEscaped(nil, tt.input)))
	}
}
