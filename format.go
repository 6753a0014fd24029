package fillogger

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/fatih/color"
)

// Environment variables shared with ipfs/go-log, so Filecoin components
// written in Go and their collaborators read a single set of knobs.
const (
	// EnvLogFormat selects the output format. Only the exact value
	// "json" is recognized; anything else falls back to text output.
	EnvLogFormat = "GOLOG_LOG_FMT"
	// EnvLogLevel sets the minimum severity that is logged.
	EnvLogLevel = "GOLOG_LOG_LEVEL"
)

const (
	jsonTimeLayout = "2006-01-02T15:04:05.000-07:00"
	textTimeLayout = "2006-01-02T15:04:05.000"

	// unnamed replaces the logger name and caller file when the record
	// carries no program counter.
	unnamed = "<unnamed>"
)

// FormatFunc renders a single record into w as one line. Formatters never
// emit a trailing newline; line termination belongs to the sink. The
// timestamp is the one captured at format time, not the record's own.
type FormatFunc func(w io.Writer, now time.Time, r slog.Record) error

// pickFormat selects the output format from GOLOG_LOG_FMT and the
// terminal state of w, usually stderr. Evaluated once at initialization.
func pickFormat(w io.Writer) FormatFunc {
	if os.Getenv(EnvLogFormat) == "json" {
		return GoLogJSONFormat
	}
	if supportsColor(w) {
		return ColorTextFormat
	}
	return PlainTextFormat
}

// GoLogJSONFormat logs in the same JSON format as ipfs/go-log does:
//
//	{"level":"<level>","ts":"<ts>","logger":"<pkg>","caller":"<file>:<line>","msg":"<msg>"}
//
// The message is written verbatim: a literal quote in the message yields
// invalid JSON, matching go-log output byte for byte. Record attrs, when
// present, are appended after msg as additional escaped members.
func GoLogJSONFormat(w io.Writer, now time.Time, r slog.Record) error {
	logger, file, line := callerInfo(r.PC)

	buf := make([]byte, 0, 256)
	buf = append(buf, `{"level":"`...)
	buf = append(buf, levelName(r.Level)...)
	buf = append(buf, `","ts":"`...)
	buf = now.AppendFormat(buf, jsonTimeLayout)
	buf = append(buf, `","logger":"`...)
	buf = append(buf, logger...)
	buf = append(buf, `","caller":"`...)
	buf = append(buf, file...)
	buf = append(buf, ':')
	buf = strconv.AppendInt(buf, int64(line), 10)
	buf = append(buf, `","msg":"`...)
	buf = append(buf, r.Message...)
	buf = append(buf, '"')
	r.Attrs(func(a slog.Attr) bool {
		buf = append(buf, `,"`...)
		buf = appendEscaped(buf, a.Key)
		buf = append(buf, `":`...)
		buf = appendJSONValue(buf, a.Value)
		return true
	})
	buf = append(buf, '}')

	_, err := w.Write(buf)
	return err
}

// ColorTextFormat logs with a colorized level token, carrying the same
// information as pretty_env_logger:
//
//	<timestamp> <level> <pkg> > <message>
func ColorTextFormat(w io.Writer, now time.Time, r slog.Record) error {
	return textFormat(w, now, r, true)
}

// PlainTextFormat is ColorTextFormat without the ANSI color codes.
func PlainTextFormat(w io.Writer, now time.Time, r slog.Record) error {
	return textFormat(w, now, r, false)
}

func textFormat(w io.Writer, now time.Time, r slog.Record, colored bool) error {
	logger, _, _ := callerInfo(r.PC)

	level := strings.ToUpper(levelName(r.Level))
	if colored {
		level = levelColor(r.Level).Sprint(level)
	}

	buf := make([]byte, 0, 128)
	buf = now.AppendFormat(buf, textTimeLayout)
	buf = append(buf, ' ')
	buf = append(buf, level...)
	buf = append(buf, ' ')
	buf = append(buf, logger...)
	buf = append(buf, " > "...)
	buf = append(buf, r.Message...)
	r.Attrs(func(a slog.Attr) bool {
		buf = append(buf, ' ')
		buf = append(buf, a.Key...)
		buf = append(buf, '=')
		buf = appendTextValue(buf, a.Value)
		return true
	})

	_, err := w.Write(buf)
	return err
}

// The level colors carry their own enable flag. fatih/color's NoColor
// global keys off the stdout terminal state, but the decision to colorize
// was already made by pickFormat against stderr; the global must not
// strip codes from a format that was selected to have them.
var (
	traceColor = newLevelColor(color.FgHiBlack)
	debugColor = newLevelColor(color.FgCyan)
	infoColor  = newLevelColor(color.FgGreen)
	warnColor  = newLevelColor(color.FgYellow)
	errorColor = newLevelColor(color.FgRed)
)

func newLevelColor(attr color.Attribute) *color.Color {
	c := color.New(attr)
	c.EnableColor()
	return c
}

func levelColor(l slog.Level) *color.Color {
	switch {
	case l < slog.LevelDebug:
		return traceColor
	case l < slog.LevelInfo:
		return debugColor
	case l < slog.LevelWarn:
		return infoColor
	case l < slog.LevelError:
		return warnColor
	default:
		return errorColor
	}
}

// callerInfo resolves the logging call site from the record's program
// counter. The logger name is the import path of the calling package,
// the file is trimmed to its last two path elements. A zero pc yields
// the placeholders "<unnamed>" and line 0.
func callerInfo(pc uintptr) (logger, file string, line int) {
	if pc == 0 {
		return unnamed, unnamed, 0
	}
	frame, _ := runtime.CallersFrames([]uintptr{pc}).Next()
	if frame.Function == "" {
		return unnamed, unnamed, 0
	}
	return packagePath(frame.Function), shortFile(frame.File), frame.Line
}

// packagePath strips the function and receiver from a fully qualified
// runtime function name, e.g. "github.com/a/b.(*T).M" becomes
// "github.com/a/b" and "main.main" becomes "main".
func packagePath(fn string) string {
	slash := strings.LastIndexByte(fn, '/')
	dot := strings.IndexByte(fn[slash+1:], '.')
	if dot < 0 {
		return fn
	}
	return fn[:slash+1+dot]
}

// shortFile trims an absolute source path to package/file.go.
func shortFile(path string) string {
	idx := strings.LastIndexByte(path, '/')
	if idx < 0 {
		return path
	}
	if idx2 := strings.LastIndexByte(path[:idx], '/'); idx2 >= 0 {
		return path[idx2+1:]
	}
	return path[idx+1:]
}

const hexChars = "0123456789abcdef"

// appendEscaped appends s to buf, escaping JSON special characters.
func appendEscaped(buf []byte, s string) []byte {
	for i := 0; i < len(s); {
		if c := s[i]; c < ' ' || c == '"' || c == '\\' {
			switch c {
			case '\\', '"':
				buf = append(buf, '\\', c)
			case '\n':
				buf = append(buf, '\\', 'n')
			case '\r':
				buf = append(buf, '\\', 'r')
			case '\t':
				buf = append(buf, '\\', 't')
			default:
				buf = append(buf, `\u00`...)
				buf = append(buf, hexChars[c>>4], hexChars[c&0xF])
			}
			i++
		} else {
			start := i
			for i < len(s) && s[i] >= ' ' && s[i] != '"' && s[i] != '\\' {
				i++
			}
			buf = append(buf, s[start:i]...)
		}
	}
	return buf
}

// appendJSONValue appends a slog value in its JSON representation.
func appendJSONValue(buf []byte, v slog.Value) []byte {
	v = v.Resolve()
	switch v.Kind() {
	case slog.KindString:
		buf = append(buf, '"')
		buf = appendEscaped(buf, v.String())
		buf = append(buf, '"')
	case slog.KindInt64:
		buf = strconv.AppendInt(buf, v.Int64(), 10)
	case slog.KindUint64:
		buf = strconv.AppendUint(buf, v.Uint64(), 10)
	case slog.KindFloat64:
		buf = strconv.AppendFloat(buf, v.Float64(), 'f', -1, 64)
	case slog.KindBool:
		buf = strconv.AppendBool(buf, v.Bool())
	case slog.KindDuration:
		buf = append(buf, '"')
		buf = append(buf, v.Duration().String()...)
		buf = append(buf, '"')
	case slog.KindTime:
		buf = append(buf, '"')
		buf = v.Time().AppendFormat(buf, jsonTimeLayout)
		buf = append(buf, '"')
	case slog.KindGroup:
		buf = append(buf, '{')
		for i, a := range v.Group() {
			if i > 0 {
				buf = append(buf, ',')
			}
			buf = append(buf, '"')
			buf = appendEscaped(buf, a.Key)
			buf = append(buf, `":`...)
			buf = appendJSONValue(buf, a.Value)
		}
		buf = append(buf, '}')
	default:
		if err, ok := v.Any().(error); ok {
			buf = append(buf, '"')
			buf = appendEscaped(buf, err.Error())
			buf = append(buf, '"')
			break
		}
		data, err := json.Marshal(v.Any())
		if err != nil {
			buf = append(buf, '"')
			buf = appendEscaped(buf, fmt.Sprintf("%+v", v.Any()))
			buf = append(buf, '"')
			break
		}
		buf = append(buf, data...)
	}
	return buf
}

// appendTextValue appends a slog value in its text representation.
// Arbitrary structures fall back to a compact spew dump so the line stays
// readable without losing type information.
func appendTextValue(buf []byte, v slog.Value) []byte {
	v = v.Resolve()
	switch v.Kind() {
	case slog.KindString:
		return append(buf, v.String()...)
	case slog.KindInt64:
		return strconv.AppendInt(buf, v.Int64(), 10)
	case slog.KindUint64:
		return strconv.AppendUint(buf, v.Uint64(), 10)
	case slog.KindFloat64:
		return strconv.AppendFloat(buf, v.Float64(), 'f', -1, 64)
	case slog.KindBool:
		return strconv.AppendBool(buf, v.Bool())
	case slog.KindDuration:
		return append(buf, v.Duration().String()...)
	case slog.KindTime:
		return v.Time().AppendFormat(buf, textTimeLayout)
	case slog.KindGroup:
		for i, a := range v.Group() {
			if i > 0 {
				buf = append(buf, ' ')
			}
			buf = append(buf, a.Key...)
			buf = append(buf, '=')
			buf = appendTextValue(buf, a.Value)
		}
		return buf
	default:
		switch val := v.Any().(type) {
		case nil:
			return append(buf, "nil"...)
		case error:
			return append(buf, val.Error()...)
		case fmt.Stringer:
			return append(buf, val.String()...)
		default:
			return append(buf, compactDump(val)...)
		}
	}
}

// dumper produces log-friendly output for values spew has to describe.
var dumper = &spew.ConfigState{
	Indent:                  " ",
	MaxDepth:                10,
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
}

// compactDump collapses a spew dump onto a single line.
func compactDump(v any) string {
	return strings.Join(strings.Fields(dumper.Sdump(v)), " ")
}
