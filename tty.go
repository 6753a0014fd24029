package fillogger

import (
	"io"
	"os"

	"golang.org/x/term"
)

// isTerminal reports whether w is attached to an interactive terminal.
// It supports os.File and any wrapper that provides an Fd method.
func isTerminal(w io.Writer) bool {
	f, ok := w.(interface{ Fd() uintptr })
	return ok && term.IsTerminal(int(f.Fd()))
}

// supportsColor reports whether colorized output should be used on w.
func supportsColor(w io.Writer) bool {
	return colorAllowed(isTerminal(w))
}

// colorAllowed applies the environment conventions that disable color
// even on an interactive terminal: NO_COLOR (https://no-color.org) and
// TERM=dumb.
func colorAllowed(isTTY bool) bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	if os.Getenv("TERM") == "dumb" {
		return false
	}
	return isTTY
}
