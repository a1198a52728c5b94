// Package console writes diagnostics to the error stream, colored when it is a terminal.
package console

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// Console prints warnings and errors.
type Console struct {
	w    io.Writer
	warn *color.Color
	fail *color.Color
}

// New creates a console writing to w. Color is used only when w is a
// terminal, noColor is false and NO_COLOR is unset.
func New(w io.Writer, noColor bool) *Console {
	c := &Console{
		w:    w,
		warn: color.New(color.FgYellow),
		fail: color.New(color.FgRed, color.Bold),
	}

	if !noColor && os.Getenv("NO_COLOR") == "" && IsTerminal(w) {
		c.warn.EnableColor()
		c.fail.EnableColor()
	} else {
		c.warn.DisableColor()
		c.fail.DisableColor()
	}

	return c
}

// Warnf prints a non-fatal warning.
func (c *Console) Warnf(format string, args ...interface{}) {
	fmt.Fprintln(c.w, c.warn.Sprint("Warning: "+fmt.Sprintf(format, args...)))
}

// Errorf prints a fatal error.
func (c *Console) Errorf(format string, args ...interface{}) {
	fmt.Fprintln(c.w, c.fail.Sprint("Error: "+fmt.Sprintf(format, args...)))
}

// IsTerminal reports whether w is a terminal file.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
