// Package tag renders the module-tagged progress lines the pipeline
// prints while running ([MAIN], [LAKE], [CLIFF], ...).
package tag

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
)

// Logger prints progress lines prefixed with a colored module tag.
// A nil Logger is silent, so callers never need to guard their calls.
type Logger struct {
	prefix string
	w      io.Writer
}

// New returns a logger tagging lines with name in the given color. When
// quiet is true a nil logger is returned, making every Printf a no-op.
func New(name string, attr color.Attribute, quiet bool) *Logger {
	if quiet {
		return nil
	}
	return &Logger{
		prefix: fmt.Sprintf("[%s] ", color.New(attr).Sprint(name)),
		w:      os.Stdout,
	}
}

// Printf prints one tagged line.
func (l *Logger) Printf(format string, args ...interface{}) {
	if l == nil {
		return
	}
	fmt.Fprintf(l.w, l.prefix+format+"\n", args...)
}
