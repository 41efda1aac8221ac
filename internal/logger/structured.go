package logger

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"
)

// StructuredLogger writes leveled, prefixed log lines through charmbracelet/log.
// Logf and Log emit at debug level, so they only show up in verbose mode.
type StructuredLogger struct {
	l *log.Logger
}

// NewStructured creates a logger writing to w.
func NewStructured(w io.Writer, verbose bool) *StructuredLogger {
	l := log.NewWithOptions(w, log.Options{
		Prefix:          "useserver",
		ReportTimestamp: false,
	})
	if verbose {
		l.SetLevel(log.DebugLevel)
	} else {
		l.SetLevel(log.InfoLevel)
	}
	return &StructuredLogger{l: l}
}

func (s *StructuredLogger) Logf(format string, args ...interface{}) {
	s.l.Debug(strings.TrimSuffix(fmt.Sprintf(format, args...), "\n"))
}

func (s *StructuredLogger) Log(msg string) {
	s.l.Debug(msg)
}

// Debug logs msg with key/value pairs at debug level.
func (s *StructuredLogger) Debug(msg string, keyvals ...interface{}) {
	s.l.Debug(msg, keyvals...)
}

// Info logs msg with key/value pairs at info level.
func (s *StructuredLogger) Info(msg string, keyvals ...interface{}) {
	s.l.Info(msg, keyvals...)
}

// Warn logs msg with key/value pairs at warn level.
func (s *StructuredLogger) Warn(msg string, keyvals ...interface{}) {
	s.l.Warn(msg, keyvals...)
}
