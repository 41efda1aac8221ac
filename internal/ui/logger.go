package ui

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
)

type logEntry struct {
	level   string
	message string
}

var (
	activeLogMu sync.RWMutex
	activeLogCh chan logEntry
)

// setActiveLogChannel sets the channel used by the spinner to receive log updates.
// It is intended for internal use by the spinner only.
func setActiveLogChannel(ch chan logEntry) {
	activeLogMu.Lock()
	activeLogCh = ch
	activeLogMu.Unlock()
}

// clearActiveLogChannel clears the active spinner log channel.
func clearActiveLogChannel() {
	setActiveLogChannel(nil)
}

// Logf logs a formatted message. If a spinner is active, it updates its
// status line. Otherwise, it prints to stderr.
func Logf(format string, args ...interface{}) {
	logTo(os.Stderr, fmt.Sprintf(format, args...))
}

// Log writes a plain message with newline semantics when not under a spinner.
func Log(msg string) {
	Logf("%s\n", msg)
}

func logTo(w io.Writer, msg string) {
	activeLogMu.RLock()
	ch := activeLogCh
	activeLogMu.RUnlock()
	if ch != nil {
		select {
		case ch <- logEntry{level: "info", message: strings.TrimSpace(msg)}:
		default:
			// drop if channel is full to avoid blocking
		}
		return
	}
	fmt.Fprint(w, msg)
}

// StatusLogger satisfies logger.Logger by routing messages to the active
// spinner, or to Out when no spinner is running.
type StatusLogger struct {
	Out io.Writer
}

func (s StatusLogger) Logf(format string, args ...interface{}) {
	w := s.Out
	if w == nil {
		w = os.Stderr
	}
	logTo(w, fmt.Sprintf(format, args...))
}

func (s StatusLogger) Log(msg string) {
	s.Logf("%s\n", msg)
}
