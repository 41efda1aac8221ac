package logger

import "os"

// IsInteractive reports whether stdout is attached to a terminal.
// Used to decide when to use interactive UI elements like spinners.
func IsInteractive() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	// If it's a pipe or regular file, it's not interactive
	return fi.Mode()&os.ModeCharDevice != 0
}
