package logger

type Logger interface {
	Logf(format string, args ...interface{})
	Log(msg string)
}

// Discard drops every message. Used when no logger is configured.
var Discard Logger = discard{}

type discard struct{}

func (discard) Logf(format string, args ...interface{}) {}
func (discard) Log(msg string)                          {}
