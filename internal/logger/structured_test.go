package logger

import (
	"bytes"
	"strings"
	"testing"
)

func TestStructuredLogger_Levels(t *testing.T) {
	var buf bytes.Buffer
	l := NewStructured(&buf, false)
	l.Logf("%s: %d problem(s)\n", "a.js", 1)
	if buf.Len() != 0 {
		t.Fatalf("debug output should be hidden without verbose, got %q", buf.String())
	}
	l.Warn("suggestion skipped", "file", "a.js")
	if out := buf.String(); !strings.Contains(out, "useserver") || !strings.Contains(out, "suggestion skipped") || !strings.Contains(out, "file=a.js") {
		t.Fatalf("unexpected warn output %q", out)
	}

	buf.Reset()
	verbose := NewStructured(&buf, true)
	verbose.Logf("%s: %d problem(s)\n", "a.js", 2)
	if out := buf.String(); !strings.Contains(out, "a.js: 2 problem(s)") || strings.Count(out, "\n") != 1 {
		t.Fatalf("unexpected debug output %q", out)
	}
}

func TestDiscard(t *testing.T) {
	Discard.Logf("%d", 1)
	Discard.Log("ignored")
}
