package debug

import (
	"bytes"
	"strings"
	"testing"
)

func TestLogDisabledWritesNothing(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	SetEnabled(false)
	Log("hidden %d", 1)
	LogIf(true, "hidden")
	LogEnterExit("hidden")()
	if buf.Len() != 0 {
		t.Errorf("expected no output, got %q", buf.String())
	}
}

func TestLogEnabled(t *testing.T) {
	var buf bytes.Buffer
	SetEnabled(true)
	SetOutput(&buf)
	defer SetEnabled(false)

	Log("loaded %d records", 3)
	LogIf(false, "skipped")
	LogEnterExit("render")()

	out := buf.String()
	if !strings.Contains(out, "loaded 3 records") {
		t.Errorf("expected log line, got %q", out)
	}
	if strings.Contains(out, "skipped") {
		t.Errorf("LogIf(false) should not log, got %q", out)
	}
	if !strings.Contains(out, "-> render") || !strings.Contains(out, "<- render") {
		t.Errorf("expected enter/exit lines, got %q", out)
	}
}
