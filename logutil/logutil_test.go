package logutil

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestNewLoggerTraceLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, LevelTrace)

	logger.Log(t.Context(), LevelTrace, "payload built", "endpoint", "generate")

	out := buf.String()
	if !strings.Contains(out, "level=TRACE") {
		t.Errorf("Ausgabe enthaelt kein TRACE-Level: %q", out)
	}
	if !strings.Contains(out, "source=logutil_test.go:") {
		t.Errorf("Quelle sollte nur den Dateinamen enthalten: %q", out)
	}
}

func TestNewLoggerFiltersBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, slog.LevelInfo)

	logger.Debug("hidden")
	logger.Info("visible")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("Debug-Nachricht sollte gefiltert werden: %q", out)
	}
	if !strings.Contains(out, "visible") {
		t.Errorf("Info-Nachricht fehlt: %q", out)
	}
}
