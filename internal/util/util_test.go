package util

import (
	"bytes"
	"strings"
	"testing"
)

func TestNewLoggerLevels(t *testing.T) {
	var buf bytes.Buffer

	logger := NewLogger(&buf, "warn", "text")
	logger.Info("should be filtered")
	logger.Warn("should appear")

	out := buf.String()
	if strings.Contains(out, "should be filtered") {
		t.Errorf("info message logged at warn level: %q", out)
	}
	if !strings.Contains(out, "should appear") {
		t.Errorf("warn message missing: %q", out)
	}
}

func TestNewLoggerJSONFormat(t *testing.T) {
	var buf bytes.Buffer

	logger := NewLogger(&buf, "info", "json")
	logger.Info("hello", "rows", 42)

	out := buf.String()
	if !strings.HasPrefix(out, "{") {
		t.Errorf("json handler output does not look like JSON: %q", out)
	}
	if !strings.Contains(out, `"rows":42`) {
		t.Errorf("json output missing attribute: %q", out)
	}
}

func TestNewLoggerUnknownLevelDefaultsToInfo(t *testing.T) {
	var buf bytes.Buffer

	logger := NewLogger(&buf, "verbose", "text")
	logger.Debug("filtered at default level")
	logger.Info("visible")

	out := buf.String()
	if strings.Contains(out, "filtered at default level") {
		t.Errorf("debug message logged at default level: %q", out)
	}
	if !strings.Contains(out, "visible") {
		t.Errorf("info message missing: %q", out)
	}
}
