package config

import (
	"bytes"
	"strings"
	"testing"
)

func TestNewLogger_Levels(t *testing.T) {
	var buf bytes.Buffer

	logger, err := NewLogger(&buf, "info")
	if err != nil {
		t.Fatalf("NewLogger() error = %v", err)
	}

	logger.Debug("hidden debug line")
	logger.Info("copied binary", "path", "/pkg/bin/gewe-notice-mcp")
	logger.Warn("version mismatch", "want", "1.2.3", "got", "1.2.2")

	out := buf.String()
	if strings.Contains(out, "hidden debug line") {
		t.Errorf("debug message written at info level: %q", out)
	}
	if !strings.Contains(out, "copied binary") || !strings.Contains(out, "/pkg/bin/gewe-notice-mcp") {
		t.Errorf("info message missing: %q", out)
	}
	if !strings.Contains(out, "version mismatch") {
		t.Errorf("warn message missing: %q", out)
	}
}

func TestNewLogger_InvalidLevel(t *testing.T) {
	if _, err := NewLogger(&bytes.Buffer{}, "chatty"); err == nil {
		t.Error("expected error for invalid level")
	}
}

func TestLoggerFromEnv(t *testing.T) {
	t.Setenv(EnvLogLevel, "not-a-level")

	if LoggerFromEnv("warn") == nil {
		t.Fatal("LoggerFromEnv() returned nil")
	}
}

func TestNopLogger(t *testing.T) {
	logger := NopLogger()
	logger.Debug("a")
	logger.Info("b", "k", "v")
	logger.Warn("c")
	logger.Error("d")
}
