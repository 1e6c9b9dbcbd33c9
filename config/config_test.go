package config

import (
	"bytes"
	"io"
	"path/filepath"
	"strings"
	"testing"
	"time"

	log "github.com/sirupsen/logrus"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"DEBUG", "LOG_LEVEL", "LOG_FORMAT", "LOG_FILE", "TASKBOARD_ADDR", "DRAG_ACTIVATION_CELLS", "TASKBOARD_THEME", "DEDUPER_TTL"} {
		t.Setenv(k, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Addr != DefaultAddr || cfg.ActivationCells != DefaultActivationCells || cfg.DedupeTTL != DefaultDedupeTTL {
		t.Fatalf("unexpected defaults: %#v", cfg)
	}
	if cfg.Debug || cfg.LogFormat != "json" || cfg.Theme != "dark" || cfg.LogLevel != "info" {
		t.Fatalf("unexpected defaults: %#v", cfg)
	}
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("DEBUG", "true")
	t.Setenv("TASKBOARD_ADDR", "127.0.0.1:9999")
	t.Setenv("DRAG_ACTIVATION_CELLS", "3")
	t.Setenv("TASKBOARD_THEME", "Light")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("DEDUPER_TTL", "90m")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !cfg.Debug || cfg.Addr != "127.0.0.1:9999" || cfg.ActivationCells != 3 || cfg.Theme != "light" || cfg.LogFormat != "text" || cfg.DedupeTTL != 90*time.Minute {
		t.Fatalf("overrides not applied: %#v", cfg)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := []struct {
		name, key, value string
	}{
		{"cells not a number", "DRAG_ACTIVATION_CELLS", "far"},
		{"negative cells", "DRAG_ACTIVATION_CELLS", "-1"},
		{"log format", "LOG_FORMAT", "xml"},
		{"theme", "TASKBOARD_THEME", "neon"},
		{"dedupe ttl", "DEDUPER_TTL", "soon"},
		{"zero dedupe ttl", "DEDUPER_TTL", "0s"},
		{"log level", "LOG_LEVEL", "loud"},
		{"debug not a bool", "DEBUG", "sometimes"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tc.key, tc.value)
			if _, err := Load(); err == nil {
				t.Fatalf("expected error for %s=%q", tc.key, tc.value)
			}
		})
	}
}

func TestNewLoggerJSONFields(t *testing.T) {
	cfg := &Config{LogLevel: "warn", LogFormat: "json"}
	var buf bytes.Buffer
	logger := cfg.NewLogger(&buf)
	if logger.GetLevel() != log.WarnLevel {
		t.Fatalf("expected warn level, got %v", logger.GetLevel())
	}
	logger.Info("hidden")
	logger.Warn("shown")
	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("info entry should be filtered: %s", out)
	}
	for _, key := range []string{`"ts":`, `"level":"warning"`, `"message":"shown"`} {
		if !strings.Contains(out, key) {
			t.Fatalf("missing %s in %s", key, out)
		}
	}
}

func TestNewLoggerDebugWins(t *testing.T) {
	cfg := &Config{LogLevel: "error", LogFormat: "text", Debug: true}
	logger := cfg.NewLogger(io.Discard)
	if logger.GetLevel() != log.DebugLevel {
		t.Fatalf("expected debug level, got %v", logger.GetLevel())
	}
}

func TestLogOutput(t *testing.T) {
	cfg := &Config{}
	w, closeFn, err := cfg.LogOutput()
	if err != nil || w != io.Discard {
		t.Fatalf("expected discard writer, got %v %v", w, err)
	}
	_ = closeFn()

	cfg.LogFile = filepath.Join(t.TempDir(), "board.log")
	w, closeFn, err = cfg.LogOutput()
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, err := io.WriteString(w, "line\n"); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := closeFn(); err != nil {
		t.Fatalf("close: %v", err)
	}
}

func TestSetTheme(t *testing.T) {
	cfg := &Config{Theme: "dark"}
	if err := cfg.SetTheme("LIGHT"); err != nil || cfg.Theme != "light" {
		t.Fatalf("expected light, got %q err %v", cfg.Theme, err)
	}
	if err := cfg.SetTheme("purple"); err == nil {
		t.Fatalf("expected error for unknown theme")
	}
	if cfg.Theme != "light" {
		t.Fatalf("rejected theme must not replace the current one, got %q", cfg.Theme)
	}
}
