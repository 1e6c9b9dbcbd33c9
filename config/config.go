// Package config reads process settings from the environment.
package config

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
)

const (
	DefaultAddr            = ":8080"
	DefaultActivationCells = 1
	DefaultDedupeTTL       = 24 * time.Hour
)

type Config struct {
	Debug           bool
	LogLevel        string
	LogFormat       string
	LogFile         string
	Addr            string
	ActivationCells int
	Theme           string
	DedupeTTL       time.Duration
}

// Load reads the configuration from environment variables, falling back to
// defaults for anything unset.
func Load() (*Config, error) {
	cfg := &Config{
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		LogFormat:       strings.ToLower(getEnv("LOG_FORMAT", "json")),
		LogFile:         os.Getenv("LOG_FILE"),
		Addr:            getEnv("TASKBOARD_ADDR", DefaultAddr),
		ActivationCells: DefaultActivationCells,
		DedupeTTL:       DefaultDedupeTTL,
	}
	if v := os.Getenv("DEBUG"); v != "" {
		dbg, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("invalid DEBUG %q: %w", v, err)
		}
		cfg.Debug = dbg
	}
	if _, err := log.ParseLevel(cfg.LogLevel); err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}
	if err := cfg.SetTheme(getEnv("TASKBOARD_THEME", "dark")); err != nil {
		return nil, fmt.Errorf("invalid TASKBOARD_THEME: %w", err)
	}
	if v := os.Getenv("DRAG_ACTIVATION_CELLS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid DRAG_ACTIVATION_CELLS: %w", err)
		}
		if n < 0 {
			return nil, fmt.Errorf("invalid DRAG_ACTIVATION_CELLS: must not be negative")
		}
		cfg.ActivationCells = n
	}
	if v := os.Getenv("DEDUPER_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return nil, fmt.Errorf("invalid DEDUPER_TTL %q", v)
		}
		cfg.DedupeTTL = d
	}
	switch cfg.LogFormat {
	case "json", "text":
	default:
		return nil, fmt.Errorf("invalid LOG_FORMAT %q: want json or text", cfg.LogFormat)
	}
	return cfg, nil
}

// SetTheme validates name and makes it the configured theme.
func (c *Config) SetTheme(name string) error {
	name = strings.ToLower(name)
	switch name {
	case "light", "dark":
		c.Theme = name
		return nil
	default:
		return fmt.Errorf("unknown theme %q: want light or dark", name)
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// NewLogger builds the process logger writing to out.
func (c *Config) NewLogger(out io.Writer) *log.Logger {
	logger := log.New()
	logger.SetOutput(out)
	if c.LogFormat == "text" {
		logger.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	} else {
		logger.SetFormatter(&log.JSONFormatter{
			TimestampFormat: time.RFC3339Nano,
			FieldMap: log.FieldMap{
				log.FieldKeyTime:  "ts",
				log.FieldKeyLevel: "level",
				log.FieldKeyMsg:   "message",
			},
		})
	}
	lvl, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		lvl = log.InfoLevel
	}
	logger.SetLevel(lvl)
	if c.Debug {
		logger.SetLevel(log.DebugLevel)
	}
	return logger
}

// LogOutput opens the destination for terminal UI logs. The UI owns the
// terminal, so without LOG_FILE logs are dropped.
func (c *Config) LogOutput() (io.Writer, func() error, error) {
	if c.LogFile == "" {
		return io.Discard, func() error { return nil }, nil
	}
	f, err := os.OpenFile(c.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	return f, f.Close, nil
}
