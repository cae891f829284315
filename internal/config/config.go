// Package config loads client configuration from an optional YAML file
// overlaid by environment variables, and sets up logging.
package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration values.
type Config struct {
	// Backend API
	ServerURL     string        `yaml:"server_url"`
	ClientTimeout time.Duration `yaml:"client_timeout"`

	// Logging
	LogFile      string     `yaml:"log_file"`
	LogLevelName string     `yaml:"log_level"`
	LogLevel     slog.Level `yaml:"-"`
}

// DefaultConfigPath is where Load looks for the YAML file unless
// RESEARCH_CONFIG overrides it.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "research", "config.yaml")
}

// Load reads configuration: defaults, then the YAML file if present,
// then environment variables. Env always wins.
func Load() Config {
	cfg := Config{
		ServerURL:     "http://localhost:8000",
		ClientTimeout: 10 * time.Minute,
		LogFile:       defaultLogFile(),
		LogLevelName:  "INFO",
	}

	path := getEnv("RESEARCH_CONFIG", DefaultConfigPath())
	if path != "" {
		if data, err := os.ReadFile(path); err == nil {
			// A broken config file falls back to defaults rather than
			// blocking the CLI.
			_ = yaml.Unmarshal(data, &cfg)
		}
	}

	cfg.ServerURL = getEnv("RESEARCH_SERVER_URL", cfg.ServerURL)
	if t := os.Getenv("RESEARCH_CLIENT_TIMEOUT"); t != "" {
		if d, err := time.ParseDuration(t); err == nil {
			cfg.ClientTimeout = d
		}
	}
	cfg.LogFile = getEnv("RESEARCH_LOG_FILE", cfg.LogFile)
	cfg.LogLevelName = getEnv("RESEARCH_LOG_LEVEL", cfg.LogLevelName)
	cfg.LogLevel = parseLogLevel(cfg.LogLevelName)

	return cfg
}

// defaultLogFile keeps diagnostics out of the terminal: the chat TUI owns
// the screen, so logs go to a file by default.
func defaultLogFile() string {
	return filepath.Join(os.TempDir(), "research.log")
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func parseLogLevel(s string) slog.Level {
	switch strings.ToUpper(s) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
