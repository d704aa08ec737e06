package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config holds folio's settings after defaults and path expansion.
type Config struct {
	Endpoint          string
	Debounce          time.Duration
	RequestTimeout    time.Duration // zero means no timeout
	RequestsPerSecond float64       // zero means unlimited
	UserAgent         string
	LogLevel          string
	LogFormat         string
	LogFile           string
	MetricsAddr       string // empty disables the metrics listener
}

const (
	defaultConfigPath = "~/.config/folio/config.toml"
	defaultEndpoint   = "https://www.googleapis.com/books/v1/volumes"
	defaultDebounce   = 500 * time.Millisecond
	defaultLogLevel   = "info"
	defaultLogFormat  = "console"
	defaultLogFile    = "~/.local/state/folio/folio.log"
)

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Endpoint:  defaultEndpoint,
		Debounce:  defaultDebounce,
		LogLevel:  defaultLogLevel,
		LogFormat: defaultLogFormat,
		LogFile:   mustExpand(defaultLogFile),
	}
}

// Load locates and parses the folio config, falling back to defaults when missing.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		Endpoint          string  `toml:"endpoint"`
		DebounceMS        int     `toml:"debounce_ms"`
		RequestTimeout    string  `toml:"request_timeout"`
		RequestsPerSecond float64 `toml:"requests_per_second"`
		UserAgent         string  `toml:"user_agent"`
		LogLevel          string  `toml:"log_level"`
		LogFormat         string  `toml:"log_format"`
		LogFile           string  `toml:"log_file"`
		MetricsAddr       string  `toml:"metrics_addr"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if v := strings.TrimSpace(raw.Endpoint); v != "" {
		cfg.Endpoint = v
	}
	if raw.DebounceMS < 0 {
		return Config{}, fmt.Errorf("parse config: debounce_ms must not be negative")
	}
	if raw.DebounceMS > 0 {
		cfg.Debounce = time.Duration(raw.DebounceMS) * time.Millisecond
	}
	if v := strings.TrimSpace(raw.RequestTimeout); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("parse config: request_timeout: %w", err)
		}
		if d < 0 {
			return Config{}, fmt.Errorf("parse config: request_timeout must not be negative")
		}
		cfg.RequestTimeout = d
	}
	if raw.RequestsPerSecond < 0 {
		return Config{}, fmt.Errorf("parse config: requests_per_second must not be negative")
	}
	cfg.RequestsPerSecond = raw.RequestsPerSecond
	cfg.UserAgent = strings.TrimSpace(raw.UserAgent)
	if v := strings.TrimSpace(raw.LogLevel); v != "" {
		cfg.LogLevel = strings.ToLower(v)
	}
	if v := strings.TrimSpace(raw.LogFormat); v != "" {
		cfg.LogFormat = strings.ToLower(v)
	}
	if v := strings.TrimSpace(raw.LogFile); v != "" {
		cfg.LogFile = mustExpand(v)
	}
	cfg.MetricsAddr = strings.TrimSpace(raw.MetricsAddr)

	return cfg, nil
}

// ExpandPath resolves a leading ~ and makes path absolute.
func ExpandPath(path string) (string, error) {
	return expandPath(path)
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
