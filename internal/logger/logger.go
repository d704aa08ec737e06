// Package logger wraps zerolog with the small surface folio needs.
//
// The TUI owns the terminal, so callers normally point Output at a file opened
// with OpenFile. Until Setup runs, Get returns a logger that discards output.
package logger

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Format selects the log encoding.
type Format string

const (
	FormatJSON    Format = "json"
	FormatConsole Format = "console"
)

// ParseFormat maps a config string to a Format, defaulting to console.
func ParseFormat(value string) Format {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "json":
		return FormatJSON
	default:
		return FormatConsole
	}
}

// Config controls logger construction.
type Config struct {
	Level      string
	Format     Format
	Output     io.Writer
	TimeFormat string
}

// Logger embeds zerolog.Logger so callers can use the fluent API directly.
type Logger struct {
	zerolog.Logger
}

// slowThreshold marks tracked operations as slow in the log.
const slowThreshold = 500 * time.Millisecond

var (
	mu     sync.RWMutex
	global = Nop()
)

// New builds a logger from cfg without touching the global instance.
func New(cfg Config) *Logger {
	out := cfg.Output
	if out == nil {
		out = io.Discard
	}
	timeFormat := cfg.TimeFormat
	if timeFormat == "" {
		timeFormat = time.RFC3339
	}
	if cfg.Format == FormatConsole {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: timeFormat, NoColor: true}
	}
	level, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(cfg.Level)))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zl := zerolog.New(out).Level(level).With().Timestamp().Logger()
	return &Logger{Logger: zl}
}

// Nop returns a logger that drops everything.
func Nop() *Logger {
	return &Logger{Logger: zerolog.Nop()}
}

// Setup replaces the global logger and returns it.
func Setup(cfg Config) *Logger {
	l := New(cfg)
	mu.Lock()
	global = l
	mu.Unlock()
	return l
}

// Get returns the global logger.
func Get() *Logger {
	mu.RLock()
	defer mu.RUnlock()
	return global
}

// WithComponent returns a child logger tagged with a component field.
func (l *Logger) WithComponent(name string) *Logger {
	if l == nil {
		return Nop()
	}
	return &Logger{Logger: l.With().Str("component", name).Logger()}
}

// OpenFile opens path for appending, creating parent directories as needed.
func OpenFile(path string) (*os.File, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("log path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	return file, nil
}

type ctxKey struct{}

// ContextWithRequestID attaches a request id that Track and For pick up.
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// RequestID returns the request id stored in ctx, if any.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}

// For returns l enriched with the request id carried by ctx.
func (l *Logger) For(ctx context.Context) *Logger {
	if l == nil {
		l = Nop()
	}
	id := RequestID(ctx)
	if id == "" {
		return l
	}
	return &Logger{Logger: l.With().Str("request_id", id).Logger()}
}

// Track logs the duration of op when the returned func is called.
func (l *Logger) Track(ctx context.Context, op string) func() {
	start := time.Now()
	return func() {
		dur := time.Since(start)
		entry := l.For(ctx)
		if dur > slowThreshold {
			entry.Warn().Dur("duration", dur).Msgf("%s completed (slow)", op)
			return
		}
		entry.Debug().Dur("duration", dur).Msgf("%s completed", op)
	}
}
