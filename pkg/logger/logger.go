// Package logger provides structured logging for rasa.
package logger

import (
	"io"
	"log/slog"
	"os"
	"sync"
)

// Logger is the logging surface components depend on.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	With(args ...any) Logger
	WithGroup(name string) Logger
}

// SlogLogger adapts *slog.Logger to Logger.
type SlogLogger struct {
	l *slog.Logger
}

var (
	globalMu sync.RWMutex
	global   *slog.Logger
)

func init() {
	global = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
}

// NewLogger builds a Logger writing to stderr.
func NewLogger(debug bool, format string) *SlogLogger {
	return &SlogLogger{l: slog.New(newHandler(os.Stderr, debug, format))}
}

func newHandler(w io.Writer, debug bool, format string) slog.Handler {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	return newLevelHandler(w, level, format)
}

func newLevelHandler(w io.Writer, level slog.Level, format string) slog.Handler {
	opts := &slog.HandlerOptions{
		Level: level,
	}

	switch format {
	case "json":
		return slog.NewJSONHandler(w, opts)
	default:
		return slog.NewTextHandler(w, opts)
	}
}

// SetupLogger configures the global logger.
func SetupLogger(debug bool, format string) {
	SetOutput(os.Stderr, debug, format)
}

// SetOutput configures the global logger to write to w.
func SetOutput(w io.Writer, debug bool, format string) {
	globalMu.Lock()
	defer globalMu.Unlock()
	global = slog.New(newHandler(w, debug, format))
	slog.SetDefault(global)
}

// ParseLevel maps a config level name onto slog. Unknown names mean info.
func ParseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// SetupLoggerLevel configures the global logger at a named level.
func SetupLoggerLevel(level, format string) {
	globalMu.Lock()
	defer globalMu.Unlock()
	global = slog.New(newLevelHandler(os.Stderr, ParseLevel(level), format))
	slog.SetDefault(global)
}

// GetGlobalLogger returns the global logger as a Logger.
func GetGlobalLogger() Logger {
	globalMu.RLock()
	defer globalMu.RUnlock()
	return &SlogLogger{l: global}
}

// Debug logs a debug message.
func (s *SlogLogger) Debug(msg string, args ...any) {
	s.logger().Debug(msg, args...)
}

// Info logs an info message.
func (s *SlogLogger) Info(msg string, args ...any) {
	s.logger().Info(msg, args...)
}

// Warn logs a warning message.
func (s *SlogLogger) Warn(msg string, args ...any) {
	s.logger().Warn(msg, args...)
}

// Error logs an error message.
func (s *SlogLogger) Error(msg string, args ...any) {
	s.logger().Error(msg, args...)
}

// With returns a logger carrying the given attributes.
func (s *SlogLogger) With(args ...any) Logger {
	return &SlogLogger{l: s.logger().With(args...)}
}

// WithGroup returns a logger with a named group.
func (s *SlogLogger) WithGroup(name string) Logger {
	return &SlogLogger{l: s.logger().WithGroup(name)}
}

// a zero SlogLogger falls back to the global logger
func (s *SlogLogger) logger() *slog.Logger {
	if s.l != nil {
		return s.l
	}
	globalMu.RLock()
	defer globalMu.RUnlock()
	return global
}

// Debug logs a debug message on the global logger.
func Debug(msg string, args ...any) {
	GetGlobalLogger().Debug(msg, args...)
}

// Info logs an info message on the global logger.
func Info(msg string, args ...any) {
	GetGlobalLogger().Info(msg, args...)
}

// Warn logs a warning message on the global logger.
func Warn(msg string, args ...any) {
	GetGlobalLogger().Warn(msg, args...)
}

// Error logs an error message on the global logger.
func Error(msg string, args ...any) {
	GetGlobalLogger().Error(msg, args...)
}

// WithComponent returns a logger tagged with a component name.
func WithComponent(component string) Logger {
	return GetGlobalLogger().With("component", component)
}

