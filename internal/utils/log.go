// Package utils provides shared helpers for patchlint, including
// structured logging.
package utils

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// LoggerOptions configures the logger.
type LoggerOptions struct {
	// Level is the minimum log level (debug, info, warn, error)
	Level string
	// Output is the writer for log output (default: os.Stderr)
	Output io.Writer
	// Prefix is the component name prefix
	Prefix string
	// TimeFormat is the time format string (default: RFC3339)
	TimeFormat string
	// ReportCaller adds file:line to log entries
	ReportCaller bool
	// ReportTimestamp adds timestamps to log entries
	ReportTimestamp bool
}

// DefaultLoggerOptions returns sensible default options.
func DefaultLoggerOptions() LoggerOptions {
	return LoggerOptions{
		Level:           "warn",
		Output:          os.Stderr,
		TimeFormat:      time.RFC3339,
		ReportTimestamp: false,
	}
}

// parseLevel converts a string level to log.Level.
func parseLevel(level string) log.Level {
	switch strings.ToLower(level) {
	case "debug":
		return log.DebugLevel
	case "info":
		return log.InfoLevel
	case "warn", "warning":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	case "fatal":
		return log.FatalLevel
	default:
		return log.WarnLevel
	}
}

// InitLogger creates a new logger with the given options.
func InitLogger(opts LoggerOptions) *log.Logger {
	return log.NewWithOptions(opts.Output, log.Options{
		Level:           parseLevel(opts.Level),
		Prefix:          opts.Prefix,
		TimeFormat:      opts.TimeFormat,
		ReportCaller:    opts.ReportCaller,
		ReportTimestamp: opts.ReportTimestamp,
	})
}

// InitDefaultLogger creates a logger with default options, respecting
// PATCHLINT_LOG_LEVEL.
func InitDefaultLogger() *log.Logger {
	opts := DefaultLoggerOptions()
	if level := os.Getenv("PATCHLINT_LOG_LEVEL"); level != "" {
		opts.Level = level
	}
	return InitLogger(opts)
}

// InitFileLogger creates a logger that writes to a file.
func InitFileLogger(path string, opts LoggerOptions) (*log.Logger, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0640)
	if err != nil {
		return nil, err
	}
	opts.Output = f
	return InitLogger(opts), nil
}

// InitWatchLogger creates the logger for watch mode.
// Writes to ~/.patchlint/watch.log with structured output.
func InitWatchLogger() (*log.Logger, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}

	opts := LoggerOptions{
		Level:           "info",
		Prefix:          "watch",
		TimeFormat:      time.RFC3339,
		ReportTimestamp: true,
	}
	if level := os.Getenv("PATCHLINT_LOG_LEVEL"); level != "" {
		opts.Level = level
	}
	return InitFileLogger(filepath.Join(home, ".patchlint", "watch.log"), opts)
}

// Global default logger instance
var defaultLogger = InitDefaultLogger()

// SetDefaultLogger replaces the global default logger.
func SetDefaultLogger(logger *log.Logger) {
	defaultLogger = logger
}

// GetDefaultLogger returns the global default logger.
func GetDefaultLogger() *log.Logger {
	return defaultLogger
}

// SetLevel adjusts the default logger's minimum level.
func SetLevel(level string) {
	defaultLogger.SetLevel(parseLevel(level))
}

// Convenience wrappers for the default logger

// Debug logs a debug message with key-value pairs.
func Debug(msg interface{}, keyvals ...interface{}) {
	defaultLogger.Debug(msg, keyvals...)
}

// Info logs an info message with key-value pairs.
func Info(msg interface{}, keyvals ...interface{}) {
	defaultLogger.Info(msg, keyvals...)
}

// Warn logs a warning message with key-value pairs.
func Warn(msg interface{}, keyvals ...interface{}) {
	defaultLogger.Warn(msg, keyvals...)
}

// Error logs an error message with key-value pairs.
func Error(msg interface{}, keyvals ...interface{}) {
	defaultLogger.Error(msg, keyvals...)
}

// With returns a logger with additional default key-value pairs.
func With(keyvals ...interface{}) *log.Logger {
	return defaultLogger.With(keyvals...)
}
