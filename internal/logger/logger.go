package logger

import (
	"io"
	"os"
	"strings"
	"sync/atomic"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger defines the logging interface used throughout the application
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	SetLevel(level zapcore.Level)
	GetLevel() zapcore.Level
	EnableHTTPLogging()
	DisableHTTPLogging()
	IsHTTPLoggingEnabled() bool
}

// ZapLogger wraps a sugared zap logger to implement our Logger interface.
// Args are alternating key/value pairs, as with zap's *w methods.
type ZapLogger struct {
	logger      *zap.SugaredLogger
	level       zap.AtomicLevel
	httpLogging atomic.Bool
}

// New creates a new ZapLogger with default settings (info level)
func New() *ZapLogger {
	return NewWithLevel(zapcore.InfoLevel)
}

// NewWithLevel creates a new ZapLogger with a specific level writing to stdout
func NewWithLevel(level zapcore.Level) *ZapLogger {
	return NewWithWriter(os.Stdout, level)
}

// NewWithWriter creates a ZapLogger writing console-encoded lines to w
func NewWithWriter(w io.Writer, level zapcore.Level) *ZapLogger {
	atomicLevel := zap.NewAtomicLevelAt(level)

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encCfg.EncodeLevel = zapcore.CapitalLevelEncoder

	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.AddSync(w), atomicLevel)

	zl := &ZapLogger{
		logger: zap.New(core).Sugar(),
		level:  atomicLevel,
	}
	zl.httpLogging.Store(false)
	return zl
}

// NewNop returns a logger that discards everything; used by tests
func NewNop() *ZapLogger {
	return NewWithWriter(io.Discard, zapcore.FatalLevel)
}

// ParseLevel converts a string log level to a zap level.
// Accepts: debug, info, warn, error (case-insensitive).
// Returns InfoLevel if the level is not recognized.
func ParseLevel(level string) zapcore.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zapcore.DebugLevel
	case "info":
		return zapcore.InfoLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

func (l *ZapLogger) Debug(msg string, args ...any) {
	l.logger.Debugw(msg, args...)
}

func (l *ZapLogger) Info(msg string, args ...any) {
	l.logger.Infow(msg, args...)
}

func (l *ZapLogger) Warn(msg string, args ...any) {
	l.logger.Warnw(msg, args...)
}

func (l *ZapLogger) Error(msg string, args ...any) {
	l.logger.Errorw(msg, args...)
}

// SetLevel changes the logging level dynamically
func (l *ZapLogger) SetLevel(level zapcore.Level) {
	l.level.SetLevel(level)
}

// GetLevel returns the current logging level
func (l *ZapLogger) GetLevel() zapcore.Level {
	return l.level.Level()
}

// Sync flushes buffered log entries
func (l *ZapLogger) Sync() error {
	return l.logger.Sync()
}

// EnableHTTPLogging enables HTTP request logging
func (l *ZapLogger) EnableHTTPLogging() {
	l.httpLogging.Store(true)
}

// DisableHTTPLogging disables HTTP request logging
func (l *ZapLogger) DisableHTTPLogging() {
	l.httpLogging.Store(false)
}

// IsHTTPLoggingEnabled returns whether HTTP logging is enabled
func (l *ZapLogger) IsHTTPLoggingEnabled() bool {
	return l.httpLogging.Load()
}
