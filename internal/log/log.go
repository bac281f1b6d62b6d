// Package log wraps go.uber.org/zap with the small, fixed set of fields the
// gateway attaches to every session-related log line.
package log

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger wraps a *zap.Logger.
type Logger struct {
	z *zap.Logger
}

// Config selects the logger preset.
type Config struct {
	Level       string // "debug", "info", "warn", "error"
	Development bool
}

// DefaultConfig returns the production preset: info level, JSON encoding.
func DefaultConfig() Config {
	return Config{Level: "info"}
}

// New builds a Logger from Config.
func New(cfg Config) (*Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	zcfg := zap.NewProductionConfig()
	if cfg.Development {
		zcfg = zap.NewDevelopmentConfig()
	}
	zcfg.Level = zap.NewAtomicLevelAt(level)

	z, err := zcfg.Build()
	if err != nil {
		return nil, err
	}
	return &Logger{z: z}, nil
}

// Nop returns a Logger that discards everything, used as a safe default
// when the caller doesn't configure one.
func Nop() *Logger {
	return &Logger{z: zap.NewNop()}
}

// Session returns a child logger annotated with the session's identifying
// fields. Call once per session and reuse across its lifetime.
func (l *Logger) Session(serviceID uint16, sessionID uint32) *Logger {
	return &Logger{z: l.z.With(
		zap.Uint16("service_id", serviceID),
		zap.Uint32("session_id", sessionID),
	)}
}

func (l *Logger) Debug(msg string, fields ...zap.Field) { l.z.Debug(msg, fields...) }
func (l *Logger) Info(msg string, fields ...zap.Field)  { l.z.Info(msg, fields...) }
func (l *Logger) Warn(msg string, fields ...zap.Field)  { l.z.Warn(msg, fields...) }
func (l *Logger) Error(msg string, fields ...zap.Field) { l.z.Error(msg, fields...) }

// Sync flushes any buffered log entries. Call before process exit.
func (l *Logger) Sync() error {
	return l.z.Sync()
}

// Field re-exports zap.Field so callers of this package don't need to
// import zap directly for the common case.
type Field = zap.Field

var (
	String = zap.String
	Uint16 = zap.Uint16
	Uint32 = zap.Uint32
	Err    = zap.Error
)
