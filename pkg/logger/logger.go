package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Field is the structured logging field passed to Logger methods
type Field = zapcore.Field

// Logger is the logging interface used across the service
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)
}

type loggerImpl struct {
	zap *zap.Logger
}

// New - returns a named logger with the given level
func New(level string, name string) Logger {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(parseLevel(level))
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	l, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		l = zap.NewNop()
	}

	return &loggerImpl{zap: l.Named(name)}
}

func parseLevel(level string) zapcore.Level {
	switch level {
	case "debug":
		return zapcore.DebugLevel
	case "info":
		return zapcore.InfoLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

func (l *loggerImpl) Debug(msg string, fields ...Field) { l.zap.Debug(msg, fields...) }
func (l *loggerImpl) Info(msg string, fields ...Field)  { l.zap.Info(msg, fields...) }
func (l *loggerImpl) Warn(msg string, fields ...Field)  { l.zap.Warn(msg, fields...) }
func (l *loggerImpl) Error(msg string, fields ...Field) { l.zap.Error(msg, fields...) }

// String ...
func String(key, value string) Field {
	return zap.String(key, value)
}

// Int ...
func Int(key string, value int) Field {
	return zap.Int(key, value)
}

// Float64 ...
func Float64(key string, value float64) Field {
	return zap.Float64(key, value)
}

// Any ...
func Any(key string, value interface{}) Field {
	return zap.Any(key, value)
}

// Error ...
func Error(err error) Field {
	return zap.Error(err)
}
