package logger

import (
	"sync/atomic"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/d60-Lab/hourglass/config"
)

var global atomic.Pointer[zap.Logger]

func init() {
	global.Store(zap.NewNop())
}

// Init builds the process logger from config. Until it is called every helper is a no-op.
func Init(cfg config.LogConfig) error {
	l, err := New(cfg.Level, cfg.Format)
	if err != nil {
		return err
	}
	global.Store(l)
	return nil
}

func New(level, format string) (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	if format == "console" {
		zc.Encoding = "console"
		zc.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		zc.Encoding = "json"
	}
	switch level {
	case "debug":
		zc.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	case "info":
		zc.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	case "warn":
		zc.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	default:
		zc.Level = zap.NewAtomicLevelAt(zap.ErrorLevel)
	}
	zc.EncoderConfig.TimeKey = "ts"
	zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	return zc.Build()
}

// Set replaces the process logger; tests use it with zaptest/observer.
func Set(l *zap.Logger) { global.Store(l) }

func L() *zap.Logger { return global.Load() }

func Debug(msg string, fields ...zap.Field) { L().Debug(msg, fields...) }
func Info(msg string, fields ...zap.Field)  { L().Info(msg, fields...) }
func Warn(msg string, fields ...zap.Field)  { L().Warn(msg, fields...) }
func Error(msg string, fields ...zap.Field) { L().Error(msg, fields...) }
func Fatal(msg string, fields ...zap.Field) { L().Fatal(msg, fields...) }

func Sync() error { return L().Sync() }
