package logger

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var base *zap.Logger

var serviceName = "scalper"

// SetServiceName overrides the service field attached to every line.
// Returns the previous name.
func SetServiceName(newName string) string {
	oldName := serviceName
	serviceName = newName

	return oldName
}

// Init builds the process logger. Must be called once before any logging.
func Init(debug bool) error {
	cfg := zap.NewProductionConfig()
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if debug {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}

	l, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		return err
	}
	base = l
	return nil
}

func get() *zap.Logger {
	if base == nil {
		// tests and small tools skip Init
		base, _ = zap.NewProduction(zap.AddCallerSkip(1))
		if base == nil {
			fmt.Fprintln(os.Stderr, "logger: fallback init failed")
			base = zap.NewNop()
		}
	}
	return base
}

func Debug(format string, args ...interface{}) {
	get().With(zap.String("service", serviceName)).Debug(fmt.Sprintf(format, args...))
}

func Info(format string, args ...interface{}) {
	get().With(zap.String("service", serviceName)).Info(fmt.Sprintf(format, args...))
}

func Warn(format string, args ...interface{}) {
	get().With(zap.String("service", serviceName)).Warn(fmt.Sprintf(format, args...))
}

func Error(format string, args ...interface{}) {
	get().With(zap.String("service", serviceName)).Error(fmt.Sprintf(format, args...))
}

func Fatal(format string, args ...interface{}) {
	get().With(zap.String("service", serviceName)).Fatal(fmt.Sprintf(format, args...))
}

// Sync flushes buffered entries. Safe to call on shutdown.
func Sync() {
	if base != nil {
		_ = base.Sync()
	}
}
