package logger

import (
	"go.uber.org/zap"
)

var log = zap.NewNop()

// Init replaces the package logger. Production config outside development.
func Init(env string) error {
	var (
		l   *zap.Logger
		err error
	)
	if env == "development" {
		l, err = zap.NewDevelopment()
	} else {
		l, err = zap.NewProduction()
	}
	if err != nil {
		return err
	}
	log = l
	return nil
}

// L returns the package logger.
func L() *zap.Logger { return log }

// Info logs at info level.
func Info(msg string, fields ...zap.Field) { log.Info(msg, fields...) }

// Warn logs at warn level.
func Warn(msg string, fields ...zap.Field) { log.Warn(msg, fields...) }

// Error logs at error level.
func Error(msg string, fields ...zap.Field) { log.Error(msg, fields...) }

// Sync flushes buffered log entries.
func Sync() { _ = log.Sync() }
