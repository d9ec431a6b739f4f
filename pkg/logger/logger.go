// Package logger provides the process-wide structured logger.
package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Log is the shared application logger. Init must be called once at startup
// before any component logs through it.
var Log *zap.Logger

// Init builds the global logger. When logFile is set, production JSON output
// goes to both the file and stdout; otherwise a development console logger
// is used.
func Init(level string, logFile string) error {
	var config zap.Config

	if logFile != "" {
		config = zap.NewProductionConfig()
		config.OutputPaths = []string{logFile, "stdout"}
	} else {
		config = zap.NewDevelopmentConfig()
	}

	config.Level = zap.NewAtomicLevelAt(parseLevel(level))

	var err error
	Log, err = config.Build()
	if err != nil {
		return err
	}

	return nil
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

// Sync flushes any buffered log entries.
func Sync() error {
	if Log != nil {
		return Log.Sync()
	}
	return nil
}
