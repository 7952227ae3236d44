// api/logging/logger.go

package util

import (
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Log is a no-op logger until InitLogger or SetLogger runs.
var Log = zap.NewNop()

// InitLogger builds the production logger. level overrides LOG_LEVEL when set; logFile,
// when not empty, receives a copy of every entry next to stdout.
func InitLogger(level, logFile string) {
	config := zap.NewProductionConfig()

	// Customize log level based on environment
	logLevel := os.Getenv("LOG_LEVEL")
	if level != "" {
		logLevel = level
	}
	if logLevel != "" {
		parsed, err := zapcore.ParseLevel(logLevel)
		if err == nil {
			config.Level.SetLevel(parsed)
		}
	}

	config.OutputPaths = []string{"stdout"}
	config.ErrorOutputPaths = []string{"stderr"}

	if logFile != "" {
		if err := os.MkdirAll(filepath.Dir(logFile), 0o755); err != nil {
			panic(err)
		}
		config.OutputPaths = append(config.OutputPaths, logFile)
		config.ErrorOutputPaths = append(config.ErrorOutputPaths, logFile)
	}

	// Add caller and stack trace to log output
	config.EncoderConfig.CallerKey = "caller"
	config.EncoderConfig.StacktraceKey = "stacktrace"

	// Customize time format
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	built, err := config.Build(zap.AddCallerSkip(1))
	if err != nil {
		panic(err)
	}

	SetLogger(built)
}

// SetLogger swaps the process logger, e.g. for zaptest in tests.
func SetLogger(l *zap.Logger) {
	Log = l
	zap.ReplaceGlobals(Log) // Replace global logger
}

// Log methods for different levels
func Info(msg string, fields ...zap.Field) {
	Log.Info(msg, fields...)
}

func Error(msg string, fields ...zap.Field) {
	Log.Error(msg, fields...)
}

func Debug(msg string, fields ...zap.Field) {
	Log.Debug(msg, fields...)
}

func Warn(msg string, fields ...zap.Field) {
	Log.Warn(msg, fields...)
}

func Fatal(msg string, fields ...zap.Field) {
	Log.Fatal(msg, fields...)
}

// WithContext adds context fields to the logger
func WithContext(fields ...zap.Field) *zap.Logger {
	return Log.With(fields...)
}

func Sync() error {
	return Log.Sync()
}
