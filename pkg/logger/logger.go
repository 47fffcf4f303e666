// Package logger provides the shared application logger, a thin wrapper
// around zap's SugaredLogger with lazy initialization.
package logger

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	mu            sync.Mutex
	defaultLogger *zap.SugaredLogger
)

// Init configures the default logger. level is one of debug/info/warn/error,
// format is "json" or "console". Call once at startup; packages that log
// before Init see a console logger at the LOG_LEVEL env level.
func Init(level, format string) error {
	var zapLevel zapcore.Level
	if err := zapLevel.UnmarshalText([]byte(level)); err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}

	mu.Lock()
	defer mu.Unlock()
	defaultLogger = build(zapLevel, format)
	return nil
}

// GetLogger returns the default logger, building a console logger on first
// use if Init was never called.
func GetLogger() *zap.SugaredLogger {
	mu.Lock()
	defer mu.Unlock()
	if defaultLogger == nil {
		level := zapcore.InfoLevel
		if env := os.Getenv("LOG_LEVEL"); env != "" {
			_ = level.UnmarshalText([]byte(strings.ToLower(env)))
		}
		defaultLogger = build(level, "console")
	}
	return defaultLogger
}

func build(level zapcore.Level, format string) *zap.SugaredLogger {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder

	var encoder zapcore.Encoder
	if format == "json" {
		encoder = zapcore.NewJSONEncoder(encoderConfig)
	} else {
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	}

	core := zapcore.NewCore(encoder, zapcore.AddSync(os.Stderr), level)
	return zap.New(core).Sugar()
}
