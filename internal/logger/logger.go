package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var base = zap.NewNop()

// Init builds the package logger. Development mode gets a human-readable
// console encoder; everything else logs JSON to stdout.
func Init(env string) {
	var cfg zap.Config
	if env == "development" {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}
	cfg.OutputPaths = []string{"stdout"}

	l, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		// zap config above is static, this should not happen
		panic(err)
	}
	base = l

	Info("logger initialized", zap.String("env", env))
}

func Info(msg string, fields ...zap.Field) {
	base.Info(msg, fields...)
}

func Warn(msg string, fields ...zap.Field) {
	base.Warn(msg, fields...)
}

func Error(msg string, fields ...zap.Field) {
	base.Error(msg, fields...)
}

// Fatal logs the message and exits with code 1.
func Fatal(msg string, fields ...zap.Field) {
	base.Fatal(msg, fields...)
}

// Sync flushes buffered log entries. Safe to call on shutdown.
func Sync() {
	_ = base.Sync()
}
