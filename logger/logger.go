// Package logger builds the structured logger of the commands
package logger

import "os"

import "go.uber.org/zap"
import "go.uber.org/zap/zapcore"

// New builds a logger with datetime and caller information which splits
// output to stdout and stderr based on level. Verbose enables debug messages.
func New(verbose bool) *zap.Logger {
	min := zapcore.InfoLevel
	if verbose {
		min = zapcore.DebugLevel
	}
	isErrorLevel := zap.LevelEnablerFunc(func(lvl zapcore.Level) bool {
		return lvl >= zapcore.ErrorLevel
	})
	isInfoLevel := zap.LevelEnablerFunc(func(lvl zapcore.Level) bool {
		return lvl >= min && lvl < zapcore.ErrorLevel
	})

	config := zap.NewProductionEncoderConfig()
	config.EncodeTime = zapcore.RFC3339TimeEncoder
	encoder := zapcore.NewConsoleEncoder(config)

	core := zapcore.NewTee(
		zapcore.NewCore(encoder, zapcore.Lock(os.Stderr), isErrorLevel),
		zapcore.NewCore(encoder, zapcore.Lock(os.Stdout), isInfoLevel),
	)
	return zap.New(core, zap.AddCaller())
}
