// Package log holds the process-wide zap logger used by the cupheat
// binaries. Library packages take a *zap.Logger option instead.
package log

import (
	"fmt"
	"os"

	"go.uber.org/zap"
)

var (
	base  *zap.Logger
	sugar *zap.SugaredLogger
)

// Init builds the package logger: development output when debug is set,
// JSON production output otherwise.
func Init(debug bool) error {
	var (
		l   *zap.Logger
		err error
	)
	if debug {
		l, err = zap.NewDevelopment()
	} else {
		l, err = zap.NewProduction()
	}
	if err != nil {
		return fmt.Errorf("can't initialize zap logger: %v", err)
	}
	Set(l)
	return nil
}

// Set replaces the package logger.
func Set(l *zap.Logger) {
	base = l
	sugar = l.WithOptions(zap.AddCallerSkip(1)).Sugar()
}

// Logger returns the base logger to hand to library options.
func Logger() *zap.Logger {
	if base == nil {
		l, _ := zap.NewProduction()
		Set(l)
	}
	return base
}

func sugared() *zap.SugaredLogger {
	Logger()
	return sugar
}

// Sync flushes any buffered log entries.
func Sync() {
	if base != nil {
		_ = base.Sync()
	}
}

func Debugw(msg string, keysAndValues ...interface{}) {
	sugared().Debugw(msg, keysAndValues...)
}

func Info(args ...interface{}) {
	sugared().Info(args...)
}

func Infof(template string, args ...interface{}) {
	sugared().Infof(template, args...)
}

func Infow(msg string, keysAndValues ...interface{}) {
	sugared().Infow(msg, keysAndValues...)
}

func Warnf(template string, args ...interface{}) {
	sugared().Warnf(template, args...)
}

func Warnw(msg string, keysAndValues ...interface{}) {
	sugared().Warnw(msg, keysAndValues...)
}

func Errorw(msg string, keysAndValues ...interface{}) {
	sugared().Errorw(msg, keysAndValues...)
}

func Fatalf(template string, args ...interface{}) {
	sugared().Errorf(template, args...)
	Sync()
	os.Exit(1)
}
