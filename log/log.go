//
// Tencent is pleased to support the open source community by making trpc-agent-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-go is licensed under the Apache License Version 2.0.
//
//

// Package log provides the logging facade used throughout the flc module.
package log

import (
	"context"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Log level constants.
const (
	LevelDebug = "debug"
	LevelInfo  = "info"
	LevelWarn  = "warn"
	LevelError = "error"
	LevelFatal = "fatal"
)

var (
	zapLevel = zap.NewAtomicLevelAt(zapcore.InfoLevel)

	traceEnabled = false
)

// Default is the package-level logger. It wraps zap so that callers get
// structured, leveled logging without depending on zap directly. Replace it
// with any type implementing Logger.
var Default Logger = zap.New(
	zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig),
		zapcore.AddSync(os.Stderr),
		zapLevel,
	),
	zap.AddCaller(),
	zap.AddCallerSkip(1),
).Sugar()

// ContextDefault backs the *Context helpers with its own caller skip so that
// DebugContext/InfoContext/etc. report the caller's frame rather than this
// package's.
var ContextDefault Logger = zap.New(
	zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig),
		zapcore.AddSync(os.Stderr),
		zapLevel,
	),
	zap.AddCaller(),
	zap.AddCallerSkip(2),
).Sugar()

// SetLevel sets the minimum log level. Valid levels are "debug", "info",
// "warn", "error", "fatal"; anything else is treated as "info".
func SetLevel(level string) {
	switch level {
	case LevelDebug:
		zapLevel.SetLevel(zapcore.DebugLevel)
	case LevelInfo:
		zapLevel.SetLevel(zapcore.InfoLevel)
	case LevelWarn:
		zapLevel.SetLevel(zapcore.WarnLevel)
	case LevelError:
		zapLevel.SetLevel(zapcore.ErrorLevel)
	case LevelFatal:
		zapLevel.SetLevel(zapcore.FatalLevel)
	default:
		zapLevel.SetLevel(zapcore.InfoLevel)
	}
}

var encoderConfig = zapcore.EncoderConfig{
	TimeKey:        "ts",
	LevelKey:       "lvl",
	NameKey:        "name",
	CallerKey:      "caller",
	MessageKey:     "message",
	StacktraceKey:  "stacktrace",
	LineEnding:     zapcore.DefaultLineEnding,
	EncodeLevel:    zapcore.CapitalColorLevelEncoder,
	EncodeTime:     zapcore.RFC3339TimeEncoder,
	EncodeDuration: zapcore.SecondsDurationEncoder,
	EncodeCaller:   zapcore.ShortCallerEncoder,
}

// Logger is the logging interface used throughout the module. zap's
// SugaredLogger satisfies it, but callers may substitute any implementation.
type Logger interface {
	Debug(args ...any)
	Debugf(format string, args ...any)
	Info(args ...any)
	Infof(format string, args ...any)
	Warn(args ...any)
	Warnf(format string, args ...any)
	Error(args ...any)
	Errorf(format string, args ...any)
	Fatal(args ...any)
	Fatalf(format string, args ...any)
}

// Debug logs to DEBUG log. Arguments are handled in the manner of fmt.Print.
func Debug(args ...any) { Default.Debug(args...) }

// DebugContext logs to DEBUG log using the context-scoped logger.
var DebugContext = func(_ context.Context, args ...any) { ContextDefault.Debug(args...) }

// Debugf logs to DEBUG log. Arguments are handled in the manner of fmt.Printf.
func Debugf(format string, args ...any) { Default.Debugf(format, args...) }

// DebugfContext logs to DEBUG log with formatting using the context-scoped logger.
var DebugfContext = func(_ context.Context, format string, args ...any) {
	ContextDefault.Debugf(format, args...)
}

// Info logs to INFO log. Arguments are handled in the manner of fmt.Print.
func Info(args ...any) { Default.Info(args...) }

// InfoContext logs to INFO log using the context-scoped logger.
var InfoContext = func(_ context.Context, args ...any) { ContextDefault.Info(args...) }

// Infof logs to INFO log. Arguments are handled in the manner of fmt.Printf.
func Infof(format string, args ...any) { Default.Infof(format, args...) }

// InfofContext logs to INFO log with formatting using the context-scoped logger.
var InfofContext = func(_ context.Context, format string, args ...any) {
	ContextDefault.Infof(format, args...)
}

// Warn logs to WARNING log. Arguments are handled in the manner of fmt.Print.
func Warn(args ...any) { Default.Warn(args...) }

// WarnContext logs to WARNING log using the context-scoped logger.
var WarnContext = func(_ context.Context, args ...any) { ContextDefault.Warn(args...) }

// Warnf logs to WARNING log. Arguments are handled in the manner of fmt.Printf.
func Warnf(format string, args ...any) { Default.Warnf(format, args...) }

// WarnfContext logs to WARNING log with formatting using the context-scoped logger.
var WarnfContext = func(_ context.Context, format string, args ...any) {
	ContextDefault.Warnf(format, args...)
}

// Error logs to ERROR log. Arguments are handled in the manner of fmt.Print.
func Error(args ...any) { Default.Error(args...) }

// ErrorContext logs to ERROR log using the context-scoped logger.
var ErrorContext = func(_ context.Context, args ...any) { ContextDefault.Error(args...) }

// Errorf logs to ERROR log. Arguments are handled in the manner of fmt.Printf.
func Errorf(format string, args ...any) { Default.Errorf(format, args...) }

// ErrorfContext logs to ERROR log with formatting using the context-scoped logger.
var ErrorfContext = func(_ context.Context, format string, args ...any) {
	ContextDefault.Errorf(format, args...)
}

// Fatal logs to FATAL log and terminates the process.
func Fatal(args ...any) { Default.Fatal(args...) }

// FatalContext logs to FATAL log using the context-scoped logger and terminates the process.
var FatalContext = func(_ context.Context, args ...any) { ContextDefault.Fatal(args...) }

// Fatalf logs to FATAL log with formatting and terminates the process.
func Fatalf(format string, args ...any) { Default.Fatalf(format, args...) }

// FatalfContext logs to FATAL log with formatting using the context-scoped logger and terminates the process.
var FatalfContext = func(_ context.Context, format string, args ...any) {
	ContextDefault.Fatalf(format, args...)
}

// Tracef logs a message at trace level when tracing is enabled via
// SetTraceEnabled. Trace messages are emitted through the DEBUG sink with a
// "[TRACE]" prefix so they can be filtered without a dedicated level.
func Tracef(format string, args ...any) {
	if !traceEnabled {
		return
	}
	Default.Debugf("[TRACE] "+format, args...)
}

// TracefContext is Tracef through the context-scoped logger.
var TracefContext = func(_ context.Context, format string, args ...any) {
	if !traceEnabled {
		return
	}
	ContextDefault.Debugf("[TRACE] "+format, args...)
}

// SetTraceEnabled toggles whether Tracef emits output.
func SetTraceEnabled(enabled bool) {
	traceEnabled = enabled
}
