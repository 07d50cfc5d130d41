package logger

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
)

var level = new(slog.LevelVar)

var base = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))

// SetLevel accepts debug, info, warn or error. Unknown values fall back to info.
func SetLevel(name string) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		level.Set(slog.LevelDebug)
	case "warn", "warning":
		level.Set(slog.LevelWarn)
	case "error":
		level.Set(slog.LevelError)
	default:
		level.Set(slog.LevelInfo)
	}
}

// Handler exposes the shared handler so other loggers (gorm, fiber) can
// write through the same sink.
func Handler() slog.Handler {
	return base.Handler()
}

type Logger struct {
	pkg      string
	file     string
	function string
}

func New(pkg string) Logger {
	return Logger{pkg: pkg}
}

func (l Logger) File(name string) Logger {
	l.file = name
	return l
}

func (l Logger) Function(name string) Logger {
	l.function = name
	return l
}

func (l Logger) with(args []any) []any {
	attrs := make([]any, 0, len(args)+6)
	attrs = append(attrs, "package", l.pkg)
	if l.file != "" {
		attrs = append(attrs, "file", l.file)
	}
	if l.function != "" {
		attrs = append(attrs, "function", l.function)
	}
	return append(attrs, args...)
}

func (l Logger) Debug(msg string, args ...any) {
	base.Debug(msg, l.with(args)...)
}

func (l Logger) Info(msg string, args ...any) {
	base.Info(msg, l.with(args)...)
}

func (l Logger) Warn(msg string, args ...any) {
	base.Warn(msg, l.with(args)...)
}

// Er logs err without returning it.
func (l Logger) Er(msg string, err error, args ...any) {
	base.Error(msg, l.with(append(args, "error", err))...)
}

func (l Logger) ErMsg(msg string, args ...any) {
	base.Error(msg, l.with(args)...)
}

// Err logs err and returns it wrapped with msg, so errors.Is/As still see
// the original cause.
func (l Logger) Err(msg string, err error, args ...any) error {
	l.Er(msg, err, args...)
	return fmt.Errorf("%s: %w", msg, err)
}

// Error logs msg with the given attributes and returns it as a new error.
func (l Logger) Error(msg string, args ...any) error {
	l.ErMsg(msg, args...)
	return errors.New(msg)
}

func (l Logger) ErrMsg(msg string) error {
	l.ErMsg(msg)
	return errors.New(msg)
}
