package log

import (
	"context"
	"io"
	"log/slog"
	"os"
	"sync"
)

const (
	DebugLog = iota
	InfoLog
	WarnLog
	ErrorLog
)

var (
	mu     sync.RWMutex
	logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
)

func toSlogLevel(level int) slog.Level {
	switch {
	case level <= DebugLog:
		return slog.LevelDebug
	case level == InfoLog:
		return slog.LevelInfo
	case level == WarnLog:
		return slog.LevelWarn
	default:
		return slog.LevelError
	}
}

// InitLog routes all output to stdout and, when w is non-nil, to w as well.
func InitLog(level int, w io.Writer) {
	out := io.Writer(os.Stdout)
	if w != nil {
		out = io.MultiWriter(os.Stdout, w)
	}
	SetOutput(level, out)
}

// SetOutput replaces the logger with one writing only to w.
func SetOutput(level int, w io.Writer) {
	l := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: toSlogLevel(level)}))
	mu.Lock()
	logger = l
	mu.Unlock()
}

func current() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

func Enabled(level int) bool {
	return current().Enabled(context.Background(), toSlogLevel(level))
}

func Debug(msg string, args ...any) {
	current().Debug(msg, args...)
}

func Info(msg string, args ...any) {
	current().Info(msg, args...)
}

func Warn(msg string, args ...any) {
	current().Warn(msg, args...)
}

func Error(msg string, args ...any) {
	current().Error(msg, args...)
}

func Fatal(msg string, args ...any) {
	current().Error(msg, args...)
	os.Exit(1)
}
