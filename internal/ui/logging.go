package ui

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

const timeLayout = "2006/01/02 15:04:05"

type Logger struct {
	Debug bool
	log   *slog.Logger
}

func NewLogger(debug bool) *Logger {
	return NewLoggerTo(os.Stderr, debug)
}

// NewLoggerTo writes timestamped text lines to w.
func NewLoggerTo(w io.Writer, debug bool) *Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}

	handler := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey && len(groups) == 0 {
				return slog.String(slog.TimeKey, a.Value.Time().Format(timeLayout))
			}
			return a
		},
	})

	return &Logger{Debug: debug, log: slog.New(handler)}
}

// Slog exposes the underlying structured logger for packages that log
// with attributes.
func (l *Logger) Slog() *slog.Logger {
	return l.log
}

func (l *Logger) Debugf(format string, args ...any) {
	if l.Debug {
		l.log.Debug(msg(format, args))
	}
}

func (l *Logger) Infof(format string, args ...any) {
	l.log.Info(msg(format, args))
}

func (l *Logger) Warnf(format string, args ...any) {
	l.log.Warn(msg(format, args))
}

func (l *Logger) Errorf(format string, args ...any) {
	l.log.Error(msg(format, args))
}

func msg(format string, args []any) string {
	return strings.TrimRight(fmt.Sprintf(format, args...), "\n")
}
