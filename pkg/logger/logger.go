// Package logger provides a simple logging interface backed by charmbracelet/log.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
)

// Logger defines the logging interface
type Logger interface {
	Debug(v ...interface{})
	Debugf(format string, v ...interface{})
	Info(v ...interface{})
	Infof(format string, v ...interface{})
	Warn(v ...interface{})
	Warnf(format string, v ...interface{})
	Error(v ...interface{})
	Errorf(format string, v ...interface{})
	Fatal(v ...interface{})
	Fatalf(format string, v ...interface{})
}

// logger implements the Logger interface on top of a charm logger
type logger struct {
	base *log.Logger
}

// New creates a logger writing to stderr at the level found in LOG_LEVEL.
func New() Logger {
	return NewWithWriter(os.Stderr, os.Getenv("LOG_LEVEL"))
}

// NewWithWriter creates a logger writing to w. Unknown levels fall back to info.
func NewWithWriter(w io.Writer, level string) Logger {
	lvl := parseLevel(level)
	base := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		ReportCaller:    lvl == log.DebugLevel,
		TimeFormat:      "2006/01/02 15:04:05",
		Level:           lvl,
		CallerOffset:    1,
	})
	return &logger{base: base}
}

// Discard returns a logger that drops everything; handy in tests.
func Discard() Logger {
	return NewWithWriter(io.Discard, "error")
}

// parseLevel converts string log level to a charm level
func parseLevel(levelStr string) log.Level {
	switch strings.ToLower(strings.TrimSpace(levelStr)) {
	case "debug":
		return log.DebugLevel
	case "warn", "warning":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}

// IsValidLevel reports whether s names a level this package understands.
func IsValidLevel(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug", "info", "warn", "warning", "error":
		return true
	}
	return false
}

func (l *logger) Debug(v ...interface{}) { l.base.Debug(fmt.Sprint(v...)) }

func (l *logger) Debugf(format string, v ...interface{}) { l.base.Debugf(format, v...) }

func (l *logger) Info(v ...interface{}) { l.base.Info(fmt.Sprint(v...)) }

func (l *logger) Infof(format string, v ...interface{}) { l.base.Infof(format, v...) }

func (l *logger) Warn(v ...interface{}) { l.base.Warn(fmt.Sprint(v...)) }

func (l *logger) Warnf(format string, v ...interface{}) { l.base.Warnf(format, v...) }

func (l *logger) Error(v ...interface{}) { l.base.Error(fmt.Sprint(v...)) }

func (l *logger) Errorf(format string, v ...interface{}) { l.base.Errorf(format, v...) }

// Fatal logs an error message and exits
func (l *logger) Fatal(v ...interface{}) { l.base.Fatal(fmt.Sprint(v...)) }

// Fatalf logs a formatted error message and exits
func (l *logger) Fatalf(format string, v ...interface{}) { l.base.Fatalf(format, v...) }
