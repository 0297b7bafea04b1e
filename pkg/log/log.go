// Package log provides a thin wrapper around the Go standard library logger.
// It adds:
//   - Named (per-component) loggers via ForComponent(name)
//   - Automatic message prefix: "[<name>]"
//   - Warn and Debug levels (Info is the default level, Error is also provided)
//   - Ability to enable debug globally or selectively per component
//
// Usage:
//
//	l := log.ForComponent("salesforce")
//	l.Infof("fetched %d logs", n)
//	l.Warnf("failed to fetch body for %s", id)
//	l.Debugf("raw response: %s", body) // only prints if debug enabled
//
// NOTE: The package name intentionally collides with stdlib "log". When importing
// this package alongside the standard library, alias one of them.
package log

import (
	"fmt"
	"io"
	"log"
	"os"
	"sync"
	"sync/atomic"
)

// Level names are fixed.
const (
	LevelInfo  = "INFO"
	LevelWarn  = "WARN"
	LevelError = "ERROR"
	LevelDebug = "DEBUG"
)

// Logger represents a named logger with helper methods.
type Logger struct {
	name string
	std  *log.Logger
}

// writerHolder wraps an io.Writer so that atomic.Value always stores the same
// concrete type, avoiding the "inconsistently typed value" panic when changing
// from *os.File to *bytes.Buffer in tests.
type writerHolder struct {
	w io.Writer
}

var (
	globalDebug atomic.Bool

	// componentDebug stores per-component debug overrides.
	componentDebug sync.Map // map[string]*atomic.Bool

	// loggers caches created named loggers.
	loggers sync.Map // map[string]*Logger

	// outputWriter holds the destination for all loggers (wrapped in writerHolder).
	outputWriter atomic.Value // writerHolder
)

func init() {
	outputWriter.Store(writerHolder{w: os.Stderr})
}

// ForComponent returns (and memoizes) a named logger for the given component.
// The name SHOULD be stable (e.g. "salesforce", "search", "download").
func ForComponent(name string) *Logger {
	if name == "" {
		name = "unknown"
	}
	if l, ok := loggers.Load(name); ok {
		return l.(*Logger)
	}
	current := outputWriter.Load().(writerHolder).w
	std := log.New(current, "", log.LstdFlags)
	logger := &Logger{name: name, std: std}
	actual, _ := loggers.LoadOrStore(name, logger)
	return actual.(*Logger)
}

// SetGlobalDebug enables or disables debug logging globally.
func SetGlobalDebug(enabled bool) {
	globalDebug.Store(enabled)
}

// GlobalDebug returns whether global debug logging is enabled.
func GlobalDebug() bool {
	return globalDebug.Load()
}

// EnableDebugFor enables debug logging for a specific component.
func EnableDebugFor(name string) {
	if name == "" {
		return
	}
	val, _ := componentDebug.LoadOrStore(name, &atomic.Bool{})
	val.(*atomic.Bool).Store(true)
}

// DisableDebugFor disables debug logging for a specific component.
func DisableDebugFor(name string) {
	if name == "" {
		return
	}
	if val, ok := componentDebug.Load(name); ok {
		val.(*atomic.Bool).Store(false)
	}
}

// DebugEnabledFor returns whether debug is enabled for the given component
// (either globally or specifically for the component).
func DebugEnabledFor(name string) bool {
	if globalDebug.Load() {
		return true
	}
	if val, ok := componentDebug.Load(name); ok {
		return val.(*atomic.Bool).Load()
	}
	return false
}

// SetOutput sets the output writer for all subsequently created loggers.
// Existing loggers will also adopt the new writer.
func SetOutput(w io.Writer) {
	if w == nil {
		return
	}
	outputWriter.Store(writerHolder{w: w})
	loggers.Range(func(_, v any) bool {
		l := v.(*Logger)
		l.std.SetOutput(w)
		return true
	})
}

func (l *Logger) prefix() string {
	return "[" + l.name + "]"
}

func (l *Logger) logInternal(level string, msg string) {
	if level != "" {
		level = level + " "
	}
	l.std.Println(level + l.prefix() + " " + msg)
}

// Infof logs an informational message with fmt.Sprintf semantics.
func (l *Logger) Infof(format string, args ...any) {
	l.logInternal(LevelInfo, fmt.Sprintf(format, args...))
}

// Warnf logs a warning message.
func (l *Logger) Warnf(format string, args ...any) {
	l.logInternal(LevelWarn, fmt.Sprintf(format, args...))
}

// Errorf logs an error message.
func (l *Logger) Errorf(format string, args ...any) {
	l.logInternal(LevelError, fmt.Sprintf(format, args...))
}

// Debugf logs a debug message if debug is enabled (globally or for this
// logger's component).
func (l *Logger) Debugf(format string, args ...any) {
	if !DebugEnabledFor(l.name) {
		return
	}
	l.logInternal(LevelDebug, fmt.Sprintf(format, args...))
}
