// Package log provides named, leveled loggers on top of the standard
// library logger.
//
// Every component asks for its own logger with ForService and logs through
// the level helpers:
//
//	l := log.ForService("engine")
//	l.Infof("loaded %d records", n)
//	l.Debugf("term=%q page=%d", term, page) // only when debug is enabled
//
// Debug output can be enabled for every logger (SetGlobalDebug) or for a
// single one (EnableDebugFor). Tests redirect output with SetOutput.
//
// The package name collides with the standard library "log"; alias one of
// them when both are needed.
package log

import (
	"fmt"
	"io"
	"log"
	"os"
	"sync"
	"sync/atomic"
)

// Level names printed in front of every line.
const (
	LevelInfo  = "INFO"
	LevelWarn  = "WARN"
	LevelError = "ERROR"
	LevelDebug = "DEBUG"
)

// Logger is a named logger. Obtain one with ForService.
type Logger struct {
	name string
	std  *log.Logger
}

var (
	globalDebug atomic.Bool

	mu      sync.Mutex
	output  io.Writer = os.Stderr
	loggers           = map[string]*Logger{}
	debugOn           = map[string]bool{}
)

// ForService returns the memoized logger for name. An empty name is logged
// as "unknown".
func ForService(name string) *Logger {
	if name == "" {
		name = "unknown"
	}
	mu.Lock()
	defer mu.Unlock()
	if l, ok := loggers[name]; ok {
		return l
	}
	l := &Logger{name: name, std: log.New(output, "", log.LstdFlags|log.Lmicroseconds)}
	loggers[name] = l
	return l
}

// SetGlobalDebug enables or disables debug output for every logger.
func SetGlobalDebug(enabled bool) {
	globalDebug.Store(enabled)
}

// GlobalDebug reports whether debug output is enabled globally.
func GlobalDebug() bool {
	return globalDebug.Load()
}

// EnableDebugFor enables debug output for a single logger.
func EnableDebugFor(name string) {
	if name == "" {
		return
	}
	mu.Lock()
	debugOn[name] = true
	mu.Unlock()
}

// DisableDebugFor removes a per-logger debug override.
func DisableDebugFor(name string) {
	mu.Lock()
	delete(debugOn, name)
	mu.Unlock()
}

// DebugEnabledFor reports whether debug lines of the named logger are printed.
func DebugEnabledFor(name string) bool {
	if globalDebug.Load() {
		return true
	}
	mu.Lock()
	defer mu.Unlock()
	return debugOn[name]
}

// SetOutput routes all loggers, existing and future, to w.
func SetOutput(w io.Writer) {
	if w == nil {
		return
	}
	mu.Lock()
	defer mu.Unlock()
	output = w
	for _, l := range loggers {
		l.std.SetOutput(w)
	}
}

// Name returns the logger name.
func (l *Logger) Name() string {
	return l.name
}

func (l *Logger) emit(level, msg string) {
	l.std.Println(level + " [" + l.name + "] " + msg)
}

// Infof logs an informational line.
func (l *Logger) Infof(format string, args ...any) {
	l.emit(LevelInfo, fmt.Sprintf(format, args...))
}

// Warnf logs a warning.
func (l *Logger) Warnf(format string, args ...any) {
	l.emit(LevelWarn, fmt.Sprintf(format, args...))
}

// Errorf logs an error.
func (l *Logger) Errorf(format string, args ...any) {
	l.emit(LevelError, fmt.Sprintf(format, args...))
}

// Debugf logs a line only when debug is enabled for this logger.
func (l *Logger) Debugf(format string, args ...any) {
	if !DebugEnabledFor(l.name) {
		return
	}
	l.emit(LevelDebug, fmt.Sprintf(format, args...))
}
