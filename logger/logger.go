// Package logger is the small logging facade used across consty.
package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

// LogLevel defines the logging verbosity
type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
	LogLevelNone  LogLevel = "none"
)

// Logger is implemented by anything that can receive consty diagnostics.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

var (
	mu     sync.RWMutex
	level  = new(slog.LevelVar)
	tag    = "CONSTY"
	output io.Writer = os.Stderr
)

// slogLevel maps a LogLevel to the slog level, "none" silences everything.
func (l LogLevel) slogLevel() slog.Level {
	switch LogLevel(strings.ToLower(string(l))) {
	case LogLevelDebug:
		return slog.LevelDebug
	case LogLevelWarn:
		return slog.LevelWarn
	case LogLevelError:
		return slog.LevelError
	case LogLevelNone:
		return slog.LevelError + 100
	}
	return slog.LevelInfo
}

// SetupLogger sets the process-wide log level.
func SetupLogger(l LogLevel) {
	level.Set(l.slogLevel())
}

// SetLogTag sets the tag every record is prefixed with.
func SetLogTag(t string) {
	mu.Lock()
	defer mu.Unlock()
	tag = t
}

// SetOutput redirects log output. A nil writer restores stderr.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	if w == nil {
		w = os.Stderr
	}
	output = w
}

type defaultLogger struct{}

// NewDefaultLogger returns a Logger writing text records through log/slog.
func NewDefaultLogger() Logger {
	return defaultLogger{}
}

func (defaultLogger) handler() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	h := slog.NewTextHandler(output, &slog.HandlerOptions{Level: level})
	return slog.New(h).With("tag", tag)
}

func (d defaultLogger) Debug(msg string, args ...any) { d.handler().Debug(msg, args...) }
func (d defaultLogger) Info(msg string, args ...any)  { d.handler().Info(msg, args...) }
func (d defaultLogger) Warn(msg string, args ...any)  { d.handler().Warn(msg, args...) }
func (d defaultLogger) Error(msg string, args ...any) { d.handler().Error(msg, args...) }

// Nop discards everything.
type Nop struct{}

func (Nop) Debug(string, ...any) {}
func (Nop) Info(string, ...any)  {}
func (Nop) Warn(string, ...any)  {}
func (Nop) Error(string, ...any) {}

// Recorder keeps formatted records in memory.
type Recorder struct {
	mu      sync.Mutex
	Entries []string
}

func (r *Recorder) add(lvl, msg string, args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	line := lvl + " " + msg
	for i := 0; i+1 < len(args); i += 2 {
		line += fmt.Sprintf(" %v=%v", args[i], args[i+1])
	}
	r.Entries = append(r.Entries, line)
}

func (r *Recorder) Debug(msg string, args ...any) { r.add("DEBUG", msg, args...) }
func (r *Recorder) Info(msg string, args ...any)  { r.add("INFO", msg, args...) }
func (r *Recorder) Warn(msg string, args ...any)  { r.add("WARN", msg, args...) }
func (r *Recorder) Error(msg string, args ...any) { r.add("ERROR", msg, args...) }
