// Package logging writes leveled JSON-lines diagnostics for the castkit CLI.
package logging

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

// Level represents a log level.
type Level string

const (
	LevelDebug Level = "debug"
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

var levelRank = map[Level]int{
	LevelDebug: 0,
	LevelInfo:  1,
	LevelWarn:  2,
	LevelError: 3,
}

// ParseLevel parses a level name, case-insensitively.
func ParseLevel(s string) (Level, error) {
	l := Level(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := levelRank[l]; !ok {
		return "", fmt.Errorf("unknown log level %q (must be debug, info, warn, or error)", s)
	}
	return l, nil
}

// Fields are structured key/value pairs attached to an entry.
type Fields map[string]any

// Entry is one JSON line.
type Entry struct {
	Timestamp string `json:"timestamp"`
	Level     Level  `json:"level"`
	Message   string `json:"message"`
	Fields    Fields `json:"fields,omitempty"`
}

// Logger writes entries at or above its level.
type Logger struct {
	mu     *sync.Mutex
	level  Level
	output io.Writer
	fields Fields
}

// NewLogger creates a logger writing to stderr.
func NewLogger(level Level) *Logger {
	return &Logger{
		mu:     &sync.Mutex{},
		level:  level,
		output: os.Stderr,
	}
}

// With returns a child logger that adds fields to every entry. The child
// shares its parent's output and lock.
func (l *Logger) With(fields Fields) *Logger {
	l.mu.Lock()
	defer l.mu.Unlock()

	merged := make(Fields, len(l.fields)+len(fields))
	for k, v := range l.fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	return &Logger{mu: l.mu, level: l.level, output: l.output, fields: merged}
}

// Enabled reports whether entries at level would be written.
func (l *Logger) Enabled(level Level) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return levelRank[level] >= levelRank[l.level]
}

func (l *Logger) Debug(msg string, fields ...Fields) { l.log(LevelDebug, msg, fields) }
func (l *Logger) Info(msg string, fields ...Fields)  { l.log(LevelInfo, msg, fields) }
func (l *Logger) Warn(msg string, fields ...Fields)  { l.log(LevelWarn, msg, fields) }
func (l *Logger) Error(msg string, fields ...Fields) { l.log(LevelError, msg, fields) }

// ErrorErr logs msg at error level with err under the "error" key.
func (l *Logger) ErrorErr(msg string, err error, fields ...Fields) {
	l.Error(msg, append(fields, Fields{"error": err.Error()})...)
}

func (l *Logger) log(level Level, msg string, extra []Fields) {
	if !l.Enabled(level) {
		return
	}

	entry := Entry{
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
		Level:     level,
		Message:   msg,
	}
	if n := len(l.fields) + len(extra); n > 0 {
		entry.Fields = make(Fields)
		for k, v := range l.fields {
			entry.Fields[k] = v
		}
		for _, f := range extra {
			for k, v := range f {
				entry.Fields[k] = v
			}
		}
		if len(entry.Fields) == 0 {
			entry.Fields = nil
		}
	}

	data, err := json.Marshal(entry)
	if err != nil {
		data = []byte(`{"level":"error","message":"failed to marshal log entry"}`)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.output.Write(append(data, '\n'))
}

// SetOutput sets the output writer.
func (l *Logger) SetOutput(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.output = w
}

var global = NewLogger(LevelWarn)

// Global returns the process-wide logger.
func Global() *Logger { return global }

// SetGlobal replaces the process-wide logger.
func SetGlobal(l *Logger) { global = l }

func Debug(msg string, fields ...Fields) { global.Debug(msg, fields...) }
func Info(msg string, fields ...Fields)  { global.Info(msg, fields...) }

func ErrorErr(msg string, err error, fields ...Fields) {
	global.ErrorErr(msg, err, fields...)
}

// With returns a child of the global logger.
func With(fields Fields) *Logger { return global.With(fields) }
