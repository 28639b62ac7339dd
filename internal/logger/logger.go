package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// VerboseChecker interface for checking verbose state
type VerboseChecker interface {
	IsVerbose() bool
}

// Logger provides component-scoped structured logging with verbose support.
// Debug and Info are gated by the verbose checker unless the global level
// was lowered explicitly; Warn and Error are always written.
type Logger struct {
	component      string
	verboseChecker VerboseChecker
	base           *log.Logger
}

// Field represents a key-value pair for structured logging
type Field struct {
	Key   string
	Value interface{}
}

var (
	mu          sync.RWMutex
	output      io.Writer = os.Stderr
	formatter             = log.TextFormatter
	forcedLevel *log.Level
)

// Configure sets the process-wide output format and, when level is not
// empty, a level that overrides the verbose gate.
func Configure(level, format string) error {
	mu.Lock()
	defer mu.Unlock()

	switch strings.ToLower(format) {
	case "", "text":
		formatter = log.TextFormatter
	case "json":
		formatter = log.JSONFormatter
	case "logfmt":
		formatter = log.LogfmtFormatter
	default:
		return fmt.Errorf("unknown log format: %s", format)
	}

	if level == "" {
		forcedLevel = nil
		return nil
	}
	parsed, err := log.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("unknown log level: %s", level)
	}
	forcedLevel = &parsed
	return nil
}

// SetOutput redirects every logger created afterwards.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
}

// New creates a new logger instance
func New(component string, verboseChecker VerboseChecker) *Logger {
	return &Logger{
		component:      component,
		verboseChecker: verboseChecker,
		base:           newBase(component),
	}
}

// NewWithCallback creates a new logger instance with a callback function
func NewWithCallback(component string, verboseCheck func() bool) *Logger {
	return New(component, &callbackChecker{callback: verboseCheck})
}

// WithComponent creates a logger with a specific component name
func (l *Logger) WithComponent(component string) *Logger {
	return New(component, l.verboseChecker)
}

func newBase(component string) *log.Logger {
	mu.RLock()
	defer mu.RUnlock()

	if component == "" {
		component = "main"
	}
	return log.NewWithOptions(output, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.000",
		Prefix:          component,
		Level:           log.DebugLevel,
		Formatter:       formatter,
	})
}

// callbackChecker implements VerboseChecker with a callback function
type callbackChecker struct {
	callback func() bool
}

func (c *callbackChecker) IsVerbose() bool {
	if c.callback == nil {
		return false
	}
	return c.callback()
}

// enabled reports whether a message at level should be written.
func (l *Logger) enabled(level log.Level) bool {
	mu.RLock()
	forced := forcedLevel
	mu.RUnlock()

	if forced != nil {
		return level >= *forced
	}
	if level >= log.WarnLevel {
		return true
	}
	return l.verboseChecker != nil && l.verboseChecker.IsVerbose()
}

// Debug logs debug messages (only when verbose=true)
func (l *Logger) Debug(msg string, args ...interface{}) {
	l.logWithFields(log.DebugLevel, msg, nil, args...)
}

// Info logs informational messages (only when verbose=true)
func (l *Logger) Info(msg string, args ...interface{}) {
	l.logWithFields(log.InfoLevel, msg, nil, args...)
}

// Warn logs warning messages (always shown)
func (l *Logger) Warn(msg string, args ...interface{}) {
	l.logWithFields(log.WarnLevel, msg, nil, args...)
}

// Error logs error messages (always shown)
func (l *Logger) Error(msg string, args ...interface{}) {
	l.logWithFields(log.ErrorLevel, msg, nil, args...)
}

// DebugWithFields logs debug message with structured fields
func (l *Logger) DebugWithFields(msg string, fields []Field, args ...interface{}) {
	l.logWithFields(log.DebugLevel, msg, fields, args...)
}

// InfoWithFields logs info message with structured fields
func (l *Logger) InfoWithFields(msg string, fields []Field, args ...interface{}) {
	l.logWithFields(log.InfoLevel, msg, fields, args...)
}

// WarnWithFields logs warning message with structured fields
func (l *Logger) WarnWithFields(msg string, fields []Field, args ...interface{}) {
	l.logWithFields(log.WarnLevel, msg, fields, args...)
}

func (l *Logger) logWithFields(level log.Level, msg string, fields []Field, args ...interface{}) {
	if !l.enabled(level) {
		return
	}

	formattedMsg := msg
	if len(args) > 0 {
		formattedMsg = fmt.Sprintf(msg, args...)
	}

	keyvals := make([]interface{}, 0, len(fields)*2)
	for _, field := range fields {
		keyvals = append(keyvals, field.Key, field.Value)
	}

	l.base.Log(level, formattedMsg, keyvals...)
}

// Helper functions for common field types
func F(key string, value interface{}) Field {
	return Field{Key: key, Value: value}
}

func Count(value int) Field {
	return Field{Key: "count", Value: value}
}

func Duration(d time.Duration) Field {
	return Field{Key: "duration", Value: d}
}

func Error(err error) Field {
	return Field{Key: "error", Value: err}
}
