package common

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"
)

// SimLogger provides logging functionality for simulation components
type SimLogger interface {
	Log(level, message string, metadata map[string]interface{})
}

// Context keys for passing logger through context
type contextKey int

const (
	loggerKey contextKey = iota
)

// WithLogger adds a logger to the context
func WithLogger(ctx context.Context, logger SimLogger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// LoggerFromContext extracts the logger from context, or returns a no-op
// logger if not found
func LoggerFromContext(ctx context.Context) SimLogger {
	if logger, ok := ctx.Value(loggerKey).(SimLogger); ok {
		return logger
	}
	return &noOpLogger{}
}

// noOpLogger is a logger that does nothing (fallback when no logger in context)
type noOpLogger struct{}

func (l *noOpLogger) Log(level, message string, metadata map[string]interface{}) {
	// Do nothing
}

// StdLogger writes through the standard library logger with a level prefix
// and sorted key=value metadata
type StdLogger struct {
	MinLevel string
}

var levelRank = map[string]int{"debug": 0, "info": 1, "warn": 2, "error": 3}

// NewStdLogger creates a StdLogger that drops entries below minLevel
func NewStdLogger(minLevel string) *StdLogger {
	if _, ok := levelRank[minLevel]; !ok {
		minLevel = "info"
	}
	return &StdLogger{MinLevel: minLevel}
}

func (l *StdLogger) Log(level, message string, metadata map[string]interface{}) {
	if levelRank[level] < levelRank[l.MinLevel] {
		return
	}

	if len(metadata) == 0 {
		log.Printf("[%s] %s", strings.ToUpper(level), message)
		return
	}

	keys := make([]string, 0, len(metadata))
	for k := range metadata {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%v", k, metadata[k])
	}
	log.Printf("[%s] %s%s", strings.ToUpper(level), message, b.String())
}

// MultiLogger fans one entry out to several loggers
type MultiLogger struct {
	Loggers []SimLogger
}

func (m *MultiLogger) Log(level, message string, metadata map[string]interface{}) {
	for _, l := range m.Loggers {
		l.Log(level, message, metadata)
	}
}
