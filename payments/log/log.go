package log

import (
	"context"
	"fmt"
	"strings"
)

// Logger is the logging interface used across the engine.
type Logger interface {
	Log(ctx context.Context, level Level, msg string, fields ...Field)
	With(fields ...Field) Logger
	Enabled(level Level) bool
	Sync(ctx context.Context) error
}

// Level represents the severity of a log entry.
//
// Lower values are more severe. A logger configured at a level emits that
// level and every more severe one:
//
//	LevelError (0) -- only errors
//	LevelWarn  (1) -- errors + rejected transactions and dropped rows
//	LevelInfo  (2) -- + run summaries
//	LevelDebug (3) -- everything
type Level uint8

const (
	LevelError Level = iota
	LevelWarn
	LevelInfo
	LevelDebug
)

// String returns the lowercase name of the level.
func (level Level) String() string {
	switch level {
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	default:
		return "unknown"
	}
}

// ParseLevel maps a level name to its Level. Matching ignores case.
func ParseLevel(lvl string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(lvl)) {
	case "debug":
		return LevelDebug, nil
	case "info":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	}

	return LevelInfo, fmt.Errorf("not a valid Level: %q", lvl)
}

// Field is a key/value attribute attached to a log event.
type Field struct {
	Key   string
	Value any
}

// Any creates a field with an arbitrary value.
func Any(key string, value any) Field {
	return Field{Key: key, Value: value}
}

// String creates a string field.
func String(key, value string) Field {
	return Field{Key: key, Value: value}
}

// Int creates an integer field.
func Int(key string, value int) Field {
	return Field{Key: key, Value: value}
}

// Bool creates a boolean field.
func Bool(key string, value bool) Field {
	return Field{Key: key, Value: value}
}

// Err creates the conventional `error` field.
func Err(err error) Field {
	return Field{Key: "error", Value: err}
}

// Client creates the `client` field.
func Client(id uint16) Field {
	return Field{Key: "client", Value: id}
}

// Tx creates the `tx` field.
func Tx(id uint32) Field {
	return Field{Key: "tx", Value: id}
}

// Kind creates the `type` field holding a transaction type name.
func Kind(name string) Field {
	return Field{Key: "type", Value: name}
}
