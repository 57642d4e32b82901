package logger

import (
	"log/slog"
)

// LogError logs an error message with optional key/value attributes.
func LogError(msg string, args ...interface{}) {
	slog.Error(msg, args...)
}
