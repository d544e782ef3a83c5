package log

import "github.com/webclasher/n8nwithtele3.0/internal/ports"

// NoopLogger is a logger that discards all messages. Useful in tests.
type NoopLogger struct{}

// NewNoopLogger creates a new no-op logger.
func NewNoopLogger() *NoopLogger {
	return &NoopLogger{}
}

// Debug does nothing.
func (n *NoopLogger) Debug(msg string, fields ...ports.Field) {}

// Info does nothing.
func (n *NoopLogger) Info(msg string, fields ...ports.Field) {}

// Warn does nothing.
func (n *NoopLogger) Warn(msg string, fields ...ports.Field) {}

// Error does nothing.
func (n *NoopLogger) Error(msg string, fields ...ports.Field) {}
