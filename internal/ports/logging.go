package ports

import (
	"context"

	"github.com/google/uuid"
)

// Logger is the structured logging contract shared by every layer. Calls
// take key/value pairs, must be safe for concurrent use, and pick up the
// correlation ID from ctx when one is set. Common fields:
//   - correlation_id (generated per CLI command or HTTP request)
//   - component (renderer, style_store, server, ...)
//   - mode / question_id / prt / input
type Logger interface {
	Debug(ctx context.Context, msg string, fields ...interface{})
	Info(ctx context.Context, msg string, fields ...interface{})
	Warn(ctx context.Context, msg string, fields ...interface{})
	Error(ctx context.Context, msg string, fields ...interface{})
	With(fields ...interface{}) Logger
}

type correlationIDKey struct{}

// WithCorrelationID attaches the provided correlation ID to the context so
// downstream layers can emit correlated logs.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationIDKey{}, id)
}

// GetCorrelationID extracts a correlation ID from context. It returns an empty
// string when none has been set.
func GetCorrelationID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if id, ok := ctx.Value(correlationIDKey{}).(string); ok {
		return id
	}
	return ""
}

// GenerateCorrelationID produces a new UUIDv4 string. Entry points call it
// once per command or request.
func GenerateCorrelationID() string {
	return uuid.NewString()
}
