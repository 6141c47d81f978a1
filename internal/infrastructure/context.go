package infrastructure

import (
	"context"

	"github.com/google/uuid"
)

// NewTraceID generates a new unique trace identifier.
func NewTraceID() string {
	return uuid.New().String()
}

// EnsureTraceID returns a context that carries a trace ID, generating one
// when the incoming context has none. The second return value is the ID.
func EnsureTraceID(ctx context.Context) (context.Context, string) {
	if id := GetTraceID(ctx); id != "" {
		return ctx, id
	}
	id := NewTraceID()
	return WithTraceID(ctx, id), id
}
