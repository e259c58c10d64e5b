package api

import (
	"context"

	"github.com/google/uuid"
)

type requestIDKey struct{}

// WithRequestID makes outgoing API calls made under ctx reuse id as their
// X-Request-ID, so a console request and the API calls it causes share one id.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

func requestIDFrom(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey{}).(string); ok && id != "" {
		return id
	}
	return uuid.NewString()
}
