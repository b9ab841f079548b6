package idempotency

import (
	"context"

	"github.com/google/uuid"
)

type ctxKey struct{}

// WithKey attaches the key sent as Idempotency-Key on the next mutating call.
// One key belongs to one user-initiated submission.
func WithKey(ctx context.Context, key string) context.Context {
	return context.WithValue(ctx, ctxKey{}, key)
}

// NewSubmission attaches a fresh key and returns it.
func NewSubmission(ctx context.Context) (context.Context, string) {
	key := uuid.NewString()
	return WithKey(ctx, key), key
}

func GetKey(ctx context.Context) string {
	key, ok := KeyFromContext(ctx)
	if !ok {
		return uuid.NewString()
	}

	return key
}

// KeyFromContext returns the key of the current submission, if any.
func KeyFromContext(ctx context.Context) (string, bool) {
	key, ok := ctx.Value(ctxKey{}).(string)
	return key, ok
}
