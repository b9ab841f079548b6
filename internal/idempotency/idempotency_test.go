package idempotency_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"eventdesk/internal/idempotency"
)

func TestKeys(t *testing.T) {
	ctx := context.Background()

	_, ok := idempotency.KeyFromContext(ctx)
	assert.False(t, ok)
	assert.NotEqual(t, idempotency.GetKey(ctx), idempotency.GetKey(ctx))

	ctx, key := idempotency.NewSubmission(ctx)
	assert.NotEmpty(t, key)
	assert.Equal(t, key, idempotency.GetKey(ctx))
	assert.Equal(t, key, idempotency.GetKey(ctx))

	_, other := idempotency.NewSubmission(context.Background())
	assert.NotEqual(t, key, other)
}
