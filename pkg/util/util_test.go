package util

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestID(t *testing.T) {
	t.Run("keeps the given id", func(t *testing.T) {
		ctx := WithRequestID(context.Background(), "req-1")
		assert.Equal(t, "req-1", GetRequestID(ctx))
	})

	t.Run("generates a uuid when empty", func(t *testing.T) {
		ctx := WithRequestID(context.Background(), "")
		_, err := uuid.Parse(GetRequestID(ctx))
		require.NoError(t, err)
	})

	t.Run("missing id", func(t *testing.T) {
		assert.Empty(t, GetRequestID(context.Background()))
	})
}

func TestFields(t *testing.T) {
	ctx := WithActorID(WithClientIP(WithRequestID(context.Background(), "req-1"), "10.0.0.1"), "acc-1")

	assert.Equal(t, map[string]interface{}{
		"request_id": "req-1",
		"client_ip":  "10.0.0.1",
		"actor_id":   "acc-1",
	}, Fields(ctx))
}
