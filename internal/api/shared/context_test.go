package shared

import (
	"context"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetTraceID(t *testing.T) {
	t.Parallel()

	t.Run("generates_hex_trace_id", func(t *testing.T) {
		t.Parallel()

		ctx := SetTraceID(context.Background())
		traceID := GetTraceID(ctx)

		require.NotEmpty(t, traceID)
		assert.Len(t, traceID, 2*TraceIDLength)

		_, err := hex.DecodeString(traceID)
		assert.NoError(t, err, "trace ID must be valid hex")
	})

	t.Run("generates_unique_ids", func(t *testing.T) {
		t.Parallel()

		seen := make(map[string]bool)
		for i := 0; i < 100; i++ {
			seen[GetTraceID(SetTraceID(context.Background()))] = true
		}
		assert.Len(t, seen, 100)
	})
}

func TestGetTraceID(t *testing.T) {
	t.Parallel()

	t.Run("returns_empty_without_trace", func(t *testing.T) {
		t.Parallel()
		assert.Empty(t, GetTraceID(context.Background()))
	})

	t.Run("returns_empty_for_wrong_type", func(t *testing.T) {
		t.Parallel()

		ctx := context.WithValue(context.Background(), TraceIDKey, 12345)
		assert.Empty(t, GetTraceID(ctx))
	})
}
