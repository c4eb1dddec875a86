package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryLimiter_BurstThenRefill(t *testing.T) {
	l := NewMemoryLimiter()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		ok, err := l.Allow(ctx, "k", 3, time.Second)
		require.NoError(t, err)
		assert.True(t, ok, "request %d", i)
	}
	ok, _ := l.Allow(ctx, "k", 3, time.Second)
	assert.False(t, ok)

	now = now.Add(400 * time.Millisecond)
	ok, _ = l.Allow(ctx, "k", 3, time.Second)
	assert.True(t, ok)
}

func TestMemoryLimiter_KeysAreIndependent(t *testing.T) {
	l := NewMemoryLimiter()
	ctx := context.Background()

	ok, _ := l.Allow(ctx, "a", 1, time.Minute)
	assert.True(t, ok)
	ok, _ = l.Allow(ctx, "a", 1, time.Minute)
	assert.False(t, ok)
	ok, _ = l.Allow(ctx, "b", 1, time.Minute)
	assert.True(t, ok)
}

func TestMemoryLimiter_SweepsIdleKeys(t *testing.T) {
	l := NewMemoryLimiter()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }
	ctx := context.Background()

	_, _ = l.Allow(ctx, "old", 5, time.Second)
	now = now.Add(2 * idleTTL)
	_, _ = l.Allow(ctx, "new", 5, time.Second)

	assert.Equal(t, 1, l.Len())
}

func TestMemoryLimiter_DisabledLimit(t *testing.T) {
	ok, err := NewMemoryLimiter().Allow(context.Background(), "k", 0, time.Second)
	require.NoError(t, err)
	assert.True(t, ok)
}
