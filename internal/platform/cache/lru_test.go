package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLRUCache_SetGetDelete(t *testing.T) {
	ctx := context.Background()
	c := NewLRUCache(10, time.Hour)

	require.NoError(t, c.Set(ctx, "balance:o1:a1", "100.00", time.Minute))

	v, ok, err := c.Get(ctx, "balance:o1:a1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "100.00", v)

	require.NoError(t, c.Delete(ctx, "balance:o1:a1"))
	_, ok, _ = c.Get(ctx, "balance:o1:a1")
	assert.False(t, ok)
}

func TestLRUCache_PerKeyTTL(t *testing.T) {
	ctx := context.Background()
	c := NewLRUCache(10, time.Hour)
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	require.NoError(t, c.Set(ctx, "k", "v", 10*time.Second))
	now = now.Add(11 * time.Second)

	_, ok, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len())
}

func TestLRUCache_EvictsOldest(t *testing.T) {
	ctx := context.Background()
	c := NewLRUCache(2, time.Hour)

	_ = c.Set(ctx, "a", "1", time.Minute)
	_ = c.Set(ctx, "b", "2", time.Minute)
	_ = c.Set(ctx, "c", "3", time.Minute)

	_, ok, _ := c.Get(ctx, "a")
	assert.False(t, ok)
	_, ok, _ = c.Get(ctx, "c")
	assert.True(t, ok)
}
