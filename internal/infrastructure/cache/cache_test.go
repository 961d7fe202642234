package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccessKey_IgnoresGroupOrderAndDuplicates(t *testing.T) {
	setID := uuid.New()
	g1, g2 := uuid.New(), uuid.New()

	a := AccessKey(setID, []uuid.UUID{g1, g2})
	b := AccessKey(setID, []uuid.UUID{g2, g1, g2})

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, AccessKey(uuid.New(), []uuid.UUID{g1, g2}))
	assert.NotEqual(t, a, AccessKey(setID, []uuid.UUID{g1}))
}

func TestCacheKey(t *testing.T) {
	assert.Equal(t, "cache:access:abc", CacheKey(NamespaceAccess, "abc"))
}

func TestLocalCache_SetGetDelete(t *testing.T) {
	ctx := context.Background()
	c := NewLocalCache(NamespaceAccess, 16, time.Minute)

	var got bool
	assert.ErrorIs(t, c.Get(ctx, "k", &got), ErrCacheMiss)

	require.NoError(t, c.Set(ctx, "k", true))
	require.NoError(t, c.Get(ctx, "k", &got))
	assert.True(t, got)
	assert.Equal(t, 1, c.Len())

	require.NoError(t, c.Delete(ctx, "k"))
	assert.ErrorIs(t, c.Get(ctx, "k", &got), ErrCacheMiss)
}

func TestLocalCache_Expires(t *testing.T) {
	ctx := context.Background()
	c := NewLocalCache(NamespaceAccess, 16, 20*time.Millisecond)
	require.NoError(t, c.Set(ctx, "k", "v"))

	assert.Eventually(t, func() bool {
		var v string
		return errors.Is(c.Get(ctx, "k", &v), ErrCacheMiss)
	}, time.Second, 10*time.Millisecond)
}
