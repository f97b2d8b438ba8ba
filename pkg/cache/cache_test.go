package cache_test

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yeisme/filevault/pkg/cache"
	"github.com/yeisme/filevault/pkg/internal/storage/kv"
)

type record struct {
	UserID   uint      `json:"user_id"`
	Username string    `json:"username"`
	Expires  time.Time `json:"expires"`
}

func TestSetGetDelete(t *testing.T) {
	ctx := context.Background()
	c := cache.NewCache(kv.NewMemory())

	_, err := cache.Get[record](ctx, c, "session:none")
	require.ErrorIs(t, err, kv.ErrKeyNotFound)

	want := record{UserID: 1, Username: "alice", Expires: time.Now().UTC().Truncate(time.Second)}
	require.NoError(t, cache.Set(ctx, c, "session:1", want, time.Hour))

	got, err := cache.Get[record](ctx, c, "session:1")
	require.NoError(t, err)
	assert.Equal(t, want.Username, got.Username)
	assert.True(t, want.Expires.Equal(got.Expires))

	ok, err := c.Exists(ctx, "session:1")
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, c.Delete(ctx, "session:1"))

	ok, err = c.Exists(ctx, "session:1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPrefixIsolation(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemory()

	a := cache.NewCache(store, cache.WithPrefix("a:"))
	b := cache.NewCache(store, cache.WithPrefix("b:"))

	require.NoError(t, cache.Set(ctx, a, "k1", 1, 0))
	require.NoError(t, cache.Set(ctx, a, "k2", 2, 0))
	require.NoError(t, cache.Set(ctx, b, "k1", 10, 0))

	v, err := cache.Get[int](ctx, b, "k1")
	require.NoError(t, err)
	assert.Equal(t, 10, v)

	keys, err := a.Keys(ctx, "")
	require.NoError(t, err)
	sort.Strings(keys)
	assert.Equal(t, []string{"k1", "k2"}, keys)
}

func TestGetOrSet(t *testing.T) {
	ctx := context.Background()
	c := cache.NewCache(kv.NewMemory())
	calls := 0

	getter := func() (int, error) {
		calls++

		return 42, nil
	}

	for range 2 {
		v, err := cache.GetOrSet(ctx, c, "answer", getter, time.Minute)
		require.NoError(t, err)
		assert.Equal(t, 42, v)
	}

	assert.Equal(t, 1, calls)

	_, err := cache.GetOrSet(ctx, c, "broken", func() (int, error) { return 0, errors.New("db down") }, 0)
	assert.EqualError(t, err, "db down")
}
