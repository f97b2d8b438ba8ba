package kv_test

import (
	"context"
	crand "crypto/rand"
	"fmt"
	"os"
	"sort"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yeisme/filevault/pkg/configs"
	"github.com/yeisme/filevault/pkg/internal/storage/kv"
)

var groupSeq atomic.Int64

// backends 返回可在本地运行的实现，Redis 与 NATS 需显式开启.
func backends(t testing.TB) map[string]kv.KVStore {
	t.Helper()

	ctx := context.Background()
	out := map[string]kv.KVStore{}

	open := func(name string, cfg *configs.KVConfig) {
		store, err := kv.New(ctx, cfg)
		require.NoError(t, err, name)
		t.Cleanup(func() { _ = store.Close() })
		out[name] = store
	}

	open("memory", &configs.KVConfig{Type: "memory"})
	open("groupcache", &configs.KVConfig{Type: "groupcache", Groupcache: configs.GroupcacheKVConfig{
		Name:       fmt.Sprintf("test-groupcache-%d", groupSeq.Add(1)),
		CacheBytes: 8 * 1024 * 1024,
	}})
	open("badger", &configs.KVConfig{Type: "badger", Badger: configs.BadgerKVConfig{InMemory: true}})

	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		open("redis", &configs.KVConfig{Type: "redis", Redis: configs.RedisKVConfig{Addr: addr}})
	}

	if url := os.Getenv("NATS_URL"); url != "" {
		open("nats", &configs.KVConfig{Type: "nats", NATS: configs.NATSKVConfig{URL: url, Bucket: "filevault-test"}})
	}

	return out
}

func TestKVContract(t *testing.T) {
	for name, store := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			_, err := store.Get(ctx, "session:missing")
			require.ErrorIs(t, err, kv.ErrKeyNotFound)

			require.NoError(t, store.Set(ctx, "session:a", []byte("v1"), 0))
			require.NoError(t, store.Set(ctx, "session:b", []byte("v2"), time.Hour))
			require.NoError(t, store.Set(ctx, "other:c", []byte("v3"), 0))

			got, err := store.Get(ctx, "session:a")
			require.NoError(t, err)
			assert.Equal(t, []byte("v1"), got)

			require.NoError(t, store.Set(ctx, "session:a", []byte("v1b"), 0))
			got, err = store.Get(ctx, "session:a")
			require.NoError(t, err)
			assert.Equal(t, []byte("v1b"), got)

			ok, err := store.Exists(ctx, "session:b")
			require.NoError(t, err)
			assert.True(t, ok)

			keys, err := store.Keys(ctx, "session*")
			require.NoError(t, err)
			sort.Strings(keys)
			assert.Len(t, keys, 2)

			require.NoError(t, store.Delete(ctx, "session:a"))
			_, err = store.Get(ctx, "session:a")
			require.ErrorIs(t, err, kv.ErrKeyNotFound)

			require.NoError(t, kv.HealthCheck(ctx, store))
		})
	}
}

func TestMemoryKVExpiry(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemory()

	require.NoError(t, store.Set(ctx, "k", []byte("v"), 20*time.Millisecond))

	_, err := store.Get(ctx, "k")
	require.NoError(t, err)

	time.Sleep(40 * time.Millisecond)

	_, err = store.Get(ctx, "k")
	require.ErrorIs(t, err, kv.ErrKeyNotFound)

	ok, err := store.Exists(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRegisteredTypes(t *testing.T) {
	types := kv.GetRegisteredKVTypes()
	assert.Contains(t, types, kv.KVTypeMemory)
	assert.Contains(t, types, kv.KVTypeBadger)
	assert.Contains(t, types, kv.KVTypeGroupcache)

	_, err := kv.New(context.Background(), &configs.KVConfig{Type: "etcd"})
	assert.Error(t, err)
}

func BenchmarkKV(b *testing.B) {
	payload := make([]byte, 1024)
	_, _ = crand.Read(payload)

	ctx := context.Background()

	for name, store := range backends(b) {
		b.Run(name, func(b *testing.B) {
			b.ReportAllocs()

			for i := 0; b.Loop(); i++ {
				key := fmt.Sprintf("bench-%s-%d", name, i)
				if err := store.Set(ctx, key, payload, 5*time.Second); err != nil {
					b.Fatalf("set failed: %v", err)
				}

				if _, err := store.Get(ctx, key); err != nil {
					b.Fatalf("get failed: %v", err)
				}

				if err := store.Delete(ctx, key); err != nil {
					b.Fatalf("delete failed: %v", err)
				}
			}
		})
	}
}
