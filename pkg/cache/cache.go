// Package cache 在 KV 存储之上提供类型安全的读写，值以 JSON（sonic）编码.
//
// 会话记录就保存在这里：
//
//	c := cache.NewCache(kvStore)
//	err := cache.Set(ctx, c, "session:"+id, sess, 7*24*time.Hour)
//	sess, err := cache.Get[service.Session](ctx, c, "session:"+id)
//
// 未命中时 Get 返回 kv.ErrKeyNotFound，可用 errors.Is 判断.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bytedance/sonic"

	"github.com/yeisme/filevault/pkg/internal/storage/kv"
)

// Cache 基于 KV 存储的缓存.
type Cache struct {
	kvStore kv.KVStore
	prefix  string
}

// Option 配置 Cache.
type Option func(*Cache)

// WithPrefix 为所有键加上前缀，多个应用共用一个 KV 时使用.
func WithPrefix(prefix string) Option {
	return func(c *Cache) { c.prefix = prefix }
}

// NewCache 创建缓存实例.
func NewCache(kvStore kv.KVStore, opts ...Option) *Cache {
	c := &Cache{kvStore: kvStore}
	for _, opt := range opts {
		opt(c)
	}

	return c
}

func (c *Cache) key(k string) string {
	return c.prefix + k
}

// Get 读取并解码.
func Get[T any](ctx context.Context, c *Cache, key string) (T, error) {
	var value T

	data, err := c.kvStore.Get(ctx, c.key(key))
	if err != nil {
		return value, err
	}

	if err := sonic.Unmarshal(data, &value); err != nil {
		return value, fmt.Errorf("failed to unmarshal cache value: %w", err)
	}

	return value, nil
}

// Set 编码并写入，ttl<=0 表示不过期.
func Set[T any](ctx context.Context, c *Cache, key string, value T, ttl time.Duration) error {
	data, err := sonic.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal cache value: %w", err)
	}

	return c.kvStore.Set(ctx, c.key(key), data, ttl)
}

// GetOrSet 未命中时调用 getter 并写回，写回失败不影响返回值.
func GetOrSet[T any](ctx context.Context, c *Cache, key string, getter func() (T, error), ttl time.Duration) (T, error) {
	value, err := Get[T](ctx, c, key)
	if err == nil {
		return value, nil
	}

	if !errors.Is(err, kv.ErrKeyNotFound) {
		return value, err
	}

	if value, err = getter(); err != nil {
		return value, err
	}

	_ = Set(ctx, c, key, value, ttl)

	return value, nil
}

// Delete 删除缓存键.
func (c *Cache) Delete(ctx context.Context, key string) error {
	return c.kvStore.Delete(ctx, c.key(key))
}

// Exists 检查缓存键是否存在.
func (c *Cache) Exists(ctx context.Context, key string) (bool, error) {
	return c.kvStore.Exists(ctx, c.key(key))
}

// Keys 返回匹配 pattern 的键（不含前缀）.
func (c *Cache) Keys(ctx context.Context, pattern string) ([]string, error) {
	if pattern == "" {
		pattern = "*"
	}

	keys, err := c.kvStore.Keys(ctx, c.key(pattern))
	if err != nil {
		return nil, err
	}

	for i, k := range keys {
		keys[i] = k[len(c.prefix):]
	}

	return keys, nil
}
