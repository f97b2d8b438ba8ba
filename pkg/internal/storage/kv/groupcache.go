package kv

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/golang/groupcache"

	"github.com/yeisme/filevault/pkg/configs"
)

// GroupcacheKV 基于 Groupcache 的 KV 实现.
// groupcache 中的条目不可失效，这里按 key@版本 缓存；Set 与 Delete 只修改本地版本表.
type GroupcacheKV struct {
	group *groupcache.Group
	peers *groupcache.HTTPPool

	mu      sync.RWMutex
	data    map[string]memoryEntry
	version map[string]uint64
	seq     uint64
}

type groupcacheGetter struct {
	kv *GroupcacheKV
}

// Get 从本地版本表加载 key@版本 对应的值.
func (g *groupcacheGetter) Get(_ context.Context, versioned string, dest groupcache.Sink) error {
	key, ver, ok := splitVersioned(versioned)
	if !ok {
		return ErrKeyNotFound
	}

	g.kv.mu.RLock()
	e, exists := g.kv.data[key]
	cur := g.kv.version[key]
	g.kv.mu.RUnlock()

	if !exists || cur != ver {
		return ErrKeyNotFound
	}

	if err := dest.SetBytes(e.value); err != nil {
		return fmt.Errorf("failed to set bytes to sink: %w", err)
	}

	return nil
}

func splitVersioned(s string) (string, uint64, bool) {
	for i := len(s) - 1; i >= 0; i-- {
		if s[i] == '@' {
			v, err := strconv.ParseUint(s[i+1:], 10, 64)
			if err != nil {
				return "", 0, false
			}

			return s[:i], v, true
		}
	}

	return "", 0, false
}

// groupcache 的组名进程内全局唯一.
var (
	groupsMu sync.Mutex
	groups   = map[string]*GroupcacheKV{}
)

// NewGroupcacheKV 创建 Groupcache KV 实例，同名组复用同一实例.
func NewGroupcacheKV(_ context.Context, cfg *configs.KVConfig) (KVStore, error) {
	gcConfig := cfg.Groupcache

	groupsMu.Lock()
	defer groupsMu.Unlock()

	if existing, ok := groups[gcConfig.Name]; ok {
		return existing, nil
	}

	kv := &GroupcacheKV{
		data:    make(map[string]memoryEntry),
		version: make(map[string]uint64),
	}

	kv.group = groupcache.NewGroup(gcConfig.Name, gcConfig.CacheBytes, &groupcacheGetter{kv: kv})

	if len(gcConfig.Peers) > 0 {
		kv.peers = groupcache.NewHTTPPoolOpts(gcConfig.Self, &groupcache.HTTPPoolOptions{})
		kv.peers.Set(gcConfig.Peers...)
	}

	groups[gcConfig.Name] = kv

	return kv, nil
}

// Get 获取键的值.
func (g *GroupcacheKV) Get(ctx context.Context, key string) ([]byte, error) {
	g.mu.RLock()
	e, exists := g.data[key]
	ver := g.version[key]
	g.mu.RUnlock()

	if !exists {
		return nil, ErrKeyNotFound
	}

	if e.expired(time.Now()) {
		_ = g.Delete(ctx, key)

		return nil, ErrKeyNotFound
	}

	var data []byte

	versioned := key + "@" + strconv.FormatUint(ver, 10)
	if err := g.group.Get(ctx, versioned, groupcache.AllocatingByteSliceSink(&data)); err != nil {
		return nil, fmt.Errorf("failed to get key: %w", err)
	}

	result := make([]byte, len(data))
	copy(result, data)

	return result, nil
}

// Set 设置键的值并递增版本.
func (g *GroupcacheKV) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	e := memoryEntry{value: make([]byte, len(value))}
	copy(e.value, value)

	if ttl > 0 {
		e.expireAt = time.Now().Add(ttl)
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	g.seq++
	g.data[key] = e
	g.version[key] = g.seq

	return nil
}

// Delete 删除键.
func (g *GroupcacheKV) Delete(_ context.Context, key string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	delete(g.data, key)
	delete(g.version, key)

	return nil
}

// Exists 检查键是否存在.
func (g *GroupcacheKV) Exists(_ context.Context, key string) (bool, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	e, exists := g.data[key]

	return exists && !e.expired(time.Now()), nil
}

// Keys 获取匹配的键.
func (g *GroupcacheKV) Keys(_ context.Context, pattern string) ([]string, error) {
	now := time.Now()

	g.mu.RLock()
	defer g.mu.RUnlock()

	keys := make([]string, 0, len(g.data))

	for key, e := range g.data {
		if !e.expired(now) && matchKey(pattern, key) {
			keys = append(keys, key)
		}
	}

	return keys, nil
}

// Close Groupcache 没有显式的关闭方法.
func (g *GroupcacheKV) Close() error {
	return nil
}

func init() {
	RegisterKVFactory(KVTypeGroupcache, NewGroupcacheKV)
}
