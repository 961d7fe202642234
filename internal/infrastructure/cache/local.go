package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// LocalCache はプロセス内のLRUキャッシュです
// Redisが設定されていない環境で Store として使います
type LocalCache struct {
	lru       *expirable.LRU[string, []byte]
	namespace string
}

// NewLocalCache は新しいLocalCacheを作成します
func NewLocalCache(namespace string, size int, ttl time.Duration) *LocalCache {
	if size <= 0 {
		size = 1024
	}
	return &LocalCache{
		lru:       expirable.NewLRU[string, []byte](size, nil, ttl),
		namespace: namespace,
	}
}

// Get はキャッシュから値を取得します
func (c *LocalCache) Get(_ context.Context, key string, dest interface{}) error {
	data, ok := c.lru.Get(CacheKey(c.namespace, key))
	if !ok {
		return ErrCacheMiss
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("failed to unmarshal cache data: %w", err)
	}
	return nil
}

// Set はキャッシュに値を設定します
func (c *LocalCache) Set(_ context.Context, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal cache data: %w", err)
	}
	c.lru.Add(CacheKey(c.namespace, key), data)
	return nil
}

// Delete はキャッシュから値を削除します
func (c *LocalCache) Delete(_ context.Context, key string) error {
	c.lru.Remove(CacheKey(c.namespace, key))
	return nil
}

// Len は保持しているエントリ数を返します
func (c *LocalCache) Len() int {
	return c.lru.Len()
}

var _ Store = (*LocalCache)(nil)
