package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// アクセス判定キャッシュはミス時にDBへ落ちるため、タイムアウトは短めにする
const (
	defaultDialTimeout = 2 * time.Second
	defaultIOTimeout   = 500 * time.Millisecond
	pingTimeout        = 5 * time.Second
)

// ClientOption はredis.Optionsを上書きします
type ClientOption func(*redis.Options)

// WithPoolSize は最大接続数を設定します
func WithPoolSize(n int) ClientOption {
	return func(o *redis.Options) {
		o.PoolSize = n
	}
}

// WithTimeouts は接続と読み書きのタイムアウトを設定します
func WithTimeouts(dial, io time.Duration) ClientOption {
	return func(o *redis.Options) {
		o.DialTimeout = dial
		o.ReadTimeout = io
		o.WriteTimeout = io
	}
}

// RedisClient はアクセス判定キャッシュ用のRedis接続です
type RedisClient struct {
	client *redis.Client
}

// NewRedisClient はURLからRedisClientを作成し、接続を確認します
// url は redis://[:password@]host:port/db 形式
func NewRedisClient(ctx context.Context, url string, opts ...ClientOption) (*RedisClient, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	opt.MaxRetries = 1
	opt.MinIdleConns = 2
	opt.ConnMaxIdleTime = 5 * time.Minute
	opt.DialTimeout = defaultDialTimeout
	opt.ReadTimeout = defaultIOTimeout
	opt.WriteTimeout = defaultIOTimeout
	for _, o := range opts {
		o(opt)
	}

	client := redis.NewClient(opt)

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return &RedisClient{client: client}, nil
}

// NewCache は名前空間付きのキャッシュを作成します
func (r *RedisClient) NewCache(namespace string, ttl time.Duration) *Cache {
	return NewCache(r.client, namespace, ttl)
}

// Close はRedis接続を閉じます
func (r *RedisClient) Close() error {
	return r.client.Close()
}

// Health はRedisの接続状態を確認します
func (r *RedisClient) Health(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
