package cache

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// KeyPrefix namespaces every response cache entry.
const KeyPrefix = "bookit:resp:"

type Config struct {
	Addr     string
	Password string
	TTL      time.Duration
}

// Enabled reports whether a Valkey/Redis address was configured.
func (c Config) Enabled() bool {
	return c.Addr != ""
}

type ValkeyClient struct {
	client *redis.Client
	ttl    time.Duration
}

func NewValkeyClient(cfg Config) (*ValkeyClient, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           0,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
		DialTimeout:  5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to Valkey: %w", err)
	}

	return NewWithClient(rdb, cfg.TTL), nil
}

// NewWithClient wraps an existing go-redis client.
func NewWithClient(rdb *redis.Client, ttl time.Duration) *ValkeyClient {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &ValkeyClient{client: rdb, ttl: ttl}
}

// Key hashes a request identity into a bounded cache key.
func Key(parts ...string) string {
	h := sha1.New()
	for _, p := range parts {
		h.Write([]byte(p))
		h.Write([]byte{'|'})
	}
	return KeyPrefix + hex.EncodeToString(h.Sum(nil))
}

// Get returns the cached value and whether it was found.
func (v *ValkeyClient) Get(ctx context.Context, key string) ([]byte, bool, error) {
	b, err := v.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("cache lookup error: %w", err)
	}
	return b, true, nil
}

func (v *ValkeyClient) Set(ctx context.Context, key string, value []byte) error {
	if err := v.client.Set(ctx, key, value, v.ttl).Err(); err != nil {
		return fmt.Errorf("cache store error: %w", err)
	}
	return nil
}

// PurgeAll drops every response cache entry and returns how many were removed.
func (v *ValkeyClient) PurgeAll(ctx context.Context) (int, error) {
	removed := 0
	iter := v.client.Scan(ctx, 0, KeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		if err := v.client.Del(ctx, iter.Val()).Err(); err != nil {
			return removed, fmt.Errorf("cache purge error: %w", err)
		}
		removed++
	}
	if err := iter.Err(); err != nil {
		return removed, fmt.Errorf("cache scan error: %w", err)
	}
	return removed, nil
}

func (v *ValkeyClient) Ping(ctx context.Context) error {
	return v.client.Ping(ctx).Err()
}

func (v *ValkeyClient) Close() error {
	return v.client.Close()
}
