// Package cache stores answers in Redis keyed by a hash of scope and question.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/RoySYH/RAG-based-Agentic-AI/internal/appconfig"
	"github.com/RoySYH/RAG-based-Agentic-AI/internal/logging"
)

// DefaultKeyPrefix namespaces cached answers.
const DefaultKeyPrefix = "ragagent:answer:"

// Entry is a cached answer.
type Entry struct {
	Question string    `json:"question"`
	Answer   string    `json:"answer"`
	Route    string    `json:"route"`
	Model    string    `json:"model"`
	CachedAt time.Time `json:"cached_at"`
}

// QueryCache reads and writes answers in Redis.
type QueryCache struct {
	client    *redis.Client
	ttl       time.Duration
	keyPrefix string
}

// NewClient opens a Redis client for cfg and pings it.
func NewClient(ctx context.Context, cfg appconfig.Redis) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect to redis at %s: %w", cfg.Addr, err)
	}
	return client, nil
}

// NewQueryCache wraps client. An empty keyPrefix uses DefaultKeyPrefix.
func NewQueryCache(client *redis.Client, ttl time.Duration, keyPrefix string) *QueryCache {
	if keyPrefix == "" {
		keyPrefix = DefaultKeyPrefix
	}
	return &QueryCache{client: client, ttl: ttl, keyPrefix: keyPrefix}
}

// Key returns the Redis key for a scope and question. The scope carries the
// model and anything else the answer depends on.
func (c *QueryCache) Key(scope, question string) string {
	sum := sha256.Sum256([]byte(scope + "\x00" + question))
	return c.keyPrefix + hex.EncodeToString(sum[:])
}

// Get returns the cached entry, reporting false on a miss.
// A corrupt entry is deleted and reported as a miss.
func (c *QueryCache) Get(ctx context.Context, scope, question string) (Entry, bool, error) {
	key := c.Key(scope, question)
	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		logging.LogDebug("cache miss key=%s", key)
		return Entry{}, false, nil
	}
	if err != nil {
		return Entry{}, false, fmt.Errorf("cache get: %w", err)
	}

	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		logging.LogEvent("cache entry %s is corrupt, deleting: %v", key, err)
		_ = c.client.Del(ctx, key).Err()
		return Entry{}, false, nil
	}
	logging.LogDebug("cache hit key=%s", key)
	return entry, true, nil
}

// Set stores entry for the scope and question with the configured TTL.
func (c *QueryCache) Set(ctx context.Context, scope, question string, entry Entry) error {
	if entry.CachedAt.IsZero() {
		entry.CachedAt = time.Now().UTC()
	}
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("cache marshal: %w", err)
	}
	if err := c.client.Set(ctx, c.Key(scope, question), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache set: %w", err)
	}
	return nil
}

// Clear deletes every key under the cache prefix and returns how many were removed.
func (c *QueryCache) Clear(ctx context.Context) (int, error) {
	iter := c.client.Scan(ctx, 0, c.keyPrefix+"*", 0).Iterator()
	deleted := 0
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			return deleted, fmt.Errorf("cache delete %s: %w", iter.Val(), err)
		}
		deleted++
	}
	if err := iter.Err(); err != nil {
		return deleted, fmt.Errorf("cache scan: %w", err)
	}
	logging.LogEvent("cleared %d cached answers", deleted)
	return deleted, nil
}

// Close closes the Redis client.
func (c *QueryCache) Close() error {
	return c.client.Close()
}
