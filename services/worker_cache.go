package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"household-help-server/models"
)

// WorkerCache stores directory listings. GetWorkers resolves key against the current generation and
// returns the resolved key, which SetWorkers must be given back; Invalidate bumps the generation, so a
// listing read before a write is filed under a retired key and never served.
type WorkerCache interface {
	GetWorkers(ctx context.Context, key string) (workers []models.Worker, resolvedKey string, ok bool)
	SetWorkers(ctx context.Context, resolvedKey string, workers []models.Worker)
	Invalidate(ctx context.Context)
}

const workerCacheGenerationKey = "workers:generation"

// RedisWorkerCache keys listings by a generation counter; bumping the counter retires all of them at once
type RedisWorkerCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisWorkerCache(client *redis.Client, ttl time.Duration) *RedisWorkerCache {
	return &RedisWorkerCache{client: client, ttl: ttl}
}

func (c *RedisWorkerCache) key(ctx context.Context, key string) (string, error) {
	generation, err := c.client.Get(ctx, workerCacheGenerationKey).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		return "", err
	}
	return fmt.Sprintf("workers:v%d:%s", generation, key), nil
}

// GetWorkers returns an empty resolved key when the generation cannot be read; nothing is stored then.
func (c *RedisWorkerCache) GetWorkers(ctx context.Context, key string) ([]models.Worker, string, bool) {
	fullKey, err := c.key(ctx, key)
	if err != nil {
		log.Printf("[CACHE] Failed to read generation: %v", err)
		return nil, "", false
	}
	data, err := c.client.Get(ctx, fullKey).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Printf("[CACHE] Failed to get %s: %v", fullKey, err)
		}
		return nil, fullKey, false
	}
	var workers []models.Worker
	if err := json.Unmarshal(data, &workers); err != nil {
		log.Printf("[CACHE] Failed to unmarshal %s: %v", fullKey, err)
		return nil, fullKey, false
	}
	return workers, fullKey, true
}

func (c *RedisWorkerCache) SetWorkers(ctx context.Context, resolvedKey string, workers []models.Worker) {
	if resolvedKey == "" {
		return
	}
	data, err := json.Marshal(workers)
	if err != nil {
		log.Printf("[CACHE] Failed to marshal workers: %v", err)
		return
	}
	if err := c.client.Set(ctx, resolvedKey, data, c.ttl).Err(); err != nil {
		log.Printf("[CACHE] Failed to set %s: %v", resolvedKey, err)
	}
}

func (c *RedisWorkerCache) Invalidate(ctx context.Context) {
	if err := c.client.Incr(ctx, workerCacheGenerationKey).Err(); err != nil {
		log.Printf("[CACHE] Failed to bump worker generation: %v", err)
	}
}
