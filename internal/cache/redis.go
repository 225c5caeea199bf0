package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"app/internal/domain/model"

	"github.com/redis/go-redis/v9"
)

const catalogKey = "products:catalog"

func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{
		client:  client,
		baseTTL: 30 * time.Second,
	}
}

type RedisCache struct {
	client  *redis.Client
	baseTTL time.Duration
}

func (r *RedisCache) Get(ctx context.Context) ([]model.Product, error) {
	data, err := r.client.Get(ctx, catalogKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var products []model.Product
	if err2 := json.Unmarshal(data, &products); err2 != nil {
		return nil, fmt.Errorf("unmarshal products failed: %w", err2)
	}

	return products, nil
}

func (r *RedisCache) Set(ctx context.Context, products []model.Product) error {
	data, err := json.Marshal(products)
	if err != nil {
		return fmt.Errorf("marshal products failed: %w", err)
	}

	// 同時失効を避けるためにTTLを少し散らす
	jitter := time.Duration(rand.Intn(10)) * time.Second
	ttl := r.baseTTL + jitter
	if err := r.client.Set(ctx, catalogKey, data, ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}
