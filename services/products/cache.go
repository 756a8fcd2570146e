package main

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache é o side-channel de leitura do catálogo. Falhas de cache nunca
// afetam a resposta: o banco continua sendo a fonte da verdade.
type Cache interface {
	Get(ctx context.Context, key string, dest interface{}) bool
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration)
	Delete(ctx context.Context, keys ...string)
}

// RedisCache implementa Cache usando Redis
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache cria uma nova instância de RedisCache
func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{client: client}
}

func (c *RedisCache) Get(ctx context.Context, key string, dest interface{}) bool {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		return false
	}
	return json.Unmarshal(data, dest) == nil
}

func (c *RedisCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) {
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	c.client.Set(ctx, key, data, ttl)
}

func (c *RedisCache) Delete(ctx context.Context, keys ...string) {
	if len(keys) == 0 {
		return
	}
	c.client.Del(ctx, keys...)
}

func productCacheKey(productID string) string {
	return fmt.Sprintf("product:%s", productID)
}

func listCacheKey(f ProductFilter) string {
	min, max := "", ""
	if f.PriceMin != nil {
		min = fmt.Sprintf("%g", *f.PriceMin)
	}
	if f.PriceMax != nil {
		max = fmt.Sprintf("%g", *f.PriceMax)
	}
	return fmt.Sprintf("products:all:%s:%s:%s:%s:%s:%s:%d:%d",
		f.Search, f.Category, min, max, f.SortBy, f.SortOrder, f.Page, f.Size)
}
