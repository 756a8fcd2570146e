package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// counterStore é o contador de janela fixa por trás do rate limiter
type counterStore interface {
	// Incr incrementa a chave e arma a expiração quando ela acabou de nascer.
	// Retorna o valor após o incremento.
	Incr(ctx context.Context, key string, window time.Duration) (int64, error)
}

// redisCounter implementa counterStore com INCR + EXPIRE
type redisCounter struct {
	client *redis.Client
}

// NewRedisCounter cria uma nova instância de redisCounter
func NewRedisCounter(client *redis.Client) counterStore {
	return &redisCounter{client: client}
}

func (r *redisCounter) Incr(ctx context.Context, key string, window time.Duration) (int64, error) {
	count, err := r.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	if count == 1 {
		if err := r.client.Expire(ctx, key, window).Err(); err != nil {
			return count, err
		}
	}
	return count, nil
}

// RateLimit limita as rotas de autenticação por IP em janela fixa.
// Falha do contador não bloqueia a requisição (fail-open).
func RateLimit(store counterStore, limit int64, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := "ratelimit:" + c.FullPath() + ":" + c.ClientIP()

		count, err := store.Incr(c.Request.Context(), key, window)
		if err != nil {
			log.Printf("⚠️ RATE LIMITER UNAVAILABLE: %v", err)
			c.Next()
			return
		}

		if count > limit {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"status":         "fail",
				"message":        "Too many requests, slow down",
				"limit":          limit,
				"window_seconds": int(window.Seconds()),
				"correlation_id": CorrelationID(c),
			})
			return
		}
		c.Next()
	}
}
