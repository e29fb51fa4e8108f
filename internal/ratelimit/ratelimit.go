// Package ratelimit caps how often a client may hit the messaging endpoints.
package ratelimit

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// Counter increments the hit count for key within a fixed window.
type Counter interface {
	Hit(ctx context.Context, key string, window time.Duration) (int64, error)
}

// RedisCounter keeps fixed-window counters in Redis.
type RedisCounter struct {
	client *redis.Client
}

// NewRedisCounter connects to addr and checks the connection.
func NewRedisCounter(ctx context.Context, addr string) (*RedisCounter, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis %s: %w", addr, err)
	}
	return &RedisCounter{client: client}, nil
}

func (r *RedisCounter) Hit(ctx context.Context, key string, window time.Duration) (int64, error) {
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

// Close releases the Redis connection pool.
func (r *RedisCounter) Close() error {
	return r.client.Close()
}

// Middleware allows limit requests per client IP and minute. Counter
// failures let the request through.
func Middleware(counter Counter, limit int, logger *log.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return func(c *gin.Context) {
		key := "ratelimit:" + c.FullPath() + ":" + c.ClientIP()
		count, err := counter.Hit(c.Request.Context(), key, time.Minute)
		if err != nil {
			logger.Printf("ratelimit: key=%s err=%v", key, err)
			c.Next()
			return
		}
		if count > int64(limit) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Too Many Requests"})
			return
		}
		c.Next()
	}
}
