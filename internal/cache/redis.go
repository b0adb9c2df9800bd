package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/fuselink/backend/internal/logger"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisClient wraps the redis.Client with centralized connection pooling.
// The cache is optional infrastructure: callers must tolerate a nil client
// and treat every miss or error as "compute it yourself".
type RedisClient struct {
	client *redis.Client
}

// NewRedisClient creates and initializes a Redis client with connection pooling
func NewRedisClient(host, port, password string) (*RedisClient, error) {
	if host == "" {
		host = "localhost"
	}
	if port == "" {
		port = "6379"
	}

	addr := fmt.Sprintf("%s:%s", host, port)

	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           0,
		MaxRetries:   3,
		PoolSize:     10,
		MinIdleConns: 5,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		DialTimeout:  5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		logger.ErrorWithFields("Failed to connect to Redis", err)
		return nil, err
	}

	logger.Log.Info("✅ Redis client connected successfully",
		zap.String("address", addr),
	)

	return &RedisClient{client: client}, nil
}

// Get retrieves a value; returns "", false on miss or any error
func (rc *RedisClient) Get(ctx context.Context, key string) (string, bool) {
	if rc == nil || rc.client == nil {
		return "", false
	}
	val, err := rc.client.Get(ctx, key).Result()
	if err != nil {
		return "", false
	}
	return val, true
}

// Set stores a value with a TTL; failures are logged, never surfaced
func (rc *RedisClient) Set(ctx context.Context, key, value string, ttl time.Duration) {
	if rc == nil || rc.client == nil {
		return
	}
	if err := rc.client.Set(ctx, key, value, ttl).Err(); err != nil {
		logger.Log.Warn("Redis SET failed",
			zap.String("key", key),
			zap.Error(err),
		)
	}
}

// Close closes the Redis connection gracefully
func (rc *RedisClient) Close() error {
	if rc == nil || rc.client == nil {
		return nil
	}
	return rc.client.Close()
}
