// File: utils/cache.go
package utils

import (
	"context"
	"time"

	"mobilemech/config"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// InitCache initializes the Redis cache client. It returns nil when no
// redis address is configured or the server does not answer a ping.
func InitCache() *redis.Client {
	if !config.UseRedis() {
		GetLogger().Info("Redis not configured; catalog cache disabled")
		return nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisCacheDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		GetLogger().Warn("Failed to connect to Redis (Cache); continuing without cache", zap.Error(err))
		_ = client.Close()
		return nil
	}
	return client
}
