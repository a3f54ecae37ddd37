// File: utils/cache.go
package utils

import (
	"context"
	"log"
	"time"

	"salonbook/config"

	"github.com/go-redis/redis/v8"
)

var (
	// LockClient backs the per-calendar advisory locks.
	LockClient *redis.Client
	// QueueClient is used to watch the reminder queue database.
	QueueClient *redis.Client
)

func newRedisClient(db int, name string) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       db,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := client.Ping(ctx).Result(); err != nil {
		log.Fatalf("Failed to connect to Redis (%s): %v", name, err)
	}
	return client
}

// InitRedis initializes every Redis client the service uses.
func InitRedis() {
	LockClient = newRedisClient(config.AppConfig.RedisLockDB, "Lock")
	QueueClient = newRedisClient(config.AppConfig.RedisQueueDB, "Queue")
}

// GetLockClient returns the Redis client for calendar locks.
func GetLockClient() *redis.Client {
	if LockClient == nil {
		LockClient = newRedisClient(config.AppConfig.RedisLockDB, "Lock")
	}
	return LockClient
}

// GetQueueClient returns the Redis client for the reminder queue database.
func GetQueueClient() *redis.Client {
	if QueueClient == nil {
		QueueClient = newRedisClient(config.AppConfig.RedisQueueDB, "Queue")
	}
	return QueueClient
}
