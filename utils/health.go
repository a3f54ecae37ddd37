package utils

import (
	"context"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"go.mongodb.org/mongo-driver/mongo"
)

// HealthStatus represents current status of external services.
type HealthStatus struct {
	Store     string    `json:"store"`
	Mongo     bool      `json:"mongo"`
	Redis     []bool    `json:"redis"`
	CheckedAt time.Time `json:"checkedAt"`
}

// Healthy reports whether every dependency answered the last probe.
func (h HealthStatus) Healthy() bool {
	if h.Store == "mongo" && !h.Mongo {
		return false
	}
	for _, ok := range h.Redis {
		if !ok {
			return false
		}
	}
	return true
}

var (
	currentHealth = HealthStatus{Store: "memory", Mongo: false}
	mu            sync.RWMutex
)

// GetHealthStatus returns latest stored health snapshot.
func GetHealthStatus() HealthStatus {
	mu.RLock()
	defer mu.RUnlock()
	return currentHealth
}

func probe(ctx context.Context, redisClients []*redis.Client, mongoClient *mongo.Client) HealthStatus {
	status := HealthStatus{Store: "memory", CheckedAt: time.Now()}
	for _, client := range redisClients {
		status.Redis = append(status.Redis, client.Ping(ctx).Err() == nil)
	}
	if mongoClient != nil {
		status.Store = "mongo"
		status.Mongo = mongoClient.Ping(ctx, nil) == nil
	}
	return status
}

// StartHealthMonitor performs periodic health checks and updates in-memory state.
// mongoClient may be nil when the in-memory store is in use.
func StartHealthMonitor(ctx context.Context, interval time.Duration, redisClients []*redis.Client, mongoClient *mongo.Client) {
	update := func() {
		pctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		status := probe(pctx, redisClients, mongoClient)
		mu.Lock()
		currentHealth = status
		mu.Unlock()
	}
	update()

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				update()
			}
		}
	}()
}
