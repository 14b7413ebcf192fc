package utils

import (
	"context"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"go.mongodb.org/mongo-driver/mongo"
)

// HealthStatus is the latest dependency check: the appointment store and the
// two Redis caches the booking flow relies on.
type HealthStatus struct {
	Mongo        bool      `json:"mongo"`
	SessionCache bool      `json:"sessionCache"`
	AuthCache    bool      `json:"authCache"`
	CheckedAt    time.Time `json:"checkedAt"`
}

var (
	currentHealth HealthStatus
	mu            sync.RWMutex
)

// GetHealthStatus returns latest stored health snapshot.
func GetHealthStatus() HealthStatus {
	mu.RLock()
	defer mu.RUnlock()
	return currentHealth
}

// StartHealthMonitor performs periodic health checks and updates in-memory state.
func StartHealthMonitor(sessionCache, authCache *redis.Client, mongoClient *mongo.Client) {
	go func() {
		ticker := time.NewTicker(60 * time.Second)
		defer ticker.Stop()

		ctx := context.Background()

		for range ticker.C {
			status := HealthStatus{
				Mongo:        mongoClient.Ping(ctx, nil) == nil,
				SessionCache: sessionCache.Ping(ctx).Err() == nil,
				AuthCache:    authCache.Ping(ctx).Err() == nil,
				CheckedAt:    time.Now(),
			}

			mu.Lock()
			currentHealth = status
			mu.Unlock()
		}
	}()
}
