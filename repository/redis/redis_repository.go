package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	redisclient "github.com/mkravchenko/warehouse-manager/cmd/redis"
)

// ErrNoSessionStore reports that no Redis client is configured, so issued
// sessions cannot be looked up or revoked.
var ErrNoSessionStore = errors.New("redis: no session store configured")

// KeyWarehouses caches the warehouse listing.
const KeyWarehouses = "cache:warehouses"

// KeyStock caches the stock listing of one warehouse.
func KeyStock(warehouseID int64) string {
	return fmt.Sprintf("cache:stock:%d", warehouseID)
}

// Repository fronts Redis for two concerns: short-lived read caches over the
// catalog and the session store for issued tokens. Cache methods degrade to
// no-ops when no client is configured, so the core works without Redis;
// session reads report ErrNoSessionStore so callers can fall back to
// token-only validation instead of rejecting every session.
type Repository interface {
	Get(ctx context.Context, key string) (string, error)
	SetWithTTL(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	SetSession(ctx context.Context, sessionID, username string, ttl time.Duration) error
	GetSession(ctx context.Context, sessionID string) (string, error)
	DeleteSession(ctx context.Context, sessionID string) error
}

type redis struct{}

// NewRepository returns a Redis Repository implementation
func NewRepository() Repository {
	return &redis{}
}

func (r *redis) Get(ctx context.Context, key string) (string, error) {
	client := redisclient.Get()
	if client == nil {
		return "", nil
	}
	val, err := client.Get(ctx, key).Result()
	if err != nil {
		return "", err
	}
	return val, nil
}

func (r *redis) SetWithTTL(ctx context.Context, key, value string, ttl time.Duration) error {
	client := redisclient.Get()
	if client == nil {
		return nil
	}
	return client.Set(ctx, key, value, ttl).Err()
}

func (r *redis) Delete(ctx context.Context, keys ...string) error {
	client := redisclient.Get()
	if client == nil || len(keys) == 0 {
		return nil
	}
	return client.Del(ctx, keys...).Err()
}

func (r *redis) SetSession(ctx context.Context, sessionID, username string, ttl time.Duration) error {
	client := redisclient.Get()
	if client == nil {
		return nil
	}
	return client.Set(ctx, "session:"+sessionID, username, ttl).Err()
}

func (r *redis) GetSession(ctx context.Context, sessionID string) (string, error) {
	client := redisclient.Get()
	if client == nil {
		return "", ErrNoSessionStore
	}
	return client.Get(ctx, "session:"+sessionID).Result()
}

func (r *redis) DeleteSession(ctx context.Context, sessionID string) error {
	client := redisclient.Get()
	if client == nil {
		return nil
	}
	return client.Del(ctx, "session:"+sessionID).Err()
}
