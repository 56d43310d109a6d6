package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/fuelcard/reclamation-service/internal/config"
)

// Redis wraps the go-redis client.
type Redis struct {
	Client *redis.Client
}

// NewRedis connects to Redis using the provided configuration.
func NewRedis(cfg config.RedisConfig, logger *zap.Logger) *Redis {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		logger.Warn("unable to reach redis", zap.Error(err))
	} else {
		logger.Info("connected to redis")
	}

	return &Redis{Client: client}
}

// Close closes the client.
func (r *Redis) Close() {
	if r != nil && r.Client != nil {
		_ = r.Client.Close()
	}
}

// Ping verifies Redis connectivity.
func (r *Redis) Ping(ctx context.Context) error {
	if r == nil || r.Client == nil {
		return errors.New("redis client not configured")
	}
	return r.Client.Ping(ctx).Err()
}

const claimKeyPrefix = "ticket:claimed_by:"

// ClaimCache is a best-effort record of who claimed a ticket, so conflict
// responses can name the claiming specialist without another DB read.
// Absence of an entry is never an error.
type ClaimCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewClaimCache builds a cache over the shared client.
func NewClaimCache(r *Redis) *ClaimCache {
	if r == nil || r.Client == nil {
		return nil
	}
	return &ClaimCache{client: r.Client, ttl: 24 * time.Hour}
}

// SetClaim records the claiming specialist's display name for a ticket.
func (c *ClaimCache) SetClaim(ctx context.Context, ticketID, specialistName string) {
	if c == nil {
		return
	}
	_ = c.client.Set(ctx, claimKeyPrefix+ticketID, specialistName, c.ttl).Err()
}

// GetClaim returns the cached claimer name, or "" when unknown.
func (c *ClaimCache) GetClaim(ctx context.Context, ticketID string) string {
	if c == nil {
		return ""
	}
	val, err := c.client.Get(ctx, claimKeyPrefix+ticketID).Result()
	if err != nil {
		return ""
	}
	return val
}
