package repositories

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sbilibin2017/gw-identity/internal/logger"
)

const revokedSessionPrefix = "session:revoked:"

// SessionRevocationRepository keeps the ids of logged-out session tokens
// until the tokens would have expired anyway.
type SessionRevocationRepository struct {
	client *redis.Client
}

func NewSessionRevocationRepository(client *redis.Client) *SessionRevocationRepository {
	return &SessionRevocationRepository{client: client}
}

// Revoke marks the token id as revoked for ttl. A non-positive ttl is a no-op
// since the token has already expired.
func (r *SessionRevocationRepository) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if tokenID == "" || ttl <= 0 {
		return nil
	}
	key := revokedSessionPrefix + tokenID
	err := r.client.Set(ctx, key, 1, ttl).Err()

	logger.Log.Infow("session revoke", "key", key, "ttl", ttl, "error", err)

	return err
}

// IsRevoked reports whether the token id was revoked.
func (r *SessionRevocationRepository) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	if tokenID == "" {
		return false, nil
	}
	n, err := r.client.Exists(ctx, revokedSessionPrefix+tokenID).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
