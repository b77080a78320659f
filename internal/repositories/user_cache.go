package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sbilibin2017/gw-identity/internal/logger"
	"github.com/sbilibin2017/gw-identity/internal/models"
)

const userKeyPrefix = "user:"

// UserCacheKey returns the cache key of the user with the given id.
func UserCacheKey(id int64) string {
	return fmt.Sprintf("%s%d", userKeyPrefix, id)
}

// userEntry is the cached form of a user row. Unlike models.User it keeps
// the password hash so a cached record mirrors the stored one.
type userEntry struct {
	ID          int64      `json:"id"`
	Username    string     `json:"username"`
	Email       string     `json:"email"`
	Name        string     `json:"name"`
	Password    string     `json:"password"`
	IsAdmin     bool       `json:"is_admin"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	LastLoginAt *time.Time `json:"last_login_at"`
}

func toEntry(u *models.User) userEntry {
	return userEntry{
		ID:          u.ID,
		Username:    u.Username,
		Email:       u.Email,
		Name:        u.Name,
		Password:    u.Password,
		IsAdmin:     u.IsAdmin,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
		LastLoginAt: u.LastLoginAt,
	}
}

func (e userEntry) user() *models.User {
	return &models.User{
		ID:          e.ID,
		Username:    e.Username,
		Email:       e.Email,
		Name:        e.Name,
		Password:    e.Password,
		IsAdmin:     e.IsAdmin,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
		LastLoginAt: e.LastLoginAt,
	}
}

// UserCacheRepository caches user records in Redis.
type UserCacheRepository struct {
	client *redis.Client
}

// NewUserCacheRepository creates a new repository instance.
func NewUserCacheRepository(client *redis.Client) *UserCacheRepository {
	return &UserCacheRepository{client: client}
}

// Get returns the cached user, or nil on a miss.
func (r *UserCacheRepository) Get(ctx context.Context, id int64) (*models.User, error) {
	key := UserCacheKey(id)

	val, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		logger.Log.Debugw("cache miss", "key", key)
		return nil, nil
	}
	if err != nil {
		logger.Log.Infow("cache get", "key", key, "error", err)
		return nil, err
	}

	var entry userEntry
	if err := json.Unmarshal(val, &entry); err != nil {
		logger.Log.Infow("cache decode", "key", key, "error", err)
		return nil, err
	}

	logger.Log.Debugw("cache hit", "key", key)
	return entry.user(), nil
}

// Set stores u under its id with the given expiration.
func (r *UserCacheRepository) Set(ctx context.Context, u *models.User, ttl time.Duration) error {
	key := UserCacheKey(u.ID)

	data, err := json.Marshal(toEntry(u))
	if err != nil {
		return err
	}

	err = r.client.Set(ctx, key, data, ttl).Err()

	logger.Log.Infow("cache set", "key", key, "ttl", ttl, "error", err)

	return err
}

// Del removes the cached user; a missing key is not an error.
func (r *UserCacheRepository) Del(ctx context.Context, id int64) error {
	key := UserCacheKey(id)

	n, err := r.client.Del(ctx, key).Result()

	logger.Log.Infow("cache del", "key", key, "result", n, "error", err)

	return err
}

// Clear removes every cached user and returns how many keys were deleted.
func (r *UserCacheRepository) Clear(ctx context.Context) (int64, error) {
	var (
		cursor  uint64
		deleted int64
	)
	for {
		keys, next, err := r.client.Scan(ctx, cursor, userKeyPrefix+"*", 100).Result()
		if err != nil {
			logger.Log.Infow("cache clear", "result", deleted, "error", err)
			return deleted, err
		}
		if len(keys) > 0 {
			n, err := r.client.Del(ctx, keys...).Result()
			deleted += n
			if err != nil {
				logger.Log.Infow("cache clear", "result", deleted, "error", err)
				return deleted, err
			}
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}

	logger.Log.Infow("cache clear", "result", deleted, "error", nil)
	return deleted, nil
}
