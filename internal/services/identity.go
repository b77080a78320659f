package services

//go:generate mockgen -source=identity.go -destination=identity_mock.go -package=services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sbilibin2017/gw-identity/internal/logger"
	"github.com/sbilibin2017/gw-identity/internal/models"
	"github.com/sbilibin2017/gw-identity/internal/repositories"
	"golang.org/x/sync/errgroup"
)

// Error variables
var (
	ErrUserAlreadyExists  = errors.New("username or email already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid username or password")
)

// cacheWriteTimeout bounds cache mutations that follow a committed store write.
const cacheWriteTimeout = 2 * time.Second

// UserReader defines read-only operations on the user store.
type UserReader interface {
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
}

// UserWriter defines write operations on the user store.
type UserWriter interface {
	Create(ctx context.Context, in models.UserCreate) (*models.User, error)
	Update(ctx context.Context, upd models.UserUpdate) (*models.User, error)
	Delete(ctx context.Context, id int64) (int64, error)
	BulkDelete(ctx context.Context, ids []int64) (int64, error)
}

// UserCache stores user records keyed by id.
type UserCache interface {
	Get(ctx context.Context, id int64) (*models.User, error)
	Set(ctx context.Context, u *models.User, ttl time.Duration) error
	Del(ctx context.Context, id int64) error
	Clear(ctx context.Context) (int64, error)
}

// UserEventPublisher publishes user lifecycle events.
type UserEventPublisher interface {
	Publish(ctx context.Context, events ...models.UserEvent) error
}

// IdentityService owns user records. Every mutation commits to the store
// first and only then touches the cache.
type IdentityService struct {
	reader    UserReader
	writer    UserWriter
	cache     UserCache
	publisher UserEventPublisher
	ttl       time.Duration
	now       func() time.Time
}

// NewIdentityService creates a new IdentityService. publisher may be nil.
func NewIdentityService(
	reader UserReader,
	writer UserWriter,
	cache UserCache,
	publisher UserEventPublisher,
	ttl time.Duration,
) *IdentityService {
	return &IdentityService{
		reader:    reader,
		writer:    writer,
		cache:     cache,
		publisher: publisher,
		ttl:       ttl,
		now:       time.Now,
	}
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func normalizePtr(s *string) *string {
	if s == nil {
		return nil
	}
	n := normalize(*s)
	return &n
}

// GetByID returns the user with the given id, or nil if there is none.
// Cached records are returned without touching the store.
func (s *IdentityService) GetByID(ctx context.Context, id int64) (*models.User, error) {
	cached, err := s.cache.Get(ctx, id)
	if err != nil {
		logger.Log.Warnw("cache read failed, falling back to store", "userID", id, "error", err)
	}
	if err == nil && cached != nil {
		return cached, nil
	}

	user, err := s.reader.GetByID(ctx, id)
	if err != nil {
		logger.Log.Errorw("failed to get user", "userID", id, "error", err)
		return nil, fmt.Errorf("get user %d: %w", id, err)
	}
	if user == nil {
		return nil, nil
	}

	s.cacheSet(ctx, user)
	return user, nil
}

// GetByUsername looks the user up in the store by normalized username.
func (s *IdentityService) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	user, err := s.reader.GetByUsername(ctx, normalize(username))
	if err != nil {
		logger.Log.Errorw("failed to get user by username", "username", username, "error", err)
		return nil, fmt.Errorf("get user by username: %w", err)
	}
	return user, nil
}

// GetByEmail looks the user up in the store by normalized email.
func (s *IdentityService) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	user, err := s.reader.GetByEmail(ctx, normalize(email))
	if err != nil {
		logger.Log.Errorw("failed to get user by email", "email", email, "error", err)
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	return user, nil
}

// List returns every user ordered by id, straight from the store.
func (s *IdentityService) List(ctx context.Context) ([]models.User, error) {
	users, err := s.reader.List(ctx)
	if err != nil {
		logger.Log.Errorw("failed to list users", "error", err)
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// Create inserts a new user and caches the stored row.
func (s *IdentityService) Create(ctx context.Context, in models.UserCreate) (*models.User, error) {
	in.Username = normalize(in.Username)
	in.Email = normalize(in.Email)

	user, err := s.writer.Create(ctx, in)
	if err != nil {
		if errors.Is(err, repositories.ErrUniqueViolation) {
			logger.Log.Infow("user already exists", "username", in.Username, "email", in.Email)
			return nil, ErrUserAlreadyExists
		}
		logger.Log.Errorw("failed to create user", "username", in.Username, "error", err)
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.cacheSet(ctx, user)
	s.publish(ctx, models.UserEvent{Type: models.UserCreated, UserID: user.ID, Username: user.Username})
	return user, nil
}

// Update applies a partial update and overwrites the cached row.
// If the user does not exist its cache entry is dropped and ErrUserNotFound
// is returned.
func (s *IdentityService) Update(ctx context.Context, upd models.UserUpdate) (*models.User, error) {
	upd.Username = normalizePtr(upd.Username)
	upd.Email = normalizePtr(upd.Email)

	user, err := s.writer.Update(ctx, upd)
	if err != nil {
		if errors.Is(err, repositories.ErrUniqueViolation) {
			logger.Log.Infow("user update conflicts with existing user", "userID", upd.ID)
			return nil, ErrUserAlreadyExists
		}
		logger.Log.Errorw("failed to update user", "userID", upd.ID, "error", err)
		return nil, fmt.Errorf("update user %d: %w", upd.ID, err)
	}
	if user == nil {
		s.cacheDel(ctx, upd.ID)
		return nil, ErrUserNotFound
	}

	s.cacheSet(ctx, user)
	s.publish(ctx, models.UserEvent{Type: models.UserUpdated, UserID: user.ID, Username: user.Username})
	return user, nil
}

// Delete removes the user and its cache entry. Deleting an unknown id is
// not an error.
func (s *IdentityService) Delete(ctx context.Context, id int64) error {
	n, err := s.writer.Delete(ctx, id)
	if err != nil {
		logger.Log.Errorw("failed to delete user", "userID", id, "error", err)
		return fmt.Errorf("delete user %d: %w", id, err)
	}

	s.cacheDel(ctx, id)
	if n > 0 {
		s.publish(ctx, models.UserEvent{Type: models.UserDeleted, UserID: id})
	}
	return nil
}

// BulkDelete removes every listed user with one store statement, then
// drops their cache entries concurrently. It returns the number of
// distinct ids processed.
func (s *IdentityService) BulkDelete(ctx context.Context, ids []int64) (int, error) {
	ids = distinct(ids)
	if len(ids) == 0 {
		return 0, nil
	}

	n, err := s.writer.BulkDelete(ctx, ids)
	if err != nil {
		logger.Log.Errorw("failed to bulk delete users", "userIDs", ids, "error", err)
		return 0, fmt.Errorf("bulk delete users: %w", err)
	}

	cctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cacheWriteTimeout)
	defer cancel()

	g, gctx := errgroup.WithContext(cctx)
	for _, id := range ids {
		id := id
		g.Go(func() error {
			if err := s.cache.Del(gctx, id); err != nil {
				logger.Log.Warnw("failed to drop cached user", "userID", id, "error", err)
			}
			return nil
		})
	}
	_ = g.Wait()

	if n > 0 {
		events := make([]models.UserEvent, 0, len(ids))
		for _, id := range ids {
			events = append(events, models.UserEvent{Type: models.UserDeleted, UserID: id})
		}
		s.publish(ctx, events...)
	}
	return len(ids), nil
}

// ClearCache drops every cached user entry and returns how many were removed.
func (s *IdentityService) ClearCache(ctx context.Context) (int64, error) {
	n, err := s.cache.Clear(ctx)
	if err != nil {
		logger.Log.Errorw("failed to clear user cache", "error", err)
		return 0, fmt.Errorf("clear user cache: %w", err)
	}
	logger.Log.Infow("user cache cleared", "removed", n)
	return n, nil
}

func (s *IdentityService) cacheSet(ctx context.Context, u *models.User) {
	cctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cacheWriteTimeout)
	defer cancel()

	if err := s.cache.Set(cctx, u, s.ttl); err != nil {
		logger.Log.Warnw("failed to cache user", "userID", u.ID, "error", err)
	}
}

func (s *IdentityService) cacheDel(ctx context.Context, id int64) {
	cctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cacheWriteTimeout)
	defer cancel()

	if err := s.cache.Del(cctx, id); err != nil {
		logger.Log.Warnw("failed to drop cached user", "userID", id, "error", err)
	}
}

func (s *IdentityService) publish(ctx context.Context, events ...models.UserEvent) {
	if s.publisher == nil {
		return
	}
	now := s.now().UTC()
	for i := range events {
		events[i].OccurredAt = now
	}
	if err := s.publisher.Publish(context.WithoutCancel(ctx), events...); err != nil {
		logger.Log.Warnw("failed to publish user events", "count", len(events), "error", err)
	}
}

func distinct(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
