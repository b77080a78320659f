package services

//go:generate mockgen -source=auth.go -destination=auth_mock.go -package=services

import (
	"context"
	"time"

	"github.com/sbilibin2017/gw-identity/internal/logger"
	"github.com/sbilibin2017/gw-identity/internal/models"
)

// UserIdentity is the part of IdentityService the auth flows depend on.
type UserIdentity interface {
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, in models.UserCreate) (*models.User, error)
	Update(ctx context.Context, upd models.UserUpdate) (*models.User, error)
}

// PasswordHasher hashes and verifies passwords.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(hash, plaintext string) (bool, error)
}

// SessionGenerator issues signed session tokens.
type SessionGenerator interface {
	Generate(ctx context.Context, s models.Session) (string, error)
}

// SessionRevoker invalidates a token id until it expires.
type SessionRevoker interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
}

// CredentialCounter counts the passkeys a user owns.
type CredentialCounter interface {
	CountByUserID(ctx context.Context, userID int64) (int, error)
}

// AuthService handles registration, login, logout and the caller's profile.
type AuthService struct {
	users       UserIdentity
	hasher      PasswordHasher
	sessions    SessionGenerator
	revoker     SessionRevoker
	credentials CredentialCounter
	now         func() time.Time
}

// NewAuthService creates a new AuthService instance.
func NewAuthService(
	users UserIdentity,
	hasher PasswordHasher,
	sessions SessionGenerator,
	revoker SessionRevoker,
	credentials CredentialCounter,
) *AuthService {
	return &AuthService{
		users:       users,
		hasher:      hasher,
		sessions:    sessions,
		revoker:     revoker,
		credentials: credentials,
		now:         time.Now,
	}
}

// Register creates a non-admin user and opens a session for it.
func (svc *AuthService) Register(ctx context.Context, req models.RegisterRequest) (*models.Session, string, error) {
	existing, err := svc.users.GetByUsername(ctx, req.Username)
	if err != nil {
		return nil, "", err
	}
	if existing == nil {
		existing, err = svc.users.GetByEmail(ctx, req.Email)
		if err != nil {
			return nil, "", err
		}
	}
	if existing != nil {
		logger.Log.Infow("registration rejected, user already exists", "username", req.Username)
		return nil, "", ErrUserAlreadyExists
	}

	hash, err := svc.hasher.Hash(req.Password)
	if err != nil {
		logger.Log.Errorw("failed to hash password", "error", err)
		return nil, "", err
	}

	user, err := svc.users.Create(ctx, models.UserCreate{
		Username: req.Username,
		Email:    req.Email,
		Name:     req.Name,
		Password: hash,
		IsAdmin:  false,
	})
	if err != nil {
		return nil, "", err
	}

	return svc.issue(ctx, user)
}

// Login checks the credentials, records the login time and opens a session.
// Unknown users and wrong passwords both yield ErrInvalidCredentials.
func (svc *AuthService) Login(ctx context.Context, username, password string) (*models.Session, string, error) {
	user, err := svc.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, "", err
	}
	if user == nil {
		logger.Log.Infow("login failed, unknown user", "username", username)
		return nil, "", ErrInvalidCredentials
	}

	ok, err := svc.hasher.Verify(user.Password, password)
	if err != nil {
		logger.Log.Errorw("failed to verify password", "userID", user.ID, "error", err)
		return nil, "", err
	}
	if !ok {
		logger.Log.Infow("login failed, wrong password", "userID", user.ID)
		return nil, "", ErrInvalidCredentials
	}

	now := svc.now().UTC()
	user, err = svc.users.Update(ctx, models.UserUpdate{ID: user.ID, LastLoginAt: &now})
	if err != nil {
		return nil, "", err
	}

	return svc.issue(ctx, user)
}

// Logout revokes the token id for ttl, the token's remaining lifetime.
func (svc *AuthService) Logout(ctx context.Context, tokenID string, ttl time.Duration) error {
	if err := svc.revoker.Revoke(ctx, tokenID, ttl); err != nil {
		logger.Log.Errorw("failed to revoke session", "tokenID", tokenID, "error", err)
		return err
	}
	return nil
}

// Profile returns the caller's account view.
func (svc *AuthService) Profile(ctx context.Context, id int64) (*models.Profile, error) {
	user, err := svc.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	passkeys, err := svc.credentials.CountByUserID(ctx, id)
	if err != nil {
		logger.Log.Errorw("failed to count passkeys", "userID", id, "error", err)
		return nil, err
	}

	return &models.Profile{
		ID:           user.ID,
		Username:     user.Username,
		Name:         user.Name,
		Email:        user.Email,
		IsAdmin:      user.IsAdmin,
		CreatedAt:    user.CreatedAt,
		LastLoginAt:  user.LastLoginAt,
		HasPassword:  user.Password != "",
		PasskeyCount: passkeys,
	}, nil
}

// EnsureAdmin creates the initial admin account unless the username is taken.
func (svc *AuthService) EnsureAdmin(ctx context.Context, username, email, name, password string) (bool, error) {
	existing, err := svc.users.GetByUsername(ctx, username)
	if err != nil {
		return false, err
	}
	if existing != nil {
		logger.Log.Infow("admin user already exists", "username", existing.Username)
		return false, nil
	}

	hash, err := svc.hasher.Hash(password)
	if err != nil {
		return false, err
	}

	user, err := svc.users.Create(ctx, models.UserCreate{
		Username: username,
		Email:    email,
		Name:     name,
		Password: hash,
		IsAdmin:  true,
	})
	if err != nil {
		logger.Log.Errorw("failed to create admin user", "username", username, "error", err)
		return false, err
	}

	logger.Log.Infow("admin user created", "userID", user.ID, "username", user.Username)
	return true, nil
}

func (svc *AuthService) issue(ctx context.Context, user *models.User) (*models.Session, string, error) {
	session := models.SessionFromUser(user)
	token, err := svc.sessions.Generate(ctx, session)
	if err != nil {
		logger.Log.Errorw("failed to generate session token", "userID", user.ID, "error", err)
		return nil, "", err
	}
	return &session, token, nil
}
