package services

//go:generate mockgen -source=admin.go -destination=admin_mock.go -package=services

import (
	"context"

	"github.com/sbilibin2017/gw-identity/internal/models"
)

// UserDirectory is the part of IdentityService the admin flows depend on.
type UserDirectory interface {
	GetByID(ctx context.Context, id int64) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	Create(ctx context.Context, in models.UserCreate) (*models.User, error)
	Update(ctx context.Context, upd models.UserUpdate) (*models.User, error)
	Delete(ctx context.Context, id int64) error
	BulkDelete(ctx context.Context, ids []int64) (int, error)
	ClearCache(ctx context.Context) (int64, error)
}

// AdminService implements user management for administrators.
// Plaintext passwords are hashed here before reaching the directory.
type AdminService struct {
	users  UserDirectory
	hasher PasswordHasher
}

func NewAdminService(users UserDirectory, hasher PasswordHasher) *AdminService {
	return &AdminService{users: users, hasher: hasher}
}

func (svc *AdminService) List(ctx context.Context) ([]models.User, error) {
	return svc.users.List(ctx)
}

// Get returns the user or ErrUserNotFound.
func (svc *AdminService) Get(ctx context.Context, id int64) (*models.User, error) {
	user, err := svc.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func (svc *AdminService) Create(ctx context.Context, req models.CreateUserRequest) (*models.User, error) {
	hash, err := svc.hasher.Hash(req.Password)
	if err != nil {
		return nil, err
	}
	return svc.users.Create(ctx, models.UserCreate{
		Username: req.Username,
		Email:    req.Email,
		Name:     req.Name,
		Password: hash,
		IsAdmin:  req.IsAdmin,
	})
}

// Update applies a partial update. An empty request returns the current
// record unchanged.
func (svc *AdminService) Update(ctx context.Context, id int64, req models.UpdateUserRequest) (*models.User, error) {
	upd := models.UserUpdate{
		ID:       id,
		Username: req.Username,
		Email:    req.Email,
		Name:     req.Name,
		IsAdmin:  req.IsAdmin,
	}
	if req.Password != nil {
		hash, err := svc.hasher.Hash(*req.Password)
		if err != nil {
			return nil, err
		}
		upd.Password = &hash
	}
	if upd.IsEmpty() {
		return svc.Get(ctx, id)
	}
	return svc.users.Update(ctx, upd)
}

func (svc *AdminService) Delete(ctx context.Context, id int64) error {
	return svc.users.Delete(ctx, id)
}

func (svc *AdminService) BulkDelete(ctx context.Context, ids []int64) (int, error) {
	return svc.users.BulkDelete(ctx, ids)
}

func (svc *AdminService) ClearCache(ctx context.Context) (int64, error) {
	return svc.users.ClearCache(ctx)
}
