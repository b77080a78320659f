package handlers

//go:generate mockgen -source=admin_users.go -destination=admin_users_mock.go -package=handlers

import (
	"context"
	"net/http"

	"github.com/sbilibin2017/gw-identity/internal/models"
	"github.com/sbilibin2017/gw-identity/internal/response"
)

// UserLister lists every user.
type UserLister interface {
	List(ctx context.Context) ([]models.User, error)
}

// UserGetter returns a single user or services.ErrUserNotFound.
type UserGetter interface {
	Get(ctx context.Context, id int64) (*models.User, error)
}

// UserCreator creates a user from plaintext input.
type UserCreator interface {
	Create(ctx context.Context, req models.CreateUserRequest) (*models.User, error)
}

// UserUpdater partially updates a user.
type UserUpdater interface {
	Update(ctx context.Context, id int64, req models.UpdateUserRequest) (*models.User, error)
}

// UserDeleter removes one user.
type UserDeleter interface {
	Delete(ctx context.Context, id int64) error
}

// UserBulkDeleter removes several users at once.
type UserBulkDeleter interface {
	BulkDelete(ctx context.Context, ids []int64) (int, error)
}

// CacheClearer drops every cached user entry.
type CacheClearer interface {
	ClearCache(ctx context.Context) (int64, error)
}

// NewListUsersHandler returns an HTTP handler listing every user.
// @Summary List users
// @Tags admin
// @Produce json
// @Success 200 {object} models.SuccessResponse{data=[]models.User} "Users ordered by id"
// @Failure 401 {object} models.ErrorResponse "Unauthorized"
// @Failure 403 {object} models.ErrorResponse "Admin access required"
// @Router /admin/users [get]
// @Security BearerAuth
func NewListUsersHandler(svc UserLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		users, err := svc.List(r.Context())
		if err != nil {
			writeError(w, r, err)
			return
		}
		response.Success(w, http.StatusOK, users, "")
	}
}

// NewGetUserHandler returns an HTTP handler for one user.
// @Summary Get user
// @Tags admin
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} models.SuccessResponse{data=models.User} "User"
// @Failure 400 {object} models.ErrorResponse "Invalid user id"
// @Failure 404 {object} models.ErrorResponse "User not found"
// @Router /admin/users/{id} [get]
// @Security BearerAuth
func NewGetUserHandler(svc UserGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := userID(r)
		if err != nil {
			writeError(w, r, err)
			return
		}

		user, err := svc.Get(r.Context(), id)
		if err != nil {
			writeError(w, r, err)
			return
		}
		response.Success(w, http.StatusOK, user, "")
	}
}

// NewCreateUserHandler returns an HTTP handler for admin user creation.
// @Summary Create user
// @Tags admin
// @Accept json
// @Produce json
// @Param request body models.CreateUserRequest true "New user"
// @Success 201 {object} models.SuccessResponse{data=models.User} "User created"
// @Failure 400 {object} models.ErrorResponse "Invalid request"
// @Failure 409 {object} models.ErrorResponse "Username or email already exists"
// @Router /admin/users [post]
// @Security BearerAuth
func NewCreateUserHandler(svc UserCreator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.CreateUserRequest
		if !decodeAndValidate(w, r, &req) {
			return
		}

		user, err := svc.Create(r.Context(), req)
		if err != nil {
			writeError(w, r, err)
			return
		}
		response.Success(w, http.StatusCreated, user, "User created")
	}
}

// NewUpdateUserHandler returns an HTTP handler for partial user updates.
// @Summary Update user
// @Tags admin
// @Accept json
// @Produce json
// @Param id path int true "User ID"
// @Param request body models.UpdateUserRequest true "Fields to change"
// @Success 200 {object} models.SuccessResponse{data=models.User} "User updated"
// @Failure 400 {object} models.ErrorResponse "Invalid request"
// @Failure 404 {object} models.ErrorResponse "User not found"
// @Failure 409 {object} models.ErrorResponse "Username or email already exists"
// @Router /admin/users/{id} [put]
// @Security BearerAuth
func NewUpdateUserHandler(svc UserUpdater) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := userID(r)
		if err != nil {
			writeError(w, r, err)
			return
		}

		var req models.UpdateUserRequest
		if !decodeAndValidate(w, r, &req) {
			return
		}

		user, err := svc.Update(r.Context(), id, req)
		if err != nil {
			writeError(w, r, err)
			return
		}
		response.Success(w, http.StatusOK, user, "User updated")
	}
}

// NewDeleteUserHandler returns an HTTP handler deleting one user.
// Deleting an unknown id succeeds.
// @Summary Delete user
// @Tags admin
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} models.SuccessResponse "User deleted"
// @Failure 400 {object} models.ErrorResponse "Invalid user id"
// @Router /admin/users/{id} [delete]
// @Security BearerAuth
func NewDeleteUserHandler(svc UserDeleter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := userID(r)
		if err != nil {
			writeError(w, r, err)
			return
		}

		if err := svc.Delete(r.Context(), id); err != nil {
			writeError(w, r, err)
			return
		}
		response.Success(w, http.StatusOK, nil, "User deleted")
	}
}

// NewBulkDeleteUsersHandler returns an HTTP handler deleting several users.
// @Summary Delete users
// @Tags admin
// @Accept json
// @Produce json
// @Param request body models.BulkDeleteRequest true "User ids"
// @Success 200 {object} models.SuccessResponse{data=models.BulkDeleteResponse} "Users deleted"
// @Failure 400 {object} models.ErrorResponse "Invalid request"
// @Router /admin/users/delete [post]
// @Security BearerAuth
func NewBulkDeleteUsersHandler(svc UserBulkDeleter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.BulkDeleteRequest
		if !decodeAndValidate(w, r, &req) {
			return
		}

		n, err := svc.BulkDelete(r.Context(), req.UserIDs)
		if err != nil {
			writeError(w, r, err)
			return
		}
		response.Success(w, http.StatusOK, models.BulkDeleteResponse{Deleted: n}, "Users deleted")
	}
}

// NewClearCacheHandler returns an HTTP handler dropping the user cache.
// @Summary Clear server cache
// @Tags admin
// @Produce json
// @Success 200 {object} models.SuccessResponse{data=models.ClearCacheResponse} "Cache cleared"
// @Failure 500 {object} models.ErrorResponse "Internal server error"
// @Router /admin/cache/clear [post]
// @Security BearerAuth
func NewClearCacheHandler(svc CacheClearer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		n, err := svc.ClearCache(r.Context())
		if err != nil {
			writeError(w, r, err)
			return
		}
		response.Success(w, http.StatusOK, models.ClearCacheResponse{Removed: n}, "Cache cleared")
	}
}
