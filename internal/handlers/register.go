package handlers

//go:generate mockgen -source=register.go -destination=register_mock.go -package=handlers

import (
	"context"
	"net/http"

	"github.com/sbilibin2017/gw-identity/internal/models"
	"github.com/sbilibin2017/gw-identity/internal/response"
)

// Registerer defines the interface that the registration service must implement.
type Registerer interface {
	Register(ctx context.Context, req models.RegisterRequest) (*models.Session, string, error)
}

// NewRegisterHandler returns an HTTP handler for user registration.
// @Summary Register a new user
// @Description Creates a non-admin account and opens a session for it. Username and email are stored lowercase.
// @Tags auth
// @Accept json
// @Produce json
// @Param registerRequest body models.RegisterRequest true "User registration request"
// @Success 201 {object} models.SuccessResponse{data=models.AuthResponse} "User successfully registered"
// @Failure 400 {object} models.ErrorResponse "Invalid request"
// @Failure 409 {object} models.ErrorResponse "Username or email already exists"
// @Failure 500 {object} models.ErrorResponse "Internal server error"
// @Router /auth/register [post]
func NewRegisterHandler(svc Registerer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.RegisterRequest
		if !decodeAndValidate(w, r, &req) {
			return
		}

		session, token, err := svc.Register(r.Context(), req)
		if err != nil {
			writeError(w, r, err)
			return
		}

		response.Success(w, http.StatusCreated, models.AuthResponse{Token: token, User: *session}, "Registration successful")
	}
}
