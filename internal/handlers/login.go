package handlers

//go:generate mockgen -source=login.go -destination=login_mock.go -package=handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/sbilibin2017/gw-identity/internal/middlewares"
	"github.com/sbilibin2017/gw-identity/internal/models"
	"github.com/sbilibin2017/gw-identity/internal/response"
)

// Loginer defines the interface that the login service must implement.
type Loginer interface {
	Login(ctx context.Context, username, password string) (*models.Session, string, error)
}

// Logouter revokes the current session.
type Logouter interface {
	Logout(ctx context.Context, tokenID string, ttl time.Duration) error
}

// NewLoginHandler returns an HTTP handler for user login.
// @Summary User login
// @Description Authenticate user and return a session token
// @Tags auth
// @Accept json
// @Produce json
// @Param loginRequest body models.LoginRequest true "Login Request"
// @Success 200 {object} models.SuccessResponse{data=models.AuthResponse} "Session token returned"
// @Failure 400 {object} models.ErrorResponse "Invalid request body"
// @Failure 401 {object} models.ErrorResponse "Invalid username or password"
// @Failure 500 {object} models.ErrorResponse "Internal server error"
// @Router /auth/login [post]
func NewLoginHandler(svc Loginer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.LoginRequest
		if !decodeAndValidate(w, r, &req) {
			return
		}

		session, token, err := svc.Login(r.Context(), req.Username, req.Password)
		if err != nil {
			writeError(w, r, err)
			return
		}

		response.Success(w, http.StatusOK, models.AuthResponse{Token: token, User: *session}, "Login successful")
	}
}

// NewLogoutHandler returns an HTTP handler that revokes the caller's token.
// @Summary User logout
// @Description Revokes the bearer token until it expires
// @Tags auth
// @Produce json
// @Success 200 {object} models.SuccessResponse "Logged out"
// @Failure 401 {object} models.ErrorResponse "Unauthorized"
// @Failure 500 {object} models.ErrorResponse "Internal server error"
// @Router /auth/logout [post]
// @Security BearerAuth
func NewLogoutHandler(svc Logouter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middlewares.ClaimsFromContext(r.Context())
		if !ok {
			response.Error(w, http.StatusUnauthorized, models.CodeUnauthorized, "Authentication required")
			return
		}

		if err := svc.Logout(r.Context(), claims.ID, claims.TTL(time.Now())); err != nil {
			writeError(w, r, err)
			return
		}

		response.Success(w, http.StatusOK, nil, "Logged out")
	}
}
