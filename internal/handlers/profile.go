package handlers

//go:generate mockgen -source=profile.go -destination=profile_mock.go -package=handlers

import (
	"context"
	"net/http"

	"github.com/sbilibin2017/gw-identity/internal/middlewares"
	"github.com/sbilibin2017/gw-identity/internal/models"
	"github.com/sbilibin2017/gw-identity/internal/password"
	"github.com/sbilibin2017/gw-identity/internal/response"
)

// Profiler returns the account view of a user.
type Profiler interface {
	Profile(ctx context.Context, id int64) (*models.Profile, error)
}

// NewProfileHandler returns an HTTP handler for the caller's own profile.
// @Summary Current user profile
// @Tags users
// @Produce json
// @Success 200 {object} models.SuccessResponse{data=models.Profile} "Profile"
// @Failure 401 {object} models.ErrorResponse "Unauthorized"
// @Failure 404 {object} models.ErrorResponse "User not found"
// @Router /api/users/me [get]
// @Security BearerAuth
func NewProfileHandler(svc Profiler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middlewares.ClaimsFromContext(r.Context())
		if !ok {
			response.Error(w, http.StatusUnauthorized, models.CodeUnauthorized, "Authentication required")
			return
		}

		profile, err := svc.Profile(r.Context(), claims.UserID)
		if err != nil {
			writeError(w, r, err)
			return
		}

		response.Success(w, http.StatusOK, profile, "")
	}
}

// NewPasswordStrengthHandler returns an HTTP handler that scores a candidate password.
// @Summary Password strength
// @Description Scores a password from 0 to 100 and reports which rules it satisfies
// @Tags users
// @Accept json
// @Produce json
// @Param request body models.PasswordStrengthRequest true "Password"
// @Success 200 {object} models.SuccessResponse{data=password.Strength} "Strength"
// @Failure 400 {object} models.ErrorResponse "Invalid request body"
// @Router /api/password/strength [post]
func NewPasswordStrengthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.PasswordStrengthRequest
		if !decodeAndValidate(w, r, &req) {
			return
		}

		response.Success(w, http.StatusOK, password.ScoreStrength(req.Password), "")
	}
}
