package middlewares

//go:generate mockgen -source=admin.go -destination=admin_mock.go -package=middlewares

import (
	"context"
	"net/http"

	"github.com/sbilibin2017/gw-identity/internal/logger"
	"github.com/sbilibin2017/gw-identity/internal/models"
	"github.com/sbilibin2017/gw-identity/internal/response"
)

// UserGetter loads the current record of a session user.
type UserGetter interface {
	GetByID(ctx context.Context, id int64) (*models.User, error)
}

// AdminMiddleware lets through only sessions whose user is currently an
// admin. It must run after AuthMiddleware. The admin flag is read from the
// user record, not from the token, so demotions apply immediately.
func AdminMiddleware(users UserGetter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			claims, ok := ClaimsFromContext(ctx)
			if !ok {
				response.Error(w, http.StatusUnauthorized, models.CodeUnauthorized, "Authentication required")
				return
			}

			user, err := users.GetByID(ctx, claims.UserID)
			if err != nil {
				logger.Log.Errorw("failed to load session user", "userID", claims.UserID, "err", err)
				response.Error(w, http.StatusInternalServerError, models.CodeInternal, "Internal server error")
				return
			}
			if user == nil {
				response.Error(w, http.StatusNotFound, models.CodeNotFound, "User not found")
				return
			}
			if !user.IsAdmin {
				logger.Log.Infow("admin access denied", "userID", user.ID)
				response.Error(w, http.StatusForbidden, models.CodeForbidden, "Admin access required")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
