package middlewares

//go:generate mockgen -source=auth.go -destination=auth_mock.go -package=middlewares

import (
	"context"
	"net/http"

	"github.com/sbilibin2017/gw-identity/internal/jwt"
	"github.com/sbilibin2017/gw-identity/internal/logger"
	"github.com/sbilibin2017/gw-identity/internal/models"
	"github.com/sbilibin2017/gw-identity/internal/response"
)

// Tokener defines the minimal interface needed by the middleware
type Tokener interface {
	GetTokenFromRequest(ctx context.Context, r *http.Request) (string, error)
	GetClaims(ctx context.Context, tokenString string) (*jwt.Claims, error)
}

// RevocationChecker reports whether a token id was logged out.
type RevocationChecker interface {
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// AuthMiddleware rejects requests without a valid, unrevoked bearer token
// and stores the token claims in the request context.
func AuthMiddleware(tokener Tokener, revocations RevocationChecker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			tokenString, err := tokener.GetTokenFromRequest(ctx, r)
			if err != nil {
				logger.Log.Infow("authorization failed", "err", err)
				response.Error(w, http.StatusUnauthorized, models.CodeUnauthorized, "Authentication required")
				return
			}

			claims, err := tokener.GetClaims(ctx, tokenString)
			if err != nil {
				logger.Log.Infow("authorization failed", "err", err)
				response.Error(w, http.StatusUnauthorized, models.CodeUnauthorized, "Invalid or expired token")
				return
			}

			revoked, err := revocations.IsRevoked(ctx, claims.ID)
			if err != nil {
				logger.Log.Errorw("failed to check token revocation", "userID", claims.UserID, "err", err)
				response.Error(w, http.StatusInternalServerError, models.CodeInternal, "Internal server error")
				return
			}
			if revoked {
				logger.Log.Infow("authorization failed, token revoked", "userID", claims.UserID)
				response.Error(w, http.StatusUnauthorized, models.CodeUnauthorized, "Invalid or expired token")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithClaims(ctx, claims)))
		})
	}
}
