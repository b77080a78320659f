package middlewares

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/golang/mock/gomock"
	appjwt "github.com/sbilibin2017/gw-identity/internal/jwt"
	"github.com/stretchr/testify/assert"
)

func TestAuthMiddleware(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	claims := &appjwt.Claims{
		UserID:           1,
		Username:         "alice",
		RegisteredClaims: jwt.RegisteredClaims{ID: "jti-1"},
	}

	tests := []struct {
		name             string
		mockSetup        func(tk *MockTokener, rc *MockRevocationChecker)
		expectedStatus   int
		expectNextCalled bool
	}{
		{
			name: "NoToken",
			mockSetup: func(tk *MockTokener, rc *MockRevocationChecker) {
				tk.EXPECT().GetTokenFromRequest(gomock.Any(), gomock.Any()).
					Return("", errors.New("no token"))
			},
			expectedStatus:   http.StatusUnauthorized,
			expectNextCalled: false,
		},
		{
			name: "InvalidToken",
			mockSetup: func(tk *MockTokener, rc *MockRevocationChecker) {
				tk.EXPECT().GetTokenFromRequest(gomock.Any(), gomock.Any()).
					Return("sometoken", nil)
				tk.EXPECT().GetClaims(gomock.Any(), "sometoken").
					Return(nil, errors.New("invalid token"))
			},
			expectedStatus:   http.StatusUnauthorized,
			expectNextCalled: false,
		},
		{
			name: "RevokedToken",
			mockSetup: func(tk *MockTokener, rc *MockRevocationChecker) {
				tk.EXPECT().GetTokenFromRequest(gomock.Any(), gomock.Any()).
					Return("validtoken", nil)
				tk.EXPECT().GetClaims(gomock.Any(), "validtoken").
					Return(claims, nil)
				rc.EXPECT().IsRevoked(gomock.Any(), "jti-1").Return(true, nil)
			},
			expectedStatus:   http.StatusUnauthorized,
			expectNextCalled: false,
		},
		{
			name: "RevocationStoreDown",
			mockSetup: func(tk *MockTokener, rc *MockRevocationChecker) {
				tk.EXPECT().GetTokenFromRequest(gomock.Any(), gomock.Any()).
					Return("validtoken", nil)
				tk.EXPECT().GetClaims(gomock.Any(), "validtoken").
					Return(claims, nil)
				rc.EXPECT().IsRevoked(gomock.Any(), "jti-1").Return(false, errors.New("redis down"))
			},
			expectedStatus:   http.StatusInternalServerError,
			expectNextCalled: false,
		},
		{
			name: "ValidToken",
			mockSetup: func(tk *MockTokener, rc *MockRevocationChecker) {
				tk.EXPECT().GetTokenFromRequest(gomock.Any(), gomock.Any()).
					Return("validtoken", nil)
				tk.EXPECT().GetClaims(gomock.Any(), "validtoken").
					Return(claims, nil)
				rc.EXPECT().IsRevoked(gomock.Any(), "jti-1").Return(false, nil)
			},
			expectedStatus:   http.StatusOK,
			expectNextCalled: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockTokener := NewMockTokener(ctrl)
			mockRevocations := NewMockRevocationChecker(ctrl)
			tt.mockSetup(mockTokener, mockRevocations)

			nextCalled := false
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				nextCalled = true
				got, ok := ClaimsFromContext(r.Context())
				assert.True(t, ok)
				assert.Equal(t, claims, got)
				w.WriteHeader(http.StatusOK)
			})

			handler := AuthMiddleware(mockTokener, mockRevocations)(next)

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			rr := httptest.NewRecorder()

			handler.ServeHTTP(rr, req)

			assert.Equal(t, tt.expectedStatus, rr.Code)
			assert.Equal(t, tt.expectNextCalled, nextCalled)
			if !tt.expectNextCalled {
				assert.Contains(t, rr.Body.String(), `"success":false`)
			}
		})
	}
}
