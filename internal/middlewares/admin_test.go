package middlewares

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/sbilibin2017/gw-identity/internal/jwt"
	"github.com/sbilibin2017/gw-identity/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestAdminMiddleware(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	tests := []struct {
		name             string
		withClaims       bool
		mockSetup        func(m *MockUserGetter)
		expectedStatus   int
		expectNextCalled bool
	}{
		{
			name:             "NoSession",
			withClaims:       false,
			mockSetup:        func(m *MockUserGetter) {},
			expectedStatus:   http.StatusUnauthorized,
			expectNextCalled: false,
		},
		{
			name:       "UserGone",
			withClaims: true,
			mockSetup: func(m *MockUserGetter) {
				m.EXPECT().GetByID(gomock.Any(), int64(1)).Return(nil, nil)
			},
			expectedStatus:   http.StatusNotFound,
			expectNextCalled: false,
		},
		{
			name:       "NotAdmin",
			withClaims: true,
			mockSetup: func(m *MockUserGetter) {
				m.EXPECT().GetByID(gomock.Any(), int64(1)).Return(&models.User{ID: 1}, nil)
			},
			expectedStatus:   http.StatusForbidden,
			expectNextCalled: false,
		},
		{
			name:       "LookupError",
			withClaims: true,
			mockSetup: func(m *MockUserGetter) {
				m.EXPECT().GetByID(gomock.Any(), int64(1)).Return(nil, errors.New("db error"))
			},
			expectedStatus:   http.StatusInternalServerError,
			expectNextCalled: false,
		},
		{
			name:       "Admin",
			withClaims: true,
			mockSetup: func(m *MockUserGetter) {
				m.EXPECT().GetByID(gomock.Any(), int64(1)).Return(&models.User{ID: 1, IsAdmin: true}, nil)
			},
			expectedStatus:   http.StatusOK,
			expectNextCalled: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := NewMockUserGetter(ctrl)
			tt.mockSetup(users)

			nextCalled := false
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				nextCalled = true
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/admin/users", nil)
			if tt.withClaims {
				// the token still claims admin; only the stored flag counts
				req = req.WithContext(WithClaims(req.Context(), &jwt.Claims{UserID: 1, IsAdmin: true}))
			}
			rr := httptest.NewRecorder()

			AdminMiddleware(users)(next).ServeHTTP(rr, req)

			assert.Equal(t, tt.expectedStatus, rr.Code)
			assert.Equal(t, tt.expectNextCalled, nextCalled)
		})
	}
}
