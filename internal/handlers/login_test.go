package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/golang/mock/gomock"
	appjwt "github.com/sbilibin2017/gw-identity/internal/jwt"
	"github.com/sbilibin2017/gw-identity/internal/middlewares"
	"github.com/sbilibin2017/gw-identity/internal/models"
	"github.com/sbilibin2017/gw-identity/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoginHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSvc := NewMockLoginer(ctrl)

	tests := []struct {
		name          string
		inputBody     interface{}
		mockSetup     func()
		expectedCode  int
		expectedError string
	}{
		{
			name: "success",
			inputBody: models.LoginRequest{
				Username: "john",
				Password: "pass123",
			},
			mockSetup: func() {
				mockSvc.EXPECT().
					Login(gomock.Any(), "john", "pass123").
					Return(&models.Session{ID: 1, Username: "john"}, "JWT_TOKEN", nil)
			},
			expectedCode: http.StatusOK,
		},
		{
			name:          "invalid JSON",
			inputBody:     "{invalid json}",
			mockSetup:     func() {},
			expectedCode:  http.StatusBadRequest,
			expectedError: models.CodeBadRequest,
		},
		{
			name:          "missing password",
			inputBody:     models.LoginRequest{Username: "john"},
			mockSetup:     func() {},
			expectedCode:  http.StatusBadRequest,
			expectedError: models.CodeValidation,
		},
		{
			name: "wrong credentials",
			inputBody: models.LoginRequest{
				Username: "wronguser",
				Password: "wrongpass",
			},
			mockSetup: func() {
				mockSvc.EXPECT().
					Login(gomock.Any(), "wronguser", "wrongpass").
					Return(nil, "", services.ErrInvalidCredentials)
			},
			expectedCode:  http.StatusUnauthorized,
			expectedError: models.CodeUnauthorized,
		},
		{
			name: "internal error",
			inputBody: models.LoginRequest{
				Username: "john",
				Password: "pass123",
			},
			mockSetup: func() {
				mockSvc.EXPECT().
					Login(gomock.Any(), "john", "pass123").
					Return(nil, "", errors.New("database error"))
			},
			expectedCode:  http.StatusInternalServerError,
			expectedError: models.CodeInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()

			req := newJSONRequest(t, http.MethodPost, "/auth/login", tt.inputBody)
			rr := httptest.NewRecorder()

			NewLoginHandler(mockSvc).ServeHTTP(rr, req)

			assert.Equal(t, tt.expectedCode, rr.Code)
			env := decodeEnvelope(t, rr)
			if tt.expectedError == "" {
				var auth models.AuthResponse
				require.NoError(t, json.Unmarshal(env.Data, &auth))
				assert.Equal(t, "JWT_TOKEN", auth.Token)
				assert.Equal(t, "john", auth.User.Username)
				return
			}
			assert.Equal(t, tt.expectedError, env.Error.Code)
		})
	}
}

func TestLogoutHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSvc := NewMockLogouter(ctrl)
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	claims := &appjwt.Claims{
		UserID: 1,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        "jti-1",
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}

	t.Run("revokes token", func(t *testing.T) {
		mockSvc.EXPECT().Logout(gomock.Any(), "jti-1", gomock.Any()).
			DoAndReturn(func(_ context.Context, _ string, ttl time.Duration) error {
				assert.Greater(t, ttl, 59*time.Minute)
				assert.LessOrEqual(t, ttl, time.Hour)
				return nil
			})

		req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
		req = req.WithContext(middlewares.WithClaims(req.Context(), claims))
		rr := httptest.NewRecorder()

		NewLogoutHandler(mockSvc).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.True(t, decodeEnvelope(t, rr).Success)
	})

	t.Run("no session", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
		rr := httptest.NewRecorder()

		NewLogoutHandler(mockSvc).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("revocation failure", func(t *testing.T) {
		mockSvc.EXPECT().Logout(gomock.Any(), "jti-1", gomock.Any()).Return(errors.New("redis down"))

		req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
		req = req.WithContext(middlewares.WithClaims(req.Context(), claims))
		rr := httptest.NewRecorder()

		NewLogoutHandler(mockSvc).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
	})
}
