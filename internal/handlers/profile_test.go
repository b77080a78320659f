package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/sbilibin2017/gw-identity/internal/jwt"
	"github.com/sbilibin2017/gw-identity/internal/middlewares"
	"github.com/sbilibin2017/gw-identity/internal/models"
	"github.com/sbilibin2017/gw-identity/internal/password"
	"github.com/sbilibin2017/gw-identity/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfileHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSvc := NewMockProfiler(ctrl)

	t.Run("found", func(t *testing.T) {
		mockSvc.EXPECT().Profile(gomock.Any(), int64(3)).
			Return(&models.Profile{ID: 3, Username: "carol", HasPassword: true, PasskeyCount: 1}, nil)

		req := httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
		req = req.WithContext(middlewares.WithClaims(req.Context(), &jwt.Claims{UserID: 3}))
		rr := httptest.NewRecorder()

		NewProfileHandler(mockSvc).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		var p models.Profile
		require.NoError(t, json.Unmarshal(decodeEnvelope(t, rr).Data, &p))
		assert.Equal(t, "carol", p.Username)
		assert.Equal(t, 1, p.PasskeyCount)
	})

	t.Run("user gone", func(t *testing.T) {
		mockSvc.EXPECT().Profile(gomock.Any(), int64(3)).Return(nil, services.ErrUserNotFound)

		req := httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
		req = req.WithContext(middlewares.WithClaims(req.Context(), &jwt.Claims{UserID: 3}))
		rr := httptest.NewRecorder()

		NewProfileHandler(mockSvc).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
		assert.Equal(t, models.CodeNotFound, decodeEnvelope(t, rr).Error.Code)
	})

	t.Run("no session", func(t *testing.T) {
		rr := httptest.NewRecorder()
		NewProfileHandler(mockSvc).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/users/me", nil))
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}

func TestPasswordStrengthHandler(t *testing.T) {
	tests := []struct {
		name         string
		body         interface{}
		expectedCode int
		level        string
		score        int
	}{
		{name: "very strong", body: models.PasswordStrengthRequest{Password: "Abcdefgh1!xyzuvw"}, expectedCode: http.StatusOK, level: password.LevelVeryStrong, score: 100},
		{name: "empty", body: models.PasswordStrengthRequest{}, expectedCode: http.StatusOK, level: password.LevelWeak, score: 0},
		{name: "invalid JSON", body: "{", expectedCode: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := newJSONRequest(t, http.MethodPost, "/api/password/strength", tt.body)
			rr := httptest.NewRecorder()

			NewPasswordStrengthHandler().ServeHTTP(rr, req)

			assert.Equal(t, tt.expectedCode, rr.Code)
			if tt.expectedCode != http.StatusOK {
				return
			}
			var s password.Strength
			require.NoError(t, json.Unmarshal(decodeEnvelope(t, rr).Data, &s))
			assert.Equal(t, tt.level, s.Level)
			assert.Equal(t, tt.score, s.Score)
		})
	}
}
