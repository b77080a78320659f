package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/sbilibin2017/gw-identity/internal/models"
	"github.com/sbilibin2017/gw-identity/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSvc := NewMockRegisterer(ctrl)

	valid := models.RegisterRequest{
		Username:        "john_doe",
		Email:           "john@example.com",
		Name:            "John Doe",
		Password:        "Secret123!",
		ConfirmPassword: "Secret123!",
	}

	tests := []struct {
		name          string
		inputBody     interface{}
		mockSetup     func()
		expectedCode  int
		expectedError string
		expectedField string
	}{
		{
			name:      "success",
			inputBody: valid,
			mockSetup: func() {
				mockSvc.EXPECT().
					Register(gomock.Any(), valid).
					Return(&models.Session{ID: 1, Username: "john_doe", Name: "John Doe"}, "JWT_TOKEN", nil)
			},
			expectedCode: http.StatusCreated,
		},
		{
			name:          "invalid JSON",
			inputBody:     "{invalid json}",
			mockSetup:     func() {},
			expectedCode:  http.StatusBadRequest,
			expectedError: models.CodeBadRequest,
		},
		{
			name: "weak password",
			inputBody: models.RegisterRequest{
				Username:        "john_doe",
				Email:           "john@example.com",
				Name:            "John Doe",
				Password:        "secret",
				ConfirmPassword: "secret",
			},
			mockSetup:     func() {},
			expectedCode:  http.StatusBadRequest,
			expectedError: models.CodeValidation,
			expectedField: "password",
		},
		{
			name: "multibyte password over bcrypt limit",
			inputBody: models.RegisterRequest{
				Username:        "john_doe",
				Email:           "john@example.com",
				Name:            "John Doe",
				Password:        "Ab1!" + strings.Repeat("é", 68),
				ConfirmPassword: "Ab1!" + strings.Repeat("é", 68),
			},
			mockSetup:     func() {},
			expectedCode:  http.StatusBadRequest,
			expectedError: models.CodeValidation,
			expectedField: "password",
		},
		{
			name: "email too long",
			inputBody: models.RegisterRequest{
				Username:        "john_doe",
				Email:           strings.Repeat("a", 250) + "@example.com",
				Name:            "John Doe",
				Password:        "Secret123!",
				ConfirmPassword: "Secret123!",
			},
			mockSetup:     func() {},
			expectedCode:  http.StatusBadRequest,
			expectedError: models.CodeValidation,
			expectedField: "email",
		},
		{
			name: "passwords differ",
			inputBody: models.RegisterRequest{
				Username:        "john_doe",
				Email:           "john@example.com",
				Name:            "John Doe",
				Password:        "Secret123!",
				ConfirmPassword: "Secret123?",
			},
			mockSetup:     func() {},
			expectedCode:  http.StatusBadRequest,
			expectedError: models.CodeValidation,
			expectedField: "confirm_password",
		},
		{
			name:      "user already exists",
			inputBody: valid,
			mockSetup: func() {
				mockSvc.EXPECT().
					Register(gomock.Any(), valid).
					Return(nil, "", services.ErrUserAlreadyExists)
			},
			expectedCode:  http.StatusConflict,
			expectedError: models.CodeConflict,
		},
		{
			name:      "internal error",
			inputBody: valid,
			mockSetup: func() {
				mockSvc.EXPECT().
					Register(gomock.Any(), valid).
					Return(nil, "", errors.New("database error"))
			},
			expectedCode:  http.StatusInternalServerError,
			expectedError: models.CodeInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()

			req := newJSONRequest(t, http.MethodPost, "/auth/register", tt.inputBody)
			rr := httptest.NewRecorder()

			NewRegisterHandler(mockSvc).ServeHTTP(rr, req)

			assert.Equal(t, tt.expectedCode, rr.Code)
			env := decodeEnvelope(t, rr)

			if tt.expectedError == "" {
				require.True(t, env.Success)
				var auth models.AuthResponse
				require.NoError(t, json.Unmarshal(env.Data, &auth))
				assert.Equal(t, "JWT_TOKEN", auth.Token)
				assert.Equal(t, int64(1), auth.User.ID)
				assert.NotContains(t, string(env.Data), "password")
				return
			}

			assert.False(t, env.Success)
			assert.Equal(t, tt.expectedError, env.Error.Code)
			if tt.expectedField != "" {
				require.NotEmpty(t, env.Error.Details)
				assert.Equal(t, tt.expectedField, env.Error.Details[0].Field)
			}
		})
	}
}
