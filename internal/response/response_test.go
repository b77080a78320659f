package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sbilibin2017/gw-identity/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixClock(t *testing.T) {
	t.Helper()
	prev := now
	now = func() time.Time { return time.Date(2025, 1, 2, 3, 4, 5, 0, time.FixedZone("X", 3600)) }
	t.Cleanup(func() { now = prev })
}

func TestSuccess(t *testing.T) {
	fixClock(t)
	rr := httptest.NewRecorder()

	Success(rr, http.StatusCreated, map[string]int{"id": 1}, "created")

	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	assert.JSONEq(t,
		`{"success":true,"data":{"id":1},"message":"created","timestamp":"2025-01-02T02:04:05Z"}`,
		rr.Body.String())
}

func TestSuccess_OmitsEmptyMessage(t *testing.T) {
	fixClock(t)
	rr := httptest.NewRecorder()

	Success(rr, http.StatusOK, nil, "")

	assert.JSONEq(t, `{"success":true,"data":null,"timestamp":"2025-01-02T02:04:05Z"}`, rr.Body.String())
}

func TestError(t *testing.T) {
	fixClock(t)
	rr := httptest.NewRecorder()

	Error(rr, http.StatusBadRequest, models.CodeValidation, "Validation failed",
		models.FieldError{Field: "email", Message: "Invalid email address"})

	assert.Equal(t, http.StatusBadRequest, rr.Code)

	var body models.ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.False(t, body.Success)
	assert.Equal(t, models.CodeValidation, body.Error.Code)
	assert.Equal(t, "Validation failed", body.Error.Message)
	assert.Equal(t, []models.FieldError{{Field: "email", Message: "Invalid email address"}}, body.Error.Details)
}

func TestError_WithoutDetails(t *testing.T) {
	fixClock(t)
	rr := httptest.NewRecorder()

	Error(rr, http.StatusNotFound, models.CodeNotFound, "User not found")

	assert.JSONEq(t,
		`{"success":false,"error":{"code":"NOT_FOUND","message":"User not found"},"timestamp":"2025-01-02T02:04:05Z"}`,
		rr.Body.String())
}
