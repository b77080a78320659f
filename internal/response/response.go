// Package response writes the JSON envelopes returned by every endpoint.
package response

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/sbilibin2017/gw-identity/internal/logger"
	"github.com/sbilibin2017/gw-identity/internal/models"
)

var now = time.Now

func timestamp() string {
	return now().UTC().Format(time.RFC3339)
}

// Success writes a success envelope with the given status.
func Success(w http.ResponseWriter, status int, data any, message string) {
	write(w, status, models.SuccessResponse{
		Success:   true,
		Data:      data,
		Message:   message,
		Timestamp: timestamp(),
	})
}

// Error writes a failure envelope with the given status.
func Error(w http.ResponseWriter, status int, code, message string, details ...models.FieldError) {
	write(w, status, models.ErrorResponse{
		Success: false,
		Error: models.ErrorBody{
			Code:    code,
			Message: message,
			Details: details,
		},
		Timestamp: timestamp(),
	})
}

func write(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Log.Errorw("failed to encode response", "status", status, "error", err)
	}
}
