package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/sbilibin2017/gw-identity/internal/logger"
	"github.com/sbilibin2017/gw-identity/internal/middlewares"
	"github.com/sbilibin2017/gw-identity/internal/models"
	"github.com/sbilibin2017/gw-identity/internal/response"
	"github.com/sbilibin2017/gw-identity/internal/services"
	"github.com/sbilibin2017/gw-identity/internal/validation"
)

var errInvalidID = errors.New("invalid user id")

// decodeAndValidate reads a JSON body into dst and runs the validation gate.
// On failure it writes the 400 response and returns false.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		response.Error(w, http.StatusBadRequest, models.CodeBadRequest, "Invalid request body")
		return false
	}
	if err := validation.Validate(dst); err != nil {
		writeError(w, r, err)
		return false
	}
	return true
}

// writeError maps a service error to its status code and failure envelope.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *validation.ValidationError
	switch {
	case errors.As(err, &verr):
		response.Error(w, http.StatusBadRequest, models.CodeValidation, "Validation failed", verr.Fields...)
	case errors.Is(err, errInvalidID):
		response.Error(w, http.StatusBadRequest, models.CodeBadRequest, "Invalid user id")
	case errors.Is(err, services.ErrUserAlreadyExists):
		response.Error(w, http.StatusConflict, models.CodeConflict, "Username or email already exists")
	case errors.Is(err, services.ErrUserNotFound):
		response.Error(w, http.StatusNotFound, models.CodeNotFound, "User not found")
	case errors.Is(err, services.ErrInvalidCredentials):
		response.Error(w, http.StatusUnauthorized, models.CodeUnauthorized, "Invalid username or password")
	default:
		logger.Log.Errorw("internal server error",
			"request_id", middlewares.RequestIDFromContext(r.Context()),
			"err", err,
		)
		response.Error(w, http.StatusInternalServerError, models.CodeInternal, "Internal server error")
	}
}

// userID parses the {id} path parameter.
func userID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, errInvalidID
	}
	return id, nil
}
