package models

// Error codes used in failure envelopes.
const (
	CodeBadRequest   = "BAD_REQUEST"
	CodeValidation   = "VALIDATION_ERROR"
	CodeConflict     = "CONFLICT"
	CodeNotFound     = "NOT_FOUND"
	CodeUnauthorized = "UNAUTHORIZED"
	CodeForbidden    = "FORBIDDEN"
	CodeInternal     = "INTERNAL_ERROR"
)

// SuccessResponse wraps every successful API payload
// swagger:model SuccessResponse
type SuccessResponse struct {
	// example: true
	Success bool   `json:"success"`
	Data    any    `json:"data"`
	Message string `json:"message,omitempty"`
	// example: 2025-01-01T00:00:00Z
	Timestamp string `json:"timestamp"`
}

// ErrorResponse wraps every failed API call
// swagger:model ErrorResponse
type ErrorResponse struct {
	// example: false
	Success   bool      `json:"success"`
	Error     ErrorBody `json:"error"`
	Timestamp string    `json:"timestamp"`
}

// ErrorBody describes a failure
type ErrorBody struct {
	// example: NOT_FOUND
	Code string `json:"code"`
	// example: User not found
	Message string       `json:"message"`
	Details []FieldError `json:"details,omitempty"`
}

// FieldError is a single field-level validation message
type FieldError struct {
	// example: password
	Field string `json:"field"`
	// example: Password must be at least 8 characters
	Message string `json:"message"`
}
