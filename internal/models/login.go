package models

// LoginRequest represents the JSON body for user login
// swagger:model LoginRequest
type LoginRequest struct {
	// Username
	// required: true
	// example: john_doe
	Username string `json:"username" validate:"required"`

	// Password
	// required: true
	// example: Secret123!
	Password string `json:"password" validate:"required"`
}

// AuthResponse is returned on successful login or registration
// swagger:model AuthResponse
type AuthResponse struct {
	// Signed session token
	// example: JWT_TOKEN
	Token string `json:"token"`

	// Session user
	User Session `json:"user"`
}
