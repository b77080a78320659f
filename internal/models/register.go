package models

// RegisterRequest represents the JSON body for user registration
// swagger:model RegisterRequest
type RegisterRequest struct {
	// Username
	// required: true
	// example: john_doe
	Username string `json:"username" validate:"required,username"`

	// Email
	// required: true
	// example: john@example.com
	Email string `json:"email" validate:"required,max=255,email"`

	// Display name
	// required: true
	// example: John Doe
	Name string `json:"name" validate:"required,max=100"`

	// Password
	// required: true
	// example: Secret123!
	Password string `json:"password" validate:"required,pwbytes,password"`

	// Password confirmation
	// required: true
	// example: Secret123!
	ConfirmPassword string `json:"confirm_password" validate:"required,eqfield=Password"`
}
