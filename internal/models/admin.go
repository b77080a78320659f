package models

// CreateUserRequest represents the JSON body for admin user creation
// swagger:model CreateUserRequest
type CreateUserRequest struct {
	// example: jane_doe
	Username string `json:"username" validate:"required,username"`
	// example: jane@example.com
	Email string `json:"email" validate:"required,max=255,email"`
	// example: Jane Doe
	Name string `json:"name" validate:"required,max=100"`
	// example: Secret123!
	Password string `json:"password" validate:"required,pwbytes,password"`
	// example: false
	IsAdmin bool `json:"is_admin"`
}

// UpdateUserRequest represents the JSON body for a partial admin update
// swagger:model UpdateUserRequest
type UpdateUserRequest struct {
	Username *string `json:"username,omitempty" validate:"omitempty,username"`
	Email    *string `json:"email,omitempty" validate:"omitempty,max=255,email"`
	Name     *string `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	Password *string `json:"password,omitempty" validate:"omitempty,pwbytes,password"`
	IsAdmin  *bool   `json:"is_admin,omitempty"`
}

// BulkDeleteRequest represents the JSON body for deleting several users
// swagger:model BulkDeleteRequest
type BulkDeleteRequest struct {
	// required: true
	// example: [2, 3]
	UserIDs []int64 `json:"user_ids" validate:"required,min=1,dive,gt=0"`
}

// BulkDeleteResponse reports how many ids were processed
// swagger:model BulkDeleteResponse
type BulkDeleteResponse struct {
	// example: 2
	Deleted int `json:"deleted"`
}

// PasswordStrengthRequest represents the JSON body for strength scoring
// swagger:model PasswordStrengthRequest
type PasswordStrengthRequest struct {
	// example: Secret123!
	Password string `json:"password"`
}

// ClearCacheResponse reports how many cached entries were removed
// swagger:model ClearCacheResponse
type ClearCacheResponse struct {
	// example: 12
	Removed int64 `json:"removed"`
}
