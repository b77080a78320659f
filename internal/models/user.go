package models

import "time"

// User represents a user record in the database
type User struct {
	ID          int64      `json:"id" db:"id"`                       // Surrogate key, assigned by the store
	Username    string     `json:"username" db:"username"`           // Unique, lowercase
	Email       string     `json:"email" db:"email"`                 // Unique, lowercase
	Name        string     `json:"name" db:"name"`                   // Display name
	Password    string     `json:"-" db:"password"`                  // bcrypt hash
	IsAdmin     bool       `json:"is_admin" db:"is_admin"`           // Admin flag
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`       // Creation timestamp
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`       // Last update timestamp
	LastLoginAt *time.Time `json:"last_login_at" db:"last_login_at"` // Last successful login, nil if never
}

// UserCreate holds the fields of a new user. Password must already be hashed.
type UserCreate struct {
	Username    string
	Email       string
	Name        string
	Password    string
	IsAdmin     bool
	LastLoginAt *time.Time
}

// UserUpdate is a partial update of the user with the given ID.
// Nil fields are left untouched. Password, when set, must already be hashed.
type UserUpdate struct {
	ID          int64
	Username    *string
	Email       *string
	Name        *string
	Password    *string
	IsAdmin     *bool
	LastLoginAt *time.Time
}

// IsEmpty reports whether the update changes no user field.
func (u UserUpdate) IsEmpty() bool {
	return u.Username == nil && u.Email == nil && u.Name == nil &&
		u.Password == nil && u.IsAdmin == nil && u.LastLoginAt == nil
}

// Profile is the caller's own account view
// swagger:model Profile
type Profile struct {
	ID           int64      `json:"id"`
	Username     string     `json:"username"`
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	IsAdmin      bool       `json:"is_admin"`
	CreatedAt    time.Time  `json:"created_at"`
	LastLoginAt  *time.Time `json:"last_login_at"`
	HasPassword  bool       `json:"has_password"`
	PasskeyCount int        `json:"passkey_count"`
}
