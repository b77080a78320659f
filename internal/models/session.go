package models

// Session is the user projection carried by a session token.
// It never contains credential material.
// swagger:model Session
type Session struct {
	// example: 1
	ID int64 `json:"id"`
	// example: john_doe
	Username string `json:"username"`
	// example: John Doe
	Name string `json:"name"`
	// example: false
	IsAdmin bool `json:"is_admin"`
}

// SessionFromUser builds the session projection of u.
func SessionFromUser(u *User) Session {
	return Session{
		ID:       u.ID,
		Username: u.Username,
		Name:     u.Name,
		IsAdmin:  u.IsAdmin,
	}
}
