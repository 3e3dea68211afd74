package models

import "time"

// User represents a user account row in the hosted datastore. Password
// holds the encoded hash; it round-trips to the row store but is never
// written to a client.
type User struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Password  string    `json:"password,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// FilteredUser is the outward-facing projection of a User.
type FilteredUser struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// Filtered strips sensitive fields for responses.
func (u User) Filtered() FilteredUser {
	return FilteredUser{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
	}
}
