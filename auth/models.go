// Package auth handles registration, login, token issuance and request
// authentication. This file defines the User model as stored in the
// users table.
package auth

import "time"

// User represents a registered user. The password hash never serializes
// into API responses.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}
