package models

import "time"

// Session binds a client's cookie token to an authenticated User.
type Session struct {
	Token     string    `json:"-"` // The token is the credential itself
	UserID    string    `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}
