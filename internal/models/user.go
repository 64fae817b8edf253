package models

import "time"

// User represents a login identity in the system.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Never expose this to the client
	CreatedAt    time.Time `json:"createdAt"`
}
