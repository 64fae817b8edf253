package models

import "time"

// Scientist is a domain profile, optionally linked to exactly one User.
// A Scientist may exist without a login identity (legacy or admin-created),
// but a User maps to at most one Scientist.
type Scientist struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	UserID    *string   `json:"userId,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	Bugs      []Bug     `json:"bugs,omitempty"`
}
