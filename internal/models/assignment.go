package models

import "time"

// Assignment pairs one Scientist with one Bug. At most one row per pair.
type Assignment struct {
	ScientistID string    `json:"scientistId"`
	BugID       string    `json:"bugId"`
	CreatedAt   time.Time `json:"createdAt"`
}
