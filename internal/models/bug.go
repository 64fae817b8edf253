package models

import "time"

// Bug is a tracked defect with a numeric severity and a category label.
type Bug struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Strength  int       `json:"strength"`
	Type      string    `json:"type"`
	CreatedAt time.Time `json:"createdAt"`
}
