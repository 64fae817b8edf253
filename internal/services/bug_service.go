package services

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/buglab/bug-lab-be/internal/models"
	"github.com/google/uuid"
)

// BugServiceProvider defines the interface for bug management.
type BugServiceProvider interface {
	Create(name string, strength int, bugType string) (models.Bug, error)
	GetAll() ([]models.Bug, error)
	GetByID(id string) (models.Bug, error)
	Update(id, name string, strength int, bugType string) (models.Bug, error)
	Delete(id string) (models.Bug, error)
}

// BugService provides business logic for bug management.
type BugService struct {
	db *sql.DB
}

// NewBugService creates a new BugService.
func NewBugService(db *sql.DB) *BugService {
	return &BugService{db: db}
}

// Create inserts a new bug.
func (s *BugService) Create(name string, strength int, bugType string) (models.Bug, error) {
	if name == "" || bugType == "" || strength <= 0 {
		return models.Bug{}, fmt.Errorf("name, strength and type are required: %w", ErrInvalidInput)
	}

	bug := models.Bug{
		ID:        uuid.New().String(),
		Name:      name,
		Strength:  strength,
		Type:      bugType,
		CreatedAt: time.Now().UTC(),
	}
	_, err := s.db.Exec("INSERT INTO bugs (id, name, strength, type, created_at) VALUES (?, ?, ?, ?, ?)",
		bug.ID, bug.Name, bug.Strength, bug.Type, bug.CreatedAt)
	if err != nil {
		return models.Bug{}, err
	}
	return bug, nil
}

// GetAll retrieves all bugs.
func (s *BugService) GetAll() ([]models.Bug, error) {
	rows, err := s.db.Query("SELECT id, name, strength, type, created_at FROM bugs ORDER BY created_at, id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bugs := []models.Bug{}
	for rows.Next() {
		var bug models.Bug
		if err := rows.Scan(&bug.ID, &bug.Name, &bug.Strength, &bug.Type, &bug.CreatedAt); err != nil {
			return nil, err
		}
		bugs = append(bugs, bug)
	}
	return bugs, rows.Err()
}

// GetByID retrieves a single bug by its ID.
func (s *BugService) GetByID(id string) (models.Bug, error) {
	var bug models.Bug
	row := s.db.QueryRow("SELECT id, name, strength, type, created_at FROM bugs WHERE id = ?", id)
	err := row.Scan(&bug.ID, &bug.Name, &bug.Strength, &bug.Type, &bug.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.Bug{}, fmt.Errorf("bug %s: %w", id, ErrNotFound)
		}
		return models.Bug{}, err
	}
	return bug, nil
}

// Update replaces a bug's fields.
func (s *BugService) Update(id, name string, strength int, bugType string) (models.Bug, error) {
	if name == "" || bugType == "" || strength <= 0 {
		return models.Bug{}, fmt.Errorf("name, strength and type are required: %w", ErrInvalidInput)
	}

	res, err := s.db.Exec("UPDATE bugs SET name = ?, strength = ?, type = ? WHERE id = ?",
		name, strength, bugType, id)
	if err != nil {
		return models.Bug{}, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return models.Bug{}, err
	}
	if affected == 0 {
		return models.Bug{}, fmt.Errorf("bug %s: %w", id, ErrNotFound)
	}
	return s.GetByID(id)
}

// Delete removes a bug and all assignments referencing it in one transaction.
func (s *BugService) Delete(id string) (models.Bug, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return models.Bug{}, err
	}
	defer tx.Rollback()

	var bug models.Bug
	row := tx.QueryRow("SELECT id, name, strength, type, created_at FROM bugs WHERE id = ?", id)
	err = row.Scan(&bug.ID, &bug.Name, &bug.Strength, &bug.Type, &bug.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.Bug{}, fmt.Errorf("bug %s: %w", id, ErrNotFound)
		}
		return models.Bug{}, err
	}

	if _, err = tx.Exec("DELETE FROM scientist_bugs WHERE bug_id = ?", id); err != nil {
		return models.Bug{}, err
	}
	if _, err = tx.Exec("DELETE FROM bugs WHERE id = ?", id); err != nil {
		return models.Bug{}, err
	}

	if err = tx.Commit(); err != nil {
		return models.Bug{}, err
	}
	return bug, nil
}
