package services

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/buglab/bug-lab-be/internal/models"
)

// AssignmentServiceProvider defines the interface for the scientist-bug
// assignment relation.
type AssignmentServiceProvider interface {
	Assign(scientistID, bugID string) (models.Assignment, error)
	Unassign(scientistID, bugID string) (models.Assignment, error)
	BugsForScientist(scientistID string) ([]models.Bug, error)
}

// AssignmentService provides business logic for assigning bugs to scientists.
type AssignmentService struct {
	db *sql.DB
}

// NewAssignmentService creates a new AssignmentService.
func NewAssignmentService(db *sql.DB) *AssignmentService {
	return &AssignmentService{db: db}
}

// Assign links a bug to a scientist. The existence checks and the insert
// share one transaction so neither entity can be deleted in between.
func (s *AssignmentService) Assign(scientistID, bugID string) (models.Assignment, error) {
	if scientistID == "" || bugID == "" {
		return models.Assignment{}, fmt.Errorf("scientist id and bug id are required: %w", ErrInvalidInput)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return models.Assignment{}, err
	}
	defer tx.Rollback()

	if err = requireRow(tx, "SELECT id FROM scientists WHERE id = ?", scientistID,
		fmt.Errorf("scientist %s: %w", scientistID, ErrNotFound)); err != nil {
		return models.Assignment{}, err
	}
	if err = requireRow(tx, "SELECT id FROM bugs WHERE id = ?", bugID,
		fmt.Errorf("bug %s: %w", bugID, ErrNotFound)); err != nil {
		return models.Assignment{}, err
	}

	var one int
	err = tx.QueryRow("SELECT 1 FROM scientist_bugs WHERE scientist_id = ? AND bug_id = ?",
		scientistID, bugID).Scan(&one)
	if err == nil {
		return models.Assignment{}, fmt.Errorf("bug already assigned to this scientist: %w", ErrConflict)
	}
	if err != sql.ErrNoRows {
		return models.Assignment{}, err
	}

	assignment := models.Assignment{
		ScientistID: scientistID,
		BugID:       bugID,
		CreatedAt:   time.Now().UTC(),
	}
	_, err = tx.Exec("INSERT INTO scientist_bugs (scientist_id, bug_id, created_at) VALUES (?, ?, ?)",
		assignment.ScientistID, assignment.BugID, assignment.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return models.Assignment{}, fmt.Errorf("bug already assigned to this scientist: %w", ErrConflict)
		}
		return models.Assignment{}, err
	}

	if err = tx.Commit(); err != nil {
		return models.Assignment{}, err
	}
	return assignment, nil
}

// Unassign removes the link between a bug and a scientist.
func (s *AssignmentService) Unassign(scientistID, bugID string) (models.Assignment, error) {
	if scientistID == "" || bugID == "" {
		return models.Assignment{}, fmt.Errorf("scientist id and bug id are required: %w", ErrInvalidInput)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return models.Assignment{}, err
	}
	defer tx.Rollback()

	if err = requireRow(tx, "SELECT id FROM scientists WHERE id = ?", scientistID,
		fmt.Errorf("scientist %s: %w", scientistID, ErrNotFound)); err != nil {
		return models.Assignment{}, err
	}
	if err = requireRow(tx, "SELECT id FROM bugs WHERE id = ?", bugID,
		fmt.Errorf("bug %s: %w", bugID, ErrNotFound)); err != nil {
		return models.Assignment{}, err
	}

	var assignment models.Assignment
	err = tx.QueryRow("SELECT scientist_id, bug_id, created_at FROM scientist_bugs WHERE scientist_id = ? AND bug_id = ?",
		scientistID, bugID).Scan(&assignment.ScientistID, &assignment.BugID, &assignment.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.Assignment{}, fmt.Errorf("bug is not assigned to this scientist: %w", ErrNotFound)
		}
		return models.Assignment{}, err
	}

	if _, err = tx.Exec("DELETE FROM scientist_bugs WHERE scientist_id = ? AND bug_id = ?",
		scientistID, bugID); err != nil {
		return models.Assignment{}, err
	}

	if err = tx.Commit(); err != nil {
		return models.Assignment{}, err
	}
	return assignment, nil
}

// BugsForScientist returns all bugs assigned to a scientist. The order is
// fixed within a call (creation order, id as tiebreak).
func (s *AssignmentService) BugsForScientist(scientistID string) ([]models.Bug, error) {
	var id string
	err := s.db.QueryRow("SELECT id FROM scientists WHERE id = ?", scientistID).Scan(&id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("scientist %s: %w", scientistID, ErrNotFound)
		}
		return nil, err
	}

	rows, err := s.db.Query(`
	SELECT b.id, b.name, b.strength, b.type, b.created_at
	FROM bugs b
	JOIN scientist_bugs sb ON b.id = sb.bug_id
	WHERE sb.scientist_id = ?
	ORDER BY b.created_at, b.id`, scientistID)
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

// requireRow runs a single-column existence query and returns notFoundErr
// when no row matches.
func requireRow(tx *sql.Tx, query, arg string, notFoundErr error) error {
	var id string
	err := tx.QueryRow(query, arg).Scan(&id)
	if err == sql.ErrNoRows {
		return notFoundErr
	}
	return err
}
