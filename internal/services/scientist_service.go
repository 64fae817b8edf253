package services

import (
	"database/sql"
	"fmt"
	"regexp"
	"time"

	"github.com/buglab/bug-lab-be/internal/models"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ScientistServiceProvider defines the interface for profile management.
type ScientistServiceProvider interface {
	Register(name, email, password string) (models.Scientist, error)
	GetAll() ([]models.Scientist, error)
	GetByID(id string) (models.Scientist, error)
	GetByUserID(userID string) (models.Scientist, error)
	Update(id, name, email, password string) (models.Scientist, error)
	Delete(id string) (models.Scientist, error)
}

// ScientistService provides business logic for scientist profiles and the
// login identities linked to them.
type ScientistService struct {
	db *sql.DB
}

// NewScientistService creates a new ScientistService.
func NewScientistService(db *sql.DB) *ScientistService {
	return &ScientistService{db: db}
}

// Register creates a User and a linked Scientist in a single transaction.
// Either both rows exist afterwards or neither does.
func (s *ScientistService) Register(name, email, password string) (models.Scientist, error) {
	if name == "" || email == "" || password == "" {
		return models.Scientist{}, fmt.Errorf("name, email and password are required: %w", ErrInvalidInput)
	}
	if !emailPattern.MatchString(email) {
		return models.Scientist{}, fmt.Errorf("invalid email format: %w", ErrInvalidInput)
	}
	if len(password) < 8 {
		return models.Scientist{}, fmt.Errorf("password must be at least 8 characters long: %w", ErrInvalidInput)
	}

	// Hash before opening the transaction; a conflict detected later still
	// rolls back and the work is simply discarded.
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.Scientist{}, fmt.Errorf("failed to hash password: %w", err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return models.Scientist{}, err
	}
	defer tx.Rollback()

	var existing string
	err = tx.QueryRow("SELECT id FROM users WHERE email = ?", email).Scan(&existing)
	if err == nil {
		return models.Scientist{}, fmt.Errorf("email already registered: %w", ErrConflict)
	}
	if err != sql.ErrNoRows {
		return models.Scientist{}, err
	}

	now := time.Now().UTC()
	userID := uuid.New().String()
	_, err = tx.Exec("INSERT INTO users (id, email, password_hash, created_at) VALUES (?, ?, ?, ?)",
		userID, email, string(hashed), now)
	if err != nil {
		if isUniqueViolation(err) {
			return models.Scientist{}, fmt.Errorf("email already registered: %w", ErrConflict)
		}
		return models.Scientist{}, err
	}

	scientist := models.Scientist{
		ID:        uuid.New().String(),
		Name:      name,
		Email:     email,
		UserID:    &userID,
		CreatedAt: now,
	}
	_, err = tx.Exec("INSERT INTO scientists (id, name, email, user_id, created_at) VALUES (?, ?, ?, ?, ?)",
		scientist.ID, scientist.Name, scientist.Email, userID, now)
	if err != nil {
		if isUniqueViolation(err) {
			// The scientists email constraint can fire even when the users
			// check passed (a legacy profile without a login identity).
			return models.Scientist{}, fmt.Errorf("scientist with this email already exists: %w", ErrConflict)
		}
		return models.Scientist{}, err
	}

	if err = tx.Commit(); err != nil {
		return models.Scientist{}, err
	}
	return scientist, nil
}

// GetAll retrieves all scientists, each with their assigned bugs.
func (s *ScientistService) GetAll() ([]models.Scientist, error) {
	rows, err := s.db.Query("SELECT id, name, email, user_id, created_at FROM scientists ORDER BY created_at, id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	scientists := []models.Scientist{}
	index := map[string]int{}
	for rows.Next() {
		sc, err := scanScientist(rows)
		if err != nil {
			return nil, err
		}
		sc.Bugs = []models.Bug{}
		index[sc.ID] = len(scientists)
		scientists = append(scientists, sc)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	bugRows, err := s.db.Query(`
	SELECT sb.scientist_id, b.id, b.name, b.strength, b.type, b.created_at
	FROM bugs b
	JOIN scientist_bugs sb ON b.id = sb.bug_id
	ORDER BY b.created_at, b.id`)
	if err != nil {
		return nil, err
	}
	defer bugRows.Close()

	for bugRows.Next() {
		var scientistID string
		var bug models.Bug
		if err := bugRows.Scan(&scientistID, &bug.ID, &bug.Name, &bug.Strength, &bug.Type, &bug.CreatedAt); err != nil {
			return nil, err
		}
		if i, ok := index[scientistID]; ok {
			scientists[i].Bugs = append(scientists[i].Bugs, bug)
		}
	}
	return scientists, bugRows.Err()
}

// GetByID retrieves a single scientist with their assigned bugs.
func (s *ScientistService) GetByID(id string) (models.Scientist, error) {
	row := s.db.QueryRow("SELECT id, name, email, user_id, created_at FROM scientists WHERE id = ?", id)
	sc, err := scanScientist(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.Scientist{}, fmt.Errorf("scientist %s: %w", id, ErrNotFound)
		}
		return models.Scientist{}, err
	}

	bugRows, err := s.db.Query(`
	SELECT b.id, b.name, b.strength, b.type, b.created_at
	FROM bugs b
	JOIN scientist_bugs sb ON b.id = sb.bug_id
	WHERE sb.scientist_id = ?
	ORDER BY b.created_at, b.id`, id)
	if err != nil {
		return models.Scientist{}, err
	}
	defer bugRows.Close()

	sc.Bugs = []models.Bug{}
	for bugRows.Next() {
		var bug models.Bug
		if err := bugRows.Scan(&bug.ID, &bug.Name, &bug.Strength, &bug.Type, &bug.CreatedAt); err != nil {
			return models.Scientist{}, err
		}
		sc.Bugs = append(sc.Bugs, bug)
	}
	return sc, bugRows.Err()
}

// GetByUserID retrieves the scientist profile linked to a login identity.
func (s *ScientistService) GetByUserID(userID string) (models.Scientist, error) {
	row := s.db.QueryRow("SELECT id, name, email, user_id, created_at FROM scientists WHERE user_id = ?", userID)
	sc, err := scanScientist(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.Scientist{}, fmt.Errorf("no scientist for user %s: %w", userID, ErrNotFound)
		}
		return models.Scientist{}, err
	}
	return sc, nil
}

// Update changes a scientist's name and email, and optionally the linked
// user's password, all within one transaction. The email is mirrored onto
// the linked user row to keep the pair consistent with how Register
// creates it.
func (s *ScientistService) Update(id, name, email, password string) (models.Scientist, error) {
	if name == "" || email == "" {
		return models.Scientist{}, fmt.Errorf("name and email are required: %w", ErrInvalidInput)
	}
	if !emailPattern.MatchString(email) {
		return models.Scientist{}, fmt.Errorf("invalid email format: %w", ErrInvalidInput)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return models.Scientist{}, err
	}
	defer tx.Rollback()

	var userID sql.NullString
	err = tx.QueryRow("SELECT user_id FROM scientists WHERE id = ?", id).Scan(&userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.Scientist{}, fmt.Errorf("scientist %s: %w", id, ErrNotFound)
		}
		return models.Scientist{}, err
	}

	var other string
	err = tx.QueryRow("SELECT id FROM scientists WHERE email = ? AND id != ?", email, id).Scan(&other)
	if err == nil {
		return models.Scientist{}, fmt.Errorf("email already in use: %w", ErrConflict)
	}
	if err != sql.ErrNoRows {
		return models.Scientist{}, err
	}

	if password != "" {
		if !userID.Valid {
			// Nothing to authenticate against, so nothing to set a password on.
			return models.Scientist{}, ErrNoLinkedUser
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return models.Scientist{}, fmt.Errorf("failed to hash password: %w", err)
		}
		if _, err = tx.Exec("UPDATE users SET password_hash = ? WHERE id = ?", string(hashed), userID.String); err != nil {
			return models.Scientist{}, err
		}
	}

	if _, err = tx.Exec("UPDATE scientists SET name = ?, email = ? WHERE id = ?", name, email, id); err != nil {
		if isUniqueViolation(err) {
			return models.Scientist{}, fmt.Errorf("email already in use: %w", ErrConflict)
		}
		return models.Scientist{}, err
	}

	if userID.Valid {
		if _, err = tx.Exec("UPDATE users SET email = ? WHERE id = ?", email, userID.String); err != nil {
			if isUniqueViolation(err) {
				return models.Scientist{}, fmt.Errorf("email already in use: %w", ErrConflict)
			}
			return models.Scientist{}, err
		}
	}

	row := tx.QueryRow("SELECT id, name, email, user_id, created_at FROM scientists WHERE id = ?", id)
	sc, err := scanScientist(row)
	if err != nil {
		return models.Scientist{}, err
	}

	if err = tx.Commit(); err != nil {
		return models.Scientist{}, err
	}
	return sc, nil
}

// Delete removes a scientist, all its assignments, and its linked user (if
// any) in a single transaction. Deleting the user also removes the user's
// sessions through the schema cascade.
func (s *ScientistService) Delete(id string) (models.Scientist, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return models.Scientist{}, err
	}
	defer tx.Rollback()

	row := tx.QueryRow("SELECT id, name, email, user_id, created_at FROM scientists WHERE id = ?", id)
	sc, err := scanScientist(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.Scientist{}, fmt.Errorf("scientist %s: %w", id, ErrNotFound)
		}
		return models.Scientist{}, err
	}

	if _, err = tx.Exec("DELETE FROM scientist_bugs WHERE scientist_id = ?", id); err != nil {
		return models.Scientist{}, err
	}
	if _, err = tx.Exec("DELETE FROM scientists WHERE id = ?", id); err != nil {
		return models.Scientist{}, err
	}
	if sc.UserID != nil {
		if _, err = tx.Exec("DELETE FROM users WHERE id = ?", *sc.UserID); err != nil {
			return models.Scientist{}, err
		}
	}

	if err = tx.Commit(); err != nil {
		return models.Scientist{}, err
	}
	return sc, nil
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanScientist(row scanner) (models.Scientist, error) {
	var sc models.Scientist
	var userID sql.NullString
	if err := row.Scan(&sc.ID, &sc.Name, &sc.Email, &userID, &sc.CreatedAt); err != nil {
		return models.Scientist{}, err
	}
	if userID.Valid {
		uid := userID.String
		sc.UserID = &uid
	}
	return sc, nil
}
