package services

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/buglab/bug-lab-be/internal/models"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// UserServiceProvider defines the interface for identity management.
type UserServiceProvider interface {
	GetUserByID(id string) (models.User, error)
	GetUserByEmail(email string) (models.User, error)
	CreateUser(email, hashedPassword string) (models.User, error)
	DeleteUser(id string) error
	Authenticate(email, password string) (models.User, error)
}

// UserService provides business logic for login identities.
type UserService struct {
	db *sql.DB
}

// NewUserService creates a new UserService.
func NewUserService(db *sql.DB) *UserService {
	return &UserService{db: db}
}

// GetUserByID retrieves a single user by their ID.
func (s *UserService) GetUserByID(id string) (models.User, error) {
	var user models.User
	row := s.db.QueryRow("SELECT id, email, password_hash, created_at FROM users WHERE id = ?", id)
	err := row.Scan(&user.ID, &user.Email, &user.PasswordHash, &user.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.User{}, fmt.Errorf("user %s: %w", id, ErrNotFound)
		}
		return models.User{}, err
	}
	return user, nil
}

// GetUserByEmail retrieves a single user by their email, including the password hash.
func (s *UserService) GetUserByEmail(email string) (models.User, error) {
	var user models.User
	row := s.db.QueryRow("SELECT id, email, password_hash, created_at FROM users WHERE email = ?", email)
	err := row.Scan(&user.ID, &user.Email, &user.PasswordHash, &user.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.User{}, fmt.Errorf("user with email %s: %w", email, ErrNotFound)
		}
		return models.User{}, err
	}
	return user, nil
}

// CreateUser inserts a new user with an already-hashed password.
func (s *UserService) CreateUser(email, hashedPassword string) (models.User, error) {
	user := models.User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: hashedPassword,
		CreatedAt:    time.Now().UTC(),
	}

	_, err := s.db.Exec("INSERT INTO users (id, email, password_hash, created_at) VALUES (?, ?, ?, ?)",
		user.ID, user.Email, user.PasswordHash, user.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return models.User{}, fmt.Errorf("email already registered: %w", ErrConflict)
		}
		return models.User{}, err
	}
	return user, nil
}

// DeleteUser removes a user. Its sessions go with it via the schema cascade.
func (s *UserService) DeleteUser(id string) error {
	res, err := s.db.Exec("DELETE FROM users WHERE id = ?", id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("user %s: %w", id, ErrNotFound)
	}
	return nil
}

// Authenticate verifies a user's credentials. An unknown email and a wrong
// password produce the same error so the response leaks nothing.
func (s *UserService) Authenticate(email, password string) (models.User, error) {
	user, err := s.GetUserByEmail(email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return models.User{}, ErrInvalidCredentials
		}
		return models.User{}, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return models.User{}, ErrInvalidCredentials
	}

	// Don't hand the password hash to callers
	user.PasswordHash = ""
	return user, nil
}
