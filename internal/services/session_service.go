package services

import (
	"crypto/rand"
	"database/sql"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/buglab/bug-lab-be/internal/models"
)

// SessionServiceProvider defines the interface for server-side sessions.
type SessionServiceProvider interface {
	Create(userID string) (models.Session, error)
	Resolve(token string) (models.User, error)
	Delete(token string) error
	PurgeExpired() (int64, error)
}

// SessionService stores sessions in the database so that deleting a user
// invalidates its sessions and logout destroys server-side state.
type SessionService struct {
	db  *sql.DB
	ttl time.Duration
}

// NewSessionService creates a new SessionService.
func NewSessionService(db *sql.DB, ttl time.Duration) *SessionService {
	return &SessionService{db: db, ttl: ttl}
}

// newSessionToken returns a random URL-safe token. Tokens are credentials,
// so they come from crypto/rand rather than a uuid.
func newSessionToken() (string, error) {
	b := make([]byte, 24) // 192 bits of entropy
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate session token: %w", err)
	}
	return strings.TrimRight(base64.URLEncoding.EncodeToString(b), "="), nil
}

// Create opens a new session for a user.
func (s *SessionService) Create(userID string) (models.Session, error) {
	token, err := newSessionToken()
	if err != nil {
		return models.Session{}, err
	}

	now := time.Now().UTC()
	session := models.Session{
		Token:     token,
		UserID:    userID,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}
	_, err = s.db.Exec("INSERT INTO sessions (token, user_id, created_at, expires_at) VALUES (?, ?, ?, ?)",
		session.Token, session.UserID, session.CreatedAt, session.ExpiresAt)
	if err != nil {
		return models.Session{}, err
	}
	return session, nil
}

// Resolve maps a session token to its user. Expired tokens and tokens whose
// user no longer exists are deleted and rejected; a stale session is never
// silently authenticated.
func (s *SessionService) Resolve(token string) (models.User, error) {
	var session models.Session
	err := s.db.QueryRow("SELECT token, user_id, created_at, expires_at FROM sessions WHERE token = ?", token).
		Scan(&session.Token, &session.UserID, &session.CreatedAt, &session.ExpiresAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.User{}, ErrInvalidCredentials
		}
		return models.User{}, err
	}

	if time.Now().After(session.ExpiresAt) {
		s.db.Exec("DELETE FROM sessions WHERE token = ?", token)
		return models.User{}, ErrInvalidCredentials
	}

	var user models.User
	err = s.db.QueryRow("SELECT id, email, created_at FROM users WHERE id = ?", session.UserID).
		Scan(&user.ID, &user.Email, &user.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			// The user behind this session is gone; drop the session.
			s.db.Exec("DELETE FROM sessions WHERE token = ?", token)
			return models.User{}, ErrInvalidCredentials
		}
		return models.User{}, err
	}
	return user, nil
}

// Delete removes a session. Removing an unknown token is not an error, so
// logout is idempotent.
func (s *SessionService) Delete(token string) error {
	_, err := s.db.Exec("DELETE FROM sessions WHERE token = ?", token)
	return err
}

// PurgeExpired removes all expired sessions and reports how many went.
func (s *SessionService) PurgeExpired() (int64, error) {
	res, err := s.db.Exec("DELETE FROM sessions WHERE expires_at < ?", time.Now().UTC())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
