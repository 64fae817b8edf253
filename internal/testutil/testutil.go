package testutil

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/buglab/bug-lab-be/internal/database"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// SetupTestDB creates a throwaway sqlite database with the full schema
// applied. The file lives in the test's temp dir and is cleaned up with it.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := database.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := database.Migrate(db); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}
	return db
}

// CreateTestUser inserts a user with a bcrypt-hashed password and returns
// its ID. MinCost keeps the suite fast.
func CreateTestUser(t *testing.T, db *sql.DB, email, password string) string {
	t.Helper()

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("Failed to hash test password: %v", err)
	}

	id := uuid.New().String()
	_, err = db.Exec("INSERT INTO users (id, email, password_hash, created_at) VALUES (?, ?, ?, ?)",
		id, email, string(hashed), time.Now().UTC())
	if err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}
	return id
}

// CreateTestScientist inserts a scientist, optionally linked to a user, and
// returns its ID.
func CreateTestScientist(t *testing.T, db *sql.DB, name, email string, userID *string) string {
	t.Helper()

	id := uuid.New().String()
	_, err := db.Exec("INSERT INTO scientists (id, name, email, user_id, created_at) VALUES (?, ?, ?, ?, ?)",
		id, name, email, userID, time.Now().UTC())
	if err != nil {
		t.Fatalf("Failed to create test scientist: %v", err)
	}
	return id
}

// CreateTestBug inserts a bug and returns its ID.
func CreateTestBug(t *testing.T, db *sql.DB, name string, strength int, bugType string) string {
	t.Helper()

	id := uuid.New().String()
	_, err := db.Exec("INSERT INTO bugs (id, name, strength, type, created_at) VALUES (?, ?, ?, ?, ?)",
		id, name, strength, bugType, time.Now().UTC())
	if err != nil {
		t.Fatalf("Failed to create test bug: %v", err)
	}
	return id
}

// CountRows runs a COUNT(*) query and returns the result.
func CountRows(t *testing.T, db *sql.DB, query string, args ...any) int {
	t.Helper()

	var n int
	if err := db.QueryRow(query, args...).Scan(&n); err != nil {
		t.Fatalf("Failed to count rows (%s): %v", query, err)
	}
	return n
}

// MakeRequest creates an HTTP test request with an optional JSON body.
func MakeRequest(method, path string, body any) *http.Request {
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req := httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
		return req
	}
	return httptest.NewRequest(method, path, nil)
}

// AssertStatus checks that the response has the expected status code.
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct.
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
