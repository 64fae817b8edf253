package api

import (
	"database/sql"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/buglab/bug-lab-be/internal/auth"
	"github.com/buglab/bug-lab-be/internal/config"
	"github.com/buglab/bug-lab-be/internal/services"
	"github.com/buglab/bug-lab-be/internal/testutil"
	"github.com/go-chi/chi/v5"
)

func setupRouter(t *testing.T) (*chi.Mux, *sql.DB) {
	t.Helper()

	db := testutil.SetupTestDB(t)
	cfg := &config.Config{
		ServerPort:   8080,
		SessionTTL:   time.Hour,
		Env:          "test",
		CORSOrigins:  []string{"http://localhost:5173"},
		DatabasePath: "",
	}

	router := NewRouter(cfg,
		services.NewUserService(db),
		services.NewScientistService(db),
		services.NewBugService(db),
		services.NewAssignmentService(db),
		services.NewSessionService(db, cfg.SessionTTL),
	)
	return router, db
}

func sessionCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range w.Result().Cookies() {
		if c.Name == auth.CookieName {
			return c
		}
	}
	t.Fatal("Expected a session cookie in the response")
	return nil
}

func TestRegistrationAndSessionFlow(t *testing.T) {
	router, _ := setupRouter(t)

	// Register
	w := httptest.NewRecorder()
	router.ServeHTTP(w, testutil.MakeRequest("POST", "/auth/register", map[string]any{
		"name": "Alice", "email": "a@x.com", "password": "longenough1",
	}))
	testutil.AssertStatus(t, w, http.StatusCreated)

	var created struct {
		ID     string `json:"id"`
		UserID string `json:"userId"`
		Name   string `json:"name"`
		Email  string `json:"email"`
	}
	testutil.AssertJSON(t, w, &created)
	if created.ID == "" || created.UserID == "" {
		t.Fatalf("Expected scientist and user ids, got %+v", created)
	}

	// Same email again
	w = httptest.NewRecorder()
	router.ServeHTTP(w, testutil.MakeRequest("POST", "/auth/register", map[string]any{
		"name": "Alice", "email": "a@x.com", "password": "longenough1",
	}))
	testutil.AssertStatus(t, w, http.StatusConflict)

	// Login
	w = httptest.NewRecorder()
	router.ServeHTTP(w, testutil.MakeRequest("POST", "/auth/login", map[string]any{
		"email": "a@x.com", "password": "longenough1",
	}))
	testutil.AssertStatus(t, w, http.StatusOK)
	cookie := sessionCookie(t, w)

	var loggedIn struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	}
	testutil.AssertJSON(t, w, &loggedIn)
	if loggedIn.ID != created.UserID {
		t.Errorf("Expected login to return user %s, got %s", created.UserID, loggedIn.ID)
	}

	// Me with the session cookie
	req := testutil.MakeRequest("GET", "/auth/me", nil)
	req.AddCookie(cookie)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	testutil.AssertStatus(t, w, http.StatusOK)

	var me struct {
		ID    string `json:"id"`
		Name  string `json:"name"`
		Email string `json:"email"`
	}
	testutil.AssertJSON(t, w, &me)
	if me.Name != "Alice" || me.Email != "a@x.com" {
		t.Errorf("Unexpected /auth/me body: %+v", me)
	}

	// Logout destroys the server-side session
	req = testutil.MakeRequest("POST", "/auth/logout", nil)
	req.AddCookie(cookie)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	testutil.AssertStatus(t, w, http.StatusOK)

	// The old cookie no longer authenticates
	req = testutil.MakeRequest("GET", "/auth/me", nil)
	req.AddCookie(cookie)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	testutil.AssertStatus(t, w, http.StatusUnauthorized)
}

func TestLoginFailuresAreUniform(t *testing.T) {
	router, _ := setupRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, testutil.MakeRequest("POST", "/auth/register", map[string]any{
		"name": "Alice", "email": "a@x.com", "password": "longenough1",
	}))
	testutil.AssertStatus(t, w, http.StatusCreated)

	wrongPassword := httptest.NewRecorder()
	router.ServeHTTP(wrongPassword, testutil.MakeRequest("POST", "/auth/login", map[string]any{
		"email": "a@x.com", "password": "not-the-password",
	}))
	testutil.AssertStatus(t, wrongPassword, http.StatusUnauthorized)

	unknownEmail := httptest.NewRecorder()
	router.ServeHTTP(unknownEmail, testutil.MakeRequest("POST", "/auth/login", map[string]any{
		"email": "nobody@x.com", "password": "not-the-password",
	}))
	testutil.AssertStatus(t, unknownEmail, http.StatusUnauthorized)

	if wrongPassword.Body.String() != unknownEmail.Body.String() {
		t.Errorf("Expected identical 401 bodies, got %q vs %q",
			wrongPassword.Body.String(), unknownEmail.Body.String())
	}
}

func TestMeWithoutSession(t *testing.T) {
	router, _ := setupRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, testutil.MakeRequest("GET", "/auth/me", nil))
	testutil.AssertStatus(t, w, http.StatusUnauthorized)
}

func TestAssignEndpoints(t *testing.T) {
	router, _ := setupRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, testutil.MakeRequest("POST", "/auth/register", map[string]any{
		"name": "Alice", "email": "a@x.com", "password": "longenough1",
	}))
	testutil.AssertStatus(t, w, http.StatusCreated)
	var scientist struct {
		ID string `json:"id"`
	}
	testutil.AssertJSON(t, w, &scientist)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, testutil.MakeRequest("POST", "/bugs", map[string]any{
		"name": "Heisenbug", "strength": 9, "type": "concurrency",
	}))
	testutil.AssertStatus(t, w, http.StatusCreated)
	var createdBug struct {
		Bug struct {
			ID string `json:"id"`
		} `json:"bug"`
	}
	testutil.AssertJSON(t, w, &createdBug)

	// Assigning a nonexistent bug
	w = httptest.NewRecorder()
	router.ServeHTTP(w, testutil.MakeRequest("POST", "/scientists/"+scientist.ID+"/assign",
		map[string]any{"bug_id": "missing"}))
	testutil.AssertStatus(t, w, http.StatusNotFound)

	// Assign, then assign again
	w = httptest.NewRecorder()
	router.ServeHTTP(w, testutil.MakeRequest("POST", "/scientists/"+scientist.ID+"/assign",
		map[string]any{"bug_id": createdBug.Bug.ID}))
	testutil.AssertStatus(t, w, http.StatusCreated)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, testutil.MakeRequest("POST", "/scientists/"+scientist.ID+"/assign",
		map[string]any{"bug_id": createdBug.Bug.ID}))
	testutil.AssertStatus(t, w, http.StatusConflict)

	// The scientist's bug list has exactly the one bug
	w = httptest.NewRecorder()
	router.ServeHTTP(w, testutil.MakeRequest("GET", "/scientists/"+scientist.ID+"/bugs", nil))
	testutil.AssertStatus(t, w, http.StatusOK)
	var bugs []struct {
		ID string `json:"id"`
	}
	testutil.AssertJSON(t, w, &bugs)
	if len(bugs) != 1 || bugs[0].ID != createdBug.Bug.ID {
		t.Errorf("Expected the assigned bug, got %+v", bugs)
	}

	// Unassign, then unassign again
	w = httptest.NewRecorder()
	router.ServeHTTP(w, testutil.MakeRequest("POST", "/scientists/"+scientist.ID+"/unassign",
		map[string]any{"bug_id": createdBug.Bug.ID}))
	testutil.AssertStatus(t, w, http.StatusOK)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, testutil.MakeRequest("POST", "/scientists/"+scientist.ID+"/unassign",
		map[string]any{"bug_id": createdBug.Bug.ID}))
	testutil.AssertStatus(t, w, http.StatusNotFound)
}

func TestScientistUpdateAndDelete(t *testing.T) {
	router, db := setupRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, testutil.MakeRequest("POST", "/scientists", map[string]any{
		"name": "Alice", "email": "a@x.com", "password": "longenough1",
	}))
	testutil.AssertStatus(t, w, http.StatusCreated)
	var created struct {
		Scientist struct {
			ID string `json:"id"`
		} `json:"scientist"`
	}
	testutil.AssertJSON(t, w, &created)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, testutil.MakeRequest("POST", "/scientists", map[string]any{
		"name": "Bob", "email": "b@x.com", "password": "longenough1",
	}))
	testutil.AssertStatus(t, w, http.StatusCreated)

	// Taking Bob's email is a conflict
	w = httptest.NewRecorder()
	router.ServeHTTP(w, testutil.MakeRequest("PATCH", "/scientists/"+created.Scientist.ID,
		map[string]any{"name": "Alice", "email": "b@x.com"}))
	testutil.AssertStatus(t, w, http.StatusConflict)

	// Valid rename
	w = httptest.NewRecorder()
	router.ServeHTTP(w, testutil.MakeRequest("PATCH", "/scientists/"+created.Scientist.ID,
		map[string]any{"name": "Alice Cooper", "email": "a@x.com"}))
	testutil.AssertStatus(t, w, http.StatusOK)

	// Missing required fields
	w = httptest.NewRecorder()
	router.ServeHTTP(w, testutil.MakeRequest("PATCH", "/scientists/"+created.Scientist.ID,
		map[string]any{"name": ""}))
	testutil.AssertStatus(t, w, http.StatusBadRequest)

	// Delete returns the record and removes the linked user
	w = httptest.NewRecorder()
	router.ServeHTTP(w, testutil.MakeRequest("DELETE", "/scientists/"+created.Scientist.ID, nil))
	testutil.AssertStatus(t, w, http.StatusOK)

	if n := testutil.CountRows(t, db, "SELECT COUNT(*) FROM users"); n != 1 {
		t.Errorf("Expected only Bob's user row to remain, got %d", n)
	}

	w = httptest.NewRecorder()
	router.ServeHTTP(w, testutil.MakeRequest("DELETE", "/scientists/"+created.Scientist.ID, nil))
	testutil.AssertStatus(t, w, http.StatusNotFound)
}

func TestBugEndpoints(t *testing.T) {
	router, _ := setupRouter(t)

	// Missing fields
	w := httptest.NewRecorder()
	router.ServeHTTP(w, testutil.MakeRequest("POST", "/bugs", map[string]any{"name": "Nameless"}))
	testutil.AssertStatus(t, w, http.StatusBadRequest)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, testutil.MakeRequest("POST", "/bugs", map[string]any{
		"name": "Heisenbug", "strength": 9, "type": "concurrency",
	}))
	testutil.AssertStatus(t, w, http.StatusCreated)
	var created struct {
		Bug struct {
			ID string `json:"id"`
		} `json:"bug"`
	}
	testutil.AssertJSON(t, w, &created)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, testutil.MakeRequest("GET", "/bugs/"+created.Bug.ID, nil))
	testutil.AssertStatus(t, w, http.StatusOK)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, testutil.MakeRequest("GET", "/bugs/missing", nil))
	testutil.AssertStatus(t, w, http.StatusNotFound)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, testutil.MakeRequest("DELETE", "/bugs/"+created.Bug.ID, nil))
	testutil.AssertStatus(t, w, http.StatusOK)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, testutil.MakeRequest("DELETE", "/bugs/"+created.Bug.ID, nil))
	testutil.AssertStatus(t, w, http.StatusNotFound)
}
