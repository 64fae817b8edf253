package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/buglab/bug-lab-be/internal/auth"
	"github.com/buglab/bug-lab-be/internal/services"
	"github.com/rs/zerolog/log"
)

// AuthHandler handles registration, login, logout and the current-user
// endpoint.
type AuthHandler struct {
	users      services.UserServiceProvider
	scientists services.ScientistServiceProvider
	sessions   services.SessionServiceProvider
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(users services.UserServiceProvider, scientists services.ScientistServiceProvider, sessions services.SessionServiceProvider) *AuthHandler {
	return &AuthHandler{users: users, scientists: scientists, sessions: sessions}
}

// RegisterPayload defines the structure for registration requests.
type RegisterPayload struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginPayload defines the structure for login requests.
type LoginPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register creates a User and its linked Scientist profile.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var payload RegisterPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondJSON(w, http.StatusBadRequest, ErrorBody{Error: "Invalid request body"})
		return
	}

	scientist, err := h.scientists.Register(payload.Name, payload.Email, payload.Password)
	if err != nil {
		respondError(w, err, "Failed to register")
		return
	}

	respondJSON(w, http.StatusCreated, scientist)
}

// Login verifies credentials and opens a session.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var payload LoginPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondJSON(w, http.StatusBadRequest, ErrorBody{Error: "Invalid request body"})
		return
	}
	if payload.Email == "" || payload.Password == "" {
		respondJSON(w, http.StatusBadRequest, ErrorBody{Error: "Email and password are required"})
		return
	}

	user, err := h.users.Authenticate(payload.Email, payload.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			log.Warn().Str("email", payload.Email).Msg("Failed authentication attempt")
		}
		respondError(w, err, "Failed to log in")
		return
	}

	session, err := h.sessions.Create(user.ID)
	if err != nil {
		respondError(w, err, "Failed to open session")
		return
	}

	// Set Secure flag based on environment.
	isProd := os.Getenv("APP_ENV") == "production"

	http.SetCookie(w, &http.Cookie{
		Name:     auth.CookieName,
		Value:    session.Token,
		Expires:  session.ExpiresAt,
		HttpOnly: true,
		Secure:   isProd,
		SameSite: http.SameSiteStrictMode,
		Path:     "/",
	})

	respondJSON(w, http.StatusOK, map[string]string{
		"id":    user.ID,
		"email": user.Email,
	})
}

// Logout destroys the session and clears the cookie.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(auth.CookieName); err == nil && cookie.Value != "" {
		if err := h.sessions.Delete(cookie.Value); err != nil {
			respondError(w, err, "Failed to log out")
			return
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     auth.CookieName,
		Value:    "",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Path:     "/",
	})

	respondJSON(w, http.StatusOK, map[string]string{"message": "Logged out successfully"})
}

// Me returns the authenticated user, with the linked scientist's name when
// one exists and the email as fallback.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		respondJSON(w, http.StatusUnauthorized, ErrorBody{Error: "Not authenticated"})
		return
	}

	name := user.Email
	if scientist, err := h.scientists.GetByUserID(user.ID); err == nil {
		name = scientist.Name
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"id":    user.ID,
		"name":  name,
		"email": user.Email,
	})
}
