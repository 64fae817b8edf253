package auth

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/buglab/bug-lab-be/internal/models"
	"github.com/buglab/bug-lab-be/internal/services"
)

// CookieName is the name of the session cookie.
const CookieName = "session"

// UserKey is the context key for the authenticated user.
type contextKey string

const UserKey = contextKey("authUser")

// Middleware resolves the session cookie to a user and stores the user in
// the request context. Requests without a valid session get a 401; a session
// whose user has been deleted counts as no session at all.
func Middleware(sessions services.SessionServiceProvider) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(CookieName)
			if err != nil || cookie.Value == "" {
				unauthorized(w)
				return
			}

			user, err := sessions.Resolve(cookie.Value)
			if err != nil {
				unauthorized(w)
				return
			}

			ctx := context.WithValue(r.Context(), UserKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserFromContext extracts the authenticated user placed by Middleware.
func UserFromContext(ctx context.Context) (models.User, bool) {
	user, ok := ctx.Value(UserKey).(models.User)
	return user, ok
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"error": "Not authenticated"})
}
