package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"os"

	"github.com/buglab/bug-lab-be/internal/services"
	"github.com/rs/zerolog/log"
)

// ErrorBody is the JSON error response shape. Details carries the underlying
// error message outside production only.
type ErrorBody struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

// respondError maps a service error onto the HTTP error contract. Business
// errors carry their own message; anything else becomes a 500 with the
// fallback message and the cause only in non-production details.
func respondError(w http.ResponseWriter, err error, fallback string) {
	status := http.StatusInternalServerError
	msg := fallback

	switch {
	case errors.Is(err, services.ErrInvalidInput), errors.Is(err, services.ErrNoLinkedUser):
		status = http.StatusBadRequest
		msg = err.Error()
	case errors.Is(err, services.ErrInvalidCredentials):
		status = http.StatusUnauthorized
		msg = "Invalid credentials"
	case errors.Is(err, services.ErrNotFound):
		status = http.StatusNotFound
		msg = err.Error()
	case errors.Is(err, services.ErrConflict):
		status = http.StatusConflict
		msg = err.Error()
	}

	body := ErrorBody{Error: msg}
	if status == http.StatusInternalServerError {
		log.Error().Err(err).Msg(fallback)
		if os.Getenv("APP_ENV") != "production" {
			body.Details = err.Error()
		}
	}
	respondJSON(w, status, body)
}
