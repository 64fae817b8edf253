package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/buglab/bug-lab-be/internal/services"
	"github.com/go-chi/chi/v5"
)

// BugHandler handles HTTP requests for bug management.
type BugHandler struct {
	service services.BugServiceProvider
}

// NewBugHandler creates a new BugHandler.
func NewBugHandler(service services.BugServiceProvider) *BugHandler {
	return &BugHandler{service: service}
}

// BugPayload defines the structure for create and update requests.
type BugPayload struct {
	Name     string `json:"name"`
	Strength int    `json:"strength"`
	Type     string `json:"type"`
}

// Create handles the request to create a new bug.
func (h *BugHandler) Create(w http.ResponseWriter, r *http.Request) {
	var payload BugPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondJSON(w, http.StatusBadRequest, ErrorBody{Error: "Invalid request body"})
		return
	}

	bug, err := h.service.Create(payload.Name, payload.Strength, payload.Type)
	if err != nil {
		respondError(w, err, "Failed to create bug")
		return
	}

	respondJSON(w, http.StatusCreated, map[string]any{
		"message": "Bug created successfully",
		"bug":     bug,
	})
}

// GetAll handles the request to list all bugs.
func (h *BugHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	bugs, err := h.service.GetAll()
	if err != nil {
		respondError(w, err, "Failed to fetch bugs")
		return
	}
	respondJSON(w, http.StatusOK, bugs)
}

// Get handles the request to get a single bug by ID.
func (h *BugHandler) Get(w http.ResponseWriter, r *http.Request) {
	bug, err := h.service.GetByID(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, err, "Failed to fetch bug")
		return
	}
	respondJSON(w, http.StatusOK, bug)
}

// Update handles PATCH requests for a bug.
func (h *BugHandler) Update(w http.ResponseWriter, r *http.Request) {
	var payload BugPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondJSON(w, http.StatusBadRequest, ErrorBody{Error: "Invalid request body"})
		return
	}

	bug, err := h.service.Update(chi.URLParam(r, "id"), payload.Name, payload.Strength, payload.Type)
	if err != nil {
		respondError(w, err, "Failed to update bug")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"message": "Bug updated successfully",
		"bug":     bug,
	})
}

// Delete removes a bug and everything assigned to it.
func (h *BugHandler) Delete(w http.ResponseWriter, r *http.Request) {
	deleted, err := h.service.Delete(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, err, "Failed to delete bug")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"message": "Bug deleted successfully",
		"deleted": deleted,
	})
}
