package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/buglab/bug-lab-be/internal/services"
	"github.com/go-chi/chi/v5"
)

// ScientistHandler handles HTTP requests for scientist profiles and their
// bug assignments.
type ScientistHandler struct {
	service     services.ScientistServiceProvider
	assignments services.AssignmentServiceProvider
}

// NewScientistHandler creates a new ScientistHandler.
func NewScientistHandler(service services.ScientistServiceProvider, assignments services.AssignmentServiceProvider) *ScientistHandler {
	return &ScientistHandler{service: service, assignments: assignments}
}

// ScientistPayload defines the structure for create and update requests.
type ScientistPayload struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AssignPayload identifies the bug to assign or unassign.
type AssignPayload struct {
	BugID string `json:"bug_id"`
}

// GetAll handles the request to list all scientists with their bugs.
func (h *ScientistHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	scientists, err := h.service.GetAll()
	if err != nil {
		respondError(w, err, "Failed to fetch scientists")
		return
	}
	respondJSON(w, http.StatusOK, scientists)
}

// Get handles the request to get a single scientist by ID.
func (h *ScientistHandler) Get(w http.ResponseWriter, r *http.Request) {
	scientist, err := h.service.GetByID(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, err, "Failed to fetch scientist")
		return
	}
	respondJSON(w, http.StatusOK, scientist)
}

// Create registers a new scientist together with its login identity. Same
// operation as POST /auth/register, exposed on the resource route.
func (h *ScientistHandler) Create(w http.ResponseWriter, r *http.Request) {
	var payload ScientistPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondJSON(w, http.StatusBadRequest, ErrorBody{Error: "Invalid request body"})
		return
	}

	scientist, err := h.service.Register(payload.Name, payload.Email, payload.Password)
	if err != nil {
		respondError(w, err, "Failed to register scientist")
		return
	}

	respondJSON(w, http.StatusCreated, map[string]any{
		"message":   "Scientist added successfully",
		"scientist": scientist,
	})
}

// Update handles PATCH requests for a scientist's name, email and
// optionally the linked user's password.
func (h *ScientistHandler) Update(w http.ResponseWriter, r *http.Request) {
	var payload ScientistPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondJSON(w, http.StatusBadRequest, ErrorBody{Error: "Invalid request body"})
		return
	}

	scientist, err := h.service.Update(chi.URLParam(r, "id"), payload.Name, payload.Email, payload.Password)
	if err != nil {
		respondError(w, err, "Failed to update scientist")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"message":   "Scientist updated successfully",
		"scientist": scientist,
	})
}

// Delete removes a scientist, its assignments and its linked user.
func (h *ScientistHandler) Delete(w http.ResponseWriter, r *http.Request) {
	deleted, err := h.service.Delete(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, err, "Failed to delete scientist")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"message": "Scientist deleted successfully",
		"deleted": deleted,
	})
}

// Assign links a bug to a scientist.
func (h *ScientistHandler) Assign(w http.ResponseWriter, r *http.Request) {
	var payload AssignPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.BugID == "" {
		respondJSON(w, http.StatusBadRequest, ErrorBody{Error: "Missing required parameters"})
		return
	}

	assignment, err := h.assignments.Assign(chi.URLParam(r, "id"), payload.BugID)
	if err != nil {
		respondError(w, err, "Failed to assign bug")
		return
	}

	respondJSON(w, http.StatusCreated, assignment)
}

// Unassign removes the link between a bug and a scientist.
func (h *ScientistHandler) Unassign(w http.ResponseWriter, r *http.Request) {
	var payload AssignPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.BugID == "" {
		respondJSON(w, http.StatusBadRequest, ErrorBody{Error: "Missing required parameters"})
		return
	}

	assignment, err := h.assignments.Unassign(chi.URLParam(r, "id"), payload.BugID)
	if err != nil {
		respondError(w, err, "Failed to unassign bug")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"message":    "Bug unassigned successfully",
		"unassigned": assignment,
	})
}

// Bugs lists all bugs assigned to a scientist.
func (h *ScientistHandler) Bugs(w http.ResponseWriter, r *http.Request) {
	bugs, err := h.assignments.BugsForScientist(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, err, "Failed to fetch scientist bugs")
		return
	}
	respondJSON(w, http.StatusOK, bugs)
}
