package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/taskstack/taskstack-be/internal/apperr"
	"github.com/taskstack/taskstack-be/internal/auth"
	"github.com/taskstack/taskstack-be/internal/models"
	"github.com/taskstack/taskstack-be/internal/services"
	"github.com/taskstack/taskstack-be/internal/validate"
)

// TaskHandler handles HTTP requests for task management. All routes run
// behind the auth middleware, so the owner is always in context.
type TaskHandler struct {
	service services.TaskServiceProvider
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(service services.TaskServiceProvider) *TaskHandler {
	return &TaskHandler{service: service}
}

// GetAll lists the authenticated user's tasks, newest first.
func (h *TaskHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		respondError(w, apperr.Unauthenticated("You are not logged in, please provide token"))
		return
	}

	tasks, err := h.service.ListTasks(r.Context(), user.ID)
	if err != nil {
		log.Error().Err(err).Str("user_id", user.ID).Msg("Failed to list tasks")
		respondError(w, err)
		return
	}

	respondData(w, http.StatusOK, envelope{"tasks": tasks})
}

// Create adds a task owned by the authenticated user.
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		respondError(w, apperr.Unauthenticated("You are not logged in, please provide token"))
		return
	}

	var entry validate.TaskEntry
	if err := validate.Body(r, &entry); err != nil {
		respondError(w, err)
		return
	}

	task, err := h.service.CreateTask(r.Context(), user.ID, entry.Title, entry.Description)
	if err != nil {
		log.Error().Err(err).Str("user_id", user.ID).Msg("Failed to create task")
		respondError(w, err)
		return
	}

	respondData(w, http.StatusCreated, envelope{"task": task})
}

// Get retrieves a single task by its ID.
func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, id, err := h.requestScope(r)
	if err != nil {
		respondError(w, err)
		return
	}

	task, err := h.service.GetTask(r.Context(), user.ID, id)
	if err != nil {
		respondError(w, err)
		return
	}

	respondData(w, http.StatusOK, envelope{"task": task})
}

// Update applies a partial update; unspecified fields keep their stored
// values.
func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	user, id, err := h.requestScope(r)
	if err != nil {
		respondError(w, err)
		return
	}

	var patch models.TaskPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		respondError(w, apperr.Validation("Invalid request body", nil))
		return
	}

	task, err := h.service.UpdateTask(r.Context(), user.ID, id, patch)
	if err != nil {
		log.Warn().Err(err).Str("task_id", id).Msg("Failed to update task")
		respondError(w, err)
		return
	}

	respondData(w, http.StatusOK, envelope{"task": task})
}

// Delete removes a task. Success returns no body.
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, id, err := h.requestScope(r)
	if err != nil {
		respondError(w, err)
		return
	}

	if err := h.service.DeleteTask(r.Context(), user.ID, id); err != nil {
		respondError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// requestScope extracts the authenticated user and a well-formed task
// id from the request.
func (h *TaskHandler) requestScope(r *http.Request) (models.User, string, error) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		return models.User{}, "", apperr.Unauthenticated("You are not logged in, please provide token")
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return models.User{}, "", apperr.Validation("Invalid task ID", nil)
	}
	return user, id.String(), nil
}
