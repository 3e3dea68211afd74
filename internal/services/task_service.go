package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/taskstack/taskstack-be/internal/apperr"
	"github.com/taskstack/taskstack-be/internal/models"
	"github.com/taskstack/taskstack-be/internal/rowstore"
)

// TaskServiceProvider defines the interface for task services. Every
// operation is scoped to the owning user.
type TaskServiceProvider interface {
	ListTasks(ctx context.Context, userID string) ([]models.Task, error)
	CreateTask(ctx context.Context, userID, title, description string) (models.Task, error)
	GetTask(ctx context.Context, userID, id string) (models.Task, error)
	UpdateTask(ctx context.Context, userID, id string, patch models.TaskPatch) (models.Task, error)
	DeleteTask(ctx context.Context, userID, id string) error
}

// EventPublisher delivers task change events to a user's connected
// clients. Satisfied by websocket.Hub.
type EventPublisher interface {
	BroadcastTo(userID string, message []byte)
}

// TaskService provides business logic for task management against the
// hosted row store.
type TaskService struct {
	store  *rowstore.Client
	events EventPublisher
}

// NewTaskService creates a new TaskService. events may be nil when no
// feed is wired (tests).
func NewTaskService(store *rowstore.Client, events EventPublisher) *TaskService {
	return &TaskService{store: store, events: events}
}

// createRow is the row shape sent to the datastore on task creation.
type createRow struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	UserID      string `json:"user_id"`
}

// updateRow is the full merged value set written on a partial update.
type updateRow struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Completed   bool   `json:"completed"`
}

// ApplyPatch merges a partial update over an existing task. Unset patch
// fields keep the stored value.
func ApplyPatch(existing models.Task, patch models.TaskPatch) models.Task {
	merged := existing
	if patch.Title != nil {
		merged.Title = *patch.Title
	}
	if patch.Description != nil {
		merged.Description = *patch.Description
	}
	if patch.Completed != nil {
		merged.Completed = *patch.Completed
	}
	return merged
}

// ListTasks retrieves the user's tasks, newest first.
func (s *TaskService) ListTasks(ctx context.Context, userID string) ([]models.Task, error) {
	var tasks []models.Task
	err := s.store.From("tasks").
		Select("*").
		Eq("user_id", userID).
		Order("created_at", true).
		Execute(ctx, &tasks)
	if err != nil {
		return nil, err
	}
	if tasks == nil {
		tasks = []models.Task{}
	}
	return tasks, nil
}

// CreateTask inserts a task owned by the user.
func (s *TaskService) CreateTask(ctx context.Context, userID, title, description string) (models.Task, error) {
	var created []models.Task
	row := createRow{Title: title, Description: description, UserID: userID}
	if err := s.store.From("tasks").Insert(ctx, row, &created); err != nil {
		return models.Task{}, err
	}
	if len(created) == 0 {
		return models.Task{}, apperr.Upstream("Something went wrong while creating the task", nil)
	}

	s.publish(userID, "task.created", map[string]any{"task": created[0]})
	return created[0], nil
}

// GetTask retrieves one of the user's tasks by id. A task owned by
// someone else is indistinguishable from a missing one.
func (s *TaskService) GetTask(ctx context.Context, userID, id string) (models.Task, error) {
	var found []models.Task
	err := s.store.From("tasks").
		Select("*").
		Eq("id", id).
		Eq("user_id", userID).
		Execute(ctx, &found)
	if err != nil {
		return models.Task{}, err
	}
	if len(found) == 0 {
		return models.Task{}, apperr.NotFound(fmt.Sprintf("Task with ID: %s not found", id))
	}
	return found[0], nil
}

// UpdateTask applies a partial update with fetch-merge-write semantics:
// the stored row is read first and unset patch fields keep their
// previous values.
func (s *TaskService) UpdateTask(ctx context.Context, userID, id string, patch models.TaskPatch) (models.Task, error) {
	existing, err := s.GetTask(ctx, userID, id)
	if err != nil {
		return models.Task{}, err
	}

	merged := ApplyPatch(existing, patch)
	values := updateRow{Title: merged.Title, Description: merged.Description, Completed: merged.Completed}

	var updated []models.Task
	err = s.store.From("tasks").
		Eq("id", id).
		Eq("user_id", userID).
		Update(ctx, values, &updated)
	if err != nil {
		return models.Task{}, err
	}
	if len(updated) == 0 {
		return models.Task{}, apperr.Upstream("Something went wrong while updating the task", nil)
	}

	s.publish(userID, "task.updated", map[string]any{"task": updated[0]})
	return updated[0], nil
}

// DeleteTask removes one of the user's tasks. Deleting a missing or
// foreign task is not found.
func (s *TaskService) DeleteTask(ctx context.Context, userID, id string) error {
	var deleted []models.Task
	err := s.store.From("tasks").
		Eq("id", id).
		Eq("user_id", userID).
		Delete(ctx, &deleted)
	if err != nil {
		return err
	}
	if len(deleted) == 0 {
		return apperr.NotFound(fmt.Sprintf("Task with ID: %s not found", id))
	}

	s.publish(userID, "task.deleted", map[string]any{"id": id})
	return nil
}

// taskEvent is the feed message shape.
type taskEvent struct {
	Action  string `json:"action"`
	Payload any    `json:"payload"`
}

// publish is fire-and-forget: feed failures never fail the request.
func (s *TaskService) publish(userID, action string, payload any) {
	if s.events == nil {
		return
	}
	message, err := json.Marshal(taskEvent{Action: action, Payload: payload})
	if err != nil {
		log.Error().Err(err).Str("action", action).Msg("Failed to encode task event")
		return
	}
	s.events.BroadcastTo(userID, message)
}
