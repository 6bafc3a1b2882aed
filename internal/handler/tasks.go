package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/pracsphere/tasks/internal/models"
	"github.com/pracsphere/tasks/internal/repository"
)

// TaskStore is what the handlers need from the repository layer.
type TaskStore interface {
	ListByOwner(ctx context.Context, ownerID string) ([]models.Task, error)
	Create(ctx context.Context, ownerID, title, description string, dueDate time.Time) (models.Task, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, ownerID string, status models.Status) (models.Task, error)
	Delete(ctx context.Context, id uuid.UUID, ownerID string) error
}

type TaskHandler struct {
	store TaskStore
}

func NewTaskHandler(s TaskStore) *TaskHandler {
	return &TaskHandler{store: s}
}

func (h *TaskHandler) GetOwnerFromContext(r *http.Request) (string, error) {
	//get user id from context (context is prepared by auth middleware)
	val := r.Context().Value(userIDKey)

	userID, ok := val.(string)
	if !ok || userID == "" {
		slog.Error("error_invalid_user_from_session")
		return "", fmt.Errorf("invalid session context")
	}

	return userID, nil
}

// ListTasks returns every task owned by the session user, newest
// first.
func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	owner, err := h.GetOwnerFromContext(r)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	tasks, err := h.store.ListByOwner(r.Context(), owner)
	if err != nil {
		slog.Error("task_list_failed", "error", err, "owner", owner)
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	respondJSON(w, http.StatusOK, tasks)
}

// CreateTask persists a new task for the session user. Title,
// description and due date come from the body; status, owner and
// creation time are forced server-side.
func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	owner, err := h.GetOwnerFromContext(r)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var in models.CreateTaskInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respondError(w, http.StatusBadRequest, "All fields are required")
		return
	}

	dueDate, err := in.Validate()
	if err != nil {
		respondError(w, http.StatusBadRequest, "All fields are required")
		return
	}

	task, err := h.store.Create(r.Context(), owner, in.Title, in.Description, dueDate)
	if err != nil {
		slog.Error("task_create_failed", "error", err, "owner", owner)
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	respondJSON(w, http.StatusCreated, task)
}

// UpdateTaskStatus replaces the status of a task, the only mutable
// field. Identifier syntax is checked before any store access.
func (h *TaskHandler) UpdateTaskStatus(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondMessage(w, http.StatusBadRequest, "Invalid task ID")
		return
	}

	owner, err := h.GetOwnerFromContext(r)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var body struct {
		Status models.Status `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || !body.Status.Valid() {
		respondMessage(w, http.StatusBadRequest, models.ErrInvalidStatus.Error())
		return
	}

	task, err := h.store.UpdateStatus(r.Context(), id, owner, body.Status)
	if errors.Is(err, repository.ErrTaskNotFound) {
		respondMessage(w, http.StatusNotFound, "Task not found")
		return
	}
	if err != nil {
		slog.Error("task_update_failed", "error", err, "owner", owner, "id", id)
		respondMessage(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	respondJSON(w, http.StatusOK, task)
}

// DeleteTask removes a task owned by the session user.
func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondMessage(w, http.StatusBadRequest, "Invalid task ID")
		return
	}

	owner, err := h.GetOwnerFromContext(r)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	err = h.store.Delete(r.Context(), id, owner)
	if errors.Is(err, repository.ErrTaskNotFound) {
		respondMessage(w, http.StatusNotFound, "Task not found")
		return
	}
	if err != nil {
		slog.Error("task_delete_failed", "error", err, "owner", owner, "id", id)
		respondMessage(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	respondMessage(w, http.StatusOK, "Task deleted successfully")
}
