package models

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Status is the lifecycle state of a task. Only the two enumerated
// values are ever persisted.
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
)

var (
	ErrInvalidStatus = errors.New("status must be \"pending\" or \"completed\"")
	ErrMissingFields = errors.New("all fields are required")
)

func (s Status) Valid() bool {
	return s == StatusPending || s == StatusCompleted
}

// Toggle returns the opposite status.
func (s Status) Toggle() Status {
	if s == StatusCompleted {
		return StatusPending
	}
	return StatusCompleted
}

// Task is the single entity tracked by the service. JSON field names
// keep the wire contract the dashboard client already speaks
// ("_id", "userId").
type Task struct {
	ID          uuid.UUID `json:"_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	DueDate     time.Time `json:"dueDate"`
	Status      Status    `json:"status"`
	OwnerID     string    `json:"userId"`
	CreatedAt   time.Time `json:"createdAt"`
}

// CreateTaskInput is the client-writable subset of a task. Status,
// owner and creation time are never taken from the request body.
type CreateTaskInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	DueDate     string `json:"dueDate"`
}

// Validate checks that all three fields are present and returns the
// parsed due date. Both plain dates and full timestamps are accepted.
func (in CreateTaskInput) Validate() (time.Time, error) {
	if strings.TrimSpace(in.Title) == "" ||
		strings.TrimSpace(in.Description) == "" ||
		strings.TrimSpace(in.DueDate) == "" {
		return time.Time{}, ErrMissingFields
	}

	due, err := time.Parse("2006-01-02", in.DueDate)
	if err != nil {
		due, err = time.Parse(time.RFC3339, in.DueDate)
	}
	if err != nil {
		return time.Time{}, ErrMissingFields
	}
	return due, nil
}
