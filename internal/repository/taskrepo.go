package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pracsphere/tasks/internal/models"
)

// ErrTaskNotFound is returned when a mutation matched no task owned
// by the caller.
var ErrTaskNotFound = errors.New("task not found")

type TaskRepo struct {
	pool *pgxpool.Pool
}

func NewTaskRepo(ctx context.Context, pool *pgxpool.Pool) (*TaskRepo, error) {
	repo := &TaskRepo{pool: pool}

	if err := repo.CreateTable(ctx); err != nil {
		return nil, fmt.Errorf("could not initialize tasks table: %w", err)
	}

	return repo, nil
}

func (r *TaskRepo) CreateTable(ctx context.Context) error {
	createTableQuery := `CREATE TABLE IF NOT EXISTS tasks(
		id UUID PRIMARY KEY,
		owner_id TEXT NOT NULL,
		title TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		due_date TIMESTAMPTZ NOT NULL,
		status TEXT NOT NULL DEFAULT 'pending' CHECK (status IN ('pending', 'completed')),
		created_at TIMESTAMPTZ NOT NULL
	);`
	_, err := r.pool.Exec(ctx, createTableQuery)
	return err
}

// ListByOwner returns every task owned by ownerID, newest first. The
// empty result is an empty slice, not nil, so it serializes as [].
func (r *TaskRepo) ListByOwner(ctx context.Context, ownerID string) ([]models.Task, error) {
	query := `
		SELECT id, title, description, due_date, status, owner_id, created_at
		FROM tasks
		WHERE owner_id = $1
		ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks := []models.Task{}
	for rows.Next() {
		var t models.Task
		err := rows.Scan(&t.ID, &t.Title, &t.Description, &t.DueDate, &t.Status, &t.OwnerID, &t.CreatedAt)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// Create inserts a new task. Identifier, status, owner and creation
// time are assigned here, never taken from the caller's request body.
func (r *TaskRepo) Create(ctx context.Context, ownerID, title, description string, dueDate time.Time) (models.Task, error) {
	t := models.Task{
		ID:          uuid.New(),
		Title:       title,
		Description: description,
		DueDate:     dueDate,
		Status:      models.StatusPending,
		OwnerID:     ownerID,
		CreatedAt:   time.Now().UTC(),
	}

	query := `
		INSERT INTO tasks (id, owner_id, title, description, due_date, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.pool.Exec(ctx, query,
		t.ID,
		t.OwnerID,
		t.Title,
		t.Description,
		t.DueDate,
		t.Status,
		t.CreatedAt,
	)
	if err != nil {
		return models.Task{}, err
	}
	return t, nil
}

// UpdateStatus replaces the status of the task and returns the row as
// stored after the update. The mutation is scoped to (id, owner_id):
// a valid id belonging to another user reports ErrTaskNotFound.
func (r *TaskRepo) UpdateStatus(ctx context.Context, id uuid.UUID, ownerID string, status models.Status) (models.Task, error) {
	query := `
		UPDATE tasks
		SET status = $1
		WHERE id = $2 AND owner_id = $3
		RETURNING id, title, description, due_date, status, owner_id, created_at`

	var t models.Task
	err := r.pool.QueryRow(ctx, query, status, id, ownerID).Scan(
		&t.ID, &t.Title, &t.Description, &t.DueDate, &t.Status, &t.OwnerID, &t.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Task{}, ErrTaskNotFound
	}
	if err != nil {
		return models.Task{}, err
	}
	return t, nil
}

// Delete removes the task, scoped to (id, owner_id). Hard delete, no
// tombstone.
func (r *TaskRepo) Delete(ctx context.Context, id uuid.UUID, ownerID string) error {
	query := `DELETE FROM tasks WHERE id = $1 AND owner_id = $2`

	tag, err := r.pool.Exec(ctx, query, id, ownerID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrTaskNotFound
	}
	return nil
}
