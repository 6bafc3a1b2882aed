// Package client keeps a local, server-confirmed copy of a user's
// task list in sync with the task service. The list only ever holds
// what the server has acknowledged: creates prepend the returned
// record, status toggles replace the entry with the server's row, and
// a failed request leaves the list exactly as it was.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/pracsphere/tasks/internal/models"
)

// Filter selects which slice of the list Filtered returns.
type Filter string

const (
	FilterAll       Filter = "all"
	FilterPending   Filter = "pending"
	FilterCompleted Filter = "completed"
)

// ErrUnknownTask is returned by Toggle when the id is not in the
// local list, so there is no current status to flip.
var ErrUnknownTask = errors.New("task not in local list")

// Synchronizer is the client-side cache of the task list plus the
// fetch/create/update/delete orchestration against the service.
type Synchronizer struct {
	baseURL string
	token   string
	http    *http.Client

	mu      sync.Mutex
	tasks   []models.Task
	filter  Filter
	loading bool
}

// New builds a synchronizer for the service at baseURL, authenticating
// with the given session token. The list is empty and loading until
// the first Load completes.
func New(baseURL, sessionToken string) *Synchronizer {
	return &Synchronizer{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   sessionToken,
		http:    &http.Client{},
		filter:  FilterAll,
		loading: true,
	}
}

// Load fetches the full list from the server. Loading stays true only
// while the fetch is in flight; on failure the list is left empty and
// the error is logged and returned, with no automatic retry.
func (s *Synchronizer) Load(ctx context.Context) error {
	s.mu.Lock()
	s.loading = true
	s.mu.Unlock()

	var tasks []models.Task
	err := s.do(ctx, http.MethodGet, "/tasks", nil, &tasks)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	if err != nil {
		slog.Error("task_fetch_failed", "error", err)
		return err
	}
	s.tasks = tasks
	return nil
}

// Create submits a new task and, on success, prepends the server's
// record so newest-first order holds without a re-fetch.
func (s *Synchronizer) Create(ctx context.Context, in models.CreateTaskInput) (models.Task, error) {
	var created models.Task
	if err := s.do(ctx, http.MethodPost, "/tasks", in, &created); err != nil {
		return models.Task{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks = append([]models.Task{created}, s.tasks...)
	return created, nil
}

// Toggle flips the status of the task with the given id and replaces
// the local entry with the record the server persisted, not an
// optimistic guess.
func (s *Synchronizer) Toggle(ctx context.Context, id uuid.UUID) (models.Task, error) {
	s.mu.Lock()
	var current models.Status
	found := false
	for _, t := range s.tasks {
		if t.ID == id {
			current = t.Status
			found = true
			break
		}
	}
	s.mu.Unlock()
	if !found {
		return models.Task{}, ErrUnknownTask
	}

	body := map[string]models.Status{"status": current.Toggle()}
	var updated models.Task
	if err := s.do(ctx, http.MethodPatch, "/tasks/"+id.String(), body, &updated); err != nil {
		return models.Task{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	next := make([]models.Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		if t.ID == id {
			next = append(next, updated)
		} else {
			next = append(next, t)
		}
	}
	s.tasks = next
	return updated, nil
}

// Delete removes the task on the server, then drops it from the local
// list by id.
func (s *Synchronizer) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.do(ctx, http.MethodDelete, "/tasks/"+id.String(), nil, nil); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	next := make([]models.Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		if t.ID != id {
			next = append(next, t)
		}
	}
	s.tasks = next
	return nil
}

func (s *Synchronizer) SetFilter(f Filter) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filter = f
}

func (s *Synchronizer) Filter() Filter {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filter
}

func (s *Synchronizer) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Tasks returns a copy of the full server-confirmed list.
func (s *Synchronizer) Tasks() []models.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

// Filtered projects the list through the active filter. Pure: no side
// effects, freshly allocated result.
func (s *Synchronizer) Filtered() []models.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		if s.filter == FilterAll || Filter(t.Status) == s.filter {
			out = append(out, t)
		}
	}
	return out
}

// TaskCounts are the tallies shown next to the filter controls.
type TaskCounts struct {
	Total     int
	Pending   int
	Completed int
}

func (s *Synchronizer) Counts() TaskCounts {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := TaskCounts{Total: len(s.tasks)}
	for _, t := range s.tasks {
		switch t.Status {
		case models.StatusPending:
			c.Pending++
		case models.StatusCompleted:
			c.Completed++
		}
	}
	return c
}

func (s *Synchronizer) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.AddCookie(&http.Cookie{Name: "session_token", Value: s.token})

	resp, err := s.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%s %s: %s", method, path, serverMessage(resp))
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

// serverMessage pulls the human-readable message out of a failure
// body; falls back to the HTTP status line.
func serverMessage(resp *http.Response) string {
	var body struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil {
		if body.Error != "" {
			return body.Error
		}
		if body.Message != "" {
			return body.Message
		}
	}
	return resp.Status
}
