package models

import (
	"testing"
	"time"
)

func TestStatusValid(t *testing.T) {
	tests := []struct {
		status Status
		want   bool
	}{
		{StatusPending, true},
		{StatusCompleted, true},
		{Status(""), false},
		{Status("done"), false},
		{Status("PENDING"), false},
	}

	for _, tt := range tests {
		if got := tt.status.Valid(); got != tt.want {
			t.Errorf("Status(%q).Valid() = %v, want %v", tt.status, got, tt.want)
		}
	}
}

func TestStatusToggle(t *testing.T) {
	if got := StatusPending.Toggle(); got != StatusCompleted {
		t.Errorf("StatusPending.Toggle() = %v, want %v", got, StatusCompleted)
	}
	if got := StatusCompleted.Toggle(); got != StatusPending {
		t.Errorf("StatusCompleted.Toggle() = %v, want %v", got, StatusPending)
	}

	// toggling twice lands back on the original status
	if got := StatusPending.Toggle().Toggle(); got != StatusPending {
		t.Errorf("double toggle = %v, want %v", got, StatusPending)
	}
}

func TestCreateTaskInputValidate(t *testing.T) {
	tests := []struct {
		name    string
		input   CreateTaskInput
		wantErr bool
	}{
		{
			name:  "valid with plain date",
			input: CreateTaskInput{Title: "Write report", Description: "Q3 summary", DueDate: "2025-12-01"},
		},
		{
			name:  "valid with full timestamp",
			input: CreateTaskInput{Title: "Write report", Description: "Q3 summary", DueDate: "2025-12-01T00:00:00Z"},
		},
		{
			name:    "missing title",
			input:   CreateTaskInput{Description: "Q3 summary", DueDate: "2025-12-01"},
			wantErr: true,
		},
		{
			name:    "missing description",
			input:   CreateTaskInput{Title: "Write report", DueDate: "2025-12-01"},
			wantErr: true,
		},
		{
			name:    "missing due date",
			input:   CreateTaskInput{Title: "Write report", Description: "Q3 summary"},
			wantErr: true,
		},
		{
			name:    "whitespace only title",
			input:   CreateTaskInput{Title: "   ", Description: "Q3 summary", DueDate: "2025-12-01"},
			wantErr: true,
		},
		{
			name:    "malformed due date",
			input:   CreateTaskInput{Title: "Write report", Description: "Q3 summary", DueDate: "next tuesday"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			due, err := tt.input.Validate()
			if tt.wantErr {
				if err == nil {
					t.Error("Validate() should return error")
				}
				return
			}
			if err != nil {
				t.Fatalf("Validate() error = %v", err)
			}
			want := time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC)
			if !due.Equal(want) {
				t.Errorf("Validate() due = %v, want %v", due, want)
			}
		})
	}
}
