package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestNewTodo(t *testing.T) {
	userID := uuid.New()
	deadline := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	todo, err := NewTodo(userID, "Buy milk", "Two liters", false, &deadline)

	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if todo.ID == uuid.Nil {
		t.Error("Expected non-nil UUID, got nil UUID")
	}

	if todo.UserID != userID {
		t.Errorf("Expected user ID %s, got %s", userID, todo.UserID)
	}

	if todo.Title != "Buy milk" {
		t.Errorf("Expected title %q, got %q", "Buy milk", todo.Title)
	}

	if todo.Completed {
		t.Error("Expected completed to be false")
	}

	if todo.Deadline == nil || !todo.Deadline.Equal(deadline) {
		t.Errorf("Expected deadline %v, got %v", deadline, todo.Deadline)
	}

	if todo.CreatedAt.IsZero() {
		t.Error("Expected non-zero CreatedAt time")
	}

	if todo.UpdatedAt.IsZero() {
		t.Error("Expected non-zero UpdatedAt time")
	}

	// Missing owner
	_, err = NewTodo(uuid.Nil, "Buy milk", "", false, nil)
	if err != ErrEmptyTodoUserID {
		t.Errorf("Expected error %v, got %v", ErrEmptyTodoUserID, err)
	}

	// Missing title
	_, err = NewTodo(userID, "", "", false, nil)
	if err != ErrEmptyTodoTitle {
		t.Errorf("Expected error %v, got %v", ErrEmptyTodoTitle, err)
	}

	// No deadline is valid
	todo, err = NewTodo(userID, "Buy milk", "", false, nil)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if todo.Deadline != nil {
		t.Errorf("Expected nil deadline, got %v", todo.Deadline)
	}
}

func TestTodoValidate(t *testing.T) {
	validTodo := Todo{
		ID:     uuid.New(),
		UserID: uuid.New(),
		Title:  "Buy milk",
	}

	if err := validTodo.Validate(); err != nil {
		t.Errorf("Expected no error, got %v", err)
	}

	invalidTodo := validTodo
	invalidTodo.ID = uuid.Nil
	if err := invalidTodo.Validate(); err != ErrEmptyTodoID {
		t.Errorf("Expected error %v, got %v", ErrEmptyTodoID, err)
	}

	invalidTodo = validTodo
	invalidTodo.UserID = uuid.Nil
	if err := invalidTodo.Validate(); err != ErrEmptyTodoUserID {
		t.Errorf("Expected error %v, got %v", ErrEmptyTodoUserID, err)
	}

	invalidTodo = validTodo
	invalidTodo.Title = ""
	if err := invalidTodo.Validate(); err != ErrEmptyTodoTitle {
		t.Errorf("Expected error %v, got %v", ErrEmptyTodoTitle, err)
	}
}

func TestParseDeadline(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    *time.Time
		wantErr bool
	}{
		{
			name:  "valid deadline",
			input: "01/02/26 15:04:05",
			want:  timePtr(time.Date(2026, 1, 2, 15, 4, 5, 0, time.UTC)),
		},
		{
			name:  "empty means no deadline",
			input: "",
			want:  nil,
		},
		{
			name:    "ISO format rejected",
			input:   "2026-01-02T15:04:05Z",
			wantErr: true,
		},
		{
			name:    "date only rejected",
			input:   "01/02/26",
			wantErr: true,
		},
		{
			name:    "garbage rejected",
			input:   "tomorrow",
			wantErr: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseDeadline(tc.input)

			if tc.wantErr {
				if !errors.Is(err, ErrInvalidDeadline) {
					t.Fatalf("Expected ErrInvalidDeadline, got %v", err)
				}
				return
			}

			if err != nil {
				t.Fatalf("Expected no error, got %v", err)
			}

			if tc.want == nil {
				if got != nil {
					t.Errorf("Expected nil deadline, got %v", got)
				}
				return
			}

			if got == nil || !got.Equal(*tc.want) {
				t.Errorf("Expected %v, got %v", tc.want, got)
			}
		})
	}
}

func TestFormatDeadline(t *testing.T) {
	if got := FormatDeadline(nil); got != "" {
		t.Errorf("Expected empty string for nil deadline, got %q", got)
	}

	deadline := time.Date(2026, 1, 2, 15, 4, 5, 0, time.UTC)
	if got := FormatDeadline(&deadline); got != "01/02/26 15:04:05" {
		t.Errorf("Expected %q, got %q", "01/02/26 15:04:05", got)
	}
}

func TestDeadlineRoundTrip(t *testing.T) {
	const wire = "12/31/26 23:59:59"

	parsed, err := ParseDeadline(wire)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if got := FormatDeadline(parsed); got != wire {
		t.Errorf("Round trip changed the value: got %q want %q", got, wire)
	}
}

func timePtr(t time.Time) *time.Time {
	return &t
}
