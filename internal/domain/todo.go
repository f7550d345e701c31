package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// DeadlineLayout is the fixed wire format for todo deadlines
// (MM/DD/YY HH:MM:SS). It is kept for compatibility with existing clients
// and is deliberately not ISO-8601.
const DeadlineLayout = "01/02/06 15:04:05"

// Common validation errors for Todo
var (
	ErrEmptyTodoID     = errors.New("todo ID cannot be empty")
	ErrEmptyTodoUserID = errors.New("todo user ID cannot be empty")
	ErrEmptyTodoTitle  = errors.New("todo title cannot be empty")
)

// Todo represents a single task item owned by exactly one user.
// Description and Deadline are optional.
type Todo struct {
	ID          uuid.UUID  `json:"id"`
	UserID      uuid.UUID  `json:"user_id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Completed   bool       `json:"completed"`
	Deadline    *time.Time `json:"-"` // serialized through FormatDeadline
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// NewTodo creates a new Todo owned by the given user.
// It generates a new UUID and sets the creation/update timestamps.
// Returns an error if validation fails.
func NewTodo(userID uuid.UUID, title, description string, completed bool, deadline *time.Time) (*Todo, error) {
	todo := &Todo{
		ID:          uuid.New(),
		UserID:      userID,
		Title:       title,
		Description: description,
		Completed:   completed,
		Deadline:    deadline,
		CreatedAt:   time.Now().UTC(),
		UpdatedAt:   time.Now().UTC(),
	}

	if err := todo.Validate(); err != nil {
		return nil, err
	}

	return todo, nil
}

// Validate checks if the Todo has valid data.
// Returns an error if any field fails validation.
func (t *Todo) Validate() error {
	if t.ID == uuid.Nil {
		return ErrEmptyTodoID
	}

	if t.UserID == uuid.Nil {
		return ErrEmptyTodoUserID
	}

	if t.Title == "" {
		return ErrEmptyTodoTitle
	}

	return nil
}

// ParseDeadline parses a deadline in the fixed MM/DD/YY HH:MM:SS wire
// format. An empty string means no deadline and yields nil.
// Returns ErrInvalidDeadline (wrapped) on a format mismatch.
func ParseDeadline(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}

	t, err := time.ParseInLocation(DeadlineLayout, s, time.UTC)
	if err != nil {
		return nil, fmt.Errorf("%w: %q does not match %s", ErrInvalidDeadline, s, DeadlineLayout)
	}

	return &t, nil
}

// FormatDeadline renders a deadline in the fixed wire format.
// A nil deadline yields the empty string.
func FormatDeadline(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(DeadlineLayout)
}
