package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/todo-api/internal/domain"
)

// DefaultPageSize is the fixed page size applied to todo listings.
// Client-requested page sizes are ignored.
const DefaultPageSize = 1000

// TodoFilter describes the optional predicates applied to a user's todo
// listing. All set fields are combined with logical AND; the owning user
// predicate is always applied by the store and is never client-controlled.
type TodoFilter struct {
	// Completed filters on the completion flag when non-nil.
	Completed *bool

	// Deadline filters on an exact deadline match when non-nil (not a range).
	Deadline *time.Time

	// Title filters on a case-insensitive substring match when non-empty.
	Title string

	// Description filters on a case-insensitive substring match when non-empty.
	Description string
}

// TodoPage is one page of a filtered todo listing.
// Total counts all rows matching the filter, not just this page.
type TodoPage struct {
	Todos []*domain.Todo
	Total int
	Page  int
}

// DueTodo pairs a todo nearing its deadline with the contact details of
// its subscribed owner, for the reminder sweep.
type DueTodo struct {
	Todo       *domain.Todo
	OwnerName  string
	OwnerEmail string
}

// TodoStore defines the interface for todo data persistence.
// Every read and write is scoped by the owning user: ownership is checked
// in the query itself, before any row is touched.
type TodoStore interface {
	// Create saves a new todo to the store.
	// Returns validation errors from the domain Todo if data is invalid.
	// Returns ErrInvalidEntity if the owning user does not exist.
	Create(ctx context.Context, todo *domain.Todo) error

	// GetForUser retrieves a todo by ID, scoped to the given owner.
	// Returns ErrTodoNotFound if the todo is absent or owned by another user.
	GetForUser(ctx context.Context, id, userID uuid.UUID) (*domain.Todo, error)

	// List returns one page of the owner's todos matching the filter,
	// ordered by insertion. page is 1-indexed; values below 1 are treated
	// as 1. An out-of-range page yields an empty page, not an error.
	List(ctx context.Context, userID uuid.UUID, filter TodoFilter, page int) (*TodoPage, error)

	// Update modifies a todo in a single owner-scoped statement.
	// Returns ErrTodoNotFound if the todo is absent or owned by another user.
	Update(ctx context.Context, todo *domain.Todo) error

	// DeleteForUser removes at most one todo matching (id, userID).
	// Returns ErrTodoNotFound if zero rows were affected.
	DeleteForUser(ctx context.Context, id, userID uuid.UUID) error

	// ListDueBetween returns incomplete todos whose deadline falls in
	// (from, to], restricted to owners with the reminder subscription flag
	// set. Used by the reminder sweep.
	ListDueBetween(ctx context.Context, from, to time.Time) ([]*DueTodo, error)
}
