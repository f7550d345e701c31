package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/todo-api/internal/domain"
	"github.com/phrazzld/todo-api/internal/store"
)

// MockTodoStore implements store.TodoStore for testing
type MockTodoStore struct {
	// Function fields for customizable behavior
	CreateFn         func(ctx context.Context, todo *domain.Todo) error
	GetForUserFn     func(ctx context.Context, id, userID uuid.UUID) (*domain.Todo, error)
	ListFn           func(ctx context.Context, userID uuid.UUID, filter store.TodoFilter, page int) (*store.TodoPage, error)
	UpdateFn         func(ctx context.Context, todo *domain.Todo) error
	DeleteForUserFn  func(ctx context.Context, id, userID uuid.UUID) error
	ListDueBetweenFn func(ctx context.Context, from, to time.Time) ([]*store.DueTodo, error)

	// Data for default implementation. Owners is consulted by the default
	// ListDueBetween: when populated, only todos whose owner is present and
	// subscribed are returned, with the owner's contact details attached.
	Todos       map[uuid.UUID]*domain.Todo
	Owners      map[uuid.UUID]*domain.User
	CreateError error
}

// NewMockTodoStore creates a new mock store with initialized defaults
func NewMockTodoStore() *MockTodoStore {
	return &MockTodoStore{
		Todos:  make(map[uuid.UUID]*domain.Todo),
		Owners: make(map[uuid.UUID]*domain.User),
	}
}

// Create implements the TodoStore interface
func (m *MockTodoStore) Create(ctx context.Context, todo *domain.Todo) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, todo)
	}

	if m.CreateError != nil {
		return m.CreateError
	}

	m.Todos[todo.ID] = todo
	return nil
}

// GetForUser implements the TodoStore interface
func (m *MockTodoStore) GetForUser(ctx context.Context, id, userID uuid.UUID) (*domain.Todo, error) {
	if m.GetForUserFn != nil {
		return m.GetForUserFn(ctx, id, userID)
	}

	todo, exists := m.Todos[id]
	if !exists || todo.UserID != userID {
		return nil, store.ErrTodoNotFound
	}

	return todo, nil
}

// List implements the TodoStore interface
func (m *MockTodoStore) List(
	ctx context.Context,
	userID uuid.UUID,
	filter store.TodoFilter,
	page int,
) (*store.TodoPage, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, userID, filter, page)
	}

	if page < 1 {
		page = 1
	}

	// Default implementation ignores the filter and returns every todo
	// the user owns; tests needing filter behavior set ListFn.
	var todos []*domain.Todo
	for _, todo := range m.Todos {
		if todo.UserID == userID {
			todos = append(todos, todo)
		}
	}

	return &store.TodoPage{
		Todos: todos,
		Total: len(todos),
		Page:  page,
	}, nil
}

// Update implements the TodoStore interface
func (m *MockTodoStore) Update(ctx context.Context, todo *domain.Todo) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, todo)
	}

	existing, exists := m.Todos[todo.ID]
	if !exists || existing.UserID != todo.UserID {
		return store.ErrTodoNotFound
	}

	m.Todos[todo.ID] = todo
	return nil
}

// DeleteForUser implements the TodoStore interface
func (m *MockTodoStore) DeleteForUser(ctx context.Context, id, userID uuid.UUID) error {
	if m.DeleteForUserFn != nil {
		return m.DeleteForUserFn(ctx, id, userID)
	}

	todo, exists := m.Todos[id]
	if !exists || todo.UserID != userID {
		return store.ErrTodoNotFound
	}

	delete(m.Todos, id)
	return nil
}

// ListDueBetween implements the TodoStore interface
func (m *MockTodoStore) ListDueBetween(
	ctx context.Context,
	from, to time.Time,
) ([]*store.DueTodo, error) {
	if m.ListDueBetweenFn != nil {
		return m.ListDueBetweenFn(ctx, from, to)
	}

	var due []*store.DueTodo
	for _, todo := range m.Todos {
		if todo.Completed || todo.Deadline == nil {
			continue
		}
		if !todo.Deadline.After(from) || todo.Deadline.After(to) {
			continue
		}

		entry := &store.DueTodo{Todo: todo}
		if len(m.Owners) > 0 {
			owner, exists := m.Owners[todo.UserID]
			if !exists || !owner.Subscribed {
				continue
			}
			entry.OwnerName = owner.Name
			entry.OwnerEmail = owner.Email
		}
		due = append(due, entry)
	}

	return due, nil
}
