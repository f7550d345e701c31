// Package api provides HTTP handlers for the API.
package api

import (
	"time"

	"github.com/phrazzld/todo-api/internal/api/shared"
	"github.com/phrazzld/todo-api/internal/domain"
)

// Common request/response structures

// SignupRequest defines the payload for the user signup endpoint.
type SignupRequest struct {
	Name     string `json:"name"     validate:"required"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,max=72"`
}

// LoginRequest defines the payload for the user login endpoint.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// CheckAccountRequest defines the payload for the account verification endpoint.
type CheckAccountRequest struct {
	Token string `json:"token" validate:"required,len=32,hexadecimal"`
}

// TodoRequest defines the payload for todo create and update.
// All four fields must be present (exact-match schema); pointer fields
// distinguish an absent field from a zero value. Description may be
// empty, title may not.
type TodoRequest struct {
	Title       *string `json:"title"       validate:"required"`
	Description *string `json:"description" validate:"required"`
	Completed   *bool   `json:"completed"   validate:"required"`
	Deadline    *string `json:"deadline"    validate:"required"`
}

// TodoResponse represents the serialized form of a todo.
// Deadline uses the fixed MM/DD/YY HH:MM:SS wire format; empty means no
// deadline.
type TodoResponse struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Completed   bool      `json:"completed"`
	Deadline    string    `json:"deadline"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TodoDataResponse is the envelope carrying a single todo.
type TodoDataResponse struct {
	shared.Envelope
	Data TodoResponse `json:"data"`
}

// TodoListResponse is the envelope carrying one page of todos.
// Count is the number of items on this page, Total the number of rows
// matching the filter.
type TodoListResponse struct {
	shared.Envelope
	Count       int            `json:"count"`
	Data        []TodoResponse `json:"data"`
	Total       int            `json:"total"`
	CurrentPage int            `json:"currentPage"`
}

// todoToResponse converts a domain.Todo to a TodoResponse.
func todoToResponse(todo *domain.Todo) TodoResponse {
	return TodoResponse{
		ID:          todo.ID.String(),
		UserID:      todo.UserID.String(),
		Title:       todo.Title,
		Description: todo.Description,
		Completed:   todo.Completed,
		Deadline:    domain.FormatDeadline(todo.Deadline),
		CreatedAt:   todo.CreatedAt,
		UpdatedAt:   todo.UpdatedAt,
	}
}
