package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/todo-api/internal/api/shared"
	"github.com/phrazzld/todo-api/internal/cache"
	"github.com/phrazzld/todo-api/internal/domain"
	"github.com/phrazzld/todo-api/internal/mocks"
	"github.com/phrazzld/todo-api/internal/store"
)

// newTodoRequest builds a request with the authenticated user in context
// and, when id is non-empty, the chi {id} route parameter set.
func newTodoRequest(t *testing.T, method, target string, body interface{}, userID uuid.UUID, id string) *http.Request {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal request body: %v", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, target, reader)

	ctx := req.Context()
	if userID != uuid.Nil {
		ctx = context.WithValue(ctx, shared.UserIDContextKey, userID)
	}
	if id != "" {
		rctx := chi.NewRouteContext()
		rctx.URLParams.Add("id", id)
		ctx = context.WithValue(ctx, chi.RouteCtxKey, rctx)
	}

	return req.WithContext(ctx)
}

func validTodoBody(deadline string) map[string]interface{} {
	return map[string]interface{}{
		"title":       "Buy milk",
		"description": "Two liters",
		"completed":   false,
		"deadline":    deadline,
	}
}

func TestCreateTodo(t *testing.T) {
	userID := uuid.New()

	tests := []struct {
		name           string
		body           interface{}
		userIDInCtx    uuid.UUID
		storeErr       error
		expectedStatus int
	}{
		{
			name:           "Success",
			body:           validTodoBody("01/02/26 15:04:05"),
			userIDInCtx:    userID,
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "Success Without Deadline",
			body:           validTodoBody(""),
			userIDInCtx:    userID,
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "Invalid Deadline Format",
			body:           validTodoBody("2026-01-02"),
			userIDInCtx:    userID,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "Missing Field",
			body: map[string]interface{}{
				"title":       "Buy milk",
				"description": "Two liters",
				"completed":   false,
			},
			userIDInCtx:    userID,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "Unknown Field Rejected",
			body: map[string]interface{}{
				"title":       "Buy milk",
				"description": "Two liters",
				"completed":   false,
				"deadline":    "",
				"extra":       true,
			},
			userIDInCtx:    userID,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "Missing User ID",
			body:           validTodoBody(""),
			userIDInCtx:    uuid.Nil,
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "Store Error",
			body:           validTodoBody(""),
			userIDInCtx:    userID,
			storeErr:       fmt.Errorf("database error"),
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			todoStore := mocks.NewMockTodoStore()
			todoStore.CreateError = tc.storeErr

			handler := NewTodoHandler(todoStore, cache.New(time.Minute), nil)

			req := newTodoRequest(t, "POST", "/api/v1/todos", tc.body, tc.userIDInCtx, "")
			rr := httptest.NewRecorder()

			handler.Create(rr, req)

			if rr.Code != tc.expectedStatus {
				t.Errorf("handler returned wrong status code: got %v want %v", rr.Code, tc.expectedStatus)
			}

			if tc.expectedStatus == http.StatusCreated {
				var response TodoDataResponse
				if err := json.NewDecoder(rr.Body).Decode(&response); err != nil {
					t.Fatalf("failed to decode response body: %v", err)
				}

				if !response.RequestStatus {
					t.Error("expected requestStatus true")
				}
				if response.Data.Title != "Buy milk" {
					t.Errorf("wrong title in response: got %q", response.Data.Title)
				}
				if response.Data.UserID != userID.String() {
					t.Errorf("wrong owner in response: got %q want %q", response.Data.UserID, userID)
				}
				if len(todoStore.Todos) != 1 {
					t.Errorf("expected 1 stored todo, got %d", len(todoStore.Todos))
				}
			}
		})
	}
}

func TestCreateTodoPreservesDeadlineFormat(t *testing.T) {
	userID := uuid.New()
	const wire = "12/31/26 23:59:59"

	handler := NewTodoHandler(mocks.NewMockTodoStore(), cache.New(time.Minute), nil)

	req := newTodoRequest(t, "POST", "/api/v1/todos", validTodoBody(wire), userID, "")
	rr := httptest.NewRecorder()

	handler.Create(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("handler returned wrong status code: got %v want %v", rr.Code, http.StatusCreated)
	}

	var response TodoDataResponse
	if err := json.NewDecoder(rr.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response body: %v", err)
	}

	if response.Data.Deadline != wire {
		t.Errorf("deadline not preserved through round trip: got %q want %q", response.Data.Deadline, wire)
	}
}

func TestGetOneTodo(t *testing.T) {
	userID := uuid.New()
	otherUserID := uuid.New()

	todo, err := domain.NewTodo(userID, "Buy milk", "Two liters", false, nil)
	if err != nil {
		t.Fatalf("failed to build todo: %v", err)
	}

	tests := []struct {
		name           string
		requester      uuid.UUID
		pathID         string
		expectedStatus int
	}{
		{
			name:           "Success",
			requester:      userID,
			pathID:         todo.ID.String(),
			expectedStatus: http.StatusOK,
		},
		{
			name:           "Another User's Todo",
			requester:      otherUserID,
			pathID:         todo.ID.String(),
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "Unknown Todo",
			requester:      userID,
			pathID:         uuid.New().String(),
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "Malformed ID",
			requester:      userID,
			pathID:         "42",
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			todoStore := mocks.NewMockTodoStore()
			todoStore.Todos[todo.ID] = todo

			handler := NewTodoHandler(todoStore, cache.New(time.Minute), nil)

			req := newTodoRequest(t, "GET", "/api/v1/todos/"+tc.pathID, nil, tc.requester, tc.pathID)
			rr := httptest.NewRecorder()

			handler.GetOne(rr, req)

			if rr.Code != tc.expectedStatus {
				t.Errorf("handler returned wrong status code: got %v want %v", rr.Code, tc.expectedStatus)
			}

			if tc.expectedStatus == http.StatusNotFound {
				var envelope shared.Envelope
				if err := json.NewDecoder(rr.Body).Decode(&envelope); err != nil {
					t.Fatalf("failed to decode response body: %v", err)
				}
				if envelope.Message != "TodoNotFound" {
					t.Errorf("wrong message: got %q want %q", envelope.Message, "TodoNotFound")
				}
			}
		})
	}
}

func TestListTodos(t *testing.T) {
	userID := uuid.New()

	todoStore := mocks.NewMockTodoStore()
	var created []*domain.Todo
	for i := 0; i < 3; i++ {
		todo, err := domain.NewTodo(userID, fmt.Sprintf("Todo %d", i), "", false, nil)
		if err != nil {
			t.Fatalf("failed to build todo: %v", err)
		}
		created = append(created, todo)
		todoStore.Todos[todo.ID] = todo
	}
	// Preserve insertion order regardless of map iteration.
	todoStore.ListFn = func(ctx context.Context, uid uuid.UUID, filter store.TodoFilter, page int) (*store.TodoPage, error) {
		return &store.TodoPage{Todos: created, Total: len(created), Page: page}, nil
	}

	handler := NewTodoHandler(todoStore, cache.New(time.Minute), nil)

	req := newTodoRequest(t, "GET", "/api/v1/todos", nil, userID, "")
	rr := httptest.NewRecorder()

	handler.List(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("handler returned wrong status code: got %v want %v", rr.Code, http.StatusOK)
	}

	var response TodoListResponse
	if err := json.NewDecoder(rr.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response body: %v", err)
	}

	if !response.RequestStatus {
		t.Error("expected requestStatus true")
	}
	if response.Count != 3 {
		t.Errorf("wrong count: got %d want 3", response.Count)
	}
	if response.Total != 3 {
		t.Errorf("wrong total: got %d want 3", response.Total)
	}
	if response.CurrentPage != 1 {
		t.Errorf("wrong currentPage: got %d want 1", response.CurrentPage)
	}
	for i, item := range response.Data {
		if item.Title != fmt.Sprintf("Todo %d", i) {
			t.Errorf("wrong order: item %d has title %q", i, item.Title)
		}
	}
}

func TestListTodosEmptyPage(t *testing.T) {
	handler := NewTodoHandler(mocks.NewMockTodoStore(), cache.New(time.Minute), nil)

	req := newTodoRequest(t, "GET", "/api/v1/todos?page=99", nil, uuid.New(), "")
	rr := httptest.NewRecorder()

	handler.List(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("handler returned wrong status code: got %v want %v", rr.Code, http.StatusOK)
	}

	var response TodoListResponse
	if err := json.NewDecoder(rr.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response body: %v", err)
	}

	if response.Count != 0 {
		t.Errorf("wrong count: got %d want 0", response.Count)
	}
	if response.Data == nil {
		t.Error("expected empty data array, got null")
	}
}

func TestListTodosInvalidCompletedFilter(t *testing.T) {
	handler := NewTodoHandler(mocks.NewMockTodoStore(), cache.New(time.Minute), nil)

	for _, value := range []string{"1", "yes", "TRUE"} {
		req := newTodoRequest(t, "GET", "/api/v1/todos?completed="+value, nil, uuid.New(), "")
		rr := httptest.NewRecorder()

		handler.List(rr, req)

		if rr.Code != http.StatusBadRequest {
			t.Errorf("completed=%q: got status %v want %v", value, rr.Code, http.StatusBadRequest)
		}
	}
}

func TestListTodosStoreError(t *testing.T) {
	todoStore := mocks.NewMockTodoStore()
	todoStore.ListFn = func(ctx context.Context, uid uuid.UUID, filter store.TodoFilter, page int) (*store.TodoPage, error) {
		return nil, errors.New("connection refused")
	}

	handler := NewTodoHandler(todoStore, cache.New(time.Minute), nil)

	req := newTodoRequest(t, "GET", "/api/v1/todos", nil, uuid.New(), "")
	rr := httptest.NewRecorder()

	handler.List(rr, req)

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("handler returned wrong status code: got %v want %v", rr.Code, http.StatusInternalServerError)
	}

	var response shared.Envelope
	if err := json.NewDecoder(rr.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response body: %v", err)
	}

	if response.RequestStatus {
		t.Error("expected requestStatus false")
	}
	if response.Message != "Une erreur est survenue" {
		t.Errorf("wrong message: got %q want the generic error message", response.Message)
	}
}

func TestListTodosCompletedFilterPassedToStore(t *testing.T) {
	userID := uuid.New()

	var gotFilter store.TodoFilter
	todoStore := mocks.NewMockTodoStore()
	todoStore.ListFn = func(ctx context.Context, uid uuid.UUID, filter store.TodoFilter, page int) (*store.TodoPage, error) {
		gotFilter = filter
		return &store.TodoPage{Todos: nil, Total: 0, Page: page}, nil
	}

	handler := NewTodoHandler(todoStore, cache.New(time.Minute), nil)

	req := newTodoRequest(t, "GET", "/api/v1/todos?completed=true&title=milk", nil, userID, "")
	rr := httptest.NewRecorder()

	handler.List(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("handler returned wrong status code: got %v", rr.Code)
	}
	if gotFilter.Completed == nil || !*gotFilter.Completed {
		t.Error("expected completed filter to be true")
	}
	if gotFilter.Title != "milk" {
		t.Errorf("wrong title filter: got %q", gotFilter.Title)
	}
}

func TestListTodosCachesResponse(t *testing.T) {
	userID := uuid.New()

	calls := 0
	todoStore := mocks.NewMockTodoStore()
	todoStore.ListFn = func(ctx context.Context, uid uuid.UUID, filter store.TodoFilter, page int) (*store.TodoPage, error) {
		calls++
		return &store.TodoPage{Todos: nil, Total: 0, Page: page}, nil
	}

	handler := NewTodoHandler(todoStore, cache.New(time.Minute), nil)

	for i := 0; i < 2; i++ {
		req := newTodoRequest(t, "GET", "/api/v1/todos?page=1", nil, userID, "")
		rr := httptest.NewRecorder()
		handler.List(rr, req)
		if rr.Code != http.StatusOK {
			t.Fatalf("handler returned wrong status code: got %v", rr.Code)
		}
	}

	if calls != 1 {
		t.Errorf("expected a single store hit for repeated identical requests, got %d", calls)
	}
}

func TestCreateInvalidatesListCache(t *testing.T) {
	userID := uuid.New()

	calls := 0
	todoStore := mocks.NewMockTodoStore()
	todoStore.ListFn = func(ctx context.Context, uid uuid.UUID, filter store.TodoFilter, page int) (*store.TodoPage, error) {
		calls++
		return &store.TodoPage{Todos: nil, Total: 0, Page: page}, nil
	}

	handler := NewTodoHandler(todoStore, cache.New(time.Minute), nil)

	list := func() {
		req := newTodoRequest(t, "GET", "/api/v1/todos", nil, userID, "")
		rr := httptest.NewRecorder()
		handler.List(rr, req)
		if rr.Code != http.StatusOK {
			t.Fatalf("list failed with status %v", rr.Code)
		}
	}

	list()

	req := newTodoRequest(t, "POST", "/api/v1/todos", validTodoBody(""), userID, "")
	rr := httptest.NewRecorder()
	handler.Create(rr, req)
	if rr.Code != http.StatusCreated {
		t.Fatalf("create failed with status %v", rr.Code)
	}

	list()

	if calls != 2 {
		t.Errorf("expected the create to invalidate the cached list, store hits: got %d want 2", calls)
	}
}

func TestUpdateTodo(t *testing.T) {
	userID := uuid.New()
	otherUserID := uuid.New()

	todo, err := domain.NewTodo(userID, "Buy milk", "Two liters", false, nil)
	if err != nil {
		t.Fatalf("failed to build todo: %v", err)
	}

	tests := []struct {
		name           string
		requester      uuid.UUID
		pathID         string
		body           interface{}
		expectedStatus int
	}{
		{
			name:      "Success",
			requester: userID,
			pathID:    todo.ID.String(),
			body: map[string]interface{}{
				"title":       "Buy bread",
				"description": "Whole grain",
				"completed":   true,
				"deadline":    "01/02/26 15:04:05",
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "Another User's Todo",
			requester:      otherUserID,
			pathID:         todo.ID.String(),
			body:           validTodoBody(""),
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "Invalid Deadline",
			requester:      userID,
			pathID:         todo.ID.String(),
			body:           validTodoBody("not-a-deadline"),
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			todoStore := mocks.NewMockTodoStore()
			stored := *todo
			todoStore.Todos[todo.ID] = &stored

			handler := NewTodoHandler(todoStore, cache.New(time.Minute), nil)

			req := newTodoRequest(t, "PUT", "/api/v1/todos/"+tc.pathID, tc.body, tc.requester, tc.pathID)
			rr := httptest.NewRecorder()

			handler.Update(rr, req)

			if rr.Code != tc.expectedStatus {
				t.Errorf("handler returned wrong status code: got %v want %v", rr.Code, tc.expectedStatus)
			}

			if tc.expectedStatus == http.StatusOK {
				var response TodoDataResponse
				if err := json.NewDecoder(rr.Body).Decode(&response); err != nil {
					t.Fatalf("failed to decode response body: %v", err)
				}
				if response.Data.Title != "Buy bread" {
					t.Errorf("wrong title after update: got %q", response.Data.Title)
				}
				if !response.Data.Completed {
					t.Error("expected completed true after update")
				}
				if response.Data.Deadline != "01/02/26 15:04:05" {
					t.Errorf("wrong deadline after update: got %q", response.Data.Deadline)
				}
			}

			if tc.name == "Another User's Todo" {
				if todoStore.Todos[todo.ID].Title != "Buy milk" {
					t.Error("another user's update must not modify the row")
				}
			}
		})
	}
}

func TestDeleteTodo(t *testing.T) {
	userID := uuid.New()
	otherUserID := uuid.New()

	todo, err := domain.NewTodo(userID, "Buy milk", "", false, nil)
	if err != nil {
		t.Fatalf("failed to build todo: %v", err)
	}

	todoStore := mocks.NewMockTodoStore()
	todoStore.Todos[todo.ID] = todo

	handler := NewTodoHandler(todoStore, cache.New(time.Minute), nil)

	// Another user cannot delete the row
	req := newTodoRequest(t, "DELETE", "/api/v1/todos/"+todo.ID.String(), nil, otherUserID, todo.ID.String())
	rr := httptest.NewRecorder()
	handler.Delete(rr, req)
	if rr.Code != http.StatusNotFound {
		t.Errorf("cross-user delete: got status %v want %v", rr.Code, http.StatusNotFound)
	}
	if len(todoStore.Todos) != 1 {
		t.Fatal("cross-user delete must not remove the row")
	}

	// Owner delete succeeds
	req = newTodoRequest(t, "DELETE", "/api/v1/todos/"+todo.ID.String(), nil, userID, todo.ID.String())
	rr = httptest.NewRecorder()
	handler.Delete(rr, req)
	if rr.Code != http.StatusOK {
		t.Errorf("owner delete: got status %v want %v", rr.Code, http.StatusOK)
	}

	var envelope shared.Envelope
	if err := json.NewDecoder(rr.Body).Decode(&envelope); err != nil {
		t.Fatalf("failed to decode response body: %v", err)
	}
	if envelope.Message != "TodoDeleted" {
		t.Errorf("wrong message: got %q want %q", envelope.Message, "TodoDeleted")
	}

	// Second delete of the same id is 404, not a server error
	req = newTodoRequest(t, "DELETE", "/api/v1/todos/"+todo.ID.String(), nil, userID, todo.ID.String())
	rr = httptest.NewRecorder()
	handler.Delete(rr, req)
	if rr.Code != http.StatusNotFound {
		t.Errorf("repeated delete: got status %v want %v", rr.Code, http.StatusNotFound)
	}
}

func TestGetOneServedFromCacheAfterFirstHit(t *testing.T) {
	userID := uuid.New()

	todo, err := domain.NewTodo(userID, "Buy milk", "", false, nil)
	if err != nil {
		t.Fatalf("failed to build todo: %v", err)
	}

	calls := 0
	todoStore := mocks.NewMockTodoStore()
	todoStore.GetForUserFn = func(ctx context.Context, id, uid uuid.UUID) (*domain.Todo, error) {
		calls++
		return todo, nil
	}

	handler := NewTodoHandler(todoStore, cache.New(time.Minute), nil)

	for i := 0; i < 2; i++ {
		req := newTodoRequest(t, "GET", "/api/v1/todos/"+todo.ID.String(), nil, userID, todo.ID.String())
		rr := httptest.NewRecorder()
		handler.GetOne(rr, req)
		if rr.Code != http.StatusOK {
			t.Fatalf("handler returned wrong status code: got %v", rr.Code)
		}
	}

	if calls != 1 {
		t.Errorf("expected a single store hit for repeated reads, got %d", calls)
	}
}
