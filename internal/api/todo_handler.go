package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/todo-api/internal/api/shared"
	"github.com/phrazzld/todo-api/internal/cache"
	"github.com/phrazzld/todo-api/internal/domain"
	"github.com/phrazzld/todo-api/internal/platform/logger"
	"github.com/phrazzld/todo-api/internal/store"
)

// TodoHandler handles todo CRUD and listing requests.
//
// List and get-one responses are memoized in the response cache for a
// fixed TTL; every committed mutation invalidates all of the owner's
// entries before responding. A non-owner can never reach a row: all
// store operations are scoped by (id, user_id) up front.
type TodoHandler struct {
	todoStore store.TodoStore
	cache     *cache.ResponseCache
	logger    *slog.Logger
}

// NewTodoHandler creates a new TodoHandler.
func NewTodoHandler(
	todoStore store.TodoStore,
	responseCache *cache.ResponseCache,
	logger *slog.Logger,
) *TodoHandler {
	if logger == nil {
		logger = slog.Default()
	}

	return &TodoHandler{
		todoStore: todoStore,
		cache:     responseCache,
		logger:    logger.With(slog.String("component", "todo_handler")),
	}
}

// Create handles POST /api/v1/todos.
// A deadline that does not match the MM/DD/YY HH:MM:SS wire format is a
// client error, not a server one.
func (h *TodoHandler) Create(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := getUserIDFromContext(r)
	if !ok {
		log.Warn("user ID not found or invalid in request context")
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentification requise")
		return
	}

	req, ok := h.decodeTodoRequest(w, r)
	if !ok {
		return
	}

	deadline, err := domain.ParseDeadline(*req.Deadline)
	if err != nil {
		shared.RespondWithErrorAndLog(
			w, r, http.StatusBadRequest, GetSafeErrorMessage(err), err)
		return
	}

	todo, err := domain.NewTodo(userID, *req.Title, *req.Description, *req.Completed, deadline)
	if err != nil {
		shared.RespondWithErrorAndLog(
			w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	if err := h.todoStore.Create(r.Context(), todo); err != nil {
		shared.RespondWithErrorAndLog(
			w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	// The new row changes every list page the owner may have cached.
	h.cache.InvalidateOwner(userID)

	shared.RespondWithJSON(w, r, http.StatusCreated, TodoDataResponse{
		Envelope: shared.OK("TodoCreated"),
		Data:     todoToResponse(todo),
	})
}

// List handles GET /api/v1/todos.
// The response is cached per (owner, normalized query) for the configured
// TTL; an empty result set is a 200 with an empty list.
func (h *TodoHandler) List(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := getUserIDFromContext(r)
	if !ok {
		log.Warn("user ID not found or invalid in request context")
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentification requise")
		return
	}

	query := r.URL.Query()

	filter, err := parseTodoFilter(query)
	if err != nil {
		shared.RespondWithErrorAndLog(
			w, r, http.StatusBadRequest, GetSafeErrorMessage(err), err)
		return
	}

	key := cache.ListKey(userID, query)
	if payload, hit := h.cache.Get(key); hit {
		log.Debug("todo list served from cache", slog.String("user_id", userID.String()))
		shared.RespondWithRaw(w, r, http.StatusOK, payload)
		return
	}

	page := parsePage(query)

	todoPage, err := h.todoStore.List(r.Context(), userID, filter, page)
	if err != nil {
		shared.RespondWithErrorAndLog(
			w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	data := make([]TodoResponse, 0, len(todoPage.Todos))
	for _, todo := range todoPage.Todos {
		data = append(data, todoToResponse(todo))
	}

	response := TodoListResponse{
		Envelope:    shared.Envelope{RequestStatus: true},
		Count:       len(data),
		Data:        data,
		Total:       todoPage.Total,
		CurrentPage: todoPage.Page,
	}

	payload, err := json.Marshal(response)
	if err != nil {
		shared.RespondWithErrorAndLog(
			w, r, http.StatusInternalServerError, "Une erreur est survenue", err)
		return
	}

	h.cache.Set(key, payload)
	shared.RespondWithRaw(w, r, http.StatusOK, payload)
}

// GetOne handles GET /api/v1/todos/{id}.
// Absent and not-owned are both 404: existence is never leaked.
func (h *TodoHandler) GetOne(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, todoID, ok := h.userAndTodoID(w, r)
	if !ok {
		return
	}

	key := cache.ItemKey(userID, todoID)
	if payload, hit := h.cache.Get(key); hit {
		log.Debug("todo served from cache", slog.String("todo_id", todoID.String()))
		shared.RespondWithRaw(w, r, http.StatusOK, payload)
		return
	}

	todo, err := h.todoStore.GetForUser(r.Context(), todoID, userID)
	if err != nil {
		shared.RespondWithErrorAndLog(
			w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	response := TodoDataResponse{
		Envelope: shared.Envelope{RequestStatus: true},
		Data:     todoToResponse(todo),
	}

	payload, err := json.Marshal(response)
	if err != nil {
		shared.RespondWithErrorAndLog(
			w, r, http.StatusInternalServerError, "Une erreur est survenue", err)
		return
	}

	h.cache.Set(key, payload)
	shared.RespondWithRaw(w, r, http.StatusOK, payload)
}

// Update handles PUT /api/v1/todos/{id}.
// The owner predicate is part of the UPDATE statement, so the ownership
// check happens before any row is touched.
func (h *TodoHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, todoID, ok := h.userAndTodoID(w, r)
	if !ok {
		return
	}

	req, ok := h.decodeTodoRequest(w, r)
	if !ok {
		return
	}

	deadline, err := domain.ParseDeadline(*req.Deadline)
	if err != nil {
		shared.RespondWithErrorAndLog(
			w, r, http.StatusBadRequest, GetSafeErrorMessage(err), err)
		return
	}

	todo := &domain.Todo{
		ID:          todoID,
		UserID:      userID,
		Title:       *req.Title,
		Description: *req.Description,
		Completed:   *req.Completed,
		Deadline:    deadline,
		UpdatedAt:   time.Now().UTC(),
	}

	if err := h.todoStore.Update(r.Context(), todo); err != nil {
		shared.RespondWithErrorAndLog(
			w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	h.cache.InvalidateOwner(userID)

	// Re-read so the response carries the stored timestamps.
	stored, err := h.todoStore.GetForUser(r.Context(), todoID, userID)
	if err != nil {
		shared.RespondWithErrorAndLog(
			w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, TodoDataResponse{
		Envelope: shared.Envelope{RequestStatus: true},
		Data:     todoToResponse(stored),
	})
}

// Delete handles DELETE /api/v1/todos/{id}.
// Deleting an already-deleted id is 404 both times, never a server error.
func (h *TodoHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, todoID, ok := h.userAndTodoID(w, r)
	if !ok {
		return
	}

	if err := h.todoStore.DeleteForUser(r.Context(), todoID, userID); err != nil {
		shared.RespondWithErrorAndLog(
			w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	h.cache.InvalidateOwner(userID)

	shared.RespondWithJSON(w, r, http.StatusOK, shared.OK("TodoDeleted"))
}

// decodeTodoRequest parses and validates the shared create/update body.
// Writes the error response itself and returns ok=false on failure.
func (h *TodoHandler) decodeTodoRequest(w http.ResponseWriter, r *http.Request) (TodoRequest, bool) {
	var req TodoRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Corps de requête invalide")
		return req, false
	}

	if err := shared.Validate.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return req, false
	}

	return req, true
}

// userAndTodoID extracts the authenticated user and the {id} path
// parameter. A malformed id behaves like a miss (404), keeping the
// not-found policy uniform. Writes the error response itself and returns
// ok=false on failure.
func (h *TodoHandler) userAndTodoID(w http.ResponseWriter, r *http.Request) (uuid.UUID, uuid.UUID, bool) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := getUserIDFromContext(r)
	if !ok {
		log.Warn("user ID not found or invalid in request context")
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentification requise")
		return uuid.Nil, uuid.Nil, false
	}

	pathID := chi.URLParam(r, "id")
	todoID, err := uuid.Parse(pathID)
	if err != nil {
		log.Debug("invalid todo id in path", slog.String("value", pathID))
		shared.RespondWithError(w, r, http.StatusNotFound, "TodoNotFound")
		return uuid.Nil, uuid.Nil, false
	}

	return userID, todoID, true
}

// getUserIDFromContext extracts the authenticated user's UUID from the
// request context, where the authentication middleware placed it.
func getUserIDFromContext(r *http.Request) (uuid.UUID, bool) {
	userID, ok := r.Context().Value(shared.UserIDContextKey).(uuid.UUID)
	if !ok || userID == uuid.Nil {
		return uuid.Nil, false
	}
	return userID, true
}

// parseTodoFilter builds the store filter from the raw query parameters.
// completed must be exactly "true" or "false"; anything else is a client
// error rather than a silent coercion.
func parseTodoFilter(query url.Values) (store.TodoFilter, error) {
	var filter store.TodoFilter

	switch completed := query.Get("completed"); completed {
	case "":
	case "true":
		v := true
		filter.Completed = &v
	case "false":
		v := false
		filter.Completed = &v
	default:
		return filter, domain.ErrValidation
	}

	if raw := query.Get("deadline"); raw != "" {
		deadline, err := domain.ParseDeadline(raw)
		if err != nil {
			return filter, err
		}
		filter.Deadline = deadline
	}

	filter.Title = query.Get("title")
	filter.Description = query.Get("description")

	return filter, nil
}

// parsePage reads the 1-indexed page parameter, defaulting to 1.
// Non-numeric or sub-1 values fall back to the default.
func parsePage(query url.Values) int {
	page, err := strconv.Atoi(query.Get("page"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}
