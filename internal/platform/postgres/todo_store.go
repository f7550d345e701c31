package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/todo-api/internal/domain"
	"github.com/phrazzld/todo-api/internal/platform/logger"
	"github.com/phrazzld/todo-api/internal/store"
)

// PostgresTodoStore implements the store.TodoStore interface
// using a PostgreSQL database as the storage backend.
type PostgresTodoStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresTodoStore creates a new PostgreSQL implementation of the
// TodoStore interface. It accepts a database connection or transaction
// that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresTodoStore(db store.DBTX, logger *slog.Logger) *PostgresTodoStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresTodoStore{
		db:     db,
		logger: logger.With(slog.String("component", "todo_store")),
	}
}

// Ensure PostgresTodoStore implements store.TodoStore interface
var _ store.TodoStore = (*PostgresTodoStore)(nil)

// Create implements store.TodoStore.Create
// Returns store.ErrInvalidEntity if the owning user does not exist
// (foreign key violation).
func (s *PostgresTodoStore) Create(ctx context.Context, todo *domain.Todo) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := todo.Validate(); err != nil {
		log.Warn("todo validation failed during create",
			slog.String("error", err.Error()),
			slog.String("todo_id", todo.ID.String()))
		return err
	}

	query := `
		INSERT INTO todos (id, user_id, title, description, completed, deadline, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		todo.ID,
		todo.UserID,
		todo.Title,
		todo.Description,
		todo.Completed,
		todo.Deadline,
		todo.CreatedAt,
		todo.UpdatedAt,
	)

	if err != nil {
		log.Error("failed to create todo",
			slog.String("error", err.Error()),
			slog.String("todo_id", todo.ID.String()),
			slog.String("user_id", todo.UserID.String()))
		return MapError(err)
	}

	log.Info("todo created successfully",
		slog.String("todo_id", todo.ID.String()),
		slog.String("user_id", todo.UserID.String()))
	return nil
}

// GetForUser implements store.TodoStore.GetForUser
// The ownership predicate is part of the query itself: a todo owned by
// another user scans as no rows, so absent and not-owned are
// indistinguishable to the caller.
func (s *PostgresTodoStore) GetForUser(ctx context.Context, id, userID uuid.UUID) (*domain.Todo, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, user_id, title, description, completed, deadline, created_at, updated_at
		FROM todos
		WHERE id = $1 AND user_id = $2
	`

	todo, err := scanTodo(s.db.QueryRowContext(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("todo not found",
				slog.String("todo_id", id.String()),
				slog.String("user_id", userID.String()))
			return nil, store.ErrTodoNotFound
		}
		log.Error("failed to get todo",
			slog.String("error", err.Error()),
			slog.String("todo_id", id.String()))
		return nil, err
	}

	return todo, nil
}

// List implements store.TodoStore.List
// The total is computed with a separate COUNT over the same predicates,
// so a listing costs two passes over matching rows.
func (s *PostgresTodoStore) List(
	ctx context.Context,
	userID uuid.UUID,
	filter store.TodoFilter,
	page int,
) (*store.TodoPage, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if page < 1 {
		page = 1
	}

	where, args := buildTodoPredicates(userID, filter)

	var total int
	countQuery := `SELECT COUNT(*) FROM todos ` + where
	if err := s.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		log.Error("failed to count todos",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, err
	}

	listQuery := fmt.Sprintf(`
		SELECT id, user_id, title, description, completed, deadline, created_at, updated_at
		FROM todos %s
		ORDER BY created_at, id
		LIMIT $%d OFFSET $%d
	`, where, len(args)+1, len(args)+2)
	args = append(args, store.DefaultPageSize, (page-1)*store.DefaultPageSize)

	rows, err := s.db.QueryContext(ctx, listQuery, args...)
	if err != nil {
		log.Error("failed to list todos",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	todos := []*domain.Todo{}
	for rows.Next() {
		todo, err := scanTodo(rows)
		if err != nil {
			log.Error("failed to scan todo row",
				slog.String("error", err.Error()))
			return nil, err
		}
		todos = append(todos, todo)
	}

	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows",
			slog.String("error", err.Error()))
		return nil, err
	}

	log.Debug("listed todos",
		slog.String("user_id", userID.String()),
		slog.Int("count", len(todos)),
		slog.Int("total", total),
		slog.Int("page", page))
	return &store.TodoPage{Todos: todos, Total: total, Page: page}, nil
}

// Update implements store.TodoStore.Update
// A single owner-scoped statement: the row is only touched when it
// belongs to todo.UserID, so no mutation can run before the ownership
// check.
func (s *PostgresTodoStore) Update(ctx context.Context, todo *domain.Todo) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := todo.Validate(); err != nil {
		log.Warn("todo validation failed during update",
			slog.String("error", err.Error()),
			slog.String("todo_id", todo.ID.String()))
		return err
	}

	query := `
		UPDATE todos
		SET title = $1, description = $2, completed = $3, deadline = $4, updated_at = $5
		WHERE id = $6 AND user_id = $7
	`

	result, err := s.db.ExecContext(
		ctx,
		query,
		todo.Title,
		todo.Description,
		todo.Completed,
		todo.Deadline,
		todo.UpdatedAt,
		todo.ID,
		todo.UserID,
	)

	if err != nil {
		log.Error("failed to update todo",
			slog.String("error", err.Error()),
			slog.String("todo_id", todo.ID.String()))
		return MapError(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		log.Error("failed to get rows affected",
			slog.String("error", err.Error()),
			slog.String("todo_id", todo.ID.String()))
		return err
	}

	if rowsAffected == 0 {
		log.Debug("todo not found for update",
			slog.String("todo_id", todo.ID.String()),
			slog.String("user_id", todo.UserID.String()))
		return store.ErrTodoNotFound
	}

	log.Info("todo updated successfully",
		slog.String("todo_id", todo.ID.String()))
	return nil
}

// DeleteForUser implements store.TodoStore.DeleteForUser
// Deletes at most one row matching (id, user_id).
func (s *PostgresTodoStore) DeleteForUser(ctx context.Context, id, userID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `DELETE FROM todos WHERE id = $1 AND user_id = $2`

	result, err := s.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		log.Error("failed to delete todo",
			slog.String("error", err.Error()),
			slog.String("todo_id", id.String()))
		return MapError(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		log.Error("failed to get rows affected",
			slog.String("error", err.Error()),
			slog.String("todo_id", id.String()))
		return err
	}

	if rowsAffected == 0 {
		log.Debug("todo not found for delete",
			slog.String("todo_id", id.String()),
			slog.String("user_id", userID.String()))
		return store.ErrTodoNotFound
	}

	log.Info("todo deleted successfully",
		slog.String("todo_id", id.String()))
	return nil
}

// ListDueBetween implements store.TodoStore.ListDueBetween
// Only incomplete todos of subscribed owners are returned.
// dueTodosQuery selects reminder candidates: open todos whose deadline
// falls in (from, to], restricted to owners who opted in to reminders.
const dueTodosQuery = `
	SELECT t.id, t.user_id, t.title, t.description, t.completed, t.deadline,
	       t.created_at, t.updated_at, u.name, u.email
	FROM todos t
	JOIN users u ON u.id = t.user_id
	WHERE t.completed = FALSE
	  AND t.deadline > $1 AND t.deadline <= $2
	  AND u.subscribed = TRUE
	ORDER BY u.id, t.deadline
`

func (s *PostgresTodoStore) ListDueBetween(ctx context.Context, from, to time.Time) ([]*store.DueTodo, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx, dueTodosQuery, from, to)
	if err != nil {
		log.Error("failed to query due todos",
			slog.String("error", err.Error()))
		return nil, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	due := []*store.DueTodo{}
	for rows.Next() {
		var todo domain.Todo
		var deadline sql.NullTime
		var ownerName, ownerEmail string

		err := rows.Scan(
			&todo.ID,
			&todo.UserID,
			&todo.Title,
			&todo.Description,
			&todo.Completed,
			&deadline,
			&todo.CreatedAt,
			&todo.UpdatedAt,
			&ownerName,
			&ownerEmail,
		)
		if err != nil {
			log.Error("failed to scan due todo row",
				slog.String("error", err.Error()))
			return nil, err
		}

		if deadline.Valid {
			t := deadline.Time.UTC()
			todo.Deadline = &t
		}

		due = append(due, &store.DueTodo{
			Todo:       &todo,
			OwnerName:  ownerName,
			OwnerEmail: ownerEmail,
		})
	}

	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows",
			slog.String("error", err.Error()))
		return nil, err
	}

	log.Debug("found due todos", slog.Int("count", len(due)))
	return due, nil
}

// buildTodoPredicates assembles the WHERE clause for a filtered listing.
// The user_id predicate is appended last and always present.
func buildTodoPredicates(userID uuid.UUID, filter store.TodoFilter) (string, []any) {
	clauses := []string{}
	args := []any{}

	if filter.Completed != nil {
		args = append(args, *filter.Completed)
		clauses = append(clauses, fmt.Sprintf("completed = $%d", len(args)))
	}
	if filter.Deadline != nil {
		args = append(args, *filter.Deadline)
		clauses = append(clauses, fmt.Sprintf("deadline = $%d", len(args)))
	}
	if filter.Description != "" {
		args = append(args, "%"+filter.Description+"%")
		clauses = append(clauses, fmt.Sprintf("description ILIKE $%d", len(args)))
	}
	if filter.Title != "" {
		args = append(args, "%"+filter.Title+"%")
		clauses = append(clauses, fmt.Sprintf("title ILIKE $%d", len(args)))
	}

	args = append(args, userID)
	clauses = append(clauses, fmt.Sprintf("user_id = $%d", len(args)))

	where := "WHERE " + clauses[0]
	for _, c := range clauses[1:] {
		where += " AND " + c
	}
	return where, args
}

// rowScanner abstracts *sql.Row and *sql.Rows for scanTodo.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanTodo scans one todo row, normalizing a NULL deadline to nil.
func scanTodo(row rowScanner) (*domain.Todo, error) {
	var todo domain.Todo
	var deadline sql.NullTime

	err := row.Scan(
		&todo.ID,
		&todo.UserID,
		&todo.Title,
		&todo.Description,
		&todo.Completed,
		&deadline,
		&todo.CreatedAt,
		&todo.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if deadline.Valid {
		t := deadline.Time.UTC()
		todo.Deadline = &t
	}

	return &todo, nil
}
