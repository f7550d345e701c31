// Package service contains the application services sitting between the
// HTTP handlers and the stores.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/phrazzld/todo-api/internal/domain"
	"github.com/phrazzld/todo-api/internal/platform/logger"
	"github.com/phrazzld/todo-api/internal/platform/mail"
	"github.com/phrazzld/todo-api/internal/service/auth"
	"github.com/phrazzld/todo-api/internal/store"
)

// UserService handles signup and account verification.
type UserService struct {
	users  store.UserStore
	hasher auth.PasswordHasher
	mailer mail.Mailer
	sender string
	logger *slog.Logger
}

// NewUserService creates a UserService with the given dependencies.
// sender is the From address on verification emails.
func NewUserService(
	users store.UserStore,
	hasher auth.PasswordHasher,
	mailer mail.Mailer,
	sender string,
	logger *slog.Logger,
) *UserService {
	if logger == nil {
		logger = slog.Default()
	}

	return &UserService{
		users:  users,
		hasher: hasher,
		mailer: mailer,
		sender: sender,
		logger: logger.With(slog.String("component", "user_service")),
	}
}

// SignUp registers a new user, hashes the password and sends the
// verification email carrying the fresh 32-hex token.
// Returns store.ErrNameExists or store.ErrEmailExists when the display
// name or email is already taken.
//
// A failed verification email does not fail the signup: the account is
// already committed, so the failure is logged and the user can request
// the token again later.
func (s *UserService) SignUp(ctx context.Context, name, email, password string) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	// Pre-checks give the caller a precise duplicate error; the unique
	// constraints remain the backstop for concurrent signups.
	if _, err := s.users.GetByName(ctx, name); err == nil {
		return nil, store.ErrNameExists
	} else if !errors.Is(err, store.ErrUserNotFound) {
		return nil, fmt.Errorf("failed to check name availability: %w", err)
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, store.ErrEmailExists
	} else if !errors.Is(err, store.ErrUserNotFound) {
		return nil, fmt.Errorf("failed to check email availability: %w", err)
	}

	user, err := domain.NewUser(name, email, password)
	if err != nil {
		return nil, err
	}

	hashed, err := s.hasher.Hash(user.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	user.HashedPassword = hashed
	user.Password = ""

	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	body := mail.VerificationBody(user.Name, user.Token)
	if err := s.mailer.Send(ctx, s.sender, user.Email, mail.VerificationSubject, body); err != nil {
		log.Error("failed to send verification email",
			slog.String("error", err.Error()),
			slog.String("user_id", user.ID.String()))
	}

	return user, nil
}

// Verify accepts a verification token, marks the owning account's email
// as checked and rotates the token so it cannot be replayed.
// Returns store.ErrTokenNotFound when no account carries the token.
func (s *UserService) Verify(ctx context.Context, token string) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := s.users.GetByToken(ctx, token)
	if err != nil {
		return err
	}

	if err := user.RotateToken(); err != nil {
		return err
	}

	if err := s.users.Update(ctx, user); err != nil {
		return err
	}

	log.Info("account verified",
		slog.String("user_id", user.ID.String()))
	return nil
}
