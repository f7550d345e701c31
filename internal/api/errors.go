package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/phrazzld/todo-api/internal/domain"
	"github.com/phrazzld/todo-api/internal/service/auth"
	"github.com/phrazzld/todo-api/internal/store"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status
// codes based on the error type. This prevents leaking internal error
// types or messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Authentication errors
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, auth.ErrCSRFMismatch),
		errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized

	// Not found errors. A todo owned by someone else surfaces here too:
	// absent and not-owned are deliberately the same status.
	case store.IsNotFoundError(err):
		return http.StatusNotFound

	// Duplicate signup data
	case store.IsDuplicateError(err):
		return http.StatusBadRequest

	// Bad request errors
	case errors.Is(err, domain.ErrInvalidDeadline),
		errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrEmptyTodoTitle),
		errors.Is(err, store.ErrInvalidEntity):
		return http.StatusBadRequest

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-facing error message
// based on the error type. Messages mirror the wire compatibility
// vocabulary of the service (partly French).
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "Une erreur est survenue"
	}

	switch {
	case errors.Is(err, store.ErrTodoNotFound):
		return "TodoNotFound"

	case errors.Is(err, store.ErrTokenNotFound):
		return "TokenNotValid"

	case errors.Is(err, store.ErrUserNotFound):
		return "Utilisateur introuvable"

	case errors.Is(err, store.ErrNameExists):
		return "Pseudo deja pris"

	case errors.Is(err, store.ErrEmailExists):
		return "Email deja pris"

	case errors.Is(err, domain.ErrInvalidDeadline):
		return "Format de deadline invalide, attendu MM/DD/YY HH:MM:SS"

	case errors.Is(err, domain.ErrEmptyTodoTitle):
		return "Champ title requis"

	case errors.Is(err, auth.ErrExpiredToken):
		return "Session expirée"

	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrMissingToken):
		return "Session invalide"

	case errors.Is(err, auth.ErrCSRFMismatch):
		return "CSRF token invalide"

	default:
		return "Une erreur est survenue"
	}
}

// SanitizeValidationError removes sensitive details from validation
// errors and returns a user-friendly message.
func SanitizeValidationError(err error) string {
	errMsg := err.Error()

	// Example format:
	// "Key: 'LoginRequest.Email' Error:Field validation for 'Email' failed on the 'required' tag"
	if strings.Contains(errMsg, "Field validation") {
		parts := strings.Split(errMsg, "Error:")
		if len(parts) >= 2 {
			fieldParts := strings.Split(parts[1], "'")
			if len(fieldParts) >= 3 {
				field := fieldParts[1]
				var tag string
				if len(fieldParts) >= 5 {
					tag = fieldParts[3]
				}

				if tag != "" {
					return fmt.Sprintf("Champ %s invalide: %s", field, getValidationTagMessage(tag))
				}
				return fmt.Sprintf("Champ %s invalide", field)
			}
		}
	}

	return "Corps de requête invalide"
}

// getValidationTagMessage maps validation tags to user-friendly error messages
func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "champ requis"
	case "email":
		return "format email invalide"
	case "min", "len":
		return "longueur invalide"
	case "max":
		return "trop long"
	case "hexadecimal":
		return "format invalide"
	default:
		return "validation échouée"
	}
}
