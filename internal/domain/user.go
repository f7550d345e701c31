package domain

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Common validation errors for User
var (
	ErrEmptyUserID         = errors.New("user ID cannot be empty")
	ErrEmptyUserName       = errors.New("user name cannot be empty")
	ErrEmptyEmail          = errors.New("email cannot be empty")
	ErrEmptyPassword       = errors.New("password cannot be empty")
	ErrPasswordTooLong     = errors.New("password must be at most 72 characters long")
	ErrEmptyHashedPassword = errors.New("hashed password cannot be empty")
	ErrInvalidToken        = errors.New("verification token must be 32 hex characters")
)

// RoleSimple is the default role assigned to every user at signup.
const RoleSimple = "simple"

// verificationTokenBytes is the number of random bytes behind a
// verification token (32 hex characters once encoded).
const verificationTokenBytes = 16

// User represents a registered account. A user owns todos and may opt in
// to deadline reminder emails via the Subscribed flag.
type User struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	Password       string    `json:"-"` // Plaintext password, used temporarily during signup
	HashedPassword string    `json:"-"` // Never expose password hash in JSON
	Token          string    `json:"-"` // Email verification token, rotated on each successful check
	EmailChecked   bool      `json:"emailChecked"`
	Role           string    `json:"role"`
	Subscribed     bool      `json:"subscribed"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// NewUser creates a new User with the given name, email and password.
// It generates a fresh UUID and verification token, marks the email as
// unchecked and assigns the default role.
// Returns an error if validation fails.
//
// NOTE: This function only sets up the user structure with the plaintext
// password. The caller is responsible for hashing it before storage.
func NewUser(name, email, password string) (*User, error) {
	token, err := NewVerificationToken()
	if err != nil {
		return nil, fmt.Errorf("failed to generate verification token: %w", err)
	}

	user := &User{
		ID:           uuid.New(),
		Name:         name,
		Email:        email,
		Password:     password, // Plaintext password - must be hashed before storage
		Token:        token,
		EmailChecked: false,
		Role:         RoleSimple,
		Subscribed:   false,
		CreatedAt:    time.Now().UTC(),
		UpdatedAt:    time.Now().UTC(),
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}

	return user, nil
}

// NewVerificationToken returns a fresh random 32-hex-character token.
// A new token is generated at signup and again every time the account
// verification endpoint accepts the previous one.
func NewVerificationToken() (string, error) {
	b := make([]byte, verificationTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// RotateToken replaces the verification token and marks the email as
// checked. Called when the user presents a valid token.
func (u *User) RotateToken() error {
	token, err := NewVerificationToken()
	if err != nil {
		return fmt.Errorf("failed to rotate verification token: %w", err)
	}
	u.Token = token
	u.EmailChecked = true
	u.UpdatedAt = time.Now().UTC()
	return nil
}

// Validate checks if the User has valid data.
// Returns an error if any field fails validation.
func (u *User) Validate() error {
	if u.ID == uuid.Nil {
		return ErrEmptyUserID
	}

	if strings.TrimSpace(u.Name) == "" {
		return ErrEmptyUserName
	}

	if u.Email == "" {
		return ErrEmptyEmail
	}

	if !validateEmailFormat(u.Email) {
		return ErrInvalidEmail
	}

	if len(u.Token) != verificationTokenBytes*2 {
		return ErrInvalidToken
	}

	// During signup the plaintext password is validated; for users loaded
	// from the database only the hash is present.
	if u.Password != "" {
		if len(u.Password) > 72 { // bcrypt's practical limit
			return ErrPasswordTooLong
		}
	} else if u.HashedPassword == "" {
		return ErrEmptyPassword
	}

	return nil
}

// validateEmailFormat performs basic validation of email format.
// Returns true if the email appears to be in a valid format.
func validateEmailFormat(email string) bool {
	at := strings.IndexByte(email, '@')
	if at <= 0 || at == len(email)-1 {
		return false
	}

	domainPart := email[at+1:]
	dot := strings.IndexByte(domainPart, '.')
	if dot <= 0 || dot == len(domainPart)-1 {
		return false
	}

	return true
}
