package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/mmynk/tabout/internal/models"
	"github.com/mmynk/tabout/internal/storage"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrWeakPassword       = errors.New("password must be at least 8 characters")
	ErrEmailExists        = errors.New("email already registered")
	ErrInvalidEmail       = errors.New("a valid email is required")
	ErrMissingDisplayName = errors.New("display name is required")
)

// UserStorage defines the interface for user persistence operations.
// Lookups that find nothing must wrap storage.ErrNotFound.
type UserStorage interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}

// PasswordAuthenticator implements password-based authentication using bcrypt.
type PasswordAuthenticator struct {
	storage         UserStorage
	cost            int
	defaultCurrency string
}

// Option configures a PasswordAuthenticator.
type Option func(*PasswordAuthenticator)

// WithCost sets the bcrypt cost. Tests use bcrypt.MinCost.
func WithCost(cost int) Option {
	return func(a *PasswordAuthenticator) { a.cost = cost }
}

// WithDefaultCurrency sets the currency label given to new accounts.
func WithDefaultCurrency(currency string) Option {
	return func(a *PasswordAuthenticator) {
		if currency != "" {
			a.defaultCurrency = currency
		}
	}
}

// NewPasswordAuthenticator creates a new password-based authenticator.
func NewPasswordAuthenticator(storage UserStorage, opts ...Option) *PasswordAuthenticator {
	a := &PasswordAuthenticator{
		storage:         storage,
		cost:            bcrypt.DefaultCost,
		defaultCurrency: models.DefaultCurrency,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// ValidateCredential checks if the password meets minimum requirements.
func (a *PasswordAuthenticator) ValidateCredential(credential string) error {
	if len(credential) < 8 {
		return ErrWeakPassword
	}
	return nil
}

// Register creates a new user account with a hashed password.
func (a *PasswordAuthenticator) Register(ctx context.Context, email, displayName, credential string) (*models.User, error) {
	email = normalizeEmail(email)
	if !strings.Contains(email, "@") {
		return nil, ErrInvalidEmail
	}
	displayName = strings.TrimSpace(displayName)
	if displayName == "" {
		return nil, ErrMissingDisplayName
	}
	if err := a.ValidateCredential(credential); err != nil {
		return nil, err
	}

	// Check if email already exists
	_, err := a.storage.GetUserByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, ErrEmailExists
	case !errors.Is(err, storage.ErrNotFound):
		return nil, fmt.Errorf("failed to look up email: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(credential), a.cost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.NewUser(email, displayName, string(hashedPassword))
	user.Currency = a.defaultCurrency

	if err := a.storage.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// Authenticate verifies the email and password, returning the user if valid.
// Unknown emails and wrong passwords are indistinguishable to the caller.
func (a *PasswordAuthenticator) Authenticate(ctx context.Context, email, credential string) (*models.User, error) {
	user, err := a.storage.GetUserByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(credential)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
