package models

import (
	"time"

	"github.com/google/uuid"
)

// DefaultCurrency is used when a user has not chosen one.
const DefaultCurrency = "EGP"

// User represents a registered user account.
type User struct {
	// ID is the unique identifier for the user (UUID format).
	ID string

	// Email is the user's email address (unique), used for login.
	Email string

	// DisplayName is shown to the other participants of a split.
	DisplayName string

	// PasswordHash is the bcrypt hash of the user's password.
	PasswordHash string

	// Currency is the label new splits default to.
	Currency string

	// Language is the preferred UI language ("en", "ar").
	Language string

	CreatedAt int64
	UpdatedAt int64
}

// NewUser creates a user with a fresh ID and timestamps.
func NewUser(email, displayName, passwordHash string) *User {
	now := time.Now().Unix()
	return &User{
		ID:           uuid.New().String(),
		Email:        email,
		DisplayName:  displayName,
		PasswordHash: passwordHash,
		Currency:     DefaultCurrency,
		Language:     "en",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}
