package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/mmynk/tabout/internal/models"
	"github.com/mmynk/tabout/internal/storage"
)

type memoryUsers struct {
	mu    sync.Mutex
	users map[string]*models.User
}

func newMemoryUsers() *memoryUsers {
	return &memoryUsers{users: make(map[string]*models.User)}
}

func (m *memoryUsers) CreateUser(_ context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[user.Email] = user
	return nil
}

func (m *memoryUsers) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[email]; ok {
		return u, nil
	}
	return nil, fmt.Errorf("%w: %s", storage.ErrNotFound, email)
}

func (m *memoryUsers) GetUserByID(_ context.Context, id string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", storage.ErrNotFound, id)
}

func TestRegister(t *testing.T) {
	ctx := context.Background()
	a := NewPasswordAuthenticator(newMemoryUsers(), WithCost(bcrypt.MinCost), WithDefaultCurrency("USD"))

	user, err := a.Register(ctx, "  Alice@Example.com ", "Alice", "password123")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if user.Email != "alice@example.com" {
		t.Errorf("Email = %q, want normalized address", user.Email)
	}
	if user.Currency != "USD" {
		t.Errorf("Currency = %q, want USD", user.Currency)
	}
	if user.PasswordHash == "password123" {
		t.Error("password stored in plain text")
	}

	tests := []struct {
		name        string
		email       string
		displayName string
		password    string
		wantErr     error
	}{
		{"duplicate email", "alice@example.com", "Alice 2", "password123", ErrEmailExists},
		{"weak password", "bob@example.com", "Bob", "short", ErrWeakPassword},
		{"missing display name", "bob@example.com", "  ", "password123", ErrMissingDisplayName},
		{"invalid email", "bob", "Bob", "password123", ErrInvalidEmail},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := a.Register(ctx, tt.email, tt.displayName, tt.password)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Register error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestAuthenticate(t *testing.T) {
	ctx := context.Background()
	a := NewPasswordAuthenticator(newMemoryUsers(), WithCost(bcrypt.MinCost))

	registered, err := a.Register(ctx, "alice@example.com", "Alice", "password123")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	user, err := a.Authenticate(ctx, "ALICE@example.com", "password123")
	if err != nil {
		t.Fatalf("Authenticate failed: %v", err)
	}
	if user.ID != registered.ID {
		t.Errorf("authenticated %s, want %s", user.ID, registered.ID)
	}

	if _, err := a.Authenticate(ctx, "alice@example.com", "wrong-password"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong password error = %v, want ErrInvalidCredentials", err)
	}
	if _, err := a.Authenticate(ctx, "nobody@example.com", "password123"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("unknown email error = %v, want ErrInvalidCredentials", err)
	}
}
