// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/mmynk/tabout/internal/models"
)

// ErrNotFound is wrapped when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// ConflictError reports a settlement write that lost a race or targeted a row
// that was already settled. The caller should re-read the row before retrying.
type ConflictError struct {
	SplitID string
	UserID  string
	Reason  string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("settlement conflict for %s in split %s: %s", e.UserID, e.SplitID, e.Reason)
}

// Store defines the persistence operations for splits, their participants, and users.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the service layer.
type Store interface {
	// CreateSplit persists a split with its items and participant rows atomically.
	// split.ID and split.CreatedAt are populated by the store when empty.
	CreateSplit(ctx context.Context, split *models.Split) error

	// GetSplit retrieves a split with its items and participants, in the order they were written.
	GetSplit(ctx context.Context, splitID string) (*models.Split, error)

	// ListSplitsByUser returns splits the user takes part in, newest first, each with
	// the user's own participant row. An empty status lists every row.
	ListSplitsByUser(ctx context.Context, userID string, status models.SettlementStatus, limit int) ([]models.SplitSummary, error)

	// ListParticipations returns a consistent snapshot of the user's participant rows
	// with the given status, joined with their split's payer and creation time.
	ListParticipations(ctx context.Context, userID string, status models.SettlementStatus) ([]models.Participation, error)

	// MarkSettled moves one participant row from pending to paid, setting status and
	// amount_paid in a single conditional write. A non-zero expectedVersion must match
	// the stored version. Races and already-paid rows return *ConflictError.
	MarkSettled(ctx context.Context, splitID, userID string, expectedVersion int64) (*models.Participant, error)

	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	GetUsersByIDs(ctx context.Context, ids []string) (map[string]*models.User, error)

	// Close releases any resources held by the store.
	Close() error
}
