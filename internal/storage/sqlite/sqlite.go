// Package sqlite provides a SQLite-backed implementation of the storage.Store interface.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/mmynk/tabout/internal/models"
	"github.com/mmynk/tabout/internal/storage"
)

// Ensure SQLiteStore implements storage.Store
var _ storage.Store = (*SQLiteStore)(nil)

// SQLiteStore implements storage.Store using SQLite.
//
// The pool is limited to a single connection, so every transaction is the only
// writer for its duration.
type SQLiteStore struct {
	db *sql.DB
}

// New creates a new SQLiteStore with the given database path.
// It creates the parent directories and runs migrations automatically.
func New(dbPath string) (*SQLiteStore, error) {
	// Create parent directory if it doesn't exist
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// Open database with pure Go driver
	db, err := sql.Open("sqlite", dbPath+"?_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	// Run migrations
	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// CreateSplit persists a new split, its items and its participant rows in one transaction.
func (s *SQLiteStore) CreateSplit(ctx context.Context, split *models.Split) error {
	// Generate IDs if not set
	if split.ID == "" {
		split.ID = uuid.New().String()
	}
	if split.CreatedAt == 0 {
		split.CreatedAt = time.Now().Unix()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO splits (
			id, description, currency, split_type,
			has_service, service_percentage, service_amount,
			has_tax, tax_percentage, tax_amount,
			has_delivery_fee, delivery_fee, allocation_method,
			subtotal, total_amount, created_by, paid_by, settled, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		split.ID, split.Description, split.Currency, split.SplitType,
		split.HasService, split.ServicePercentage.String(), split.ServiceAmount,
		split.HasTax, split.TaxPercentage.String(), split.TaxAmount,
		split.HasDeliveryFee, split.DeliveryFee, split.AllocationMethod,
		split.Subtotal, split.TotalAmount, split.CreatedBy, split.PaidBy, split.Settled, split.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert split: %w", err)
	}

	for i := range split.Items {
		item := &split.Items[i]
		if item.ID == "" {
			item.ID = uuid.New().String()
		}
		item.SplitID = split.ID

		_, err = tx.ExecContext(ctx,
			"INSERT INTO items (id, split_id, name, price, ordered_by) VALUES (?, ?, ?, ?, ?)",
			item.ID, split.ID, item.Name, item.Price, item.OrderedBy,
		)
		if err != nil {
			return fmt.Errorf("failed to insert item: %w", err)
		}
	}

	for i := range split.Participants {
		p := &split.Participants[i]
		p.SplitID = split.ID
		if p.Version == 0 {
			p.Version = 1
		}

		_, err = tx.ExecContext(ctx,
			`INSERT INTO split_participants (
				split_id, user_id, position, item_subtotal, service_share, tax_share,
				delivery_share, total_amount, amount_paid, status, version
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			split.ID, p.UserID, i, p.ItemSubtotal, p.ServiceShare, p.TaxShare,
			p.DeliveryShare, p.TotalAmount, p.AmountPaid, string(p.Status), p.Version,
		)
		if err != nil {
			return fmt.Errorf("failed to insert participant: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetSplit retrieves a split by ID, including all items and participants.
func (s *SQLiteStore) GetSplit(ctx context.Context, splitID string) (*models.Split, error) {
	split, err := scanSplit(s.db.QueryRowContext(ctx,
		"SELECT "+splitColumns+" FROM splits s WHERE s.id = ?",
		splitID,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: split %s", storage.ErrNotFound, splitID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get split: %w", err)
	}

	// Each result set is drained before the next query: the pool has one connection.
	if split.Items, err = s.listItems(ctx, splitID); err != nil {
		return nil, err
	}
	if split.Participants, err = s.listParticipants(ctx, splitID); err != nil {
		return nil, err
	}

	return split, nil
}

// ListSplitsByUser returns the user's splits, newest first, with the user's own row.
func (s *SQLiteStore) ListSplitsByUser(ctx context.Context, userID string, status models.SettlementStatus, limit int) ([]models.SplitSummary, error) {
	query := "SELECT " + splitColumns + ", " + participantColumns + `
		FROM split_participants p
		JOIN splits s ON s.id = p.split_id
		WHERE p.user_id = ? AND (? = '' OR p.status = ?)
		ORDER BY s.created_at DESC, s.rowid DESC`
	args := []any{userID, string(status), string(status)}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list splits: %w", err)
	}
	defer rows.Close()

	var summaries []models.SplitSummary
	for rows.Next() {
		var sum models.SplitSummary
		dest := append(splitDest(&sum.Split), participantDest(&sum.Mine)...)
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("failed to scan split: %w", err)
		}
		summaries = append(summaries, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate splits: %w", err)
	}

	return summaries, nil
}

func (s *SQLiteStore) listItems(ctx context.Context, splitID string) ([]models.Item, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, split_id, name, price, ordered_by FROM items WHERE split_id = ? ORDER BY rowid",
		splitID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get items: %w", err)
	}
	defer rows.Close()

	var items []models.Item
	for rows.Next() {
		var item models.Item
		if err := rows.Scan(&item.ID, &item.SplitID, &item.Name, &item.Price, &item.OrderedBy); err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate items: %w", err)
	}
	return items, nil
}

func (s *SQLiteStore) listParticipants(ctx context.Context, splitID string) ([]models.Participant, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+participantColumns+" FROM split_participants p WHERE p.split_id = ? ORDER BY p.position",
		splitID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get participants: %w", err)
	}
	defer rows.Close()

	var participants []models.Participant
	for rows.Next() {
		var p models.Participant
		if err := rows.Scan(participantDest(&p)...); err != nil {
			return nil, fmt.Errorf("failed to scan participant: %w", err)
		}
		participants = append(participants, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate participants: %w", err)
	}
	return participants, nil
}

const splitColumns = `s.id, s.description, s.currency, s.split_type,
	s.has_service, s.service_percentage, s.service_amount,
	s.has_tax, s.tax_percentage, s.tax_amount,
	s.has_delivery_fee, s.delivery_fee, s.allocation_method,
	s.subtotal, s.total_amount, s.created_by, s.paid_by, s.settled, s.created_at`

func splitDest(split *models.Split) []any {
	return []any{
		&split.ID, &split.Description, &split.Currency, &split.SplitType,
		&split.HasService, &split.ServicePercentage, &split.ServiceAmount,
		&split.HasTax, &split.TaxPercentage, &split.TaxAmount,
		&split.HasDeliveryFee, &split.DeliveryFee, &split.AllocationMethod,
		&split.Subtotal, &split.TotalAmount, &split.CreatedBy, &split.PaidBy, &split.Settled, &split.CreatedAt,
	}
}

func scanSplit(row *sql.Row) (*models.Split, error) {
	split := &models.Split{}
	if err := row.Scan(splitDest(split)...); err != nil {
		return nil, err
	}
	return split, nil
}

const participantColumns = `p.split_id, p.user_id, p.item_subtotal, p.service_share, p.tax_share,
	p.delivery_share, p.total_amount, p.amount_paid, p.status, p.version`

func participantDest(p *models.Participant) []any {
	return []any{
		&p.SplitID, &p.UserID, &p.ItemSubtotal, &p.ServiceShare, &p.TaxShare,
		&p.DeliveryShare, &p.TotalAmount, &p.AmountPaid, &p.Status, &p.Version,
	}
}
