package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mmynk/tabout/internal/ledger"
	"github.com/mmynk/tabout/internal/models"
	"github.com/mmynk/tabout/internal/storage"
)

// MarkSettled flips a participant row from pending to paid.
//
// The update is conditional on both the stored version and the pending status,
// so of two concurrent calls exactly one succeeds and the other receives a
// *storage.ConflictError. When the last pending row of a split is settled the
// split itself is marked settled in the same transaction.
func (s *SQLiteStore) MarkSettled(ctx context.Context, splitID, userID string, expectedVersion int64) (*models.Participant, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var current models.Participant
	err = tx.QueryRowContext(ctx,
		"SELECT "+participantColumns+" FROM split_participants p WHERE p.split_id = ? AND p.user_id = ?",
		splitID, userID,
	).Scan(participantDest(&current)...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: participant %s in split %s", storage.ErrNotFound, userID, splitID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get participant: %w", err)
	}

	if expectedVersion != 0 && current.Version != expectedVersion {
		return nil, &storage.ConflictError{
			SplitID: splitID,
			UserID:  userID,
			Reason:  fmt.Sprintf("version %d does not match stored version %d", expectedVersion, current.Version),
		}
	}

	settled, err := ledger.Settle(current)
	if errors.Is(err, ledger.ErrAlreadySettled) {
		return nil, &storage.ConflictError{SplitID: splitID, UserID: userID, Reason: "already settled"}
	}
	if err != nil {
		return nil, err
	}

	res, err := tx.ExecContext(ctx,
		`UPDATE split_participants
		 SET status = ?, amount_paid = ?, version = ?
		 WHERE split_id = ? AND user_id = ? AND version = ? AND status = ?`,
		string(settled.Status), settled.AmountPaid, settled.Version,
		splitID, userID, current.Version, string(models.StatusPending),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update participant: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to check update result: %w", err)
	}
	if n == 0 {
		return nil, &storage.ConflictError{SplitID: splitID, UserID: userID, Reason: "row changed concurrently"}
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE splits SET settled = 1
		 WHERE id = ? AND NOT EXISTS (
			SELECT 1 FROM split_participants WHERE split_id = ? AND status = ?
		 )`,
		splitID, splitID, string(models.StatusPending),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update split status: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &settled, nil
}

// ListParticipations returns every row the user holds with the given status,
// read in a single statement so the balances built from it are consistent.
func (s *SQLiteStore) ListParticipations(ctx context.Context, userID string, status models.SettlementStatus) ([]models.Participation, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+participantColumns+`, s.paid_by, s.description, s.currency, s.created_at
		 FROM split_participants p
		 JOIN splits s ON s.id = p.split_id
		 WHERE p.user_id = ? AND p.status = ?
		 ORDER BY s.created_at DESC`,
		userID, string(status),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list participations: %w", err)
	}
	defer rows.Close()

	var out []models.Participation
	for rows.Next() {
		var p models.Participation
		dest := append(participantDest(&p.Participant), &p.PayerID, &p.Description, &p.Currency, &p.CreatedAt)
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("failed to scan participation: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate participations: %w", err)
	}

	return out, nil
}
