package ledger

import (
	"github.com/mmynk/tabout/internal/models"
	"github.com/mmynk/tabout/internal/money"
)

// BalanceSnapshot is what a user is owed and what they owe across all their
// open splits. It is derived on demand and never stored.
type BalanceSnapshot struct {
	TotalOwedToUser money.Money `json:"total_owed_to_user"`
	TotalOwedByUser money.Money `json:"total_owed_by_user"`
}

// AggregateBalances folds a user's pending participant rows into a snapshot.
//
// For each row the outstanding amount (total - paid) counts as owed to the
// user when they paid that bill, and as owed by the user otherwise. Rows that
// are already paid or that belong to another user are skipped. An empty input
// yields a zero snapshot.
func AggregateBalances(userID string, rows []models.Participation) BalanceSnapshot {
	var snap BalanceSnapshot
	for _, row := range rows {
		if row.UserID != userID || row.Status != models.StatusPending {
			continue
		}
		outstanding := row.Outstanding()
		if row.PayerID == userID {
			snap.TotalOwedToUser = snap.TotalOwedToUser.Add(outstanding)
		} else {
			snap.TotalOwedByUser = snap.TotalOwedByUser.Add(outstanding)
		}
	}
	return snap
}
