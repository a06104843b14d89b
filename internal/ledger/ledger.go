// Package ledger tracks who has settled their share of a split and folds
// pending shares into dashboard balances.
//
// A participant row moves one way only: pending → paid. The payer's row starts
// paid because they already covered their own share at the merchant.
package ledger

import (
	"errors"
	"fmt"

	"github.com/mmynk/tabout/internal/calculator"
	"github.com/mmynk/tabout/internal/models"
	"github.com/mmynk/tabout/internal/money"
)

var (
	ErrAlreadySettled = errors.New("share is already settled")
	ErrUnknownPayer   = errors.New("payer has no share in this split")
)

// Seed creates the initial participant rows for a freshly computed split.
// The payer's row is paid in full; every other row is pending with nothing paid.
func Seed(splitID string, result *calculator.SplitResult, payerID string) ([]models.Participant, error) {
	if _, ok := result.Share(payerID); !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPayer, payerID)
	}

	rows := make([]models.Participant, len(result.Participants))
	for i, share := range result.Participants {
		row := models.Participant{
			SplitID:       splitID,
			UserID:        share.ParticipantID,
			ItemSubtotal:  share.ItemSubtotal,
			ServiceShare:  share.ServiceShare,
			TaxShare:      share.TaxShare,
			DeliveryShare: share.DeliveryShare,
			TotalAmount:   share.TotalAmount,
			AmountPaid:    money.Zero,
			Status:        models.StatusPending,
			Version:       1,
		}
		if share.ParticipantID == payerID {
			row.Status = models.StatusPaid
			row.AmountPaid = share.TotalAmount
		}
		rows[i] = row
	}
	return rows, nil
}

// Settle returns the row marked paid with AmountPaid set to its TotalAmount.
// Both fields change together, and the version is bumped so a conditional
// write can detect a concurrent update.
func Settle(p models.Participant) (models.Participant, error) {
	if p.Status == models.StatusPaid {
		return p, fmt.Errorf("%w: %s in split %s", ErrAlreadySettled, p.UserID, p.SplitID)
	}
	p.Status = models.StatusPaid
	p.AmountPaid = p.TotalAmount
	p.Version++
	return p, nil
}

// AllSettled reports whether every row is paid.
func AllSettled(rows []models.Participant) bool {
	for _, r := range rows {
		if r.Status != models.StatusPaid {
			return false
		}
	}
	return true
}
