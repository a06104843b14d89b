package models

import (
	"github.com/shopspring/decimal"

	"github.com/mmynk/tabout/internal/money"
)

// Split is one shared-bill event.
type Split struct {
	// ID is the unique identifier for the split (UUID format).
	ID string

	// Description is what the bill was for, e.g. "Friday dinner".
	Description string

	// Currency is the label the amounts are expressed in (e.g. "EGP").
	// A split never mixes currencies.
	Currency string

	// SplitType is "equal" or "itemized".
	SplitType string

	HasService        bool
	ServicePercentage decimal.Decimal
	ServiceAmount     money.Money

	HasTax        bool
	TaxPercentage decimal.Decimal
	TaxAmount     money.Money

	HasDeliveryFee bool
	DeliveryFee    money.Money

	// AllocationMethod records how service and tax were spread ("proportional").
	AllocationMethod string

	// Subtotal is the pre-fee amount: the item sum, or the back-calculated
	// amount for equal splits.
	Subtotal money.Money

	// TotalAmount is what the payer paid the merchant.
	TotalAmount money.Money

	// CreatedBy is the user who recorded the split.
	CreatedBy string

	// PaidBy is the participant who paid the merchant.
	PaidBy string

	// Settled becomes true once every participant row is paid.
	Settled bool

	// CreatedAt is the Unix timestamp when the split was recorded.
	CreatedAt int64

	Items        []Item
	Participants []Participant
}

// Item is a line on an itemized split.
type Item struct {
	ID        string
	SplitID   string
	Name      string
	Price     money.Money
	OrderedBy string
}

// SettlementStatus is the state of a participant's share.
type SettlementStatus string

const (
	StatusPending SettlementStatus = "pending"
	StatusPaid    SettlementStatus = "paid"
)

// Participant is one person's allocation within a split.
type Participant struct {
	SplitID string
	UserID  string

	ItemSubtotal  money.Money
	ServiceShare  money.Money
	TaxShare      money.Money
	DeliveryShare money.Money
	TotalAmount   money.Money

	// AmountPaid is zero while pending and equals TotalAmount once paid.
	AmountPaid money.Money
	Status     SettlementStatus

	// Version increments on every write; settlement updates are conditional on it.
	Version int64
}

// Outstanding is what is still owed on this share.
func (p Participant) Outstanding() money.Money {
	return p.TotalAmount.Sub(p.AmountPaid)
}

// Participation is a participant row together with its split's context.
type Participation struct {
	Participant

	PayerID     string
	Description string
	Currency    string
	CreatedAt   int64
}

// SplitSummary is a split as listed on a user's home screen: the bill plus the
// caller's own participant row.
type SplitSummary struct {
	Split Split
	Mine  Participant
}
