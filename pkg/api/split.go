package api

import (
	"github.com/shopspring/decimal"

	"github.com/mmynk/tabout/internal/money"
)

// Fees selects the optional service, tax and delivery charges on a bill.
// A non-empty Preset ("restaurant", "delivery", "none") supplies the toggles
// and percentages, and the request may then carry only DeliveryFee, and only
// for a preset that charges delivery.
type Fees struct {
	Preset            string          `json:"preset,omitempty"`
	HasService        bool            `json:"has_service"`
	ServicePercentage decimal.Decimal `json:"service_percentage"`
	HasTax            bool            `json:"has_tax"`
	TaxPercentage     decimal.Decimal `json:"tax_percentage"`
	HasDeliveryFee    bool            `json:"has_delivery_fee"`
	DeliveryFee       money.Money     `json:"delivery_fee"`
	AllocationMethod  string          `json:"allocation_method,omitempty"`
}

// Item is a line on an itemized bill.
type Item struct {
	ID      string      `json:"id,omitempty"`
	Name    string      `json:"name"`
	Price   money.Money `json:"price"`
	OwnerID string      `json:"owner_id"`
}

// Share is one participant's allocation in a preview.
type Share struct {
	ParticipantID string      `json:"participant_id"`
	ItemSubtotal  money.Money `json:"item_subtotal"`
	ServiceShare  money.Money `json:"service_share"`
	TaxShare      money.Money `json:"tax_share"`
	DeliveryShare money.Money `json:"delivery_share"`
	TotalAmount   money.Money `json:"total_amount"`
}

// Breakdown is a computed, unsaved split.
type Breakdown struct {
	SplitType      string      `json:"split_type"`
	Subtotal       money.Money `json:"subtotal"`
	ServiceAmount  money.Money `json:"service_amount"`
	TaxAmount      money.Money `json:"tax_amount"`
	DeliveryAmount money.Money `json:"delivery_amount"`
	TotalAmount    money.Money `json:"total_amount"`
	Shares         []Share     `json:"shares"`
}

type PreviewEqualSplitRequest struct {
	Total          money.Money `json:"total"`
	ParticipantIDs []string    `json:"participant_ids"`
	PayerID        string      `json:"payer_id"`
	Fees           Fees        `json:"fees"`
}

type PreviewItemizedSplitRequest struct {
	Items          []Item   `json:"items"`
	ParticipantIDs []string `json:"participant_ids"`
	PayerID        string   `json:"payer_id"`
	Fees           Fees     `json:"fees"`
}

type PreviewSplitResponse struct {
	Breakdown Breakdown `json:"breakdown"`
}

// CreateSplitRequest records a bill. SplitType "equal" divides Total; "itemized"
// charges each participant for their Items. An empty Currency falls back to the
// caller's preferred currency.
type CreateSplitRequest struct {
	Description    string      `json:"description"`
	Currency       string      `json:"currency,omitempty"`
	SplitType      string      `json:"split_type"`
	Total          money.Money `json:"total,omitempty"`
	Items          []Item      `json:"items,omitempty"`
	ParticipantIDs []string    `json:"participant_ids"`
	PayerID        string      `json:"payer_id"`
	Fees           Fees        `json:"fees"`
}

type CreateSplitResponse struct {
	Split Split `json:"split"`
}

// Participant is a persisted share with its settlement state.
type Participant struct {
	UserID        string      `json:"user_id"`
	DisplayName   string      `json:"display_name,omitempty"`
	ItemSubtotal  money.Money `json:"item_subtotal"`
	ServiceShare  money.Money `json:"service_share"`
	TaxShare      money.Money `json:"tax_share"`
	DeliveryShare money.Money `json:"delivery_share"`
	TotalAmount   money.Money `json:"total_amount"`
	AmountPaid    money.Money `json:"amount_paid"`
	Status        string      `json:"status"`
	Version       int64       `json:"version"`
}

// Split is a recorded bill.
type Split struct {
	ID             string        `json:"id"`
	Description    string        `json:"description"`
	Currency       string        `json:"currency"`
	SplitType      string        `json:"split_type"`
	Fees           Fees          `json:"fees"`
	Subtotal       money.Money   `json:"subtotal"`
	ServiceAmount  money.Money   `json:"service_amount"`
	TaxAmount      money.Money   `json:"tax_amount"`
	DeliveryAmount money.Money   `json:"delivery_amount"`
	TotalAmount    money.Money   `json:"total_amount"`
	CreatedBy      string        `json:"created_by"`
	PaidBy         string        `json:"paid_by"`
	Settled        bool          `json:"settled"`
	CreatedAt      int64         `json:"created_at"`
	Items          []Item        `json:"items,omitempty"`
	Participants   []Participant `json:"participants"`
}

type GetSplitRequest struct {
	SplitID string `json:"split_id"`
}

type GetSplitResponse struct {
	Split Split `json:"split"`
}

// ListSplitsRequest lists the caller's splits, newest first. Status filters on
// the caller's own row ("pending", "paid"); empty lists all. Limit defaults to 20.
type ListSplitsRequest struct {
	Status string `json:"status,omitempty"`
	Limit  int    `json:"limit,omitempty"`
}

// SplitSummary is a split as shown in a list, with the caller's own share.
type SplitSummary struct {
	ID          string      `json:"id"`
	Description string      `json:"description"`
	Currency    string      `json:"currency"`
	SplitType   string      `json:"split_type"`
	TotalAmount money.Money `json:"total_amount"`
	PaidBy      string      `json:"paid_by"`
	Settled     bool        `json:"settled"`
	CreatedAt   int64       `json:"created_at"`
	Mine        Participant `json:"mine"`
}

type ListSplitsResponse struct {
	Splits []SplitSummary `json:"splits"`
}

// MarkSettledRequest marks a participant's share as paid. An empty UserID means
// the caller. A non-zero ExpectedVersion must match the stored row.
type MarkSettledRequest struct {
	SplitID         string `json:"split_id"`
	UserID          string `json:"user_id,omitempty"`
	ExpectedVersion int64  `json:"expected_version,omitempty"`
}

type MarkSettledResponse struct {
	Participant  Participant `json:"participant"`
	SplitSettled bool        `json:"split_settled"`
}
