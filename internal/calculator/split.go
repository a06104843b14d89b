// Package calculator turns a bill description into an exact allocation of money
// to each participant.
//
// Both entry points are pure: identical inputs produce identical results, nothing
// is cached between calls, and an error is returned instead of a partial result.
package calculator

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/mmynk/tabout/internal/money"
)

// ErrInvalidInput is wrapped by every validation failure in this package.
var ErrInvalidInput = errors.New("invalid input")

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

// SplitType distinguishes how a bill was divided.
type SplitType string

const (
	SplitEqual    SplitType = "equal"
	SplitItemized SplitType = "itemized"
)

// Item is a single line on an itemized bill, owned by exactly one participant.
type Item struct {
	ID      string      `json:"id,omitempty"`
	Name    string      `json:"name"`
	Price   money.Money `json:"price"`
	OwnerID string      `json:"owner_id"`
}

// ParticipantShare is one participant's allocation.
// TotalAmount always equals ItemSubtotal + ServiceShare + TaxShare + DeliveryShare.
type ParticipantShare struct {
	ParticipantID string      `json:"participant_id"`
	ItemSubtotal  money.Money `json:"item_subtotal"`
	ServiceShare  money.Money `json:"service_share"`
	TaxShare      money.Money `json:"tax_share"`
	DeliveryShare money.Money `json:"delivery_share"`
	TotalAmount   money.Money `json:"total_amount"`
}

// SplitResult is the bill-level totals plus one share per participant, in the
// order the participants were given.
type SplitResult struct {
	SplitType      SplitType          `json:"split_type"`
	Subtotal       money.Money        `json:"subtotal"`
	ServiceAmount  money.Money        `json:"service_amount"`
	TaxAmount      money.Money        `json:"tax_amount"`
	DeliveryAmount money.Money        `json:"delivery_amount"`
	TotalAmount    money.Money        `json:"total_amount"`
	Participants   []ParticipantShare `json:"participants"`
}

// Share returns the share for the given participant.
func (r *SplitResult) Share(participantID string) (ParticipantShare, bool) {
	for _, p := range r.Participants {
		if p.ParticipantID == participantID {
			return p, true
		}
	}
	return ParticipantShare{}, false
}

// ComputeEqualSplit divides a total that already includes service, tax and
// delivery evenly across participants.
//
// The pre-fee subtotal is back-calculated as
//
//	subtotal = (total - delivery) / (1 + service% / 100 + tax% / 100)
//
// Service and tax are then taken from that subtotal, and the subtotal absorbs
// any rounding so the four components add up to the entered total exactly.
func ComputeEqualSplit(total money.Money, participantIDs []string, fees FeeOptions, payerID string) (*SplitResult, error) {
	if err := validateParticipants(participantIDs, payerID); err != nil {
		return nil, err
	}
	if err := fees.Validate(); err != nil {
		return nil, err
	}
	if !total.IsPositive() {
		return nil, invalidf("total must be positive, got %s", total)
	}

	delivery := fees.Delivery()
	base := total.Sub(delivery)
	if !base.IsPositive() {
		return nil, invalidf("total %s must exceed the delivery fee %s", total, delivery)
	}

	divisor := decimal.NewFromInt(1).
		Add(fees.ServicePercent().Shift(-2)).
		Add(fees.TaxPercent().Shift(-2))
	if !divisor.IsPositive() {
		return nil, invalidf("fee percentages produce a non-positive divisor %s", divisor)
	}

	subtotal := base.Quo(divisor)
	service := subtotal.MulPercent(fees.ServicePercent())
	tax := subtotal.MulPercent(fees.TaxPercent())
	subtotal = base.Sub(service).Sub(tax)
	if !subtotal.IsPositive() {
		return nil, invalidf("back-calculated subtotal must be positive, got %s", subtotal)
	}

	n := len(participantIDs)
	subtotals := subtotal.DivideEvenly(n)
	services := service.DivideEvenly(n)
	taxes := tax.DivideEvenly(n)
	deliveries := delivery.DivideEvenly(n)

	shares := make([]ParticipantShare, n)
	for i, id := range participantIDs {
		shares[i] = newShare(id, subtotals[i], services[i], taxes[i], deliveries[i])
	}

	return newResult(SplitEqual, subtotal, service, tax, delivery, shares), nil
}

// ComputeItemizedSplit charges each participant for the items they own, spreads
// service and tax in proportion to each participant's item subtotal, and divides
// the flat delivery fee evenly across everyone.
func ComputeItemizedSplit(items []Item, participantIDs []string, fees FeeOptions, payerID string) (*SplitResult, error) {
	if err := validateParticipants(participantIDs, payerID); err != nil {
		return nil, err
	}
	if err := fees.Validate(); err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, invalidf("itemized split needs at least one item")
	}

	index := make(map[string]int, len(participantIDs))
	for i, id := range participantIDs {
		index[id] = i
	}

	var subtotal money.Money
	itemSubtotals := make([]money.Money, len(participantIDs))
	for _, item := range items {
		if item.Price.IsNegative() {
			return nil, invalidf("item %q has a negative price %s", item.Name, item.Price)
		}
		i, ok := index[item.OwnerID]
		if !ok {
			return nil, invalidf("item %q is owned by %q, who is not a participant", item.Name, item.OwnerID)
		}
		if itemSubtotals[i], ok = itemSubtotals[i].AddChecked(item.Price); !ok {
			return nil, invalidf("items owned by %q exceed the largest supported amount", item.OwnerID)
		}
		if subtotal, ok = subtotal.AddChecked(item.Price); !ok {
			return nil, invalidf("item subtotal exceeds the largest supported amount")
		}
	}

	if !subtotal.IsPositive() {
		return nil, invalidf("item subtotal must be positive, got %s", subtotal)
	}
	if !grossFits(subtotal, fees) {
		return nil, invalidf("subtotal %s with fees exceeds the largest supported amount", subtotal)
	}

	service := subtotal.MulPercent(fees.ServicePercent())
	tax := subtotal.MulPercent(fees.TaxPercent())
	delivery := fees.Delivery()

	services := allocateProportional(service, itemSubtotals)
	taxes := allocateProportional(tax, itemSubtotals)
	deliveries := delivery.DivideEvenly(len(participantIDs))

	shares := make([]ParticipantShare, len(participantIDs))
	for i, id := range participantIDs {
		shares[i] = newShare(id, itemSubtotals[i], services[i], taxes[i], deliveries[i])
	}

	return newResult(SplitItemized, subtotal, service, tax, delivery, shares), nil
}

func validateParticipants(participantIDs []string, payerID string) error {
	if len(participantIDs) == 0 {
		return invalidf("at least one participant is required")
	}

	seen := make(map[string]struct{}, len(participantIDs))
	for _, id := range participantIDs {
		if id == "" {
			return invalidf("participant id cannot be empty")
		}
		if _, dup := seen[id]; dup {
			return invalidf("participant %q listed more than once", id)
		}
		seen[id] = struct{}{}
	}

	if payerID == "" {
		return invalidf("payer is required")
	}
	if _, ok := seen[payerID]; !ok {
		return invalidf("payer %q must be one of the participants", payerID)
	}
	return nil
}

// grossFits reports whether subtotal plus service, tax and delivery can be
// represented, with one cent of headroom per rounded fee.
func grossFits(subtotal money.Money, fees FeeOptions) bool {
	rate := decimal.NewFromInt(1).
		Add(fees.ServicePercent().Shift(-2)).
		Add(fees.TaxPercent().Shift(-2))
	gross := subtotal.Decimal().Mul(rate).
		Add(fees.Delivery().Decimal()).
		Add(decimal.New(2, -money.Scale))
	_, err := money.FromDecimal(gross)
	return err == nil
}

func newShare(id string, subtotal, service, tax, delivery money.Money) ParticipantShare {
	return ParticipantShare{
		ParticipantID: id,
		ItemSubtotal:  subtotal,
		ServiceShare:  service,
		TaxShare:      tax,
		DeliveryShare: delivery,
		TotalAmount:   money.Sum(subtotal, service, tax, delivery),
	}
}

func newResult(kind SplitType, subtotal, service, tax, delivery money.Money, shares []ParticipantShare) *SplitResult {
	return &SplitResult{
		SplitType:      kind,
		Subtotal:       subtotal,
		ServiceAmount:  service,
		TaxAmount:      tax,
		DeliveryAmount: delivery,
		TotalAmount:    money.Sum(subtotal, service, tax, delivery),
		Participants:   shares,
	}
}
