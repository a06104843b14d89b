package calculator

import (
	"github.com/shopspring/decimal"

	"github.com/mmynk/tabout/internal/money"
)

// AllocationMethod selects how service and tax are spread across participants.
type AllocationMethod string

const (
	// AllocationProportional spreads service and tax by each participant's share
	// of the item subtotal. It is the only supported method.
	AllocationProportional AllocationMethod = "proportional"
)

// FeeOptions holds the optional charges on top of a bill's items.
// A percentage or fee whose Has* flag is false is treated as zero,
// whatever value is stored alongside it.
type FeeOptions struct {
	HasService        bool             `json:"has_service"`
	ServicePercentage decimal.Decimal  `json:"service_percentage"`
	HasTax            bool             `json:"has_tax"`
	TaxPercentage     decimal.Decimal  `json:"tax_percentage"`
	HasDeliveryFee    bool             `json:"has_delivery_fee"`
	DeliveryFee       money.Money      `json:"delivery_fee"`
	AllocationMethod  AllocationMethod `json:"allocation_method,omitempty"`
}

// ServicePercent returns the service percentage in effect.
func (f FeeOptions) ServicePercent() decimal.Decimal {
	if !f.HasService {
		return decimal.Zero
	}
	return f.ServicePercentage
}

// TaxPercent returns the tax percentage in effect.
func (f FeeOptions) TaxPercent() decimal.Decimal {
	if !f.HasTax {
		return decimal.Zero
	}
	return f.TaxPercentage
}

// Delivery returns the flat delivery fee in effect.
func (f FeeOptions) Delivery() money.Money {
	if !f.HasDeliveryFee {
		return money.Zero
	}
	return f.DeliveryFee
}

// Method returns the allocation method, defaulting to proportional.
func (f FeeOptions) Method() AllocationMethod {
	if f.AllocationMethod == "" {
		return AllocationProportional
	}
	return f.AllocationMethod
}

// Validate checks the charges that are switched on.
func (f FeeOptions) Validate() error {
	if f.ServicePercent().IsNegative() {
		return invalidf("service percentage cannot be negative: %s", f.ServicePercentage)
	}
	if f.TaxPercent().IsNegative() {
		return invalidf("tax percentage cannot be negative: %s", f.TaxPercentage)
	}
	if f.Delivery().IsNegative() {
		return invalidf("delivery fee cannot be negative: %s", f.DeliveryFee)
	}
	if f.Method() != AllocationProportional {
		return invalidf("unsupported allocation method %q", f.AllocationMethod)
	}
	return nil
}

// Preset names offered when creating a split.
const (
	PresetRestaurant = "restaurant"
	PresetDelivery   = "delivery"
	PresetNone       = "none"
)

var presets = map[string]FeeOptions{
	PresetRestaurant: {
		HasService:        true,
		ServicePercentage: decimal.NewFromInt(12),
		HasTax:            true,
		TaxPercentage:     decimal.NewFromInt(14),
		AllocationMethod:  AllocationProportional,
	},
	// The delivery amount itself is entered per bill.
	PresetDelivery: {
		HasDeliveryFee:   true,
		AllocationMethod: AllocationProportional,
	},
	PresetNone: {
		AllocationMethod: AllocationProportional,
	},
}

// Preset returns the fee options for a named preset.
func Preset(name string) (FeeOptions, bool) {
	f, ok := presets[name]
	return f, ok
}
