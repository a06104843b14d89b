package calculator

import (
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/mmynk/tabout/internal/money"
)

func pct(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func m(s string) money.Money {
	return money.MustParse(s)
}

func checkInvariants(t *testing.T, r *SplitResult) {
	t.Helper()
	if got := money.Sum(r.Subtotal, r.ServiceAmount, r.TaxAmount, r.DeliveryAmount); got != r.TotalAmount {
		t.Errorf("components sum to %s, total is %s", got, r.TotalAmount)
	}
	var sum money.Money
	for _, p := range r.Participants {
		parts := money.Sum(p.ItemSubtotal, p.ServiceShare, p.TaxShare, p.DeliveryShare)
		if parts != p.TotalAmount {
			t.Errorf("%s: shares sum to %s, total is %s", p.ParticipantID, parts, p.TotalAmount)
		}
		sum = sum.Add(p.TotalAmount)
	}
	if sum != r.TotalAmount {
		t.Errorf("participant totals sum to %s, bill total is %s", sum, r.TotalAmount)
	}
}

func TestComputeEqualSplit(t *testing.T) {
	tests := []struct {
		name         string
		total        money.Money
		participants []string
		fees         FeeOptions
		payer        string
		wantErr      bool
		validateFunc func(t *testing.T, r *SplitResult)
	}{
		{
			name:         "tax only, service switched off",
			total:        m("114"),
			participants: []string{"U1", "U2"},
			fees: FeeOptions{
				HasService: false, ServicePercentage: pct("12"),
				HasTax: true, TaxPercentage: pct("14"),
			},
			payer: "U1",
			validateFunc: func(t *testing.T, r *SplitResult) {
				// 114 / 1.14 = 100.00 subtotal, 14.00 tax, 57.00 each
				if r.Subtotal != m("100") {
					t.Errorf("subtotal = %s, want 100.00", r.Subtotal)
				}
				if r.TaxAmount != m("14") {
					t.Errorf("tax = %s, want 14.00", r.TaxAmount)
				}
				if !r.ServiceAmount.IsZero() {
					t.Errorf("service = %s, want 0.00", r.ServiceAmount)
				}
				for _, p := range r.Participants {
					if p.TotalAmount != m("57") {
						t.Errorf("%s total = %s, want 57.00", p.ParticipantID, p.TotalAmount)
					}
				}
			},
		},
		{
			name:         "restaurant preset across three people",
			total:        m("100"),
			participants: []string{"A", "B", "C"},
			fees:         presets[PresetRestaurant],
			payer:        "B",
			validateFunc: func(t *testing.T, r *SplitResult) {
				// 100 / 1.26 = 79.365... -> 79.37; service 9.52; tax 11.11
				if r.Subtotal != m("79.37") {
					t.Errorf("subtotal = %s, want 79.37", r.Subtotal)
				}
				if r.ServiceAmount != m("9.52") {
					t.Errorf("service = %s, want 9.52", r.ServiceAmount)
				}
				if r.TaxAmount != m("11.11") {
					t.Errorf("tax = %s, want 11.11", r.TaxAmount)
				}
				if r.TotalAmount != m("100") {
					t.Errorf("total = %s, want the entered 100.00", r.TotalAmount)
				}
				// 79.37 / 3 leaves one cent for the first participant
				if r.Participants[0].ItemSubtotal != m("26.46") || r.Participants[2].ItemSubtotal != m("26.45") {
					t.Errorf("unexpected subtotal shares: %+v", r.Participants)
				}
			},
		},
		{
			name:         "delivery fee is taken out before back-calculating",
			total:        m("120"),
			participants: []string{"A", "B"},
			fees:         FeeOptions{HasDeliveryFee: true, DeliveryFee: m("20")},
			payer:        "A",
			validateFunc: func(t *testing.T, r *SplitResult) {
				if r.Subtotal != m("100") {
					t.Errorf("subtotal = %s, want 100.00", r.Subtotal)
				}
				for _, p := range r.Participants {
					if p.DeliveryShare != m("10") || p.TotalAmount != m("60") {
						t.Errorf("%s: delivery %s total %s, want 10.00 / 60.00", p.ParticipantID, p.DeliveryShare, p.TotalAmount)
					}
				}
			},
		},
		{
			name:         "stored delivery fee ignored when switched off",
			total:        m("50"),
			participants: []string{"A"},
			fees:         FeeOptions{HasDeliveryFee: false, DeliveryFee: m("80")},
			payer:        "A",
			validateFunc: func(t *testing.T, r *SplitResult) {
				if !r.DeliveryAmount.IsZero() || r.Subtotal != m("50") {
					t.Errorf("got delivery %s subtotal %s", r.DeliveryAmount, r.Subtotal)
				}
			},
		},
		{
			name:         "no participants",
			total:        m("10"),
			participants: []string{},
			payer:        "A",
			wantErr:      true,
		},
		{
			name:         "duplicate participant",
			total:        m("10"),
			participants: []string{"A", "A"},
			payer:        "A",
			wantErr:      true,
		},
		{
			name:         "payer outside the group",
			total:        m("10"),
			participants: []string{"A", "B"},
			payer:        "Z",
			wantErr:      true,
		},
		{
			name:         "zero total",
			total:        money.Zero,
			participants: []string{"A"},
			payer:        "A",
			wantErr:      true,
		},
		{
			name:         "total equal to delivery fee",
			total:        m("20"),
			participants: []string{"A", "B"},
			fees:         FeeOptions{HasDeliveryFee: true, DeliveryFee: m("20")},
			payer:        "A",
			wantErr:      true,
		},
		{
			name:         "negative tax percentage",
			total:        m("20"),
			participants: []string{"A"},
			fees:         FeeOptions{HasTax: true, TaxPercentage: pct("-150")},
			payer:        "A",
			wantErr:      true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := ComputeEqualSplit(tt.total, tt.participants, tt.fees, tt.payer)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ComputeEqualSplit() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidInput) {
					t.Errorf("error %v does not wrap ErrInvalidInput", err)
				}
				if r != nil {
					t.Errorf("expected no result on error, got %+v", r)
				}
				return
			}
			if r.SplitType != SplitEqual {
				t.Errorf("split type = %s, want equal", r.SplitType)
			}
			checkInvariants(t, r)
			if tt.validateFunc != nil {
				tt.validateFunc(t, r)
			}
		})
	}
}

func TestComputeItemizedSplit(t *testing.T) {
	tests := []struct {
		name         string
		items        []Item
		participants []string
		fees         FeeOptions
		payer        string
		wantErr      bool
		validateFunc func(t *testing.T, r *SplitResult)
	}{
		{
			name: "proportional service with flat delivery",
			items: []Item{
				{Name: "A", Price: m("60"), OwnerID: "U1"},
				{Name: "B", Price: m("40"), OwnerID: "U2"},
			},
			participants: []string{"U1", "U2"},
			fees: FeeOptions{
				HasService: true, ServicePercentage: pct("12"),
				HasDeliveryFee: true, DeliveryFee: m("20"),
			},
			payer: "U1",
			validateFunc: func(t *testing.T, r *SplitResult) {
				if r.Subtotal != m("100") || r.ServiceAmount != m("12") || r.TotalAmount != m("132") {
					t.Errorf("bill totals: subtotal %s service %s total %s", r.Subtotal, r.ServiceAmount, r.TotalAmount)
				}
				u1, _ := r.Share("U1")
				u2, _ := r.Share("U2")
				if u1.ServiceShare != m("7.20") || u1.DeliveryShare != m("10") || u1.TotalAmount != m("77.20") {
					t.Errorf("U1 = %+v", u1)
				}
				if u2.ServiceShare != m("4.80") || u2.DeliveryShare != m("10") || u2.TotalAmount != m("54.80") {
					t.Errorf("U2 = %+v", u2)
				}
			},
		},
		{
			name: "items are summed per owner",
			items: []Item{
				{Name: "Pizza", Price: m("20"), OwnerID: "Alice"},
				{Name: "Salad", Price: m("10"), OwnerID: "Alice"},
				{Name: "Beer", Price: m("10"), OwnerID: "Bob"},
			},
			participants: []string{"Alice", "Bob"},
			fees:         FeeOptions{HasTax: true, TaxPercentage: pct("10")},
			payer:        "Bob",
			validateFunc: func(t *testing.T, r *SplitResult) {
				alice, _ := r.Share("Alice")
				if alice.ItemSubtotal != m("30") || alice.TaxShare != m("3") {
					t.Errorf("Alice = %+v", alice)
				}
			},
		},
		{
			name: "participant who ordered nothing still shares delivery",
			items: []Item{
				{Name: "Burger", Price: m("50"), OwnerID: "U1"},
			},
			participants: []string{"U1", "U2"},
			fees: FeeOptions{
				HasService: true, ServicePercentage: pct("10"),
				HasDeliveryFee: true, DeliveryFee: m("5"),
			},
			payer: "U1",
			validateFunc: func(t *testing.T, r *SplitResult) {
				u2, _ := r.Share("U2")
				if !u2.ServiceShare.IsZero() || !u2.TaxShare.IsZero() {
					t.Errorf("U2 should carry no service/tax: %+v", u2)
				}
				if u2.DeliveryShare != m("2.50") || u2.TotalAmount != m("2.50") {
					t.Errorf("U2 = %+v", u2)
				}
			},
		},
		{
			name: "residual cent goes to the largest item subtotal",
			items: []Item{
				{Name: "a", Price: m("3.33"), OwnerID: "U1"},
				{Name: "b", Price: m("3.33"), OwnerID: "U2"},
				{Name: "c", Price: m("3.34"), OwnerID: "U3"},
			},
			participants: []string{"U1", "U2", "U3"},
			fees:         FeeOptions{HasTax: true, TaxPercentage: pct("10")},
			payer:        "U1",
			validateFunc: func(t *testing.T, r *SplitResult) {
				// tax 1.00; raw shares 0.333, 0.333, 0.334 round to 0.33 each
				want := []money.Money{m("0.33"), m("0.33"), m("0.34")}
				for i, p := range r.Participants {
					if p.TaxShare != want[i] {
						t.Errorf("%s tax share = %s, want %s", p.ParticipantID, p.TaxShare, want[i])
					}
				}
			},
		},
		{
			name: "residual tie goes to the earliest participant",
			items: []Item{
				{Name: "a", Price: m("4"), OwnerID: "U1"},
				{Name: "b", Price: m("4"), OwnerID: "U2"},
				{Name: "c", Price: m("4"), OwnerID: "U3"},
			},
			participants: []string{"U1", "U2", "U3"},
			fees:         FeeOptions{HasTax: true, TaxPercentage: pct("0.1")},
			payer:        "U1",
			validateFunc: func(t *testing.T, r *SplitResult) {
				// tax 0.012 rounds to 0.01, which cannot be split three ways
				want := []money.Money{m("0.01"), money.Zero, money.Zero}
				for i, p := range r.Participants {
					if p.TaxShare != want[i] {
						t.Errorf("%s tax share = %s, want %s", p.ParticipantID, p.TaxShare, want[i])
					}
				}
			},
		},
		{
			name: "service switched off yields zero service shares",
			items: []Item{
				{Name: "a", Price: m("12.34"), OwnerID: "U1"},
				{Name: "b", Price: m("56.78"), OwnerID: "U2"},
			},
			participants: []string{"U1", "U2"},
			fees:         FeeOptions{HasService: false, ServicePercentage: pct("12")},
			payer:        "U2",
			validateFunc: func(t *testing.T, r *SplitResult) {
				for _, p := range r.Participants {
					if !p.ServiceShare.IsZero() {
						t.Errorf("%s service share = %s, want 0", p.ParticipantID, p.ServiceShare)
					}
				}
			},
		},
		{
			name:         "no items",
			items:        nil,
			participants: []string{"U1"},
			payer:        "U1",
			wantErr:      true,
		},
		{
			name:         "item owned by an outsider",
			items:        []Item{{Name: "a", Price: m("5"), OwnerID: "Mallory"}},
			participants: []string{"U1", "U2"},
			payer:        "U1",
			wantErr:      true,
		},
		{
			name: "every item free",
			items: []Item{
				{Name: "water", Price: money.Zero, OwnerID: "U1"},
				{Name: "bread", Price: money.Zero, OwnerID: "U2"},
			},
			participants: []string{"U1", "U2"},
			fees:         FeeOptions{HasService: true, ServicePercentage: pct("12")},
			payer:        "U1",
			wantErr:      true,
		},
		{
			name:         "negative price",
			items:        []Item{{Name: "refund", Price: m("-5"), OwnerID: "U1"}},
			participants: []string{"U1"},
			payer:        "U1",
			wantErr:      true,
		},
		{
			name: "one owner's items overflow",
			items: []Item{
				{Name: "a", Price: money.FromMinor(math.MaxInt64), OwnerID: "U1"},
				{Name: "b", Price: money.FromMinor(1), OwnerID: "U1"},
			},
			participants: []string{"U1", "U2"},
			payer:        "U1",
			wantErr:      true,
		},
		{
			name: "items across owners overflow",
			items: []Item{
				{Name: "a", Price: money.FromMinor(math.MaxInt64 / 2), OwnerID: "U1"},
				{Name: "b", Price: money.FromMinor(math.MaxInt64/2 + 2), OwnerID: "U2"},
			},
			participants: []string{"U1", "U2"},
			payer:        "U1",
			wantErr:      true,
		},
		{
			name:         "fees push the total out of range",
			items:        []Item{{Name: "a", Price: money.FromMinor(math.MaxInt64 - 100), OwnerID: "U1"}},
			participants: []string{"U1"},
			fees:         FeeOptions{HasTax: true, TaxPercentage: pct("14")},
			payer:        "U1",
			wantErr:      true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := ComputeItemizedSplit(tt.items, tt.participants, tt.fees, tt.payer)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ComputeItemizedSplit() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidInput) {
					t.Errorf("error %v does not wrap ErrInvalidInput", err)
				}
				return
			}
			checkInvariants(t, r)
			var services, taxes money.Money
			for _, p := range r.Participants {
				services = services.Add(p.ServiceShare)
				taxes = taxes.Add(p.TaxShare)
			}
			if services != r.ServiceAmount || taxes != r.TaxAmount {
				t.Errorf("shares sum to service %s tax %s, bill has %s / %s", services, taxes, r.ServiceAmount, r.TaxAmount)
			}
			if tt.validateFunc != nil {
				tt.validateFunc(t, r)
			}
		})
	}
}

// The back-calculated subtotal is 1.00 / 1.26 = 0.79, but service 0.09 and tax
// 0.11 computed from it leave a cent over, which the subtotal absorbs.
func TestComputeEqualSplit_SubtotalAbsorbsRounding(t *testing.T) {
	fees := presets[PresetRestaurant]
	r, err := ComputeEqualSplit(m("1"), []string{"U1"}, fees, "U1")
	if err != nil {
		t.Fatalf("ComputeEqualSplit failed: %v", err)
	}

	divisor := pct("1.26")
	if formula := m("1").Quo(divisor); formula != m("0.79") {
		t.Fatalf("formula subtotal = %s, want 0.79", formula)
	}
	if r.ServiceAmount != m("0.09") || r.TaxAmount != m("0.11") {
		t.Errorf("service %s tax %s, want 0.09 / 0.11", r.ServiceAmount, r.TaxAmount)
	}
	if r.Subtotal != m("0.80") {
		t.Errorf("subtotal = %s, want 0.80", r.Subtotal)
	}
	if r.TotalAmount != m("1") {
		t.Errorf("total = %s, want the entered 1.00", r.TotalAmount)
	}
	checkInvariants(t, r)
}

func TestSplitsSumExactly(t *testing.T) {
	fees := []FeeOptions{
		presets[PresetRestaurant],
		{HasService: true, ServicePercentage: pct("12.5"), HasTax: true, TaxPercentage: pct("7.25"), HasDeliveryFee: true, DeliveryFee: m("3.99")},
		{HasDeliveryFee: true, DeliveryFee: m("0.07")},
		{},
	}
	participants := []string{"a", "b", "c", "d", "e", "f", "g"}

	for fi, f := range fees {
		for cents := int64(1000); cents < 1000+97*137; cents += 137 {
			for n := 1; n <= len(participants); n++ {
				group := participants[:n]
				r, err := ComputeEqualSplit(money.FromMinor(cents), group, f, group[0])
				if err != nil {
					t.Fatalf("fees %d total %d n %d: %v", fi, cents, n, err)
				}
				checkInvariants(t, r)
				if r.TotalAmount != money.FromMinor(cents) {
					t.Fatalf("equal total %s, entered %d", r.TotalAmount, cents)
				}

				items := make([]Item, 0, n)
				for i, id := range group {
					items = append(items, Item{Name: id, Price: money.FromMinor(cents/int64(i+1) + int64(i)), OwnerID: id})
				}
				ri, err := ComputeItemizedSplit(items, group, f, group[n-1])
				if err != nil {
					t.Fatalf("itemized fees %d total %d n %d: %v", fi, cents, n, err)
				}
				checkInvariants(t, ri)
			}
		}
	}
}

func TestComputeSplit_Idempotent(t *testing.T) {
	items := []Item{
		{Name: "a", Price: m("17.99"), OwnerID: "U1"},
		{Name: "b", Price: m("3.01"), OwnerID: "U2"},
		{Name: "c", Price: m("8.50"), OwnerID: "U3"},
	}
	group := []string{"U1", "U2", "U3"}
	fees := presets[PresetRestaurant]

	first, err := ComputeItemizedSplit(items, group, fees, "U2")
	if err != nil {
		t.Fatalf("first call: %v", err)
	}
	second, err := ComputeItemizedSplit(items, group, fees, "U2")
	if err != nil {
		t.Fatalf("second call: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("results differ:\n%+v\n%+v", first, second)
	}

	eq1, _ := ComputeEqualSplit(m("99.99"), group, fees, "U1")
	eq2, _ := ComputeEqualSplit(m("99.99"), group, fees, "U1")
	if !reflect.DeepEqual(eq1, eq2) {
		t.Errorf("equal results differ:\n%+v\n%+v", eq1, eq2)
	}
}

func TestFeeOptions(t *testing.T) {
	f := FeeOptions{
		HasService: false, ServicePercentage: pct("-5"),
		HasTax: false, TaxPercentage: pct("14"),
		HasDeliveryFee: false, DeliveryFee: m("-1"),
	}
	if err := f.Validate(); err != nil {
		t.Errorf("switched-off charges should not be validated: %v", err)
	}
	if !f.ServicePercent().IsZero() || !f.TaxPercent().IsZero() || !f.Delivery().IsZero() {
		t.Error("switched-off charges should read as zero")
	}

	f.AllocationMethod = "per-head"
	if err := f.Validate(); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("unsupported method error = %v", err)
	}

	restaurant, ok := Preset(PresetRestaurant)
	if !ok {
		t.Fatal("restaurant preset missing")
	}
	if !restaurant.ServicePercent().Equal(pct("12")) || !restaurant.TaxPercent().Equal(pct("14")) {
		t.Errorf("restaurant preset = %+v", restaurant)
	}
	if _, ok := Preset("brunch"); ok {
		t.Error("unexpected preset brunch")
	}
}
