package calculator

import (
	"cmp"
	"slices"

	"github.com/mmynk/tabout/internal/money"
)

// allocateProportional spreads amount across weights so that
// share[i] ≈ amount × weights[i] / sum(weights), each rounded to the cent.
//
// Rounding each share independently can leave the shares a few cents off the
// amount. The residual is handed out one cent at a time to the largest weights
// first, earliest index winning ties, so the shares always sum to amount.
// A zero weight always gets a zero share.
func allocateProportional(amount money.Money, weights []money.Money) []money.Money {
	shares := make([]money.Money, len(weights))
	total := money.Sum(weights...)
	if total.IsZero() || amount.IsZero() {
		return shares
	}

	for i, w := range weights {
		shares[i] = amount.MulRatio(w, total)
	}

	residual := amount.Sub(money.Sum(shares...))
	if residual.IsZero() {
		return shares
	}

	order := make([]int, 0, len(weights))
	for i, w := range weights {
		if w.IsPositive() {
			order = append(order, i)
		}
	}
	slices.SortStableFunc(order, func(a, b int) int {
		return cmp.Compare(weights[b], weights[a])
	})

	step := money.FromMinor(1)
	if residual.IsNegative() {
		step = step.Neg()
	}
	for k := 0; !residual.IsZero(); k++ {
		i := order[k%len(order)]
		shares[i] = shares[i].Add(step)
		residual = residual.Sub(step)
	}

	return shares
}
