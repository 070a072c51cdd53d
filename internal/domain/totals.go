package domain

import "github.com/shopspring/decimal"

// Totals holds summed hours over a set of line items. Arithmetic stays at
// full precision; two-place rounding happens only at presentation time.
type Totals struct {
	PrepHours    decimal.Decimal
	WorkingHours decimal.Decimal
	TotalHours   decimal.Decimal
}

// ZeroTotals returns an all-zero Totals value.
func ZeroTotals() Totals {
	return Totals{
		PrepHours:    decimal.Zero,
		WorkingHours: decimal.Zero,
		TotalHours:   decimal.Zero,
	}
}

// ComputeTotals sums prep and working hours across the non-deleted items.
// TotalHours is the sum of the two component sums rather than a sum of the
// per-item totals, so rounding is never applied twice.
func ComputeTotals(items []*LineItem) Totals {
	t := ZeroTotals()
	for _, li := range items {
		if li.IsDeleted {
			continue
		}
		t.PrepHours = t.PrepHours.Add(li.PrepHours)
		t.WorkingHours = t.WorkingHours.Add(li.WorkingHours)
	}
	t.TotalHours = t.PrepHours.Add(t.WorkingHours)
	return t
}
