package domain

// Position represents the broker's current holding in one symbol.
// AvgEntryPrice is only meaningful while Quantity > 0; a zero-value
// Position is a flat account. Quantity is never negative (no shorting).
type Position struct {
	Quantity      float64
	AvgEntryPrice float64
}

// IsOpen reports whether any quantity is currently held.
func (p Position) IsOpen() bool {
	return p.Quantity > 0
}

// WithFill returns the position after buying qty at price, recomputing
// the cost basis as the weighted average of the old and new lots. With
// the one-open-position policy the old quantity is always zero, so the
// result collapses to AvgEntryPrice == price, but the formula stays
// correct should partial accumulation ever be allowed.
func (p Position) WithFill(qty, price float64) Position {
	if qty <= 0 || price <= 0 {
		return p
	}
	total := p.Quantity + qty
	avg := (p.Quantity*p.AvgEntryPrice + qty*price) / total
	return Position{Quantity: total, AvgEntryPrice: avg}
}
