// Package risk holds the pure position-sizing and exit-threshold
// arithmetic used by the paper broker.
package risk

import "math"

// PositionSize returns the quantity to buy so that the cash committed
// equals cash * fraction. The result is capped at the maximum quantity
// the available cash can afford, so the cost never exceeds cash.
func PositionSize(cash, fraction, price float64) float64 {
	if cash <= 0 || fraction <= 0 || price <= 0 {
		return 0
	}
	qty := cash * fraction / price
	return math.Min(qty, cash/price)
}

// StopPrice returns the price level at which a long entered at entry
// has lost pct of its value.
func StopPrice(entry, pct float64) float64 {
	return entry * (1 - pct)
}

// TakeProfitPrice returns the price level at which a long entered at
// entry has gained pct of its value.
func TakeProfitPrice(entry, pct float64) float64 {
	return entry * (1 + pct)
}
