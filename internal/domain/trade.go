package domain

import "time"

// Trade records a single executed order. Trades are appended to the
// broker's log at fill time and never mutated afterwards.
type Trade struct {
	ID       int64        // Assigned by persistence, 0 for in-memory trades
	Time     time.Time    // Candle timestamp at which the order filled
	Side     OrderSide    // BUY or SELL
	Trigger  TradeTrigger // What caused the fill (strategy signal, SL, TP)
	Quantity float64      // Filled quantity
	Price    float64      // Fill price (candle close)
	Balance  float64      // Cash balance immediately after the fill
}

// EquityPoint is one sample of the account's mark-to-market value,
// recorded once per candle.
type EquityPoint struct {
	Time   time.Time
	Equity float64
}

// RunSummary captures the outcome of one completed backtest run.
type RunSummary struct {
	ID             int64
	CreatedAt      time.Time
	Symbol         string
	Strategy       string
	InitialBalance float64
	EndingCash     float64
	EndingEquity   float64
	RealizedPnL    float64
	EquityPnL      float64
	TotalTrades    int
}
