// Package analytics derives performance metrics from a finished
// backtest's trade log and equity curve.
package analytics

import (
	"candleReplay/internal/domain"
)

// PerformanceMetrics holds the statistics computed over one run.
// Round trips pair each BUY with the SELL that closed it; a trailing
// BUY with no closing SELL is an open position and contributes nothing
// to the realized statistics.
type PerformanceMetrics struct {
	TotalFills    int
	RoundTrips    int
	WinningTrades int
	LosingTrades  int
	WinRate       float64 // percentage of profitable round trips
	NetRealized   float64 // sum of round-trip PnL
	AverageWin    float64
	AverageLoss   float64
	ProfitFactor  float64 // gross profit / gross loss
	MaxDrawdown   float64 // deepest peak-to-trough fall of the equity curve, as a fraction
}

// Summarize scans the fill log and equity curve once and computes all
// metrics. Both inputs may be empty.
func Summarize(trades []*domain.Trade, equity []*domain.EquityPoint) *PerformanceMetrics {
	m := &PerformanceMetrics{TotalFills: len(trades)}

	var grossProfit, grossLoss float64
	var entryPrice float64
	var open bool

	for _, t := range trades {
		switch t.Side {
		case domain.Buy:
			entryPrice = t.Price
			open = true
		case domain.Sell:
			if !open {
				continue
			}
			open = false
			m.RoundTrips++
			pnl := (t.Price - entryPrice) * t.Quantity
			m.NetRealized += pnl
			if pnl > 0 {
				m.WinningTrades++
				grossProfit += pnl
			} else {
				m.LosingTrades++
				grossLoss += -pnl
			}
		}
	}

	if m.RoundTrips > 0 {
		m.WinRate = float64(m.WinningTrades) / float64(m.RoundTrips) * 100
	}
	if m.WinningTrades > 0 {
		m.AverageWin = grossProfit / float64(m.WinningTrades)
	}
	if m.LosingTrades > 0 {
		m.AverageLoss = -grossLoss / float64(m.LosingTrades)
	}
	if grossLoss > 0 {
		m.ProfitFactor = grossProfit / grossLoss
	}

	var peak float64
	for i, p := range equity {
		if i == 0 || p.Equity > peak {
			peak = p.Equity
		}
		if peak > 0 {
			if dd := (peak - p.Equity) / peak; dd > m.MaxDrawdown {
				m.MaxDrawdown = dd
			}
		}
	}

	return m
}
