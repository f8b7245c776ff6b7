// Package backtest drives one deterministic replay of a candle
// sequence through a strategy and the paper broker.
package backtest

import (
	"context"
	"fmt"

	"candleReplay/internal/broker"
	"candleReplay/internal/domain"
	"candleReplay/internal/ports"
	"candleReplay/internal/strategy/strategies"
)

// Config holds the engine's replay parameters.
type Config struct {
	Symbol         string
	InitialBalance float64
	WarmupCandles  int // candles to observe before the strategy is consulted
	TrendEMAPeriod int // period of the trend EMA handed to the broker's gate
}

// Result is the outcome of one replay. Realized PnL counts only closed
// trades (ending cash minus initial balance); equity PnL additionally
// marks any still-open position to the final close. An open position at
// the end of the run is left open, never force-liquidated.
type Result struct {
	Symbol         string
	Strategy       string
	InitialBalance float64
	EndingCash     float64
	EndingEquity   float64
	RealizedPnL    float64
	EquityPnL      float64
	TotalTrades    int
	Trades         []*domain.Trade
	EquityCurve    []*domain.EquityPoint
}

// Summary converts the result into a persistable run summary.
func (r *Result) Summary() *domain.RunSummary {
	return &domain.RunSummary{
		Symbol:         r.Symbol,
		Strategy:       r.Strategy,
		InitialBalance: r.InitialBalance,
		EndingCash:     r.EndingCash,
		EndingEquity:   r.EndingEquity,
		RealizedPnL:    r.RealizedPnL,
		EquityPnL:      r.EquityPnL,
		TotalTrades:    r.TotalTrades,
	}
}

// Engine replays candles through a strategy/broker pair. One engine
// serves one symbol; runs are sequential and share no state beyond the
// broker, which is reset at the start of every run.
type Engine struct {
	cfg      Config
	strategy strategies.Strategy
	broker   *broker.PaperBroker
	logger   ports.Logger
}

// New creates a backtest engine.
func New(cfg Config, strat strategies.Strategy, b *broker.PaperBroker, logger ports.Logger) (*Engine, error) {
	if strat == nil {
		return nil, fmt.Errorf("strategy is required for backtest engine")
	}
	if b == nil {
		return nil, fmt.Errorf("broker is required for backtest engine")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required for backtest engine")
	}
	if cfg.WarmupCandles < 0 {
		return nil, fmt.Errorf("%w: warmup candles cannot be negative", ports.ErrConfigurationError)
	}
	return &Engine{cfg: cfg, strategy: strat, broker: b, logger: logger}, nil
}

// Run performs one pass over the candles. The strategy only ever sees
// candles[:i+1] at index i, so no future data can leak into a decision.
// An empty candle slice yields a zero-trade result, not an error.
func (e *Engine) Run(ctx context.Context, candles []*domain.Candle) (*Result, error) {
	e.broker.Reset()

	e.logger.Info(ctx, "backtest started", map[string]interface{}{
		"symbol":   e.cfg.Symbol,
		"strategy": e.strategy.Name(),
		"candles":  len(candles),
		"balance":  e.cfg.InitialBalance,
	})

	trend := newTrendEMA(e.cfg.TrendEMAPeriod)
	curve := make([]*domain.EquityPoint, 0, len(candles))

	for i, c := range candles {
		// The trend gate only ever sees closes strictly before the
		// current candle.
		if i > 0 {
			trend.update(candles[i-1].Close)
		}

		sig := domain.SignalHold
		if i >= e.cfg.WarmupCandles {
			sig = e.strategy.Decide(ctx, candles[:i+1], e.broker, e.cfg.Symbol)
		}

		e.broker.OnSignal(ctx, sig, broker.Tick{
			Index:      i,
			Time:       c.OpenTime,
			Price:      c.Close,
			TrendEMA:   trend.value,
			TrendReady: trend.seeded,
		})

		curve = append(curve, &domain.EquityPoint{Time: c.OpenTime, Equity: e.broker.Equity(c.Close)})
	}

	endingCash := e.broker.Balance()
	endingEquity := endingCash
	if len(curve) > 0 {
		endingEquity = curve[len(curve)-1].Equity
	}

	res := &Result{
		Symbol:         e.cfg.Symbol,
		Strategy:       e.strategy.Name(),
		InitialBalance: e.cfg.InitialBalance,
		EndingCash:     endingCash,
		EndingEquity:   endingEquity,
		RealizedPnL:    endingCash - e.cfg.InitialBalance,
		EquityPnL:      endingEquity - e.cfg.InitialBalance,
		TotalTrades:    e.broker.TradeCount(),
		Trades:         e.broker.Trades(),
		EquityCurve:    curve,
	}

	e.logger.Info(ctx, "backtest finished", map[string]interface{}{
		"trades":       res.TotalTrades,
		"endingCash":   res.EndingCash,
		"endingEquity": res.EndingEquity,
	})

	return res, nil
}

// trendEMA is a running exponential moving average of closes, used only
// for the broker's trend gate. It seeds with the first close it sees.
type trendEMA struct {
	mult   float64
	value  float64
	seeded bool
}

func newTrendEMA(period int) *trendEMA {
	if period <= 0 {
		period = 200
	}
	return &trendEMA{mult: 2.0 / float64(period+1)}
}

func (t *trendEMA) update(close float64) {
	if close <= 0 {
		return
	}
	if !t.seeded {
		t.value = close
		t.seeded = true
		return
	}
	t.value = (close-t.value)*t.mult + t.value
}
