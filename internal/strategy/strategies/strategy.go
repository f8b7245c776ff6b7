// Package strategies defines the strategy contract driving the
// backtest and the concrete strategy implementations.
package strategies

import (
	"context"
	"fmt"

	"candleReplay/internal/broker"
	"candleReplay/internal/domain"
	"candleReplay/internal/ports"
)

// Strategy maps the candle history seen so far to a trading signal.
// Decide must never mutate broker state; any derived indicator values
// are recomputed from history on every call, which is what makes a
// signal at index i independent of candles after i.
type Strategy interface {
	// Decide returns the signal for the latest candle in history.
	Decide(ctx context.Context, history []*domain.Candle, account broker.AccountView, symbol string) domain.Signal

	// RequiredDataPoints returns the minimum history length before the
	// strategy can emit a non-HOLD signal.
	RequiredDataPoints() int

	// Name returns the name of the strategy.
	Name() string
}

// Config carries the knobs shared by the built-in strategies. Each
// strategy validates only the fields it uses.
type Config struct {
	FastPeriod       int
	SlowPeriod       int
	ATRPeriod        int
	ATRThresholdPct  float64
	BreakoutLookback int
	BreakoutMAPeriod int
}

// Strategy names accepted by New.
const (
	NameSMACross   = "sma_cross"
	NameEMACross   = "ema_cross"
	NameBreakoutMA = "breakout_ma"
	NameBuyAndHold = "buy_and_hold"
)

// New builds a strategy by name. Strategies are selected once at
// startup; there is no dynamic switching mid-run.
func New(name string, cfg Config, logger ports.Logger) (Strategy, error) {
	switch name {
	case NameSMACross:
		return NewSMACross(cfg, logger)
	case NameEMACross:
		return NewEMACross(cfg, logger)
	case NameBreakoutMA:
		return NewBreakoutMA(cfg, logger)
	case NameBuyAndHold:
		return NewBuyAndHold(logger)
	default:
		return nil, fmt.Errorf("%w: unknown strategy %q", ports.ErrConfigurationError, name)
	}
}
