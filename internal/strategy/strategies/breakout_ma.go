package strategies

import (
	"context"
	"fmt"

	"candleReplay/internal/broker"
	"candleReplay/internal/domain"
	"candleReplay/internal/ports"
	"candleReplay/internal/strategy/indicators"
)

// BreakoutMA buys when the close breaks above the highest high of the
// previous lookback candles while also above a slow moving average, and
// exits when the close falls back below that average.
type BreakoutMA struct {
	lookback int
	ma       *indicators.MovingAverage
	maPeriod int
	logger   ports.Logger
}

// NewBreakoutMA creates the breakout strategy from BreakoutLookback and
// BreakoutMAPeriod.
func NewBreakoutMA(cfg Config, logger ports.Logger) (*BreakoutMA, error) {
	if logger == nil {
		return nil, fmt.Errorf("logger is required for strategy")
	}
	if cfg.BreakoutLookback <= 0 || cfg.BreakoutMAPeriod <= 0 {
		return nil, fmt.Errorf("%w: breakout lookback and MA period must be positive", ports.ErrConfigurationError)
	}
	return &BreakoutMA{
		lookback: cfg.BreakoutLookback,
		ma: indicators.NewMovingAverage(indicators.MovingAverageConfig{
			IndicatorConfig: indicators.IndicatorConfig{Period: cfg.BreakoutMAPeriod},
			Type:            indicators.SimpleMovingAverage,
		}),
		maPeriod: cfg.BreakoutMAPeriod,
		logger:   logger,
	}, nil
}

// Name returns the name of the strategy.
func (s *BreakoutMA) Name() string { return NameBreakoutMA }

// RequiredDataPoints returns the minimum history length: the lookback
// window plus the breakout candle itself, or the MA window, whichever
// is larger.
func (s *BreakoutMA) RequiredDataPoints() int {
	if s.lookback+1 > s.maPeriod {
		return s.lookback + 1
	}
	return s.maPeriod
}

// Decide returns BUY on a breakout above the prior highs, SELL when an
// open position's close drops below the moving average, HOLD otherwise.
func (s *BreakoutMA) Decide(ctx context.Context, history []*domain.Candle, account broker.AccountView, symbol string) domain.Signal {
	if len(history) < s.RequiredDataPoints() {
		return domain.SignalHold
	}

	price := history[len(history)-1].Close
	ma, err := s.ma.Calculate(ctx, history)
	if err != nil {
		return domain.SignalHold
	}

	if account.HasPosition() {
		if price < ma {
			return domain.SignalSell
		}
		return domain.SignalHold
	}

	// Highest high of the lookback window, excluding the current candle.
	highest := 0.0
	for _, c := range history[len(history)-1-s.lookback : len(history)-1] {
		if c.High > highest {
			highest = c.High
		}
	}

	if price > highest && price > ma {
		s.logger.Debug(ctx, "breakout above lookback high", map[string]interface{}{
			"price": price, "highest": highest, "ma": ma, "symbol": symbol,
		})
		return domain.SignalBuy
	}
	return domain.SignalHold
}
