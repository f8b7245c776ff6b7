package strategies

import (
	"context"
	"fmt"

	"candleReplay/internal/broker"
	"candleReplay/internal/domain"
	"candleReplay/internal/ports"
	"candleReplay/internal/strategy/indicators"
)

// EMACross is an exponential-moving-average crossover with an ATR
// volatility floor: entries are skipped when the market is too quiet
// for the move to cover its exit thresholds.
type EMACross struct {
	fast         *indicators.MovingAverage
	slow         *indicators.MovingAverage
	atr          *indicators.ATR
	thresholdPct float64
	minHistory   int
	logger       ports.Logger
}

// NewEMACross creates the EMA crossover strategy from FastPeriod,
// SlowPeriod, ATRPeriod and ATRThresholdPct.
func NewEMACross(cfg Config, logger ports.Logger) (*EMACross, error) {
	if logger == nil {
		return nil, fmt.Errorf("logger is required for strategy")
	}
	if cfg.FastPeriod <= 0 || cfg.SlowPeriod <= 0 || cfg.ATRPeriod <= 0 {
		return nil, fmt.Errorf("%w: EMA and ATR periods must be positive", ports.ErrConfigurationError)
	}
	if cfg.FastPeriod >= cfg.SlowPeriod {
		return nil, fmt.Errorf("%w: fast period must be less than slow period", ports.ErrConfigurationError)
	}
	if cfg.ATRThresholdPct < 0 {
		return nil, fmt.Errorf("%w: ATR threshold cannot be negative", ports.ErrConfigurationError)
	}

	minHistory := cfg.SlowPeriod
	if cfg.ATRPeriod+1 > minHistory {
		minHistory = cfg.ATRPeriod + 1
	}

	return &EMACross{
		fast: indicators.NewMovingAverage(indicators.MovingAverageConfig{
			IndicatorConfig: indicators.IndicatorConfig{Period: cfg.FastPeriod},
			Type:            indicators.ExponentialMovingAverage,
		}),
		slow: indicators.NewMovingAverage(indicators.MovingAverageConfig{
			IndicatorConfig: indicators.IndicatorConfig{Period: cfg.SlowPeriod},
			Type:            indicators.ExponentialMovingAverage,
		}),
		atr: indicators.NewATR(indicators.ATRConfig{
			IndicatorConfig: indicators.IndicatorConfig{Period: cfg.ATRPeriod},
		}),
		thresholdPct: cfg.ATRThresholdPct,
		minHistory:   minHistory + 1,
		logger:       logger,
	}, nil
}

// Name returns the name of the strategy.
func (s *EMACross) Name() string { return NameEMACross }

// RequiredDataPoints returns the minimum history length.
func (s *EMACross) RequiredDataPoints() int { return s.minHistory }

// Decide returns BUY on a bullish EMA crossover when volatility (ATR
// as a percentage of price) clears the threshold, SELL on a bearish
// crossover with an open position, HOLD otherwise.
func (s *EMACross) Decide(ctx context.Context, history []*domain.Candle, account broker.AccountView, symbol string) domain.Signal {
	if len(history) < s.RequiredDataPoints() {
		return domain.SignalHold
	}

	fastNow, errA := s.fast.Calculate(ctx, history)
	slowNow, errB := s.slow.Calculate(ctx, history)
	prev := history[:len(history)-1]
	fastPrev, errC := s.fast.Calculate(ctx, prev)
	slowPrev, errD := s.slow.Calculate(ctx, prev)
	if errA != nil || errB != nil || errC != nil || errD != nil {
		return domain.SignalHold
	}

	bullish := fastPrev <= slowPrev && fastNow > slowNow
	bearish := fastPrev >= slowPrev && fastNow < slowNow

	if bearish && account.HasPosition() {
		return domain.SignalSell
	}
	if bullish && !account.HasPosition() {
		price := history[len(history)-1].Close
		atr, err := s.atr.Calculate(ctx, history)
		if err != nil || price <= 0 {
			return domain.SignalHold
		}
		if atr/price*100 < s.thresholdPct {
			s.logger.Debug(ctx, "bullish crossover skipped, volatility below threshold", map[string]interface{}{
				"atrPct": atr / price * 100, "threshold": s.thresholdPct, "symbol": symbol,
			})
			return domain.SignalHold
		}
		return domain.SignalBuy
	}
	return domain.SignalHold
}
