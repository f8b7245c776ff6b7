package strategies

import (
	"context"
	"fmt"

	"candleReplay/internal/broker"
	"candleReplay/internal/domain"
	"candleReplay/internal/ports"
	"candleReplay/internal/strategy/indicators"
)

// SMACross is the reference simple-moving-average crossover strategy.
// It buys when the fast SMA crosses above the slow SMA and sells the
// open position on the opposite cross. The previous pair of averages is
// recomputed from history[:n-1] each call, so the crossover detection
// holds no mutable state.
type SMACross struct {
	fast   *indicators.MovingAverage
	slow   *indicators.MovingAverage
	period int
	logger ports.Logger
}

// NewSMACross creates the SMA crossover strategy from FastPeriod and
// SlowPeriod.
func NewSMACross(cfg Config, logger ports.Logger) (*SMACross, error) {
	if logger == nil {
		return nil, fmt.Errorf("logger is required for strategy")
	}
	if cfg.FastPeriod <= 0 || cfg.SlowPeriod <= 0 {
		return nil, fmt.Errorf("%w: SMA periods must be positive", ports.ErrConfigurationError)
	}
	if cfg.FastPeriod >= cfg.SlowPeriod {
		return nil, fmt.Errorf("%w: fast period must be less than slow period", ports.ErrConfigurationError)
	}
	return &SMACross{
		fast: indicators.NewMovingAverage(indicators.MovingAverageConfig{
			IndicatorConfig: indicators.IndicatorConfig{Period: cfg.FastPeriod},
			Type:            indicators.SimpleMovingAverage,
		}),
		slow: indicators.NewMovingAverage(indicators.MovingAverageConfig{
			IndicatorConfig: indicators.IndicatorConfig{Period: cfg.SlowPeriod},
			Type:            indicators.SimpleMovingAverage,
		}),
		period: cfg.SlowPeriod,
		logger: logger,
	}, nil
}

// Name returns the name of the strategy.
func (s *SMACross) Name() string { return NameSMACross }

// RequiredDataPoints needs one candle beyond the slow window so the
// previous averages exist.
func (s *SMACross) RequiredDataPoints() int { return s.period + 1 }

// Decide returns BUY on a bullish crossover with no open position,
// SELL on a bearish crossover with an open position, HOLD otherwise.
func (s *SMACross) Decide(ctx context.Context, history []*domain.Candle, account broker.AccountView, symbol string) domain.Signal {
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
		s.logger.Debug(ctx, "bearish SMA crossover", map[string]interface{}{"fast": fastNow, "slow": slowNow, "symbol": symbol})
		return domain.SignalSell
	}
	if bullish && !account.HasPosition() {
		s.logger.Debug(ctx, "bullish SMA crossover", map[string]interface{}{"fast": fastNow, "slow": slowNow, "symbol": symbol})
		return domain.SignalBuy
	}
	return domain.SignalHold
}
