package indicators

import (
	"context"
	"fmt"

	"candleReplay/internal/domain"
)

// MovingAverageType defines the type of moving average.
type MovingAverageType string

const (
	// SimpleMovingAverage represents a simple moving average.
	SimpleMovingAverage MovingAverageType = "SMA"
	// ExponentialMovingAverage represents an exponential moving average.
	ExponentialMovingAverage MovingAverageType = "EMA"
)

// MovingAverageConfig holds configuration for moving average indicators.
type MovingAverageConfig struct {
	IndicatorConfig
	Type MovingAverageType
}

// MovingAverage implements both SMA and EMA over closing prices.
type MovingAverage struct {
	BaseIndicator
	config MovingAverageConfig
}

// NewMovingAverage creates a new moving average indicator instance.
func NewMovingAverage(config MovingAverageConfig) *MovingAverage {
	return &MovingAverage{
		BaseIndicator: BaseIndicator{Config: config.IndicatorConfig},
		config:        config,
	}
}

// Name returns the name of the indicator.
func (m *MovingAverage) Name() string {
	return string(m.config.Type)
}

// Calculate computes the moving average of close prices over the
// trailing window, according to the configured type.
func (m *MovingAverage) Calculate(ctx context.Context, candles []*domain.Candle) (float64, error) {
	period := m.Config.Period
	if len(candles) < period {
		return 0, fmt.Errorf("not enough data (%d) to calculate %s for period %d", len(candles), m.Name(), period)
	}

	switch m.config.Type {
	case SimpleMovingAverage:
		return sma(candles, period), nil
	case ExponentialMovingAverage:
		return ema(candles, period), nil
	default:
		return 0, fmt.Errorf("unsupported moving average type: %s", m.config.Type)
	}
}

// sma averages the closes of the last period candles.
func sma(candles []*domain.Candle, period int) float64 {
	total := 0.0
	for i := len(candles) - period; i < len(candles); i++ {
		total += candles[i].Close
	}
	return total / float64(period)
}

// ema seeds with the SMA of the first period closes and folds in every
// later close with the standard 2/(period+1) multiplier.
func ema(candles []*domain.Candle, period int) float64 {
	multiplier := 2.0 / float64(period+1)
	value := sma(candles[:period], period)
	for i := period; i < len(candles); i++ {
		value = (candles[i].Close-value)*multiplier + value
	}
	return value
}
