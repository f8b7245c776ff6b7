package indicators

import (
	"context"

	"candleReplay/internal/domain"
)

// Indicator represents a technical indicator computed from candle data.
type Indicator interface {
	// Calculate computes the indicator value over the given candles.
	Calculate(ctx context.Context, candles []*domain.Candle) (float64, error)

	// RequiredDataPoints returns the minimum number of candles needed.
	RequiredDataPoints() int

	// Name returns the name of the indicator.
	Name() string
}

// IndicatorConfig holds common configuration for indicators.
type IndicatorConfig struct {
	Period int
}

// BaseIndicator provides common functionality for indicators.
type BaseIndicator struct {
	Config IndicatorConfig
}

// RequiredDataPoints returns the minimum number of candles needed.
func (b *BaseIndicator) RequiredDataPoints() int {
	return b.Config.Period
}
