package indicators

import (
	"context"
	"fmt"
	"math"

	"candleReplay/internal/domain"
)

// ATRConfig holds configuration for the Average True Range indicator.
type ATRConfig struct {
	IndicatorConfig
}

// ATR implements the Average True Range indicator using Wilder's
// smoothing method.
type ATR struct {
	config ATRConfig
}

// NewATR creates a new Average True Range indicator instance.
func NewATR(config ATRConfig) *ATR {
	return &ATR{config: config}
}

// Name returns the name of the indicator.
func (a *ATR) Name() string { return "ATR" }

// RequiredDataPoints returns the minimum number of candles needed.
// ATR needs one extra candle for the previous close in the first true
// range.
func (a *ATR) RequiredDataPoints() int {
	return a.config.Period + 1
}

// Calculate computes the Average True Range over the given candles.
func (a *ATR) Calculate(ctx context.Context, candles []*domain.Candle) (float64, error) {
	period := a.config.Period
	if len(candles) < period+1 {
		return 0, fmt.Errorf("not enough data points for ATR calculation: need %d, got %d", period+1, len(candles))
	}

	trueRanges := make([]float64, len(candles))
	trueRanges[0] = candles[0].High - candles[0].Low
	for i := 1; i < len(candles); i++ {
		high := candles[i].High
		low := candles[i].Low
		prevClose := candles[i-1].Close

		// True range is the greatest of the bar range and the gaps
		// from the previous close.
		tr := math.Max(high-low, math.Abs(high-prevClose))
		trueRanges[i] = math.Max(tr, math.Abs(low-prevClose))
	}

	// Seed with a simple average, then apply Wilder's smoothing.
	atr := 0.0
	for i := 0; i < period; i++ {
		atr += trueRanges[i]
	}
	atr /= float64(period)
	for i := period; i < len(candles); i++ {
		atr = (atr*float64(period-1) + trueRanges[i]) / float64(period)
	}

	return atr, nil
}
