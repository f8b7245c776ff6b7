package indicators

import (
	"context"
	"testing"
	"time"

	"candleReplay/internal/domain"
)

func testCandles(closes ...float64) []*domain.Candle {
	base := time.UnixMilli(1700000000000)
	candles := make([]*domain.Candle, len(closes))
	for i, c := range closes {
		candles[i] = &domain.Candle{
			OpenTime: base.Add(time.Duration(i) * time.Hour),
			Open:     c,
			High:     c,
			Low:      c,
			Close:    c,
			Volume:   1,
		}
	}
	return candles
}

func TestMovingAverage_Calculate(t *testing.T) {
	candles := testCandles(100, 102, 101, 103, 104)

	tests := []struct {
		name          string
		config        MovingAverageConfig
		candles       []*domain.Candle
		expectedValue float64
		expectError   bool
	}{
		{
			name: "SMA with sufficient data",
			config: MovingAverageConfig{
				IndicatorConfig: IndicatorConfig{Period: 3},
				Type:            SimpleMovingAverage,
			},
			candles:       candles,
			expectedValue: 102.666667, // (101 + 103 + 104) / 3
		},
		{
			name: "EMA with sufficient data",
			config: MovingAverageConfig{
				IndicatorConfig: IndicatorConfig{Period: 3},
				Type:            ExponentialMovingAverage,
			},
			candles:       candles,
			expectedValue: 103.0, // seed 101, then fold in 103 and 104 at k=0.5
		},
		{
			name: "insufficient data",
			config: MovingAverageConfig{
				IndicatorConfig: IndicatorConfig{Period: 6},
				Type:            SimpleMovingAverage,
			},
			candles:     candles,
			expectError: true,
		},
		{
			name: "invalid MA type",
			config: MovingAverageConfig{
				IndicatorConfig: IndicatorConfig{Period: 3},
				Type:            "INVALID",
			},
			candles:     candles,
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ma := NewMovingAverage(tt.config)
			value, err := ma.Calculate(context.Background(), tt.candles)

			if tt.expectError {
				if err == nil {
					t.Error("expected error but got none")
				}
				return
			}
			if err != nil {
				t.Errorf("unexpected error: %v", err)
				return
			}
			if value-tt.expectedValue > 0.0001 || value-tt.expectedValue < -0.0001 {
				t.Errorf("expected value %f, got %f", tt.expectedValue, value)
			}
		})
	}
}

func TestATR_Calculate(t *testing.T) {
	// Flat closes with a constant 2-point bar range: ATR is exactly 2.
	base := time.UnixMilli(1700000000000)
	candles := make([]*domain.Candle, 6)
	for i := range candles {
		candles[i] = &domain.Candle{
			OpenTime: base.Add(time.Duration(i) * time.Hour),
			Open:     100,
			High:     101,
			Low:      99,
			Close:    100,
			Volume:   1,
		}
	}

	atr := NewATR(ATRConfig{IndicatorConfig: IndicatorConfig{Period: 3}})
	value, err := atr.Calculate(context.Background(), candles)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if value-2.0 > 0.0001 || value-2.0 < -0.0001 {
		t.Errorf("expected ATR 2.0, got %f", value)
	}

	if _, err := atr.Calculate(context.Background(), candles[:3]); err == nil {
		t.Error("expected error for insufficient data")
	}
}
