package strategies

import (
	"context"
	"testing"
	"time"

	"candleReplay/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// noopLogger implements ports.Logger for testing.
type noopLogger struct{}

func (noopLogger) Debug(ctx context.Context, msg string, fields ...map[string]interface{}) {}
func (noopLogger) Info(ctx context.Context, msg string, fields ...map[string]interface{})  {}
func (noopLogger) Warn(ctx context.Context, msg string, fields ...map[string]interface{})  {}
func (noopLogger) Error(ctx context.Context, err error, msg string, fields ...map[string]interface{}) {
}

// fakeAccount is a fixed-state broker.AccountView.
type fakeAccount struct {
	balance float64
	pos     domain.Position
	trades  int
}

func (a fakeAccount) Balance() float64          { return a.balance }
func (a fakeAccount) Position() domain.Position { return a.pos }
func (a fakeAccount) HasPosition() bool         { return a.pos.IsOpen() }
func (a fakeAccount) TradeCount() int           { return a.trades }

func candlesFromCloses(closes ...float64) []*domain.Candle {
	base := time.UnixMilli(1700000000000)
	out := make([]*domain.Candle, len(closes))
	for i, c := range closes {
		out[i] = &domain.Candle{
			OpenTime: base.Add(time.Duration(i) * time.Minute),
			Open:     c, High: c, Low: c, Close: c,
			Volume: 1,
		}
	}
	return out
}

func TestNewSMACross_Validation(t *testing.T) {
	_, err := NewSMACross(Config{FastPeriod: 5, SlowPeriod: 5}, noopLogger{})
	assert.Error(t, err, "fast must be strictly below slow")

	_, err = NewSMACross(Config{FastPeriod: 0, SlowPeriod: 5}, noopLogger{})
	assert.Error(t, err)

	_, err = NewSMACross(Config{FastPeriod: 2, SlowPeriod: 3}, nil)
	assert.Error(t, err)
}

func TestSMACross_Decide(t *testing.T) {
	ctx := context.Background()
	flat := fakeAccount{balance: 1000}
	long := fakeAccount{balance: 500, pos: domain.Position{Quantity: 5, AvgEntryPrice: 100}}

	s, err := NewSMACross(Config{FastPeriod: 2, SlowPeriod: 3}, noopLogger{})
	require.NoError(t, err)

	tests := []struct {
		name    string
		closes  []float64
		account fakeAccount
		want    domain.Signal
	}{
		{
			name:    "insufficient history",
			closes:  []float64{100, 105, 95},
			account: flat,
			want:    domain.SignalHold,
		},
		{
			// fast (95,120)=107.5 > slow (105,95,120)=106.67 while the
			// previous pair was 100 <= 100.
			name:    "bullish crossover without position",
			closes:  []float64{100, 105, 95, 120},
			account: flat,
			want:    domain.SignalBuy,
		},
		{
			name:    "bullish crossover with open position is hold",
			closes:  []float64{100, 105, 95, 120},
			account: long,
			want:    domain.SignalHold,
		},
		{
			// Mirror image: fast drops below slow on the last candle.
			name:    "bearish crossover with position",
			closes:  []float64{100, 95, 105, 80},
			account: long,
			want:    domain.SignalSell,
		},
		{
			name:    "bearish crossover without position is hold",
			closes:  []float64{100, 95, 105, 80},
			account: flat,
			want:    domain.SignalHold,
		},
		{
			name:    "no crossover",
			closes:  []float64{100, 110, 120, 130},
			account: flat,
			want:    domain.SignalHold,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.Decide(ctx, candlesFromCloses(tt.closes...), tt.account, "SOLUSDT")
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSMACross_TruncationDeterminism(t *testing.T) {
	// The signal at index i must be the same whether computed from the
	// full series or from the series truncated at i.
	ctx := context.Background()
	flat := fakeAccount{balance: 1000}

	closes := make([]float64, 40)
	price := 100.0
	seed := uint64(7)
	for i := range closes {
		seed = seed*6364136223846793005 + 1442695040888963407
		price = price * (0.98 + float64((seed>>33)%400)/10000.0)
		closes[i] = price
	}
	candles := candlesFromCloses(closes...)

	s, err := NewSMACross(Config{FastPeriod: 3, SlowPeriod: 5}, noopLogger{})
	require.NoError(t, err)

	for i := range candles {
		full := s.Decide(ctx, candles[:i+1], flat, "SOLUSDT")
		truncated := s.Decide(ctx, append([]*domain.Candle(nil), candles[:i+1]...), flat, "SOLUSDT")
		assert.Equal(t, full, truncated, "signal differs at index %d", i)
	}
}

func TestBreakoutMA_Decide(t *testing.T) {
	ctx := context.Background()
	flat := fakeAccount{balance: 1000}
	long := fakeAccount{balance: 0, pos: domain.Position{Quantity: 1, AvgEntryPrice: 100}}

	s, err := NewBreakoutMA(Config{BreakoutLookback: 3, BreakoutMAPeriod: 3}, noopLogger{})
	require.NoError(t, err)

	// Last close 120 beats the prior highs (100..102) and the MA.
	breakout := candlesFromCloses(100, 101, 102, 120)
	assert.Equal(t, domain.SignalBuy, s.Decide(ctx, breakout, flat, "SOLUSDT"))
	assert.Equal(t, domain.SignalHold, s.Decide(ctx, breakout, long, "SOLUSDT"))

	// Close below the MA with an open position exits.
	fade := candlesFromCloses(100, 101, 102, 90)
	assert.Equal(t, domain.SignalSell, s.Decide(ctx, fade, long, "SOLUSDT"))
	assert.Equal(t, domain.SignalHold, s.Decide(ctx, fade, flat, "SOLUSDT"))
}

func TestBuyAndHold_Decide(t *testing.T) {
	ctx := context.Background()
	s, err := NewBuyAndHold(noopLogger{})
	require.NoError(t, err)

	history := candlesFromCloses(100)
	assert.Equal(t, domain.SignalBuy, s.Decide(ctx, history, fakeAccount{balance: 1000}, "SOLUSDT"))

	long := fakeAccount{pos: domain.Position{Quantity: 1, AvgEntryPrice: 100}, trades: 1}
	assert.Equal(t, domain.SignalHold, s.Decide(ctx, history, long, "SOLUSDT"))

	// After a forced exit (e.g. stop-loss) it must not re-enter.
	flatAfterTrade := fakeAccount{balance: 900, trades: 2}
	assert.Equal(t, domain.SignalHold, s.Decide(ctx, history, flatAfterTrade, "SOLUSDT"))
}

func TestNew_Factory(t *testing.T) {
	cfg := Config{
		FastPeriod: 2, SlowPeriod: 3,
		ATRPeriod: 2, ATRThresholdPct: 0.1,
		BreakoutLookback: 3, BreakoutMAPeriod: 3,
	}
	for _, name := range []string{NameSMACross, NameEMACross, NameBreakoutMA, NameBuyAndHold} {
		s, err := New(name, cfg, noopLogger{})
		require.NoError(t, err, name)
		assert.Equal(t, name, s.Name())
	}

	_, err := New("martingale", cfg, noopLogger{})
	assert.Error(t, err)
}
