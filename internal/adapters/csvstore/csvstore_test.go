package csvstore

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"candleReplay/internal/domain"
	"candleReplay/internal/ports"

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

func writeTempCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "candles.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func newTestLoader(t *testing.T) *Loader {
	t.Helper()
	l, err := NewLoader(noopLogger{})
	require.NoError(t, err)
	return l
}

func TestLoader_Load(t *testing.T) {
	l := newTestLoader(t)
	ctx := context.Background()

	path := writeTempCSV(t, "timestamp,open,high,low,close,volume\n"+
		"1700000000000,100,105,99,104,12.5\n"+
		"1700000300000,104,108,103,107,8.25\n")

	candles, err := l.Load(ctx, path)
	require.NoError(t, err)
	require.Len(t, candles, 2)

	first := candles[0]
	assert.Equal(t, time.UnixMilli(1700000000000), first.OpenTime)
	assert.InDelta(t, 100.0, first.Open, 1e-9)
	assert.InDelta(t, 105.0, first.High, 1e-9)
	assert.InDelta(t, 99.0, first.Low, 1e-9)
	assert.InDelta(t, 104.0, first.Close, 1e-9)
	assert.InDelta(t, 12.5, first.Volume, 1e-9)
}

func TestLoader_EmptyDataIsNotAnError(t *testing.T) {
	l := newTestLoader(t)

	path := writeTempCSV(t, "timestamp,open,high,low,close,volume\n")
	candles, err := l.Load(context.Background(), path)

	require.NoError(t, err)
	assert.Empty(t, candles)
}

func TestLoader_RejectsBadInput(t *testing.T) {
	l := newTestLoader(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		content  string
		sentinel error
		contains string
	}{
		{
			name:     "missing header",
			content:  "",
			sentinel: ports.ErrMalformedData,
		},
		{
			name:     "wrong header column",
			content:  "time,open,high,low,close,volume\n",
			sentinel: ports.ErrMalformedData,
		},
		{
			name: "malformed numeric field",
			content: "timestamp,open,high,low,close,volume\n" +
				"1700000000000,100,105,99,104,1\n" +
				"1700000300000,abc,108,103,107,1\n",
			sentinel: ports.ErrMalformedData,
			contains: "row 3",
		},
		{
			name: "duplicate timestamp",
			content: "timestamp,open,high,low,close,volume\n" +
				"1700000000000,100,105,99,104,1\n" +
				"1700000000000,104,108,103,107,1\n",
			sentinel: ports.ErrOutOfOrder,
			contains: "row 3",
		},
		{
			name: "descending timestamp",
			content: "timestamp,open,high,low,close,volume\n" +
				"1700000300000,100,105,99,104,1\n" +
				"1700000000000,104,108,103,107,1\n",
			sentinel: ports.ErrOutOfOrder,
		},
		{
			name: "high below low",
			content: "timestamp,open,high,low,close,volume\n" +
				"1700000000000,100,99,105,100,1\n",
			sentinel: ports.ErrMalformedData,
			contains: "row 2",
		},
		{
			name: "close above high",
			content: "timestamp,open,high,low,close,volume\n" +
				"1700000000000,100,105,99,110,1\n",
			sentinel: ports.ErrMalformedData,
		},
		{
			name: "negative volume",
			content: "timestamp,open,high,low,close,volume\n" +
				"1700000000000,100,105,99,104,-1\n",
			sentinel: ports.ErrMalformedData,
		},
		{
			name: "missing column in row",
			content: "timestamp,open,high,low,close,volume\n" +
				"1700000000000,100,105,99,104\n",
			sentinel: ports.ErrMalformedData,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeTempCSV(t, tt.content)
			_, err := l.Load(ctx, path)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.sentinel)
			if tt.contains != "" {
				assert.Contains(t, err.Error(), tt.contains)
			}
		})
	}
}

func TestLoader_MissingFile(t *testing.T) {
	l := newTestLoader(t)
	_, err := l.Load(context.Background(), filepath.Join(t.TempDir(), "nope.csv"))
	assert.Error(t, err)
}

func TestWriteTrades_Format(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trades.csv")
	trades := []*domain.Trade{
		{
			Time:     time.UnixMilli(1700000000000),
			Side:     domain.Buy,
			Trigger:  domain.TriggerStrategy,
			Quantity: 4.16666666,
			Price:    120,
			Balance:  500,
		},
		{
			Time:     time.UnixMilli(1700000300000),
			Side:     domain.Sell,
			Trigger:  domain.TriggerTakeProfit,
			Quantity: 4.16666666,
			Price:    130.5,
			Balance:  1043.75,
		},
	}

	require.NoError(t, WriteTrades(path, trades))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t,
		"timestamp,side,quantity,price,balance\n"+
			"1700000000000,BUY,4.166667,120.00,500.00\n"+
			"1700000300000,SELL,4.166667,130.50,1043.75\n",
		string(data))
}

func TestWriteEquity_EmptyHasHeaderOnly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "equity.csv")
	require.NoError(t, WriteEquity(path, nil))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "timestamp,equity\n", string(data))
}

func TestWriteCandles_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "candles.csv")
	in := []*domain.Candle{
		{OpenTime: time.UnixMilli(1700000000000), Open: 100, High: 105, Low: 99, Close: 104, Volume: 12.5},
		{OpenTime: time.UnixMilli(1700000300000), Open: 104, High: 108, Low: 103, Close: 107, Volume: 8.25},
	}
	require.NoError(t, WriteCandles(path, in))

	l := newTestLoader(t)
	out, err := l.Load(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, out, len(in))
	for i := range in {
		assert.Equal(t, in[i].OpenTime, out[i].OpenTime)
		assert.InDelta(t, in[i].Close, out[i].Close, 1e-9)
		assert.InDelta(t, in[i].Volume, out[i].Volume, 1e-9)
	}
}
