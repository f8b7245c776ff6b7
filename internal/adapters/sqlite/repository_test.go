package sqlite

import (
	"context"
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

func setupTestDB(t *testing.T) *Repository {
	t.Helper()
	repo, err := NewRepository(Config{
		DBPath: filepath.Join(t.TempDir(), "runs.db"),
		Logger: noopLogger{},
	})
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	return repo
}

func sampleRun() (*domain.RunSummary, []*domain.Trade) {
	summary := &domain.RunSummary{
		CreatedAt:      time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
		Symbol:         "SOLUSDT",
		Strategy:       "sma_cross",
		InitialBalance: 1000,
		EndingCash:     1050,
		EndingEquity:   1050,
		RealizedPnL:    50,
		EquityPnL:      50,
		TotalTrades:    2,
	}
	trades := []*domain.Trade{
		{Time: time.UnixMilli(1700000000000).UTC(), Side: domain.Buy, Trigger: domain.TriggerStrategy, Quantity: 5, Price: 100, Balance: 500},
		{Time: time.UnixMilli(1700000300000).UTC(), Side: domain.Sell, Trigger: domain.TriggerTakeProfit, Quantity: 5, Price: 110, Balance: 1050},
	}
	return summary, trades
}

func TestRepository_SaveAndListRuns(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()

	summary, trades := sampleRun()
	runID, err := repo.SaveRun(ctx, summary, trades)
	require.NoError(t, err)
	assert.Positive(t, runID)

	runs, err := repo.ListRuns(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)

	got := runs[0]
	assert.Equal(t, runID, got.ID)
	assert.Equal(t, "SOLUSDT", got.Symbol)
	assert.Equal(t, "sma_cross", got.Strategy)
	assert.InDelta(t, 1000.0, got.InitialBalance, 1e-9)
	assert.InDelta(t, 50.0, got.RealizedPnL, 1e-9)
	assert.Equal(t, 2, got.TotalTrades)
}

func TestRepository_ListRunsNewestFirst(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()

	first, _ := sampleRun()
	second, _ := sampleRun()
	second.CreatedAt = first.CreatedAt.Add(time.Hour)
	second.Strategy = "ema_cross"

	_, err := repo.SaveRun(ctx, first, nil)
	require.NoError(t, err)
	_, err = repo.SaveRun(ctx, second, nil)
	require.NoError(t, err)

	runs, err := repo.ListRuns(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "ema_cross", runs[0].Strategy)
	assert.Equal(t, "sma_cross", runs[1].Strategy)
}

func TestRepository_FindTrades(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()

	summary, trades := sampleRun()
	runID, err := repo.SaveRun(ctx, summary, trades)
	require.NoError(t, err)

	got, err := repo.FindTrades(ctx, runID)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, domain.Buy, got[0].Side)
	assert.Equal(t, domain.TriggerStrategy, got[0].Trigger)
	assert.InDelta(t, 5.0, got[0].Quantity, 1e-9)
	assert.Equal(t, domain.Sell, got[1].Side)
	assert.Equal(t, domain.TriggerTakeProfit, got[1].Trigger)
	assert.InDelta(t, 1050.0, got[1].Balance, 1e-9)
}

func TestRepository_FindTradesUnknownRun(t *testing.T) {
	repo := setupTestDB(t)

	_, err := repo.FindTrades(context.Background(), 12345)
	require.Error(t, err)
	assert.ErrorIs(t, err, ports.ErrNotFound)
}
