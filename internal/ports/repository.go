package ports

import (
	"context"

	"candleReplay/internal/domain"
)

// RunRepository defines the interface for persisting completed backtest
// runs and retrieving them for later analysis.
type RunRepository interface {
	// SaveRun stores a run summary together with its trade log and
	// returns the assigned run ID.
	SaveRun(ctx context.Context, summary *domain.RunSummary, trades []*domain.Trade) (int64, error)
	// ListRuns retrieves the most recent run summaries, newest first,
	// up to a limit.
	ListRuns(ctx context.Context, limit int) ([]*domain.RunSummary, error)
	// FindTrades retrieves the trade log of a run in execution order.
	// Returns ErrNotFound if the run does not exist.
	FindTrades(ctx context.Context, runID int64) ([]*domain.Trade, error)
}
