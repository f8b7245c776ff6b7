package ports

import (
	"context"
	"time"

	"candleReplay/internal/domain"
)

// CandleFetcher defines the interface for downloading historical candle
// data from an exchange. It is only used by the data-fetching tooling;
// the backtest itself never touches the network.
type CandleFetcher interface {
	// GetCandlesRange fetches all finalized candles for a symbol and
	// interval between start and end, ascending by open time.
	GetCandlesRange(ctx context.Context, symbol, interval string, start, end time.Time) ([]*domain.Candle, error)

	// Ping checks connectivity to the exchange API.
	Ping(ctx context.Context) error

	// GetServerTime retrieves the current server time from the exchange.
	GetServerTime(ctx context.Context) (time.Time, error)
}
