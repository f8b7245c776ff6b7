package domain

import "time"

// Candle represents a single OHLCV bar for a fixed time interval.
// Candles are immutable once loaded; the engine only ever holds a
// read-only view of them.
type Candle struct {
	OpenTime time.Time // Start time of the interval
	Open     float64   // Opening price
	High     float64   // Highest price
	Low      float64   // Lowest price
	Close    float64   // Closing price
	Volume   float64   // Traded volume
}
