// Package csvstore reads candle history from CSV files and writes the
// trade and equity logs a backtest produces.
package csvstore

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"candleReplay/internal/domain"
	"candleReplay/internal/ports"
)

// candleHeader is the exact header the input file must carry, in order.
var candleHeader = []string{"timestamp", "open", "high", "low", "close", "volume"}

// Loader reads candle CSV files. A single malformed row fails the whole
// load: silently skipping rows would shift indices and corrupt the
// replay.
type Loader struct {
	logger ports.Logger
}

// NewLoader creates a candle CSV loader.
func NewLoader(logger ports.Logger) (*Loader, error) {
	if logger == nil {
		return nil, fmt.Errorf("logger is required for candle loader")
	}
	return &Loader{logger: logger}, nil
}

// Load reads and validates all candles from path. Rows must be strictly
// ascending by timestamp. A file with a valid header and zero data rows
// yields an empty slice, not an error.
func (l *Loader) Load(ctx context.Context, path string) ([]*domain.Candle, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening candle file %q: %w", path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = len(candleHeader)

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%w: file %q has no header", ports.ErrMalformedData, path)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: reading header of %q: %v", ports.ErrMalformedData, path, err)
	}
	for i, want := range candleHeader {
		if header[i] != want {
			return nil, fmt.Errorf("%w: header column %d is %q, want %q", ports.ErrMalformedData, i+1, header[i], want)
		}
	}

	var candles []*domain.Candle
	var lastTS int64
	for row := 2; ; row++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: %v", ports.ErrMalformedData, row, err)
		}

		candle, ts, err := parseCandleRow(record)
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: %v", ports.ErrMalformedData, row, err)
		}
		if len(candles) > 0 && ts <= lastTS {
			return nil, fmt.Errorf("%w: row %d: timestamp %d not after previous %d", ports.ErrOutOfOrder, row, ts, lastTS)
		}
		lastTS = ts
		candles = append(candles, candle)
	}

	l.logger.Info(ctx, "candles loaded", map[string]interface{}{"path": path, "count": len(candles)})
	if len(candles) == 0 {
		l.logger.Warn(ctx, "candle file contains no data rows", map[string]interface{}{"path": path})
	}
	return candles, nil
}

// parseCandleRow validates one data row against the candle contract:
// positive millisecond timestamp, positive prices, non-negative volume
// and a consistent OHLC envelope.
func parseCandleRow(record []string) (*domain.Candle, int64, error) {
	ts, err := strconv.ParseInt(record[0], 10, 64)
	if err != nil {
		return nil, 0, fmt.Errorf("invalid timestamp %q: %v", record[0], err)
	}
	if ts <= 0 {
		return nil, 0, fmt.Errorf("timestamp must be positive, got %d", ts)
	}

	fields := make([]float64, 5)
	names := []string{"open", "high", "low", "close", "volume"}
	for i := range fields {
		fields[i], err = strconv.ParseFloat(record[i+1], 64)
		if err != nil {
			return nil, 0, fmt.Errorf("invalid %s %q: %v", names[i], record[i+1], err)
		}
	}
	open, high, low, cls, volume := fields[0], fields[1], fields[2], fields[3], fields[4]

	for i, v := range fields[:4] {
		if v <= 0 {
			return nil, 0, fmt.Errorf("%s must be positive, got %v", names[i], v)
		}
	}
	if volume < 0 {
		return nil, 0, fmt.Errorf("volume cannot be negative, got %v", volume)
	}
	if high < low {
		return nil, 0, fmt.Errorf("high %v below low %v", high, low)
	}
	if high < open || high < cls {
		return nil, 0, fmt.Errorf("high %v is not the highest price", high)
	}
	if low > open || low > cls {
		return nil, 0, fmt.Errorf("low %v is not the lowest price", low)
	}

	return &domain.Candle{
		OpenTime: time.UnixMilli(ts),
		Open:     open,
		High:     high,
		Low:      low,
		Close:    cls,
		Volume:   volume,
	}, ts, nil
}
