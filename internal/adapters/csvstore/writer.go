package csvstore

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"candleReplay/internal/domain"
)

// WriteTrades writes the trade log to path, one row per executed order.
// Quantities carry six decimal places, prices and balances two, and
// timestamps are Unix milliseconds, so repeated runs over identical
// input produce byte-identical files.
func WriteTrades(path string, trades []*domain.Trade) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating trades file %q: %w", path, err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	writer.Write([]string{"timestamp", "side", "quantity", "price", "balance"})
	for _, t := range trades {
		writer.Write([]string{
			strconv.FormatInt(t.Time.UnixMilli(), 10),
			string(t.Side),
			fmt.Sprintf("%.6f", t.Quantity),
			fmt.Sprintf("%.2f", t.Price),
			fmt.Sprintf("%.2f", t.Balance),
		})
	}
	return writer.Error()
}

// WriteEquity writes the equity curve to path, one row per candle.
func WriteEquity(path string, points []*domain.EquityPoint) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating equity file %q: %w", path, err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	writer.Write([]string{"timestamp", "equity"})
	for _, p := range points {
		writer.Write([]string{
			strconv.FormatInt(p.Time.UnixMilli(), 10),
			fmt.Sprintf("%.2f", p.Equity),
		})
	}
	return writer.Error()
}

// WriteCandles writes candles in the loader's input format. Used by the
// kline fetcher to produce backtest input files.
func WriteCandles(path string, candles []*domain.Candle) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating candle file %q: %w", path, err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	writer.Write(candleHeader)
	for _, c := range candles {
		writer.Write([]string{
			strconv.FormatInt(c.OpenTime.UnixMilli(), 10),
			strconv.FormatFloat(c.Open, 'f', -1, 64),
			strconv.FormatFloat(c.High, 'f', -1, 64),
			strconv.FormatFloat(c.Low, 'f', -1, 64),
			strconv.FormatFloat(c.Close, 'f', -1, 64),
			strconv.FormatFloat(c.Volume, 'f', -1, 64),
		})
	}
	return writer.Error()
}
