package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"candleReplay/config"
	"candleReplay/internal/adapters/binanceclient"
	"candleReplay/internal/adapters/csvstore"
	"candleReplay/internal/adapters/logger"
)

func main() {
	symbolFlag := flag.String("symbol", "", "trading pair to fetch (defaults to SYMBOL from the environment)")
	interval := flag.String("interval", "5m", "candle interval, e.g. 1m, 5m, 1h")
	days := flag.Int("days", 90, "number of days of history to fetch")
	out := flag.String("out", "", "output CSV path (default data/<symbol>_<interval>_<start>_to_<end>.csv)")
	flag.Parse()

	// 1. Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err) // Use standard log before logger is ready
	}

	// 2. Initialize Logger
	appLogger := logger.NewStdLogger(cfg.LogLevel)
	appLogger.Info(context.Background(), "Logger initialized", map[string]interface{}{"level": cfg.LogLevel.String()})

	// 3. Initialize Exchange Client (Binance Adapter)
	binanceClient, err := binanceclient.New(binanceclient.Config{
		APIKey:     cfg.APIKey,
		SecretKey:  cfg.SecretKey,
		UseTestnet: cfg.IsTestnet,
		Logger:     appLogger,
	})
	if err != nil {
		appLogger.Error(context.Background(), err, "FATAL: Failed to initialize Binance client")
		log.Fatalf("FATAL: Failed to initialize Binance client: %v", err)
	}

	symbol := *symbolFlag
	if symbol == "" {
		symbol = cfg.Symbol
	}
	end := time.Now()
	start := end.AddDate(0, 0, -*days)

	fmt.Printf("Fetching candles for %s %s from %s to %s...\n", symbol, *interval, start.Format("2006-01-02"), end.Format("2006-01-02"))
	candles, err := binanceClient.GetCandlesRange(context.Background(), symbol, *interval, start, end)
	if err != nil {
		appLogger.Error(context.Background(), err, "Error fetching candles")
		log.Fatalf("Error fetching candles: %v", err)
	}
	appLogger.Info(context.Background(), "Fetched candles", map[string]interface{}{"count": len(candles)})

	filename := *out
	if filename == "" {
		filename = fmt.Sprintf("data/%s_%s_%s_to_%s.csv", symbol, *interval, start.Format("20060102"), end.Format("20060102"))
	}
	if err := csvstore.WriteCandles(filename, candles); err != nil {
		appLogger.Error(context.Background(), err, "Error writing CSV")
		log.Fatalf("Error writing CSV: %v", err)
	}
	appLogger.Info(context.Background(), "Saved to", map[string]interface{}{"filename": filename})
}
