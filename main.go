package main

import (
	"context"
	"fmt"
	"log" // Use standard log only for initial fatal errors before logger is set up

	"candleReplay/config"
	"candleReplay/internal/adapters/csvstore"
	"candleReplay/internal/adapters/logger"
	"candleReplay/internal/adapters/sqlite"
	"candleReplay/internal/backtest"
	"candleReplay/internal/broker"
	"candleReplay/internal/strategy/analytics"
	"candleReplay/internal/strategy/strategies"
)

func main() {
	ctx := context.Background()

	// 1. Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err) // Use standard log before logger is ready
	}

	// 2. Initialize Logger
	appLogger := logger.NewStdLogger(cfg.LogLevel)
	appLogger.Info(ctx, "Logger initialized", map[string]interface{}{"level": cfg.LogLevel.String()})

	// 3. Load Candle Data
	loader, err := csvstore.NewLoader(appLogger)
	if err != nil {
		appLogger.Error(ctx, err, "FATAL: Failed to initialize candle loader")
		log.Fatalf("FATAL: Failed to initialize candle loader: %v", err)
	}
	candles, err := loader.Load(ctx, cfg.DataFile)
	if err != nil {
		appLogger.Error(ctx, err, "FATAL: Failed to load candle data", map[string]interface{}{"file": cfg.DataFile})
		log.Fatalf("FATAL: Failed to load candle data from %s: %v", cfg.DataFile, err)
	}
	appLogger.Info(ctx, "Candle data loaded", map[string]interface{}{"file": cfg.DataFile, "candles": len(candles)})

	// 4. Initialize Strategy
	strat, err := strategies.New(cfg.Strategy, strategies.Config{
		FastPeriod:       cfg.StrategyFastPeriod,
		SlowPeriod:       cfg.StrategySlowPeriod,
		ATRPeriod:        cfg.StrategyATRPeriod,
		ATRThresholdPct:  cfg.StrategyATRThreshold,
		BreakoutLookback: cfg.BreakoutLookback,
		BreakoutMAPeriod: cfg.BreakoutMAPeriod,
	}, appLogger)
	if err != nil {
		appLogger.Error(ctx, err, "FATAL: Failed to initialize strategy", map[string]interface{}{"strategy": cfg.Strategy})
		log.Fatalf("FATAL: Failed to initialize strategy %q: %v", cfg.Strategy, err)
	}
	appLogger.Info(ctx, "Strategy initialized", map[string]interface{}{"strategy": strat.Name()})

	// 5. Initialize Paper Broker
	paperBroker, err := broker.New(broker.Config{
		InitialBalance:  cfg.InitialBalance,
		RiskPerTradePct: cfg.RiskPerTradePct,
		StopLossPct:     cfg.StopLossPct,
		TakeProfitPct:   cfg.TakeProfitPct,
		CooldownCandles: cfg.CooldownCandles,
		UseTrendFilter:  cfg.UseTrendFilter,
	}, appLogger)
	if err != nil {
		appLogger.Error(ctx, err, "FATAL: Failed to initialize paper broker")
		log.Fatalf("FATAL: Failed to initialize paper broker: %v", err)
	}

	// 6. Initialize Backtest Engine and Run
	engine, err := backtest.New(backtest.Config{
		Symbol:         cfg.Symbol,
		InitialBalance: cfg.InitialBalance,
		WarmupCandles:  cfg.WarmupCandles,
		TrendEMAPeriod: cfg.TrendEMAPeriod,
	}, strat, paperBroker, appLogger)
	if err != nil {
		appLogger.Error(ctx, err, "FATAL: Failed to initialize backtest engine")
		log.Fatalf("FATAL: Failed to initialize backtest engine: %v", err)
	}

	result, err := engine.Run(ctx, candles)
	if err != nil {
		appLogger.Error(ctx, err, "FATAL: Backtest run failed")
		log.Fatalf("FATAL: Backtest run failed: %v", err)
	}

	// 7. Write Output Files (failures are logged, the summary still prints)
	if err := csvstore.WriteTrades(cfg.TradesCSV, result.Trades); err != nil {
		appLogger.Error(ctx, err, "Failed to write trades CSV", map[string]interface{}{"file": cfg.TradesCSV})
	} else {
		appLogger.Info(ctx, "Trades written", map[string]interface{}{"file": cfg.TradesCSV, "trades": len(result.Trades)})
	}
	if err := csvstore.WriteEquity(cfg.EquityCSV, result.EquityCurve); err != nil {
		appLogger.Error(ctx, err, "Failed to write equity CSV", map[string]interface{}{"file": cfg.EquityCSV})
	} else {
		appLogger.Info(ctx, "Equity curve written", map[string]interface{}{"file": cfg.EquityCSV, "points": len(result.EquityCurve)})
	}

	// 8. Optionally persist the run for later comparison
	if cfg.DBPath != "" {
		repo, err := sqlite.NewRepository(sqlite.Config{DBPath: cfg.DBPath, Logger: appLogger})
		if err != nil {
			appLogger.Error(ctx, err, "Failed to open run database", map[string]interface{}{"path": cfg.DBPath})
		} else {
			runID, err := repo.SaveRun(ctx, result.Summary(), result.Trades)
			if err != nil {
				appLogger.Error(ctx, err, "Failed to persist backtest run")
			} else {
				appLogger.Info(ctx, "Backtest run persisted", map[string]interface{}{"runID": runID})
			}
			if err := repo.Close(); err != nil {
				appLogger.Error(ctx, err, "Error closing run database")
			}
		}
	}

	// 9. Console Summary
	printSummary(cfg, result, analytics.Summarize(result.Trades, result.EquityCurve))
}

func printSummary(cfg *config.Config, result *backtest.Result, metrics *analytics.PerformanceMetrics) {
	returnPct := 0.0
	if result.InitialBalance > 0 {
		returnPct = result.EquityPnL / result.InitialBalance * 100
	}

	fmt.Println("==================================================")
	fmt.Printf("Backtest Results: %s (%s)\n", result.Symbol, result.Strategy)
	fmt.Println("==================================================")
	fmt.Printf("Starting Balance:  $%.2f\n", result.InitialBalance)
	fmt.Printf("Ending Cash:       $%.2f\n", result.EndingCash)
	fmt.Printf("Ending Equity:     $%.2f\n", result.EndingEquity)
	fmt.Printf("Realized PnL:      $%.2f\n", result.RealizedPnL)
	fmt.Printf("Equity PnL:        $%.2f (%.2f%%)\n", result.EquityPnL, returnPct)
	fmt.Printf("Total Trades:      %d\n", result.TotalTrades)
	fmt.Printf("Round Trips:       %d\n", metrics.RoundTrips)
	if metrics.RoundTrips > 0 {
		fmt.Printf("Win Rate:          %.1f%%\n", metrics.WinRate)
		fmt.Printf("Profit Factor:     %.2f\n", metrics.ProfitFactor)
	}
	fmt.Printf("Max Drawdown:      %.2f%%\n", metrics.MaxDrawdown*100)

	if len(result.Trades) > 0 {
		fmt.Println("--------------------------------------------------")
		fmt.Println("Last trades:")
		start := len(result.Trades) - 5
		if start < 0 {
			start = 0
		}
		for _, t := range result.Trades[start:] {
			fmt.Printf("  %s | %-4s | %.6f @ $%.2f | Balance: $%.2f\n",
				t.Time.UTC().Format("2006-01-02 15:04"), t.Side, t.Quantity, t.Price, t.Balance)
		}
	}
	fmt.Println("==================================================")
}
