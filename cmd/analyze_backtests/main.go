package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"text/tabwriter"

	"candleReplay/config"
	"candleReplay/internal/adapters/logger"
	"candleReplay/internal/adapters/sqlite"
	"candleReplay/internal/strategy/analytics"
)

func main() {
	limit := flag.Int("limit", 20, "maximum number of runs to list")
	runID := flag.Int64("run", 0, "show trade-level metrics for a specific run ID")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err)
	}
	if cfg.DBPath == "" {
		log.Fatalf("DB_PATH must be set to analyze persisted backtest runs")
	}

	appLogger := logger.NewStdLogger(cfg.LogLevel)

	repo, err := sqlite.NewRepository(sqlite.Config{DBPath: cfg.DBPath, Logger: appLogger})
	if err != nil {
		log.Fatalf("Error opening run database: %v", err)
	}
	defer repo.Close()

	ctx := context.Background()

	if *runID > 0 {
		analyzeRun(ctx, repo, *runID)
		return
	}

	runs, err := repo.ListRuns(ctx, *limit)
	if err != nil {
		log.Fatalf("Error listing runs: %v", err)
	}
	if len(runs) == 0 {
		fmt.Println("No backtest runs recorded yet. Run a backtest with DB_PATH set first.")
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', tabwriter.AlignRight|tabwriter.Debug)
	fmt.Fprintln(w, "ID\tCreated\tSymbol\tStrategy\tInitial\tEndingEquity\tRealizedPnL\tEquityPnL\tTrades\t")
	for _, r := range runs {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%.2f\t%.2f\t%.2f\t%.2f\t%d\t\n",
			r.ID,
			r.CreatedAt.UTC().Format("2006-01-02 15:04"),
			r.Symbol,
			r.Strategy,
			r.InitialBalance,
			r.EndingEquity,
			r.RealizedPnL,
			r.EquityPnL,
			r.TotalTrades,
		)
	}
	w.Flush()
}

func analyzeRun(ctx context.Context, repo *sqlite.Repository, runID int64) {
	trades, err := repo.FindTrades(ctx, runID)
	if err != nil {
		log.Fatalf("Error loading trades for run %d: %v", runID, err)
	}

	metrics := analytics.Summarize(trades, nil)

	fmt.Printf("Run %d: %d fills, %d round trips\n", runID, metrics.TotalFills, metrics.RoundTrips)
	if metrics.RoundTrips > 0 {
		fmt.Printf("Win rate:      %.1f%% (%d wins, %d losses)\n", metrics.WinRate, metrics.WinningTrades, metrics.LosingTrades)
		fmt.Printf("Net realized:  %.2f\n", metrics.NetRealized)
		fmt.Printf("Average win:   %.2f\n", metrics.AverageWin)
		fmt.Printf("Average loss:  %.2f\n", metrics.AverageLoss)
		fmt.Printf("Profit factor: %.2f\n", metrics.ProfitFactor)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', tabwriter.AlignRight|tabwriter.Debug)
	fmt.Fprintln(w, "Time\tSide\tTrigger\tQuantity\tPrice\tBalance\t")
	for _, t := range trades {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.6f\t%.2f\t%.2f\t\n",
			t.Time.UTC().Format("2006-01-02 15:04"),
			t.Side,
			t.Trigger,
			t.Quantity,
			t.Price,
			t.Balance,
		)
	}
	w.Flush()
}
