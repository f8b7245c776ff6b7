// Package sqlite persists completed backtest runs so they can be
// compared across strategy and parameter variations later.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"candleReplay/internal/domain"
	"candleReplay/internal/ports"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// Repository implements ports.RunRepository using SQLite.
type Repository struct {
	db     *sql.DB
	logger ports.Logger
}

// Config holds configuration for the SQLite repository.
type Config struct {
	DBPath string
	Logger ports.Logger
}

// NewRepository opens (and if needed creates) the run database.
func NewRepository(cfg Config) (*Repository, error) {
	if cfg.Logger == nil {
		return nil, fmt.Errorf("logger is required for SQLite repository")
	}
	if cfg.DBPath == "" {
		return nil, fmt.Errorf("%w: DB path is required", ports.ErrConfigurationError)
	}

	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0755); err != nil {
		err = fmt.Errorf("creating data directory %q: %w", filepath.Dir(cfg.DBPath), err)
		cfg.Logger.Error(context.Background(), err, "SQLite repository initialization failed")
		return nil, err
	}

	db, err := sql.Open("sqlite3", cfg.DBPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("%w: opening database at %q: %v", ports.ErrDBConnection, cfg.DBPath, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: pinging database at %q: %v", ports.ErrDBConnection, cfg.DBPath, err)
	}

	// The Go driver works best with a single connection for SQLite.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	repo := &Repository{db: db, logger: cfg.Logger}
	if err := repo.initializeSchema(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing schema: %w", err)
	}

	cfg.Logger.Info(context.Background(), "run database ready", map[string]interface{}{"path": cfg.DBPath})
	return repo, nil
}

func (r *Repository) initializeSchema(ctx context.Context) error {
	const schema = `
	CREATE TABLE IF NOT EXISTS backtest_runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		created_at TIMESTAMP NOT NULL,
		symbol TEXT NOT NULL,
		strategy TEXT NOT NULL,
		initial_balance REAL NOT NULL,
		ending_cash REAL NOT NULL,
		ending_equity REAL NOT NULL,
		realized_pnl REAL NOT NULL,
		equity_pnl REAL NOT NULL,
		total_trades INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS run_trades (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id INTEGER NOT NULL REFERENCES backtest_runs(id),
		executed_at TIMESTAMP NOT NULL,
		side TEXT NOT NULL,
		fill_trigger TEXT NOT NULL,
		quantity REAL NOT NULL,
		price REAL NOT NULL,
		balance REAL NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_run_trades_run_id ON run_trades (run_id);
	CREATE INDEX IF NOT EXISTS idx_backtest_runs_created_at ON backtest_runs (created_at);
	`
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("%w: %v", ports.ErrQueryFailed, err)
	}
	return nil
}

// SaveRun stores the summary and its trades in one transaction and
// returns the run ID.
func (r *Repository) SaveRun(ctx context.Context, summary *domain.RunSummary, trades []*domain.Trade) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("%w: beginning transaction: %v", ports.ErrUpdateFailed, err)
	}
	defer tx.Rollback()

	createdAt := summary.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	res, err := tx.ExecContext(ctx,
		`INSERT INTO backtest_runs
		 (created_at, symbol, strategy, initial_balance, ending_cash, ending_equity, realized_pnl, equity_pnl, total_trades)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		createdAt, summary.Symbol, summary.Strategy, summary.InitialBalance,
		summary.EndingCash, summary.EndingEquity, summary.RealizedPnL, summary.EquityPnL, summary.TotalTrades,
	)
	if err != nil {
		return 0, fmt.Errorf("%w: inserting run: %v", ports.ErrUpdateFailed, err)
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("%w: reading run id: %v", ports.ErrUpdateFailed, err)
	}

	for _, t := range trades {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO run_trades (run_id, executed_at, side, fill_trigger, quantity, price, balance)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			runID, t.Time, string(t.Side), string(t.Trigger), t.Quantity, t.Price, t.Balance,
		); err != nil {
			return 0, fmt.Errorf("%w: inserting trade: %v", ports.ErrUpdateFailed, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("%w: committing run: %v", ports.ErrUpdateFailed, err)
	}

	r.logger.Info(ctx, "run persisted", map[string]interface{}{"runID": runID, "trades": len(trades)})
	return runID, nil
}

// ListRuns retrieves the most recent run summaries, newest first.
func (r *Repository) ListRuns(ctx context.Context, limit int) ([]*domain.RunSummary, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, created_at, symbol, strategy, initial_balance, ending_cash, ending_equity, realized_pnl, equity_pnl, total_trades
		 FROM backtest_runs ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: listing runs: %v", ports.ErrQueryFailed, err)
	}
	defer rows.Close()

	var runs []*domain.RunSummary
	for rows.Next() {
		s := &domain.RunSummary{}
		if err := rows.Scan(&s.ID, &s.CreatedAt, &s.Symbol, &s.Strategy, &s.InitialBalance,
			&s.EndingCash, &s.EndingEquity, &s.RealizedPnL, &s.EquityPnL, &s.TotalTrades); err != nil {
			return nil, fmt.Errorf("%w: scanning run: %v", ports.ErrQueryFailed, err)
		}
		runs = append(runs, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating runs: %v", ports.ErrQueryFailed, err)
	}
	return runs, nil
}

// FindTrades retrieves the trade log of a run in execution order.
func (r *Repository) FindTrades(ctx context.Context, runID int64) ([]*domain.Trade, error) {
	var exists int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM backtest_runs WHERE id = ?`, runID).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("%w: checking run %d: %v", ports.ErrQueryFailed, runID, err)
	}
	if exists == 0 {
		return nil, fmt.Errorf("%w: run %d", ports.ErrNotFound, runID)
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, executed_at, side, fill_trigger, quantity, price, balance
		 FROM run_trades WHERE run_id = ? ORDER BY id`, runID)
	if err != nil {
		return nil, fmt.Errorf("%w: loading trades of run %d: %v", ports.ErrQueryFailed, runID, err)
	}
	defer rows.Close()

	var trades []*domain.Trade
	for rows.Next() {
		t := &domain.Trade{}
		var side, trigger string
		if err := rows.Scan(&t.ID, &t.Time, &side, &trigger, &t.Quantity, &t.Price, &t.Balance); err != nil {
			return nil, fmt.Errorf("%w: scanning trade: %v", ports.ErrQueryFailed, err)
		}
		t.Side = domain.OrderSide(side)
		t.Trigger = domain.TradeTrigger(trigger)
		trades = append(trades, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating trades: %v", ports.ErrQueryFailed, err)
	}
	return trades, nil
}

// Close closes the underlying database connection.
func (r *Repository) Close() error {
	return r.db.Close()
}
