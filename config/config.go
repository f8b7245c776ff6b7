package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"candleReplay/internal/adapters/logger" // Import the logger package for LogLevel
)

// Config holds all application configuration.
type Config struct {
	// Data Source
	Symbol   string
	DataFile string

	// Broker Parameters
	InitialBalance  float64
	RiskPerTradePct float64 // Fraction of cash committed per entry (e.g., 0.5 for 50%)
	StopLossPct     float64 // Stop loss percentage (e.g., 0.02 for 2%)
	TakeProfitPct   float64 // Take profit percentage (e.g., 0.04 for 4%)
	CooldownCandles int     // Minimum candles between executed trades
	UseTrendFilter  bool
	TrendEMAPeriod  int
	WarmupCandles   int

	// Strategy Parameters
	Strategy             string
	StrategyFastPeriod   int
	StrategySlowPeriod   int
	StrategyATRPeriod    int
	StrategyATRThreshold float64 // ATR as percent of price required for entries
	BreakoutLookback     int
	BreakoutMAPeriod     int

	// Output
	TradesCSV string
	EquityCSV string

	// Database (optional; empty disables run persistence)
	DBPath string

	// Binance API (only needed by the kline fetcher tool)
	APIKey    string
	SecretKey string
	IsTestnet bool

	// Logging
	LogLevel logger.LogLevel // Use the LogLevel type from the logger adapter
}

// LoadConfig loads configuration from environment variables (.env file).
func LoadConfig() (*Config, error) {
	// Load .env file, but don't fail if it doesn't exist (allow pure env vars)
	_ = godotenv.Load()

	cfg := &Config{}
	var err error
	var errs []string // Collect validation errors

	// Data Source
	cfg.Symbol = getEnv("SYMBOL", "SOLUSDT")
	if cfg.Symbol == "" {
		errs = append(errs, "SYMBOL must be set")
	}
	cfg.DataFile = getEnv("DATA_FILE", "data/SOL_5m.csv")
	if cfg.DataFile == "" {
		errs = append(errs, "DATA_FILE must be set")
	}

	// Broker Parameters
	cfg.InitialBalance, err = getEnvAsFloatRequired("INITIAL_BALANCE", 1000.0)
	if err != nil {
		errs = append(errs, fmt.Sprintf("invalid INITIAL_BALANCE: %v", err))
	} else if cfg.InitialBalance <= 0 {
		errs = append(errs, "INITIAL_BALANCE must be positive")
	}

	cfg.RiskPerTradePct, err = getEnvAsFloatRequired("RISK_PER_TRADE_PCT", 0.5)
	if err != nil {
		errs = append(errs, fmt.Sprintf("invalid RISK_PER_TRADE_PCT: %v", err))
	} else if cfg.RiskPerTradePct <= 0 || cfg.RiskPerTradePct > 1.0 {
		errs = append(errs, "RISK_PER_TRADE_PCT must be in (0.0, 1.0]")
	}

	cfg.StopLossPct, err = getEnvAsFloatRequired("STOP_LOSS_PCT", 0.02)
	if err != nil {
		errs = append(errs, fmt.Sprintf("invalid STOP_LOSS_PCT: %v", err))
	} else if cfg.StopLossPct < 0 || cfg.StopLossPct >= 1.0 {
		errs = append(errs, "STOP_LOSS_PCT must be in [0.0, 1.0); zero disables the stop")
	}

	cfg.TakeProfitPct, err = getEnvAsFloatRequired("TAKE_PROFIT_PCT", 0.04)
	if err != nil {
		errs = append(errs, fmt.Sprintf("invalid TAKE_PROFIT_PCT: %v", err))
	} else if cfg.TakeProfitPct < 0 {
		errs = append(errs, "TAKE_PROFIT_PCT cannot be negative; zero disables the target")
	}

	cfg.CooldownCandles, err = getEnvAsIntRequired("COOLDOWN_CANDLES", 6)
	if err != nil {
		errs = append(errs, fmt.Sprintf("invalid COOLDOWN_CANDLES: %v", err))
	} else if cfg.CooldownCandles < 0 {
		errs = append(errs, "COOLDOWN_CANDLES cannot be negative")
	}

	cfg.UseTrendFilter = getEnvAsBool("USE_TREND_FILTER", true)

	cfg.TrendEMAPeriod = getEnvAsInt("TREND_EMA_PERIOD", 200)
	if cfg.TrendEMAPeriod <= 0 {
		errs = append(errs, "TREND_EMA_PERIOD must be positive")
	}

	cfg.WarmupCandles = getEnvAsInt("WARMUP_CANDLES", 60)
	if cfg.WarmupCandles < 0 {
		errs = append(errs, "WARMUP_CANDLES cannot be negative")
	}

	// Strategy Parameters (using defaults if not set)
	cfg.Strategy = getEnv("STRATEGY", "sma_cross")
	cfg.StrategyFastPeriod = getEnvAsInt("STRATEGY_FAST_PERIOD", 10)
	cfg.StrategySlowPeriod = getEnvAsInt("STRATEGY_SLOW_PERIOD", 30)
	cfg.StrategyATRPeriod = getEnvAsInt("STRATEGY_ATR_PERIOD", 14)
	cfg.StrategyATRThreshold = getEnvAsFloat("STRATEGY_ATR_THRESHOLD", 0.3)
	cfg.BreakoutLookback = getEnvAsInt("BREAKOUT_LOOKBACK", 20)
	cfg.BreakoutMAPeriod = getEnvAsInt("BREAKOUT_MA_PERIOD", 50)

	if cfg.StrategyFastPeriod <= 0 || cfg.StrategySlowPeriod <= 0 || cfg.StrategyATRPeriod <= 0 {
		errs = append(errs, "strategy periods (fast, slow, ATR) must be positive")
	}
	if cfg.StrategyFastPeriod >= cfg.StrategySlowPeriod {
		errs = append(errs, "STRATEGY_FAST_PERIOD must be less than STRATEGY_SLOW_PERIOD")
	}
	if cfg.StrategyATRThreshold < 0 {
		errs = append(errs, "STRATEGY_ATR_THRESHOLD cannot be negative")
	}
	if cfg.BreakoutLookback <= 0 || cfg.BreakoutMAPeriod <= 0 {
		errs = append(errs, "breakout lookback and MA period must be positive")
	}

	// Output
	cfg.TradesCSV = getEnv("TRADES_CSV", "trades.csv")
	cfg.EquityCSV = getEnv("EQUITY_CSV", "equity.csv")
	if cfg.TradesCSV == "" || cfg.EquityCSV == "" {
		errs = append(errs, "TRADES_CSV and EQUITY_CSV must be set")
	}

	// Database (optional)
	cfg.DBPath = getEnv("DB_PATH", "")

	// Binance API (optional; only the fetcher tool needs keys)
	cfg.APIKey = getEnv("BINANCE_API_KEY", "")
	cfg.SecretKey = getEnv("BINANCE_API_SECRET", "")
	cfg.IsTestnet = getEnvAsBool("IS_TESTNET", false)

	// Logging
	logLevelStr := getEnv("LOG_LEVEL", "INFO")
	cfg.LogLevel = logger.ParseLevel(logLevelStr) // Use the parser from the logger package

	// Combine validation errors
	if len(errs) > 0 {
		return nil, fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}

	return cfg, nil
}

// --- Env Var Helpers ---

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsIntRequired(key string, defaultValue int) (int, error) {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		// Use default if env var is not set at all
		return defaultValue, nil
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		// Return error if env var is set but invalid
		return 0, fmt.Errorf("invalid integer value '%s' for key %s: %w", valueStr, key, err)
	}
	return value, nil
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsFloatRequired(key string, defaultValue float64) (float64, error) {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue, nil
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid float value '%s' for key %s: %w", valueStr, key, err)
	}
	return value, nil
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
