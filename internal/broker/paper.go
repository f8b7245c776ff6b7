// Package broker implements the paper broker: the sole owner of cash
// and position state during a backtest. All balance and quantity
// mutations go through OnSignal.
package broker

import (
	"context"
	"fmt"
	"time"

	"candleReplay/internal/domain"
	"candleReplay/internal/ports"
	"candleReplay/internal/risk"
)

// Config holds the broker's risk and gating parameters, immutable for
// the duration of one backtest run.
type Config struct {
	InitialBalance  float64
	RiskPerTradePct float64 // fraction of cash committed per entry, (0, 1]
	StopLossPct     float64 // exit when price <= entry*(1-pct); 0 disables
	TakeProfitPct   float64 // exit when price >= entry*(1+pct); 0 disables
	CooldownCandles int     // minimum candle gap between consecutive fills
	UseTrendFilter  bool    // suppress BUYs below the trend EMA
}

func (c Config) validate() error {
	if c.InitialBalance <= 0 {
		return fmt.Errorf("initial balance must be positive, got %v", c.InitialBalance)
	}
	if c.RiskPerTradePct <= 0 || c.RiskPerTradePct > 1 {
		return fmt.Errorf("risk per trade must be in (0, 1], got %v", c.RiskPerTradePct)
	}
	if c.StopLossPct < 0 || c.StopLossPct >= 1 {
		return fmt.Errorf("stop loss pct must be in [0, 1), got %v", c.StopLossPct)
	}
	if c.TakeProfitPct < 0 {
		return fmt.Errorf("take profit pct cannot be negative, got %v", c.TakeProfitPct)
	}
	if c.CooldownCandles < 0 {
		return fmt.Errorf("cooldown candles cannot be negative, got %d", c.CooldownCandles)
	}
	return nil
}

// Tick carries the per-candle execution context the engine hands to the
// broker: the candle index and timestamp, the close price orders fill
// at, and the trend EMA computed by the engine (the broker never
// recomputes indicators itself).
type Tick struct {
	Index      int
	Time       time.Time
	Price      float64
	TrendEMA   float64
	TrendReady bool
}

// AccountView is the read-only view of broker state handed to
// strategies. Strategies can observe balance and position but can never
// mutate them.
type AccountView interface {
	Balance() float64
	Position() domain.Position
	HasPosition() bool
	TradeCount() int
}

// PaperBroker simulates order execution against historical prices with
// no real capital. Long only, one open position at a time, no leverage.
type PaperBroker struct {
	cfg    Config
	logger ports.Logger

	cash           float64
	pos            domain.Position
	lastTradeIndex int
	hasTraded      bool
	trades         []*domain.Trade
}

// New creates a paper broker in its initial state.
func New(cfg Config, logger ports.Logger) (*PaperBroker, error) {
	if logger == nil {
		return nil, fmt.Errorf("logger is required for paper broker")
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ports.ErrConfigurationError, err)
	}
	b := &PaperBroker{cfg: cfg, logger: logger}
	b.Reset()
	return b, nil
}

// Reset restores the initial balance, flattens the position and clears
// the trade log.
func (b *PaperBroker) Reset() {
	b.cash = b.cfg.InitialBalance
	b.pos = domain.Position{}
	b.lastTradeIndex = 0
	b.hasTraded = false
	b.trades = nil
}

// Balance returns the available cash balance.
func (b *PaperBroker) Balance() float64 { return b.cash }

// Position returns a copy of the current position.
func (b *PaperBroker) Position() domain.Position { return b.pos }

// HasPosition reports whether a long position is currently open.
func (b *PaperBroker) HasPosition() bool { return b.pos.IsOpen() }

// TradeCount returns the number of fills executed so far.
func (b *PaperBroker) TradeCount() int { return len(b.trades) }

// Equity returns the mark-to-market account value at the given price.
func (b *PaperBroker) Equity(price float64) float64 {
	return b.cash + b.pos.Quantity*price
}

// Trades returns the append-only fill log in execution order.
func (b *PaperBroker) Trades() []*domain.Trade { return b.trades }

// OnSignal applies one strategy decision at the given tick. Gates are
// evaluated in order: cooldown, stop-loss/take-profit (which overrides
// the incoming signal), trend filter, then execution. HOLD and any
// unrecognized signal value change nothing. OnSignal never fails;
// rejected orders are simulation no-ops, logged at debug level.
func (b *PaperBroker) OnSignal(ctx context.Context, sig domain.Signal, tick Tick) {
	if tick.Price <= 0 {
		return
	}

	// Cooldown gate: everything is forced to HOLD until the configured
	// candle gap since the last fill has passed.
	if b.hasTraded && tick.Index-b.lastTradeIndex < b.cfg.CooldownCandles {
		b.logger.Debug(ctx, "cooldown active, signal forced to HOLD", map[string]interface{}{
			"signal": sig, "index": tick.Index, "lastTradeIndex": b.lastTradeIndex,
		})
		return
	}

	// Stop-loss / take-profit take priority over the incoming signal.
	if b.pos.IsOpen() {
		if trigger := b.exitTrigger(tick.Price); trigger != "" {
			b.sell(ctx, tick, trigger)
			return
		}
	}

	switch sig {
	case domain.SignalBuy:
		if b.pos.IsOpen() {
			b.logger.Debug(ctx, "BUY ignored, position already open", map[string]interface{}{"index": tick.Index})
			return
		}
		if b.cfg.UseTrendFilter && (!tick.TrendReady || tick.Price <= tick.TrendEMA) {
			b.logger.Debug(ctx, "BUY suppressed by trend filter", map[string]interface{}{
				"price": tick.Price, "trendEMA": tick.TrendEMA, "trendReady": tick.TrendReady,
			})
			return
		}
		b.buy(ctx, tick)
	case domain.SignalSell:
		if !b.pos.IsOpen() {
			b.logger.Debug(ctx, "SELL ignored, no open position", map[string]interface{}{"index": tick.Index})
			return
		}
		b.sell(ctx, tick, domain.TriggerStrategy)
	default:
		// HOLD, or an invalid signal treated as HOLD.
	}
}

// exitTrigger reports whether the price has crossed the stop-loss or
// take-profit threshold of the open position.
func (b *PaperBroker) exitTrigger(price float64) domain.TradeTrigger {
	entry := b.pos.AvgEntryPrice
	if entry <= 0 {
		return ""
	}
	if b.cfg.StopLossPct > 0 && price <= risk.StopPrice(entry, b.cfg.StopLossPct) {
		return domain.TriggerStopLoss
	}
	if b.cfg.TakeProfitPct > 0 && price >= risk.TakeProfitPrice(entry, b.cfg.TakeProfitPct) {
		return domain.TriggerTakeProfit
	}
	return ""
}

func (b *PaperBroker) buy(ctx context.Context, tick Tick) {
	qty := risk.PositionSize(b.cash, b.cfg.RiskPerTradePct, tick.Price)
	if qty <= 0 {
		b.logger.Debug(ctx, "BUY skipped, sized quantity is zero", map[string]interface{}{"cash": b.cash})
		return
	}
	b.cash -= qty * tick.Price
	b.pos = b.pos.WithFill(qty, tick.Price)
	b.record(ctx, domain.Buy, qty, tick, domain.TriggerStrategy)
}

func (b *PaperBroker) sell(ctx context.Context, tick Tick, trigger domain.TradeTrigger) {
	qty := b.pos.Quantity
	b.cash += qty * tick.Price
	b.pos = domain.Position{}
	b.record(ctx, domain.Sell, qty, tick, trigger)
}

func (b *PaperBroker) record(ctx context.Context, side domain.OrderSide, qty float64, tick Tick, trigger domain.TradeTrigger) {
	b.lastTradeIndex = tick.Index
	b.hasTraded = true
	trade := &domain.Trade{
		Time:     tick.Time,
		Side:     side,
		Trigger:  trigger,
		Quantity: qty,
		Price:    tick.Price,
		Balance:  b.cash,
	}
	b.trades = append(b.trades, trade)
	b.logger.Info(ctx, "order executed", map[string]interface{}{
		"side": side, "trigger": trigger, "quantity": qty, "price": tick.Price, "balance": b.cash,
	})
}
