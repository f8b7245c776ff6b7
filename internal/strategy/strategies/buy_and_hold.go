package strategies

import (
	"context"
	"fmt"

	"candleReplay/internal/broker"
	"candleReplay/internal/domain"
	"candleReplay/internal/ports"
)

// BuyAndHold enters once and never exits. It serves as a baseline to
// compare active strategies against. The "once" is read off the
// account's trade count rather than internal state, so the decision
// stays a pure function of its inputs.
type BuyAndHold struct {
	logger ports.Logger
}

// NewBuyAndHold creates the buy-and-hold baseline strategy.
func NewBuyAndHold(logger ports.Logger) (*BuyAndHold, error) {
	if logger == nil {
		return nil, fmt.Errorf("logger is required for strategy")
	}
	return &BuyAndHold{logger: logger}, nil
}

// Name returns the name of the strategy.
func (s *BuyAndHold) Name() string { return NameBuyAndHold }

// RequiredDataPoints returns the minimum history length.
func (s *BuyAndHold) RequiredDataPoints() int { return 1 }

// Decide returns BUY until the first fill happens, HOLD ever after.
func (s *BuyAndHold) Decide(ctx context.Context, history []*domain.Candle, account broker.AccountView, symbol string) domain.Signal {
	if len(history) == 0 || account.HasPosition() || account.TradeCount() > 0 {
		return domain.SignalHold
	}
	return domain.SignalBuy
}
