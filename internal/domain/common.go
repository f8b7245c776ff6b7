package domain

// Signal is the decision a strategy emits for one candle.
type Signal string

const (
	SignalBuy  Signal = "BUY"
	SignalSell Signal = "SELL"
	SignalHold Signal = "HOLD"
)

// OrderSide represents the side of an executed order.
type OrderSide string

const (
	Buy  OrderSide = "BUY"
	Sell OrderSide = "SELL"
)

// TradeTrigger indicates what caused an order to execute.
type TradeTrigger string

const (
	TriggerStrategy   TradeTrigger = "STRATEGY"
	TriggerStopLoss   TradeTrigger = "STOP_LOSS"
	TriggerTakeProfit TradeTrigger = "TAKE_PROFIT"
)
