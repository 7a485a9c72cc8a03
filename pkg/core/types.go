package core

import "time"

// OrderSide represents the direction of an order (buy or sell).
type OrderSide int

// Order side constants define the direction of a trade.
const (
	// SideBuy indicates an order to purchase the asset.
	SideBuy OrderSide = iota
	// SideSell indicates an order to sell the asset.
	SideSell
)

// String returns the string representation of the order side ("BUY" or "SELL").
func (s OrderSide) String() string {
	return [...]string{"BUY", "SELL"}[s]
}

// OrderStatus represents the current state of an order on the exchange.
type OrderStatus int

// Order status constants define the lifecycle state of an order.
const (
	// StatusNew indicates the order has been accepted by the exchange.
	StatusNew OrderStatus = iota
	// StatusPartiallyFilled indicates the order has been partially filled.
	StatusPartiallyFilled
	// StatusFilled indicates the order has been completely filled.
	StatusFilled
	// StatusCanceled indicates the order has been canceled.
	StatusCanceled
	// StatusRejected indicates the order was rejected by the exchange.
	StatusRejected
	// StatusExpired indicates the order has expired.
	StatusExpired
)

// String returns the string representation of the order status.
func (s OrderStatus) String() string {
	return [...]string{"NEW", "PARTIALLY_FILLED", "FILLED", "CANCELED", "REJECTED", "EXPIRED"}[s]
}

// ParseOrderStatus maps an exchange status string to an OrderStatus.
// Unrecognized statuses return false; callers must treat that as a
// contract violation rather than defaulting silently.
func ParseOrderStatus(s string) (OrderStatus, bool) {
	switch s {
	case "NEW":
		return StatusNew, true
	case "PARTIALLY_FILLED":
		return StatusPartiallyFilled, true
	case "FILLED":
		return StatusFilled, true
	case "CANCELED":
		return StatusCanceled, true
	case "REJECTED":
		return StatusRejected, true
	case "EXPIRED":
		return StatusExpired, true
	default:
		return 0, false
	}
}

// Trade represents a single normalized market trade.
// Instances are immutable once constructed.
type Trade struct {
	// ID is the exchange-assigned trade identifier, kept opaque.
	ID string `json:"id"`
	// Timestamp is when the trade was executed.
	Timestamp time.Time `json:"timestamp"`
	// Price is the execution price of this trade.
	Price float64 `json:"price"`
	// Amount is the quantity executed in this trade.
	Amount float64 `json:"amount"`
}

// Ticker holds the current best ask and bid for a trading pair.
type Ticker struct {
	// Ask is the lowest price a seller is willing to accept.
	Ask float64 `json:"ask"`
	// Bid is the highest price a buyer is willing to pay.
	Bid float64 `json:"bid"`
}

// Portfolio is a point-in-time read of the account balances for the
// bound pair. It is never cached; every read hits the exchange.
type Portfolio struct {
	// AssetAmount is the free balance of the traded asset.
	AssetAmount float64 `json:"asset_amount"`
	// CurrencyAmount is the free balance of the quote currency.
	CurrencyAmount float64 `json:"currency_amount"`
}

// OrderSummary aggregates all fills belonging to one order.
type OrderSummary struct {
	// AvgPrice is the volume-weighted average fill price.
	AvgPrice float64 `json:"avg_price"`
	// Amount is the total filled amount across all fills.
	Amount float64 `json:"amount"`
	// Date is the execution time of the most recent fill.
	Date time.Time `json:"date"`
	// Fees maps fee currency to the accumulated fee amount.
	Fees map[string]float64 `json:"fees"`
	// FeePercent is a best-effort approximation of the proportional
	// fee, expressed in percent of the filled amount.
	FeePercent float64 `json:"fee_percent"`
}

// OrderState is the normalized live status of an order as re-fetched
// from the exchange. No state is persisted client-side.
type OrderState struct {
	// Executed is true when the order has been completely filled.
	Executed bool `json:"executed"`
	// Open is true while the order is still working on the book.
	Open bool `json:"open"`
	// FilledAmount is the executed quantity for open orders.
	FilledAmount float64 `json:"filled_amount"`
}
