// Package trader defines the uniform surface an exchange adapter
// exposes to the strategy and portfolio-management layers.
package trader

import (
	"context"
	"time"

	"nakula/pkg/core"
)

// Trader is the uniform interface one exchange adapter implements.
// Every operation performs exactly one exchange API call (re-attempted
// internally while the failure is classified transient) and returns
// either one normalized result or one classified error. Instances are
// bound to a single currency/asset pair and are intended for
// sequential use by a single logical owner; callers needing strict
// ordering across operations must sequence the calls themselves.
type Trader interface {
	// Name returns the adapter identifier.
	Name() string
	// Capabilities returns the static capability descriptor.
	Capabilities() Capabilities

	// Trades fetches recent trades for the bound pair. A non-zero
	// since queries a one-hour window clipped to now. Results are
	// oldest-first unless descending is set.
	Trades(ctx context.Context, since time.Time, descending bool) ([]core.Trade, error)
	// Portfolio reads the current asset and currency balances.
	Portfolio(ctx context.Context) (core.Portfolio, error)
	// Fee returns the maker fee rate as a fraction (0.001 == 0.1%).
	Fee(ctx context.Context) (float64, error)
	// Ticker returns the current best ask and bid for the bound pair.
	Ticker(ctx context.Context) (core.Ticker, error)

	// Buy places a limit buy order. Amount and price are passed to the
	// exchange verbatim; the caller must have rounded them already.
	Buy(ctx context.Context, amount, price float64) (string, error)
	// Sell places a limit sell order under the same contract as Buy.
	Sell(ctx context.Context, amount, price float64) (string, error)
	// Order aggregates the fills belonging to the given order id.
	Order(ctx context.Context, id string) (core.OrderSummary, error)
	// CheckOrder re-fetches the live status of the given order.
	CheckOrder(ctx context.Context, id string) (core.OrderState, error)
	// CancelOrder cancels the given order. It returns true when the
	// order was already filled and the cancel came too late; that case
	// is a result, not an error.
	CancelOrder(ctx context.Context, id string) (bool, error)

	// RoundPrice truncates a price to the market's price tick size.
	RoundPrice(price float64) string
	// RoundAmount truncates an amount to the market's lot tick size.
	RoundAmount(amount float64) string
	// OutbidPrice nudges a price by one tick in the given direction.
	OutbidPrice(price float64, up bool) string
	// ValidPrice reports whether price meets the market minimum.
	ValidPrice(price float64) bool
	// ValidLot reports whether price*amount meets the minimum notional.
	ValidLot(price, amount float64) bool
}

// Capabilities is the static, read-only declaration of what an adapter
// supports. Pure data: the surrounding framework reads it to discover
// identity, required credentials, supported markets, and history
// semantics.
type Capabilities struct {
	// Name is the human-readable exchange name.
	Name string `json:"name"`
	// Slug is the machine identifier for the adapter.
	Slug string `json:"slug"`
	// Currencies lists the supported quote currencies.
	Currencies []string `json:"currencies"`
	// Assets lists the supported traded assets.
	Assets []string `json:"assets"`
	// Markets lists the supported pair identifiers.
	Markets []string `json:"markets"`
	// Requires names the credential fields private operations need.
	Requires []string `json:"requires"`
	// ProvidesHistory describes the trade-history query semantics
	// ("date" when history can be fetched from a given timestamp).
	ProvidesHistory string `json:"provides_history"`
	// Tradable reports whether order operations are implemented.
	Tradable bool `json:"tradable"`
	// ForceReorderDelay requires a pause between cancel and reorder.
	ForceReorderDelay bool `json:"force_reorder_delay"`
}
