// Package market holds the static market metadata consumed by trader
// instances and the decimal-safe rounding that keeps order prices and
// amounts within the increments an exchange accepts.
package market

import (
	"errors"
	"fmt"
)

// ErrNotConfigured is returned when no market descriptor exists for a
// requested currency/asset pair.
var ErrNotConfigured = errors.New("market not configured")

// MinimalOrder defines the smallest increments and notional value an
// exchange accepts for a market.
type MinimalOrder struct {
	// Price is the minimum price increment (price tick size).
	Price float64 `json:"price"`
	// Amount is the minimum amount increment (lot tick size).
	Amount float64 `json:"amount"`
	// Order is the minimum notional value (price * amount).
	Order float64 `json:"order"`
}

// Market is the read-only descriptor for one tradable pair. It is
// loaded once from static data and lives for the process lifetime.
type Market struct {
	Pair         string       `json:"pair"`
	Asset        string       `json:"asset"`
	Currency     string       `json:"currency"`
	MinimalOrder MinimalOrder `json:"minimal_order"`
}

// RoundPrice truncates a price to the market's price tick size and
// renders it as a plain decimal string.
func (m Market) RoundPrice(price float64) string {
	return Round(price, m.MinimalOrder.Price)
}

// RoundAmount truncates an amount to the market's lot tick size and
// renders it as a plain decimal string.
func (m Market) RoundAmount(amount float64) string {
	return Round(amount, m.MinimalOrder.Amount)
}

// ValidPrice reports whether price meets the market's minimum price.
func (m Market) ValidPrice(price float64) bool {
	return price >= m.MinimalOrder.Price
}

// ValidLot reports whether price*amount meets the minimum notional
// order value.
func (m Market) ValidLot(price, amount float64) bool {
	return price*amount >= m.MinimalOrder.Order
}

// OutbidPrice nudges price by exactly one price tick, upward when up
// is true, and re-rounds the result.
func (m Market) OutbidPrice(price float64, up bool) string {
	return Step(price, m.MinimalOrder.Price, up)
}

// Table is a static set of market descriptors for one exchange.
type Table []Market

// Lookup finds the descriptor for the given asset/currency pair.
// A missing market is an explicit configuration error, never a nil
// descriptor.
func (t Table) Lookup(asset, currency string) (Market, error) {
	for _, m := range t {
		if m.Asset == asset && m.Currency == currency {
			return m, nil
		}
	}
	return Market{}, fmt.Errorf("%w: %s%s", ErrNotConfigured, asset, currency)
}

// Pairs returns the pair identifiers of every market in the table.
func (t Table) Pairs() []string {
	pairs := make([]string, 0, len(t))
	for _, m := range t {
		pairs = append(pairs, m.Pair)
	}
	return pairs
}
