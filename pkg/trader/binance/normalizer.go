package binance

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"nakula/pkg/core"
)

// binanceBookTicker is one entry of the all-symbol book ticker snapshot.
type binanceBookTicker struct {
	Symbol   string `json:"symbol"`
	BidPrice string `json:"bidPrice"`
	BidQty   string `json:"bidQty"`
	AskPrice string `json:"askPrice"`
	AskQty   string `json:"askQty"`
}

// binanceAggTrade is a raw aggregated trade.
type binanceAggTrade struct {
	ID    json.RawMessage `json:"a"`
	Price string          `json:"p"`
	Qty   string          `json:"q"`
	Time  int64           `json:"T"`
}

// binanceBalance is a single asset balance from the account endpoint.
type binanceBalance struct {
	Asset  string `json:"asset"`
	Free   string `json:"free"`
	Locked string `json:"locked"`
}

// binanceAccount is the account information response.
type binanceAccount struct {
	MakerCommission int64            `json:"makerCommission"`
	TakerCommission int64            `json:"takerCommission"`
	CanTrade        bool             `json:"canTrade"`
	Balances        []binanceBalance `json:"balances"`
}

// binanceOrder is a raw order response. The order id is decoded as a
// raw token: the exchange returns it inconsistently as number or
// string and it must stay opaque.
type binanceOrder struct {
	Symbol        string          `json:"symbol"`
	OrderID       json.RawMessage `json:"orderId"`
	ClientOrderID string          `json:"clientOrderId"`
	Price         string          `json:"price"`
	OrigQty       string          `json:"origQty"`
	ExecutedQty   string          `json:"executedQty"`
	Status        string          `json:"status"`
	TransactTime  int64           `json:"transactTime"`
}

// binanceMyTrade is one fill from the account trade history.
type binanceMyTrade struct {
	ID              json.RawMessage `json:"id"`
	OrderID         json.RawMessage `json:"orderId"`
	Symbol          string          `json:"symbol"`
	Price           string          `json:"price"`
	Qty             string          `json:"qty"`
	Commission      string          `json:"commission"`
	CommissionAsset string          `json:"commissionAsset"`
	Time            int64           `json:"time"`
	IsBuyer         bool            `json:"isBuyer"`
}

// Normalizer converts raw Binance payloads to the canonical core types.
type Normalizer struct{}

// NewNormalizer creates a new Normalizer instance.
func NewNormalizer() *Normalizer {
	return &Normalizer{}
}

// NormalizeTrades converts raw aggregated trades to Trade records,
// preserving the exchange ordering (oldest first).
func (n *Normalizer) NormalizeTrades(data []binanceAggTrade) []core.Trade {
	trades := make([]core.Trade, 0, len(data))
	for _, t := range data {
		trades = append(trades, core.Trade{
			ID:        opaqueID(t.ID),
			Timestamp: time.UnixMilli(t.Time),
			Price:     parseFloat(t.Price),
			Amount:    parseFloat(t.Qty),
		})
	}
	return trades
}

// NormalizePortfolio extracts the free balances of the bound asset and
// currency. Missing or unparseable balances normalize to 0.
func (n *Normalizer) NormalizePortfolio(account *binanceAccount, asset, currency string) core.Portfolio {
	var p core.Portfolio
	for _, b := range account.Balances {
		switch b.Asset {
		case asset:
			p.AssetAmount = parseFloat(b.Free)
		case currency:
			p.CurrencyAmount = parseFloat(b.Free)
		}
	}
	return p
}

// NormalizeTicker converts one book ticker entry for the bound pair.
func (n *Normalizer) NormalizeTicker(data *binanceBookTicker) core.Ticker {
	return core.Ticker{
		Ask: parseFloat(data.AskPrice),
		Bid: parseFloat(data.BidPrice),
	}
}

// NormalizeOrderSummary aggregates the fills belonging to orderID out
// of the recent account trades. The average price is accumulated
// incrementally so partial results stay consistent fill by fill. An
// order with no matching fills is an error.
func (n *Normalizer) NormalizeOrderSummary(fills []binanceMyTrade, orderID, asset, currency string) (core.OrderSummary, error) {
	summary := core.OrderSummary{
		Fees: make(map[string]float64),
	}

	found := false
	for _, f := range fills {
		if opaqueID(f.OrderID) != orderID {
			continue
		}
		found = true

		price := parseFloat(f.Price)
		qty := parseFloat(f.Qty)
		if summary.Amount+qty > 0 {
			summary.AvgPrice = (summary.AvgPrice*summary.Amount + price*qty) / (summary.Amount + qty)
		}
		summary.Amount += qty
		summary.Fees[f.CommissionAsset] += parseFloat(f.Commission)

		if date := time.UnixMilli(f.Time); date.After(summary.Date) {
			summary.Date = date
		}
	}

	if !found {
		return core.OrderSummary{}, fmt.Errorf("order %s not found in recent trades", orderID)
	}

	summary.FeePercent = feePercent(summary.Fees, asset, currency, summary.Amount)
	return summary, nil
}

// NormalizeOrderState maps an order response to its normalized state.
// An unrecognized status is a contract violation and fails loudly.
func (n *Normalizer) NormalizeOrderState(data *binanceOrder) (core.OrderState, error) {
	status, ok := core.ParseOrderStatus(data.Status)
	if !ok {
		return core.OrderState{}, fmt.Errorf("unrecognized order status %q", data.Status)
	}

	switch status {
	case core.StatusNew, core.StatusPartiallyFilled:
		return core.OrderState{
			Open:         true,
			FilledAmount: parseFloat(data.ExecutedQty),
		}, nil
	case core.StatusFilled:
		return core.OrderState{Executed: true}, nil
	default:
		// CANCELED, REJECTED, EXPIRED: neither open nor executed.
		return core.OrderState{}, nil
	}
}

// Fee constants. The maker rate is a static approximation; discount
// tokens and volume tiers are not accounted for.
const (
	// makerFeePercent is the base maker fee in percent.
	makerFeePercent = 0.1
	// discountFeePercent is the maker fee in percent when fees are
	// paid with the exchange's fee-discount token.
	discountFeePercent = 0.075
	// feeDiscountAsset is the exchange's fee-discount token.
	feeDiscountAsset = "BNB"
)

// feePercent approximates the proportional fee of an order from its
// accumulated fees. Best effort only: when the fee was paid in the
// quote currency the percent would have to be derived from the fill
// price, which is not tracked here, so the base rate is assumed
// instead. Fees spanning multiple currencies also fall back to the
// base rate.
func feePercent(fees map[string]float64, asset, currency string, filled float64) float64 {
	if len(fees) != 1 {
		return makerFeePercent
	}

	for feeAsset, amount := range fees {
		if feeAsset == feeDiscountAsset && asset != feeDiscountAsset && currency != feeDiscountAsset {
			return discountFeePercent
		}
		if feeAsset == asset && filled > 0 {
			return amount / filled * 100
		}
	}
	return makerFeePercent
}

// opaqueID renders a raw JSON token as an opaque identifier string.
// Numbers keep their exact digit sequence; strings are unquoted.
func opaqueID(raw json.RawMessage) string {
	s := strings.TrimSpace(string(raw))
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return s[1 : len(s)-1]
	}
	return s
}

// parseFloat converts a decimal string to float64. Empty, invalid and
// NaN values normalize to 0.
func parseFloat(s string) float64 {
	if s == "" {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) {
		return 0
	}
	return f
}

// formatFloat renders a float with its shortest exact decimal form.
// Values the caller has already rounded round-trip unchanged.
func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
