package binance

import "nakula/pkg/trader"

// Capabilities returns the static capability descriptor for the
// Binance adapter: identity, required credentials, supported markets
// and history semantics. Currencies, assets and markets are derived
// from the market table so the two can never drift apart.
func Capabilities() trader.Capabilities {
	currencies := make([]string, 0)
	assets := make([]string, 0)
	seenCurrency := make(map[string]bool)
	seenAsset := make(map[string]bool)

	for _, m := range Markets {
		if !seenCurrency[m.Currency] {
			seenCurrency[m.Currency] = true
			currencies = append(currencies, m.Currency)
		}
		if !seenAsset[m.Asset] {
			seenAsset[m.Asset] = true
			assets = append(assets, m.Asset)
		}
	}

	return trader.Capabilities{
		Name:              "Binance",
		Slug:              exchangeName,
		Currencies:        currencies,
		Assets:            assets,
		Markets:           Markets.Pairs(),
		Requires:          []string{"key", "secret"},
		ProvidesHistory:   "date",
		Tradable:          true,
		ForceReorderDelay: false,
	}
}
