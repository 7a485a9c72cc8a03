package binance

import "nakula/pkg/market"

// Markets is the static market metadata table for the supported
// Binance spot pairs. Tick sizes and minimum notional values follow
// the exchange's published trading rules; the table is loaded once and
// read-only for the process lifetime.
var Markets = market.Table{
	{
		Pair: "BTCUSDT", Asset: "BTC", Currency: "USDT",
		MinimalOrder: market.MinimalOrder{Price: 0.01, Amount: 0.00001, Order: 5},
	},
	{
		Pair: "ETHUSDT", Asset: "ETH", Currency: "USDT",
		MinimalOrder: market.MinimalOrder{Price: 0.01, Amount: 0.0001, Order: 5},
	},
	{
		Pair: "BNBUSDT", Asset: "BNB", Currency: "USDT",
		MinimalOrder: market.MinimalOrder{Price: 0.1, Amount: 0.001, Order: 5},
	},
	{
		Pair: "SOLUSDT", Asset: "SOL", Currency: "USDT",
		MinimalOrder: market.MinimalOrder{Price: 0.01, Amount: 0.001, Order: 5},
	},
	{
		Pair: "XRPUSDT", Asset: "XRP", Currency: "USDT",
		MinimalOrder: market.MinimalOrder{Price: 0.0001, Amount: 1, Order: 5},
	},
	{
		Pair: "LTCUSDT", Asset: "LTC", Currency: "USDT",
		MinimalOrder: market.MinimalOrder{Price: 0.01, Amount: 0.001, Order: 5},
	},
	{
		Pair: "ADAUSDT", Asset: "ADA", Currency: "USDT",
		MinimalOrder: market.MinimalOrder{Price: 0.0001, Amount: 0.1, Order: 5},
	},
	{
		Pair: "DOGEUSDT", Asset: "DOGE", Currency: "USDT",
		MinimalOrder: market.MinimalOrder{Price: 0.00001, Amount: 1, Order: 5},
	},
	{
		Pair: "ETHBTC", Asset: "ETH", Currency: "BTC",
		MinimalOrder: market.MinimalOrder{Price: 0.00001, Amount: 0.0001, Order: 0.0001},
	},
	{
		Pair: "BNBBTC", Asset: "BNB", Currency: "BTC",
		MinimalOrder: market.MinimalOrder{Price: 0.0000001, Amount: 0.001, Order: 0.0001},
	},
	{
		Pair: "LTCBTC", Asset: "LTC", Currency: "BTC",
		MinimalOrder: market.MinimalOrder{Price: 0.000001, Amount: 0.001, Order: 0.0001},
	},
	{
		Pair: "BNBETH", Asset: "BNB", Currency: "ETH",
		MinimalOrder: market.MinimalOrder{Price: 0.000001, Amount: 0.001, Order: 0.005},
	},
}
