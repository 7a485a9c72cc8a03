package binance

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nakula/pkg/core"
)

func TestNewNormalizer(t *testing.T) {
	n := NewNormalizer()
	assert.NotNil(t, n)
}

func TestNormalizeTrades(t *testing.T) {
	n := NewNormalizer()

	data := []binanceAggTrade{
		{ID: json.RawMessage(`26129`), Price: "0.01633102", Qty: "4.70443515", Time: 1498793709153},
		{ID: json.RawMessage(`26130`), Price: "0.01633103", Qty: "1.5", Time: 1498793709453},
	}

	trades := n.NormalizeTrades(data)
	require.Len(t, trades, 2)

	assert.Equal(t, "26129", trades[0].ID)
	assert.Equal(t, 0.01633102, trades[0].Price)
	assert.Equal(t, 4.70443515, trades[0].Amount)
	assert.Equal(t, time.UnixMilli(1498793709153), trades[0].Timestamp)
	assert.Equal(t, "26130", trades[1].ID)
}

func TestNormalizePortfolio(t *testing.T) {
	n := NewNormalizer()

	account := &binanceAccount{
		Balances: []binanceBalance{
			{Asset: "BTC", Free: "4723846.89208129", Locked: "0.001"},
			{Asset: "USDT", Free: "1000.50", Locked: "0"},
			{Asset: "LTC", Free: "4763368.68006011", Locked: "0"},
		},
	}

	p := n.NormalizePortfolio(account, "BTC", "USDT")
	assert.Equal(t, 4723846.89208129, p.AssetAmount)
	assert.Equal(t, 1000.50, p.CurrencyAmount)
}

func TestNormalizePortfolio_MissingAndInvalid(t *testing.T) {
	n := NewNormalizer()

	account := &binanceAccount{
		Balances: []binanceBalance{
			{Asset: "BTC", Free: "not-a-number"},
		},
	}

	// Unparseable and absent balances both normalize to 0.
	p := n.NormalizePortfolio(account, "BTC", "USDT")
	assert.Zero(t, p.AssetAmount)
	assert.Zero(t, p.CurrencyAmount)
}

func TestNormalizeTicker(t *testing.T) {
	n := NewNormalizer()

	data := &binanceBookTicker{
		Symbol:   "BTCUSDT",
		BidPrice: "50000.00",
		AskPrice: "50001.00",
	}

	ticker := n.NormalizeTicker(data)
	assert.Equal(t, 50001.00, ticker.Ask)
	assert.Equal(t, 50000.00, ticker.Bid)
}

func TestNormalizeOrderSummary_TwoFills(t *testing.T) {
	n := NewNormalizer()

	fills := []binanceMyTrade{
		{OrderID: json.RawMessage(`42`), Price: "100", Qty: "1", Commission: "0.1", CommissionAsset: "X", Time: 1000},
		{OrderID: json.RawMessage(`42`), Price: "102", Qty: "1", Commission: "0.1", CommissionAsset: "X", Time: 2000},
		{OrderID: json.RawMessage(`99`), Price: "500", Qty: "3", Commission: "1", CommissionAsset: "X", Time: 3000},
	}

	summary, err := n.NormalizeOrderSummary(fills, "42", "BTC", "USDT")
	require.NoError(t, err)

	assert.Equal(t, 2.0, summary.Amount)
	assert.Equal(t, 101.0, summary.AvgPrice)
	assert.InDelta(t, 0.2, summary.Fees["X"], 1e-12)
	assert.Equal(t, time.UnixMilli(2000), summary.Date)
}

func TestNormalizeOrderSummary_NotFound(t *testing.T) {
	n := NewNormalizer()

	fills := []binanceMyTrade{
		{OrderID: json.RawMessage(`99`), Price: "500", Qty: "3"},
	}

	_, err := n.NormalizeOrderSummary(fills, "42", "BTC", "USDT")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "42")
}

func TestNormalizeOrderSummary_FeePercent(t *testing.T) {
	tests := []struct {
		name     string
		fills    []binanceMyTrade
		asset    string
		currency string
		want     float64
	}{
		{
			name: "discount_token",
			fills: []binanceMyTrade{
				{OrderID: json.RawMessage(`1`), Price: "100", Qty: "1", Commission: "0.01", CommissionAsset: "BNB"},
			},
			asset:    "BTC",
			currency: "USDT",
			want:     discountFeePercent,
		},
		{
			name: "fee_in_asset",
			fills: []binanceMyTrade{
				{OrderID: json.RawMessage(`1`), Price: "100", Qty: "2", Commission: "0.002", CommissionAsset: "BTC"},
			},
			asset:    "BTC",
			currency: "USDT",
			want:     0.1, // 0.002/2*100
		},
		{
			name: "fee_in_currency",
			fills: []binanceMyTrade{
				{OrderID: json.RawMessage(`1`), Price: "100", Qty: "1", Commission: "0.1", CommissionAsset: "USDT"},
			},
			asset:    "BTC",
			currency: "USDT",
			want:     makerFeePercent,
		},
		{
			name: "bnb_is_pair_leg",
			fills: []binanceMyTrade{
				{OrderID: json.RawMessage(`1`), Price: "300", Qty: "1", Commission: "0.001", CommissionAsset: "BNB"},
			},
			asset:    "BNB",
			currency: "USDT",
			want:     0.1, // 0.001/1*100; the discount shortcut must not apply
		},
		{
			name: "multiple_fee_currencies",
			fills: []binanceMyTrade{
				{OrderID: json.RawMessage(`1`), Price: "100", Qty: "1", Commission: "0.001", CommissionAsset: "BTC"},
				{OrderID: json.RawMessage(`1`), Price: "100", Qty: "1", Commission: "0.01", CommissionAsset: "BNB"},
			},
			asset:    "BTC",
			currency: "USDT",
			want:     makerFeePercent,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := NewNormalizer()
			summary, err := n.NormalizeOrderSummary(tt.fills, "1", tt.asset, tt.currency)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, summary.FeePercent, 1e-12)
		})
	}
}

func TestNormalizeOrderState(t *testing.T) {
	tests := []struct {
		status string
		want   core.OrderState
	}{
		{"NEW", core.OrderState{Open: true}},
		{"PARTIALLY_FILLED", core.OrderState{Open: true, FilledAmount: 0.5}},
		{"FILLED", core.OrderState{Executed: true}},
		{"CANCELED", core.OrderState{}},
		{"REJECTED", core.OrderState{}},
		{"EXPIRED", core.OrderState{}},
	}

	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			n := NewNormalizer()
			state, err := n.NormalizeOrderState(&binanceOrder{
				Status:      tt.status,
				ExecutedQty: "0.5",
			})
			require.NoError(t, err)

			if tt.want.Open {
				tt.want.FilledAmount = 0.5
			}
			assert.Equal(t, tt.want, state)
		})
	}
}

func TestNormalizeOrderState_Unrecognized(t *testing.T) {
	n := NewNormalizer()

	_, err := n.NormalizeOrderState(&binanceOrder{Status: "SHRUGGING"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SHRUGGING")
}

func TestOpaqueID(t *testing.T) {
	// The exchange returns order ids inconsistently as number or
	// string; both forms must come out as the same opaque token.
	assert.Equal(t, "12345", opaqueID(json.RawMessage(`12345`)))
	assert.Equal(t, "12345", opaqueID(json.RawMessage(`"12345"`)))
	assert.Equal(t, "9223372036854775807", opaqueID(json.RawMessage(`9223372036854775807`)))
	assert.Equal(t, "", opaqueID(nil))
}

func TestParseFloat(t *testing.T) {
	assert.Equal(t, 1.5, parseFloat("1.5"))
	assert.Zero(t, parseFloat(""))
	assert.Zero(t, parseFloat("garbage"))
	assert.Zero(t, parseFloat("NaN"))
}

func TestFormatFloat(t *testing.T) {
	assert.Equal(t, "0.0000001", formatFloat(0.0000001))
	assert.Equal(t, "50000.12", formatFloat(50000.12))
}
