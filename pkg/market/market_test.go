package market

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testMarket = Market{
	Pair:     "BTCUSDT",
	Asset:    "BTC",
	Currency: "USDT",
	MinimalOrder: MinimalOrder{
		Price:  0.01,
		Amount: 0.00001,
		Order:  5,
	},
}

func TestMarket_RoundPrice(t *testing.T) {
	assert.Equal(t, "50000.12", testMarket.RoundPrice(50000.1299))
	assert.Equal(t, "0.01", testMarket.RoundPrice(0.0199))
}

func TestMarket_RoundAmount(t *testing.T) {
	assert.Equal(t, "0.12345", testMarket.RoundAmount(0.123456789))
	assert.Equal(t, "2", testMarket.RoundAmount(2.000001))
}

func TestMarket_ValidPrice(t *testing.T) {
	assert.True(t, testMarket.ValidPrice(0.01))
	assert.True(t, testMarket.ValidPrice(50000))
	assert.False(t, testMarket.ValidPrice(0.009))
	assert.False(t, testMarket.ValidPrice(0))
}

func TestMarket_ValidLot(t *testing.T) {
	// Valid iff price*amount meets the minimum notional value.
	assert.True(t, testMarket.ValidLot(50000, 0.0001))
	assert.True(t, testMarket.ValidLot(5, 1))
	assert.False(t, testMarket.ValidLot(50000, 0.00009))
	assert.False(t, testMarket.ValidLot(4.99, 1))
}

func TestMarket_OutbidPrice(t *testing.T) {
	assert.Equal(t, "100.01", testMarket.OutbidPrice(100, true))
	assert.Equal(t, "99.99", testMarket.OutbidPrice(100, false))
}

func TestTable_Lookup(t *testing.T) {
	table := Table{testMarket}

	m, err := table.Lookup("BTC", "USDT")
	require.NoError(t, err)
	assert.Equal(t, "BTCUSDT", m.Pair)
}

func TestTable_Lookup_NotConfigured(t *testing.T) {
	table := Table{testMarket}

	_, err := table.Lookup("DOGE", "EUR")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotConfigured)
	assert.Contains(t, err.Error(), "DOGEEUR")
}

func TestTable_Pairs(t *testing.T) {
	table := Table{
		testMarket,
		{Pair: "ETHUSDT", Asset: "ETH", Currency: "USDT"},
	}

	assert.Equal(t, []string{"BTCUSDT", "ETHUSDT"}, table.Pairs())
}
