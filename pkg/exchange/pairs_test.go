package exchange

import (
	"context"
	"testing"

	"github.com/raykavin/tradectl/pkg/core"
	"github.com/stretchr/testify/require"
)

func TestSplitPair(t *testing.T) {
	stake, coin, err := SplitPair("BTC_ETH")
	require.NoError(t, err)
	require.Equal(t, "BTC", stake)
	require.Equal(t, "ETH", coin)

	for _, invalid := range []string{"BTCETH", "_ETH", "BTC_", ""} {
		_, _, err := SplitPair(invalid)
		require.ErrorIs(t, err, core.ErrInvalidPair, invalid)
	}
}

func TestJoinPairAndCoin(t *testing.T) {
	require.Equal(t, "BTC_ETH", JoinPair("btc", "eth"))
	require.Equal(t, "ETH", Coin("BTC_ETH"))
	require.Equal(t, "ETH_BTC", Coin("USDT_ETH_BTC"))
	require.Equal(t, "ETH", Coin("ETH"))
}

func TestToExchangeSymbol(t *testing.T) {
	symbol, err := ToExchangeSymbol("BTC_ETH")
	require.NoError(t, err)
	require.Equal(t, "ETHBTC", symbol)

	_, err = ToExchangeSymbol("ETHBTC")
	require.Error(t, err)
}

func TestStatic(t *testing.T) {
	ctx := context.Background()
	ex := NewStatic("paper",
		WithMarkets("BTC_ETH"),
		WithQuote("BTC_LTC", 0.002),
		WithBalance("BTC", 1, 0.5),
	)

	require.Equal(t, "paper", ex.Name())
	require.NoError(t, ex.ValidatePairs(ctx, []string{"BTC_ETH", "BTC_LTC"}))

	err := ex.ValidatePairs(ctx, []string{"BTC_ETH", "BTC_XYZ"})
	require.ErrorIs(t, err, core.ErrInvalidPair)
	require.Contains(t, err.Error(), "pair BTC_XYZ is not available at paper")

	price, err := ex.LastQuote(ctx, "BTC_LTC")
	require.NoError(t, err)
	require.Equal(t, 0.002, price)

	_, err = ex.LastQuote(ctx, "BTC_ETH")
	require.Error(t, err)

	balances, err := ex.Balances(ctx)
	require.NoError(t, err)
	require.Equal(t, []core.AssetBalance{{Asset: "BTC", Free: 1, Locked: 0.5}}, balances)
}
