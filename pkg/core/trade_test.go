package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestTrade_Profit(t *testing.T) {
	trade := Trade{Pair: "BTC_ETH", Amount: 10, OpenRate: 0.05, IsOpen: true}

	require.InDelta(t, 0.1, trade.ProfitRatio(0.055), 1e-9)
	require.InDelta(t, 0.05, trade.ProfitAbs(0.055), 1e-9)
	require.Zero(t, Trade{}.ProfitRatio(1))
}

func TestTrade_Close(t *testing.T) {
	at := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	trade := Trade{Pair: "BTC_ETH", Amount: 10, OpenRate: 0.05, IsOpen: true}

	trade.Close(0.045, at)

	require.False(t, trade.IsOpen)
	require.Equal(t, at, trade.CloseDate)
	require.InDelta(t, -0.1, trade.CloseProfit, 1e-9)
	require.Contains(t, trade.String(), "closed")
}

func TestTradeFilters(t *testing.T) {
	open := Trade{ID: 1, Pair: "BTC_ETH", IsOpen: true}
	closed := Trade{ID: 2, Pair: "BTC_LTC"}

	require.True(t, WithOpen()(open))
	require.False(t, WithOpen()(closed))
	require.True(t, WithClosed()(closed))
	require.True(t, WithID(1)(open))
	require.False(t, WithID(1)(closed))
}
