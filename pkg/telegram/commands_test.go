package telegram

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/raykavin/tradectl/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tb "gopkg.in/tucnak/telebot.v2"
)

func TestEndpoints(t *testing.T) {
	h := newHarness(t)

	endpoints := h.router.endpoints()
	assert.Len(t, endpoints, 14)
	for _, token := range []string{
		"status", "profit", "balance", "start", "stop", "forcesell",
		"performance", "daily", "count", "config", "help", "version",
	} {
		assert.Contains(t, endpoints, "/"+token)
	}
	assert.Contains(t, endpoints, tb.OnCallback)
	assert.Contains(t, endpoints, tb.OnText)
}

func TestGate_RejectsUnauthorized(t *testing.T) {
	h := newHarness(t)
	const stranger = int64(7)

	h.commandFrom(stranger, "config", "")
	h.commandFrom(stranger, "start", "")
	h.callbackFrom(stranger, "edit_pairs")
	assert.Equal(t, StateIdle, h.router.Session().State())

	h.callback("edit_max_open_trades")
	h.textFrom(stranger, "9")
	attempts := h.client.attempts

	assert.Equal(t, StateAwaitingMaxTrades, h.router.Session().State())
	assert.Equal(t, 3, h.settings.MaxOpenTrades)
	assert.Empty(t, h.store.saved)
	assert.Equal(t, 1, attempts)
	assert.Equal(t, 1, h.client.responses)
}

func TestGate_CallbackWithoutMessageUsesSender(t *testing.T) {
	h := newHarness(t)

	handler := h.router.endpoints()[tb.OnCallback].(func(*tb.Callback))
	handler(&tb.Callback{Data: "edit_config", Sender: &tb.User{ID: authorizedChat}})

	last := h.client.last()
	assert.False(t, last.Edited)
	assert.Equal(t, "Select your action", last.Text)
}

func TestGate_RecoversPanics(t *testing.T) {
	h := newHarness(t)
	h.backend.panicOn = "start"

	require.NotPanics(t, func() { h.command("start", "") })

	h.backend.panicOn = ""
	h.command("start", "")
	assert.Equal(t, "`Starting trader ...`", h.client.last().Text)
}

func TestCommand_Daily(t *testing.T) {
	h := newHarness(t)

	h.command("daily", "")
	h.command("daily", "3")
	h.command("daily", "abc")
	h.command("daily", " 14 ")

	assert.Equal(t, []int{7, 3, 7, 14}, h.backend.dailyDays)

	last := h.client.last()
	assert.Equal(t, tb.ModeHTML, last.Options.ParseMode)
	assert.True(t, strings.HasPrefix(last.Text, "<b>Daily Profit over the last 14 days</b>:\n<pre>"))
	assert.Contains(t, last.Text, "2024-06-10")
	assert.Contains(t, last.Text, "0.10000000 BTC")
	assert.Contains(t, last.Text, "5000.000 USD")
}

func TestDailyDays(t *testing.T) {
	assert.Equal(t, 7, dailyDays(""))
	assert.Equal(t, 7, dailyDays("week"))
	assert.Equal(t, 3, dailyDays("3"))
	assert.Equal(t, 0, dailyDays("0"))
}

func TestCommand_Status(t *testing.T) {
	h := newHarness(t)

	h.command("status", "")
	assert.Equal(t, 1, h.backend.tradeStatusCalls)
	assert.Equal(t, core.ErrNoActiveTrade.Error(), h.client.last().Text)

	h.backend.statuses = []core.TradeStatus{
		{Trade: core.Trade{ID: 1, Pair: "BTC_ETH", IsOpen: true, Amount: 10, OpenRate: 0.05, OpenDate: time.Now()}, CurrentRate: 0.06, CurrentProfit: 0.2},
		{Trade: core.Trade{ID: 2, Pair: "BTC_LTC", IsOpen: true, Amount: 1, OpenRate: 0.002, OpenDate: time.Now()}, CurrentRate: 0.002},
	}
	sent := len(h.client.messages)
	h.command("status", "")
	require.Len(t, h.client.messages, sent+2)
	assert.Contains(t, h.client.messages[sent].Text, "*Current Pair:* `BTC_ETH`")
	assert.Contains(t, h.client.messages[sent].Text, "*Current Profit:* `20.00%`")

	h.backend.rows = []core.StatusRow{{ID: 1, Pair: "BTC_ETH", Since: 90 * time.Minute, Profit: 20}}
	h.command("status", "table")
	assert.Equal(t, 1, h.backend.statusTableCalls)
	assert.Equal(t, 2, h.backend.tradeStatusCalls)

	table := h.client.last()
	assert.Equal(t, tb.ModeHTML, table.Options.ParseMode)
	assert.True(t, strings.HasPrefix(table.Text, "<pre>"))
	assert.Contains(t, table.Text, "1h 30m")
	assert.Contains(t, table.Text, "20.00%")
}

func TestCommand_StartSurfacesBackendError(t *testing.T) {
	h := newHarness(t)
	h.backend.startErr = errors.New("already running")

	h.command("start", "")
	last := h.client.last()
	assert.Equal(t, "already running", last.Text)
	assert.Equal(t, tb.ModeDefault, last.Options.ParseMode)
}

func TestCommand_ForceSell(t *testing.T) {
	h := newHarness(t)

	h.command("forcesell", " 12 ")
	assert.Equal(t, []string{"12"}, h.backend.forceSellIDs)
	assert.Equal(t, "Sold trade `12`.", h.client.last().Text)
	assert.Equal(t, []bool{false}, h.backend.deadlines)
}

func TestCommand_Balance(t *testing.T) {
	h := newHarness(t)

	h.command("balance", "")
	assert.Equal(t, "`All balances are zero.`", h.client.last().Text)
}

func TestCommand_Count(t *testing.T) {
	h := newHarness(t)

	h.command("count", "")
	last := h.client.last()
	assert.Contains(t, last.Text, "current")
	assert.Contains(t, last.Text, "max")
	assert.Contains(t, last.Text, "3")
}

func TestCommand_Performance(t *testing.T) {
	h := newHarness(t)

	h.command("performance", "")
	assert.Equal(t, "<b>Performance:</b>\n1.\t<code>BTC_ETH\t12.50% (3)</code>", h.client.last().Text)
}

func TestCommand_HelpAndVersion(t *testing.T) {
	h := newHarness(t)

	h.command("help", "")
	help := h.client.last().Text
	assert.Len(t, strings.Split(help, "\n"), 12)
	assert.Contains(t, help, "*/status [table]:*")
	assert.Contains(t, help, "*/daily <n>:*")

	h.command("version", "")
	assert.Equal(t, "*Version:* `1.2.3`", h.client.last().Text)
}

func TestNotifier(t *testing.T) {
	h := newHarness(t)

	trade := core.Trade{ID: 3, Pair: "BTC_ETH", Amount: 10, OpenRate: 0.05}
	trade.Close(0.06, time.Now())
	h.router.OnTrade(trade)
	assert.Contains(t, h.client.last().Text, "*SELL* `BTC_ETH` (trade `3`)")
	assert.Contains(t, h.client.last().Text, "`20.00%`")

	h.router.OnError(errors.New("exchange down"))
	assert.Equal(t, "🛑 ERROR\n-----\nexchange down", h.client.last().Text)
}
