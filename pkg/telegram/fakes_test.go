package telegram

import (
	"context"
	"testing"
	"time"

	"github.com/jpillora/backoff"
	"github.com/raykavin/tradectl/pkg/core"
	"github.com/raykavin/tradectl/pkg/exchange"
	"github.com/raykavin/tradectl/pkg/logger/zerolog"
	"github.com/stretchr/testify/require"
	tb "gopkg.in/tucnak/telebot.v2"
)

const authorizedChat = 42

type outgoing struct {
	Text    string
	Options *tb.SendOptions
	Edited  bool
}

type fakeClient struct {
	attempts  int
	responses int
	errs      []error
	messages  []outgoing
}

func (f *fakeClient) next() error {
	f.attempts++
	if len(f.errs) == 0 {
		return nil
	}
	err := f.errs[0]
	f.errs = f.errs[1:]
	return err
}

func (f *fakeClient) record(what interface{}, options []interface{}, edited bool) {
	msg := outgoing{Text: what.(string), Edited: edited}
	if len(options) > 0 {
		msg.Options, _ = options[0].(*tb.SendOptions)
	}
	f.messages = append(f.messages, msg)
}

func (f *fakeClient) Send(_ tb.Recipient, what interface{}, options ...interface{}) (*tb.Message, error) {
	if err := f.next(); err != nil {
		return nil, err
	}
	f.record(what, options, false)
	return &tb.Message{}, nil
}

func (f *fakeClient) Edit(_ tb.Editable, what interface{}, options ...interface{}) (*tb.Message, error) {
	if err := f.next(); err != nil {
		return nil, err
	}
	f.record(what, options, true)
	return &tb.Message{}, nil
}

func (f *fakeClient) Respond(_ *tb.Callback, _ ...*tb.CallbackResponse) error {
	f.responses++
	return nil
}

func (f *fakeClient) last() outgoing {
	if len(f.messages) == 0 {
		return outgoing{}
	}
	return f.messages[len(f.messages)-1]
}

type fakeBackend struct {
	markets map[string]bool

	dailyDays        []int
	tradeStatusCalls int
	statusTableCalls int
	forceSellIDs     []string
	deadlines        []bool

	statuses []core.TradeStatus
	rows     []core.StatusRow
	startErr error
	panicOn  string
}

func (f *fakeBackend) TradeStatus(context.Context) ([]core.TradeStatus, error) {
	f.tradeStatusCalls++
	if len(f.statuses) == 0 {
		return nil, core.ErrNoActiveTrade
	}
	return f.statuses, nil
}

func (f *fakeBackend) StatusTable(context.Context) ([]core.StatusRow, error) {
	f.statusTableCalls++
	return f.rows, nil
}

func (f *fakeBackend) DailyProfit(_ context.Context, days int, _, _ string) ([]core.DailyProfit, error) {
	f.dailyDays = append(f.dailyDays, days)
	return []core.DailyProfit{{Day: time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC), ProfitStake: 0.1, ProfitFiat: 5000, Trades: 1}}, nil
}

func (f *fakeBackend) TradeStatistics(context.Context, string, string) (core.TradeStatistics, error) {
	return core.TradeStatistics{}, core.ErrNoClosedTrades
}

func (f *fakeBackend) Balance(context.Context, string) (core.Balance, error) {
	return core.Balance{}, core.ErrAllBalancesZero
}

func (f *fakeBackend) Start(context.Context) (string, error) {
	if f.panicOn == "start" {
		panic("backend exploded")
	}
	if f.startErr != nil {
		return "", f.startErr
	}
	return "`Starting trader ...`", nil
}

func (f *fakeBackend) Stop(context.Context) (string, error) {
	return "`Stopping trader ...`", nil
}

func (f *fakeBackend) ForceSell(ctx context.Context, id string) (string, error) {
	_, hasDeadline := ctx.Deadline()
	f.deadlines = append(f.deadlines, hasDeadline)
	f.forceSellIDs = append(f.forceSellIDs, id)
	return "Sold trade `" + id + "`.", nil
}

func (f *fakeBackend) Performance(context.Context) ([]core.PairPerformance, error) {
	return []core.PairPerformance{{Pair: "BTC_ETH", Profit: 12.5, Count: 3}}, nil
}

func (f *fakeBackend) OpenTrades(context.Context) ([]core.Trade, error) {
	return []core.Trade{{ID: 1, Pair: "BTC_ETH", IsOpen: true}}, nil
}

func (f *fakeBackend) ValidatePairs(_ context.Context, pairs []string) error {
	for _, pair := range pairs {
		if !f.markets[pair] {
			return exchange.NotAvailableError(pair, "paper")
		}
	}
	return nil
}

type fakeStore struct {
	saved []core.ConfigSnapshot
	err   error
}

func (f *fakeStore) Save(snapshot core.ConfigSnapshot) error {
	if f.err != nil {
		return f.err
	}
	f.saved = append(f.saved, snapshot)
	return nil
}

type harness struct {
	router   *Telegram
	client   *fakeClient
	backend  *fakeBackend
	store    *fakeStore
	settings *core.Settings
}

func testSettings() *core.Settings {
	return &core.Settings{
		MaxOpenTrades:       3,
		StakeAmount:         0.05,
		StakeCurrency:       "BTC",
		FiatDisplayCurrency: "USD",
		Exchange: core.ExchangeSettings{
			Name:          "paper",
			PairWhitelist: []string{"BTC_ETH", "BTC_LTC"},
			PairBlacklist: []string{"BTC_DOGE"},
			ListType:      core.ListTypeStatic,
		},
		Telegram: core.TelegramSettings{Enabled: true, ChatID: authorizedChat},
	}
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	h := &harness{
		client: &fakeClient{},
		backend: &fakeBackend{markets: map[string]bool{
			"BTC_ETH": true, "BTC_LTC": true, "BTC_XRP": true,
		}},
		store:    &fakeStore{},
		settings: testSettings(),
	}

	router, err := New(h.settings, h.backend, h.store, zerolog.Nop(),
		WithClient(h.client),
		WithRetryBackoff(&backoff.Backoff{Min: time.Nanosecond, Max: time.Nanosecond}),
		WithVersion("1.2.3"),
	)
	require.NoError(t, err)
	h.router = router
	return h
}

func (h *harness) commandFrom(chatID int64, token, payload string) {
	handler := h.router.endpoints()["/"+token].(func(*tb.Message))
	handler(&tb.Message{
		Chat:    &tb.Chat{ID: chatID},
		Text:    "/" + token + " " + payload,
		Payload: payload,
	})
}

func (h *harness) command(token, payload string) {
	h.commandFrom(authorizedChat, token, payload)
}

func (h *harness) textFrom(chatID int64, text string) {
	handler := h.router.endpoints()[tb.OnText].(func(*tb.Message))
	handler(&tb.Message{Chat: &tb.Chat{ID: chatID}, Text: text})
}

func (h *harness) text(text string) {
	h.textFrom(authorizedChat, text)
}

func (h *harness) callbackFrom(chatID int64, data string) {
	handler := h.router.endpoints()[tb.OnCallback].(func(*tb.Callback))
	handler(&tb.Callback{
		Data:    data,
		Message: &tb.Message{ID: 10, Chat: &tb.Chat{ID: chatID}},
	})
}

func (h *harness) callback(data string) {
	h.callbackFrom(authorizedChat, data)
}
