package telegram

import (
	"context"
	"fmt"
	"html"
	"slices"
	"strconv"
	"strings"

	"github.com/samber/lo"
	tb "gopkg.in/tucnak/telebot.v2"
)

const defaultDailyDays = 7

type command struct {
	token       string
	usage       string
	description string
	handle      messageHandler
}

// commands is the fixed command table, in help order
func (t *Telegram) commands() []command {
	return []command{
		{"start", "/start", "Starts the trader", t.startHandle},
		{"stop", "/stop", "Stops the trader", t.stopHandle},
		{"status", "/status [table]", "Lists all open trades, table will display trades in a table", t.statusHandle},
		{"profit", "/profit", "Lists cumulative profit from all finished trades", t.profitHandle},
		{"forcesell", "/forcesell <id>|all", "Instantly sells the given trade or all trades, regardless of profit", t.forceSellHandle},
		{"performance", "/performance", "Show performance of each finished trade grouped by pair", t.performanceHandle},
		{"daily", "/daily <n>", "Shows profit or loss per day, over the last n days", t.dailyHandle},
		{"count", "/count", "Show number of trades running compared to allowed number of trades", t.countHandle},
		{"balance", "/balance", "Show account balance per currency", t.balanceHandle},
		{"config", "/config", "View or edit max open trades, stake amount and pairs", t.configHandle},
		{"help", "/help", "This help message", t.helpHandle},
		{"version", "/version", "Show version", t.versionHandle},
	}
}

// replyError shows a backend failure to the user as plain text
func (t *Telegram) replyError(err error) {
	t.SendMessage(err.Error(), tb.ModeDefault)
}

// statusHandle lists open trades, or renders them as a table with "/status table"
func (t *Telegram) statusHandle(ctx context.Context, m *tb.Message) error {
	if slices.Contains(strings.Fields(m.Payload), "table") {
		return t.statusTableHandle(ctx, m)
	}

	statuses, err := t.backend.TradeStatus(ctx)
	if err != nil {
		t.replyError(err)
		return nil
	}

	for _, status := range statuses {
		t.SendMessage(formatTradeStatus(status), tb.ModeMarkdown)
	}
	return nil
}

func (t *Telegram) statusTableHandle(ctx context.Context, _ *tb.Message) error {
	rows, err := t.backend.StatusTable(ctx)
	if err != nil {
		t.replyError(err)
		return nil
	}

	t.SendMessage(pre(formatStatusTable(rows)), tb.ModeHTML)
	return nil
}

func (t *Telegram) profitHandle(ctx context.Context, _ *tb.Message) error {
	stats, err := t.backend.TradeStatistics(ctx, t.settings.StakeCurrency, t.settings.FiatDisplayCurrency)
	if err != nil {
		t.replyError(err)
		return nil
	}

	t.SendMessage(formatProfit(stats, t.settings.StakeCurrency, t.settings.FiatDisplayCurrency), tb.ModeMarkdown)
	return nil
}

func (t *Telegram) balanceHandle(ctx context.Context, _ *tb.Message) error {
	balance, err := t.backend.Balance(ctx, t.settings.FiatDisplayCurrency)
	if err != nil {
		t.log.WithError(err).Debug("balance unavailable")
		t.SendMessage("`All balances are zero.`", tb.ModeMarkdown)
		return nil
	}

	t.SendMessage(formatBalance(balance), tb.ModeMarkdown)
	return nil
}

func (t *Telegram) startHandle(ctx context.Context, _ *tb.Message) error {
	msg, err := t.backend.Start(ctx)
	if err != nil {
		t.replyError(err)
		return nil
	}
	t.SendMessage(msg, tb.ModeMarkdown)
	return nil
}

func (t *Telegram) stopHandle(ctx context.Context, _ *tb.Message) error {
	msg, err := t.backend.Stop(ctx)
	if err != nil {
		t.replyError(err)
		return nil
	}
	t.SendMessage(msg, tb.ModeMarkdown)
	return nil
}

func (t *Telegram) forceSellHandle(ctx context.Context, m *tb.Message) error {
	msg, err := t.backend.ForceSell(ctx, strings.TrimSpace(m.Payload))
	if err != nil {
		t.replyError(err)
		return nil
	}
	t.SendMessage(msg, tb.ModeMarkdown)
	return nil
}

func (t *Telegram) performanceHandle(ctx context.Context, _ *tb.Message) error {
	performance, err := t.backend.Performance(ctx)
	if err != nil {
		t.replyError(err)
		return nil
	}

	t.SendMessage(formatPerformance(performance), tb.ModeHTML)
	return nil
}

// dailyDays reads the lookback of /daily. Anything but an integer means 7 days.
func dailyDays(payload string) int {
	days, err := strconv.Atoi(strings.TrimSpace(payload))
	if err != nil {
		return defaultDailyDays
	}
	return days
}

func (t *Telegram) dailyHandle(ctx context.Context, m *tb.Message) error {
	days := dailyDays(m.Payload)
	stake, fiat := t.settings.StakeCurrency, t.settings.FiatDisplayCurrency

	profits, err := t.backend.DailyProfit(ctx, days, stake, fiat)
	if err != nil {
		t.replyError(err)
		return nil
	}

	t.SendMessage(fmt.Sprintf("<b>Daily Profit over the last %d days</b>:\n%s",
		days, pre(formatDailyTable(profits, stake, fiat))), tb.ModeHTML)
	return nil
}

func (t *Telegram) countHandle(ctx context.Context, _ *tb.Message) error {
	trades, err := t.backend.OpenTrades(ctx)
	if err != nil {
		t.replyError(err)
		return nil
	}

	table := renderTable([]string{"current", "max"}, [][]string{
		{strconv.Itoa(len(trades)), strconv.Itoa(t.settings.MaxOpenTrades)},
	})
	t.log.Debug(table)
	t.SendMessage(pre(table), tb.ModeHTML)
	return nil
}

func (t *Telegram) configHandle(_ context.Context, _ *tb.Message) error {
	markup := inlineMarkup([]tb.InlineButton{
		{Text: "View config", Data: dataViewConfig},
		{Text: "Edit config", Data: dataEditConfig},
	}, 2)
	t.sendInline("Okay, What do you want to do with config?", markup, tb.ModeDefault)
	return nil
}

func (t *Telegram) helpHandle(_ context.Context, _ *tb.Message) error {
	lines := lo.Map(t.commands(), func(cmd command, _ int) string {
		return fmt.Sprintf("*%s:* `%s`", cmd.usage, cmd.description)
	})
	t.SendMessage(strings.Join(lines, "\n"), tb.ModeMarkdown)
	return nil
}

func (t *Telegram) versionHandle(_ context.Context, _ *tb.Message) error {
	t.SendMessage(fmt.Sprintf("*Version:* `%s`", t.version), tb.ModeMarkdown)
	return nil
}

// callbackHandle acknowledges a button press and feeds it to the conversation
func (t *Telegram) callbackHandle(ctx context.Context, c *tb.Callback) error {
	if err := t.client.Respond(c); err != nil {
		t.log.WithError(err).Debug("failed to answer callback")
	}

	action, ok := ParseCallback(c.Data)
	if !ok {
		t.log.WithField("data", c.Data).Debug("ignoring unknown callback")
		return nil
	}
	return t.onCallback(ctx, c.Message, action)
}

// textHandle feeds free text to the conversation. Text outside a conversation is ignored.
func (t *Telegram) textHandle(ctx context.Context, m *tb.Message) error {
	if t.session.State() == StateIdle {
		return nil
	}
	return t.onText(ctx, m.Text)
}

// viewConfig replaces the config menu with the editable values
func (t *Telegram) viewConfig(origin *tb.Message) {
	listType := t.settings.Exchange.ListType.Label() + "ed"
	text := fmt.Sprintf("∙ <b>Max Open Trades:</b> %d\n"+
		"∙ <b>Stake Amount:</b> %s %s\n"+
		"∙ <b>%s Currencies:</b>\n%s",
		t.settings.MaxOpenTrades,
		formatAmount(t.settings.StakeAmount), html.EscapeString(t.settings.StakeCurrency),
		listType,
		pre(formatPairsTable(t.settings.EditablePairs())))
	t.editOrSend(origin, text, &tb.SendOptions{ParseMode: tb.ModeHTML})
}

// editConfig replaces the config menu with the field chooser
func (t *Telegram) editConfig(origin *tb.Message) {
	markup := inlineMarkup([]tb.InlineButton{
		{Text: "Edit Max Open Trades", Data: dataEditMaxTrades},
		{Text: "Edit Stake Amount", Data: dataEditStakeAmount},
		{Text: "Edit Pair " + t.settings.Exchange.ListType.Label(), Data: dataEditPairs},
	}, 1)
	t.editOrSend(origin, "Select your action", &tb.SendOptions{ReplyMarkup: markup})
}
