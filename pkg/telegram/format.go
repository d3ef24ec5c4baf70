package telegram

import (
	"fmt"
	"html"
	"strconv"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/raykavin/tradectl/pkg/core"
	"github.com/samber/lo"
)

const dateLayout = "2006-01-02 15:04:05"

// pre wraps a rendered table in an HTML preformatted block
func pre(table string) string {
	return "<pre>" + html.EscapeString(table) + "</pre>"
}

// renderTable renders rows as a borderless plain text table
func renderTable(header []string, rows [][]string) string {
	tableString := &strings.Builder{}
	table := tablewriter.NewWriter(tableString)
	table.SetHeader(header)
	table.SetAutoFormatHeaders(false)
	table.SetBorder(false)
	table.SetColumnSeparator(" ")
	table.SetCenterSeparator(" ")
	table.SetRowSeparator("-")
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.AppendBulk(rows)
	table.Render()
	return strings.TrimRight(tableString.String(), "\n")
}

func formatTradeStatus(status core.TradeStatus) string {
	closeRate := "None"
	if !status.IsOpen {
		closeRate = fmt.Sprintf("%.8f", status.CloseRate)
	}

	return fmt.Sprintf("*Trade ID:* `%d`\n"+
		"*Current Pair:* `%s`\n"+
		"*Open Since:* `%s`\n"+
		"*Amount:* `%.8f`\n"+
		"*Open Rate:* `%.8f`\n"+
		"*Close Rate:* `%s`\n"+
		"*Current Rate:* `%.8f`\n"+
		"*Current Profit:* `%.2f%%`",
		status.ID,
		status.Pair,
		humanizeSince(time.Since(status.OpenDate)),
		status.Amount,
		status.OpenRate,
		closeRate,
		status.CurrentRate,
		status.CurrentProfit*100)
}

func formatStatusTable(rows []core.StatusRow) string {
	data := lo.Map(rows, func(row core.StatusRow, _ int) []string {
		return []string{
			strconv.FormatInt(row.ID, 10),
			row.Pair,
			humanizeSince(row.Since),
			fmt.Sprintf("%.2f%%", row.Profit),
		}
	})
	return renderTable([]string{"ID", "Pair", "Since", "Profit"}, data)
}

func formatDailyTable(profits []core.DailyProfit, stake, fiat string) string {
	data := lo.Map(profits, func(day core.DailyProfit, _ int) []string {
		return []string{
			day.Day.Format(time.DateOnly),
			fmt.Sprintf("%.8f %s", day.ProfitStake, stake),
			fmt.Sprintf("%.3f %s", day.ProfitFiat, fiat),
		}
	})
	return renderTable([]string{"Day", "Profit " + stake, "Profit " + fiat}, data)
}

// formatPairsTable lays the configured pairs out in a grid of pairColumns
func formatPairsTable(pairs []string) string {
	if len(pairs) == 0 {
		return "(empty)"
	}

	rows := lo.Map(lo.Chunk(pairs, pairColumns), func(row []string, _ int) []string {
		padded := make([]string, pairColumns)
		copy(padded, row)
		return padded
	})

	tableString := &strings.Builder{}
	table := tablewriter.NewWriter(tableString)
	table.SetAlignment(tablewriter.ALIGN_CENTER)
	table.SetRowLine(true)
	table.AppendBulk(rows)
	table.Render()
	return strings.TrimRight(tableString.String(), "\n")
}

func formatProfit(stats core.TradeStatistics, coin, fiat string) string {
	return fmt.Sprintf("*ROI:* Close trades\n"+
		"  ∙ `%.8f %s (%.2f%%)`\n"+
		"  ∙ `%.3f %s`\n"+
		"*ROI:* All trades\n"+
		"  ∙ `%.8f %s (%.2f%%)`\n"+
		"  ∙ `%.3f %s`\n\n"+
		"*Total Trade Count:* `%d`\n"+
		"*First Trade opened:* `%s`\n"+
		"*Latest Trade opened:* `%s`\n"+
		"*Avg. Duration:* `%s`\n"+
		"*Best Performing:* `%s: %.2f%%`",
		stats.ProfitClosedCoin, coin, stats.ProfitClosedPercent,
		stats.ProfitClosedFiat, fiat,
		stats.ProfitAllCoin, coin, stats.ProfitAllPercent,
		stats.ProfitAllFiat, fiat,
		stats.TradeCount,
		stats.FirstTradeDate.Format(dateLayout),
		stats.LatestTradeDate.Format(dateLayout),
		stats.AvgDuration.Truncate(time.Second),
		stats.BestPair, stats.BestRate)
}

func formatBalance(balance core.Balance) string {
	var sb strings.Builder
	for _, currency := range balance.Currencies {
		fmt.Fprintf(&sb, "*Currency*: %s\n", currency.Currency)
		fmt.Fprintf(&sb, "*Available*: %s\n", formatAmount(currency.Available))
		fmt.Fprintf(&sb, "*Balance*: %s\n", formatAmount(currency.Balance))
		fmt.Fprintf(&sb, "*Pending*: %s\n", formatAmount(currency.Pending))
		fmt.Fprintf(&sb, "*Est. BTC*: %.8f\n\n", currency.EstBTC)
	}

	sb.WriteString("*Estimated Value*:\n")
	fmt.Fprintf(&sb, "*BTC*: %.8f\n", balance.TotalBTC)
	fmt.Fprintf(&sb, "*%s*: %.2f\n", balance.Symbol, balance.Value)
	return sb.String()
}

func formatPerformance(performance []core.PairPerformance) string {
	lines := lo.Map(performance, func(p core.PairPerformance, i int) string {
		return fmt.Sprintf("%d.\t<code>%s\t%.2f%% (%d)</code>", i+1, html.EscapeString(p.Pair), p.Profit, p.Count)
	})
	return "<b>Performance:</b>\n" + strings.Join(lines, "\n")
}

// formatTradeEvent describes a trade that was just opened or closed
func formatTradeEvent(trade core.Trade, stake string) string {
	if trade.IsOpen {
		return fmt.Sprintf("*BUY* `%s`\n"+
			"*Amount:* `%.8f`\n"+
			"*Open Rate:* `%.8f`",
			trade.Pair, trade.Amount, trade.OpenRate)
	}

	return fmt.Sprintf("*SELL* `%s` (trade `%d`)\n"+
		"*Close Rate:* `%.8f`\n"+
		"*Profit:* `%.2f%%` (`%.8f %s`)",
		trade.Pair, trade.ID,
		trade.CloseRate,
		trade.CloseProfit*100, trade.ProfitAbs(trade.CloseRate), stake)
}

// humanizeSince renders a duration as "2h 5m" style text
func humanizeSince(d time.Duration) string {
	d = d.Truncate(time.Minute)
	days := d / (24 * time.Hour)
	d -= days * 24 * time.Hour
	hours := d / time.Hour
	d -= hours * time.Hour
	minutes := d / time.Minute

	switch {
	case days > 0:
		return fmt.Sprintf("%dd %dh %dm", days, hours, minutes)
	case hours > 0:
		return fmt.Sprintf("%dh %dm", hours, minutes)
	default:
		return fmt.Sprintf("%dm", minutes)
	}
}
