package backend

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/raykavin/tradectl/pkg/core"
	"github.com/raykavin/tradectl/pkg/exchange"
	"github.com/samber/lo"
)

const btc = "BTC"

// DailyProfit returns the realized profit of each of the last days, today first.
func (c *Controller) DailyProfit(ctx context.Context, days int, stakeCurrency, fiatCurrency string) ([]core.DailyProfit, error) {
	if days < 1 {
		return nil, core.ErrInvalidTimescale
	}

	closed, err := c.storage.Trades(core.WithClosed())
	if err != nil {
		return nil, fmt.Errorf("failed to load closed trades: %w", err)
	}

	byDay := lo.GroupBy(closed, func(trade *core.Trade) time.Time {
		return truncateDay(trade.CloseDate)
	})

	rate := c.fiatRate(ctx, stakeCurrency, fiatCurrency)
	today := truncateDay(c.now())

	result := make([]core.DailyProfit, 0, days)
	for i := 0; i < days; i++ {
		day := today.AddDate(0, 0, -i)
		trades := byDay[day]
		profit := lo.SumBy(trades, func(trade *core.Trade) float64 {
			return trade.ProfitAbs(trade.CloseRate)
		})
		result = append(result, core.DailyProfit{
			Day:         day,
			ProfitStake: profit,
			ProfitFiat:  profit * rate,
			Trades:      len(trades),
		})
	}
	return result, nil
}

// TradeStatistics summarizes every trade; open trades are valued at the current rate.
func (c *Controller) TradeStatistics(ctx context.Context, stakeCurrency, fiatCurrency string) (core.TradeStatistics, error) {
	trades, err := c.storage.Trades()
	if err != nil {
		return core.TradeStatistics{}, fmt.Errorf("failed to load trades: %w", err)
	}

	closed := lo.Filter(trades, func(trade *core.Trade, _ int) bool { return !trade.IsOpen })
	if len(closed) == 0 {
		return core.TradeStatistics{}, core.ErrNoClosedTrades
	}

	var (
		closedProfit  float64
		closedRatios  []float64
		allProfit     float64
		allRatios     []float64
		totalDuration time.Duration
	)

	for _, trade := range trades {
		if !trade.IsOpen {
			profit := trade.ProfitAbs(trade.CloseRate)
			closedProfit += profit
			closedRatios = append(closedRatios, trade.CloseProfit)
			allProfit += profit
			allRatios = append(allRatios, trade.CloseProfit)
			totalDuration += trade.CloseDate.Sub(trade.OpenDate)
			continue
		}

		rate, err := c.exchange.LastQuote(ctx, trade.Pair)
		if err != nil {
			return core.TradeStatistics{}, fmt.Errorf("failed to get rate of %s: %w", trade.Pair, err)
		}
		allProfit += trade.ProfitAbs(rate)
		allRatios = append(allRatios, trade.ProfitRatio(rate))
	}

	performance := performanceOf(closed)
	fiat := c.fiatRate(ctx, stakeCurrency, fiatCurrency)

	first := lo.MinBy(trades, func(a, b *core.Trade) bool { return a.OpenDate.Before(b.OpenDate) })
	latest := lo.MaxBy(trades, func(a, b *core.Trade) bool { return a.OpenDate.After(b.OpenDate) })

	return core.TradeStatistics{
		ProfitClosedCoin:    closedProfit,
		ProfitClosedPercent: mean(closedRatios) * 100,
		ProfitClosedFiat:    closedProfit * fiat,
		ProfitAllCoin:       allProfit,
		ProfitAllPercent:    mean(allRatios) * 100,
		ProfitAllFiat:       allProfit * fiat,
		TradeCount:          len(trades),
		FirstTradeDate:      first.OpenDate,
		LatestTradeDate:     latest.OpenDate,
		AvgDuration:         totalDuration / time.Duration(len(closed)),
		BestPair:            performance[0].Pair,
		BestRate:            performance[0].Profit,
	}, nil
}

// Performance aggregates closed trades per pair, best pair first.
func (c *Controller) Performance(_ context.Context) ([]core.PairPerformance, error) {
	closed, err := c.storage.Trades(core.WithClosed())
	if err != nil {
		return nil, fmt.Errorf("failed to load closed trades: %w", err)
	}
	return performanceOf(closed), nil
}

func performanceOf(trades []*core.Trade) []core.PairPerformance {
	byPair := lo.GroupBy(trades, func(trade *core.Trade) string { return trade.Pair })

	result := make([]core.PairPerformance, 0, len(byPair))
	for pair, group := range byPair {
		result = append(result, core.PairPerformance{
			Pair:   pair,
			Profit: lo.SumBy(group, func(trade *core.Trade) float64 { return trade.CloseProfit * 100 }),
			Count:  len(group),
		})
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].Profit == result[j].Profit {
			return result[i].Pair < result[j].Pair
		}
		return result[i].Profit > result[j].Profit
	})
	return result
}

// Balance values every asset of the account in BTC and in fiatCurrency.
func (c *Controller) Balance(ctx context.Context, fiatCurrency string) (core.Balance, error) {
	balances, err := c.exchange.Balances(ctx)
	if err != nil {
		return core.Balance{}, fmt.Errorf("failed to load balances: %w", err)
	}

	balances = lo.Filter(balances, func(b core.AssetBalance, _ int) bool { return b.Free+b.Locked > 0 })
	if len(balances) == 0 {
		return core.Balance{}, core.ErrAllBalancesZero
	}
	sort.Slice(balances, func(i, j int) bool { return balances[i].Asset < balances[j].Asset })

	result := core.Balance{Symbol: fiatCurrency}
	for _, balance := range balances {
		total := balance.Free + balance.Locked
		estBTC := total
		if balance.Asset != btc {
			rate, err := c.exchange.LastQuote(ctx, exchange.JoinPair(btc, balance.Asset))
			if err != nil {
				c.log.WithError(err).WithField("asset", balance.Asset).Debug("no BTC market for asset")
				rate = 0
			}
			estBTC = total * rate
		}

		result.TotalBTC += estBTC
		result.Currencies = append(result.Currencies, core.CurrencyBalance{
			Currency:  balance.Asset,
			Available: balance.Free,
			Balance:   total,
			Pending:   balance.Locked,
			EstBTC:    estBTC,
		})
	}

	result.Value = result.TotalBTC * c.fiatRate(ctx, btc, fiatCurrency)
	return result, nil
}

func truncateDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return lo.Sum(values) / float64(len(values))
}
