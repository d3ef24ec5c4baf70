package core

import "context"

// Backend is the trading-control facade the chat router talks to. Every call
// either returns a payload or an error whose text is shown to the user as is.
type Backend interface {
	TradeStatus(ctx context.Context) ([]TradeStatus, error)
	StatusTable(ctx context.Context) ([]StatusRow, error)
	DailyProfit(ctx context.Context, days int, stakeCurrency, fiatCurrency string) ([]DailyProfit, error)
	TradeStatistics(ctx context.Context, stakeCurrency, fiatCurrency string) (TradeStatistics, error)
	Balance(ctx context.Context, fiatCurrency string) (Balance, error)
	Start(ctx context.Context) (string, error)
	Stop(ctx context.Context) (string, error)
	ForceSell(ctx context.Context, tradeID string) (string, error)
	Performance(ctx context.Context) ([]PairPerformance, error)
	OpenTrades(ctx context.Context) ([]Trade, error)
	// ValidatePairs fails with a descriptive error when any fully qualified
	// pair (STAKE_COIN) is not supported by the exchange.
	ValidatePairs(ctx context.Context, pairs []string) error
}

// ConfigStore persists the editable configuration.
type ConfigStore interface {
	Save(snapshot ConfigSnapshot) error
}

// Exchange is the market access the backend needs. Pairs use the STAKE_COIN form.
type Exchange interface {
	Name() string
	ValidatePairs(ctx context.Context, pairs []string) error
	Balances(ctx context.Context) ([]AssetBalance, error)
	LastQuote(ctx context.Context, pair string) (float64, error)
}

type Notifier interface {
	Notify(text string)
	OnTrade(trade Trade)
	OnError(err error)
}

type NotifierWithStart interface {
	Notifier
	Start()
	Cleanup()
}
