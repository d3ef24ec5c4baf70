package main

import (
	"context"
	"fmt"
	"os"

	"github.com/raykavin/tradectl/pkg/config"
	"github.com/raykavin/tradectl/pkg/core"
	"github.com/raykavin/tradectl/pkg/exchange"
	"github.com/raykavin/tradectl/pkg/exchange/binance"
	"github.com/raykavin/tradectl/pkg/logger"
	"github.com/raykavin/tradectl/pkg/logger/logrus"
	"github.com/raykavin/tradectl/pkg/logger/zerolog"
	"github.com/raykavin/tradectl/pkg/storage"
	"github.com/samber/lo"
)

// paperQuotes seeds the dry run exchange so balances and profits can be valued
var paperQuotes = map[string]float64{
	"USDT_BTC": 60000,
}

// paperCoins are listed on the dry run exchange against the stake currency,
// next to the configured pairs.
var paperCoins = []string{
	"ETH", "BNB", "XRP", "ADA", "SOL", "DOGE", "DOT", "LTC", "LINK", "TRX",
	"XLM", "ATOM", "AVAX", "MATIC", "ETC", "BCH", "UNI", "NEO", "EOS", "XMR",
}

type tradeStorage interface {
	core.TradeStorage
	Close() error
}

func newLogger(cfg config.LoggingConfig) (logger.Logger, error) {
	switch cfg.Driver {
	case config.LoggerLogrus:
		return logrus.New(cfg.Level, cfg.JSON, os.Stderr)
	default:
		return zerolog.New(zerolog.Options{
			Level:          cfg.Level,
			DateTimeLayout: cfg.DateTimeLayout,
			Colored:        cfg.Colored,
			JSON:           cfg.JSON,
			Output:         os.Stderr,
		})
	}
}

func newStorage(cfg config.StorageConfig) (tradeStorage, error) {
	switch cfg.Driver {
	case config.StorageMemory:
		return storage.FromMemory()
	case config.StoragePostgres:
		return storage.FromPostgres(cfg.DSN)
	case config.StorageBunt:
		return storage.FromFile(cfg.DSN)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}

// newExchange returns a paper exchange for dry runs, or the Binance spot market.
func newExchange(ctx context.Context, settings *core.Settings, log logger.Logger) (core.Exchange, error) {
	if settings.DryRun {
		return paperExchange(settings), nil
	}
	return binance.NewSpot(ctx, log, spotOptions(settings)...)
}

// paperExchange lists the configured pairs plus paperCoins and funds the
// stake wallet for max_open_trades trades.
func paperExchange(settings *core.Settings) *exchange.Static {
	stake := settings.StakeCurrency
	markets := lo.FilterMap(paperCoins, func(coin string, _ int) (string, bool) {
		return exchange.JoinPair(stake, coin), coin != stake
	})

	options := []exchange.StaticOption{
		exchange.WithMarkets(markets...),
		exchange.WithMarkets(settings.Exchange.PairWhitelist...),
		exchange.WithMarkets(settings.Exchange.PairBlacklist...),
		exchange.WithBalance(stake, settings.StakeAmount*float64(settings.MaxOpenTrades), 0),
	}
	for pair, price := range paperQuotes {
		options = append(options, exchange.WithQuote(pair, price))
	}
	return exchange.NewStatic("paper", options...)
}

func spotOptions(settings *core.Settings) []binance.SpotOption {
	options := []binance.SpotOption{
		binance.WithCredentials(settings.Exchange.Key, settings.Exchange.Secret),
		binance.WithMaxAttempts(settings.Exchange.MaxAttempts),
	}
	if settings.Exchange.TestNet {
		options = append(options, binance.WithTestNet())
	}
	return options
}
