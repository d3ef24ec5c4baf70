// Package binance implements core.Exchange on top of the Binance spot API.
package binance

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/adshao/go-binance/v2"
	"github.com/jpillora/backoff"
	"github.com/raykavin/tradectl/pkg/core"
)

const (
	symbolStatusTrading = "TRADING"
	defaultMaxAttempts  = 3
)

// setupBackoffRetry creates a backoff with sensible defaults
func setupBackoffRetry() *backoff.Backoff {
	return &backoff.Backoff{
		Min:    100 * time.Millisecond,
		Max:    1 * time.Second,
		Factor: 2,
	}
}

// withRetry runs fn until it succeeds, attempts are exhausted or ctx is done.
func withRetry(ctx context.Context, attempts int, b *backoff.Backoff, fn func() error) error {
	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err = fn(); err == nil {
			return nil
		}
		if attempt == attempts {
			break
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(b.Duration()):
		}
	}
	return err
}

// tradableSymbols indexes the symbols currently open for trading.
func tradableSymbols(info *binance.ExchangeInfo) map[string]struct{} {
	symbols := make(map[string]struct{}, len(info.Symbols))
	for _, symbol := range info.Symbols {
		if symbol.Status == symbolStatusTrading {
			symbols[symbol.Symbol] = struct{}{}
		}
	}
	return symbols
}

// parseBalances converts account balances, skipping empty assets.
func parseBalances(raw []binance.Balance) ([]core.AssetBalance, error) {
	balances := make([]core.AssetBalance, 0, len(raw))
	for _, balance := range raw {
		free, err := strconv.ParseFloat(balance.Free, 64)
		if err != nil {
			return nil, fmt.Errorf("parse free balance of %s: %w", balance.Asset, err)
		}
		locked, err := strconv.ParseFloat(balance.Locked, 64)
		if err != nil {
			return nil, fmt.Errorf("parse locked balance of %s: %w", balance.Asset, err)
		}
		if free == 0 && locked == 0 {
			continue
		}
		balances = append(balances, core.AssetBalance{Asset: balance.Asset, Free: free, Locked: locked})
	}
	return balances, nil
}
