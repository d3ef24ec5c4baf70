// Package exchange holds pair symbol helpers and exchange implementations.
package exchange

import (
	"fmt"
	"strings"

	"github.com/raykavin/tradectl/pkg/core"
)

// PairSeparator joins the stake currency and the coin in a pair symbol (BTC_ETH).
const PairSeparator = "_"

// SplitPair splits a STAKE_COIN pair into its parts.
func SplitPair(pair string) (stake, coin string, err error) {
	stake, coin, found := strings.Cut(pair, PairSeparator)
	if !found || stake == "" || coin == "" {
		return "", "", fmt.Errorf("%w: %q", core.ErrInvalidPair, pair)
	}
	return stake, coin, nil
}

// JoinPair builds the fully qualified pair for a coin traded against stake.
func JoinPair(stake, coin string) string {
	return strings.ToUpper(stake) + PairSeparator + strings.ToUpper(coin)
}

// Coin strips the stake prefix from a pair. Symbols without a separator are returned unchanged.
func Coin(pair string) string {
	if _, coin, found := strings.Cut(pair, PairSeparator); found {
		return coin
	}
	return pair
}

// ToExchangeSymbol converts BTC_ETH into the exchange ticker ETHBTC.
func ToExchangeSymbol(pair string) (string, error) {
	stake, coin, err := SplitPair(pair)
	if err != nil {
		return "", err
	}
	return strings.ToUpper(coin + stake), nil
}

// NotAvailableError is returned by ValidatePairs implementations.
func NotAvailableError(pair, exchange string) error {
	return fmt.Errorf("%w: pair %s is not available at %s", core.ErrInvalidPair, pair, exchange)
}
