package exchange

import (
	"context"
	"fmt"

	"github.com/StudioSol/set"
	"github.com/raykavin/tradectl/pkg/core"
)

// Static is an in-process exchange with a fixed market list, used for dry runs.
// It is read only once built.
type Static struct {
	name     string
	markets  *set.LinkedHashSetString
	balances map[string]core.AssetBalance
	quotes   map[string]float64
}

// StaticOption configures a Static exchange
type StaticOption func(*Static)

// WithMarkets registers tradable STAKE_COIN pairs.
func WithMarkets(pairs ...string) StaticOption {
	return func(s *Static) {
		s.markets.Add(pairs...)
	}
}

// WithBalance sets the wallet balance of an asset.
func WithBalance(asset string, free, locked float64) StaticOption {
	return func(s *Static) {
		s.balances[asset] = core.AssetBalance{Asset: asset, Free: free, Locked: locked}
	}
}

// WithQuote sets the last price of a pair.
func WithQuote(pair string, price float64) StaticOption {
	return func(s *Static) {
		s.markets.Add(pair)
		s.quotes[pair] = price
	}
}

func NewStatic(name string, options ...StaticOption) *Static {
	s := &Static{
		name:     name,
		markets:  set.NewLinkedHashSetString(),
		balances: make(map[string]core.AssetBalance),
		quotes:   make(map[string]float64),
	}
	for _, option := range options {
		option(s)
	}
	return s
}

func (s *Static) Name() string {
	return s.name
}

// ValidatePairs fails on the first pair that is not a registered market.
func (s *Static) ValidatePairs(_ context.Context, pairs []string) error {
	for _, pair := range pairs {
		if !s.markets.InArray(pair) {
			return NotAvailableError(pair, s.name)
		}
	}
	return nil
}

func (s *Static) Balances(_ context.Context) ([]core.AssetBalance, error) {
	balances := make([]core.AssetBalance, 0, len(s.balances))
	for _, balance := range s.balances {
		balances = append(balances, balance)
	}
	return balances, nil
}

func (s *Static) LastQuote(_ context.Context, pair string) (float64, error) {
	price, ok := s.quotes[pair]
	if !ok {
		return 0, fmt.Errorf("no quote for %s: %w", pair, core.ErrInvalidPair)
	}
	return price, nil
}
