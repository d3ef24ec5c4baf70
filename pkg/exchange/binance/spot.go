package binance

import (
	"context"
	"fmt"
	"strconv"

	"github.com/adshao/go-binance/v2"
	"github.com/raykavin/tradectl/pkg/core"
	"github.com/raykavin/tradectl/pkg/exchange"
	"github.com/raykavin/tradectl/pkg/logger"
)

const (
	exchangeName   = "binance"
	testnetBaseURL = "https://testnet.binance.vision"
)

// Spot represents the Binance spot market client
type Spot struct {
	client      *binance.Client
	log         logger.Logger
	tradable    map[string]struct{}
	maxAttempts int

	apiKey    string
	secretKey string
	testnet   bool
}

// SpotOption is a function that configures a Spot client
type SpotOption func(*Spot)

// WithCredentials sets the API credentials for the Spot client
func WithCredentials(key, secret string) SpotOption {
	return func(s *Spot) {
		s.apiKey = key
		s.secretKey = secret
	}
}

// WithTestNet points the client at the Binance spot testnet
func WithTestNet() SpotOption {
	return func(s *Spot) {
		s.testnet = true
	}
}

// WithMaxAttempts sets how many times a request is tried before giving up
func WithMaxAttempts(attempts int) SpotOption {
	return func(s *Spot) {
		if attempts > 0 {
			s.maxAttempts = attempts
		}
	}
}

// newClient builds the API client once every option is applied.
func (s *Spot) newClient() *binance.Client {
	client := binance.NewClient(s.apiKey, s.secretKey)
	if s.testnet {
		client.BaseURL = testnetBaseURL
	}
	return client
}

// NewSpot connects to Binance and loads the tradable symbols once.
func NewSpot(ctx context.Context, log logger.Logger, options ...SpotOption) (*Spot, error) {
	spot := &Spot{
		log:         log,
		maxAttempts: defaultMaxAttempts,
	}

	for _, option := range options {
		option(spot)
	}
	spot.client = spot.newClient()

	if err := spot.client.NewPingService().Do(ctx); err != nil {
		return nil, fmt.Errorf("binance ping fail: %w", err)
	}

	var info *binance.ExchangeInfo
	err := withRetry(ctx, spot.maxAttempts, setupBackoffRetry(), func() (err error) {
		info, err = spot.client.NewExchangeInfoService().Do(ctx)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get exchange info: %w", err)
	}

	spot.tradable = tradableSymbols(info)
	log.WithFields(map[string]any{
		"symbols": len(spot.tradable),
		"testnet": spot.testnet,
	}).Info("[SETUP] Using Binance Spot exchange")
	return spot, nil
}

func (s *Spot) Name() string {
	return exchangeName
}

// ValidatePairs checks every STAKE_COIN pair against the tradable symbols.
func (s *Spot) ValidatePairs(_ context.Context, pairs []string) error {
	for _, pair := range pairs {
		symbol, err := exchange.ToExchangeSymbol(pair)
		if err != nil {
			return err
		}
		if _, ok := s.tradable[symbol]; !ok {
			return exchange.NotAvailableError(pair, exchangeName)
		}
	}
	return nil
}

// Balances returns every non empty asset of the account.
func (s *Spot) Balances(ctx context.Context) ([]core.AssetBalance, error) {
	var account *binance.Account
	err := withRetry(ctx, s.maxAttempts, setupBackoffRetry(), func() (err error) {
		account, err = s.client.NewGetAccountService().Do(ctx)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return parseBalances(account.Balances)
}

// LastQuote gets the latest price for a STAKE_COIN pair
func (s *Spot) LastQuote(ctx context.Context, pair string) (float64, error) {
	symbol, err := exchange.ToExchangeSymbol(pair)
	if err != nil {
		return 0, err
	}

	var prices []*binance.SymbolPrice
	err = withRetry(ctx, s.maxAttempts, setupBackoffRetry(), func() (err error) {
		prices, err = s.client.NewListPricesService().Symbol(symbol).Do(ctx)
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("failed to get price of %s: %w", symbol, err)
	}
	if len(prices) == 0 {
		return 0, fmt.Errorf("no price for %s", symbol)
	}

	return strconv.ParseFloat(prices[0].Price, 64)
}
