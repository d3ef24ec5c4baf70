// Package backend implements core.Backend over trade storage and an exchange.
package backend

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/raykavin/tradectl/pkg/core"
	"github.com/raykavin/tradectl/pkg/exchange"
	"github.com/raykavin/tradectl/pkg/logger"
)

// Status represents the current state of the trader
type Status string

const (
	StatusRunning Status = "running"
	StatusStopped Status = "stopped"
)

var (
	ErrAlreadyRunning = errors.New("already running")
	ErrAlreadyStopped = errors.New("already stopped")
)

// fiatProxies maps display fiat currencies to the stable coin quoted on exchanges.
var fiatProxies = map[string]string{
	"USD": "USDT",
	"EUR": "EUR",
	"GBP": "GBP",
}

// Controller answers the chat router queries and applies its commands.
type Controller struct {
	storage  core.TradeStorage
	exchange core.Exchange
	log      logger.Logger
	notifier core.Notifier
	status   Status
	now      func() time.Time
	mu       sync.Mutex
}

// Option configures a Controller
type Option func(*Controller)

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) {
		c.now = now
	}
}

// WithStatus sets the initial trader status (stopped by default).
func WithStatus(status Status) Option {
	return func(c *Controller) {
		c.status = status
	}
}

func NewController(storage core.TradeStorage, exch core.Exchange, log logger.Logger, options ...Option) *Controller {
	c := &Controller{
		storage:  storage,
		exchange: exch,
		log:      log,
		status:   StatusStopped,
		now:      time.Now,
	}
	for _, option := range options {
		option(c)
	}
	return c
}

// SetNotifier configures where trade events are published
func (c *Controller) SetNotifier(notifier core.Notifier) {
	c.notifier = notifier
}

// Status returns the current trader status
func (c *Controller) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// Start switches the trader to running
func (c *Controller) Start(_ context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.status == StatusRunning {
		return "", ErrAlreadyRunning
	}
	c.status = StatusRunning
	c.log.Info("Trader started.")
	return "`Starting trader ...`", nil
}

// Stop switches the trader to stopped
func (c *Controller) Stop(_ context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.status != StatusRunning {
		return "", ErrAlreadyStopped
	}
	c.status = StatusStopped
	c.log.Info("Trader stopped.")
	return "`Stopping trader ...`", nil
}

func (c *Controller) ensureRunning() error {
	if c.Status() != StatusRunning {
		return core.ErrTraderNotRunning
	}
	return nil
}

// OpenTrades lists the trades that are still open
func (c *Controller) OpenTrades(_ context.Context) ([]core.Trade, error) {
	if err := c.ensureRunning(); err != nil {
		return nil, err
	}

	trades, err := c.storage.Trades(core.WithOpen())
	if err != nil {
		return nil, fmt.Errorf("failed to load open trades: %w", err)
	}

	result := make([]core.Trade, 0, len(trades))
	for _, trade := range trades {
		result = append(result, *trade)
	}
	return result, nil
}

// TradeStatus returns every open trade with its current rate
func (c *Controller) TradeStatus(ctx context.Context) ([]core.TradeStatus, error) {
	trades, err := c.OpenTrades(ctx)
	if err != nil {
		return nil, err
	}
	if len(trades) == 0 {
		return nil, core.ErrNoActiveTrade
	}

	statuses := make([]core.TradeStatus, 0, len(trades))
	for _, trade := range trades {
		rate, err := c.exchange.LastQuote(ctx, trade.Pair)
		if err != nil {
			return nil, fmt.Errorf("failed to get rate of %s: %w", trade.Pair, err)
		}
		statuses = append(statuses, core.TradeStatus{
			Trade:         trade,
			CurrentRate:   rate,
			CurrentProfit: trade.ProfitRatio(rate),
		})
	}
	return statuses, nil
}

// StatusTable returns the compact form of TradeStatus
func (c *Controller) StatusTable(ctx context.Context) ([]core.StatusRow, error) {
	statuses, err := c.TradeStatus(ctx)
	if err != nil {
		return nil, err
	}

	now := c.now()
	rows := make([]core.StatusRow, 0, len(statuses))
	for _, status := range statuses {
		rows = append(rows, core.StatusRow{
			ID:     status.ID,
			Pair:   status.Pair,
			Since:  now.Sub(status.OpenDate),
			Profit: status.CurrentProfit * 100,
		})
	}
	return rows, nil
}

// ForceSell closes the open trade with the given id, or every open trade for "all".
func (c *Controller) ForceSell(ctx context.Context, tradeID string) (string, error) {
	if err := c.ensureRunning(); err != nil {
		return "", err
	}

	tradeID = strings.TrimSpace(tradeID)
	if tradeID == "all" {
		trades, err := c.storage.Trades(core.WithOpen())
		if err != nil {
			return "", fmt.Errorf("failed to load open trades: %w", err)
		}
		for _, trade := range trades {
			if err := c.sell(ctx, trade); err != nil {
				return "", err
			}
		}
		return fmt.Sprintf("Sold `%d` open trade(s).", len(trades)), nil
	}

	id, err := strconv.ParseInt(tradeID, 10, 64)
	if err != nil {
		return "", core.ErrInvalidTradeID
	}

	trades, err := c.storage.Trades(core.WithOpen(), core.WithID(id))
	if err != nil {
		return "", fmt.Errorf("failed to load trade %d: %w", id, err)
	}
	if len(trades) == 0 {
		return "", core.ErrInvalidTradeID
	}

	if err := c.sell(ctx, trades[0]); err != nil {
		return "", err
	}
	return fmt.Sprintf("Sold trade `%d` (`%s`).", id, trades[0].Pair), nil
}

func (c *Controller) sell(ctx context.Context, trade *core.Trade) error {
	rate, err := c.exchange.LastQuote(ctx, trade.Pair)
	if err != nil {
		return c.failSell(fmt.Errorf("failed to get rate of %s: %w", trade.Pair, err))
	}

	trade.Close(rate, c.now())
	if err := c.storage.UpdateTrade(trade); err != nil {
		return c.failSell(fmt.Errorf("failed to close trade %d: %w", trade.ID, err))
	}

	c.log.WithFields(map[string]any{"trade_id": trade.ID, "pair": trade.Pair, "rate": rate}).Info("force sold trade")
	if c.notifier != nil {
		c.notifier.OnTrade(*trade)
	}
	return nil
}

// failSell reports a force sell failure to the notifier and returns it
func (c *Controller) failSell(err error) error {
	c.log.WithError(err).Error("force sell failed")
	if c.notifier != nil {
		c.notifier.OnError(err)
	}
	return err
}

// ValidatePairs delegates to the exchange
func (c *Controller) ValidatePairs(ctx context.Context, pairs []string) error {
	return c.exchange.ValidatePairs(ctx, pairs)
}

// fiatRate converts one unit of coin into fiat. Unknown conversions yield 0.
func (c *Controller) fiatRate(ctx context.Context, coin, fiat string) float64 {
	if strings.EqualFold(coin, fiat) {
		return 1
	}

	quote, ok := fiatProxies[strings.ToUpper(fiat)]
	if !ok {
		quote = strings.ToUpper(fiat)
	}
	if strings.EqualFold(coin, quote) {
		return 1
	}

	rate, err := c.exchange.LastQuote(ctx, exchange.JoinPair(quote, coin))
	if err != nil {
		c.log.WithError(err).WithField("fiat", fiat).Warn("fiat conversion unavailable")
		return 0
	}
	return rate
}
