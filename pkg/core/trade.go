package core

import (
	"fmt"
	"time"
)

// Trade is a position opened by the trading process.
type Trade struct {
	ID          int64     `json:"id" gorm:"primaryKey"`
	Pair        string    `json:"pair" gorm:"index"`
	Exchange    string    `json:"exchange"`
	IsOpen      bool      `json:"is_open" gorm:"index"`
	OpenRate    float64   `json:"open_rate"`
	CloseRate   float64   `json:"close_rate"`
	Amount      float64   `json:"amount"`
	StakeAmount float64   `json:"stake_amount"`
	Fee         float64   `json:"fee"`
	CloseProfit float64   `json:"close_profit"`
	OpenDate    time.Time `json:"open_date" gorm:"index"`
	CloseDate   time.Time `json:"close_date"`
}

// ProfitRatio is the relative profit of the trade if it was closed at rate, fees included.
func (t Trade) ProfitRatio(rate float64) float64 {
	if t.OpenRate == 0 {
		return 0
	}
	open := t.Amount * t.OpenRate * (1 + t.Fee)
	closed := t.Amount * rate * (1 - t.Fee)
	if open == 0 {
		return 0
	}
	return closed/open - 1
}

// ProfitAbs is the absolute profit in stake currency at rate, fees included.
func (t Trade) ProfitAbs(rate float64) float64 {
	return t.Amount*rate*(1-t.Fee) - t.Amount*t.OpenRate*(1+t.Fee)
}

// Close marks the trade as closed at rate.
func (t *Trade) Close(rate float64, at time.Time) {
	t.CloseRate = rate
	t.CloseProfit = t.ProfitRatio(rate)
	t.CloseDate = at
	t.IsOpen = false
}

func (t Trade) String() string {
	state := "closed"
	if t.IsOpen {
		state = "open"
	}
	return fmt.Sprintf("Trade(id=%d, pair=%s, amount=%.8f, open_rate=%.8f, %s)",
		t.ID, t.Pair, t.Amount, t.OpenRate, state)
}

// TradeStatus is an open trade together with its current market rate.
type TradeStatus struct {
	Trade
	CurrentRate   float64
	CurrentProfit float64
}

// StatusRow is one line of the compact open trade table.
type StatusRow struct {
	ID     int64
	Pair   string
	Since  time.Duration
	Profit float64
}

// DailyProfit is the realized profit of a single day.
type DailyProfit struct {
	Day         time.Time
	ProfitStake float64
	ProfitFiat  float64
	Trades      int
}

// TradeStatistics summarizes closed and open trades.
type TradeStatistics struct {
	ProfitClosedCoin    float64
	ProfitClosedPercent float64
	ProfitClosedFiat    float64
	ProfitAllCoin       float64
	ProfitAllPercent    float64
	ProfitAllFiat       float64
	TradeCount          int
	FirstTradeDate      time.Time
	LatestTradeDate     time.Time
	AvgDuration         time.Duration
	BestPair            string
	BestRate            float64
}

// AssetBalance is the raw exchange balance of one asset.
type AssetBalance struct {
	Asset  string
	Free   float64
	Locked float64
}

// CurrencyBalance is an AssetBalance valued in BTC.
type CurrencyBalance struct {
	Currency  string
	Available float64
	Balance   float64
	Pending   float64
	EstBTC    float64
}

// Balance is the whole account valued in BTC and in the display fiat.
type Balance struct {
	Currencies []CurrencyBalance
	TotalBTC   float64
	Symbol     string
	Value      float64
}

// PairPerformance aggregates closed trade results per pair.
type PairPerformance struct {
	Pair   string
	Profit float64
	Count  int
}
