package core

// TradeFilter selects trades returned by TradeStorage.Trades.
type TradeFilter func(trade Trade) bool

// TradeStorage defines the persistence operations for trades
type TradeStorage interface {
	// CreateTrade stores a new trade and assigns its ID
	CreateTrade(trade *Trade) error

	// UpdateTrade replaces an existing trade
	UpdateTrade(trade *Trade) error

	// Trades retrieves trades ordered by open date that pass every filter
	Trades(filters ...TradeFilter) ([]*Trade, error)
}

func WithOpen() TradeFilter {
	return func(trade Trade) bool {
		return trade.IsOpen
	}
}

func WithClosed() TradeFilter {
	return func(trade Trade) bool {
		return !trade.IsOpen
	}
}

func WithID(id int64) TradeFilter {
	return func(trade Trade) bool {
		return trade.ID == id
	}
}
