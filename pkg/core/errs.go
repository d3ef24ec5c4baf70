package core

import "errors"

var (
	ErrTraderNotRunning  = errors.New("trader is not running")
	ErrNoActiveTrade     = errors.New("no active trade")
	ErrInvalidTradeID    = errors.New("invalid argument")
	ErrTradeNotFound     = errors.New("trade not found")
	ErrInvalidPair       = errors.New("invalid pair")
	ErrAllBalancesZero   = errors.New("all balances are zero")
	ErrNoClosedTrades    = errors.New("no closed trade")
	ErrInvalidTimescale  = errors.New("timescale must be an integer greater than 0")
	ErrNegativeConfigVal = errors.New("negative value")
)
