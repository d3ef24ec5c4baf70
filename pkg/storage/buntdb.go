// Package storage implements core.TradeStorage.
package storage

import (
	"encoding/json"
	"fmt"
	"strconv"
	"sync/atomic"

	"github.com/raykavin/tradectl/pkg/core"
	"github.com/tidwall/buntdb"
)

const openDateIndex = "open_date_index"

// BuntStorage implements the core.TradeStorage interface using BuntDB
type BuntStorage struct {
	lastID int64
	db     *buntdb.DB
}

// FromMemory creates an in-memory storage
func FromMemory() (*BuntStorage, error) {
	return NewBuntStorage(":memory:")
}

// FromFile creates a file-based storage
func FromFile(file string) (*BuntStorage, error) {
	return NewBuntStorage(file)
}

// NewBuntStorage creates a new BuntDB storage instance
func NewBuntStorage(sourceFile string) (*BuntStorage, error) {
	db, err := buntdb.Open(sourceFile)
	if err != nil {
		return nil, fmt.Errorf("failed to open buntdb: %w", err)
	}

	err = db.CreateIndex(openDateIndex, "*", buntdb.IndexJSON("open_date"))
	if err != nil {
		return nil, fmt.Errorf("failed to create index: %w", err)
	}

	storage := &BuntStorage{db: db}
	if err := storage.loadLastID(); err != nil {
		return nil, err
	}

	return storage, nil
}

// loadLastID resumes ID generation after the highest stored key.
func (b *BuntStorage) loadLastID() error {
	return b.db.View(func(tx *buntdb.Tx) error {
		return tx.AscendKeys("*", func(key, _ string) bool {
			if id, err := strconv.ParseInt(key, 10, 64); err == nil && id > b.lastID {
				b.lastID = id
			}
			return true
		})
	})
}

func (b *BuntStorage) nextID() int64 {
	return atomic.AddInt64(&b.lastID, 1)
}

// CreateTrade stores a new trade in the database
func (b *BuntStorage) CreateTrade(trade *core.Trade) error {
	return b.db.Update(func(tx *buntdb.Tx) error {
		trade.ID = b.nextID()
		content, err := json.Marshal(trade)
		if err != nil {
			return fmt.Errorf("failed to marshal trade: %w", err)
		}

		if _, _, err := tx.Set(strconv.FormatInt(trade.ID, 10), string(content), nil); err != nil {
			return fmt.Errorf("failed to store trade: %w", err)
		}
		return nil
	})
}

// UpdateTrade updates an existing trade in the database
func (b *BuntStorage) UpdateTrade(trade *core.Trade) error {
	return b.db.Update(func(tx *buntdb.Tx) error {
		id := strconv.FormatInt(trade.ID, 10)

		if _, err := tx.Get(id); err != nil {
			return fmt.Errorf("%w: %d", core.ErrTradeNotFound, trade.ID)
		}

		content, err := json.Marshal(trade)
		if err != nil {
			return fmt.Errorf("failed to marshal trade: %w", err)
		}

		if _, _, err := tx.Set(id, string(content), nil); err != nil {
			return fmt.Errorf("failed to update trade: %w", err)
		}
		return nil
	})
}

// Trades retrieves trades ordered by open date that pass every filter
func (b *BuntStorage) Trades(filters ...core.TradeFilter) ([]*core.Trade, error) {
	trades := make([]*core.Trade, 0)

	err := b.db.View(func(tx *buntdb.Tx) error {
		var decodeErr error
		err := tx.Ascend(openDateIndex, func(key, value string) bool {
			var trade core.Trade
			if err := json.Unmarshal([]byte(value), &trade); err != nil {
				decodeErr = fmt.Errorf("failed to unmarshal trade %s: %w", key, err)
				return false
			}

			if matches(trade, filters) {
				trades = append(trades, &trade)
			}
			return true
		})
		if err != nil {
			return fmt.Errorf("failed to iterate over trades: %w", err)
		}
		return decodeErr
	})
	if err != nil {
		return nil, err
	}

	return trades, nil
}

// Close closes the database connection
func (b *BuntStorage) Close() error {
	if b.db != nil {
		return b.db.Close()
	}
	return nil
}

func matches(trade core.Trade, filters []core.TradeFilter) bool {
	for _, filter := range filters {
		if !filter(trade) {
			return false
		}
	}
	return true
}
