package storage

import (
	"errors"
	"fmt"
	"time"

	"github.com/raykavin/tradectl/pkg/core"
	"github.com/samber/lo"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// SQLStorage implements the core.TradeStorage interface using a SQL database via GORM
type SQLStorage struct {
	db *gorm.DB
}

// FromPostgres opens a PostgreSQL backed storage from a DSN.
func FromPostgres(dsn string) (*SQLStorage, error) {
	return FromSQL(postgres.Open(dsn))
}

// FromSQL creates a new SQL storage instance
func FromSQL(dialect gorm.Dialector, opts ...gorm.Option) (*SQLStorage, error) {
	db, err := gorm.Open(dialect, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	sqlDB.SetMaxIdleConns(2)
	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := db.AutoMigrate(&core.Trade{}); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &SQLStorage{db: db}, nil
}

// CreateTrade creates a new trade in the SQL database
func (s *SQLStorage) CreateTrade(trade *core.Trade) error {
	if err := s.db.Create(trade).Error; err != nil {
		return fmt.Errorf("failed to create trade: %w", err)
	}
	return nil
}

// UpdateTrade updates an existing trade in the SQL database
func (s *SQLStorage) UpdateTrade(trade *core.Trade) error {
	var existing core.Trade
	if err := s.db.First(&existing, trade.ID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: %d", core.ErrTradeNotFound, trade.ID)
		}
		return fmt.Errorf("failed to load trade: %w", err)
	}

	if err := s.db.Save(trade).Error; err != nil {
		return fmt.Errorf("failed to update trade: %w", err)
	}
	return nil
}

// Trades retrieves trades from the SQL database based on provided filters
func (s *SQLStorage) Trades(filters ...core.TradeFilter) ([]*core.Trade, error) {
	var trades []*core.Trade

	if err := s.db.Order("open_date").Find(&trades).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch trades: %w", err)
	}

	return lo.Filter(trades, func(trade *core.Trade, _ int) bool {
		return matches(*trade, filters)
	}), nil
}

// Close closes the database connection
func (s *SQLStorage) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}
	return sqlDB.Close()
}
