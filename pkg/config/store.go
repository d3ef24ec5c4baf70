package config

import (
	"fmt"
	"sync"

	"github.com/raykavin/tradectl/pkg/core"
	"github.com/spf13/viper"
)

// Store writes the chat editable settings back into the configuration file.
type Store struct {
	path string
	mu   sync.Mutex
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

// Save rewrites the editable keys of the configuration file, keeping the others.
func (s *Store) Save(snapshot core.ConfigSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	v := viper.New()
	v.SetConfigFile(s.path)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read config %s: %w", s.path, err)
	}

	pairsKey := "exchange.pair_whitelist"
	if snapshot.ListType == core.ListTypeDynamic {
		pairsKey = "exchange.pair_blacklist"
	}

	pairs := snapshot.Pairs
	if pairs == nil {
		pairs = []string{}
	}

	v.Set("max_open_trades", snapshot.MaxOpenTrades)
	v.Set("stake_amount", snapshot.StakeAmount)
	v.Set(pairsKey, pairs)

	if err := v.WriteConfigAs(s.path); err != nil {
		return fmt.Errorf("failed to write config %s: %w", s.path, err)
	}
	return nil
}
