package core

import "time"

// ListType tells which exchange pair list is user editable. It is decided by the
// exchange pair-list mode and never chosen from the chat.
type ListType string

const (
	ListTypeStatic  ListType = "static"  // static mode: the whitelist is edited
	ListTypeDynamic ListType = "dynamic" // dynamic mode: the blacklist is edited
)

// Label is the user facing name of the edited list.
func (l ListType) Label() string {
	if l == ListTypeDynamic {
		return "Blacklist"
	}
	return "Whitelist"
}

// Settings is the application configuration. The editable part (see ConfigSnapshot)
// is mutated in place by the chat router and persisted through a ConfigStore.
type Settings struct {
	DryRun              bool
	MaxOpenTrades       int
	StakeAmount         float64
	StakeCurrency       string
	FiatDisplayCurrency string
	Exchange            ExchangeSettings
	Telegram            TelegramSettings
}

// ExchangeSettings holds exchange credentials and the pair lists.
type ExchangeSettings struct {
	Name          string
	Key           string
	Secret        string
	PairWhitelist []string
	PairBlacklist []string
	ListType      ListType
	TestNet       bool
	MaxAttempts   int
}

// TelegramSettings holds configuration for the Telegram remote control
type TelegramSettings struct {
	Enabled     bool          // Whether the chat router is active at all
	Token       string        // Bot token
	ChatID      int64         // The only chat allowed to control the bot
	PollTimeout time.Duration // Long polling timeout
	RetryDelay  time.Duration // Pause before resending after a network failure
}

// ConfigSnapshot is the user editable subset of Settings.
type ConfigSnapshot struct {
	MaxOpenTrades int
	StakeAmount   float64
	StakeCurrency string
	ListType      ListType
	Pairs         []string
}

// EditablePairs returns the list selected by the exchange list type.
func (s *Settings) EditablePairs() []string {
	if s.Exchange.ListType == ListTypeDynamic {
		return s.Exchange.PairBlacklist
	}
	return s.Exchange.PairWhitelist
}

// SetEditablePairs replaces the list selected by the exchange list type.
func (s *Settings) SetEditablePairs(pairs []string) {
	if s.Exchange.ListType == ListTypeDynamic {
		s.Exchange.PairBlacklist = pairs
		return
	}
	s.Exchange.PairWhitelist = pairs
}

// Snapshot copies the editable configuration.
func (s *Settings) Snapshot() ConfigSnapshot {
	return ConfigSnapshot{
		MaxOpenTrades: s.MaxOpenTrades,
		StakeAmount:   s.StakeAmount,
		StakeCurrency: s.StakeCurrency,
		ListType:      s.Exchange.ListType,
		Pairs:         append([]string(nil), s.EditablePairs()...),
	}
}
