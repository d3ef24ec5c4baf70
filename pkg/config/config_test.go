package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/raykavin/tradectl/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleConfig = `{
  "max_open_trades": 3,
  "stake_amount": 0.05,
  "stake_currency": "btc",
  "fiat_display_currency": "USD",
  "dry_run": true,
  "exchange": {
    "name": "binance",
    "pair_whitelist": ["BTC_ETH", "BTC_LTC"],
    "pair_blacklist": ["BTC_DOGE"],
    "list_type": "static"
  },
  "telegram": {
    "enabled": true,
    "token": "123:abc",
    "chat_id": 42,
    "poll_timeout": "30s",
    "retry_delay": "1d"
  },
  "storage": {"driver": "memory"}
}`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, sampleConfig)

	cfg, err := Load(path, filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	s := cfg.Settings
	assert.Equal(t, 3, s.MaxOpenTrades)
	assert.Equal(t, 0.05, s.StakeAmount)
	assert.Equal(t, "BTC", s.StakeCurrency)
	assert.Equal(t, []string{"BTC_ETH", "BTC_LTC"}, s.Exchange.PairWhitelist)
	assert.Equal(t, []string{"BTC_DOGE"}, s.Exchange.PairBlacklist)
	assert.Equal(t, core.ListTypeStatic, s.Exchange.ListType)
	assert.Equal(t, 3, s.Exchange.MaxAttempts)
	assert.Equal(t, int64(42), s.Telegram.ChatID)
	assert.Equal(t, 30*time.Second, s.Telegram.PollTimeout)
	assert.Equal(t, 24*time.Hour, s.Telegram.RetryDelay)
	assert.Equal(t, StorageMemory, cfg.Storage.Driver)
	assert.Equal(t, LoggerZerolog, cfg.Logging.Driver)
	assert.Equal(t, path, cfg.Path)
}

func TestLoad_EnvOverride(t *testing.T) {
	path := writeConfig(t, sampleConfig)

	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("TRADECTL_TELEGRAM_TOKEN=from-env-file\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("TRADECTL_TELEGRAM_TOKEN") })
	t.Setenv("TRADECTL_STAKE_AMOUNT", "0.2")

	cfg, err := Load(path, envFile)
	require.NoError(t, err)
	assert.Equal(t, 0.2, cfg.Settings.StakeAmount)
	assert.Equal(t, "from-env-file", cfg.Settings.Telegram.Token)
}

func TestLoad_InvalidDuration(t *testing.T) {
	path := writeConfig(t, `{"telegram": {"poll_timeout": "soon"}}`)
	_, err := Load(path, filepath.Join(t.TempDir(), "missing.env"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "telegram.poll_timeout")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"), filepath.Join(t.TempDir(), "missing.env"))
	require.Error(t, err)
}

func TestConfig_Validate(t *testing.T) {
	path := writeConfig(t, `{
  "max_open_trades": -1,
  "exchange": {"list_type": "manual"},
  "telegram": {"enabled": true},
  "storage": {"driver": "mysql"},
  "logging": {"level": "verbose"}
}`)

	cfg, err := Load(path, filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	err = cfg.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrNegativeConfigVal)
	for _, fragment := range []string{"list_type", "telegram.token", "telegram.chat_id", "mysql", "unknown log level \"verbose\""} {
		assert.Contains(t, err.Error(), fragment)
	}
}

func TestStore_Save(t *testing.T) {
	path := writeConfig(t, sampleConfig)
	store := NewStore(path)

	err := store.Save(core.ConfigSnapshot{
		MaxOpenTrades: 7,
		StakeAmount:   0.1,
		StakeCurrency: "BTC",
		ListType:      core.ListTypeStatic,
		Pairs:         []string{"BTC_XRP"},
	})
	require.NoError(t, err)

	cfg, err := Load(path, filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Settings.MaxOpenTrades)
	assert.Equal(t, 0.1, cfg.Settings.StakeAmount)
	assert.Equal(t, []string{"BTC_XRP"}, cfg.Settings.Exchange.PairWhitelist)
	assert.Equal(t, []string{"BTC_DOGE"}, cfg.Settings.Exchange.PairBlacklist)
	assert.Equal(t, "123:abc", cfg.Settings.Telegram.Token)
}

func TestStore_SaveBlacklist(t *testing.T) {
	path := writeConfig(t, sampleConfig)

	err := NewStore(path).Save(core.ConfigSnapshot{ListType: core.ListTypeDynamic})
	require.NoError(t, err)

	cfg, err := Load(path, filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.Empty(t, cfg.Settings.Exchange.PairBlacklist)
	assert.Equal(t, []string{"BTC_ETH", "BTC_LTC"}, cfg.Settings.Exchange.PairWhitelist)
}

func TestStore_SaveMissingFile(t *testing.T) {
	err := NewStore(filepath.Join(t.TempDir(), "gone.json")).Save(core.ConfigSnapshot{})
	require.Error(t, err)
}
