// Package config handles application configuration management using Viper
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/raykavin/tradectl/pkg/core"
	"github.com/raykavin/tradectl/pkg/logger"
	"github.com/spf13/viper"
	"github.com/xhit/go-str2duration/v2"
)

// Constants for configuration
const (
	DefaultConfigPath = "./config.json"
	DefaultEnvFile    = ".env"
	EnvPrefix         = "TRADECTL"
)

// Storage drivers
const (
	StorageBunt     = "bunt"
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
)

// Logging drivers
const (
	LoggerZerolog = "zerolog"
	LoggerLogrus  = "logrus"
)

// Config holds the application configuration
type Config struct {
	Path     string
	Settings core.Settings
	Storage  StorageConfig
	Logging  LoggingConfig
	Mail     MailConfig
}

// StorageConfig selects where trades are persisted
type StorageConfig struct {
	Driver string
	DSN    string
}

// LoggingConfig selects and tunes the logger adapter
type LoggingConfig struct {
	Driver         string
	Level          string
	JSON           bool
	Colored        bool
	DateTimeLayout string
}

// MailConfig holds SMTP notification configuration
type MailConfig struct {
	Enabled  bool
	Host     string
	Port     int
	From     string
	To       []string
	Password string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("max_open_trades", 3)
	v.SetDefault("stake_amount", 0.05)
	v.SetDefault("stake_currency", "BTC")
	v.SetDefault("fiat_display_currency", "USD")
	v.SetDefault("dry_run", true)
	v.SetDefault("exchange.name", "binance")
	v.SetDefault("exchange.list_type", string(core.ListTypeStatic))
	v.SetDefault("exchange.max_attempts", 3)
	v.SetDefault("telegram.enabled", false)
	v.SetDefault("telegram.poll_timeout", "10s")
	v.SetDefault("telegram.retry_delay", "1s")
	v.SetDefault("storage.driver", StorageBunt)
	v.SetDefault("storage.dsn", "tradectl.db")
	v.SetDefault("logging.driver", LoggerZerolog)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.colored", true)
	v.SetDefault("logging.datetime_layout", time.DateTime)
	v.SetDefault("mail.port", 587)
}

// Load reads the configuration file at path. Values can be overridden by
// TRADECTL_ prefixed environment variables, optionally read from env files.
func Load(path string, envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{DefaultEnvFile}
	}
	for _, file := range envFiles {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load env file %s: %w", file, err)
		}
	}

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	pollTimeout, err := duration(v, "telegram.poll_timeout")
	if err != nil {
		return nil, err
	}
	retryDelay, err := duration(v, "telegram.retry_delay")
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Path: path,
		Settings: core.Settings{
			DryRun:              v.GetBool("dry_run"),
			MaxOpenTrades:       v.GetInt("max_open_trades"),
			StakeAmount:         v.GetFloat64("stake_amount"),
			StakeCurrency:       strings.ToUpper(v.GetString("stake_currency")),
			FiatDisplayCurrency: strings.ToUpper(v.GetString("fiat_display_currency")),
			Exchange: core.ExchangeSettings{
				Name:          v.GetString("exchange.name"),
				Key:           v.GetString("exchange.key"),
				Secret:        v.GetString("exchange.secret"),
				PairWhitelist: v.GetStringSlice("exchange.pair_whitelist"),
				PairBlacklist: v.GetStringSlice("exchange.pair_blacklist"),
				ListType:      core.ListType(strings.ToLower(v.GetString("exchange.list_type"))),
				TestNet:       v.GetBool("exchange.testnet"),
				MaxAttempts:   v.GetInt("exchange.max_attempts"),
			},
			Telegram: core.TelegramSettings{
				Enabled:     v.GetBool("telegram.enabled"),
				Token:       v.GetString("telegram.token"),
				ChatID:      v.GetInt64("telegram.chat_id"),
				PollTimeout: pollTimeout,
				RetryDelay:  retryDelay,
			},
		},
		Storage: StorageConfig{
			Driver: strings.ToLower(v.GetString("storage.driver")),
			DSN:    v.GetString("storage.dsn"),
		},
		Logging: LoggingConfig{
			Driver:         strings.ToLower(v.GetString("logging.driver")),
			Level:          v.GetString("logging.level"),
			JSON:           v.GetBool("logging.json"),
			Colored:        v.GetBool("logging.colored"),
			DateTimeLayout: v.GetString("logging.datetime_layout"),
		},
		Mail: MailConfig{
			Enabled:  v.GetBool("mail.enabled"),
			Host:     v.GetString("mail.host"),
			Port:     v.GetInt("mail.port"),
			From:     v.GetString("mail.from"),
			To:       v.GetStringSlice("mail.to"),
			Password: v.GetString("mail.password"),
		},
	}

	return cfg, nil
}

// duration accepts Go durations plus day and week units ("1d", "2w").
func duration(v *viper.Viper, key string) (time.Duration, error) {
	raw := v.GetString(key)
	if raw == "" {
		return 0, nil
	}
	d, err := str2duration.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid duration for %s: %w", key, err)
	}
	return d, nil
}

// Validate checks the values the application cannot run without
func (c *Config) Validate() error {
	s := c.Settings
	var errs []error

	if s.StakeCurrency == "" {
		errs = append(errs, errors.New("stake_currency is required"))
	}
	if s.MaxOpenTrades < 0 {
		errs = append(errs, fmt.Errorf("max_open_trades: %w", core.ErrNegativeConfigVal))
	}
	if s.StakeAmount < 0 {
		errs = append(errs, fmt.Errorf("stake_amount: %w", core.ErrNegativeConfigVal))
	}
	if s.Exchange.MaxAttempts < 1 {
		errs = append(errs, fmt.Errorf("exchange.max_attempts must be at least 1, got %d", s.Exchange.MaxAttempts))
	}
	if s.Exchange.ListType != core.ListTypeStatic && s.Exchange.ListType != core.ListTypeDynamic {
		errs = append(errs, fmt.Errorf("exchange.list_type must be static or dynamic, got %q", s.Exchange.ListType))
	}
	if s.Telegram.Enabled {
		if s.Telegram.Token == "" {
			errs = append(errs, errors.New("telegram.token is required when telegram is enabled"))
		}
		if s.Telegram.ChatID == 0 {
			errs = append(errs, errors.New("telegram.chat_id is required when telegram is enabled"))
		}
	}
	if !s.DryRun && (s.Exchange.Key == "" || s.Exchange.Secret == "") {
		errs = append(errs, errors.New("exchange.key and exchange.secret are required when dry_run is off"))
	}

	switch c.Storage.Driver {
	case StorageBunt, StorageMemory:
	case StoragePostgres:
		if c.Storage.DSN == "" {
			errs = append(errs, errors.New("storage.dsn is required for postgres"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown storage driver %q", c.Storage.Driver))
	}

	switch c.Logging.Driver {
	case LoggerZerolog, LoggerLogrus:
	default:
		errs = append(errs, fmt.Errorf("unknown logging driver %q", c.Logging.Driver))
	}
	if _, err := logger.ParseLevel(c.Logging.Level); err != nil {
		errs = append(errs, fmt.Errorf("logging.level: %w", err))
	}

	if c.Mail.Enabled && (c.Mail.Host == "" || c.Mail.From == "" || len(c.Mail.To) == 0) {
		errs = append(errs, errors.New("mail.host, mail.from and mail.to are required when mail is enabled"))
	}

	return errors.Join(errs...)
}
