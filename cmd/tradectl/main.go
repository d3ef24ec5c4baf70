package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/raykavin/tradectl/pkg/backend"
	"github.com/raykavin/tradectl/pkg/config"
	"github.com/raykavin/tradectl/pkg/core"
	"github.com/raykavin/tradectl/pkg/notification"
	"github.com/raykavin/tradectl/pkg/telegram"
	"github.com/spf13/cobra"
)

var version = "dev"

// Command line flags
var (
	configPath string
	envFile    string
)

func main() {
	// Create root command
	rootCmd := &cobra.Command{
		Use:     "tradectl",
		Short:   "Chat remote control for the trader",
		Version: version,
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultConfigPath, "Configuration file")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", config.DefaultEnvFile, "File with TRADECTL_ environment overrides")

	// Add commands
	rootCmd.AddCommand(buildRunCmd(), buildValidateCmd(), buildVersionCmd())

	// Execute
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func buildRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Start the trader backend and the Telegram remote control",
		RunE:  run,
	}
}

func buildValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate-config",
		Short: "Check the configuration and the configured pairs",
		RunE:  validateConfig,
	}
}

func buildVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Println(version)
		},
	}
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath, envFile)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func run(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	log, err := newLogger(cfg.Logging)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	trades, err := newStorage(cfg.Storage)
	if err != nil {
		return err
	}
	defer trades.Close()

	exch, err := newExchange(ctx, &cfg.Settings, log)
	if err != nil {
		return err
	}

	controller := backend.NewController(trades, exch, log, backend.WithStatus(backend.StatusRunning))

	router, err := telegram.New(&cfg.Settings, controller, config.NewStore(cfg.Path), log,
		telegram.WithVersion(version))
	if err != nil {
		return err
	}

	notifiers := notification.Multi{router}
	if cfg.Mail.Enabled {
		notifiers = append(notifiers, notification.NewMail(notification.MailParams{
			SMTPServerPort:    cfg.Mail.Port,
			SMTPServerAddress: cfg.Mail.Host,
			To:                cfg.Mail.To,
			From:              cfg.Mail.From,
			Password:          cfg.Mail.Password,
		}, log))
	}
	controller.SetNotifier(notifiers)

	var remote core.NotifierWithStart = router
	remote.Start()
	defer remote.Cleanup()

	log.WithFields(map[string]any{
		"exchange": exch.Name(),
		"dry_run":  cfg.Settings.DryRun,
		"telegram": cfg.Settings.Telegram.Enabled,
	}).Info("tradectl is running")
	notifiers.Notify("*Status:* `running`")

	<-ctx.Done()
	log.Info("shutting down")
	return nil
}

func validateConfig(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	log, err := newLogger(cfg.Logging)
	if err != nil {
		return err
	}

	exch, err := newExchange(cmd.Context(), &cfg.Settings, log)
	if err != nil {
		return err
	}

	pairs := append(append([]string{}, cfg.Settings.Exchange.PairWhitelist...), cfg.Settings.Exchange.PairBlacklist...)
	if err := exch.ValidatePairs(cmd.Context(), pairs); err != nil {
		return err
	}

	cmd.Printf("%s is valid: %d pairs available at %s\n", cfg.Path, len(pairs), exch.Name())
	return nil
}
