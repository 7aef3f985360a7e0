package cmd

import (
	"ReferralHub/internal/shared/config"
	"ReferralHub/internal/shared/logger"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "referralhub",
	Short:         "ReferralHub wallet and withdrawal service",
	Long:          "Runs the wallet HTTP API and the moderator bot, and ships operator tools for migrations, users and tokens.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// bootstrap loads configuration and builds the base logger shared by every
// command.
func bootstrap() (*config.Config, zerolog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, zerolog.Nop(), fmt.Errorf("load configuration: %w", err)
	}
	log := logger.New(cfg.IsDev(), cfg.LogLevel)
	log.Info().Str("app_env", cfg.AppEnv).Msg("Configuration loaded")
	return cfg, log, nil
}
