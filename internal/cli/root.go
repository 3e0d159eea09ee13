// Package cli implements the moxie command tree.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/moxierobots/openmoxie/internal/config"
	"github.com/moxierobots/openmoxie/internal/db"
	"github.com/moxierobots/openmoxie/internal/logging"
)

var (
	flagConfigPath string
	flagLogLevel   string
	flagDBPath     string
	flagDevice     string

	appConfig *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "moxie",
	Short: "Moxie robot behavior dispatch",
	Long: `moxie builds timed behavior markup sequences and dispatches
behavior commands to Moxie robot devices.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(flagConfigPath)
		if err != nil {
			return err
		}
		if flagLogLevel != "" {
			cfg.LogLevel = flagLogLevel
		}
		if flagDBPath != "" {
			cfg.DatabasePath = flagDBPath
		}
		appConfig = cfg

		logging.Setup(cfg.LogLevel, logOutput())
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfigPath, "config", "", "config file path")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "log level (trace, debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "sqlite event log path")
	rootCmd.PersistentFlags().StringVarP(&flagDevice, "device", "d", "", "target device ID")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// GetConfig returns the loaded configuration, or defaults before load.
func GetConfig() *config.Config {
	if appConfig == nil {
		return config.DefaultConfig()
	}
	return appConfig
}

func openDatabase(ctx context.Context) (*db.DB, error) {
	database, err := db.Open(GetConfig().ResolveDatabasePath())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := database.Migrate(ctx); err != nil {
		database.Close()
		return nil, fmt.Errorf("migrate database: %w", err)
	}
	return database, nil
}

func requireDevice() (string, error) {
	if flagDevice == "" {
		return "", fmt.Errorf("a device is required; pass --device")
	}
	return flagDevice, nil
}
