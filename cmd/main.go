package main

import (
	"fmt"
	"os"

	"focuslist/focuslist/config"
	"focuslist/focuslist/database"
	"focuslist/focuslist/logging"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var Version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:           "focuslist",
		Short:         "focuslist - personal task manager with sharing",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(cleanupCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// bootstrap loads configuration, installs the global logger and opens the
// database. The returned func releases both.
func bootstrap() (config.Config, *zap.Logger, *database.Database, func(), error) {
	cfg := config.Load()

	logger, err := logging.New(cfg.AppEnv)
	if err != nil {
		return cfg, nil, nil, nil, fmt.Errorf("failed to initialise logger: %w", err)
	}

	db, err := database.Setup(cfg)
	if err != nil {
		logging.Sync(logger)
		return cfg, nil, nil, nil, fmt.Errorf("failed to initialise database: %w", err)
	}

	release := func() {
		db.Close()
		logging.Sync(logger)
	}
	return cfg, logger, db, release, nil
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, logger, db, release, err := bootstrap()
			if err != nil {
				return err
			}
			defer release()

			if err := database.RunMigrations(db.DB); err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}
			logger.Info("migrations complete")
			return nil
		},
	}
}
