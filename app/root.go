// Package app implements the main application commands.
package app

import (
	"context"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/EstateCMS/EstateCMS/internal/config"
	"github.com/EstateCMS/EstateCMS/internal/db/database"
	"github.com/EstateCMS/EstateCMS/internal/logger"
)

var (
	configPath string // directory holding main.toml

	cfg config.Config
)

var rootCmd = &cobra.Command{
	Use:   "estatecms",
	Short: "EstateCMS serves a property developer website and its admin dashboard",
	Long: `EstateCMS serves a property developer website with projects, news and
landing pages, and the dashboard used to manage them.`,
	Args:          cobra.OnlyValidArgs,
	SilenceUsage:  true,
	SilenceErrors: false,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		var err error

		if cfg, err = config.ReadConfig(configPath); err != nil {
			return err //nolint:wrapcheck
		}

		return logger.Init(cfg.Log) //nolint:wrapcheck
	},
}

func init() { //nolint: gochecknoinits
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "./etc/", "directory containing main.toml")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.ExecuteContext(context.Background()) //nolint:wrapcheck
}

// openDB connects to the configured database and migrates it.
func openDB() (*gorm.DB, func(), error) {
	db, err := database.Open(cfg.DB)
	if err != nil {
		return nil, nil, err //nolint:wrapcheck
	}

	closeDB := func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}

	if err := database.Migrate(db); err != nil {
		closeDB()

		return nil, nil, err //nolint:wrapcheck
	}

	return db, closeDB, nil
}
