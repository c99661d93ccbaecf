package app

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/EstateCMS/EstateCMS/internal/daemon"
)

func init() { //nolint: gochecknoinits
	rootCmd.AddCommand(migrateCmd, seedCmd)
}

var (
	migrateCmd = &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database tables",
		RunE: func(_ *cobra.Command, _ []string) error {
			_, closeDB, err := openDB()
			if err != nil {
				return err
			}
			defer closeDB()

			log.Info().Str("engine", cfg.DB.Engine).Msg("database migrated")

			return nil
		},
	}

	seedCmd = &cobra.Command{
		Use:   "seed",
		Short: "Create the first admin, the system components and the default menu",
		RunE: func(_ *cobra.Command, _ []string) error {
			db, closeDB, err := openDB()
			if err != nil {
				return err
			}
			defer closeDB()

			return daemon.Seed(&cfg, db) //nolint:wrapcheck
		},
	}
)
