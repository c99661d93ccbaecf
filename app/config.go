package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/EstateCMS/EstateCMS/internal/config"
)

func init() { //nolint: gochecknoinits
	configDumpCmd.Flags().BoolVar(&dumpJSON, "json", false, "print JSON instead of TOML")

	configCmd.AddCommand(configDumpCmd)
	rootCmd.AddCommand(configCmd)
}

var (
	dumpJSON bool

	configCmd = &cobra.Command{
		Use:   "config",
		Short: "Inspect the configuration",
	}

	configDumpCmd = &cobra.Command{
		Use:   "dump",
		Short: "Print the effective configuration with secrets masked",
		RunE: func(cmd *cobra.Command, _ []string) error {
			dump := config.DumpConfig
			if dumpJSON {
				dump = config.DumpConfigJSON
			}

			redacted := config.Redact(cfg)

			s, err := dump(&redacted)
			if err != nil {
				return err //nolint:wrapcheck
			}

			fmt.Fprint(cmd.OutOrStdout(), s)

			return nil
		},
	}
)
