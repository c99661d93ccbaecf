package app

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/EstateCMS/EstateCMS/internal/db/controller/menu"
	"github.com/EstateCMS/EstateCMS/internal/db/database"
)

func init() { //nolint: gochecknoinits
	checkMenuCmd.Flags().BoolVar(&fixMenu, "fix", false, "detach the looping menus so they become top level items")

	dbCmd.AddCommand(dbCheckCmd)
	rootCmd.AddCommand(checkMenuCmd, dbCmd)
}

var (
	fixMenu bool

	checkMenuCmd = &cobra.Command{
		Use:   "check-menu",
		Short: "Report website menus that are their own ancestor",
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, closeDB, err := openDB()
			if err != nil {
				return err
			}
			defer closeDB()

			cycles, err := menu.FindCycles(db)
			if err != nil {
				return err //nolint:wrapcheck
			}

			out := cmd.OutOrStdout()

			if len(cycles) == 0 {
				fmt.Fprintln(out, "no menu cycles found")

				return nil
			}

			ids := make([]string, 0, len(cycles))

			for _, c := range cycles {
				kind := "loop"
				if c.Self {
					kind = "self"
				}

				fmt.Fprintf(out, "%s\t%s\tparent=%s\t%s\n", kind, c.ID, c.ParentID, c.Title)

				ids = append(ids, c.ID)
			}

			if !fixMenu {
				return fmt.Errorf("%d menu items in cycles, rerun with --fix", len(cycles)) //nolint:err113
			}

			n, err := menu.ClearParents(db, ids)
			if err != nil {
				return err //nolint:wrapcheck
			}

			fmt.Fprintf(out, "detached %d menu items\n", n)

			return nil
		},
	}

	dbCmd = &cobra.Command{
		Use:   "db",
		Short: "Database maintenance",
	}

	dbCheckCmd = &cobra.Command{
		Use:   "check",
		Short: "Print the row count of every table",
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, err := database.Open(cfg.DB)
			if err != nil {
				return err //nolint:wrapcheck
			}

			if sqlDB, err := db.DB(); err == nil {
				defer sqlDB.Close()
			}

			counts, err := database.Counts(cmd.Context(), db)
			if err != nil {
				return err //nolint:wrapcheck
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0) //nolint:mnd
			fmt.Fprintln(w, "TABLE\tROWS")

			for _, c := range counts {
				if c.Missing {
					fmt.Fprintf(w, "%s\tmissing\n", c.Table)

					continue
				}

				fmt.Fprintf(w, "%s\t%d\n", c.Table, c.Rows)
			}

			return w.Flush() //nolint:wrapcheck
		},
	}
)
