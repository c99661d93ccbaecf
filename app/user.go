package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/EstateCMS/EstateCMS/internal/db/controller/user"
	"github.com/EstateCMS/EstateCMS/internal/db/models"
)

func init() { //nolint: gochecknoinits
	userCreateCmd.Flags().StringVar(&newUser.Username, "username", "", "login name")
	userCreateCmd.Flags().StringVar(&newUser.Email, "email", "", "email address")
	userCreateCmd.Flags().StringVar(&newUser.Name, "name", "", "display name")
	userCreateCmd.Flags().StringVar(&newUser.Password, "password", "", "initial password")
	userCreateCmd.Flags().StringVar(&newUserRole, "role", string(models.RoleUser), "admin or user")

	for _, f := range []string{"username", "email", "name", "password"} {
		_ = userCreateCmd.MarkFlagRequired(f)
	}

	userCmd.AddCommand(userCreateCmd, userResetPasswordCmd, userSetRoleCmd)
	rootCmd.AddCommand(userCmd)
}

var (
	newUser     user.Registration
	newUserRole string

	userCmd = &cobra.Command{
		Use:   "user",
		Short: "Manage dashboard accounts",
	}

	userCreateCmd = &cobra.Command{
		Use:   "create",
		Short: "Create an account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, closeDB, err := openDB()
			if err != nil {
				return err
			}
			defer closeDB()

			newUser.Role = models.Role(newUserRole)

			u, err := user.Create(db, newUser)
			if err != nil {
				return err //nolint:wrapcheck
			}

			fmt.Fprintf(cmd.OutOrStdout(), "created %s (%s) with role %s\n", u.Email, u.ID, u.Role)

			return nil
		},
	}

	userResetPasswordCmd = &cobra.Command{
		Use:   "reset-password <email> <password>",
		Short: "Set a new password",
		Args:  cobra.ExactArgs(2), //nolint:mnd
		RunE: func(cmd *cobra.Command, args []string) error {
			db, closeDB, err := openDB()
			if err != nil {
				return err
			}
			defer closeDB()

			u, err := user.GetByEmail(db, args[0])
			if err != nil {
				return err //nolint:wrapcheck
			}

			if err := user.UpdatePassword(db, u.ID, args[1]); err != nil {
				return err //nolint:wrapcheck
			}

			fmt.Fprintf(cmd.OutOrStdout(), "password of %s updated\n", u.Email)

			return nil
		},
	}

	userSetRoleCmd = &cobra.Command{
		Use:       "set-role <email> <admin|user>",
		Short:     "Change the role of an account",
		Args:      cobra.ExactArgs(2), //nolint:mnd
		ValidArgs: []string{string(models.RoleAdmin), string(models.RoleUser)},
		RunE: func(cmd *cobra.Command, args []string) error {
			db, closeDB, err := openDB()
			if err != nil {
				return err
			}
			defer closeDB()

			u, err := user.GetByEmail(db, args[0])
			if err != nil {
				return err //nolint:wrapcheck
			}

			if err := user.UpdateRole(db, u.ID, models.Role(args[1])); err != nil {
				return err //nolint:wrapcheck
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s is now %s\n", u.Email, args[1])

			return nil
		},
	}
)
