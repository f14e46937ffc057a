package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"billing/internal/app"
	appctx "billing/internal/core/context"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load initial data",
}

var seedStatusesCmd = &cobra.Command{
	Use:   "statuses",
	Short: "Create the default invoice statuses",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
			n, err := a.Status.Seed(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created %d statuses\n", n)
			return nil
		})
	},
}

var (
	adminEmail    string
	adminPassword string
)

var seedAdminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Create a user holding every permission",
	RunE: func(cmd *cobra.Command, args []string) error {
		if adminEmail == "" || adminPassword == "" {
			return errors.New("--email and --password are required")
		}
		return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
			u, err := a.Auth.CreateUser(ctx, adminEmail, adminPassword, []string{appctx.PermissionAll})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created user %s (%s)\n", u.Email, u.ID)
			return nil
		})
	},
}

func init() {
	seedAdminCmd.Flags().StringVar(&adminEmail, "email", "", "login email")
	seedAdminCmd.Flags().StringVar(&adminPassword, "password", "", "initial password")

	seedCmd.AddCommand(seedStatusesCmd, seedAdminCmd)
	rootCmd.AddCommand(seedCmd)
}
