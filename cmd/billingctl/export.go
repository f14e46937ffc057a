package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"billing/internal/app"
	"billing/internal/domain/export/obl"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export documents to accounting formats",
}

var exportDir string

var exportOBLCmd = &cobra.Command{
	Use:   "obl <invoice-number>",
	Short: "Write the obligation file of an invoice",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
			inv, err := a.Invoices.GetByNumber(ctx, args[0])
			if err != nil {
				return err
			}
			c, err := a.Clients.GetByID(ctx, inv.ClientID)
			if err != nil {
				return err
			}
			area, err := a.Areas.GetByID(ctx, inv.SalesAreaID)
			if err != nil {
				return err
			}

			path := filepath.Join(exportDir, obl.Filename(inv))
			if err := os.WriteFile(path, obl.Format(inv, c, area), 0o644); err != nil {
				return fmt.Errorf("write %s: %w", path, err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		})
	},
}

func init() {
	exportOBLCmd.Flags().StringVarP(&exportDir, "output", "o", ".", "output directory")

	exportCmd.AddCommand(exportOBLCmd)
	rootCmd.AddCommand(exportCmd)
}
