package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"billing/internal/app"
	corenumerator "billing/internal/core/numerator"
)

var numberingCmd = &cobra.Command{
	Use:   "numbering",
	Short: "Inspect and adjust document number sequences",
}

var numberingSetCmd = &cobra.Command{
	Use:       "set <invoice|offer> <year> <next>",
	Short:     "Set the next number handed out for a document type and year",
	Args:      cobra.ExactArgs(3),
	ValidArgs: []string{corenumerator.DocInvoice, corenumerator.DocOffer},
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := corenumerator.ConfigFor(args[0])
		if err != nil {
			return err
		}
		year, err := strconv.Atoi(args[1])
		if err != nil || year < 1 {
			return fmt.Errorf("invalid year %q", args[1])
		}
		next, err := strconv.ParseInt(args[2], 10, 64)
		if err != nil || next < 1 {
			return fmt.Errorf("invalid next value %q", args[2])
		}

		return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
			if err := a.Numerator.SetNext(ctx, cfg, year, next); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "next %s number: %s\n", args[0], cfg.Format(year, next))
			return nil
		})
	},
}

func init() {
	numberingCmd.AddCommand(numberingSetCmd)
	rootCmd.AddCommand(numberingCmd)
}
