package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"billing/internal/infrastructure/storage/postgres/migrations"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage the database schema",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withMigrator(func(m *migrations.Migrator) error {
			return m.Up(cmd.Context())
		})
	},
}

var migrateDownSteps int

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back migrations",
	Long:  `Roll back the given number of migrations. Without --steps every migration is rolled back.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withMigrator(func(m *migrations.Migrator) error {
			return m.Down(cmd.Context(), migrateDownSteps)
		})
	},
}

var migrateVersionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the current schema version",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withMigrator(func(m *migrations.Migrator) error {
			version, dirty, err := m.Version()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "version %d (dirty: %t)\n", version, dirty)
			return nil
		})
	},
}

func withMigrator(fn func(m *migrations.Migrator) error) error {
	cfg, _, err := setup()
	if err != nil {
		return err
	}
	m, err := migrations.New(cfg.Database.URL)
	if err != nil {
		return err
	}
	defer m.Close()
	return fn(m)
}

func init() {
	migrateDownCmd.Flags().IntVar(&migrateDownSteps, "steps", 0, "number of migrations to roll back")

	migrateCmd.AddCommand(migrateUpCmd, migrateDownCmd, migrateVersionCmd)
	rootCmd.AddCommand(migrateCmd)
}
