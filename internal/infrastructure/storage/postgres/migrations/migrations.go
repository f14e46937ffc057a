// Package migrations applies the embedded SQL schema with golang-migrate.
package migrations

import (
	"context"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"billing/pkg/logger"
)

//go:embed sql/*.sql
var files embed.FS

// Migrator handles database migrations.
type Migrator struct {
	migrate *migrate.Migrate
}

// New creates a Migrator for a postgres:// database URL.
func New(databaseURL string) (*Migrator, error) {
	src, err := iofs.New(files, "sql")
	if err != nil {
		return nil, fmt.Errorf("open embedded migrations: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", src, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("create migrate instance: %w", err)
	}

	return &Migrator{migrate: m}, nil
}

// Up runs all pending migrations.
func (m *Migrator) Up(ctx context.Context) error {
	logger.Info(ctx, "running migrations up")

	err := m.migrate.Up()
	if errors.Is(err, migrate.ErrNoChange) {
		logger.Info(ctx, "no migrations to apply")
		return nil
	}
	if err != nil {
		return fmt.Errorf("migration up failed: %w", err)
	}

	version, dirty, err := m.Version()
	if err != nil {
		return err
	}
	logger.Info(ctx, "migrations completed", "version", version, "dirty", dirty)
	return nil
}

// Down rolls back n migrations, or all of them when n <= 0.
func (m *Migrator) Down(ctx context.Context, n int) error {
	logger.Info(ctx, "running migrations down", "steps", n)

	var err error
	if n > 0 {
		err = m.migrate.Steps(-n)
	} else {
		err = m.migrate.Down()
	}
	if errors.Is(err, migrate.ErrNoChange) {
		logger.Info(ctx, "no migrations to roll back")
		return nil
	}
	if err != nil {
		return fmt.Errorf("migration down failed: %w", err)
	}
	return nil
}

// Version returns the current migration version. A fresh database is version 0.
func (m *Migrator) Version() (uint, bool, error) {
	version, dirty, err := m.migrate.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("get migration version: %w", err)
	}
	return version, dirty, nil
}

// Force sets the version without running migrations, to recover a dirty state.
func (m *Migrator) Force(ctx context.Context, version int) error {
	logger.Warn(ctx, "forcing migration version", "version", version)
	if err := m.migrate.Force(version); err != nil {
		return fmt.Errorf("force version %d: %w", version, err)
	}
	return nil
}

// Close releases the source and database handles.
func (m *Migrator) Close() error {
	sourceErr, dbErr := m.migrate.Close()
	return errors.Join(sourceErr, dbErr)
}
