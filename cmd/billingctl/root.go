package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"billing/internal/app"
	"billing/internal/config"
	"billing/pkg/logger"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:          "billingctl",
	Short:        "Administration commands for the billing service",
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to config file")
}

// setup loads the configuration and installs the default logger.
func setup() (*config.Config, *logger.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}
	log, err := logger.New(logger.Config{Level: cfg.Log.Level, Development: true})
	if err != nil {
		return nil, nil, fmt.Errorf("init logger: %w", err)
	}
	logger.SetDefault(log)
	return cfg, log, nil
}

// withApp runs fn with a fully wired application.
func withApp(ctx context.Context, fn func(ctx context.Context, a *app.App) error) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	a, err := app.New(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(ctx, a)
}
