// Package app wires configuration, storage and domain services into one
// container shared by the API server and the admin CLI.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"billing/internal/config"
	"billing/internal/domain/auth"
	"billing/internal/domain/catalogs/activity"
	"billing/internal/domain/catalogs/client"
	"billing/internal/domain/catalogs/company"
	"billing/internal/domain/catalogs/salesarea"
	"billing/internal/domain/catalogs/status"
	"billing/internal/domain/documents"
	"billing/internal/domain/documents/invoice"
	"billing/internal/domain/documents/offer"
	"billing/internal/domain/drafts"
	"billing/internal/domain/plans"
	"billing/internal/domain/reports"
	"billing/internal/infrastructure/cache"
	"billing/internal/infrastructure/numerator"
	"billing/internal/infrastructure/storage/postgres"
	"billing/internal/infrastructure/storage/postgres/auth_repo"
	"billing/internal/infrastructure/storage/postgres/catalog_repo"
	"billing/internal/infrastructure/storage/postgres/document_repo"
	"billing/internal/infrastructure/storage/postgres/migrations"
	"billing/internal/infrastructure/storage/postgres/report_repo"
	"billing/pkg/logger"
)

// App holds every long-lived dependency of the process.
type App struct {
	Config *config.Config
	Log    *logger.Logger

	Pool        *postgres.Pool
	TxManager   *postgres.TxManager
	ActivityLog *postgres.ActivityLog
	Statuses    *cache.StatusCache
	Numerator   *numerator.Service
	JWT         *auth.JWTService
	Redis       redis.UniversalClient

	Activities *activity.Service
	Clients    *client.Service
	Areas      *salesarea.Service
	Status     *status.Service
	Company    *company.Service
	Plans      *plans.Service
	Offers     *offer.Service
	Invoices   *invoice.Service
	Drafts     *drafts.Service
	Reports    *reports.Service
	Auth       *auth.Service

	closers []func()
}

// Migrate applies pending schema migrations.
func Migrate(ctx context.Context, databaseURL string) error {
	m, err := migrations.New(databaseURL)
	if err != nil {
		return err
	}
	defer m.Close()
	return m.Up(ctx)
}

// New connects to the database and builds the services.
// Close must be called to release connections and background workers.
func New(ctx context.Context, cfg *config.Config, log *logger.Logger) (*App, error) {
	a := &App{Config: cfg, Log: log}

	if cfg.Database.MigrateOnStart {
		if err := Migrate(ctx, cfg.Database.URL); err != nil {
			return nil, fmt.Errorf("migrate: %w", err)
		}
	}

	poolCfg := postgres.DefaultPoolConfig(cfg.Database.URL)
	poolCfg.MaxConns = cfg.Database.MaxConns
	poolCfg.MinConns = cfg.Database.MinConns
	poolCfg.MaxConnLifetime = cfg.Database.MaxConnLifetime

	pool, err := postgres.NewPool(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	a.Pool = pool
	a.closers = append(a.closers, pool.Close)

	a.TxManager = postgres.NewTxManager(pool).WithStatementTimeout(cfg.Database.StatementTimeout)

	a.ActivityLog, err = postgres.NewActivityLog(a.TxManager)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.closers = append(a.closers, a.ActivityLog.Close)

	if err := a.buildServices(ctx); err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

func (a *App) buildServices(ctx context.Context) error {
	cfg := a.Config
	txm := a.TxManager
	recorder := a.ActivityLog

	a.Activities = activity.NewService(catalog_repo.NewActivityRepo(txm), txm, recorder)
	a.Clients = client.NewService(catalog_repo.NewClientRepo(txm), txm, recorder)
	a.Areas = salesarea.NewService(catalog_repo.NewSalesAreaRepo(txm), txm, recorder)

	statusRepo := catalog_repo.NewStatusRepo(txm)
	a.Status = status.NewService(statusRepo, txm, recorder)
	a.Company = company.NewService(catalog_repo.NewCompanyRepo(txm), recorder)
	a.Plans = plans.NewService(catalog_repo.NewPlanRepo(txm), a.Areas, txm, recorder)

	a.Statuses = cache.NewStatusCache(a.Pool.Pool, statusRepo)
	if err := a.Statuses.Start(ctx); err != nil {
		return fmt.Errorf("start status cache: %w", err)
	}
	a.closers = append(a.closers, a.Statuses.Stop)

	a.Numerator = numerator.NewFromTxManager(txm)
	refs := documents.NewReferenceResolver(a.Clients, a.Areas, a.Statuses)

	a.Invoices = invoice.NewService(invoice.Config{
		Repo:          document_repo.NewInvoiceRepo(txm),
		Refs:          refs,
		Activities:    a.Activities,
		Numerator:     a.Numerator,
		TxManager:     txm,
		Recorder:      recorder,
		DefaultStatus: cfg.Invoices.DefaultStatus,
		RetryAttempts: cfg.Numbering.RetryAttempts,
	})
	a.Offers = offer.NewService(offer.Config{
		Repo:          document_repo.NewOfferRepo(txm),
		Refs:          refs,
		Activities:    a.Activities,
		Numerator:     a.Numerator,
		TxManager:     txm,
		Recorder:      recorder,
		Invoices:      a.Invoices,
		RetryAttempts: cfg.Numbering.RetryAttempts,
	})

	store, err := a.draftStore(ctx)
	if err != nil {
		return err
	}
	a.Drafts = drafts.NewService(drafts.Config{
		Store:      store,
		Refs:       refs,
		Activities: a.Activities,
		Offers:     a.Offers,
		Recorder:   recorder,
		TTL:        cfg.Drafts.TTL,
	})

	classifier, err := reports.NewClassifier(reports.Rules{
		Unsigned:   cfg.Reports.UnsignedRule,
		Receivable: cfg.Reports.ReceivableRule,
		Paid:       cfg.Reports.PaidRule,
	})
	if err != nil {
		return fmt.Errorf("compile report rules: %w", err)
	}
	reportRepo := report_repo.NewReportRepo(txm)
	a.Reports = reports.NewService(reportRepo, reportRepo, a.Clients, classifier, nil)

	jwtCfg := auth.DefaultJWTConfig(cfg.Auth.JWTSecret)
	if cfg.Auth.Issuer != "" {
		jwtCfg.Issuer = cfg.Auth.Issuer
	}
	if cfg.Auth.TokenTTL > 0 {
		jwtCfg.AccessTokenTTL = cfg.Auth.TokenTTL
	}
	a.JWT = auth.NewJWTService(jwtCfg)
	a.Auth = auth.NewService(auth_repo.NewUserRepo(txm), a.JWT, auth.DefaultServiceConfig())
	return nil
}

// draftStore selects Redis when an address is configured.
func (a *App) draftStore(ctx context.Context) (drafts.Store, error) {
	if a.Config.Redis.Addr == "" {
		a.Log.Info("draft store: memory")
		return drafts.NewMemoryStore(nil), nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     a.Config.Redis.Addr,
		Password: a.Config.Redis.Password,
		DB:       a.Config.Redis.DB,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("connect redis: %w", err)
	}
	a.Redis = rdb
	a.closers = append(a.closers, func() { _ = rdb.Close() })

	a.Log.Infow("draft store: redis", "addr", a.Config.Redis.Addr)
	return cache.NewRedisDraftStore(rdb, cache.DefaultDraftPrefix), nil
}

// Close releases resources in reverse order of acquisition.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}
