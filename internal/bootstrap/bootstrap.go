// Package bootstrap wires configuration into the connector's stores, the Zoho
// adapter and the application services. Both binaries share it.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	integrationapp "github.com/itsyosefali/zoho-integration/internal/application/integration"
	"github.com/itsyosefali/zoho-integration/internal/domain/integration"
	"github.com/itsyosefali/zoho-integration/internal/infrastructure/cache"
	"github.com/itsyosefali/zoho-integration/internal/infrastructure/config"
	"github.com/itsyosefali/zoho-integration/internal/infrastructure/persistence"
	"github.com/itsyosefali/zoho-integration/internal/infrastructure/scheduler"
	"github.com/itsyosefali/zoho-integration/internal/infrastructure/telemetry"
	"github.com/itsyosefali/zoho-integration/internal/infrastructure/zoho"
)

// App holds every long-lived component of the connector
type App struct {
	Config *config.Config
	Logger *zap.Logger

	DB          *persistence.Database
	Redis       *redis.Client
	Credentials integration.CredentialStore
	CacheState  func() string

	CustomerRepo *persistence.GormCustomerRepository
	ItemRepo     *persistence.GormItemRepository

	Refresher *zoho.TokenRefresher
	Client    *zoho.Client

	Tracer  *telemetry.TracerProvider
	Meter   *telemetry.MeterProvider
	Metrics *telemetry.SyncMetrics

	Connection *integrationapp.ConnectionServiceImpl
	Customers  *integrationapp.CustomerSyncServiceImpl
	Items      *integrationapp.ItemSyncServiceImpl
	Invoices   *integrationapp.InvoicePushServiceImpl
	Records    *integrationapp.RecordPushServiceImpl
	Hooks      *integrationapp.EventHooks
}

// New connects to the database and Redis and builds the services. Close
// releases everything New opened.
func New(ctx context.Context, cfg *config.Config, log *zap.Logger) (*App, error) {
	app := &App{Config: cfg, Logger: log}
	if err := app.init(ctx); err != nil {
		_ = app.Close(ctx)
		return nil, err
	}
	return app, nil
}

func (a *App) init(ctx context.Context) error {
	cfg, log := a.Config, a.Logger

	tp, err := telemetry.NewTracerProvider(ctx, TelemetryConfig(cfg), log)
	if err != nil {
		return fmt.Errorf("failed to initialize tracer: %w", err)
	}
	a.Tracer = tp

	mp, err := telemetry.NewMeterProvider(ctx, TelemetryConfig(cfg), log)
	if err != nil {
		return fmt.Errorf("failed to initialize meter: %w", err)
	}
	a.Meter = mp

	metrics, err := telemetry.NewSyncMetrics(mp.Meter(telemetry.TracerName), log)
	if err != nil {
		return fmt.Errorf("failed to initialize sync metrics: %w", err)
	}
	a.Metrics = metrics

	db, err := persistence.NewDatabase(&cfg.Database, log)
	if err != nil {
		return err
	}
	a.DB = db
	log.Info("Database connected successfully")

	var store integration.CredentialStore = persistence.NewGormCredentialStore(db.DB)
	a.CacheState = func() string { return "disabled" }
	if cfg.Redis.Enabled {
		a.Redis = cache.NewRedisClient(&cfg.Redis)
		if err := cache.Ping(ctx, a.Redis); err != nil {
			// The tiered store falls through to postgres while Redis is down.
			log.Warn("Redis unavailable, credential cache degraded", zap.Error(err))
		}
		cached := cache.NewRedisCredentialStore(store, a.Redis, cfg.Redis.KeyPrefix, cache.WithLogger(log))
		a.CacheState = func() string { return cached.State().String() }
		store = cached
	}
	a.Credentials = store

	zohoCfg := ZohoConfig(cfg)
	httpClient := &http.Client{Timeout: cfg.Zoho.Timeout}

	refresher, err := zoho.NewTokenRefresher(zohoCfg, store, httpClient, log.Named("zoho.oauth"))
	if err != nil {
		return fmt.Errorf("failed to create token refresher: %w", err)
	}
	a.Refresher = refresher

	executor := zoho.NewExecutor(refresher, httpClient, log.Named("zoho.http"))
	client, err := zoho.NewClient(zohoCfg, executor, store, log.Named("zoho"))
	if err != nil {
		return fmt.Errorf("failed to create zoho client: %w", err)
	}
	a.Client = client

	settings := Settings(cfg)
	customers := persistence.NewGormCustomerRepository(db.DB)
	items := persistence.NewGormItemRepository(db.DB)
	a.CustomerRepo, a.ItemRepo = customers, items
	ledger := persistence.NewGormStockLedger(db.DB)
	invoices := persistence.NewGormSalesInvoiceRepository(db.DB)

	a.Connection = integrationapp.NewConnectionService(store, refresher, client, log)
	a.Customers = integrationapp.NewCustomerSyncService(client, customers, settings, metrics, log)
	a.Items = integrationapp.NewItemSyncService(client, items, items, ledger, settings, metrics, log)
	a.Invoices = integrationapp.NewInvoicePushService(client, invoices, customers, settings, metrics, log)
	a.Records = integrationapp.NewRecordPushService(client, customers, items, metrics, log)
	a.Hooks = integrationapp.NewEventHooks(store, a.Invoices, a.Records, log)

	return a.seedCredential(ctx)
}

// seedCredential copies the configured OAuth client into an unconfigured
// store. Settings saved through the API are never overwritten.
func (a *App) seedCredential(ctx context.Context) error {
	zc := a.Config.Zoho
	if zc.ClientID == "" {
		return nil
	}
	cred, err := a.Credentials.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load zoho credential: %w", err)
	}
	if cred.ClientID != "" {
		return nil
	}

	enabled := a.Config.Sync.Enabled
	err = a.Connection.Configure(ctx, integrationapp.OAuthSettings{
		ClientID:       zc.ClientID,
		ClientSecret:   zc.ClientSecret,
		RedirectURI:    zc.RedirectURI,
		OrganizationID: zc.OrganizationID,
		Enabled:        &enabled,
	})
	if err != nil {
		return fmt.Errorf("failed to seed zoho credential: %w", err)
	}
	a.Logger.Info("Seeded zoho credential from configuration")
	return nil
}

// NewScheduler builds the periodic sync scheduler with the enabled entities
// registered.
func (a *App) NewScheduler() (*scheduler.SyncScheduler, error) {
	s, err := scheduler.NewSyncScheduler(SchedulerConfig(a.Config), a.Logger.Named("scheduler"))
	if err != nil {
		return nil, err
	}
	if a.Config.Scheduler.SyncCustomers {
		s.Register(integration.EntityCustomer, a.Customers)
	}
	if a.Config.Scheduler.SyncItems {
		s.Register(integration.EntityItem, a.Items)
	}
	return s, nil
}

// Close releases the database, Redis and telemetry exporters
func (a *App) Close(ctx context.Context) error {
	var errs []error
	if a.Redis != nil {
		errs = append(errs, a.Redis.Close())
	}
	if a.DB != nil {
		errs = append(errs, a.DB.Close())
	}
	if a.Meter != nil {
		errs = append(errs, a.Meter.Shutdown(ctx))
	}
	if a.Tracer != nil {
		errs = append(errs, a.Tracer.Shutdown(ctx))
	}
	return errors.Join(errs...)
}
