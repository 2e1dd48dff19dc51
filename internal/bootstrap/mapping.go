package bootstrap

import (
	"github.com/itsyosefali/zoho-integration/internal/domain/integration"
	"github.com/itsyosefali/zoho-integration/internal/infrastructure/config"
	"github.com/itsyosefali/zoho-integration/internal/infrastructure/scheduler"
	"github.com/itsyosefali/zoho-integration/internal/infrastructure/telemetry"
	"github.com/itsyosefali/zoho-integration/internal/infrastructure/zoho"
)

// Settings maps the [sync] section to connector settings. Blank values keep
// the defaults.
func Settings(cfg *config.Config) integration.Settings {
	s := integration.DefaultSettings()
	sc := cfg.Sync

	s.Enabled = sc.Enabled
	s.SubmitInvoices = sc.SubmitInvoices
	s.SyncFromDate = sc.SyncFrom()
	s.DefaultWarehouse = sc.DefaultWarehouse

	setInt(&s.CustomersPerPage, sc.CustomersPerPage)
	setInt(&s.ItemsPerPage, sc.ItemsPerPage)
	setString(&s.ItemGroup, sc.ItemGroup)
	setString(&s.ParentItemGroup, sc.ParentItemGroup)
	setString(&s.DefaultUOM, sc.DefaultUOM)
	setString(&s.DefaultCurrency, sc.DefaultCurrency)
	setString(&s.CustomerGroup, sc.CustomerGroup)
	setString(&s.Territory, sc.Territory)
	setString(&s.InvoiceTerms, sc.InvoiceTerms)
	setString(&s.PaymentTermsLabel, sc.PaymentTermsLabel)
	setString(&s.PaymentMode, sc.PaymentMode)
	return s
}

// ZohoConfig maps the [zoho] section to the adapter configuration
func ZohoConfig(cfg *config.Config) *zoho.Config {
	return &zoho.Config{
		AccountsURL: cfg.Zoho.AccountsURL,
		APIBaseURL:  cfg.Zoho.APIBaseURL,
		Scope:       cfg.Zoho.Scope,
		Timeout:     cfg.Zoho.Timeout,
	}
}

// SchedulerConfig maps the [scheduler] section
func SchedulerConfig(cfg *config.Config) scheduler.SyncSchedulerConfig {
	sc := cfg.Scheduler
	return scheduler.SyncSchedulerConfig{
		Enabled:         sc.Enabled,
		Interval:        sc.Interval,
		InitialDelay:    sc.InitialDelay,
		OnlyNew:         sc.OnlyNew,
		JobTimeout:      sc.JobTimeout,
		RetryAttempts:   sc.RetryAttempts,
		RetryDelay:      sc.RetryDelay,
		MaxRetryDelay:   sc.MaxRetryDelay,
		HistorySize:     sc.HistorySize,
		MaxPagesPerTick: sc.MaxPagesPerTick,
	}
}

// TelemetryConfig maps the [telemetry] section
func TelemetryConfig(cfg *config.Config) telemetry.Config {
	tc := cfg.Telemetry
	serviceName := tc.ServiceName
	if serviceName == "" {
		serviceName = cfg.App.Name
	}
	return telemetry.Config{
		Enabled:           tc.Enabled,
		CollectorEndpoint: tc.CollectorEndpoint,
		SamplingRatio:     tc.SamplingRatio,
		ServiceName:       serviceName,
		Insecure:          tc.Insecure,
		MetricsInterval:   tc.MetricsInterval,
	}
}

func setInt(dst *int, v int) {
	if v > 0 {
		*dst = v
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
