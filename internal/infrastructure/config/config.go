package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the connector
type Config struct {
	App       AppConfig
	HTTP      HTTPConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Log       LogConfig
	Zoho      ZohoConfig
	Sync      SyncConfig
	Scheduler SchedulerConfig
	Telemetry TelemetryConfig
}

// AppConfig holds application-level configuration
type AppConfig struct {
	Name string
	Env  string
	Port string
}

// HTTPConfig holds HTTP server configuration
type HTTPConfig struct {
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	MaxHeaderBytes int
	TrustedProxies []string
}

// DatabaseConfig holds database connection configuration
type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime int // minutes
	ConnMaxIdleTime int // minutes
	LogLevel        string
}

// RedisConfig holds the credential cache connection. Caching is skipped when
// Enabled is false.
type RedisConfig struct {
	Enabled   bool
	Host      string
	Port      int
	Password  string
	DB        int
	KeyPrefix string
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level      string // debug, info, warn, error
	Format     string // json, console
	Output     string // stdout, stderr, or file path
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// ZohoConfig holds the OAuth client and API endpoints of Zoho Books.
type ZohoConfig struct {
	ClientID       string
	ClientSecret   string
	RedirectURI    string
	OrganizationID string
	AccountsURL    string
	APIBaseURL     string
	Scope          string
	Timeout        time.Duration
}

// SyncConfig holds mapping defaults and behaviour switches of the connector.
type SyncConfig struct {
	Enabled           bool
	CustomersPerPage  int
	ItemsPerPage      int
	SyncFromDate      string // YYYY-MM-DD
	DefaultWarehouse  string
	ItemGroup         string
	ParentItemGroup   string
	DefaultUOM        string
	DefaultCurrency   string
	CustomerGroup     string
	Territory         string
	SubmitInvoices    bool
	InvoiceTerms      string
	PaymentTermsLabel string
	PaymentMode       string
}

// SchedulerConfig holds the periodic pull sync configuration
type SchedulerConfig struct {
	Enabled         bool
	Interval        time.Duration
	OnlyNew         bool
	JobTimeout      time.Duration
	RetryAttempts   int
	RetryDelay      time.Duration
	MaxRetryDelay   time.Duration
	HistorySize     int
	SyncCustomers   bool
	SyncItems       bool
	InitialDelay    time.Duration
	MaxPagesPerTick int
}

// TelemetryConfig holds OpenTelemetry configuration
type TelemetryConfig struct {
	Enabled           bool
	CollectorEndpoint string
	SamplingRatio     float64
	ServiceName       string
	Insecure          bool
	MetricsInterval   time.Duration
}

const dateLayout = "2006-01-02"

// Load reads configuration from config.toml and ZOHOSYNC_* environment
// variables.
func Load() (*Config, error) {
	return LoadFile("")
}

// LoadFile is Load with an explicit config file path. An empty path searches
// the default locations.
func LoadFile(path string) (*Config, error) {
	v := viper.New()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("toml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/zohosync")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || path != "" {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.SetEnvPrefix("ZOHOSYNC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setBoolDefaults(v)

	cfg := &Config{
		App: AppConfig{
			Name: v.GetString("app.name"),
			Env:  v.GetString("app.env"),
			Port: v.GetString("app.port"),
		},
		HTTP: HTTPConfig{
			ReadTimeout:    v.GetDuration("http.read_timeout"),
			WriteTimeout:   v.GetDuration("http.write_timeout"),
			IdleTimeout:    v.GetDuration("http.idle_timeout"),
			MaxHeaderBytes: v.GetInt("http.max_header_bytes"),
			TrustedProxies: v.GetStringSlice("http.trusted_proxies"),
		},
		Database: DatabaseConfig{
			Host:            v.GetString("database.host"),
			Port:            v.GetInt("database.port"),
			User:            v.GetString("database.user"),
			Password:        v.GetString("database.password"),
			DBName:          v.GetString("database.dbname"),
			SSLMode:         v.GetString("database.sslmode"),
			MaxOpenConns:    v.GetInt("database.max_open_conns"),
			MaxIdleConns:    v.GetInt("database.max_idle_conns"),
			ConnMaxLifetime: v.GetInt("database.conn_max_lifetime"),
			ConnMaxIdleTime: v.GetInt("database.conn_max_idle_time"),
			LogLevel:        v.GetString("database.log_level"),
		},
		Redis: RedisConfig{
			Enabled:   v.GetBool("redis.enabled"),
			Host:      v.GetString("redis.host"),
			Port:      v.GetInt("redis.port"),
			Password:  v.GetString("redis.password"),
			DB:        v.GetInt("redis.db"),
			KeyPrefix: v.GetString("redis.key_prefix"),
		},
		Log: LogConfig{
			Level:      v.GetString("log.level"),
			Format:     v.GetString("log.format"),
			Output:     v.GetString("log.output"),
			MaxSizeMB:  v.GetInt("log.max_size_mb"),
			MaxBackups: v.GetInt("log.max_backups"),
			MaxAgeDays: v.GetInt("log.max_age_days"),
			Compress:   v.GetBool("log.compress"),
		},
		Zoho: ZohoConfig{
			ClientID:       v.GetString("zoho.client_id"),
			ClientSecret:   v.GetString("zoho.client_secret"),
			RedirectURI:    v.GetString("zoho.redirect_uri"),
			OrganizationID: v.GetString("zoho.organization_id"),
			AccountsURL:    v.GetString("zoho.accounts_url"),
			APIBaseURL:     v.GetString("zoho.api_base_url"),
			Scope:          v.GetString("zoho.scope"),
			Timeout:        v.GetDuration("zoho.timeout"),
		},
		Sync: SyncConfig{
			Enabled:           v.GetBool("sync.enabled"),
			CustomersPerPage:  v.GetInt("sync.customers_per_page"),
			ItemsPerPage:      v.GetInt("sync.items_per_page"),
			SyncFromDate:      v.GetString("sync.sync_from_date"),
			DefaultWarehouse:  v.GetString("sync.default_warehouse"),
			ItemGroup:         v.GetString("sync.item_group"),
			ParentItemGroup:   v.GetString("sync.parent_item_group"),
			DefaultUOM:        v.GetString("sync.default_uom"),
			DefaultCurrency:   v.GetString("sync.default_currency"),
			CustomerGroup:     v.GetString("sync.customer_group"),
			Territory:         v.GetString("sync.territory"),
			SubmitInvoices:    v.GetBool("sync.submit_invoices"),
			InvoiceTerms:      v.GetString("sync.invoice_terms"),
			PaymentTermsLabel: v.GetString("sync.payment_terms_label"),
			PaymentMode:       v.GetString("sync.payment_mode"),
		},
		Scheduler: SchedulerConfig{
			Enabled:         v.GetBool("scheduler.enabled"),
			Interval:        v.GetDuration("scheduler.interval"),
			OnlyNew:         v.GetBool("scheduler.only_new"),
			JobTimeout:      v.GetDuration("scheduler.job_timeout"),
			RetryAttempts:   v.GetInt("scheduler.retry_attempts"),
			RetryDelay:      v.GetDuration("scheduler.retry_delay"),
			MaxRetryDelay:   v.GetDuration("scheduler.max_retry_delay"),
			HistorySize:     v.GetInt("scheduler.history_size"),
			SyncCustomers:   v.GetBool("scheduler.sync_customers"),
			SyncItems:       v.GetBool("scheduler.sync_items"),
			InitialDelay:    v.GetDuration("scheduler.initial_delay"),
			MaxPagesPerTick: v.GetInt("scheduler.max_pages_per_tick"),
		},
		Telemetry: TelemetryConfig{
			Enabled:           v.GetBool("telemetry.enabled"),
			CollectorEndpoint: v.GetString("telemetry.collector_endpoint"),
			SamplingRatio:     v.GetFloat64("telemetry.sampling_ratio"),
			ServiceName:       v.GetString("telemetry.service_name"),
			Insecure:          v.GetBool("telemetry.insecure"),
			MetricsInterval:   v.GetDuration("telemetry.metrics_interval"),
		},
	}

	applyDefaults(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// setBoolDefaults registers booleans that default to true, since a zero value
// cannot be told apart from an explicit false after loading.
func setBoolDefaults(v *viper.Viper) {
	v.SetDefault("sync.enabled", true)
	v.SetDefault("sync.submit_invoices", true)
	v.SetDefault("scheduler.only_new", true)
	v.SetDefault("scheduler.sync_customers", true)
	v.SetDefault("scheduler.sync_items", true)
	v.SetDefault("log.compress", true)
}

func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "zoho-integration"
	}
	if cfg.App.Env == "" {
		cfg.App.Env = "development"
	}
	if cfg.App.Port == "" {
		cfg.App.Port = "8080"
	}
	if cfg.HTTP.ReadTimeout == 0 {
		cfg.HTTP.ReadTimeout = 30 * time.Second
	}
	if cfg.HTTP.WriteTimeout == 0 {
		cfg.HTTP.WriteTimeout = 5 * time.Minute
	}
	if cfg.HTTP.IdleTimeout == 0 {
		cfg.HTTP.IdleTimeout = 120 * time.Second
	}
	if cfg.HTTP.MaxHeaderBytes == 0 {
		cfg.HTTP.MaxHeaderBytes = 1 << 20
	}
	if cfg.Database.Host == "" {
		cfg.Database.Host = "localhost"
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = 5432
	}
	if cfg.Database.User == "" {
		cfg.Database.User = "postgres"
	}
	if cfg.Database.DBName == "" {
		cfg.Database.DBName = "erp"
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = 10
	}
	if cfg.Database.MaxIdleConns == 0 {
		cfg.Database.MaxIdleConns = 2
	}
	if cfg.Database.ConnMaxLifetime == 0 {
		cfg.Database.ConnMaxLifetime = 60
	}
	if cfg.Database.ConnMaxIdleTime == 0 {
		cfg.Database.ConnMaxIdleTime = 30
	}
	if cfg.Database.LogLevel == "" {
		cfg.Database.LogLevel = "warn"
	}
	if cfg.Redis.Host == "" {
		cfg.Redis.Host = "localhost"
	}
	if cfg.Redis.Port == 0 {
		cfg.Redis.Port = 6379
	}
	if cfg.Redis.KeyPrefix == "" {
		cfg.Redis.KeyPrefix = "zohosync"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	if cfg.Log.Output == "" {
		cfg.Log.Output = "stdout"
	}
	if cfg.Log.MaxSizeMB == 0 {
		cfg.Log.MaxSizeMB = 100
	}
	if cfg.Log.MaxBackups == 0 {
		cfg.Log.MaxBackups = 5
	}
	if cfg.Log.MaxAgeDays == 0 {
		cfg.Log.MaxAgeDays = 30
	}
	if cfg.Zoho.AccountsURL == "" {
		cfg.Zoho.AccountsURL = "https://accounts.zoho.com"
	}
	if cfg.Zoho.APIBaseURL == "" {
		cfg.Zoho.APIBaseURL = "https://www.zohoapis.com/books/v3"
	}
	if cfg.Zoho.Scope == "" {
		cfg.Zoho.Scope = "ZohoBooks.fullaccess.all"
	}
	if cfg.Zoho.Timeout == 0 {
		cfg.Zoho.Timeout = 30 * time.Second
	}
	if cfg.Sync.CustomersPerPage == 0 {
		cfg.Sync.CustomersPerPage = 50
	}
	if cfg.Sync.ItemsPerPage == 0 {
		cfg.Sync.ItemsPerPage = 50
	}
	if cfg.Sync.ItemGroup == "" {
		cfg.Sync.ItemGroup = "Zoho Items"
	}
	if cfg.Sync.ParentItemGroup == "" {
		cfg.Sync.ParentItemGroup = "All Item Groups"
	}
	if cfg.Sync.DefaultUOM == "" {
		cfg.Sync.DefaultUOM = "Nos"
	}
	if cfg.Sync.DefaultCurrency == "" {
		cfg.Sync.DefaultCurrency = "AED"
	}
	if cfg.Sync.CustomerGroup == "" {
		cfg.Sync.CustomerGroup = "All Customer Groups"
	}
	if cfg.Sync.Territory == "" {
		cfg.Sync.Territory = "All Territories"
	}
	if cfg.Sync.InvoiceTerms == "" {
		cfg.Sync.InvoiceTerms = "Thank you for your business!"
	}
	if cfg.Sync.PaymentTermsLabel == "" {
		cfg.Sync.PaymentTermsLabel = "Due on Receipt"
	}
	if cfg.Sync.PaymentMode == "" {
		cfg.Sync.PaymentMode = "cash"
	}
	if cfg.Scheduler.Interval == 0 {
		cfg.Scheduler.Interval = time.Hour
	}
	if cfg.Scheduler.JobTimeout == 0 {
		cfg.Scheduler.JobTimeout = 30 * time.Minute
	}
	if cfg.Scheduler.RetryAttempts == 0 {
		cfg.Scheduler.RetryAttempts = 3
	}
	if cfg.Scheduler.RetryDelay == 0 {
		cfg.Scheduler.RetryDelay = time.Minute
	}
	if cfg.Scheduler.MaxRetryDelay == 0 {
		cfg.Scheduler.MaxRetryDelay = 30 * time.Minute
	}
	if cfg.Scheduler.HistorySize == 0 {
		cfg.Scheduler.HistorySize = 50
	}
	if cfg.Scheduler.MaxPagesPerTick == 0 {
		cfg.Scheduler.MaxPagesPerTick = 10
	}
	if cfg.Telemetry.CollectorEndpoint == "" {
		cfg.Telemetry.CollectorEndpoint = "localhost:4317"
	}
	if cfg.Telemetry.SamplingRatio == 0 {
		cfg.Telemetry.SamplingRatio = 1.0
	}
	if cfg.Telemetry.ServiceName == "" {
		cfg.Telemetry.ServiceName = "zoho-integration"
	}
	if cfg.Telemetry.MetricsInterval == 0 {
		cfg.Telemetry.MetricsInterval = 60 * time.Second
	}
}

// validate performs validation on the configuration
func (c *Config) validate() error {
	if c.Database.MaxOpenConns <= 0 {
		return fmt.Errorf("database.max_open_conns must be positive")
	}
	if c.Database.MaxIdleConns > c.Database.MaxOpenConns {
		return fmt.Errorf("database.max_idle_conns (%d) cannot exceed database.max_open_conns (%d)",
			c.Database.MaxIdleConns, c.Database.MaxOpenConns)
	}
	if c.Sync.SyncFromDate != "" {
		if _, err := time.Parse(dateLayout, c.Sync.SyncFromDate); err != nil {
			return fmt.Errorf("sync.sync_from_date must be YYYY-MM-DD: %w", err)
		}
	}
	if c.Sync.CustomersPerPage < 0 || c.Sync.CustomersPerPage > 200 {
		return fmt.Errorf("sync.customers_per_page must be between 1 and 200, got %d", c.Sync.CustomersPerPage)
	}
	if c.Sync.ItemsPerPage < 0 || c.Sync.ItemsPerPage > 200 {
		return fmt.Errorf("sync.items_per_page must be between 1 and 200, got %d", c.Sync.ItemsPerPage)
	}
	if c.Scheduler.Enabled && c.Scheduler.Interval < time.Minute {
		return fmt.Errorf("scheduler.interval must be at least 1m, got %s", c.Scheduler.Interval)
	}
	if c.Telemetry.SamplingRatio < 0.0 || c.Telemetry.SamplingRatio > 1.0 {
		return fmt.Errorf("telemetry.sampling_ratio must be between 0.0 and 1.0, got %f", c.Telemetry.SamplingRatio)
	}

	if c.App.Env == "production" {
		if c.Database.Password == "" {
			return fmt.Errorf("database.password is required in production")
		}
		if c.Database.SSLMode == "disable" {
			return fmt.Errorf("database.sslmode cannot be 'disable' in production")
		}
		if c.Sync.Enabled && (c.Zoho.ClientID == "" || c.Zoho.ClientSecret == "" || c.Zoho.RedirectURI == "") {
			return fmt.Errorf("zoho.client_id, zoho.client_secret and zoho.redirect_uri are required in production")
		}
	}

	return nil
}

// DSN returns the database connection string with properly escaped values
func (d *DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.User, d.Password),
		Host:   fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:   d.DBName,
	}
	q := u.Query()
	q.Set("sslmode", d.SSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}

// Addr returns host:port of the Redis server
func (r *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// SyncFrom parses SyncFromDate. It returns nil when unset.
func (s *SyncConfig) SyncFrom() *time.Time {
	if s.SyncFromDate == "" {
		return nil
	}
	t, err := time.Parse(dateLayout, s.SyncFromDate)
	if err != nil {
		return nil
	}
	return &t
}
