package config

import (
	"fmt"
	"time"

	"github.com/levelreader/levelreader/internal/logger"
)

// Default configuration values.
const (
	defaultServiceName      = "levelreader"
	defaultServiceVersion   = "1.0.0"
	defaultServicePort      = 8080
	defaultDBHost           = "localhost"
	defaultDBPort           = 5432
	defaultDBUser           = "postgres"
	defaultDBName           = "levelreader"
	defaultDBSSLMode        = "disable"
	defaultDBMaxConns       = 25
	defaultDBMaxIdleConns   = 5
	defaultFeedURL          = "https://www.geekpark.net/rss"
	defaultFeedSource       = "极客公园"
	defaultFeedMaxItems     = 5
	defaultFeedTimeoutSec   = 30
	defaultTranslatorURL    = "https://api.moonshot.cn/v1/chat/completions"
	defaultTranslatorModel  = "moonshot-v1-8k"
	defaultTranslatorTemp   = 0.3
	defaultTranslateTimeout = 30
	defaultSyncSchedule     = "0 * * * *"
	defaultReportSchedule   = "0 8 * * 1"
	defaultCleanupSchedule  = "0 3 1 * *"
	defaultRetentionDays    = 30
	defaultLogLevel         = "info"
	defaultLogFormat        = "json"
)

// Config holds all configuration for the reader service.
type Config struct {
	Service    ServiceConfig    `yaml:"service"`
	Database   DatabaseConfig   `yaml:"database"`
	Feed       FeedConfig       `yaml:"feed"`
	Translator TranslatorConfig `yaml:"translator"`
	Scheduler  SchedulerConfig  `yaml:"scheduler"`
	Logging    logger.Config    `yaml:"logging"`
}

// ServiceConfig holds service-level configuration.
type ServiceConfig struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
	Port    int    `env:"READER_PORT" yaml:"port"`
	Debug   bool   `env:"APP_DEBUG"   yaml:"debug"`
}

// DatabaseConfig holds PostgreSQL connection configuration.
type DatabaseConfig struct {
	Host         string `env:"DB_HOST"           yaml:"host"`
	Port         int    `env:"DB_PORT"           yaml:"port"`
	User         string `env:"DB_USER"           yaml:"user"`
	Password     string `env:"DB_PASSWORD"       yaml:"password"`
	Name         string `env:"DB_NAME"           yaml:"name"`
	SSLMode      string `env:"DB_SSLMODE"        yaml:"sslmode"`
	MaxConns     int    `env:"DB_MAX_CONNS"      yaml:"max_conns"`
	MaxIdleConns int    `env:"DB_MAX_IDLE_CONNS" yaml:"max_idle_conns"`
}

// DSN returns the PostgreSQL connection string.
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode)
}

// FeedConfig holds RSS feed ingestion configuration.
type FeedConfig struct {
	URL      string        `env:"FEED_URL"       yaml:"url"`
	Source   string        `env:"FEED_SOURCE"    yaml:"source"`
	MaxItems int           `env:"FEED_MAX_ITEMS" yaml:"max_items"`
	Timeout  time.Duration `yaml:"timeout"`
}

// TranslatorConfig holds translation API configuration. When APIKey is
// empty the service falls back to placeholder translations.
type TranslatorConfig struct {
	APIKey      string        `env:"MOONSHOT_API_KEY" yaml:"api_key"`
	URL         string        `env:"TRANSLATOR_URL"   yaml:"url"`
	Model       string        `env:"TRANSLATOR_MODEL" yaml:"model"`
	Temperature float64       `yaml:"temperature"`
	Timeout     time.Duration `yaml:"timeout"`
}

// SchedulerConfig holds cron schedules for background jobs.
type SchedulerConfig struct {
	Enabled         bool   `env:"SCHEDULER_ENABLED" yaml:"enabled"`
	SyncSchedule    string `yaml:"sync_schedule"`
	ReportSchedule  string `yaml:"report_schedule"`
	CleanupSchedule string `yaml:"cleanup_schedule"`
	RetentionDays   int    `env:"RETENTION_DAYS"    yaml:"retention_days"`
}

// SetDefaults applies default values to any unset configuration fields.
func (c *Config) SetDefaults() {
	c.Service.setDefaults()
	c.Database.setDefaults()
	c.Feed.setDefaults()
	c.Translator.setDefaults()
	c.Scheduler.setDefaults()
	c.Logging.SetDefaults()
}

func (c *ServiceConfig) setDefaults() {
	if c.Name == "" {
		c.Name = defaultServiceName
	}
	if c.Version == "" {
		c.Version = defaultServiceVersion
	}
	if c.Port == 0 {
		c.Port = defaultServicePort
	}
}

func (c *DatabaseConfig) setDefaults() {
	if c.Host == "" {
		c.Host = defaultDBHost
	}
	if c.Port == 0 {
		c.Port = defaultDBPort
	}
	if c.User == "" {
		c.User = defaultDBUser
	}
	if c.Name == "" {
		c.Name = defaultDBName
	}
	if c.SSLMode == "" {
		c.SSLMode = defaultDBSSLMode
	}
	if c.MaxConns == 0 {
		c.MaxConns = defaultDBMaxConns
	}
	if c.MaxIdleConns == 0 {
		c.MaxIdleConns = defaultDBMaxIdleConns
	}
}

func (c *FeedConfig) setDefaults() {
	if c.URL == "" {
		c.URL = defaultFeedURL
	}
	if c.Source == "" {
		c.Source = defaultFeedSource
	}
	if c.MaxItems == 0 {
		c.MaxItems = defaultFeedMaxItems
	}
	if c.Timeout == 0 {
		c.Timeout = defaultFeedTimeoutSec * time.Second
	}
}

func (c *TranslatorConfig) setDefaults() {
	if c.URL == "" {
		c.URL = defaultTranslatorURL
	}
	if c.Model == "" {
		c.Model = defaultTranslatorModel
	}
	if c.Temperature == 0 {
		c.Temperature = defaultTranslatorTemp
	}
	if c.Timeout == 0 {
		c.Timeout = defaultTranslateTimeout * time.Second
	}
}

func (c *SchedulerConfig) setDefaults() {
	if c.SyncSchedule == "" {
		c.SyncSchedule = defaultSyncSchedule
	}
	if c.ReportSchedule == "" {
		c.ReportSchedule = defaultReportSchedule
	}
	if c.CleanupSchedule == "" {
		c.CleanupSchedule = defaultCleanupSchedule
	}
	if c.RetentionDays == 0 {
		c.RetentionDays = defaultRetentionDays
	}
}

// Load reads configuration from the given path with env overrides and
// defaults applied.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	loader := NewLoader(".env")
	if err := loader.LoadWithDefaults(path, cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}
