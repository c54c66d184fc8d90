package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/levelreader/levelreader/internal/config"
)

func TestSetDefaults(t *testing.T) {
	cfg := &config.Config{}
	cfg.SetDefaults()

	assert.Equal(t, "levelreader", cfg.Service.Name)
	assert.Equal(t, 8080, cfg.Service.Port)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "https://www.geekpark.net/rss", cfg.Feed.URL)
	assert.Equal(t, "极客公园", cfg.Feed.Source)
	assert.Equal(t, 5, cfg.Feed.MaxItems)
	assert.Equal(t, 30*time.Second, cfg.Feed.Timeout)
	assert.Equal(t, "moonshot-v1-8k", cfg.Translator.Model)
	assert.InDelta(t, 0.3, cfg.Translator.Temperature, 0.0001)
	assert.Equal(t, "0 * * * *", cfg.Scheduler.SyncSchedule)
	assert.Equal(t, 30, cfg.Scheduler.RetentionDays)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestSetDefaults_PreservesExplicitValues(t *testing.T) {
	cfg := &config.Config{}
	cfg.Service.Port = 9090
	cfg.Feed.MaxItems = 20
	cfg.SetDefaults()

	assert.Equal(t, 9090, cfg.Service.Port)
	assert.Equal(t, 20, cfg.Feed.MaxItems)
}

func TestDatabaseDSN(t *testing.T) {
	db := config.DatabaseConfig{
		Host:     "db.internal",
		Port:     5433,
		User:     "reader",
		Password: "secret",
		Name:     "articles",
		SSLMode:  "require",
	}
	assert.Equal(t,
		"host=db.internal port=5433 user=reader password=secret dbname=articles sslmode=require",
		db.DSN())
}

func TestLoad_YAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	content := `
service:
  port: 9000
feed:
  url: https://example.com/rss
  max_items: 3
scheduler:
  enabled: true
  retention_days: 7
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg := &config.Config{}
	loader := config.NewLoader()
	require.NoError(t, loader.LoadWithDefaults(path, cfg))

	assert.Equal(t, 9000, cfg.Service.Port)
	assert.Equal(t, "https://example.com/rss", cfg.Feed.URL)
	assert.Equal(t, 3, cfg.Feed.MaxItems)
	assert.True(t, cfg.Scheduler.Enabled)
	assert.Equal(t, 7, cfg.Scheduler.RetentionDays)
	// Untouched sections still pick up defaults.
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, "moonshot-v1-8k", cfg.Translator.Model)
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg := &config.Config{}
	loader := config.NewLoader()
	require.NoError(t, loader.LoadWithDefaults(filepath.Join(t.TempDir(), "absent.yml"), cfg))

	assert.Equal(t, 8080, cfg.Service.Port)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("READER_PORT", "7070")
	t.Setenv("DB_HOST", "pg.example.com")
	t.Setenv("FEED_MAX_ITEMS", "2")
	t.Setenv("MOONSHOT_API_KEY", "sk-test")
	t.Setenv("SCHEDULER_ENABLED", "true")

	cfg := &config.Config{}
	loader := config.NewLoader()
	require.NoError(t, loader.LoadWithDefaults(filepath.Join(t.TempDir(), "absent.yml"), cfg))

	assert.Equal(t, 7070, cfg.Service.Port)
	assert.Equal(t, "pg.example.com", cfg.Database.Host)
	assert.Equal(t, 2, cfg.Feed.MaxItems)
	assert.Equal(t, "sk-test", cfg.Translator.APIKey)
	assert.True(t, cfg.Scheduler.Enabled)
}

func TestLoad_InvalidEnvValue(t *testing.T) {
	t.Setenv("READER_PORT", "not-a-number")

	cfg := &config.Config{}
	loader := config.NewLoader()
	err := loader.Load(filepath.Join(t.TempDir(), "absent.yml"), cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "READER_PORT")
}

func TestGetConfigPath(t *testing.T) {
	assert.Equal(t, "config.yml", config.GetConfigPath("config.yml"))

	t.Setenv("CONFIG_PATH", "/etc/levelreader/config.yml")
	assert.Equal(t, "/etc/levelreader/config.yml", config.GetConfigPath("config.yml"))
}
