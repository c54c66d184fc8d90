// Package bootstrap wires the service components together for the
// binaries.
package bootstrap

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/levelreader/levelreader/internal/analyzer"
	"github.com/levelreader/levelreader/internal/api"
	"github.com/levelreader/levelreader/internal/config"
	"github.com/levelreader/levelreader/internal/database"
	"github.com/levelreader/levelreader/internal/feed"
	"github.com/levelreader/levelreader/internal/logger"
	"github.com/levelreader/levelreader/internal/pipeline"
	"github.com/levelreader/levelreader/internal/scheduler"
	"github.com/levelreader/levelreader/internal/telemetry"
	"github.com/levelreader/levelreader/internal/translator"
)

// Components holds everything the binaries need.
type Components struct {
	DB        *sqlx.DB
	Articles  *database.ArticleRepository
	Settings  *database.SettingsRepository
	Pipeline  *pipeline.Pipeline
	Metrics   *telemetry.Metrics
	Scheduler *scheduler.Scheduler
	Server    *api.Server
	Logger    logger.Logger
}

// New builds the full component graph from configuration.
func New(cfg *config.Config, log logger.Logger) (*Components, error) {
	db, err := database.NewPostgresConnection(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("setup database: %w", err)
	}

	articles := database.NewArticleRepository(db, log)
	settings := database.NewSettingsRepository(db, log)

	metrics := telemetry.New(prometheus.DefaultRegisterer)
	an := analyzer.New(log)
	fetcher := feed.NewFetcher(cfg.Feed, log)
	trans := translator.NewMoonshotClient(cfg.Translator, log)

	pipe := pipeline.New(fetcher, articles, trans, an, metrics, cfg.Feed.Source, log)

	sched := scheduler.New(cfg.Scheduler, pipe, articles, settings, log)

	handler := api.NewHandler(articles, pipe, trans, an, db, cfg.Service.Version, log)
	server := api.NewServer(handler, api.ServerConfig{
		Port:  cfg.Service.Port,
		Debug: cfg.Service.Debug,
	}, metrics, log)

	log.Info("Components initialized",
		logger.String("service", cfg.Service.Name),
		logger.String("version", cfg.Service.Version),
		logger.Int("port", cfg.Service.Port),
	)

	return &Components{
		DB:        db,
		Articles:  articles,
		Settings:  settings,
		Pipeline:  pipe,
		Metrics:   metrics,
		Scheduler: sched,
		Server:    server,
		Logger:    log,
	}, nil
}

// Close releases held resources.
func (c *Components) Close() error {
	return c.DB.Close()
}
