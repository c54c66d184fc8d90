// Command sync runs one feed ingestion pass and exits. Intended for
// manual runs and external schedulers.
package main

import (
	"context"
	"os"
	"time"

	"github.com/levelreader/levelreader/internal/bootstrap"
	"github.com/levelreader/levelreader/internal/config"
	"github.com/levelreader/levelreader/internal/logger"
)

const runTimeout = 10 * time.Minute

func main() {
	cfg, err := config.Load(config.GetConfigPath("config.yml"))
	if err != nil {
		logger.Must(logger.Config{}).Fatal("Failed to load config", logger.Error(err))
	}

	log := logger.Must(cfg.Logging)
	defer func() { _ = log.Sync() }()

	components, err := bootstrap.New(cfg, log)
	if err != nil {
		log.Fatal("Failed to initialize components", logger.Error(err))
	}
	defer func() { _ = components.Close() }()

	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()

	result, err := components.Pipeline.ProcessFeed(ctx)
	if err != nil {
		log.Error("Sync failed", logger.Error(err))
		os.Exit(1)
	}

	log.Info("Sync finished",
		logger.Int("created", len(result.Created)),
		logger.Int("skipped", result.Skipped),
		logger.Strings("errors", result.Errors),
	)

	if len(result.Errors) > 0 {
		os.Exit(1)
	}
}
