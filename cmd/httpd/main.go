// Command httpd runs the reader API server and the background scheduler.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/levelreader/levelreader/internal/bootstrap"
	"github.com/levelreader/levelreader/internal/config"
	"github.com/levelreader/levelreader/internal/logger"
)

func main() {
	cfg, err := config.Load(config.GetConfigPath("config.yml"))
	if err != nil {
		logger.Must(logger.Config{}).Fatal("Failed to load config", logger.Error(err))
	}

	log := logger.Must(cfg.Logging)
	defer func() { _ = log.Sync() }()

	log.Info("Starting reader service",
		logger.String("name", cfg.Service.Name),
		logger.String("version", cfg.Service.Version),
		logger.Int("port", cfg.Service.Port),
	)

	components, err := bootstrap.New(cfg, log)
	if err != nil {
		log.Fatal("Failed to initialize components", logger.Error(err))
	}
	defer func() { _ = components.Close() }()

	if cfg.Scheduler.Enabled {
		if err := components.Scheduler.Start(); err != nil {
			log.Fatal("Failed to start scheduler", logger.Error(err))
		}
		defer components.Scheduler.Stop()
	}

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- components.Server.Start()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil {
			log.Error("Server error", logger.Error(err))
			os.Exit(1)
		}
	case sig := <-shutdown:
		log.Info("Shutdown signal received", logger.String("signal", sig.String()))

		if err := components.Server.Shutdown(context.Background()); err != nil {
			log.Error("Graceful shutdown failed", logger.Error(err))
			os.Exit(1)
		}
		log.Info("Server stopped gracefully")
	}
}
