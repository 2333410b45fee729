package main

import (
	"context"
	"flag"
	"os"

	"github.com/joho/godotenv"

	"bankflow/config"
	"bankflow/logger"
	"bankflow/pipeline"
)

func main() {
	log := logger.GetLogger()

	// Load environment variables from .env if present
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.WithError(err).Warn("Error loading .env file")
	}

	configPath := flag.String("config", "config/config.yml", "Path to configuration file")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.WithError(err).Error("Failed to load configuration")
		os.Exit(1)
	}

	if err := log.Configure(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output, cfg.Logging.MaxAge); err != nil {
		log.WithError(err).Error("Failed to configure logger")
		os.Exit(1)
	}

	log.WithFields(logger.Fields{
		"service": cfg.Bankflow.Name,
		"version": cfg.Bankflow.Version,
	}).Info("starting bankflow")

	if err := pipeline.New(cfg).Run(context.Background()); err != nil {
		log.WithError(err).Error("pipeline run failed")
		os.Exit(1)
	}

	log.Info("bankflow finished")
}
