package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"sjsage522/carcrawler/config"
	"sjsage522/carcrawler/helpers"
	"sjsage522/carcrawler/internal"
	"sjsage522/carcrawler/internal/crawler"
	"sjsage522/carcrawler/logger"
	"sjsage522/carcrawler/services/worker"

	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables
	godotenv.Load()

	// Initialize logger first
	logger.Init()
	log := logger.Default

	// Load and validate configuration
	cfg := config.LoadConfig()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.ApplyFile(path); err != nil {
			log.Fatal().Err(err).Str("path", path).Msg("Failed to load config file")
		}
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	log.Info().
		Str("environment", cfg.Environment).
		Str("category", cfg.CategoryURL).
		Str("output", cfg.OutputPath).
		Dur("scrape_interval", cfg.ScrapeInterval).
		Msg("Starting application")

	// Set up context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Set up signal handling
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// Initialize services
	deps, err := internal.NewDependencies(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize services")
	}
	defer deps.Cleanup()

	c := crawler.CreateCrawler(cfg, deps.Cache)

	p := worker.NewPipeline(
		c,
		deps.Writer,
		deps.Publisher,
		helpers.NewLogger(cfg.FailureLogPath),
		worker.Options{
			CategoryURL: cfg.CategoryURL,
			Dedup:       cfg.DedupListings,
			Interval:    cfg.ScrapeInterval,
			Environment: cfg.Environment,
		},
	)

	// Start pipeline in a goroutine
	pipelineDone := make(chan error, 1)
	go func() {
		log.Info().Msg("Starting car listings pipeline")
		pipelineDone <- p.Start(ctx)
	}()

	// Wait for shutdown signal or pipeline exit
	select {
	case sig := <-sigChan:
		log.Info().
			Str("signal", sig.String()).
			Msg("Received shutdown signal")
		cancel()
		<-pipelineDone
	case err := <-pipelineDone:
		if err != nil {
			deps.Cleanup()
			log.Fatal().Err(err).Msg("Pipeline exited with error")
		}
		log.Info().Msg("Pipeline exited normally")
	}

	// Graceful shutdown
	log.Info().Msg("Shutting down gracefully...")
}
