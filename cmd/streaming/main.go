package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/povarna/generative-ai-agents/eval-suite/internal/config"
	"github.com/povarna/generative-ai-agents/eval-suite/internal/report"
	"github.com/povarna/generative-ai-agents/eval-suite/internal/setup"
	"github.com/povarna/generative-ai-agents/eval-suite/internal/setup/logger"
	"github.com/povarna/generative-ai-agents/eval-suite/internal/stream"
	"github.com/rs/zerolog/log"
)

func main() {
	// Load env
	if err := godotenv.Load(); err != nil {
		log.Warn().Msg("No .env file found")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.LoadEvalConfig(config.EvalConfigPath())
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}

	// Setup logging
	log.Logger = logger.New(cfg.LogLevel, true)
	logger := log.Logger
	cfg.Report.EnableSummary = false

	// Redis transport: the publisher reports every run, the consumer serves requests
	transport, err := stream.NewTransport(ctx, &stream.StreamConfig{
		Provider:     os.Getenv("STREAM_PROVIDER"),
		Redis:        cfg.Redis,
		ConsumerName: os.Getenv("HOSTNAME"),
	}, &logger)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create stream transport")
	}
	defer transport.Close()

	deps, err := setup.Wire(ctx, cfg, setup.Options{
		Reporters: []report.Reporter{transport.Reporter()},
	}, &logger)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to wire dependencies")
	}
	defer deps.Close()

	consumer := transport.Consumer(deps.Orchestrator)

	// Setup consumer
	if err := consumer.Setup(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to setup consumer")
	}

	// Start consumer
	go func() {
		if err := consumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error().Err(err).Msg("Consumer stopped with error")
		}
	}()

	// Wait for context to be done
	<-ctx.Done()
	logger.Info().Msg("Shutting down...")

	if err := consumer.Stop(); err != nil {
		logger.Warn().Err(err).Msg("Consumer did not stop cleanly")
	}

	log.Info().Msg("Eval consumer stopped")
}
