package main

import (
	"context"
	"errors"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/povarna/generative-ai-agents/eval-suite/internal/config"
	"github.com/povarna/generative-ai-agents/eval-suite/internal/mcpadapter"
	"github.com/povarna/generative-ai-agents/eval-suite/internal/setup"
	"github.com/povarna/generative-ai-agents/eval-suite/internal/setup/logger"
	"github.com/rs/zerolog/log"
)

const version = "1.0.0"

func main() {
	// Load env
	_ = godotenv.Load()

	// Graceful shutdown on SIGINT/SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load Config
	cfg, err := config.LoadEvalConfig(config.EvalConfigPath())
	if err != nil {
		log.Error().Err(err).Msg("Unable to load config")
		os.Exit(1)
	}

	// stdout carries the protocol, logs go to stderr
	log.Logger = logger.New(cfg.LogLevel, true)
	logger := log.Logger
	cfg.Report.EnableSummary = false

	// Wire dependencies
	deps, err := setup.Wire(ctx, cfg, setup.Options{}, &logger)
	if err != nil {
		logger.Error().Err(err).Msg("Unable to load dependencies")
		os.Exit(1)
	}
	defer deps.Close()

	server := mcpadapter.NewServer(deps.Orchestrator, version)

	// Run over stdio
	if err := server.Run(ctx, &mcp.StdioTransport{}); err != nil {
		// EOF / "server is closing" is expected when stdin closes (e.g. echo | ./bin/eval-mcp)
		if errors.Is(err, io.EOF) || strings.Contains(err.Error(), "server is closing") {
			logger.Debug().Err(err).Msg("MCP server stopped")
			return
		}
		logger.Error().Err(err).Msg("Failed to run mcp server")
		os.Exit(1)
	}
}
