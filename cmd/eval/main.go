package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/povarna/generative-ai-agents/eval-suite/internal/config"
	"github.com/povarna/generative-ai-agents/eval-suite/internal/setup/logger"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// errStrictFailures makes the process exit non-zero after a complete run.
var errStrictFailures = errors.New("strict cases failed")

var (
	configPath string
	verbose    bool
	quiet      bool

	rootCmd = &cobra.Command{
		Use:   "eval",
		Short: "Run evaluation suites against a feature under test",
		Long: `eval runs every registered test case through the feature under test,
scores the output with static checks and an LLM judge, and reports
per-case scores, pass rates and flakiness across repeated runs.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.EvalConfigPath(), "Path to the eval config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Debug logging and per-stage timings")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Only log errors")

	rootCmd.AddCommand(runCmd, validateCmd, configCmd)
}

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if errors.Is(err, errStrictFailures) {
			log.Error().Msg(err.Error())
		} else {
			log.Error().Err(err).Msg("eval failed")
		}
		os.Exit(1)
	}
}

// loadConfig reads the config file and installs the process logger.
func loadConfig() (*config.EvalConfig, *zerolog.Logger, error) {
	cfg, err := config.LoadEvalConfig(configPath)
	if err != nil {
		return nil, nil, err
	}

	log.Logger = logger.New(logger.Level(cfg.LogLevel, verbose, quiet), true)
	return cfg, &log.Logger, nil
}
