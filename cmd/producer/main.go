package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/povarna/generative-ai-agents/eval-suite/internal/config"
	"github.com/povarna/generative-ai-agents/eval-suite/internal/orchestrator"
	red "github.com/povarna/generative-ai-agents/eval-suite/internal/redis"
	streamredis "github.com/povarna/generative-ai-agents/eval-suite/internal/stream/redis"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	data := flag.String("d", "", "Inline JSON RunRequest")
	caseID := flag.String("case", "", "Evaluate a single case instead of a suite run")
	stream := flag.String("stream", "", "Stream name (defaults to the configured request stream)")
	flag.Parse()

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	if err := run(*data, *caseID, *stream); err != nil {
		log.Error().Err(err).Msg("producer failed")
		os.Exit(1)
	}
}

func run(data, caseID, stream string) error {
	_ = godotenv.Load()

	cfg := config.DefaultEvalConfig()
	if path := config.EvalConfigPath(); fileExists(path) {
		loaded, err := config.LoadEvalConfig(path)
		if err != nil {
			return err
		}
		cfg = loaded
	} else {
		cfg.ApplyEnv()
	}
	if stream == "" {
		stream = cfg.Redis.Stream
	}

	values := map[string]any{}
	switch {
	case caseID != "":
		values[streamredis.FieldCaseID] = caseID
	case data != "":
		var req orchestrator.RunRequest
		if err := json.Unmarshal([]byte(data), &req); err != nil {
			return fmt.Errorf("invalid run request: %w", err)
		}
		values[streamredis.FieldPayload] = data
	default:
		// an empty payload runs the configured suite
		values[streamredis.FieldPayload] = ""
	}

	ctx := context.Background()
	client, err := red.Connect(ctx, cfg.Redis, 3, &log.Logger)
	if err != nil {
		return err
	}
	defer client.Close()

	id, err := client.XAdd(ctx, &redis.XAddArgs{
		Stream: stream,
		Values: values,
	}).Result()
	if err != nil {
		return err
	}

	log.Info().Str("stream", stream).Str("id", id).Str("case_id", caseID).Msg("Published successfully!")
	return nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
