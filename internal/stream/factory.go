package stream

import (
	"context"
	"fmt"

	"github.com/povarna/generative-ai-agents/eval-suite/internal/config"
	red "github.com/povarna/generative-ai-agents/eval-suite/internal/redis"
	"github.com/povarna/generative-ai-agents/eval-suite/internal/report"
	"github.com/povarna/generative-ai-agents/eval-suite/internal/stream/redis"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

type StreamConfig struct {
	Provider     string // redis, kafka, sqs, etc
	Redis        config.RedisConfig
	ConsumerName string
}

// Transport owns the broker connection. The publisher is created first so it
// can be handed to the orchestrator, the consumer last since it serves the
// orchestrator.
type Transport struct {
	client    *goredis.Client
	cfg       *redis.RedisStreamConfig
	publisher *redis.Publisher
	logger    *zerolog.Logger
}

func NewTransport(ctx context.Context, cfg *StreamConfig, logger *zerolog.Logger) (*Transport, error) {
	// If provider is empty, fallback to the default configuration.
	provider := cfg.Provider
	if provider == "" {
		provider = "redis"
	}

	switch provider {
	case "redis":
		client, err := red.Connect(ctx, cfg.Redis, 5, logger)
		if err != nil {
			return nil, err
		}

		streamCfg := redis.NewRedisStreamConfig(cfg.Redis, cfg.ConsumerName)
		return &Transport{
			client:    client,
			cfg:       streamCfg,
			publisher: redis.NewPublisher(client, streamCfg, logger),
			logger:    logger,
		}, nil

	default:
		return nil, fmt.Errorf("unsupported stream provider: %s", cfg.Provider)
	}
}

// Reporter publishes runs and reports to the results stream.
func (t *Transport) Reporter() report.Reporter {
	return t.publisher
}

func (t *Transport) Consumer(runner redis.Runner) StreamConsumer {
	return redis.NewConsumer(t.client, t.cfg, runner, t.publisher, t.logger)
}

func (t *Transport) Close() error {
	return t.client.Close()
}
