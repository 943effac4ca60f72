package redis

import (
	"time"

	"github.com/povarna/generative-ai-agents/eval-suite/internal/config"
)

// RedisStreamConfig names the request stream, its consumer group and the
// stream results are published to.
type RedisStreamConfig struct {
	Stream        string
	Group         string
	ConsumerName  string
	ResultsStream string
	// MaxLen caps the results stream, approximately. Zero keeps every entry.
	MaxLen int64
	Block  time.Duration
}

func NewRedisStreamConfig(cfg config.RedisConfig, consumerName string) *RedisStreamConfig {
	if consumerName == "" {
		consumerName = "eval-consumer"
	}
	return &RedisStreamConfig{
		Stream:        cfg.Stream,
		Group:         cfg.Group,
		ConsumerName:  consumerName,
		ResultsStream: cfg.ResultsStream,
		MaxLen:        10000,
		Block:         2 * time.Second,
	}
}
