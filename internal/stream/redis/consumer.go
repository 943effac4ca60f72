package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/povarna/generative-ai-agents/eval-suite/internal/models"
	"github.com/povarna/generative-ai-agents/eval-suite/internal/orchestrator"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Message fields. A message with case_id evaluates that case once; otherwise
// payload holds a JSON run request.
const (
	FieldPayload = "payload"
	FieldCaseID  = "case_id"
)

// Runner serves the requests read from the stream.
type Runner interface {
	RunSuite(ctx context.Context, req orchestrator.RunRequest) (models.AggregateReport, error)
	EvaluateCase(ctx context.Context, caseID string) (models.CaseVerdict, error)
}

type Consumer struct {
	client       StreamClient
	stream       string
	groupID      string
	consumerName string
	cfg          *RedisStreamConfig
	runner       Runner
	publisher    *Publisher
	logger       *zerolog.Logger
}

func NewConsumer(client StreamClient, cfg *RedisStreamConfig, runner Runner, publisher *Publisher, logger *zerolog.Logger) *Consumer {
	return &Consumer{
		client:       client,
		stream:       cfg.Stream,
		groupID:      cfg.Group,
		consumerName: cfg.ConsumerName,
		cfg:          cfg,
		runner:       runner,
		publisher:    publisher,
		logger:       logger,
	}
}

func (c *Consumer) Setup(ctx context.Context) error {
	err := c.client.XGroupCreateMkStream(ctx, c.stream, c.groupID, "0").Err()
	if err != nil && !strings.HasPrefix(err.Error(), "BUSYGROUP") {
		return fmt.Errorf("failed to create consumer group %s: %w", c.groupID, err)
	}
	return nil
}

// Start reads and serves messages one at a time until ctx is cancelled.
func (c *Consumer) Start(ctx context.Context) error {
	c.logger.Info().
		Str("stream", c.stream).
		Str("group", c.groupID).
		Str("consumer", c.consumerName).
		Msg("consumer started")

	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		streams, err := c.client.XReadGroup(ctx, &redis.XReadGroupArgs{
			Group:    c.groupID,
			Consumer: c.consumerName,
			Streams:  []string{c.stream, ">"},
			Count:    1,
			Block:    c.cfg.Block,
		}).Result()

		if err != nil {
			if errors.Is(err, redis.Nil) {
				continue
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			c.logger.Error().Err(err).Msg("failed to read from stream")
			continue
		}

		for _, s := range streams {
			for _, msg := range s.Messages {
				c.process(ctx, msg)
			}
		}
	}
}

func (c *Consumer) Stop() error {
	return nil
}

// process serves one message and acknowledges it. Malformed messages are
// acknowledged too so they are not redelivered.
func (c *Consumer) process(ctx context.Context, msg redis.XMessage) {
	c.logger.Info().Str("id", msg.ID).Msg("message received")
	defer c.ack(ctx, msg.ID)

	if caseID, ok := msg.Values[FieldCaseID].(string); ok && caseID != "" {
		c.evaluateCase(ctx, msg.ID, caseID)
		return
	}

	var req orchestrator.RunRequest
	if payload, ok := msg.Values[FieldPayload].(string); ok && payload != "" {
		if err := json.Unmarshal([]byte(payload), &req); err != nil {
			c.logger.Error().Err(err).Str("id", msg.ID).Msg("failed to decode run request")
			c.fail(ctx, msg.ID, fmt.Errorf("failed to decode run request: %w", err))
			return
		}
	}

	result, err := c.runner.RunSuite(ctx, req)
	if err != nil {
		c.logger.Error().Err(err).Str("id", msg.ID).Msg("run request failed")
		c.fail(ctx, msg.ID, err)
		return
	}

	c.logger.Info().
		Str("id", msg.ID).
		Str("report_id", result.ReportID).
		Float64("suite_pass_rate", result.SuitePassRate).
		Msg("run request complete")
}

func (c *Consumer) evaluateCase(ctx context.Context, msgID, caseID string) {
	verdict, err := c.runner.EvaluateCase(ctx, caseID)
	if err != nil {
		c.logger.Error().Err(err).Str("id", msgID).Str("case_id", caseID).Msg("case evaluation failed")
		c.fail(ctx, msgID, err)
		return
	}

	c.logger.Info().
		Str("id", msgID).
		Str("case_id", caseID).
		Float64("score", verdict.Score).
		Bool("passed", verdict.Passed).
		Msg("case evaluation complete")

	if err := c.publisher.PublishVerdict(ctx, msgID, verdict); err != nil {
		c.logger.Error().Err(err).Str("id", msgID).Msg("failed to publish verdict")
	}
}

func (c *Consumer) fail(ctx context.Context, msgID string, cause error) {
	if err := c.publisher.PublishError(ctx, msgID, cause); err != nil {
		c.logger.Error().Err(err).Str("id", msgID).Msg("failed to publish error")
	}
}

func (c *Consumer) ack(ctx context.Context, msgID string) {
	if err := c.client.XAck(ctx, c.stream, c.groupID, msgID).Err(); err != nil {
		c.logger.Error().Err(err).Str("id", msgID).Msg("failed to ACK message")
	}
}
