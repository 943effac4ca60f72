package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/povarna/generative-ai-agents/eval-suite/internal/models"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const (
	EntryRun     = "run"
	EntryReport  = "report"
	EntryVerdict = "verdict"
	EntryError   = "error"
)

// Publisher appends evaluation results to the results stream. Every entry
// carries a type field and a JSON payload.
type Publisher struct {
	client StreamClient
	stream string
	maxLen int64
	logger *zerolog.Logger
}

func NewPublisher(client StreamClient, cfg *RedisStreamConfig, logger *zerolog.Logger) *Publisher {
	return &Publisher{
		client: client,
		stream: cfg.ResultsStream,
		maxLen: cfg.MaxLen,
		logger: logger,
	}
}

func (p *Publisher) Name() string {
	return "redis-stream"
}

func (p *Publisher) PublishRun(ctx context.Context, run models.RunResult) error {
	return p.add(ctx, EntryRun, run, map[string]any{
		"run_id":    run.RunID,
		"run_index": run.Index,
		"passed":    run.Passed(),
		"cases":     len(run.Verdicts),
	})
}

func (p *Publisher) PublishReport(ctx context.Context, report models.AggregateReport) error {
	return p.add(ctx, EntryReport, report, map[string]any{
		"report_id":       report.ReportID,
		"suite_pass_rate": report.SuitePassRate,
	})
}

// PublishVerdict publishes the verdict of a single case evaluation requested
// by message requestID.
func (p *Publisher) PublishVerdict(ctx context.Context, requestID string, verdict models.CaseVerdict) error {
	return p.add(ctx, EntryVerdict, verdict, map[string]any{
		"request_id": requestID,
		"case_id":    verdict.CaseID,
		"passed":     verdict.Passed,
	})
}

// PublishError reports a request that could not be served.
func (p *Publisher) PublishError(ctx context.Context, requestID string, cause error) error {
	return p.add(ctx, EntryError, map[string]string{"error": cause.Error()}, map[string]any{
		"request_id": requestID,
	})
}

func (p *Publisher) add(ctx context.Context, entryType string, payload any, fields map[string]any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode %s entry: %w", entryType, err)
	}

	values := map[string]any{
		"type":    entryType,
		"payload": string(data),
	}
	for k, v := range fields {
		values[k] = v
	}

	args := &redis.XAddArgs{
		Stream: p.stream,
		Values: values,
	}
	if p.maxLen > 0 {
		args.MaxLen = p.maxLen
		args.Approx = true
	}

	id, err := p.client.XAdd(ctx, args).Result()
	if err != nil {
		return fmt.Errorf("failed to publish %s entry to %s: %w", entryType, p.stream, err)
	}

	p.logger.Debug().
		Str("stream", p.stream).
		Str("id", id).
		Str("type", entryType).
		Msg("result published")
	return nil
}
