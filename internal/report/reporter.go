package report

import (
	"context"
	"errors"

	"github.com/povarna/generative-ai-agents/eval-suite/internal/models"
	"github.com/rs/zerolog"
)

// Reporter renders evaluation results to a destination. PublishRun is called
// once per completed run in run order, PublishReport once at the end.
type Reporter interface {
	Name() string
	PublishRun(ctx context.Context, run models.RunResult) error
	PublishReport(ctx context.Context, report models.AggregateReport) error
}

// Multi fans out to several reporters. A failing reporter is logged and does
// not stop the others.
type Multi struct {
	reporters []Reporter
	logger    *zerolog.Logger
}

func NewMulti(logger *zerolog.Logger, reporters ...Reporter) *Multi {
	return &Multi{reporters: reporters, logger: logger}
}

func (m *Multi) Name() string {
	return "multi"
}

func (m *Multi) Len() int {
	return len(m.reporters)
}

func (m *Multi) PublishRun(ctx context.Context, run models.RunResult) error {
	var errs []error
	for _, r := range m.reporters {
		if err := r.PublishRun(ctx, run); err != nil {
			m.logger.Error().
				Err(err).
				Str("reporter", r.Name()).
				Int("run_index", run.Index).
				Msg("failed to publish run")
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m *Multi) PublishReport(ctx context.Context, report models.AggregateReport) error {
	var errs []error
	for _, r := range m.reporters {
		if err := r.PublishReport(ctx, report); err != nil {
			m.logger.Error().
				Err(err).
				Str("reporter", r.Name()).
				Str("report_id", report.ReportID).
				Msg("failed to publish report")
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
