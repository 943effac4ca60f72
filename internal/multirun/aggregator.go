package multirun

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/povarna/generative-ai-agents/eval-suite/internal/metrics"
	"github.com/povarna/generative-ai-agents/eval-suite/internal/models"
	"github.com/rs/zerolog"
)

// RunCoordinator executes one run over a set of cases
type RunCoordinator interface {
	Run(ctx context.Context, cases []models.TestCase, limit int) models.RunResult
}

// RunObserver is notified after every completed run, in run order.
type RunObserver func(ctx context.Context, run models.RunResult)

// Aggregator repeats runs sequentially and summarizes score stability per case.
type Aggregator struct {
	coordinator       RunCoordinator
	varianceThreshold float64
	suite             string
	onRun             RunObserver
	recorder          metrics.Recorder
	logger            *zerolog.Logger
}

type Option func(*Aggregator)

func WithSuiteName(name string) Option {
	return func(a *Aggregator) { a.suite = name }
}

func WithRunObserver(observer RunObserver) Option {
	return func(a *Aggregator) { a.onRun = observer }
}

func WithRecorder(recorder metrics.Recorder) Option {
	return func(a *Aggregator) { a.recorder = recorder }
}

func NewAggregator(coordinator RunCoordinator, varianceThreshold float64, logger *zerolog.Logger, opts ...Option) *Aggregator {
	a := &Aggregator{
		coordinator:       coordinator,
		varianceThreshold: varianceThreshold,
		recorder:          metrics.NoopRecorder{},
		logger:            logger,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Run executes runsCount runs one after another. A cancelled context does
// not shorten the report: the remaining runs complete immediately with
// cancelled verdicts so every case keeps runsCount results.
func (a *Aggregator) Run(ctx context.Context, cases []models.TestCase, runsCount, limit int) models.AggregateReport {
	start := time.Now()
	runsCount = max(runsCount, 1)

	runs := make([]models.RunResult, 0, runsCount)
	for i := range runsCount {
		a.logger.Info().
			Int("run_index", i+1).
			Int("runs_count", runsCount).
			Msg("starting run")

		run := a.coordinator.Run(ctx, cases, limit)
		run.Index = i + 1
		runs = append(runs, run)

		if a.onRun != nil {
			a.onRun(ctx, run)
		}
	}

	report := Summarize(runs, a.varianceThreshold)
	report.ReportID = uuid.NewString()
	report.Suite = a.suite
	report.StartedAt = start
	report.Duration = time.Since(start)
	a.recorder.RecordReport(report)

	a.logger.Info().
		Str("report_id", report.ReportID).
		Int("cases", len(report.Cases)).
		Float64("suite_pass_rate", report.SuitePassRate).
		Strs("flaky_cases", report.FlakyCases).
		Strs("strict_failures", report.StrictFailures).
		Dur("duration", report.Duration).
		Msg("evaluation complete")

	return report
}
