package batch

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/povarna/generative-ai-agents/eval-suite/internal/metrics"
	"github.com/povarna/generative-ai-agents/eval-suite/internal/models"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// CaseRunner evaluates one case and never fails
type CaseRunner interface {
	Run(ctx context.Context, tc models.TestCase) models.CaseVerdict
}

// Processor runs every case of a run concurrently, bounded by a counting
// semaphore, and returns the verdicts in input order.
type Processor struct {
	runner   CaseRunner
	recorder metrics.Recorder
	logger   *zerolog.Logger
}

func NewProcessor(runner CaseRunner, recorder metrics.Recorder, logger *zerolog.Logger) *Processor {
	if recorder == nil {
		recorder = metrics.NoopRecorder{}
	}
	return &Processor{
		runner:   runner,
		recorder: recorder,
		logger:   logger,
	}
}

// Run evaluates cases with at most limit cases in flight. The result always
// holds one verdict per case: cases that did not complete before ctx was
// cancelled are recorded as cancelled.
func (p *Processor) Run(ctx context.Context, cases []models.TestCase, limit int) models.RunResult {
	start := time.Now()
	runID := uuid.NewString()
	limit = max(limit, 1)

	log := p.logger.With().Str("run_id", runID).Logger()
	log.Info().Int("cases", len(cases)).Int("concurrency_limit", limit).Msg("run started")

	verdicts := make([]models.CaseVerdict, len(cases))
	done := make([]bool, len(cases))

	sem := semaphore.NewWeighted(int64(limit))
	var g errgroup.Group

	for i, tc := range cases {
		if err := sem.Acquire(ctx, 1); err != nil {
			// cancelled while waiting for a slot
			break
		}

		g.Go(func() error {
			defer sem.Release(1)
			verdicts[i] = p.runCase(ctx, tc)
			done[i] = true
			return nil
		})
	}

	_ = g.Wait()

	for i, tc := range cases {
		if done[i] {
			continue
		}
		verdicts[i] = models.CaseVerdict{
			CaseID:      tc.ID,
			Checks:      []models.CheckResult{},
			FailureKind: models.FailureCancelled,
			Error:       "run cancelled before the case started",
			Strict:      tc.Config.Strict,
		}
	}

	for _, v := range verdicts {
		p.recorder.RecordVerdict(v)
	}

	result := models.RunResult{
		RunID:     runID,
		Verdicts:  verdicts,
		StartedAt: start,
		Duration:  time.Since(start),
	}
	p.recorder.RecordRun(result)

	log.Info().
		Int("total", len(verdicts)).
		Int("passed", result.Passed()).
		Dur("duration", result.Duration).
		Msg("run complete")

	return result
}

func (p *Processor) runCase(ctx context.Context, tc models.TestCase) (verdict models.CaseVerdict) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error().
				Str("case_id", tc.ID).
				Interface("panic", r).
				Msg("case runner panicked")
			verdict = models.CaseVerdict{
				CaseID:      tc.ID,
				Checks:      []models.CheckResult{},
				FailureKind: models.FailureFeatureExecution,
				Error:       fmt.Sprintf("case runner panicked: %v", r),
				Strict:      tc.Config.Strict,
			}
		}
	}()

	return p.runner.Run(ctx, tc)
}
