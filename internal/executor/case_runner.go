package executor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/povarna/generative-ai-agents/eval-suite/internal/aggregator"
	"github.com/povarna/generative-ai-agents/eval-suite/internal/evaluator"
	"github.com/povarna/generative-ai-agents/eval-suite/internal/models"
	"github.com/rs/zerolog"
)

//go:generate mockgen -destination=mocks/mocks.go -package=mocks . Feature,EvaluatorSet,Aggregator,CaseLookup

// Feature invokes the feature under test
type Feature interface {
	Invoke(ctx context.Context, input models.Input) (models.FeatureOutput, error)
}

// EvaluatorSet runs the evaluators over one output
type EvaluatorSet interface {
	Run(ctx context.Context, output models.FeatureOutput, testCase models.TestCase) (evaluator.Result, error)
}

// Aggregator applies the score policy to the checks of one case
type Aggregator interface {
	Aggregate(id string, checks []models.CheckResult) aggregator.Result
}

// CaseRunner evaluates a single test case. Run never fails: every problem
// ends up in the returned verdict.
type CaseRunner struct {
	feature     Feature
	evaluators  EvaluatorSet
	aggregator  Aggregator
	caseTimeout time.Duration
	logger      *zerolog.Logger
}

func NewCaseRunner(
	feature Feature,
	evaluators EvaluatorSet,
	aggregator Aggregator,
	caseTimeout time.Duration,
	logger *zerolog.Logger,
) *CaseRunner {
	return &CaseRunner{
		feature:     feature,
		evaluators:  evaluators,
		aggregator:  aggregator,
		caseTimeout: caseTimeout,
		logger:      logger,
	}
}

type invocation struct {
	output models.FeatureOutput
	err    error
}

func (r *CaseRunner) Run(ctx context.Context, tc models.TestCase) models.CaseVerdict {
	start := time.Now()
	verdict := models.CaseVerdict{
		CaseID: tc.ID,
		Checks: []models.CheckResult{},
		Strict: tc.Config.Strict,
	}

	output, err := r.invoke(ctx, tc)
	verdict.Durations.Feature = time.Since(start)
	if err != nil {
		verdict.Error = err.Error()
		verdict.FailureKind = models.FailureFeatureExecution
		if ctx.Err() != nil {
			verdict.FailureKind = models.FailureCancelled
		}
		verdict.Durations.Total = time.Since(start)

		r.logger.Warn().
			Err(err).
			Str("case_id", tc.ID).
			Str("failure_kind", string(verdict.FailureKind)).
			Msg("feature invocation failed")
		return verdict
	}

	res, err := r.evaluators.Run(ctx, output, tc)
	verdict.Checks = append(verdict.Checks, res.Checks...)
	verdict.Durations.Static = res.StaticDuration
	verdict.Durations.Judge = res.JudgeDuration

	if err != nil {
		// partial checks are kept, the case itself is not scored
		verdict.FailureKind = models.FailureCancelled
		verdict.Error = err.Error()
		verdict.Durations.Total = time.Since(start)

		r.logger.Warn().
			Str("case_id", tc.ID).
			Int("completed_checks", len(res.Checks)).
			Msg("evaluation cancelled")
		return verdict
	}

	agg := r.aggregator.Aggregate(tc.ID, verdict.Checks)
	verdict.Score = agg.Score
	verdict.Passed = agg.Passed
	verdict.FailureKind = agg.FailureKind
	verdict.Durations.Total = time.Since(start)

	r.logger.Info().
		Str("case_id", tc.ID).
		Float64("score", verdict.Score).
		Bool("passed", verdict.Passed).
		Dur("duration", verdict.Durations.Total).
		Msg("case evaluated")
	return verdict
}

// invoke calls the feature under the case timeout. The call runs in its own
// goroutine so a feature that ignores ctx still times out.
func (r *CaseRunner) invoke(ctx context.Context, tc models.TestCase) (models.FeatureOutput, error) {
	ctx, cancel := context.WithTimeout(ctx, tc.Timeout(r.caseTimeout))
	defer cancel()

	start := time.Now()
	done := make(chan invocation, 1)
	go func() {
		defer func() {
			if rec := recover(); rec != nil {
				done <- invocation{err: fmt.Errorf("feature panicked: %v", rec)}
			}
		}()
		output, err := r.feature.Invoke(ctx, tc.Input)
		done <- invocation{output: output, err: err}
	}()

	select {
	case res := <-done:
		if res.err != nil {
			return models.FeatureOutput{}, res.err
		}
		output := res.output
		output.CaseID = tc.ID
		if output.Latency == 0 {
			output.Latency = time.Since(start)
		}
		if output.CreatedAt.IsZero() {
			output.CreatedAt = start
		}
		return output, nil
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return models.FeatureOutput{}, fmt.Errorf("feature timed out after %s: %w", tc.Timeout(r.caseTimeout), ctx.Err())
		}
		return models.FeatureOutput{}, ctx.Err()
	}
}
