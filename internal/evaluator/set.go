package evaluator

import (
	"context"
	"time"

	"github.com/povarna/generative-ai-agents/eval-suite/internal/models"
	"github.com/rs/zerolog"
)

// Set runs the static evaluators in order, then the judge.
// The judge is skipped when a static check reports a fatal result.
type Set struct {
	static []Evaluator
	judge  Evaluator
	logger *zerolog.Logger
}

type Result struct {
	Checks         []models.CheckResult
	StaticDuration time.Duration
	JudgeDuration  time.Duration
	JudgeSkipped   bool
}

// NewSet builds a set; judge may be nil for static-only evaluation.
func NewSet(static []Evaluator, judge Evaluator, logger *zerolog.Logger) *Set {
	return &Set{static: static, judge: judge, logger: logger}
}

func (s *Set) Len() int {
	if s.judge == nil {
		return len(s.static)
	}
	return len(s.static) + 1
}

// Run evaluates output. On cancellation it returns the checks completed so
// far together with the context error.
func (s *Set) Run(ctx context.Context, output models.FeatureOutput, testCase models.TestCase) (Result, error) {
	result := Result{Checks: make([]models.CheckResult, 0, s.Len())}

	staticStart := time.Now()
	fatal := false
	for _, e := range s.static {
		if err := ctx.Err(); err != nil {
			result.StaticDuration = time.Since(staticStart)
			return result, err
		}

		check := e.Evaluate(ctx, output, testCase)
		result.Checks = append(result.Checks, check)

		if check.Error {
			s.logger.Warn().
				Str("case_id", testCase.ID).
				Str("evaluator", e.Name()).
				Str("error", check.ErrorMessage).
				Msg("static check errored")
		}
		if check.Fatal {
			fatal = true
		}
	}
	result.StaticDuration = time.Since(staticStart)

	if s.judge == nil {
		return result, nil
	}
	if fatal {
		result.JudgeSkipped = true
		s.logger.Debug().
			Str("case_id", testCase.ID).
			Str("judge", s.judge.Name()).
			Msg("fatal static check, skipping judge")
		return result, nil
	}
	if err := ctx.Err(); err != nil {
		return result, err
	}

	judgeStart := time.Now()
	check := s.judge.Evaluate(ctx, output, testCase)
	result.JudgeDuration = time.Since(judgeStart)

	// an interrupted judge call says nothing about the output
	if err := ctx.Err(); err != nil {
		return result, err
	}

	if check.Error {
		s.logger.Warn().
			Str("case_id", testCase.ID).
			Str("judge", s.judge.Name()).
			Str("error", check.ErrorMessage).
			Msg("judge errored")
	}
	result.Checks = append(result.Checks, check)
	return result, nil
}
