package aggregator

import (
	"github.com/povarna/generative-ai-agents/eval-suite/internal/models"
	"github.com/rs/zerolog"
)

// Policy is the score policy applied to the checks of one case.
type Policy struct {
	// JudgeWeight is the weight of judge results; static checks weigh 1.
	JudgeWeight   float64
	PassThreshold float64
}

func DefaultPolicy() Policy {
	return Policy{JudgeWeight: 1.0, PassThreshold: 0.7}
}

type Result struct {
	Score       float64
	Passed      bool
	FailureKind models.FailureKind
}

type Aggregator struct {
	Policy Policy
	logger *zerolog.Logger
}

func NewAggregator(policy Policy, logger *zerolog.Logger) *Aggregator {
	return &Aggregator{
		Policy: policy,
		logger: logger,
	}
}

// Aggregate computes the weighted mean of the check scores. An errored check
// contributes 0 at full weight. A case with no checks scores 0 and fails.
// A safety violation fails the case whatever the score.
func (a *Aggregator) Aggregate(id string, checks []models.CheckResult) Result {
	var (
		weighted, total float64
		errored         int
		safety          bool
	)

	for _, check := range checks {
		weight := a.weightOf(check)
		total += weight
		if check.Error {
			errored++
		} else {
			weighted += clamp(check.Score) * weight
		}
		if check.SafetyViolation {
			safety = true
		}
	}

	result := Result{}
	if total > 0 {
		result.Score = weighted / total
	}

	switch {
	case safety:
		result.FailureKind = models.FailureSafetyViolation
	case len(checks) > 0 && errored == len(checks):
		result.FailureKind = models.FailureEvaluatorError
	}

	result.Passed = total > 0 &&
		result.FailureKind == models.FailureNone &&
		result.Score >= a.Policy.PassThreshold

	a.logger.
		Debug().
		Str("case_id", id).
		Float64("score", result.Score).
		Bool("passed", result.Passed).
		Str("failure_kind", string(result.FailureKind)).
		Msg("aggregation complete")
	return result
}

func (a *Aggregator) weightOf(check models.CheckResult) float64 {
	if check.Kind == models.KindJudge {
		return a.Policy.JudgeWeight
	}
	return 1.0
}

func clamp(score float64) float64 {
	return min(max(score, 0), 1)
}
