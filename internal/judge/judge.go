package judge

import (
	"context"
	"errors"

	"github.com/povarna/generative-ai-agents/eval-suite/internal/llm"
	"github.com/povarna/generative-ai-agents/eval-suite/internal/models"
)

// OutcomeKind classifies a judge invocation.
type OutcomeKind string

const (
	OutcomeSuccess         OutcomeKind = "success"
	OutcomeTimeout         OutcomeKind = "timeout"
	OutcomeRateLimited     OutcomeKind = "rate_limited"
	OutcomeTransport       OutcomeKind = "transport_failure"
	OutcomeInvalidResponse OutcomeKind = "invalid_response"
	OutcomeCancelled       OutcomeKind = "cancelled"
)

// Request is everything a judge sees about one case.
type Request struct {
	CaseID     string
	Input      models.Input
	Output     string
	Specs      models.Specs
	Guidelines string
}

// Verdict is the structured answer of a judge.
type Verdict struct {
	Score           float64  `json:"score"`
	Reason          string   `json:"reason"`
	SafetyViolation bool     `json:"safety_violation"`
	Violations      []string `json:"violations,omitempty"`
}

// Outcome is the result of one judge call. Verdict is only meaningful
// when Kind is OutcomeSuccess.
type Outcome struct {
	Kind    OutcomeKind
	Verdict Verdict
	Err     error
}

func (o Outcome) Success() bool {
	return o.Kind == OutcomeSuccess
}

type Judge interface {
	Name() string
	Judge(ctx context.Context, request Request) Outcome
}

// Classify maps an invocation error to its outcome kind.
func Classify(err error) OutcomeKind {
	switch {
	case err == nil:
		return OutcomeSuccess
	case errors.Is(err, context.DeadlineExceeded):
		return OutcomeTimeout
	case errors.Is(err, context.Canceled):
		return OutcomeCancelled
	case errors.Is(err, llm.ErrRateLimited):
		return OutcomeRateLimited
	default:
		return OutcomeTransport
	}
}
