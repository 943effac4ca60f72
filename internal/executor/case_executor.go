package executor

import (
	"context"
	"errors"

	"github.com/povarna/generative-ai-agents/eval-suite/internal/models"
	"github.com/rs/zerolog"
)

// CaseLookup resolves registered test cases by id
type CaseLookup interface {
	Get(id string) (models.TestCase, bool)
}

// CaseExecutor evaluates a single registered case on demand.
type CaseExecutor struct {
	cases  CaseLookup
	runner *CaseRunner
	logger *zerolog.Logger
}

func NewCaseExecutor(cases CaseLookup, runner *CaseRunner, logger *zerolog.Logger) *CaseExecutor {
	return &CaseExecutor{
		cases:  cases,
		runner: runner,
		logger: logger,
	}
}

var ErrCaseNotFound = errors.New("case not found")

func (e *CaseExecutor) Execute(ctx context.Context, caseID string) (models.CaseVerdict, error) {
	tc, ok := e.cases.Get(caseID)
	if !ok {
		e.logger.Error().Str("case_id", caseID).Msg("case not found")
		return models.CaseVerdict{CaseID: caseID}, ErrCaseNotFound
	}

	e.logger.Info().Str("case_id", caseID).Msg("starting evaluation")
	return e.runner.Run(ctx, tc), nil
}
