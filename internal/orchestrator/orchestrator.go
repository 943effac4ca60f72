package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/povarna/generative-ai-agents/eval-suite/internal/models"
	"github.com/povarna/generative-ai-agents/eval-suite/internal/report"
	"github.com/rs/zerolog"
)

// ErrNoCases is returned when a run request selects no registered case.
var ErrNoCases = errors.New("no test cases selected")

// ErrUnknownCase is returned when a run request names a case id that is not registered.
var ErrUnknownCase = errors.New("unknown test case")

// SuiteRunner executes a multi-run evaluation over a set of cases.
type SuiteRunner interface {
	Run(ctx context.Context, cases []models.TestCase, runsCount, limit int) models.AggregateReport
}

// CaseEvaluator evaluates one registered case by id.
type CaseEvaluator interface {
	Execute(ctx context.Context, caseID string) (models.CaseVerdict, error)
}

// RunRequest selects cases and overrides run settings. Zero values keep the
// configured defaults.
type RunRequest struct {
	Tags             []string `json:"tags,omitempty" jsonschema:"only run cases carrying one of these tags"`
	CaseIDs          []string `json:"case_ids,omitempty" jsonschema:"only run these case ids"`
	RunsCount        int      `json:"runs_count,omitempty" validate:"gte=0,lte=100" jsonschema:"number of sequential runs"`
	ConcurrencyLimit int      `json:"concurrency_limit,omitempty" validate:"gte=0,lte=256" jsonschema:"maximum cases evaluated at once"`
}

type Defaults struct {
	Tags             []string
	RunsCount        int
	ConcurrencyLimit int
}

// CaseSummary is the listing view of a registered case.
type CaseSummary struct {
	ID          string   `json:"id"`
	Name        string   `json:"name,omitempty"`
	Description string   `json:"description,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	Specs       int      `json:"specs"`
	Strict      bool     `json:"strict,omitempty"`
}

// Lister returns registered cases matching any of tags, in registration order.
type Lister interface {
	List(tags ...string) []models.TestCase
}

// Orchestrator is the entry point shared by the CLI, the REST API, the MCP
// server and the stream consumer.
type Orchestrator struct {
	cases     Lister
	suite     SuiteRunner
	evaluator CaseEvaluator
	reporter  report.Reporter
	defaults  Defaults
	validate  *validator.Validate
	logger    *zerolog.Logger
}

func New(
	cases Lister,
	suite SuiteRunner,
	evaluator CaseEvaluator,
	reporter report.Reporter,
	defaults Defaults,
	logger *zerolog.Logger,
) *Orchestrator {
	return &Orchestrator{
		cases:     cases,
		suite:     suite,
		evaluator: evaluator,
		reporter:  reporter,
		defaults:  defaults,
		validate:  validator.New(),
		logger:    logger,
	}
}

// RunSuite runs the selected cases and publishes the aggregate report. A
// reporter failure is logged and does not fail the run.
func (o *Orchestrator) RunSuite(ctx context.Context, req RunRequest) (models.AggregateReport, error) {
	if err := o.validate.Struct(req); err != nil {
		return models.AggregateReport{}, fmt.Errorf("invalid run request: %w", err)
	}

	req = o.withDefaults(req)
	cases, err := o.selectCases(req)
	if err != nil {
		return models.AggregateReport{}, err
	}

	o.logger.Info().
		Int("cases", len(cases)).
		Int("runs_count", req.RunsCount).
		Int("concurrency_limit", req.ConcurrencyLimit).
		Strs("tags", req.Tags).
		Msg("starting suite run")

	result := o.suite.Run(ctx, cases, req.RunsCount, req.ConcurrencyLimit)

	if o.reporter != nil {
		if err := o.reporter.PublishReport(ctx, result); err != nil {
			o.logger.Error().
				Err(err).
				Str("report_id", result.ReportID).
				Msg("failed to publish report")
		}
	}

	o.logger.Info().
		Str("report_id", result.ReportID).
		Float64("suite_pass_rate", result.SuitePassRate).
		Float64("average_score", result.AverageScore).
		Strs("flaky_cases", result.FlakyCases).
		Strs("strict_failures", result.StrictFailures).
		Msg("suite run complete")

	return result, nil
}

// EvaluateCase runs a single registered case once.
func (o *Orchestrator) EvaluateCase(ctx context.Context, caseID string) (models.CaseVerdict, error) {
	if strings.TrimSpace(caseID) == "" {
		return models.CaseVerdict{}, errors.New("case id is required")
	}
	return o.evaluator.Execute(ctx, caseID)
}

func (o *Orchestrator) ListCases(tags ...string) []CaseSummary {
	cases := o.cases.List(tags...)
	summaries := make([]CaseSummary, 0, len(cases))
	for _, tc := range cases {
		summaries = append(summaries, CaseSummary{
			ID:          tc.ID,
			Name:        tc.Name,
			Description: tc.Description,
			Tags:        tc.Tags,
			Specs:       len(tc.Specs),
			Strict:      tc.Config.Strict,
		})
	}
	return summaries
}

func (o *Orchestrator) withDefaults(req RunRequest) RunRequest {
	if len(req.Tags) == 0 {
		req.Tags = o.defaults.Tags
	}
	if req.RunsCount == 0 {
		req.RunsCount = max(o.defaults.RunsCount, 1)
	}
	if req.ConcurrencyLimit == 0 {
		req.ConcurrencyLimit = max(o.defaults.ConcurrencyLimit, 1)
	}
	return req
}

func (o *Orchestrator) selectCases(req RunRequest) ([]models.TestCase, error) {
	if unknown := o.unknownCaseIDs(req.CaseIDs); len(unknown) > 0 {
		o.logger.Warn().
			Strs("case_ids", unknown).
			Msg("requested cases are not registered")
		return nil, fmt.Errorf("%w: %s", ErrUnknownCase, strings.Join(unknown, ", "))
	}

	cases := o.cases.List(req.Tags...)
	if len(req.CaseIDs) > 0 {
		cases = slices.DeleteFunc(cases, func(tc models.TestCase) bool {
			return !slices.Contains(req.CaseIDs, tc.ID)
		})
	}
	if len(cases) == 0 {
		return nil, ErrNoCases
	}
	return cases, nil
}

func (o *Orchestrator) unknownCaseIDs(ids []string) []string {
	if len(ids) == 0 {
		return nil
	}
	registered := make(map[string]struct{})
	for _, tc := range o.cases.List() {
		registered[tc.ID] = struct{}{}
	}

	var unknown []string
	for _, id := range ids {
		if _, ok := registered[id]; !ok {
			unknown = append(unknown, id)
		}
	}
	return unknown
}
