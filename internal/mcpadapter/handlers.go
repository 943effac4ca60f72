package mcpadapter

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/povarna/generative-ai-agents/eval-suite/internal/models"
	"github.com/povarna/generative-ai-agents/eval-suite/internal/orchestrator"
)

// Service is the orchestrator surface exposed as MCP tools.
type Service interface {
	RunSuite(ctx context.Context, req orchestrator.RunRequest) (models.AggregateReport, error)
	EvaluateCase(ctx context.Context, caseID string) (models.CaseVerdict, error)
	ListCases(tags ...string) []orchestrator.CaseSummary
}

// RunSuiteOutput is the tool view of an aggregate report. Per-run verdicts
// are left out to keep tool results small.
type RunSuiteOutput struct {
	ReportID        string                 `json:"report_id"`
	Suite           string                 `json:"suite,omitempty"`
	RunsCount       int                    `json:"runs_count"`
	SuitePassRate   float64                `json:"suite_pass_rate"`
	AverageScore    float64                `json:"average_score"`
	FlakyCases      []string               `json:"flaky_cases,omitempty"`
	StrictFailures  []string               `json:"strict_failures,omitempty"`
	Cases           []models.CaseAggregate `json:"cases"`
	DurationSeconds float64                `json:"duration_seconds"`
}

type ListCasesInput struct {
	Tags []string `json:"tags,omitempty" jsonschema:"only list cases carrying one of these tags"`
}

type ListCasesOutput struct {
	Cases []orchestrator.CaseSummary `json:"cases"`
}

// NewRunSuiteHandler returns a tool handler running the suite.
// Pass the returned function to mcp.AddTool.
func NewRunSuiteHandler(service Service) func(context.Context, *mcp.CallToolRequest, orchestrator.RunRequest) (*mcp.CallToolResult, RunSuiteOutput, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input orchestrator.RunRequest) (*mcp.CallToolResult, RunSuiteOutput, error) {
		report, err := service.RunSuite(ctx, input)
		if err != nil {
			return nil, RunSuiteOutput{}, err
		}
		return nil, RunSuiteOutput{
			ReportID:        report.ReportID,
			Suite:           report.Suite,
			RunsCount:       report.RunsCount,
			SuitePassRate:   report.SuitePassRate,
			AverageScore:    report.AverageScore,
			FlakyCases:      report.FlakyCases,
			StrictFailures:  report.StrictFailures,
			Cases:           report.Cases,
			DurationSeconds: report.Duration.Seconds(),
		}, nil
	}
}

// NewListCasesHandler returns a tool handler listing registered cases.
// Pass the returned function to mcp.AddTool.
func NewListCasesHandler(service Service) func(context.Context, *mcp.CallToolRequest, ListCasesInput) (*mcp.CallToolResult, ListCasesOutput, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input ListCasesInput) (*mcp.CallToolResult, ListCasesOutput, error) {
		cases := service.ListCases(input.Tags...)
		if cases == nil {
			cases = []orchestrator.CaseSummary{}
		}
		return nil, ListCasesOutput{Cases: cases}, nil
	}
}
