package mcpadapter

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/povarna/generative-ai-agents/eval-suite/internal/models"
	"github.com/povarna/generative-ai-agents/eval-suite/internal/orchestrator"
)

type fakeService struct {
	report  models.AggregateReport
	verdict models.CaseVerdict
	cases   []orchestrator.CaseSummary
	err     error

	lastRequest orchestrator.RunRequest
	lastCaseID  string
	lastTags    []string
}

func (f *fakeService) RunSuite(_ context.Context, req orchestrator.RunRequest) (models.AggregateReport, error) {
	f.lastRequest = req
	return f.report, f.err
}

func (f *fakeService) EvaluateCase(_ context.Context, caseID string) (models.CaseVerdict, error) {
	f.lastCaseID = caseID
	return f.verdict, f.err
}

func (f *fakeService) ListCases(tags ...string) []orchestrator.CaseSummary {
	f.lastTags = tags
	return f.cases
}

func TestRunSuiteHandler(t *testing.T) {
	service := &fakeService{report: models.AggregateReport{
		ReportID:       "r1",
		Suite:          "sql",
		RunsCount:      3,
		Runs:           []models.RunResult{{Index: 1}},
		Cases:          []models.CaseAggregate{{CaseID: "a", Runs: 3}},
		SuitePassRate:  0.5,
		AverageScore:   0.75,
		FlakyCases:     []string{"a"},
		StrictFailures: []string{"b"},
		Duration:       1500 * time.Millisecond,
	}}

	req := orchestrator.RunRequest{Tags: []string{"smoke"}, RunsCount: 3}
	result, out, err := NewRunSuiteHandler(service)(context.Background(), nil, req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != nil {
		t.Error("expected the SDK to build the result from the output")
	}
	if service.lastRequest.RunsCount != 3 || service.lastRequest.Tags[0] != "smoke" {
		t.Errorf("request not forwarded: %+v", service.lastRequest)
	}
	if out.ReportID != "r1" || out.RunsCount != 3 || len(out.Cases) != 1 {
		t.Errorf("unexpected output %+v", out)
	}
	if out.DurationSeconds != 1.5 {
		t.Errorf("expected 1.5s, got %f", out.DurationSeconds)
	}
	if out.StrictFailures[0] != "b" || out.FlakyCases[0] != "a" {
		t.Errorf("expected flaky and strict lists, got %+v", out)
	}
}

func TestRunSuiteHandler_Error(t *testing.T) {
	service := &fakeService{err: orchestrator.ErrNoCases}

	_, _, err := NewRunSuiteHandler(service)(context.Background(), nil, orchestrator.RunRequest{})
	if !errors.Is(err, orchestrator.ErrNoCases) {
		t.Errorf("expected ErrNoCases, got %v", err)
	}
}

func TestEvaluateCaseHandler(t *testing.T) {
	service := &fakeService{verdict: models.CaseVerdict{CaseID: "a", Score: 0.9, Passed: true}}

	_, out, err := NewEvaluateCaseHandler(service)(context.Background(), nil, EvaluateCaseInput{CaseID: "a"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if service.lastCaseID != "a" {
		t.Errorf("expected case id to be forwarded, got %q", service.lastCaseID)
	}
	if !out.Passed || out.Score != 0.9 {
		t.Errorf("unexpected verdict %+v", out)
	}

	service.err = errors.New("case not found")
	if _, _, err := NewEvaluateCaseHandler(service)(context.Background(), nil, EvaluateCaseInput{CaseID: "x"}); err == nil {
		t.Error("expected error")
	}
}

func TestListCasesHandler(t *testing.T) {
	service := &fakeService{}

	_, out, err := NewListCasesHandler(service)(context.Background(), nil, ListCasesInput{Tags: []string{"sql"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Cases == nil || len(out.Cases) != 0 {
		t.Errorf("expected an empty, non-nil list, got %#v", out.Cases)
	}
	if len(service.lastTags) != 1 || service.lastTags[0] != "sql" {
		t.Errorf("expected tags to be forwarded, got %v", service.lastTags)
	}

	service.cases = []orchestrator.CaseSummary{{ID: "a"}, {ID: "b"}}
	_, out, _ = NewListCasesHandler(service)(context.Background(), nil, ListCasesInput{})
	if len(out.Cases) != 2 {
		t.Errorf("expected 2 cases, got %d", len(out.Cases))
	}
}

func TestNewServer(t *testing.T) {
	if server := NewServer(&fakeService{}, "test"); server == nil {
		t.Fatal("expected a server")
	}
}
