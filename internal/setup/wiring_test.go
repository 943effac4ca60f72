package setup

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/povarna/generative-ai-agents/eval-suite/internal/config"
	"github.com/povarna/generative-ai-agents/eval-suite/internal/llm"
	"github.com/povarna/generative-ai-agents/eval-suite/internal/models"
	"github.com/povarna/generative-ai-agents/eval-suite/internal/orchestrator"
	"github.com/rs/zerolog"
)

const testSuite = `name: wiring
cases:
  - id: a
    tags: [smoke]
    input:
      query: "list users"
      fields:
        answer: "SELECT * FROM users;"
    specs:
      - kind: rubric
        criteria: "selects users"
  - id: b
    input:
      query: "count users"
      fields:
        answer: "SELECT COUNT(*) FROM users;"
`

const testJudges = `judges:
  evaluators:
    - name: rubric
      enabled: true
      prompt: "{{.Query}} {{.Output}}"
`

type stubLLM struct {
	calls int
}

func (s *stubLLM) InvokeModel(context.Context, llm.LLMRequest) (*llm.LLMResponse, error) {
	s.calls++
	return &llm.LLMResponse{Content: `{"score": 1.0, "reason": "ok"}`}, nil
}

func (s *stubLLM) InvokeModelWithRetry(ctx context.Context, req llm.LLMRequest) (*llm.LLMResponse, error) {
	return s.InvokeModel(ctx, req)
}

func newTestConfig(t *testing.T) *config.EvalConfig {
	t.Helper()
	dir := t.TempDir()

	suitePath := filepath.Join(dir, "suite.yaml")
	if err := os.WriteFile(suitePath, []byte(testSuite), 0o644); err != nil {
		t.Fatal(err)
	}
	judgesPath := filepath.Join(dir, "judges.yaml")
	if err := os.WriteFile(judgesPath, []byte(testJudges), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := config.DefaultEvalConfig()
	cfg.Suite = suitePath
	cfg.JudgesConfig = judgesPath
	cfg.StaticChecks = []string{"format"}
	cfg.Report.DstDir = filepath.Join(dir, "reports")
	cfg.Report.EnableJSONL = true
	return cfg
}

func TestWire_StaticOnlyRun(t *testing.T) {
	logger := zerolog.Nop()
	cfg := newTestConfig(t)
	cfg.RunsCount = 2

	var summary bytes.Buffer
	deps, err := Wire(context.Background(), cfg, Options{SummaryOut: &summary}, &logger)
	if err != nil {
		t.Fatalf("Wire failed: %v", err)
	}
	defer deps.Close()

	if deps.Registry.Len() != 2 {
		t.Fatalf("expected 2 cases, got %d", deps.Registry.Len())
	}
	if deps.Reporter.Len() != 3 {
		t.Errorf("expected csv, jsonl and summary reporters, got %d", deps.Reporter.Len())
	}

	report, err := deps.Orchestrator.RunSuite(context.Background(), orchestrator.RunRequest{})
	if err != nil {
		t.Fatalf("RunSuite failed: %v", err)
	}

	if report.RunsCount != 2 || len(report.Cases) != 2 {
		t.Fatalf("unexpected report shape: runs=%d cases=%d", report.RunsCount, len(report.Cases))
	}
	if report.Suite != "wiring" {
		t.Errorf("expected suite name, got %q", report.Suite)
	}

	for _, name := range []string{"eval_run1.csv", "eval_run2.csv", "eval_summary.csv", "eval.jsonl"} {
		if _, err := os.Stat(filepath.Join(cfg.Report.DstDir, name)); err != nil {
			t.Errorf("expected report file %s: %v", name, err)
		}
	}
	if !strings.Contains(summary.String(), "Test Summary") {
		t.Errorf("expected summary table, got %q", summary.String())
	}

	families, err := deps.Metrics.Gather()
	if err != nil {
		t.Fatalf("Gather failed: %v", err)
	}
	if len(families) == 0 {
		t.Error("expected metrics to be recorded")
	}
}

func TestWire_WithJudge(t *testing.T) {
	logger := zerolog.Nop()
	cfg := newTestConfig(t)
	cfg.Judge = "rubric"
	cfg.Report.EnableCSV = false
	cfg.Report.EnableJSONL = false
	cfg.Report.EnableSummary = false
	cfg.Metrics.Enabled = false

	client := &stubLLM{}
	deps, err := Wire(context.Background(), cfg, Options{LLMClient: client}, &logger)
	if err != nil {
		t.Fatalf("Wire failed: %v", err)
	}
	defer deps.Close()

	if deps.Metrics != nil {
		t.Error("metrics registry must be nil when disabled")
	}

	verdict, err := deps.Orchestrator.EvaluateCase(context.Background(), "a")
	if err != nil {
		t.Fatalf("EvaluateCase failed: %v", err)
	}
	if len(verdict.Checks) != 2 {
		t.Fatalf("expected static and judge checks, got %+v", verdict.Checks)
	}
	if verdict.Checks[1].Kind != models.KindJudge || verdict.Checks[1].Score != 1.0 {
		t.Errorf("unexpected judge check %+v", verdict.Checks[1])
	}
	if client.calls != 1 {
		t.Errorf("expected one LLM call, got %d", client.calls)
	}
}

func TestWire_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(cfg *config.EvalConfig)
	}{
		{name: "missing suite", mutate: func(cfg *config.EvalConfig) { cfg.Suite = "missing.yaml" }},
		{name: "unknown feature", mutate: func(cfg *config.EvalConfig) { cfg.Feature = "nope" }},
		{name: "unknown static check", mutate: func(cfg *config.EvalConfig) { cfg.StaticChecks = []string{"nope"} }},
		{name: "unknown judge", mutate: func(cfg *config.EvalConfig) { cfg.Judge = "nope" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := zerolog.Nop()
			cfg := newTestConfig(t)
			tt.mutate(cfg)

			if _, err := Wire(context.Background(), cfg, Options{LLMClient: &stubLLM{}}, &logger); err == nil {
				t.Error("expected wiring error")
			}
		})
	}
}

func TestWire_ExtraCases(t *testing.T) {
	logger := zerolog.Nop()
	cfg := newTestConfig(t)
	cfg.Report.EnableCSV = false
	cfg.Report.EnableJSONL = false
	cfg.Report.EnableSummary = false

	extra := models.TestCase{ID: "c", Input: models.Input{Query: "q", Fields: map[string]any{"answer": "SELECT 1;"}}}
	deps, err := Wire(context.Background(), cfg, Options{Cases: []models.TestCase{extra}}, &logger)
	if err != nil {
		t.Fatalf("Wire failed: %v", err)
	}
	defer deps.Close()

	if _, ok := deps.Registry.Get("c"); !ok {
		t.Error("expected extra case to be registered")
	}

	dup := models.TestCase{ID: "a"}
	if _, err := Wire(context.Background(), cfg, Options{Cases: []models.TestCase{dup}}, &logger); err == nil {
		t.Error("expected duplicate id to fail wiring")
	}
}
