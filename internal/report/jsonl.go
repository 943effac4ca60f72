package report

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"github.com/povarna/generative-ai-agents/eval-suite/internal/models"
)

// JSONLReporter writes one JSON document per line: a verdict line per case
// of every run, then the aggregate report.
type JSONLReporter struct {
	mu      sync.Mutex
	encoder *json.Encoder
}

type verdictLine struct {
	Type     string `json:"type"`
	RunIndex int    `json:"run_index"`
	RunID    string `json:"run_id"`
	models.CaseVerdict
}

type reportLine struct {
	Type string `json:"type"`
	models.AggregateReport
}

func NewJSONLReporter(w io.Writer) *JSONLReporter {
	return &JSONLReporter{encoder: json.NewEncoder(w)}
}

func (r *JSONLReporter) Name() string {
	return "jsonl"
}

func (r *JSONLReporter) PublishRun(_ context.Context, run models.RunResult) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, v := range run.Verdicts {
		if err := r.encoder.Encode(verdictLine{Type: "verdict", RunIndex: run.Index, RunID: run.RunID, CaseVerdict: v}); err != nil {
			return fmt.Errorf("failed to encode verdict %s: %w", v.CaseID, err)
		}
	}
	return nil
}

func (r *JSONLReporter) PublishReport(_ context.Context, report models.AggregateReport) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	// runs were already streamed line by line
	report.Runs = nil
	if err := r.encoder.Encode(reportLine{Type: "report", AggregateReport: report}); err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	return nil
}
