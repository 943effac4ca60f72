package report

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/povarna/generative-ai-agents/eval-suite/internal/models"
)

// CSVReporter writes one file per run, <dir>/<name>_run<N>.csv, and a
// per-case summary file <dir>/<name>_summary.csv.
type CSVReporter struct {
	dir  string
	name string
}

func NewCSVReporter(dir, name string) *CSVReporter {
	return &CSVReporter{dir: dir, name: name}
}

func (r *CSVReporter) Name() string {
	return "csv"
}

func (r *CSVReporter) RunPath(index int) string {
	return filepath.Join(r.dir, fmt.Sprintf("%s_run%d.csv", r.name, index))
}

func (r *CSVReporter) SummaryPath() string {
	return filepath.Join(r.dir, r.name+"_summary.csv")
}

func (r *CSVReporter) PublishRun(_ context.Context, run models.RunResult) error {
	verdicts := slices.Clone(run.Verdicts)
	slices.SortStableFunc(verdicts, func(a, b models.CaseVerdict) int {
		return strings.Compare(a.CaseID, b.CaseID)
	})

	rows := [][]string{{
		"case_id", "score", "passed", "failure_kind", "checks", "error",
		"feature_s", "static_s", "judge_s", "total_s",
	}}
	for _, v := range verdicts {
		rows = append(rows, []string{
			v.CaseID,
			formatFloat(v.Score),
			strconv.FormatBool(v.Passed),
			string(v.FailureKind),
			formatChecks(v.Checks),
			v.Error,
			formatFloat(v.Durations.Feature.Seconds()),
			formatFloat(v.Durations.Static.Seconds()),
			formatFloat(v.Durations.Judge.Seconds()),
			formatFloat(v.Durations.Total.Seconds()),
		})
	}

	return r.write(r.RunPath(run.Index), rows)
}

func (r *CSVReporter) PublishReport(_ context.Context, report models.AggregateReport) error {
	rows := [][]string{{
		"case_id", "runs", "evaluated", "mean", "variance", "min", "max", "pass_rate", "flaky", "avg_total_s",
	}}
	for _, c := range report.Cases {
		variance := "n/a"
		if c.Variance != nil {
			variance = formatFloat(*c.Variance)
		}
		rows = append(rows, []string{
			c.CaseID,
			strconv.Itoa(c.Runs),
			strconv.Itoa(c.Evaluated),
			formatFloat(c.Mean),
			variance,
			formatFloat(c.Min),
			formatFloat(c.Max),
			formatFloat(c.PassRate),
			strconv.FormatBool(c.Flaky),
			formatFloat(c.AvgDuration.Seconds()),
		})
	}

	return r.write(r.SummaryPath(), rows)
}

func (r *CSVReporter) write(path string, rows [][]string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create report dir: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.WriteAll(rows); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func formatChecks(checks []models.CheckResult) string {
	parts := make([]string, 0, len(checks))
	for _, c := range checks {
		if c.Error {
			parts = append(parts, c.Name+"=error")
			continue
		}
		parts = append(parts, fmt.Sprintf("%s=%.2f", c.Name, c.Score))
	}
	return strings.Join(parts, ";")
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', 4, 64)
}
