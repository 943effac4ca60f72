package report

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/povarna/generative-ai-agents/eval-suite/internal/models"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger() *zerolog.Logger {
	logger := zerolog.Nop()
	return &logger
}

func sampleRun(index int) models.RunResult {
	return models.RunResult{
		Index: index,
		RunID: "run-" + string(rune('0'+index)),
		Verdicts: []models.CaseVerdict{
			{CaseID: "b", Score: 0.5, Checks: []models.CheckResult{{Name: "format-checker", Score: 1}, {Name: "rubric", Error: true}}},
			{CaseID: "a", Score: 1, Passed: true, Durations: models.StageDurations{Total: 2 * time.Second}},
			{CaseID: "c", FailureKind: models.FailureFeatureExecution, Error: strings.Repeat("x", 300)},
		},
	}
}

func sampleReport() models.AggregateReport {
	variance := 0.0
	return models.AggregateReport{
		ReportID:      "r1",
		RunsCount:     2,
		Runs:          []models.RunResult{sampleRun(1), sampleRun(2)},
		SuitePassRate: 1.0 / 3.0,
		AverageScore:  0.75,
		Cases: []models.CaseAggregate{
			{CaseID: "b", Runs: 2, Evaluated: 2, Mean: 0.5, Variance: &variance, Min: 0.5, Max: 0.5},
			{CaseID: "a", Runs: 2, Evaluated: 2, Mean: 1, Variance: &variance, Min: 1, Max: 1, PassRate: 1, Passes: 2},
			{
				CaseID:       "c",
				Runs:         2,
				FailureKinds: map[models.FailureKind]int{models.FailureFeatureExecution: 2},
				LastError:    strings.Repeat("x", 300),
			},
		},
	}
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestCSVReporter_PublishRun(t *testing.T) {
	dir := t.TempDir()
	r := NewCSVReporter(filepath.Join(dir, "out"), "nightly")

	require.NoError(t, r.PublishRun(context.Background(), sampleRun(2)))

	path := filepath.Join(dir, "out", "nightly_run2.csv")
	assert.Equal(t, path, r.RunPath(2))

	rows := readCSV(t, path)
	require.Len(t, rows, 4)
	assert.Equal(t, "case_id", rows[0][0])
	assert.Equal(t, []string{"a", "b", "c"}, []string{rows[1][0], rows[2][0], rows[3][0]}, "rows sorted by case id")
	assert.Equal(t, "format-checker=1.00;rubric=error", rows[2][4])
	assert.Equal(t, "feature_execution_failure", rows[3][3])
	assert.Equal(t, "2.0000", rows[1][9])
}

func TestCSVReporter_PublishReport(t *testing.T) {
	dir := t.TempDir()
	r := NewCSVReporter(dir, "nightly")

	require.NoError(t, r.PublishReport(context.Background(), sampleReport()))

	rows := readCSV(t, r.SummaryPath())
	require.Len(t, rows, 4)
	assert.Equal(t, "0.0000", rows[1][4])
	assert.Equal(t, "n/a", rows[3][4], "no variance without evaluated runs")
}

func TestJSONLReporter(t *testing.T) {
	var buf bytes.Buffer
	r := NewJSONLReporter(&buf)

	require.NoError(t, r.PublishRun(context.Background(), sampleRun(1)))
	require.NoError(t, r.PublishReport(context.Background(), sampleReport()))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)

	var first map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	assert.Equal(t, "verdict", first["type"])
	assert.Equal(t, "b", first["case_id"])
	assert.Equal(t, float64(1), first["run_index"])

	var last map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[3]), &last))
	assert.Equal(t, "report", last["type"])
	assert.Equal(t, "r1", last["report_id"])
	assert.Nil(t, last["runs"])
}

func TestSummaryReporter(t *testing.T) {
	var buf bytes.Buffer
	r := NewSummaryReporter(&buf, true, false)

	require.NoError(t, r.PublishReport(context.Background(), sampleReport()))
	out := buf.String()

	assert.Contains(t, out, "Failed Tests")
	assert.Contains(t, out, "Test Summary")
	assert.Contains(t, out, "Overall average score: 0.75")
	assert.Contains(t, out, "MIN SCORE", "multi-run columns")
	assert.NotContains(t, out, strings.Repeat("x", 198), "errors are truncated")
}

func TestSummaryReporter_EmptyReport(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewSummaryReporter(&buf, false, false).PublishReport(context.Background(), models.AggregateReport{}))
	assert.Empty(t, buf.String())
}

func TestScoreColor(t *testing.T) {
	tests := []struct {
		score float64
		want  string
	}{
		{score: 0.95, want: "green"},
		{score: 0.8, want: "green"},
		{score: 0.79, want: "yellow"},
		{score: 0.4, want: "yellow"},
		{score: 0.39, want: "red"},
	}

	bands := map[string]string{
		"green":  ScoreColor(1).Sprint("s"),
		"yellow": ScoreColor(0.5).Sprint("s"),
		"red":    ScoreColor(0).Sprint("s"),
	}
	for _, tt := range tests {
		assert.Equal(t, bands[tt.want], ScoreColor(tt.score).Sprint("s"), "score %v", tt.score)
	}
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", maxErrorLength))
	long := truncate(strings.Repeat("y", 250), maxErrorLength)
	assert.Len(t, long, maxErrorLength)
	assert.True(t, strings.HasSuffix(long, "..."))

	accented := truncate(strings.Repeat("é", 250), maxErrorLength)
	assert.True(t, utf8.ValidString(accented), "cut must not split a rune")
	assert.Equal(t, maxErrorLength, utf8.RuneCountInString(accented))
	assert.Equal(t, strings.Repeat("é", maxErrorLength-3)+"...", accented)
}

func TestSummaryReporter_MixedFailureKinds(t *testing.T) {
	report := models.AggregateReport{
		RunsCount: 3,
		Cases: []models.CaseAggregate{{
			CaseID: "mixed",
			Runs:   3,
			FailureKinds: map[models.FailureKind]int{
				models.FailureCancelled:        1,
				models.FailureEvaluatorError:   1,
				models.FailureFeatureExecution: 1,
				models.FailureSafetyViolation:  1,
			},
			LastError: "judge timed out",
		}},
	}

	var first string
	for i := range 50 {
		var buf bytes.Buffer
		require.NoError(t, NewSummaryReporter(&buf, false, false).PublishReport(context.Background(), report))
		if i == 0 {
			first = buf.String()
			continue
		}
		require.Equal(t, first, buf.String(), "render %d differs", i)
	}

	assert.Contains(t, first, "feature_execution_failure (1), evaluator_error (1), cancelled (1)")
	assert.NotContains(t, first, "safety_violation")
}

func TestFailureSummary(t *testing.T) {
	assert.Empty(t, failureSummary(nil))
	assert.Empty(t, failureSummary(map[models.FailureKind]int{models.FailureSafetyViolation: 2}))
	assert.Equal(t, "evaluator_error (3), cancelled (1)", failureSummary(map[models.FailureKind]int{
		models.FailureCancelled:      1,
		models.FailureEvaluatorError: 3,
	}))
}

type failingReporter struct{ calls int }

func (f *failingReporter) Name() string { return "failing" }

func (f *failingReporter) PublishRun(context.Context, models.RunResult) error {
	f.calls++
	return errors.New("disk full")
}

func (f *failingReporter) PublishReport(context.Context, models.AggregateReport) error {
	f.calls++
	return errors.New("disk full")
}

func TestMulti_IsolatesFailures(t *testing.T) {
	var buf bytes.Buffer
	failing := &failingReporter{}
	jsonl := NewJSONLReporter(&buf)

	m := NewMulti(newTestLogger(), failing, jsonl)

	err := m.PublishRun(context.Background(), sampleRun(1))
	assert.ErrorContains(t, err, "disk full")
	assert.Equal(t, 3, strings.Count(buf.String(), "\n"), "other reporters still publish")

	err = m.PublishReport(context.Background(), sampleReport())
	assert.Error(t, err)
	assert.Equal(t, 2, failing.calls)
	assert.Equal(t, 2, m.Len())
}
