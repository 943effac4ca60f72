package report

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/povarna/generative-ai-agents/eval-suite/internal/models"
)

const maxErrorLength = 200

// SummaryReporter prints the aggregate report as console tables.
type SummaryReporter struct {
	out     io.Writer
	verbose bool
	colors  bool
}

func NewSummaryReporter(out io.Writer, verbose, colors bool) *SummaryReporter {
	return &SummaryReporter{out: out, verbose: verbose, colors: colors}
}

func (r *SummaryReporter) Name() string {
	return "summary"
}

func (r *SummaryReporter) PublishRun(context.Context, models.RunResult) error {
	return nil
}

func (r *SummaryReporter) PublishReport(_ context.Context, report models.AggregateReport) error {
	if len(report.Cases) == 0 {
		return nil
	}

	r.renderFailures(report)
	r.renderSummary(report)

	_, err := fmt.Fprintf(r.out, "Overall average score: %s | suite pass rate: %.2f\n",
		r.colorize(report.AverageScore, fmt.Sprintf("%.2f", report.AverageScore)), report.SuitePassRate)
	return err
}

func (r *SummaryReporter) renderSummary(report models.AggregateReport) {
	multiRun := report.RunsCount > 1

	t := table.NewWriter()
	t.SetOutputMirror(r.out)
	t.SetTitle(fmt.Sprintf("Test Summary (%s)", formatDuration(report.Duration)))

	header := table.Row{"Test ID", "Avg Score", "Pass Rate"}
	if r.verbose {
		header = append(header, "Feature", "Static", "Judge")
	}
	header = append(header, "Total Time")
	if multiRun {
		header = append(header, "Min Score", "Max Score", "Variance", "Runs")
	}
	t.AppendHeader(header)

	t.SetColumnConfigs([]table.ColumnConfig{
		{Name: "Avg Score", Align: text.AlignRight},
		{Name: "Pass Rate", Align: text.AlignRight},
		{Name: "Total Time", Align: text.AlignRight},
	})

	stages := stageAverages(report.Runs)
	for _, c := range report.Cases {
		score := "N/A"
		if c.Evaluated > 0 {
			score = r.colorize(c.Mean, fmt.Sprintf("%.2f", c.Mean))
		}
		if c.Flaky {
			score += " (flaky)"
		}

		row := table.Row{c.CaseID, score, fmt.Sprintf("%.2f", c.PassRate)}
		if r.verbose {
			s := stages[c.CaseID]
			row = append(row, formatDuration(s.Feature), formatDuration(s.Static), formatDuration(s.Judge))
		}
		row = append(row, formatDuration(c.AvgDuration))
		if multiRun {
			variance := "n/a"
			if c.Variance != nil {
				variance = fmt.Sprintf("%.4f", *c.Variance)
			}
			row = append(row, fmt.Sprintf("%.2f", c.Min), fmt.Sprintf("%.2f", c.Max), variance, c.Runs)
		}
		t.AppendRow(row)
	}

	t.Render()
}

// failureOrder lists the failure kinds shown in the failures table, most
// severe first.
var failureOrder = []models.FailureKind{
	models.FailureFeatureExecution,
	models.FailureEvaluatorError,
	models.FailureCancelled,
}

func (r *SummaryReporter) renderFailures(report models.AggregateReport) {
	t := table.NewWriter()
	t.SetOutputMirror(r.out)
	t.SetTitle("Failed Tests")
	t.AppendHeader(table.Row{"Test ID", "Failures", "Last Error"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Name: "Last Error", WidthMax: 80, WidthMaxEnforcer: text.WrapSoft},
	})

	failed := 0
	for _, c := range report.Cases {
		kinds := failureSummary(c.FailureKinds)
		if kinds == "" {
			continue
		}
		t.AppendRow(table.Row{c.CaseID, kinds, truncate(c.LastError, maxErrorLength)})
		failed++
	}
	if failed == 0 {
		return
	}
	t.Render()
}

// failureSummary renders every execution failure kind with its run count, in failureOrder.
func failureSummary(kinds map[models.FailureKind]int) string {
	var parts []string
	for _, kind := range failureOrder {
		if n := kinds[kind]; n > 0 {
			parts = append(parts, fmt.Sprintf("%s (%d)", kind, n))
		}
	}
	return strings.Join(parts, ", ")
}

// ScoreColor maps a normalized score to its display band.
func ScoreColor(score float64) text.Colors {
	switch {
	case score >= 0.8:
		return text.Colors{text.FgGreen}
	case score >= 0.4:
		return text.Colors{text.FgYellow}
	default:
		return text.Colors{text.FgRed}
	}
}

func (r *SummaryReporter) colorize(score float64, s string) string {
	if !r.colors {
		return s
	}
	return ScoreColor(score).Sprint(s)
}

func stageAverages(runs []models.RunResult) map[string]models.StageDurations {
	sums := map[string]models.StageDurations{}
	counts := map[string]int{}
	for _, run := range runs {
		for _, v := range run.Verdicts {
			s := sums[v.CaseID]
			s.Feature += v.Durations.Feature
			s.Static += v.Durations.Static
			s.Judge += v.Durations.Judge
			s.Total += v.Durations.Total
			sums[v.CaseID] = s
			counts[v.CaseID]++
		}
	}

	for id, s := range sums {
		n := time.Duration(counts[id])
		sums[id] = models.StageDurations{Feature: s.Feature / n, Static: s.Static / n, Judge: s.Judge / n, Total: s.Total / n}
	}
	return sums
}

// truncate shortens s to limit display columns, cutting on rune boundaries.
func truncate(s string, limit int) string {
	return text.Snip(s, limit, "...")
}

func formatDuration(d time.Duration) string {
	return fmt.Sprintf("%.2fs", d.Seconds())
}
