package multirun

import (
	"time"

	"github.com/povarna/generative-ai-agents/eval-suite/internal/models"
)

// Summarize computes per-case statistics across runs. Case order follows the
// first run. Mean, min and max use evaluated runs only; variance is the
// sample variance and is nil below two evaluated runs. The pass rate counts
// every run, so a run without a verdict counts as a failure.
func Summarize(runs []models.RunResult, varianceThreshold float64) models.AggregateReport {
	report := models.AggregateReport{
		RunsCount: len(runs),
		Runs:      runs,
		Cases:     []models.CaseAggregate{},
	}
	if len(runs) == 0 {
		return report
	}

	order := make([]string, 0, len(runs[0].Verdicts))
	byCase := make(map[string][]models.CaseVerdict)
	for _, run := range runs {
		for _, v := range run.Verdicts {
			if _, seen := byCase[v.CaseID]; !seen {
				order = append(order, v.CaseID)
			}
			byCase[v.CaseID] = append(byCase[v.CaseID], v)
		}
	}

	var (
		passRateSum float64
		scoreSum    float64
		scored      int
	)
	for _, id := range order {
		agg := summarizeCase(id, byCase[id], len(runs), varianceThreshold)
		report.Cases = append(report.Cases, agg)

		passRateSum += agg.PassRate
		if agg.Evaluated > 0 {
			scoreSum += agg.Mean
			scored++
		}
		if agg.Flaky {
			report.FlakyCases = append(report.FlakyCases, id)
		}
		if agg.StrictFailed > 0 {
			report.StrictFailures = append(report.StrictFailures, id)
		}
	}

	if len(report.Cases) > 0 {
		report.SuitePassRate = passRateSum / float64(len(report.Cases))
	}
	if scored > 0 {
		report.AverageScore = scoreSum / float64(scored)
	}
	return report
}

func summarizeCase(id string, verdicts []models.CaseVerdict, runs int, varianceThreshold float64) models.CaseAggregate {
	agg := models.CaseAggregate{
		CaseID:       id,
		Runs:         runs,
		FailureKinds: map[models.FailureKind]int{},
	}

	var (
		scores []float64
		total  time.Duration
	)
	for _, v := range verdicts {
		total += v.Durations.Total
		if v.Passed {
			agg.Passes++
		}
		if v.Strict {
			agg.Strict = true
		}
		if v.StrictFailure() {
			agg.StrictFailed++
		}
		if v.FailureKind != models.FailureNone {
			agg.FailureKinds[v.FailureKind]++
		}
		if v.Error != "" {
			agg.LastError = v.Error
		}
		if v.Evaluated() {
			scores = append(scores, v.Score)
		}
	}
	if len(agg.FailureKinds) == 0 {
		agg.FailureKinds = nil
	}

	agg.Evaluated = len(scores)
	if runs > 0 {
		agg.PassRate = float64(agg.Passes) / float64(runs)
	}
	if len(verdicts) > 0 {
		agg.AvgDuration = total / time.Duration(len(verdicts))
	}

	if len(scores) == 0 {
		return agg
	}

	agg.Min, agg.Max = scores[0], scores[0]
	sum := 0.0
	for _, s := range scores {
		sum += s
		agg.Min = min(agg.Min, s)
		agg.Max = max(agg.Max, s)
	}
	agg.Mean = sum / float64(len(scores))
	if agg.Min == agg.Max {
		agg.Mean = agg.Min
	}

	if len(scores) >= 2 {
		variance := 0.0
		// identical scores must report exactly zero, not rounding noise
		if agg.Min != agg.Max {
			sq := 0.0
			for _, s := range scores {
				d := s - agg.Mean
				sq += d * d
			}
			variance = sq / float64(len(scores)-1)
		}
		agg.Variance = &variance
		agg.Flaky = variance > varianceThreshold
	}

	return agg
}
