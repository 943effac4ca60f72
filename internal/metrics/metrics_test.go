package metrics

import (
	"testing"
	"time"

	"github.com/povarna/generative-ai-agents/eval-suite/internal/models"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheusRecorder_RecordVerdict(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := NewPrometheusRecorder(reg)

	r.RecordVerdict(models.CaseVerdict{
		CaseID: "a",
		Passed: true,
		Checks: []models.CheckResult{
			{Kind: models.KindStatic, Duration: time.Millisecond},
			{Kind: models.KindJudge, Error: true, Duration: time.Second},
		},
		Durations: models.StageDurations{Total: time.Second},
	})
	r.RecordVerdict(models.CaseVerdict{CaseID: "b", FailureKind: models.FailureFeatureExecution})

	assert.Equal(t, 1.0, testutil.ToFloat64(r.verdictsTotal.WithLabelValues("true", "none")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.verdictsTotal.WithLabelValues("false", "feature_execution_failure")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.checksTotal.WithLabelValues("judge", "true")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.checksTotal.WithLabelValues("static", "false")))
	assert.Equal(t, 2, testutil.CollectAndCount(r.checkDuration))
}

func TestPrometheusRecorder_RunAndReport(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := NewPrometheusRecorder(reg)

	r.RecordRun(models.RunResult{Verdicts: []models.CaseVerdict{{Passed: true}, {Passed: false}, {Passed: true}, {Passed: true}}})
	r.RecordReport(models.AggregateReport{SuitePassRate: 0.6, FlakyCases: []string{"a", "b"}})

	assert.Equal(t, 1.0, testutil.ToFloat64(r.runsTotal))
	assert.Equal(t, 0.75, testutil.ToFloat64(r.runPassRatio))
	assert.Equal(t, 0.6, testutil.ToFloat64(r.suitePassRate))
	assert.Equal(t, 2.0, testutil.ToFloat64(r.flakyCases))

	families, err := reg.Gather()
	require.NoError(t, err)
	for _, f := range families {
		assert.Contains(t, f.GetName(), MetricsNamespace+"_")
	}
}

func TestPrometheusRecorder_SeparateRegistries(t *testing.T) {
	// must not panic with duplicate registration
	NewPrometheusRecorder(prometheus.NewRegistry())
	NewPrometheusRecorder(prometheus.NewRegistry())
}

func TestNoopRecorder(t *testing.T) {
	var r Recorder = NoopRecorder{}
	r.RecordVerdict(models.CaseVerdict{})
	r.RecordRun(models.RunResult{})
	r.RecordReport(models.AggregateReport{})
}
