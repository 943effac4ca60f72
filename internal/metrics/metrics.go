package metrics

import (
	"strconv"

	"github.com/povarna/generative-ai-agents/eval-suite/internal/models"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	MetricsNamespace = "eval"
)

// Recorder receives evaluation events. Implementations must be safe for
// concurrent use.
type Recorder interface {
	RecordVerdict(verdict models.CaseVerdict)
	RecordRun(run models.RunResult)
	RecordReport(report models.AggregateReport)
}

// PrometheusRecorder exports evaluation metrics to a Prometheus registerer.
type PrometheusRecorder struct {
	verdictsTotal *prometheus.CounterVec
	checksTotal   *prometheus.CounterVec
	checkDuration *prometheus.HistogramVec
	caseDuration  prometheus.Histogram
	runsTotal     prometheus.Counter
	runPassRatio  prometheus.Gauge
	suitePassRate prometheus.Gauge
	flakyCases    prometheus.Gauge
}

func NewPrometheusRecorder(reg prometheus.Registerer) *PrometheusRecorder {
	factory := promauto.With(reg)

	return &PrometheusRecorder{
		verdictsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: MetricsNamespace,
			Name:      "case_verdicts_total",
			Help:      "Count of case verdicts",
		}, []string{
			"passed",
			"failure_kind",
		}),

		checksTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: MetricsNamespace,
			Name:      "check_results_total",
			Help:      "Count of evaluator results",
		}, []string{
			"kind",
			"error",
		}),

		checkDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: MetricsNamespace,
			Name:      "check_duration_seconds",
			Help:      "Evaluator latency per kind",
			Buckets:   []float64{0.001, 0.01, 0.1, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{
			"kind",
		}),

		caseDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: MetricsNamespace,
			Name:      "case_duration_seconds",
			Help:      "Total duration of one case evaluation",
			Buckets:   prometheus.ExponentialBuckets(0.01, 2, 14),
		}),

		runsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: MetricsNamespace,
			Name:      "runs_total",
			Help:      "Number of completed runs",
		}),

		runPassRatio: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: MetricsNamespace,
			Name:      "run_pass_ratio",
			Help:      "Share of passing cases in the last run",
		}),

		suitePassRate: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: MetricsNamespace,
			Name:      "suite_pass_rate",
			Help:      "Suite pass rate of the last report",
		}),

		flakyCases: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: MetricsNamespace,
			Name:      "flaky_cases",
			Help:      "Flaky cases in the last report",
		}),
	}
}

func (r *PrometheusRecorder) RecordVerdict(verdict models.CaseVerdict) {
	kind := string(verdict.FailureKind)
	if kind == "" {
		kind = "none"
	}
	r.verdictsTotal.WithLabelValues(strconv.FormatBool(verdict.Passed), kind).Inc()
	r.caseDuration.Observe(verdict.Durations.Total.Seconds())

	for _, check := range verdict.Checks {
		r.checksTotal.WithLabelValues(string(check.Kind), strconv.FormatBool(check.Error)).Inc()
		r.checkDuration.WithLabelValues(string(check.Kind)).Observe(check.Duration.Seconds())
	}
}

func (r *PrometheusRecorder) RecordRun(run models.RunResult) {
	r.runsTotal.Inc()
	if len(run.Verdicts) > 0 {
		r.runPassRatio.Set(float64(run.Passed()) / float64(len(run.Verdicts)))
	}
}

func (r *PrometheusRecorder) RecordReport(report models.AggregateReport) {
	r.suitePassRate.Set(report.SuitePassRate)
	r.flakyCases.Set(float64(len(report.FlakyCases)))
}

// NoopRecorder drops every event.
type NoopRecorder struct{}

func (NoopRecorder) RecordVerdict(models.CaseVerdict) {}
func (NoopRecorder) RecordRun(models.RunResult) {}
func (NoopRecorder) RecordReport(models.AggregateReport) {}
