package models

import (
	"slices"
	"time"
)

type EvaluatorKind string

const (
	KindStatic EvaluatorKind = "static"
	KindJudge  EvaluatorKind = "judge"
)

// FailureKind records why a case could not be evaluated or was failed unconditionally.
// An empty kind means the verdict was decided by score alone.
type FailureKind string

const (
	FailureNone             FailureKind = ""
	FailureFeatureExecution FailureKind = "feature_execution_failure"
	FailureEvaluatorError   FailureKind = "evaluator_error"
	FailureSafetyViolation  FailureKind = "safety_violation"
	FailureCancelled        FailureKind = "cancelled"
)

// Input is the payload handed to the feature under test
type Input struct {
	Query   string         `json:"query" yaml:"query" jsonschema:"user query or instruction sent to the feature"`
	Context string         `json:"context,omitempty" yaml:"context,omitempty" jsonschema:"optional context or retrieved documents"`
	Fields  map[string]any `json:"fields,omitempty" yaml:"fields,omitempty" jsonschema:"feature specific input fields"`
}

type CaseConfig struct {
	TimeoutSeconds float64 `json:"timeout_seconds,omitempty" yaml:"timeout_seconds,omitempty"`
	Strict         bool    `json:"strict,omitempty" yaml:"strict,omitempty"`
}

type TestCase struct {
	ID          string     `json:"id" yaml:"id"`
	Name        string     `json:"name,omitempty" yaml:"name,omitempty"`
	Description string     `json:"description,omitempty" yaml:"description,omitempty"`
	Input       Input      `json:"input" yaml:"input"`
	Tags        []string   `json:"tags,omitempty" yaml:"tags,omitempty"`
	Specs       Specs      `json:"specs,omitempty" yaml:"specs,omitempty"`
	Config      CaseConfig `json:"config,omitempty" yaml:"config,omitempty"`
	// Guidelines is the suite level judge system prompt.
	Guidelines string `json:"guidelines,omitempty" yaml:"-"`
}

// Timeout returns the case timeout, falling back to def when the case does not set one.
func (tc TestCase) Timeout(def time.Duration) time.Duration {
	if tc.Config.TimeoutSeconds > 0 {
		return time.Duration(tc.Config.TimeoutSeconds * float64(time.Second))
	}
	return def
}

// HasAnyTag reports whether the case carries at least one of tags.
// An empty tag list matches every case.
func (tc TestCase) HasAnyTag(tags []string) bool {
	if len(tags) == 0 {
		return true
	}
	for _, tag := range tags {
		if slices.Contains(tc.Tags, tag) {
			return true
		}
	}
	return false
}

// FeatureOutput is what the feature under test produced for one case in one run.
type FeatureOutput struct {
	CaseID    string         `json:"case_id"`
	Content   string         `json:"content"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	Latency   time.Duration  `json:"latency_ns"`
	CreatedAt time.Time      `json:"created_at"`
}

// One evaluator's output
type CheckResult struct {
	Name            string        `json:"name"`
	Kind            EvaluatorKind `json:"kind"`
	Passed          bool          `json:"passed"`
	Score           float64       `json:"score"`
	Reason          string        `json:"reason,omitempty"`
	Error           bool          `json:"error"`
	ErrorMessage    string        `json:"error_message,omitempty"`
	Fatal           bool          `json:"fatal,omitempty"`
	SafetyViolation bool          `json:"safety_violation,omitempty"`
	Weight          float64       `json:"weight"`
	Duration        time.Duration `json:"duration_ns"`
}

type StageDurations struct {
	Feature time.Duration `json:"feature_ns"`
	Static  time.Duration `json:"static_ns"`
	Judge   time.Duration `json:"judge_ns"`
	Total   time.Duration `json:"total_ns"`
}

type CaseVerdict struct {
	CaseID      string         `json:"case_id"`
	Checks      []CheckResult  `json:"checks"`
	Score       float64        `json:"score"`
	Passed      bool           `json:"passed"`
	FailureKind FailureKind    `json:"failure_kind,omitempty"`
	Error       string         `json:"error,omitempty"`
	Strict      bool           `json:"strict,omitempty"`
	Durations   StageDurations `json:"durations"`
}

// Evaluated reports whether the feature produced an output that went through the evaluators.
func (v CaseVerdict) Evaluated() bool {
	return v.FailureKind != FailureFeatureExecution && v.FailureKind != FailureCancelled
}

// StrictFailure reports whether a strict case ended with a failure kind. A
// plain low score on a strict case is not a strict failure.
func (v CaseVerdict) StrictFailure() bool {
	return v.Strict && v.FailureKind != FailureNone
}

type RunResult struct {
	Index     int           `json:"index"`
	RunID     string        `json:"run_id"`
	Verdicts  []CaseVerdict `json:"verdicts"`
	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration_ns"`
}

func (r RunResult) Passed() int {
	passed := 0
	for _, v := range r.Verdicts {
		if v.Passed {
			passed++
		}
	}
	return passed
}

// CaseAggregate holds the statistics of one case across every run.
// Mean, Min and Max cover evaluated runs only. Variance is nil when
// fewer than two runs were evaluated.
type CaseAggregate struct {
	CaseID       string              `json:"case_id"`
	Runs         int                 `json:"runs"`
	Evaluated    int                 `json:"evaluated"`
	Passes       int                 `json:"passes"`
	Mean         float64             `json:"mean"`
	Variance     *float64            `json:"variance"`
	Min          float64             `json:"min"`
	Max          float64             `json:"max"`
	PassRate     float64             `json:"pass_rate"`
	Flaky        bool                `json:"flaky"`
	Strict       bool                `json:"strict,omitempty"`
	StrictFailed int                 `json:"strict_failed,omitempty"`
	AvgDuration  time.Duration       `json:"avg_duration_ns"`
	FailureKinds map[FailureKind]int `json:"failure_kinds,omitempty"`
	LastError    string              `json:"last_error,omitempty"`
}

// AggregateReport is the terminal artifact of a multi-run evaluation
type AggregateReport struct {
	ReportID       string          `json:"report_id"`
	Suite          string          `json:"suite,omitempty"`
	RunsCount      int             `json:"runs_count"`
	Runs           []RunResult     `json:"runs"`
	Cases          []CaseAggregate `json:"cases"`
	SuitePassRate  float64         `json:"suite_pass_rate"`
	AverageScore   float64         `json:"average_score"`
	FlakyCases     []string        `json:"flaky_cases,omitempty"`
	StrictFailures []string        `json:"strict_failures,omitempty"`
	StartedAt      time.Time       `json:"started_at"`
	Duration       time.Duration   `json:"duration_ns"`
}
