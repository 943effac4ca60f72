package prechecks

import (
	"github.com/povarna/generative-ai-agents/eval-suite/internal/models"
)

// Checker is a deterministic, local validation of a feature output.
// Implementations must not perform external I/O.
type Checker interface {
	Name() string
	Check(output models.FeatureOutput, testCase models.TestCase) models.CheckResult
}

func newResult(name string) models.CheckResult {
	return models.CheckResult{
		Name:   name,
		Kind:   models.KindStatic,
		Score:  0.0,
		Weight: 1.0,
	}
}

// Builtins returns the checkers shipped with the orchestrator keyed by their config name.
func Builtins() map[string]Checker {
	return map[string]Checker{
		"format":     NewFormatChecker(),
		"length":     NewLengthChecker(),
		"overlap":    &OverlapChecker{MinOverlapThreshold: 0.3},
		"json":       NewJSONChecker(),
		"sql-safety": NewSQLSafetyChecker(),
		"golden":     NewGoldenChecker(),
	}
}
