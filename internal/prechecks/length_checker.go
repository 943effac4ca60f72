package prechecks

import (
	"fmt"
	"time"

	"github.com/povarna/generative-ai-agents/eval-suite/internal/models"
)

type LengthChecker struct {
	MinRatio float64
	MaxRatio float64
}

func NewLengthChecker() *LengthChecker {
	return &LengthChecker{MinRatio: 0.5, MaxRatio: 10.0}
}

func (c *LengthChecker) Name() string {
	return "length-checker"
}

// Check scores an output based on its length relative to the case query.
// Outputs that are too short score 0.0, excessively long ones score 0.5.
func (c *LengthChecker) Check(output models.FeatureOutput, testCase models.TestCase) models.CheckResult {
	result := newResult(c.Name())

	outputLength := len(output.Content)
	queryLength := len(testCase.Input.Query)

	if queryLength == 0 {
		result.Reason = "Empty query"
		return result
	}

	now := time.Now()
	ratio := float64(outputLength) / float64(queryLength)

	if ratio < c.MinRatio {
		result.Reason = "The output contains fewer characters than the query"
	} else if ratio > c.MaxRatio {
		result.Score = 0.5
		result.Reason = fmt.Sprintf("The output is too long. It's %.1f times longer than the query", ratio)
	} else {
		result.Score = 1.0
		result.Passed = true
		result.Reason = "Output length is acceptable"
	}
	result.Duration = time.Since(now)
	return result
}
