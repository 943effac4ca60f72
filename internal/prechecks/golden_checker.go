package prechecks

import (
	"fmt"
	"strings"
	"time"

	"github.com/povarna/generative-ai-agents/eval-suite/internal/models"
)

// GoldenChecker compares the output with the golden examples attached to the case.
// The score is the best token overlap against any example; a normalized exact
// match scores 1.0.
type GoldenChecker struct {
	PassThreshold float64
}

func NewGoldenChecker() *GoldenChecker {
	return &GoldenChecker{PassThreshold: 0.6}
}

func (c *GoldenChecker) Name() string {
	return "golden-checker"
}

func (c *GoldenChecker) Check(output models.FeatureOutput, testCase models.TestCase) models.CheckResult {
	result := newResult(c.Name())
	now := time.Now()

	examples := testCase.Specs.GoldenExamples()
	if len(examples) == 0 {
		result.Score = 1.0
		result.Passed = true
		result.Reason = "No golden example attached"
		result.Duration = time.Since(now)
		return result
	}

	actual := normalize(output.Content)
	best := 0.0
	for _, example := range examples {
		expected := normalize(example.Expected)
		if expected == actual {
			best = 1.0
			break
		}
		if score := jaccard(tokenize(expected), tokenize(actual)); score > best {
			best = score
		}
	}

	result.Score = best
	result.Passed = best >= c.PassThreshold
	result.Reason = fmt.Sprintf("Best golden example similarity %.2f", best)
	result.Duration = time.Since(now)
	return result
}

func normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

func jaccard(a []string, b []string) float64 {
	setA := extractUniqueTokens(a)
	setB := extractUniqueTokens(b)
	if len(setA) == 0 && len(setB) == 0 {
		return 0
	}

	intersection := 0
	for token := range setA {
		if setB[token] {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection
	return float64(intersection) / float64(union)
}
