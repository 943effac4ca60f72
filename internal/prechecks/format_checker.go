package prechecks

import (
	"regexp"
	"strings"
	"time"

	"github.com/povarna/generative-ai-agents/eval-suite/internal/models"
)

type FormatChecker struct {
}

func NewFormatChecker() *FormatChecker {
	return &FormatChecker{}
}

var repeatedPunctuation = regexp.MustCompile(`[!?.]{3,}`)

func (c *FormatChecker) Name() string {
	return "format-checker"
}

func (c *FormatChecker) Check(output models.FeatureOutput, _ models.TestCase) models.CheckResult {
	result := newResult(c.Name())

	now := time.Now()
	content := strings.TrimSpace(output.Content)

	if len(content) == 0 {
		// nothing to judge either
		result.Reason = "Empty output"
		result.Fatal = true
		result.Duration = time.Since(now)
		return result
	}

	if len(strings.Fields(content)) < 2 {
		result.Reason = "Short output"
		result.Duration = time.Since(now)
		return result
	}

	if matched := repeatedPunctuation.MatchString(content); matched {
		result.Reason = "Output contains repeatable characters"
		result.Score = 0.5
		result.Duration = time.Since(now)
		return result
	}

	result.Reason = "Valid output"
	result.Score = 1.0
	result.Passed = true
	result.Duration = time.Since(now)

	return result
}
