package prechecks

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/povarna/generative-ai-agents/eval-suite/internal/llm"
	"github.com/povarna/generative-ai-agents/eval-suite/internal/models"
)

// JSONChecker validates that the output is a JSON object carrying the required keys.
// An output that does not parse is fatal: the judge is skipped for that case.
type JSONChecker struct {
	RequiredKeys []string
}

func NewJSONChecker(requiredKeys ...string) *JSONChecker {
	return &JSONChecker{RequiredKeys: requiredKeys}
}

func (c *JSONChecker) Name() string {
	return "json-checker"
}

func (c *JSONChecker) Check(output models.FeatureOutput, _ models.TestCase) models.CheckResult {
	result := newResult(c.Name())
	now := time.Now()

	var payload map[string]any
	if err := json.Unmarshal([]byte(llm.StripCodeFence(output.Content)), &payload); err != nil {
		result.Reason = fmt.Sprintf("Output is not a valid JSON object: %v", err)
		result.Fatal = true
		result.Duration = time.Since(now)
		return result
	}

	var missing []string
	for _, key := range c.RequiredKeys {
		if _, ok := payload[key]; !ok {
			missing = append(missing, key)
		}
	}

	if len(missing) > 0 {
		result.Score = 1.0 - float64(len(missing))/float64(len(c.RequiredKeys))
		result.Reason = fmt.Sprintf("Missing keys: %s", strings.Join(missing, ", "))
		result.Duration = time.Since(now)
		return result
	}

	result.Score = 1.0
	result.Passed = true
	result.Reason = "Valid JSON"
	result.Duration = time.Since(now)
	return result
}
