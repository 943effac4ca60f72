package prechecks

import (
	"fmt"
	"strings"
	"time"

	"github.com/povarna/generative-ai-agents/eval-suite/internal/models"
)

type OverlapChecker struct {
	MinOverlapThreshold float64
}

func NewOverlapChecker() *OverlapChecker {
	return &OverlapChecker{MinOverlapThreshold: 0.1}
}

func (c *OverlapChecker) Name() string {
	return "overlap-checker"
}

// Check scores an output based on keyword overlap with the case query.
// The score is the share of unique query terms found in the output.
func (c *OverlapChecker) Check(output models.FeatureOutput, testCase models.TestCase) models.CheckResult {
	result := newResult(c.Name())
	now := time.Now()

	if len(testCase.Input.Query) == 0 {
		result.Reason = "Empty query"
		result.Duration = time.Since(now)
		return result
	}

	if len(output.Content) == 0 {
		result.Reason = "Empty output"
		result.Duration = time.Since(now)
		return result
	}

	uniqueQueryTokens := extractUniqueTokens(tokenize(testCase.Input.Query))
	uniqueOutputTokens := extractUniqueTokens(tokenize(output.Content))

	if len(uniqueQueryTokens) == 0 {
		result.Reason = "Query has no keywords"
		result.Duration = time.Since(now)
		return result
	}

	count := 0
	for token := range uniqueQueryTokens {
		if _, exists := uniqueOutputTokens[token]; exists {
			count++
		}
	}

	score := float64(count) / float64(len(uniqueQueryTokens))
	result.Score = score
	if score < c.MinOverlapThreshold {
		result.Reason = fmt.Sprintf("Low keyword overlap: %.0f%% of query terms found in output", score*100)
	} else {
		result.Reason = "There is a good overlap"
		result.Passed = true
	}

	result.Duration = time.Since(now)
	return result
}

func extractUniqueTokens(tokens []string) map[string]bool {
	unique := make(map[string]bool, len(tokens))
	for _, t := range tokens {
		unique[t] = true
	}
	return unique
}

var stopWords = map[string]bool{
	"a": true, "an": true, "the": true, "is": true, "are": true,
	"was": true, "were": true, "be": true, "been": true, "being": true,
	"have": true, "has": true, "had": true, "do": true, "does": true,
	"did": true, "will": true, "would": true, "could": true, "should": true,
	"of": true, "at": true, "by": true, "for": true, "with": true,
	"about": true, "against": true, "between": true, "into": true,
	"through": true, "during": true, "before": true, "after": true,
	"to": true, "from": true, "in": true, "on": true,
}

func tokenize(s string) []string {
	s = strings.ToLower(s)
	s = removePunctuation(s)

	tokens := []string{}
	for word := range strings.FieldsSeq(s) {
		if !stopWords[word] && len(word) > 1 {
			tokens = append(tokens, word)
		}
	}
	return tokens
}

func removePunctuation(s string) string {
	return strings.Map(func(r rune) rune {
		if strings.ContainsRune(".,!?;:()[]{}\"'", r) {
			return -1
		}
		return r
	}, s)
}
