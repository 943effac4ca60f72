package evaluator

import (
	"context"
	"fmt"
	"time"

	"github.com/povarna/generative-ai-agents/eval-suite/internal/judge"
	"github.com/povarna/generative-ai-agents/eval-suite/internal/models"
	"github.com/povarna/generative-ai-agents/eval-suite/internal/prechecks"
)

// Evaluator turns one feature output into one CheckResult. Implementations
// never return errors: failures are reported through CheckResult.Error.
type Evaluator interface {
	Name() string
	Kind() models.EvaluatorKind
	Evaluate(ctx context.Context, output models.FeatureOutput, testCase models.TestCase) models.CheckResult
}

// StaticEvaluator runs a local checker. A panicking checker yields an errored result.
type StaticEvaluator struct {
	name    string
	checker prechecks.Checker
}

func NewStaticEvaluator(name string, checker prechecks.Checker) *StaticEvaluator {
	if name == "" {
		name = checker.Name()
	}
	return &StaticEvaluator{name: name, checker: checker}
}

func (e *StaticEvaluator) Name() string { return e.name }
func (e *StaticEvaluator) Kind() models.EvaluatorKind { return models.KindStatic }

func (e *StaticEvaluator) Evaluate(_ context.Context, output models.FeatureOutput, testCase models.TestCase) (result models.CheckResult) {
	now := time.Now()
	defer func() {
		if r := recover(); r != nil {
			result = errored(e.name, models.KindStatic, 1.0, fmt.Sprintf("check panicked: %v", r))
		}
		result.Name = e.name
		result.Kind = models.KindStatic
		result.Weight = 1.0
		result.Duration = time.Since(now)
	}()

	return e.checker.Check(output, testCase)
}

// JudgeEvaluator delegates to an LLM judge under its own timeout.
type JudgeEvaluator struct {
	judge         judge.Judge
	timeout       time.Duration
	weight        float64
	passThreshold float64
}

func NewJudgeEvaluator(j judge.Judge, timeout time.Duration, weight, passThreshold float64) *JudgeEvaluator {
	return &JudgeEvaluator{
		judge:         j,
		timeout:       timeout,
		weight:        weight,
		passThreshold: passThreshold,
	}
}

func (e *JudgeEvaluator) Name() string { return e.judge.Name() }
func (e *JudgeEvaluator) Kind() models.EvaluatorKind { return models.KindJudge }

func (e *JudgeEvaluator) Evaluate(ctx context.Context, output models.FeatureOutput, testCase models.TestCase) models.CheckResult {
	now := time.Now()

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	request := judge.Request{
		CaseID:     testCase.ID,
		Input:      testCase.Input,
		Output:     output.Content,
		Specs:      testCase.Specs,
		Guidelines: testCase.Guidelines,
	}

	// buffered so a judge that ignores ctx does not leak its goroutine
	done := make(chan judge.Outcome, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- judge.Outcome{Kind: judge.OutcomeTransport, Err: fmt.Errorf("judge panicked: %v", r)}
			}
		}()
		done <- e.judge.Judge(ctx, request)
	}()

	var outcome judge.Outcome
	select {
	case outcome = <-done:
	case <-ctx.Done():
		outcome = judge.Outcome{Kind: judge.Classify(ctx.Err()), Err: ctx.Err()}
	}

	result := e.toCheck(outcome)
	result.Duration = time.Since(now)
	return result
}

func (e *JudgeEvaluator) toCheck(outcome judge.Outcome) models.CheckResult {
	if !outcome.Success() {
		msg := string(outcome.Kind)
		if outcome.Err != nil {
			msg = fmt.Sprintf("%s: %v", outcome.Kind, outcome.Err)
		}
		return errored(e.Name(), models.KindJudge, e.weight, msg)
	}

	verdict := outcome.Verdict
	reason := verdict.Reason
	if verdict.SafetyViolation && len(verdict.Violations) > 0 {
		reason = fmt.Sprintf("%s (violations: %v)", reason, verdict.Violations)
	}

	return models.CheckResult{
		Name:            e.Name(),
		Kind:            models.KindJudge,
		Score:           verdict.Score,
		Passed:          verdict.Score >= e.passThreshold && !verdict.SafetyViolation,
		Reason:          reason,
		SafetyViolation: verdict.SafetyViolation,
		Weight:          e.weight,
	}
}

func errored(name string, kind models.EvaluatorKind, weight float64, msg string) models.CheckResult {
	return models.CheckResult{
		Name:         name,
		Kind:         kind,
		Error:        true,
		ErrorMessage: msg,
		Weight:       weight,
	}
}
