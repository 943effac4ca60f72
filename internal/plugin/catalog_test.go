package plugin

import (
	"context"
	"testing"

	"github.com/povarna/generative-ai-agents/eval-suite/internal/judge"
	"github.com/povarna/generative-ai-agents/eval-suite/internal/models"
)

type namedJudge string

func (n namedJudge) Name() string { return string(n) }

func (n namedJudge) Judge(context.Context, judge.Request) judge.Outcome {
	return judge.Outcome{Kind: judge.OutcomeSuccess}
}

func TestBuiltinCatalog(t *testing.T) {
	c, err := BuiltinCatalog()
	if err != nil {
		t.Fatalf("BuiltinCatalog failed: %v", err)
	}

	for _, name := range []string{"format", "length", "overlap", "json", "sql-safety", "golden"} {
		if _, err := c.Checks.Get(name); err != nil {
			t.Errorf("expected builtin check %q: %v", name, err)
		}
	}
	for _, name := range []string{"echo", "recorded"} {
		if _, err := c.Features.Get(name); err != nil {
			t.Errorf("expected builtin feature %q: %v", name, err)
		}
	}
	if len(c.Judges.Names()) != 0 {
		t.Errorf("judges are registered from config, got %v", c.Judges.Names())
	}
}

func TestCatalog_StaticEvaluators(t *testing.T) {
	c, _ := BuiltinCatalog()

	evaluators, err := c.StaticEvaluators([]string{"json", "format"})
	if err != nil {
		t.Fatalf("StaticEvaluators failed: %v", err)
	}
	if len(evaluators) != 2 {
		t.Fatalf("expected 2 evaluators, got %d", len(evaluators))
	}
	if evaluators[0].Name() != "json" || evaluators[1].Name() != "format" {
		t.Errorf("evaluators must keep config names and order, got %s, %s", evaluators[0].Name(), evaluators[1].Name())
	}
	if evaluators[0].Kind() != models.KindStatic {
		t.Errorf("expected static kind, got %s", evaluators[0].Kind())
	}

	if _, err := c.StaticEvaluators([]string{"format", "missing"}); err == nil {
		t.Error("expected error for unknown check")
	}
}

func TestCatalog_RegisterJudges(t *testing.T) {
	c := NewCatalog()

	if err := c.RegisterJudges(namedJudge("rubric"), namedJudge("safety")); err != nil {
		t.Fatalf("RegisterJudges failed: %v", err)
	}
	if _, err := c.Judges.Get("safety"); err != nil {
		t.Errorf("expected judge to be registered: %v", err)
	}
	if err := c.RegisterJudges(namedJudge("rubric")); err == nil {
		t.Error("expected duplicate judge error")
	}
}
