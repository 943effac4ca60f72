package plugin

import (
	"fmt"

	"github.com/povarna/generative-ai-agents/eval-suite/internal/evaluator"
	"github.com/povarna/generative-ai-agents/eval-suite/internal/feature"
	"github.com/povarna/generative-ai-agents/eval-suite/internal/judge"
	"github.com/povarna/generative-ai-agents/eval-suite/internal/prechecks"
)

// Catalog holds every implementation a config file can refer to by name.
type Catalog struct {
	Features *Registry[feature.Feature]
	Checks   *Registry[prechecks.Checker]
	Judges   *Registry[judge.Judge]
}

func NewCatalog() *Catalog {
	return &Catalog{
		Features: NewRegistry[feature.Feature]("feature"),
		Checks:   NewRegistry[prechecks.Checker]("static check"),
		Judges:   NewRegistry[judge.Judge]("judge"),
	}
}

// BuiltinCatalog returns a catalog with the built-in static checks and the
// echo and recorded features registered.
func BuiltinCatalog() (*Catalog, error) {
	c := NewCatalog()
	for name, checker := range prechecks.Builtins() {
		if err := c.Checks.Register(name, checker); err != nil {
			return nil, err
		}
	}
	if err := c.Features.Register("echo", feature.Echo{}); err != nil {
		return nil, err
	}
	if err := c.Features.Register("recorded", feature.Recorded{}); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Catalog) RegisterJudges(judges ...judge.Judge) error {
	for _, j := range judges {
		if err := c.Judges.Register(j.Name(), j); err != nil {
			return err
		}
	}
	return nil
}

// StaticEvaluators resolves check names into evaluators, in the given order.
func (c *Catalog) StaticEvaluators(names []string) ([]evaluator.Evaluator, error) {
	checkers, err := c.Checks.Select(names)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve static checks: %w", err)
	}

	evaluators := make([]evaluator.Evaluator, 0, len(checkers))
	for i, checker := range checkers {
		evaluators = append(evaluators, evaluator.NewStaticEvaluator(names[i], checker))
	}
	return evaluators, nil
}
