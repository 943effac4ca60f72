package setup

import (
	"fmt"
	"slices"

	"github.com/povarna/generative-ai-agents/eval-suite/internal/config"
	"github.com/povarna/generative-ai-agents/eval-suite/internal/feature"
	"github.com/povarna/generative-ai-agents/eval-suite/internal/models"
	"github.com/povarna/generative-ai-agents/eval-suite/internal/plugin"
	"github.com/povarna/generative-ai-agents/eval-suite/internal/registry"
	"github.com/rs/zerolog"
)

// Validate resolves everything Wire would without building clients or
// invoking any feature. It returns the registry that a run would use.
func Validate(cfg *config.EvalConfig, cases []models.TestCase, logger *zerolog.Logger) (*registry.Registry, error) {
	suite, err := registry.LoadSuite(cfg.Suite)
	if err != nil {
		return nil, fmt.Errorf("failed to load suite: %w", err)
	}
	reg, err := suite.Registry()
	if err != nil {
		return nil, err
	}
	if err := reg.RegisterAll(cases); err != nil {
		return nil, fmt.Errorf("failed to register extra cases: %w", err)
	}

	catalog, err := plugin.BuiltinCatalog()
	if err != nil {
		return nil, err
	}
	if _, err := catalog.StaticEvaluators(cfg.StaticChecks); err != nil {
		return nil, err
	}

	if cfg.Feature == "llm" {
		if _, err := feature.NewLLMFeature(cfg.FeatureLLM, nil, logger); err != nil {
			return nil, err
		}
	} else if _, err := catalog.Features.Get(cfg.Feature); err != nil {
		return nil, err
	}

	if cfg.Judge != "" {
		judgesConfig, err := config.LoadJudgesConfigFrom(cfg.JudgesConfig)
		if err != nil {
			return nil, fmt.Errorf("failed to load judges config: %w", err)
		}
		enabled := judgesConfig.Enabled()
		if !slices.ContainsFunc(enabled, func(j config.JudgeConfiguration) bool { return j.Name == cfg.Judge }) {
			return nil, fmt.Errorf("judge %q is not enabled in %s", cfg.Judge, cfg.JudgesConfig)
		}
	}

	if reg.Len() == 0 {
		logger.Warn().Str("suite", suite.Name).Msg("suite has no test cases")
	}

	logger.Info().
		Str("suite", suite.Name).
		Int("cases", reg.Len()).
		Msg("configuration is valid")

	return reg, nil
}
