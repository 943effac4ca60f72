package judge

import (
	"errors"
	"fmt"

	"github.com/povarna/generative-ai-agents/eval-suite/internal/config"
	"github.com/povarna/generative-ai-agents/eval-suite/internal/llm"
	"github.com/rs/zerolog"
)

// ErrNoEnabledJudges is returned when a judges config enables nothing.
var ErrNoEnabledJudges = errors.New("no enabled judges found in config")

// BuildEnabled creates an LLMJudge for every enabled definition in cfg, in
// file order. All judges share client; each gets its own rate limiter.
func BuildEnabled(cfg *config.JudgesConfig, client llm.LLMClient, logger *zerolog.Logger) ([]*LLMJudge, error) {
	if cfg == nil {
		return nil, errors.New("judges config is nil")
	}

	var (
		judges   []*LLMJudge
		enabled  []string
		disabled []string
	)
	for _, def := range cfg.Judges.Evaluators {
		if !def.Enabled {
			disabled = append(disabled, def.Name)
			continue
		}

		j, err := NewLLMJudge(def, client, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create judge %s: %w", def.Name, err)
		}
		judges = append(judges, j)
		enabled = append(enabled, def.Name)
	}

	if len(judges) == 0 {
		return nil, ErrNoEnabledJudges
	}

	logger.Info().
		Strs("judges", enabled).
		Strs("disabled", disabled).
		Msg("judges built from config")

	return judges, nil
}
