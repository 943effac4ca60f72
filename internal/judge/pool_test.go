package judge

import (
	"errors"
	"slices"
	"testing"

	"github.com/povarna/generative-ai-agents/eval-suite/internal/config"
	"github.com/rs/zerolog"
)

func judgeConfig(name string, enabled bool, prompt string) config.JudgeConfiguration {
	return config.JudgeConfiguration{
		Name:    name,
		Enabled: enabled,
		Prompt:  prompt,
		Model:   &config.ModelConfig{MaxTokens: 256},
	}
}

func judgesOf(defs ...config.JudgeConfiguration) *config.JudgesConfig {
	return &config.JudgesConfig{Judges: config.Judges{Evaluators: defs}}
}

func TestBuildEnabled(t *testing.T) {
	tests := []struct {
		name       string
		cfg        *config.JudgesConfig
		wantJudges []string
		wantErr    string
	}{
		{
			name: "all enabled in file order",
			cfg: judgesOf(
				judgeConfig("rubric", true, "Score: {{.Output}}"),
				judgeConfig("safety", true, "Score: {{.Query}}"),
			),
			wantJudges: []string{"rubric", "safety"},
		},
		{
			name: "disabled judges skipped",
			cfg: judgesOf(
				judgeConfig("rubric", true, "{{.Output}}"),
				judgeConfig("relevance", false, "{{.Query}}"),
				judgeConfig("safety", true, "{{.Context}}"),
			),
			wantJudges: []string{"rubric", "safety"},
		},
		{
			name:    "nil config",
			wantErr: "judges config is nil",
		},
		{
			name:    "invalid template names the judge",
			cfg:     judgesOf(judgeConfig("bad-judge", true, "{{.Invalid")),
			wantErr: "bad-judge",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := zerolog.Nop()

			judges, err := BuildEnabled(tt.cfg, &MockLLMClient{}, &logger)
			if tt.wantErr != "" {
				if err == nil || !contains(err.Error(), tt.wantErr) {
					t.Fatalf("Expected error containing %q, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("BuildEnabled failed: %v", err)
			}

			names := make([]string, 0, len(judges))
			for _, j := range judges {
				names = append(names, j.Name())
			}
			if !slices.Equal(names, tt.wantJudges) {
				t.Errorf("Expected judges %v, got %v", tt.wantJudges, names)
			}
		})
	}
}

func TestBuildEnabled_NothingEnabled(t *testing.T) {
	logger := zerolog.Nop()

	_, err := BuildEnabled(judgesOf(judgeConfig("rubric", false, "{{.Output}}")), &MockLLMClient{}, &logger)
	if !errors.Is(err, ErrNoEnabledJudges) {
		t.Errorf("Expected ErrNoEnabledJudges, got %v", err)
	}
}
