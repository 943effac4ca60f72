package feature

import (
	"bytes"
	"context"
	"fmt"
	"text/template"
	"time"

	"github.com/povarna/generative-ai-agents/eval-suite/internal/config"
	"github.com/povarna/generative-ai-agents/eval-suite/internal/llm"
	"github.com/povarna/generative-ai-agents/eval-suite/internal/models"
	"github.com/rs/zerolog"
)

const defaultPrompt = "{{.Query}}{{if .Context}}\n\nContext:\n{{.Context}}{{end}}"

// LLMFeature renders a prompt from the case input and sends it to the
// configured model. The model answer is the output under evaluation.
type LLMFeature struct {
	system         string
	promptTemplate *template.Template
	modelConfig    config.ModelConfig
	llmClient      llm.LLMClient
	logger         *zerolog.Logger
}

func NewLLMFeature(cfg config.FeatureLLM, llmClient llm.LLMClient, logger *zerolog.Logger) (*LLMFeature, error) {
	prompt := cfg.Prompt
	if prompt == "" {
		prompt = defaultPrompt
	}

	tmpl, err := template.New("feature").Parse(prompt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse feature prompt template: %w", err)
	}

	return &LLMFeature{
		system:         cfg.System,
		promptTemplate: tmpl,
		modelConfig:    cfg.Model,
		llmClient:      llmClient,
		logger:         logger,
	}, nil
}

func (f *LLMFeature) Invoke(ctx context.Context, input models.Input) (models.FeatureOutput, error) {
	now := time.Now()

	var buf bytes.Buffer
	if err := f.promptTemplate.Execute(&buf, input); err != nil {
		return models.FeatureOutput{}, fmt.Errorf("template execution failed: %w", err)
	}

	request := llm.LLMRequest{
		System:      f.system,
		Prompt:      buf.String(),
		MaxTokens:   f.modelConfig.MaxTokens,
		Temperature: f.modelConfig.Temperature,
	}

	var (
		resp *llm.LLMResponse
		err  error
	)
	if f.modelConfig.Retry {
		resp, err = f.llmClient.InvokeModelWithRetry(ctx, request)
	} else {
		resp, err = f.llmClient.InvokeModel(ctx, request)
	}
	if err != nil {
		return models.FeatureOutput{}, fmt.Errorf("feature LLM call failed: %w", err)
	}

	latency := time.Since(now)
	f.logger.Debug().
		Dur("latency", latency).
		Str("stop_reason", resp.StopReason).
		Msg("feature completed")

	return models.FeatureOutput{
		Content:   resp.Content,
		Metadata:  map[string]any{"stop_reason": resp.StopReason},
		Latency:   latency,
		CreatedAt: now,
	}, nil
}
