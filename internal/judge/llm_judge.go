package judge

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"text/template"

	"github.com/povarna/generative-ai-agents/eval-suite/internal/config"
	"github.com/povarna/generative-ai-agents/eval-suite/internal/llm"
	"github.com/povarna/generative-ai-agents/eval-suite/internal/models"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// LLMJudge is a generic judge implementation that uses LLM with configurable prompts.
type LLMJudge struct {
	name           string
	system         string
	promptTemplate *template.Template
	modelConfig    config.ModelConfig
	limiter        *rate.Limiter
	llmClient      llm.LLMClient
	logger         *zerolog.Logger
}

// promptData is what judge prompt templates are rendered with.
type promptData struct {
	CaseID   string
	Query    string
	Context  string
	Output   string
	Rubrics  []models.Rubric
	Safety   []models.SafetyConstraint
	Golden   []models.GoldenExample
	Expected string
}

type judgeResponse struct {
	Score           float64  `json:"score"`
	Reason          string   `json:"reason"`
	SafetyViolation bool     `json:"safety_violation"`
	Violations      []string `json:"violations"`
}

func NewLLMJudge(
	judgeCfg config.JudgeConfiguration,
	llmClient llm.LLMClient,
	logger *zerolog.Logger,
) (*LLMJudge, error) {
	tmpl, err := template.New(judgeCfg.Name).Option("missingkey=error").Parse(judgeCfg.Prompt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse prompt template for judge %s: %w", judgeCfg.Name, err)
	}

	if judgeCfg.Model == nil {
		return nil, fmt.Errorf("judge %s has nil model config (should be populated by config loader)", judgeCfg.Name)
	}

	limit := rate.Inf
	if judgeCfg.RequestsPerSecond > 0 {
		limit = rate.Limit(judgeCfg.RequestsPerSecond)
	}

	return &LLMJudge{
		name:           judgeCfg.Name,
		system:         judgeCfg.System,
		promptTemplate: tmpl,
		modelConfig:    *judgeCfg.Model,
		limiter:        rate.NewLimiter(limit, max(judgeCfg.Burst, 1)),
		llmClient:      llmClient,
		logger:         logger,
	}, nil
}

// Judge renders the prompt, calls the model and parses its verdict.
func (j *LLMJudge) Judge(ctx context.Context, request Request) Outcome {
	prompt, err := j.buildPrompt(request)
	if err != nil {
		j.logger.Error().
			Err(err).
			Str("judge", j.name).
			Str("case_id", request.CaseID).
			Msg("failed to build prompt from template")
		return Outcome{Kind: OutcomeInvalidResponse, Err: fmt.Errorf("failed to build prompt: %w", err)}
	}

	if err := j.limiter.Wait(ctx); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return Outcome{Kind: Classify(ctxErr), Err: ctxErr}
		}
		// the wait would outlast the deadline
		return Outcome{Kind: OutcomeTimeout, Err: err}
	}

	llmRequest := llm.LLMRequest{
		System:      j.systemPrompt(request.Guidelines),
		Prompt:      prompt,
		MaxTokens:   j.modelConfig.MaxTokens,
		Temperature: j.modelConfig.Temperature,
	}

	var resp *llm.LLMResponse
	if j.modelConfig.Retry {
		resp, err = j.llmClient.InvokeModelWithRetry(ctx, llmRequest)
	} else {
		resp, err = j.llmClient.InvokeModel(ctx, llmRequest)
	}

	if err != nil {
		kind := Classify(err)
		j.logger.Error().
			Err(err).
			Str("judge", j.name).
			Str("case_id", request.CaseID).
			Str("outcome", string(kind)).
			Msg("LLM call failed")
		return Outcome{Kind: kind, Err: err}
	}

	verdict, err := j.parse(resp.Content)
	if err != nil {
		j.logger.Error().
			Err(err).
			Str("judge", j.name).
			Str("case_id", request.CaseID).
			Str("content", resp.Content).
			Msg("invalid judge response")
		return Outcome{Kind: OutcomeInvalidResponse, Err: err}
	}

	j.logger.Debug().
		Str("judge", j.name).
		Str("case_id", request.CaseID).
		Float64("score", verdict.Score).
		Bool("safety_violation", verdict.SafetyViolation).
		Msg("judge completed")

	return Outcome{Kind: OutcomeSuccess, Verdict: verdict}
}

// Name returns the judge's name
func (j *LLMJudge) Name() string {
	return j.name
}

func (j *LLMJudge) parse(raw string) (Verdict, error) {
	content := llm.StripCodeFence(raw)
	var llmResponse judgeResponse
	if err := json.Unmarshal([]byte(content), &llmResponse); err != nil {
		return Verdict{}, fmt.Errorf("failed to deserialize LLM response: %w", err)
	}

	if llmResponse.Score == 0.0 && llmResponse.Reason == "" && !llmResponse.SafetyViolation {
		return Verdict{}, fmt.Errorf("invalid LLM response: missing score and reason")
	}

	if llmResponse.Score < 0.0 || llmResponse.Score > 1.0 {
		return Verdict{}, fmt.Errorf("invalid LLM response: score %f out of range [0.0, 1.0]", llmResponse.Score)
	}

	return Verdict{
		Score:           llmResponse.Score,
		Reason:          llmResponse.Reason,
		SafetyViolation: llmResponse.SafetyViolation || len(llmResponse.Violations) > 0,
		Violations:      llmResponse.Violations,
	}, nil
}

func (j *LLMJudge) systemPrompt(guidelines string) string {
	switch {
	case j.system == "":
		return guidelines
	case guidelines == "":
		return j.system
	default:
		return j.system + "\n\n" + guidelines
	}
}

// buildPrompt executes the template with the case under evaluation
func (j *LLMJudge) buildPrompt(request Request) (string, error) {
	data := promptData{
		CaseID:   request.CaseID,
		Query:    request.Input.Query,
		Context:  request.Input.Context,
		Output:   request.Output,
		Rubrics:  request.Specs.Rubrics(),
		Safety:   request.Specs.SafetyConstraints(),
		Golden:   request.Specs.GoldenExamples(),
		Expected: "N/A",
	}
	if len(data.Golden) > 0 {
		data.Expected = data.Golden[0].Expected
	}

	var buf bytes.Buffer
	if err := j.promptTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("template execution failed: %w", err)
	}
	return buf.String(), nil
}
