package judge

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/povarna/generative-ai-agents/eval-suite/internal/config"
	"github.com/povarna/generative-ai-agents/eval-suite/internal/llm"
	"github.com/povarna/generative-ai-agents/eval-suite/internal/models"
	"github.com/rs/zerolog"
)

func newJudgeConfig(name, prompt string) config.JudgeConfiguration {
	return config.JudgeConfiguration{
		Name:    name,
		Enabled: true,
		Prompt:  prompt,
		Model: &config.ModelConfig{
			MaxTokens:   256,
			Temperature: 0.0,
		},
	}
}

func TestNewLLMJudge_Success(t *testing.T) {
	logger := zerolog.Nop()

	cfg := newJudgeConfig("test-judge", "Score: {{.Output}}")
	cfg.RequestsPerSecond = 2
	cfg.Burst = 3

	judge, err := NewLLMJudge(cfg, &MockLLMClient{}, &logger)
	if err != nil {
		t.Fatalf("NewLLMJudge failed: %v", err)
	}

	if judge.Name() != "test-judge" {
		t.Errorf("Expected name 'test-judge', got '%s'", judge.Name())
	}
	if judge.modelConfig.MaxTokens != 256 {
		t.Errorf("Expected MaxTokens=256, got %d", judge.modelConfig.MaxTokens)
	}
	if judge.limiter.Burst() != 3 {
		t.Errorf("Expected burst 3, got %d", judge.limiter.Burst())
	}
}

func TestNewLLMJudge_InvalidTemplate(t *testing.T) {
	logger := zerolog.Nop()

	_, err := NewLLMJudge(newJudgeConfig("test-judge", "{{.Invalid"), &MockLLMClient{}, &logger)
	if err == nil {
		t.Error("Expected error for invalid template")
	}
}

func TestNewLLMJudge_NilModelConfig(t *testing.T) {
	logger := zerolog.Nop()

	cfg := newJudgeConfig("test-judge", "test")
	cfg.Model = nil

	_, err := NewLLMJudge(cfg, &MockLLMClient{}, &logger)
	if err == nil {
		t.Error("Expected error for nil model config")
	}
}

func TestLLMJudge_Judge_Success(t *testing.T) {
	logger := zerolog.Nop()

	cfg := newJudgeConfig("rubric", "Query: {{.Query}}\nOutput: {{.Output}}\nExpected: {{.Expected}}{{range .Rubrics}}\n- {{.Criteria}}{{end}}")
	cfg.System = "You are a strict grader."

	mockClient := &MockLLMClient{
		ResponseToReturn: &llm.LLMResponse{
			Content: "```json\n{\"score\": 0.85, \"reason\": \"Good match\"}\n```",
		},
	}

	judge, err := NewLLMJudge(cfg, mockClient, &logger)
	if err != nil {
		t.Fatalf("NewLLMJudge failed: %v", err)
	}

	outcome := judge.Judge(context.Background(), Request{
		CaseID:     "sql-1",
		Input:      models.Input{Query: "List users"},
		Output:     "SELECT * FROM users",
		Specs:      models.Specs{models.Rubric{Criteria: "Uses SELECT", Weight: 1}},
		Guidelines: "Score 1 for correct SQL.",
	})

	if !outcome.Success() {
		t.Fatalf("Expected success, got %s (%v)", outcome.Kind, outcome.Err)
	}
	if outcome.Verdict.Score != 0.85 {
		t.Errorf("Expected score=0.85, got %f", outcome.Verdict.Score)
	}
	if outcome.Verdict.Reason != "Good match" {
		t.Errorf("Expected reason='Good match', got '%s'", outcome.Verdict.Reason)
	}

	req := mockClient.LastRequest
	if req == nil {
		t.Fatal("Expected LLM to be called")
	}
	if req.System != "You are a strict grader.\n\nScore 1 for correct SQL." {
		t.Errorf("Unexpected system prompt %q", req.System)
	}
	for _, want := range []string{"Query: List users", "Output: SELECT * FROM users", "Expected: N/A", "- Uses SELECT"} {
		if !strings.Contains(req.Prompt, want) {
			t.Errorf("Prompt %q missing %q", req.Prompt, want)
		}
	}
}

func TestLLMJudge_Judge_SafetyViolation(t *testing.T) {
	logger := zerolog.Nop()

	mockClient := &MockLLMClient{
		ResponseToReturn: &llm.LLMResponse{
			Content: `{"score": 0.9, "reason": "correct but unsafe", "violations": ["drops a table"]}`,
		},
	}

	judge, _ := NewLLMJudge(newJudgeConfig("safety", "{{.Output}}"), mockClient, &logger)
	outcome := judge.Judge(context.Background(), Request{Output: "DROP TABLE users"})

	if !outcome.Success() {
		t.Fatalf("Expected success, got %s", outcome.Kind)
	}
	if !outcome.Verdict.SafetyViolation {
		t.Error("Expected listed violations to flag a safety violation")
	}
	if len(outcome.Verdict.Violations) != 1 {
		t.Errorf("Expected one violation, got %v", outcome.Verdict.Violations)
	}
}

func TestLLMJudge_Judge_TemplateExecutionFails(t *testing.T) {
	logger := zerolog.Nop()

	mockClient := &MockLLMClient{}
	judge, _ := NewLLMJudge(newJudgeConfig("test", "{{.NonExistentField}}"), mockClient, &logger)

	outcome := judge.Judge(context.Background(), Request{Output: "test"})

	if outcome.Kind != OutcomeInvalidResponse {
		t.Errorf("Expected invalid_response, got %s", outcome.Kind)
	}
	if mockClient.WasCalled {
		t.Error("LLM must not be called when the prompt cannot be built")
	}
}

func TestLLMJudge_Judge_ErrorClassification(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want OutcomeKind
	}{
		{name: "rate limited", err: fmt.Errorf("max retries 3 exceeded: %w", llm.ErrRateLimited), want: OutcomeRateLimited},
		{name: "deadline", err: context.DeadlineExceeded, want: OutcomeTimeout},
		{name: "cancelled", err: context.Canceled, want: OutcomeCancelled},
		{name: "unavailable", err: llm.ErrUnavailable, want: OutcomeTransport},
		{name: "other", err: errors.New("API error"), want: OutcomeTransport},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := zerolog.Nop()
			judge, _ := NewLLMJudge(newJudgeConfig("test", "{{.Output}}"), &MockLLMClient{ErrorToReturn: tt.err}, &logger)

			outcome := judge.Judge(context.Background(), Request{Output: "test"})

			if outcome.Kind != tt.want {
				t.Errorf("Expected %s, got %s", tt.want, outcome.Kind)
			}
			if !errors.Is(outcome.Err, tt.err) {
				t.Errorf("Expected original error in chain, got %v", outcome.Err)
			}
		})
	}
}

func TestLLMJudge_Judge_WithRetry(t *testing.T) {
	logger := zerolog.Nop()

	cfg := newJudgeConfig("test", "Score: {{.Output}}")
	cfg.Model.Retry = true

	mockClient := &MockLLMClient{
		ResponseToReturn: &llm.LLMResponse{Content: `{"score": 0.9, "reason": "test"}`},
	}

	judge, _ := NewLLMJudge(cfg, mockClient, &logger)
	outcome := judge.Judge(context.Background(), Request{Output: "test"})

	if outcome.Verdict.Score != 0.9 {
		t.Errorf("Expected score=0.9, got %f", outcome.Verdict.Score)
	}
	if !mockClient.RetryCalled {
		t.Error("Expected InvokeModelWithRetry to be used")
	}
}

func TestLLMJudge_Judge_InvalidResponses(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{name: "invalid json", content: `not valid json`, wantErr: "failed to deserialize LLM response"},
		{name: "empty score and reason", content: `{"score": 0.0, "reason": ""}`, wantErr: "missing score and reason"},
		{name: "negative", content: `{"score": -0.5, "reason": "test"}`, wantErr: "out of range"},
		{name: "too high", content: `{"score": 1.5, "reason": "test"}`, wantErr: "out of range"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := zerolog.Nop()
			mockClient := &MockLLMClient{ResponseToReturn: &llm.LLMResponse{Content: tt.content}}
			judge, _ := NewLLMJudge(newJudgeConfig("test", "{{.Output}}"), mockClient, &logger)

			outcome := judge.Judge(context.Background(), Request{Output: "test"})

			if outcome.Kind != OutcomeInvalidResponse {
				t.Errorf("Expected invalid_response, got %s", outcome.Kind)
			}
			if outcome.Err == nil || !strings.Contains(outcome.Err.Error(), tt.wantErr) {
				t.Errorf("Expected error containing %q, got %v", tt.wantErr, outcome.Err)
			}
		})
	}
}

func TestLLMJudge_Judge_RateLimiterHonoursContext(t *testing.T) {
	logger := zerolog.Nop()

	cfg := newJudgeConfig("slow", "{{.Output}}")
	cfg.RequestsPerSecond = 0.001
	cfg.Burst = 1

	mockClient := &MockLLMClient{ResponseToReturn: &llm.LLMResponse{Content: `{"score": 1, "reason": "ok"}`}}
	judge, _ := NewLLMJudge(cfg, mockClient, &logger)

	// first call consumes the burst
	if outcome := judge.Judge(context.Background(), Request{Output: "a"}); !outcome.Success() {
		t.Fatalf("Expected first call to succeed, got %s", outcome.Kind)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	outcome := judge.Judge(ctx, Request{Output: "b"})
	if outcome.Kind != OutcomeTimeout {
		t.Errorf("Expected timeout while waiting for the limiter, got %s", outcome.Kind)
	}
}

// MockLLMClient for testing
type MockLLMClient struct {
	ResponseToReturn *llm.LLMResponse
	ErrorToReturn    error
	WasCalled        bool
	RetryCalled      bool
	LastRequest      *llm.LLMRequest
}

func (m *MockLLMClient) InvokeModel(ctx context.Context, request llm.LLMRequest) (*llm.LLMResponse, error) {
	m.WasCalled = true
	m.LastRequest = &request
	if m.ErrorToReturn != nil {
		return nil, m.ErrorToReturn
	}
	return m.ResponseToReturn, nil
}

func (m *MockLLMClient) InvokeModelWithRetry(ctx context.Context, request llm.LLMRequest) (*llm.LLMResponse, error) {
	m.RetryCalled = true
	return m.InvokeModel(ctx, request)
}

func contains(s, substr string) bool {
	return strings.Contains(s, substr)
}
