package feature

import (
	"context"
	"fmt"
	"time"

	"github.com/povarna/generative-ai-agents/eval-suite/internal/models"
)

// Feature is the system under test. Invoke must honour ctx cancellation;
// the case runner enforces its own deadline regardless.
type Feature interface {
	Invoke(ctx context.Context, input models.Input) (models.FeatureOutput, error)
}

// Func adapts a plain function to Feature.
type Func func(ctx context.Context, input models.Input) (models.FeatureOutput, error)

func (f Func) Invoke(ctx context.Context, input models.Input) (models.FeatureOutput, error) {
	return f(ctx, input)
}

// Echo returns the query unchanged. Used for dry runs of a suite.
type Echo struct{}

func (Echo) Invoke(ctx context.Context, input models.Input) (models.FeatureOutput, error) {
	if err := ctx.Err(); err != nil {
		return models.FeatureOutput{}, err
	}
	return models.FeatureOutput{Content: input.Query, CreatedAt: time.Now()}, nil
}

// RecordedField is the input field holding a pre-recorded answer.
const RecordedField = "answer"

// Recorded replays an answer captured ahead of time in the case input,
// which lets a suite score outputs produced outside the orchestrator.
type Recorded struct{}

func (Recorded) Invoke(ctx context.Context, input models.Input) (models.FeatureOutput, error) {
	if err := ctx.Err(); err != nil {
		return models.FeatureOutput{}, err
	}

	raw, ok := input.Fields[RecordedField]
	if !ok {
		return models.FeatureOutput{}, fmt.Errorf("input has no recorded %q field", RecordedField)
	}
	answer, ok := raw.(string)
	if !ok {
		return models.FeatureOutput{}, fmt.Errorf("recorded %q field must be a string, got %T", RecordedField, raw)
	}

	return models.FeatureOutput{
		Content:   answer,
		Metadata:  map[string]any{"source": "recorded"},
		CreatedAt: time.Now(),
	}, nil
}
