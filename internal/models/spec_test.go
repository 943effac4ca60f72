package models

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"gopkg.in/yaml.v3"
)

func TestSpecs_UnmarshalYAML_Defaults(t *testing.T) {
	doc := `
- kind: rubric
  criteria: "Answer must cite the refund window"
- kind: safety_constraint
  forbidden: "Reveals another customer's data"
- kind: golden_example
  expected: "Refunds are accepted within 30 days."
`
	var specs Specs
	if err := yaml.Unmarshal([]byte(doc), &specs); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	if len(specs) != 3 {
		t.Fatalf("expected 3 specs, got %d", len(specs))
	}
	rubrics := specs.Rubrics()
	if len(rubrics) != 1 || rubrics[0].Weight != 1.0 {
		t.Errorf("expected one rubric with default weight 1, got %+v", rubrics)
	}
	safety := specs.SafetyConstraints()
	if len(safety) != 1 || safety[0].Severity != SeverityHigh {
		t.Errorf("expected default severity high, got %+v", safety)
	}
	if got := specs.GoldenExamples(); len(got) != 1 || got[0].Expected == "" {
		t.Errorf("expected one golden example, got %+v", got)
	}
	if err := specs.Validate(); err != nil {
		t.Errorf("expected valid specs, got %v", err)
	}
}

func TestSpecs_UnmarshalJSON_UnknownKind(t *testing.T) {
	var specs Specs
	err := json.Unmarshal([]byte(`[{"kind":"vibes","criteria":"x"}]`), &specs)
	if !errors.Is(err, ErrMalformedSpec) {
		t.Fatalf("expected ErrMalformedSpec, got %v", err)
	}
}

func TestSpecs_JSONKeepsOrderAndWeights(t *testing.T) {
	specs := Specs{
		GoldenExample{Expected: "42"},
		Rubric{Criteria: "states the number", Weight: 0},
	}

	data, err := json.Marshal(specs)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var decoded Specs
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if decoded[0].Kind() != SpecGoldenExample || decoded[1].Kind() != SpecRubric {
		t.Errorf("order not preserved: %+v", decoded)
	}
	if decoded[1].(Rubric).Weight != 0 {
		t.Errorf("explicit zero weight must survive, got %v", decoded[1].(Rubric).Weight)
	}
}

func TestSpec_Validate(t *testing.T) {
	tests := []struct {
		name    string
		spec    Spec
		wantErr bool
	}{
		{name: "valid rubric", spec: Rubric{Criteria: "concise", Weight: 2}},
		{name: "empty criteria", spec: Rubric{Criteria: "  ", Weight: 1}, wantErr: true},
		{name: "negative weight", spec: Rubric{Criteria: "concise", Weight: -1}, wantErr: true},
		{name: "valid safety", spec: SafetyConstraint{Forbidden: "DROP TABLE", Severity: SeverityCritical}},
		{name: "unknown severity", spec: SafetyConstraint{Forbidden: "DROP TABLE", Severity: "meh"}, wantErr: true},
		{name: "empty golden", spec: GoldenExample{}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.spec.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrMalformedSpec) {
				t.Errorf("expected ErrMalformedSpec, got %v", err)
			}
		})
	}
}

func TestTestCase_HasAnyTag(t *testing.T) {
	tc := TestCase{ID: "1", Tags: []string{"sql", "smoke"}}

	if !tc.HasAnyTag(nil) {
		t.Error("no tags should match every case")
	}
	if !tc.HasAnyTag([]string{"billing", "smoke"}) {
		t.Error("expected intersection match")
	}
	if tc.HasAnyTag([]string{"billing"}) {
		t.Error("expected no match for disjoint tags")
	}
}

func TestTestCase_Timeout(t *testing.T) {
	tc := TestCase{ID: "1"}
	if got := tc.Timeout(5 * time.Second); got != 5*time.Second {
		t.Errorf("expected default timeout, got %v", got)
	}

	tc.Config.TimeoutSeconds = 0.5
	if got := tc.Timeout(5 * time.Second); got != 500*time.Millisecond {
		t.Errorf("expected 500ms, got %v", got)
	}
}

func TestDuplicateCaseError_Is(t *testing.T) {
	var err error = &DuplicateCaseError{ID: "case-1"}
	if !errors.Is(err, ErrDuplicateCase) {
		t.Error("expected DuplicateCaseError to match ErrDuplicateCase")
	}
}
