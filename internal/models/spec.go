package models

import (
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

type SpecKind string

const (
	SpecRubric           SpecKind = "rubric"
	SpecSafetyConstraint SpecKind = "safety_constraint"
	SpecGoldenExample    SpecKind = "golden_example"
)

type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// Spec is a rubric, safety constraint or golden example attached to a test case.
// Its meaning is left to the judge.
type Spec interface {
	Kind() SpecKind
	Validate() error
}

type Rubric struct {
	Criteria string
	Weight   float64
}

func (Rubric) Kind() SpecKind { return SpecRubric }

func (r Rubric) Validate() error {
	if strings.TrimSpace(r.Criteria) == "" {
		return fmt.Errorf("%w: rubric criteria is empty", ErrMalformedSpec)
	}
	if r.Weight < 0 {
		return fmt.Errorf("%w: rubric weight %v is negative", ErrMalformedSpec, r.Weight)
	}
	return nil
}

type SafetyConstraint struct {
	Forbidden string
	Severity  Severity
}

func (SafetyConstraint) Kind() SpecKind { return SpecSafetyConstraint }

func (s SafetyConstraint) Validate() error {
	if strings.TrimSpace(s.Forbidden) == "" {
		return fmt.Errorf("%w: safety constraint has no forbidden pattern", ErrMalformedSpec)
	}
	switch s.Severity {
	case SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical:
		return nil
	default:
		return fmt.Errorf("%w: unknown severity %q", ErrMalformedSpec, s.Severity)
	}
}

type GoldenExample struct {
	Expected string
}

func (GoldenExample) Kind() SpecKind { return SpecGoldenExample }

func (g GoldenExample) Validate() error {
	if strings.TrimSpace(g.Expected) == "" {
		return fmt.Errorf("%w: golden example has no expected output", ErrMalformedSpec)
	}
	return nil
}

// Specs is the ordered spec list of a case. It encodes each spec as a
// flat object with a kind discriminator.
type Specs []Spec

func (s Specs) Rubrics() []Rubric {
	return specsOf[Rubric](s)
}

func (s Specs) SafetyConstraints() []SafetyConstraint {
	return specsOf[SafetyConstraint](s)
}

func (s Specs) GoldenExamples() []GoldenExample {
	return specsOf[GoldenExample](s)
}

func (s Specs) Validate() error {
	for i, spec := range s {
		if spec == nil {
			return fmt.Errorf("%w: spec %d is nil", ErrMalformedSpec, i)
		}
		if err := spec.Validate(); err != nil {
			return fmt.Errorf("spec %d: %w", i, err)
		}
	}
	return nil
}

func specsOf[T Spec](specs Specs) []T {
	var out []T
	for _, spec := range specs {
		if typed, ok := spec.(T); ok {
			out = append(out, typed)
		}
	}
	return out
}

type specRecord struct {
	Kind      SpecKind `json:"kind" yaml:"kind"`
	Criteria  string   `json:"criteria,omitempty" yaml:"criteria,omitempty"`
	Weight    *float64 `json:"weight,omitempty" yaml:"weight,omitempty"`
	Forbidden string   `json:"forbidden,omitempty" yaml:"forbidden,omitempty"`
	Severity  Severity `json:"severity,omitempty" yaml:"severity,omitempty"`
	Expected  string   `json:"expected,omitempty" yaml:"expected,omitempty"`
}

func (r specRecord) toSpec() (Spec, error) {
	switch r.Kind {
	case SpecRubric:
		weight := 1.0
		if r.Weight != nil {
			weight = *r.Weight
		}
		return Rubric{Criteria: r.Criteria, Weight: weight}, nil
	case SpecSafetyConstraint:
		severity := r.Severity
		if severity == "" {
			severity = SeverityHigh
		}
		return SafetyConstraint{Forbidden: r.Forbidden, Severity: severity}, nil
	case SpecGoldenExample:
		return GoldenExample{Expected: r.Expected}, nil
	default:
		return nil, fmt.Errorf("%w: unknown spec kind %q", ErrMalformedSpec, r.Kind)
	}
}

func recordOf(spec Spec) (specRecord, error) {
	switch s := spec.(type) {
	case Rubric:
		weight := s.Weight
		return specRecord{Kind: SpecRubric, Criteria: s.Criteria, Weight: &weight}, nil
	case SafetyConstraint:
		return specRecord{Kind: SpecSafetyConstraint, Forbidden: s.Forbidden, Severity: s.Severity}, nil
	case GoldenExample:
		return specRecord{Kind: SpecGoldenExample, Expected: s.Expected}, nil
	default:
		return specRecord{}, fmt.Errorf("%w: unsupported spec type %T", ErrMalformedSpec, spec)
	}
}

func fromRecords(records []specRecord) (Specs, error) {
	specs := make(Specs, 0, len(records))
	for i, record := range records {
		spec, err := record.toSpec()
		if err != nil {
			return nil, fmt.Errorf("spec %d: %w", i, err)
		}
		specs = append(specs, spec)
	}
	return specs, nil
}

func (s Specs) MarshalJSON() ([]byte, error) {
	records := make([]specRecord, 0, len(s))
	for _, spec := range s {
		record, err := recordOf(spec)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return json.Marshal(records)
}

func (s *Specs) UnmarshalJSON(data []byte) error {
	var records []specRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return err
	}
	specs, err := fromRecords(records)
	if err != nil {
		return err
	}
	*s = specs
	return nil
}

func (s *Specs) UnmarshalYAML(node *yaml.Node) error {
	var records []specRecord
	if err := node.Decode(&records); err != nil {
		return err
	}
	specs, err := fromRecords(records)
	if err != nil {
		return err
	}
	*s = specs
	return nil
}
