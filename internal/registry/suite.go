package registry

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/povarna/generative-ai-agents/eval-suite/internal/models"
	"gopkg.in/yaml.v3"
)

// guidelineFiles are concatenated, in this order, into the judge system prompt.
var guidelineFiles = []string{
	"scoring_rubric.md",
	"safety_constraints.md",
	"golden_dataset.md",
	"additional_context.md",
	"concept_definition.md",
	"style_guidelines.md",
}

// Suite is a YAML file describing the cases contributed by one feature.
type Suite struct {
	Name       string            `yaml:"name"`
	SpecsDir   string            `yaml:"specs_dir"`
	Cases      []models.TestCase `yaml:"cases"`
	Guidelines string            `yaml:"-"`
}

// LoadSuite reads a suite file. A relative specs_dir is resolved against the
// suite file's directory.
func LoadSuite(path string) (*Suite, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read suite file: %w", err)
	}

	var suite Suite
	if err := yaml.Unmarshal(data, &suite); err != nil {
		return nil, fmt.Errorf("failed to parse suite file %s: %w", path, err)
	}

	if suite.Name == "" {
		suite.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	if suite.SpecsDir != "" {
		dir := suite.SpecsDir
		if !filepath.IsAbs(dir) {
			dir = filepath.Join(filepath.Dir(path), dir)
		}
		guidelines, err := LoadGuidelines(dir)
		if err != nil {
			return nil, err
		}
		suite.Guidelines = guidelines
	}

	for i := range suite.Cases {
		if suite.Cases[i].Guidelines == "" {
			suite.Cases[i].Guidelines = suite.Guidelines
		}
	}

	return &suite, nil
}

// LoadGuidelines concatenates the markdown spec files found in dir.
// Missing files are skipped.
func LoadGuidelines(dir string) (string, error) {
	var sections []string
	for _, name := range guidelineFiles {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return "", fmt.Errorf("failed to read spec file %s: %w", name, err)
		}
		if text := strings.TrimSpace(string(data)); text != "" {
			sections = append(sections, text)
		}
	}
	return strings.Join(sections, "\n\n"), nil
}

// Registry builds a registry from the suite. Registration errors are fatal.
func (s *Suite) Registry() (*Registry, error) {
	reg := New()
	if err := reg.RegisterAll(s.Cases); err != nil {
		return nil, fmt.Errorf("suite %s: %w", s.Name, err)
	}
	return reg, nil
}
