package config

import (
	"fmt"
	"os"
	"text/template"

	"gopkg.in/yaml.v3"
)

const defaultJudgesConfigPath = "configs/judges.yaml"

// LoadJudgesConfig loads the file named by JUDGES_CONFIG_PATH, or configs/judges.yaml.
func LoadJudgesConfig() (*JudgesConfig, error) {
	return LoadJudgesConfigFrom(getEnv("JUDGES_CONFIG_PATH", defaultJudgesConfigPath))
}

func LoadJudgesConfigFrom(path string) (*JudgesConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg JudgesConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML in %s: %w", path, err)
	}

	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid judges config %s: %w", path, err)
	}

	return &cfg, nil
}

// applyDefaults fills the default model and merges it into every judge.
// A judge keeps its own retry flag when it declares a model block.
func applyDefaults(cfg *JudgesConfig) {
	if cfg.Judges.DefaultModel.MaxTokens == 0 {
		cfg.Judges.DefaultModel.MaxTokens = 256
	}

	for i := range cfg.Judges.Evaluators {
		judge := &cfg.Judges.Evaluators[i]
		if judge.Model == nil {
			model := cfg.Judges.DefaultModel
			judge.Model = &model
			continue
		}
		if judge.Model.MaxTokens == 0 {
			judge.Model.MaxTokens = cfg.Judges.DefaultModel.MaxTokens
		}
		if judge.Model.Temperature == 0 {
			judge.Model.Temperature = cfg.Judges.DefaultModel.Temperature
		}
	}
}

func (c *JudgesConfig) Validate() error {
	if len(c.Judges.Evaluators) == 0 {
		return fmt.Errorf("no judges configured")
	}

	if err := validateModel("default_model", c.Judges.DefaultModel); err != nil {
		return err
	}

	seen := make(map[string]bool, len(c.Judges.Evaluators))
	for i, judge := range c.Judges.Evaluators {
		if judge.Name == "" {
			return fmt.Errorf("judge %d: missing name", i)
		}
		if seen[judge.Name] {
			return fmt.Errorf("duplicate judge name %q", judge.Name)
		}
		seen[judge.Name] = true

		if judge.Prompt == "" {
			return fmt.Errorf("judge %s: missing prompt", judge.Name)
		}
		if _, err := template.New(judge.Name).Parse(judge.Prompt); err != nil {
			return fmt.Errorf("judge %s: invalid prompt template: %w", judge.Name, err)
		}
		if judge.RequestsPerSecond < 0 {
			return fmt.Errorf("judge %s: negative requests_per_second", judge.Name)
		}
		if judge.Burst < 0 {
			return fmt.Errorf("judge %s: negative burst", judge.Name)
		}
		if judge.Model != nil {
			if err := validateModel("judge "+judge.Name, *judge.Model); err != nil {
				return err
			}
		}
	}

	return nil
}

func validateModel(scope string, model ModelConfig) error {
	if model.MaxTokens < 0 {
		return fmt.Errorf("%s: negative max_tokens %d", scope, model.MaxTokens)
	}
	if model.Temperature < 0 || model.Temperature > 1 {
		return fmt.Errorf("%s: invalid temperature %v, expected [0.0, 1.0]", scope, model.Temperature)
	}
	return nil
}

// Enabled returns the enabled judges in file order.
func (c *JudgesConfig) Enabled() []JudgeConfiguration {
	var enabled []JudgeConfiguration
	for _, judge := range c.Judges.Evaluators {
		if judge.Enabled {
			enabled = append(enabled, judge)
		}
	}
	return enabled
}
