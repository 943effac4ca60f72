package config

// JudgesConfig is the judge definition file, by default configs/judges.yaml
type JudgesConfig struct {
	Judges Judges `yaml:"judges"`
}

type Judges struct {
	DefaultModel ModelConfig          `yaml:"default_model"`
	Evaluators   []JudgeConfiguration `yaml:"evaluators"`
}

type ModelConfig struct {
	MaxTokens   int     `yaml:"max_tokens"`
	Temperature float64 `yaml:"temperature"`
	Retry       bool    `yaml:"retry"`
}

// JudgeConfiguration defines one LLM judge. Prompt is a text/template
// rendered with the output under evaluation and the case specs.
type JudgeConfiguration struct {
	Name              string       `yaml:"name"`
	Enabled           bool         `yaml:"enabled"`
	Description       string       `yaml:"description"`
	System            string       `yaml:"system"`
	Prompt            string       `yaml:"prompt"`
	Model             *ModelConfig `yaml:"model"`
	RequestsPerSecond float64      `yaml:"requests_per_second"`
	Burst             int          `yaml:"burst"`
}
