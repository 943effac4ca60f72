package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

const defaultEvalConfigPath = "configs/eval.yaml"

// EvalConfig is the fully resolved orchestrator configuration.
type EvalConfig struct {
	Suite             string        `yaml:"suite" validate:"required"`
	Feature           string        `yaml:"feature" validate:"required"`
	StaticChecks      []string      `yaml:"static_checks"`
	Judge             string        `yaml:"judge"`
	JudgesConfig      string        `yaml:"judges_config"`
	Tags              []string      `yaml:"tags"`
	ConcurrencyLimit  int           `yaml:"concurrency_limit" validate:"gte=1"`
	RunsCount         int           `yaml:"runs_count" validate:"gte=1"`
	CaseTimeout       time.Duration `yaml:"case_timeout" validate:"gt=0"`
	JudgeTimeout      time.Duration `yaml:"judge_timeout" validate:"gt=0"`
	JudgeWeight       float64       `yaml:"judge_weight" validate:"gte=0"`
	PassThreshold     float64       `yaml:"pass_threshold" validate:"gte=0,lte=1"`
	VarianceThreshold float64       `yaml:"variance_threshold" validate:"gte=0"`
	LogLevel          string        `yaml:"log_level" validate:"oneof=trace debug info warn error"`
	Report            ReportConfig  `yaml:"report"`
	LLM               LLMConfig     `yaml:"llm"`
	FeatureLLM        FeatureLLM    `yaml:"feature_llm"`
	Metrics           MetricsConfig `yaml:"metrics"`
	Redis             RedisConfig   `yaml:"redis"`
	API               APIConfig     `yaml:"api"`
}

type ReportConfig struct {
	DstDir        string `yaml:"dst_dir"`
	Name          string `yaml:"name" validate:"required"`
	EnableCSV     bool   `yaml:"enable_csv"`
	EnableSummary bool   `yaml:"enable_summary"`
	EnableJSONL   bool   `yaml:"enable_jsonl"`
}

type LLMConfig struct {
	Provider      string `yaml:"provider" validate:"oneof=bedrock openai"`
	AWSRegion     string `yaml:"aws_region"`
	ClaudeModelID string `yaml:"claude_model_id"`
	OpenAIModelID string `yaml:"openai_model_id"`
	OpenAIKey     string `yaml:"-"`
}

// FeatureLLM configures the built-in prompt feature.
type FeatureLLM struct {
	System string      `yaml:"system"`
	Prompt string      `yaml:"prompt"`
	Model  ModelConfig `yaml:"model"`
}

type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

type RedisConfig struct {
	Addr          string `yaml:"addr"`
	Password      string `yaml:"-"`
	Stream        string `yaml:"stream"`
	Group         string `yaml:"group"`
	ResultsStream string `yaml:"results_stream"`
}

type APIConfig struct {
	Port string `yaml:"port"`
}

func DefaultEvalConfig() *EvalConfig {
	return &EvalConfig{
		Feature:           "recorded",
		StaticChecks:      []string{"format"},
		JudgesConfig:      defaultJudgesConfigPath,
		ConcurrencyLimit:  4,
		RunsCount:         1,
		CaseTimeout:       30 * time.Second,
		JudgeTimeout:      30 * time.Second,
		JudgeWeight:       1.0,
		PassThreshold:     0.7,
		VarianceThreshold: 0.05,
		LogLevel:          "info",
		Report: ReportConfig{
			DstDir:        "reports",
			Name:          "eval",
			EnableCSV:     true,
			EnableSummary: true,
		},
		LLM: LLMConfig{
			Provider:  "bedrock",
			AWSRegion: "us-east-1",
		},
		FeatureLLM: FeatureLLM{
			Model: ModelConfig{MaxTokens: 1024, Retry: true},
		},
		Metrics: MetricsConfig{Enabled: true},
		Redis: RedisConfig{
			Addr:          "localhost:6379",
			Stream:        "eval-runs",
			Group:         "eval-group",
			ResultsStream: "eval-results",
		},
		API: APIConfig{Port: "18081"},
	}
}

// EvalConfigPath returns EVAL_CONFIG_PATH or configs/eval.yaml.
func EvalConfigPath() string {
	return getEnv("EVAL_CONFIG_PATH", defaultEvalConfigPath)
}

// LoadEvalConfig reads path over the defaults, applies environment
// overrides and validates the result.
func LoadEvalConfig(path string) (*EvalConfig, error) {
	cfg := DefaultEvalConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML in %s: %w", path, err)
	}

	cfg.ApplyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overrides values with the environment variables that are set.
func (c *EvalConfig) ApplyEnv() {
	c.Suite = getEnv("EVAL_SUITE", c.Suite)
	c.Feature = getEnv("EVAL_FEATURE", c.Feature)
	c.Judge = getEnv("EVAL_JUDGE", c.Judge)
	c.JudgesConfig = getEnv("JUDGES_CONFIG_PATH", c.JudgesConfig)
	c.StaticChecks = getEnvList("EVAL_STATIC_CHECKS", c.StaticChecks)
	c.Tags = getEnvList("EVAL_TAGS", c.Tags)
	c.ConcurrencyLimit = getEnvInt("EVAL_CONCURRENCY_LIMIT", c.ConcurrencyLimit)
	c.RunsCount = getEnvInt("EVAL_RUNS_COUNT", c.RunsCount)
	c.CaseTimeout = getEnvDuration("EVAL_CASE_TIMEOUT", c.CaseTimeout)
	c.JudgeTimeout = getEnvDuration("EVAL_JUDGE_TIMEOUT", c.JudgeTimeout)
	c.JudgeWeight = getEnvFloat("LLM_JUDGE_WEIGHT", c.JudgeWeight)
	c.PassThreshold = getEnvFloat("EVAL_PASS_THRESHOLD", c.PassThreshold)
	c.VarianceThreshold = getEnvFloat("EVAL_VARIANCE_THRESHOLD", c.VarianceThreshold)
	c.LogLevel = getEnv("EVAL_LOG_LEVEL", c.LogLevel)

	c.Report.DstDir = getEnv("EVAL_REPORT_DIR", c.Report.DstDir)
	c.Report.EnableCSV = getEnvBool("EVAL_ENABLE_CSV", c.Report.EnableCSV)

	c.LLM.Provider = getEnv("DEFAULT_LLM_PROVIDER", c.LLM.Provider)
	c.LLM.AWSRegion = getEnv("AWS_REGION", c.LLM.AWSRegion)
	c.LLM.ClaudeModelID = getEnv("CLAUDE_MODEL_ID", c.LLM.ClaudeModelID)
	c.LLM.OpenAIModelID = getEnv("OPEN_AI_MODEL_ID", c.LLM.OpenAIModelID)
	c.LLM.OpenAIKey = getEnv("OPEN_AI_KEY", c.LLM.OpenAIKey)

	c.Metrics.Enabled = getEnvBool("EVAL_METRICS_ENABLED", c.Metrics.Enabled)

	c.Redis.Addr = getEnv("REDIS_ADDR", c.Redis.Addr)
	c.Redis.Password = getEnv("REDIS_PASSWORD", c.Redis.Password)

	c.API.Port = getEnv("EVAL_AGENT_API_PORT", c.API.Port)
}

var validate = validator.New(validator.WithRequiredStructEnabled())

func (c *EvalConfig) Validate() error {
	if err := validate.Struct(c); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			msgs := make([]string, 0, len(fieldErrs))
			for _, fe := range fieldErrs {
				msgs = append(msgs, fmt.Sprintf("%s: failed %q (%s)", fe.Namespace(), fe.Tag(), fe.Param()))
			}
			return fmt.Errorf("invalid eval config: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("invalid eval config: %w", err)
	}

	if c.LLM.Provider == "openai" && c.LLM.OpenAIKey == "" && c.NeedsLLM() {
		return fmt.Errorf("invalid eval config: OPEN_AI_KEY is required for the openai provider")
	}
	return nil
}

// NeedsLLM reports whether any configured component calls a model.
func (c *EvalConfig) NeedsLLM() bool {
	return c.Judge != "" || c.Feature == "llm"
}
