package setup

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/povarna/generative-ai-agents/eval-suite/internal/aggregator"
	"github.com/povarna/generative-ai-agents/eval-suite/internal/batch"
	"github.com/povarna/generative-ai-agents/eval-suite/internal/config"
	"github.com/povarna/generative-ai-agents/eval-suite/internal/evaluator"
	"github.com/povarna/generative-ai-agents/eval-suite/internal/executor"
	"github.com/povarna/generative-ai-agents/eval-suite/internal/feature"
	"github.com/povarna/generative-ai-agents/eval-suite/internal/judge"
	"github.com/povarna/generative-ai-agents/eval-suite/internal/llm"
	"github.com/povarna/generative-ai-agents/eval-suite/internal/llm/bedrock"
	"github.com/povarna/generative-ai-agents/eval-suite/internal/llm/gpt"
	"github.com/povarna/generative-ai-agents/eval-suite/internal/metrics"
	"github.com/povarna/generative-ai-agents/eval-suite/internal/models"
	"github.com/povarna/generative-ai-agents/eval-suite/internal/multirun"
	"github.com/povarna/generative-ai-agents/eval-suite/internal/orchestrator"
	"github.com/povarna/generative-ai-agents/eval-suite/internal/plugin"
	"github.com/povarna/generative-ai-agents/eval-suite/internal/registry"
	"github.com/povarna/generative-ai-agents/eval-suite/internal/report"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
)

// Options adjust wiring for a particular binary.
type Options struct {
	// Reporters are added after the ones enabled in config.
	Reporters []report.Reporter
	// SummaryOut receives the summary table, os.Stdout when nil.
	SummaryOut io.Writer
	Verbose    bool
	Colors     bool
	// LLMClient replaces the client built from the provider settings.
	LLMClient llm.LLMClient
	// Cases are registered after the suite's own cases.
	Cases []models.TestCase
}

type Dependencies struct {
	Config       *config.EvalConfig
	Suite        *registry.Suite
	Registry     *registry.Registry
	Catalog      *plugin.Catalog
	Orchestrator *orchestrator.Orchestrator
	Reporter     *report.Multi
	// Metrics is nil when metrics are disabled.
	Metrics *prometheus.Registry
	Logger  *zerolog.Logger

	closers []io.Closer
}

// Close releases the files opened by reporters.
func (d *Dependencies) Close() error {
	var errs []error
	for _, c := range d.closers {
		errs = append(errs, c.Close())
	}
	return errors.Join(errs...)
}

func Wire(ctx context.Context, cfg *config.EvalConfig, opts Options, logger *zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Config: cfg, Logger: logger}

	suite, err := registry.LoadSuite(cfg.Suite)
	if err != nil {
		return nil, fmt.Errorf("failed to load suite: %w", err)
	}
	reg, err := suite.Registry()
	if err != nil {
		return nil, err
	}
	if err := reg.RegisterAll(opts.Cases); err != nil {
		return nil, fmt.Errorf("failed to register extra cases: %w", err)
	}
	deps.Suite, deps.Registry = suite, reg

	catalog, err := plugin.BuiltinCatalog()
	if err != nil {
		return nil, err
	}
	deps.Catalog = catalog

	llmClient := opts.LLMClient
	if llmClient == nil && cfg.NeedsLLM() {
		llmClient, err = createLLMClient(ctx, cfg.LLM)
		if err != nil {
			return nil, fmt.Errorf("failed to create %s client: %w", cfg.LLM.Provider, err)
		}
	}

	if cfg.Feature == "llm" {
		llmFeature, err := feature.NewLLMFeature(cfg.FeatureLLM, llmClient, logger)
		if err != nil {
			return nil, err
		}
		if err := catalog.Features.Register("llm", llmFeature); err != nil {
			return nil, err
		}
	}

	// Stage 1 - static checks
	static, err := catalog.StaticEvaluators(cfg.StaticChecks)
	if err != nil {
		return nil, err
	}

	// Stage 2 - LLM judge
	var judgeEvaluator evaluator.Evaluator
	if cfg.Judge != "" {
		judgesConfig, err := config.LoadJudgesConfigFrom(cfg.JudgesConfig)
		if err != nil {
			return nil, fmt.Errorf("failed to load judges config: %w", err)
		}
		judges, err := judge.BuildEnabled(judgesConfig, llmClient, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to build judges from config: %w", err)
		}
		for _, j := range judges {
			if err := catalog.RegisterJudges(j); err != nil {
				return nil, err
			}
		}
		j, err := catalog.Judges.Get(cfg.Judge)
		if err != nil {
			return nil, err
		}
		judgeEvaluator = evaluator.NewJudgeEvaluator(j, cfg.JudgeTimeout, cfg.JudgeWeight, cfg.PassThreshold)
	}

	featureUnderTest, err := catalog.Features.Get(cfg.Feature)
	if err != nil {
		return nil, err
	}

	recorder := metrics.Recorder(metrics.NoopRecorder{})
	if cfg.Metrics.Enabled {
		deps.Metrics = prometheus.NewRegistry()
		recorder = metrics.NewPrometheusRecorder(deps.Metrics)
	}

	evaluators := evaluator.NewSet(static, judgeEvaluator, logger)
	agg := aggregator.NewAggregator(aggregator.Policy{
		JudgeWeight:   cfg.JudgeWeight,
		PassThreshold: cfg.PassThreshold,
	}, logger)
	runner := executor.NewCaseRunner(featureUnderTest, evaluators, agg, cfg.CaseTimeout, logger)

	reporters, err := deps.buildReporters(cfg.Report, opts)
	if err != nil {
		deps.Close()
		return nil, err
	}
	deps.Reporter = report.NewMulti(logger, reporters...)

	suiteRunner := multirun.NewAggregator(
		batch.NewProcessor(runner, recorder, logger),
		cfg.VarianceThreshold,
		logger,
		multirun.WithSuiteName(suite.Name),
		multirun.WithRecorder(recorder),
		multirun.WithRunObserver(func(ctx context.Context, run models.RunResult) {
			// failures are logged by the reporter
			_ = deps.Reporter.PublishRun(ctx, run)
		}),
	)

	deps.Orchestrator = orchestrator.New(
		reg,
		suiteRunner,
		executor.NewCaseExecutor(reg, runner, logger),
		deps.Reporter,
		orchestrator.Defaults{
			Tags:             cfg.Tags,
			RunsCount:        cfg.RunsCount,
			ConcurrencyLimit: cfg.ConcurrencyLimit,
		},
		logger,
	)

	logger.Info().
		Str("suite", suite.Name).
		Int("cases", reg.Len()).
		Str("feature", cfg.Feature).
		Strs("static_checks", cfg.StaticChecks).
		Str("judge", cfg.Judge).
		Int("reporters", deps.Reporter.Len()).
		Msg("dependencies wired")

	return deps, nil
}

func (d *Dependencies) buildReporters(cfg config.ReportConfig, opts Options) ([]report.Reporter, error) {
	var reporters []report.Reporter

	if cfg.EnableCSV {
		reporters = append(reporters, report.NewCSVReporter(cfg.DstDir, cfg.Name))
	}
	if cfg.EnableJSONL {
		if err := os.MkdirAll(cfg.DstDir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create report dir: %w", err)
		}
		file, err := os.Create(filepath.Join(cfg.DstDir, cfg.Name+".jsonl"))
		if err != nil {
			return nil, fmt.Errorf("failed to create JSONL report: %w", err)
		}
		d.closers = append(d.closers, file)
		reporters = append(reporters, report.NewJSONLReporter(file))
	}
	if cfg.EnableSummary {
		out := opts.SummaryOut
		if out == nil {
			out = os.Stdout
		}
		reporters = append(reporters, report.NewSummaryReporter(out, opts.Verbose, opts.Colors))
	}

	return append(reporters, opts.Reporters...), nil
}

func createLLMClient(ctx context.Context, cfg config.LLMConfig) (llm.LLMClient, error) {
	switch cfg.Provider {
	case "openai":
		return gpt.NewClient(cfg.OpenAIKey, cfg.OpenAIModelID)
	default:
		return bedrock.NewClient(ctx, cfg.AWSRegion, cfg.ClaudeModelID)
	}
}
