package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/povarna/generative-ai-agents/eval-suite/internal/batch"
	"github.com/povarna/generative-ai-agents/eval-suite/internal/models"
	"github.com/povarna/generative-ai-agents/eval-suite/internal/orchestrator"
	"github.com/povarna/generative-ai-agents/eval-suite/internal/setup"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	runTags        []string
	runCaseIDs     []string
	runCount       int
	runConcurrency int
	runCasesFile   string
	runNoColor     bool

	runCmd = &cobra.Command{
		Use:   "run",
		Short: "Run the suite and publish reports",
		RunE:  runSuite,
	}
)

func init() {
	runCmd.Flags().StringSliceVarP(&runTags, "tags", "t", nil, "Only run cases carrying one of these tags")
	runCmd.Flags().StringSliceVar(&runCaseIDs, "case", nil, "Only run these case ids")
	runCmd.Flags().IntVarP(&runCount, "runs", "n", 0, "Number of sequential runs (0 keeps the configured value)")
	runCmd.Flags().IntVar(&runConcurrency, "concurrency", 0, "Maximum cases evaluated at once (0 keeps the configured value)")
	runCmd.Flags().StringVar(&runCasesFile, "cases", "", "Extra JSONL file of test cases, '-' for stdin")
	runCmd.Flags().BoolVar(&runNoColor, "no-color", false, "Disable score colours in the summary table")
}

func runSuite(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}

	extra, err := readCases(ctx, runCasesFile, logger)
	if err != nil {
		return err
	}

	deps, err := setup.Wire(ctx, cfg, setup.Options{
		SummaryOut: cmd.OutOrStdout(),
		Verbose:    verbose,
		Colors:     !runNoColor,
		Cases:      extra,
	}, logger)
	if err != nil {
		return fmt.Errorf("failed to wire dependencies: %w", err)
	}
	defer deps.Close()

	report, err := deps.Orchestrator.RunSuite(ctx, orchestrator.RunRequest{
		Tags:             runTags,
		CaseIDs:          runCaseIDs,
		RunsCount:        runCount,
		ConcurrencyLimit: runConcurrency,
	})
	if err != nil {
		return err
	}

	logger.Info().
		Str("report_id", report.ReportID).
		Int("cases", len(report.Cases)).
		Int("runs", report.RunsCount).
		Float64("suite_pass_rate", report.SuitePassRate).
		Float64("average_score", report.AverageScore).
		Strs("flaky_cases", report.FlakyCases).
		Dur("duration", report.Duration).
		Msg("evaluation complete")

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("evaluation interrupted: %w", err)
	}
	if len(report.StrictFailures) > 0 {
		return fmt.Errorf("%w: %s", errStrictFailures, strings.Join(report.StrictFailures, ", "))
	}
	return nil
}

// readCases loads test cases from a JSONL file. An empty path yields none.
func readCases(ctx context.Context, path string, logger *zerolog.Logger) ([]models.TestCase, error) {
	if path == "" {
		return nil, nil
	}

	src := os.Stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open cases file: %w", err)
		}
		defer f.Close()
		src = f
	}

	cases, err := batch.NewReader(src, logger).Collect(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read cases from %s: %w", path, err)
	}

	logger.Info().Str("file", path).Int("cases", len(cases)).Msg("cases file parsed")
	return cases, nil
}
