package main

import (
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/povarna/generative-ai-agents/eval-suite/internal/setup"
	"github.com/spf13/cobra"
)

var (
	validateCasesFile string

	validateCmd = &cobra.Command{
		Use:   "validate",
		Short: "Load and validate the config and suite without invoking the feature",
		RunE:  validateSuite,
	}
)

func init() {
	validateCmd.Flags().StringVar(&validateCasesFile, "cases", "", "Extra JSONL file of test cases, '-' for stdin")
}

func validateSuite(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}

	extra, err := readCases(cmd.Context(), validateCasesFile, logger)
	if err != nil {
		return err
	}

	reg, err := setup.Validate(cfg, extra, logger)
	if err != nil {
		return err
	}

	t := table.NewWriter()
	t.SetOutputMirror(cmd.OutOrStdout())
	t.SetTitle("Registered Cases")
	t.AppendHeader(table.Row{"Test ID", "Tags", "Specs", "Strict"})
	for tc := range reg.Filter() {
		t.AppendRow(table.Row{tc.ID, strings.Join(tc.Tags, ","), len(tc.Specs), tc.Config.Strict})
	}
	t.Render()
	return nil
}
