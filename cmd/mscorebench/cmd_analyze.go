package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"mscorebench/internal/format"
	"mscorebench/internal/pipeline"
	"mscorebench/internal/results"
	"mscorebench/internal/workspace"
)

var analyzeFlags struct {
	runID string
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze an experiment's results and print the summary",
	RunE:  runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeFlags.runID, "run-id", "", "Run ID (default: latest run)")
}

func runAnalyze(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := execSteps(cmd, cfg, analyzeFlags.runID, false, []string{pipeline.StepAnalyze}); err != nil {
		return err
	}

	ws := workspace.New(cfg.Workspace)
	runID, err := resolveRunID(ws, analyzeFlags.runID)
	if err != nil {
		return err
	}
	a, err := results.LoadAnalysis(ws.AnalysisPath(runID))
	if err != nil {
		return fmt.Errorf("read analysis: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), results.AnalysisTables(a, format.ASCII))
	return nil
}
