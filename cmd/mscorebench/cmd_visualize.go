package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"mscorebench/internal/pipeline"
	"mscorebench/internal/workspace"
)

var visualizeFlags struct {
	runID string
}

var visualizeCmd = &cobra.Command{
	Use:   "visualize",
	Short: "Generate visualizations from a run's results",
	RunE:  runVisualize,
}

func init() {
	visualizeCmd.Flags().StringVar(&visualizeFlags.runID, "run-id", "", "Run ID (default: latest run)")
}

func runVisualize(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := execSteps(cmd, cfg, visualizeFlags.runID, false, []string{pipeline.StepVisualize}); err != nil {
		return err
	}

	ws := workspace.New(cfg.Workspace)
	runID, err := resolveRunID(ws, visualizeFlags.runID)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Visualizations written to %s\n", ws.RunVizDir(runID))
	return nil
}
