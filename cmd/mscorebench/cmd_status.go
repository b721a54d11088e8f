package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"mscorebench/internal/pipeline"
	"mscorebench/internal/workspace"
)

var statusRunID string

var statusCmd = &cobra.Command{
	Use:   "status [run-id]",
	Short: "Show per-step state for a run",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runStatus,
}

func init() {
	statusCmd.Flags().StringVar(&statusRunID, "run", "", "Run ID (default: latest run)")
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	ws := workspace.New(cfg.Workspace)

	explicit := statusRunID
	if len(args) == 1 {
		explicit = args[0]
	}
	runID, err := resolveRunID(ws, explicit)
	if err != nil {
		return err
	}

	state, err := pipeline.LoadState(ws.StatePath(runID))
	if err != nil {
		if errors.Is(err, pipeline.ErrNoState) {
			return fmt.Errorf("run %s has no recorded state", runID)
		}
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Run:     %s\n", state.RunID)
	fmt.Fprintf(out, "Agents:  %s\n", state.Agents)
	fmt.Fprintf(out, "Status:  %s\n", state.Status)
	fmt.Fprintf(out, "Started: %s\n\n", state.Started)
	printRunState(cmd, state)
	if next := state.FirstUnfinished(); next != "" && state.Status != pipeline.StatusDone {
		fmt.Fprintf(out, "Next step: %s (resume with 'mscorebench pipeline --resume --run-id %s')\n", next, state.RunID)
	}
	return nil
}
