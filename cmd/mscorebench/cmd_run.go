package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"mscorebench/internal/config"
	"mscorebench/internal/pipeline"
)

var runFlags struct {
	experimentFlags
	runID string
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Execute the experiment script only (no analysis or reporting)",
	RunE:  runRun,
}

func init() {
	addExperimentFlags(runCmd, &runFlags.experimentFlags)
	runCmd.Flags().StringVar(&runFlags.runID, "run-id", "", "Run ID (default: new timestamp ID)")
}

func runRun(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	runFlags.apply(cfg)
	return execSteps(cmd, cfg, runFlags.runID, true, []string{pipeline.StepRun})
}

// execSteps runs the named pipeline steps for one run ID. mint controls
// whether a missing --run-id creates a new run or targets the latest one.
func execSteps(cmd *cobra.Command, cfg *config.Config, explicitID string, mint bool, names []string) error {
	r, ws, cleanup, err := newRunner(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	var runID string
	if mint {
		runID = newOrExplicitRunID(ws, explicitID)
	} else {
		runID, err = resolveRunID(ws, explicitID)
		if err != nil {
			return err
		}
		// Explicitly requested steps run again even if a previous pass
		// finished them.
		if st, err := pipeline.LoadState(ws.StatePath(runID)); err == nil {
			reset := false
			for _, n := range names {
				if ss := st.Step(n); ss != nil && ss.Status == pipeline.StatusDone {
					ss.Status = pipeline.StatusPending
					reset = true
				}
			}
			if reset {
				if err := pipeline.SaveState(ws.StatePath(runID), st); err != nil {
					return err
				}
			}
		}
	}

	ctx, cancel := signalContext(cmd)
	defer cancel()

	rc := pipeline.RunContext{RunID: runID, Cfg: cfg, WS: ws}
	state, err := r.RunSteps(ctx, rc, names, pipeline.Options{Resume: true})
	if state != nil {
		printRunState(cmd, state)
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Run %s: %s\n", runID, state.Status)
	return nil
}
