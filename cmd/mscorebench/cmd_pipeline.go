package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"mscorebench/internal/pipeline"
	"mscorebench/internal/pyenv"
)

var pipelineFlags struct {
	experimentFlags
	runID     string
	resume    bool
	keepGoing bool
}

var pipelineCmd = &cobra.Command{
	Use:   "pipeline",
	Short: "Run the full pipeline: experiment, analysis, visualizations, report",
	RunE:  runPipelineCmd,
}

func init() {
	addExperimentFlags(pipelineCmd, &pipelineFlags.experimentFlags)
	f := pipelineCmd.Flags()
	f.StringVar(&pipelineFlags.runID, "run-id", "", "Run ID (default: new timestamp ID; required with --resume)")
	f.BoolVar(&pipelineFlags.resume, "resume", false, "Skip steps already done for --run-id")
	f.BoolVar(&pipelineFlags.keepGoing, "keep-going", false, "Continue past failed steps")
}

func runPipelineCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	pipelineFlags.apply(cfg)

	if pipelineFlags.resume && pipelineFlags.runID == "" {
		return fmt.Errorf("--resume requires --run-id")
	}

	r, ws, cleanup, err := newRunner(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, cancel := signalContext(cmd)
	defer cancel()

	// Provision the venv on first use so a bare checkout needs no
	// separate setup invocation.
	env := pyenv.New(cfg)
	if cfg.Venv != "" && !env.Exists() {
		logPath := ws.StepLogPath("setup", "venv")
		if err := env.Provision(ctx, logPath); err != nil {
			return fmt.Errorf("provision venv (see %s): %w", logPath, err)
		}
		r.Interpreter = env.Interpreter()
	}

	runID := newOrExplicitRunID(ws, pipelineFlags.runID)
	rc := pipeline.RunContext{RunID: runID, Cfg: cfg, WS: ws}
	state, err := r.RunPipeline(ctx, rc, pipeline.Options{
		Resume:    pipelineFlags.resume,
		KeepGoing: pipelineFlags.keepGoing,
	})
	if state != nil {
		printRunState(cmd, state)
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Pipeline %s: %s\nReport: %s\n", runID, state.Status, ws.ReportPath(runID))
	return nil
}
