package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"mscorebench/internal/config"
	"mscorebench/internal/format"
	"mscorebench/internal/logging"
	"mscorebench/internal/pipeline"
	"mscorebench/internal/pyenv"
	"mscorebench/internal/store"
	"mscorebench/internal/workspace"
)

// experimentFlags are the knobs forwarded to run_experiment.py. Zero values
// fall through to the config file.
type experimentFlags struct {
	agents  string
	samples int
	maxTime int
}

func addExperimentFlags(cmd *cobra.Command, ef *experimentFlags) {
	f := cmd.Flags()
	f.StringVar(&ef.agents, "agents", "", "Comma-separated agent list (default: config)")
	f.IntVar(&ef.samples, "samples", 0, "Sample count for the experiment (default: config)")
	f.IntVar(&ef.maxTime, "max-time", 0, "Max time forwarded to the experiment (default: config)")
}

func (ef *experimentFlags) apply(cfg *config.Config) {
	if ef.agents != "" {
		cfg.Agents = ef.agents
	}
	if ef.samples > 0 {
		cfg.Samples = ef.samples
	}
	if ef.maxTime > 0 {
		cfg.MaxTime = ef.maxTime
	}
}

// loadConfig reads the config file named by --config, or the default path
// when the flag is unset (a missing default file yields built-in defaults).
func loadConfig() (*config.Config, error) {
	path := rootFlags.config
	if path == "" {
		path = config.DefaultPath
	}
	return config.LoadFromPath(path)
}

// newRunner wires a pipeline runner for the given config: workspace layout,
// run-history store, and the venv-resolved interpreter. The returned cleanup
// closes the store.
func newRunner(cfg *config.Config) (*pipeline.Runner, *workspace.Workspace, func(), error) {
	ws := workspace.New(cfg.Workspace)
	if err := ws.EnsureLayout(); err != nil {
		return nil, nil, nil, err
	}
	st, err := store.Open(ws.DBPath())
	if err != nil {
		return nil, nil, nil, fmt.Errorf("open run history: %w", err)
	}
	r := &pipeline.Runner{
		Cfg:         cfg,
		WS:          ws,
		Store:       st,
		Interpreter: pyenv.New(cfg).Interpreter(),
		Log:         logging.New("pipeline"),
	}
	cleanup := func() {
		if err := st.Close(); err != nil {
			logging.New("store").Warn("close run history", "error", err)
		}
	}
	return r, ws, cleanup, nil
}

// signalContext returns a context canceled on SIGINT or SIGTERM so child
// scripts get the TERM-then-KILL shutdown.
func signalContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
}

// resolveRunID returns the explicit ID when given, otherwise the newest run
// in the workspace.
func resolveRunID(ws *workspace.Workspace, explicit string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}
	ids, err := ws.ListRunIDs()
	if err != nil {
		return "", err
	}
	if len(ids) == 0 {
		return "", fmt.Errorf("no runs in workspace %s; run 'mscorebench pipeline' first", ws.Root)
	}
	return ids[len(ids)-1], nil
}

// newOrExplicitRunID mints a timestamp run ID unless one was given.
func newOrExplicitRunID(ws *workspace.Workspace, explicit string) string {
	if explicit != "" {
		return explicit
	}
	return ws.NewRunID(time.Now())
}

func printRunState(cmd *cobra.Command, state *pipeline.RunState) {
	tb := format.NewTable(format.ASCII)
	tb.Header("STEP", "STATUS", "EXIT", "ATTEMPTS", "LOG")
	for _, ss := range state.Steps {
		tb.Row(ss.Name, ss.Status, ss.ExitCode, ss.Attempts, ss.LogPath)
	}
	fmt.Fprintln(cmd.OutOrStdout(), tb.String())
}
