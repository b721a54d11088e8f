package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"mscorebench/internal/pyenv"
	"mscorebench/internal/workspace"
)

var setupFlags struct {
	skipVenv bool
	clean    bool
}

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Create the workspace layout and provision the Python environment",
	RunE:  runSetup,
}

func init() {
	f := setupCmd.Flags()
	f.BoolVar(&setupFlags.skipVenv, "skip-venv", false, "Only create directories; do not touch the virtualenv")
	f.BoolVar(&setupFlags.clean, "clean", false, "Remove previous runs, logs, visualizations, and reports first")
}

func runSetup(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	ws := workspace.New(cfg.Workspace)

	if setupFlags.clean {
		if err := ws.Clean(); err != nil {
			return fmt.Errorf("clean workspace: %w", err)
		}
	}
	if err := ws.EnsureLayout(); err != nil {
		return fmt.Errorf("create workspace: %w", err)
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Workspace ready: %s\n", ws.Root)

	if setupFlags.skipVenv || cfg.Venv == "" {
		fmt.Fprintln(out, "Virtualenv skipped.")
		return nil
	}

	ctx, cancel := signalContext(cmd)
	defer cancel()

	env := pyenv.New(cfg)
	logPath := filepath.Join(ws.LogsRoot(), "setup.log")
	if err := env.Provision(ctx, logPath); err != nil {
		return fmt.Errorf("provision venv (see %s): %w", logPath, err)
	}
	fmt.Fprintf(out, "Virtualenv ready: %s\n", env.Interpreter())
	return nil
}
