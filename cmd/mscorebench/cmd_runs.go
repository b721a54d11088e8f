package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"mscorebench/internal/format"
	"mscorebench/internal/store"
	"mscorebench/internal/workspace"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List recorded runs, newest first",
	RunE:  runRuns,
}

func runRuns(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	ws := workspace.New(cfg.Workspace)

	st, err := store.Open(ws.DBPath())
	if err != nil {
		return fmt.Errorf("open run history: %w", err)
	}
	defer st.Close()

	runs, err := st.ListRuns()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No runs recorded.")
		return nil
	}

	tb := format.NewTable(format.ASCII)
	tb.Header("RUN", "STATUS", "AGENTS", "SAMPLES", "STARTED", "FINISHED")
	for i := len(runs) - 1; i >= 0; i-- {
		r := runs[i]
		tb.Row(r.ID, r.Status, r.Agents, r.Samples, r.StartedAt, r.FinishedAt)
	}
	fmt.Fprintln(cmd.OutOrStdout(), tb.String())
	return nil
}
