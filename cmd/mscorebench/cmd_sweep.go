package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"mscorebench/internal/dataset"
	"mscorebench/internal/format"
	"mscorebench/internal/pipeline"
	"mscorebench/internal/results"
)

var sweepFlags struct {
	experimentFlags
	parallel  int
	keepGoing bool
}

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Run the pipeline once per agent and compare the results",
	Long: "Runs a full pipeline for each agent in --agents (or the whole\n" +
		"roster) so per-agent accuracy can be compared in isolation.",
	RunE: runSweep,
}

func init() {
	addExperimentFlags(sweepCmd, &sweepFlags.experimentFlags)
	f := sweepCmd.Flags()
	f.IntVar(&sweepFlags.parallel, "parallel", 1, "Concurrent pipelines (1 = serial)")
	f.BoolVar(&sweepFlags.keepGoing, "keep-going", false, "Continue a member pipeline past failed steps")
}

func sweepAgents(flagValue string) []string {
	if flagValue == "" || flagValue == "all" {
		return dataset.AgentRoster
	}
	var agents []string
	for _, a := range strings.Split(flagValue, ",") {
		if a = strings.TrimSpace(a); a != "" {
			agents = append(agents, a)
		}
	}
	return agents
}

func runSweep(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	sweepFlags.apply(cfg)
	agents := sweepAgents(sweepFlags.agents)

	r, ws, cleanup, err := newRunner(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, cancel := signalContext(cmd)
	defer cancel()

	baseID := ws.NewRunID(time.Now())
	result, err := r.RunSweep(ctx, baseID, agents, sweepFlags.parallel, pipeline.Options{
		KeepGoing: sweepFlags.keepGoing,
	})
	if result != nil {
		tb := format.NewTable(format.ASCII)
		tb.Header("AGENT", "RUN", "STATUS", "ACCURACY", "SAMPLES")
		for _, agent := range result.Agents() {
			st := result.State(agent)
			status := "unknown"
			runID := baseID + "-" + agent
			if st != nil {
				status = st.Status
				runID = st.RunID
			}
			accuracy, samples := "—", ""
			if a, err := results.LoadAnalysis(ws.AnalysisPath(runID)); err == nil {
				accuracy = format.FmtPercent(a.Overall.Accuracy)
				samples = format.FmtCount(a.Overall.Samples)
			}
			tb.Row(agent, runID, status, accuracy, samples)
		}
		fmt.Fprintln(cmd.OutOrStdout(), tb.String())
	}
	return err
}
