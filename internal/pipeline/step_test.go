package pipeline

import (
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"mscorebench/internal/config"
	"mscorebench/internal/workspace"
)

func testRunContext(root string) RunContext {
	cfg := config.Default()
	cfg.Workspace = root
	cfg.Dataset = "data/mscore.json"
	cfg.ScriptsDir = "maas/scripts"
	return RunContext{
		RunID: "20260829-120000",
		Cfg:   &cfg,
		WS:    workspace.New(root),
	}
}

func TestDefinition_OrderAndScripts(t *testing.T) {
	steps := Definition()
	wantOrder := []string{StepRun, StepAnalyze, StepVisualize, StepReport}
	if len(steps) != len(wantOrder) {
		t.Fatalf("want %d steps, got %d", len(wantOrder), len(steps))
	}
	wantScripts := map[string]string{
		StepRun:       "run_experiment.py",
		StepAnalyze:   "analyze_results.py",
		StepVisualize: "generate_visualizations.py",
		StepReport:    "create_report.py",
	}
	for i, s := range steps {
		if s.Name != wantOrder[i] {
			t.Errorf("step %d: got %s, want %s", i, s.Name, wantOrder[i])
		}
		if s.Script != wantScripts[s.Name] {
			t.Errorf("step %s: script %s, want %s", s.Name, s.Script, wantScripts[s.Name])
		}
	}
}

func TestRunStep_Args(t *testing.T) {
	rc := testRunContext("/ws")
	step, err := StepByName(StepRun)
	if err != nil {
		t.Fatal(err)
	}
	got := step.Args(rc)
	want := []string{
		"--dataset", "data/mscore.json",
		"--output", filepath.Join("/ws", "runs", "20260829-120000", "results.json"),
		"--log", filepath.Join("/ws", "logs", "20260829-120000-experiment.log"),
		"--agents", "all",
		"--max_time", "10",
		"--samples", "500",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("run args mismatch (-want +got):\n%s", diff)
	}
}

func TestRunStep_AgentOverride(t *testing.T) {
	rc := testRunContext("/ws")
	rc.Agents = "temporal"
	step, _ := StepByName(StepRun)
	args := step.Args(rc)
	for i, a := range args {
		if a == "--agents" {
			if args[i+1] != "temporal" {
				t.Errorf("agents: got %q", args[i+1])
			}
			return
		}
	}
	t.Error("--agents flag missing")
}

func TestAnalyzeStep_Args(t *testing.T) {
	rc := testRunContext("/ws")
	step, _ := StepByName(StepAnalyze)
	got := step.Args(rc)
	want := []string{
		"--input", filepath.Join("/ws", "runs", "20260829-120000", "results.json"),
		"--output", filepath.Join("/ws", "runs", "20260829-120000", "analysis.json"),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("analyze args mismatch (-want +got):\n%s", diff)
	}
}

func TestVisualizeStep_Args(t *testing.T) {
	rc := testRunContext("/ws")
	step, _ := StepByName(StepVisualize)
	got := step.Args(rc)
	want := []string{
		"--input", filepath.Join("/ws", "runs", "20260829-120000", "analysis.json"),
		"--output_dir", filepath.Join("/ws", "visualizations", "20260829-120000"),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("visualize args mismatch (-want +got):\n%s", diff)
	}
}

func TestReportStep_Args(t *testing.T) {
	rc := testRunContext("/ws")
	step, _ := StepByName(StepReport)
	got := step.Args(rc)
	want := []string{
		"--results", filepath.Join("/ws", "runs", "20260829-120000", "analysis.json"),
		"--template", "templates/report.md",
		"--output", filepath.Join("/ws", "reports", "20260829-120000.pdf"),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("report args mismatch (-want +got):\n%s", diff)
	}
}

func TestStepByName_Unknown(t *testing.T) {
	if _, err := StepByName("deploy"); err == nil {
		t.Error("expected error for unknown step")
	}
}

func TestScriptPath(t *testing.T) {
	cfg := config.Default()
	cfg.ScriptsDir = "/opt/maas"
	step, _ := StepByName(StepRun)
	if got := step.ScriptPath(&cfg); got != filepath.Join("/opt/maas", "run_experiment.py") {
		t.Errorf("got %q", got)
	}
}
