package workspace

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestEnsureLayout_Idempotent(t *testing.T) {
	w := New(filepath.Join(t.TempDir(), "bench"))
	if err := w.EnsureLayout(); err != nil {
		t.Fatalf("EnsureLayout: %v", err)
	}
	if err := w.EnsureLayout(); err != nil {
		t.Fatalf("second EnsureLayout: %v", err)
	}
	for _, d := range []string{w.RunsRoot(), w.LogsRoot(), w.VizRoot(), w.ReportsRoot()} {
		info, err := os.Stat(d)
		if err != nil || !info.IsDir() {
			t.Errorf("missing dir %s: %v", d, err)
		}
	}
}

func TestNewRunID_CollisionSuffix(t *testing.T) {
	w := New(t.TempDir())
	if err := w.EnsureLayout(); err != nil {
		t.Fatal(err)
	}
	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)

	id1 := w.NewRunID(now)
	if id1 != "20260829-120000" {
		t.Errorf("first id: got %q", id1)
	}
	if _, err := w.EnsureRunDir(id1); err != nil {
		t.Fatal(err)
	}

	id2 := w.NewRunID(now)
	if id2 != "20260829-120000-2" {
		t.Errorf("collision id: got %q", id2)
	}
}

func TestRunPaths(t *testing.T) {
	w := New("/ws")
	if got := w.ResultsPath("r1"); got != filepath.Join("/ws", "runs", "r1", "results.json") {
		t.Errorf("ResultsPath: %q", got)
	}
	if got := w.StepLogPath("r1", "analyze"); got != filepath.Join("/ws", "logs", "r1-analyze.log") {
		t.Errorf("StepLogPath: %q", got)
	}
	if got := w.RunVizDir("r1"); got != filepath.Join("/ws", "visualizations", "r1") {
		t.Errorf("RunVizDir: %q", got)
	}
	if got := w.ReportPath("r1"); got != filepath.Join("/ws", "reports", "r1.pdf") {
		t.Errorf("ReportPath: %q", got)
	}
}

func TestClean_LeavesForeignFiles(t *testing.T) {
	w := New(t.TempDir())
	if err := w.EnsureLayout(); err != nil {
		t.Fatal(err)
	}
	dataset := filepath.Join(w.Root, "mscore.json")
	if err := os.WriteFile(dataset, []byte("{}"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(w.DBPath(), []byte("db"), 0644); err != nil {
		t.Fatal(err)
	}

	if err := w.Clean(); err != nil {
		t.Fatalf("Clean: %v", err)
	}
	if _, err := os.Stat(dataset); err != nil {
		t.Errorf("dataset removed by Clean: %v", err)
	}
	if _, err := os.Stat(w.RunsRoot()); !os.IsNotExist(err) {
		t.Errorf("runs dir survived Clean")
	}
	if _, err := os.Stat(w.DBPath()); !os.IsNotExist(err) {
		t.Errorf("db survived Clean")
	}
}

func TestListRunIDs(t *testing.T) {
	w := New(t.TempDir())
	if err := w.EnsureLayout(); err != nil {
		t.Fatal(err)
	}
	ids, err := w.ListRunIDs()
	if err != nil || ids != nil {
		t.Fatalf("empty workspace: ids=%v err=%v", ids, err)
	}
	for _, id := range []string{"20260829-120000", "20260829-130000"} {
		if _, err := w.EnsureRunDir(id); err != nil {
			t.Fatal(err)
		}
	}
	ids, err = w.ListRunIDs()
	if err != nil {
		t.Fatalf("ListRunIDs: %v", err)
	}
	if len(ids) != 2 || ids[0] != "20260829-120000" {
		t.Errorf("got %v", ids)
	}
}
