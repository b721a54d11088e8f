package pipeline

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestInitState_AllPending(t *testing.T) {
	st := InitState("r1", "all")
	if st.RunID != "r1" || st.Agents != "all" || st.Status != "running" {
		t.Errorf("got %+v", st)
	}
	if len(st.Steps) != 4 {
		t.Fatalf("steps: %d", len(st.Steps))
	}
	for _, s := range st.Steps {
		if s.Status != StatusPending {
			t.Errorf("step %s: %s", s.Name, s.Status)
		}
	}
}

func TestState_SaveLoadRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	st := InitState("r1", "temporal")
	st.Step(StepRun).Status = StatusDone
	st.Step(StepRun).ExitCode = 0
	st.Step(StepAnalyze).Status = StatusFailed
	st.Step(StepAnalyze).ExitCode = 2

	if err := SaveState(path, st); err != nil {
		t.Fatalf("SaveState: %v", err)
	}
	got, err := LoadState(path)
	if err != nil {
		t.Fatalf("LoadState: %v", err)
	}
	if diff := cmp.Diff(st, got); diff != "" {
		t.Errorf("state mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadState_Missing(t *testing.T) {
	_, err := LoadState(filepath.Join(t.TempDir(), "state.json"))
	if !errors.Is(err, ErrNoState) {
		t.Errorf("want ErrNoState, got %v", err)
	}
}

func TestLoadState_Corrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadState(path); err == nil || errors.Is(err, ErrNoState) {
		t.Errorf("want parse error, got %v", err)
	}
}

func TestFirstUnfinished(t *testing.T) {
	st := InitState("r1", "all")
	if got := st.FirstUnfinished(); got != StepRun {
		t.Errorf("fresh state: %s", got)
	}
	st.Step(StepRun).Status = StatusDone
	st.Step(StepAnalyze).Status = StatusDone
	if got := st.FirstUnfinished(); got != StepVisualize {
		t.Errorf("partial state: %s", got)
	}
	for _, s := range st.Steps {
		s.Status = StatusDone
	}
	if got := st.FirstUnfinished(); got != "" {
		t.Errorf("complete state: %q", got)
	}
}

func TestSaveState_NoPartialFileOnDiskFull(t *testing.T) {
	// The temp-then-rename write must not leave a .tmp behind on success.
	dir := t.TempDir()
	path := filepath.Join(dir, "state.json")
	if err := SaveState(path, InitState("r1", "all")); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Error("temp file left behind")
	}
}
