package store

import (
	"path/filepath"
	"testing"
)

// both store implementations must satisfy the same behavior.
func storeImpls(t *testing.T) map[string]Store {
	t.Helper()
	sqlStore, err := Open(filepath.Join(t.TempDir(), ".mscorebench", "mscorebench.db"))
	if err != nil {
		t.Fatalf("open sqlite store: %v", err)
	}
	t.Cleanup(func() { _ = sqlStore.Close() })
	return map[string]Store{
		"sqlite": sqlStore,
		"memory": NewMemStore(),
	}
}

func TestStore_RunLifecycle(t *testing.T) {
	for name, st := range storeImpls(t) {
		t.Run(name, func(t *testing.T) {
			run := &Run{
				ID:      "20260829-120000",
				Dataset: "data/mscore.json",
				Agents:  "all",
				Samples: 500,
				MaxTime: 10,
			}
			if err := st.CreateRun(run); err != nil {
				t.Fatalf("CreateRun: %v", err)
			}

			got, err := st.GetRun(run.ID)
			if err != nil {
				t.Fatalf("GetRun: %v", err)
			}
			if got == nil || got.Status != "running" || got.StartedAt == "" {
				t.Errorf("fresh run: %+v", got)
			}
			if got.Samples != 500 || got.Agents != "all" {
				t.Errorf("run params: %+v", got)
			}

			if err := st.FinishRun(run.ID, "done"); err != nil {
				t.Fatalf("FinishRun: %v", err)
			}
			got, _ = st.GetRun(run.ID)
			if got.Status != "done" || got.FinishedAt == "" {
				t.Errorf("finished run: %+v", got)
			}
		})
	}
}

func TestStore_GetRun_Missing(t *testing.T) {
	for name, st := range storeImpls(t) {
		t.Run(name, func(t *testing.T) {
			got, err := st.GetRun("nope")
			if err != nil {
				t.Fatalf("GetRun: %v", err)
			}
			if got != nil {
				t.Errorf("expected nil for missing run, got %+v", got)
			}
		})
	}
}

func TestStore_FinishRun_Missing(t *testing.T) {
	for name, st := range storeImpls(t) {
		t.Run(name, func(t *testing.T) {
			if err := st.FinishRun("nope", "done"); err == nil {
				t.Error("expected error finishing unknown run")
			}
		})
	}
}

func TestStore_RecordStep_Upsert(t *testing.T) {
	for name, st := range storeImpls(t) {
		t.Run(name, func(t *testing.T) {
			if err := st.CreateRun(&Run{ID: "r1"}); err != nil {
				t.Fatal(err)
			}
			step := &Step{
				RunID: "r1", Name: "run", Status: "running",
				Attempts: 1, StartedAt: "2026-08-29T12:00:00Z",
			}
			if err := st.RecordStep(step); err != nil {
				t.Fatalf("RecordStep: %v", err)
			}

			step.Status = "done"
			step.FinishedAt = "2026-08-29T12:05:00Z"
			step.OutputPath = "runs/r1/results.json"
			if err := st.RecordStep(step); err != nil {
				t.Fatalf("RecordStep update: %v", err)
			}

			steps, err := st.ListSteps("r1")
			if err != nil {
				t.Fatalf("ListSteps: %v", err)
			}
			if len(steps) != 1 {
				t.Fatalf("want 1 step after upsert, got %d", len(steps))
			}
			if steps[0].Status != "done" || steps[0].OutputPath != "runs/r1/results.json" {
				t.Errorf("step not updated: %+v", steps[0])
			}
		})
	}
}

func TestStore_ListSteps_Order(t *testing.T) {
	for name, st := range storeImpls(t) {
		t.Run(name, func(t *testing.T) {
			if err := st.CreateRun(&Run{ID: "r2"}); err != nil {
				t.Fatal(err)
			}
			for i, s := range []Step{
				{RunID: "r2", Name: "run", Status: "done", StartedAt: "2026-08-29T12:00:00Z"},
				{RunID: "r2", Name: "analyze", Status: "done", StartedAt: "2026-08-29T12:05:00Z"},
				{RunID: "r2", Name: "visualize", Status: "failed", StartedAt: "2026-08-29T12:06:00Z"},
			} {
				s := s
				if err := st.RecordStep(&s); err != nil {
					t.Fatalf("step %d: %v", i, err)
				}
			}
			steps, err := st.ListSteps("r2")
			if err != nil {
				t.Fatalf("ListSteps: %v", err)
			}
			if len(steps) != 3 {
				t.Fatalf("want 3 steps, got %d", len(steps))
			}
			wantOrder := []string{"run", "analyze", "visualize"}
			for i, w := range wantOrder {
				if steps[i].Name != w {
					t.Errorf("step %d: got %s, want %s", i, steps[i].Name, w)
				}
			}
		})
	}
}

func TestStore_ListRuns_SortedByStart(t *testing.T) {
	for name, st := range storeImpls(t) {
		t.Run(name, func(t *testing.T) {
			for _, r := range []Run{
				{ID: "b", StartedAt: "2026-08-29T13:00:00Z"},
				{ID: "a", StartedAt: "2026-08-29T12:00:00Z"},
			} {
				r := r
				if err := st.CreateRun(&r); err != nil {
					t.Fatal(err)
				}
			}
			runs, err := st.ListRuns()
			if err != nil {
				t.Fatalf("ListRuns: %v", err)
			}
			if len(runs) != 2 || runs[0].ID != "a" || runs[1].ID != "b" {
				t.Errorf("got %v, %v", runs[0].ID, runs[1].ID)
			}
		})
	}
}

func TestOpen_ReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bench.db")
	st, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := st.CreateRun(&Run{ID: "persist"}); err != nil {
		t.Fatal(err)
	}
	if err := st.Close(); err != nil {
		t.Fatal(err)
	}

	st2, err := Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer st2.Close()
	got, err := st2.GetRun("persist")
	if err != nil || got == nil {
		t.Errorf("run lost across reopen: %v, %+v", err, got)
	}
}
