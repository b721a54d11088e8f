package pipeline

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestTailFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "step.log")
	content := "line1\nline2\nline3\nline4\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	got := TailFile(path, 2)
	want := []string{"line3", "line4"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("tail mismatch (-want +got):\n%s", diff)
	}
}

func TestTailFile_ShortFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "step.log")
	if err := os.WriteFile(path, []byte("only line"), 0644); err != nil {
		t.Fatal(err)
	}
	got := TailFile(path, 10)
	if len(got) != 1 || got[0] != "only line" {
		t.Errorf("got %v", got)
	}
}

func TestTailFile_Missing(t *testing.T) {
	if got := TailFile(filepath.Join(t.TempDir(), "nope.log"), 5); got != nil {
		t.Errorf("got %v", got)
	}
}
