package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestLoad_YAML(t *testing.T) {
	data := []byte(`
workspace: /tmp/bench
dataset: data/custom.json
agents: temporal
samples: 50
max_time: 3
step_timeout: 90s
retries: 2
keep_going: true
`)
	cfg, err := Load(data, ".yaml")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Workspace != "/tmp/bench" || cfg.Dataset != "data/custom.json" {
		t.Errorf("paths: got %+v", cfg)
	}
	if cfg.Agents != "temporal" || cfg.Samples != 50 || cfg.MaxTime != 3 {
		t.Errorf("experiment params: got %+v", cfg)
	}
	if cfg.StepTimeout.Std() != 90*time.Second {
		t.Errorf("step_timeout: got %v", cfg.StepTimeout)
	}
	if cfg.Retries != 2 || !cfg.KeepGoing {
		t.Errorf("retries/keep_going: got %+v", cfg)
	}
	// Unset fields fall back to defaults.
	if cfg.Python != "python3" || cfg.ScriptsDir != "maas/scripts" {
		t.Errorf("defaults not applied: got %+v", cfg)
	}
}

func TestLoad_JSON(t *testing.T) {
	data := []byte(`{"workspace":"w","samples":10,"step_timeout":30}`)
	cfg, err := Load(data, ".json")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Workspace != "w" || cfg.Samples != 10 {
		t.Errorf("got %+v", cfg)
	}
	if cfg.StepTimeout.Std() != 30*time.Second {
		t.Errorf("numeric step_timeout should mean seconds, got %v", cfg.StepTimeout)
	}
}

func TestLoad_DetectJSON(t *testing.T) {
	cfg, err := Load([]byte(`{"agents":"cot"}`), "")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Agents != "cot" {
		t.Errorf("got %+v", cfg)
	}
}

func TestLoad_DetectYAML(t *testing.T) {
	cfg, err := Load([]byte("agents: debate\n"), "")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Agents != "debate" {
		t.Errorf("got %+v", cfg)
	}
}

func TestLoadFromPath_MissingDefaultIsDefaults(t *testing.T) {
	dir := t.TempDir()
	wd, _ := os.Getwd()
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	defer os.Chdir(wd)

	cfg, err := LoadFromPath(DefaultPath)
	if err != nil {
		t.Fatalf("LoadFromPath: %v", err)
	}
	want := Default()
	if diff := cmp.Diff(&want, cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadFromPath_MissingExplicitIsError(t *testing.T) {
	if _, err := LoadFromPath(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing explicit config path")
	}
}

func TestValidate_Rejections(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty workspace", func(c *Config) { c.Workspace = "" }},
		{"empty scripts dir", func(c *Config) { c.ScriptsDir = "" }},
		{"empty python", func(c *Config) { c.Python = "" }},
		{"negative samples", func(c *Config) { c.Samples = -1 }},
		{"negative max_time", func(c *Config) { c.MaxTime = -1 }},
		{"negative retries", func(c *Config) { c.Retries = -1 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}
