package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestParse_Defaults(t *testing.T) {
	cfg, err := Parse([]byte(""))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.EnvDir != ".venv" {
		t.Errorf("EnvDir = %q, want %q", cfg.EnvDir, ".venv")
	}
	if cfg.Resync != ResyncAlways {
		t.Errorf("Resync = %q, want %q", cfg.Resync, ResyncAlways)
	}
	if cfg.Timeouts.Sync.Std() != 15*time.Minute {
		t.Errorf("Timeouts.Sync = %v, want 15m", cfg.Timeouts.Sync.Std())
	}
}

func TestParse_Overrides(t *testing.T) {
	cfg, err := Parse([]byte(`
tools_dir: /srv/tools
bin_dir: /usr/local/bin
env_dir: env
resync: never
timeouts:
  sync: 30m
  probe: 5s
`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.ToolsDir != "/srv/tools" {
		t.Errorf("ToolsDir = %q", cfg.ToolsDir)
	}
	if cfg.Resync != ResyncNever {
		t.Errorf("Resync = %q, want never", cfg.Resync)
	}
	if cfg.Timeouts.Sync.Std() != 30*time.Minute {
		t.Errorf("Timeouts.Sync = %v, want 30m", cfg.Timeouts.Sync.Std())
	}
	if cfg.Timeouts.Probe.Std() != 5*time.Second {
		t.Errorf("Timeouts.Probe = %v, want 5s", cfg.Timeouts.Probe.Std())
	}
	// Unset timeout keeps its default.
	if cfg.Timeouts.Create.Std() != 2*time.Minute {
		t.Errorf("Timeouts.Create = %v, want 2m", cfg.Timeouts.Create.Std())
	}
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"bad resync", "resync: sometimes"},
		{"nested env dir", "env_dir: a/b"},
		{"dot env dir", `env_dir: "."`},
		{"bad duration", "timeouts:\n  sync: fast"},
		{"negative duration", "timeouts:\n  probe: -3s"},
		{"not yaml", ": ["},
		{"unknown key", "bin_dirr: /usr/local/bin"},
		{"wrong type", "tools_dir: [a, b]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.yaml)); err == nil {
				t.Errorf("Parse(%q) succeeded, want error", tt.yaml)
			}
		})
	}
}

func TestLoad_MissingFileFallsBackToDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "aitools.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.EnvDir != ".venv" {
		t.Errorf("EnvDir = %q, want default", cfg.EnvDir)
	}
}

func TestLoad_ReadsFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "aitools.yaml")
	if err := os.WriteFile(path, []byte("env_dir: venv\n"), 0644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.EnvDir != "venv" {
		t.Errorf("EnvDir = %q, want %q", cfg.EnvDir, "venv")
	}
}
