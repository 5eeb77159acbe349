package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/yurisbeljimenez/aitools/runtime"
)

func TestList_ShowsToolState(t *testing.T) {
	// copycat's environment exists but fails the liveness probe; hugin has
	// no environment at all.
	rules := []runtime.ScriptedCall{
		{Match: "copycat/.venv/bin/python", Result: &runtime.ExecResult{ExitCode: 1}},
	}
	toolsDir, binDir := setupRun(t, rules...)
	writeTool(t, toolsDir, "aicap")
	writeTool(t, toolsDir, "copycat")
	writeTool(t, toolsDir, "hugin")

	for _, name := range []string{"aicap", "copycat"} {
		envBin := filepath.Join(toolsDir, name, ".venv", "bin")
		if err := os.MkdirAll(envBin, 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(filepath.Join(envBin, "python"), []byte("#!/bin/sh\n"), 0o755); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(binDir, "aicap"), []byte("#!/bin/sh\n"), 0o755); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	listCmd.SetOut(&buf)
	defer listCmd.SetOut(nil)
	if err := runList(listCmd, nil); err != nil {
		t.Fatalf("runList: %v", err)
	}
	out := buf.String()

	for _, want := range []string{"aicap", "copycat", "hugin", "env ready", "env broken", "no env", "installed", "not installed"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestList_EmptyRoot(t *testing.T) {
	setupRun(t)

	var buf bytes.Buffer
	listCmd.SetOut(&buf)
	defer listCmd.SetOut(nil)
	if err := runList(listCmd, nil); err != nil {
		t.Fatalf("runList: %v", err)
	}
	if !strings.Contains(buf.String(), "no tools found") {
		t.Errorf("expected empty-root notice, got:\n%s", buf.String())
	}
}
