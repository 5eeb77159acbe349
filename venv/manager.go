// Package venv manages per-tool isolated Python environments: creation,
// liveness probing, rebuild of broken environments, and dependency sync.
package venv

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/yurisbeljimenez/aitools/runtime"
	"github.com/yurisbeljimenez/aitools/tools"
)

// Env is a handle to one tool's isolated environment. Python always points
// inside Dir, and Dir is nested inside the tool's own directory, so no two
// tools can ever share an environment.
type Env struct {
	Tool   string
	Dir    string
	Python string
}

// Timeouts bounds the external commands the manager spawns.
type Timeouts struct {
	Create time.Duration
	Probe  time.Duration
	Sync   time.Duration
}

// Manager drives the environment lifecycle for tools.
type Manager struct {
	// BasePython is the interpreter used to create environments.
	BasePython string
	// EnvDirName is the environment directory name inside each tool.
	EnvDirName string
	Timeouts   Timeouts
	Runner     runtime.Runner
	Logger     runtime.Logger
}

// NewManager creates a Manager with the given base interpreter and
// environment directory name.
func NewManager(basePython, envDirName string, timeouts Timeouts, runner runtime.Runner, logger runtime.Logger) *Manager {
	return &Manager{
		BasePython: basePython,
		EnvDirName: envDirName,
		Timeouts:   timeouts,
		Runner:     runner,
		Logger:     logger,
	}
}

// Ensure returns a healthy Env for the tool, creating or rebuilding the
// environment as needed. A pre-existing environment is probed; a broken one
// is deleted and recreated exactly once. Failure of that single rebuild is
// reported as creation failure, not retried. When recreate is set, any
// existing environment is discarded without probing.
func (m *Manager) Ensure(ctx context.Context, d tools.Descriptor, recreate bool) (*Env, error) {
	dir := filepath.Join(d.Dir, m.EnvDirName)
	env := &Env{Tool: d.Name, Dir: dir, Python: filepath.Join(dir, "bin", "python")}

	info, err := os.Stat(dir)
	switch {
	case err == nil && !info.IsDir():
		// A stray file where the environment should live counts as broken.
		recreate = true
	case err == nil && !recreate:
		if m.probe(ctx, env) == nil {
			m.Logger.Debug("environment healthy, reusing", map[string]any{"tool": d.Name, "dir": dir})
			return env, nil
		}
		m.Logger.Warn("environment failed liveness probe, rebuilding", map[string]any{"tool": d.Name, "dir": dir})
		recreate = true
	case err != nil && !os.IsNotExist(err):
		return nil, &EnvError{Tool: d.Name, Reason: ReasonCreateFailed, Detail: fmt.Sprintf("inspecting %s: %v", dir, err)}
	}

	if recreate {
		if err := os.RemoveAll(dir); err != nil {
			return nil, &EnvError{Tool: d.Name, Reason: ReasonCreateFailed, Detail: fmt.Sprintf("removing %s: %v", dir, err)}
		}
	}

	if err := m.create(ctx, d.Name, dir); err != nil {
		return nil, err
	}
	if err := m.probe(ctx, env); err != nil {
		return nil, &EnvError{Tool: d.Name, Reason: ReasonCreateFailed, Detail: fmt.Sprintf("fresh environment failed liveness probe: %v", err)}
	}

	m.Logger.Info("environment ready", map[string]any{"tool": d.Name, "dir": dir})
	return env, nil
}

// EnvDir returns the environment directory a tool would use, whether or not
// it exists yet.
func (m *Manager) EnvDir(d tools.Descriptor) string {
	return filepath.Join(d.Dir, m.EnvDirName)
}

// Healthy reports whether an existing environment answers a liveness probe.
func (m *Manager) Healthy(ctx context.Context, d tools.Descriptor) bool {
	dir := m.EnvDir(d)
	env := &Env{Tool: d.Name, Dir: dir, Python: filepath.Join(dir, "bin", "python")}
	return m.probe(ctx, env) == nil
}

func (m *Manager) create(ctx context.Context, tool, dir string) error {
	m.Logger.Info("creating environment", map[string]any{"tool": tool, "dir": dir})

	res, err := m.Runner.Run(ctx, runtime.Command{
		Path:    m.BasePython,
		Args:    []string{"-m", "venv", dir},
		Timeout: m.Timeouts.Create,
	})
	if err != nil {
		if errors.Is(err, runtime.ErrTimeout) {
			return &EnvError{Tool: tool, Reason: ReasonTimeout, Detail: err.Error()}
		}
		return &EnvError{Tool: tool, Reason: ReasonCreateFailed, Detail: err.Error()}
	}
	if res.ExitCode != 0 {
		return &EnvError{Tool: tool, Reason: ReasonCreateFailed, Detail: tail(res.Stderr, 5)}
	}
	return nil
}

// probe invokes the environment's interpreter with a no-op command. Any
// refusal to run means the environment is broken.
func (m *Manager) probe(ctx context.Context, env *Env) error {
	res, err := m.Runner.Run(ctx, runtime.Command{
		Path:    env.Python,
		Args:    []string{"-c", ""},
		Timeout: m.Timeouts.Probe,
	})
	if err != nil {
		return err
	}
	if res.ExitCode != 0 {
		return fmt.Errorf("interpreter probe exited %d: %s", res.ExitCode, tail(res.Stderr, 3))
	}
	return nil
}

// tail returns the last n non-empty lines of s, for compact error detail.
func tail(s string, n int) string {
	var lines []string
	for _, line := range strings.Split(strings.TrimSpace(s), "\n") {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, "\n")
}
