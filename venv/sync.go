package venv

import (
	"context"
	"errors"

	"github.com/yurisbeljimenez/aitools/runtime"
)

// Sync installs the manifest's declared dependencies into the environment.
//
// The installer itself is upgraded first: an outdated pip can mis-resolve
// newer declared packages. That upgrade failing is only logged — the
// manifest install still gets its chance. A failed manifest install is
// fatal for the tool and leaves the environment on disk so the operator
// can inspect it.
func (m *Manager) Sync(ctx context.Context, env *Env, manifestPath string) error {
	res, err := m.Runner.Run(ctx, runtime.Command{
		Path:    env.Python,
		Args:    []string{"-m", "pip", "install", "--upgrade", "pip"},
		Timeout: m.Timeouts.Sync,
	})
	if err != nil || res.ExitCode != 0 {
		detail := ""
		if err != nil {
			detail = err.Error()
		} else {
			detail = tail(res.Stderr, 3)
		}
		m.Logger.Warn("pip self-upgrade failed, continuing with current version", map[string]any{
			"tool":   env.Tool,
			"detail": detail,
		})
	}

	m.Logger.Info("installing dependencies", map[string]any{"tool": env.Tool, "manifest": manifestPath})

	res, err = m.Runner.Run(ctx, runtime.Command{
		Path:    env.Python,
		Args:    []string{"-m", "pip", "install", "-r", manifestPath},
		Timeout: m.Timeouts.Sync,
	})
	if err != nil {
		if errors.Is(err, runtime.ErrTimeout) {
			return &EnvError{Tool: env.Tool, Reason: ReasonTimeout, Detail: err.Error()}
		}
		return &EnvError{Tool: env.Tool, Reason: ReasonSyncFailed, Detail: err.Error()}
	}
	if res.ExitCode != 0 {
		return &EnvError{Tool: env.Tool, Reason: ReasonSyncFailed, Detail: tail(res.Stderr, 10)}
	}

	return nil
}
