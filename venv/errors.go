package venv

import "fmt"

// Reason classifies why an environment operation failed.
type Reason string

const (
	// ReasonCreateFailed means the environment could not be created, or a
	// freshly rebuilt environment still failed its liveness probe.
	ReasonCreateFailed Reason = "creation-failed"
	// ReasonTimeout means an external command exceeded its bound.
	ReasonTimeout Reason = "timeout"
	// ReasonSyncFailed means the dependency manifest could not be installed.
	// The environment is left on disk for inspection.
	ReasonSyncFailed Reason = "dependency-install-failed"
)

// EnvError is a per-tool environment failure. It aborts that tool's
// pipeline only; the batch continues.
type EnvError struct {
	Tool   string
	Reason Reason
	Detail string
}

func (e *EnvError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("environment for %s: %s", e.Tool, e.Reason)
	}
	return fmt.Sprintf("environment for %s: %s: %s", e.Tool, e.Reason, e.Detail)
}
