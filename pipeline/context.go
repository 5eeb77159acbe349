package pipeline

import (
	"github.com/yurisbeljimenez/aitools/runtime"
	"github.com/yurisbeljimenez/aitools/tools"
	"github.com/yurisbeljimenez/aitools/venv"
	"github.com/yurisbeljimenez/aitools/wrapper"
)

// Options carries the per-run policy shared by every tool pipeline. The
// publish destination is not part of it: the Publisher carries its own
// bin directory.
type Options struct {
	// SkipSync skips dependency synchronization on healthy environments.
	// The default is to always resync: manifests change between runs, and
	// a stale environment is worse than a slower install.
	SkipSync bool
	// Recreate forces environment rebuilds even when healthy.
	Recreate bool
}

// ToolContext carries one tool's state through its pipeline. Stages fill in
// the fields their successors need.
type ToolContext struct {
	Tool tools.Descriptor
	Opts Options

	// Env is set by the environment stage.
	Env *venv.Env
	// Wrapper is set by the wrapper stage.
	Wrapper *wrapper.Artifact
	// Published is the installed shim path, set by the publish stage.
	Published string

	Logger   runtime.Logger
	Warnings []string
}

// NewToolContext creates a ToolContext for one tool.
func NewToolContext(d tools.Descriptor, opts Options, logger runtime.Logger) *ToolContext {
	return &ToolContext{Tool: d, Opts: opts, Logger: logger}
}

// AddWarning appends a non-fatal warning message.
func (tc *ToolContext) AddWarning(msg string) {
	tc.Warnings = append(tc.Warnings, msg)
}
