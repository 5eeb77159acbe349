// Package provision drives the per-tool provisioning pipeline and the
// batch run across all discovered tools.
package provision

import (
	"context"

	"github.com/yurisbeljimenez/aitools/pipeline"
	"github.com/yurisbeljimenez/aitools/publish"
	"github.com/yurisbeljimenez/aitools/venv"
	"github.com/yurisbeljimenez/aitools/wrapper"
)

// EnvStage ensures the tool's isolated environment exists and is healthy.
type EnvStage struct {
	Manager *venv.Manager
}

func (s *EnvStage) Name() string { return "ensure-env" }

func (s *EnvStage) Execute(ctx context.Context, tc *pipeline.ToolContext) error {
	env, err := s.Manager.Ensure(ctx, tc.Tool, tc.Opts.Recreate)
	if err != nil {
		return err
	}
	tc.Env = env
	return nil
}

// SyncStage installs the tool's declared dependencies into its environment.
type SyncStage struct {
	Manager *venv.Manager
}

func (s *SyncStage) Name() string { return "sync-deps" }

func (s *SyncStage) Execute(ctx context.Context, tc *pipeline.ToolContext) error {
	if tc.Opts.SkipSync {
		tc.Logger.Debug("dependency sync skipped by policy", map[string]any{"tool": tc.Tool.Name})
		tc.AddWarning("dependency sync skipped; environment may be stale")
		return nil
	}
	return s.Manager.Sync(ctx, tc.Env, tc.Tool.Manifest)
}

// WrapperStage generates the indirection shim for the tool.
type WrapperStage struct{}

func (s *WrapperStage) Name() string { return "generate-wrapper" }

func (s *WrapperStage) Execute(ctx context.Context, tc *pipeline.ToolContext) error {
	a, err := wrapper.Generate(tc.Tool.Name, tc.Tool.Entrypoint, tc.Env.Python)
	if err != nil {
		return err
	}
	tc.Wrapper = a
	return nil
}

// PublishStage atomically installs the shim into the shared bin directory.
type PublishStage struct {
	Publisher *publish.Publisher
}

func (s *PublishStage) Name() string { return "publish" }

func (s *PublishStage) Execute(ctx context.Context, tc *pipeline.ToolContext) error {
	target, err := s.Publisher.Install(tc.Wrapper)
	if err != nil {
		return err
	}
	tc.Published = target
	tc.Logger.Info("published", map[string]any{"tool": tc.Tool.Name, "path": target})
	return nil
}
