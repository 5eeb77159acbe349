package provision

import (
	"context"
	"errors"
	"fmt"

	"github.com/yurisbeljimenez/aitools/pipeline"
	"github.com/yurisbeljimenez/aitools/publish"
	"github.com/yurisbeljimenez/aitools/runtime"
	"github.com/yurisbeljimenez/aitools/tools"
	"github.com/yurisbeljimenez/aitools/venv"
)

// ErrNoTools means discovery found nothing to provision. A no-op run is a
// run-level failure: the operator pointed the tool at the wrong directory.
var ErrNoTools = errors.New("no tools found under the tools root")

// Reporter receives per-tool progress. It is an explicit handle rather than
// a global console so runs are testable and the TUI can plug in.
type Reporter interface {
	ToolStarted(name string, index, total int)
	ToolFinished(o Outcome)
}

// NopReporter discards all progress events.
type NopReporter struct{}

func (NopReporter) ToolStarted(string, int, int) {}
func (NopReporter) ToolFinished(Outcome)         {}

// Coordinator runs the provisioning pipeline over every discovered tool,
// sequentially, isolating per-tool failures from the batch.
type Coordinator struct {
	Root      string
	Only      []string
	Opts      pipeline.Options
	Pipeline  *pipeline.Pipeline
	Publisher *publish.Publisher
	Logger    runtime.Logger
	Reporter  Reporter
}

// Run discovers tools and provisions each one. Per-tool errors are
// downgraded to recorded outcomes; only run-level preconditions (unreadable
// root, zero tools, unwritable bin directory) return an error. Cancellation
// stops the batch between tools and the current tool abandons cleanly
// between stages; published shims are never left half-written either way.
func (c *Coordinator) Run(ctx context.Context) (*Summary, error) {
	reporter := c.Reporter
	if reporter == nil {
		reporter = NopReporter{}
	}

	found, err := tools.Discover(c.Root)
	if err != nil {
		return nil, err
	}
	found = c.filter(found)
	if len(found) == 0 {
		return nil, ErrNoTools
	}

	// Fail fast on the most common misconfiguration before touching any
	// tool's environment.
	if err := c.Publisher.CheckWritable(); err != nil {
		return nil, err
	}

	summary := &Summary{}
	for i, d := range found {
		if ctx.Err() != nil {
			c.Logger.Warn("run interrupted", map[string]any{
				"processed": len(summary.Outcomes),
				"remaining": len(found) - len(summary.Outcomes),
			})
			break
		}

		reporter.ToolStarted(d.Name, i+1, len(found))
		c.Logger.Info("provisioning tool", map[string]any{"tool": d.Name, "dir": d.Dir})

		tc := pipeline.NewToolContext(d, c.Opts, c.Logger)
		runErr := c.Pipeline.Run(ctx, tc)

		o := Outcome{Tool: d.Name, Published: tc.Published, Err: runErr, Warnings: tc.Warnings}
		if runErr != nil {
			c.Logger.Error("tool failed", map[string]any{"tool": d.Name, "error": runErr.Error()})
		}
		summary.Outcomes = append(summary.Outcomes, o)
		reporter.ToolFinished(o)
	}

	return summary, nil
}

// filter narrows discovery to the requested tool names, keeping discovery
// order. Requested names that were not discovered become failed outcomes at
// the caller's level; here they are simply absent.
func (c *Coordinator) filter(found []tools.Descriptor) []tools.Descriptor {
	if len(c.Only) == 0 {
		return found
	}
	wanted := make(map[string]bool, len(c.Only))
	for _, name := range c.Only {
		wanted[name] = true
	}
	var kept []tools.Descriptor
	for _, d := range found {
		if wanted[d.Name] {
			kept = append(kept, d)
		}
	}
	return kept
}

// DefaultPipeline assembles the standard four-stage tool pipeline.
func DefaultPipeline(m *venv.Manager, p *publish.Publisher) *pipeline.Pipeline {
	return pipeline.New(
		&EnvStage{Manager: m},
		&SyncStage{Manager: m},
		&WrapperStage{},
		&PublishStage{Publisher: p},
	)
}

// Describe renders a one-line reason for a failed outcome.
func Describe(o Outcome) string {
	if o.Err == nil {
		return fmt.Sprintf("%s: ok", o.Tool)
	}
	return fmt.Sprintf("%s: %v", o.Tool, o.Err)
}
