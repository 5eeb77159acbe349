// Package pipeline provides the sequential stage engine a tool is
// provisioned through.
package pipeline

import (
	"context"
	"fmt"
)

// Stage is a single unit of work in a tool's provisioning pipeline.
type Stage interface {
	Name() string
	Execute(ctx context.Context, tc *ToolContext) error
}

// Pipeline executes a sequence of stages in order.
type Pipeline struct {
	stages []Stage
}

// New creates a Pipeline from the given stages.
func New(stages ...Stage) *Pipeline {
	return &Pipeline{stages: stages}
}

// Run executes each stage sequentially for one tool. It stops on the first
// error, and checks for cancellation between stages so an interrupted run
// abandons the tool cleanly instead of starting new work.
func (p *Pipeline) Run(ctx context.Context, tc *ToolContext) error {
	for _, s := range p.stages {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("cancelled before stage %s: %w", s.Name(), err)
		}
		if err := s.Execute(ctx, tc); err != nil {
			return fmt.Errorf("stage %s: %w", s.Name(), err)
		}
	}
	return nil
}
