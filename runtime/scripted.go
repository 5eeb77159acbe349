package runtime

import (
	"context"
	"strings"
	"sync"
)

// ScriptedCall is one rule in a ScriptedRunner. A command matches when Match
// is a substring of its rendered invocation (path and args joined by spaces).
// An empty Match matches every command. Times limits how often the rule
// fires; zero means unlimited.
type ScriptedCall struct {
	Match  string
	Result *ExecResult
	Err    error
	Times  int

	fired int
}

// ScriptedRunner implements Runner with canned results for tests. Rules are
// consulted in order; the first live match wins. Commands with no matching
// rule succeed with an empty result. Every invocation is recorded in Calls.
type ScriptedRunner struct {
	mu    sync.Mutex
	rules []*ScriptedCall
	Calls []Command
}

// NewScriptedRunner creates a ScriptedRunner with the given rules.
func NewScriptedRunner(rules ...ScriptedCall) *ScriptedRunner {
	r := &ScriptedRunner{}
	for i := range rules {
		rule := rules[i]
		r.rules = append(r.rules, &rule)
	}
	return r
}

func (r *ScriptedRunner) Run(ctx context.Context, cmd Command) (*ExecResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.Calls = append(r.Calls, cmd)

	line := cmd.String()
	for _, rule := range r.rules {
		if rule.Times > 0 && rule.fired >= rule.Times {
			continue
		}
		if rule.Match != "" && !strings.Contains(line, rule.Match) {
			continue
		}
		rule.fired++
		res := rule.Result
		if res == nil {
			res = &ExecResult{}
		}
		return res, rule.Err
	}

	return &ExecResult{}, nil
}

// CallLines returns every recorded invocation rendered as a single line,
// in order. Helps tests assert on the sequence of subprocess calls.
func (r *ScriptedRunner) CallLines() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	lines := make([]string, len(r.Calls))
	for i, c := range r.Calls {
		lines[i] = c.String()
	}
	return lines
}
