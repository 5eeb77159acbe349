package provision

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/yurisbeljimenez/aitools/pipeline"
	"github.com/yurisbeljimenez/aitools/publish"
	"github.com/yurisbeljimenez/aitools/runtime"
	"github.com/yurisbeljimenez/aitools/tools"
	"github.com/yurisbeljimenez/aitools/venv"
)

// fixture builds a tools root with the named tools and a coordinator wired
// with a scripted runner, so no real python or pip ever runs.
type fixture struct {
	root   string
	binDir string
	runner *runtime.ScriptedRunner
}

func newFixture(t *testing.T, toolNames ...string) *fixture {
	t.Helper()
	root := t.TempDir()
	for _, name := range toolNames {
		dir := filepath.Join(root, name)
		if err := os.MkdirAll(dir, 0755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		for _, f := range []string{tools.EntrypointName, tools.ManifestName} {
			if err := os.WriteFile(filepath.Join(dir, f), []byte("# stub\n"), 0644); err != nil {
				t.Fatalf("writing %s: %v", f, err)
			}
		}
	}
	return &fixture{
		root:   root,
		binDir: filepath.Join(t.TempDir(), "bin"),
		runner: runtime.NewScriptedRunner(),
	}
}

func (f *fixture) coordinator(rules ...runtime.ScriptedCall) *Coordinator {
	f.runner = runtime.NewScriptedRunner(rules...)
	logger := runtime.NopLogger{}
	manager := venv.NewManager("python3", ".venv", venv.Timeouts{
		Create: time.Minute, Probe: 10 * time.Second, Sync: time.Minute,
	}, f.runner, logger)
	pub := publish.NewPublisher(f.binDir)
	return &Coordinator{
		Root:      f.root,
		Opts:      pipeline.Options{},
		Pipeline:  DefaultPipeline(manager, pub),
		Publisher: pub,
		Logger:    logger,
	}
}

func publishedNames(t *testing.T, binDir string) []string {
	t.Helper()
	entries, err := os.ReadDir(binDir)
	if err != nil {
		t.Fatalf("readdir: %v", err)
	}
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func TestRun_PublishesAllTools(t *testing.T) {
	f := newFixture(t, "aicap", "copycat", "hugin")
	c := f.coordinator()

	summary, err := c.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if summary.Succeeded() != 3 || summary.FailedCount() != 0 {
		t.Fatalf("succeeded=%d failed=%d, want 3/0", summary.Succeeded(), summary.FailedCount())
	}

	names := publishedNames(t, f.binDir)
	if len(names) != 3 || names[0] != "aicap" || names[1] != "copycat" || names[2] != "hugin" {
		t.Errorf("published = %v", names)
	}

	for _, o := range summary.Outcomes {
		if o.Published == "" {
			t.Errorf("outcome for %s has no published path", o.Tool)
		}
	}
}

func TestRun_FailureIsolation(t *testing.T) {
	f := newFixture(t, "aicap", "copycat", "hugin")

	// copycat's manifest install fails; the other two proceed.
	c := f.coordinator(runtime.ScriptedCall{
		Match:  "install -r " + filepath.Join(f.root, "copycat"),
		Result: &runtime.ExecResult{ExitCode: 1, Stderr: "resolver exploded\n"},
	})

	summary, err := c.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if summary.Succeeded() != 2 || summary.FailedCount() != 1 {
		t.Fatalf("succeeded=%d failed=%d, want 2/1", summary.Succeeded(), summary.FailedCount())
	}

	failures := summary.Failures()
	if len(failures) != 1 || failures[0].Tool != "copycat" {
		t.Fatalf("failures = %+v", failures)
	}
	var envErr *venv.EnvError
	if !errors.As(failures[0].Err, &envErr) || envErr.Reason != venv.ReasonSyncFailed {
		t.Errorf("failure err = %v, want dependency-install-failed", failures[0].Err)
	}

	// The failed tool is never published; its neighbors are.
	names := publishedNames(t, f.binDir)
	if len(names) != 2 || names[0] != "aicap" || names[1] != "hugin" {
		t.Errorf("published = %v, want the two healthy tools", names)
	}
}

func TestRun_Idempotent(t *testing.T) {
	f := newFixture(t, "aicap", "hugin")

	first := f.coordinator()
	s1, err := first.Run(context.Background())
	if err != nil {
		t.Fatalf("first Run: %v", err)
	}
	names1 := publishedNames(t, f.binDir)

	second := f.coordinator()
	s2, err := second.Run(context.Background())
	if err != nil {
		t.Fatalf("second Run: %v", err)
	}
	names2 := publishedNames(t, f.binDir)

	if s1.Succeeded() != 2 || s2.Succeeded() != 2 {
		t.Errorf("succeeded = %d then %d, want 2/2", s1.Succeeded(), s2.Succeeded())
	}
	if len(names1) != len(names2) {
		t.Errorf("published sets differ: %v vs %v", names1, names2)
	}
	for i := range names1 {
		if names1[i] != names2[i] {
			t.Errorf("published sets differ: %v vs %v", names1, names2)
		}
	}
}

func TestRun_NoToolsIsFatal(t *testing.T) {
	f := newFixture(t) // empty root
	c := f.coordinator()

	if _, err := c.Run(context.Background()); !errors.Is(err, ErrNoTools) {
		t.Fatalf("err = %v, want ErrNoTools", err)
	}
}

func TestRun_MissingRootIsFatal(t *testing.T) {
	f := newFixture(t, "aicap")
	c := f.coordinator()
	c.Root = filepath.Join(f.root, "does-not-exist")

	if _, err := c.Run(context.Background()); err == nil {
		t.Fatal("expected error for missing root")
	}
}

func TestRun_UnwritableBinDirIsFatal(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permission checks are meaningless as root")
	}
	f := newFixture(t, "aicap")
	c := f.coordinator()

	parent := t.TempDir()
	if err := os.Chmod(parent, 0555); err != nil {
		t.Fatalf("chmod: %v", err)
	}
	defer os.Chmod(parent, 0755) //nolint:errcheck
	c.Publisher = publish.NewPublisher(filepath.Join(parent, "bin"))

	_, err := c.Run(context.Background())
	if !errors.Is(err, publish.ErrNotWritable) {
		t.Fatalf("err = %v, want ErrNotWritable", err)
	}
	// Fail-fast: no environments were touched.
	if len(f.runner.Calls) != 0 {
		t.Errorf("runner saw %d calls before the precondition failed", len(f.runner.Calls))
	}
}

func TestRun_OnlyFilter(t *testing.T) {
	f := newFixture(t, "aicap", "copycat", "hugin")
	c := f.coordinator()
	c.Only = []string{"hugin"}

	summary, err := c.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(summary.Outcomes) != 1 || summary.Outcomes[0].Tool != "hugin" {
		t.Fatalf("outcomes = %+v, want only hugin", summary.Outcomes)
	}
}

func TestRun_OnlyFilterMatchingNothingIsFatal(t *testing.T) {
	f := newFixture(t, "aicap")
	c := f.coordinator()
	c.Only = []string{"ostris"}

	if _, err := c.Run(context.Background()); !errors.Is(err, ErrNoTools) {
		t.Fatalf("err = %v, want ErrNoTools", err)
	}
}

func TestRun_CancellationStopsBetweenTools(t *testing.T) {
	f := newFixture(t, "aicap", "copycat", "hugin")

	ctx, cancel := context.WithCancel(context.Background())
	c := f.coordinator()

	cancelling := &cancellingReporter{cancel: cancel, after: 1}
	c.Reporter = cancelling

	summary, err := c.Run(ctx)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	// The first tool finished; the remaining two were never started.
	if len(summary.Outcomes) != 1 {
		t.Errorf("outcomes = %d, want 1", len(summary.Outcomes))
	}
}

// cancellingReporter cancels the run after n tools have finished.
type cancellingReporter struct {
	cancel context.CancelFunc
	after  int
	seen   int
}

func (r *cancellingReporter) ToolStarted(string, int, int) {}

func (r *cancellingReporter) ToolFinished(Outcome) {
	r.seen++
	if r.seen == r.after {
		r.cancel()
	}
}

func TestRun_ReporterSequence(t *testing.T) {
	f := newFixture(t, "aicap", "hugin")
	c := f.coordinator()
	rec := &recordingReporter{}
	c.Reporter = rec

	if _, err := c.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	want := []string{"start aicap 1/2", "done aicap", "start hugin 2/2", "done hugin"}
	if len(rec.events) != len(want) {
		t.Fatalf("events = %v, want %v", rec.events, want)
	}
	for i := range want {
		if rec.events[i] != want[i] {
			t.Errorf("event[%d] = %q, want %q", i, rec.events[i], want[i])
		}
	}
}

type recordingReporter struct {
	events []string
}

func (r *recordingReporter) ToolStarted(name string, index, total int) {
	r.events = append(r.events, fmtEvent("start", name, index, total))
}

func (r *recordingReporter) ToolFinished(o Outcome) {
	r.events = append(r.events, "done "+o.Tool)
}

func fmtEvent(kind, name string, index, total int) string {
	return fmt.Sprintf("%s %s %d/%d", kind, name, index, total)
}
