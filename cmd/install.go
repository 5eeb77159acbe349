package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/yurisbeljimenez/aitools/config"
	"github.com/yurisbeljimenez/aitools/internal/tui"
	"github.com/yurisbeljimenez/aitools/pipeline"
	"github.com/yurisbeljimenez/aitools/provision"
	"github.com/yurisbeljimenez/aitools/publish"
	"github.com/yurisbeljimenez/aitools/runtime"
	"github.com/yurisbeljimenez/aitools/venv"
)

var (
	installOnly     []string
	installRecreate bool
	installSkipSync bool

	// Seams for tests: swapped out so an install run can execute against a
	// scripted runner with no python on the machine.
	execRunner        runtime.Runner = runtime.ExecRunner{}
	detectInterpreter                = venv.DetectInterpreter
)

var installCmd = &cobra.Command{
	Use:   "install",
	Short: "Provision every discovered tool and publish its command",
	RunE:  runInstall,
}

func init() {
	installCmd.Flags().StringSliceVar(&installOnly, "only", nil, "provision only the named tools")
	installCmd.Flags().BoolVar(&installRecreate, "recreate", false, "rebuild environments even if they are healthy")
	installCmd.Flags().BoolVar(&installSkipSync, "skip-sync", false, "skip dependency installation for healthy environments")
}

func runInstall(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	basePython, err := detectInterpreter()
	if err != nil {
		return err
	}

	logger := newRunLogger()
	manager := venv.NewManager(basePython, cfg.EnvDir, venv.Timeouts{
		Create: cfg.Timeouts.Create.Std(),
		Probe:  cfg.Timeouts.Probe.Std(),
		Sync:   cfg.Timeouts.Sync.Std(),
	}, execRunner, logger)
	publisher := publish.NewPublisher(cfg.BinDir)

	coord := &provision.Coordinator{
		Root: cfg.ToolsDir,
		Only: installOnly,
		Opts: pipeline.Options{
			SkipSync: installSkipSync || cfg.Resync == config.ResyncNever,
			Recreate: installRecreate,
		},
		Pipeline:  provision.DefaultPipeline(manager, publisher),
		Publisher: publisher,
		Logger:    logger,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	theme := tui.DetectTheme(themeOverride)
	styles := tui.NewStyleSet(theme)

	out := cmd.OutOrStdout()
	width, _, _ := term.GetSize(int(os.Stdout.Fd()))
	fmt.Fprint(out, tui.RenderBanner(styles, appVersion, width))

	var summary *provision.Summary
	var runErr error

	if term.IsTerminal(int(os.Stdout.Fd())) && !verbose {
		// The display owns the terminal in raw mode, so ctrl+c reaches the
		// model as a key, not a signal. The model cancels runCtx and the
		// coordinator stops between tools.
		runCtx, cancelRun := context.WithCancel(ctx)
		defer cancelRun()

		reporter := tui.NewChannelReporter()
		coord.Reporter = reporter

		done := make(chan struct{})
		go func() {
			defer close(done)
			summary, runErr = coord.Run(runCtx)
			reporter.Close()
		}()

		program := tea.NewProgram(tui.NewProgressModel(theme, reporter, cancelRun), tea.WithContext(ctx))
		if _, teaErr := program.Run(); teaErr != nil && ctx.Err() == nil {
			logger.Warn("progress display failed", map[string]any{"error": teaErr.Error()})
		}
		// The reporter's sends block once its buffer fills. If the display
		// exited early, keep consuming events so the run can finish.
		reporter.Drain()
		<-done
	} else {
		coord.Reporter = &plainReporter{out: out}
		summary, runErr = coord.Run(ctx)
	}

	if runErr != nil {
		return runErr
	}

	fmt.Fprint(out, tui.RenderSummary(styles, summary))
	if !binDirOnPath(cfg.BinDir) {
		fmt.Fprint(out, tui.RenderPathWarning(styles, cfg.BinDir))
	}

	if failed := summary.FailedCount(); failed > 0 {
		return fmt.Errorf("%d of %d tool(s) failed", failed, len(summary.Outcomes))
	}
	return nil
}

func newRunLogger() runtime.Logger {
	if verbose {
		return runtime.NewJSONLogger(os.Stderr, true)
	}
	return runtime.NopLogger{}
}

// plainReporter prints one line per tool, for non-TTY output and verbose
// runs where the animated display would fight the JSON logs.
type plainReporter struct {
	out io.Writer
}

func (r *plainReporter) ToolStarted(name string, index, total int) {
	fmt.Fprintf(r.out, "  [%d/%d] %s\n", index, total, name)
}

func (r *plainReporter) ToolFinished(o provision.Outcome) {
	fmt.Fprintf(r.out, "  %s\n", provision.Describe(o))
}
