package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yurisbeljimenez/aitools/internal/tui"
	"github.com/yurisbeljimenez/aitools/publish"
	"github.com/yurisbeljimenez/aitools/runtime"
	"github.com/yurisbeljimenez/aitools/tools"
	"github.com/yurisbeljimenez/aitools/venv"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List discovered tools and their provisioning state",
	RunE:  runList,
}

func runList(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	found, err := tools.Discover(cfg.ToolsDir)
	if err != nil {
		return err
	}

	styles := tui.NewStyleSet(tui.DetectTheme(themeOverride))
	out := cmd.OutOrStdout()

	if len(found) == 0 {
		fmt.Fprintf(out, "  no tools found under %s\n", cfg.ToolsDir)
		return nil
	}

	// Probing only needs the environment's own interpreter, so the manager
	// gets no base python here.
	manager := venv.NewManager("", cfg.EnvDir, venv.Timeouts{
		Probe: cfg.Timeouts.Probe.Std(),
	}, execRunner, runtime.NopLogger{})
	publisher := publish.NewPublisher(cfg.BinDir)
	ctx := context.Background()

	for _, d := range found {
		envStatus := styles.DimTxt.Render("no env")
		if _, statErr := os.Stat(manager.EnvDir(d)); statErr == nil {
			if manager.Healthy(ctx, d) {
				envStatus = styles.SuccessTxt.Render("env ready")
			} else {
				envStatus = styles.WarningTxt.Render("env broken")
			}
		}

		shimStatus := styles.DimTxt.Render("not installed")
		if publisher.Installed(d.Name) {
			shimStatus = styles.SuccessTxt.Render("installed")
		}

		fmt.Fprintf(out, "  %-24s %-12s %s\n",
			styles.PrimaryTxt.Render(d.Name), envStatus, shimStatus)
	}
	return nil
}
