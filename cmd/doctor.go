package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/yurisbeljimenez/aitools/internal/tui"
	"github.com/yurisbeljimenez/aitools/publish"
	"github.com/yurisbeljimenez/aitools/tools"
	"github.com/yurisbeljimenez/aitools/validate"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check that this machine can provision and run tools",
	RunE:  runDoctor,
}

func runDoctor(cmd *cobra.Command, args []string) error {
	styles := tui.NewStyleSet(tui.DetectTheme(themeOverride))
	out := cmd.OutOrStdout()
	failed := 0

	check := func(ok bool, label, detail string) {
		if ok {
			fmt.Fprintf(out, "  %s %s\n", styles.SuccessTxt.Render("✓"), label)
			return
		}
		failed++
		fmt.Fprintf(out, "  %s %s\n", styles.ErrorTxt.Render("✗"), label)
		if detail != "" {
			fmt.Fprintf(out, "      %s\n", styles.DimTxt.Render(detail))
		}
	}

	checkConfigFile(check)

	cfg, err := loadConfig()
	if err != nil {
		check(false, "config loads", err.Error())
		return fmt.Errorf("doctor found %d problem(s)", failed)
	}
	check(true, "config loads", "")

	if python, detectErr := detectInterpreter(); detectErr != nil {
		check(false, "python interpreter on PATH", detectErr.Error())
	} else {
		check(true, fmt.Sprintf("python interpreter on PATH (%s)", python), "")
	}

	found, discoverErr := tools.Discover(cfg.ToolsDir)
	switch {
	case discoverErr != nil:
		check(false, fmt.Sprintf("tools root %s readable", cfg.ToolsDir), discoverErr.Error())
	case len(found) == 0:
		check(false, fmt.Sprintf("tools found under %s", cfg.ToolsDir), "no directory holds both an entrypoint and a manifest")
	default:
		check(true, fmt.Sprintf("%d tool(s) found under %s", len(found), cfg.ToolsDir), "")
	}

	publisher := publish.NewPublisher(cfg.BinDir)
	if writeErr := publisher.CheckWritable(); writeErr != nil {
		detail := writeErr.Error()
		if errors.Is(writeErr, publish.ErrNotWritable) {
			detail = "published commands cannot be installed there"
		}
		check(false, fmt.Sprintf("bin directory %s writable", cfg.BinDir), detail)
	} else {
		check(true, fmt.Sprintf("bin directory %s writable", cfg.BinDir), "")
	}

	check(binDirOnPath(cfg.BinDir),
		fmt.Sprintf("bin directory %s on PATH", cfg.BinDir),
		"published commands will not resolve until it is added")

	if failed > 0 {
		return fmt.Errorf("doctor found %d problem(s)", failed)
	}
	fmt.Fprintf(out, "\n  %s\n", styles.SuccessTxt.Render("everything looks good"))
	return nil
}

// checkConfigFile validates the config file against the schema when one is
// present. A missing file is fine: defaults apply.
func checkConfigFile(check func(ok bool, label, detail string)) {
	path := cfgFile
	if !filepath.IsAbs(path) {
		if wd, err := os.Getwd(); err == nil {
			path = filepath.Join(wd, path)
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			check(true, "no config file, using defaults", "")
			return
		}
		check(false, "config file readable", err.Error())
		return
	}

	violations, err := validate.ConfigYAML(data)
	if err != nil {
		check(false, "config matches schema", err.Error())
		return
	}
	if len(violations) > 0 {
		check(false, "config matches schema", violations[0])
		return
	}
	check(true, "config matches schema", "")
}
