package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/yurisbeljimenez/aitools/publish"
	"github.com/yurisbeljimenez/aitools/tools"
	"github.com/yurisbeljimenez/aitools/util"
)

var uninstallPurge bool

var uninstallCmd = &cobra.Command{
	Use:   "uninstall <tool>",
	Short: "Remove a tool's published command",
	Args:  cobra.ExactArgs(1),
	RunE:  runUninstall,
}

func init() {
	uninstallCmd.Flags().BoolVar(&uninstallPurge, "purge", false, "also delete the tool's environment")
}

func runUninstall(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	name := util.CommandName(args[0])
	if name == "" {
		return fmt.Errorf("invalid tool name %q", args[0])
	}

	publisher := publish.NewPublisher(cfg.BinDir)
	removed := publisher.Installed(name)
	if err := publisher.Remove(name); err != nil {
		return fmt.Errorf("removing command %s: %w", name, err)
	}

	out := cmd.OutOrStdout()
	if removed {
		fmt.Fprintf(out, "removed %s\n", filepath.Join(cfg.BinDir, name))
	} else {
		fmt.Fprintf(out, "%s was not installed\n", name)
	}

	if !uninstallPurge {
		return nil
	}

	// The environment lives inside the tool's own directory, so purging
	// needs discovery to find it.
	found, err := tools.Discover(cfg.ToolsDir)
	if err != nil {
		return err
	}
	for _, d := range found {
		if d.Name != name {
			continue
		}
		envDir := filepath.Join(d.Dir, cfg.EnvDir)
		if err := os.RemoveAll(envDir); err != nil {
			return fmt.Errorf("removing environment %s: %w", envDir, err)
		}
		fmt.Fprintf(out, "removed %s\n", envDir)
		return nil
	}
	fmt.Fprintf(out, "no tool directory found for %s; nothing to purge\n", name)
	return nil
}
