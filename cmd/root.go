// Package cmd implements the aitools CLI commands.
package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/yurisbeljimenez/aitools/config"
)

var (
	cfgFile       string
	verbose       bool
	themeOverride string

	toolsDirFlag string
	binDirFlag   string

	appVersion = "dev"
)

var rootCmd = &cobra.Command{
	Use:   "aitools",
	Short: "aitools — provision self-contained CLI tools onto this machine",
	Long: "aitools discovers tool directories, builds an isolated environment per tool,\n" +
		"installs each tool's declared dependencies, and publishes a globally\n" +
		"invocable command for it.",
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "aitools.yaml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&themeOverride, "theme", "", "color theme: dark, light, or auto")
	rootCmd.PersistentFlags().StringVar(&toolsDirFlag, "tools-dir", "", "override the tools root directory")
	rootCmd.PersistentFlags().StringVar(&binDirFlag, "bin-dir", "", "override the shared bin directory")

	rootCmd.AddCommand(installCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(uninstallCmd)
	rootCmd.AddCommand(doctorCmd)
}

// loadConfig reads the config file and applies flag overrides.
func loadConfig() (*config.Config, error) {
	path := cfgFile
	if !filepath.IsAbs(path) {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getting working directory: %w", err)
		}
		path = filepath.Join(wd, path)
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	if toolsDirFlag != "" {
		cfg.ToolsDir = toolsDirFlag
	}
	if binDirFlag != "" {
		cfg.BinDir = binDirFlag
	}
	return cfg, nil
}

// binDirOnPath reports whether dir is one of the PATH entries.
func binDirOnPath(dir string) bool {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return false
	}
	for _, entry := range filepath.SplitList(os.Getenv("PATH")) {
		if entry == "" {
			continue
		}
		if entryAbs, err := filepath.Abs(entry); err == nil && entryAbs == abs {
			return true
		}
	}
	return false
}

// SetVersionInfo sets the version and commit for display.
func SetVersionInfo(version, commit string) {
	appVersion = version
	rootCmd.Version = version
	rootCmd.SetVersionTemplate(fmt.Sprintf("aitools %s (commit: %s)\n", version, commit))
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
