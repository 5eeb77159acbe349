// Package config loads the aitools.yaml configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/yurisbeljimenez/aitools/validate"
)

// Resync policies for environments that are already healthy.
const (
	ResyncAlways = "always"
	ResyncNever  = "never"
)

// Duration wraps time.Duration so YAML values like "10m" parse naturally.
type Duration time.Duration

// UnmarshalYAML parses a Go duration string into d.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("parsing duration %q: %w", raw, err)
	}
	if parsed < 0 {
		return fmt.Errorf("duration %q must not be negative", raw)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns d as a time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Timeouts bounds the external commands the provisioner spawns. Dependency
// installation is the only genuinely slow step, so its default is generous.
type Timeouts struct {
	Create Duration `yaml:"create,omitempty"`
	Probe  Duration `yaml:"probe,omitempty"`
	Sync   Duration `yaml:"sync,omitempty"`
}

// Config represents the top-level aitools.yaml configuration.
type Config struct {
	ToolsDir string   `yaml:"tools_dir,omitempty"`
	BinDir   string   `yaml:"bin_dir,omitempty"`
	EnvDir   string   `yaml:"env_dir,omitempty"`
	Resync   string   `yaml:"resync,omitempty"`
	Timeouts Timeouts `yaml:"timeouts,omitempty"`
}

// Default returns the built-in configuration: tools discovered under the
// current directory, shims published into ~/.local/bin, a .venv per tool.
func Default() *Config {
	binDir := ".local/bin"
	if home, err := os.UserHomeDir(); err == nil {
		binDir = filepath.Join(home, ".local", "bin")
	}
	return &Config{
		ToolsDir: ".",
		BinDir:   binDir,
		EnvDir:   ".venv",
		Resync:   ResyncAlways,
		Timeouts: Timeouts{
			Create: Duration(2 * time.Minute),
			Probe:  Duration(15 * time.Second),
			Sync:   Duration(15 * time.Minute),
		},
	}
}

// Load reads and parses an aitools.yaml file. A missing file is not an
// error: the defaults apply unchanged.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	return Parse(data)
}

// Parse parses raw YAML bytes into a Config, fills defaults for omitted
// fields, and validates the result. The document is checked against the
// embedded schema first, so typos in key names surface as errors instead
// of being silently dropped by the decoder.
func Parse(data []byte) (*Config, error) {
	violations, err := validate.ConfigYAML(data)
	if err != nil {
		return nil, err
	}
	if len(violations) > 0 {
		return nil, fmt.Errorf("config: %s", strings.Join(violations, "; "))
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if cfg.Resync != ResyncAlways && cfg.Resync != ResyncNever {
		return nil, fmt.Errorf("config: resync must be %q or %q, got %q", ResyncAlways, ResyncNever, cfg.Resync)
	}
	if cfg.EnvDir == "" {
		return nil, fmt.Errorf("config: env_dir must not be empty")
	}
	if filepath.Base(cfg.EnvDir) != cfg.EnvDir || cfg.EnvDir == "." || cfg.EnvDir == ".." {
		return nil, fmt.Errorf("config: env_dir %q must be a bare directory name", cfg.EnvDir)
	}

	return cfg, nil
}
