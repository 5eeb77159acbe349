// Package publish installs wrapper shims into the shared bin directory.
//
// Installation is atomic at the filesystem level: the shim is written to a
// temp file in the same directory and renamed over the target, so a failure
// mid-write never leaves the command namespace with a truncated entry — the
// old shim (if any) survives until the new one is complete.
package publish

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/yurisbeljimenez/aitools/wrapper"
)

// ErrNotWritable indicates the bin directory rejects writes for the
// invoking user. This is the most common operator-facing failure, so it is
// detected up front, before any destructive work.
var ErrNotWritable = errors.New("bin directory is not writable")

// Publisher installs artifacts into a single shared bin directory.
type Publisher struct {
	BinDir string
}

// NewPublisher creates a Publisher for the given bin directory.
func NewPublisher(binDir string) *Publisher {
	return &Publisher{BinDir: binDir}
}

// CheckWritable ensures the bin directory exists and accepts writes,
// creating it if absent. Run this before provisioning anything.
func (p *Publisher) CheckWritable() error {
	if err := os.MkdirAll(p.BinDir, 0755); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrNotWritable, p.BinDir, err)
	}
	probe, err := os.CreateTemp(p.BinDir, ".aitools-probe-*")
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrNotWritable, p.BinDir, err)
	}
	name := probe.Name()
	probe.Close()    //nolint:errcheck
	os.Remove(name)  //nolint:errcheck
	return nil
}

// Install atomically publishes an artifact and returns the target path.
// An existing shim with the same name is replaced, never truncated.
func (p *Publisher) Install(a *wrapper.Artifact) (string, error) {
	if a == nil || a.Name == "" {
		return "", errors.New("publish: artifact has no name")
	}
	target := filepath.Join(p.BinDir, a.Name)

	tmp, err := os.CreateTemp(p.BinDir, "."+a.Name+"-*")
	if err != nil {
		if os.IsPermission(err) {
			return "", fmt.Errorf("%w: %s", ErrNotWritable, p.BinDir)
		}
		return "", fmt.Errorf("publish %s: staging temp file: %w", a.Name, err)
	}
	tmpName := tmp.Name()

	cleanup := func() { os.Remove(tmpName) } //nolint:errcheck

	if _, err := tmp.Write(a.Content); err != nil {
		tmp.Close() //nolint:errcheck
		cleanup()
		return "", fmt.Errorf("publish %s: writing shim: %w", a.Name, err)
	}
	if err := tmp.Chmod(0755); err != nil {
		tmp.Close() //nolint:errcheck
		cleanup()
		return "", fmt.Errorf("publish %s: marking shim executable: %w", a.Name, err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return "", fmt.Errorf("publish %s: flushing shim: %w", a.Name, err)
	}

	if err := os.Rename(tmpName, target); err != nil {
		cleanup()
		if os.IsPermission(err) {
			return "", fmt.Errorf("%w: %s", ErrNotWritable, p.BinDir)
		}
		return "", fmt.Errorf("publish %s: installing shim: %w", a.Name, err)
	}

	return target, nil
}

// Remove deletes a published shim. A missing shim is not an error.
func (p *Publisher) Remove(name string) error {
	err := os.Remove(filepath.Join(p.BinDir, name))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing shim %s: %w", name, err)
	}
	return nil
}

// Installed reports whether a shim with the given name is published.
func (p *Publisher) Installed(name string) bool {
	info, err := os.Stat(filepath.Join(p.BinDir, name))
	return err == nil && info.Mode().IsRegular()
}
