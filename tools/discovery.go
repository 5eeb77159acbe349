package tools

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/yurisbeljimenez/aitools/util"
)

// Discover scans the immediate subdirectories of root and returns a
// Descriptor for each one that contains both recognized contract files.
// Non-matching subdirectories are skipped silently. The result is ordered
// lexicographically by directory name so repeated runs log identically.
// Zero matches is an empty slice, not an error; the caller decides whether
// that is fatal.
func Discover(root string) ([]Descriptor, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolving tools root %s: %w", root, err)
	}

	entries, err := os.ReadDir(absRoot)
	if err != nil {
		return nil, fmt.Errorf("reading tools root %s: %w", absRoot, err)
	}

	var found []Descriptor
	for _, entry := range entries {
		if !entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}

		dir := filepath.Join(absRoot, entry.Name())
		entrypoint := filepath.Join(dir, EntrypointName)
		manifest := filepath.Join(dir, ManifestName)
		if !isRegularFile(entrypoint) || !isRegularFile(manifest) {
			continue
		}

		name := util.CommandName(entry.Name())
		if name == "" {
			continue
		}

		found = append(found, Descriptor{
			Name:       name,
			Dir:        dir,
			Entrypoint: entrypoint,
			Manifest:   manifest,
		})
	}

	return found, nil
}

func isRegularFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
