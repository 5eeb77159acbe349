// Package util provides shared utility functions.
package util

import (
	"regexp"
	"strings"
)

var (
	invalidCommandChars = regexp.MustCompile(`[^a-z0-9_-]`)
	repeatedHyphens     = regexp.MustCompile(`-{2,}`)
)

// CommandName converts a tool directory name into a name safe to publish
// as a shell command. It lowercases, replaces spaces with hyphens, strips
// everything outside [a-z0-9_-], collapses hyphen runs, and trims leading
// and trailing hyphens. An empty result means the name is unusable.
func CommandName(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = strings.ReplaceAll(s, " ", "-")
	s = invalidCommandChars.ReplaceAllString(s, "")
	s = repeatedHyphens.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	return s
}
