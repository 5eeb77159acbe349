package venv

import (
	"errors"
	"os/exec"
)

// interpreterCandidates are tried in order when detecting the base
// interpreter used for environment creation.
var interpreterCandidates = []string{"python3", "python"}

// DetectInterpreter returns the absolute path of the first base Python
// interpreter found on PATH. Environment creation is impossible without
// one, so a miss is a run-level failure for the caller to surface.
func DetectInterpreter() (string, error) {
	for _, name := range interpreterCandidates {
		if path, err := exec.LookPath(name); err == nil {
			return path, nil
		}
	}
	return "", errors.New("no python interpreter found on PATH (tried python3, python)")
}
