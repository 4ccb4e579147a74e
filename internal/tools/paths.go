// Package tools implements the MCP tool handlers for gsdkit routing.
//
// Each tool is a struct that receives its dependencies at construction
// and exposes Definition/Handle for registration. Tools orchestrate the
// core packages (discover, intent, gate, lifecycle, project, extension)
// and never contain routing logic of their own.
package tools

import (
	"fmt"
	"os"
	"path/filepath"

	"gsdkit/internal/project"
)

// artifactDir is the directory holding commands/, agents/, and teams/.
// A project-local one overrides the global install.
const artifactDir = ".gsd"

// For testing: allows pinning the global base path.
var userHomeDir = os.UserHomeDir

// findProjectRoot walks up from the current working directory looking
// for a .planning/ directory. If none is found, returns cwd — the
// caller gets an empty snapshot rather than an error.
func findProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getting working directory: %w", err)
	}

	current := dir
	for {
		candidate := filepath.Join(current, project.PlanningDir)
		if info, err := os.Stat(candidate); err == nil && info.IsDir() {
			return current, nil
		}

		parent := filepath.Dir(current)
		if parent == current {
			return dir, nil
		}
		current = parent
	}
}

// resolveBasePath picks the artifact base path. An explicit override
// wins; otherwise a project-local .gsd/ beats the global install under
// the user's home directory.
func resolveBasePath(override, projectRoot string) string {
	if override != "" {
		return override
	}

	local := filepath.Join(projectRoot, artifactDir)
	if info, err := os.Stat(local); err == nil && info.IsDir() {
		return local
	}

	home, err := userHomeDir()
	if err != nil {
		return local
	}
	return filepath.Join(home, artifactDir)
}
