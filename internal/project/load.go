package project

import (
	"os"
	"path/filepath"
)

// PlanningDir is the per-project directory holding the planning artifacts.
const PlanningDir = ".planning"

// Artifact file names under PlanningDir.
const (
	roadmapFile = "ROADMAP.md"
	stateFile   = "STATE.md"
	projectFile = "PROJECT.md"
	configFile  = "config.json"
)

// Load reads the planning artifacts under root/.planning into a Snapshot.
// Each artifact is independent: a missing or unreadable file leaves its
// part nil and never fails the others. Load itself never errors — an
// uninitialized project simply yields an empty snapshot.
func Load(root string) *Snapshot {
	dir := filepath.Join(root, PlanningDir)
	return &Snapshot{
		Roadmap: ParseRoadmap(readArtifact(dir, roadmapFile)),
		State:   ParseState(readArtifact(dir, stateFile)),
		Project: ParseProject(readArtifact(dir, projectFile)),
		Config:  ParseConfig(readArtifact(dir, configFile)),
	}
}

// LoadConfigRaw returns the raw config.json content for validation, and
// whether the file exists at all.
func LoadConfigRaw(root string) (string, bool) {
	data, err := os.ReadFile(filepath.Join(root, PlanningDir, configFile))
	if err != nil {
		return "", false
	}
	return string(data), true
}

func readArtifact(dir, name string) string {
	data, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		return ""
	}
	return string(data)
}
