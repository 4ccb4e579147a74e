// Package extension probes for the optional gsd-semantic companion, which
// provides embedding-backed classification and search. This core never
// performs semantic similarity itself — it only reports whether the
// capability is installed so the classifier can defer to it.
//
// Detection is binary: either the companion is present and every feature
// is available, or it is absent and every feature is off. There is no
// partial install.
package extension

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"time"
)

// Method records which probe strategy succeeded.
type Method string

const (
	MethodCLIBinary     Method = "cli-binary"
	MethodDistDirectory Method = "dist-directory"
	MethodNone          Method = "none"
)

const (
	// cliName is the companion binary probed on PATH.
	cliName = "gsd-semantic"

	// probeTimeout bounds the CLI version probe. The companion answers
	// --version in well under a second; anything slower is treated as
	// not installed rather than blocking the route pipeline.
	probeTimeout = 3 * time.Second
)

// semverPattern matches the first semantic version in the CLI's output.
var semverPattern = regexp.MustCompile(`\d+\.\d+\.\d+(?:-[0-9A-Za-z.-]+)?`)

// Features are the capabilities the companion unlocks. They always move
// together: all true when detected, all false otherwise.
type Features struct {
	SemanticClassification bool `json:"semantic_classification"`
	SemanticSearch         bool `json:"semantic_search"`
	AgentMatching          bool `json:"agent_matching"`
	DuplicateDetection     bool `json:"duplicate_detection"`
}

// Capabilities is the full detection result.
type Capabilities struct {
	Detected bool     `json:"detected"`
	Method   Method   `json:"detection_method"`
	Version  string   `json:"version,omitempty"`
	Features Features `json:"features"`
}

// Overrides lets callers force either probe's outcome without touching
// the real environment. Nil function fields fall back to the real probes.
type Overrides struct {
	// CLIAvailable forces the CLI probe: true simulates a healthy binary,
	// false skips it entirely. Nil runs the real binary.
	CLIAvailable *bool
	// CLIVersion is the version reported when CLIAvailable is forced true.
	CLIVersion string
	// DistPath replaces the default installed-package directory check.
	DistPath string
	// RunCLI replaces the real subprocess invocation (tests only).
	RunCLI func(ctx context.Context) (string, error)
	// StatDir replaces the real directory existence check (tests only).
	StatDir func(path string) bool
}

// none is the canonical "nothing detected" result.
func none() Capabilities {
	return Capabilities{Detected: false, Method: MethodNone}
}

// allFeatures returns every feature enabled. Detection is all-or-nothing.
func allFeatures() Features {
	return Features{
		SemanticClassification: true,
		SemanticSearch:         true,
		AgentMatching:          true,
		DuplicateDetection:     true,
	}
}

// Detect tries the probe strategies in fixed priority order — CLI binary
// first, installed dist directory second — and returns the first success.
// Probe failures never propagate: a failed strategy degrades to the next,
// and two failures degrade to the canonical null capabilities.
func Detect(overrides *Overrides) Capabilities {
	if overrides == nil {
		overrides = &Overrides{}
	}

	if version, ok := probeCLI(overrides); ok {
		return Capabilities{
			Detected: true,
			Method:   MethodCLIBinary,
			Version:  version,
			Features: allFeatures(),
		}
	}

	if probeDist(overrides) {
		return Capabilities{
			Detected: true,
			Method:   MethodDistDirectory,
			Features: allFeatures(),
		}
	}

	return none()
}

// probeCLI invokes the companion binary and extracts a semver from its
// output. Spawn errors, timeouts, and unparseable output all report "not
// available" rather than failing the caller.
func probeCLI(o *Overrides) (version string, ok bool) {
	if o.CLIAvailable != nil {
		if !*o.CLIAvailable {
			return "", false
		}
		if o.CLIVersion != "" {
			return o.CLIVersion, true
		}
		return "0.0.0", true
	}

	run := o.RunCLI
	if run == nil {
		run = runVersionCommand
	}

	ctx, cancel := context.WithTimeout(context.Background(), probeTimeout)
	defer cancel()

	out, err := run(ctx)
	if err != nil {
		return "", false
	}
	match := semverPattern.FindString(out)
	if match == "" {
		return "", false
	}
	return match, true
}

// runVersionCommand is the real CLI probe.
func runVersionCommand(ctx context.Context) (string, error) {
	out, err := exec.CommandContext(ctx, cliName, "--version").Output()
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// probeDist checks for the companion's installed package directory.
func probeDist(o *Overrides) bool {
	statDir := o.StatDir
	if statDir == nil {
		statDir = realStatDir
	}

	path := o.DistPath
	if path == "" {
		path = defaultDistPath()
	}
	if path == "" {
		return false
	}
	return statDir(path)
}

// defaultDistPath is the conventional install location under the user's
// home directory. Empty when the home directory cannot be resolved.
func defaultDistPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".gsd", "extensions", "semantic", "dist")
}

func realStatDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
