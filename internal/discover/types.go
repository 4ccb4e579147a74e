// Package discover scans an installation directory for command, agent,
// and team definitions and turns them into typed specs.
//
// Discovery is fail-soft by contract: a single malformed artifact is
// skipped and recorded as a warning, a missing subdirectory is an empty
// slice, and the scan itself only fails when the base directory is
// unusable. The result is a pure function of the on-disk tree at the
// moment of the version marker's last modification — identical marker
// mtime means the cached result is served without re-scanning.
package discover

import "time"

// Location says which installation a result came from.
type Location string

const (
	// LocationGlobal is the per-user installation under the home directory.
	LocationGlobal Location = "global"
	// LocationLocal is a per-project installation.
	LocationLocal Location = "local"
)

// AgentPrefix is the reserved naming convention for specialist agents.
// Agent files whose name lacks this prefix are excluded from results —
// silently, because third-party agent files legitimately share the
// agents directory.
const AgentPrefix = "gsd-"

// CommandSpec describes one discovered command. Immutable after discovery.
type CommandSpec struct {
	// Name is namespaced, e.g. "gsd:plan-phase".
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	ArgumentHint string   `json:"argument_hint,omitempty"`
	AllowedTools []string `json:"allowed_tools,omitempty"`
	// Agent is the owning specialist, when the command delegates.
	Agent string `json:"agent,omitempty"`
	// Objective is the first top-level <objective> block in the body.
	Objective string `json:"objective,omitempty"`
	FilePath  string `json:"file_path"`
}

// AgentSpec describes one discovered specialist agent.
type AgentSpec struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Tools       string `json:"tools,omitempty"`
	Model       string `json:"model,omitempty"`
	Color       string `json:"color,omitempty"`
	FilePath    string `json:"file_path"`
}

// TeamSpec describes one discovered agent team.
type TeamSpec struct {
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Topology    string       `json:"topology,omitempty"`
	Members     []TeamMember `json:"members,omitempty"`

	// MemberCount is derived from the member list; both on-disk member
	// shapes normalize to the same count.
	MemberCount int    `json:"member_count"`
	FilePath    string `json:"file_path"`
}

// TeamMember is one member of a team, normalized from either on-disk
// shape. AgentID is set by the lead/member-id shape; Name and the
// descriptive fields by the inline shape.
type TeamMember struct {
	AgentID     string `json:"agent_id,omitempty"`
	Name        string `json:"name,omitempty"`
	Role        string `json:"role,omitempty"`
	Description string `json:"description,omitempty"`
	Tools       string `json:"tools,omitempty"`
	Model       string `json:"model,omitempty"`
}

// Warning records one artifact that discovery skipped.
type Warning struct {
	Path string `json:"path"`
	Type string `json:"type"`
}

// WarningParseError is the warning type for structurally unparseable files.
const WarningParseError = "parse-error"

// Result is the full output of one discovery scan.
type Result struct {
	Commands     []CommandSpec `json:"commands"`
	Agents       []AgentSpec   `json:"agents"`
	Teams        []TeamSpec    `json:"teams"`
	BasePath     string        `json:"base_path"`
	Location     Location      `json:"location"`
	Version      string        `json:"version"`
	DiscoveredAt time.Time     `json:"discovered_at"`
}

// Command looks up a command by its namespaced name.
func (r *Result) Command(name string) (CommandSpec, bool) {
	for _, c := range r.Commands {
		if c.Name == name {
			return c, true
		}
	}
	return CommandSpec{}, false
}
