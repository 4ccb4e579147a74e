// Package project reads the four planning artifacts of a long-running
// project — roadmap, state, project summary, and configuration — into one
// typed snapshot.
//
// Each parser is pure (content in, value out) and fail-soft: malformed
// individual lines are skipped, and nil is returned only for genuinely
// empty or unparseable top-level input. Configuration validation is the
// deliberate exception — a present field with the wrong type or value is
// always an error, never silently corrected (see validate.go).
package project

// Phase is one roadmap phase from the checklist. Number may be decimal
// ("2.5") for phases inserted between integer phases, so it stays a string.
type Phase struct {
	Number        string `json:"number"`
	Name          string `json:"name"`
	Complete      bool   `json:"complete"`
	CompletedInfo string `json:"completed_info,omitempty"`
	Description   string `json:"description,omitempty"`
}

// Plan is one plan bullet inside a phase detail section.
type Plan struct {
	ID          string `json:"id"`
	Complete    bool   `json:"complete"`
	Description string `json:"description,omitempty"`
}

// Capability is one verb: type/name triple from a phase's capability line.
type Capability struct {
	Verb string `json:"verb"`
	Type string `json:"type"`
	Name string `json:"name"`
}

// Roadmap is the parsed ROADMAP.md.
type Roadmap struct {
	Phases              []Phase                 `json:"phases"`
	PlansByPhase        map[string][]Plan       `json:"plans_by_phase"`
	CapabilitiesByPhase map[string][]Capability `json:"capabilities_by_phase,omitempty"`
}

// Position is the "Current Position" block of STATE.md. Every field is
// independently optional; zero values mean the line was absent.
type Position struct {
	Phase        string `json:"phase,omitempty"`
	TotalPhases  int    `json:"total_phases,omitempty"`
	PhaseName    string `json:"phase_name,omitempty"`
	Plan         int    `json:"plan,omitempty"`
	TotalPlans   int    `json:"total_plans,omitempty"`
	Status       string `json:"status,omitempty"`
	LastActivity string `json:"last_activity,omitempty"`
	Progress     int    `json:"progress,omitempty"`
}

// SessionContinuity is the "Session Continuity" block of STATE.md.
type SessionContinuity struct {
	LastSession string `json:"last_session,omitempty"`
	StoppedAt   string `json:"stopped_at,omitempty"`
	ResumeFile  string `json:"resume_file,omitempty"`
}

// State is the parsed STATE.md.
type State struct {
	Position          Position          `json:"position"`
	Decisions         []string          `json:"decisions"`
	Blockers          []string          `json:"blockers"`
	PendingTodos      []string          `json:"pending_todos"`
	SessionContinuity SessionContinuity `json:"session_continuity"`
}

// Document is the parsed PROJECT.md. Missing sections yield empty fields,
// not a nil document.
type Document struct {
	Name             string `json:"name"`
	CoreValue        string `json:"core_value,omitempty"`
	CurrentMilestone string `json:"current_milestone,omitempty"`
	Description      string `json:"description,omitempty"`
}

// Snapshot bundles everything the router knows about a project. Any of
// the four parts may be nil when its artifact is missing or unparseable.
type Snapshot struct {
	Roadmap *Roadmap  `json:"roadmap,omitempty"`
	State   *State    `json:"state,omitempty"`
	Project *Document `json:"project,omitempty"`
	Config  *Config   `json:"config,omitempty"`
}

// Empty reports whether nothing at all could be read.
func (s *Snapshot) Empty() bool {
	return s == nil || (s.Roadmap == nil && s.State == nil && s.Project == nil && s.Config == nil)
}
