// Package lifecycle recommends the next command for a project based on
// where it stands: roadmap completion, current-position status text, and
// optionally the command that just finished. Recommendations are advice,
// never actions; the coordinator performs no I/O.
package lifecycle

import (
	"fmt"
	"strings"

	"gsdkit/internal/project"
)

// Stage is the coarse position of a project in its lifecycle.
type Stage string

const (
	StageUninitialized     Stage = "uninitialized"
	StageNotStarted        Stage = "not-started"
	StagePhasePlanning     Stage = "phase-planning"
	StagePhaseInProgress   Stage = "phase-in-progress"
	StagePhaseComplete     Stage = "phase-complete"
	StageMilestoneComplete Stage = "milestone-complete"
	StageBlocked           Stage = "blocked"
)

// Step is one recommended command with its rationale.
type Step struct {
	Command string `json:"command"`
	Reason  string `json:"reason"`
}

// Suggestion is the coordinator's full answer: the derived stage, the
// single best next command, and other currently reasonable moves.
type Suggestion struct {
	Stage        Stage  `json:"stage"`
	Primary      Step   `json:"primary"`
	Alternatives []Step `json:"alternatives,omitempty"`
}

// successors maps a just-completed command to its documented follow-up.
// The hint biases the recommendation; it never overrides a terminal stage.
var successors = map[string]string{
	"gsd:new-project":   "gsd:plan-phase",
	"gsd:plan-phase":    "gsd:execute-phase",
	"gsd:execute-phase": "gsd:verify-work",
	"gsd:verify-work":   "gsd:plan-phase",
}

// DeriveStage reads the stage off the snapshot. Status text wins over
// roadmap ratios when both are present: the user's own record of "what
// is happening" is fresher than checkbox arithmetic.
func DeriveStage(snap *project.Snapshot) Stage {
	if snap.Empty() {
		return StageUninitialized
	}

	if snap.State != nil && len(snap.State.Blockers) > 0 {
		return StageBlocked
	}

	if snap.State != nil {
		if stage, ok := stageFromStatus(snap.State.Position.Status); ok {
			return stage
		}
	}

	if snap.Roadmap == nil {
		return StageNotStarted
	}
	switch ratio := snap.Roadmap.CompletionRatio(); {
	case ratio >= 1:
		return StageMilestoneComplete
	case ratio == 0 && snap.State == nil:
		return StageNotStarted
	}
	return stageFromRoadmap(snap.Roadmap)
}

// stageFromStatus interprets the free-text status line of STATE.md.
func stageFromStatus(status string) (Stage, bool) {
	s := strings.ToLower(status)
	switch {
	case s == "":
		return "", false
	case strings.Contains(s, "blocked"):
		return StageBlocked, true
	case strings.Contains(s, "milestone complete"):
		return StageMilestoneComplete, true
	case strings.Contains(s, "complete"):
		return StagePhaseComplete, true
	case strings.Contains(s, "plan"):
		return StagePhasePlanning, true
	case strings.Contains(s, "execut"), strings.Contains(s, "progress"), strings.Contains(s, "working"):
		return StagePhaseInProgress, true
	}
	return "", false
}

// stageFromRoadmap falls back to checkbox arithmetic: a current phase
// with no plans still needs planning, incomplete plans mean execution.
func stageFromRoadmap(r *project.Roadmap) Stage {
	phase, ok := r.NextIncompletePhase()
	if !ok {
		return StageMilestoneComplete
	}
	plans := r.PlansByPhase[phase.Number]
	if len(plans) == 0 {
		return StagePhasePlanning
	}
	for _, p := range plans {
		if !p.Complete {
			return StagePhaseInProgress
		}
	}
	return StagePhaseComplete
}

// SuggestNextStep recommends the next command. afterCommand, when
// non-empty, names the command that just completed and biases the
// recommendation toward its documented successor.
func SuggestNextStep(snap *project.Snapshot, afterCommand string) Suggestion {
	stage := DeriveStage(snap)
	suggestion := stageSuggestion(stage, snap)

	successor, hinted := successors[afterCommand]
	if !hinted || terminal(stage) || successor == suggestion.Primary.Command {
		return suggestion
	}

	// Promote the successor; the stage's own pick stays as the first
	// alternative so the hint widens the answer rather than hiding it.
	promoted := Step{
		Command: successor,
		Reason:  fmt.Sprintf("usual follow-up after %s", afterCommand),
	}
	suggestion.Alternatives = append([]Step{suggestion.Primary}, suggestion.Alternatives...)
	suggestion.Primary = promoted
	return suggestion
}

// terminal reports stages where a successor hint makes no sense.
func terminal(stage Stage) bool {
	return stage == StageUninitialized || stage == StageMilestoneComplete
}

func stageSuggestion(stage Stage, snap *project.Snapshot) Suggestion {
	phase := "the next phase"
	if snap != nil && snap.Roadmap != nil {
		if p, ok := snap.Roadmap.NextIncompletePhase(); ok {
			phase = fmt.Sprintf("phase %s (%s)", p.Number, p.Name)
		}
	}

	switch stage {
	case StageUninitialized:
		return Suggestion{
			Stage: stage,
			Primary: Step{
				Command: "gsd:new-project",
				Reason:  "no planning artifacts found; initialize the project first",
			},
			Alternatives: []Step{
				{Command: "gsd:help", Reason: "see what the toolkit can do"},
			},
		}
	case StageNotStarted:
		return Suggestion{
			Stage: stage,
			Primary: Step{
				Command: "gsd:plan-phase",
				Reason:  fmt.Sprintf("the roadmap exists but %s has not been planned", phase),
			},
			Alternatives: []Step{
				{Command: "gsd:progress", Reason: "review the roadmap before planning"},
			},
		}
	case StagePhasePlanning:
		return Suggestion{
			Stage: stage,
			Primary: Step{
				Command: "gsd:plan-phase",
				Reason:  fmt.Sprintf("finish planning %s", phase),
			},
			Alternatives: []Step{
				{Command: "gsd:progress", Reason: "check the current position"},
			},
		}
	case StagePhaseInProgress:
		return Suggestion{
			Stage: stage,
			Primary: Step{
				Command: "gsd:execute-phase",
				Reason:  fmt.Sprintf("%s has incomplete plans", phase),
			},
			Alternatives: []Step{
				{Command: "gsd:progress", Reason: "check the current position"},
				{Command: "gsd:plan-phase", Reason: "revise the plan if scope changed"},
			},
		}
	case StagePhaseComplete:
		return Suggestion{
			Stage: stage,
			Primary: Step{
				Command: "gsd:verify-work",
				Reason:  "the phase's plans are done; verify before moving on",
			},
			Alternatives: []Step{
				{Command: "gsd:plan-phase", Reason: fmt.Sprintf("start planning %s", phase)},
				{Command: "gsd:progress", Reason: "review what was completed"},
			},
		}
	case StageMilestoneComplete:
		return Suggestion{
			Stage: stage,
			Primary: Step{
				Command: "gsd:complete-milestone",
				Reason:  "every phase is complete; close out the milestone",
			},
			Alternatives: []Step{
				{Command: "gsd:progress", Reason: "review the finished roadmap"},
			},
		}
	case StageBlocked:
		primary := Step{
			Command: "gsd:progress",
			Reason:  "active blockers need review before more work lands",
		}
		if snap != nil && snap.State != nil && len(snap.State.Blockers) > 0 {
			primary.Reason = fmt.Sprintf("blocked: %s", snap.State.Blockers[0])
		}
		return Suggestion{
			Stage:   stage,
			Primary: primary,
			Alternatives: []Step{
				{Command: "gsd:plan-phase", Reason: "replan around the blocker"},
			},
		}
	}
	return Suggestion{
		Stage:   stage,
		Primary: Step{Command: "gsd:progress", Reason: "check the current position"},
	}
}
