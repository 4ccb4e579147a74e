package project

import (
	"regexp"
	"strconv"
	"strings"
)

// Position lines: "Phase: 3 of 5 (Routing)" / "Plan: 2 of 4" /
// "Status: ..." / "Last activity: ..." / "Progress: 45%".
// Bold markers around the label are tolerated.
var (
	phaseLinePattern    = regexp.MustCompile(`^Phase:\s*(\d+(?:\.\d+)?)(?:\s+of\s+(\d+))?(?:\s*\(([^)]*)\))?`)
	planLinePattern     = regexp.MustCompile(`^Plan:\s*(\d+)(?:\s+of\s+(\d+))?`)
	progressLinePattern = regexp.MustCompile(`^Progress:\s*(\d+)\s*%`)
)

// Section names under "## Accumulated Context".
const (
	sectionDecisions = "decisions"
	sectionBlockers  = "blockers"
	sectionTodos     = "todos"
)

// ParseState parses STATE.md content. Every position field is
// independently optional; bullet subsections holding only "None." yield
// empty lists. Returns nil for empty input or when no position field at
// all could be found.
func ParseState(content string) *State {
	if strings.TrimSpace(content) == "" {
		return nil
	}

	state := &State{
		Decisions:    []string{},
		Blockers:     []string{},
		PendingTodos: []string{},
	}

	section := ""    // current ## section, lowercased
	subsection := "" // current ### subsection key
	foundPosition := false

	for _, raw := range strings.Split(content, "\n") {
		line := strings.TrimSpace(raw)
		line = strings.ReplaceAll(line, "**", "")

		switch {
		case strings.HasPrefix(line, "## "):
			section = strings.ToLower(strings.TrimPrefix(line, "## "))
			subsection = ""
			continue
		case strings.HasPrefix(line, "### "):
			name := strings.ToLower(strings.TrimPrefix(line, "### "))
			switch {
			case strings.Contains(name, "decision"):
				subsection = sectionDecisions
			case strings.Contains(name, "blocker"), strings.Contains(name, "concern"):
				subsection = sectionBlockers
			case strings.Contains(name, "todo"):
				subsection = sectionTodos
			default:
				subsection = ""
			}
			continue
		}

		switch {
		case strings.HasPrefix(section, "current position"):
			if parsePositionLine(line, &state.Position) {
				foundPosition = true
			}

		case strings.HasPrefix(section, "accumulated context"):
			item, ok := bulletItem(line)
			if !ok {
				continue
			}
			switch subsection {
			case sectionDecisions:
				state.Decisions = append(state.Decisions, item)
			case sectionBlockers:
				state.Blockers = append(state.Blockers, item)
			case sectionTodos:
				state.PendingTodos = append(state.PendingTodos, item)
			}

		case strings.HasPrefix(section, "session continuity"):
			parseContinuityLine(line, &state.SessionContinuity)
		}
	}

	if !foundPosition {
		return nil
	}
	return state
}

// parsePositionLine fills one field of the position block. Returns true
// when the line matched a known field.
func parsePositionLine(line string, pos *Position) bool {
	if m := phaseLinePattern.FindStringSubmatch(line); m != nil {
		pos.Phase = m[1]
		pos.TotalPhases, _ = strconv.Atoi(m[2])
		pos.PhaseName = strings.TrimSpace(m[3])
		return true
	}
	if m := planLinePattern.FindStringSubmatch(line); m != nil {
		pos.Plan, _ = strconv.Atoi(m[1])
		pos.TotalPlans, _ = strconv.Atoi(m[2])
		return true
	}
	if m := progressLinePattern.FindStringSubmatch(line); m != nil {
		pos.Progress, _ = strconv.Atoi(m[1])
		return true
	}
	if value, ok := labelValue(line, "Status"); ok {
		pos.Status = value
		return true
	}
	if value, ok := labelValue(line, "Last activity"); ok {
		pos.LastActivity = value
		return true
	}
	return false
}

// parseContinuityLine fills one field of the session continuity block.
func parseContinuityLine(line string, sc *SessionContinuity) {
	if value, ok := labelValue(line, "Last session"); ok {
		sc.LastSession = value
	} else if value, ok := labelValue(line, "Stopped at"); ok {
		sc.StoppedAt = value
	} else if value, ok := labelValue(line, "Resume file"); ok {
		sc.ResumeFile = value
	}
}

// labelValue extracts "Label: value" with a case-insensitive label.
func labelValue(line, label string) (string, bool) {
	if len(line) < len(label)+1 || !strings.EqualFold(line[:len(label)], label) {
		return "", false
	}
	rest := strings.TrimSpace(line[len(label):])
	if !strings.HasPrefix(rest, ":") {
		return "", false
	}
	return strings.TrimSpace(rest[1:]), true
}

// bulletItem extracts the text of a "- item" bullet. The literal "None."
// marker (a section explicitly recording nothing) is not a bullet and
// yields nothing, which keeps the list empty.
func bulletItem(line string) (string, bool) {
	if !strings.HasPrefix(line, "- ") {
		return "", false
	}
	item := strings.TrimSpace(line[2:])
	if item == "" || strings.EqualFold(item, "none.") || strings.EqualFold(item, "none") {
		return "", false
	}
	return item, true
}
