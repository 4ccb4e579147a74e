package project

import (
	"regexp"
	"strings"
)

// Checklist entry: - [x] **Phase 2: Routing** (Complete 2026-08-01) - description
// The completion note and trailing description are both optional, and the
// phase number may be decimal for inserted phases.
var phaseChecklistPattern = regexp.MustCompile(
	`^- \[([ xX])\] \*\*Phase (\d+(?:\.\d+)?): ([^*]+?)\*\*(?:\s*\(Complete ([^)]*)\))?(?:\s*[-:]\s*(.*))?$`)

// Detail section heading: ### Phase 2: Routing (or #### at deeper nesting).
var phaseDetailPattern = regexp.MustCompile(`^#{3,4} Phase (\d+(?:\.\d+)?)\s*[:.]`)

// Plan bullet: - [x] 02-01-PLAN.md -- description (also accepts a bare id
// like 02-01 and a ":" separator).
var planPattern = regexp.MustCompile(
	`^- \[([ xX])\] (\d+(?:\.\d+)?-\d+(?:-PLAN\.md)?)\s*(?:--|:)?\s*(.*)$`)

// Capability line: **Capabilities**: route: command/gsd:plan-phase, match: agent/gsd-planner
var capabilitiesPattern = regexp.MustCompile(`^\*\*Capabilities\*\*\s*:\s*(.*)$`)

// ParseRoadmap parses ROADMAP.md content. Malformed individual lines are
// skipped. Returns nil only when the input is empty/whitespace or contains
// no phase checklist at all.
func ParseRoadmap(content string) *Roadmap {
	if strings.TrimSpace(content) == "" {
		return nil
	}

	roadmap := &Roadmap{
		PlansByPhase:        map[string][]Plan{},
		CapabilitiesByPhase: map[string][]Capability{},
	}

	currentPhase := "" // phase number of the detail section being read
	inPlans := false

	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimRight(line, " \t")

		if m := phaseChecklistPattern.FindStringSubmatch(line); m != nil {
			roadmap.Phases = append(roadmap.Phases, Phase{
				Number:        m[2],
				Name:          strings.TrimSpace(m[3]),
				Complete:      m[1] != " ",
				CompletedInfo: strings.TrimSpace(m[4]),
				Description:   strings.TrimSpace(m[5]),
			})
			continue
		}

		if m := phaseDetailPattern.FindStringSubmatch(line); m != nil {
			currentPhase = m[1]
			inPlans = false
			continue
		}
		if strings.HasPrefix(line, "#") {
			// Any other heading ends the current detail section.
			currentPhase = ""
			inPlans = false
			continue
		}

		if currentPhase == "" {
			continue
		}

		if strings.HasPrefix(strings.TrimSpace(line), "Plans:") {
			inPlans = true
			continue
		}

		if m := capabilitiesPattern.FindStringSubmatch(strings.TrimSpace(line)); m != nil {
			roadmap.CapabilitiesByPhase[currentPhase] = parseCapabilities(m[1])
			continue
		}

		if inPlans {
			if m := planPattern.FindStringSubmatch(line); m != nil {
				roadmap.PlansByPhase[currentPhase] = append(roadmap.PlansByPhase[currentPhase], Plan{
					ID:          m[2],
					Complete:    m[1] != " ",
					Description: strings.TrimSpace(m[3]),
				})
			} else if !strings.HasPrefix(line, "- ") && strings.TrimSpace(line) != "" {
				// A non-bullet line ends the plan list.
				inPlans = false
			}
		}
	}

	if len(roadmap.Phases) == 0 {
		return nil
	}
	if len(roadmap.CapabilitiesByPhase) == 0 {
		roadmap.CapabilitiesByPhase = nil
	}
	return roadmap
}

// parseCapabilities splits "verb: type/name, verb: type/name" triples.
// Entries that do not fit the shape are skipped.
func parseCapabilities(raw string) []Capability {
	var caps []Capability
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		verb, rest, ok := strings.Cut(part, ":")
		if !ok {
			continue
		}
		typ, name, ok := strings.Cut(strings.TrimSpace(rest), "/")
		if !ok {
			continue
		}
		caps = append(caps, Capability{
			Verb: strings.TrimSpace(verb),
			Type: strings.TrimSpace(typ),
			Name: strings.TrimSpace(name),
		})
	}
	return caps
}

// CompletionRatio returns completed/total phases, or 0 when there are none.
func (r *Roadmap) CompletionRatio() float64 {
	if r == nil || len(r.Phases) == 0 {
		return 0
	}
	done := 0
	for _, p := range r.Phases {
		if p.Complete {
			done++
		}
	}
	return float64(done) / float64(len(r.Phases))
}

// NextIncompletePhase returns the first phase that is not complete.
func (r *Roadmap) NextIncompletePhase() (Phase, bool) {
	if r == nil {
		return Phase{}, false
	}
	for _, p := range r.Phases {
		if !p.Complete {
			return p, true
		}
	}
	return Phase{}, false
}
