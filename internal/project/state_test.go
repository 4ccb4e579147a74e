package project

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleState = `# Project State

## Current Position

**Phase:** 3 of 5 (Routing)
**Plan:** 2 of 4
Status: executing
Last activity: 2026-08-20 wired the gate evaluator
Progress: 45%

## Accumulated Context

### Decisions

- use additive smoothing for the classifier
- cache discovery on the version marker

### Blockers / Concerns

- None.

### Pending Todos

- wire history journal

## Session Continuity

Last session: 2026-08-20
Stopped at: classifier margin tuning
Resume file: .planning/phases/03/03-02-PLAN.md
`

func TestParseStateEmptyInput(t *testing.T) {
	assert.Nil(t, ParseState(""))
	assert.Nil(t, ParseState("  \n \t "))
}

func TestParseStateNoPositionFields(t *testing.T) {
	assert.Nil(t, ParseState("# State\n\n## Accumulated Context\n\n- stray bullet\n"))
}

func TestParseStatePosition(t *testing.T) {
	s := ParseState(sampleState)
	require.NotNil(t, s)

	assert.Equal(t, Position{
		Phase:        "3",
		TotalPhases:  5,
		PhaseName:    "Routing",
		Plan:         2,
		TotalPlans:   4,
		Status:       "executing",
		LastActivity: "2026-08-20 wired the gate evaluator",
		Progress:     45,
	}, s.Position)
}

func TestParseStateAccumulatedContext(t *testing.T) {
	s := ParseState(sampleState)
	require.NotNil(t, s)

	assert.Equal(t, []string{
		"use additive smoothing for the classifier",
		"cache discovery on the version marker",
	}, s.Decisions)

	// "None." records an explicitly empty section.
	assert.Empty(t, s.Blockers)
	assert.NotNil(t, s.Blockers)

	assert.Equal(t, []string{"wire history journal"}, s.PendingTodos)
}

func TestParseStateSessionContinuity(t *testing.T) {
	s := ParseState(sampleState)
	require.NotNil(t, s)

	assert.Equal(t, SessionContinuity{
		LastSession: "2026-08-20",
		StoppedAt:   "classifier margin tuning",
		ResumeFile:  ".planning/phases/03/03-02-PLAN.md",
	}, s.SessionContinuity)
}

func TestParseStatePartialPosition(t *testing.T) {
	s := ParseState("## Current Position\n\nPhase: 1\n")
	require.NotNil(t, s)
	assert.Equal(t, "1", s.Position.Phase)
	assert.Zero(t, s.Position.TotalPhases)
	assert.Empty(t, s.Position.Status)
}

func TestParseStateDecimalPhase(t *testing.T) {
	s := ParseState("## Current Position\n\nPhase: 2.5 of 6 (Hardening)\n")
	require.NotNil(t, s)
	assert.Equal(t, "2.5", s.Position.Phase)
	assert.Equal(t, 6, s.Position.TotalPhases)
	assert.Equal(t, "Hardening", s.Position.PhaseName)
}

func TestParseStateIgnoresMalformedLines(t *testing.T) {
	content := `## Current Position

Phase: abc of def
Progress: lots
Status: planning
`
	s := ParseState(content)
	require.NotNil(t, s)
	assert.Equal(t, "planning", s.Position.Status)
	assert.Empty(t, s.Position.Phase)
	assert.Zero(t, s.Position.Progress)
}
