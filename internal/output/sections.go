// Package output controls how much diagnostic detail the routing pipeline
// surfaces. Every step of the pipeline emits tagged sections; the verbosity
// level decides which of them reach the caller.
//
// Five levels enable progressive disclosure:
//   - 1: only the routed result
//   - 2: + gate decision and reason
//   - 3: + classification candidates and confidence
//   - 4: + discovery and project-state summaries
//   - 5: everything, including raw parse warnings
package output

// Verbosity bounds. Levels outside this range are clamped by Clamp.
const (
	MinLevel = 1
	MaxLevel = 5
)

// Section is one tagged block of pipeline output. MinLevel is the lowest
// verbosity level at which the section is shown.
type Section struct {
	Tag      string `json:"tag"`
	Content  string `json:"content"`
	MinLevel int    `json:"min_level"`
}

// Clamp normalizes a verbosity level into [MinLevel, MaxLevel].
func Clamp(level int) int {
	if level < MinLevel {
		return MinLevel
	}
	if level > MaxLevel {
		return MaxLevel
	}
	return level
}

// FilterByVerbosity returns the sections whose MinLevel is at or below the
// given level, preserving input order. The input slice is never mutated;
// the result is always a fresh slice (empty input yields an empty result).
func FilterByVerbosity(sections []Section, level int) []Section {
	level = Clamp(level)
	out := make([]Section, 0, len(sections))
	for _, s := range sections {
		if s.MinLevel <= level {
			out = append(out, s)
		}
	}
	return out
}
