// Package gate decides whether a routed command may run immediately,
// needs user confirmation, or must be blocked.
//
// Evaluate is a pure policy function: no I/O, no state, fully
// deterministic. The same inputs always produce the same decision, so
// callers may evaluate as often as they like (the route tool evaluates
// once per classification).
package gate

import "strings"

// Mode is the operating mode the tool is running under.
type Mode string

const (
	// ModeInteractive pauses on anything that mutates project files.
	ModeInteractive Mode = "interactive"
	// ModeYolo skips confirmation for destructive commands. Low-confidence
	// routing still confirms — mode never overrides a shaky classification.
	ModeYolo Mode = "yolo"
)

// Action is the gate's verdict.
type Action string

const (
	ActionProceed Action = "proceed"
	ActionConfirm Action = "confirm"
	ActionBlock   Action = "block"
)

// Type categorizes why the gate fired.
type Type string

const (
	// TypeRouting covers read-only commands: status, reporting, help.
	TypeRouting Type = "routing"
	// TypeDestructive covers commands that mutate project files.
	TypeDestructive Type = "destructive"
	// TypeLowConfidence overrides the command's own type whenever the
	// classification confidence falls below ConfidenceThreshold.
	TypeLowConfidence Type = "low-confidence"
)

// ConfidenceThreshold is the classification confidence below which every
// command requires confirmation, regardless of its policy type.
const ConfidenceThreshold = 0.5

// Decision is the gate's full output.
type Decision struct {
	Action Action `json:"action"`
	Type   Type   `json:"gate_type"`
	Reason string `json:"reason"`
}

// routingVerbs lists command verbs that only read and report. Everything
// not listed here is treated as destructive — the conservative default
// for commands the policy table has never seen.
var routingVerbs = map[string]bool{
	"help":        true,
	"progress":    true,
	"status":      true,
	"check-todos": true,
	"list-phases": true,
	"audit":       true,
	"show":        true,
}

// Classify returns the policy type for a command name. The name may be
// namespaced ("gsd:progress") or bare ("progress"); only the verb matters.
func Classify(commandName string) Type {
	verb := commandName
	if i := strings.LastIndex(commandName, ":"); i >= 0 {
		verb = commandName[i+1:]
	}
	if routingVerbs[verb] {
		return TypeRouting
	}
	return TypeDestructive
}

// Evaluate applies the decision table:
//
//	low-confidence -> confirm (mode has no effect)
//	destructive    -> confirm in interactive mode, proceed in yolo mode
//	routing        -> proceed
//
// Every input has a defined output; Evaluate never fails.
func Evaluate(commandName string, mode Mode, confidence float64) Decision {
	if confidence < ConfidenceThreshold {
		return Decision{
			Action: ActionConfirm,
			Type:   TypeLowConfidence,
			Reason: "classification confidence is too low to route without confirmation",
		}
	}

	switch Classify(commandName) {
	case TypeRouting:
		return Decision{
			Action: ActionProceed,
			Type:   TypeRouting,
			Reason: "read-only command",
		}
	default:
		if mode == ModeYolo {
			return Decision{
				Action: ActionProceed,
				Type:   TypeDestructive,
				Reason: "destructive command allowed in yolo mode",
			}
		}
		return Decision{
			Action: ActionConfirm,
			Type:   TypeDestructive,
			Reason: "command mutates project files",
		}
	}
}
