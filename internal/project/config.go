package project

import (
	"encoding/json"
	"strings"
)

// Config is the fully defaulted project configuration. Every field has a
// documented default, so parsing "{}" yields a complete, stable object.
type Config struct {
	// Mode gates destructive commands: "interactive" (default) or "yolo".
	Mode string `json:"mode"`
	// Depth tunes how thorough planning is: "quick", "standard" (default),
	// or "comprehensive".
	Depth string `json:"depth"`
	// ModelProfile selects the model trade-off: "quality", "balanced"
	// (default), or "budget".
	ModelProfile string `json:"model_profile"`
	// CommitDocs commits planning artifacts alongside code. Default true.
	CommitDocs bool `json:"commit_docs"`
	// CheckpointApproval pauses for human sign-off at checkpoints.
	// Default true; disabling it weakens oversight (see validate.go).
	CheckpointApproval bool `json:"checkpoint_approval"`
	// Verbosity is the default output level, 1-5. Default 2.
	Verbosity int `json:"verbosity"`
	// Parallelization controls concurrent plan execution. Default off
	// with max_parallel 3.
	Parallelization Parallelization `json:"parallelization"`
}

// Parallelization accepts either a bare boolean or an object on disk;
// both normalize to this struct. Unknown object keys pass through in
// Extra unchanged.
type Parallelization struct {
	Enabled     bool           `json:"enabled"`
	MaxParallel int            `json:"max_parallel"`
	Extra       map[string]any `json:"extra,omitempty"`
}

// DefaultConfig returns the reference default object — exactly what
// ParseConfig("{}") produces.
func DefaultConfig() *Config {
	return &Config{
		Mode:               "interactive",
		Depth:              "standard",
		ModelProfile:       "balanced",
		CommitDocs:         true,
		CheckpointApproval: true,
		Verbosity:          2,
		Parallelization:    Parallelization{Enabled: false, MaxParallel: 3},
	}
}

// ParseConfig parses config.json content into a fully defaulted Config.
// Returns nil for empty/whitespace input, invalid JSON, and non-object
// JSON (arrays, strings, numbers). Present fields override defaults;
// present fields of the wrong type are ignored here — flagging them is
// the validator's job, and it does so loudly.
//
// The legacy nested "planning.commit_docs" is hoisted to the top level
// only when no top-level value is present; an explicit top-level value
// always wins.
func ParseConfig(content string) *Config {
	if strings.TrimSpace(content) == "" {
		return nil
	}

	var raw map[string]any
	if err := json.Unmarshal([]byte(content), &raw); err != nil {
		return nil
	}
	if raw == nil {
		return nil // JSON "null"
	}

	cfg := DefaultConfig()

	if v, ok := raw["mode"].(string); ok {
		cfg.Mode = v
	}
	if v, ok := raw["depth"].(string); ok {
		cfg.Depth = v
	}
	if v, ok := raw["model_profile"].(string); ok {
		cfg.ModelProfile = v
	}
	if v, ok := raw["commit_docs"].(bool); ok {
		cfg.CommitDocs = v
	} else if legacy, ok := legacyCommitDocs(raw); ok {
		cfg.CommitDocs = legacy
	}
	if v, ok := raw["checkpoint_approval"].(bool); ok {
		cfg.CheckpointApproval = v
	}
	if v, ok := raw["verbosity"].(float64); ok && v == float64(int(v)) {
		cfg.Verbosity = int(v)
	}
	if v, ok := raw["parallelization"]; ok {
		cfg.Parallelization = parseParallelization(v, cfg.Parallelization)
	}

	return cfg
}

// legacyCommitDocs digs the nested planning.commit_docs out of the old
// template config shape.
func legacyCommitDocs(raw map[string]any) (bool, bool) {
	planning, ok := raw["planning"].(map[string]any)
	if !ok {
		return false, false
	}
	v, ok := planning["commit_docs"].(bool)
	return v, ok
}

// parseParallelization normalizes the bool-or-object shape. Anything
// else keeps the defaults.
func parseParallelization(v any, defaults Parallelization) Parallelization {
	switch val := v.(type) {
	case bool:
		defaults.Enabled = val
		return defaults
	case map[string]any:
		p := defaults
		for key, item := range val {
			switch key {
			case "enabled":
				if b, ok := item.(bool); ok {
					p.Enabled = b
				}
			case "max_parallel":
				if n, ok := item.(float64); ok && n == float64(int(n)) {
					p.MaxParallel = int(n)
				}
			default:
				if p.Extra == nil {
					p.Extra = map[string]any{}
				}
				p.Extra[key] = item
			}
		}
		return p
	default:
		return defaults
	}
}
