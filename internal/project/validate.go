package project

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Config validation is deliberately fail-hard, the opposite philosophy
// from the default-filling parser: a field that is present with the
// wrong type or an out-of-range value is an error, never silently
// replaced by a default. Misconfiguration gets surfaced, not corrected.

// Issue is one validation finding.
type Issue struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationResult buckets findings by severity. Errors make the config
// unusable; warnings flag unusual-but-legal values; security issues flag
// settings that weaken human oversight.
type ValidationResult struct {
	Valid          bool    `json:"valid"`
	Errors         []Issue `json:"errors"`
	Warnings       []Issue `json:"warnings"`
	SecurityIssues []Issue `json:"security_issues"`
}

// fieldRule is one entry of the validation registry. validate returns
// hard errors and soft warnings separately.
type fieldRule struct {
	name     string
	validate func(value any) (errors, warnings []Issue)
}

// maxParallelWarnThreshold flags configurations that would fan out more
// concurrent executors than a review process can realistically follow.
const maxParallelWarnThreshold = 8

// configRules is the per-field constraint registry. Validation walks the
// raw (pre-default) object, so absent fields are simply not checked.
var configRules = []fieldRule{
	{"mode", enumRule("mode", "interactive", "yolo")},
	{"depth", enumRule("depth", "quick", "standard", "comprehensive")},
	{"model_profile", enumRule("model_profile", "quality", "balanced", "budget")},
	{"commit_docs", boolRule("commit_docs")},
	{"checkpoint_approval", boolRule("checkpoint_approval")},
	{"verbosity", intRangeRule("verbosity", 1, 5)},
	{"parallelization", validateParallelization},
}

// ValidateConfig checks a raw config document against the registry.
// The input is the pre-default JSON (the same content ParseConfig sees).
// Validation never consults defaults: an absent field is simply not
// checked, but a present field must satisfy its rule.
func ValidateConfig(content string) ValidationResult {
	result := ValidationResult{
		Errors:         []Issue{},
		Warnings:       []Issue{},
		SecurityIssues: []Issue{},
	}

	var raw map[string]any
	if strings.TrimSpace(content) != "" {
		if err := json.Unmarshal([]byte(content), &raw); err != nil || raw == nil {
			result.Errors = append(result.Errors, Issue{
				Message: "configuration is not a JSON object",
			})
			return result
		}
	}

	for _, rule := range configRules {
		value, present := raw[rule.name]
		if !present {
			continue
		}
		errs, warns := rule.validate(value)
		result.Errors = append(result.Errors, errs...)
		result.Warnings = append(result.Warnings, warns...)
	}

	result.SecurityIssues = append(result.SecurityIssues, securityIssues(raw)...)
	result.Valid = len(result.Errors) == 0
	return result
}

// securityIssues flags settings that reduce human oversight. These are
// legal values — the config still works — but the user should know what
// they traded away.
func securityIssues(raw map[string]any) []Issue {
	var issues []Issue
	if v, ok := raw["checkpoint_approval"].(bool); ok && !v {
		issues = append(issues, Issue{
			Field:   "checkpoint_approval",
			Message: "checkpoint approval is disabled: work proceeds past checkpoints without human sign-off",
		})
	}
	if v, ok := raw["mode"].(string); ok && v == "yolo" {
		issues = append(issues, Issue{
			Field:   "mode",
			Message: "yolo mode skips confirmation for destructive commands",
		})
	}
	return issues
}

func enumRule(field string, allowed ...string) func(any) ([]Issue, []Issue) {
	return func(value any) ([]Issue, []Issue) {
		s, ok := value.(string)
		if !ok {
			return []Issue{{Field: field, Message: fmt.Sprintf("must be a string, got %s", typeName(value))}}, nil
		}
		for _, a := range allowed {
			if s == a {
				return nil, nil
			}
		}
		return []Issue{{Field: field, Message: fmt.Sprintf("%q is not one of: %s", s, strings.Join(allowed, ", "))}}, nil
	}
}

func boolRule(field string) func(any) ([]Issue, []Issue) {
	return func(value any) ([]Issue, []Issue) {
		if _, ok := value.(bool); !ok {
			return []Issue{{Field: field, Message: fmt.Sprintf("must be a boolean, got %s", typeName(value))}}, nil
		}
		return nil, nil
	}
}

func intRangeRule(field string, min, max int) func(any) ([]Issue, []Issue) {
	return func(value any) ([]Issue, []Issue) {
		f, ok := value.(float64)
		if !ok || f != float64(int(f)) {
			return []Issue{{Field: field, Message: fmt.Sprintf("must be an integer, got %s", typeName(value))}}, nil
		}
		n := int(f)
		if n < min || n > max {
			return []Issue{{Field: field, Message: fmt.Sprintf("%d is out of range [%d, %d]", n, min, max)}}, nil
		}
		return nil, nil
	}
}

// validateParallelization accepts the bool-or-object shape and checks
// max_parallel when present. Unknown object keys pass through silently —
// they are forwarded, not interpreted.
func validateParallelization(value any) (errors, warnings []Issue) {
	switch val := value.(type) {
	case bool:
		return nil, nil
	case map[string]any:
		if e, present := val["enabled"]; present {
			if _, ok := e.(bool); !ok {
				errors = append(errors, Issue{Field: "parallelization.enabled",
					Message: fmt.Sprintf("must be a boolean, got %s", typeName(e))})
			}
		}
		if m, present := val["max_parallel"]; present {
			f, ok := m.(float64)
			switch {
			case !ok || f != float64(int(f)):
				errors = append(errors, Issue{Field: "parallelization.max_parallel",
					Message: fmt.Sprintf("must be an integer, got %s", typeName(m))})
			case int(f) < 1:
				errors = append(errors, Issue{Field: "parallelization.max_parallel",
					Message: fmt.Sprintf("%d must be at least 1", int(f))})
			case int(f) > maxParallelWarnThreshold:
				warnings = append(warnings, Issue{Field: "parallelization.max_parallel",
					Message: fmt.Sprintf("%d concurrent executors is unusually high", int(f))})
			}
		}
		return errors, warnings
	default:
		return []Issue{{Field: "parallelization",
			Message: fmt.Sprintf("must be a boolean or an object, got %s", typeName(value))}}, nil
	}
}

// typeName names a decoded JSON value's type for error messages.
func typeName(value any) string {
	switch value.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case float64:
		return "number"
	case string:
		return "string"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return "unknown"
	}
}
