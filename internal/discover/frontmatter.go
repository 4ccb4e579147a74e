package discover

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// splitFrontmatter separates a document into its metadata header and body.
// The header is the YAML between a leading "---" line and the next "---"
// line. Returns an error when the header is missing or empty — that is
// a structural failure, and discovery records it as a parse warning.
func splitFrontmatter(content string) (header, body string, err error) {
	trimmed := strings.TrimLeft(content, "\ufeff\n\r ")
	if !strings.HasPrefix(trimmed, "---") {
		return "", "", fmt.Errorf("missing metadata header")
	}

	rest := trimmed[3:]
	// The header ends at the first line consisting of "---".
	idx := strings.Index(rest, "\n---")
	if idx < 0 {
		return "", "", fmt.Errorf("unterminated metadata header")
	}

	header = strings.TrimSpace(rest[:idx])
	if header == "" {
		return "", "", fmt.Errorf("empty metadata header")
	}

	body = rest[idx+len("\n---"):]
	// Drop the remainder of the closing delimiter line.
	if nl := strings.IndexByte(body, '\n'); nl >= 0 {
		body = body[nl+1:]
	} else {
		body = ""
	}
	return header, body, nil
}

// stringList accepts both YAML shapes used for tool lists in the wild:
// a real sequence, or a single comma-separated scalar.
type stringList []string

func (l *stringList) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.SequenceNode:
		var items []string
		if err := node.Decode(&items); err != nil {
			return err
		}
		*l = items
		return nil
	case yaml.ScalarNode:
		var raw string
		if err := node.Decode(&raw); err != nil {
			return err
		}
		var items []string
		for _, part := range strings.Split(raw, ",") {
			if p := strings.TrimSpace(part); p != "" {
				items = append(items, p)
			}
		}
		*l = items
		return nil
	default:
		return fmt.Errorf("unsupported list shape")
	}
}

// commandHeader is the metadata header of a command file.
type commandHeader struct {
	Name         string     `yaml:"name"`
	Description  string     `yaml:"description"`
	ArgumentHint string     `yaml:"argument-hint"`
	AllowedTools stringList `yaml:"allowed-tools"`
	Agent        string     `yaml:"agent"`
}

// agentHeader is the metadata header of an agent file.
type agentHeader struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Tools       string `yaml:"tools"`
	Model       string `yaml:"model"`
	Color       string `yaml:"color"`
}

// extractObjective returns the contents of the first top-level
// <objective>...</objective> block in a command body. Nested <objective>
// tags inside the block belong to instructional text and stay part of
// the content — only the outermost pair delimits the extraction.
// Returns "" when no complete block exists.
func extractObjective(body string) string {
	const open, close = "<objective>", "</objective>"

	start := strings.Index(body, open)
	if start < 0 {
		return ""
	}

	depth := 1
	pos := start + len(open)
	for depth > 0 {
		nextOpen := strings.Index(body[pos:], open)
		nextClose := strings.Index(body[pos:], close)
		if nextClose < 0 {
			return "" // unterminated block
		}
		if nextOpen >= 0 && nextOpen < nextClose {
			depth++
			pos += nextOpen + len(open)
		} else {
			depth--
			pos += nextClose
			if depth == 0 {
				return strings.TrimSpace(body[start+len(open) : pos])
			}
			pos += len(close)
		}
	}
	return ""
}
