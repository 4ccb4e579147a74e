package project

import "strings"

// ParseProject parses PROJECT.md content: the first "# " heading is the
// project name, "## Current Milestone: ..." carries the milestone, and
// the first paragraph under "## Core Value" and "## What This Is" fill
// the core value and description. Missing individual sections yield
// empty fields; only empty input yields nil.
func ParseProject(content string) *Document {
	if strings.TrimSpace(content) == "" {
		return nil
	}

	doc := &Document{}
	lines := strings.Split(content, "\n")
	section := ""

	for i := 0; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])

		if strings.HasPrefix(line, "# ") && !strings.HasPrefix(line, "## ") {
			if doc.Name == "" {
				doc.Name = strings.TrimSpace(line[2:])
			}
			section = ""
			continue
		}

		if strings.HasPrefix(line, "## ") {
			heading := strings.TrimSpace(line[3:])
			if milestone, ok := cutPrefixFold(heading, "Current Milestone:"); ok {
				doc.CurrentMilestone = strings.TrimSpace(milestone)
				section = ""
				continue
			}
			section = strings.ToLower(heading)
			continue
		}

		switch section {
		case "core value":
			if doc.CoreValue == "" && line != "" {
				doc.CoreValue = firstParagraph(lines, i)
			}
		case "what this is":
			if doc.Description == "" && line != "" {
				doc.Description = firstParagraph(lines, i)
			}
		}
	}

	return doc
}

// firstParagraph joins the contiguous non-blank lines starting at index i.
func firstParagraph(lines []string, i int) string {
	var parts []string
	for ; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])
		if line == "" || strings.HasPrefix(line, "#") {
			break
		}
		parts = append(parts, line)
	}
	return strings.Join(parts, " ")
}

// cutPrefixFold is strings.CutPrefix with a case-insensitive prefix match.
func cutPrefixFold(s, prefix string) (string, bool) {
	if len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix) {
		return s[len(prefix):], true
	}
	return s, false
}
