package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"gsdkit/internal/project"
)

// ValidateConfigTool handles the gsd_validate_config MCP tool. It checks
// the raw (pre-default) config against per-field constraints, so a
// present-but-wrong value is always reported even though the parser
// would silently default an absent one.
type ValidateConfigTool struct{}

// NewValidateConfigTool creates a ValidateConfigTool.
func NewValidateConfigTool() *ValidateConfigTool {
	return &ValidateConfigTool{}
}

// Definition returns the MCP tool definition for registration.
func (t *ValidateConfigTool) Definition() mcp.Tool {
	return mcp.NewTool("gsd_validate_config",
		mcp.WithDescription(
			"Validate the project's config.json. Reports hard errors (wrong "+
				"types, out-of-range values), warnings (legal but unusual values), "+
				"and security notes (settings that weaken human oversight).",
		),
		mcp.WithString("content",
			mcp.Description("Raw config JSON to validate. Defaults to the project's .planning/config.json."),
		),
	)
}

// Handle processes the gsd_validate_config tool call.
func (t *ValidateConfigTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	content := req.GetString("content", "")
	source := "inline content"

	if content == "" {
		projectRoot, err := findProjectRoot()
		if err != nil {
			return nil, fmt.Errorf("finding project root: %w", err)
		}
		raw, ok := project.LoadConfigRaw(projectRoot)
		if !ok {
			return mcp.NewToolResultText(
				"No config.json found; the documented defaults apply. Nothing to validate."), nil
		}
		content = raw
		source = projectRoot + "/" + project.PlanningDir + "/config.json"
	}

	result := project.ValidateConfig(content)

	var b strings.Builder
	b.WriteString("# Config Validation\n\n")
	fmt.Fprintf(&b, "**Source:** %s\n", source)
	fmt.Fprintf(&b, "**Valid:** %v\n", result.Valid)

	writeIssues(&b, "Errors", result.Errors)
	writeIssues(&b, "Warnings", result.Warnings)
	writeIssues(&b, "Security Issues", result.SecurityIssues)

	if result.Valid && len(result.Warnings) == 0 && len(result.SecurityIssues) == 0 {
		b.WriteString("\nNo findings.")
	}

	return mcp.NewToolResultText(b.String()), nil
}

func writeIssues(b *strings.Builder, title string, issues []project.Issue) {
	if len(issues) == 0 {
		return
	}
	fmt.Fprintf(b, "\n## %s (%d)\n\n", title, len(issues))
	for _, issue := range issues {
		if issue.Field == "" {
			fmt.Fprintf(b, "- %s\n", issue.Message)
			continue
		}
		fmt.Fprintf(b, "- `%s`: %s\n", issue.Field, issue.Message)
	}
}
