package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"gsdkit/internal/lifecycle"
	"gsdkit/internal/project"
)

// NextTool handles the gsd_next MCP tool: what to do next, given where
// the project stands.
type NextTool struct{}

// NewNextTool creates a NextTool.
func NewNextTool() *NextTool {
	return &NextTool{}
}

// Definition returns the MCP tool definition for registration.
func (t *NextTool) Definition() mcp.Tool {
	return mcp.NewTool("gsd_next",
		mcp.WithDescription(
			"Recommend the next gsd command based on roadmap completion and the "+
				"current position. Pass `after` to bias toward the documented "+
				"follow-up of a command that just finished.",
		),
		mcp.WithString("after",
			mcp.Description("Name of the command that just completed, e.g. `gsd:plan-phase`."),
		),
	)
}

// Handle processes the gsd_next tool call.
func (t *NextTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	projectRoot, err := findProjectRoot()
	if err != nil {
		return nil, fmt.Errorf("finding project root: %w", err)
	}

	snapshot := project.Load(projectRoot)
	suggestion := lifecycle.SuggestNextStep(snapshot, req.GetString("after", ""))

	var b strings.Builder
	b.WriteString("# Next Step\n\n")
	fmt.Fprintf(&b, "**Stage:** %s\n\n", suggestion.Stage)
	fmt.Fprintf(&b, "**Run:** `%s`\n%s\n", suggestion.Primary.Command, suggestion.Primary.Reason)

	if len(suggestion.Alternatives) > 0 {
		b.WriteString("\n## Alternatives\n\n")
		for _, alt := range suggestion.Alternatives {
			fmt.Fprintf(&b, "- `%s` — %s\n", alt.Command, alt.Reason)
		}
	}

	return mcp.NewToolResultText(b.String()), nil
}
