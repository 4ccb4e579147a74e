package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"gsdkit/internal/discover"
)

// DiscoverTool handles the gsd_discover MCP tool: it lists every
// command, agent, and team definition found under the artifact tree.
type DiscoverTool struct {
	scanner *discover.Scanner
}

// NewDiscoverTool creates a DiscoverTool sharing the router's scanner,
// so both benefit from the same mtime cache.
func NewDiscoverTool(scanner *discover.Scanner) *DiscoverTool {
	return &DiscoverTool{scanner: scanner}
}

// Definition returns the MCP tool definition for registration.
func (t *DiscoverTool) Definition() mcp.Tool {
	return mcp.NewTool("gsd_discover",
		mcp.WithDescription(
			"List the available gsd commands, specialist agents, and team "+
				"configurations. Malformed artifacts are skipped and reported as "+
				"warnings, never as failures.",
		),
		mcp.WithString("base_path",
			mcp.Description("Artifact directory override. Defaults to the project-local or global .gsd directory."),
		),
	)
}

// Handle processes the gsd_discover tool call.
func (t *DiscoverTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	projectRoot, err := findProjectRoot()
	if err != nil {
		return nil, fmt.Errorf("finding project root: %w", err)
	}

	basePath := resolveBasePath(req.GetString("base_path", ""), projectRoot)
	result, warnings := t.scanner.Discover(basePath)

	var b strings.Builder
	fmt.Fprintf(&b, "# Discovered Artifacts\n\n")
	fmt.Fprintf(&b, "**Base path:** `%s` (%s install)\n", result.BasePath, result.Location)
	fmt.Fprintf(&b, "**Version:** %s\n\n", orDash(result.Version))

	fmt.Fprintf(&b, "## Commands (%d)\n\n", len(result.Commands))
	for _, cmd := range result.Commands {
		fmt.Fprintf(&b, "- `%s` — %s\n", cmd.Name, orDash(cmd.Description))
	}

	fmt.Fprintf(&b, "\n## Agents (%d)\n\n", len(result.Agents))
	for _, agent := range result.Agents {
		fmt.Fprintf(&b, "- `%s` — %s\n", agent.Name, orDash(agent.Description))
	}

	fmt.Fprintf(&b, "\n## Teams (%d)\n\n", len(result.Teams))
	for _, team := range result.Teams {
		fmt.Fprintf(&b, "- `%s` (%d members) — %s\n", team.Name, team.MemberCount, orDash(team.Description))
	}

	if len(warnings) > 0 {
		fmt.Fprintf(&b, "\n## Warnings (%d)\n\n", len(warnings))
		for _, w := range warnings {
			fmt.Fprintf(&b, "- %s: `%s`\n", w.Type, w.Path)
		}
	}

	return mcp.NewToolResultText(b.String()), nil
}
