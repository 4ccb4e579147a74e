package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"gsdkit/internal/extension"
)

// ExtensionTool handles the gsd_extension MCP tool: reports whether the
// semantic extension is installed and what it enables.
type ExtensionTool struct{}

// NewExtensionTool creates an ExtensionTool.
func NewExtensionTool() *ExtensionTool {
	return &ExtensionTool{}
}

// Definition returns the MCP tool definition for registration.
func (t *ExtensionTool) Definition() mcp.Tool {
	return mcp.NewTool("gsd_extension",
		mcp.WithDescription(
			"Probe for the semantic extension. Tries the companion CLI binary "+
				"first, then the installed package directory; reports which probe "+
				"succeeded and the feature flags it enables.",
		),
	)
}

// Handle processes the gsd_extension tool call.
func (t *ExtensionTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	caps := extension.Detect(nil)

	var b strings.Builder
	b.WriteString("# Extension Capabilities\n\n")
	fmt.Fprintf(&b, "**Detected:** %v\n", caps.Detected)
	fmt.Fprintf(&b, "**Method:** %s\n", caps.Method)
	fmt.Fprintf(&b, "**Version:** %s\n\n", orDash(caps.Version))

	b.WriteString("## Features\n\n")
	fmt.Fprintf(&b, "- Semantic classification: %v\n", caps.Features.SemanticClassification)
	fmt.Fprintf(&b, "- Semantic search: %v\n", caps.Features.SemanticSearch)
	fmt.Fprintf(&b, "- Agent matching: %v\n", caps.Features.AgentMatching)
	fmt.Fprintf(&b, "- Duplicate detection: %v\n", caps.Features.DuplicateDetection)

	if !caps.Detected {
		b.WriteString("\nInstall the gsd-semantic CLI to enable semantic routing.")
	}

	return mcp.NewToolResultText(b.String()), nil
}
