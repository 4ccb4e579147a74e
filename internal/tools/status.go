package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"gsdkit/internal/history"
	"gsdkit/internal/lifecycle"
	"gsdkit/internal/project"
)

// StatusTool handles the gsd_status MCP tool: a read-only view of the
// project's planning artifacts and recent routing decisions.
type StatusTool struct {
	journal *history.Journal // nil when history is disabled
}

// NewStatusTool creates a StatusTool. journal may be nil.
func NewStatusTool(journal *history.Journal) *StatusTool {
	return &StatusTool{journal: journal}
}

// Definition returns the MCP tool definition for registration.
func (t *StatusTool) Definition() mcp.Tool {
	return mcp.NewTool("gsd_status",
		mcp.WithDescription(
			"Show the project's current position: roadmap completion, active "+
				"phase and plan, accumulated decisions and blockers, and the most "+
				"recent routing decisions.",
		),
		mcp.WithNumber("history",
			mcp.Description("How many recent routing decisions to include (default 5, 0 to omit)."),
		),
	)
}

// Handle processes the gsd_status tool call.
func (t *StatusTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	projectRoot, err := findProjectRoot()
	if err != nil {
		return nil, fmt.Errorf("finding project root: %w", err)
	}

	snapshot := project.Load(projectRoot)
	if snapshot.Empty() {
		return mcp.NewToolResultText(
			"No planning artifacts found. Run `gsd:new-project` to initialize the project."), nil
	}

	var b strings.Builder
	b.WriteString("# Project Status\n\n")

	if snapshot.Project != nil {
		fmt.Fprintf(&b, "**Project:** %s\n", snapshot.Project.Name)
		if snapshot.Project.CurrentMilestone != "" {
			fmt.Fprintf(&b, "**Milestone:** %s\n", snapshot.Project.CurrentMilestone)
		}
	}
	fmt.Fprintf(&b, "**Stage:** %s\n", lifecycle.DeriveStage(snapshot))

	if snapshot.Roadmap != nil {
		fmt.Fprintf(&b, "**Roadmap:** %.0f%% of %d phases complete\n",
			snapshot.Roadmap.CompletionRatio()*100, len(snapshot.Roadmap.Phases))
	}

	if snapshot.State != nil {
		pos := snapshot.State.Position
		b.WriteString("\n## Current Position\n\n")
		if pos.Phase != "" {
			fmt.Fprintf(&b, "- Phase %s of %d (%s)\n", pos.Phase, pos.TotalPhases, orDash(pos.PhaseName))
		}
		if pos.Plan != 0 {
			fmt.Fprintf(&b, "- Plan %d of %d\n", pos.Plan, pos.TotalPlans)
		}
		if pos.Status != "" {
			fmt.Fprintf(&b, "- Status: %s\n", pos.Status)
		}
		if pos.LastActivity != "" {
			fmt.Fprintf(&b, "- Last activity: %s\n", pos.LastActivity)
		}

		writeList(&b, "Decisions", snapshot.State.Decisions)
		writeList(&b, "Blockers", snapshot.State.Blockers)
		writeList(&b, "Pending Todos", snapshot.State.PendingTodos)
	}

	t.writeHistory(&b, snapshot, projectRoot, req.GetInt("history", 5))

	return mcp.NewToolResultText(b.String()), nil
}

func (t *StatusTool) writeHistory(b *strings.Builder, snap *project.Snapshot, root string, limit int) {
	if t.journal == nil || limit <= 0 {
		return
	}
	entries, err := t.journal.Recent(projectName(snap, root), limit)
	if err != nil || len(entries) == 0 {
		return
	}
	b.WriteString("\n## Recent Routing Decisions\n\n")
	for _, e := range entries {
		fmt.Fprintf(b, "- %s %q -> %s (%s, %.2f, gate %s)\n",
			e.CreatedAt, e.Query, orDash(e.Command), e.MatchType, e.Confidence, orDash(e.GateAction))
	}
}

func writeList(b *strings.Builder, title string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(b, "\n## %s\n\n", title)
	for _, item := range items {
		fmt.Fprintf(b, "- %s\n", item)
	}
}
