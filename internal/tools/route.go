package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"gsdkit/internal/discover"
	"gsdkit/internal/extension"
	"gsdkit/internal/gate"
	"gsdkit/internal/history"
	"gsdkit/internal/intent"
	"gsdkit/internal/lifecycle"
	"gsdkit/internal/output"
	"gsdkit/internal/project"
)

// RouteTool handles the gsd_route MCP tool: the full pipeline from raw
// user input to a gated command recommendation.
type RouteTool struct {
	scanner *discover.Scanner
	journal *history.Journal // nil when history is disabled

	// detect and scorer are replaceable in tests; the defaults probe
	// and invoke the real companion.
	detect func() extension.Capabilities
	scorer intent.SemanticScorer
}

// NewRouteTool creates a RouteTool. journal may be nil; routing works
// without it, decisions simply go unrecorded.
func NewRouteTool(scanner *discover.Scanner, journal *history.Journal) *RouteTool {
	return &RouteTool{
		scanner: scanner,
		journal: journal,
		detect:  func() extension.Capabilities { return extension.Detect(nil) },
		scorer:  extension.NewScorer(),
	}
}

// Definition returns the MCP tool definition for registration.
func (t *RouteTool) Definition() mcp.Tool {
	return mcp.NewTool("gsd_route",
		mcp.WithDescription(
			"Route a raw user request to the right gsd command. Matches explicit "+
				"`/namespace:verb` invocations exactly, classifies natural language "+
				"against the discovered command set, and gates the result by command "+
				"type and confidence. Returns the match, the gate decision, and the "+
				"suggested next step.",
		),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("The raw user request, either `/ns:verb args` or natural language."),
		),
		mcp.WithString("mode",
			mcp.Description("Gate mode: `interactive` (default, confirm destructive commands) or `yolo`."),
		),
		mcp.WithNumber("verbosity",
			mcp.Description("Output detail level 1-5. Defaults to the project config's verbosity."),
		),
		mcp.WithString("base_path",
			mcp.Description("Artifact directory override. Defaults to the project-local or global .gsd directory."),
		),
		mcp.WithBoolean("enable_semantic",
			mcp.Description("Request semantic classification when the extension is installed."),
		),
	)
}

// Handle processes the gsd_route tool call.
func (t *RouteTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query := strings.TrimSpace(req.GetString("query", ""))
	if query == "" {
		return mcp.NewToolResultError("`query` must not be empty."), nil
	}

	projectRoot, err := findProjectRoot()
	if err != nil {
		return nil, fmt.Errorf("finding project root: %w", err)
	}

	basePath := resolveBasePath(req.GetString("base_path", ""), projectRoot)
	result, warnings := t.scanner.Discover(basePath)
	snapshot := project.Load(projectRoot)
	caps := t.detect()

	mode, err := gateMode(req.GetString("mode", ""), snapshot.Config)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	classifier := intent.NewClassifier()
	classifier.Train(&result, intent.Options{
		EnableSemantic: req.GetBool("enable_semantic", false),
		Capabilities:   caps,
		Scorer:         t.scorer,
	})
	match := classifier.Classify(query, stateOf(snapshot))

	decision := gate.Decision{Action: gate.ActionConfirm, Type: gate.TypeLowConfidence, Reason: "no command matched"}
	commandName := ""
	if match.Command != nil {
		commandName = match.Command.Name
		decision = gate.Evaluate(commandName, mode, match.Confidence)
	}

	suggestion := lifecycle.SuggestNextStep(snapshot, "")

	t.record(history.Entry{
		Project:    projectName(snapshot, projectRoot),
		Query:      query,
		Command:    commandName,
		MatchType:  match.Type,
		Method:     match.Method,
		Confidence: match.Confidence,
		GateAction: string(decision.Action),
	})

	sections := routeSections(query, match, decision, suggestion, result, caps, warnings)
	level := verbosityLevel(req, snapshot.Config)
	return mcp.NewToolResultText(renderSections(output.FilterByVerbosity(sections, level))), nil
}

// record journals the decision best-effort: routing never fails because
// the journal is unavailable.
func (t *RouteTool) record(e history.Entry) {
	if t.journal == nil {
		return
	}
	if _, err := t.journal.Record(e); err != nil {
		log.Printf("WARNING: recording routing decision: %v", err)
	}
}

// routeSections assembles the layered diagnostic output. Level 1 carries
// only the routed result; higher levels add context.
func routeSections(
	query string,
	match intent.Result,
	decision gate.Decision,
	suggestion lifecycle.Suggestion,
	result discover.Result,
	caps extension.Capabilities,
	warnings []discover.Warning,
) []output.Section {
	sections := []output.Section{
		{Tag: "result", MinLevel: 1, Content: resultSection(match, decision)},
		{Tag: "next-step", MinLevel: 2, Content: fmt.Sprintf(
			"## Next Step\n\n`%s` — %s", suggestion.Primary.Command, suggestion.Primary.Reason)},
		{Tag: "classification", MinLevel: 3, Content: classificationSection(query, match)},
		{Tag: "discovery", MinLevel: 4, Content: fmt.Sprintf(
			"## Discovery\n\n%d commands, %d agents, %d teams from `%s` (%s install, version %s)",
			len(result.Commands), len(result.Agents), len(result.Teams),
			result.BasePath, result.Location, orDash(result.Version))},
		{Tag: "diagnostics", MinLevel: 5, Content: diagnosticsSection(caps, warnings)},
	}
	return sections
}

func resultSection(match intent.Result, decision gate.Decision) string {
	var b strings.Builder
	b.WriteString("# Routing Result\n\n")

	switch match.Type {
	case intent.TypeAmbiguous:
		b.WriteString("**Match:** ambiguous\n")
		if len(match.Candidates) > 0 {
			b.WriteString("\nTop candidates:\n")
			for _, cand := range match.Candidates {
				fmt.Fprintf(&b, "- `%s` (%.2f)\n", cand.Command.Name, cand.Confidence)
			}
		}
	case intent.TypeError:
		fmt.Fprintf(&b, "**Match:** error — %s\n", match.Message)
	default:
		fmt.Fprintf(&b, "**Command:** `%s`\n", match.Command.Name)
		fmt.Fprintf(&b, "**Confidence:** %.2f (%s)\n", match.Confidence, match.Method)
		if len(match.Arguments.Positional) > 0 {
			fmt.Fprintf(&b, "**Arguments:** %s\n", strings.Join(match.Arguments.Positional, ", "))
		}
		for key, value := range match.Arguments.Named {
			fmt.Fprintf(&b, "**--%s:** %s\n", key, value)
		}
	}

	fmt.Fprintf(&b, "\n**Gate:** %s (%s) — %s", decision.Action, decision.Type, decision.Reason)
	return b.String()
}

func classificationSection(query string, match intent.Result) string {
	detail, err := json.MarshalIndent(match, "", "  ")
	if err != nil {
		detail = []byte(fmt.Sprintf("%+v", match))
	}
	return fmt.Sprintf("## Classification\n\nQuery: %q\n\n```json\n%s\n```", query, detail)
}

func diagnosticsSection(caps extension.Capabilities, warnings []discover.Warning) string {
	var b strings.Builder
	b.WriteString("## Diagnostics\n\n")
	fmt.Fprintf(&b, "Extension: detected=%v method=%s version=%s\n",
		caps.Detected, caps.Method, orDash(caps.Version))
	if len(warnings) == 0 {
		b.WriteString("No discovery warnings.")
	} else {
		b.WriteString("Discovery warnings:\n")
		for _, w := range warnings {
			fmt.Fprintf(&b, "- %s: %s\n", w.Type, w.Path)
		}
	}
	return b.String()
}

// renderSections joins the surviving sections into one response body.
func renderSections(sections []output.Section) string {
	parts := make([]string, 0, len(sections))
	for _, s := range sections {
		parts = append(parts, s.Content)
	}
	return strings.Join(parts, "\n\n")
}

// gateMode validates the requested mode, falling back to the project
// config and then to interactive.
func gateMode(requested string, cfg *project.Config) (gate.Mode, error) {
	name := requested
	if name == "" && cfg != nil {
		name = cfg.Mode
	}
	switch name {
	case "", string(gate.ModeInteractive):
		return gate.ModeInteractive, nil
	case string(gate.ModeYolo):
		return gate.ModeYolo, nil
	default:
		return "", fmt.Errorf("unknown mode %q: use `interactive` or `yolo`", name)
	}
}

// verbosityLevel resolves the output level: explicit argument, then the
// project config, then the package default.
func verbosityLevel(req mcp.CallToolRequest, cfg *project.Config) int {
	if level := req.GetInt("verbosity", 0); level != 0 {
		return output.Clamp(level)
	}
	if cfg != nil {
		return output.Clamp(cfg.Verbosity)
	}
	return 2
}

func stateOf(snap *project.Snapshot) *project.State {
	if snap == nil {
		return nil
	}
	return snap.State
}

// projectName labels journal entries; the project root is the fallback
// when PROJECT.md is missing.
func projectName(snap *project.Snapshot, root string) string {
	if snap != nil && snap.Project != nil && snap.Project.Name != "" {
		return snap.Project.Name
	}
	return root
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
