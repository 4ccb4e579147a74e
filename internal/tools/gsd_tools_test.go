package tools

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"gsdkit/internal/discover"
	"gsdkit/internal/extension"
	"gsdkit/internal/history"
)

// --- Test helpers ---

// setupWorkspace creates a temp project with planning artifacts and a
// local .gsd artifact tree, and changes cwd into it.
func setupWorkspace(t *testing.T) string {
	t.Helper()
	root := t.TempDir()

	mustWrite(t, root, ".planning/ROADMAP.md", `- [x] **Phase 1: Foundation**
- [ ] **Phase 2: Routing**

### Phase 2: Routing

Plans:
- [ ] 02-01 -- classifier
`)
	mustWrite(t, root, ".planning/STATE.md", `## Current Position

Phase: 2 of 2 (Routing)
Status: executing
`)
	mustWrite(t, root, ".planning/PROJECT.md", "# Demo Project\n")
	mustWrite(t, root, ".planning/config.json", `{"verbosity": 2}`)

	mustWrite(t, root, ".gsd/VERSION", "1.12.1\n")
	mustWrite(t, root, ".gsd/commands/gsd/plan-phase.md", `---
description: Create a detailed execution plan for a roadmap phase
argument-hint: "[phase]"
---
<objective>
Break the phase down into ordered plans.
</objective>
`)
	mustWrite(t, root, ".gsd/commands/gsd/progress.md", `---
description: Show roadmap progress and current position
---
Report completed phases and blockers.
`)

	origDir, err := os.Getwd()
	if err != nil {
		t.Fatalf("setup: getwd: %v", err)
	}
	if err := os.Chdir(root); err != nil {
		t.Fatalf("setup: chdir: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(origDir) })

	return root
}

func mustWrite(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("setup: mkdir %s: %v", rel, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("setup: write %s: %v", rel, err)
	}
}

func callRequest(args map[string]interface{}) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

// isErrorResult checks if the result is a tool error.
func isErrorResult(result *mcp.CallToolResult) bool {
	return result != nil && result.IsError
}

// getResultText extracts the text content from a CallToolResult.
func getResultText(result *mcp.CallToolResult) string {
	if result == nil || len(result.Content) == 0 {
		return ""
	}
	for _, c := range result.Content {
		if tc, ok := c.(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

func newTestJournal(t *testing.T) *history.Journal {
	t.Helper()
	j, err := history.Open(t.TempDir())
	if err != nil {
		t.Fatalf("setup: open journal: %v", err)
	}
	t.Cleanup(func() { j.Close() })
	return j
}

// --- RouteTool ---

func TestRouteTool_ExactMatch(t *testing.T) {
	setupWorkspace(t)
	tool := NewRouteTool(discover.NewScanner(), nil)

	result, err := tool.Handle(context.Background(), callRequest(map[string]interface{}{
		"query": "/gsd:plan-phase 3",
	}))
	if err != nil {
		t.Fatalf("Handle failed: %v", err)
	}
	if isErrorResult(result) {
		t.Fatalf("expected success, got error: %s", getResultText(result))
	}

	text := getResultText(result)
	if !strings.Contains(text, "gsd:plan-phase") {
		t.Errorf("result should name the matched command, got: %s", text)
	}
	if !strings.Contains(text, "1.00") {
		t.Errorf("exact match should report confidence 1.00, got: %s", text)
	}
	if !strings.Contains(text, "Arguments:") || !strings.Contains(text, "3") {
		t.Errorf("result should carry the positional argument, got: %s", text)
	}
	// plan-phase mutates project files: interactive mode must confirm.
	if !strings.Contains(text, "confirm") {
		t.Errorf("destructive command should be gated with confirm, got: %s", text)
	}
}

func TestRouteTool_YoloModeProceeds(t *testing.T) {
	setupWorkspace(t)
	tool := NewRouteTool(discover.NewScanner(), nil)

	result, err := tool.Handle(context.Background(), callRequest(map[string]interface{}{
		"query": "/gsd:plan-phase",
		"mode":  "yolo",
	}))
	if err != nil {
		t.Fatalf("Handle failed: %v", err)
	}

	text := getResultText(result)
	if !strings.Contains(text, "proceed") {
		t.Errorf("destructive command in yolo mode should proceed, got: %s", text)
	}
}

func TestRouteTool_EmptyQuery(t *testing.T) {
	setupWorkspace(t)
	tool := NewRouteTool(discover.NewScanner(), nil)

	result, err := tool.Handle(context.Background(), callRequest(map[string]interface{}{
		"query": "   ",
	}))
	if err != nil {
		t.Fatalf("Handle failed: %v", err)
	}
	if !isErrorResult(result) {
		t.Error("expected an error result for an empty query")
	}
}

func TestRouteTool_UnknownMode(t *testing.T) {
	setupWorkspace(t)
	tool := NewRouteTool(discover.NewScanner(), nil)

	result, err := tool.Handle(context.Background(), callRequest(map[string]interface{}{
		"query": "/gsd:progress",
		"mode":  "cautious",
	}))
	if err != nil {
		t.Fatalf("Handle failed: %v", err)
	}
	if !isErrorResult(result) {
		t.Error("expected an error result for an unknown mode")
	}
}

type stubSemanticScorer struct {
	scores []float64
	called bool
}

func (s *stubSemanticScorer) Score(query string, commands []discover.CommandSpec) ([]float64, error) {
	s.called = true
	return s.scores, nil
}

func detectedCaps() extension.Capabilities {
	return extension.Capabilities{
		Detected: true,
		Method:   extension.MethodCLIBinary,
		Version:  "1.0.0",
		Features: extension.Features{
			SemanticClassification: true,
			SemanticSearch:         true,
			AgentMatching:          true,
			DuplicateDetection:     true,
		},
	}
}

func TestRouteTool_SemanticRoutingEngages(t *testing.T) {
	setupWorkspace(t)
	tool := NewRouteTool(discover.NewScanner(), nil)
	scorer := &stubSemanticScorer{scores: []float64{0.95, 0.05}}
	tool.scorer = scorer
	tool.detect = detectedCaps

	result, err := tool.Handle(context.Background(), callRequest(map[string]interface{}{
		"query":           "plan the upcoming work",
		"enable_semantic": true,
	}))
	if err != nil {
		t.Fatalf("Handle failed: %v", err)
	}

	if !scorer.called {
		t.Fatal("semantic scorer was never invoked")
	}
	text := getResultText(result)
	if !strings.Contains(text, "gsd:plan-phase") {
		t.Errorf("result should name the top-scored command, got: %s", text)
	}
	if !strings.Contains(text, "(semantic)") {
		t.Errorf("result should report the semantic method, got: %s", text)
	}
}

func TestRouteTool_SemanticSkippedWhenNotDetected(t *testing.T) {
	setupWorkspace(t)
	tool := NewRouteTool(discover.NewScanner(), nil)
	scorer := &stubSemanticScorer{scores: []float64{0.95, 0.05}}
	tool.scorer = scorer
	tool.detect = func() extension.Capabilities { return extension.Capabilities{} }

	result, err := tool.Handle(context.Background(), callRequest(map[string]interface{}{
		"query":           "show roadmap progress",
		"enable_semantic": true,
	}))
	if err != nil {
		t.Fatalf("Handle failed: %v", err)
	}

	if scorer.called {
		t.Error("scorer must not run when the companion is not detected")
	}
	text := getResultText(result)
	if !strings.Contains(text, "(bayes)") {
		t.Errorf("routing should fall back to the statistical layer, got: %s", text)
	}
}

func TestRouteTool_VerbosityControlsSections(t *testing.T) {
	setupWorkspace(t)
	tool := NewRouteTool(discover.NewScanner(), nil)

	minimal, err := tool.Handle(context.Background(), callRequest(map[string]interface{}{
		"query":     "/gsd:progress",
		"verbosity": 1,
	}))
	if err != nil {
		t.Fatalf("Handle failed: %v", err)
	}
	text := getResultText(minimal)
	if !strings.Contains(text, "# Routing Result") {
		t.Errorf("level 1 must still carry the routed result, got: %s", text)
	}
	if strings.Contains(text, "## Discovery") || strings.Contains(text, "## Diagnostics") {
		t.Errorf("level 1 must omit diagnostic sections, got: %s", text)
	}

	full, err := tool.Handle(context.Background(), callRequest(map[string]interface{}{
		"query":     "/gsd:progress",
		"verbosity": 5,
	}))
	if err != nil {
		t.Fatalf("Handle failed: %v", err)
	}
	text = getResultText(full)
	for _, section := range []string{"# Routing Result", "## Next Step", "## Classification", "## Discovery", "## Diagnostics"} {
		if !strings.Contains(text, section) {
			t.Errorf("level 5 should include %q, got: %s", section, text)
		}
	}
}

func TestRouteTool_RecordsDecision(t *testing.T) {
	setupWorkspace(t)
	journal := newTestJournal(t)
	tool := NewRouteTool(discover.NewScanner(), journal)

	if _, err := tool.Handle(context.Background(), callRequest(map[string]interface{}{
		"query": "/gsd:plan-phase 3",
	})); err != nil {
		t.Fatalf("Handle failed: %v", err)
	}

	entries, err := journal.Recent("Demo Project", 10)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 journaled decision, got %d", len(entries))
	}
	if entries[0].Command != "gsd:plan-phase" || entries[0].MatchType != "exact-match" {
		t.Errorf("unexpected journal entry: %+v", entries[0])
	}
}

// --- DiscoverTool ---

func TestDiscoverTool_ListsArtifacts(t *testing.T) {
	setupWorkspace(t)
	tool := NewDiscoverTool(discover.NewScanner())

	result, err := tool.Handle(context.Background(), callRequest(nil))
	if err != nil {
		t.Fatalf("Handle failed: %v", err)
	}

	text := getResultText(result)
	if !strings.Contains(text, "Commands (2)") {
		t.Errorf("expected 2 commands, got: %s", text)
	}
	if !strings.Contains(text, "gsd:plan-phase") || !strings.Contains(text, "gsd:progress") {
		t.Errorf("expected both commands listed, got: %s", text)
	}
	if !strings.Contains(text, "1.12.1") {
		t.Errorf("expected the version marker content, got: %s", text)
	}
}

func TestDiscoverTool_ReportsWarnings(t *testing.T) {
	root := setupWorkspace(t)
	mustWrite(t, root, ".gsd/commands/gsd/broken.md", "no frontmatter here\n")
	tool := NewDiscoverTool(discover.NewScanner())

	result, err := tool.Handle(context.Background(), callRequest(nil))
	if err != nil {
		t.Fatalf("Handle failed: %v", err)
	}

	text := getResultText(result)
	if !strings.Contains(text, "## Warnings") || !strings.Contains(text, "broken.md") {
		t.Errorf("expected the malformed file in warnings, got: %s", text)
	}
	// The broken command is skipped, not counted.
	if !strings.Contains(text, "Commands (2)") {
		t.Errorf("malformed command should be skipped, got: %s", text)
	}
}

// --- StatusTool ---

func TestStatusTool_UninitializedProject(t *testing.T) {
	root := t.TempDir()
	origDir, _ := os.Getwd()
	if err := os.Chdir(root); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	defer func() { _ = os.Chdir(origDir) }()

	tool := NewStatusTool(nil)
	result, err := tool.Handle(context.Background(), callRequest(nil))
	if err != nil {
		t.Fatalf("Handle failed: %v", err)
	}
	if !strings.Contains(getResultText(result), "No planning artifacts") {
		t.Errorf("expected uninitialized message, got: %s", getResultText(result))
	}
}

func TestStatusTool_ShowsPosition(t *testing.T) {
	setupWorkspace(t)
	tool := NewStatusTool(nil)

	result, err := tool.Handle(context.Background(), callRequest(nil))
	if err != nil {
		t.Fatalf("Handle failed: %v", err)
	}

	text := getResultText(result)
	if !strings.Contains(text, "Demo Project") {
		t.Errorf("expected the project name, got: %s", text)
	}
	if !strings.Contains(text, "Phase 2 of 2 (Routing)") {
		t.Errorf("expected the current position, got: %s", text)
	}
	if !strings.Contains(text, "phase-in-progress") {
		t.Errorf("expected the derived stage, got: %s", text)
	}
}

// --- NextTool ---

func TestNextTool_Uninitialized(t *testing.T) {
	root := t.TempDir()
	origDir, _ := os.Getwd()
	if err := os.Chdir(root); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	defer func() { _ = os.Chdir(origDir) }()

	tool := NewNextTool()
	result, err := tool.Handle(context.Background(), callRequest(nil))
	if err != nil {
		t.Fatalf("Handle failed: %v", err)
	}
	if !strings.Contains(getResultText(result), "gsd:new-project") {
		t.Errorf("expected new-project recommendation, got: %s", getResultText(result))
	}
}

func TestNextTool_AfterCommandHint(t *testing.T) {
	setupWorkspace(t)
	tool := NewNextTool()

	result, err := tool.Handle(context.Background(), callRequest(map[string]interface{}{
		"after": "gsd:execute-phase",
	}))
	if err != nil {
		t.Fatalf("Handle failed: %v", err)
	}
	if !strings.Contains(getResultText(result), "gsd:verify-work") {
		t.Errorf("expected the successor of execute-phase, got: %s", getResultText(result))
	}
}

// --- ValidateConfigTool ---

func TestValidateConfigTool_InlineContent(t *testing.T) {
	setupWorkspace(t)
	tool := NewValidateConfigTool()

	result, err := tool.Handle(context.Background(), callRequest(map[string]interface{}{
		"content": `{"mode": "yolo", "verbosity": 9}`,
	}))
	if err != nil {
		t.Fatalf("Handle failed: %v", err)
	}

	text := getResultText(result)
	if !strings.Contains(text, "**Valid:** false") {
		t.Errorf("out-of-range verbosity should be invalid, got: %s", text)
	}
	if !strings.Contains(text, "verbosity") {
		t.Errorf("expected the offending field named, got: %s", text)
	}
	if !strings.Contains(text, "Security Issues") {
		t.Errorf("yolo mode should be flagged as a security issue, got: %s", text)
	}
}

func TestValidateConfigTool_ProjectConfig(t *testing.T) {
	setupWorkspace(t)
	tool := NewValidateConfigTool()

	result, err := tool.Handle(context.Background(), callRequest(nil))
	if err != nil {
		t.Fatalf("Handle failed: %v", err)
	}

	text := getResultText(result)
	if !strings.Contains(text, "**Valid:** true") {
		t.Errorf("the fixture config is valid, got: %s", text)
	}
	if !strings.Contains(text, "config.json") {
		t.Errorf("expected the source path, got: %s", text)
	}
}

// --- ExtensionTool ---

func TestExtensionTool_Reports(t *testing.T) {
	tool := NewExtensionTool()

	result, err := tool.Handle(context.Background(), callRequest(nil))
	if err != nil {
		t.Fatalf("Handle failed: %v", err)
	}

	text := getResultText(result)
	if !strings.Contains(text, "# Extension Capabilities") {
		t.Errorf("expected capabilities report, got: %s", text)
	}
	if !strings.Contains(text, "Semantic classification:") {
		t.Errorf("expected all feature flags listed, got: %s", text)
	}
}
