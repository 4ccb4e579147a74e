// Package server wires all MCP components and creates the server instance.
//
// This is the composition root: it creates concrete implementations and
// injects them into the tools that depend on them. No routing logic
// lives here — only wiring.
package server

import (
	"log"
	"os"
	"path/filepath"

	"github.com/mark3labs/mcp-go/server"

	"gsdkit/internal/discover"
	"gsdkit/internal/history"
	"gsdkit/internal/tools"
)

// Version is set at build time via ldflags.
var Version = "dev"

// dataDirName is the per-user directory for the routing journal.
const dataDirName = ".gsdkit"

// New creates and configures the MCP server with all routing tools
// registered. This is the single place where dependencies are resolved.
//
// The returned cleanup function closes the history journal's database
// connection and must be called on shutdown (typically via defer). It is
// always non-nil and safe to call even if journal init failed.
func New() (*server.MCPServer, func(), error) {
	s := server.NewMCPServer(
		"gsdkit",
		Version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(serverInstructions()),
	)

	// The scanner is shared so every tool sees the same mtime cache.
	scanner := discover.NewScanner()

	// History is an independent subsystem: if it fails to initialize,
	// routing continues working and decisions simply go unrecorded.
	cleanup := noop
	journal, err := openJournal()
	if err != nil {
		log.Printf("WARNING: routing history disabled: %v", err)
		journal = nil
	} else {
		cleanup = func() {
			if err := journal.Close(); err != nil {
				log.Printf("WARNING: history journal close: %v", err)
			}
		}
	}

	routeTool := tools.NewRouteTool(scanner, journal)
	s.AddTool(routeTool.Definition(), routeTool.Handle)

	discoverTool := tools.NewDiscoverTool(scanner)
	s.AddTool(discoverTool.Definition(), discoverTool.Handle)

	statusTool := tools.NewStatusTool(journal)
	s.AddTool(statusTool.Definition(), statusTool.Handle)

	nextTool := tools.NewNextTool()
	s.AddTool(nextTool.Definition(), nextTool.Handle)

	validateTool := tools.NewValidateConfigTool()
	s.AddTool(validateTool.Definition(), validateTool.Handle)

	extensionTool := tools.NewExtensionTool()
	s.AddTool(extensionTool.Definition(), extensionTool.Handle)

	return s, cleanup, nil
}

// noop is the default cleanup when the journal is disabled.
func noop() {}

// openJournal opens the per-user routing journal under ~/.gsdkit.
func openJournal() (*history.Journal, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	return history.Open(filepath.Join(home, dataDirName))
}

// serverInstructions returns the system instructions that tell the AI
// how to use the gsdkit router effectively.
func serverInstructions() string {
	return `You have access to gsdkit, a command router for spec-driven project automation.

## WHEN TO USE gsd_route

Call gsd_route whenever the user expresses an intent about their project:
- Explicit command invocations like "/gsd:plan-phase 3" (matched exactly)
- Natural language like "plan the next phase" or "show me where we are"

The router returns the matched command, a confidence score, and a gate
decision. Respect the gate:
- "proceed": run the command directly
- "confirm": ask the user before running — the command mutates project
  files or the match confidence is low
- An "ambiguous" match lists the top candidates; ask the user to pick

## SUPPORTING TOOLS

- gsd_discover: list the installed commands, agents, and teams
- gsd_status: the project's current position, blockers, and recent routing decisions
- gsd_next: what to do next given roadmap completion (pass "after" when a command just finished)
- gsd_validate_config: check .planning/config.json for errors and risky settings
- gsd_extension: whether the semantic extension is installed

## IMPORTANT

- gsdkit never executes commands or mutates project files; it only routes
- Low-confidence matches always require confirmation, regardless of mode
- "yolo" mode skips confirmation for destructive commands — only use it
  when the user has explicitly configured or requested it`
}
