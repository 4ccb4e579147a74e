// gsdkit: a command router MCP server for spec-driven project automation.
//
// It discovers the installed gsd commands, agents, and teams, matches raw
// user requests to commands (exactly or statistically), gates risky
// matches behind confirmation, and recommends the next lifecycle step.
//
// Usage:
//
//	gsdkit serve    # Start MCP server (stdio transport)
//	gsdkit update   # Update to the latest version
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mark3labs/mcp-go/server"

	gsdserver "gsdkit/internal/server"
	"gsdkit/internal/updater"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "serve":
		if err := run(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "update":
		runUpdate()
	case "--help", "-h", "help":
		printUsage()
		os.Exit(0)
	case "--version", "-v", "version":
		fmt.Printf("gsdkit v%s\n", gsdserver.Version)
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func run() error {
	s, cleanup, err := gsdserver.New()
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}
	defer cleanup()

	// Background version check — prints to stderr so it doesn't
	// interfere with MCP's stdio transport on stdout.
	go checkForUpdates()

	// The stdio server manages its own lifecycle; the signal handler
	// just makes sure cleanup runs on interrupt.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		cleanup()
		os.Exit(0)
	}()

	return server.ServeStdio(s)
}

// checkForUpdates runs a non-blocking version check and prints a notice
// to stderr if an update is available. Best-effort — network failures
// are silently ignored.
func checkForUpdates() {
	result := updater.CheckVersion(gsdserver.Version)
	if result.UpdateAvailable {
		fmt.Fprintf(os.Stderr,
			"\n  Update available: v%s -> v%s\n"+
				"  Run: gsdkit update\n"+
				"  Release: %s\n\n",
			result.CurrentVersion, result.LatestVersion, result.ReleaseURL,
		)
	}
}

// runUpdate performs a self-update to the latest version.
func runUpdate() {
	fmt.Fprintf(os.Stderr, "Checking for updates...\n")

	result := updater.CheckVersion(gsdserver.Version)
	if !result.UpdateAvailable {
		fmt.Fprintf(os.Stderr, "Already at the latest version (v%s)\n", result.CurrentVersion)
		return
	}

	fmt.Fprintf(os.Stderr, "New version available: v%s -> v%s\n", result.CurrentVersion, result.LatestVersion)
	fmt.Fprintf(os.Stderr, "Downloading...\n")

	if err := updater.SelfUpdate(gsdserver.Version); err != nil {
		fmt.Fprintf(os.Stderr, "Update failed: %v\n", err)
		fmt.Fprintf(os.Stderr, "\n  You can download manually from:\n  %s\n", result.ReleaseURL)
		os.Exit(1)
	}

	fmt.Fprintf(os.Stderr, "Updated to v%s!\n", result.LatestVersion)
	fmt.Fprintf(os.Stderr, "Restart gsdkit to use the new version.\n")
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `gsdkit v%s — command router for spec-driven project automation

Usage:
  gsdkit serve    Start the MCP server (stdio transport)
  gsdkit update   Update to the latest version

Configuration:
  Add to your AI tool's MCP config:

  {
    "mcpServers": {
      "gsdkit": {
        "command": "gsdkit",
        "args": ["serve"]
      }
    }
  }

Learn more: https://github.com/gsd-tools/gsdkit
`, gsdserver.Version)
}
