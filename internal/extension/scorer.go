package extension

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"time"

	"gsdkit/internal/discover"
)

// scoreTimeout bounds one scoring call. Embedding a query takes longer
// than answering --version, but a companion that needs more than this
// is broken and the caller degrades to statistical matching.
const scoreTimeout = 15 * time.Second

// scoreRequest is the JSON the companion's `score` subcommand reads
// from stdin.
type scoreRequest struct {
	Query    string         `json:"query"`
	Commands []scoreCommand `json:"commands"`
}

type scoreCommand struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Objective   string `json:"objective,omitempty"`
}

// scoreResponse is the companion's stdout: one confidence per command,
// aligned with the request order.
type scoreResponse struct {
	Scores []float64 `json:"scores"`
}

// Scorer scores a query against commands by invoking the companion
// CLI's `score` subcommand. Errors propagate so the classifier can
// degrade to its statistical layer.
type Scorer struct {
	// run replaces the real subprocess invocation (tests only).
	run func(ctx context.Context, input []byte) ([]byte, error)
}

// NewScorer returns a Scorer backed by the companion binary on PATH.
func NewScorer() *Scorer {
	return &Scorer{run: runScoreCommand}
}

// Score implements the classifier's scorer contract.
func (s *Scorer) Score(query string, commands []discover.CommandSpec) ([]float64, error) {
	req := scoreRequest{Query: query, Commands: make([]scoreCommand, len(commands))}
	for i, cmd := range commands {
		req.Commands[i] = scoreCommand{
			Name:        cmd.Name,
			Description: cmd.Description,
			Objective:   cmd.Objective,
		}
	}
	input, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encoding score request: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), scoreTimeout)
	defer cancel()

	out, err := s.run(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("running %s score: %w", cliName, err)
	}

	var resp scoreResponse
	if err := json.Unmarshal(out, &resp); err != nil {
		return nil, fmt.Errorf("decoding score response: %w", err)
	}
	if len(resp.Scores) != len(commands) {
		return nil, fmt.Errorf("score response carries %d scores for %d commands",
			len(resp.Scores), len(commands))
	}
	return resp.Scores, nil
}

func runScoreCommand(ctx context.Context, input []byte) ([]byte, error) {
	cmd := exec.CommandContext(ctx, cliName, "score")
	cmd.Stdin = bytes.NewReader(input)
	return cmd.Output()
}
