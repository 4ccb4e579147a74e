// Package intent maps raw user input to a discovered command. Matching
// is layered: an explicit /namespace:verb invocation short-circuits to an
// exact match, a trained statistical model handles natural language, and
// an optional semantic scorer takes over when the companion extension is
// installed. The classifier trains once and is read-only afterwards.
package intent

import (
	"regexp"
	"sort"
	"strings"

	"gsdkit/internal/discover"
	"gsdkit/internal/extension"
	"gsdkit/internal/project"
)

// Result types.
const (
	TypeExactMatch = "exact-match"
	TypeClassified = "classified"
	TypeAmbiguous  = "ambiguous"
	TypeError      = "error"
)

// Classification methods.
const (
	MethodExact    = "exact"
	MethodBayes    = "bayes"
	MethodSemantic = "semantic"
)

// ambiguityMargin is the minimum posterior gap between the best match
// and the runner-up for a confident classification. Below it the query
// is reported ambiguous with the top candidates attached.
const ambiguityMargin = 0.10

// maxCandidates caps the candidate list attached to ambiguous results.
const maxCandidates = 3

// contextWeight is the scoring weight of disambiguation tokens drawn
// from project state, relative to query tokens at weight 1.
const contextWeight = 0.5

// explicitPattern matches an explicit command invocation with optional
// trailing arguments: /gsd:plan-phase 3 --force.
var explicitPattern = regexp.MustCompile(`^/([a-z][a-z0-9-]*):([a-z][a-z0-9-]*)(?:\s+(.*))?$`)

// Arguments are the values parsed from an explicit invocation's tail.
// --key=value and --flag pairs land in Named, everything else in
// Positional, order preserved.
type Arguments struct {
	Positional []string          `json:"positional,omitempty"`
	Named      map[string]string `json:"named,omitempty"`
}

// Candidate is one scored command in an ambiguous result.
type Candidate struct {
	Command    discover.CommandSpec `json:"command"`
	Confidence float64              `json:"confidence"`
}

// Result is the classifier's verdict on one query.
type Result struct {
	Type       string                `json:"type"`
	Command    *discover.CommandSpec `json:"command,omitempty"`
	Confidence float64               `json:"confidence"`
	Arguments  Arguments             `json:"arguments,omitempty"`
	Method     string                `json:"method,omitempty"`
	Candidates []Candidate           `json:"candidates,omitempty"`
	Message    string                `json:"message,omitempty"`
}

// SemanticScorer is the boundary to the extension's embedding engine:
// it scores the query against every command and returns one confidence
// per command, aligned with the input slice.
type SemanticScorer interface {
	Score(query string, commands []discover.CommandSpec) ([]float64, error)
}

// Options configure training. Semantic scoring engages only when it is
// requested, the detector reports the feature, and a scorer is wired.
type Options struct {
	EnableSemantic bool
	Capabilities   extension.Capabilities
	Scorer         SemanticScorer
}

// Classifier is the two-phase intent matcher. Train must complete before
// Classify; there is no internal locking, the ordering is the caller's
// contract.
type Classifier struct {
	trained  bool
	commands []discover.CommandSpec
	byName   map[string]int
	model    *bayesModel
	semantic bool
	scorer   SemanticScorer
}

func NewClassifier() *Classifier {
	return &Classifier{}
}

// Train builds the statistical model from each command's name, description,
// and objective text. Training is idempotent; retraining replaces the model.
func (c *Classifier) Train(result *discover.Result, opts Options) {
	c.commands = nil
	c.byName = map[string]int{}
	c.model = newBayesModel()

	if result != nil {
		c.commands = append(c.commands, result.Commands...)
	}
	for i, cmd := range c.commands {
		c.byName[cmd.Name] = i
		text := strings.Join([]string{cmd.Name, cmd.Description, cmd.Objective}, " ")
		c.model.addClass(cmd.Name, tokenize(text))
	}

	c.semantic = opts.EnableSemantic &&
		opts.Capabilities.Features.SemanticClassification &&
		opts.Scorer != nil
	c.scorer = opts.Scorer
	c.trained = true
}

// Classify routes one query. Calling it before Train is a programmer
// error and the only path that yields TypeError.
func (c *Classifier) Classify(query string, state *project.State) Result {
	if !c.trained {
		return Result{Type: TypeError, Message: "classifier used before training"}
	}

	query = strings.TrimSpace(query)

	if r, ok := c.exactMatch(query); ok {
		return r
	}

	if len(c.commands) == 0 {
		return Result{
			Type:    TypeAmbiguous,
			Method:  MethodBayes,
			Message: "no commands discovered to match against",
		}
	}

	if c.semantic {
		if r, ok := c.semanticMatch(query); ok {
			return r
		}
		// Scorer failure degrades to the statistical layer.
	}

	return c.statisticalMatch(query, state)
}

// exactMatch handles explicit /ns:verb invocations. An explicit syntax
// that names an unknown command falls through to the statistical layers.
func (c *Classifier) exactMatch(query string) (Result, bool) {
	m := explicitPattern.FindStringSubmatch(query)
	if m == nil {
		return Result{}, false
	}
	idx, ok := c.byName[m[1]+":"+m[2]]
	if !ok {
		return Result{}, false
	}
	return Result{
		Type:       TypeExactMatch,
		Command:    &c.commands[idx],
		Confidence: 1.0,
		Arguments:  parseArguments(m[3]),
		Method:     MethodExact,
	}, true
}

func (c *Classifier) semanticMatch(query string) (Result, bool) {
	scores, err := c.scorer.Score(query, c.commands)
	if err != nil || len(scores) != len(c.commands) {
		return Result{}, false
	}
	return c.verdict(scores, MethodSemantic), true
}

func (c *Classifier) statisticalMatch(query string, state *project.State) Result {
	tokens := make([]weightedToken, 0, 16)
	for _, tok := range tokenize(query) {
		tokens = append(tokens, weightedToken{token: tok, weight: 1})
	}
	for _, tok := range contextTokens(state) {
		tokens = append(tokens, weightedToken{token: tok, weight: contextWeight})
	}
	return c.verdict(c.model.posteriors(tokens), MethodBayes)
}

// verdict turns per-command scores into a classified or ambiguous result
// using the fixed margin over the runner-up.
func (c *Classifier) verdict(scores []float64, method string) Result {
	order := make([]int, len(scores))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return scores[order[a]] > scores[order[b]]
	})

	best := order[0]
	margin := scores[best]
	if len(order) > 1 {
		margin = scores[best] - scores[order[1]]
	}

	if margin >= ambiguityMargin {
		return Result{
			Type:       TypeClassified,
			Command:    &c.commands[best],
			Confidence: scores[best],
			Method:     method,
		}
	}

	candidates := make([]Candidate, 0, maxCandidates)
	for _, idx := range order {
		if len(candidates) == maxCandidates {
			break
		}
		candidates = append(candidates, Candidate{
			Command:    c.commands[idx],
			Confidence: scores[idx],
		})
	}
	return Result{
		Type:       TypeAmbiguous,
		Confidence: scores[best],
		Method:     method,
		Candidates: candidates,
	}
}

// contextTokens draws disambiguation signal from the project's current
// position: what the user is in the middle of is weak evidence for what
// they mean next.
func contextTokens(state *project.State) []string {
	if state == nil {
		return nil
	}
	return tokenize(state.Position.Status + " " + state.Position.PhaseName)
}

// parseArguments splits an explicit invocation's tail. --key=value and
// bare --flag markers become named values; the rest stay positional.
func parseArguments(tail string) Arguments {
	var args Arguments
	for _, field := range strings.Fields(tail) {
		if !strings.HasPrefix(field, "--") {
			args.Positional = append(args.Positional, field)
			continue
		}
		if args.Named == nil {
			args.Named = map[string]string{}
		}
		key, value, found := strings.Cut(strings.TrimPrefix(field, "--"), "=")
		if !found {
			value = "true"
		}
		args.Named[key] = value
	}
	return args
}
