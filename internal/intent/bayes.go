package intent

import "math"

// smoothing is the additive (Laplace) smoothing constant applied to
// every token count, so unseen tokens never zero out a class.
const smoothing = 1.0

// bayesModel is a multinomial naive Bayes classifier over command
// training text. Priors are uniform: the command set is small and no
// usage frequency data exists at training time.
type bayesModel struct {
	classes     []string                  // command names, index is class id
	tokenCounts []map[string]float64      // per-class token counts
	totalTokens []float64                 // per-class token mass
	vocabulary  map[string]struct{}
}

// weightedToken is one scoring input. Query tokens carry weight 1;
// disambiguation-context tokens carry less so they bias, never dominate.
type weightedToken struct {
	token  string
	weight float64
}

func newBayesModel() *bayesModel {
	return &bayesModel{vocabulary: map[string]struct{}{}}
}

// addClass registers one command with its training tokens.
func (m *bayesModel) addClass(name string, tokens []string) {
	counts := map[string]float64{}
	for _, tok := range tokens {
		counts[tok]++
		m.vocabulary[tok] = struct{}{}
	}
	m.classes = append(m.classes, name)
	m.tokenCounts = append(m.tokenCounts, counts)
	m.totalTokens = append(m.totalTokens, float64(len(tokens)))
}

// posteriors scores the weighted tokens against every class and returns
// the softmax-normalized posterior per class, aligned with m.classes.
// Returns nil when the model has no classes.
func (m *bayesModel) posteriors(tokens []weightedToken) []float64 {
	if len(m.classes) == 0 {
		return nil
	}

	vocabSize := float64(len(m.vocabulary))
	logScores := make([]float64, len(m.classes))
	for i := range m.classes {
		// Uniform prior contributes the same constant to every class,
		// so it drops out of the normalization.
		score := 0.0
		denom := m.totalTokens[i] + smoothing*vocabSize
		for _, wt := range tokens {
			p := (m.tokenCounts[i][wt.token] + smoothing) / denom
			score += wt.weight * math.Log(p)
		}
		logScores[i] = score
	}

	// Softmax in log space, shifted by the max for stability.
	max := logScores[0]
	for _, s := range logScores[1:] {
		if s > max {
			max = s
		}
	}
	sum := 0.0
	posteriors := make([]float64, len(logScores))
	for i, s := range logScores {
		posteriors[i] = math.Exp(s - max)
		sum += posteriors[i]
	}
	for i := range posteriors {
		posteriors[i] /= sum
	}
	return posteriors
}
