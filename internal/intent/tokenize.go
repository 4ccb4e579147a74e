package intent

import (
	"strings"
	"unicode"
)

// stopwords are dropped before scoring: they carry no routing signal and
// only flatten the posterior.
var stopwords = map[string]bool{
	"a": true, "an": true, "and": true, "are": true, "as": true, "at": true,
	"be": true, "by": true, "for": true, "from": true, "in": true, "into": true,
	"is": true, "it": true, "of": true, "on": true, "or": true, "that": true,
	"the": true, "this": true, "to": true, "with": true, "you": true,
	"your": true, "i": true, "my": true, "me": true, "please": true,
	"want": true, "like": true, "would": true, "can": true, "could": true,
}

// tokenize lowercases and splits on non-alphanumeric runes, dropping
// stopwords and single-rune fragments. Hyphenated command verbs split
// into their parts, so "plan-phase" matches "plan the phase".
func tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	tokens := fields[:0]
	for _, f := range fields {
		if len(f) < 2 || stopwords[f] {
			continue
		}
		tokens = append(tokens, f)
	}
	return tokens
}
