package transcription

import (
	"slices"
	"strings"
)

// DefaultKeywords are the distress phrases scanned for out of the box:
// "help me", "it's dangerous", "save me".
var DefaultKeywords = []string{"도와줘", "위험해", "살려줘"}

// KeywordSet is an ordered, duplicate-free list of phrases.
type KeywordSet struct {
	words []string
}

// NewKeywordSet keeps the first occurrence of each non-blank phrase.
func NewKeywordSet(words ...string) KeywordSet {
	out := make([]string, 0, len(words))
	for _, w := range words {
		w = strings.TrimSpace(w)
		if w == "" || slices.Contains(out, w) {
			continue
		}
		out = append(out, w)
	}
	return KeywordSet{words: out}
}

// Words returns a copy of the phrases in set order.
func (k KeywordSet) Words() []string { return slices.Clone(k.words) }

// Len returns the number of phrases.
func (k KeywordSet) Len() int { return len(k.words) }

// Match returns every phrase that occurs in text as a substring, in set
// order, each at most once. The result is never nil.
func (k KeywordSet) Match(text string) []string {
	found := make([]string, 0, len(k.words))
	if text == "" {
		return found
	}
	for _, w := range k.words {
		if strings.Contains(text, w) {
			found = append(found, w)
		}
	}
	return found
}
