// Package dedup rejects near-duplicate generated content using keyword
// overlap. This is a deliberately cheap bag-of-keywords heuristic, not
// semantic similarity: deterministic, explainable, and stable across runs.
package dedup

import (
	"strings"
	"unicode"
)

// DefaultThreshold is the Jaccard similarity above which a candidate is
// considered a duplicate. Tuned by observation, not derivation; treat it
// as configuration.
const DefaultThreshold = 0.35

// minTokenLen drops short tokens before comparison.
const minTokenLen = 3

// Result describes the outcome of a similarity check.
type Result struct {
	IsDuplicate   bool
	MaxSimilarity float64
	MatchedWith   string
}

// Check compares a candidate text against prior texts and reports whether it
// is too similar to any of them. An empty prior set never duplicates.
func Check(candidate string, priors []string, threshold float64) Result {
	candidateSet := keywordSet(candidate)

	result := Result{}
	for _, prior := range priors {
		sim := jaccard(candidateSet, keywordSet(prior))
		if sim > result.MaxSimilarity {
			result.MaxSimilarity = sim
			result.MatchedWith = prior
		}
	}

	result.IsDuplicate = result.MaxSimilarity > threshold
	if !result.IsDuplicate {
		result.MatchedWith = ""
	}
	return result
}

// keywordSet normalizes text to a set of significant tokens: lowercased,
// punctuation stripped, whitespace-split, short tokens and stop words removed.
func keywordSet(text string) map[string]struct{} {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsNumber(r) || unicode.IsSpace(r) {
			return unicode.ToLower(r)
		}
		return ' '
	}, text)

	set := make(map[string]struct{})
	for _, token := range strings.Fields(cleaned) {
		if len(token) <= minTokenLen {
			continue
		}
		if _, stop := stopWords[token]; stop {
			continue
		}
		set[token] = struct{}{}
	}
	return set
}

// jaccard computes |a ∩ b| / |a ∪ b|, or 0 if either set is empty.
func jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	intersection := 0
	for token := range a {
		if _, ok := b[token]; ok {
			intersection++
		}
	}

	union := len(a) + len(b) - intersection
	return float64(intersection) / float64(union)
}
