package resolver

import "github.com/lithammer/fuzzysearch/fuzzy"

// DefaultFuzzyCutoff is the minimum similarity for an approximate match.
// It is deliberately strict: the fuzzy stage exists to absorb single-letter
// typos in otherwise-correct canonical names, never to guess between
// dissimilar ones.
const DefaultFuzzyCutoff = 0.92

// Similarity is a length-normalised edit similarity in [0, 1]:
// 1 - distance/(len(a)+len(b)). On the short keys of a closed taxonomy this
// tracks the classic sequence-matcher ratio closely enough that a one-edit
// typo in a typical state name scores above DefaultFuzzyCutoff while a
// two-edit one does not.
func Similarity(a, b string) float64 {
	if a == b {
		return 1
	}
	total := len(a) + len(b)
	if total == 0 {
		return 1
	}
	d := fuzzy.LevenshteinDistance(a, b)
	sim := 1 - float64(d)/float64(total)
	if sim < 0 {
		return 0
	}
	return sim
}

// closest returns the candidate most similar to key, provided it clears the
// cutoff. Candidates are scanned in enumeration order and ties keep the
// earlier candidate, so results are deterministic.
func (r *Resolver) closest(key string, candidates []string) (string, bool) {
	if key == "" {
		return "", false
	}
	best := ""
	bestScore := 0.0
	for _, cand := range candidates {
		if score := Similarity(key, cand); score > bestScore {
			best, bestScore = cand, score
		}
	}
	if bestScore >= r.cutoff {
		return best, true
	}
	return "", false
}
