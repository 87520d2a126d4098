package services

import "strings"

// TextSimilarity returns a similarity score between two strings in the range [0,1].
// Inputs are normalized (trimmed, lower-cased); an empty input on either side
// scores 0 and an exact match after normalization scores 1.0. Otherwise both
// strings are tokenized on whitespace and scored with a Dice-like measure over
// fuzzy word containment: a word from the first list counts as matched when it
// contains, or is contained by, any word from the second list.
//
// Note this is deliberately not a textbook Dice coefficient - it compares word
// containment, not identity, and callers depend on the exact scores it produces
// (duplicate thresholds are tuned against it).
func TextSimilarity(a, b string) float64 {
	a = strings.ToLower(strings.TrimSpace(a))
	b = strings.ToLower(strings.TrimSpace(b))

	if a == "" || b == "" {
		return 0
	}
	if a == b {
		return 1.0
	}

	wordsA := strings.Fields(a)
	wordsB := strings.Fields(b)
	if len(wordsA) == 0 || len(wordsB) == 0 {
		return 0
	}

	matches := 0
	for _, wa := range wordsA {
		for _, wb := range wordsB {
			if strings.Contains(wa, wb) || strings.Contains(wb, wa) {
				matches++
				break
			}
		}
	}

	return float64(2*matches) / float64(len(wordsA)+len(wordsB))
}
