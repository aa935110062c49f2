package urlscan

import "math"

// Entropy computes the Shannon entropy of s in bits per character.
// Random-looking URLs score high; it is consumed by URL inspection, not by
// the local heuristics, to avoid double counting with external reputation.
func Entropy(s string) float64 {
	if s == "" {
		return 0
	}
	counts := make(map[rune]int)
	total := 0
	for _, r := range s {
		counts[r]++
		total++
	}
	entropy := 0.0
	for _, c := range counts {
		p := float64(c) / float64(total)
		entropy -= p * math.Log2(p)
	}
	return entropy
}
