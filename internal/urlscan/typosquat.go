package urlscan

import (
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/mailguard/email-guard/internal/vocab"
)

// Typosquat reports whether the first label of domain sits within edit
// distance 2 (and length difference 2) of a popular brand without being an
// exact match, e.g. go0gle vs google.
func Typosquat(domain string) (string, bool) {
	d := strings.TrimPrefix(strings.ToLower(domain), "www.")
	label, _, _ := strings.Cut(d, ".")
	if label == "" {
		return "", false
	}

	for _, brand := range vocab.PopularBrands {
		if label == brand {
			return "", false
		}
		lenDiff := len(label) - len(brand)
		if lenDiff < 0 {
			lenDiff = -lenDiff
		}
		if lenDiff > 2 {
			continue
		}
		if fuzzy.LevenshteinDistance(label, brand) <= 2 {
			return brand, true
		}
	}
	return "", false
}
