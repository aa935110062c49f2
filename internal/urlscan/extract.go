// Package urlscan extracts URL candidates from email text and scores each
// candidate with local obfuscation heuristics. It has no network
// dependencies; external reputation lives in the intel package.
package urlscan

import (
	"regexp"
	"sort"
	"strings"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/rangetable"
)

// Candidate is one URL discovered in a text blob. Mismatch candidates carry
// both the real href and the URL shown to the reader.
type Candidate struct {
	URL      string
	Mismatch bool
	Display  string
}

var (
	reSchemeURL  = regexp.MustCompile(`https?://[^\s<>"{}|\\^` + "`" + `\[\]]+`)
	reWWWDomain  = regexp.MustCompile(`www\.[a-zA-Z0-9][-a-zA-Z0-9]*(?:\.[a-zA-Z0-9][-a-zA-Z0-9]*)+(?:/[^\s<>"{}|\\^` + "`" + `\[\]]*)?`)
	reBareDomain = regexp.MustCompile(`\b[a-zA-Z0-9][-a-zA-Z0-9]*(?:\.[a-zA-Z0-9][-a-zA-Z0-9]*)*\.(?:com|org|net|xyz|tk|ml|ga|cf|gq|top|click|link|local|zip|loan|win|bid|co|io|me|info)\b`)
	reIPv4URL    = regexp.MustCompile(`(?:https?://)?(?:\d{1,3}\.){3}\d{1,3}(?::\d+)?(?:/[^\s]*)?`)
	reAnchorTag  = regexp.MustCompile(`(?is)<a[^>]+href=["']([^"']+)["'][^>]*>(.*?)</a>`)
)

// Invisible characters attackers insert to break naive pattern matching.
var invisibleRunes = rangetable.New(
	'\u200b', '\u200c', '\u200d', '\ufeff', '\u2060', '\u180e', '\u00ad',
)

var stripInvisible = runes.Remove(runes.In(invisibleRunes))

// StripInvisible removes zero-width and soft-hyphen characters.
func StripInvisible(text string) string {
	out, _, err := transform.String(stripInvisible, text)
	if err != nil {
		return text
	}
	return out
}

// Extract returns the deduplicated set of URL candidates found in text,
// sorted for deterministic downstream processing. Four overlapping passes
// (scheme URLs, www domains, bare domains from a fixed TLD list, IPv4
// literals) run over the same cleaned text, followed by an anchor-tag pass
// that flags href/display mismatches.
func Extract(text string) []Candidate {
	clean := StripInvisible(text)
	seen := make(map[string]Candidate)

	add := func(u string) {
		if _, ok := seen[u]; !ok {
			seen[u] = Candidate{URL: u}
		}
	}

	for _, u := range reSchemeURL.FindAllString(clean, -1) {
		add(u)
	}

	for _, d := range reWWWDomain.FindAllString(clean, -1) {
		add("http://" + d)
	}

	for _, d := range reBareDomain.FindAllString(clean, -1) {
		already := false
		for u := range seen {
			if strings.Contains(u, d) {
				already = true
				break
			}
		}
		if !already {
			add("http://" + d)
		}
	}

	for _, m := range reIPv4URL.FindAllString(clean, -1) {
		if strings.HasPrefix(m, "http") {
			add(m)
		} else {
			add("http://" + m)
		}
	}

	for _, m := range reAnchorTag.FindAllStringSubmatch(clean, -1) {
		href, label := m[1], m[2]
		add(href)
		if displayed := reSchemeURL.FindString(label); displayed != "" && displayed != href {
			key := "mismatch:" + href + "|" + displayed
			if _, ok := seen[key]; !ok {
				seen[key] = Candidate{URL: href, Mismatch: true, Display: displayed}
			}
		}
	}

	out := make([]Candidate, 0, len(seen))
	for _, c := range seen {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].URL != out[j].URL {
			return out[i].URL < out[j].URL
		}
		return !out[i].Mismatch && out[j].Mismatch
	})
	return out
}
