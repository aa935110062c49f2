package urlscan

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/net/idna"

	"github.com/mailguard/email-guard/internal/risk"
	"github.com/mailguard/email-guard/internal/vocab"
)

var reIPv4Host = regexp.MustCompile(`^\d+\.\d+\.\d+\.\d+`)

// Score runs the local obfuscation heuristics against a single candidate.
// Contributions are additive and saturate at 1.0; a display/href mismatch
// is conclusive on its own and short-circuits the rest.
func Score(c Candidate) (float64, []string) {
	if c.Mismatch {
		return 1.0, []string{fmt.Sprintf("displayed link %s differs from actual href", c.Display)}
	}

	var m risk.Meter
	parsed, err := url.Parse(StripInvisible(c.URL))
	if err != nil {
		// Unparseable after cleanup is itself a red flag for a string that
		// matched a URL pattern.
		m.Add(0.3, "URL does not parse cleanly")
		return m.Score(), m.Reasons()
	}

	host := strings.ToLower(parsed.Host)
	domain := strings.ToLower(parsed.Hostname())
	fullURL := strings.ToLower(c.URL)

	if strings.HasPrefix(domain, "xn--") || strings.Contains(domain, ".xn--") {
		m.Add(0.6, "punycode/IDN domain detected")
		if decoded, derr := idna.ToUnicode(domain); derr == nil {
			domain = strings.ToLower(decoded)
		}
	}

	if hasMixedScript(domain) {
		m.Add(0.4, "mixed-script domain (possible homograph)")
	}

	if reIPv4Host.MatchString(domain) {
		m.Add(0.7, "IP address used instead of domain")
	}

	for _, tld := range vocab.SuspiciousTLDs {
		if strings.HasSuffix(domain, tld) {
			m.Add(0.5, "suspicious/cheap TLD")
			break
		}
	}

	for _, short := range vocab.URLShorteners {
		if strings.Contains(host, short) {
			m.Add(0.3, "URL shortener hides destination")
			break
		}
	}

	if vocab.ContainsAny(domain, vocab.PhishingDomainKeywords) {
		m.Add(0.3, "phishing keyword in domain")
	}

	for _, brand := range vocab.ImpersonatedBrands {
		if strings.Contains(domain, brand) && !strings.HasSuffix(domain, brand+".com") {
			m.Add(0.6, "brand impersonation: "+brand)
			break
		}
	}

	if brand, ok := Typosquat(domain); ok {
		m.Add(0.8, "typosquatting: similar to "+brand)
	}

	if strings.Count(fullURL, "%") > 3 {
		m.Add(0.3, "excessive URL encoding")
	}

	if port := parsed.Port(); port != "" && port != "80" && port != "443" {
		m.Add(0.2, "non-standard port "+port)
	}

	if strings.Contains(fullURL, "@") {
		m.Add(0.6, "@ symbol used for redirect")
	}

	if strings.Count(domain, ".") > 3 {
		m.Add(0.3, "excessive subdomains (obfuscation)")
	}

	return m.Score(), m.Reasons()
}

// hasMixedScript reports whether the domain mixes ASCII with characters
// from any other Unicode script, the classic homograph construction.
func hasMixedScript(domain string) bool {
	scripts := make(map[string]struct{}, 2)
	for _, r := range domain {
		if r < 128 {
			scripts["Latin"] = struct{}{}
			continue
		}
		scripts[scriptOf(r)] = struct{}{}
	}
	return len(scripts) > 1
}

func scriptOf(r rune) string {
	// Accented Latin (é, ü) stays Latin and must not trip the detector.
	if unicode.Is(unicode.Latin, r) {
		return "Latin"
	}
	for name, table := range unicode.Scripts {
		if unicode.Is(table, r) {
			return name
		}
	}
	return "Unknown"
}
