package core

import (
	"context"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/mailguard/email-guard/internal/risk"
	"github.com/mailguard/email-guard/internal/urlscan"
	"github.com/mailguard/email-guard/internal/vocab"
)

// Per-URL inspection thresholds.
const (
	// External reputation at or above this is trusted exclusively.
	externalTrustThreshold = 0.7
	// URLs above this count as suspicious for the override rules.
	suspiciousURLThreshold = 0.5
	// Entropy above this marks a random-looking URL.
	highEntropyThreshold = 4.5
)

// scoreURLs inspects every extracted URL and aggregates with max, never
// average: one malicious link must not be diluted by benign ones. Per-URL
// checks are independent, so they fan out concurrently.
func (s *AnalyzerService) scoreURLs(ctx context.Context, email *ParsedEmail, candidates []urlscan.Candidate) URLResult {
	res := URLResult{}
	if len(candidates) == 0 {
		return res
	}

	emailContext := strings.ToLower(email.Subject + " " + email.Body)

	risks := make([]float64, len(candidates))
	notes := make([]string, len(candidates))

	g, gctx := errgroup.WithContext(ctx)
	for i, c := range candidates {
		i, c := i, c
		g.Go(func() error {
			r, reasons := s.inspectURL(gctx, c, emailContext)
			risks[i] = r
			if len(reasons) > 0 {
				notes[i] = c.URL + " -> " + strings.Join(reasons, "; ")
			}
			return nil
		})
	}
	// Workers only record into their own slot and never return an error.
	_ = g.Wait()

	for i, c := range candidates {
		res.URLsFound = append(res.URLsFound, c.URL)
		if risks[i] > res.Score {
			res.Score = risks[i]
		}
		if risks[i] > suspiciousURLThreshold {
			res.SuspiciousURLs++
		}
		if notes[i] != "" {
			res.Reasons = append(res.Reasons, notes[i])
		}
	}
	return res
}

// inspectURL combines external reputation with local heuristics for one
// candidate. High external risk is trusted exclusively; a verified-clean
// external verdict (exactly zero) skips local heuristics entirely so
// legitimate sites with noisy tracking URLs are not penalized.
func (s *AnalyzerService) inspectURL(ctx context.Context, c urlscan.Candidate, emailContext string) (float64, []string) {
	if c.Mismatch {
		return urlscan.Score(c)
	}

	var m risk.Meter
	externalRisk := 0.0
	intelOK := false

	if s.intel != nil {
		report := s.intel.Assess(ctx, c.URL)
		if report != nil {
			intelOK = true
			externalRisk = report.RiskScore
			for _, d := range report.Details {
				m.Note(d)
			}
		}
	}
	if !intelOK {
		m.Note("external checks unavailable")
	}

	if intelOK && externalRisk >= externalTrustThreshold {
		return risk.Clamp(externalRisk), m.Reasons()
	}
	if intelOK && externalRisk == 0.0 {
		return s.typosquatNet(c, 0.0, &m), m.Reasons()
	}

	m.Add(externalRisk, "")

	localScore, localReasons := urlscan.Score(c)
	if localScore > 0 {
		m.Add(localScore, strings.Join(localReasons, "; "))
	}

	if externalRisk > 0 && urlscan.Entropy(strings.ToLower(c.URL)) > highEntropyThreshold {
		m.Add(0.4, "high randomness score")
	}

	if ctxRisk := contextRelationship(c.URL, emailContext); ctxRisk > 0 {
		m.Add(ctxRisk, "suspicious context relationship")
	}

	return s.typosquatNet(c, m.Score(), &m), m.Reasons()
}

// typosquatNet is the safety-net re-check: a typosquat match floors the
// URL's risk at 0.8 even when every other check came back clean.
func (s *AnalyzerService) typosquatNet(c urlscan.Candidate, score float64, m *risk.Meter) float64 {
	domain := hostOf(c.URL)
	if brand, ok := urlscan.Typosquat(domain); ok && score < 0.8 {
		m.Note("typosquatting: similar to " + brand)
		return 0.8
	}
	return score
}

// contextRelationship scores the semantic relationship between a URL and
// the email that carries it: scam bait vocabulary, a named brand missing
// from the link's domain, and pressure-to-click phrasing.
func contextRelationship(rawURL, lowerEmail string) float64 {
	if lowerEmail == "" {
		return 0
	}
	var m risk.Meter
	domain := hostOf(rawURL)

	if vocab.ContainsAny(lowerEmail, vocab.MoneyScamWords) {
		m.Add(0.6, "")
	}

	for _, brand := range vocab.ContextBrands {
		if strings.Contains(lowerEmail, brand) && !strings.Contains(domain, brand) {
			m.Add(0.5, "")
			break
		}
	}

	if vocab.ContainsAny(lowerEmail, vocab.ActionWords) {
		m.Add(0.3, "")
	}

	return m.Score()
}

func hostOf(rawURL string) string {
	u := strings.ToLower(rawURL)
	if i := strings.Index(u, "://"); i >= 0 {
		u = u[i+3:]
	}
	if i := strings.IndexAny(u, "/?#"); i >= 0 {
		u = u[:i]
	}
	if i := strings.IndexByte(u, '@'); i >= 0 {
		u = u[i+1:]
	}
	if i := strings.IndexByte(u, ':'); i >= 0 {
		u = u[:i]
	}
	return u
}
