// Package intel aggregates external reputation sources into one verdict
// per URL: authoritative threat lists, community phishing reports, domain
// age, certificate posture and mail-capability checks.
package intel

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mailguard/email-guard/internal/core"
	"github.com/mailguard/email-guard/internal/risk"
	"github.com/mailguard/email-guard/internal/vocab"
)

// Each external source gets a short independent deadline so one dead
// collaborator cannot stall the whole URL assessment.
const defaultCheckTimeout = 2 * time.Second

// Domain-age risk bands, youngest first.
var ageBands = []struct {
	maxAge time.Duration
	score  float64
	label  string
}{
	{30 * 24 * time.Hour, 0.8, "domain registered within 30 days"},
	{90 * 24 * time.Hour, 0.5, "domain registered within 90 days"},
	{365 * 24 * time.Hour, 0.2, "domain registered within a year"},
}

// Aggregator implements core.URLIntel over a set of optional sources.
// Any source may be nil; its check then degrades to a neutral score
// with an explanatory note instead of failing the assessment.
type Aggregator struct {
	threatList core.ThreatList
	phishDB    core.PhishReportDB
	whois      core.WhoisClient
	certs      core.CertInspector
	resolver   core.Resolver

	checkTimeout time.Duration
	logger       *zap.Logger
}

// NewAggregator builds an aggregator. A zero timeout falls back to the
// default per-check timeout.
func NewAggregator(
	threatList core.ThreatList,
	phishDB core.PhishReportDB,
	whois core.WhoisClient,
	certs core.CertInspector,
	resolver core.Resolver,
	checkTimeout time.Duration,
	logger *zap.Logger,
) *Aggregator {
	if checkTimeout <= 0 {
		checkTimeout = defaultCheckTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Aggregator{
		threatList:   threatList,
		phishDB:      phishDB,
		whois:        whois,
		certs:        certs,
		resolver:     resolver,
		checkTimeout: checkTimeout,
		logger:       logger,
	}
}

// Assess runs every external check against one URL and folds the results
// into a single additive risk score capped at 1.0. It never fails;
// degraded checks appear as notes in the report.
func (a *Aggregator) Assess(ctx context.Context, rawURL string) *core.ExternalIntelReport {
	domain := domainOf(rawURL)

	var m risk.Meter

	// Allow-listed destinations skip every external source. A verified
	// zero tells the caller local heuristics can be skipped too.
	if trusted(domain) {
		m.Note("trusted domain: " + domain)
		return &core.ExternalIntelReport{RiskScore: 0.0, Details: m.Reasons()}
	}

	// An authoritative threat-list hit is conclusive on its own.
	if match := a.checkThreatList(ctx, rawURL, &m); match {
		return &core.ExternalIntelReport{RiskScore: 1.0, Details: m.Reasons()}
	}

	a.checkPhishReports(ctx, rawURL, &m)
	established := a.checkDomainAge(ctx, domain, &m)
	a.checkCertificate(ctx, domain, established, &m)
	a.checkMailCapability(ctx, domain, &m)

	return &core.ExternalIntelReport{RiskScore: m.Score(), Details: m.Reasons()}
}

func (a *Aggregator) checkThreatList(ctx context.Context, rawURL string, m *risk.Meter) bool {
	if a.threatList == nil {
		m.Note("threat list not configured")
		return false
	}
	cctx, cancel := context.WithTimeout(ctx, a.checkTimeout)
	defer cancel()

	match, err := a.threatList.Check(cctx, rawURL)
	if err != nil {
		a.logger.Debug("threat list check failed", zap.Error(err))
		m.Note("threat list unavailable")
		return false
	}
	if match != nil && match.Matched {
		m.Add(1.0, "flagged by threat list: "+match.ThreatType)
		return true
	}
	return false
}

func (a *Aggregator) checkPhishReports(ctx context.Context, rawURL string, m *risk.Meter) {
	if a.phishDB == nil {
		m.Note("phishing report database not configured")
		return
	}
	cctx, cancel := context.WithTimeout(ctx, a.checkTimeout)
	defer cancel()

	report, err := a.phishDB.Check(cctx, rawURL)
	if err != nil {
		a.logger.Debug("phishing report lookup failed", zap.Error(err))
		m.Note("phishing report database unavailable")
		return
	}
	if report != nil && report.InDatabase {
		reason := "reported in community phishing database"
		if report.Verified {
			reason = "verified phishing report on record"
		}
		// Floor rather than add: a community report dominates the softer
		// signals but stays below an authoritative list hit.
		m.Floor(0.9)
		m.Note(reason)
	}
}

// checkDomainAge scores registration recency and reports whether the
// domain is established (a year or older), which later dampens transient
// certificate noise.
func (a *Aggregator) checkDomainAge(ctx context.Context, domain string, m *risk.Meter) bool {
	if a.whois == nil {
		m.Add(0.3, "domain age unknown")
		return false
	}
	cctx, cancel := context.WithTimeout(ctx, a.checkTimeout)
	defer cancel()

	created, err := a.whois.CreationDate(cctx, domain)
	if err != nil {
		a.logger.Debug("whois lookup failed", zap.String("domain", domain), zap.Error(err))
		m.Add(0.3, "domain age unknown")
		return false
	}

	age := time.Since(created)
	for _, band := range ageBands {
		if age < band.maxAge {
			m.Add(band.score, band.label)
			return false
		}
	}
	m.Note(fmt.Sprintf("domain registered %d days ago", int(age.Hours()/24)))
	return true
}

func (a *Aggregator) checkCertificate(ctx context.Context, domain string, established bool, m *risk.Meter) {
	if a.certs == nil {
		m.Note("certificate inspection not configured")
		return
	}
	cctx, cancel := context.WithTimeout(ctx, a.checkTimeout)
	defer cancel()

	info, err := a.certs.Inspect(cctx, domain)

	score := 0.0
	reason := ""
	switch {
	case errors.Is(err, core.ErrCertInvalid):
		score, reason = 0.8, "invalid or self-signed certificate"
	case errors.Is(err, context.DeadlineExceeded):
		score, reason = 0.5, "certificate check timed out"
	case err != nil:
		score, reason = 0.4, "certificate could not be inspected"
	case time.Now().After(info.NotAfter):
		score, reason = 0.9, "certificate expired"
	case time.Until(info.NotAfter) <= 3*24*time.Hour:
		score, reason = 0.5, "certificate expires within 3 days"
	}

	// Long-established domains get transient certificate problems
	// dampened; their window for a dangling-domain takeover has passed.
	if established && score >= 0.8 {
		score = 0.2
		reason += " (established domain, dampened)"
	}
	if score > 0 {
		m.Add(score, reason)
	}
}

func (a *Aggregator) checkMailCapability(ctx context.Context, domain string, m *risk.Meter) {
	if a.resolver == nil {
		m.Note("mail capability check not configured")
		return
	}
	cctx, cancel := context.WithTimeout(ctx, a.checkTimeout)
	defer cancel()

	_, err := a.resolver.LookupMX(cctx, domain)
	switch {
	case errors.Is(err, core.ErrNoSuchDomain):
		m.Add(0.9, "domain does not exist")
	case err != nil:
		// Lookup infrastructure failure, not evidence about the domain.
		m.Note("mail capability check inconclusive")
	}
}

// trusted reports whether a domain is allow-listed by TLD suffix or by
// exact/subdomain platform match.
func trusted(domain string) bool {
	for _, suffix := range vocab.TrustedTLDSuffixes {
		if strings.HasSuffix(domain, suffix) {
			return true
		}
	}
	for _, platform := range vocab.TrustedPlatforms {
		if domain == platform || strings.HasSuffix(domain, "."+platform) {
			return true
		}
	}
	return false
}

// domainOf extracts the lowercase host from a raw URL, tolerating inputs
// without a scheme.
func domainOf(rawURL string) string {
	u := strings.ToLower(strings.TrimSpace(rawURL))
	if i := strings.Index(u, "://"); i >= 0 {
		u = u[i+3:]
	}
	u = strings.TrimPrefix(u, "www.")
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
