package core

import (
	"context"
	"regexp"
	"strings"
)

// Authentication outcomes per mechanism.
const (
	authPass = "pass"
	authNone = "none"
	authFail = "fail"
)

var reSenderDomain = regexp.MustCompile(`@([a-zA-Z0-9.-]+)`)

// senderDomain pulls the domain out of a From value, tolerating display
// names and angle brackets.
func senderDomain(from string) string {
	if m := reSenderDomain.FindStringSubmatch(from); m != nil {
		return strings.ToLower(strings.TrimRight(m[1], ">."))
	}
	return "unknown.com"
}

// scoreAuthentication checks SPF and DMARC policy presence via DNS and
// DKIM signature-header presence. Each mechanism contributes 0.0 on pass,
// 0.3 when no policy is published, 0.9 on failure; the three are averaged.
// This is presence checking only, not cryptographic verification.
func (s *AnalyzerService) scoreAuthentication(ctx context.Context, email *ParsedEmail) AuthResult {
	domain := senderDomain(email.From)

	spfResult, spfScore := s.checkSPF(ctx, domain)
	dkimResult, dkimScore := checkDKIM(email)
	dmarcResult, dmarcScore := s.checkDMARC(ctx, domain)

	res := AuthResult{
		SPF:   spfResult,
		DKIM:  dkimResult,
		DMARC: dmarcResult,
	}
	res.Score = (spfScore + dkimScore + dmarcScore) / 3

	if spfResult != authPass {
		res.Reasons = append(res.Reasons, "SPF="+spfResult)
	}
	if dkimResult != authPass {
		res.Reasons = append(res.Reasons, "DKIM="+dkimResult)
	}
	if dmarcResult != authPass {
		res.Reasons = append(res.Reasons, "DMARC="+dmarcResult)
	}
	return res
}

func (s *AnalyzerService) checkSPF(ctx context.Context, domain string) (string, float64) {
	if s.resolver == nil {
		return authFail, 0.9
	}
	records, err := s.resolver.LookupTXT(ctx, domain)
	if err != nil {
		return authFail, 0.9
	}
	for _, txt := range records {
		if strings.Contains(txt, "v=spf1") {
			return authPass, 0.0
		}
	}
	return authNone, 0.3
}

func checkDKIM(email *ParsedEmail) (string, float64) {
	if email.HasHeader("DKIM-Signature") {
		// Signature presence only; verification is out of scope.
		return authPass, 0.0
	}
	return authFail, 0.9
}

func (s *AnalyzerService) checkDMARC(ctx context.Context, domain string) (string, float64) {
	if s.resolver == nil {
		return authFail, 0.9
	}
	records, err := s.resolver.LookupTXT(ctx, "_dmarc."+domain)
	if err != nil {
		return authFail, 0.9
	}
	for _, txt := range records {
		if strings.Contains(txt, "v=DMARC1") {
			return authPass, 0.0
		}
	}
	return authNone, 0.3
}
