package core

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/mailguard/email-guard/internal/risk"
	"github.com/mailguard/email-guard/internal/urlscan"
	"github.com/mailguard/email-guard/internal/vocab"
)

// Weighting between the semantic classifier and the rule-based safety net
// when a classifier is available.
const (
	classifierWeight = 0.95
	ruleWeight       = 0.05

	// Minimum combined text length worth sending to a classifier.
	minClassifiableLen = 10
)

// scoreContent analyzes subject and body for phishing intent. A configured
// text classifier dominates the score; keyword rules act as fallback and
// safety net. Brand misuse is verified against the extracted URLs rather
// than assumed from the mention alone.
func (s *AnalyzerService) scoreContent(ctx context.Context, email *ParsedEmail, urls []urlscan.Candidate) ContentResult {
	combined := email.Subject + " " + email.Body
	lower := strings.ToLower(combined)

	var res ContentResult

	classifierScore := -1.0
	if s.classifier != nil && len(strings.TrimSpace(combined)) > minClassifiableLen {
		p, err := s.classifier.Classify(ctx, combined)
		if err == nil {
			classifierScore = risk.Clamp(p)
			res.ClassifierUsed = true
			res.Reasons = append(res.Reasons,
				fmt.Sprintf("semantic classifier: %.0f%% phishing probability", classifierScore*100))
		} else {
			s.logger.Debug("text classifier unavailable", zap.Error(err))
		}
	}

	res.UrgencyDetected = vocab.ContainsAny(lower, vocab.UrgencyKeywords)
	res.CredentialRequest = vocab.ContainsAny(lower, vocab.CredentialKeywords)
	scamDetected := vocab.ContainsAny(lower, vocab.ScamKeywords)

	brandMentioned := vocab.ContainsAny(lower, vocab.BrandKeywords)
	verifiedBrandURL := false
	if brandMentioned && len(urls) > 0 {
		verifiedBrandURL = hasLegitimateBrandURL(lower, urls)
		res.BrandMisuse = !verifiedBrandURL
	}

	if res.UrgencyDetected {
		res.Reasons = append(res.Reasons, "high-pressure language pattern detected")
	}
	if res.CredentialRequest {
		res.Reasons = append(res.Reasons, "credential solicitation pattern")
	}
	if res.BrandMisuse {
		res.Reasons = append(res.Reasons, "brand name detected in suspicious context")
	}
	if scamDetected {
		res.Reasons = append(res.Reasons, "financial scam indicators found")
	}

	riskFactors := 0
	for _, hit := range []bool{res.UrgencyDetected, res.CredentialRequest, res.BrandMisuse} {
		if hit {
			riskFactors++
		}
	}
	if scamDetected {
		riskFactors += 2
	}
	ruleScore := risk.Clamp(float64(riskFactors) * 0.25)

	if classifierScore >= 0 {
		res.Score = classifierScore*classifierWeight + ruleScore*ruleWeight

		// Promotional-email guard: a mentioned brand backed by a verified
		// legitimate URL outranks a hot classifier.
		if brandMentioned && verifiedBrandURL && classifierScore >= 0.7 {
			res.Score = 0.2
			res.Reasons = append(res.Reasons, "legitimate brand URL verified, classifier overridden")
		}
	} else {
		res.Score = ruleScore
		res.Reasons = append(res.Reasons, "rule-based fallback (classifier unavailable)")
	}

	return res
}

// hasLegitimateBrandURL reports whether any extracted URL matches any brand
// mentioned in the text, either via the brand's official .com domain or via
// a recognized retailer that may legitimately sell the brand. Matching is
// against the URL's host as a registrable-domain suffix, so neither
// microsoft-support.xyz nor microsoft.com.evil.xyz counts for microsoft.
func hasLegitimateBrandURL(lowerText string, urls []urlscan.Candidate) bool {
	var mentioned []string
	for _, brand := range vocab.BrandKeywords {
		if strings.Contains(lowerText, brand) {
			mentioned = append(mentioned, brand)
		}
	}

	for _, brand := range mentioned {
		for _, c := range urls {
			host := hostOf(c.URL)

			for _, retailer := range vocab.LegitimateRetailers {
				if hostBelongsTo(host, retailer+".com") {
					return true
				}
			}

			if hostBelongsTo(host, brand+".com") {
				return true
			}
			if brand == "office365" && (hostBelongsTo(host, "office.com") || hostBelongsTo(host, "microsoft.com")) {
				return true
			}
			if brand == "bank" && (strings.HasSuffix(host, ".bank") ||
				strings.HasPrefix(host, "banking.") || strings.Contains(host, ".bank.")) {
				return true
			}
		}
	}
	return false
}

// hostBelongsTo reports whether host is the domain itself or one of its
// subdomains.
func hostBelongsTo(host, domain string) bool {
	return host == domain || strings.HasSuffix(host, "."+domain)
}
