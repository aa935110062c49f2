package core

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/mailguard/email-guard/internal/urlscan"
)

type stubClassifier struct {
	score float64
	err   error
}

func (s *stubClassifier) Classify(ctx context.Context, text string) (float64, error) {
	return s.score, s.err
}

func newTestService(classifier TextClassifier) *AnalyzerService {
	return NewAnalyzerService(classifier, nil, nil, nil, zap.NewNop())
}

func TestContentRuleFallbackWithoutClassifier(t *testing.T) {
	svc := newTestService(nil)
	email := &ParsedEmail{
		Subject: "Urgent: verify your account",
		Body:    "Your password must be confirmed immediately.",
	}

	res := svc.scoreContent(context.Background(), email, nil)

	assert.True(t, res.UrgencyDetected)
	assert.True(t, res.CredentialRequest)
	assert.False(t, res.ClassifierUsed)
	assert.InDelta(t, 0.5, res.Score, 1e-9)
	assert.Contains(t, strings.Join(res.Reasons, "; "), "rule-based fallback")
}

func TestContentClassifierDominates(t *testing.T) {
	svc := newTestService(&stubClassifier{score: 0.8})
	email := &ParsedEmail{
		Subject: "A completely ordinary subject line",
		Body:    "Nothing alarming in this message body at all.",
	}

	res := svc.scoreContent(context.Background(), email, nil)

	assert.True(t, res.ClassifierUsed)
	assert.InDelta(t, 0.8*classifierWeight, res.Score, 1e-9)
}

func TestContentClassifierErrorFallsBackToRules(t *testing.T) {
	svc := newTestService(&stubClassifier{err: errors.New("model offline")})
	email := &ParsedEmail{
		Subject: "Urgent action required",
		Body:    "Confirm your password now.",
	}

	res := svc.scoreContent(context.Background(), email, nil)

	assert.False(t, res.ClassifierUsed)
	assert.Greater(t, res.Score, 0.0)
}

func TestContentBrandMisuseWithoutLegitimateURL(t *testing.T) {
	svc := newTestService(nil)
	email := &ParsedEmail{
		Subject: "Microsoft account notice",
		Body:    "Sign in at the link below.",
	}
	urls := urlscan.Extract("http://microsoft-support.xyz/login")

	res := svc.scoreContent(context.Background(), email, urls)

	assert.True(t, res.BrandMisuse)
}

func TestContentBrandVerifiedByOfficialDomain(t *testing.T) {
	svc := newTestService(nil)
	email := &ParsedEmail{
		Subject: "Your Microsoft receipt",
		Body:    "View your order at https://www.microsoft.com/orders",
	}
	urls := urlscan.Extract(email.Body)

	res := svc.scoreContent(context.Background(), email, urls)

	assert.False(t, res.BrandMisuse)
}

func TestContentBrandDomainAsSubdomainOfAttackerIsMisuse(t *testing.T) {
	// The official domain embedded under an attacker's registrable domain
	// must not count as verification.
	svc := newTestService(nil)
	email := &ParsedEmail{
		Subject: "Microsoft security alert",
		Body:    "Review activity at the link.",
	}
	urls := urlscan.Extract("http://microsoft.com.evil.xyz/review")

	res := svc.scoreContent(context.Background(), email, urls)

	assert.True(t, res.BrandMisuse)
}

func TestContentBrandVerifiedBySubdomainOfOfficialDomain(t *testing.T) {
	svc := newTestService(nil)
	email := &ParsedEmail{
		Subject: "Microsoft documentation",
		Body:    "See https://docs.microsoft.com/guide",
	}
	urls := urlscan.Extract(email.Body)

	res := svc.scoreContent(context.Background(), email, urls)

	assert.False(t, res.BrandMisuse)
}

func TestContentBrandMentionWithoutURLsIsNotMisuse(t *testing.T) {
	svc := newTestService(nil)
	email := &ParsedEmail{
		Subject: "Lunch",
		Body:    "I bought a new apple laptop yesterday.",
	}

	res := svc.scoreContent(context.Background(), email, nil)

	assert.False(t, res.BrandMisuse)
}

func TestContentPromotionalGuardOverridesHotClassifier(t *testing.T) {
	// A legitimate retailer sale blast often trips semantic classifiers;
	// a verified brand URL caps the content signal instead.
	svc := newTestService(&stubClassifier{score: 0.9})
	email := &ParsedEmail{
		Subject: "Amazon deals this week",
		Body:    "Huge discounts at https://www.amazon.com/deals today only",
	}
	urls := urlscan.Extract(email.Body)

	res := svc.scoreContent(context.Background(), email, urls)

	assert.InDelta(t, 0.2, res.Score, 1e-9)
	assert.Contains(t, strings.Join(res.Reasons, "; "), "classifier overridden")
}

func TestContentScamKeywordsCountDouble(t *testing.T) {
	svc := newTestService(nil)
	email := &ParsedEmail{
		Subject: "Congratulations winner",
		Body:    "You won the lottery, claim your prize now.",
	}

	res := svc.scoreContent(context.Background(), email, nil)

	// Scam vocabulary alone contributes two rule factors.
	assert.GreaterOrEqual(t, res.Score, 0.5)
	assert.Contains(t, strings.Join(res.Reasons, "; "), "financial scam indicators")
}
