package urlscan

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScoreStackingReachesPhishingBand(t *testing.T) {
	// Cheap TLD, phishing keyword and brand name stack past 0.7 with no
	// network checks at all.
	score, reasons := Score(Candidate{URL: "http://paypal-secure-login.tk/verify"})
	assert.GreaterOrEqual(t, score, 0.7)
	assert.NotEmpty(t, reasons)
}

func TestScoreMismatchIsConclusive(t *testing.T) {
	score, reasons := Score(Candidate{
		URL:      "http://evil.example.net",
		Mismatch: true,
		Display:  "https://paypal.com",
	})
	assert.Equal(t, 1.0, score)
	assert.Contains(t, reasons[0], "differs from actual href")
}

func TestScoreMixedScriptHomograph(t *testing.T) {
	// Cyrillic 'а' in an otherwise Latin domain.
	score, reasons := Score(Candidate{URL: "http://pаypal.com/login"})
	assert.Greater(t, score, 0.0)
	assert.Contains(t, strings.Join(reasons, "; "), "mixed-script")
}

func TestScoreAccentedLatinIsNotMixedScript(t *testing.T) {
	assert.False(t, hasMixedScript("café.com"))
}

func TestScoreIPHost(t *testing.T) {
	score, reasons := Score(Candidate{URL: "http://203.0.113.7/login"})
	assert.GreaterOrEqual(t, score, 0.7)
	assert.Contains(t, strings.Join(reasons, "; "), "IP address")
}

func TestScoreShortener(t *testing.T) {
	score, reasons := Score(Candidate{URL: "http://bit.ly/3xYz"})
	assert.InDelta(t, 0.3, score, 1e-9)
	assert.Contains(t, strings.Join(reasons, "; "), "shortener")
}

func TestScoreAtSymbolRedirect(t *testing.T) {
	_, reasons := Score(Candidate{URL: "http://trusted.com@evil.net/login"})
	assert.Contains(t, strings.Join(reasons, "; "), "@ symbol")
}

func TestScoreBrandImpersonation(t *testing.T) {
	_, reasons := Score(Candidate{URL: "http://amazon-support.xyz/claim"})
	assert.Contains(t, strings.Join(reasons, "; "), "brand impersonation: amazon")
}

func TestScoreOfficialBrandDomainNotImpersonation(t *testing.T) {
	score, reasons := Score(Candidate{URL: "https://amazon.com/orders"})
	assert.Equal(t, 0.0, score)
	assert.Empty(t, reasons)
}

func TestScoreNonStandardPort(t *testing.T) {
	_, reasons := Score(Candidate{URL: "http://example.com:8443/x"})
	assert.Contains(t, strings.Join(reasons, "; "), "non-standard port")
}

func TestTyposquatDetectsNearMiss(t *testing.T) {
	brand, ok := Typosquat("go0gle.com")
	assert.True(t, ok)
	assert.Equal(t, "google", brand)
}

func TestTyposquatExactBrandIsClean(t *testing.T) {
	_, ok := Typosquat("google.com")
	assert.False(t, ok)

	_, ok = Typosquat("www.google.com")
	assert.False(t, ok)
}

func TestTyposquatUnrelatedDomainIsClean(t *testing.T) {
	_, ok := Typosquat("example.com")
	assert.False(t, ok)
}

func TestEntropyOrdering(t *testing.T) {
	low := Entropy("aaaaaaaaaa")
	high := Entropy("x7k9q2mzp4w8r5v1t3y6u0s")
	assert.Less(t, low, high)
	assert.Equal(t, 0.0, Entropy(""))
}
