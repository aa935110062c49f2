package core

import (
	"fmt"

	"github.com/mailguard/email-guard/internal/risk"
)

// Ensemble weights. URL inspection carries the most because it is the
// hardest signal for an attacker to fake; the weights sum to 1.0.
const (
	weightAuth      = 0.20
	weightContent   = 0.20
	weightURL       = 0.35
	weightBehavior  = 0.15
	weightSentiment = 0.10
)

// Classification thresholds on the weighted score.
const (
	phishingThreshold   = 0.7
	suspiciousThreshold = 0.4
)

// combine folds the five signal results into a weighted score, applies the
// override rules in strict order and records per-signal contributions.
// The two URL overrides are mutually exclusive; the content override runs
// after them and can escalate the verdict further.
func combine(res *AnalysisResult) {
	score := res.Auth.Score*weightAuth +
		res.Content.Score*weightContent +
		res.URL.Score*weightURL +
		res.Behavior.Score*weightBehavior +
		res.Sentiment.Score*weightSentiment
	score = risk.Clamp(score)

	class := ClassSafe
	switch {
	case score >= phishingThreshold:
		class = ClassPhishing
	case score >= suspiciousThreshold:
		class = ClassSuspicious
	}

	switch {
	case res.URL.Score >= 0.7 && res.URL.SuspiciousURLs > 0:
		// A confirmed-dangerous URL is phishing no matter how clean the
		// rest of the message looks.
		class = ClassPhishing
		if score < phishingThreshold {
			score = phishingThreshold
		}
	case res.URL.Score >= 0.5 && res.URL.SuspiciousURLs > 0 && class == ClassSafe:
		class = ClassSuspicious
		if score < suspiciousThreshold {
			score = suspiciousThreshold
		}
	}

	// Hot content escalates on top of whatever the URL rules decided.
	// Carve-out: clean URL evidence may overrule a hot content score, the
	// classifier alone must not quarantine a message with benign links.
	if res.Content.Score >= 0.7 && !(res.URL.Score <= 0.3 && res.URL.SuspiciousURLs == 0) {
		class = ClassPhishing
		if score < phishingThreshold {
			score = phishingThreshold
		}
	}

	res.FinalScore = score
	res.Classification = class
	res.Contributions = map[string]Contribution{
		"authentication": {Score: res.Auth.Score, Weight: weightAuth, Reasons: res.Auth.Reasons},
		"content":        {Score: res.Content.Score, Weight: weightContent, Reasons: res.Content.Reasons},
		"url":            {Score: res.URL.Score, Weight: weightURL, Reasons: res.URL.Reasons},
		"behavior":       {Score: res.Behavior.Score, Weight: weightBehavior, Reasons: res.Behavior.Reasons},
		"sentiment":      {Score: res.Sentiment.Score, Weight: weightSentiment, Reasons: res.Sentiment.Reasons},
	}
}

// Summary renders a one-line verdict for logs and CLI output.
func (r *AnalysisResult) Summary() string {
	return fmt.Sprintf("%s (score %.2f, %d URLs, %d suspicious)",
		r.Classification, r.FinalScore, len(r.URL.URLsFound), r.URL.SuspiciousURLs)
}
