package core

import (
	"fmt"
	"strings"

	"github.com/mailguard/email-guard/internal/vocab"
)

// Sentiment contribution per keyword hit, and the signal's ceiling. The
// cap keeps repetitive wording from drowning the stronger signals.
const (
	sentimentHitWeight = 0.15
	sentimentCeiling   = 0.8
)

// scoreSentiment measures manipulative tone via pressure and fear
// vocabulary counts. It is intentionally crude; the content scorer owns
// the semantic analysis.
func scoreSentiment(email *ParsedEmail) SentimentResult {
	lower := strings.ToLower(email.Subject + " " + email.Body)

	pressure := vocab.CountPresent(lower, vocab.PressureWords)
	fear := vocab.CountPresent(lower, vocab.FearWords)

	var res SentimentResult
	res.PressureTone = pressure >= 2 || fear >= 1

	score := float64(pressure+fear) * sentimentHitWeight
	if score > sentimentCeiling {
		score = sentimentCeiling
	}
	res.Score = score

	if pressure > 0 {
		res.Reasons = append(res.Reasons, fmt.Sprintf("pressure language (%d terms)", pressure))
	}
	if fear > 0 {
		res.Reasons = append(res.Reasons, fmt.Sprintf("fear-inducing language (%d terms)", fear))
	}
	return res
}
