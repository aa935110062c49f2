package core

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubIntel struct {
	reports map[string]*ExternalIntelReport
	fixed   *ExternalIntelReport
}

func (s *stubIntel) Assess(ctx context.Context, rawURL string) *ExternalIntelReport {
	if s.fixed != nil {
		return s.fixed
	}
	if r, ok := s.reports[rawURL]; ok {
		return r
	}
	return &ExternalIntelReport{}
}

func phishingEmail() *ParsedEmail {
	return &ParsedEmail{
		From:    "alerts@paypal-secure-login.tk",
		To:      []string{"victim@example.com"},
		Subject: "Urgent: verify your account",
		Body: "Your account will be suspended. " +
			"Click http://paypal-secure-login.tk/verify to confirm your password.",
		Headers:    map[string][]string{},
		ReceivedAt: time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC),
	}
}

func cleanEmail() *ParsedEmail {
	return &ParsedEmail{
		From:    "colleague@example.com",
		To:      []string{"me@example.com"},
		Subject: "Meeting notes",
		Body:    "Here are the notes from our discussion. See you tomorrow.",
		Headers: map[string][]string{
			"Dkim-Signature": {"v=1; a=rsa-sha256"},
		},
		ReceivedAt: time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC),
	}
}

func passingResolver() *stubResolver {
	return &stubResolver{txt: map[string][]string{
		"example.com":        {"v=spf1 -all"},
		"_dmarc.example.com": {"v=DMARC1; p=reject"},
	}}
}

// Heuristic stacking alone must drive an obvious credential-phish to the
// Phishing verdict even with every external collaborator unavailable.
func TestAnalyzePhishingWithAllCollaboratorsDown(t *testing.T) {
	svc := NewAnalyzerService(nil, nil, nil, nil, zap.NewNop())

	res, err := svc.Analyze(context.Background(), phishingEmail())
	require.NoError(t, err)

	assert.Equal(t, ClassPhishing, res.Classification)
	assert.GreaterOrEqual(t, res.FinalScore, 0.7)
	assert.True(t, res.Quarantined)
	assert.True(t, res.AdminNotified)
	assert.NotEmpty(t, res.ProcessingID)
	assert.Equal(t, 1, res.URL.SuspiciousURLs)
}

func TestAnalyzeCleanEmailIsSafe(t *testing.T) {
	history := &stubHistory{seen: map[string]bool{"colleague@example.com": true}}
	svc := NewAnalyzerService(nil, nil, passingResolver(), history, zap.NewNop())

	res, err := svc.Analyze(context.Background(), cleanEmail())
	require.NoError(t, err)

	assert.Equal(t, ClassSafe, res.Classification)
	assert.Less(t, res.FinalScore, 0.4)
	assert.Equal(t, []string{"Deliver to Inbox"}, res.Actions)
	assert.False(t, res.Quarantined)
}

func TestAnalyzeNeverReturnsCollaboratorErrors(t *testing.T) {
	resolver := &stubResolver{err: errors.New("dns down")}
	history := &stubHistory{err: errors.New("store down")}
	classifier := &stubClassifier{err: errors.New("model down")}
	svc := NewAnalyzerService(classifier, nil, resolver, history, zap.NewNop())

	res, err := svc.Analyze(context.Background(), cleanEmail())
	require.NoError(t, err)
	assert.NotNil(t, res)
}

func TestAnalyzeIsIdempotent(t *testing.T) {
	svc := NewAnalyzerService(nil, nil, nil, nil, zap.NewNop())
	email := phishingEmail()

	first, err := svc.Analyze(context.Background(), email)
	require.NoError(t, err)
	second, err := svc.Analyze(context.Background(), email)
	require.NoError(t, err)

	assert.Equal(t, first.FinalScore, second.FinalScore)
	assert.Equal(t, first.Classification, second.Classification)
	assert.Equal(t, first.Actions, second.Actions)
	assert.Equal(t, first.URL.Score, second.URL.Score)
	assert.Equal(t, first.URL.URLsFound, second.URL.URLsFound)
	assert.Equal(t, first.Content.Score, second.Content.Score)
	assert.NotEqual(t, first.ProcessingID, second.ProcessingID)
}

func TestAnalyzeTrustedIntelZeroSkipsLocalHeuristics(t *testing.T) {
	// A verified-clean external verdict suppresses local heuristics even
	// for a suspicious-looking URL.
	intel := &stubIntel{fixed: &ExternalIntelReport{RiskScore: 0.0, Details: []string{"trusted domain"}}}
	history := &stubHistory{seen: map[string]bool{"colleague@example.com": true}}
	svc := NewAnalyzerService(nil, intel, passingResolver(), history, zap.NewNop())

	email := cleanEmail()
	email.Body = "Docs are at http://shared-files.xyz/report"

	res, err := svc.Analyze(context.Background(), email)
	require.NoError(t, err)
	assert.Equal(t, 0.0, res.URL.Score)
}

func TestAnalyzeHighExternalRiskTrustedExclusively(t *testing.T) {
	intel := &stubIntel{fixed: &ExternalIntelReport{RiskScore: 0.95, Details: []string{"flagged by threat list"}}}
	svc := NewAnalyzerService(nil, intel, passingResolver(), nil, zap.NewNop())

	email := cleanEmail()
	email.Body = "See http://innocent-looking.com/page"

	res, err := svc.Analyze(context.Background(), email)
	require.NoError(t, err)
	assert.InDelta(t, 0.95, res.URL.Score, 1e-9)
	assert.Equal(t, ClassPhishing, res.Classification)
}

func TestAnalyzeMaxAggregationAcrossURLs(t *testing.T) {
	// One dangerous link among benign ones must not be diluted.
	intel := &stubIntel{reports: map[string]*ExternalIntelReport{
		"http://dangerous.tk/steal": {RiskScore: 0.9},
		"https://github.com/org":    {RiskScore: 0.0},
	}}
	svc := NewAnalyzerService(nil, intel, passingResolver(), nil, zap.NewNop())

	email := cleanEmail()
	email.Body = "Repo: https://github.com/org and form: http://dangerous.tk/steal"

	res, err := svc.Analyze(context.Background(), email)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, res.URL.Score, 0.9)
	assert.Equal(t, 1, res.URL.SuspiciousURLs)
}

func TestAnalyzeTyposquatSafetyNet(t *testing.T) {
	// External checks all clean except a non-zero trace keeps local path
	// active; the typosquat floor still applies on a near-brand domain.
	svc := NewAnalyzerService(nil, nil, nil, nil, zap.NewNop())

	email := &ParsedEmail{
		From:       "deals@mail.example.com",
		Subject:    "New offer",
		Body:       "Check go0gle.com for details",
		ReceivedAt: time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC),
	}
	res, err := svc.Analyze(context.Background(), email)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, res.URL.Score, 0.8)
}

func TestRecordSenderMarksHistory(t *testing.T) {
	history := &stubHistory{}
	svc := NewAnalyzerService(nil, nil, nil, history, zap.NewNop())

	email := cleanEmail()
	svc.RecordSender(context.Background(), email)

	seen, err := history.Seen(context.Background(), email.From)
	require.NoError(t, err)
	assert.True(t, seen)
}

func TestAnalyzeCancelledContext(t *testing.T) {
	svc := NewAnalyzerService(nil, nil, nil, nil, zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Analyze(ctx, cleanEmail())
	assert.Error(t, err)
}
