package core

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type stubResolver struct {
	txt map[string][]string
	mx  []string
	err error
}

func (s *stubResolver) LookupTXT(ctx context.Context, name string) ([]string, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.txt[name], nil
}

func (s *stubResolver) LookupMX(ctx context.Context, domain string) ([]string, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.mx, nil
}

type stubHistory struct {
	seen map[string]bool
	err  error
}

func (s *stubHistory) Seen(ctx context.Context, sender string) (bool, error) {
	if s.err != nil {
		return false, s.err
	}
	return s.seen[sender], nil
}

func (s *stubHistory) MarkSeen(ctx context.Context, sender string, at time.Time) error {
	if s.err != nil {
		return s.err
	}
	if s.seen == nil {
		s.seen = make(map[string]bool)
	}
	s.seen[sender] = true
	return nil
}

func TestAuthAllMechanismsPass(t *testing.T) {
	resolver := &stubResolver{txt: map[string][]string{
		"example.com":        {"v=spf1 include:_spf.example.com ~all"},
		"_dmarc.example.com": {"v=DMARC1; p=reject"},
	}}
	svc := NewAnalyzerService(nil, nil, resolver, nil, zap.NewNop())

	email := &ParsedEmail{
		From:    "Alice <alice@example.com>",
		Headers: map[string][]string{"Dkim-Signature": {"v=1; a=rsa-sha256"}},
	}
	res := svc.scoreAuthentication(context.Background(), email)

	assert.Equal(t, "pass", res.SPF)
	assert.Equal(t, "pass", res.DKIM)
	assert.Equal(t, "pass", res.DMARC)
	assert.Equal(t, 0.0, res.Score)
	assert.Empty(t, res.Reasons)
}

func TestAuthNoPolicyPublished(t *testing.T) {
	resolver := &stubResolver{txt: map[string][]string{
		"example.com": {"some unrelated TXT record"},
	}}
	svc := NewAnalyzerService(nil, nil, resolver, nil, zap.NewNop())

	email := &ParsedEmail{From: "alice@example.com"}
	res := svc.scoreAuthentication(context.Background(), email)

	assert.Equal(t, "none", res.SPF)
	assert.Equal(t, "fail", res.DKIM)
	// SPF none 0.3, DKIM fail 0.9, DMARC none 0.3 averaged.
	assert.InDelta(t, 0.5, res.Score, 1e-9)
}

func TestAuthResolverFailure(t *testing.T) {
	resolver := &stubResolver{err: errors.New("dns timeout")}
	svc := NewAnalyzerService(nil, nil, resolver, nil, zap.NewNop())

	email := &ParsedEmail{From: "alice@example.com"}
	res := svc.scoreAuthentication(context.Background(), email)

	assert.Equal(t, "fail", res.SPF)
	assert.Equal(t, "fail", res.DMARC)
	assert.InDelta(t, 0.9, res.Score, 1e-9)
}

func TestSenderDomainParsing(t *testing.T) {
	assert.Equal(t, "example.com", senderDomain("Alice <alice@example.com>"))
	assert.Equal(t, "example.com", senderDomain("alice@example.com"))
	assert.Equal(t, "unknown.com", senderDomain("not an address"))
}

func TestBehaviorAllFactors(t *testing.T) {
	svc := NewAnalyzerService(nil, nil, nil, &stubHistory{}, zap.NewNop())

	recipients := make([]string, 15)
	for i := range recipients {
		recipients[i] = "user@example.com"
	}
	email := &ParsedEmail{
		From:       "new@example.com",
		To:         recipients,
		ReceivedAt: time.Date(2026, 3, 10, 2, 30, 0, 0, time.UTC),
	}
	res := svc.scoreBehavior(context.Background(), email)

	assert.True(t, res.IsNewSender)
	assert.True(t, res.OddTiming)
	assert.True(t, res.ManyRecipients)
	assert.InDelta(t, 0.75, res.Score, 1e-9)
}

func TestBehaviorKnownSenderAtNormalHours(t *testing.T) {
	history := &stubHistory{seen: map[string]bool{"known@example.com": true}}
	svc := NewAnalyzerService(nil, nil, nil, history, zap.NewNop())

	email := &ParsedEmail{
		From:       "known@example.com",
		To:         []string{"me@example.com"},
		ReceivedAt: time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC),
	}
	res := svc.scoreBehavior(context.Background(), email)

	assert.False(t, res.IsNewSender)
	assert.Equal(t, 0.0, res.Score)
}

func TestBehaviorHistoryErrorTreatsSenderAsNew(t *testing.T) {
	history := &stubHistory{err: errors.New("store down")}
	svc := NewAnalyzerService(nil, nil, nil, history, zap.NewNop())

	email := &ParsedEmail{
		From:       "anyone@example.com",
		ReceivedAt: time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC),
	}
	res := svc.scoreBehavior(context.Background(), email)

	assert.True(t, res.IsNewSender)
}

func TestBehaviorHourBoundaries(t *testing.T) {
	svc := NewAnalyzerService(nil, nil, nil, &stubHistory{seen: map[string]bool{"a@b.com": true}}, zap.NewNop())

	at := func(hour int) BehaviorResult {
		return svc.scoreBehavior(context.Background(), &ParsedEmail{
			From:       "a@b.com",
			ReceivedAt: time.Date(2026, 3, 10, hour, 0, 0, 0, time.UTC),
		})
	}

	assert.True(t, at(23).OddTiming)
	assert.True(t, at(6).OddTiming)
	assert.False(t, at(7).OddTiming)
	assert.False(t, at(22).OddTiming)
}

func TestSentimentPressureAndFear(t *testing.T) {
	email := &ParsedEmail{
		Subject: "URGENT warning",
		Body:    "Your account has been suspended. Act now or it will be terminated.",
	}
	res := scoreSentiment(email)

	assert.True(t, res.PressureTone)
	assert.Greater(t, res.Score, 0.0)
}

func TestSentimentNeutralText(t *testing.T) {
	email := &ParsedEmail{
		Subject: "Meeting notes",
		Body:    "Here are the notes from our discussion yesterday.",
	}
	res := scoreSentiment(email)

	assert.False(t, res.PressureTone)
	assert.Equal(t, 0.0, res.Score)
	assert.Empty(t, res.Reasons)
}

func TestSentimentCapsAtCeiling(t *testing.T) {
	email := &ParsedEmail{
		Body: "urgent immediate act now hurry limited time expire suspended warning alert risk threat locked blocked terminated",
	}
	res := scoreSentiment(email)

	assert.InDelta(t, sentimentCeiling, res.Score, 1e-9)
}
