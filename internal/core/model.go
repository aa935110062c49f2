package core

import (
	"net/textproto"
	"time"
)

// Classification is the three-way verdict of the ensemble.
type Classification string

const (
	ClassSafe       Classification = "Safe"
	ClassSuspicious Classification = "Suspicious"
	ClassPhishing   Classification = "Phishing"
)

// ParsedEmail is the normalized, immutable form of one message. Degraded
// fields (missing headers, unparseable structure) are empty rather than
// errors so arbitrary pasted text can be scored too.
type ParsedEmail struct {
	From       string
	To         []string
	Subject    string
	Body       string
	Headers    map[string][]string
	ReceivedAt time.Time
}

// Header returns the first value of a header, case-insensitively.
func (e *ParsedEmail) Header(name string) string {
	if e.Headers == nil {
		return ""
	}
	vs := e.Headers[textproto.CanonicalMIMEHeaderKey(name)]
	if len(vs) == 0 {
		return ""
	}
	return vs[0]
}

// HasHeader reports whether a header is present, case-insensitively.
func (e *ParsedEmail) HasHeader(name string) bool {
	if e.Headers == nil {
		return false
	}
	_, ok := e.Headers[textproto.CanonicalMIMEHeaderKey(name)]
	return ok
}

// SignalResult is the common shape of every scorer's output: a bounded
// risk value plus human-readable reasons for the analyst.
type SignalResult struct {
	Score   float64
	Reasons []string
}

// AuthResult carries the SPF/DKIM/DMARC presence outcomes.
type AuthResult struct {
	SignalResult
	SPF   string
	DKIM  string
	DMARC string
}

// ContentResult carries the content/intent flags alongside the score.
type ContentResult struct {
	SignalResult
	UrgencyDetected   bool
	CredentialRequest bool
	BrandMisuse       bool
	ClassifierUsed    bool
}

// URLResult aggregates per-URL inspection into one email-level signal.
type URLResult struct {
	SignalResult
	URLsFound      []string
	SuspiciousURLs int
}

// BehaviorResult carries the sender-behavior factors.
type BehaviorResult struct {
	SignalResult
	IsNewSender    bool
	OddTiming      bool
	ManyRecipients bool
}

// SentimentResult carries the pressure/fear tone signal.
type SentimentResult struct {
	SignalResult
	PressureTone bool
}

// ExternalIntelReport is the aggregated external-reputation verdict for a
// single URL. It is produced fresh per analysis and never cached here.
type ExternalIntelReport struct {
	RiskScore float64
	Details   []string
}

// CertInfo describes a served TLS certificate.
type CertInfo struct {
	NotAfter time.Time
	Issuer   string
}

// ThreatMatch is a safe-browsing style lookup outcome.
type ThreatMatch struct {
	Matched    bool
	ThreatType string
}

// PhishReport is a community phishing-database lookup outcome.
type PhishReport struct {
	InDatabase bool
	Verified   bool
}

// Contribution records one signal's part in the final score, kept purely
// for explainability.
type Contribution struct {
	Score   float64
	Weight  float64
	Reasons []string
}

// AnalysisResult is the complete outcome of one analysis request.
type AnalysisResult struct {
	ProcessingID string

	Auth      AuthResult
	Content   ContentResult
	URL       URLResult
	Behavior  BehaviorResult
	Sentiment SentimentResult

	FinalScore     float64
	Classification Classification
	Actions        []string
	Quarantined    bool
	AdminNotified  bool

	Contributions map[string]Contribution
	AnalyzedAt    time.Time
}
