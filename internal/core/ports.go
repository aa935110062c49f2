package core

import (
	"context"
	"errors"
	"time"
)

// Sentinel errors collaborators use to report well-understood degraded
// states. Anything else is treated as a generic collaborator failure; no
// collaborator error ever fails an analysis.
var (
	// ErrClassifierUnavailable means no text classifier is configured or
	// the configured one could not serve the request.
	ErrClassifierUnavailable = errors.New("text classifier unavailable")

	// ErrUnavailable means the collaborator could not produce an answer
	// (missing credential, library absent, lookup returned nothing usable).
	ErrUnavailable = errors.New("collaborator unavailable")

	// ErrNoSuchDomain means DNS resolution proved the domain does not exist.
	ErrNoSuchDomain = errors.New("domain does not exist")

	// ErrCertInvalid means the TLS handshake failed certificate validation
	// (self-signed, untrusted chain, hostname mismatch).
	ErrCertInvalid = errors.New("invalid or self-signed certificate")
)

// Resolver looks up DNS records. LookupMX returns ErrNoSuchDomain when the
// domain is proven absent, as opposed to merely having no MX records.
type Resolver interface {
	LookupTXT(ctx context.Context, name string) ([]string, error)
	LookupMX(ctx context.Context, domain string) ([]string, error)
}

// WhoisClient reports a domain's registration date, or ErrUnavailable when
// registration data cannot be obtained or parsed.
type WhoisClient interface {
	CreationDate(ctx context.Context, domain string) (time.Time, error)
}

// CertInspector fetches the certificate a domain serves on port 443.
// Validation failures surface as ErrCertInvalid.
type CertInspector interface {
	Inspect(ctx context.Context, domain string) (*CertInfo, error)
}

// ThreatList is an authoritative safe-browsing style lookup.
type ThreatList interface {
	Check(ctx context.Context, url string) (*ThreatMatch, error)
}

// PhishReportDB is a community-driven phishing report lookup.
type PhishReportDB interface {
	Check(ctx context.Context, url string) (*PhishReport, error)
}

// TextClassifier scores text with a phishing probability in [0,1].
// Implementations return ErrClassifierUnavailable when they cannot serve;
// the pipeline must work correctly with no classifier at all.
type TextClassifier interface {
	Classify(ctx context.Context, text string) (float64, error)
}

// URLIntel aggregates external reputation for one URL. Implementations
// never fail: degraded checks are folded into the report's details.
type URLIntel interface {
	Assess(ctx context.Context, rawURL string) *ExternalIntelReport
}

// SenderHistory tracks which senders have been seen before. The state
// lives with the collaborator, never inside the pipeline.
type SenderHistory interface {
	Seen(ctx context.Context, sender string) (bool, error)
	MarkSeen(ctx context.Context, sender string, at time.Time) error
}
