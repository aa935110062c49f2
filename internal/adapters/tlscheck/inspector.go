// Package tlscheck inspects the certificate a domain serves on 443 for
// the certificate-posture reputation check.
package tlscheck

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"net"
	"time"

	"github.com/mailguard/email-guard/internal/core"
)

// Inspector implements core.CertInspector with a direct TLS handshake.
type Inspector struct {
	timeout time.Duration
}

// NewInspector builds an inspector with the given handshake timeout.
func NewInspector(timeout time.Duration) *Inspector {
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return &Inspector{timeout: timeout}
}

// Inspect connects to domain:443 and returns the leaf certificate. The
// handshake itself skips verification so an expired certificate can still
// be observed and scored by expiry date; chain and hostname validation
// runs separately and maps to core.ErrCertInvalid. Timeouts surface as
// context.DeadlineExceeded so callers can score them separately.
func (i *Inspector) Inspect(ctx context.Context, domain string) (*core.CertInfo, error) {
	deadline := time.Now().Add(i.timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}

	dialer := &net.Dialer{Deadline: deadline}
	conn, err := tls.DialWithDialer(dialer, "tcp", net.JoinHostPort(domain, "443"), &tls.Config{
		ServerName:         domain,
		InsecureSkipVerify: true,
	})
	if err != nil {
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			return nil, context.DeadlineExceeded
		}
		return nil, err
	}
	defer conn.Close()

	certs := conn.ConnectionState().PeerCertificates
	if len(certs) == 0 {
		return nil, core.ErrCertInvalid
	}
	leaf := certs[0]

	opts := x509.VerifyOptions{
		DNSName:       domain,
		Intermediates: x509.NewCertPool(),
	}
	for _, c := range certs[1:] {
		opts.Intermediates.AddCert(c)
	}
	if _, err := leaf.Verify(opts); err != nil {
		var invalid x509.CertificateInvalidError
		if errors.As(err, &invalid) && invalid.Reason == x509.Expired {
			// Expired but otherwise well formed; the caller scores the
			// expiry itself.
			return &core.CertInfo{NotAfter: leaf.NotAfter, Issuer: leaf.Issuer.CommonName}, nil
		}
		return nil, core.ErrCertInvalid
	}

	return &core.CertInfo{
		NotAfter: leaf.NotAfter,
		Issuer:   leaf.Issuer.CommonName,
	}, nil
}
