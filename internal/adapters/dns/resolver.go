// Package dns adapts the system resolver to the lookup interface the
// pipeline uses for SPF, DMARC and mail-capability checks.
package dns

import (
	"context"
	"errors"
	"net"

	"github.com/mailguard/email-guard/internal/core"
)

// Resolver implements core.Resolver over net.Resolver.
type Resolver struct {
	r *net.Resolver
}

// NewResolver returns a resolver backed by the system DNS configuration.
func NewResolver() *Resolver {
	return &Resolver{r: net.DefaultResolver}
}

func (d *Resolver) LookupTXT(ctx context.Context, name string) ([]string, error) {
	return d.r.LookupTXT(ctx, name)
}

// LookupMX maps NXDOMAIN to core.ErrNoSuchDomain so callers can tell a
// nonexistent domain apart from one that merely lacks MX records.
func (d *Resolver) LookupMX(ctx context.Context, domain string) ([]string, error) {
	records, err := d.r.LookupMX(ctx, domain)
	if err != nil {
		var dnsErr *net.DNSError
		if errors.As(err, &dnsErr) && dnsErr.IsNotFound {
			return nil, core.ErrNoSuchDomain
		}
		return nil, err
	}
	hosts := make([]string, 0, len(records))
	for _, mx := range records {
		hosts = append(hosts, mx.Host)
	}
	return hosts, nil
}
