// Package whois resolves domain registration dates for the domain-age
// reputation check.
package whois

import (
	"context"
	"strings"
	"time"

	whoislib "github.com/likexian/whois"
	whoisparser "github.com/likexian/whois-parser"

	"github.com/mailguard/email-guard/internal/core"
)

// Registrar date strings come back in a handful of layouts; try them in
// order of how often they appear in the wild.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05Z",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"02-Jan-2006",
	"2006.01.02",
}

// Client implements core.WhoisClient using the likexian whois library.
type Client struct {
	c *whoislib.Client
}

// NewClient builds a whois client with the given query timeout.
func NewClient(timeout time.Duration) *Client {
	c := whoislib.NewClient()
	if timeout > 0 {
		c.SetTimeout(timeout)
	}
	return &Client{c: c}
}

// CreationDate looks up when the domain was registered. Subdomains fall
// back to their registrable parent, since registrars only hold records
// for the registered domain itself.
func (w *Client) CreationDate(ctx context.Context, domain string) (time.Time, error) {
	if err := ctx.Err(); err != nil {
		return time.Time{}, err
	}

	if t, err := w.lookup(domain); err == nil {
		return t, nil
	}

	// Retry at the parent for inputs like mail.example.com.
	labels := strings.Split(domain, ".")
	if len(labels) > 2 {
		parent := strings.Join(labels[len(labels)-2:], ".")
		if parent != domain {
			if t, err := w.lookup(parent); err == nil {
				return t, nil
			}
		}
	}
	return time.Time{}, core.ErrUnavailable
}

func (w *Client) lookup(domain string) (time.Time, error) {
	raw, err := w.c.Whois(domain)
	if err != nil {
		return time.Time{}, core.ErrUnavailable
	}
	parsed, err := whoisparser.Parse(raw)
	if err != nil || parsed.Domain == nil || parsed.Domain.CreatedDate == "" {
		return time.Time{}, core.ErrUnavailable
	}
	return parseDate(parsed.Domain.CreatedDate)
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, core.ErrUnavailable
}
