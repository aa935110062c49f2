// Package parser normalizes raw email input, full RFC 5322 messages or
// bare pasted text, into the form the analysis pipeline consumes.
package parser

import (
	"net/mail"
	"strings"
	"time"

	"github.com/jhillyerd/enmime"
	"jaytaylor.com/html2text"

	"github.com/mailguard/email-guard/internal/core"
)

// headerPrefixes are the markers that distinguish a real email message
// from bare pasted text.
var headerPrefixes = []string{
	"From:", "To:", "Subject:", "Date:", "Received:", "MIME-Version:",
}

// looksLikeMessage reports whether the input starts with recognizable
// email headers.
func looksLikeMessage(raw string) bool {
	trimmed := strings.TrimSpace(raw)
	for _, p := range headerPrefixes {
		if strings.HasPrefix(trimmed, p) {
			return true
		}
	}
	return false
}

// Normalize parses raw bytes into a ParsedEmail. Input without headers
// is treated entirely as body text so pasted fragments can still be
// scored. Parsing never fails: a malformed message degrades to bare text.
func Normalize(raw []byte) *core.ParsedEmail {
	text := string(raw)
	if !looksLikeMessage(text) {
		return &core.ParsedEmail{
			Body:       text,
			Headers:    map[string][]string{},
			ReceivedAt: time.Now(),
		}
	}

	env, err := enmime.ReadEnvelope(strings.NewReader(text))
	if err != nil {
		return &core.ParsedEmail{
			Body:       text,
			Headers:    map[string][]string{},
			ReceivedAt: time.Now(),
		}
	}

	email := &core.ParsedEmail{
		From:    env.GetHeader("From"),
		Subject: env.GetHeader("Subject"),
		Headers: map[string][]string{},
	}

	for _, addr := range recipientAddrs(env.GetHeader("To")) {
		email.To = append(email.To, addr)
	}
	for _, addr := range recipientAddrs(env.GetHeader("Cc")) {
		email.To = append(email.To, addr)
	}

	if env.Root != nil {
		for key, values := range env.Root.Header {
			email.Headers[key] = values
		}
	}

	email.Body = env.Text
	if strings.TrimSpace(email.Body) == "" && env.HTML != "" {
		// HTML-only message: convert so keyword and URL scanning still
		// see the rendered text.
		if plain, err := html2text.FromString(env.HTML, html2text.Options{TextOnly: false}); err == nil {
			email.Body = plain
		} else {
			email.Body = env.HTML
		}
	}

	email.ReceivedAt = time.Now()
	if date := env.GetHeader("Date"); date != "" {
		if t, err := mail.ParseDate(date); err == nil {
			email.ReceivedAt = t
		}
	}

	return email
}

// recipientAddrs parses an address-list header, falling back to comma
// splitting when the list is malformed.
func recipientAddrs(headerValue string) []string {
	if strings.TrimSpace(headerValue) == "" {
		return nil
	}
	if addrs, err := mail.ParseAddressList(headerValue); err == nil {
		out := make([]string, 0, len(addrs))
		for _, a := range addrs {
			out = append(out, a.Address)
		}
		return out
	}
	var out []string
	for _, part := range strings.Split(headerValue, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
