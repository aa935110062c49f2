package parser

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleMessage = "From: Alice <alice@example.com>\r\n" +
	"To: Bob <bob@example.com>, carol@example.com\r\n" +
	"Cc: dave@example.com\r\n" +
	"Subject: Quarterly report\r\n" +
	"Date: Mon, 09 Mar 2026 14:30:00 +0000\r\n" +
	"MIME-Version: 1.0\r\n" +
	"Content-Type: text/plain; charset=utf-8\r\n" +
	"\r\n" +
	"The report is attached. Let me know if anything is missing.\r\n"

func TestNormalizeFullMessage(t *testing.T) {
	email := Normalize([]byte(sampleMessage))
	require.NotNil(t, email)

	assert.Equal(t, "Alice <alice@example.com>", email.From)
	assert.Equal(t, "Quarterly report", email.Subject)
	assert.Equal(t, []string{"bob@example.com", "carol@example.com", "dave@example.com"}, email.To)
	assert.Contains(t, email.Body, "report is attached")

	want := time.Date(2026, 3, 9, 14, 30, 0, 0, time.UTC)
	assert.True(t, email.ReceivedAt.Equal(want), "got %v", email.ReceivedAt)
}

func TestNormalizeBarePastedText(t *testing.T) {
	raw := "hey, your parcel is stuck, pay the fee at http://evil.tk/pay"
	email := Normalize([]byte(raw))

	assert.Empty(t, email.From)
	assert.Empty(t, email.Subject)
	assert.Equal(t, raw, email.Body)
	assert.NotNil(t, email.Headers)
	assert.WithinDuration(t, time.Now(), email.ReceivedAt, time.Minute)
}

func TestNormalizeHTMLOnlyBody(t *testing.T) {
	msg := "From: sender@example.com\r\n" +
		"Subject: Invoice\r\n" +
		"Content-Type: text/html; charset=utf-8\r\n" +
		"\r\n" +
		"<html><body><p>Please review the <a href=\"http://example.com/inv\">invoice</a>.</p></body></html>\r\n"

	email := Normalize([]byte(msg))

	assert.NotEmpty(t, strings.TrimSpace(email.Body))
	assert.Contains(t, email.Body, "invoice")
	assert.NotContains(t, email.Body, "<body>")
}

func TestNormalizeMissingDateFallsBackToNow(t *testing.T) {
	msg := "From: sender@example.com\r\n" +
		"Subject: No date header\r\n" +
		"\r\n" +
		"body\r\n"

	email := Normalize([]byte(msg))
	assert.WithinDuration(t, time.Now(), email.ReceivedAt, time.Minute)
}

func TestNormalizePreservesHeadersForAuthChecks(t *testing.T) {
	msg := "From: sender@example.com\r\n" +
		"DKIM-Signature: v=1; a=rsa-sha256; d=example.com\r\n" +
		"Subject: signed\r\n" +
		"\r\n" +
		"body\r\n"

	email := Normalize([]byte(msg))
	assert.True(t, email.HasHeader("DKIM-Signature"))
	assert.True(t, email.HasHeader("dkim-signature"))
}

func TestNormalizeMalformedMessageDegradesToText(t *testing.T) {
	raw := "Subject: broken\r\nthis line is not a header and there is no blank separator"
	email := Normalize([]byte(raw))

	require.NotNil(t, email)
	assert.NotNil(t, email.Headers)
}

func TestRecipientAddrsMalformedListFallsBackToSplitting(t *testing.T) {
	got := recipientAddrs("first@example.com, <<broken, second@example.com")
	assert.Contains(t, got, "first@example.com")
	assert.Contains(t, got, "second@example.com")
}

func TestRecipientAddrsEmpty(t *testing.T) {
	assert.Nil(t, recipientAddrs("   "))
}
