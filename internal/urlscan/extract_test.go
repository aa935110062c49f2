package urlscan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func urlsOf(cands []Candidate) []string {
	out := make([]string, 0, len(cands))
	for _, c := range cands {
		out = append(out, c.URL)
	}
	return out
}

func TestExtractSchemeURLs(t *testing.T) {
	got := Extract("visit https://example.com/login?next=home today")
	assert.Contains(t, urlsOf(got), "https://example.com/login?next=home")
}

func TestExtractWWWDomains(t *testing.T) {
	got := Extract("see www.example.org/page for details")
	assert.Contains(t, urlsOf(got), "http://www.example.org/page")
}

func TestExtractBareDomainCatchesTyposquats(t *testing.T) {
	got := Extract("login at go0gle.com now")
	assert.Contains(t, urlsOf(got), "http://go0gle.com")
}

func TestExtractBareDomainSkipsAlreadyCovered(t *testing.T) {
	got := Extract("see https://example.com/page")
	require.Len(t, got, 1)
	assert.Equal(t, "https://example.com/page", got[0].URL)
}

func TestExtractIPv4Literals(t *testing.T) {
	got := Extract("click http://192.168.10.5:8080/login")
	assert.Contains(t, urlsOf(got), "http://192.168.10.5:8080/login")
}

func TestExtractAnchorMismatch(t *testing.T) {
	html := `<a href="http://evil.example.net/steal">https://paypal.com/account</a>`
	got := Extract(html)

	var mismatch *Candidate
	for i := range got {
		if got[i].Mismatch {
			mismatch = &got[i]
		}
	}
	require.NotNil(t, mismatch, "expected a mismatch candidate")
	assert.Equal(t, "http://evil.example.net/steal", mismatch.URL)
	assert.Equal(t, "https://paypal.com/account", mismatch.Display)
}

func TestExtractMatchingAnchorIsNotMismatch(t *testing.T) {
	html := `<a href="https://example.com/x">https://example.com/x</a>`
	for _, c := range Extract(html) {
		assert.False(t, c.Mismatch)
	}
}

func TestStripInvisibleDefeatsZeroWidthObfuscation(t *testing.T) {
	obfuscated := "http://ex\u200bample.com/login"
	got := Extract(obfuscated)
	assert.Contains(t, urlsOf(got), "http://example.com/login")
}

func TestExtractDeduplicates(t *testing.T) {
	got := Extract("https://example.com/a and again https://example.com/a")
	assert.Len(t, got, 1)
}

func TestExtractIsDeterministic(t *testing.T) {
	text := "https://b.com/x https://a.com/y www.c.org go0gle.com"
	first := Extract(text)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, Extract(text))
	}
}
