// Package utils holds small text helpers shared by the classifier
// adapters.
package utils

import (
	"strings"
	"unicode/utf8"
)

// PrepareForModel sanitizes text to valid UTF-8 and truncates it to
// maxSize bytes without splitting a rune. A non-positive maxSize means
// no limit.
func PrepareForModel(text string, maxSize int) string {
	text = strings.ToValidUTF8(text, "")
	if maxSize <= 0 || len(text) <= maxSize {
		return text
	}

	truncated := text[:maxSize]
	for !utf8.ValidString(truncated) && len(truncated) > 0 {
		truncated = truncated[:len(truncated)-1]
	}
	return truncated + "\n[... content truncated ...]"
}

// ExtractJSON pulls the first balanced-looking JSON object out of model
// output that may wrap it in prose or code fences. Returns false when no
// braces are present.
func ExtractJSON(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	end := strings.LastIndexByte(s, '}')
	if start < 0 || end <= start {
		return "", false
	}
	return s[start : end+1], true
}
