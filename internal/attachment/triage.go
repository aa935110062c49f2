// Package attachment performs static, content-based triage of email
// attachments. Files are classified by magic bytes and structure, never
// by extension, and nothing is ever executed or rendered.
package attachment

import (
	"archive/zip"
	"bytes"
	"strings"

	"github.com/mailguard/email-guard/internal/risk"
)

// Classification thresholds mirror the email pipeline's bands.
const (
	highRiskThreshold   = 0.7
	suspiciousThreshold = 0.4
)

// OLE compound-file magic, shared by legacy doc/xls/ppt containers.
var oleMagic = []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}

// Result is the outcome of triaging one attachment.
type Result struct {
	Name           string
	Score          float64
	Classification string
	Reasons        []string
}

// Triage inspects one attachment's bytes and returns a bounded risk
// score with its classification band.
func Triage(name string, content []byte) *Result {
	var m risk.Meter

	switch {
	case bytes.HasPrefix(content, []byte("%PDF-")):
		triagePDF(content, &m)
	case bytes.HasPrefix(content, []byte("PK\x03\x04")):
		triageOOXML(content, &m)
	case bytes.HasPrefix(content, oleMagic):
		m.Add(0.4, "legacy Office format may carry macros")
	case looksLikeHTML(content):
		triageHTML(content, &m)
	default:
		m.Note("unrecognized file type, handle with caution")
	}

	score := m.Score()
	return &Result{
		Name:           name,
		Score:          score,
		Classification: classify(score),
		Reasons:        m.Reasons(),
	}
}

func classify(score float64) string {
	switch {
	case score >= highRiskThreshold:
		return "High-Risk Attachment"
	case score >= suspiciousThreshold:
		return "Suspicious Attachment"
	default:
		return "Low-Risk Attachment"
	}
}

// triagePDF scans for the token markers of active PDF content. Tokens
// are matched against the raw bytes; object-stream compression can hide
// them, so this is a fast filter rather than a full parse.
func triagePDF(content []byte, m *risk.Meter) {
	if bytes.Contains(content, []byte("/JavaScript")) || bytes.Contains(content, []byte("/JS")) {
		m.Add(0.4, "PDF contains embedded JavaScript")
	}
	if bytes.Contains(content, []byte("/OpenAction")) || bytes.Contains(content, []byte("/AA")) {
		m.Add(0.3, "PDF runs actions automatically on open")
	}
	if bytes.Contains(content, []byte("/Launch")) {
		m.Add(0.3, "PDF can launch external programs")
	}
}

// triageOOXML opens the zip container and looks for macro storage and
// embedded executables. An unreadable archive is itself mildly
// suspicious.
func triageOOXML(content []byte, m *risk.Meter) {
	r, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		m.Add(0.3, "archive could not be read")
		return
	}
	for _, f := range r.File {
		lower := strings.ToLower(f.Name)
		if strings.HasSuffix(lower, "vbaproject.bin") {
			m.Add(0.6, "document contains VBA macros")
			break
		}
	}
	for _, f := range r.File {
		lower := strings.ToLower(f.Name)
		if strings.HasSuffix(lower, ".exe") || (strings.HasSuffix(lower, ".bin") && !strings.HasSuffix(lower, "vbaproject.bin")) {
			m.Add(0.2, "archive contains embedded binary content")
			break
		}
	}
}

func looksLikeHTML(content []byte) bool {
	head := bytes.ToLower(bytes.TrimSpace(content))
	if len(head) > 512 {
		head = head[:512]
	}
	return bytes.HasPrefix(head, []byte("<!doctype html")) ||
		bytes.HasPrefix(head, []byte("<html")) ||
		bytes.Contains(head, []byte("<head")) ||
		bytes.Contains(head, []byte("<body"))
}

// triageHTML flags script content and credential forms, the two patterns
// of HTML smuggling attachments.
func triageHTML(content []byte, m *risk.Meter) {
	lower := bytes.ToLower(content)
	if bytes.Contains(lower, []byte("<script")) || bytes.Contains(lower, []byte("onclick=")) {
		m.Add(0.5, "HTML attachment contains script")
	}
	if bytes.Contains(lower, []byte("<form")) && bytes.Contains(lower, []byte("password")) {
		m.Add(0.3, "HTML attachment contains credential form")
	}
}
