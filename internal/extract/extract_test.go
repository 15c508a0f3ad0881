package extract

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/pavelanni/quizmaster/internal/apperr"
)

func newTestExtractor(t *testing.T) *Extractor {
	t.Helper()
	return New(50, []string{"pdf", "txt", "docx"})
}

// docxBytes builds a minimal in-memory docx container with one paragraph
// per given string.
func docxBytes(t *testing.T, paragraphs ...string) []byte {
	t.Helper()

	var doc strings.Builder
	doc.WriteString(`<?xml version="1.0" encoding="UTF-8"?>`)
	doc.WriteString(`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>`)
	for _, p := range paragraphs {
		fmt.Fprintf(&doc, `<w:p><w:r><w:t>%s</w:t></w:r></w:p>`, p)
	}
	doc.WriteString(`</w:body></w:document>`)

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	f, err := zw.Create("word/document.xml")
	if err != nil {
		t.Fatalf("create zip entry: %v", err)
	}
	if _, err := f.Write([]byte(doc.String())); err != nil {
		t.Fatalf("write zip entry: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	return buf.Bytes()
}

func errCode(t *testing.T, err error) string {
	t.Helper()
	appErr := &apperr.Error{}
	if !errors.As(err, &appErr) {
		t.Fatalf("expected apperr.Error, got %v", err)
	}
	return appErr.Code()
}

func TestExtractTxt(t *testing.T) {
	e := newTestExtractor(t)
	content := "This document easily clears the minimum usable text threshold."

	text, err := e.Extract([]byte("  "+content+"\n"), "txt")
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if text != content {
		t.Errorf("expected trimmed content, got %q", text)
	}
}

func TestExtractDispatchesOnExtension(t *testing.T) {
	e := newTestExtractor(t)
	content := "This document easily clears the minimum usable text threshold."

	tests := []struct {
		name string
		ext  string
	}{
		{"plain extension", "txt"},
		{"with dot", ".txt"},
		{"uppercase", "TXT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := e.Extract([]byte(content), tt.ext); err != nil {
				t.Errorf("Extract(%q): %v", tt.ext, err)
			}
		})
	}
}

func TestExtractUnsupportedFormat(t *testing.T) {
	e := newTestExtractor(t)

	for _, ext := range []string{"exe", "md", "doc", ""} {
		t.Run("ext "+ext, func(t *testing.T) {
			_, err := e.Extract([]byte("irrelevant"), ext)
			if code := errCode(t, err); code != apperr.CodeUnsupportedFormat {
				t.Errorf("expected unsupported_format, got %s", code)
			}
		})
	}
}

func TestExtractTooShort(t *testing.T) {
	e := newTestExtractor(t)

	tests := []struct {
		name    string
		content string
		wantErr bool
	}{
		{"30 chars", strings.Repeat("a", 30), true},
		{"exactly 50 chars", strings.Repeat("a", 50), true},
		{"51 chars", strings.Repeat("a", 51), false},
		{"60 chars", strings.Repeat("a", 60), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.Extract([]byte(tt.content), "txt")
			if !tt.wantErr {
				if err != nil {
					t.Fatalf("Extract: %v", err)
				}
				return
			}
			if code := errCode(t, err); code != apperr.CodeContentTooShort {
				t.Errorf("expected content_too_short, got %s", code)
			}
		})
	}
}

func TestExtractDocx(t *testing.T) {
	e := newTestExtractor(t)
	data := docxBytes(t,
		"Goroutines are lightweight threads managed by the Go runtime.",
		"Channels provide typed communication between them.")

	text, err := e.Extract(data, "docx")
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	want := "Goroutines are lightweight threads managed by the Go runtime.\nChannels provide typed communication between them."
	if text != want {
		t.Errorf("expected paragraphs joined by newline, got %q", text)
	}
}

func TestExtractDocxCorrupt(t *testing.T) {
	e := newTestExtractor(t)

	tests := []struct {
		name string
		data []byte
	}{
		{"not a zip", []byte("definitely not a zip container")},
		{"zip without document xml", emptyZip(t)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.Extract(tt.data, "docx")
			if code := errCode(t, err); code != apperr.CodeExtractionFailed {
				t.Errorf("expected extraction_failed, got %s", code)
			}
		})
	}
}

func emptyZip(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	if _, err := zw.Create("unrelated.txt"); err != nil {
		t.Fatalf("create zip entry: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	return buf.Bytes()
}

func TestExtractPdfCorrupt(t *testing.T) {
	e := newTestExtractor(t)
	_, err := e.Extract([]byte("not a pdf at all"), "pdf")
	if code := errCode(t, err); code != apperr.CodeExtractionFailed {
		t.Errorf("expected extraction_failed, got %s", code)
	}
}
