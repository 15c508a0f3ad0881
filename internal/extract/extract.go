// Package extract turns uploaded document bytes into plain text.
package extract

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	pdf "github.com/ledongthuc/pdf"

	"github.com/pavelanni/quizmaster/internal/apperr"
)

// Extractor converts raw document bytes to plain text based on the declared
// file extension. It performs no network calls and keeps nothing on disk.
type Extractor struct {
	minContentLen int
	allowedExts   map[string]bool
}

// New creates an Extractor. minContentLen is the smallest usable text length;
// extracted text must be strictly longer to pass.
func New(minContentLen int, allowedExts []string) *Extractor {
	allowed := make(map[string]bool, len(allowedExts))
	for _, ext := range allowedExts {
		allowed[strings.ToLower(ext)] = true
	}
	return &Extractor{minContentLen: minContentLen, allowedExts: allowed}
}

// Extract dispatches on the declared extension (without dot, lowercased by
// the caller or here) and returns the document's plain text.
func (e *Extractor) Extract(data []byte, ext string) (string, error) {
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	if !e.allowedExts[ext] {
		return "", apperr.UnsupportedFormat("invalid file type, allowed: PDF, TXT, DOCX")
	}

	var (
		text string
		err  error
	)
	switch ext {
	case "pdf":
		text, err = extractPDF(data)
	case "docx":
		text, err = extractDOCX(data)
	case "txt":
		text = strings.TrimSpace(string(data))
	default:
		return "", apperr.UnsupportedFormat("invalid file type, allowed: PDF, TXT, DOCX")
	}
	if err != nil {
		return "", apperr.ExtractionFailed(fmt.Sprintf("could not extract text from %s file", ext)).SetDebug(err)
	}

	if len(text) <= e.minContentLen {
		return "", apperr.ContentTooShort("document content too short, please upload a document with more text")
	}
	return text, nil
}

func extractPDF(data []byte) (text string, err error) {
	// The pdf package panics on some malformed files instead of returning
	// an error; treat a panic as a failed extraction.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pdf parse panic: %v", r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("pdf reader: %w", err)
	}
	plain, err := r.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("pdf plaintext: %w", err)
	}
	b, err := io.ReadAll(plain)
	if err != nil {
		return "", fmt.Errorf("pdf read: %w", err)
	}
	return strings.TrimSpace(string(b)), nil
}

// extractDOCX reads word/document.xml from the zip container and collects the
// text runs (<w:t>), one line per paragraph (<w:p>).
func extractDOCX(data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("docx is not a valid zip container: %w", err)
	}
	var doc *zip.File
	for _, f := range zr.File {
		if f.Name == "word/document.xml" {
			doc = f
			break
		}
	}
	if doc == nil {
		return "", fmt.Errorf("docx has no word/document.xml")
	}
	rc, err := doc.Open()
	if err != nil {
		return "", err
	}
	defer rc.Close()
	b, err := io.ReadAll(rc)
	if err != nil {
		return "", err
	}

	dec := xml.NewDecoder(bytes.NewReader(b))
	var out strings.Builder
	for {
		tok, err := dec.Token()
		if err != nil {
			break
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "t" {
				var v string
				_ = dec.DecodeElement(&v, &t)
				out.WriteString(v)
			}
		case xml.EndElement:
			if t.Name.Local == "p" {
				out.WriteString("\n")
			}
		}
	}
	text := strings.TrimSpace(out.String())
	if text == "" {
		return "", fmt.Errorf("no text extracted from docx")
	}
	return text, nil
}
