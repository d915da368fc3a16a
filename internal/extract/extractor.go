// Package extract provides plain-text extraction from uploaded PDF documents.
package extract

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
)

// ErrNotPDF is returned when the uploaded content is not a PDF byte stream.
var ErrNotPDF = errors.New("content is not a PDF")

// ErrEmptyDocument is returned when a PDF parses but yields no usable text.
var ErrEmptyDocument = errors.New("no text could be extracted from the document")

var pdfMagic = []byte("%PDF-")

// IsPDF reports whether content starts with the PDF file header.
func IsPDF(content []byte) bool {
	return bytes.HasPrefix(content, pdfMagic)
}

// Extractor extracts plain text from PDF byte streams.
type Extractor struct{}

// NewExtractor returns a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// ExtractText returns the text content of the PDF in content.
// Returns ErrNotPDF when the header is missing and ErrEmptyDocument when the
// PDF contains no extractable text (e.g. scanned pages without an OCR layer).
func (e *Extractor) ExtractText(content []byte) (string, error) {
	if !IsPDF(content) {
		return "", ErrNotPDF
	}
	text, err := extractPDF(content)
	if err != nil {
		return "", fmt.Errorf("extract pdf: %w", err)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrEmptyDocument
	}
	return text, nil
}
