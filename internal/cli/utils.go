// Package cli provides CLI output helpers for Ronbun.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/hyperjump/ronbun/internal/related"
)

// OutputFormat is the format for CLI output.
type OutputFormat string

const (
	// OutputText is human-readable text (default).
	OutputText OutputFormat = "text"
	// OutputJSON is structured JSON for machine consumption.
	OutputJSON OutputFormat = "json"
)

// ParseOutputFormat validates a -output flag value.
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch s {
	case "text", "":
		return OutputText, nil
	case "json":
		return OutputJSON, nil
	default:
		return "", fmt.Errorf("unknown output format %q; use text or json", s)
	}
}

// WriteCitation writes a formatted citation to w in the given format.
func WriteCitation(w io.Writer, citation, style string, format OutputFormat) error {
	if format == OutputJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]string{"citation": citation, "style": style})
	}
	_, err := fmt.Fprintf(w, "%s\n", citation)
	return err
}

type relatedPaperJSON struct {
	Title     string  `json:"title"`
	Abstract  string  `json:"abstract"`
	ArxivID   string  `json:"arxiv_id"`
	PDFURL    string  `json:"pdf_url,omitempty"`
	Published string  `json:"published"`
	Score     float32 `json:"score"`
}

// WriteRelatedPapers writes ranked related papers to w in the given format.
// Use OutputJSON for parseable output consumable by other apps.
func WriteRelatedPapers(w io.Writer, papers []related.Paper, format OutputFormat) error {
	if format == OutputJSON {
		out := make([]relatedPaperJSON, len(papers))
		for i, p := range papers {
			out[i] = relatedPaperJSON{
				Title:     p.Title,
				Abstract:  p.Abstract,
				ArxivID:   p.ID,
				PDFURL:    p.PDFURL,
				Published: p.Published.Format("2006-01-02"),
				Score:     p.Score,
			}
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	fmt.Fprintf(w, "\nFound %d related papers\n\n", len(papers))
	for i, p := range papers {
		fmt.Fprintf(w, "─────────────────────────────────────────────────────────\n")
		fmt.Fprintf(w, "Rank: %d | Score: %.4f | Published: %s\n", i+1, p.Score, p.Published.Format("2006-01-02"))
		fmt.Fprintf(w, "Title: %s\n", p.Title)
		fmt.Fprintf(w, "arXiv: https://arxiv.org/abs/%s\n", p.ID)
		fmt.Fprintf(w, "\n%s\n\n", Truncate(p.Abstract, 300))
	}
	return nil
}

// Truncate truncates s to maxLen and appends "..." if truncated.
func Truncate(s string, maxLen int) string {
	if maxLen <= 0 || len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}

// TruncateWords returns up to maxWords from the space-separated string.
func TruncateWords(s string, maxWords int) string {
	words := strings.Fields(s)
	if len(words) <= maxWords {
		return s
	}
	return strings.Join(words[:maxWords], " ") + "..."
}
