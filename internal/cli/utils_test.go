package cli

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/hyperjump/ronbun/internal/arxiv"
	"github.com/hyperjump/ronbun/internal/related"
)

func samplePapers() []related.Paper {
	return []related.Paper{
		{
			Paper: &arxiv.Paper{
				ID:        "2301.00001",
				Title:     "Paper One",
				Abstract:  "Abstract one content",
				Published: time.Date(2023, 1, 15, 0, 0, 0, 0, time.UTC),
			},
			Score: 0.91,
		},
		{
			Paper: &arxiv.Paper{
				ID:        "2302.00002",
				Title:     "Paper Two",
				Abstract:  "Abstract two content",
				Published: time.Date(2023, 2, 20, 0, 0, 0, 0, time.UTC),
			},
			Score: 0.42,
		},
	}
}

func TestWriteRelatedPapers_JSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteRelatedPapers(&buf, samplePapers(), OutputJSON); err != nil {
		t.Fatalf("WriteRelatedPapers(json): %v", err)
	}
	var decoded []struct {
		Title     string  `json:"title"`
		ArxivID   string  `json:"arxiv_id"`
		Published string  `json:"published"`
		Score     float32 `json:"score"`
	}
	if err := json.NewDecoder(&buf).Decode(&decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if len(decoded) != 2 {
		t.Fatalf("decoded %d papers, want 2", len(decoded))
	}
	if decoded[0].ArxivID != "2301.00001" || decoded[0].Published != "2023-01-15" {
		t.Errorf("first paper: %+v", decoded[0])
	}
}

func TestWriteRelatedPapers_JSON_empty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteRelatedPapers(&buf, nil, OutputJSON); err != nil {
		t.Fatalf("WriteRelatedPapers(json): %v", err)
	}
	var decoded []interface{}
	if err := json.NewDecoder(&buf).Decode(&decoded); err != nil {
		t.Fatalf("empty list JSON decode: %v", err)
	}
	if len(decoded) != 0 {
		t.Errorf("expected empty list, got %v", decoded)
	}
}

func TestWriteRelatedPapers_text(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteRelatedPapers(&buf, samplePapers(), OutputText); err != nil {
		t.Fatalf("WriteRelatedPapers(text): %v", err)
	}
	out := buf.String()
	for _, sub := range []string{"Found 2 related papers", "Rank: 1", "Paper One", "2023-01-15",
		"https://arxiv.org/abs/2301.00001", "Abstract one content", "Rank: 2"} {
		if !strings.Contains(out, sub) {
			t.Errorf("text output missing %q:\n%s", sub, out)
		}
	}
}

func TestWriteCitation(t *testing.T) {
	const cite = "Doe, J. (2023). A Title. arXiv. https://arxiv.org/abs/2301.00001"

	var buf bytes.Buffer
	if err := WriteCitation(&buf, cite, "APA", OutputText); err != nil {
		t.Fatalf("WriteCitation(text): %v", err)
	}
	if buf.String() != cite+"\n" {
		t.Errorf("text output: got %q", buf.String())
	}

	buf.Reset()
	if err := WriteCitation(&buf, cite, "APA", OutputJSON); err != nil {
		t.Fatalf("WriteCitation(json): %v", err)
	}
	var decoded map[string]string
	if err := json.NewDecoder(&buf).Decode(&decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if decoded["citation"] != cite || decoded["style"] != "APA" {
		t.Errorf("decoded: %v", decoded)
	}
}

func TestParseOutputFormat(t *testing.T) {
	if f, err := ParseOutputFormat("json"); err != nil || f != OutputJSON {
		t.Errorf("ParseOutputFormat(json) = %v, %v", f, err)
	}
	if f, err := ParseOutputFormat(""); err != nil || f != OutputText {
		t.Errorf("ParseOutputFormat(empty) = %v, %v", f, err)
	}
	if _, err := ParseOutputFormat("yaml"); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name   string
		s      string
		maxLen int
		want   string
	}{
		{"empty", "", 5, ""},
		{"short", "hi", 5, "hi"},
		{"exact", "hello", 5, "hello"},
		{"long", "hello world", 5, "hello..."},
		{"maxLen zero", "ab", 0, "ab"},
		{"maxLen negative", "ab", -1, "ab"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Truncate(tt.s, tt.maxLen)
			if got != tt.want {
				t.Errorf("Truncate(%q, %d) = %q, want %q", tt.s, tt.maxLen, got, tt.want)
			}
		})
	}
}

func TestTruncateWords(t *testing.T) {
	tests := []struct {
		name     string
		s        string
		maxWords int
		want     string
	}{
		{"empty", "", 3, ""},
		{"few words", "one two", 3, "one two"},
		{"exact", "one two three", 3, "one two three"},
		{"more", "one two three four", 3, "one two three..."},
		{"single long", "word", 1, "word"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TruncateWords(tt.s, tt.maxWords)
			if got != tt.want {
				t.Errorf("TruncateWords(%q, %d) = %q, want %q", tt.s, tt.maxWords, got, tt.want)
			}
		})
	}
}
