package arxiv

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/hyperjump/ronbun/internal/config"
)

const feedOneEntry = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <entry>
    <id>http://arxiv.org/abs/2301.00001v2</id>
    <title>Attention Is All
  You Need</title>
    <summary>  We propose a new architecture.
  It works well.  </summary>
    <published>2023-01-15T08:30:00Z</published>
    <author><name>Jane Doe</name></author>
    <author><name>John Smith</name></author>
    <link href="http://arxiv.org/pdf/2301.00001v2" title="pdf" type="application/pdf"/>
  </entry>
</feed>`

const feedEmpty = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <entry>
    <id>http://arxiv.org/api/errors#incorrect_id</id>
    <title>Error</title>
  </entry>
</feed>`

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(&config.ArxivConfig{
		BaseURL:    srv.URL,
		Timeout:    2 * time.Second,
		MaxResults: 5,
	}, nil)
}

func TestFetch(t *testing.T) {
	var gotIDList string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotIDList = r.URL.Query().Get("id_list")
		w.Write([]byte(feedOneEntry))
	})

	p, err := client.Fetch(context.Background(), "https://arxiv.org/abs/2301.00001v2")
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if gotIDList != "2301.00001" {
		t.Errorf("id_list = %q, want %q", gotIDList, "2301.00001")
	}
	if p.ID != "2301.00001" {
		t.Errorf("ID = %q, want %q", p.ID, "2301.00001")
	}
	if p.Title != "Attention Is All You Need" {
		t.Errorf("Title = %q (whitespace not collapsed?)", p.Title)
	}
	if len(p.Authors) != 2 || p.Authors[0] != "Jane Doe" {
		t.Errorf("Authors = %v", p.Authors)
	}
	if p.Published.Year() != 2023 {
		t.Errorf("Published = %v, want year 2023", p.Published)
	}
	if p.PDFURL != "http://arxiv.org/pdf/2301.00001v2" {
		t.Errorf("PDFURL = %q", p.PDFURL)
	}
}

func TestFetch_notFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(feedEmpty))
	})

	if _, err := client.Fetch(context.Background(), "9999.99999"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Fetch() error = %v, want ErrNotFound", err)
	}
}

func TestFetch_serverError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	if _, err := client.Fetch(context.Background(), "2301.00001"); !errors.Is(err, ErrUnavailable) {
		t.Errorf("Fetch() error = %v, want ErrUnavailable", err)
	}
}

func TestSearch(t *testing.T) {
	var gotQuery string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("search_query")
		w.Write([]byte(feedOneEntry))
	})

	papers, err := client.Search(context.Background(), "transformers", "cs.LG", 3)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(papers) != 1 {
		t.Fatalf("got %d papers, want 1", len(papers))
	}
	if gotQuery != `all:"transformers" AND cat:cs.LG` {
		t.Errorf("search_query = %q", gotQuery)
	}
}

func TestSearch_emptyQuery(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {})
	if _, err := client.Search(context.Background(), "  ", "", 0); err == nil {
		t.Error("expected error for empty query")
	}
}

func TestParseID(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"2301.00001", "2301.00001"},
		{"2301.00001v3", "2301.00001"},
		{"https://arxiv.org/abs/2301.00001", "2301.00001"},
		{"https://arxiv.org/pdf/2301.00001v1.pdf", "2301.00001"},
		{"  http://arxiv.org/abs/1706.03762v5 ", "1706.03762"},
	}
	for _, tt := range tests {
		if got := ParseID(tt.in); got != tt.want {
			t.Errorf("ParseID(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
