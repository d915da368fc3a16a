package related

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/hyperjump/ronbun/internal/arxiv"
	"github.com/hyperjump/ronbun/internal/config"
)

const relatedFeed = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <entry>
    <id>http://arxiv.org/abs/2301.00001v1</id>
    <title>Paper Alpha</title>
    <summary>About transformers.</summary>
    <published>2023-01-01T00:00:00Z</published>
    <author><name>Jane Doe</name></author>
  </entry>
  <entry>
    <id>http://arxiv.org/abs/2302.00002v1</id>
    <title>Paper Beta</title>
    <summary>About convolution.</summary>
    <published>2023-02-01T00:00:00Z</published>
    <author><name>John Smith</name></author>
  </entry>
  <entry>
    <id>http://arxiv.org/abs/2303.00003v1</id>
    <title>Paper Gamma</title>
    <summary>About recurrence.</summary>
    <published>2023-03-01T00:00:00Z</published>
    <author><name>Amy Lee</name></author>
  </entry>
</feed>`

// scriptedEmbedder returns a fixed vector per text so similarity scores are
// fully controlled by the test.
type scriptedEmbedder struct {
	vectors map[string][]float32
}

func (e *scriptedEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if v, ok := e.vectors[text]; ok {
		return v, nil
	}
	return []float32{0, 1}, nil
}

func (e *scriptedEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		v, err := e.Embed(ctx, t)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (e *scriptedEmbedder) Dimensions() int { return 2 }
func (e *scriptedEmbedder) Close() error    { return nil }

func newTestService(t *testing.T, embed *scriptedEmbedder) *Service {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(relatedFeed))
	}))
	t.Cleanup(srv.Close)
	client := arxiv.NewClient(&config.ArxivConfig{
		BaseURL:    srv.URL,
		Timeout:    2 * time.Second,
		MaxResults: 5,
	}, nil)
	return NewService(client, embed, nil)
}

func TestFind_ordersBySimilarity(t *testing.T) {
	embed := &scriptedEmbedder{vectors: map[string][]float32{
		"attention":                       {1, 0},
		"Paper Alpha About transformers.": {1, 0},     // score 1.0
		"Paper Beta About convolution.":   {0, 1},     // score 0.0
		"Paper Gamma About recurrence.":   {0.6, 0.8}, // score 0.6
	}}
	svc := newTestService(t, embed)

	papers, err := svc.Find(context.Background(), "attention", "", 5)
	if err != nil {
		t.Fatalf("Find() error = %v", err)
	}
	if len(papers) != 3 {
		t.Fatalf("got %d papers, want 3", len(papers))
	}

	wantOrder := []string{"Paper Alpha", "Paper Gamma", "Paper Beta"}
	for i, want := range wantOrder {
		if papers[i].Title != want {
			t.Errorf("papers[%d].Title = %q, want %q", i, papers[i].Title, want)
		}
	}
	for i := 1; i < len(papers); i++ {
		if papers[i].Score > papers[i-1].Score {
			t.Errorf("scores not descending at %d: %v > %v", i, papers[i].Score, papers[i-1].Score)
		}
	}
}

func TestFind_tiesPreferNewer(t *testing.T) {
	// All papers score identically; newest publication must come first.
	embed := &scriptedEmbedder{vectors: map[string][]float32{
		"attention": {0, 1},
	}}
	svc := newTestService(t, embed)

	papers, err := svc.Find(context.Background(), "attention", "", 5)
	if err != nil {
		t.Fatalf("Find() error = %v", err)
	}

	wantOrder := []string{"Paper Gamma", "Paper Beta", "Paper Alpha"}
	for i, want := range wantOrder {
		if papers[i].Title != want {
			t.Errorf("papers[%d].Title = %q, want %q", i, papers[i].Title, want)
		}
	}
}

func TestFind_emptyConcept(t *testing.T) {
	svc := newTestService(t, &scriptedEmbedder{})
	if _, err := svc.Find(context.Background(), "   ", "", 5); err == nil {
		t.Error("expected error for empty concept")
	}
}
