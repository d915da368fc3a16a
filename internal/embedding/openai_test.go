package embedding

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newEmbeddingTestServer(t *testing.T, dims int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/embeddings" {
			http.NotFound(w, r)
			return
		}
		var req struct {
			Input []string `json:"input"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		type item struct {
			Embedding []float32 `json:"embedding"`
			Index     int       `json:"index"`
		}
		out := struct {
			Data []item `json:"data"`
		}{}
		for i, text := range req.Input {
			vec := make([]float32, dims)
			vec[0] = float32(len(text))
			vec[1] = 1
			out.Data = append(out.Data, item{Embedding: vec, Index: i})
		}
		_ = json.NewEncoder(w).Encode(out)
	}))
}

func TestOpenAIEmbedder_EmbedBatch(t *testing.T) {
	srv := newEmbeddingTestServer(t, 4)
	defer srv.Close()

	e := NewOpenAIEmbedder(srv.URL, "test-key", "test-model", 4, 10, 5*time.Second)
	defer e.Close()

	vecs, err := e.EmbedBatch(context.Background(), []string{"alpha", "beta"})
	if err != nil {
		t.Fatal(err)
	}
	if len(vecs) != 2 {
		t.Fatalf("expected 2 vectors, got %d", len(vecs))
	}
	for i, vec := range vecs {
		if len(vec) != 4 {
			t.Errorf("vector %d dims=%d", i, len(vec))
		}
		var norm float64
		for _, v := range vec {
			norm += float64(v * v)
		}
		if math.Abs(norm-1) > 1e-5 {
			t.Errorf("vector %d not unit length: %f", i, norm)
		}
	}
}

func TestOpenAIEmbedder_cacheHitSkipsRequest(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"data": []map[string]interface{}{{"embedding": []float32{1, 0}, "index": 0}},
		})
	}))
	defer srv.Close()

	e := NewOpenAIEmbedder(srv.URL, "k", "m", 2, 10, 5*time.Second)
	if _, err := e.Embed(context.Background(), "same text"); err != nil {
		t.Fatal(err)
	}
	if _, err := e.Embed(context.Background(), "same text"); err != nil {
		t.Fatal(err)
	}
	if calls != 1 {
		t.Errorf("expected 1 API call, got %d", calls)
	}
}

func TestOpenAIEmbedder_upstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	e := NewOpenAIEmbedder(srv.URL, "k", "m", 2, 10, 5*time.Second)
	if _, err := e.Embed(context.Background(), "text"); err == nil {
		t.Fatal("expected an error from a 503 response")
	}
}

func TestMockEmbedder_deterministic(t *testing.T) {
	e := NewMockEmbedder(8)
	a, err := e.Embed(context.Background(), "the same chunk")
	if err != nil {
		t.Fatal(err)
	}
	b, _ := e.Embed(context.Background(), "the same chunk")
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("embedding differs at %d", i)
		}
	}
	c, _ := e.Embed(context.Background(), "a different chunk")
	same := true
	for i := range a {
		if a[i] != c[i] {
			same = false
			break
		}
	}
	if same {
		t.Error("different texts should not share an embedding")
	}
}
