// Package index builds a per-document semantic index over text chunks and
// answers top-k similarity queries against it.
package index

import (
	"context"
	"errors"
	"fmt"

	"github.com/hyperjump/ronbun/internal/embedding"
	"github.com/hyperjump/ronbun/internal/vector"
)

// ErrNoChunks is returned when Build is called with no chunks; an index cannot
// be built from an empty document.
var ErrNoChunks = errors.New("no chunks to index")

// DefaultTopK is the retrieval depth when a query does not specify one.
const DefaultTopK = 5

// ScoredChunk is a retrieval hit: the chunk text, its position in the
// document, and its similarity to the query.
type ScoredChunk struct {
	Content  string
	Position int
	Score    float64
}

// SemanticIndex holds a document's chunks and their embeddings. It is built
// once per upload and read-only afterwards.
type SemanticIndex struct {
	chunks   []string
	embedder embedding.Embedder
	vectors  *vector.MemoryIndex
}

// Build embeds chunks and constructs the index. The embedder is retained for
// query-time embedding. Returns ErrNoChunks for an empty chunk sequence.
func Build(ctx context.Context, embedder embedding.Embedder, chunks []string) (*SemanticIndex, error) {
	if len(chunks) == 0 {
		return nil, ErrNoChunks
	}
	embeddings, err := embedder.EmbedBatch(ctx, chunks)
	if err != nil {
		return nil, fmt.Errorf("embed chunks: %w", err)
	}
	vectors, err := vector.NewMemoryIndex(embedder.Dimensions())
	if err != nil {
		return nil, err
	}
	if err := vectors.Add(ctx, embeddings); err != nil {
		return nil, fmt.Errorf("index chunk vectors: %w", err)
	}
	kept := make([]string, len(chunks))
	copy(kept, chunks)
	return &SemanticIndex{
		chunks:   kept,
		embedder: embedder,
		vectors:  vectors,
	}, nil
}

// Query returns up to k chunks ordered by descending similarity to text, ties
// broken by chunk position. k <= 0 uses DefaultTopK.
func (ix *SemanticIndex) Query(ctx context.Context, text string, k int) ([]ScoredChunk, error) {
	if k <= 0 {
		k = DefaultTopK
	}
	queryVec, err := ix.embedder.Embed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	hits, err := ix.vectors.Search(ctx, queryVec, k)
	if err != nil {
		return nil, fmt.Errorf("vector search: %w", err)
	}
	results := make([]ScoredChunk, len(hits))
	for i, h := range hits {
		results[i] = ScoredChunk{
			Content:  ix.chunks[h.Position],
			Position: h.Position,
			Score:    h.Score,
		}
	}
	return results, nil
}

// Len returns the number of indexed chunks.
func (ix *SemanticIndex) Len() int {
	return len(ix.chunks)
}
