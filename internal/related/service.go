// Package related finds arXiv papers semantically close to a concept by
// ranking search results with embedding similarity.
package related

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/hyperjump/ronbun/internal/arxiv"
	"github.com/hyperjump/ronbun/internal/embedding"
	"github.com/hyperjump/ronbun/internal/vector"
)

// Paper is an arXiv result with its similarity to the queried concept.
type Paper struct {
	*arxiv.Paper
	Score float32
}

// Service ranks arXiv search results against a concept embedding.
type Service struct {
	client   *arxiv.Client
	embedder embedding.Embedder
	logger   *zap.Logger
}

func NewService(client *arxiv.Client, embedder embedding.Embedder, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{client: client, embedder: embedder, logger: logger}
}

// Find searches arXiv for concept (optionally within a category such as
// "cs.LG") and orders the hits by similarity to the concept, most similar
// first. Equal scores fall back to newest publication first.
func (s *Service) Find(ctx context.Context, concept, category string, max int) ([]Paper, error) {
	concept = strings.TrimSpace(concept)
	if concept == "" {
		return nil, fmt.Errorf("empty concept")
	}

	hits, err := s.client.Search(ctx, concept, category, max)
	if err != nil {
		return nil, err
	}
	if len(hits) == 0 {
		return nil, nil
	}

	conceptVec, err := s.embedder.Embed(ctx, concept)
	if err != nil {
		return nil, fmt.Errorf("failed to embed concept: %w", err)
	}

	texts := make([]string, len(hits))
	for i, p := range hits {
		texts[i] = p.Title + " " + p.Abstract
	}
	vecs, err := s.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("failed to embed papers: %w", err)
	}

	papers := make([]Paper, len(hits))
	for i, p := range hits {
		papers[i] = Paper{Paper: p, Score: float32(vector.CosineSimilarity(conceptVec, vecs[i]))}
	}

	sort.SliceStable(papers, func(i, j int) bool {
		if papers[i].Score != papers[j].Score {
			return papers[i].Score > papers[j].Score
		}
		return papers[i].Published.After(papers[j].Published)
	})

	s.logger.Debug("related papers ranked",
		zap.String("concept", concept),
		zap.Int("results", len(papers)))

	return papers, nil
}
