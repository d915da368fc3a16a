// Package review orchestrates the paper pipeline: extraction, chunking,
// indexing, summary generation, and question answering over uploaded papers.
package review

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/hyperjump/ronbun/internal/chunk"
	"github.com/hyperjump/ronbun/internal/config"
	"github.com/hyperjump/ronbun/internal/embedding"
	"github.com/hyperjump/ronbun/internal/index"
	"github.com/hyperjump/ronbun/internal/llm"
	"github.com/hyperjump/ronbun/internal/session"
	"github.com/hyperjump/ronbun/pkg/utils"
)

// ErrRetrievalUnavailable marks failures of the embedding backend during
// retrieval, as opposed to generation failures (llm.ErrUnavailable).
var ErrRetrievalUnavailable = errors.New("retrieval backend unavailable")

// truncationMarker is appended when a full-text paper is cut at the size cap.
const truncationMarker = "\n\n[... text truncated ...]"

// Extractor converts an uploaded document into plain text.
type Extractor interface {
	ExtractText(content []byte) (string, error)
}

// Engine wires the extraction, chunking, embedding, generation, and session
// components into the two upload/ask flows.
type Engine struct {
	extractor Extractor
	splitter  *chunk.Splitter
	embedder  embedding.Embedder
	provider  llm.Provider
	store     *session.Store
	cfg       *config.PaperConfig
	logger    *zap.Logger
}

// NewEngine builds an Engine from its collaborators. The chunker is derived
// from the paper configuration.
func NewEngine(extractor Extractor, embedder embedding.Embedder, provider llm.Provider, store *session.Store, cfg *config.PaperConfig, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		extractor: extractor,
		splitter:  chunk.NewSplitter(cfg.ChunkSize, cfg.ChunkOverlap),
		embedder:  embedder,
		provider:  provider,
		store:     store,
		cfg:       cfg,
		logger:    logger,
	}
}

// UploadResult reports a newly registered session.
type UploadResult struct {
	SessionID string
	Summary   string
	Chunks    int
	Remaining int
}

// UploadIndexed ingests a paper for retrieval-based QA: extract, chunk, build
// the embedding index, and generate the literature-review summary. The session
// is only registered once every step has succeeded, so a failed upload leaves
// no state behind.
func (e *Engine) UploadIndexed(ctx context.Context, content []byte) (*UploadResult, error) {
	text, err := e.extractor.ExtractText(content)
	if err != nil {
		return nil, err
	}

	chunks := e.splitter.Split(text)
	ix, err := index.Build(ctx, e.embedder, chunks)
	if err != nil {
		if errors.Is(err, index.ErrNoChunks) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrRetrievalUnavailable, err)
	}

	summary, err := e.Summarize(ctx, text)
	if err != nil {
		return nil, err
	}

	id := e.store.CreateIndexedSession(summary, ix)
	e.logger.Info("indexed paper registered",
		zap.String("session_id", id),
		zap.Int("chunks", len(chunks)),
		zap.Int("text_runes", len([]rune(text))),
		zap.String("summary_preview", utils.Truncate(summary, 120)))

	return &UploadResult{SessionID: id, Summary: summary, Chunks: len(chunks)}, nil
}

// UploadFullText ingests a paper for whole-document QA. The text is capped at
// the configured byte limit; a capped document gets a truncation marker so the
// model knows the tail is missing.
func (e *Engine) UploadFullText(ctx context.Context, content []byte) (*UploadResult, error) {
	text, err := e.extractor.ExtractText(content)
	if err != nil {
		return nil, err
	}

	truncated := false
	if e.cfg.MaxTextBytes > 0 && len(text) > e.cfg.MaxTextBytes {
		text = truncateUTF8(text, e.cfg.MaxTextBytes) + truncationMarker
		truncated = true
	}

	id := e.store.CreateFullTextSession(text)
	e.logger.Info("full-text paper registered",
		zap.String("session_id", id),
		zap.Int("text_bytes", len(text)),
		zap.Bool("truncated", truncated))

	return &UploadResult{SessionID: id, Remaining: e.store.MaxQuestions()}, nil
}

// Answer is the result of a QA call.
type Answer struct {
	Text string
	// Remaining is the question quota left after this call. Only meaningful
	// for full-text sessions; indexed sessions are unmetered and report -1.
	Remaining int
}

// AskIndexed answers a question against an indexed session: retrieve the
// top-k chunks, assemble the summary-first context, and generate.
func (e *Engine) AskIndexed(ctx context.Context, sessionID, question string) (*Answer, error) {
	sess, err := e.store.GetIndexedSession(sessionID)
	if err != nil {
		return nil, err
	}

	hits, err := sess.Index.Query(ctx, question, e.cfg.TopK)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRetrievalUnavailable, err)
	}

	chunks := make([]string, len(hits))
	for i, h := range hits {
		chunks[i] = h.Content
	}

	prompt := buildAnswerPrompt(buildIndexedContext(sess.Summary, chunks), question)
	answer, err := e.provider.Complete(ctx, prompt)
	if err != nil {
		return nil, err
	}

	e.logger.Debug("indexed question answered",
		zap.String("session_id", sessionID),
		zap.Int("retrieved", len(hits)))

	return &Answer{Text: answer, Remaining: -1}, nil
}

// AskFullText answers a question against a full-text session. A quota slot is
// reserved before calling the model and released again if generation fails, so
// a failed call never consumes a question.
func (e *Engine) AskFullText(ctx context.Context, sessionID, question string) (*Answer, error) {
	sess, err := e.store.GetFullTextSession(sessionID)
	if err != nil {
		return nil, err
	}

	remaining, err := e.store.ReserveQuestion(sessionID)
	if err != nil {
		return nil, err
	}

	answer, err := e.provider.Complete(ctx, buildFullTextPrompt(sess.FullText, question))
	if err != nil {
		e.store.ReleaseQuestion(sessionID)
		return nil, err
	}

	e.logger.Debug("full-text question answered",
		zap.String("session_id", sessionID),
		zap.Int("remaining", remaining))

	return &Answer{Text: answer, Remaining: remaining}, nil
}

// Summarize generates the structured literature-review summary for text and
// normalizes its math notation to LaTeX.
func (e *Engine) Summarize(ctx context.Context, text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", errors.New("nothing to summarize")
	}
	summary, err := e.provider.Complete(ctx, buildSummaryPrompt(text))
	if err != nil {
		return "", err
	}
	return MathToLaTeX(summary), nil
}

// Delete drops a session of either kind. Unknown ids are a no-op.
func (e *Engine) Delete(sessionID string) {
	e.store.Delete(sessionID)
}

// truncateUTF8 cuts s to at most max bytes without splitting a rune.
func truncateUTF8(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && s[cut]&0xC0 == 0x80 {
		cut--
	}
	return s[:cut]
}
