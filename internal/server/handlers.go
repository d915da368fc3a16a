package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/hyperjump/ronbun/internal/arxiv"
	"github.com/hyperjump/ronbun/internal/citation"
	"github.com/hyperjump/ronbun/internal/extract"
	"github.com/hyperjump/ronbun/internal/index"
	"github.com/hyperjump/ronbun/internal/llm"
	"github.com/hyperjump/ronbun/internal/review"
	"github.com/hyperjump/ronbun/internal/session"
)

type uploadResponse struct {
	SessionID string `json:"session_id"`
	Summary   string `json:"summary,omitempty"`
	Chunks    int    `json:"chunks,omitempty"`
	Remaining *int   `json:"remaining_questions,omitempty"`
}

type askRequest struct {
	Question string `json:"question"`
}

type askResponse struct {
	Answer    string `json:"answer"`
	Remaining *int   `json:"remaining_questions,omitempty"`
}

func (s *Server) handleUploadIndexed(w http.ResponseWriter, r *http.Request) {
	content, ok := s.readUpload(w, r)
	if !ok {
		return
	}
	res, err := s.engine.UploadIndexed(r.Context(), content)
	if err != nil {
		s.respondMappedError(w, "upload", err)
		return
	}
	s.respondJSON(w, http.StatusCreated, uploadResponse{
		SessionID: res.SessionID,
		Summary:   res.Summary,
		Chunks:    res.Chunks,
	})
}

func (s *Server) handleUploadFullText(w http.ResponseWriter, r *http.Request) {
	content, ok := s.readUpload(w, r)
	if !ok {
		return
	}
	res, err := s.engine.UploadFullText(r.Context(), content)
	if err != nil {
		s.respondMappedError(w, "upload", err)
		return
	}
	s.respondJSON(w, http.StatusCreated, uploadResponse{
		SessionID: res.SessionID,
		Remaining: &res.Remaining,
	})
}

func (s *Server) handleAskIndexed(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	question, ok := s.readQuestion(w, r)
	if !ok {
		return
	}
	ans, err := s.engine.AskIndexed(r.Context(), id, question)
	if err != nil {
		s.respondMappedError(w, "qa", err)
		return
	}
	s.respondJSON(w, http.StatusOK, askResponse{Answer: ans.Text})
}

func (s *Server) handleAskFullText(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	question, ok := s.readQuestion(w, r)
	if !ok {
		return
	}
	ans, err := s.engine.AskFullText(r.Context(), id, question)
	if err != nil {
		s.respondMappedError(w, "qa", err)
		return
	}
	s.respondJSON(w, http.StatusOK, askResponse{Answer: ans.Text, Remaining: &ans.Remaining})
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.logger.Debug("delete session request", zap.String("session_id", id))
	s.engine.Delete(id)
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

type citationRequest struct {
	ID    string `json:"id"`
	Style string `json:"style"`
}

func (s *Server) handleCitation(w http.ResponseWriter, r *http.Request) {
	var req citationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.ID == "" {
		s.respondError(w, http.StatusBadRequest, "id is required")
		return
	}
	style, err := citation.ParseStyle(req.Style)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	paper, err := s.arxiv.Fetch(r.Context(), req.ID)
	if err != nil {
		s.respondMappedError(w, "citation", err)
		return
	}
	rec, err := citation.FromPaper(paper)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	text, err := citation.Format(rec, style)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]string{
		"citation": text,
		"style":    string(style),
	})
}

// maxRelatedResults bounds how many papers one related-search request may ask
// the arXiv API for, regardless of the max query parameter.
const maxRelatedResults = 50

type relatedPaperResponse struct {
	Title     string  `json:"title"`
	Abstract  string  `json:"abstract"`
	ArxivID   string  `json:"arxiv_id"`
	PDFURL    string  `json:"pdf_url,omitempty"`
	Published string  `json:"published"`
	Score     float32 `json:"score"`
}

func (s *Server) handleRelated(w http.ResponseWriter, r *http.Request) {
	concept := r.URL.Query().Get("concept")
	if concept == "" {
		s.respondError(w, http.StatusBadRequest, "concept is required")
		return
	}
	category := r.URL.Query().Get("category")
	max := 0
	if v := r.URL.Query().Get("max"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			s.respondError(w, http.StatusBadRequest, "max must be a positive integer")
			return
		}
		if n > maxRelatedResults {
			n = maxRelatedResults
		}
		max = n
	}

	papers, err := s.related.Find(r.Context(), concept, category, max)
	if err != nil {
		s.respondMappedError(w, "related", err)
		return
	}

	out := make([]relatedPaperResponse, len(papers))
	for i, p := range papers {
		out[i] = relatedPaperResponse{
			Title:     p.Title,
			Abstract:  p.Abstract,
			ArxivID:   p.ID,
			PDFURL:    p.PDFURL,
			Published: p.Published.Format("2006-01-02"),
			Score:     p.Score,
		}
	}
	s.respondJSON(w, http.StatusOK, map[string]interface{}{"papers": out})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	resp := map[string]interface{}{
		"sessions": s.sessions.Len(),
		"config": map[string]interface{}{
			"chunk_size":           s.config.Paper.ChunkSize,
			"chunk_overlap":        s.config.Paper.ChunkOverlap,
			"top_k":                s.config.Paper.TopK,
			"max_questions":        s.config.Paper.MaxQuestions,
			"max_upload_mb":        s.config.Paper.MaxUploadMB,
			"embedding_provider":   s.config.Embedding.Provider,
			"embedding_dimensions": s.config.Embedding.Dimensions,
		},
	}
	s.respondJSON(w, http.StatusOK, resp)
}

// readUpload pulls the "file" part from a multipart upload, enforcing the
// size bound before any processing and rejecting non-PDF content by sniffing
// the magic bytes.
func (s *Server) readUpload(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	maxBytes := s.config.Paper.MaxUploadBytes()
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)

	file, header, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.respondError(w, http.StatusBadRequest, "file exceeds upload size limit")
			return nil, false
		}
		s.respondError(w, http.StatusBadRequest, "multipart field 'file' is required")
		return nil, false
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.respondError(w, http.StatusBadRequest, "file exceeds upload size limit")
			return nil, false
		}
		s.respondError(w, http.StatusBadRequest, "failed to read upload")
		return nil, false
	}

	if !extract.IsPDF(content) {
		s.respondError(w, http.StatusBadRequest, "only PDF uploads are accepted")
		return nil, false
	}

	s.logger.Debug("upload received",
		zap.String("filename", header.Filename),
		zap.Int("bytes", len(content)))
	return content, true
}

func (s *Server) readQuestion(w http.ResponseWriter, r *http.Request) (string, bool) {
	var req askRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return "", false
	}
	if req.Question == "" {
		s.respondError(w, http.StatusBadRequest, "question is required")
		return "", false
	}
	return req.Question, true
}

// respondMappedError translates component errors into API status codes:
// validation failures are 400, unknown sessions and papers 404, exhausted
// quotas 429, backend failures 502.
func (s *Server) respondMappedError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, extract.ErrNotPDF),
		errors.Is(err, extract.ErrEmptyDocument),
		errors.Is(err, index.ErrNoChunks):
		s.respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, session.ErrNotFound):
		s.respondError(w, http.StatusNotFound, "session unavailable, re-upload the paper")
	case errors.Is(err, arxiv.ErrNotFound):
		s.respondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, session.ErrQuotaExceeded):
		s.respondJSON(w, http.StatusTooManyRequests, map[string]interface{}{
			"error":               "question quota exhausted for this session",
			"remaining_questions": 0,
		})
	case errors.Is(err, llm.ErrUnavailable),
		errors.Is(err, review.ErrRetrievalUnavailable),
		errors.Is(err, arxiv.ErrUnavailable):
		s.logger.Error(op+" backend failure", zap.Error(err))
		s.respondError(w, http.StatusBadGateway, "upstream service unavailable, retry later")
	default:
		s.logger.Error(op+" failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
	}
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}
