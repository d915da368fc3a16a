// Package session provides the in-memory registry of active document sessions.
package session

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/hyperjump/ronbun/internal/index"
)

// ErrNotFound is returned for unknown or deleted session ids.
var ErrNotFound = errors.New("session not found")

// ErrQuotaExceeded is returned when a full-text session has used all of its
// questions. The session stays registered; only further questions are refused.
var ErrQuotaExceeded = errors.New("question quota exceeded")

// IndexedSession binds a session id to a document's summary and semantic
// index. Read-only after creation.
type IndexedSession struct {
	ID        string
	Summary   string
	Index     *index.SemanticIndex
	CreatedAt time.Time
}

// FullTextSession binds a session id to a document's raw text and a question
// counter bounded by the store's quota.
type FullTextSession struct {
	ID            string
	FullText      string
	QuestionCount int
	CreatedAt     time.Time
}

// Store is a concurrency-safe in-memory session registry. Construct one at
// startup and inject it; sessions live until deleted or process teardown.
type Store struct {
	maxQuestions int
	mu           sync.RWMutex
	indexed      map[string]*IndexedSession
	fullText     map[string]*FullTextSession
}

// NewStore creates a store enforcing maxQuestions per full-text session.
func NewStore(maxQuestions int) *Store {
	if maxQuestions <= 0 {
		maxQuestions = 5
	}
	return &Store{
		maxQuestions: maxQuestions,
		indexed:      make(map[string]*IndexedSession),
		fullText:     make(map[string]*FullTextSession),
	}
}

// MaxQuestions returns the per-session question bound.
func (s *Store) MaxQuestions() int {
	return s.maxQuestions
}

// newSessionID returns an unguessable random session id (UUIDv4, backed by
// crypto/rand). Ids are never sequential.
func newSessionID() string {
	return uuid.NewString()
}

// CreateIndexedSession registers a summary + index pair and returns its id.
func (s *Store) CreateIndexedSession(summary string, ix *index.SemanticIndex) string {
	sess := &IndexedSession{
		ID:        newSessionID(),
		Summary:   summary,
		Index:     ix,
		CreatedAt: time.Now(),
	}
	s.mu.Lock()
	s.indexed[sess.ID] = sess
	s.mu.Unlock()
	return sess.ID
}

// CreateFullTextSession registers a raw-text session and returns its id.
func (s *Store) CreateFullTextSession(fullText string) string {
	sess := &FullTextSession{
		ID:        newSessionID(),
		FullText:  fullText,
		CreatedAt: time.Now(),
	}
	s.mu.Lock()
	s.fullText[sess.ID] = sess
	s.mu.Unlock()
	return sess.ID
}

// GetIndexedSession returns the indexed session for id, or ErrNotFound.
func (s *Store) GetIndexedSession(id string) (*IndexedSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.indexed[id]
	if !ok {
		return nil, ErrNotFound
	}
	return sess, nil
}

// GetFullTextSession returns a snapshot of the full-text session for id, or
// ErrNotFound. The snapshot's QuestionCount is the count at call time.
func (s *Store) GetFullTextSession(id string) (FullTextSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.fullText[id]
	if !ok {
		return FullTextSession{}, ErrNotFound
	}
	return *sess, nil
}

// IncrementQuestionCount increments the question counter for id and returns
// the new count. Returns 0 when id is unknown; never panics.
func (s *Store) IncrementQuestionCount(id string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.fullText[id]
	if !ok {
		return 0
	}
	sess.QuestionCount++
	return sess.QuestionCount
}

// ReserveQuestion atomically checks the quota and increments the counter,
// returning the number of questions remaining after this one. The
// check-then-increment happens under one lock so two concurrent requests can
// never both pass the bound. Returns ErrNotFound or ErrQuotaExceeded.
func (s *Store) ReserveQuestion(id string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.fullText[id]
	if !ok {
		return 0, ErrNotFound
	}
	if sess.QuestionCount >= s.maxQuestions {
		return 0, ErrQuotaExceeded
	}
	sess.QuestionCount++
	return s.maxQuestions - sess.QuestionCount, nil
}

// ReleaseQuestion undoes a reservation after the answer could not be
// delivered, so a failed request never consumes quota.
func (s *Store) ReleaseQuestion(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.fullText[id]
	if !ok {
		return
	}
	if sess.QuestionCount > 0 {
		sess.QuestionCount--
	}
}

// Delete removes the session with id from the store, whichever variant it is.
// Deleting an unknown id is a no-op.
func (s *Store) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.indexed, id)
	delete(s.fullText, id)
}

// Len returns the total number of registered sessions.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.indexed) + len(s.fullText)
}
