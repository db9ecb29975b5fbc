// Package search runs catalog searches for the add flow and marks results
// already in the collection.
package search

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/blackwell-systems/shelfboard/internal/catalog"
	"github.com/blackwell-systems/shelfboard/internal/collection"
	"github.com/blackwell-systems/shelfboard/internal/remote"
)

// FailureMessage is shown when the store gives no reason for a failed
// search.
const FailureMessage = "Failed to search books. Please try again."

// Searcher queries the catalog. *remote.Client implements it.
type Searcher interface {
	Search(ctx context.Context, q string) ([]catalog.Candidate, error)
}

// Hit is a candidate annotated against the collection.
type Hit struct {
	catalog.Candidate
	// OnShelf is true when the collection already holds this catalog entry.
	OnShelf bool
	// BookID is the matching book when OnShelf is true.
	BookID catalog.ID
}

// Result is the answer to one query.
type Result struct {
	Query string
	Hits  []Hit
	// Stale is set when a newer query was answered first. Callers should
	// drop stale results.
	Stale bool
}

// Session sequences queries from one search box.
type Session struct {
	searcher Searcher
	state    *collection.State

	mu       sync.Mutex
	issued   uint64
	answered uint64
}

// NewSession returns a session annotating results against state.
func NewSession(s Searcher, state *collection.State) *Session {
	return &Session{searcher: s, state: state}
}

// Query searches for q. An empty query is a validation error and never
// reaches the store.
func (s *Session) Query(ctx context.Context, q string) (Result, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return Result{}, &catalog.ValidationError{Field: "q", Message: "Please enter a search term."}
	}

	s.mu.Lock()
	s.issued++
	seq := s.issued
	s.mu.Unlock()

	found, err := s.searcher.Search(ctx, q)

	s.mu.Lock()
	stale := s.answered > seq
	if !stale {
		s.answered = seq
	}
	s.mu.Unlock()

	if err != nil {
		return Result{Query: q, Stale: stale}, err
	}
	return Result{Query: q, Hits: s.annotate(found), Stale: stale}, nil
}

// Message returns the user-facing text for a Query error.
func Message(err error) string {
	var ve *catalog.ValidationError
	if errors.As(err, &ve) {
		return ve.Message
	}
	return remote.UserMessage(err, FailureMessage)
}

func (s *Session) annotate(found []catalog.Candidate) []Hit {
	hits := make([]Hit, len(found))
	for i, c := range found {
		hits[i] = Hit{Candidate: c}
		if s.state == nil {
			continue
		}
		if b, ok := s.state.ByCatalogRef(c.CatalogRef); ok {
			hits[i].OnShelf = true
			hits[i].BookID = b.ID
		}
	}
	return hits
}
