// Package vector defines the similarity-search surface the engine needs
// from an external vector index: ranked documents for a query text within
// a named namespace. The index itself (embedding generation, ANN
// structure) is an opaque collaborator; see vector/pgvector for the
// production implementation.
package vector

import (
	"context"
	"sort"
	"strings"
	"sync"
)

// Logical namespaces populated by the offline indexing job.
const (
	NamespaceMenu = "menu-items"
	NamespaceFAQ  = "faqs"
)

// Document is a ranked similarity-search hit. Metadata is passed through
// from the index largely unchanged.
type Document struct {
	ID       string
	Content  string
	Metadata map[string]any
}

// Searcher is the similarity-search contract. Implementations return at
// most topK documents, best first; no score threshold is enforced here.
type Searcher interface {
	Search(ctx context.Context, query, namespace string, topK int) ([]Document, error)
}

// Embedder turns query text into an embedding vector. Consumed by Searcher
// implementations that store raw vectors (e.g. pgvector).
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// StaticSearcher is an in-memory Searcher over a fixed document set,
// scoring by naive term overlap. It backs tests and demo wiring where no
// vector database is available; relevance quality is not the point.
type StaticSearcher struct {
	mu   sync.RWMutex
	docs map[string][]Document // namespace -> documents
}

// NewStaticSearcher constructs an empty static searcher.
func NewStaticSearcher() *StaticSearcher {
	return &StaticSearcher{docs: make(map[string][]Document)}
}

// Add registers documents under a namespace.
func (s *StaticSearcher) Add(namespace string, docs ...Document) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[namespace] = append(s.docs[namespace], docs...)
}

// Search implements Searcher by counting shared lower-cased terms between
// the query and each document's content.
func (s *StaticSearcher) Search(ctx context.Context, query, namespace string, topK int) ([]Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	terms := strings.Fields(strings.ToLower(query))
	type scored struct {
		doc   Document
		score int
	}
	var hits []scored
	for _, d := range s.docs[namespace] {
		content := strings.ToLower(d.Content)
		score := 0
		for _, t := range terms {
			if strings.Contains(content, t) {
				score++
			}
		}
		if score > 0 {
			hits = append(hits, scored{doc: d, score: score})
		}
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].score > hits[j].score })
	if topK > 0 && len(hits) > topK {
		hits = hits[:topK]
	}
	out := make([]Document, 0, len(hits))
	for _, h := range hits {
		out = append(out, h.doc)
	}
	return out, nil
}
