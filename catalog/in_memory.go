package catalog

import (
	"context"
	"strings"
	"sync"
)

// InMemoryStore is a volatile Store implementation backed by slices. It is
// safe for concurrent access and best suited for tests or demo servers
// that do not have a document database at hand.
type InMemoryStore struct {
	mu         sync.RWMutex
	items      []Item
	promotions []Promotion
}

// NewInMemoryStore constructs a store pre-populated with the given items.
func NewInMemoryStore(items []Item, promotions []Promotion) *InMemoryStore {
	return &InMemoryStore{items: items, promotions: promotions}
}

// FindByCategory matches the linked category name, item name or tags
// against the terms using case-insensitive substring matching, mirroring
// the document store's regex lookup.
func (s *InMemoryStore) FindByCategory(ctx context.Context, terms []string) ([]Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Item
	for _, it := range s.items {
		if matchesAny(it.CategoryName, terms) || matchesAny(it.Name, terms) || tagsMatchAny(it.Tags, terms) {
			out = append(out, it)
		}
	}
	return out, nil
}

// FindByNameOrTag is the category-free fallback lookup.
func (s *InMemoryStore) FindByNameOrTag(ctx context.Context, terms []string) ([]Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Item
	for _, it := range s.items {
		if matchesAny(it.Name, terms) || tagsMatchAny(it.Tags, terms) {
			out = append(out, it)
		}
	}
	return out, nil
}

// FindItem performs a prefix match first and falls back to a substring
// match, approximating the document store's autocomplete-then-regex
// strategy.
func (s *InMemoryStore) FindItem(ctx context.Context, name string) (*Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	needle := strings.ToLower(strings.TrimSpace(name))
	if needle == "" {
		return nil, nil
	}
	for i := range s.items {
		if strings.HasPrefix(strings.ToLower(s.items[i].Name), needle) {
			it := s.items[i]
			return &it, nil
		}
	}
	for i := range s.items {
		if strings.Contains(strings.ToLower(s.items[i].Name), needle) {
			it := s.items[i]
			return &it, nil
		}
	}
	return nil, nil
}

// Promotions returns all stored promotions.
func (s *InMemoryStore) Promotions(ctx context.Context) ([]Promotion, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Promotion, len(s.promotions))
	copy(out, s.promotions)
	return out, nil
}

func matchesAny(value string, terms []string) bool {
	v := strings.ToLower(value)
	if v == "" {
		return false
	}
	for _, t := range terms {
		if t != "" && strings.Contains(v, strings.ToLower(t)) {
			return true
		}
	}
	return false
}

func tagsMatchAny(tags, terms []string) bool {
	for _, tag := range tags {
		if matchesAny(tag, terms) {
			return true
		}
	}
	return false
}
