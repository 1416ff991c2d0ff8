package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/hungryfork/concierge/cache"
	"github.com/hungryfork/concierge/logging"
	"github.com/hungryfork/concierge/vector"
)

// faqTopK is how many FAQ hits a search retrieves; answers are short so
// fewer hits keep the tool result focused.
const faqTopK = 3

// FAQSearchArgs are the arguments of the faq_search tool.
type FAQSearchArgs struct {
	Query string `json:"query"`
}

// FAQSearchTool answers restaurant policy and info questions (hours,
// location, delivery, payment) via similarity search over the FAQ index.
type FAQSearchTool struct {
	searcher vector.Searcher
	cache    *cache.Cache
	logger   logging.Logger
}

// NewFAQSearchTool wires the tool.
func NewFAQSearchTool(searcher vector.Searcher, c *cache.Cache, logger logging.Logger) *FAQSearchTool {
	if logger == nil {
		logger = logging.NoOpLogger{}
	}
	return &FAQSearchTool{searcher: searcher, cache: c, logger: logger}
}

func (t *FAQSearchTool) Name() string { return "faq_search" }

func (t *FAQSearchTool) Description() string {
	return "Look up restaurant information: opening hours, location, delivery areas, payment " +
		"methods, parking and other policies."
}

func (t *FAQSearchTool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"query": map[string]any{
				"type":        "string",
				"description": "The customer's question about the restaurant.",
			},
		},
		"required": []string{"query"},
	}
}

// Call implements Tool.
func (t *FAQSearchTool) Call(ctx context.Context, args json.RawMessage) string {
	var a FAQSearchArgs
	if err := json.Unmarshal(args, &a); err != nil {
		t.logger.Warn("faq_search.bad_args", "error", err.Error())
		return "I couldn't understand that question. Please ask me about our hours, location, or services!"
	}
	return t.Search(ctx, a.Query)
}

// Search runs the FAQ lookup for a query.
func (t *FAQSearchTool) Search(ctx context.Context, query string) string {
	normalized := strings.ToLower(strings.TrimSpace(query))
	key := "faq:" + normalized
	if cached, ok := t.cache.Get(key); ok {
		return cached
	}

	docs, err := t.searcher.Search(ctx, query, vector.NamespaceFAQ, faqTopK)
	if err != nil {
		t.logger.Error("faq_search.search", "query", normalized, "error", err.Error())
		return "I'm having trouble accessing restaurant information right now. Please try again or contact us directly."
	}
	if len(docs) == 0 {
		result := "I don't have that information on hand. Please contact the restaurant directly and we'll be happy to help!"
		t.cache.Put(key, result)
		return result
	}

	var b strings.Builder
	for i, d := range docs {
		if q := metaString(d.Metadata, "question", ""); q != "" {
			fmt.Fprintf(&b, "**%s**\n", q)
		}
		b.WriteString(d.Content)
		if i < len(docs)-1 {
			b.WriteString("\n\n")
		}
	}
	result := b.String()
	t.cache.Put(key, result)
	return result
}
