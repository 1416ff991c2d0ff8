package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/hungryfork/concierge/cache"
	"github.com/hungryfork/concierge/logging"
	"github.com/hungryfork/concierge/vector"
)

// menuTopK is how many similarity hits a menu search retrieves.
const menuTopK = 6

// categoryPriceRedirect detects category+budget phrasing inside a free-form
// query. Such queries get strict structured filtering instead of a
// best-effort semantic match.
var categoryPriceRedirect = regexp.MustCompile(
	`(starter|appetizer|main|dessert|drink|beverage|paneer).*?(under|below|less than|within)\s*(\d+)`)

// MenuSearchArgs are the arguments of the menu_search tool.
type MenuSearchArgs struct {
	Query string `json:"query"`
}

// MenuSearchTool answers free-form dish questions via similarity search
// over the menu index. Queries that name a category and a budget are
// redirected to the structured category tool, which guarantees the price
// constraint instead of approximating it.
type MenuSearchTool struct {
	searcher vector.Searcher
	cache    *cache.Cache
	category *CategoryFilterTool
	logger   logging.Logger
}

// NewMenuSearchTool wires the tool. category may be nil to disable the
// redirect (tests exercising pure semantic search do this).
func NewMenuSearchTool(searcher vector.Searcher, c *cache.Cache, category *CategoryFilterTool, logger logging.Logger) *MenuSearchTool {
	if logger == nil {
		logger = logging.NoOpLogger{}
	}
	return &MenuSearchTool{searcher: searcher, cache: c, category: category, logger: logger}
}

func (t *MenuSearchTool) Name() string { return "menu_search" }

func (t *MenuSearchTool) Description() string {
	return "Semantic search over the menu for free-form dish questions like 'something spicy with " +
		"chicken' or 'what goes well with naan'. For category browsing with a budget, prefer " +
		"category_filter_search."
}

func (t *MenuSearchTool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"query": map[string]any{
				"type":        "string",
				"description": "The customer's food question in natural language.",
			},
		},
		"required": []string{"query"},
	}
}

// Call implements Tool.
func (t *MenuSearchTool) Call(ctx context.Context, args json.RawMessage) string {
	var a MenuSearchArgs
	if err := json.Unmarshal(args, &a); err != nil {
		t.logger.Warn("menu_search.bad_args", "error", err.Error())
		return "I couldn't understand that search. Please ask me about a dish or food category!"
	}
	return t.Search(ctx, a.Query)
}

// Search runs the semantic menu lookup for a query.
func (t *MenuSearchTool) Search(ctx context.Context, query string) string {
	normalized := strings.ToLower(strings.TrimSpace(query))

	if t.category != nil {
		if m := categoryPriceRedirect.FindStringSubmatch(normalized); m != nil {
			price, err := strconv.ParseFloat(m[3], 64)
			if err == nil {
				t.logger.Debug("menu_search.redirect", "category", m[1], "max_price", m[3])
				return t.category.Search(ctx, m[1], &price)
			}
		}
	}

	key := "menu:" + normalized
	if cached, ok := t.cache.Get(key); ok {
		return cached
	}

	docs, err := t.searcher.Search(ctx, query, vector.NamespaceMenu, menuTopK)
	if err != nil {
		t.logger.Error("menu_search.search", "query", normalized, "error", err.Error())
		return "Sorry, I'm having trouble searching our menu right now. Please try again or ask me about specific food categories."
	}
	if len(docs) == 0 {
		result := "I couldn't find anything matching that on our menu. Try asking about starters, mains, desserts, drinks, or a specific dish name!"
		t.cache.Put(key, result)
		return result
	}

	result := formatMenuDocs(docs)
	t.cache.Put(key, result)
	return result
}

func formatMenuDocs(docs []vector.Document) string {
	var b strings.Builder
	b.WriteString("Here's what I found on our menu:\n\n")
	shown := docs
	if len(shown) > displayLimit {
		shown = shown[:displayLimit]
	}
	for _, d := range shown {
		name := metaString(d.Metadata, "name", "")
		if name == "" {
			name = d.ID
		}
		fmt.Fprintf(&b, "**%s**\n", name)
		if desc := metaString(d.Metadata, "description", d.Content); desc != "" {
			fmt.Fprintf(&b, "%s\n", desc)
		}
		if price := metaPricing(d.Metadata); price != "" {
			fmt.Fprintf(&b, "Price: %s\n", price)
		}
		if cat := metaString(d.Metadata, "category", ""); cat != "" {
			fmt.Fprintf(&b, "Category: %s\n", cat)
		}
		if avail, ok := d.Metadata["is_available"].(bool); ok && !avail {
			b.WriteString("Currently unavailable\n")
		}
		b.WriteString("\n")
	}
	b.WriteString("Would you like details on any of these?")
	return b.String()
}

// metaString reads a string field from document metadata with a default.
func metaString(meta map[string]any, key, def string) string {
	if meta == nil {
		return def
	}
	if v, ok := meta[key].(string); ok && v != "" {
		return v
	}
	return def
}

// metaPricing renders the pricing metadata the indexing job attaches to
// menu documents: either a preformatted "price_display" string or a list
// of {size, price} maps.
func metaPricing(meta map[string]any) string {
	if meta == nil {
		return ""
	}
	if v, ok := meta["price_display"].(string); ok && v != "" {
		return v
	}
	raw, ok := meta["pricing"].([]any)
	if !ok {
		return ""
	}
	var parts []string
	for _, entry := range raw {
		m, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		price, ok := m["price"].(float64)
		if !ok || price <= 0 {
			continue
		}
		size, _ := m["size"].(string)
		if size == "" || strings.EqualFold(size, "regular") {
			parts = append(parts, "₹"+formatPrice(price))
			continue
		}
		parts = append(parts, fmt.Sprintf("%s: ₹%s", size, formatPrice(price)))
	}
	return strings.Join(parts, " | ")
}
