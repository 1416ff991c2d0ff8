package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/hungryfork/concierge/cache"
	"github.com/hungryfork/concierge/catalog"
	"github.com/hungryfork/concierge/logging"
)

// categorySynonyms expands a customer-facing category word into the
// catalog vocabulary it should match. Keys are probed by substring so
// "main course" hits "main" and "starters under 200" hits "starter".
var categorySynonyms = map[string][]string{
	"starter":   {"starter", "appetizer", "snack", "chaat"},
	"appetizer": {"starter", "appetizer", "snack", "chaat"},
	"main":      {"main", "curry", "rice", "biryani", "bread", "dal", "sabzi"},
	"dessert":   {"dessert", "sweet", "ice cream", "kulfi"},
	"drink":     {"drink", "beverage", "juice", "tea", "coffee", "lassi"},
	"pizza":     {"pizza"},
	"chinese":   {"chinese", "noodles", "fried rice", "manchurian"},
	"paneer":    {"paneer"},
}

// synonymKeyOrder fixes the probe order so expanded term lists are
// deterministic for a given input.
var synonymKeyOrder = []string{
	"starter", "appetizer", "main", "dessert", "drink", "pizza", "chinese", "paneer",
}

// expandCategory returns the deduplicated catalog terms for a category
// phrase. An unrecognized phrase falls through as its own single term.
func expandCategory(category string) []string {
	lower := strings.ToLower(strings.TrimSpace(category))
	var terms []string
	seen := make(map[string]bool)
	for _, key := range synonymKeyOrder {
		syns := categorySynonyms[key]
		matched := strings.Contains(lower, key)
		if !matched {
			for _, s := range syns {
				if strings.Contains(lower, s) {
					matched = true
					break
				}
			}
		}
		if !matched {
			continue
		}
		for _, s := range syns {
			if !seen[s] {
				seen[s] = true
				terms = append(terms, s)
			}
		}
	}
	if len(terms) == 0 {
		terms = []string{lower}
	}
	return terms
}

// CategoryFilterArgs are the arguments of the category_filter_search tool.
type CategoryFilterArgs struct {
	Category string   `json:"category"`
	MaxPrice *float64 `json:"max_price,omitempty"`
}

// CategoryFilterTool is the structured path for "show me <category>
// under <price>" questions: synonym expansion, a two-tier catalog
// lookup, a strict post-retrieval price filter and a price-sorted
// listing.
type CategoryFilterTool struct {
	store  catalog.Store
	cache  *cache.Cache
	logger logging.Logger
}

// NewCategoryFilterTool wires the tool to its catalog and cache.
func NewCategoryFilterTool(store catalog.Store, c *cache.Cache, logger logging.Logger) *CategoryFilterTool {
	if logger == nil {
		logger = logging.NoOpLogger{}
	}
	return &CategoryFilterTool{store: store, cache: c, logger: logger}
}

func (t *CategoryFilterTool) Name() string { return "category_filter_search" }

func (t *CategoryFilterTool) Description() string {
	return "Search menu items by category (starters, mains, desserts, drinks, pizza, chinese, paneer) " +
		"with an optional maximum price in rupees. Use this whenever the customer names a food " +
		"category or a budget, e.g. 'starters under 200'."
}

func (t *CategoryFilterTool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"category": map[string]any{
				"type":        "string",
				"description": "Food category to browse, e.g. 'starter', 'main course', 'dessert', 'drinks'.",
			},
			"max_price": map[string]any{
				"type":        "number",
				"description": "Optional maximum price in rupees. Omit when the customer gave no budget.",
			},
		},
		"required": []string{"category"},
	}
}

// Call implements Tool.
func (t *CategoryFilterTool) Call(ctx context.Context, args json.RawMessage) string {
	var a CategoryFilterArgs
	if err := json.Unmarshal(args, &a); err != nil {
		t.logger.Warn("category_filter_search.bad_args", "error", err.Error())
		return "I couldn't understand that search. Please tell me the category you'd like, e.g. 'starters under 200'."
	}
	return t.Search(ctx, a.Category, a.MaxPrice)
}

// Search runs the category lookup. Exposed so the semantic menu tool can
// redirect category+price queries here without re-encoding arguments.
func (t *CategoryFilterTool) Search(ctx context.Context, category string, maxPrice *float64) string {
	lower := strings.ToLower(strings.TrimSpace(category))
	key := categoryCacheKey(lower, maxPrice)
	if cached, ok := t.cache.Get(key); ok {
		return cached
	}

	terms := expandCategory(category)
	items, err := t.store.FindByCategory(ctx, terms)
	if err != nil {
		t.logger.Error("category_filter_search.category_lookup", "category", lower, "error", err.Error())
		items = nil
	}
	if len(items) == 0 {
		// Category linkage can be missing or stale; fall back to matching
		// item names and tags directly.
		items, err = t.store.FindByNameOrTag(ctx, terms)
		if err != nil {
			t.logger.Error("category_filter_search.fallback_lookup", "category", lower, "error", err.Error())
			return fmt.Sprintf("I'm having trouble searching %s items right now. Please try again or ask about specific items!", lower)
		}
	}
	if len(items) == 0 {
		result := fmt.Sprintf("I couldn't find any items in the '%s' category. Try asking about starters, mains, desserts, drinks, or our specials!", lower)
		t.cache.Put(key, result)
		return result
	}

	filtered := filterByMaxPrice(items, maxPrice)
	if len(filtered) == 0 {
		result := fmt.Sprintf("I couldn't find any %s items under ₹%s. Would you like to see all our %s options instead?", lower, formatPrice(*maxPrice), lower)
		t.cache.Put(key, result)
		return result
	}

	sortByMinPrice(filtered)
	result := t.formatListing(lower, maxPrice, filtered)
	t.cache.Put(key, result)
	return result
}

// filterByMaxPrice excludes items whose cheapest option exceeds the
// budget. Items without any usable price pass through; the customer can
// ask about them directly.
func filterByMaxPrice(items []catalog.Item, maxPrice *float64) []catalog.Item {
	if maxPrice == nil {
		return items
	}
	out := make([]catalog.Item, 0, len(items))
	for _, it := range items {
		if min, ok := it.MinPrice(); ok && min > *maxPrice {
			continue
		}
		out = append(out, it)
	}
	return out
}

// sortByMinPrice orders cheapest first; unpriced items sort to the top.
func sortByMinPrice(items []catalog.Item) {
	sort.SliceStable(items, func(i, j int) bool {
		mi, _ := items[i].MinPrice()
		mj, _ := items[j].MinPrice()
		return mi < mj
	})
}

func (t *CategoryFilterTool) formatListing(category string, maxPrice *float64, items []catalog.Item) string {
	var b strings.Builder
	if maxPrice != nil {
		fmt.Fprintf(&b, "Here are our %s options under ₹%s:\n\n", category, formatPrice(*maxPrice))
	} else {
		fmt.Fprintf(&b, "Here are our %s options:\n\n", category)
	}

	shown := items
	if len(shown) > displayLimit {
		shown = shown[:displayLimit]
	}
	for _, it := range shown {
		fmt.Fprintf(&b, "**%s**\n", it.Name)
		if it.Description != "" {
			fmt.Fprintf(&b, "%s\n", it.Description)
		}
		fmt.Fprintf(&b, "Price: %s\n", it.PriceDisplay())
		if !it.Available {
			b.WriteString("Currently unavailable\n")
		}
		if notes := dietaryNotes(it, 3); len(notes) > 0 {
			fmt.Fprintf(&b, "%s\n", strings.Join(notes, " | "))
		}
		b.WriteString("\n")
	}
	if remaining := len(items) - len(shown); remaining > 0 {
		fmt.Fprintf(&b, "...and %d more options! Ask me about any specific dish for details.\n\n", remaining)
	}
	b.WriteString("Would you like to know more about any of these?")
	return b.String()
}

// dietaryNotes derives short labels from the explicit dietary flags and
// the tag conventions, capped at limit.
func dietaryNotes(it catalog.Item, limit int) []string {
	var notes []string
	add := func(n string) {
		if limit <= 0 || len(notes) < limit {
			notes = append(notes, n)
		}
	}
	if it.Dietary.VeganAvailable {
		add("Vegan option")
	}
	if it.Dietary.GlutenFree {
		add("Gluten-free")
	}
	if it.HasTag("veg") || it.HasTag("vegetarian") {
		add("Vegetarian")
	} else if it.HasTag("non-veg") || it.HasTag("nonveg") {
		add("Non-Veg")
	}
	if it.HasTag("spicy") {
		add("Spicy")
	}
	if it.HasTag("popular") || it.HasTag("bestseller") {
		add("Popular")
	}
	if limit > 0 && len(notes) > limit {
		notes = notes[:limit]
	}
	return notes
}

func categoryCacheKey(lowerCategory string, maxPrice *float64) string {
	price := "any"
	if maxPrice != nil {
		price = formatPrice(*maxPrice)
	}
	return fmt.Sprintf("category:%s:%s", lowerCategory, price)
}

// formatPrice renders a rupee amount without trailing zeros.
func formatPrice(v float64) string {
	s := fmt.Sprintf("%.2f", v)
	s = strings.TrimRight(s, "0")
	return strings.TrimRight(s, ".")
}
