package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/hungryfork/concierge/cache"
	"github.com/hungryfork/concierge/catalog"
	"github.com/hungryfork/concierge/logging"
)

// promotionsCacheKey is the single key all promotion lookups share; the
// tool takes no arguments.
const promotionsCacheKey = "promotions:current"

// PromotionsTool lists currently active deals. It should be handed a
// dedicated short-TTL cache: promotions are edited by restaurant staff
// during service, so a stale window of the full response-cache TTL would
// show retired deals for too long.
type PromotionsTool struct {
	store  catalog.Store
	cache  *cache.Cache
	logger logging.Logger
}

// NewPromotionsTool wires the tool.
func NewPromotionsTool(store catalog.Store, c *cache.Cache, logger logging.Logger) *PromotionsTool {
	if logger == nil {
		logger = logging.NoOpLogger{}
	}
	return &PromotionsTool{store: store, cache: c, logger: logger}
}

func (t *PromotionsTool) Name() string { return "promotion_lookup" }

func (t *PromotionsTool) Description() string {
	return "List the restaurant's current deals, discounts and special offers. Takes no arguments."
}

func (t *PromotionsTool) Parameters() map[string]any {
	return map[string]any{
		"type":       "object",
		"properties": map[string]any{},
	}
}

// Call implements Tool.
func (t *PromotionsTool) Call(ctx context.Context, _ json.RawMessage) string {
	return t.List(ctx)
}

// List returns the formatted current promotions.
func (t *PromotionsTool) List(ctx context.Context) string {
	if cached, ok := t.cache.Get(promotionsCacheKey); ok {
		return cached
	}

	promos, err := t.store.Promotions(ctx)
	if err != nil {
		t.logger.Error("promotion_lookup.list", "error", err.Error())
		return "I'm having trouble getting current promotions. Please check back later or ask about our regular menu!"
	}
	if len(promos) == 0 {
		result := "We don't have any special promotions running right now, but our regular menu is full of great options. Can I help you find something?"
		t.cache.Put(promotionsCacheKey, result)
		return result
	}

	var b strings.Builder
	b.WriteString("Here are our current offers:\n\n")
	for _, p := range promos {
		fmt.Fprintf(&b, "**%s**\n", p.Title)
		if p.Description != "" {
			fmt.Fprintf(&b, "%s\n", p.Description)
		}
		if p.Discount != "" {
			fmt.Fprintf(&b, "Discount: %s\n", p.Discount)
		}
		if p.ValidUntil != "" {
			fmt.Fprintf(&b, "Valid until: %s\n", p.ValidUntil)
		}
		b.WriteString("\n")
	}
	b.WriteString("Would you like to order something from these offers?")
	result := b.String()
	t.cache.Put(promotionsCacheKey, result)
	return result
}
