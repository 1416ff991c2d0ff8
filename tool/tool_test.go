package tool

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hungryfork/concierge/cache"
	"github.com/hungryfork/concierge/catalog"
)

type panicTool struct{}

func (panicTool) Name() string               { return "panic_tool" }
func (panicTool) Description() string        { return "always panics" }
func (panicTool) Parameters() map[string]any { return map[string]any{"type": "object"} }
func (panicTool) Call(context.Context, json.RawMessage) string {
	panic("boom")
}

func newTestRegistry() *Registry {
	store := catalog.NewInMemoryStore(starterItems(), nil)
	c := cache.New()
	categoryTool := NewCategoryFilterTool(store, c, nil)
	menuTool := NewMenuSearchTool(menuIndex(), c, categoryTool, nil)
	faqTool := NewFAQSearchTool(faqIndex(), c, nil)
	itemTool := NewExactLookupTool(store, c, nil)
	promoTool := NewPromotionsTool(store, cache.New(), nil)
	return NewRegistry(nil, categoryTool, menuTool, faqTool, itemTool, promoTool)
}

func TestRegistryDefinitionsPreserveOrder(t *testing.T) {
	r := newTestRegistry()

	defs := r.Definitions()
	require.Len(t, defs, 5)
	assert.Equal(t, "category_filter_search", defs[0].Name)
	assert.Equal(t, "menu_search", defs[1].Name)
	assert.Equal(t, "faq_search", defs[2].Name)
	assert.Equal(t, "exact_item_lookup", defs[3].Name)
	assert.Equal(t, "promotion_lookup", defs[4].Name)
	for _, d := range defs {
		assert.NotEmpty(t, d.Description)
		assert.Equal(t, "object", d.Parameters["type"])
	}
}

func TestRegistryDispatch(t *testing.T) {
	r := newTestRegistry()

	result := r.Dispatch(context.Background(), "category_filter_search", []byte(`{"category":"starter"}`))

	assert.Contains(t, result, "Masala Chaat")
}

func TestRegistryDispatchUnknownTool(t *testing.T) {
	r := newTestRegistry()

	result := r.Dispatch(context.Background(), "order_taxi", nil)

	assert.Contains(t, result, "order_taxi")
	assert.NotContains(t, result, "panic")
}

func TestRegistryDispatchRecoversPanic(t *testing.T) {
	r := NewRegistry(nil, panicTool{})

	result := r.Dispatch(context.Background(), "panic_tool", nil)

	assert.Contains(t, result, "rephrasing")
}
