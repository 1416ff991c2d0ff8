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

func detailItems() []catalog.Item {
	return []catalog.Item{{
		Name:            "Paneer Butter Masala",
		Description:     "Cottage cheese in a rich tomato gravy",
		Pricing:         []catalog.PriceOption{{Size: "Half", Price: 180}, {Size: "Full", Price: 320}},
		Available:       true,
		Tags:            []string{"veg", "main", "popular"},
		Dietary:         catalog.DietaryInfo{JainAvailable: true},
		PrepTimeMinutes: 20,
		CategoryName:    "Main Course",
		KeyIngredients:  []string{"paneer", "tomato", "butter", "cream"},
		Customizations:  []string{"less spicy", "extra gravy"},
	}}
}

func TestExactLookupReturnsStructuredDetails(t *testing.T) {
	store := &countingStore{Store: catalog.NewInMemoryStore(detailItems(), nil)}
	tool := NewExactLookupTool(store, cache.New(), nil)

	raw := tool.Lookup(context.Background(), "Paneer Butter Masala")

	var details ItemDetails
	require.NoError(t, json.Unmarshal([]byte(raw), &details))
	assert.True(t, details.Found)
	assert.Equal(t, "Paneer Butter Masala", details.Name)
	assert.Equal(t, "Half: ₹180 | Full: ₹320", details.Price)
	assert.Equal(t, "20 minutes", details.PrepTime)
	assert.Contains(t, details.KeyIngredients, "paneer")
	assert.Contains(t, details.DietaryNotes, "Jain option available")
	assert.Contains(t, details.DietaryNotes, "Vegetarian")
}

func TestExactLookupToleratesPartialName(t *testing.T) {
	store := &countingStore{Store: catalog.NewInMemoryStore(detailItems(), nil)}
	tool := NewExactLookupTool(store, cache.New(), nil)

	raw := tool.Lookup(context.Background(), "paneer butter")

	var details ItemDetails
	require.NoError(t, json.Unmarshal([]byte(raw), &details))
	assert.True(t, details.Found)
	assert.Equal(t, "Paneer Butter Masala", details.Name)
}

func TestExactLookupMissIsStructuredNotFound(t *testing.T) {
	store := &countingStore{Store: catalog.NewInMemoryStore(detailItems(), nil)}
	tool := NewExactLookupTool(store, cache.New(), nil)

	raw := tool.Lookup(context.Background(), "Sushi Platter")

	var details ItemDetails
	require.NoError(t, json.Unmarshal([]byte(raw), &details))
	assert.False(t, details.Found)
	assert.Contains(t, details.Message, "Sushi Platter")
}

func TestExactLookupServedFromCache(t *testing.T) {
	store := &countingStore{Store: catalog.NewInMemoryStore(detailItems(), nil)}
	tool := NewExactLookupTool(store, cache.New(), nil)

	first := tool.Lookup(context.Background(), "Paneer Butter Masala")
	second := tool.Lookup(context.Background(), "paneer butter masala")

	assert.Equal(t, first, second)
	assert.Equal(t, 1, store.findItemCalls)
}
