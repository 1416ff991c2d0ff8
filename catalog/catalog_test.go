package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixtureItems() []Item {
	return []Item{
		{
			Name:         "Veg Spring Rolls",
			Pricing:      []PriceOption{{Size: "Half", Price: 100}, {Size: "Full", Price: 220}},
			Available:    true,
			Tags:         []string{"veg", "starter"},
			CategoryName: "Starters",
		},
		{
			Name:         "Chicken Biryani",
			Pricing:      []PriceOption{{Size: "Regular", Price: 250}},
			Available:    true,
			Tags:         []string{"non-veg", "rice"},
			CategoryName: "Main Course",
		},
	}
}

func TestItemMinPrice(t *testing.T) {
	it := fixtureItems()[0]
	min, ok := it.MinPrice()
	require.True(t, ok)
	assert.Equal(t, 100.0, min)

	_, ok = Item{}.MinPrice()
	assert.False(t, ok)

	// Zero and negative entries do not count as prices.
	_, ok = Item{Pricing: []PriceOption{{Price: 0}}}.MinPrice()
	assert.False(t, ok)
}

func TestItemPriceDisplay(t *testing.T) {
	assert.Equal(t, "Half: ₹100 | Full: ₹220", fixtureItems()[0].PriceDisplay())
	assert.Equal(t, "₹250", fixtureItems()[1].PriceDisplay())
	assert.Equal(t, "Price not available", Item{}.PriceDisplay())
	assert.Equal(t, "₹99.5", Item{Pricing: []PriceOption{{Price: 99.5}}}.PriceDisplay())
}

func TestInMemoryFindByCategory(t *testing.T) {
	store := NewInMemoryStore(fixtureItems(), nil)

	items, err := store.FindByCategory(context.Background(), []string{"starter"})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Veg Spring Rolls", items[0].Name)

	// Tag matches count too.
	items, err = store.FindByCategory(context.Background(), []string{"rice"})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Chicken Biryani", items[0].Name)
}

func TestInMemoryFindItemPrefixBeforeSubstring(t *testing.T) {
	store := NewInMemoryStore(fixtureItems(), nil)

	item, err := store.FindItem(context.Background(), "chicken biry")
	require.NoError(t, err)
	require.NotNil(t, item)
	assert.Equal(t, "Chicken Biryani", item.Name)

	item, err = store.FindItem(context.Background(), "biryani")
	require.NoError(t, err)
	require.NotNil(t, item)
	assert.Equal(t, "Chicken Biryani", item.Name)

	item, err = store.FindItem(context.Background(), "pasta")
	require.NoError(t, err)
	assert.Nil(t, item)
}

func TestInMemoryPromotionsCopy(t *testing.T) {
	store := NewInMemoryStore(nil, []Promotion{{Title: "Combo"}})

	promos, err := store.Promotions(context.Background())
	require.NoError(t, err)
	require.Len(t, promos, 1)

	// Mutating the returned slice must not affect the store.
	promos[0].Title = "changed"
	again, err := store.Promotions(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Combo", again[0].Title)
}
