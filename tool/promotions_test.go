package tool

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/hungryfork/concierge/cache"
	"github.com/hungryfork/concierge/catalog"
)

func promoCache() *cache.Cache {
	return cache.New(func(o *cache.Options) { o.TTL = 15 * time.Minute })
}

func TestPromotionsListsActiveOffers(t *testing.T) {
	store := &countingStore{Store: catalog.NewInMemoryStore(nil, []catalog.Promotion{
		{Title: "Weekday Lunch Combo", Description: "Any main plus a drink", Discount: "20% off", ValidUntil: "Fridays"},
		{Title: "Family Feast", Description: "4 mains, 2 breads, 1 dessert"},
	})}
	tool := NewPromotionsTool(store, promoCache(), nil)

	result := tool.List(context.Background())

	assert.Contains(t, result, "Weekday Lunch Combo")
	assert.Contains(t, result, "20% off")
	assert.Contains(t, result, "Family Feast")
}

func TestPromotionsEmptyIsFriendly(t *testing.T) {
	store := &countingStore{Store: catalog.NewInMemoryStore(nil, nil)}
	tool := NewPromotionsTool(store, promoCache(), nil)

	result := tool.List(context.Background())

	assert.Contains(t, result, "don't have any special promotions")
}

func TestPromotionsServedFromCache(t *testing.T) {
	store := &countingStore{Store: catalog.NewInMemoryStore(nil, []catalog.Promotion{
		{Title: "Weekday Lunch Combo"},
	})}
	tool := NewPromotionsTool(store, promoCache(), nil)

	first := tool.List(context.Background())
	second := tool.List(context.Background())

	assert.Equal(t, first, second)
	assert.Equal(t, 1, store.promoCalls)
}
