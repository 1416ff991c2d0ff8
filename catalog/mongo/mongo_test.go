package mongo

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hungryfork/concierge/catalog"
)

func TestTermsPattern(t *testing.T) {
	assert.Equal(t, "starter|appetizer", termsPattern([]string{"starter", "appetizer"}))
	assert.Equal(t, "ice\\ cream", termsPattern([]string{"ice cream"}))
	assert.Equal(t, "starter", termsPattern([]string{" starter ", ""}))
}

func TestItemDocDefaults(t *testing.T) {
	it := itemDoc{Name: "Paneer Tikka"}.toItem()

	// Documents without an availability flag are sellable.
	assert.True(t, it.Available)
	assert.Empty(t, it.CategoryName)
}

func TestItemDocCarriesJoinedCategory(t *testing.T) {
	unavailable := false
	doc := itemDoc{
		Name:         "Paneer Tikka",
		Available:    &unavailable,
		Pricing:      []catalog.PriceOption{{Size: "Full", Price: 200}},
		CategoryInfo: &struct{ Name string }{Name: "Starters"},
	}

	it := doc.toItem()
	assert.False(t, it.Available)
	assert.Equal(t, "Starters", it.CategoryName)
	assert.Equal(t, "Full: ₹200", it.PriceDisplay())
}
