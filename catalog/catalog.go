// Package catalog defines the read-only query surface over the restaurant's
// menu, category and promotion data. The engine never writes to the
// catalog; ownership of the schema stays with the ordering platform.
// Implementations: catalog/mongo (production) and InMemoryStore (tests,
// demos).
package catalog

import (
	"context"
	"fmt"
	"strings"
)

// PriceOption is one (size, price) pair of an item, e.g. {"Half", 100}.
type PriceOption struct {
	Size  string  `json:"size" bson:"size"`
	Price float64 `json:"price" bson:"price"`
}

// DietaryInfo carries the explicit dietary flags maintained by the owner
// dashboard. Tag-derived hints (veg, spicy, ...) live in Item.Tags.
type DietaryInfo struct {
	VeganAvailable bool `json:"is_vegan_available" bson:"is_vegan_available"`
	GlutenFree     bool `json:"is_gluten_free" bson:"is_gluten_free"`
	JainAvailable  bool `json:"is_jain_available" bson:"is_jain_available"`
}

// Item is a menu item as stored by the catalog. Read-only to this engine.
type Item struct {
	Name            string        `json:"name" bson:"name"`
	Description     string        `json:"description" bson:"description"`
	Pricing         []PriceOption `json:"pricing" bson:"pricing"`
	Available       bool          `json:"is_available" bson:"is_available"`
	Tags            []string      `json:"tags" bson:"tags"`
	Dietary         DietaryInfo   `json:"dietary_info" bson:"dietary_info"`
	PrepTimeMinutes int           `json:"prep_time_minutes" bson:"prep_time_minutes"`
	CategoryName    string        `json:"category_name" bson:"category_name"`
	KeyIngredients  []string      `json:"key_ingredients" bson:"key_ingredients"`
	Customizations  []string      `json:"customization_options" bson:"customization_options"`
	ImageURL        string        `json:"image_url" bson:"image_url"`
}

// MinPrice returns the lowest price across the item's size options. ok is
// false when the item carries no valid pricing at all.
func (i Item) MinPrice() (min float64, ok bool) {
	for _, p := range i.Pricing {
		if p.Price <= 0 {
			continue
		}
		if !ok || p.Price < min {
			min, ok = p.Price, true
		}
	}
	return min, ok
}

// PriceDisplay renders the pricing list for customers: "₹150" for a single
// option, "Half: ₹100 | Full: ₹220" for several.
func (i Item) PriceDisplay() string {
	var parts []string
	for _, p := range i.Pricing {
		if p.Price <= 0 {
			continue
		}
		if p.Size == "" || strings.EqualFold(p.Size, "regular") {
			parts = append(parts, fmt.Sprintf("₹%s", trimZeros(p.Price)))
			continue
		}
		parts = append(parts, fmt.Sprintf("%s: ₹%s", p.Size, trimZeros(p.Price)))
	}
	if len(parts) == 0 {
		return "Price not available"
	}
	return strings.Join(parts, " | ")
}

// HasTag reports whether the item carries the tag, case-insensitively.
func (i Item) HasTag(tag string) bool {
	for _, t := range i.Tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}

// Promotion is an active deal or special offer.
type Promotion struct {
	Title       string `json:"title" bson:"title"`
	Description string `json:"description" bson:"description"`
	Discount    string `json:"discount,omitempty" bson:"discount,omitempty"`
	ValidUntil  string `json:"valid_until,omitempty" bson:"valid_until,omitempty"`
}

// Store is the read-only catalog query surface required by the retrieval
// tools. All lookups are case-insensitive.
type Store interface {
	// FindByCategory returns items whose linked category name, item name
	// or tags match any of the given terms (the primary, join-based
	// lookup).
	FindByCategory(ctx context.Context, terms []string) ([]Item, error)
	// FindByNameOrTag is the fallback lookup matching item name or tags
	// only, used when category linkage is missing or inconsistent.
	FindByNameOrTag(ctx context.Context, terms []string) ([]Item, error)
	// FindItem resolves a single item by (possibly misspelled) name.
	// Returns nil with no error when nothing matches.
	FindItem(ctx context.Context, name string) (*Item, error)
	// Promotions lists all currently stored promotions.
	Promotions(ctx context.Context) ([]Promotion, error)
}

func trimZeros(v float64) string {
	s := fmt.Sprintf("%.2f", v)
	s = strings.TrimRight(s, "0")
	return strings.TrimRight(s, ".")
}
