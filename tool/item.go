package tool

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/hungryfork/concierge/cache"
	"github.com/hungryfork/concierge/catalog"
	"github.com/hungryfork/concierge/logging"
)

// ExactLookupArgs are the arguments of the exact_item_lookup tool.
type ExactLookupArgs struct {
	ItemName string `json:"item_name"`
}

// ItemDetails is the structured result of an exact lookup, serialized to
// JSON so the model can pick out individual fields when answering. A miss
// is a normal Found=false result, never a failure.
type ItemDetails struct {
	Found          bool     `json:"found"`
	Name           string   `json:"name,omitempty"`
	Description    string   `json:"description,omitempty"`
	Price          string   `json:"price,omitempty"`
	Available      bool     `json:"is_available,omitempty"`
	Category       string   `json:"category,omitempty"`
	PrepTime       string   `json:"prep_time,omitempty"`
	KeyIngredients []string `json:"key_ingredients,omitempty"`
	Customizations []string `json:"customization_options,omitempty"`
	DietaryNotes   []string `json:"dietary_notes,omitempty"`
	Tags           []string `json:"tags,omitempty"`
	Message        string   `json:"message,omitempty"`
}

// ExactLookupTool resolves one named dish to its full details, tolerating
// small misspellings via the catalog's fuzzy name resolution.
type ExactLookupTool struct {
	store  catalog.Store
	cache  *cache.Cache
	logger logging.Logger
}

// NewExactLookupTool wires the tool.
func NewExactLookupTool(store catalog.Store, c *cache.Cache, logger logging.Logger) *ExactLookupTool {
	if logger == nil {
		logger = logging.NoOpLogger{}
	}
	return &ExactLookupTool{store: store, cache: c, logger: logger}
}

func (t *ExactLookupTool) Name() string { return "exact_item_lookup" }

func (t *ExactLookupTool) Description() string {
	return "Get full details for one specific dish by name: price, description, ingredients, " +
		"preparation time, customizations and dietary notes. Handles minor misspellings."
}

func (t *ExactLookupTool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"item_name": map[string]any{
				"type":        "string",
				"description": "The dish name the customer asked about, e.g. 'Paneer Tikka'.",
			},
		},
		"required": []string{"item_name"},
	}
}

// Call implements Tool.
func (t *ExactLookupTool) Call(ctx context.Context, args json.RawMessage) string {
	var a ExactLookupArgs
	if err := json.Unmarshal(args, &a); err != nil {
		t.logger.Warn("exact_item_lookup.bad_args", "error", err.Error())
		return marshalDetails(ItemDetails{Found: false, Message: "I couldn't understand which item you meant. Please give me the dish name!"})
	}
	return t.Lookup(ctx, a.ItemName)
}

// Lookup resolves an item name to its serialized details.
func (t *ExactLookupTool) Lookup(ctx context.Context, name string) string {
	normalized := strings.ToLower(strings.TrimSpace(name))
	key := "item:" + normalized
	if cached, ok := t.cache.Get(key); ok {
		return cached
	}

	item, err := t.store.FindItem(ctx, name)
	if err != nil {
		t.logger.Error("exact_item_lookup.find", "item", normalized, "error", err.Error())
		return marshalDetails(ItemDetails{Found: false, Message: "I'm having trouble looking up that item. Please try again!"})
	}
	if item == nil {
		result := marshalDetails(ItemDetails{
			Found:   false,
			Message: "I couldn't find '" + name + "' on our menu. Try asking about a category, or check the spelling!",
		})
		t.cache.Put(key, result)
		return result
	}

	details := ItemDetails{
		Found:          true,
		Name:           item.Name,
		Description:    item.Description,
		Price:          item.PriceDisplay(),
		Available:      item.Available,
		Category:       item.CategoryName,
		KeyIngredients: item.KeyIngredients,
		Customizations: item.Customizations,
		DietaryNotes:   detailDietaryNotes(*item),
		Tags:           item.Tags,
	}
	if item.PrepTimeMinutes > 0 {
		details.PrepTime = strconv.Itoa(item.PrepTimeMinutes) + " minutes"
	}
	result := marshalDetails(details)
	t.cache.Put(key, result)
	return result
}

// detailDietaryNotes is the uncapped variant used for single-item detail
// views, spelling out availability of dietary preparations.
func detailDietaryNotes(it catalog.Item) []string {
	var notes []string
	if it.Dietary.VeganAvailable {
		notes = append(notes, "Vegan option available")
	}
	if it.Dietary.GlutenFree {
		notes = append(notes, "Gluten-free")
	}
	if it.Dietary.JainAvailable {
		notes = append(notes, "Jain option available")
	}
	if it.HasTag("veg") || it.HasTag("vegetarian") {
		notes = append(notes, "Vegetarian")
	} else if it.HasTag("non-veg") || it.HasTag("nonveg") {
		notes = append(notes, "Non-Vegetarian")
	}
	if it.HasTag("spicy") {
		notes = append(notes, "Spicy")
	}
	return notes
}

func marshalDetails(d ItemDetails) string {
	raw, err := json.Marshal(d)
	if err != nil {
		return `{"found":false,"message":"I'm having trouble looking up that item. Please try again!"}`
	}
	return string(raw)
}
