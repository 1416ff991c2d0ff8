// Package mongo implements catalog.Store on top of a MongoDB document
// database, using the same collections and query strategies as the
// ordering platform: an aggregation $lookup join from menu items to their
// categories for the primary lookup, a name/tag regex find as fallback,
// and an Atlas Search autocomplete (fuzzy, maxEdits 1) followed by a regex
// FindOne for typo-tolerant single-item resolution.
package mongo

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/hungryfork/concierge/catalog"
	"github.com/hungryfork/concierge/logging"
)

const (
	collectionMenuItems  = "menu_items"
	collectionPromotions = "promotions"
	collectionCategories = "categories"
)

// Options configures a Store.
type Options struct {
	// QueryTimeout bounds each catalog round trip.
	QueryTimeout time.Duration
	Logger       logging.Logger
}

// Store queries the restaurant catalog database. Read-only.
type Store struct {
	db      *mongo.Database
	timeout time.Duration
	logger  logging.Logger
}

// Connect dials the database and returns a Store. The client uses a small
// connection pool sized for a chat workload.
func Connect(ctx context.Context, uri, database string, optFns ...func(o *Options)) (*Store, error) {
	client, err := mongo.Connect(ctx, options.Client().
		ApplyURI(uri).
		SetMaxPoolSize(20).
		SetMinPoolSize(5).
		SetServerSelectionTimeout(5*time.Second))
	if err != nil {
		return nil, fmt.Errorf("connect catalog: %w", err)
	}
	return NewStore(client.Database(database), optFns...), nil
}

// NewStore wraps an existing database handle.
func NewStore(db *mongo.Database, optFns ...func(o *Options)) *Store {
	opts := Options{
		QueryTimeout: 5 * time.Second,
		Logger:       logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Store{db: db, timeout: opts.QueryTimeout, logger: opts.Logger}
}

// FindByCategory joins menu items to their category document and matches
// the category name, the item name or the tags against the terms.
func (s *Store) FindByCategory(ctx context.Context, terms []string) ([]catalog.Item, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	pattern := termsPattern(terms)
	pipeline := mongo.Pipeline{
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: collectionCategories},
			{Key: "localField", Value: "category_id"},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: "category_info"},
		}}},
		{{Key: "$unwind", Value: bson.D{
			{Key: "path", Value: "$category_info"},
			{Key: "preserveNullAndEmptyArrays", Value: true},
		}}},
		{{Key: "$match", Value: bson.D{{Key: "$or", Value: bson.A{
			bson.D{{Key: "category_info.name", Value: bson.D{{Key: "$regex", Value: pattern}, {Key: "$options", Value: "i"}}}},
			bson.D{{Key: "name", Value: bson.D{{Key: "$regex", Value: pattern}, {Key: "$options", Value: "i"}}}},
			bson.D{{Key: "tags", Value: bson.D{{Key: "$regex", Value: pattern}, {Key: "$options", Value: "i"}}}},
		}}}}},
	}

	cur, err := s.db.Collection(collectionMenuItems).Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("category aggregation: %w", err)
	}
	return s.decodeItems(ctx, cur)
}

// FindByNameOrTag matches item name or tags only. Used when the join-based
// lookup yields nothing, which happens with missing or inconsistent
// category linkage.
func (s *Store) FindByNameOrTag(ctx context.Context, terms []string) ([]catalog.Item, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	pattern := termsPattern(terms)
	filter := bson.D{{Key: "$or", Value: bson.A{
		bson.D{{Key: "name", Value: bson.D{{Key: "$regex", Value: pattern}, {Key: "$options", Value: "i"}}}},
		bson.D{{Key: "tags", Value: bson.D{{Key: "$regex", Value: pattern}, {Key: "$options", Value: "i"}}}},
	}}}

	cur, err := s.db.Collection(collectionMenuItems).Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("name/tag find: %w", err)
	}
	return s.decodeItems(ctx, cur)
}

// FindItem resolves a single item by name. The primary strategy is an
// Atlas Search autocomplete with one-edit fuzziness; if that index is
// unavailable or returns nothing, a case-insensitive substring regex takes
// over. Returns nil, nil when nothing matches either way.
func (s *Store) FindItem(ctx context.Context, name string) (*catalog.Item, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if it, err := s.findItemAutocomplete(ctx, name); err == nil && it != nil {
		return it, nil
	} else if err != nil {
		// Atlas Search is optional; fall through to the regex strategy.
		s.logger.Debug("catalog.autocomplete_unavailable", "error", err.Error())
	}

	var doc itemDoc
	filter := bson.D{{Key: "name", Value: bson.D{
		{Key: "$regex", Value: ".*" + regexp.QuoteMeta(name) + ".*"},
		{Key: "$options", Value: "i"},
	}}}
	err := s.db.Collection(collectionMenuItems).FindOne(ctx, filter).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("item regex lookup: %w", err)
	}
	it := doc.toItem()
	return &it, nil
}

// Promotions lists every stored promotion.
func (s *Store) Promotions(ctx context.Context) ([]catalog.Promotion, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	cur, err := s.db.Collection(collectionPromotions).Find(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("promotions find: %w", err)
	}
	defer cur.Close(ctx)

	var promos []catalog.Promotion
	if err := cur.All(ctx, &promos); err != nil {
		return nil, fmt.Errorf("promotions decode: %w", err)
	}
	return promos, nil
}

func (s *Store) findItemAutocomplete(ctx context.Context, name string) (*catalog.Item, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$search", Value: bson.D{
			{Key: "index", Value: "default"},
			{Key: "autocomplete", Value: bson.D{
				{Key: "query", Value: name},
				{Key: "path", Value: "name"},
				{Key: "fuzzy", Value: bson.D{
					{Key: "maxEdits", Value: 1},
					{Key: "prefixLength", Value: 3},
				}},
			}},
		}}},
		{{Key: "$limit", Value: 1}},
	}
	cur, err := s.db.Collection(collectionMenuItems).Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	if !cur.Next(ctx) {
		return nil, cur.Err()
	}
	var doc itemDoc
	if err := cur.Decode(&doc); err != nil {
		return nil, err
	}
	it := doc.toItem()
	return &it, nil
}

func (s *Store) decodeItems(ctx context.Context, cur *mongo.Cursor) ([]catalog.Item, error) {
	defer cur.Close(ctx)
	var docs []itemDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("items decode: %w", err)
	}
	items := make([]catalog.Item, 0, len(docs))
	for _, d := range docs {
		items = append(items, d.toItem())
	}
	return items, nil
}

// itemDoc mirrors the platform's menu_items document shape, including the
// joined category_info produced by the $lookup stage.
type itemDoc struct {
	Name            string                 `bson:"name"`
	Description     string                 `bson:"description"`
	Pricing         []catalog.PriceOption  `bson:"pricing"`
	Available       *bool                  `bson:"is_available"`
	Tags            []string               `bson:"tags"`
	Dietary         catalog.DietaryInfo    `bson:"dietary_info"`
	PrepTimeMinutes int                    `bson:"prep_time_minutes"`
	KeyIngredients  []string               `bson:"key_ingredients"`
	Customizations  []string               `bson:"customization_options"`
	ImageURL        string                 `bson:"image_url"`
	CategoryInfo    *struct{ Name string } `bson:"category_info"`
}

func (d itemDoc) toItem() catalog.Item {
	it := catalog.Item{
		Name:            d.Name,
		Description:     d.Description,
		Pricing:         d.Pricing,
		Available:       true, // absent flag means available
		Tags:            d.Tags,
		Dietary:         d.Dietary,
		PrepTimeMinutes: d.PrepTimeMinutes,
		KeyIngredients:  d.KeyIngredients,
		Customizations:  d.Customizations,
		ImageURL:        d.ImageURL,
	}
	if d.Available != nil {
		it.Available = *d.Available
	}
	if d.CategoryInfo != nil {
		it.CategoryName = d.CategoryInfo.Name
	}
	return it
}

// termsPattern builds the alternation regex shared by both lookups.
func termsPattern(terms []string) string {
	quoted := make([]string, 0, len(terms))
	for _, t := range terms {
		if t = strings.TrimSpace(t); t != "" {
			quoted = append(quoted, regexp.QuoteMeta(t))
		}
	}
	return strings.Join(quoted, "|")
}
