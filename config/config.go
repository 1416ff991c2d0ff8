// Package config loads engine settings from the environment. It exists for
// binaries wiring the real collaborators (Mongo catalog, pgvector index,
// model providers); library consumers configure components directly through
// functional options instead.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config carries every tunable of the engine. Zero values are replaced by
// the documented defaults via envDefault tags.
type Config struct {
	// Catalog store (menu items, categories, promotions).
	MongoURI      string `env:"CONCIERGE_MONGO_URI" envDefault:"mongodb://localhost:27017"`
	MongoDatabase string `env:"CONCIERGE_MONGO_DB" envDefault:"restaurantDB"`

	// Vector similarity store (pgvector).
	VectorDSN string `env:"CONCIERGE_VECTOR_DSN"`

	// Generative completion provider: "openai" or "anthropic".
	Provider string `env:"CONCIERGE_MODEL_PROVIDER" envDefault:"openai"`
	// Model identifier passed through to the provider; empty picks the
	// adapter default.
	Model string `env:"CONCIERGE_MODEL"`
	// Request-level timeout applied to each completion call.
	ModelTimeout time.Duration `env:"CONCIERGE_MODEL_TIMEOUT" envDefault:"10s"`

	// Response cache sizing. PromotionCacheTTL is shorter because
	// promotions change more often than menu data.
	CacheCapacity     int           `env:"CONCIERGE_CACHE_CAPACITY" envDefault:"500"`
	CacheTTL          time.Duration `env:"CONCIERGE_CACHE_TTL" envDefault:"30m"`
	PromotionCacheTTL time.Duration `env:"CONCIERGE_PROMOTION_CACHE_TTL" envDefault:"15m"`

	// Agent loop bound per turn.
	MaxIterations int `env:"CONCIERGE_MAX_ITERATIONS" envDefault:"3"`

	// Session expiry: sessions idle longer than SessionRetention are
	// removed by a sweep that runs at most once per SessionSweepInterval.
	SessionRetention     time.Duration `env:"CONCIERGE_SESSION_RETENTION" envDefault:"2h"`
	SessionSweepInterval time.Duration `env:"CONCIERGE_SESSION_SWEEP_INTERVAL" envDefault:"1h"`
}

// Load parses the environment into a Config.
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	return &cfg, nil
}
