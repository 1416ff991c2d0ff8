// Package concierge provides a high-level façade over the query-routing and
// response-composition engine of the restaurant assistant. Most applications
// interact with this package by:
//  1. Creating an Assistant via New() (optionally overriding the default
//     in-memory catalog, vector index and mock model)
//  2. Calling Respond() once per customer turn
//
// The façade delegates orchestration to dialog.Orchestrator while keeping
// setup ergonomics concise. All defaults are safe for local development and
// testing; production deployments supply the mongo catalog, the pgvector
// searcher, a real model adapter and a structured logger.
package concierge

import (
	"context"
	"time"

	"github.com/hungryfork/concierge/agent"
	"github.com/hungryfork/concierge/cache"
	"github.com/hungryfork/concierge/catalog"
	"github.com/hungryfork/concierge/classify"
	"github.com/hungryfork/concierge/core"
	"github.com/hungryfork/concierge/dialog"
	"github.com/hungryfork/concierge/logging"
	"github.com/hungryfork/concierge/model"
	"github.com/hungryfork/concierge/session"
	"github.com/hungryfork/concierge/tool"
	"github.com/hungryfork/concierge/vector"
)

// Options configures the Assistant.
type Options struct {
	// Catalog is the menu/promotion data store (defaults to an empty
	// in-memory store).
	Catalog catalog.Store
	// Searcher is the vector similarity index (defaults to an empty
	// in-memory searcher).
	Searcher vector.Searcher
	// Model is the generative completion provider (defaults to a mock,
	// which makes every non-trivial turn degrade to its fallback reply).
	Model model.Model

	// Sessions overrides the session store; nil builds one with defaults.
	Sessions *session.Store
	// ResponseCache overrides the shared tool response cache; nil builds
	// one with defaults.
	ResponseCache *cache.Cache
	// PromotionCacheTTL bounds staleness of the promotion listing, which
	// uses its own cache so staff edits show up quickly.
	PromotionCacheTTL time.Duration

	// MaxIterations caps the agent's reason-act loop.
	MaxIterations int
	// ModelTimeout bounds a single model call.
	ModelTimeout time.Duration
	// MaxHistoryTurns bounds the chat history passed to the model.
	MaxHistoryTurns int

	// Logger defaults to a no-op logger if nil.
	Logger logging.Logger
}

// Assistant is the high-level façade aggregating the engine's services.
type Assistant struct {
	opts         Options
	orchestrator *dialog.Orchestrator
	sessions     *session.Store
}

// New creates an Assistant with optional overrides. Any unset service is
// initialized with an in-memory implementation.
func New(optFns ...func(o *Options)) *Assistant {
	opts := Options{
		Catalog:           catalog.NewInMemoryStore(nil, nil),
		Searcher:          vector.NewStaticSearcher(),
		Model:             model.NewMockModel(),
		PromotionCacheTTL: 15 * time.Minute,
		MaxIterations:     agent.DefaultMaxIterations,
		ModelTimeout:      agent.DefaultModelTimeout,
		MaxHistoryTurns:   dialog.DefaultMaxHistoryTurns,
		Logger:            logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}
	if opts.Sessions == nil {
		opts.Sessions = session.NewStore(func(o *session.Options) {
			o.Logger = opts.Logger
		})
	}
	if opts.ResponseCache == nil {
		opts.ResponseCache = cache.New(func(o *cache.Options) {
			o.Logger = opts.Logger
		})
	}
	promoCache := cache.New(func(o *cache.Options) {
		o.TTL = opts.PromotionCacheTTL
		o.Logger = opts.Logger
	})

	categoryTool := tool.NewCategoryFilterTool(opts.Catalog, opts.ResponseCache, opts.Logger)
	registry := tool.NewRegistry(opts.Logger,
		categoryTool,
		tool.NewMenuSearchTool(opts.Searcher, opts.ResponseCache, categoryTool, opts.Logger),
		tool.NewFAQSearchTool(opts.Searcher, opts.ResponseCache, opts.Logger),
		tool.NewExactLookupTool(opts.Catalog, opts.ResponseCache, opts.Logger),
		tool.NewPromotionsTool(opts.Catalog, promoCache, opts.Logger),
	)

	ag := agent.New(opts.Model, registry, func(o *agent.Options) {
		o.MaxIterations = opts.MaxIterations
		o.ModelTimeout = opts.ModelTimeout
		o.Logger = opts.Logger
	})
	orchestrator := dialog.NewOrchestrator(opts.Sessions, classify.New(), ag, func(o *dialog.Options) {
		o.MaxHistoryTurns = opts.MaxHistoryTurns
		o.Logger = opts.Logger
	})

	return &Assistant{opts: opts, orchestrator: orchestrator, sessions: opts.Sessions}
}

// Respond handles one customer turn. It always returns a presentable
// answer; internal faults degrade to fallback replies.
func (a *Assistant) Respond(ctx context.Context, sessionID, question string, history []core.Message) string {
	return a.orchestrator.Respond(ctx, sessionID, question, history)
}

// Sessions exposes the session store, mainly for inspection in tests and
// operational tooling.
func (a *Assistant) Sessions() *session.Store {
	return a.sessions
}
