// Package pgvector implements vector.Searcher on PostgreSQL with the
// pgvector extension. Query text is embedded via an injected
// vector.Embedder, then matched against stored document embeddings by
// cosine distance. Rows live in a single table partitioned logically by
// namespace; the offline indexing job owns the schema and writes.
package pgvector

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	pgv "github.com/pgvector/pgvector-go"
	pgvpgx "github.com/pgvector/pgvector-go/pgx"

	"github.com/hungryfork/concierge/logging"
	"github.com/hungryfork/concierge/vector"
)

const searchQuery = `
SELECT id, content, metadata
FROM documents
WHERE namespace = $1
ORDER BY embedding <=> $2
LIMIT $3`

// Options configures a Searcher.
type Options struct {
	// QueryTimeout bounds embedding plus search per call.
	QueryTimeout time.Duration
	Logger       logging.Logger
}

// Searcher performs similarity search against a pgvector-backed index.
// Safe for concurrent use; the underlying pool handles connection reuse.
type Searcher struct {
	pool     *pgxpool.Pool
	embedder vector.Embedder
	timeout  time.Duration
	logger   logging.Logger
}

// Connect creates a pool for dsn with pgvector type support registered on
// every connection.
func Connect(ctx context.Context, dsn string, embedder vector.Embedder, optFns ...func(o *Options)) (*Searcher, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse vector dsn: %w", err)
	}
	cfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		return pgvpgx.RegisterTypes(ctx, conn)
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect vector store: %w", err)
	}
	return NewSearcher(pool, embedder, optFns...), nil
}

// NewSearcher wraps an existing pool.
func NewSearcher(pool *pgxpool.Pool, embedder vector.Embedder, optFns ...func(o *Options)) *Searcher {
	opts := Options{
		QueryTimeout: 10 * time.Second,
		Logger:       logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Searcher{pool: pool, embedder: embedder, timeout: opts.QueryTimeout, logger: opts.Logger}
}

// Search implements vector.Searcher.
func (s *Searcher) Search(ctx context.Context, query, namespace string, topK int) ([]vector.Document, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	embedding, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	rows, err := s.pool.Query(ctx, searchQuery, namespace, pgv.NewVector(embedding), topK)
	if err != nil {
		return nil, fmt.Errorf("similarity search: %w", err)
	}
	defer rows.Close()

	var docs []vector.Document
	for rows.Next() {
		var (
			doc      vector.Document
			metadata []byte
		)
		if err := rows.Scan(&doc.ID, &doc.Content, &metadata); err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		if len(metadata) > 0 {
			if err := json.Unmarshal(metadata, &doc.Metadata); err != nil {
				return nil, fmt.Errorf("decode document metadata: %w", err)
			}
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("similarity search rows: %w", err)
	}

	s.logger.Debug("vector.search",
		"namespace", namespace,
		"top_k", topK,
		"results", len(docs),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return docs, nil
}

// Close releases the pool.
func (s *Searcher) Close() { s.pool.Close() }
