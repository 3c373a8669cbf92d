package store

import (
	"context"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"

	"github.com/Jerrywu108150/Sentiment-Stocks-APP/types"
)

// VectorStorer is the durable set of (chunk, embedding) pairs grouped
// into named collections. Upsert is additive; there is no dedup.
type VectorStorer interface {
	// EnsureCollection creates the named collection if it does not
	// exist yet. Idempotent: repeated calls never error.
	EnsureCollection(ctx context.Context, name string) error
	// Upsert stores one chunk with its embedding in the collection.
	Upsert(ctx context.Context, collection string, chunk types.Chunk, embedding []float32) error
	// Query returns up to k chunks ordered by descending similarity to
	// the query vector. An unknown or empty collection yields an empty
	// result, not an error.
	Query(ctx context.Context, collection string, embedding []float32, k int) ([]types.ScoredChunk, error)
}

// CollectionName derives the per-symbol collection identifier. The
// mapping is deterministic so re-ingestion lands in the same collection.
func CollectionName(symbol string) string {
	return "news_" + symbol
}

type PostgresStore struct {
	pool *pgxpool.Pool
	dim  int
}

func NewPostgresStore(ctx context.Context, connStr string, dim int) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return &PostgresStore{
		pool: pool,
		dim:  dim,
	}, nil
}

func (p *PostgresStore) Init(ctx context.Context) error {
	query := fmt.Sprintf(`
	CREATE EXTENSION IF NOT EXISTS vector;

	CREATE TABLE IF NOT EXISTS collections (
		name TEXT PRIMARY KEY,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT now()
	);

	CREATE TABLE IF NOT EXISTS news_chunks (
		id UUID PRIMARY KEY,
		collection TEXT NOT NULL REFERENCES collections(name),
		symbol TEXT NOT NULL,
		news_date TEXT NOT NULL,
		url TEXT,
		content TEXT NOT NULL,
		embedding vector(%d) NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_news_chunks_collection ON news_chunks(collection);

	CREATE INDEX IF NOT EXISTS idx_news_chunks_embedding ON news_chunks
	USING ivfflat (embedding vector_cosine_ops) WITH (lists = 100);
	`, p.dim)
	_, err := p.pool.Exec(ctx, query)
	return err
}

func (p *PostgresStore) EnsureCollection(ctx context.Context, name string) error {
	_, err := p.pool.Exec(ctx,
		`INSERT INTO collections (name) VALUES ($1) ON CONFLICT (name) DO NOTHING`, name)
	if err != nil {
		return fmt.Errorf("ensure collection %s: %w", name, err)
	}
	return nil
}

func (p *PostgresStore) Upsert(ctx context.Context, collection string, chunk types.Chunk, embedding []float32) error {
	_, err := p.pool.Exec(ctx, `
	INSERT INTO news_chunks (id, collection, symbol, news_date, url, content, embedding)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, chunk.ID, collection, chunk.Meta.Symbol, chunk.Meta.Date, chunk.Meta.URL, chunk.Text,
		pgvector.NewVector(embedding))
	if err != nil {
		return fmt.Errorf("save chunk %s: %w", chunk.ID, err)
	}
	return nil
}

func (p *PostgresStore) Query(ctx context.Context, collection string, embedding []float32, k int) ([]types.ScoredChunk, error) {
	if len(embedding) == 0 {
		return nil, fmt.Errorf("empty query vector")
	}

	vector := pgvector.NewVector(embedding)

	// Tie-break on id so an unchanged collection always returns the
	// same ordering for the same query.
	rows, err := p.pool.Query(ctx, `
	SELECT id, symbol, news_date, url, content, 1 - (embedding <=> $1) AS similarity
	FROM news_chunks
	WHERE collection = $2
	ORDER BY embedding <=> $1, id
	LIMIT $3
	`, vector, collection, k)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var chunks []types.ScoredChunk
	for rows.Next() {
		var sc types.ScoredChunk
		if err := rows.Scan(
			&sc.ID,
			&sc.Meta.Symbol,
			&sc.Meta.Date,
			&sc.Meta.URL,
			&sc.Text,
			&sc.Similarity); err != nil {
			return nil, err
		}
		chunks = append(chunks, sc)
	}
	return chunks, rows.Err()
}

func (p *PostgresStore) Close() error {
	if p.pool != nil {
		p.pool.Close()
		log.Println("Postgres connection pool is closed")
	}
	return nil
}
