package index

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Jerrywu108150/Sentiment-Stocks-APP/advice"
	"github.com/Jerrywu108150/Sentiment-Stocks-APP/model"
	"github.com/Jerrywu108150/Sentiment-Stocks-APP/store"
	"github.com/Jerrywu108150/Sentiment-Stocks-APP/types"
)

// Manager owns the per-symbol collections: it embeds chunks into the
// symbol's collection and answers similarity queries against it.
type Manager struct {
	store    store.VectorStorer
	embedder model.Embedder
	logger   *slog.Logger
}

func NewManager(st store.VectorStorer, embedder model.Embedder) *Manager {
	return &Manager{
		store:    st,
		embedder: embedder,
		logger:   slog.Default(),
	}
}

// Upsert adds chunks to the symbol's collection, creating it on first
// use. Chunks written before a failure stay committed; the failing
// chunk aborts the remainder. Additive: re-ingesting the same news on
// the same day appends duplicate entries.
func (m *Manager) Upsert(ctx context.Context, symbol string, chunks []types.Chunk) error {
	coll := store.CollectionName(symbol)
	if err := m.store.EnsureCollection(ctx, coll); err != nil {
		return err
	}

	for _, ch := range chunks {
		vec, err := m.embedder.Embed(ctx, ch.Text)
		if err != nil {
			return fmt.Errorf("embed chunk %s: %w", ch.ID, err)
		}
		if err := m.store.Upsert(ctx, coll, ch, vec); err != nil {
			return err
		}
	}

	m.logger.Info("chunks indexed", "collection", coll, "count", len(chunks))
	return nil
}

// Retrieve embeds the query and returns the top-k chunk texts from the
// symbol's collection joined by newlines. An empty or unknown
// collection yields the no-context marker, not an error.
func (m *Manager) Retrieve(ctx context.Context, symbol, query string, k int) (string, error) {
	vec, err := m.embedder.Embed(ctx, query)
	if err != nil {
		return "", fmt.Errorf("embed query: %w", err)
	}

	results, err := m.store.Query(ctx, store.CollectionName(symbol), vec, k)
	if err != nil {
		return "", fmt.Errorf("query collection for %s: %w", symbol, err)
	}
	if len(results) == 0 {
		return advice.NoContext, nil
	}

	texts := make([]string, len(results))
	for i, r := range results {
		texts[i] = r.Text
	}
	m.logger.Info("context retrieved", "symbol", symbol, "chunks", len(results))
	return strings.Join(texts, "\n"), nil
}
