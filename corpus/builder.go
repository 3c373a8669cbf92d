package corpus

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Jerrywu108150/Sentiment-Stocks-APP/news"
	"github.com/Jerrywu108150/Sentiment-Stocks-APP/types"
)

// Builder turns the day's news for a symbol into indexable chunks.
type Builder struct {
	provider news.Provider
	splitter *Splitter
	logger   *slog.Logger
}

func NewBuilder(provider news.Provider, splitter *Splitter) *Builder {
	return &Builder{
		provider: provider,
		splitter: splitter,
		logger:   slog.Default(),
	}
}

// Build fetches news for (symbol, day), joins each record's title and
// summary, drops empty bodies and splits the rest into chunks with
// provenance metadata. Provider failures propagate to the caller.
func (b *Builder) Build(ctx context.Context, symbol string, day time.Time) ([]types.Chunk, error) {
	records, err := b.provider.CompanyNews(ctx, symbol, day)
	if err != nil {
		return nil, fmt.Errorf("fetch news for %s: %w", symbol, err)
	}

	date := day.Format("2006-01-02")
	var chunks []types.Chunk
	for _, rec := range records {
		body := strings.TrimSpace(rec.Title + "\n" + rec.Summary)
		if body == "" {
			continue
		}
		for _, part := range b.splitter.Split(body) {
			chunks = append(chunks, types.Chunk{
				ID:   uuid.New(),
				Text: part,
				Meta: types.ChunkMetadata{
					Symbol: symbol,
					Date:   date,
					URL:    rec.URL,
				},
			})
		}
	}

	b.logger.Info("corpus built",
		"symbol", symbol,
		"date", date,
		"records", len(records),
		"chunks", len(chunks))

	return chunks, nil
}
